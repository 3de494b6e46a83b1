package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/chronos-tachyon/huffman/v2"
)

const testInput = "Hello, world!\nhello, folks!\nhello, world!\nhello there!\n"

func runCommand(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRun_Binary(t *testing.T) {
	stdout, stderr, err := runCommand(t, testInput, "--format", "binary", "--verify", "-j", "2")
	if err != nil {
		t.Fatalf("command failed: %v\n%s", err, stderr)
	}
	if !strings.Contains(stderr, "[INFO] huffman: 4 lines") {
		t.Errorf("missing progress message:\n%s", stderr)
	}

	p, err := huffman.ReadPayload(strings.NewReader(stdout), huffman.RuneCodec{})
	if err != nil {
		t.Fatalf("ReadPayload failed: %v", err)
	}
	decoded, err := p.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded) != 4 || string(decoded[3]) != "hello there!" {
		t.Errorf("wrong output: %q", decoded)
	}
}

func TestRun_JSONWords(t *testing.T) {
	stdout, stderr, err := runCommand(t, testInput, "--tokens", "words", "--format", "json", "--quiet")
	if err != nil {
		t.Fatalf("command failed: %v\n%s", err, stderr)
	}
	if stderr != "" {
		t.Errorf("expected no log output with --quiet, got:\n%s", stderr)
	}

	var p huffman.Payload[string]
	if err := json.Unmarshal([]byte(stdout), &p); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	line, err := p.DecodeLine(0)
	if err != nil {
		t.Fatalf("DecodeLine failed: %v", err)
	}
	if strings.Join(line, " ") != "Hello, world!" {
		t.Errorf("wrong output: %q", line)
	}
}

func TestRun_Dump(t *testing.T) {
	stdout, _, err := runCommand(t, "aab\n\nba\n", "-q")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}
	if !strings.Contains(stdout, "\tLine(0) = \"110\"\n") {
		t.Errorf("unexpected dump:\n%s", stdout)
	}
}

func TestRun_BadFlags(t *testing.T) {
	if _, _, err := runCommand(t, testInput, "--tokens", "bytes"); err == nil {
		t.Errorf("expected an error for --tokens bytes")
	}
	if _, _, err := runCommand(t, testInput, "--format", "xml"); err == nil {
		t.Errorf("expected an error for --format xml")
	}
}

func TestRun_JSONNonUTF8(t *testing.T) {
	_, _, err := runCommand(t, "\xff a\n\xfe a a\n", "--tokens", "words", "--format", "json", "-q")
	if !errors.Is(err, huffman.ErrInvalidSymbol) {
		t.Errorf("expected ErrInvalidSymbol, got %v", err)
	}
}
