// Command huffpack Huffman-compresses a text file line by line and prints the
// resulting payload.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/chronos-tachyon/huffman/v2"
)

type options struct {
	tokens      string
	format      string
	workers     int
	cache       int
	skipUnknown bool
	verify      bool
	quiet       bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "huffpack [file]",
		Short:        "Huffman-compress a text file line by line",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.tokens, "tokens", "t", "chars", "symbol type: chars or words")
	flags.StringVarP(&opts.format, "format", "f", "dump", "output format: dump, json, or binary")
	flags.IntVarP(&opts.workers, "workers", "j", 0, "number of worker goroutines (0 = GOMAXPROCS)")
	flags.IntVar(&opts.cache, "cache", 0, "remember the encoding of up to this many distinct lines")
	flags.BoolVar(&opts.skipUnknown, "skip-unknown", false, "drop tokens without a code instead of failing")
	flags.BoolVar(&opts.verify, "verify", false, "decode the payload and compare it with the input")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress messages")
	return cmd
}

func run(cmd *cobra.Command, args []string, opts options) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	lines, err := readLines(in)
	if err != nil {
		return err
	}

	logOut := cmd.ErrOrStderr()
	if opts.quiet {
		logOut = io.Discard
	}
	logger := huffman.NewLogger(log.New(logOut, "huffpack: ", 0))

	huffOpts := []huffman.Option{
		huffman.WithWorkers(opts.workers),
		huffman.WithLogger(logger),
		huffman.WithLineCache(opts.cache),
	}
	if opts.skipUnknown {
		huffOpts = append(huffOpts, huffman.WithUnknownSymbols(huffman.SkipUnknown))
	}

	w := bufio.NewWriter(cmd.OutOrStdout())
	switch opts.tokens {
	case "chars":
		err = emit(w, lines, huffman.CharFrequencies, huffman.Chars, huffman.RuneCodec{}, huffOpts, opts)
	case "words":
		err = emit(w, lines, huffman.WordFrequencies, huffman.Words, huffman.StringCodec{}, huffOpts, opts)
	default:
		err = fmt.Errorf("unknown --tokens %q: want chars or words", opts.tokens)
	}
	if err != nil {
		logger.Errorf("%v", err)
		return err
	}
	return w.Flush()
}

func emit[T comparable](
	w io.Writer,
	lines []string,
	analyze huffman.Analyzer[T],
	tokenize huffman.Tokenizer[T],
	sc huffman.SymbolCodec[T],
	huffOpts []huffman.Option,
	opts options,
) error {
	p, err := huffman.Compress(analyze, tokenize, lines, huffOpts...)
	if err != nil {
		return err
	}

	if opts.verify {
		if err := verify(p, tokenize, lines); err != nil {
			return err
		}
	}

	switch opts.format {
	case "dump":
		_, err = p.Dump(w)
	case "json":
		err = json.NewEncoder(w).Encode(p)
	case "binary":
		_, err = p.MarshalTo(w, sc)
	default:
		err = fmt.Errorf("unknown --format %q: want dump, json, or binary", opts.format)
	}
	return err
}

func verify[T comparable](p *huffman.Payload[T], tokenize huffman.Tokenizer[T], lines []string) error {
	if p.Skipped() != 0 {
		return fmt.Errorf("verify: %d tokens were skipped", p.Skipped())
	}
	decoded, err := p.Decode()
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	for i, line := range lines {
		if !slices.Equal(decoded[i], tokenize(line)) {
			return fmt.Errorf("verify: line %d does not round-trip", i)
		}
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
