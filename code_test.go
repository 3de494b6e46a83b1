package huffman

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCode_ParseAndString(t *testing.T) {
	type testRow struct {
		input  string
		size   int
		expect string
	}

	testData := [...]testRow{
		{input: "", size: 0, expect: `""`},
		{input: "0", size: 1, expect: `"0"`},
		{input: "101", size: 3, expect: `"101"`},
		{input: "0110100111", size: 10, expect: `"0110100111"`},
	}
	for _, row := range testData {
		t.Run(row.expect, func(t *testing.T) {
			hc, err := ParseCode(row.input)
			if err != nil {
				t.Fatalf("ParseCode failed: %v", err)
			}
			if hc.Len() != row.size {
				t.Errorf("expected size %d, got %d", row.size, hc.Len())
			}
			if actual := hc.String(); actual != row.expect {
				t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", row.expect, actual)
			}
		})
	}

	if _, err := ParseCode("01x"); err == nil {
		t.Errorf("ParseCode accepted invalid input")
	}
}

func TestCode_MakeCode(t *testing.T) {
	hc := MakeCode(true, false, false, true)
	if expect := MustParseCode("1001"); !hc.Equal(expect) {
		t.Errorf("wrong code:\n\texpect: %s\n\tactual: %s", expect, hc)
	}
	if !hc.Bit(0) || hc.Bit(1) || hc.Bit(2) || !hc.Bit(3) {
		t.Errorf("wrong bits in %s", hc)
	}
}

func TestCode_LongCodes(t *testing.T) {
	// 150 bits spans three words.
	pattern := strings.Repeat("1100101", 21) + "101"

	var hc Code
	for i := 0; i < len(pattern); i += 10 {
		end := i + 10
		if end > len(pattern) {
			end = len(pattern)
		}
		hc.extend(MustParseCode(pattern[i:end]))
	}

	if hc.Len() != len(pattern) {
		t.Fatalf("expected size %d, got %d", len(pattern), hc.Len())
	}
	if actual := hc.key(); actual != pattern {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", pattern, actual)
	}
	if !hc.Equal(MustParseCode(pattern)) {
		t.Errorf("extend and ParseCode disagree")
	}

	packed := hc.Bytes()
	if len(packed) != 19 {
		t.Errorf("expected 19 packed bytes, got %d", len(packed))
	}
	unpacked, err := CodeFromBytes(hc.Len(), packed)
	if err != nil {
		t.Fatalf("CodeFromBytes failed: %v", err)
	}
	if !unpacked.Equal(hc) {
		t.Errorf("wrong code after Bytes/CodeFromBytes:\n\texpect: %s\n\tactual: %s", hc, unpacked)
	}
}

func TestCode_Bytes(t *testing.T) {
	type testRow struct {
		input  string
		expect []byte
	}

	testData := [...]testRow{
		{input: "", expect: []byte{}},
		{input: "1", expect: []byte{0x80}},
		{input: "110", expect: []byte{0xc0}},
		{input: "00000001", expect: []byte{0x01}},
		{input: "101010101", expect: []byte{0xaa, 0x80}},
	}
	for _, row := range testData {
		hc := MustParseCode(row.input)
		t.Run(hc.String(), func(t *testing.T) {
			actual := hc.Bytes()
			if !bytes.Equal(row.expect, actual) {
				t.Errorf("wrong bytes:\n\texpect: %#v\n\tactual: %#v", row.expect, actual)
			}
		})
	}

	if _, err := CodeFromBytes(9, []byte{0xaa}); !errors.Is(err, ErrCorruptCode) {
		t.Errorf("expected ErrCorruptCode, got %v", err)
	}
}

func TestCode_HasPrefix(t *testing.T) {
	hc := MustParseCode("10110")
	for _, prefix := range []string{"", "1", "10", "101", "1011", "10110"} {
		if !hc.HasPrefix(MustParseCode(prefix)) {
			t.Errorf("expected %q to be a prefix of %s", prefix, hc)
		}
	}
	for _, other := range []string{"0", "11", "10111", "101100"} {
		if hc.HasPrefix(MustParseCode(other)) {
			t.Errorf("expected %q not to be a prefix of %s", other, hc)
		}
	}
}

func TestCode_Compare(t *testing.T) {
	sorted := []string{"", "0", "1", "00", "01", "10", "11", "000", "100"}
	for i := range sorted {
		for j := range sorted {
			a, b := MustParseCode(sorted[i]), MustParseCode(sorted[j])
			actual := compareCodes(a, b)
			var expect int
			switch {
			case i < j:
				expect = -1
			case i > j:
				expect = 1
			}
			if actual != expect {
				t.Errorf("compareCodes(%s, %s): expected %d, got %d", a, b, expect, actual)
			}
		}
	}
}

func TestCode_TextMarshaling(t *testing.T) {
	hc := MustParseCode("0011")
	text, err := hc.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	if string(text) != "0011" {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", "0011", text)
	}

	var parsed Code
	if err := parsed.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if !parsed.Equal(hc) {
		t.Errorf("wrong code:\n\texpect: %s\n\tactual: %s", hc, parsed)
	}
}
