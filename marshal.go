package huffman

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

const (
	payloadMagic   = "HUFP"
	payloadVersion = uint16(1)

	payloadHeaderLen   = len(payloadMagic) + 2 + 1
	payloadChecksumLen = 8

	maxPayloadBytes = 1 << 30 // 1 GiB
)

// Wire format (version 1):
//
//	magic    = "HUFP"
//	version  = uint16 little-endian
//	kind     = uint8 (SymbolKind)
//	nEntries = uvarint
//	repeat nEntries times, ordered as by Encoder.Entries:
//	  symbol  = as written by SymbolCodec.AppendSymbol
//	  codeLen = uvarint
//	  code    = ceil(codeLen/8) bytes, as by Code.Bytes
//	nLines   = uvarint
//	repeat nLines times:
//	  lineLen = uvarint
//	  line    = ceil(lineLen/8) bytes, as by Code.Bytes
//	checksum = uint64 little-endian, xxhash64 of every preceding byte

// Marshal serializes this Payload, writing symbols with sc.  It fails with
// ErrInvalidSymbol if sc cannot represent one of the symbols.
func (p *Payload[T]) Marshal(sc SymbolCodec[T]) ([]byte, error) {
	p.mustBeAssembled("Marshal")
	entries := p.encoder.Entries()

	buf := make([]byte, 0, payloadHeaderLen+payloadChecksumLen+int(p.BitLen()/8)+4*len(entries)+2*len(p.lines))
	buf = append(buf, payloadMagic...)
	buf = binary.LittleEndian.AppendUint16(buf, payloadVersion)
	buf = append(buf, byte(sc.Kind()))

	buf = binary.AppendUvarint(buf, uint64(len(entries)))
	for index, entry := range entries {
		var err error
		buf, err = sc.AppendSymbol(buf, entry.Symbol)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", index, err)
		}
		buf = appendCode(buf, entry.Code)
	}

	buf = binary.AppendUvarint(buf, uint64(len(p.lines)))
	for _, hc := range p.lines {
		buf = appendCode(buf, hc)
	}

	return binary.LittleEndian.AppendUint64(buf, xxhash.Sum64(buf)), nil
}

// MarshalTo writes the serialized form of this Payload to w.
func (p *Payload[T]) MarshalTo(w io.Writer, sc SymbolCodec[T]) (int64, error) {
	data, err := p.Marshal(sc)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return int64(n), err
	}
	if n != len(data) {
		return int64(n), io.ErrShortWrite
	}
	return int64(n), nil
}

// ReadPayload reads a Payload written by MarshalTo, reading symbols with sc.
func ReadPayload[T comparable](r io.Reader, sc SymbolCodec[T]) (*Payload[T], error) {
	data, err := io.ReadAll(io.LimitReader(r, maxPayloadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxPayloadBytes {
		return nil, fmt.Errorf("payload exceeds %d bytes", maxPayloadBytes)
	}
	return UnmarshalPayload(data, sc)
}

// UnmarshalPayload parses the output of Marshal.
func UnmarshalPayload[T comparable](data []byte, sc SymbolCodec[T]) (*Payload[T], error) {
	if len(data) < payloadHeaderLen+payloadChecksumLen {
		return nil, fmt.Errorf("%w: payload of %d bytes is shorter than its header", ErrTruncated, len(data))
	}

	if string(data[:len(payloadMagic)]) != payloadMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadMagic, data[:len(payloadMagic)])
	}
	if version := binary.LittleEndian.Uint16(data[len(payloadMagic):]); version != payloadVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrBadVersion, version, payloadVersion)
	}

	body := data[:len(data)-payloadChecksumLen]
	expectSum := binary.LittleEndian.Uint64(data[len(body):])
	if actualSum := xxhash.Sum64(body); expectSum != actualSum {
		return nil, fmt.Errorf("%w: expected %016x, got %016x", ErrChecksum, expectSum, actualSum)
	}
	if kind := SymbolKind(body[payloadHeaderLen-1]); kind != sc.Kind() {
		return nil, fmt.Errorf("%w: got kind %d, want %d", ErrSymbolKind, kind, sc.Kind())
	}

	br := bytes.NewReader(body[payloadHeaderLen:])

	numEntries, err := readCount(br, "entry")
	if err != nil {
		return nil, err
	}
	entries := make([]Entry[T], 0, numEntries)
	for i := 0; i < numEntries; i++ {
		sym, err := sc.ReadSymbol(br)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		hc, err := readCode(br)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, Entry[T]{sym, hc})
	}

	numLines, err := readCount(br, "line")
	if err != nil {
		return nil, err
	}
	lines := make([]Code, 0, numLines)
	for i := 0; i < numLines; i++ {
		hc, err := readCode(br)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		lines = append(lines, hc)
	}

	if br.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptCode, br.Len())
	}
	return assemblePayload(entries, lines)
}

// MarshalJSON renders this Payload as
// {"encoder":[{"symbol":S,"code":"0101"},...],"lines":["0101...",...]}.
//
// JSON strings cannot carry arbitrary bytes, so a string symbol that is not
// valid UTF-8 fails with ErrInvalidSymbol.  Use Marshal for such payloads.
//
func (p *Payload[T]) MarshalJSON() ([]byte, error) {
	p.mustBeAssembled("MarshalJSON")
	entries := p.encoder.Entries()
	raw := payloadJSON[T]{
		Encoder: make([]entryJSON[T], len(entries)),
		Lines:   p.lines,
	}
	for i, entry := range entries {
		if str, ok := symbolString(entry.Symbol); ok && !utf8.ValidString(str) {
			return nil, fmt.Errorf("%w: entry %d: string symbol %q is not valid UTF-8", ErrInvalidSymbol, i, str)
		}
		raw.Encoder[i] = entryJSON[T](entry)
	}
	if raw.Lines == nil {
		raw.Lines = []Code{}
	}
	return json.Marshal(raw)
}

// UnmarshalJSON parses the output of MarshalJSON.
func (p *Payload[T]) UnmarshalJSON(data []byte) error {
	var raw payloadJSON[T]
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	entries := make([]Entry[T], len(raw.Encoder))
	for i, entry := range raw.Encoder {
		entries[i] = Entry[T](entry)
	}
	parsed, err := assemblePayload(entries, raw.Lines)
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}

var (
	_ json.Marshaler   = (*Payload[rune])(nil)
	_ json.Unmarshaler = (*Payload[rune])(nil)
)

type payloadJSON[T comparable] struct {
	Encoder []entryJSON[T] `json:"encoder"`
	Lines   []Code         `json:"lines"`
}

type entryJSON[T comparable] struct {
	Symbol T    `json:"symbol"`
	Code   Code `json:"code"`
}

// assemblePayload validates a code table and the lines encoded with it.
// Every line must decode cleanly.
func assemblePayload[T comparable](entries []Entry[T], lines []Code) (*Payload[T], error) {
	enc, err := newEncoderFromEntries(entries)
	if err != nil {
		return nil, err
	}
	dec, err := NewDecoder(entries)
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []Code{}
	}
	p := &Payload[T]{encoder: enc, decoder: dec, lines: lines}
	for i, hc := range lines {
		if _, err := dec.decodeAll(hc, i); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// symbolString returns the underlying string of sym if T has kind string.
func symbolString[T comparable](sym T) (string, bool) {
	v := reflect.ValueOf(sym)
	if v.Kind() != reflect.String {
		return "", false
	}
	return v.String(), true
}

func appendCode(dst []byte, hc Code) []byte {
	dst = binary.AppendUvarint(dst, uint64(hc.Len()))
	return append(dst, hc.Bytes()...)
}

func readCode(br *bytes.Reader) (Code, error) {
	size, err := binary.ReadUvarint(br)
	if err != nil {
		return Code{}, fmt.Errorf("reading bit length: %w", noEOF(err))
	}
	numBytes := (size + 7) / 8
	if size > 8*uint64(br.Len()) || numBytes > uint64(br.Len()) {
		return Code{}, fmt.Errorf("%w: %d bits with %d bytes left", ErrTruncated, size, br.Len())
	}
	data := make([]byte, numBytes)
	if _, err := io.ReadFull(br, data); err != nil {
		return Code{}, noEOF(err)
	}
	return CodeFromBytes(int(size), data)
}

// readCount reads an element count.  Every element takes at least one byte,
// so a count larger than the remaining input is rejected before allocating.
func readCount(br *bytes.Reader, what string) (int, error) {
	n, err := binary.ReadUvarint(br)
	if err != nil {
		return 0, fmt.Errorf("reading %s count: %w", what, noEOF(err))
	}
	if n > uint64(br.Len()) {
		return 0, fmt.Errorf("%w: %s count %d exceeds %d bytes left", ErrTruncated, what, n, br.Len())
	}
	return int(n), nil
}
