package huffman

import (
	"encoding/binary"
	"fmt"
	"io"
	"unicode"
)

// SymbolKind identifies a SymbolCodec in the serialized Payload, so that a
// payload of runes is never read back as a payload of strings.
type SymbolKind byte

const (
	RuneKind   SymbolKind = 1
	StringKind SymbolKind = 2
)

// maxStringSymbol is the longest string symbol ReadSymbol will accept.
const maxStringSymbol = 1 << 24

// SymbolReader is what a SymbolCodec reads from.  *bytes.Reader and
// *bufio.Reader implement it.
type SymbolReader interface {
	io.Reader
	io.ByteReader
}

// SymbolCodec serializes symbols of type T in their natural representation.
type SymbolCodec[T comparable] interface {
	// Kind identifies this codec.
	Kind() SymbolKind

	// AppendSymbol appends the serialized form of sym to dst.  It fails
	// with ErrInvalidSymbol if ReadSymbol could not read sym back.
	AppendSymbol(dst []byte, sym T) ([]byte, error)

	// ReadSymbol reads one symbol written by AppendSymbol.
	ReadSymbol(r SymbolReader) (T, error)
}

// RuneCodec serializes a rune as the uvarint of its code point.  Only runes
// in [0, unicode.MaxRune] can be serialized.
type RuneCodec struct{}

func (RuneCodec) Kind() SymbolKind { return RuneKind }

func (RuneCodec) AppendSymbol(dst []byte, sym rune) ([]byte, error) {
	if sym < 0 || sym > unicode.MaxRune {
		return dst, fmt.Errorf("%w: code point %#x is out of range", ErrInvalidSymbol, sym)
	}
	return binary.AppendUvarint(dst, uint64(sym)), nil
}

func (RuneCodec) ReadSymbol(r SymbolReader) (rune, error) {
	u, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, fmt.Errorf("reading rune: %w", noEOF(err))
	}
	if u > unicode.MaxRune {
		return 0, fmt.Errorf("%w: code point %#x is out of range", ErrCorruptCode, u)
	}
	return rune(u), nil
}

// StringCodec serializes a string as the uvarint of its length in bytes,
// followed by its bytes.
type StringCodec struct{}

func (StringCodec) Kind() SymbolKind { return StringKind }

func (StringCodec) AppendSymbol(dst []byte, sym string) ([]byte, error) {
	if len(sym) > maxStringSymbol {
		return dst, fmt.Errorf("%w: string symbol of %d bytes exceeds limit %d", ErrInvalidSymbol, len(sym), maxStringSymbol)
	}
	dst = binary.AppendUvarint(dst, uint64(len(sym)))
	return append(dst, sym...), nil
}

func (StringCodec) ReadSymbol(r SymbolReader) (string, error) {
	u, err := binary.ReadUvarint(r)
	if err != nil {
		return "", fmt.Errorf("reading string length: %w", noEOF(err))
	}
	if u > maxStringSymbol {
		return "", fmt.Errorf("%w: string symbol of %d bytes exceeds limit %d", ErrCorruptCode, u, maxStringSymbol)
	}
	buf := make([]byte, u)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("reading string: %w", noEOF(err))
	}
	return string(buf), nil
}

var (
	_ SymbolCodec[rune]   = RuneCodec{}
	_ SymbolCodec[string] = StringCodec{}
)

// noEOF maps end-of-input errors to ErrTruncated.
func noEOF(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrTruncated
	}
	return err
}
