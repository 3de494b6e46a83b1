package huffman

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSymbol indicates a token that has no code in the Encoder.
	ErrUnknownSymbol = errors.New("symbol has no Huffman code")

	// ErrCorruptCode indicates a bit sequence or code table that does not
	// form a valid prefix code.
	ErrCorruptCode = errors.New("corrupt Huffman code")

	// ErrTruncated indicates input that ended in the middle of a value.
	ErrTruncated = errors.New("truncated input")

	ErrBadMagic   = errors.New("not a Huffman payload")
	ErrBadVersion = errors.New("unsupported Huffman payload version")
	ErrChecksum   = errors.New("checksum mismatch in Huffman payload")
	ErrSymbolKind = errors.New("payload holds a different kind of symbol")

	// ErrInvalidSymbol indicates a symbol that has no lossless serialized
	// form, such as a negative rune or a string that is not UTF-8 in JSON.
	ErrInvalidSymbol = errors.New("symbol cannot be serialized")
)

// UnknownSymbolError reports a token that could not be encoded.
type UnknownSymbolError struct {
	// Line is the index of the input line, or -1 if unknown.
	Line int

	// Index is the position of the token within its line.
	Index int

	// Symbol is a printable rendition of the token.
	Symbol string
}

func (e *UnknownSymbolError) Error() string {
	if e == nil {
		return ""
	}
	if e.Line < 0 {
		return fmt.Sprintf("token %d: %s: %s", e.Index, ErrUnknownSymbol.Error(), e.Symbol)
	}
	return fmt.Sprintf("line %d, token %d: %s: %s", e.Line, e.Index, ErrUnknownSymbol.Error(), e.Symbol)
}

func (e *UnknownSymbolError) Unwrap() error { return ErrUnknownSymbol }

// DecodeError reports a bit sequence that could not be decoded.
type DecodeError struct {
	// Line is the index of the encoded line, or -1 if unknown.
	Line int

	// Offset is the index of the bit at which decoding failed.
	Offset int

	// Err is ErrCorruptCode or ErrTruncated.
	Err error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	if e.Line < 0 {
		return fmt.Sprintf("bit %d: %s", e.Offset, e.Err.Error())
	}
	return fmt.Sprintf("line %d, bit %d: %s", e.Line, e.Offset, e.Err.Error())
}

func (e *DecodeError) Unwrap() error { return e.Err }
