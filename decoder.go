package huffman

import (
	"bytes"
	"fmt"
	"io"
	"slices"
)

// Decoder maps codes back to symbols.  Decoders are immutable and safe for
// concurrent use.
type Decoder[T comparable] struct {
	table   map[string]decoderData[T]
	numSyms int
	minSize int
	maxSize int
}

// NewDecoder builds a Decoder from a list of (symbol, code) pairs.  It fails
// with ErrCorruptCode if any code is empty, if two codes are equal, or if one
// code is a prefix of another.
func NewDecoder[T comparable](entries []Entry[T]) (*Decoder[T], error) {
	d := &Decoder[T]{
		table:   make(map[string]decoderData[T], 2*len(entries)),
		numSyms: len(entries),
	}

	for index, entry := range entries {
		size := entry.Code.Len()
		if size == 0 {
			return nil, fmt.Errorf("%w: entry %d: empty code for symbol %s", ErrCorruptCode, index, formatSymbol(entry.Symbol))
		}
		if index == 0 || d.minSize > size {
			d.minSize = size
		}
		if index == 0 || d.maxSize < size {
			d.maxSize = size
		}
		if err := fillTable(d.table, entry.Symbol, entry.Code); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %s", ErrCorruptCode, index, err.Error())
		}
	}
	return d, nil
}

// Decode attempts to decode a code into a symbol.
//
// If the Decode is completely successful, found is true and minSize ==
// maxSize == hc.Len().
//
// If the Decode fails due to insufficient bits, found is false and at least
// (minSize - hc.Len()) additional bits are required to decode this symbol.  No
// more than (maxSize - hc.Len()) additional bits will be required.
//
// If the Decode fails due to unreasonable input, found is false and minSize
// == maxSize == 0.
//
func (d *Decoder[T]) Decode(hc Code) (symbol T, found bool, minSize int, maxSize int) {
	dd, ok := d.table[hc.key()]
	if !ok {
		return symbol, false, 0, 0
	}
	return dd.symbol, dd.found, dd.minSize, dd.maxSize
}

// DecodeAll decodes a concatenation of codes into the symbols they encode.
// It fails with a *DecodeError if the bits do not form a sequence of codes.
func (d *Decoder[T]) DecodeAll(bits Code) ([]T, error) {
	return d.decodeAll(bits, -1)
}

func (d *Decoder[T]) decodeAll(bits Code, line int) ([]T, error) {
	var out []T
	if d.minSize > 0 {
		out = make([]T, 0, bits.Len()/d.minSize)
	}

	var hc Code
	start := 0
	for i := 0; i < bits.Len(); i++ {
		hc.push(bits.Bit(i))
		dd, ok := d.table[hc.key()]
		if !ok {
			return nil, &DecodeError{Line: line, Offset: start, Err: ErrCorruptCode}
		}
		if dd.found {
			out = append(out, dd.symbol)
			hc = Code{}
			start = i + 1
		}
	}
	if hc.Len() != 0 {
		return nil, &DecodeError{Line: line, Offset: start, Err: ErrTruncated}
	}
	return out, nil
}

// Len returns the number of symbols.
func (d *Decoder[T]) Len() int {
	return d.numSyms
}

// MinSize is the bit length of the shortest legal code.
func (d *Decoder[T]) MinSize() int {
	return d.minSize
}

// MaxSize is the bit length of the longest legal code.
func (d *Decoder[T]) MaxSize() int {
	return d.maxSize
}

// Dump writes a programmer-readable debugging dump of the Decoder's current
// state to the given writer.
func (d *Decoder[T]) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Decoder{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", d.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", d.maxSize)
	keys := make([]Code, 0, len(d.table))
	for key := range d.table {
		keys = append(keys, MustParseCode(key))
	}
	slices.SortFunc(keys, compareCodes)
	for _, hc := range keys {
		dd := d.table[hc.key()]
		sym := "-"
		if dd.found {
			sym = formatSymbol(dd.symbol)
		}
		fmt.Fprintf(&buf, "\tDecode(%s) = {%s, %d, %d}\n", hc, sym, dd.minSize, dd.maxSize)
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// decoderData is stored for every complete code and for every proper prefix
// of one.  For a prefix, found is false and minSize/maxSize bound the lengths
// of the complete codes beneath it.
type decoderData[T comparable] struct {
	symbol  T
	found   bool
	minSize int
	maxSize int
}

func fillTable[T comparable](table map[string]decoderData[T], symbol T, hc Code) error {
	if old, found := table[hc.key()]; found {
		if old.found {
			return fmt.Errorf("code %s is shared by symbols %s and %s", hc, formatSymbol(old.symbol), formatSymbol(symbol))
		}
		return fmt.Errorf("code %s of symbol %s is a prefix of another code", hc, formatSymbol(symbol))
	}

	dd := decoderData[T]{symbol: symbol, found: true, minSize: hc.Len(), maxSize: hc.Len()}
	table[hc.key()] = dd

	for hc.Len() != 0 {
		// For each hc "xxx...a", look up the sibling "xxx...A" where
		// A = NOT a, and merge both into ddNew, the new parent.

		ddNew := decoderData[T]{minSize: dd.minSize, maxSize: dd.maxSize}
		if ddSibling, found := table[hc.flipLast().key()]; found {
			if ddNew.minSize > ddSibling.minSize {
				ddNew.minSize = ddSibling.minSize
			}
			if ddNew.maxSize < ddSibling.maxSize {
				ddNew.maxSize = ddSibling.maxSize
			}
		}

		// Mutate hc from "xxx...a" to "xxx...".

		hc = hc.truncate(hc.Len() - 1)
		key := hc.key()

		ddOld, found := table[key]
		if found && ddOld.found {
			return fmt.Errorf("code %s of symbol %s is a prefix of the code of symbol %s", hc, formatSymbol(ddOld.symbol), formatSymbol(symbol))
		}

		// If table[hc] already equals ddNew, we can stop climbing.

		if found && ddOld == ddNew {
			break
		}

		table[key] = ddNew
		dd = ddNew
	}
	return nil
}
