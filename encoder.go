package huffman

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/chronos-tachyon/assert"
)

// Entry pairs a symbol with its code.
type Entry[T comparable] struct {
	Symbol T
	Code   Code
}

// Encoder maps each symbol of a Huffman tree to its code.  Encoders are
// immutable and safe for concurrent use.
type Encoder[T comparable] struct {
	codes   map[T]Code
	minSize int
	maxSize int
}

// NewEncoder derives the Encoder for the given tree.  Each symbol's code is
// the path from the root to its Leaf, with false for left and true for
// right.
//
// A tree that is a bare Leaf gets the 1-bit code "0" for its only symbol, so
// that every token of a line costs at least one bit and the number of tokens
// can be recovered from the line's bit length.  The empty tree yields an empty
// Encoder.
//
func NewEncoder[T comparable](tree *Tree[T]) *Encoder[T] {
	e := &Encoder[T]{codes: make(map[T]Code)}

	switch tree.Kind() {
	case EmptyKind:
		return e
	case LeafKind:
		e.codes[tree.data] = MakeCode(false)
		e.minSize, e.maxSize = 1, 1
		return e
	}

	var hasMinMax bool
	tree.Walk(func(path Code, node *Tree[T]) {
		if node.kind != LeafKind {
			return
		}

		_, dup := e.codes[node.data]
		assert.Assertf(!dup, "symbol %s appears in more than one leaf", formatSymbol(node.data))
		e.codes[node.data] = path

		size := path.Len()
		if !hasMinMax {
			hasMinMax = true
			e.minSize = size
			e.maxSize = size
		} else if e.minSize > size {
			e.minSize = size
		} else if e.maxSize < size {
			e.maxSize = size
		}
	})
	return e
}

// newEncoderFromEntries reconstructs an Encoder from a code table that came
// from outside, e.g. a serialized Payload.  The codes themselves are checked
// by NewDecoder.
func newEncoderFromEntries[T comparable](entries []Entry[T]) (*Encoder[T], error) {
	e := &Encoder[T]{codes: make(map[T]Code, len(entries))}
	for index, entry := range entries {
		if _, dup := e.codes[entry.Symbol]; dup {
			return nil, fmt.Errorf("%w: entry %d: duplicate symbol %s", ErrCorruptCode, index, formatSymbol(entry.Symbol))
		}
		e.codes[entry.Symbol] = entry.Code

		size := entry.Code.Len()
		if index == 0 || e.minSize > size {
			e.minSize = size
		}
		if index == 0 || e.maxSize < size {
			e.maxSize = size
		}
	}
	return e, nil
}

// Encode returns the code for a symbol.  The second result is false if the
// symbol has no code.
func (e *Encoder[T]) Encode(symbol T) (Code, bool) {
	hc, found := e.codes[symbol]
	return hc, found
}

// EncodeAll concatenates the codes of the given tokens.  A token without a
// code fails with an *UnknownSymbolError.
func (e *Encoder[T]) EncodeAll(tokens []T) (Code, error) {
	out, _, err := e.encodeTokens(tokens, RejectUnknown)
	return out, err
}

// encodeTokens is EncodeAll with a choice of policy.  It also returns the
// number of skipped tokens.
func (e *Encoder[T]) encodeTokens(tokens []T, policy UnknownSymbolPolicy) (Code, int, error) {
	var out Code
	var skipped int
	for index, token := range tokens {
		hc, found := e.codes[token]
		if !found {
			if policy == SkipUnknown {
				skipped++
				continue
			}
			return Code{}, skipped, &UnknownSymbolError{Line: -1, Index: index, Symbol: formatSymbol(token)}
		}
		out.extend(hc)
	}
	return out, skipped, nil
}

// Len returns the number of symbols with a code.
func (e *Encoder[T]) Len() int {
	return len(e.codes)
}

// MinSize is the bit length of the shortest code.
func (e *Encoder[T]) MinSize() int {
	return e.minSize
}

// MaxSize is the bit length of the longest code.
func (e *Encoder[T]) MaxSize() int {
	return e.maxSize
}

// Cost returns the total number of bits needed to encode a corpus with the
// given symbol frequencies.  Symbols without a code are ignored.
func (e *Encoder[T]) Cost(freqs Frequencies[T]) uint64 {
	var total uint64
	for sym, n := range freqs {
		if hc, found := e.codes[sym]; found {
			total += n * uint64(hc.Len())
		}
	}
	return total
}

// Entries lists every (symbol, code) pair, ordered by code length and then by
// code bits.  This is the order in which the code table is serialized.
func (e *Encoder[T]) Entries() []Entry[T] {
	out := make([]Entry[T], 0, len(e.codes))
	for sym, hc := range e.codes {
		out = append(out, Entry[T]{sym, hc})
	}
	slices.SortFunc(out, func(a, b Entry[T]) int {
		return compareCodes(a.Code, b.Code)
	})
	return out
}

// Decoder returns the inverse of this Encoder.
func (e *Encoder[T]) Decoder() *Decoder[T] {
	d, err := NewDecoder(e.Entries())
	assert.Assertf(err == nil, "Encoder is not a prefix code: %v", err)
	return d
}

// Dump writes a programmer-readable debugging dump of the Encoder's current
// state to the given writer.
func (e *Encoder[T]) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Encoder{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", e.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", e.maxSize)
	for _, entry := range e.Entries() {
		fmt.Fprintf(&buf, "\tEncode(%s) = %s\n", formatSymbol(entry.Symbol), entry.Code)
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}
