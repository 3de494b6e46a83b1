package huffman

import (
	"bytes"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/chronos-tachyon/assert"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Payload bundles an Encoder with the encoded bits of every line of a corpus,
// in input order.  Payloads are immutable.
type Payload[T comparable] struct {
	encoder *Encoder[T]
	decoder *Decoder[T]
	lines   []Code
	skipped uint64
}

// Compress encodes a corpus line by line.
//
// It computes the symbol frequencies with analyze, builds a Huffman tree and
// its Encoder, then tokenizes and encodes each line independently, in
// parallel.  The resulting Payload holds one Code per line, in the order of
// lines.
//
// A token without a code (possible only if analyze and tokenize disagree)
// fails the whole call with an *UnknownSymbolError, unless SkipUnknown was
// selected with WithUnknownSymbols.
//
// Compress performs no I/O.  An empty corpus yields a Payload with an empty
// Encoder.
//
func Compress[T comparable](analyze Analyzer[T], tokenize Tokenizer[T], lines []string, opts ...Option) (*Payload[T], error) {
	assert.Assertf(analyze != nil, "analyze is nil")
	assert.Assertf(tokenize != nil, "tokenize is nil")

	cfg := makeConfig(opts)

	freqs := analyze(lines, opts...)
	tree := Build(freqs)
	enc := NewEncoder(tree)
	cfg.logger.Infof("huffman: %d lines, %d symbols, %d distinct, code lengths %d..%d bits",
		len(lines), tree.Freq(), enc.Len(), enc.MinSize(), enc.MaxSize())

	var cache *lru.Cache[string, Code]
	if cfg.lineCache > 0 {
		var err error
		cache, err = lru.New[string, Code](cfg.lineCache)
		if err != nil {
			return nil, fmt.Errorf("creating line cache: %w", err)
		}
	}

	out := make([]Code, len(lines))
	var skipped atomic.Uint64
	err := forEachRange(len(lines), cfg.workers, func(_ int, lo int, hi int) error {
		for i := lo; i < hi; i++ {
			line := lines[i]
			if cache != nil {
				if hc, found := cache.Get(line); found {
					out[i] = hc
					continue
				}
			}

			hc, n, err := enc.encodeTokens(tokenize(line), cfg.unknown)
			if err != nil {
				if ue, ok := err.(*UnknownSymbolError); ok {
					ue.Line = i
				}
				return err
			}
			if n != 0 {
				skipped.Add(uint64(n))
				cfg.logger.Warnf("huffman: line %d: skipped %d tokens without a code", i, n)
			} else if cache != nil {
				cache.Add(line, hc)
			}
			out[i] = hc
		}
		return nil
	})
	if err != nil {
		cfg.logger.Errorf("huffman: %v", err)
		return nil, err
	}

	p := &Payload[T]{
		encoder: enc,
		decoder: enc.Decoder(),
		lines:   out,
		skipped: skipped.Load(),
	}
	cfg.logger.Infof("huffman: encoded %d lines into %d bits", len(out), p.BitLen())
	return p, nil
}

// mustBeAssembled panics if p is a zero Payload, which has no code table.
// Payloads come from Compress, ReadPayload, UnmarshalPayload, or
// UnmarshalJSON.
func (p *Payload[T]) mustBeAssembled(method string) {
	assert.Assertf(p.encoder != nil, "Payload.%s called on a zero Payload; use Compress or an Unmarshal function", method)
}

// Encoder returns the Encoder that produced this Payload.
func (p *Payload[T]) Encoder() *Encoder[T] {
	return p.encoder
}

// Decoder returns the inverse of Encoder.
func (p *Payload[T]) Decoder() *Decoder[T] {
	return p.decoder
}

// Len returns the number of lines.
func (p *Payload[T]) Len() int {
	return len(p.lines)
}

// Line returns the encoded bits of line i.
func (p *Payload[T]) Line(i int) Code {
	assert.Assertf(i >= 0 && i < len(p.lines), "line index %d out of range [0, %d)", i, len(p.lines))
	return p.lines[i]
}

// Lines returns the encoded bits of every line.
func (p *Payload[T]) Lines() []Code {
	out := make([]Code, len(p.lines))
	copy(out, p.lines)
	return out
}

// BitLen returns the total number of encoded bits across all lines.
func (p *Payload[T]) BitLen() uint64 {
	var total uint64
	for _, hc := range p.lines {
		total += uint64(hc.Len())
	}
	return total
}

// Skipped returns the number of tokens dropped under SkipUnknown.
func (p *Payload[T]) Skipped() uint64 {
	return p.skipped
}

// DecodeLine decodes line i back into its tokens.
func (p *Payload[T]) DecodeLine(i int) ([]T, error) {
	return p.decoder.decodeAll(p.Line(i), i)
}

// Decode decodes every line back into its tokens.
func (p *Payload[T]) Decode() ([][]T, error) {
	out := make([][]T, len(p.lines))
	for i, hc := range p.lines {
		tokens, err := p.decoder.decodeAll(hc, i)
		if err != nil {
			return nil, err
		}
		out[i] = tokens
	}
	return out, nil
}

// Dump writes a programmer-readable debugging dump of the Payload to the
// given writer.
func (p *Payload[T]) Dump(w io.Writer) (int64, error) {
	p.mustBeAssembled("Dump")
	var buf bytes.Buffer
	if _, err := p.encoder.Dump(&buf); err != nil {
		return 0, err
	}
	buf.WriteString("Payload{\n")
	fmt.Fprintf(&buf, "\tLen() = %d\n", len(p.lines))
	fmt.Fprintf(&buf, "\tBitLen() = %d\n", p.BitLen())
	fmt.Fprintf(&buf, "\tSkipped() = %d\n", p.skipped)
	for i, hc := range p.lines {
		fmt.Fprintf(&buf, "\tLine(%d) = %s\n", i, hc)
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}
