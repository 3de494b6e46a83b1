package huffman

import (
	"maps"
	"sync"

	"github.com/chronos-tachyon/assert"
)

// Frequencies maps each symbol to its number of occurrences.
type Frequencies[T comparable] map[T]uint64

// Total returns the sum of all counts.
func (f Frequencies[T]) Total() uint64 {
	var total uint64
	for _, n := range f {
		total += n
	}
	return total
}

// Analyzer computes the symbol frequencies of a corpus.  Compress passes its
// own options through, so WithWorkers also bounds the frequency pass.
type Analyzer[T comparable] func(lines []string, opts ...Option) Frequencies[T]

// CharFrequencies is an Analyzer that counts characters, as split by Chars.
func CharFrequencies(lines []string, opts ...Option) Frequencies[rune] {
	return Count(lines, Chars, opts...)
}

// WordFrequencies is an Analyzer that counts words, as split by Words.
func WordFrequencies(lines []string, opts ...Option) Frequencies[string] {
	return Count(lines, Words, opts...)
}

var (
	_ Analyzer[rune]   = CharFrequencies
	_ Analyzer[string] = WordFrequencies
)

// Count tokenizes every line and counts the occurrences of each symbol.
//
// The lines are split into contiguous ranges, one per worker.  Each worker
// counts its range into a private map, and the partial maps are then merged
// pairwise.  The result does not depend on the number of workers.
//
func Count[T comparable](lines []string, tokenize Tokenizer[T], opts ...Option) Frequencies[T] {
	cfg := makeConfig(opts)

	partials := make([]Frequencies[T], len(splitRanges(len(lines), cfg.workers)))
	err := forEachRange(len(lines), cfg.workers, func(index int, lo int, hi int) error {
		local := make(Frequencies[T])
		for _, line := range lines[lo:hi] {
			for _, sym := range tokenize(line) {
				local[sym]++
			}
		}
		partials[index] = local
		return nil
	})
	assert.Assertf(err == nil, "counting failed: %v", err)
	return reduceFrequencies(partials)
}

// Merge returns a new map holding the summed counts of a and b.  Neither
// argument is modified.
func Merge[T comparable](a, b Frequencies[T]) Frequencies[T] {
	if len(a) < len(b) {
		a, b = b, a
	}
	out := maps.Clone(a)
	if out == nil {
		out = make(Frequencies[T], len(b))
	}
	mergeInto(out, b)
	return out
}

func mergeInto[T comparable](dst, src Frequencies[T]) {
	for sym, n := range src {
		dst[sym] += n
	}
}

// reduceFrequencies merges the partial maps in rounds, combining neighbors
// pairwise.  The partial maps are consumed.
func reduceFrequencies[T comparable](parts []Frequencies[T]) Frequencies[T] {
	if len(parts) == 0 {
		return make(Frequencies[T])
	}
	for len(parts) > 1 {
		next := make([]Frequencies[T], (len(parts)+1)/2)
		var wg sync.WaitGroup
		for i := range next {
			wg.Add(1)
			go func() {
				defer wg.Done()
				dst := parts[2*i]
				if j := 2*i + 1; j < len(parts) {
					src := parts[j]
					if len(dst) < len(src) {
						dst, src = src, dst
					}
					mergeInto(dst, src)
				}
				next[i] = dst
			}()
		}
		wg.Wait()
		parts = next
	}
	return parts[0]
}
