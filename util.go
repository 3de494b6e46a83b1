package huffman

import (
	"cmp"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// splitRanges divides n items into at most k contiguous, non-empty half-open
// ranges whose sizes differ by at most one.
func splitRanges(n int, k int) [][2]int {
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	out := make([][2]int, 0, k)
	lo := 0
	for i := 0; i < k; i++ {
		hi := lo + n/k
		if i < n%k {
			hi++
		}
		out = append(out, [2]int{lo, hi})
		lo = hi
	}
	return out
}

// forEachRange runs fn once per range of [0, n), using up to workers
// goroutines.  The first error returned by any fn is returned.
func forEachRange(n int, workers int, fn func(index int, lo int, hi int) error) error {
	ranges := splitRanges(n, workers)

	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for index, r := range ranges {
		g.Go(func() error {
			return fn(index, r[0], r[1])
		})
	}
	return g.Wait()
}

// naturalOrder returns a comparison function for T if T is one of the
// predeclared string or integer types, or nil otherwise.
func naturalOrder[T comparable]() func(a, b T) int {
	var zero T
	switch any(zero).(type) {
	case string:
		return compareAs[T, string]
	case int:
		return compareAs[T, int]
	case int8:
		return compareAs[T, int8]
	case int16:
		return compareAs[T, int16]
	case int32:
		return compareAs[T, int32]
	case int64:
		return compareAs[T, int64]
	case uint:
		return compareAs[T, uint]
	case uint8:
		return compareAs[T, uint8]
	case uint16:
		return compareAs[T, uint16]
	case uint32:
		return compareAs[T, uint32]
	case uint64:
		return compareAs[T, uint64]
	}
	return nil
}

func compareAs[T comparable, X cmp.Ordered](a, b T) int {
	return cmp.Compare(any(a).(X), any(b).(X))
}

// formatSymbol renders a symbol for dumps and error messages.
func formatSymbol[T comparable](sym T) string {
	switch v := any(sym).(type) {
	case rune:
		return strconv.QuoteRune(v)
	case string:
		return strconv.Quote(v)
	case byte:
		return strconv.QuoteRune(rune(v))
	}
	return fmt.Sprint(sym)
}
