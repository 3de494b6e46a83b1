package huffman

import (
	"bytes"
	"fmt"
	mathbits "math/bits"
	"strconv"
	"strings"

	"github.com/chronos-tachyon/assert"
	"github.com/icza/bitio"
)

const wordBits = 64

// Code represents an immutable sequence of bits of arbitrary length.  The
// zero value is the empty sequence.
//
// Codes are used both for the code word of a single symbol and for the
// concatenated code words of an entire line.
//
type Code struct {
	size int

	// words holds the actual values of the bits.  Bit i is stored in
	// words[i/64] at position i%64, counting from the least significant
	// bit.  Bits at positions >= size are always zero.
	words []uint64
}

// MakeCode is a convenience function that constructs a Code from a list of
// bits, first bit first.
func MakeCode(bits ...bool) Code {
	var c Code
	for _, bit := range bits {
		c.push(bit)
	}
	return c
}

// ParseCode parses a string of '0' and '1' characters into a Code.
func ParseCode(str string) (Code, error) {
	var c Code
	for i := 0; i < len(str); i++ {
		switch str[i] {
		case '0':
			c.push(false)
		case '1':
			c.push(true)
		default:
			return Code{}, fmt.Errorf("invalid character %q at index %d of bit string %q", str[i], i, str)
		}
	}
	return c, nil
}

// MustParseCode is like ParseCode, but panics on error.
func MustParseCode(str string) Code {
	c, err := ParseCode(str)
	if err != nil {
		panic(err)
	}
	return c
}

// CodeFromBytes reconstructs a Code of the given size from the packed form
// returned by Bytes.
func CodeFromBytes(size int, data []byte) (Code, error) {
	if size < 0 {
		return Code{}, fmt.Errorf("%w: negative bit length %d", ErrCorruptCode, size)
	}
	if expect := (size + 7) / 8; len(data) != expect {
		return Code{}, fmt.Errorf("%w: %d bits need %d bytes, got %d", ErrCorruptCode, size, expect, len(data))
	}

	var c Code
	r := bitio.NewReader(bytes.NewReader(data))
	for remaining := size; remaining > 0; remaining -= wordBits {
		n := remaining
		if n > wordBits {
			n = wordBits
		}
		u, err := r.ReadBits(uint8(n))
		if err != nil {
			return Code{}, fmt.Errorf("%w: %v", ErrTruncated, err)
		}
		c.pushWord(reverseBits(uint8(n), u), n)
	}
	return c, nil
}

// Len returns the number of bits in this Code.
func (c Code) Len() int {
	return c.size
}

// Bit returns the i'th bit of this Code.
func (c Code) Bit(i int) bool {
	assert.Assertf(i >= 0 && i < c.size, "bit index %d out of range [0, %d)", i, c.size)
	return (c.words[i/wordBits]>>(i%wordBits))&1 != 0
}

// Equal returns true iff both Codes hold the same sequence of bits.
func (c Code) Equal(other Code) bool {
	if c.size != other.size {
		return false
	}
	for i := range c.words {
		if c.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// HasPrefix returns true iff prefix is a prefix of this Code.  Every Code has
// itself and the empty Code as prefixes.
func (c Code) HasPrefix(prefix Code) bool {
	if prefix.size > c.size {
		return false
	}
	return c.truncate(prefix.size).Equal(prefix)
}

// Bytes returns the bits of this Code packed into bytes, most significant
// bit first, with the final byte padded with zero bits.
func (c Code) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow((c.size + 7) / 8)

	w := bitio.NewWriter(&buf)
	for i, word := range c.words {
		n := c.size - i*wordBits
		if n > wordBits {
			n = wordBits
		}
		err := w.WriteBits(reverseBits(uint8(n), word), uint8(n))
		assert.Assertf(err == nil, "bitio.Writer.WriteBits into bytes.Buffer failed: %v", err)
	}
	err := w.Close()
	assert.Assertf(err == nil, "bitio.Writer.Close into bytes.Buffer failed: %v", err)
	return buf.Bytes()
}

// String returns the string representation of this Code.
func (c Code) String() string {
	return strconv.Quote(c.key())
}

// MarshalText renders this Code as a string of '0' and '1' characters.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.key()), nil
}

// UnmarshalText parses a string of '0' and '1' characters.
func (c *Code) UnmarshalText(text []byte) error {
	parsed, err := ParseCode(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

var _ fmt.Stringer = Code{}

// key returns the bits as a string of '0' and '1' characters.  Two Codes are
// equal iff their keys are equal.
func (c Code) key() string {
	var sb strings.Builder
	sb.Grow(c.size)
	for i := 0; i < c.size; i++ {
		if (c.words[i/wordBits]>>(i%wordBits))&1 != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func (c Code) clone() Code {
	if c.words == nil {
		return Code{}
	}
	words := make([]uint64, len(c.words), len(c.words)+1)
	copy(words, c.words)
	return Code{size: c.size, words: words}
}

// truncate returns a copy holding the first n bits of this Code.
func (c Code) truncate(n int) Code {
	assert.Assertf(n >= 0 && n <= c.size, "truncate length %d out of range [0, %d]", n, c.size)
	if n == 0 {
		return Code{}
	}
	numWords := (n + wordBits - 1) / wordBits
	words := make([]uint64, numWords)
	copy(words, c.words[:numWords])
	if rem := n % wordBits; rem != 0 {
		words[numWords-1] &= (uint64(1) << rem) - 1
	}
	return Code{size: n, words: words}
}

// flipLast returns a copy of this Code with its final bit inverted, i.e. the
// code of the sibling node in a binary tree.
func (c Code) flipLast() Code {
	assert.Assertf(c.size != 0, "flipLast on empty Code")
	out := c.clone()
	i := c.size - 1
	out.words[i/wordBits] ^= uint64(1) << (i % wordBits)
	return out
}

func (c *Code) push(bit bool) {
	var word uint64
	if bit {
		word = 1
	}
	c.pushWord(word, 1)
}

func (c *Code) extend(other Code) {
	for i, word := range other.words {
		n := other.size - i*wordBits
		if n > wordBits {
			n = wordBits
		}
		c.pushWord(word, n)
	}
}

// pushWord appends the n low bits of word.  Bits of word at positions >= n
// must be zero.
func (c *Code) pushWord(word uint64, n int) {
	off := c.size % wordBits
	if off == 0 {
		c.words = append(c.words, word)
	} else {
		c.words[len(c.words)-1] |= word << off
		if off+n > wordBits {
			c.words = append(c.words, word>>(wordBits-off))
		}
	}
	c.size += n
}

// compareCodes orders Codes by length, then lexicographically by bits.
func compareCodes(a, b Code) int {
	if a.size != b.size {
		if a.size < b.size {
			return -1
		}
		return 1
	}
	for i := range a.words {
		if x := a.words[i] ^ b.words[i]; x != 0 {
			bit := uint(mathbits.TrailingZeros64(x))
			if (a.words[i]>>bit)&1 != 0 {
				return 1
			}
			return -1
		}
	}
	return 0
}

// reverseBits reverses the order of the low size bits of bits.
func reverseBits(size uint8, bits uint64) uint64 {
	if size == 0 {
		return 0
	}
	return mathbits.Reverse64(bits) >> (wordBits - uint(size))
}
