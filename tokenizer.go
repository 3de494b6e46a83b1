package huffman

import (
	"strings"
)

// Tokenizer splits one line of text into symbols.
type Tokenizer[T comparable] func(line string) []T

// Chars is a Tokenizer that yields each character of the line.  Invalid UTF-8
// yields utf8.RuneError, one per invalid byte.
func Chars(line string) []rune {
	return []rune(line)
}

// Words is a Tokenizer that yields the runs of non-whitespace in the line,
// where whitespace is ASCII space, tab, newline, form feed, or
// carriage return.
func Words(line string) []string {
	return strings.FieldsFunc(line, isASCIISpace)
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

var (
	_ Tokenizer[rune]   = Chars
	_ Tokenizer[string] = Words
)
