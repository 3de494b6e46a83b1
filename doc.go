// Package huffman implements Huffman coding over arbitrary symbol types for
// corpora made of text lines.  It counts symbol frequencies in parallel,
// builds an optimal prefix-code tree, derives an Encoder and its inverse
// Decoder, and assembles a Payload holding the code table plus one encoded
// bit sequence per input line.
//
// The usual entry point is Compress:
//
//     p, err := huffman.Compress(huffman.CharFrequencies, huffman.Chars, lines)
//
// References:
//
//     <https://en.wikipedia.org/wiki/Huffman_coding>
//
package huffman
