package huffman

import (
	"bytes"
	"container/heap"
	"fmt"
	"io"
	"slices"

	"github.com/chronos-tachyon/assert"
)

// Kind identifies which variant a Tree node is.
type Kind byte

const (
	// EmptyKind is the tree of a corpus with no symbols.
	EmptyKind Kind = iota

	// LeafKind is a node holding one symbol.
	LeafKind

	// ForkKind is a node with exactly two children.
	ForkKind
)

// String returns the name of this Kind.
func (k Kind) String() string {
	switch k {
	case EmptyKind:
		return "Empty"
	case LeafKind:
		return "Leaf"
	case ForkKind:
		return "Fork"
	default:
		return fmt.Sprintf("Kind(%d)", byte(k))
	}
}

var _ fmt.Stringer = Kind(0)

// Tree is a Huffman code tree over symbols of type T.  The zero value is the
// empty tree.
//
// Each Fork owns its two children, and its frequency is the sum of theirs.
// Trees are immutable once built.
//
type Tree[T comparable] struct {
	kind  Kind
	freq  uint64
	data  T
	left  *Tree[T]
	right *Tree[T]
}

// NewLeaf returns a Leaf holding one symbol with the given frequency.
func NewLeaf[T comparable](freq uint64, data T) *Tree[T] {
	return &Tree[T]{kind: LeafKind, freq: freq, data: data}
}

// NewFork returns a Fork that owns the two given non-empty trees.
func NewFork[T comparable](left, right *Tree[T]) *Tree[T] {
	assert.Assertf(left != nil && right != nil, "NewFork: nil child")
	assert.Assertf(left.kind != EmptyKind && right.kind != EmptyKind, "NewFork: empty child")

	freq := left.freq + right.freq
	assert.Assertf(freq >= left.freq, "NewFork: frequency overflow: %d + %d", left.freq, right.freq)

	return &Tree[T]{kind: ForkKind, freq: freq, left: left, right: right}
}

// Kind returns which variant this node is.
func (t *Tree[T]) Kind() Kind {
	if t == nil {
		return EmptyKind
	}
	return t.kind
}

// Freq returns the frequency of this node: the symbol count for a Leaf, the
// sum of its children for a Fork, and 0 for Empty.
func (t *Tree[T]) Freq() uint64 {
	if t == nil {
		return 0
	}
	return t.freq
}

// Data returns the symbol of a Leaf.  The second result is false for any
// other Kind.
func (t *Tree[T]) Data() (T, bool) {
	if t.Kind() != LeafKind {
		var zero T
		return zero, false
	}
	return t.data, true
}

// Left returns the left child of a Fork, or nil.
func (t *Tree[T]) Left() *Tree[T] {
	if t.Kind() != ForkKind {
		return nil
	}
	return t.left
}

// Right returns the right child of a Fork, or nil.
func (t *Tree[T]) Right() *Tree[T] {
	if t.Kind() != ForkKind {
		return nil
	}
	return t.right
}

// Walk visits every node in pre-order, left child first.  The path from the
// root to each node is passed as a Code: false for left, true for right.
//
// Walk uses an explicit stack, so arbitrarily skewed trees are fine.
//
func (t *Tree[T]) Walk(fn func(path Code, node *Tree[T])) {
	if t.Kind() == EmptyKind {
		return
	}

	type stackItem struct {
		node *Tree[T]
		path Code
	}

	stack := []stackItem{{node: t}}
	for len(stack) != 0 {
		last := len(stack) - 1
		top := stack[last]
		stack[last] = stackItem{}
		stack = stack[:last]

		fn(top.path, top.node)

		if top.node.kind == ForkKind {
			right := top.path.clone()
			right.push(true)
			left := top.path.clone()
			left.push(false)
			stack = append(stack, stackItem{top.node.right, right}, stackItem{top.node.left, left})
		}
	}
}

// Dump writes a programmer-readable debugging dump of the Tree to the given
// writer.
func (t *Tree[T]) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Tree{\n")
	t.Walk(func(path Code, node *Tree[T]) {
		switch node.kind {
		case LeafKind:
			fmt.Fprintf(&buf, "\t%s = Leaf(%d, %s)\n", path, node.freq, formatSymbol(node.data))
		case ForkKind:
			fmt.Fprintf(&buf, "\t%s = Fork(%d)\n", path, node.freq)
		}
	})
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// Build constructs a Huffman tree from symbol frequencies.
//
// The two least frequent nodes are repeatedly merged into a Fork until one
// node remains; the first one removed becomes the left child.  Ties are broken
// by placing leaves before forks, leaves in symbol order, and forks in the
// order they were created.  Symbol order is the natural order when T is a
// predeclared string or integer type (including rune and byte); for any other
// T the order of equal-frequency leaves is unspecified, so use BuildFunc when
// reproducible trees are required.
//
// An empty map yields the empty tree, and a map with one symbol yields a bare
// Leaf.
//
func Build[T comparable](freqs Frequencies[T]) *Tree[T] {
	return BuildFunc(freqs, naturalOrder[T]())
}

// BuildFunc is like Build, but orders equal-frequency leaves with compare.
// A nil compare leaves that order unspecified.
func BuildFunc[T comparable](freqs Frequencies[T], compare func(a, b T) int) *Tree[T] {
	leaves := make([]*Tree[T], 0, len(freqs))
	for sym, freq := range freqs {
		leaves = append(leaves, NewLeaf(freq, sym))
	}
	if compare != nil {
		slices.SortFunc(leaves, func(a, b *Tree[T]) int {
			return compare(a.data, b.data)
		})
	}

	// Step 1: build a minheap.  Leaves get sequence numbers below every
	// fork, so they win ties against forks.

	h := treeHeap[T]{list: make([]treeAndSeq[T], 0, len(leaves))}
	for seq, leaf := range leaves {
		h.list = append(h.list, treeAndSeq[T]{leaf, uint64(seq)})
	}
	h.Init()

	// Step 2: pop two nodes, combine them into a Fork, push the Fork.

	nextSeq := uint64(len(leaves))
	for h.Len() > 1 {
		a := heap.Pop(&h).(treeAndSeq[T])
		b := heap.Pop(&h).(treeAndSeq[T])
		heap.Push(&h, treeAndSeq[T]{NewFork(a.tree, b.tree), nextSeq})
		nextSeq++
	}

	if h.Len() == 0 {
		return &Tree[T]{}
	}
	return heap.Pop(&h).(treeAndSeq[T]).tree
}

// type treeAndSeq + type treeHeap {{{

type treeAndSeq[T comparable] struct {
	tree *Tree[T]
	seq  uint64
}

type treeHeap[T comparable] struct {
	list []treeAndSeq[T]
}

func (h *treeHeap[T]) Init() {
	heap.Init(h)
}

func (h *treeHeap[T]) Len() int {
	return len(h.list)
}

func (h *treeHeap[T]) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *treeHeap[T]) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	if a.tree.freq != b.tree.freq {
		return a.tree.freq < b.tree.freq
	}
	return a.seq < b.seq
}

func (h *treeHeap[T]) Push(x interface{}) {
	h.list = append(h.list, x.(treeAndSeq[T]))
}

func (h *treeHeap[T]) Pop() interface{} {
	last := len(h.list) - 1
	x := h.list[last]
	h.list[last] = treeAndSeq[T]{}
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*treeHeap[rune])(nil)

// }}}
