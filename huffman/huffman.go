// Package huffman implements static Huffman coding: a frequency-based
// prefix code built once per input and serialized alongside the encoded
// payload so the decoder needs no external knowledge of the alphabet.
package huffman

import (
	"container/heap"

	"github.com/kestrelbyte/comptool/bitio"
	"github.com/kestrelbyte/comptool/cerr"
)

// Codec implements comptool's Codec interface for Huffman coding. It
// carries no options.
type Codec struct{}

func (Codec) Encode(data []byte) ([]byte, error) { return Compress(data) }
func (Codec) Decode(data []byte) ([]byte, error) { return Decompress(data) }

// node is an entry in the flat arena backing the Huffman tree: a compact
// alternative to per-node heap allocation. Leaves have left == right == -1.
type node struct {
	value       byte
	left, right int32
}

func (n node) isLeaf() bool { return n.left == -1 && n.right == -1 }

// heapItem is one entry in the priority queue used to combine nodes,
// keyed on (frequency, insertion sequence) so tie-breaking is deterministic
// within a single run.
type heapItem struct {
	idx  int32
	freq int
	seq  int
}

type nodeHeap []heapItem

func (h nodeHeap) Len() int      { return len(h) }
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}
	return h[i].seq < h[j].seq
}
func (h *nodeHeap) Push(x any) { *h = append(*h, x.(heapItem)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// tree is a built Huffman tree: a flat node arena plus the index of the
// root.
type tree struct {
	nodes []node
	root  int32
}

// buildTree constructs a Huffman tree from byte frequencies, merging the
// two lowest-frequency nodes repeatedly until one remains. It also returns
// the number of leaves (distinct byte values with nonzero frequency).
func buildTree(freqs [256]int) (*tree, int) {
	t := &tree{root: -1}
	h := &nodeHeap{}
	seq := 0
	leafCount := 0

	for v := 0; v < 256; v++ {
		if freqs[v] == 0 {
			continue
		}
		idx := int32(len(t.nodes))
		t.nodes = append(t.nodes, node{value: byte(v), left: -1, right: -1})
		heap.Push(h, heapItem{idx: idx, freq: freqs[v], seq: seq})
		seq++
		leafCount++
	}

	if h.Len() == 0 {
		return t, 0
	}

	for h.Len() > 1 {
		x := heap.Pop(h).(heapItem)
		y := heap.Pop(h).(heapItem)
		idx := int32(len(t.nodes))
		t.nodes = append(t.nodes, node{left: x.idx, right: y.idx})
		heap.Push(h, heapItem{idx: idx, freq: x.freq + y.freq, seq: seq})
		seq++
	}

	top := heap.Pop(h).(heapItem)
	t.root = top.idx
	return t, leafCount
}

// codeTable maps a byte value to its assigned code and bit length.
type codeTable struct {
	code   [256]uint64
	length [256]int
}

func (t *tree) codes() codeTable {
	var c codeTable
	if t.root == -1 {
		return c
	}
	if t.nodes[t.root].isLeaf() {
		c.length[t.nodes[t.root].value] = 1
		return c
	}
	t.walk(t.root, 0, 0, &c)
	return c
}

func (t *tree) walk(idx int32, code uint64, length int, c *codeTable) {
	n := t.nodes[idx]
	if n.isLeaf() {
		c.code[n.value] = code
		c.length[n.value] = length
		return
	}
	t.walk(n.left, code<<1, length+1, c)
	t.walk(n.right, code<<1|1, length+1, c)
}

func (t *tree) serialize(w *bitio.Writer, idx int32) {
	n := t.nodes[idx]
	if n.isLeaf() {
		w.WriteBits(uint64(n.value), 8)
		w.WriteBits(0, 1)
		w.WriteBits(0, 1)
		return
	}
	w.WriteBits(0, 8)
	w.WriteBits(1, 1)
	w.WriteBits(1, 1)
	t.serialize(w, n.left)
	t.serialize(w, n.right)
}

// Compress builds a Huffman tree for data, serializes it, and encodes the
// payload against it. Output layout:
//
//	pad_bits (1 byte) | leaf_count-1 (1 byte) | serialized tree | payload
//
// where everything from leaf_count-1 onward is one continuous bit-packed
// stream.
func Compress(data []byte) ([]byte, error) {
	var freqs [256]int
	for _, b := range data {
		freqs[b]++
	}
	t, leafCount := buildTree(freqs)
	if leafCount == 0 {
		return []byte{0x00, 0x00}, nil
	}

	w := bitio.NewWriter()
	w.WriteBits(uint64(leafCount-1), 8)
	t.serialize(w, t.root)

	table := t.codes()
	for _, b := range data {
		w.WriteBits(table.code[b], uint(table.length[b]))
	}

	packed, pad := w.Finalize()
	out := make([]byte, 0, 1+len(packed))
	out = append(out, byte(pad))
	out = append(out, packed...)
	return out, nil
}

// treeBuilder reconstructs a Huffman tree from its preorder bit
// serialization, one node at a time.
type treeBuilder struct {
	nodes  []node
	leaves int
}

func (b *treeBuilder) parse(r *bitio.Reader) (int32, error) {
	value, err := r.ReadBits(8)
	if err != nil {
		return 0, err
	}
	hasLeft, err := r.ReadBits(1)
	if err != nil {
		return 0, err
	}
	hasRight, err := r.ReadBits(1)
	if err != nil {
		return 0, err
	}

	idx := int32(len(b.nodes))
	switch {
	case hasLeft == 0 && hasRight == 0:
		b.nodes = append(b.nodes, node{value: byte(value), left: -1, right: -1})
		b.leaves++
		return idx, nil
	case hasLeft == 1 && hasRight == 1:
		b.nodes = append(b.nodes, node{left: -1, right: -1})
		left, err := b.parse(r)
		if err != nil {
			return 0, err
		}
		right, err := b.parse(r)
		if err != nil {
			return 0, err
		}
		b.nodes[idx].left = left
		b.nodes[idx].right = right
		return idx, nil
	default:
		return 0, cerr.New("huffman.Decompress", cerr.Corrupt, "node has exactly one child bit set")
	}
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	if len(data) == 2 && data[0] == 0 && data[1] == 0 {
		return []byte{}, nil
	}
	if len(data) < 2 {
		return nil, cerr.New("huffman.Decompress", cerr.Truncated, "missing header")
	}

	pad := int(data[0])
	r := bitio.NewReader(data[1:])

	leafCountMinus1, err := r.ReadBits(8)
	if err != nil {
		return nil, err
	}
	leafCount := int(leafCountMinus1) + 1

	b := &treeBuilder{}
	root, err := b.parse(r)
	if err != nil {
		return nil, err
	}
	if b.leaves != leafCount {
		return nil, cerr.New("huffman.Decompress", cerr.Corrupt, "tree leaf count does not match header")
	}

	var out []byte
	if b.nodes[root].isLeaf() {
		value := b.nodes[root].value
		for r.BitsRemaining() > pad {
			if _, err := r.ReadBits(1); err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	}

	cursor := root
	for r.BitsRemaining() > pad {
		bit, err := r.ReadBits(1)
		if err != nil {
			return nil, err
		}
		n := b.nodes[cursor]
		if bit == 0 {
			cursor = n.left
		} else {
			cursor = n.right
		}
		if b.nodes[cursor].isLeaf() {
			out = append(out, b.nodes[cursor].value)
			cursor = root
		}
	}
	return out, nil
}
