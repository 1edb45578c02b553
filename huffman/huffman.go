// Package huffman implements the canonical Huffman bitstream decoder
// used by the engine's associated image subformats (spec.md section
// 4.8): a tree recursively described by its own header bits, decoded
// least-significant-bit-first.
package huffman

import "github.com/pkg/errors"

// ErrCorruptBitstream means the bit source was exhausted before the
// tree header or the requested output was fully decoded (spec.md
// section 4.8 / section 7's CorruptBitstream classification).
var ErrCorruptBitstream = errors.New("huffman: corrupt bitstream")

// firstInternalID is the id assigned to the first internal node built;
// leaves carry their byte value (0..255) as their id, so internal ids
// start just above the leaf range.
const firstInternalID = 256

// node is one tree node: a leaf (left == nil && right == nil, value is
// the decoded byte, id equals value) or an internal node (value
// unused, id assigned monotonically from firstInternalID).
type node struct {
	id          int
	value       byte
	left, right *node
}

func (n *node) isLeaf() bool { return n.left == nil && n.right == nil }

// bitReader pulls bits least-significant-bit first from src, refilling
// its cache one byte at a time (spec.md section 4.8).
type bitReader struct {
	src  []byte
	pos  int
	cur  byte
	left uint
}

func newBitReader(src []byte) *bitReader {
	return &bitReader{src: src}
}

// readBit returns the next bit and ok=false once src is exhausted.
func (r *bitReader) readBit() (bit byte, ok bool) {
	if r.left == 0 {
		if r.pos >= len(r.src) {
			return 0, false
		}
		r.cur = r.src[r.pos]
		r.pos++
		r.left = 8
	}
	bit = r.cur & 1
	r.cur >>= 1
	r.left--
	return bit, true
}

// readByte reads 8 bits, most-significant bit of the result taken from
// the last bit read (each bit still arrives LSB-first from the stream).
func (r *bitReader) readByte() (byte, bool) {
	var b byte
	for i := uint(0); i < 8; i++ {
		bit, ok := r.readBit()
		if !ok {
			return 0, false
		}
		b |= bit << i
	}
	return b, true
}

// Tree is a decoded canonical Huffman tree, ready to decode a data
// bitstream.
type Tree struct {
	root *node
}

// BuildTree recursively constructs a tree from a header bitstream
// (spec.md section 4.8): a 1 bit introduces an internal node (and
// recursively its left then right child); a 0 bit introduces a leaf
// carrying the next 8 bits as its byte value.
func BuildTree(header []byte) (*Tree, error) {
	r := newBitReader(header)
	nextID := firstInternalID
	root, err := buildNode(r, &nextID)
	if err != nil {
		return nil, err
	}
	return &Tree{root: root}, nil
}

func buildNode(r *bitReader, nextID *int) (*node, error) {
	bit, ok := r.readBit()
	if !ok {
		return nil, ErrCorruptBitstream
	}
	if bit == 1 {
		id := *nextID
		*nextID++
		left, err := buildNode(r, nextID)
		if err != nil {
			return nil, err
		}
		right, err := buildNode(r, nextID)
		if err != nil {
			return nil, err
		}
		return &node{id: id, left: left, right: right}, nil
	}
	v, ok := r.readByte()
	if !ok {
		return nil, ErrCorruptBitstream
	}
	return &node{id: int(v), value: v}, nil
}

// Decode produces exactly len(out) decoded bytes from data, descending
// t's tree bit-by-bit (1 -> right, 0 -> left) until a leaf is reached,
// then restarting at the root (spec.md section 4.8). It returns
// ErrCorruptBitstream if data is exhausted before out is
// filled.
func (t *Tree) Decode(data []byte, out []byte) error {
	r := newBitReader(data)
	for i := range out {
		n := t.root
		if n == nil {
			return ErrCorruptBitstream
		}
		for !n.isLeaf() {
			bit, ok := r.readBit()
			if !ok {
				return ErrCorruptBitstream
			}
			if bit == 1 {
				n = n.right
			} else {
				n = n.left
			}
		}
		out[i] = n.value
	}
	return nil
}
