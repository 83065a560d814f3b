package huffman

import "github.com/llehouerou/go-smacker/internal/bits"

// Byte tree limits: one leaf per 8-bit symbol, codes of at most 32 bits.
const (
	maxByteLeaves = 256
	maxByteNodes  = 2*maxByteLeaves - 1
	maxByteDepth  = 32
)

// ByteTree is a Huffman tree over 8-bit symbols, built from the bitstream.
type ByteTree struct {
	tree
	empty bool
}

// NewByteTree reads a tree from r.
//
// A leading 0 bit denotes an empty tree, which decodes every code as 0
// without consuming bits. Otherwise the tree follows in pre-order: bit 0
// is a leaf carrying an 8-bit symbol, bit 1 an internal node whose bit-0
// subtree precedes its bit-1 subtree. One padding bit closes the tree.
func NewByteTree(r *bits.Reader) (*ByteTree, error) {
	t := &ByteTree{}
	if r.Get1Bit() == 0 {
		t.empty = true
		if r.Error() {
			return nil, ErrTruncated
		}
		return t, nil
	}

	t.nodes = make([]node, 0, 2*maxByteLeaves)
	if _, err := t.decodeTree(r, 0, 0); err != nil {
		return nil, err
	}
	r.FlushBits(1)

	if r.Error() {
		return nil, ErrTruncated
	}
	return t, nil
}

// decodeTree builds the subtree whose code prefix is the low length bits
// of prefix and returns its node count.
func (t *ByteTree) decodeTree(r *bits.Reader, prefix uint32, length int) (uint32, error) {
	if length > maxByteDepth {
		return 0, ErrTreeDepth
	}
	if r.Get1Bit() == 0 {
		idx, err := t.addNode(node{kind: kindLeaf, value: r.GetBits(8)}, maxByteNodes)
		if err != nil {
			return 0, err
		}
		t.prefix.fill(prefix, length, idx)
		return 1, nil
	}

	idx, err := t.addNode(node{kind: kindInternal}, maxByteNodes)
	if err != nil {
		return 0, err
	}
	if length == 8 {
		t.prefix.fill(prefix, 8, idx)
	}

	r1, err := t.decodeTree(r, prefix, length+1)
	if err != nil {
		return 0, err
	}
	t.nodes[idx].value = r1

	r2, err := t.decodeTree(r, prefix|1<<length, length+1)
	if err != nil {
		return 0, err
	}
	return r1 + r2 + 1, nil
}

// Empty reports whether the tree was transmitted as empty.
func (t *ByteTree) Empty() bool {
	return t.empty
}

// Decode reads one code from r and returns its symbol.
func (t *ByteTree) Decode(r *bits.Reader) byte {
	if t.empty {
		return 0
	}
	return byte(t.nodes[t.walk(r)].value)
}
