package huffman

import (
	"errors"

	"github.com/llehouerou/go-smacker/internal/bits"
)

var (
	// ErrTreeOverflow indicates a tree holds more nodes than its budget.
	ErrTreeOverflow = errors.New("huffman: tree exceeds node budget")

	// ErrTreeDepth indicates a code longer than the tree flavor allows.
	ErrTreeDepth = errors.New("huffman: tree exceeds maximum code length")

	// ErrTruncated indicates the bitstream ended while a tree was built.
	ErrTruncated = errors.New("huffman: bitstream ended during tree construction")
)

// tree is the node arena and prefix table shared by both tree flavors.
type tree struct {
	nodes  []node
	prefix prefixTable
}

// walk consumes one code and returns the index of the leaf it names.
//
// The first 8 bits are resolved with the prefix table; longer codes
// continue bit by bit from the node the table jumped to.
func (t *tree) walk(r *bits.Reader) uint32 {
	peek := r.ShowBits(8)
	p := t.prefix.index[peek]
	r.FlushBits(uint(t.prefix.length[peek]))

	for t.nodes[p].kind == kindInternal {
		if r.Get1Bit() == 1 {
			p += t.nodes[p].value
		}
		p++
	}
	return p
}

// addNode appends n and returns its index, or ErrTreeOverflow when the
// arena already holds limit nodes.
func (t *tree) addNode(n node, limit int) (uint32, error) {
	if len(t.nodes) >= limit {
		return 0, ErrTreeOverflow
	}
	t.nodes = append(t.nodes, n)
	return uint32(len(t.nodes) - 1), nil
}

// Len returns the number of nodes in the arena.
func (t *tree) Len() int {
	return len(t.nodes)
}
