// Package huffman implements the adaptive Huffman trees of the Smacker
// format. Trees are not stored as code tables; they are rebuilt from the
// bitstream on every stream open (video) or chunk (audio).
package huffman

// nodeKind tags an entry of the flat node arena.
type nodeKind uint8

const (
	kindLeaf     nodeKind = iota // value is the symbol
	kindInternal                 // value is the node count of the left subtree
	kindCached                   // value is an mruCache cell index
)

// node is one entry of a tree arena. Children of an internal node at index
// i are at i+1 (bit 0) and i+1+value (bit 1).
type node struct {
	kind  nodeKind
	value uint32
}

// prefixTable maps the next 8 peeked bits to the node reached after
// consuming length of them. Entries exist for every leaf with a code of
// at most 8 bits and for every internal node at depth 8; all other
// entries point at the root with length 0.
type prefixTable struct {
	index  [256]uint32
	length [256]uint8
}

// fill points every table slot sharing the first length bits of prefix at
// node idx. Nodes deeper than 8 bits are not tabled.
func (p *prefixTable) fill(prefix uint32, length int, idx uint32) {
	if length > 8 {
		return
	}
	for i := uint32(0); i < 256; i += 1 << length {
		p.index[prefix|i] = idx
		p.length[prefix|i] = uint8(length)
	}
}
