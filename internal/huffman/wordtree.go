package huffman

import "github.com/llehouerou/go-smacker/internal/bits"

// maxWordDepth bounds the code length of a word tree. The node budget comes
// from the header and does not bound recursion on its own.
const maxWordDepth = 500

// WordTree is a Huffman tree over 16-bit symbols with a 3-slot MRU cache.
//
// Leaf symbols are themselves coded with two ByteTrees (low byte, then high
// byte). Three marker symbols declared in the tree header do not stand for
// themselves: decoding a marker leaf yields the current value of its cache
// slot. Every decoded value that differs from slot 0 is pushed to the front
// of the cache.
type WordTree struct {
	tree
	empty bool
	cache mruCache
}

// NewWordTree reads a word tree from r. allocSize is the header budget in
// bytes; the tree may hold at most allocSize/4 nodes, not counting leaves
// appended for markers that never appeared in the tree.
func NewWordTree(r *bits.Reader, allocSize uint32) (*WordTree, error) {
	t := &WordTree{}
	if r.Get1Bit() == 0 {
		t.empty = true
		if r.Error() {
			return nil, ErrTruncated
		}
		return t, nil
	}

	lo, err := NewByteTree(r)
	if err != nil {
		return nil, err
	}
	hi, err := NewByteTree(r)
	if err != nil {
		return nil, err
	}

	b := wordBuilder{
		t:     t,
		lo:    lo,
		hi:    hi,
		limit: int(allocSize / 4),
		last:  [3]int{-1, -1, -1},
	}
	for i := range b.markers {
		b.markers[i] = uint16(r.GetBits(16))
	}

	t.nodes = make([]node, 0, min(b.limit, 1<<16)+3)
	if _, err := b.decodeTree(r, 0, 0); err != nil {
		return nil, err
	}
	r.FlushBits(1)

	if r.Error() {
		return nil, ErrTruncated
	}

	b.bindCache()
	return t, nil
}

// wordBuilder carries construction-only state.
type wordBuilder struct {
	t       *WordTree
	lo, hi  *ByteTree
	limit   int
	markers [3]uint16
	last    [3]int // leaf index bound to each marker, -1 if unseen
}

func (b *wordBuilder) decodeTree(r *bits.Reader, prefix uint32, length int) (uint32, error) {
	t := b.t
	if length > maxWordDepth {
		return 0, ErrTreeDepth
	}
	if r.Get1Bit() == 0 {
		lo := uint16(b.lo.Decode(r))
		hi := uint16(b.hi.Decode(r))
		v := hi<<8 | lo

		idx, err := t.addNode(node{kind: kindLeaf, value: uint32(v)}, b.limit)
		if err != nil {
			return 0, err
		}
		t.prefix.fill(prefix, length, idx)

		for i, m := range b.markers {
			if m == v {
				b.last[i] = int(idx)
				t.nodes[idx].value = 0
			}
		}
		return 1, nil
	}

	idx, err := t.addNode(node{kind: kindInternal}, b.limit)
	if err != nil {
		return 0, err
	}
	if length == 8 {
		t.prefix.fill(prefix, 8, idx)
	}

	r1, err := b.decodeTree(r, prefix, length+1)
	if err != nil {
		return 0, err
	}
	t.nodes[idx].value = r1

	r2, err := b.decodeTree(r, prefix|1<<length, length+1)
	if err != nil {
		return 0, err
	}
	return r1 + r2 + 1, nil
}

// bindCache turns the leaves bound to markers into cache references,
// appending a zero leaf for each marker that was never decoded. A leaf
// matched by a marker and later superseded by another leaf with the same
// value keeps the constant 0.
func (b *wordBuilder) bindCache() {
	t := b.t
	for i := range b.last {
		if b.last[i] < 0 {
			t.nodes = append(t.nodes, node{kind: kindLeaf})
			b.last[i] = len(t.nodes) - 1
		}
	}

	cells := 0
	for i, idx := range b.last {
		n := &t.nodes[idx]
		if n.kind != kindCached {
			n.kind = kindCached
			n.value = uint32(cells)
			cells++
		}
		t.cache.cell[i] = uint8(n.value)
	}
}

// Empty reports whether the tree was transmitted as empty.
func (t *WordTree) Empty() bool {
	return t.empty
}

// Reset zeroes the MRU cache. It is called at the start of every frame.
func (t *WordTree) Reset() {
	t.cache.reset()
}

// Cache returns the current values of the three MRU slots.
func (t *WordTree) Cache() [3]uint16 {
	return [3]uint16{t.cache.get(0), t.cache.get(1), t.cache.get(2)}
}

// Decode reads one code from r and returns its 16-bit value.
func (t *WordTree) Decode(r *bits.Reader) uint16 {
	if t.empty {
		return 0
	}

	n := t.nodes[t.walk(r)]
	v := uint16(n.value)
	if n.kind == kindCached {
		v = t.cache.vals[n.value]
	}
	t.cache.promote(v)
	return v
}
