package video

// bitmap is a fixed-size bit set, one bit per block.
type bitmap struct {
	words []uint64
}

func newBitmap(n int) bitmap {
	return bitmap{words: make([]uint64, (n+63)/64)}
}

func (b bitmap) get(i int) bool {
	return b.words[i>>6]&(1<<(i&63)) != 0
}

func (b bitmap) set(i int) {
	b.words[i>>6] |= 1 << (i & 63)
}

func (b bitmap) unset(i int) {
	b.words[i>>6] &^= 1 << (i & 63)
}

func (b bitmap) clear() {
	clear(b.words)
}
