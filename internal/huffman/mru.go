package huffman

// mruCache holds the three most recently used values of a word tree.
//
// Each slot is bound to a storage cell. Slots whose markers resolved to the
// same tree leaf share a cell, so a write through one slot is visible
// through the others.
type mruCache struct {
	cell [3]uint8
	vals [3]uint16
}

func (c *mruCache) get(slot int) uint16 {
	return c.vals[c.cell[slot]]
}

func (c *mruCache) set(slot int, v uint16) {
	c.vals[c.cell[slot]] = v
}

// reset zeroes every cell.
func (c *mruCache) reset() {
	c.vals = [3]uint16{}
}

// promote records v as the most recent value unless it already is.
func (c *mruCache) promote(v uint16) {
	if v == c.get(0) {
		return
	}
	c.set(2, c.get(1))
	c.set(1, c.get(0))
	c.set(0, v)
}
