package smktest

import "sort"

// Code is a tree path: bit i of Bits is the branch taken at depth i.
type Code struct {
	Bits uint32
	Len  uint
}

// WriteByteTree serializes a balanced 8-bit tree holding values and returns
// the code of every value. An empty values slice writes an empty tree.
func WriteByteTree(w *BitWriter, values []byte) map[byte]Code {
	codes := make(map[byte]Code, len(values))
	if len(values) == 0 {
		w.WriteBit(0)
		return codes
	}

	w.WriteBit(1)
	var build func(vals []byte, prefix uint32, depth uint)
	build = func(vals []byte, prefix uint32, depth uint) {
		if len(vals) == 1 {
			w.WriteBit(0)
			w.WriteBits(uint32(vals[0]), 8)
			codes[vals[0]] = Code{Bits: prefix, Len: depth}
			return
		}
		w.WriteBit(1)
		mid := len(vals) / 2
		build(vals[:mid], prefix, depth+1)
		build(vals[mid:], prefix|1<<depth, depth+1)
	}
	build(values, 0, 0)
	w.WriteBit(0) // padding
	return codes
}

// WriteWordTree serializes a balanced 16-bit tree holding values, with the
// given cache markers, and returns the code of every value. An empty values
// slice writes an empty tree.
func WriteWordTree(w *BitWriter, values []uint16, markers [3]uint16) map[uint16]Code {
	codes := make(map[uint16]Code, len(values))
	if len(values) == 0 {
		w.WriteBit(0)
		return codes
	}

	w.WriteBit(1)
	lo := WriteByteTree(w, distinct(values, func(v uint16) byte { return byte(v) }))
	hi := WriteByteTree(w, distinct(values, func(v uint16) byte { return byte(v >> 8) }))
	for _, m := range markers {
		w.WriteBits(uint32(m), 16)
	}

	var build func(vals []uint16, prefix uint32, depth uint)
	build = func(vals []uint16, prefix uint32, depth uint) {
		if len(vals) == 1 {
			w.WriteBit(0)
			w.WriteCode(lo[byte(vals[0])])
			w.WriteCode(hi[byte(vals[0]>>8)])
			codes[vals[0]] = Code{Bits: prefix, Len: depth}
			return
		}
		w.WriteBit(1)
		mid := len(vals) / 2
		build(vals[:mid], prefix, depth+1)
		build(vals[mid:], prefix|1<<depth, depth+1)
	}
	build(values, 0, 0)
	w.WriteBit(0) // padding
	return codes
}

// WordTreeAllocSize returns a node budget large enough for a word tree
// holding n values, expressed in the header's byte units.
func WordTreeAllocSize(n int) uint32 {
	if n == 0 {
		return 4
	}
	return uint32(4 * (2*n - 1))
}

func distinct(values []uint16, key func(uint16) byte) []byte {
	seen := make(map[byte]bool)
	var out []byte
	for _, v := range values {
		k := key(v)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
