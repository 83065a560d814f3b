// Package smktest builds Smacker bitstreams, trees and containers for
// tests. Trees are serialized in the exact order the decoders rebuild them.
package smktest

// BitWriter packs bits least significant bit first, the order in which
// bits.Reader consumes them.
type BitWriter struct {
	buf []byte
	n   uint
}

// WriteBit appends the low bit of b.
func (w *BitWriter) WriteBit(b uint32) {
	if w.n&7 == 0 {
		w.buf = append(w.buf, 0)
	}
	if b&1 != 0 {
		w.buf[w.n>>3] |= 1 << (w.n & 7)
	}
	w.n++
}

// WriteBits appends the low n bits of v, bit 0 first.
func (w *BitWriter) WriteBits(v uint32, n uint) {
	for i := uint(0); i < n; i++ {
		w.WriteBit(v >> i)
	}
}

// WriteCode appends a Huffman code produced by one of the tree writers.
func (w *BitWriter) WriteCode(c Code) {
	w.WriteBits(c.Bits, c.Len)
}

// Len returns the number of bits written.
func (w *BitWriter) Len() uint {
	return w.n
}

// Bytes returns the packed buffer. Unused bits of the last byte are zero.
func (w *BitWriter) Bytes() []byte {
	return w.buf
}
