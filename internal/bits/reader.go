// Package bits provides the LSB-first bit cursor used by every Smacker
// entropy decoder.
package bits

// Reader reads bits from a byte buffer, least significant bit first.
//
// Consuming reads (Get1Bit, GetBits, FlushBits) past the end of the buffer
// set a sticky error flag and yield zero bits. ShowBits never sets the flag:
// bits past the end peek as zero, which the Huffman prefix tables rely on
// when fewer than 8 bits remain.
type Reader struct {
	buffer  []byte // Original buffer
	pos     uint   // Next bit to read
	numBits uint   // Total bits in buffer
	err     bool   // Error flag (buffer overrun)
}

// NewReader creates a Reader over data. The slice is not copied and must
// not be modified while the Reader is in use.
func NewReader(data []byte) *Reader {
	return &Reader{
		buffer:  data,
		numBits: uint(len(data)) * 8,
	}
}

// Error returns true if a buffer overrun occurred.
func (r *Reader) Error() bool {
	return r.err
}

// BitsLeft returns the number of unread bits in the buffer.
func (r *Reader) BitsLeft() uint {
	if r.pos >= r.numBits {
		return 0
	}
	return r.numBits - r.pos
}

// GetProcessedBits returns the number of bits consumed so far.
func (r *Reader) GetProcessedBits() uint {
	return r.pos
}

// byteAt returns the byte at index i, or 0 past the end.
func (r *Reader) byteAt(i uint) uint32 {
	if i >= uint(len(r.buffer)) {
		return 0
	}
	return uint32(r.buffer[i])
}

// ShowBits returns the next n bits without consuming them.
// n must be 0-32. The first bit in stream order is bit 0 of the result.
func (r *Reader) ShowBits(n uint) uint32 {
	if n == 0 {
		return 0
	}

	idx := r.pos >> 3
	shift := r.pos & 7

	// Five bytes cover any 32-bit window at any bit offset.
	window := uint64(r.byteAt(idx)) |
		uint64(r.byteAt(idx+1))<<8 |
		uint64(r.byteAt(idx+2))<<16 |
		uint64(r.byteAt(idx+3))<<24 |
		uint64(r.byteAt(idx+4))<<32

	return uint32((window >> shift) & (1<<n - 1))
}

// FlushBits discards n bits from the stream.
func (r *Reader) FlushBits(n uint) {
	if r.err {
		return
	}

	if r.pos+n > r.numBits {
		r.pos = r.numBits
		r.err = true
		return
	}
	r.pos += n
}

// GetBits reads and returns n bits from the stream.
// n must be 0-32.
func (r *Reader) GetBits(n uint) uint32 {
	if n == 0 {
		return 0
	}
	if r.err || r.pos+n > r.numBits {
		r.FlushBits(n)
		return 0
	}

	ret := r.ShowBits(n)
	r.pos += n
	return ret
}

// Get1Bit reads and returns a single bit from the stream.
func (r *Reader) Get1Bit() uint8 {
	if r.err || r.pos >= r.numBits {
		r.pos = r.numBits
		r.err = true
		return 0
	}

	b := uint8(r.buffer[r.pos>>3]>>(r.pos&7)) & 1
	r.pos++
	return b
}
