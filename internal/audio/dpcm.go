// Package audio reconstructs PCM from Smacker's Huffman-coded DPCM audio
// chunks.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/llehouerou/go-smacker/internal/bits"
	"github.com/llehouerou/go-smacker/internal/huffman"
)

// MaxUnpackedSize bounds the declared decoded size of a single chunk.
const MaxUnpackedSize = 16 << 20

var (
	// ErrConfigMismatch indicates the chunk's stereo or 16-bit flag differs
	// from the track declaration.
	ErrConfigMismatch = errors.New("audio: chunk format differs from track format")

	// ErrSizeMismatch indicates an unpacked size that is not a positive
	// multiple of the sample frame size, or is implausibly large.
	ErrSizeMismatch = errors.New("audio: invalid unpacked size")

	// ErrTruncated indicates the chunk ended before the unpacked size was
	// reached.
	ErrTruncated = errors.New("audio: chunk truncated")
)

// Format is the static sample layout of a track.
type Format struct {
	Stereo  bool
	Is16Bit bool
}

// Channels returns 1 or 2.
func (f Format) Channels() int {
	if f.Stereo {
		return 2
	}
	return 1
}

// BytesPerSample returns 1 or 2.
func (f Format) BytesPerSample() int {
	if f.Is16Bit {
		return 2
	}
	return 1
}

// FrameSize returns the byte size of one sample per channel.
func (f Format) FrameSize() int {
	return f.Channels() * f.BytesPerSample()
}

// Decode unpacks one compressed chunk into unpackedSize bytes of
// interleaved PCM. 8-bit samples are unsigned; 16-bit samples are signed
// little-endian.
//
// A chunk whose data-present bit is clear yields a nil slice and no error.
func Decode(chunk []byte, unpackedSize uint32, f Format) ([]byte, error) {
	r := bits.NewReader(chunk)
	if r.Get1Bit() == 0 {
		if r.Error() {
			return nil, ErrTruncated
		}
		return nil, nil
	}

	stereo := r.Get1Bit() == 1
	is16 := r.Get1Bit() == 1
	if r.Error() {
		return nil, ErrTruncated
	}
	if stereo != f.Stereo || is16 != f.Is16Bit {
		return nil, fmt.Errorf("%w: stereo=%t 16bit=%t", ErrConfigMismatch, stereo, is16)
	}

	frame := f.FrameSize()
	size := int(unpackedSize)
	if size == 0 || size > MaxUnpackedSize || size%frame != 0 {
		return nil, fmt.Errorf("%w: %d bytes for %d-byte frames", ErrSizeMismatch, unpackedSize, frame)
	}

	// 16-bit tracks use a low and a high byte tree per channel.
	trees := make([]*huffman.ByteTree, frame)
	for i := range trees {
		t, err := huffman.NewByteTree(r)
		if err != nil {
			return nil, fmt.Errorf("audio: tree %d: %w", i, err)
		}
		trees[i] = t
	}

	// Bases are stored last channel first.
	var bases [2]uint16
	for ch := f.Channels() - 1; ch >= 0; ch-- {
		if is16 {
			bases[ch] = swap16(uint16(r.GetBits(16)))
		} else {
			bases[ch] = uint16(r.GetBits(8))
		}
	}
	if r.Error() {
		return nil, ErrTruncated
	}

	out := make([]byte, size)
	if is16 {
		decode16(r, trees, bases, f.Channels(), out)
	} else {
		decode8(r, trees, bases, f.Channels(), out)
	}
	if r.Error() {
		return nil, ErrTruncated
	}
	return out, nil
}

func decode8(r *bits.Reader, trees []*huffman.ByteTree, bases [2]uint16, channels int, out []byte) {
	pos := 0
	for ch := 0; ch < channels; ch++ {
		out[pos] = byte(bases[ch]) ^ 0x80
		pos++
	}

	for pos < len(out) && !r.Error() {
		for ch := 0; ch < channels; ch++ {
			// Two's complement deltas wrap modulo 256.
			b := byte(bases[ch]) + trees[ch].Decode(r)
			bases[ch] = uint16(b)
			out[pos] = b ^ 0x80
			pos++
		}
	}
}

func decode16(r *bits.Reader, trees []*huffman.ByteTree, bases [2]uint16, channels int, out []byte) {
	pos := 0
	for ch := 0; ch < channels; ch++ {
		binary.LittleEndian.PutUint16(out[pos:], bases[ch])
		pos += 2
	}

	for pos < len(out) && !r.Error() {
		for ch := 0; ch < channels; ch++ {
			lo := uint16(trees[2*ch].Decode(r))
			hi := uint16(trees[2*ch+1].Decode(r))
			bases[ch] += lo | hi<<8
			binary.LittleEndian.PutUint16(out[pos:], bases[ch])
			pos += 2
		}
	}
}

func swap16(v uint16) uint16 {
	return v<<8 | v>>8
}
