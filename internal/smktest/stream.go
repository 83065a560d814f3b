package smktest

import "encoding/binary"

// Stream describes a Smacker file to serialize with Bytes.
type Stream struct {
	Signature  string // "SMK2" or "SMK4"
	Width      uint32
	Height     uint32
	FrameDelay int32
	Flags      uint32
	AudioSize  [7]uint32
	AudioInfo  [7]uint32

	// Tree budgets in header byte units: mono map, mono color, full, type.
	TreeSizes [4]uint32
	Trees     []byte

	Frames []Frame
}

// Frame is one frame table entry and its payload.
type Frame struct {
	Type    byte   // bit 0 palette, bit i+1 audio track i
	Payload []byte // length must be a multiple of 4
	Low     uint32 // reserved low bits stored in the size table
}

// Bytes serializes the header, the frame tables, the tree blob and every
// payload. A ring frame flag makes the header frame count one less than
// len(Frames).
func (s *Stream) Bytes() []byte {
	var b []byte
	b = append(b, s.Signature...)
	b = binary.LittleEndian.AppendUint32(b, s.Width)
	b = binary.LittleEndian.AppendUint32(b, s.Height)

	count := uint32(len(s.Frames))
	if s.Flags&1 != 0 && count > 0 {
		count--
	}
	b = binary.LittleEndian.AppendUint32(b, count)
	b = binary.LittleEndian.AppendUint32(b, uint32(s.FrameDelay))
	b = binary.LittleEndian.AppendUint32(b, s.Flags)
	for _, v := range s.AudioSize {
		b = binary.LittleEndian.AppendUint32(b, v)
	}
	b = binary.LittleEndian.AppendUint32(b, uint32(len(s.Trees)))
	for _, v := range s.TreeSizes {
		b = binary.LittleEndian.AppendUint32(b, v)
	}
	for _, v := range s.AudioInfo {
		b = binary.LittleEndian.AppendUint32(b, v)
	}
	b = binary.LittleEndian.AppendUint32(b, 0) // dummy

	for _, f := range s.Frames {
		b = binary.LittleEndian.AppendUint32(b, uint32(len(f.Payload))|f.Low&3)
	}
	for _, f := range s.Frames {
		b = append(b, f.Type)
	}
	b = append(b, s.Trees...)
	for _, f := range s.Frames {
		b = append(b, f.Payload...)
	}
	return b
}

// FrameBuilder assembles a frame payload in demux order: palette, audio
// tracks, video.
type FrameBuilder struct {
	buf []byte
	typ byte
}

// Palette appends a palette chunk, which carries its own length byte.
func (f *FrameBuilder) Palette(chunk []byte) *FrameBuilder {
	f.buf = append(f.buf, chunk...)
	f.typ |= 1
	return f
}

// PCM appends an uncompressed audio chunk for track.
func (f *FrameBuilder) PCM(track int, data []byte) *FrameBuilder {
	f.buf = binary.LittleEndian.AppendUint32(f.buf, uint32(len(data))+4)
	f.buf = append(f.buf, data...)
	f.typ |= 2 << track
	return f
}

// DPCM appends a compressed audio chunk for track with its unpacked size.
func (f *FrameBuilder) DPCM(track int, data []byte, unpacked uint32) *FrameBuilder {
	f.buf = binary.LittleEndian.AppendUint32(f.buf, uint32(len(data))+8)
	f.buf = binary.LittleEndian.AppendUint32(f.buf, unpacked)
	f.buf = append(f.buf, data...)
	f.typ |= 2 << track
	return f
}

// Video appends the video bitstream.
func (f *FrameBuilder) Video(data []byte) *FrameBuilder {
	f.buf = append(f.buf, data...)
	return f
}

// Frame returns the frame, zero padded to a multiple of 4 bytes.
func (f *FrameBuilder) Frame() Frame {
	payload := append([]byte(nil), f.buf...)
	for len(payload)%4 != 0 {
		payload = append(payload, 0)
	}
	return Frame{Type: f.typ, Payload: payload}
}

// PaletteChunk prefixes body with its length byte and pads it to a
// multiple of 4 bytes.
func PaletteChunk(body ...byte) []byte {
	n := (len(body) + 1 + 3) / 4
	out := append([]byte{byte(n)}, body...)
	for len(out) < 4*n {
		out = append(out, 0)
	}
	return out
}
