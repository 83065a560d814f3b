package smacker

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// maxPixels bounds width × height of the stored frame.
const maxPixels = 1 << 26

// rawHeader is the on-disk header layout after the signature,
// little-endian.
type rawHeader struct {
	Width      uint32
	Height     uint32
	FrameCount uint32
	FrameDelay int32
	Flags      uint32
	AudioSize  [NumAudioTracks]uint32
	TreesSize  uint32
	MMapSize   uint32
	MClrSize   uint32
	FullSize   uint32
	TypeSize   uint32
	AudioInfo  [NumAudioTracks]uint32
	Dummy      uint32
}

// headerSize is the encoded size of the signature and rawHeader.
const headerSize = 104

// signatureVersion maps a file signature to its version, or 0.
func signatureVersion(sig [4]byte) Version {
	switch string(sig[:]) {
	case "SMK2":
		return Version2
	case "SMK4":
		return Version4
	}
	return 0
}

// streamTables is everything that precedes the first frame.
type streamTables struct {
	header     Header
	frameSizes []uint32
	frameTypes []byte
	trees      []byte
}

// readTables reads the header, the frame tables and the tree blob.
func readTables(r io.Reader) (*streamTables, error) {
	var sig [4]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return nil, truncated("signature", err)
	}
	version := signatureVersion(sig)
	if version == 0 {
		return nil, fmt.Errorf("%w: signature %q", ErrFormat, sig[:])
	}

	var raw rawHeader
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		return nil, truncated("header", err)
	}
	if raw.Width == 0 || raw.Height == 0 || uint64(raw.Width)*uint64(raw.Height) > maxPixels {
		return nil, fmt.Errorf("%w: frame size %dx%d", ErrFormat, raw.Width, raw.Height)
	}

	h := Header{
		Version:    version,
		Width:      raw.Width,
		Height:     raw.Height,
		FrameCount: raw.FrameCount,
		FrameDelay: raw.FrameDelay,
		Flags:      raw.Flags,
		AudioSize:  raw.AudioSize,
		TreesSize:  raw.TreesSize,
		MMapSize:   raw.MMapSize,
		MClrSize:   raw.MClrSize,
		FullSize:   raw.FullSize,
		TypeSize:   raw.TypeSize,
	}
	if h.Flags&FlagRingFrame != 0 {
		h.FrameCount++
	}
	for i, v := range raw.AudioInfo {
		h.Audio[i] = parseAudioInfo(v)
	}

	t := &streamTables{header: h}

	sizes, err := readFull(r, 4*int64(h.FrameCount))
	if err != nil {
		return nil, truncated("frame sizes", err)
	}
	t.frameSizes = make([]uint32, h.FrameCount)
	if err := binary.Read(bytes.NewReader(sizes), binary.LittleEndian, t.frameSizes); err != nil {
		return nil, truncated("frame sizes", err)
	}

	if t.frameTypes, err = readFull(r, int64(h.FrameCount)); err != nil {
		return nil, truncated("frame types", err)
	}
	if t.trees, err = readFull(r, int64(h.TreesSize)); err != nil {
		return nil, truncated("trees", err)
	}
	return t, nil
}

// readFull reads exactly n bytes. The buffer grows with the data actually
// read, so a corrupt length cannot force a huge allocation up front.
func readFull(r io.Reader, n int64) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(r, n))
	if err != nil {
		return nil, err
	}
	if int64(len(buf)) < n {
		return nil, io.ErrUnexpectedEOF
	}
	return buf, nil
}

func truncated(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s", ErrDataTruncated, what)
	}
	return fmt.Errorf("%w: reading %s: %w", ErrDataTruncated, what, err)
}
