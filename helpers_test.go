package smacker

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/llehouerou/go-smacker/internal/smktest"
)

var testMarkers = [3]uint16{0xFEFD, 0xFEFE, 0xFEFF}

// Block kinds of a type code.
const (
	kindMono = 0
	kindFull = 1
	kindSkip = 2
	kindFill = 3
)

func typeCode(kind, runIdx int, color byte) uint16 {
	return uint16(kind) | uint16(runIdx)<<2 | uint16(color)<<8
}

// Fill codes covering a whole 8×8 frame (run index 3 is 4 blocks).
var (
	fillA = typeCode(kindFill, 3, 0x11)
	fillB = typeCode(kindFill, 3, 0x22)
)

// testTrees builds a bootstrap blob with empty mono and full trees and a
// type tree holding typ.
func testTrees(typ []uint16) ([]byte, [4]uint32, map[uint16]smktest.Code) {
	var w smktest.BitWriter
	smktest.WriteWordTree(&w, nil, testMarkers)
	smktest.WriteWordTree(&w, nil, testMarkers)
	smktest.WriteWordTree(&w, nil, testMarkers)
	codes := smktest.WriteWordTree(&w, typ, testMarkers)
	sizes := [4]uint32{4, 4, 4, smktest.WordTreeAllocSize(len(typ))}
	return w.Bytes(), sizes, codes
}

// testStream returns an 8×8 SMK4 stream whose type tree holds fillA and
// fillB.
func testStream() (*smktest.Stream, map[uint16]smktest.Code) {
	trees, sizes, codes := testTrees([]uint16{fillA, fillB})
	return &smktest.Stream{
		Signature:  "SMK4",
		Width:      8,
		Height:     8,
		FrameDelay: 100,
		Trees:      trees,
		TreeSizes:  sizes,
	}, codes
}

// videoBits encodes a sequence of type codes.
func videoBits(codes map[uint16]smktest.Code, values ...uint16) []byte {
	var w smktest.BitWriter
	for _, v := range values {
		w.WriteCode(codes[v])
	}
	return w.Bytes()
}

// redAt17 sets entry 0x11 to pure red and keeps every other entry.
var redAt17 = smktest.PaletteChunk(
	0x80|16,          // keep 17
	0x3F, 0x00, 0x00, // literal
	0xFF,     // keep 128
	0x80|109, // keep 110
)

func openStream(t *testing.T, d *Decoder, s *smktest.Stream) *Header {
	t.Helper()
	h, err := d.Open(bytes.NewReader(s.Bytes()))
	require.NoError(t, err)
	return h
}

type queued struct {
	track int
	pcm   PCM
}

// recorder collects every chunk handed to the sink.
type recorder struct {
	got []queued
}

func (r *recorder) QueueAudio(track int, pcm PCM) {
	r.got = append(r.got, queued{track, pcm})
}
