package smacker

import (
	"go.uber.org/zap"

	"github.com/llehouerou/go-smacker/internal/output"
)

// NumAudioTracks is the number of audio track slots in a stream.
const NumAudioTracks = 7

// Version is the video coding variant selected by the file signature.
type Version int

// Versions.
const (
	Version2 Version = 2 // "SMK2"
	Version4 Version = 4 // "SMK4"
)

// Header flag bits.
const (
	FlagRingFrame   uint32 = 1 << 0 // an extra frame loops back to the start
	FlagYInterlaced uint32 = 1 << 1
	FlagYDoubled    uint32 = 1 << 2
)

// Compression is the coding of an audio track.
type Compression uint8

// Audio compressions.
const (
	CompressionNone Compression = iota // raw PCM
	CompressionDPCM                    // Huffman coded DPCM
	CompressionRDFT                    // Bink RDFT, not decoded
	CompressionDCT                     // Bink DCT, not decoded
)

var compressionNames = [...]string{"none", "dpcm", "rdft", "dct"}

func (c Compression) String() string {
	if int(c) < len(compressionNames) {
		return compressionNames[c]
	}
	return "unknown"
}

// Audio info bits.
const (
	audioDPCM       = 1 << 31
	audioPresent    = 1 << 30
	audio16Bit      = 1 << 29
	audioStereo     = 1 << 28
	audioRDFT       = 1 << 27
	audioDCT        = 1 << 26
	audioSampleRate = 1<<24 - 1
)

// AudioInfo is the static declaration of one audio track.
type AudioInfo struct {
	HasAudio    bool        `cbor:"present"`
	Is16Bit     bool        `cbor:"16bit"`
	Stereo      bool        `cbor:"stereo"`
	Compression Compression `cbor:"compression"`
	SampleRate  uint32      `cbor:"rate"`
}

func parseAudioInfo(v uint32) AudioInfo {
	info := AudioInfo{
		HasAudio:   v&audioPresent != 0,
		Is16Bit:    v&audio16Bit != 0,
		Stereo:     v&audioStereo != 0,
		SampleRate: v & audioSampleRate,
	}
	switch {
	case v&audioRDFT != 0:
		info.Compression = CompressionRDFT
	case v&audioDCT != 0:
		info.Compression = CompressionDCT
	case v&audioDPCM != 0:
		info.Compression = CompressionDPCM
	}
	return info
}

// Format returns the PCM layout the track decodes to.
func (a AudioInfo) Format() PCMFormat {
	return PCMFormat{Stereo: a.Stereo, Is16Bit: a.Is16Bit, SampleRate: a.SampleRate}
}

// Header is the fixed stream header.
type Header struct {
	Version    Version `cbor:"version"`
	Width      uint32  `cbor:"width"`
	Height     uint32  `cbor:"height"`
	FrameCount uint32  `cbor:"frames"` // includes the ring frame
	FrameDelay int32   `cbor:"delay"`
	Flags      uint32  `cbor:"flags"`

	AudioSize [NumAudioTracks]uint32 `cbor:"audio_size"`

	TreesSize uint32 `cbor:"trees_size"`
	MMapSize  uint32 `cbor:"mmap_size"`
	MClrSize  uint32 `cbor:"mclr_size"`
	FullSize  uint32 `cbor:"full_size"`
	TypeSize  uint32 `cbor:"type_size"`

	Audio [NumAudioTracks]AudioInfo `cbor:"audio"`
}

// YScale returns 2 for Y-interlaced or Y-doubled streams, else 1.
func (h *Header) YScale() int {
	if h.Flags&(FlagYInterlaced|FlagYDoubled) != 0 {
		return 2
	}
	return 1
}

// FrameRate returns the frame rate as a fraction in frames per second.
// The delay is in milliseconds when positive and in units of 10
// microseconds when negative.
func (h *Header) FrameRate() (num, den int) {
	switch {
	case h.FrameDelay > 0:
		return 1000, int(h.FrameDelay)
	case h.FrameDelay < 0:
		return 100000, -int(h.FrameDelay)
	default:
		return 1000, 1
	}
}

// FrameInfo describes one demultiplexed and decoded frame.
type FrameInfo struct {
	Index          int                  `cbor:"index"`
	Size           uint32               `cbor:"size"` // masked payload size
	Type           byte                 `cbor:"type"`
	PaletteChanged bool                 `cbor:"palette"`
	AudioBytes     [NumAudioTracks]int  `cbor:"audio"` // PCM bytes handed to the sink
	Skipped        [NumAudioTracks]bool `cbor:"skipped"`
	Blocks         int                  `cbor:"blocks"`
}

// PCMFormat describes decoded audio samples.
type PCMFormat struct {
	Stereo     bool
	Is16Bit    bool
	SampleRate uint32
}

// PCM is one chunk of decoded audio, channels interleaved. 8-bit samples
// are unsigned with 0x80 as silence. 16-bit samples are signed and
// little-endian (low byte first) for both DPCM and uncompressed tracks;
// sinks expecting big-endian samples must swap each pair.
type PCM struct {
	Format PCMFormat
	Data   []byte
}

// Int16 returns the samples widened to signed 16-bit.
func (p PCM) Int16() []int16 {
	return output.ToInt16(p.Data, p.Format.Is16Bit)
}

// Float32 returns the samples scaled to [-1.0, 1.0).
func (p PCM) Float32() []float32 {
	return output.ToFloat32(p.Data, p.Format.Is16Bit)
}

// Stereo16 returns interleaved stereo 16-bit samples, duplicating mono.
func (p PCM) Stereo16() []int16 {
	s := p.Int16()
	if p.Format.Stereo {
		return s
	}
	return output.Upmix(s)
}

// AudioSink receives decoded audio chunks. The sink owns pcm.Data, whose
// 16-bit samples are little-endian; use PCM.Int16 for native values.
type AudioSink interface {
	QueueAudio(track int, pcm PCM)
}

// AudioSinkFunc adapts a function to AudioSink.
type AudioSinkFunc func(track int, pcm PCM)

// QueueAudio calls f.
func (f AudioSinkFunc) QueueAudio(track int, pcm PCM) {
	f(track, pcm)
}

// Config contains decoder configuration options.
type Config struct {
	Logger    *zap.Logger // nil disables logging
	AudioSink AudioSink   // nil discards decoded audio
	SkipAudio bool        // skip audio chunks without decoding them
}
