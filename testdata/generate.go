//go:build ignore

// This script generates synthetic Smacker streams for manual testing.
// Run with: go run testdata/generate.go
//
// Generated test data structure:
//
//	testdata/generated/
//	├── smk2_mono8_raw.smk
//	├── smk2_mono8_raw.json   # expected decode results
//	├── smk4_stereo16_dpcm.smk
//	└── ...
//
// Every stream holds a fill-color animation over a gray ramp palette and
// one audio track carrying a 440 Hz sine wave.
package main

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/llehouerou/go-smacker/internal/smktest"
)

// TestConfig describes one generated stream.
type TestConfig struct {
	Name       string `json:"name"`
	Signature  string `json:"signature"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Frames     int    `json:"frames"`
	YDoubled   bool   `json:"y_doubled"`
	SampleRate int    `json:"sample_rate"`
	Stereo     bool   `json:"stereo"`
	Is16Bit    bool   `json:"is_16bit"`
	DPCM       bool   `json:"dpcm"`
}

// Expected is written next to every stream.
type Expected struct {
	Config       TestConfig `json:"config"`
	FrameDelayMs int        `json:"frame_delay_ms"`
	AudioBytes   int        `json:"audio_bytes"` // per frame
	FrameColors  []byte     `json:"frame_colors"`
}

var configs = []TestConfig{
	{"smk2_mono8_raw", "SMK2", 64, 48, 10, false, 22050, false, false, false},
	{"smk2_mono8_dpcm", "SMK2", 64, 48, 10, false, 22050, false, false, true},
	{"smk4_stereo8_dpcm", "SMK4", 64, 48, 10, false, 22050, true, false, true},
	{"smk4_mono16_dpcm", "SMK4", 64, 48, 10, false, 44100, false, true, true},
	{"smk4_stereo16_dpcm", "SMK4", 64, 48, 10, true, 44100, true, true, true},
	{"smk4_stereo16_raw", "SMK4", 320, 200, 5, false, 44100, true, true, false},
}

const frameDelay = 100 // ms, 10 fps

func main() {
	baseDir := filepath.Join("testdata", "generated")
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}

	for _, cfg := range configs {
		if err := generate(baseDir, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating %s: %v\n", cfg.Name, err)
			os.Exit(1)
		}
		fmt.Printf("  %s\n", cfg.Name)
	}
}

func generate(dir string, cfg TestConfig) error {
	// One fill code per frame color, each covering the whole grid with
	// runs of 2048 blocks, clamped by the decoder.
	colors := make([]byte, cfg.Frames)
	types := make([]uint16, cfg.Frames)
	for i := range colors {
		colors[i] = byte(i * 255 / max(cfg.Frames-1, 1))
		types[i] = 3 | 63<<2 | uint16(colors[i])<<8
	}
	var tw smktest.BitWriter
	for _i := 0; _i < 3; _i++ {
		smktest.WriteWordTree(&tw, nil, [3]uint16{})
	}
	codes := smktest.WriteWordTree(&tw, types, [3]uint16{0, 0, 0})

	s := &smktest.Stream{
		Signature:  cfg.Signature,
		Width:      uint32(cfg.Width),
		Height:     uint32(cfg.Height),
		FrameDelay: frameDelay,
		TreeSizes:  [4]uint32{4, 4, 4, smktest.WordTreeAllocSize(len(types))},
		Trees:      tw.Bytes(),
	}
	if cfg.YDoubled {
		s.Flags |= 4
	}
	s.AudioInfo[0] = 1<<30 | uint32(cfg.SampleRate)
	if cfg.DPCM {
		s.AudioInfo[0] |= 1 << 31
	}
	if cfg.Is16Bit {
		s.AudioInfo[0] |= 1 << 29
	}
	if cfg.Stereo {
		s.AudioInfo[0] |= 1 << 28
	}

	perFrame := cfg.SampleRate * frameDelay / 1000
	channels := 1
	if cfg.Stereo {
		channels = 2
	}
	phase := 0
	var audioBytes int
	for i := 0; i < cfg.Frames; i++ {
		pcm := sine(phase, perFrame, channels, cfg.Is16Bit, cfg.SampleRate)
		phase += perFrame
		audioBytes = len(pcm)

		var vw smktest.BitWriter
		vw.WriteCode(codes[types[i]])

		b := &smktest.FrameBuilder{}
		if i == 0 {
			b.Palette(grayRamp())
		}
		if cfg.DPCM {
			b.DPCM(0, encodeDPCM(pcm, channels, cfg.Is16Bit), uint32(len(pcm)))
		} else {
			b.PCM(0, pcm)
		}
		b.Video(vw.Bytes())
		s.Frames = append(s.Frames, b.Frame())
	}

	if err := os.WriteFile(filepath.Join(dir, cfg.Name+".smk"), s.Bytes(), 0644); err != nil {
		return err
	}

	exp := Expected{
		Config:       cfg,
		FrameDelayMs: frameDelay,
		AudioBytes:   audioBytes,
		FrameColors:  colors,
	}
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, cfg.Name+".json"), data, 0644)
}

// grayRamp maps entry i to gray level i/4, the closest 6-bit value.
func grayRamp() []byte {
	var body []byte
	for i := 0; i < 256; i++ {
		v := byte(i >> 2)
		body = append(body, v, v, v)
	}
	return smktest.PaletteChunk(body...)
}

// sine returns n interleaved sample frames of a 440 Hz tone in the
// decoder's output layout: unsigned 8-bit or signed little-endian 16-bit.
func sine(start, n, channels int, is16 bool, rate int) []byte {
	var out []byte
	for i := start; i < start+n; i++ {
		v := math.Sin(2 * math.Pi * 440 * float64(i) / float64(rate))
		for ch := 0; ch < channels; ch++ {
			if is16 {
				out = binary.LittleEndian.AppendUint16(out, uint16(int16(v*16000)))
			} else {
				out = append(out, byte(int8(v*100))^0x80)
			}
		}
	}
	return out
}

// encodeDPCM codes pcm as a Huffman DPCM chunk.
func encodeDPCM(pcm []byte, channels int, is16 bool) []byte {
	bps := 1
	if is16 {
		bps = 2
	}
	frame := channels * bps
	n := len(pcm) / frame

	sample := func(i, ch int) uint16 {
		off := i*frame + ch*bps
		if is16 {
			return binary.LittleEndian.Uint16(pcm[off:])
		}
		return uint16(pcm[off] ^ 0x80)
	}

	// deltas[plane] lists the byte stream of each tree.
	planes := channels * bps
	deltas := make([][]byte, planes)
	for ch := 0; ch < channels; ch++ {
		for i := 1; i < n; i++ {
			d := sample(i, ch) - sample(i-1, ch)
			if is16 {
				deltas[2*ch] = append(deltas[2*ch], byte(d))
				deltas[2*ch+1] = append(deltas[2*ch+1], byte(d>>8))
			} else {
				deltas[ch] = append(deltas[ch], byte(d))
			}
		}
	}

	var w smktest.BitWriter
	w.WriteBit(1)
	w.WriteBit(boolBit(channels == 2))
	w.WriteBit(boolBit(is16))

	codes := make([]map[byte]smktest.Code, planes)
	for p := range codes {
		codes[p] = smktest.WriteByteTree(&w, distinct(deltas[p]))
	}

	// Bases: last channel first, 16-bit values byte-swapped.
	for ch := channels - 1; ch >= 0; ch-- {
		base := sample(0, ch)
		if is16 {
			w.WriteBits(uint32(base>>8|base<<8), 16)
		} else {
			w.WriteBits(uint32(base), 8)
		}
	}

	for i := 0; i < n-1; i++ {
		for ch := 0; ch < channels; ch++ {
			if is16 {
				w.WriteCode(codes[2*ch][deltas[2*ch][i]])
				w.WriteCode(codes[2*ch+1][deltas[2*ch+1][i]])
			} else {
				w.WriteCode(codes[ch][deltas[ch][i]])
			}
		}
	}
	return w.Bytes()
}

func distinct(b []byte) []byte {
	seen := map[byte]bool{}
	var out []byte
	for _, v := range b {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
