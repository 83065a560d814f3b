// Package output converts decoded Smacker PCM into the sample layouts audio
// sinks consume.
package output

import "encoding/binary"

// FloatScale normalizes the 16-bit range to [-1.0, 1.0).
const FloatScale = float32(1.0 / 32768.0)

// ToInt16 converts interleaved PCM bytes to signed 16-bit samples.
//
// 8-bit input is unsigned with a 0x80 midpoint and is widened to the full
// 16-bit range. 16-bit input is signed little-endian; a trailing odd byte
// is ignored.
func ToInt16(data []byte, is16 bool) []int16 {
	if !is16 {
		out := make([]int16, len(data))
		for i, b := range data {
			out[i] = int16(int8(b^0x80)) << 8
		}
		return out
	}

	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
	}
	return out
}

// ToFloat32 converts interleaved PCM bytes to samples in [-1.0, 1.0).
func ToFloat32(data []byte, is16 bool) []float32 {
	samples := ToInt16(data, is16)
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) * FloatScale
	}
	return out
}

// Upmix duplicates every mono sample into a left/right pair.
func Upmix(mono []int16) []int16 {
	out := make([]int16, 2*len(mono))
	for i, s := range mono {
		out[2*i] = s
		out[2*i+1] = s
	}
	return out
}
