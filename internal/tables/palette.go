package tables

// ScaleColor expands a 6-bit color component to 8 bits so that 0 maps to 0
// and 63 maps to 255.
func ScaleColor(v byte) byte {
	v &= 0x3F
	return v*4 + v/16
}

// ColorScale is ScaleColor precomputed for every 6-bit input.
var ColorScale = func() [64]byte {
	var t [64]byte
	for i := range t {
		t[i] = ScaleColor(byte(i))
	}
	return t
}()
