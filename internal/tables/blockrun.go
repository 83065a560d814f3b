package tables

// BlockRuns maps the 6-bit run field of a block-type code to the number of
// consecutive blocks sharing that type. Indices 0-58 are literal counts
// (index+1); the last five jump to powers of two from 128 to 2048.
var BlockRuns = [64]int{
	1, 2, 3, 4, 5, 6, 7, 8,
	9, 10, 11, 12, 13, 14, 15, 16,
	17, 18, 19, 20, 21, 22, 23, 24,
	25, 26, 27, 28, 29, 30, 31, 32,
	33, 34, 35, 36, 37, 38, 39, 40,
	41, 42, 43, 44, 45, 46, 47, 48,
	49, 50, 51, 52, 53, 54, 55, 56,
	57, 58, 59, 128, 256, 512, 1024, 2048,
}

// BlockRun returns the run length for a block-type code.
func BlockRun(typeCode uint16) int {
	return BlockRuns[(typeCode>>2)&0x3F]
}
