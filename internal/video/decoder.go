// Package video reconstructs Smacker frames: a grid of 4×4 blocks decoded
// with four persistent word trees onto a palette-indexed surface.
package video

import (
	"errors"
	"image"

	"github.com/llehouerou/go-smacker/internal/bits"
	"github.com/llehouerou/go-smacker/internal/tables"
)

var (
	// ErrTruncated indicates the frame bitstream ended before the block
	// grid was covered.
	ErrTruncated = errors.New("video: frame bitstream overrun")

	// ErrGeometry indicates invalid frame dimensions or scale.
	ErrGeometry = errors.New("video: invalid frame geometry")

	// ErrNoTrees indicates the decoder was created without its trees.
	ErrNoTrees = errors.New("video: trees not initialised")
)

// Version selects the full-block coding variant.
type Version int

// Video versions.
const (
	Version2 Version = 2 // full blocks always use mode 0
	Version4 Version = 4 // full blocks carry a 1-2 bit mode prefix
)

// Config describes the stored frame geometry.
type Config struct {
	Width   int     // Surface width in pixels
	Height  int     // Stored height, before Y scaling
	YScale  int     // 2 for Y-interlaced or Y-doubled streams, else 1
	Version Version // Full-block variant
}

// Block kinds, the low two bits of a type code.
const (
	blockMono = 0
	blockFull = 1
	blockSkip = 2
	blockFill = 3
)

// Decoder owns the surface, the dirty bitmap and the trees of one stream.
// It is not safe for concurrent use.
type Decoder struct {
	cfg   Config
	trees Trees

	surface *image.Paletted
	back    []byte // decode target, swapped with surface.Pix on success
	stride  int

	bw, bh  int // block grid
	dirty   bitmap
	pending bitmap
	visited int // blocks covered by the last frame
	scan    int // block index where the next dirty rect search starts
}

// NewDecoder creates a frame decoder. The surface starts zero-filled with
// an empty palette; callers attach colors through Surface().Palette.
func NewDecoder(cfg Config, trees Trees) (*Decoder, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || (cfg.YScale != 1 && cfg.YScale != 2) {
		return nil, ErrGeometry
	}
	if trees.MMap == nil || trees.MClr == nil || trees.Full == nil || trees.Type == nil {
		return nil, ErrNoTrees
	}

	bw, bh := cfg.Width/4, cfg.Height/4
	surface := image.NewPaletted(image.Rect(0, 0, cfg.Width, cfg.Height*cfg.YScale), nil)
	return &Decoder{
		cfg:     cfg,
		trees:   trees,
		surface: surface,
		back:    make([]byte, len(surface.Pix)),
		stride:  surface.Stride,
		bw:      bw,
		bh:      bh,
		dirty:   newBitmap(bw * bh),
		pending: newBitmap(bw * bh),
	}, nil
}

// Surface returns the current frame. The image is updated in place by
// every successful Decode.
func (d *Decoder) Surface() *image.Paletted {
	return d.surface
}

// Blocks returns the number of blocks covered by the last decoded frame.
func (d *Decoder) Blocks() int {
	return d.visited
}

// Decode decodes one frame from r.
//
// The frame is reconstructed on a copy of the current surface. The surface
// and dirty bitmap change only if the whole grid was covered without
// running out of bits; on error they keep the previous frame.
func (d *Decoder) Decode(r *bits.Reader) error {
	d.trees.reset()
	d.pending.clear()
	copy(d.back, d.surface.Pix)

	blocks := d.bw * d.bh
	block := 0
	for block < blocks {
		typ := d.trees.Type.Decode(r)
		if r.Error() {
			return ErrTruncated
		}
		run := min(tables.BlockRun(typ), blocks-block)

		switch typ & 3 {
		case blockMono:
			for end := block + run; block < end; block++ {
				d.mono(r, block)
			}
		case blockFull:
			mode := d.fullMode(r)
			for end := block + run; block < end; block++ {
				d.full(r, block, mode)
			}
		case blockSkip:
			block += run
		case blockFill:
			color := byte(typ >> 8)
			for end := block + run; block < end; block++ {
				d.fill(block, color)
			}
		}
	}

	if r.Error() {
		return ErrTruncated
	}

	d.surface.Pix, d.back = d.back, d.surface.Pix
	d.dirty, d.pending = d.pending, d.dirty
	d.visited = block
	d.scan = 0
	return nil
}

// offset returns the index of the top-left pixel of block in the back buffer.
func (d *Decoder) offset(block int) int {
	return (block/d.bw)*d.stride*4*d.cfg.YScale + (block%d.bw)*4
}

// putRows writes row n times, each repeated YScale times, starting at off.
// It returns the offset of the next unwritten row.
func (d *Decoder) putRows(off, n int, row [4]byte) int {
	for i := 0; i < n*d.cfg.YScale; i++ {
		copy(d.back[off:off+4], row[:])
		off += d.stride
	}
	return off
}

// mono decodes a two-color block: a color pair and a 16-bit mask, one bit
// per pixel in row-major order starting at the least significant bit.
func (d *Decoder) mono(r *bits.Reader, block int) {
	clr := d.trees.MClr.Decode(r)
	mask := d.trees.MMap.Decode(r)
	hi, lo := byte(clr>>8), byte(clr)

	off := d.offset(block)
	for y := 0; y < 4; y++ {
		var row [4]byte
		for x := range row {
			if mask&(1<<x) != 0 {
				row[x] = hi
			} else {
				row[x] = lo
			}
		}
		off = d.putRows(off, 1, row)
		mask >>= 4
	}
	d.pending.set(block)
}

// fullMode reads the sub-mode of a run of full blocks: 1 selects mode 1,
// 01 selects mode 2, 00 mode 0. Version 2 streams carry no mode bits.
func (d *Decoder) fullMode(r *bits.Reader) int {
	if d.cfg.Version == Version2 {
		return 0
	}
	if r.Get1Bit() == 1 {
		return 1
	}
	if r.Get1Bit() == 1 {
		return 2
	}
	return 0
}

// full decodes a block coded pixel by pixel, in one of three layouts.
func (d *Decoder) full(r *bits.Reader, block, mode int) {
	tree := d.trees.Full
	off := d.offset(block)

	switch mode {
	case 0:
		// Each row: two codes, the second filling the left pair.
		for y := 0; y < 4; y++ {
			p1 := tree.Decode(r)
			p2 := tree.Decode(r)
			off = d.putRows(off, 1, [4]byte{byte(p2), byte(p2 >> 8), byte(p1), byte(p1 >> 8)})
		}
	case 1:
		// 2×2 pixels: one code per half, each byte doubled horizontally.
		for half := 0; half < 2; half++ {
			p := tree.Decode(r)
			off = d.putRows(off, 2, [4]byte{byte(p), byte(p), byte(p >> 8), byte(p >> 8)})
		}
	case 2:
		// One row pair per half, the right code coming first.
		for half := 0; half < 2; half++ {
			p2 := tree.Decode(r)
			p1 := tree.Decode(r)
			off = d.putRows(off, 2, [4]byte{byte(p1), byte(p1 >> 8), byte(p2), byte(p2 >> 8)})
		}
	}
	d.pending.set(block)
}

// fill paints a block with a single color.
func (d *Decoder) fill(block int, color byte) {
	d.putRows(d.offset(block), 4, [4]byte{color, color, color, color})
	d.pending.set(block)
}
