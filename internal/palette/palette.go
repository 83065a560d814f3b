// Package palette decodes Smacker palette chunks. Each chunk describes the
// new 256-color palette relative to the previous one.
package palette

import (
	"errors"
	"image/color"

	"github.com/llehouerou/go-smacker/internal/tables"
)

// NumColors is the size of a Smacker palette.
const NumColors = 256

var (
	// ErrTruncated indicates the chunk ended before 256 entries were described.
	ErrTruncated = errors.New("palette: chunk truncated")

	// ErrOutOfRange indicates a copy or literal addressed an entry past 255.
	ErrOutOfRange = errors.New("palette: entry index out of range")
)

// Palette is the persistent palette state of a stream.
type Palette struct {
	entries [NumColors][3]byte
	dirty   bool
}

// Entry returns the RGB triple of entry i.
func (p *Palette) Entry(i uint8) [3]byte {
	return p.entries[i]
}

// Dirty reports whether the palette changed since the last ClearDirty.
func (p *Palette) Dirty() bool {
	return p.dirty
}

// ClearDirty acknowledges the current palette.
func (p *Palette) ClearDirty() {
	p.dirty = false
}

// Colors returns the palette as opaque RGBA colors.
func (p *Palette) Colors() color.Palette {
	pal := make(color.Palette, NumColors)
	for i, e := range p.entries {
		pal[i] = color.RGBA{R: e[0], G: e[1], B: e[2], A: 0xFF}
	}
	return pal
}

// Unpack decodes a palette chunk and returns the number of bytes it spans.
//
// The first byte gives the chunk length in 4-byte units, itself included.
// Control bytes follow until 256 entries are described:
//
//	1nnnnnnn           keep n+1 entries of the previous palette
//	01nnnnnn  s        copy n+1 previous entries starting at entry s
//	00rrrrrr  gg  bb   one literal 6-bit color
//
// The palette is replaced only when the whole chunk decodes.
func (p *Palette) Unpack(chunk []byte) (int, error) {
	if len(chunk) == 0 {
		return 0, ErrTruncated
	}
	size := 4 * int(chunk[0])
	if size == 0 || len(chunk) < size {
		return 0, ErrTruncated
	}

	old := &p.entries
	next := p.entries
	data := chunk[1:size]

	pos := 0
	read := func() (byte, bool) {
		if pos >= len(data) {
			return 0, false
		}
		b := data[pos]
		pos++
		return b, true
	}

	for n := 0; n < NumColors; {
		ctrl, ok := read()
		if !ok {
			return 0, ErrTruncated
		}

		switch {
		case ctrl&0x80 != 0:
			n += int(ctrl&0x7F) + 1

		case ctrl&0x40 != 0:
			count := int(ctrl&0x3F) + 1
			start, ok := read()
			if !ok {
				return 0, ErrTruncated
			}
			src := int(start)
			if src+count > NumColors || n+count > NumColors {
				return 0, ErrOutOfRange
			}
			copy(next[n:n+count], old[src:src+count])
			n += count

		default:
			g, ok1 := read()
			b, ok2 := read()
			if !ok1 || !ok2 {
				return 0, ErrTruncated
			}
			next[n] = [3]byte{
				tables.ColorScale[ctrl&0x3F],
				tables.ColorScale[g&0x3F],
				tables.ColorScale[b&0x3F],
			}
			n++
		}
	}

	p.entries = next
	p.dirty = true
	return size, nil
}
