package video

import "image"

// NextDirtyRect returns the next rectangle of blocks changed by the last
// frame and clears it. It returns false once no dirty block remains, which
// also rewinds the scan for the next frame.
//
// The search resumes at the top-left block of the previous rectangle. A
// rectangle is the longest dirty run on its first row, extended downwards
// while the next row is dirty across the same columns and dirty on neither
// side of them.
func (d *Decoder) NextDirtyRect() (image.Rectangle, bool) {
	bw, bh := d.bw, d.bh
	blocks := bw * bh

	idx := d.scan
	for idx < blocks && !d.dirty.get(idx) {
		idx++
	}
	if idx >= blocks {
		d.scan = 0
		return image.Rectangle{}, false
	}

	x0, y0 := idx%bw, idx/bw

	x1 := x0 + 1
	for x1 < bw && d.dirty.get(x1+y0*bw) {
		x1++
	}

	y1 := y0 + 1
	for ; y1 < bh; y1++ {
		row := y1 * bw
		if x0 != 0 && d.dirty.get(x0-1+row) {
			break
		}
		bx := x0
		for bx != x1 && d.dirty.get(bx+row) {
			bx++
		}
		if bx != x1 {
			break
		}
		if bx != bw && d.dirty.get(bx+row) {
			break
		}
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			d.dirty.unset(x + y*bw)
		}
	}

	d.scan = idx
	ys := d.cfg.YScale
	return image.Rect(4*x0, 4*y0*ys, 4*x1, 4*y1*ys), true
}
