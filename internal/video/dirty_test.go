package video

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/go-smacker/internal/smktest"
)

// dirtyDecoder returns a 4x4-block decoder with the given blocks dirty.
func dirtyDecoder(t *testing.T, yscale int, blocks ...int) *Decoder {
	t.Helper()
	f := newFixture(t, Config{Width: 16, Height: 16, YScale: yscale, Version: Version4}, treeValues{})
	for _, b := range blocks {
		f.dec.dirty.set(b)
	}
	return f.dec
}

func drain(d *Decoder) []image.Rectangle {
	var rects []image.Rectangle
	for {
		r, ok := d.NextDirtyRect()
		if !ok {
			return rects
		}
		rects = append(rects, r)
	}
}

func TestNextDirtyRect_Square(t *testing.T) {
	d := dirtyDecoder(t, 1, 0, 1, 4, 5)

	rect, ok := d.NextDirtyRect()
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 8, 8), rect)

	_, ok = d.NextDirtyRect()
	assert.False(t, ok)
	for _, b := range []int{0, 1, 4, 5} {
		assert.False(t, d.dirty.get(b), "block %d still dirty", b)
	}
}

func TestNextDirtyRect_Shapes(t *testing.T) {
	tests := []struct {
		name   string
		yscale int
		blocks []int
		want   []image.Rectangle
	}{
		{
			name:   "none",
			yscale: 1,
			want:   nil,
		},
		{
			name:   "narrower second row",
			yscale: 1,
			blocks: []int{0, 1, 2, 4, 5},
			want:   []image.Rectangle{image.Rect(0, 0, 12, 4), image.Rect(0, 4, 8, 8)},
		},
		{
			name:   "dirty left neighbour stops extension",
			yscale: 1,
			blocks: []int{1, 2, 4, 5, 6},
			want:   []image.Rectangle{image.Rect(4, 0, 12, 4), image.Rect(0, 4, 12, 8)},
		},
		{
			name:   "dirty right neighbour stops extension",
			yscale: 1,
			blocks: []int{1, 5, 6},
			want:   []image.Rectangle{image.Rect(4, 0, 8, 4), image.Rect(4, 4, 12, 8)},
		},
		{
			name:   "full column",
			yscale: 1,
			blocks: []int{3, 7, 11, 15},
			want:   []image.Rectangle{image.Rect(12, 0, 16, 16)},
		},
		{
			name:   "separate runs in one row",
			yscale: 1,
			blocks: []int{8, 10, 11},
			want:   []image.Rectangle{image.Rect(0, 8, 4, 12), image.Rect(8, 8, 16, 12)},
		},
		{
			name:   "doubled height",
			yscale: 2,
			blocks: []int{5, 9},
			want:   []image.Rectangle{image.Rect(4, 8, 8, 24)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := dirtyDecoder(t, tt.yscale, tt.blocks...)
			assert.Equal(t, tt.want, drain(d))

			// The scan rewinds once exhausted.
			d.dirty.set(0)
			rect, ok := d.NextDirtyRect()
			require.True(t, ok)
			assert.Equal(t, image.Rect(0, 0, 4, 4*tt.yscale), rect)
		})
	}
}

func TestNextDirtyRect_AfterDecode(t *testing.T) {
	fill := typeCode(blockFill, 1, 0x10) // run of 2
	skip := typeCode(blockSkip, 1, 0)
	f := newFixture(t, Config{Width: 8, Height: 8, YScale: 1, Version: Version4},
		treeValues{typ: []uint16{fill, skip}})

	require.NoError(t, f.decode(func(w *smktest.BitWriter) {
		w.WriteCode(f.typ[skip])
		w.WriteCode(f.typ[fill])
	}))
	assert.Equal(t, []image.Rectangle{image.Rect(0, 4, 8, 8)}, drain(f.dec))
}
