package video

import (
	"fmt"

	"github.com/llehouerou/go-smacker/internal/bits"
	"github.com/llehouerou/go-smacker/internal/huffman"
)

// Trees holds the four persistent word trees of a video stream.
type Trees struct {
	MMap *huffman.WordTree // mono block bitmaps
	MClr *huffman.WordTree // mono block color pairs
	Full *huffman.WordTree // full block pixel pairs
	Type *huffman.WordTree // block type, run and fill color
}

// TreeSizes are the header node budgets of the four trees, in bytes.
type TreeSizes struct {
	MMap, MClr, Full, Type uint32
}

// ReadTrees builds the four trees from the bootstrap blob, in stream order.
func ReadTrees(r *bits.Reader, sizes TreeSizes) (Trees, error) {
	var t Trees
	specs := []struct {
		name string
		size uint32
		dst  **huffman.WordTree
	}{
		{"mono map", sizes.MMap, &t.MMap},
		{"mono color", sizes.MClr, &t.MClr},
		{"full", sizes.Full, &t.Full},
		{"type", sizes.Type, &t.Type},
	}

	for _, s := range specs {
		tree, err := huffman.NewWordTree(r, s.size)
		if err != nil {
			return Trees{}, fmt.Errorf("video: %s tree: %w", s.name, err)
		}
		*s.dst = tree
	}
	return t, nil
}

func (t *Trees) reset() {
	t.MMap.Reset()
	t.MClr.Reset()
	t.Full.Reset()
	t.Type.Reset()
}
