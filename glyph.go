package pixui

import (
	"fmt"

	"github.com/gogpu/pixui/internal/atlas"
)

// Glyph is a rasterized glyph's cell in the coverage atlas, returned by
// UI.RegisterGlyph. The same Glyph can appear in any number of placements.
type Glyph struct {
	Layer      uint32
	UMin, VMin float32
	UMax, VMax float32

	// Width and Height are the bitmap dimensions in texels.
	Width, Height int
}

// PlacedGlyph positions one registered glyph in window pixels. X and Y are
// the glyph's top-left corner; the quad spans the bitmap's dimensions.
// Shaping, kerning, and line layout happen before placements reach pixui.
type PlacedGlyph struct {
	X, Y  float32
	Glyph Glyph
}

// glyphPacker tracks free space across the fixed set of glyph atlas
// layers. Uploads go through the renderer; this is CPU bookkeeping only.
type glyphPacker struct {
	layerSize int
	shelves   []*atlas.Shelf
}

func newGlyphPacker(layerSize, layerCount uint32) *glyphPacker {
	shelves := make([]*atlas.Shelf, layerCount)
	for i := range shelves {
		// 1 texel of padding keeps linear sampling inside the cell.
		shelves[i] = atlas.NewShelf(int(layerSize), 1)
	}
	return &glyphPacker{layerSize: int(layerSize), shelves: shelves}
}

// allocate finds a cell for a w x h bitmap, filling layers in order.
func (p *glyphPacker) allocate(w, h int) (layer, x, y int, err error) {
	if w > p.layerSize || h > p.layerSize {
		return 0, 0, 0, fmt.Errorf("%w: %dx%d, layer is %d", ErrGlyphTooLarge, w, h, p.layerSize)
	}
	for i, s := range p.shelves {
		if px, py, ok := s.Allocate(w, h); ok {
			return i, px, py, nil
		}
	}
	return 0, 0, 0, ErrGlyphAtlasFull
}
