// Package atlas provides shelf-based rectangle packing for sprite and
// glyph atlas layers.
package atlas

// Shelf packs rectangles into a fixed-size square layer using horizontal
// shelves. Rectangles are placed left to right on the current shelf; when
// a rectangle does not fit, a new shelf opens below. The algorithm is
// simple and fast, and wastes little space when inputs arrive grouped by
// height, which the sprite builder arranges.
type Shelf struct {
	size    int
	padding int
	shelves []row
	used    int
}

// row is one horizontal strip of the layer.
type row struct {
	y      int // top of the strip
	height int // tallest rectangle placed so far
	x      int // next free x position
}

// NewShelf creates a packer for a size x size layer. padding is added to
// the right and bottom of every placed rectangle so neighboring regions
// never share texels under nearest sampling.
func NewShelf(size, padding int) *Shelf {
	return &Shelf{size: size, padding: padding}
}

// Allocate finds space for a w x h rectangle. It returns the top-left
// position, or ok=false when the layer has no room.
func (s *Shelf) Allocate(w, h int) (x, y int, ok bool) {
	paddedW := w + s.padding
	paddedH := h + s.padding

	for i := range s.shelves {
		r := &s.shelves[i]
		if r.x+paddedW > s.size {
			continue
		}
		if h > r.height {
			// Taller than the shelf. The last shelf may grow downward if
			// nothing is below it yet.
			if i == len(s.shelves)-1 && r.y+paddedH <= s.size {
				r.height = h
				x, y = r.x, r.y
				r.x += paddedW
				s.used += w * h
				return x, y, true
			}
			continue
		}
		x, y = r.x, r.y
		r.x += paddedW
		s.used += w * h
		return x, y, true
	}

	newY := 0
	if n := len(s.shelves); n > 0 {
		last := s.shelves[n-1]
		newY = last.y + last.height + s.padding
	}
	if newY+paddedH > s.size || paddedW > s.size {
		return -1, -1, false
	}
	s.shelves = append(s.shelves, row{y: newY, height: h, x: paddedW})
	s.used += w * h
	return 0, newY, true
}

// Reset clears all allocations, keeping shelf capacity for reuse.
func (s *Shelf) Reset() {
	s.shelves = s.shelves[:0]
	s.used = 0
}

// Utilization returns the fraction of the layer covered by allocated
// rectangles, 0 to 1.
func (s *Shelf) Utilization() float64 {
	if s.size <= 0 {
		return 0
	}
	return float64(s.used) / float64(s.size*s.size)
}

// Size returns the layer edge length.
func (s *Shelf) Size() int { return s.size }
