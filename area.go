package pixui

// Handle identifies a registered UI area. Handles are opaque, non-zero,
// and never reused within one UI. The zero Handle means "no area" and is
// what Hovered reports when the cursor is over nothing.
type Handle uint32

// MaxAreaID is the largest area id a UI can assign. Ids occupy the low 31
// bits of the per-instance flags word; the top bit carries the enabled
// flag.
const MaxAreaID = 1<<31 - 1

// ZBand selects one of four fixed depth bands for an area. Bands render
// back to front; within a band, sprites render below glyph text.
type ZBand uint8

const (
	ZBackground ZBand = iota
	ZMiddle
	ZForeground
	ZOverlay

	numZBands = 4
)

// Area is a rectangular UI element in window pixels. The rectangle
// addresses the sprite's quad corners directly: (XMin, YMin) is the
// top-left corner.
//
// Disabled areas stay registered but rasterize nothing and never win hit
// tests; the GPU collapses their quads instead of branching, so toggling
// Enabled costs one instance-buffer refresh and nothing per frame.
type Area struct {
	XMin, XMax float32
	YMin, YMax float32

	// Sprite is the sprite index in the atlas, as returned by Atlas.Index.
	Sprite uint32

	Z       ZBand
	Enabled bool
}

// enabledBit is the flags bit the vertex kernel multiplies positions by.
const enabledBit = uint32(1) << 31

// packFlags packs an area id and enabled state into the per-instance flags
// word: id in bits 0..30, enabled in bit 31.
func packFlags(id uint32, enabled bool) uint32 {
	flags := id & MaxAreaID
	if enabled {
		flags |= enabledBit
	}
	return flags
}
