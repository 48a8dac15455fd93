package pixui

import "errors"

// Errors returned by the public API.
var (
	// ErrNilDevice is returned when a UI is constructed without a device.
	ErrNilDevice = errors.New("pixui: device is nil")

	// ErrNilAtlas is returned when a UI is constructed without a sprite atlas.
	ErrNilAtlas = errors.New("pixui: atlas is nil")

	// ErrZeroSize is returned when the window dimensions are zero.
	ErrZeroSize = errors.New("pixui: window size is zero")

	// ErrClosed is returned when operating on a closed UI.
	ErrClosed = errors.New("pixui: UI is closed")

	// ErrUnknownArea is returned when a handle does not name a live area.
	ErrUnknownArea = errors.New("pixui: unknown area handle")

	// ErrUnknownSprite is returned when an area references a sprite index
	// outside the atlas.
	ErrUnknownSprite = errors.New("pixui: unknown sprite index")

	// ErrAreaIDExhausted is returned when more than 2^31-1 areas have been
	// created over the lifetime of a UI.
	ErrAreaIDExhausted = errors.New("pixui: area id space exhausted")

	// ErrDuplicateSprite is returned when a sprite name is registered twice.
	ErrDuplicateSprite = errors.New("pixui: duplicate sprite name")

	// ErrSpriteTooLarge is returned when a sprite frame exceeds the atlas
	// layer size.
	ErrSpriteTooLarge = errors.New("pixui: sprite frame exceeds atlas layer size")

	// ErrAtlasFull is returned when sprites do not fit in the configured
	// number of atlas layers.
	ErrAtlasFull = errors.New("pixui: atlas layer budget exhausted")

	// ErrBadStrip is returned when an animation strip width is not a
	// positive multiple of the frame width.
	ErrBadStrip = errors.New("pixui: strip width is not a multiple of frame width")

	// ErrEmptyBuilder is returned when Build is called with no sprites.
	ErrEmptyBuilder = errors.New("pixui: no sprites registered")

	// ErrGlyphTooLarge is returned when a glyph bitmap exceeds the glyph
	// atlas layer size.
	ErrGlyphTooLarge = errors.New("pixui: glyph exceeds atlas layer size")

	// ErrGlyphAtlasFull is returned when the glyph atlas has no room left.
	ErrGlyphAtlasFull = errors.New("pixui: glyph atlas full")

	// ErrTableInvalid is returned by IndirectionTable.Validate for tables
	// whose entries cannot be resolved safely on the GPU.
	ErrTableInvalid = errors.New("pixui: invalid indirection table")
)
