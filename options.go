package pixui

import "github.com/gogpu/gputypes"

// Config holds UI construction parameters. Width and Height are required;
// zero-valued optional fields take the defaults from DefaultConfig.
type Config struct {
	// Width and Height are the window dimensions in pixels.
	Width, Height uint32

	// SurfaceFormat is the format of the texture view passed to
	// RenderFrame. Default: BGRA8Unorm.
	SurfaceFormat gputypes.TextureFormat

	// ClearSurface clears the color target before compositing. When false
	// (the default) the UI draws over the application's frame content.
	ClearSurface bool

	// ClearColor is the clear value used when ClearSurface is set.
	ClearColor gputypes.Color

	// GlyphLayerSize is the edge length of each glyph atlas layer.
	// Default: 512.
	GlyphLayerSize uint32

	// GlyphLayerCount is the number of glyph atlas layers. Default: 4.
	GlyphLayerCount uint32
}

// DefaultConfig returns the default UI configuration for the given window
// size.
func DefaultConfig(width, height uint32) Config {
	return Config{
		Width:           width,
		Height:          height,
		SurfaceFormat:   gputypes.TextureFormatBGRA8Unorm,
		GlyphLayerSize:  512,
		GlyphLayerCount: 4,
	}
}

// withDefaults fills zero-valued optional fields.
func (c Config) withDefaults() Config {
	d := DefaultConfig(c.Width, c.Height)
	if c.SurfaceFormat == 0 {
		c.SurfaceFormat = d.SurfaceFormat
	}
	if c.GlyphLayerSize == 0 {
		c.GlyphLayerSize = d.GlyphLayerSize
	}
	if c.GlyphLayerCount == 0 {
		c.GlyphLayerCount = d.GlyphLayerCount
	}
	return c
}

// BuilderConfig holds atlas builder parameters. Zero-valued fields take
// the defaults from DefaultBuilderConfig.
type BuilderConfig struct {
	// LayerSize is the edge length of each RGBA8 atlas layer. Default: 1024.
	LayerSize int

	// MaxLayers bounds the texture array depth. Default: 16.
	MaxLayers int

	// Padding is the gap in texels between packed frames. Default: 1.
	Padding int
}

// DefaultBuilderConfig returns the default atlas builder configuration.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		LayerSize: 1024,
		MaxLayers: 16,
		Padding:   1,
	}
}

func (c BuilderConfig) withDefaults() BuilderConfig {
	d := DefaultBuilderConfig()
	if c.LayerSize <= 0 {
		c.LayerSize = d.LayerSize
	}
	if c.MaxLayers <= 0 {
		c.MaxLayers = d.MaxLayers
	}
	if c.Padding <= 0 {
		c.Padding = d.Padding
	}
	return c
}
