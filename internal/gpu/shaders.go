package gpu

import _ "embed"

// Embedded WGSL kernel sources. The Go structs and stride constants in
// vertex.go mirror the buffer layouts these shaders declare; changing one
// side requires changing the other.

// spriteShaderSource composites sprite instances through the two-level
// indirection tables.
//
//go:embed shaders/sprite.wgsl
var spriteShaderSource string

// spriteIDShaderSource is the id-pass variant of the sprite kernel,
// writing area ids to the R32Uint target with an alpha threshold discard.
//
//go:embed shaders/sprite_id.wgsl
var spriteIDShaderSource string

// glyphShaderSource composites pre-placed glyph quads from the R8
// coverage atlas.
//
//go:embed shaders/glyph.wgsl
var glyphShaderSource string

// glyphIDShaderSource is the id-pass variant of the glyph kernel.
//
//go:embed shaders/glyph_id.wgsl
var glyphIDShaderSource string

// probeShaderSource reads the id texel under the cursor into the result
// buffer with a single compute invocation.
//
//go:embed shaders/probe.wgsl
var probeShaderSource string

// SpriteShaderSource returns the WGSL source for the sprite kernel.
func SpriteShaderSource() string { return spriteShaderSource }

// SpriteIDShaderSource returns the WGSL source for the sprite id kernel.
func SpriteIDShaderSource() string { return spriteIDShaderSource }

// GlyphShaderSource returns the WGSL source for the glyph kernel.
func GlyphShaderSource() string { return glyphShaderSource }

// GlyphIDShaderSource returns the WGSL source for the glyph id kernel.
func GlyphIDShaderSource() string { return glyphIDShaderSource }

// ProbeShaderSource returns the WGSL source for the cursor probe kernel.
func ProbeShaderSource() string { return probeShaderSource }
