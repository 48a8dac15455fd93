package gpu

import (
	"encoding/binary"
	"math"
)

// SpriteInstanceStride is the byte stride per sprite instance.
// Layout per instance, matching InstanceInput in sprite.wgsl:
//
//	sprite_index (u32)       = 4 bytes   (location 1)
//	rect         (vec4<f32>) = 16 bytes  (location 2)
//	flags        (u32)       = 4 bytes   (location 3)
//
// Total = 24 bytes per instance.
const SpriteInstanceStride = 24

// GlyphVertexStride is the byte stride per glyph vertex.
// Layout per vertex, matching VertexInput in glyph.wgsl:
//
//	position  (vec2<f32>) = 8 bytes  (location 0)
//	tex_coord (vec2<f32>) = 8 bytes  (location 1)
//	layer     (u32)       = 4 bytes  (location 2)
//	area_id   (u32)       = 4 bytes  (location 3)
//
// Total = 24 bytes per vertex.
const GlyphVertexStride = 24

// frameUniformSize is the byte size of the frame uniform buffer:
// current_frame (u32) + window_width (f32) + window_height (f32),
// padded to 16 bytes.
const frameUniformSize = 16

// cursorUniformSize is the byte size of the cursor uniform buffer:
// position (vec2<u32>), padded to 16 bytes.
const cursorUniformSize = 16

// unitQuadStride is the byte stride of the shared unit-quad vertex buffer:
// one vec2<f32> corner per vertex.
const unitQuadStride = 8

// AppendSpriteInstance serializes one sprite instance and appends it to dst.
func AppendSpriteInstance(dst []byte, spriteIndex uint32, xMin, xMax, yMin, yMax float32, flags uint32) []byte {
	var buf [SpriteInstanceStride]byte
	binary.LittleEndian.PutUint32(buf[0:], spriteIndex)
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(xMin))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(xMax))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(yMin))
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(yMax))
	binary.LittleEndian.PutUint32(buf[20:], flags)
	return append(dst, buf[:]...)
}

// AppendGlyphQuad serializes one glyph quad as 4 vertices and appends them
// to dst. (x0,y0)-(x1,y1) is the pixel rectangle, (u0,v0)-(u1,v1) the
// texture rectangle. Vertex order matches quadIndexData: top-left,
// top-right, bottom-right, bottom-left.
func AppendGlyphQuad(dst []byte, x0, y0, x1, y1, u0, v0, u1, v1 float32, layer, areaID uint32) []byte {
	dst = appendGlyphVertex(dst, x0, y0, u0, v0, layer, areaID)
	dst = appendGlyphVertex(dst, x1, y0, u1, v0, layer, areaID)
	dst = appendGlyphVertex(dst, x1, y1, u1, v1, layer, areaID)
	return appendGlyphVertex(dst, x0, y1, u0, v1, layer, areaID)
}

func appendGlyphVertex(dst []byte, x, y, u, v float32, layer, areaID uint32) []byte {
	var buf [GlyphVertexStride]byte
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(x))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(y))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(u))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(v))
	binary.LittleEndian.PutUint32(buf[16:], layer)
	binary.LittleEndian.PutUint32(buf[20:], areaID)
	return append(dst, buf[:]...)
}

// unitQuadVertexData returns the shared 4-vertex unit quad every sprite
// instance expands: corners (0,0), (1,0), (1,1), (0,1).
func unitQuadVertexData() []byte {
	corners := [8]float32{0, 0, 1, 0, 1, 1, 0, 1}
	data := make([]byte, len(corners)*4)
	for i, c := range corners {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(c))
	}
	return data
}

// quadIndexData generates uint16 index data for numQuads quads using the
// pattern 0,1,2, 2,3,0 per quad (two triangles).
func quadIndexData(numQuads int) []byte {
	data := make([]byte, numQuads*6*2)
	off := 0
	for i := 0; i < numQuads; i++ {
		base := uint16(i * 4) //nolint:gosec // quad count is bounded by maxGlyphQuads
		for _, idx := range [6]uint16{0, 1, 2, 2, 3, 0} {
			binary.LittleEndian.PutUint16(data[off:], base+idx)
			off += 2
		}
	}
	return data
}

// packFrameUniforms serializes the FrameUniforms struct declared by the
// vertex kernels.
func packFrameUniforms(currentFrame uint32, width, height float32) []byte {
	buf := make([]byte, frameUniformSize)
	binary.LittleEndian.PutUint32(buf[0:], currentFrame)
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(width))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(height))
	return buf
}

// packCursorUniforms serializes the CursorUniforms struct declared by the
// probe kernel.
func packCursorUniforms(x, y uint32) []byte {
	buf := make([]byte, cursorUniformSize)
	binary.LittleEndian.PutUint32(buf[0:], x)
	binary.LittleEndian.PutUint32(buf[4:], y)
	return buf
}
