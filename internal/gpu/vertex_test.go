package gpu

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestAppendSpriteInstanceLayout(t *testing.T) {
	data := AppendSpriteInstance(nil, 7, 10, 110, 20, 220, 0x80000003)
	if len(data) != SpriteInstanceStride {
		t.Fatalf("instance is %d bytes, want %d", len(data), SpriteInstanceStride)
	}
	if got := binary.LittleEndian.Uint32(data[0:]); got != 7 {
		t.Errorf("sprite_index = %d, want 7", got)
	}
	rect := [4]float32{10, 110, 20, 220}
	for i, want := range rect {
		got := math.Float32frombits(binary.LittleEndian.Uint32(data[4+i*4:]))
		if got != want {
			t.Errorf("rect[%d] = %v, want %v", i, got, want)
		}
	}
	if got := binary.LittleEndian.Uint32(data[20:]); got != 0x80000003 {
		t.Errorf("flags = %#x, want 0x80000003", got)
	}
}

func TestAppendSpriteInstanceAppends(t *testing.T) {
	data := AppendSpriteInstance(nil, 1, 0, 1, 0, 1, 0)
	data = AppendSpriteInstance(data, 2, 0, 1, 0, 1, 0)
	if len(data) != 2*SpriteInstanceStride {
		t.Fatalf("two instances are %d bytes, want %d", len(data), 2*SpriteInstanceStride)
	}
	if got := binary.LittleEndian.Uint32(data[SpriteInstanceStride:]); got != 2 {
		t.Errorf("second sprite_index = %d, want 2", got)
	}
}

func TestAppendGlyphQuadLayout(t *testing.T) {
	data := AppendGlyphQuad(nil, 10, 20, 30, 40, 0.1, 0.2, 0.3, 0.4, 2, 9)
	if len(data) != 4*GlyphVertexStride {
		t.Fatalf("quad is %d bytes, want %d", len(data), 4*GlyphVertexStride)
	}

	type vert struct {
		x, y, u, v    float32
		layer, areaID uint32
	}
	want := []vert{
		{10, 20, 0.1, 0.2, 2, 9}, // top-left
		{30, 20, 0.3, 0.2, 2, 9}, // top-right
		{30, 40, 0.3, 0.4, 2, 9}, // bottom-right
		{10, 40, 0.1, 0.4, 2, 9}, // bottom-left
	}
	for i, w := range want {
		off := i * GlyphVertexStride
		f32 := func(o int) float32 {
			return math.Float32frombits(binary.LittleEndian.Uint32(data[off+o:]))
		}
		got := vert{
			x: f32(0), y: f32(4), u: f32(8), v: f32(12),
			layer:  binary.LittleEndian.Uint32(data[off+16:]),
			areaID: binary.LittleEndian.Uint32(data[off+20:]),
		}
		if got != w {
			t.Errorf("vertex %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestQuadIndexData(t *testing.T) {
	data := quadIndexData(2)
	if len(data) != 2*6*2 {
		t.Fatalf("index data is %d bytes, want %d", len(data), 2*6*2)
	}
	want := []uint16{0, 1, 2, 2, 3, 0, 4, 5, 6, 6, 7, 4}
	for i, w := range want {
		if got := binary.LittleEndian.Uint16(data[i*2:]); got != w {
			t.Errorf("index %d = %d, want %d", i, got, w)
		}
	}
}

func TestUnitQuadVertexData(t *testing.T) {
	data := unitQuadVertexData()
	if len(data) != 4*unitQuadStride {
		t.Fatalf("unit quad is %d bytes, want %d", len(data), 4*unitQuadStride)
	}
	want := []float32{0, 0, 1, 0, 1, 1, 0, 1}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		if got != w {
			t.Errorf("component %d = %v, want %v", i, got, w)
		}
	}
}

func TestPackFrameUniforms(t *testing.T) {
	data := packFrameUniforms(42, 800, 600)
	if len(data) != frameUniformSize {
		t.Fatalf("frame uniforms are %d bytes, want %d", len(data), frameUniformSize)
	}
	if got := binary.LittleEndian.Uint32(data[0:]); got != 42 {
		t.Errorf("current_frame = %d, want 42", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(data[4:])); got != 800 {
		t.Errorf("window_width = %v, want 800", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(data[8:])); got != 600 {
		t.Errorf("window_height = %v, want 600", got)
	}
}

func TestPackCursorUniforms(t *testing.T) {
	data := packCursorUniforms(123, 456)
	if len(data) != cursorUniformSize {
		t.Fatalf("cursor uniforms are %d bytes, want %d", len(data), cursorUniformSize)
	}
	if got := binary.LittleEndian.Uint32(data[0:]); got != 123 {
		t.Errorf("x = %d, want 123", got)
	}
	if got := binary.LittleEndian.Uint32(data[4:]); got != 456 {
		t.Errorf("y = %d, want 456", got)
	}
}
