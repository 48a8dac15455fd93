package pixui

import (
	"encoding/binary"
	"fmt"
	"math"
)

// OffsetEntry locates one sprite's frames inside the allocation table.
// A sprite's allocations occupy Size consecutive slots starting at Offset.
// Static sprites have Size 1.
type OffsetEntry struct {
	Offset uint32
	Size   uint32
}

// Allocation describes one atlas region: a normalized texture-coordinate
// rectangle and the array layer it lives on.
type Allocation struct {
	UMin, UMax float32
	VMin, VMax float32
	Layer      uint32
}

// offsetEntryStride is the per-entry byte size of the offset table on the
// GPU: a vec2<u32>.
const offsetEntryStride = 8

// allocationStride is the per-entry byte size of the allocation table on
// the GPU: four f32 texture coordinates plus a u32 layer index.
const allocationStride = 20

// IndirectionTable is the two-level sprite addressing structure shared with
// the GPU. The vertex kernel resolves sprite i at frame f as
//
//	Allocations[Offsets[i].Offset + f%Offsets[i].Size]
//
// with no bounds checks, so the table must pass Validate before upload.
type IndirectionTable struct {
	Offsets     []OffsetEntry
	Allocations []Allocation

	// LayerCount is the number of atlas array layers the allocations
	// reference. Used only by Validate.
	LayerCount uint32
}

// Validate checks every invariant the GPU lookup relies on:
// sizes are at least 1, each sprite's slot range lies inside the
// allocation table, texture rectangles are ordered, and layer indices are
// in range. The render path performs none of these checks.
func (t *IndirectionTable) Validate() error {
	allocs := uint32(len(t.Allocations))
	for i, e := range t.Offsets {
		if e.Size == 0 {
			return fmt.Errorf("%w: sprite %d has zero size", ErrTableInvalid, i)
		}
		if e.Offset > allocs || e.Size > allocs-e.Offset {
			return fmt.Errorf("%w: sprite %d range [%d,%d) exceeds %d allocations",
				ErrTableInvalid, i, e.Offset, e.Offset+e.Size, allocs)
		}
	}
	for i, a := range t.Allocations {
		if a.UMin > a.UMax || a.VMin > a.VMax {
			return fmt.Errorf("%w: allocation %d has inverted rect", ErrTableInvalid, i)
		}
		if a.UMin < 0 || a.UMax > 1 || a.VMin < 0 || a.VMax > 1 {
			return fmt.Errorf("%w: allocation %d outside [0,1] texture space", ErrTableInvalid, i)
		}
		if a.Layer >= t.LayerCount {
			return fmt.Errorf("%w: allocation %d references layer %d of %d",
				ErrTableInvalid, i, a.Layer, t.LayerCount)
		}
	}
	return nil
}

// Resolve returns the allocation sprite uses at the given frame counter.
// It mirrors the GPU vertex kernel exactly: periodic in frame with period
// Offsets[sprite].Size. The sprite index must be valid; Resolve performs
// no bounds checks, matching the shader.
func (t *IndirectionTable) Resolve(sprite, frame uint32) Allocation {
	e := t.Offsets[sprite]
	return t.Allocations[e.Offset+frame%e.Size]
}

// SpriteCount returns the number of sprites the table addresses.
func (t *IndirectionTable) SpriteCount() int { return len(t.Offsets) }

// packOffsets serializes the offset table for GPU upload as an
// array<vec2<u32>>.
func (t *IndirectionTable) packOffsets() []byte {
	data := make([]byte, len(t.Offsets)*offsetEntryStride)
	for i, e := range t.Offsets {
		off := i * offsetEntryStride
		binary.LittleEndian.PutUint32(data[off:], e.Offset)
		binary.LittleEndian.PutUint32(data[off+4:], e.Size)
	}
	return data
}

// packAllocations serializes the allocation table for GPU upload.
// Layout per entry: u_min, u_max, v_min, v_max (f32), layer (u32).
func (t *IndirectionTable) packAllocations() []byte {
	data := make([]byte, len(t.Allocations)*allocationStride)
	for i, a := range t.Allocations {
		off := i * allocationStride
		binary.LittleEndian.PutUint32(data[off:], math.Float32bits(a.UMin))
		binary.LittleEndian.PutUint32(data[off+4:], math.Float32bits(a.UMax))
		binary.LittleEndian.PutUint32(data[off+8:], math.Float32bits(a.VMin))
		binary.LittleEndian.PutUint32(data[off+12:], math.Float32bits(a.VMax))
		binary.LittleEndian.PutUint32(data[off+16:], a.Layer)
	}
	return data
}
