package pixui

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

// threeFrameTable builds a table with one static sprite (index 0) and one
// 3-frame animated sprite (index 1), all on layer 0.
func threeFrameTable() IndirectionTable {
	return IndirectionTable{
		Offsets: []OffsetEntry{
			{Offset: 0, Size: 1},
			{Offset: 1, Size: 3},
		},
		Allocations: []Allocation{
			{UMin: 0.0, UMax: 0.1, VMin: 0.0, VMax: 0.1, Layer: 0},
			{UMin: 0.1, UMax: 0.2, VMin: 0.0, VMax: 0.1, Layer: 0},
			{UMin: 0.2, UMax: 0.3, VMin: 0.0, VMax: 0.1, Layer: 0},
			{UMin: 0.3, UMax: 0.4, VMin: 0.0, VMax: 0.1, Layer: 0},
		},
		LayerCount: 1,
	}
}

func TestResolvePeriodicity(t *testing.T) {
	table := threeFrameTable()
	for frame := uint32(0); frame < 12; frame++ {
		got := table.Resolve(1, frame)
		wrapped := table.Resolve(1, frame+3)
		if got != wrapped {
			t.Errorf("frame %d: Resolve differs from frame %d: %+v vs %+v",
				frame, frame+3, got, wrapped)
		}
		farWrapped := table.Resolve(1, frame+30)
		if got != farWrapped {
			t.Errorf("frame %d: Resolve differs from frame %d", frame, frame+30)
		}
	}
}

func TestResolveStaticSprite(t *testing.T) {
	table := threeFrameTable()
	want := table.Allocations[0]
	for _, frame := range []uint32{0, 1, 2, 17, 1000, math.MaxUint32} {
		if got := table.Resolve(0, frame); got != want {
			t.Errorf("frame %d: static sprite resolved to %+v, want %+v", frame, got, want)
		}
	}
}

func TestResolveAnimationSequence(t *testing.T) {
	table := threeFrameTable()
	// A 3-frame animation over frames 0..5 must walk its allocations
	// in order and wrap: slots 1,2,3,1,2,3.
	want := []Allocation{
		table.Allocations[1], table.Allocations[2], table.Allocations[3],
		table.Allocations[1], table.Allocations[2], table.Allocations[3],
	}
	for frame := uint32(0); frame < 6; frame++ {
		if got := table.Resolve(1, frame); got != want[frame] {
			t.Errorf("frame %d: got %+v, want %+v", frame, got, want[frame])
		}
	}
}

func TestValidate(t *testing.T) {
	valid := threeFrameTable()
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid table rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*IndirectionTable)
	}{
		{"zero size", func(t *IndirectionTable) {
			t.Offsets[0].Size = 0
		}},
		{"offset past end", func(t *IndirectionTable) {
			t.Offsets[0].Offset = 4
		}},
		{"range past end", func(t *IndirectionTable) {
			t.Offsets[1].Size = 4
		}},
		{"inverted u rect", func(t *IndirectionTable) {
			t.Allocations[0].UMin, t.Allocations[0].UMax = 0.5, 0.1
		}},
		{"inverted v rect", func(t *IndirectionTable) {
			t.Allocations[2].VMin, t.Allocations[2].VMax = 0.9, 0.2
		}},
		{"uv outside unit square", func(t *IndirectionTable) {
			t.Allocations[1].UMax = 1.5
		}},
		{"negative uv", func(t *IndirectionTable) {
			t.Allocations[1].UMin = -0.1
		}},
		{"layer out of range", func(t *IndirectionTable) {
			t.Allocations[3].Layer = 1
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := threeFrameTable()
			tt.mutate(&table)
			err := table.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, ErrTableInvalid) {
				t.Errorf("error %v does not wrap ErrTableInvalid", err)
			}
		})
	}
}

func TestValidateOverflowRange(t *testing.T) {
	// Offset+Size overflowing uint32 must not pass validation.
	table := IndirectionTable{
		Offsets:     []OffsetEntry{{Offset: math.MaxUint32 - 1, Size: 4}},
		Allocations: make([]Allocation, 4),
		LayerCount:  1,
	}
	if err := table.Validate(); err == nil {
		t.Fatal("overflowing range passed validation")
	}
}

func TestPackOffsets(t *testing.T) {
	table := threeFrameTable()
	data := table.packOffsets()
	if len(data) != len(table.Offsets)*offsetEntryStride {
		t.Fatalf("packed %d bytes, want %d", len(data), len(table.Offsets)*offsetEntryStride)
	}
	// Entry 1 = {1, 3}.
	if got := binary.LittleEndian.Uint32(data[8:]); got != 1 {
		t.Errorf("entry 1 offset = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint32(data[12:]); got != 3 {
		t.Errorf("entry 1 size = %d, want 3", got)
	}
}

func TestPackAllocations(t *testing.T) {
	table := threeFrameTable()
	data := table.packAllocations()
	if len(data) != len(table.Allocations)*allocationStride {
		t.Fatalf("packed %d bytes, want %d", len(data), len(table.Allocations)*allocationStride)
	}
	// Allocation 2 starts at byte 40.
	a := table.Allocations[2]
	off := 2 * allocationStride
	got := math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	if got != a.UMin {
		t.Errorf("u_min = %v, want %v", got, a.UMin)
	}
	layer := binary.LittleEndian.Uint32(data[off+16:])
	if layer != a.Layer {
		t.Errorf("layer = %d, want %d", layer, a.Layer)
	}
}
