package pixui

import "testing"

func TestPackFlags(t *testing.T) {
	tests := []struct {
		name    string
		id      uint32
		enabled bool
		want    uint32
	}{
		{"enabled sets top bit", 1, true, 1 | 1<<31},
		{"disabled leaves top bit clear", 1, false, 1},
		{"max id enabled", MaxAreaID, true, 0xFFFFFFFF},
		{"max id disabled", MaxAreaID, false, MaxAreaID},
		{"id zero", 0, true, 1 << 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := packFlags(tt.id, tt.enabled); got != tt.want {
				t.Errorf("packFlags(%#x, %v) = %#x, want %#x", tt.id, tt.enabled, got, tt.want)
			}
		})
	}
}

func TestPackFlagsIDRecoverable(t *testing.T) {
	// The hit-test pass writes the id straight from the low 31 bits, so
	// packing must preserve every id below MaxAreaID exactly.
	for _, id := range []uint32{1, 2, 1000, MaxAreaID} {
		for _, enabled := range []bool{true, false} {
			flags := packFlags(id, enabled)
			if flags&MaxAreaID != id {
				t.Errorf("id %d lost through packFlags(_, %v): flags=%#x", id, enabled, flags)
			}
		}
	}
}

func TestDisabledScaleCollapsesQuad(t *testing.T) {
	// The vertex kernel multiplies clip positions by f32(flags >> 31).
	// Disabled areas must therefore collapse every corner to the origin,
	// producing a zero-area quad the rasterizer skips.
	corners := [][2]float32{{-0.5, 0.5}, {0.5, 0.5}, {0.5, -0.5}, {-0.5, -0.5}}
	for _, enabled := range []bool{true, false} {
		scale := float32(packFlags(7, enabled) >> 31)
		for _, c := range corners {
			x, y := c[0]*scale, c[1]*scale
			if enabled && (x != c[0] || y != c[1]) {
				t.Errorf("enabled quad moved: (%v, %v) -> (%v, %v)", c[0], c[1], x, y)
			}
			if !enabled && (x != 0 || y != 0) {
				t.Errorf("disabled quad corner (%v, %v) did not collapse: (%v, %v)", c[0], c[1], x, y)
			}
		}
	}
}
