package atlas

import "testing"

func TestAllocateRowPlacement(t *testing.T) {
	s := NewShelf(64, 1)

	x, y, ok := s.Allocate(16, 16)
	if !ok || x != 0 || y != 0 {
		t.Fatalf("first allocation = (%d, %d, %v), want (0, 0, true)", x, y, ok)
	}
	x, y, ok = s.Allocate(16, 16)
	if !ok || x != 17 || y != 0 {
		t.Fatalf("second allocation = (%d, %d, %v), want (17, 0, true)", x, y, ok)
	}
	// Third 16-wide cell fits the first shelf; a 40-wide one does not and
	// must open a new shelf below.
	x, y, ok = s.Allocate(40, 8)
	if !ok || x != 0 || y != 17 {
		t.Fatalf("overflow allocation = (%d, %d, %v), want (0, 17, true)", x, y, ok)
	}
}

func TestAllocateNoOverlap(t *testing.T) {
	s := NewShelf(128, 1)
	type rect struct{ x, y, w, h int }
	var placed []rect
	sizes := [][2]int{{20, 10}, {20, 10}, {50, 30}, {8, 8}, {8, 8}, {100, 20}, {40, 40}}
	for _, sz := range sizes {
		x, y, ok := s.Allocate(sz[0], sz[1])
		if !ok {
			t.Fatalf("allocation %dx%d failed", sz[0], sz[1])
		}
		if x < 0 || y < 0 || x+sz[0] > 128 || y+sz[1] > 128 {
			t.Fatalf("%dx%d at (%d, %d) escapes the layer", sz[0], sz[1], x, y)
		}
		r := rect{x, y, sz[0], sz[1]}
		for _, p := range placed {
			if r.x < p.x+p.w && p.x < r.x+r.w && r.y < p.y+p.h && p.y < r.y+r.h {
				t.Fatalf("%+v overlaps %+v", r, p)
			}
		}
		placed = append(placed, r)
	}
}

func TestAllocateLastShelfGrows(t *testing.T) {
	s := NewShelf(64, 0)
	s.Allocate(10, 10)
	// Taller rectangle still fits the open shelf by growing it downward.
	x, y, ok := s.Allocate(10, 20)
	if !ok || x != 10 || y != 0 {
		t.Fatalf("growing allocation = (%d, %d, %v), want (10, 0, true)", x, y, ok)
	}
	// The grown shelf pushes the next one down.
	_, y, ok = s.Allocate(64, 5)
	if !ok || y != 20 {
		t.Fatalf("next shelf y = %d (ok=%v), want 20", y, ok)
	}
}

func TestAllocateFull(t *testing.T) {
	s := NewShelf(32, 0)
	if _, _, ok := s.Allocate(33, 4); ok {
		t.Error("allocation wider than the layer succeeded")
	}
	if _, _, ok := s.Allocate(4, 33); ok {
		t.Error("allocation taller than the layer succeeded")
	}
	if _, _, ok := s.Allocate(32, 32); !ok {
		t.Fatal("exact-fit allocation failed")
	}
	if _, _, ok := s.Allocate(1, 1); ok {
		t.Error("allocation in a full layer succeeded")
	}
}

func TestReset(t *testing.T) {
	s := NewShelf(32, 1)
	s.Allocate(30, 30)
	if _, _, ok := s.Allocate(30, 30); ok {
		t.Fatal("second 30x30 fit a 32 layer")
	}
	s.Reset()
	if s.Utilization() != 0 {
		t.Errorf("utilization after reset = %v, want 0", s.Utilization())
	}
	x, y, ok := s.Allocate(30, 30)
	if !ok || x != 0 || y != 0 {
		t.Errorf("allocation after reset = (%d, %d, %v), want (0, 0, true)", x, y, ok)
	}
}

func TestUtilization(t *testing.T) {
	s := NewShelf(32, 0)
	s.Allocate(16, 32)
	if got, want := s.Utilization(), 0.5; got != want {
		t.Errorf("utilization = %v, want %v", got, want)
	}
	if s.Size() != 32 {
		t.Errorf("Size = %d, want 32", s.Size())
	}
}
