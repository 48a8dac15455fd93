package pixui

import (
	"errors"
	"image/color"
	"testing"
)

func TestNewNilDevice(t *testing.T) {
	b := NewBuilder(BuilderConfig{LayerSize: 64})
	b.AddSprite("s", solid(8, 8, color.RGBA{A: 255}))
	a, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(nil, nil, a, DefaultConfig(640, 480)); !errors.Is(err, ErrNilDevice) {
		t.Errorf("err = %v, want ErrNilDevice", err)
	}
}

func TestNewFromProviderRejectsPlainValue(t *testing.T) {
	b := NewBuilder(BuilderConfig{LayerSize: 64})
	b.AddSprite("s", solid(8, 8, color.RGBA{A: 255}))
	a, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewFromProvider(struct{}{}, a, DefaultConfig(640, 480)); err == nil {
		t.Error("provider without HAL accessors accepted")
	}
}

// testUI builds a UI around a small atlas without touching the GPU. Only
// the CPU-side state (areas, bands, hover) is usable.
func testUI(t *testing.T) *UI {
	t.Helper()
	b := NewBuilder(BuilderConfig{LayerSize: 64})
	b.AddSprite("s", solid(8, 8, color.RGBA{A: 255}))
	a, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return &UI{atlas: a, areas: make(map[Handle]*areaState)}
}

func TestClear(t *testing.T) {
	u := testUI(t)
	h1, err := u.AddArea(Area{XMax: 10, YMax: 10, Z: ZMiddle, Enabled: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := u.AddArea(Area{XMax: 20, YMax: 20, Z: ZOverlay, Enabled: true}); err != nil {
		t.Fatal(err)
	}
	u.hovered = h1
	u.dirty = false

	if err := u.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(u.areas) != 0 {
		t.Errorf("%d areas survive Clear", len(u.areas))
	}
	for band, handles := range u.bands {
		if len(handles) != 0 {
			t.Errorf("band %d keeps %d handles after Clear", band, len(handles))
		}
	}
	if h, ok := u.Hovered(); ok || h != 0 {
		t.Errorf("hovered after Clear = (%d, %v), want (0, false)", h, ok)
	}
	if !u.dirty {
		t.Error("Clear did not mark geometry dirty")
	}

	// Retired handles are never reassigned.
	h3, err := u.AddArea(Area{XMax: 5, YMax: 5, Z: ZMiddle, Enabled: true})
	if err != nil {
		t.Fatal(err)
	}
	if h3 <= h1 {
		t.Errorf("handle %d reused after Clear (last before was at least %d)", h3, h1)
	}
}

func TestResolveHover(t *testing.T) {
	u := testUI(t)
	h, err := u.AddArea(Area{XMax: 10, YMax: 10, Z: ZMiddle, Enabled: true})
	if err != nil {
		t.Fatal(err)
	}

	if got := u.resolveHover(uint32(h)); got != h {
		t.Errorf("live handle resolves to %d, want %d", got, h)
	}
	if got := u.resolveHover(0); got != 0 {
		t.Errorf("cleared id resolves to %d, want 0", got)
	}
	// Ids the id pass wrote before their area was removed map to no hit.
	u.bands[ZMiddle] = removeHandle(u.bands[ZMiddle], h)
	delete(u.areas, h)
	if got := u.resolveHover(uint32(h)); got != 0 {
		t.Errorf("removed handle resolves to %d, want 0", got)
	}
}

func TestHovered(t *testing.T) {
	// A zero hover id means the cursor is over nothing.
	u := &UI{}
	if h, ok := u.Hovered(); ok || h != 0 {
		t.Errorf("empty UI hovered = (%d, %v), want (0, false)", h, ok)
	}
	u.hovered = 5
	if h, ok := u.Hovered(); !ok || h != 5 {
		t.Errorf("hovered = (%d, %v), want (5, true)", h, ok)
	}
}

func TestRemoveHandle(t *testing.T) {
	handles := []Handle{1, 2, 3, 4}
	handles = removeHandle(handles, 3)
	if len(handles) != 3 || handles[0] != 1 || handles[1] != 2 || handles[2] != 4 {
		t.Errorf("after remove: %v", handles)
	}
	// Removing a missing handle is a no-op.
	handles = removeHandle(handles, 99)
	if len(handles) != 3 {
		t.Errorf("removing absent handle changed slice: %v", handles)
	}
}

func TestClampU32(t *testing.T) {
	tests := []struct {
		v     int
		limit uint32
		want  uint32
	}{
		{-5, 100, 0},
		{0, 100, 0},
		{50, 100, 50},
		{99, 100, 99},
		{100, 100, 99},
		{1000, 100, 99},
	}
	for _, tt := range tests {
		if got := clampU32(tt.v, tt.limit); got != tt.want {
			t.Errorf("clampU32(%d, %d) = %d, want %d", tt.v, tt.limit, got, tt.want)
		}
	}
}
