package pixui

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pixui/internal/gpu"
)

// UI owns one window's worth of sprite UI state: the uploaded atlas, the
// registered areas, the glyph atlas, and the GPU renderer. All methods are
// safe for concurrent use, though rendering itself is a single-threaded
// affair: one RenderFrame call per frame, from one goroutine.
//
// Geometry uploads are deferred and batched: mutating areas marks the UI
// dirty, and the next RenderFrame rebuilds the per-band instance streams
// once. A frame where nothing changed uploads nothing.
type UI struct {
	mu sync.Mutex

	renderer *gpu.Renderer
	atlas    *Atlas
	cfg      Config

	areas  map[Handle]*areaState
	bands  [numZBands][]Handle
	nextID uint32
	dirty  bool

	frame   FrameContext
	cursorX uint32
	cursorY uint32
	hovered Handle

	glyphs *glyphPacker
	closed bool
}

// areaState is one registered area plus its attached glyph placements.
type areaState struct {
	area Area
	text []PlacedGlyph
}

// New creates a UI on an existing hal device and queue, uploading the
// atlas. The caller keeps ownership of the device; Close releases only the
// UI's own GPU resources.
func New(device hal.Device, queue hal.Queue, a *Atlas, cfg Config) (*UI, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if a == nil {
		return nil, ErrNilAtlas
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, ErrZeroSize
	}
	cfg = cfg.withDefaults()

	if err := a.Table.Validate(); err != nil {
		return nil, err
	}

	renderer, err := gpu.NewRenderer(device, queue, gpu.Config{
		Width:         cfg.Width,
		Height:        cfg.Height,
		SurfaceFormat: cfg.SurfaceFormat,
		ClearSurface:  cfg.ClearSurface,
		ClearColor:    cfg.ClearColor,
	})
	if err != nil {
		return nil, fmt.Errorf("pixui: create renderer: %w", err)
	}
	if err := renderer.SetSpriteAtlas(a.Layers, a.LayerSize,
		a.Table.packOffsets(), a.Table.packAllocations()); err != nil {
		renderer.Destroy()
		return nil, fmt.Errorf("pixui: upload atlas: %w", err)
	}

	return &UI{
		renderer: renderer,
		atlas:    a,
		cfg:      cfg,
		areas:    make(map[Handle]*areaState),
		frame: FrameContext{
			WindowWidth:  float32(cfg.Width),
			WindowHeight: float32(cfg.Height),
		},
	}, nil
}

// AddSprite packs a static sprite into the live atlas and re-uploads the
// atlas layers and indirection tables. Existing areas keep rendering
// across the upload; the new index is usable immediately.
func (u *UI) AddSprite(name string, img image.Image) (uint32, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return 0, ErrClosed
	}
	idx, err := u.atlas.AddSprite(name, img)
	if err != nil {
		return 0, err
	}
	return idx, u.uploadAtlas()
}

// AddStrip packs an animated sprite into the live atlas. See
// Builder.AddStrip for the strip format.
func (u *UI) AddStrip(name string, strip image.Image, frameWidth int) (uint32, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return 0, ErrClosed
	}
	idx, err := u.atlas.AddStrip(name, strip, frameWidth)
	if err != nil {
		return 0, err
	}
	return idx, u.uploadAtlas()
}

func (u *UI) uploadAtlas() error {
	err := u.renderer.SetSpriteAtlas(u.atlas.Layers, u.atlas.LayerSize,
		u.atlas.Table.packOffsets(), u.atlas.Table.packAllocations())
	if err != nil {
		return fmt.Errorf("pixui: upload atlas: %w", err)
	}
	return nil
}

// AddArea registers a new UI area and returns its handle. The handle
// doubles as the area id the hit-test pass writes, so it is never zero
// and never reused.
func (u *UI) AddArea(a Area) (Handle, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return 0, ErrClosed
	}
	if err := u.checkArea(a); err != nil {
		return 0, err
	}
	if u.nextID >= MaxAreaID {
		return 0, ErrAreaIDExhausted
	}
	u.nextID++
	h := Handle(u.nextID)
	u.areas[h] = &areaState{area: a}
	u.bands[a.Z] = append(u.bands[a.Z], h)
	u.dirty = true
	return h, nil
}

// SetArea replaces the area registered under h.
func (u *UI) SetArea(h Handle, a Area) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return ErrClosed
	}
	st, ok := u.areas[h]
	if !ok {
		return ErrUnknownArea
	}
	if err := u.checkArea(a); err != nil {
		return err
	}
	if st.area.Z != a.Z {
		u.bands[st.area.Z] = removeHandle(u.bands[st.area.Z], h)
		u.bands[a.Z] = append(u.bands[a.Z], h)
	}
	st.area = a
	u.dirty = true
	return nil
}

// Area returns the area registered under h.
func (u *UI) Area(h Handle) (Area, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	st, ok := u.areas[h]
	if !ok {
		return Area{}, false
	}
	return st.area, true
}

// RemoveArea unregisters an area. Its handle is never reassigned.
func (u *UI) RemoveArea(h Handle) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return ErrClosed
	}
	st, ok := u.areas[h]
	if !ok {
		return ErrUnknownArea
	}
	u.bands[st.area.Z] = removeHandle(u.bands[st.area.Z], h)
	delete(u.areas, h)
	if u.hovered == h {
		u.hovered = 0
	}
	u.dirty = true
	return nil
}

// Clear removes every registered area at once. Handles stay retired:
// later AddArea calls never reuse them. Registered sprites and glyphs are
// untouched.
func (u *UI) Clear() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return ErrClosed
	}
	u.areas = make(map[Handle]*areaState)
	for i := range u.bands {
		u.bands[i] = u.bands[i][:0]
	}
	u.hovered = 0
	u.dirty = true
	return nil
}

// SetGlyphs attaches pre-placed glyph quads to an area. The glyphs render
// above the area's sprite in the same band and hit-test with the area's
// id. Pass nil to clear.
func (u *UI) SetGlyphs(h Handle, glyphs []PlacedGlyph) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return ErrClosed
	}
	st, ok := u.areas[h]
	if !ok {
		return ErrUnknownArea
	}
	st.text = append([]PlacedGlyph(nil), glyphs...)
	u.dirty = true
	return nil
}

// RegisterGlyph uploads a rasterized glyph bitmap into the coverage atlas
// and returns its cell. The glyph atlas is created on first use.
func (u *UI) RegisterGlyph(img *image.Alpha) (Glyph, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return Glyph{}, ErrClosed
	}
	if u.glyphs == nil {
		if err := u.renderer.EnsureGlyphAtlas(u.cfg.GlyphLayerSize, u.cfg.GlyphLayerCount); err != nil {
			return Glyph{}, fmt.Errorf("pixui: create glyph atlas: %w", err)
		}
		u.glyphs = newGlyphPacker(u.cfg.GlyphLayerSize, u.cfg.GlyphLayerCount)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	layer, x, y, err := u.glyphs.allocate(w, h)
	if err != nil {
		return Glyph{}, err
	}

	coverage := make([]byte, w*h)
	for row := 0; row < h; row++ {
		src := img.Pix[row*img.Stride : row*img.Stride+w]
		copy(coverage[row*w:], src)
	}
	u.renderer.WriteGlyph(uint32(layer), uint32(x), uint32(y), //nolint:gosec // cell fits the layer
		uint32(w), uint32(h), coverage)                        //nolint:gosec // cell fits the layer

	size := float32(u.cfg.GlyphLayerSize)
	return Glyph{
		Layer:  uint32(layer), //nolint:gosec // layer count is small
		UMin:   float32(x) / size,
		VMin:   float32(y) / size,
		UMax:   float32(x+w) / size,
		VMax:   float32(y+h) / size,
		Width:  w,
		Height: h,
	}, nil
}

// SetCursor moves the hit-test cursor, clamping to the window.
func (u *UI) SetCursor(x, y int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return
	}
	u.cursorX = clampU32(x, u.cfg.Width)
	u.cursorY = clampU32(y, u.cfg.Height)
	u.renderer.SetCursor(u.cursorX, u.cursorY)
}

// Resize adapts the UI to a new window size. Areas keep their pixel
// coordinates; the cursor is re-clamped.
func (u *UI) Resize(width, height uint32) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return ErrClosed
	}
	if width == 0 || height == 0 {
		return ErrZeroSize
	}
	if err := u.renderer.Resize(width, height); err != nil {
		return err
	}
	u.cfg.Width, u.cfg.Height = width, height
	u.frame.WindowWidth = float32(width)
	u.frame.WindowHeight = float32(height)
	u.cursorX = min(u.cursorX, width-1)
	u.cursorY = min(u.cursorY, height-1)
	u.renderer.SetCursor(u.cursorX, u.cursorY)
	return nil
}

// Hovered returns the area under the cursor as of the last RenderFrame.
// The result reflects the frame just rendered: an area removed after that
// frame's id pass reports as nothing until the next RenderFrame.
func (u *UI) Hovered() (Handle, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hovered, u.hovered != 0
}

// Frame returns the current frame context.
func (u *UI) Frame() FrameContext {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.frame
}

// RenderFrame composites the UI into view, runs the hit-test probe, and
// advances the frame counter. The hover result is available from Hovered
// as soon as RenderFrame returns.
func (u *UI) RenderFrame(view hal.TextureView) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return ErrClosed
	}

	if u.dirty {
		if err := u.flushGeometry(); err != nil {
			return err
		}
		u.dirty = false
	}

	raw, err := u.renderer.RenderFrame(view, u.frame.CurrentFrame)
	if err != nil {
		return err
	}
	u.frame.CurrentFrame++

	u.hovered = u.resolveHover(raw)
	return nil
}

// resolveHover maps a probe readback value to a live handle. The id pass
// writes 0 where no fragment survived; a nonzero id whose area was removed
// between the id pass and now also resolves to no hit.
func (u *UI) resolveHover(raw uint32) Handle {
	h := Handle(raw)
	if _, ok := u.areas[h]; !ok {
		return 0
	}
	return h
}

// flushGeometry rebuilds every band's instance and glyph streams from the
// registered areas and uploads them.
func (u *UI) flushGeometry() error {
	for band := 0; band < numZBands; band++ {
		var instances []byte
		var glyphData []byte
		quads := 0
		for _, h := range u.bands[band] {
			st := u.areas[h]
			a := st.area
			instances = gpu.AppendSpriteInstance(instances,
				a.Sprite, a.XMin, a.XMax, a.YMin, a.YMax,
				packFlags(uint32(h), a.Enabled))
			if !a.Enabled {
				continue
			}
			for _, g := range st.text {
				glyphData = gpu.AppendGlyphQuad(glyphData,
					g.X, g.Y, g.X+float32(g.Glyph.Width), g.Y+float32(g.Glyph.Height),
					g.Glyph.UMin, g.Glyph.VMin, g.Glyph.UMax, g.Glyph.VMax,
					g.Glyph.Layer, uint32(h))
				quads++
			}
		}
		if err := u.renderer.SetInstances(band, instances); err != nil {
			return err
		}
		if err := u.renderer.SetGlyphQuads(band, quads, glyphData); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the UI's GPU resources. The device stays with its owner.
func (u *UI) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return
	}
	u.renderer.Destroy()
	u.areas = nil
	u.closed = true
}

func (u *UI) checkArea(a Area) error {
	if int(a.Sprite) >= u.atlas.SpriteCount() {
		return fmt.Errorf("%w: %d of %d", ErrUnknownSprite, a.Sprite, u.atlas.SpriteCount())
	}
	if a.Z >= numZBands {
		return fmt.Errorf("pixui: z band %d out of range", a.Z)
	}
	return nil
}

func removeHandle(handles []Handle, h Handle) []Handle {
	for i, cur := range handles {
		if cur == h {
			return append(handles[:i], handles[i+1:]...)
		}
	}
	return handles
}

func clampU32(v int, limit uint32) uint32 {
	if v < 0 {
		return 0
	}
	if uint32(v) >= limit {
		return limit - 1
	}
	return uint32(v)
}
