package pixui

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/gogpu/pixui/internal/atlas"
)

// Builder packs sprites into atlas layers and produces the indirection
// tables the GPU resolves at render time. Registration order determines
// sprite indices. Build is CPU-only; the resulting Atlas is uploaded when
// a UI is constructed.
type Builder struct {
	cfg     BuilderConfig
	names   map[string]uint32
	sprites []pendingSprite
}

// pendingSprite is one registered sprite: one frame for static sprites,
// several for animation strips.
type pendingSprite struct {
	name   string
	frames []*image.RGBA
}

// Atlas is the CPU-side product of a Builder: packed RGBA8 layers, the
// validated indirection table, and the name to sprite-index map. An Atlas
// stays mutable after Build: AddSprite and AddStrip pack further sprites
// into remaining layer space, growing new layers up to the builder's
// MaxLayers. A UI re-uploads through its own AddSprite/AddStrip wrappers.
type Atlas struct {
	Table     IndirectionTable
	Layers    [][]byte
	LayerSize uint32

	index   map[string]uint32
	packers []*atlas.Shelf

	maxLayers int
	padding   int
}

// Index returns the sprite index registered under name.
func (a *Atlas) Index(name string) (uint32, bool) {
	i, ok := a.index[name]
	return i, ok
}

// SpriteCount returns the number of registered sprites.
func (a *Atlas) SpriteCount() int { return a.Table.SpriteCount() }

// NewBuilder creates an atlas builder. Zero-valued config fields take
// defaults.
func NewBuilder(cfg BuilderConfig) *Builder {
	return &Builder{
		cfg:   cfg.withDefaults(),
		names: make(map[string]uint32),
	}
}

// AddSprite registers a static sprite. The returned index is the value
// Area.Sprite references after Build.
func (b *Builder) AddSprite(name string, img image.Image) (uint32, error) {
	return b.add(name, []*image.RGBA{toRGBA(img)})
}

// AddStrip registers an animated sprite from a horizontal strip whose
// width is a multiple of frameWidth. Frames advance left to right, one
// per rendered frame, wrapping at the end.
func (b *Builder) AddStrip(name string, strip image.Image, frameWidth int) (uint32, error) {
	frames, err := splitStrip(name, strip, frameWidth)
	if err != nil {
		return 0, err
	}
	return b.add(name, frames)
}

func (b *Builder) add(name string, frames []*image.RGBA) (uint32, error) {
	if _, exists := b.names[name]; exists {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateSprite, name)
	}
	for _, f := range frames {
		if f.Bounds().Dx() > b.cfg.LayerSize || f.Bounds().Dy() > b.cfg.LayerSize {
			return 0, fmt.Errorf("%w: %q frame is %dx%d, layer is %d",
				ErrSpriteTooLarge, name, f.Bounds().Dx(), f.Bounds().Dy(), b.cfg.LayerSize)
		}
	}
	idx := uint32(len(b.sprites)) //nolint:gosec // sprite count fits uint32
	b.names[name] = idx
	b.sprites = append(b.sprites, pendingSprite{name: name, frames: frames})
	return idx, nil
}

// Build packs all registered frames into atlas layers and assembles the
// indirection table. Each sprite's frames occupy consecutive allocation
// slots so the GPU's offset+frame%size lookup lands on the right frame.
// The returned Atlas keeps its packing state, so sprites can still be
// added afterwards.
func (b *Builder) Build() (*Atlas, error) {
	if len(b.sprites) == 0 {
		return nil, ErrEmptyBuilder
	}

	a := &Atlas{
		LayerSize: uint32(b.cfg.LayerSize), //nolint:gosec // layer size fits uint32
		index:     make(map[string]uint32, len(b.sprites)),
		maxLayers: b.cfg.MaxLayers,
		padding:   b.cfg.Padding,
	}
	for _, sprite := range b.sprites {
		if _, err := a.add(sprite.name, sprite.frames); err != nil {
			return nil, err
		}
	}

	if err := a.Table.Validate(); err != nil {
		return nil, err
	}
	Logger().Debug("atlas built",
		"sprites", len(b.sprites), "allocations", len(a.Table.Allocations),
		"layers", len(a.Layers), "layer_size", b.cfg.LayerSize)
	return a, nil
}

// AddSprite registers a static sprite against a built atlas, packing it
// into remaining layer space. When the atlas backs a live UI, go through
// UI.AddSprite instead so the GPU copy is refreshed.
func (a *Atlas) AddSprite(name string, img image.Image) (uint32, error) {
	return a.add(name, []*image.RGBA{toRGBA(img)})
}

// AddStrip registers an animated sprite against a built atlas. See
// Builder.AddStrip for the strip format and UI.AddStrip for live atlases.
func (a *Atlas) AddStrip(name string, strip image.Image, frameWidth int) (uint32, error) {
	frames, err := splitStrip(name, strip, frameWidth)
	if err != nil {
		return 0, err
	}
	return a.add(name, frames)
}

// add packs one sprite's frames into the atlas and appends its table
// entries. Frames land in consecutive allocation slots.
func (a *Atlas) add(name string, frames []*image.RGBA) (uint32, error) {
	if _, exists := a.index[name]; exists {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateSprite, name)
	}
	size := int(a.LayerSize)
	for _, f := range frames {
		if f.Bounds().Dx() > size || f.Bounds().Dy() > size {
			return 0, fmt.Errorf("%w: %q frame is %dx%d, layer is %d",
				ErrSpriteTooLarge, name, f.Bounds().Dx(), f.Bounds().Dy(), size)
		}
	}

	// Place every frame before touching the table so a packing failure
	// leaves the atlas resolvable.
	allocs := make([]Allocation, 0, len(frames))
	for _, frame := range frames {
		w, h := frame.Bounds().Dx(), frame.Bounds().Dy()
		layer, x, y, err := a.place(w, h)
		if err != nil {
			return 0, fmt.Errorf("pack sprite %q: %w", name, err)
		}
		blitRGBA(a.Layers[layer], size, x, y, frame)
		allocs = append(allocs, Allocation{
			UMin:  float32(x) / float32(size),
			UMax:  float32(x+w) / float32(size),
			VMin:  float32(y) / float32(size),
			VMax:  float32(y+h) / float32(size),
			Layer: uint32(layer), //nolint:gosec // layer count fits uint32
		})
	}

	a.Table.Offsets = append(a.Table.Offsets, OffsetEntry{
		Offset: uint32(len(a.Table.Allocations)), //nolint:gosec // allocation count fits uint32
		Size:   uint32(len(frames)),              //nolint:gosec // frame count fits uint32
	})
	a.Table.Allocations = append(a.Table.Allocations, allocs...)
	a.Table.LayerCount = uint32(len(a.Layers)) //nolint:gosec // layer count fits uint32

	idx := uint32(len(a.Table.Offsets) - 1) //nolint:gosec // sprite count fits uint32
	a.index[name] = idx
	return idx, nil
}

// place finds room for a w x h frame on an existing layer or a new one.
func (a *Atlas) place(w, h int) (layer, x, y int, err error) {
	for i, p := range a.packers {
		if px, py, ok := p.Allocate(w, h); ok {
			return i, px, py, nil
		}
	}
	if len(a.Layers) >= a.maxLayers {
		return 0, 0, 0, fmt.Errorf("%w: %d layers of %d texels",
			ErrAtlasFull, a.maxLayers, a.LayerSize)
	}
	size := int(a.LayerSize)
	a.Layers = append(a.Layers, make([]byte, size*size*4))
	p := atlas.NewShelf(size, a.padding)
	a.packers = append(a.packers, p)
	px, py, ok := p.Allocate(w, h)
	if !ok {
		return 0, 0, 0, fmt.Errorf("%w: %dx%d frame", ErrSpriteTooLarge, w, h)
	}
	return len(a.Layers) - 1, px, py, nil
}

// splitStrip cuts a horizontal animation strip into frameWidth-wide frames.
func splitStrip(name string, strip image.Image, frameWidth int) ([]*image.RGBA, error) {
	bounds := strip.Bounds()
	if frameWidth <= 0 || bounds.Dx() == 0 || bounds.Dx()%frameWidth != 0 {
		return nil, fmt.Errorf("%w: strip %q is %dpx wide, frame width %d",
			ErrBadStrip, name, bounds.Dx(), frameWidth)
	}
	n := bounds.Dx() / frameWidth
	frames := make([]*image.RGBA, n)
	for i := 0; i < n; i++ {
		sub := image.Rect(bounds.Min.X+i*frameWidth, bounds.Min.Y,
			bounds.Min.X+(i+1)*frameWidth, bounds.Max.Y)
		frame := image.NewRGBA(image.Rect(0, 0, frameWidth, bounds.Dy()))
		draw.Draw(frame, frame.Bounds(), strip, sub.Min, draw.Src)
		frames[i] = frame
	}
	return frames, nil
}

// blitRGBA copies a frame into an atlas layer at (x, y). Layers are tight
// RGBA8 with 4*size bytes per row.
func blitRGBA(layer []byte, size, x, y int, frame *image.RGBA) {
	w, h := frame.Bounds().Dx(), frame.Bounds().Dy()
	for row := 0; row < h; row++ {
		src := frame.Pix[row*frame.Stride : row*frame.Stride+w*4]
		dstOff := ((y+row)*size + x) * 4
		copy(layer[dstOff:dstOff+w*4], src)
	}
}

// toRGBA converts any decoded image to tightly bounded RGBA.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}
