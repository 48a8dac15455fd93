// Package gpu holds the wgpu/hal plumbing behind pixui: pipelines, buffer
// and texture management, frame encoding, and the cursor probe readback.
package gpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Package errors.
var (
	// ErrNotInitialized is returned when rendering before an atlas upload.
	ErrNotInitialized = errors.New("pixui: renderer has no sprite atlas")

	// ErrTooManyGlyphQuads is returned when a band exceeds the uint16
	// index budget.
	ErrTooManyGlyphQuads = errors.New("pixui: too many glyph quads in one band")

	// ErrBadBand is returned for band indices outside [0, NumBands).
	ErrBadBand = errors.New("pixui: band index out of range")
)

// NumBands is the number of depth bands the renderer draws back to front.
const NumBands = 4

// maxGlyphQuadsPerBand bounds one band's glyph quads so 4 vertices per
// quad stay addressable with uint16 indices.
const maxGlyphQuadsPerBand = 16384

// Config holds renderer construction parameters.
type Config struct {
	// Width and Height are the window dimensions in pixels.
	Width, Height uint32

	// SurfaceFormat is the color target format of the view passed to
	// RenderFrame. Default: BGRA8Unorm.
	SurfaceFormat gputypes.TextureFormat

	// ClearSurface selects LoadOpClear for the color pass. When false the
	// UI composites over whatever the application already rendered.
	ClearSurface bool

	// ClearColor is the clear value used when ClearSurface is set.
	ClearColor gputypes.Color
}

// bufferSlot is a growable GPU buffer plus the element count currently
// uploaded into it.
type bufferSlot struct {
	buf      hal.Buffer
	capacity uint64
	count    uint32
}

func (s *bufferSlot) destroy(device hal.Device) {
	if s.buf != nil {
		device.DestroyBuffer(s.buf)
		s.buf = nil
	}
	s.capacity = 0
	s.count = 0
}

// Renderer owns every GPU resource pixui needs for one window: the sprite,
// glyph, and probe pipelines, the indirection tables, per-band instance and
// glyph streams, the id texture, and the readback buffers. One Renderer
// serves one UI; it is not safe for concurrent use.
type Renderer struct {
	device hal.Device
	queue  hal.Queue
	cfg    Config

	sprites *spritePipeline
	glyphs  *glyphPipeline
	probe   *probePipeline

	// Shared unit quad expanded by every sprite instance.
	quadVerts   hal.Buffer
	quadIndices hal.Buffer

	frameUniform  hal.Buffer
	cursorUniform hal.Buffer
	frameBind     hal.BindGroup // sprite pipeline layout
	glyphBind     hal.BindGroup // glyph pipeline layout, same buffer

	// Sprite atlas resources, created by SetSpriteAtlas.
	atlasTex   hal.Texture
	atlasView  hal.TextureView
	offsetsBuf hal.Buffer
	allocsBuf  hal.Buffer
	atlasBG    hal.BindGroup

	// Glyph atlas resources, created lazily by EnsureGlyphAtlas.
	glyphTex  hal.Texture
	glyphView hal.TextureView
	glyphBG   hal.BindGroup

	// Per-band streams.
	instances  [NumBands]bufferSlot
	glyphVerts [NumBands]bufferSlot

	// Shared glyph index buffer covering the largest band seen so far.
	glyphIndices    hal.Buffer
	glyphIndexQuads int

	// Hit testing targets.
	idTex   hal.Texture
	idView  hal.TextureView
	probeBG hal.BindGroup
	result  hal.Buffer
	staging hal.Buffer
}

// NewRenderer creates the pipelines and persistent buffers. The sprite
// atlas must be uploaded with SetSpriteAtlas before the first RenderFrame.
func NewRenderer(device hal.Device, queue hal.Queue, cfg Config) (*Renderer, error) {
	if cfg.SurfaceFormat == 0 {
		cfg.SurfaceFormat = gputypes.TextureFormatBGRA8Unorm
	}
	r := &Renderer{device: device, queue: queue, cfg: cfg}
	if err := r.init(); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) init() error {
	r.sprites = newSpritePipeline(r.device)
	if err := r.sprites.create(r.cfg.SurfaceFormat); err != nil {
		return err
	}
	r.glyphs = newGlyphPipeline(r.device)
	if err := r.glyphs.create(r.cfg.SurfaceFormat); err != nil {
		return err
	}
	r.probe = newProbePipeline(r.device)
	if err := r.probe.create(); err != nil {
		return err
	}

	var err error
	r.quadVerts, err = r.createAndUploadBuffer("unit_quad_verts", unitQuadVertexData(),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.quadIndices, err = r.createAndUploadBuffer("unit_quad_indices", quadIndexData(1),
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	r.frameUniform, err = r.createBuffer("frame_uniform", frameUniformSize,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.cursorUniform, err = r.createBuffer("cursor_uniform", cursorUniformSize,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.queue.WriteBuffer(r.cursorUniform, 0, packCursorUniforms(0, 0))

	r.frameBind, err = r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "sprite_frame_bind",
		Layout: r.sprites.frameLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: r.frameUniform.NativeHandle(), Offset: 0, Size: frameUniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create frame bind group: %w", err)
	}
	r.glyphBind, err = r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "glyph_frame_bind",
		Layout: r.glyphs.frameLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: r.frameUniform.NativeHandle(), Offset: 0, Size: frameUniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create glyph frame bind group: %w", err)
	}

	r.result, err = r.createBuffer("probe_result", 4,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc)
	if err != nil {
		return err
	}
	r.staging, err = r.createBuffer("probe_staging", 4,
		gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	return r.createIDTargets(r.cfg.Width, r.cfg.Height)
}

// createIDTargets (re)creates the R32Uint id texture, its view, and the
// probe bind group. Called at init and on every resize.
func (r *Renderer) createIDTargets(w, h uint32) error {
	r.destroyIDTargets()

	idTex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "id_texture",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatR32Uint,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("create id texture: %w", err)
	}
	r.idTex = idTex

	idView, err := r.device.CreateTextureView(idTex, &hal.TextureViewDescriptor{
		Label:         "id_texture_view",
		Format:        gputypes.TextureFormatR32Uint,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return fmt.Errorf("create id texture view: %w", err)
	}
	r.idView = idView

	probeBG, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "probe_bind",
		Layout: r.probe.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: r.result.NativeHandle(), Offset: 0, Size: 4,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: r.idView.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.BufferBinding{
				Buffer: r.cursorUniform.NativeHandle(), Offset: 0, Size: cursorUniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create probe bind group: %w", err)
	}
	r.probeBG = probeBG

	r.cfg.Width, r.cfg.Height = w, h
	return nil
}

func (r *Renderer) destroyIDTargets() {
	if r.probeBG != nil {
		r.device.DestroyBindGroup(r.probeBG)
		r.probeBG = nil
	}
	if r.idView != nil {
		r.device.DestroyTextureView(r.idView)
		r.idView = nil
	}
	if r.idTex != nil {
		r.device.DestroyTexture(r.idTex)
		r.idTex = nil
	}
}

// Resize recreates the id texture for the new window size. The frame
// uniform picks up the size on the next RenderFrame.
func (r *Renderer) Resize(w, h uint32) error {
	if w == r.cfg.Width && h == r.cfg.Height {
		return nil
	}
	slogger().Debug("resizing id texture", "width", w, "height", h)
	return r.createIDTargets(w, h)
}

// Size returns the current window dimensions.
func (r *Renderer) Size() (uint32, uint32) { return r.cfg.Width, r.cfg.Height }

// SetSpriteAtlas uploads the packed atlas layers and indirection tables and
// builds the sprite bind group. Layers must all be layerSize x layerSize
// RGBA8 data. Replaces any previously uploaded atlas.
func (r *Renderer) SetSpriteAtlas(layers [][]byte, layerSize uint32, offsets, allocations []byte) error {
	r.destroySpriteAtlas()

	layerCount := uint32(len(layers)) //nolint:gosec // layer count is small
	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "sprite_atlas",
		Size:          hal.Extent3D{Width: layerSize, Height: layerSize, DepthOrArrayLayers: layerCount},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create sprite atlas texture: %w", err)
	}
	r.atlasTex = tex

	for i, layer := range layers {
		r.queue.WriteTexture(
			&hal.ImageCopyTexture{
				Texture:  tex,
				MipLevel: 0,
				Origin:   hal.Origin3D{X: 0, Y: 0, Z: uint32(i)}, //nolint:gosec // layer count is small
				Aspect:   gputypes.TextureAspectAll,
			},
			layer,
			&hal.ImageDataLayout{Offset: 0, BytesPerRow: layerSize * 4, RowsPerImage: layerSize},
			&hal.Extent3D{Width: layerSize, Height: layerSize, DepthOrArrayLayers: 1},
		)
	}

	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           "sprite_atlas_view",
		Format:          gputypes.TextureFormatRGBA8Unorm,
		Dimension:       gputypes.TextureViewDimension2DArray,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: layerCount,
	})
	if err != nil {
		return fmt.Errorf("create sprite atlas view: %w", err)
	}
	r.atlasView = view

	r.offsetsBuf, err = r.createAndUploadBuffer("offset_table", offsets,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.allocsBuf, err = r.createAndUploadBuffer("allocation_table", allocations,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "sprite_atlas_bind",
		Layout: r.sprites.atlasLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: r.offsetsBuf.NativeHandle(), Offset: 0, Size: uint64(len(offsets)),
			}},
			{Binding: 1, Resource: gputypes.BufferBinding{
				Buffer: r.allocsBuf.NativeHandle(), Offset: 0, Size: uint64(len(allocations)),
			}},
			{Binding: 2, Resource: gputypes.TextureViewBinding{
				TextureView: r.atlasView.NativeHandle(),
			}},
			{Binding: 3, Resource: gputypes.SamplerBinding{
				Sampler: r.sprites.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create sprite atlas bind group: %w", err)
	}
	r.atlasBG = bg

	slogger().Debug("sprite atlas uploaded",
		"layers", layerCount, "layer_size", layerSize,
		"offset_bytes", len(offsets), "allocation_bytes", len(allocations))
	return nil
}

func (r *Renderer) destroySpriteAtlas() {
	if r.atlasBG != nil {
		r.device.DestroyBindGroup(r.atlasBG)
		r.atlasBG = nil
	}
	if r.allocsBuf != nil {
		r.device.DestroyBuffer(r.allocsBuf)
		r.allocsBuf = nil
	}
	if r.offsetsBuf != nil {
		r.device.DestroyBuffer(r.offsetsBuf)
		r.offsetsBuf = nil
	}
	if r.atlasView != nil {
		r.device.DestroyTextureView(r.atlasView)
		r.atlasView = nil
	}
	if r.atlasTex != nil {
		r.device.DestroyTexture(r.atlasTex)
		r.atlasTex = nil
	}
}

// EnsureGlyphAtlas creates the R8 coverage atlas array if it does not exist
// yet. Glyph cells are written incrementally with WriteGlyph.
func (r *Renderer) EnsureGlyphAtlas(layerSize, layerCount uint32) error {
	if r.glyphTex != nil {
		return nil
	}
	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "glyph_atlas",
		Size:          hal.Extent3D{Width: layerSize, Height: layerSize, DepthOrArrayLayers: layerCount},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatR8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create glyph atlas texture: %w", err)
	}
	r.glyphTex = tex

	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           "glyph_atlas_view",
		Format:          gputypes.TextureFormatR8Unorm,
		Dimension:       gputypes.TextureViewDimension2DArray,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: layerCount,
	})
	if err != nil {
		return fmt.Errorf("create glyph atlas view: %w", err)
	}
	r.glyphView = view

	bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "glyph_atlas_bind",
		Layout: r.glyphs.atlasLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{
				TextureView: r.glyphView.NativeHandle(),
			}},
			{Binding: 1, Resource: gputypes.SamplerBinding{
				Sampler: r.glyphs.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create glyph atlas bind group: %w", err)
	}
	r.glyphBG = bg

	slogger().Debug("glyph atlas created", "layers", layerCount, "layer_size", layerSize)
	return nil
}

// WriteGlyph uploads one glyph's coverage bitmap into a cell of the glyph
// atlas. coverage is w*h bytes, one byte per texel.
func (r *Renderer) WriteGlyph(layer, x, y, w, h uint32, coverage []byte) {
	r.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  r.glyphTex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: x, Y: y, Z: layer},
			Aspect:   gputypes.TextureAspectAll,
		},
		coverage,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: w, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
}

// SetInstances replaces one band's sprite instance stream. data holds
// len(data)/SpriteInstanceStride packed instances.
func (r *Renderer) SetInstances(band int, data []byte) error {
	if band < 0 || band >= NumBands {
		return ErrBadBand
	}
	slot := &r.instances[band]
	count := uint32(len(data) / SpriteInstanceStride) //nolint:gosec // instance count fits uint32
	if err := r.uploadSlot(slot, "sprite_instances", data,
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	slot.count = count
	return nil
}

// SetGlyphQuads replaces one band's glyph vertex stream. data holds
// quadCount quads of 4 vertices each, built with AppendGlyphQuad.
func (r *Renderer) SetGlyphQuads(band, quadCount int, data []byte) error {
	if band < 0 || band >= NumBands {
		return ErrBadBand
	}
	if quadCount > maxGlyphQuadsPerBand {
		return fmt.Errorf("%w: %d > %d", ErrTooManyGlyphQuads, quadCount, maxGlyphQuadsPerBand)
	}
	slot := &r.glyphVerts[band]
	if err := r.uploadSlot(slot, "glyph_vertices", data,
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	slot.count = uint32(quadCount) //nolint:gosec // bounded above
	return r.ensureGlyphIndices(quadCount)
}

// ensureGlyphIndices grows the shared quad index buffer to cover quadCount
// quads.
func (r *Renderer) ensureGlyphIndices(quadCount int) error {
	if quadCount <= r.glyphIndexQuads {
		return nil
	}
	if r.glyphIndices != nil {
		r.device.DestroyBuffer(r.glyphIndices)
		r.glyphIndices = nil
	}
	buf, err := r.createAndUploadBuffer("glyph_indices", quadIndexData(quadCount),
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.glyphIndices = buf
	r.glyphIndexQuads = quadCount
	return nil
}

// SetCursor updates the cursor uniform read by the probe kernel. The
// caller clamps coordinates to the window.
func (r *Renderer) SetCursor(x, y uint32) {
	r.queue.WriteBuffer(r.cursorUniform, 0, packCursorUniforms(x, y))
}

// RenderFrame composites all bands into view, runs the id pass and cursor
// probe, submits, and returns the area id under the cursor (0 for none).
// Blocks until the GPU finishes; the result reflects this frame exactly.
func (r *Renderer) RenderFrame(view hal.TextureView, currentFrame uint32) (uint32, error) {
	if r.atlasBG == nil {
		return 0, ErrNotInitialized
	}

	r.queue.WriteBuffer(r.frameUniform, 0,
		packFrameUniforms(currentFrame, float32(r.cfg.Width), float32(r.cfg.Height)))

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "pixui_encoder",
	})
	if err != nil {
		return 0, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("pixui_frame"); err != nil {
		return 0, fmt.Errorf("begin encoding: %w", err)
	}

	// Color pass over the caller's view.
	colorLoad := gputypes.LoadOpLoad
	if r.cfg.ClearSurface {
		colorLoad = gputypes.LoadOpClear
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "pixui_color_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     colorLoad,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: r.cfg.ClearColor,
		}},
	})
	r.recordBands(rp, false)
	rp.End()

	// Id pass: area ids into the R32Uint texture, cleared to 0 (no hit).
	idp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "pixui_id_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       r.idView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{},
		}},
	})
	r.recordBands(idp, true)
	idp.End()

	// The id texture was just a render target; the probe samples it.
	// Explicit transition for Vulkan layout tracking; no-op elsewhere.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.idTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageTextureBinding,
		},
	}})

	r.probe.record(encoder, r.probeBG)
	encoder.CopyBufferToBuffer(r.result, r.staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: 4},
	})

	// Back to render-attachment layout for the next frame's id pass.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.idTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageTextureBinding,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return 0, fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return 0, fmt.Errorf("create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return 0, fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := r.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return 0, fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, 4)
	if err := r.queue.ReadBuffer(r.staging, 0, readback); err != nil {
		return 0, fmt.Errorf("readback: %w", err)
	}
	return uint32(readback[0]) | uint32(readback[1])<<8 |
		uint32(readback[2])<<16 | uint32(readback[3])<<24, nil
}

// recordBands draws every band back to front, sprites below glyphs within
// a band.
func (r *Renderer) recordBands(rp hal.RenderPassEncoder, id bool) {
	for band := 0; band < NumBands; band++ {
		r.sprites.recordDraws(rp, id,
			r.quadVerts, r.quadIndices, r.instances[band].buf,
			r.atlasBG, r.frameBind, r.instances[band].count)
		if r.glyphBG != nil {
			r.glyphs.recordDraws(rp, id,
				r.glyphVerts[band].buf, r.glyphIndices,
				r.glyphBG, r.glyphBind, r.glyphVerts[band].count)
		}
	}
}

// uploadSlot writes data into the slot's buffer, recreating it with doubled
// capacity when the data outgrows it.
func (r *Renderer) uploadSlot(slot *bufferSlot, label string, data []byte, usage gputypes.BufferUsage) error {
	need := uint64(len(data))
	if need == 0 {
		slot.count = 0
		return nil
	}
	if slot.buf == nil || slot.capacity < need {
		capacity := slot.capacity
		if capacity == 0 {
			capacity = 4096
		}
		for capacity < need {
			capacity *= 2
		}
		if slot.buf != nil {
			r.device.DestroyBuffer(slot.buf)
			slot.buf = nil
		}
		buf, err := r.createBuffer(label, capacity, usage)
		if err != nil {
			return err
		}
		slot.buf = buf
		slot.capacity = capacity
		slogger().Debug("buffer grown", "label", label, "capacity", capacity)
	}
	r.queue.WriteBuffer(slot.buf, 0, data)
	return nil
}

func (r *Renderer) createBuffer(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return buf, nil
}

func (r *Renderer) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.createBuffer(label, uint64(len(data)), usage)
	if err != nil {
		return nil, err
	}
	r.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// Destroy releases every GPU resource the renderer owns. Safe to call
// multiple times. The device and queue belong to the caller.
func (r *Renderer) Destroy() {
	if r.device == nil {
		return
	}
	r.destroyIDTargets()
	r.destroySpriteAtlas()
	if r.glyphBG != nil {
		r.device.DestroyBindGroup(r.glyphBG)
		r.glyphBG = nil
	}
	if r.glyphView != nil {
		r.device.DestroyTextureView(r.glyphView)
		r.glyphView = nil
	}
	if r.glyphTex != nil {
		r.device.DestroyTexture(r.glyphTex)
		r.glyphTex = nil
	}
	for i := range r.instances {
		r.instances[i].destroy(r.device)
	}
	for i := range r.glyphVerts {
		r.glyphVerts[i].destroy(r.device)
	}
	if r.glyphIndices != nil {
		r.device.DestroyBuffer(r.glyphIndices)
		r.glyphIndices = nil
	}
	for _, buf := range []*hal.Buffer{&r.staging, &r.result, &r.cursorUniform, &r.frameUniform, &r.quadIndices, &r.quadVerts} {
		if *buf != nil {
			r.device.DestroyBuffer(*buf)
			*buf = nil
		}
	}
	if r.glyphBind != nil {
		r.device.DestroyBindGroup(r.glyphBind)
		r.glyphBind = nil
	}
	if r.frameBind != nil {
		r.device.DestroyBindGroup(r.frameBind)
		r.frameBind = nil
	}
	if r.probe != nil {
		r.probe.destroy()
	}
	if r.glyphs != nil {
		r.glyphs.destroy()
	}
	if r.sprites != nil {
		r.sprites.destroy()
	}
}
