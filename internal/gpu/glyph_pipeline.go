package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// glyphPipeline owns the GPU objects for glyph text compositing: the color
// pipeline sampling the R8 coverage atlas array and the id pipeline writing
// area ids for hit testing. Glyph quads arrive pre-placed from the host, so
// the vertex stream carries positions and texture coordinates directly.
type glyphPipeline struct {
	device hal.Device

	shader   hal.ShaderModule
	idShader hal.ShaderModule

	// Group 0: glyph atlas texture array, sampler.
	atlasLayout hal.BindGroupLayout
	// Group 1: frame uniforms (shared layout shape with the sprite
	// pipeline, but WGSL bind group layouts are per pipeline layout).
	frameLayout hal.BindGroupLayout

	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	idPipeline hal.RenderPipeline

	sampler hal.Sampler
}

func newGlyphPipeline(device hal.Device) *glyphPipeline {
	return &glyphPipeline{device: device}
}

func (p *glyphPipeline) create(surfaceFormat gputypes.TextureFormat) error {
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "glyph_shader",
		Source: hal.ShaderSource{WGSL: glyphShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile glyph shader: %w", err)
	}
	p.shader = shader

	idShader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "glyph_id_shader",
		Source: hal.ShaderSource{WGSL: glyphIDShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile glyph id shader: %w", err)
	}
	p.idShader = idShader

	atlasLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "glyph_atlas_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2DArray,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create glyph atlas layout: %w", err)
	}
	p.atlasLayout = atlasLayout

	frameLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "glyph_frame_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create glyph frame layout: %w", err)
	}
	p.frameLayout = frameLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "glyph_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.atlasLayout, p.frameLayout},
	})
	if err != nil {
		return fmt.Errorf("create glyph pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	// Linear filtering smooths coverage edges when text is not pixel
	// aligned; clamp keeps padded glyph cells isolated.
	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "glyph_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("create glyph sampler: %w", err)
	}
	p.sampler = sampler

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "glyph_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    glyphVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    surfaceFormat,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create glyph pipeline: %w", err)
	}
	p.pipeline = pipeline

	idPipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "glyph_id_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.idShader,
			EntryPoint: "vs_main",
			Buffers:    glyphVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.idShader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatR32Uint,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create glyph id pipeline: %w", err)
	}
	p.idPipeline = idPipeline

	return nil
}

// recordDraws records one indexed draw of quadCount glyph quads into an
// existing render pass. id selects the id-pass pipeline.
func (p *glyphPipeline) recordDraws(
	rp hal.RenderPassEncoder,
	id bool,
	verts, indices hal.Buffer,
	atlasBind, frameBind hal.BindGroup,
	quadCount uint32,
) {
	if quadCount == 0 {
		return
	}
	if id {
		rp.SetPipeline(p.idPipeline)
	} else {
		rp.SetPipeline(p.pipeline)
	}
	rp.SetBindGroup(0, atlasBind, nil)
	rp.SetBindGroup(1, frameBind, nil)
	rp.SetVertexBuffer(0, verts, 0)
	rp.SetIndexBuffer(indices, gputypes.IndexFormatUint16, 0)
	rp.DrawIndexed(quadCount*6, 1, 0, 0, 0)
}

// destroy releases all pipeline resources in reverse creation order.
func (p *glyphPipeline) destroy() {
	if p.device == nil {
		return
	}
	if p.idPipeline != nil {
		p.device.DestroyRenderPipeline(p.idPipeline)
		p.idPipeline = nil
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.frameLayout != nil {
		p.device.DestroyBindGroupLayout(p.frameLayout)
		p.frameLayout = nil
	}
	if p.atlasLayout != nil {
		p.device.DestroyBindGroupLayout(p.atlasLayout)
		p.atlasLayout = nil
	}
	if p.idShader != nil {
		p.device.DestroyShaderModule(p.idShader)
		p.idShader = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// glyphVertexLayout returns the vertex buffer layout for the glyph
// pipelines. Matches VertexInput in glyph.wgsl.
func glyphVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: GlyphVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // tex_coord
				{Format: gputypes.VertexFormatUint32, Offset: 16, ShaderLocation: 2},   // layer
				{Format: gputypes.VertexFormatUint32, Offset: 20, ShaderLocation: 3},   // area_id
			},
		},
	}
}
