package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// spritePipeline owns the GPU objects for sprite compositing: the color
// pipeline sampling the atlas array, and the id pipeline writing area ids
// into the R32Uint target for hit testing. Both share bind group layouts
// and the instanced unit-quad vertex layout.
//
// Architecture:
//
//	Renderer owns persistent buffers (unit quad, instances, uniforms)
//	spritePipeline owns shaders, layouts, pipelines, sampler
//	the atlas bind group is created once per uploaded atlas
type spritePipeline struct {
	device hal.Device

	shader   hal.ShaderModule
	idShader hal.ShaderModule

	// Group 0: offset table, allocation table, atlas texture, sampler.
	atlasLayout hal.BindGroupLayout
	// Group 1: frame uniforms.
	frameLayout hal.BindGroupLayout

	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	idPipeline hal.RenderPipeline

	sampler hal.Sampler
}

func newSpritePipeline(device hal.Device) *spritePipeline {
	return &spritePipeline{device: device}
}

// create compiles both sprite shaders and builds the color and id
// pipelines. surfaceFormat is the color target the caller composites into.
func (p *spritePipeline) create(surfaceFormat gputypes.TextureFormat) error {
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "sprite_shader",
		Source: hal.ShaderSource{WGSL: spriteShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile sprite shader: %w", err)
	}
	p.shader = shader

	idShader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "sprite_id_shader",
		Source: hal.ShaderSource{WGSL: spriteIDShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile sprite id shader: %w", err)
	}
	p.idShader = idShader

	// Bind group 0 layout:
	//   Binding 0: offset table (read-only storage, vertex)
	//   Binding 1: allocation table (read-only storage, vertex)
	//   Binding 2: atlas texture array (fragment)
	//   Binding 3: sampler (fragment)
	atlasLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "sprite_atlas_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2DArray,
				},
			},
			{
				Binding:    3,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create sprite atlas layout: %w", err)
	}
	p.atlasLayout = atlasLayout

	frameLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "sprite_frame_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create sprite frame layout: %w", err)
	}
	p.frameLayout = frameLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "sprite_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.atlasLayout, p.frameLayout},
	})
	if err != nil {
		return fmt.Errorf("create sprite pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	// Nearest sampling with clamp keeps atlas regions from bleeding into
	// their neighbors.
	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "sprite_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("create sprite sampler: %w", err)
	}
	p.sampler = sampler

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "sprite_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    spriteVertexLayout(),
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
		return fmt.Errorf("create sprite pipeline: %w", err)
	}
	p.pipeline = pipeline

	// The id target is an integer format; no blending.
	idPipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "sprite_id_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.idShader,
			EntryPoint: "vs_main",
			Buffers:    spriteVertexLayout(),
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
		return fmt.Errorf("create sprite id pipeline: %w", err)
	}
	p.idPipeline = idPipeline

	return nil
}

// recordDraws records one instanced draw of count sprite instances into an
// existing render pass. id selects the id-pass pipeline.
func (p *spritePipeline) recordDraws(
	rp hal.RenderPassEncoder,
	id bool,
	quadVerts, quadIndices, instances hal.Buffer,
	atlasBind, frameBind hal.BindGroup,
	count uint32,
) {
	if count == 0 {
		return
	}
	if id {
		rp.SetPipeline(p.idPipeline)
	} else {
		rp.SetPipeline(p.pipeline)
	}
	rp.SetBindGroup(0, atlasBind, nil)
	rp.SetBindGroup(1, frameBind, nil)
	rp.SetVertexBuffer(0, quadVerts, 0)
	rp.SetVertexBuffer(1, instances, 0)
	rp.SetIndexBuffer(quadIndices, gputypes.IndexFormatUint16, 0)
	rp.DrawIndexed(6, count, 0, 0, 0)
}

// destroy releases all pipeline resources in reverse creation order.
func (p *spritePipeline) destroy() {
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

// spriteVertexLayout returns the two vertex buffer layouts of the sprite
// pipelines: the shared unit quad (per vertex) and the instance stream
// (per instance). Matches VertexInput and InstanceInput in sprite.wgsl.
func spriteVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: unitQuadStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // corner
			},
		},
		{
			ArrayStride: SpriteInstanceStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatUint32, Offset: 0, ShaderLocation: 1},    // sprite_index
				{Format: gputypes.VertexFormatFloat32x4, Offset: 4, ShaderLocation: 2}, // rect
				{Format: gputypes.VertexFormatUint32, Offset: 20, ShaderLocation: 3},   // flags
			},
		},
	}
}
