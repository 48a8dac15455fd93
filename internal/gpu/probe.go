package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// probePipeline owns the compute pipeline that reads the id texel under
// the cursor into a one-element storage buffer. The bind group references
// the id texture view, so the renderer recreates it on resize.
type probePipeline struct {
	device hal.Device

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

func newProbePipeline(device hal.Device) *probePipeline {
	return &probePipeline{device: device}
}

func (p *probePipeline) create() error {
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "probe_shader",
		Source: hal.ShaderSource{WGSL: probeShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile probe shader: %w", err)
	}
	p.shader = shader

	// Binding 0: result slot (storage, read_write)
	// Binding 1: id texture (uint, sampled by textureLoad)
	// Binding 2: cursor position (uniform)
	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "probe_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageCompute,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageCompute,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeUint,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageCompute,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create probe bind layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "probe_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create probe pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	pipeline, err := p.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "probe_pipeline",
		Layout:  p.pipeLayout,
		Compute: hal.ComputeState{Module: p.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create probe pipeline: %w", err)
	}
	p.pipeline = pipeline

	return nil
}

// record encodes the single-invocation probe dispatch.
func (p *probePipeline) record(encoder hal.CommandEncoder, bind hal.BindGroup) {
	cp := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "probe_pass"})
	cp.SetPipeline(p.pipeline)
	cp.SetBindGroup(0, bind, nil)
	cp.Dispatch(1, 1, 1)
	cp.End()
}

// destroy releases all pipeline resources in reverse creation order.
func (p *probePipeline) destroy() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyComputePipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
