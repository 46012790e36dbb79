package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/kit2d"
	"github.com/gogpu/wgpu/hal"
)

// ErrMissingBinding is returned by Bind when a bind group the pipeline
// needs is absent from the draw state.
var ErrMissingBinding = errors.New("kit2d: missing bind group")

// DrawState holds the bind groups available to one draw. Each pipeline
// uses the subset its shader declares.
type DrawState struct {
	Globals     hal.BindGroup
	Model       hal.BindGroup
	ModelOffset uint32
	Texture     hal.BindGroup
	Post        hal.BindGroup
}

// Pipeline is a render pipeline bound to one vertex layout.
type Pipeline interface {
	// Name identifies the pipeline in logs and errors.
	Name() string
	// Layout returns the vertex layout the pipeline consumes.
	Layout() kit2d.VertexLayout
	// UsesTexture reports whether draws need a texture bind group.
	UsesTexture() bool
	// Bind sets the pipeline and its bind groups on rp.
	Bind(rp hal.RenderPassEncoder, state DrawState) error
	// Draw records a draw of vb. Nothing is recorded for an empty buffer.
	Draw(rp hal.RenderPassEncoder, vb *VertexBuffer) error
	// Destroy releases the GPU objects. Safe to call more than once.
	Destroy()
}

// CheckLayout returns an error wrapping kit2d.ErrLayoutMismatch when vb was
// built for a different vertex layout than p consumes.
func CheckLayout(p Pipeline, vb *VertexBuffer) error {
	if vb == nil || p.Layout().Matches(vb.Layout()) {
		return nil
	}
	return fmt.Errorf("%w: pipeline %s expects %v, buffer has %v",
		kit2d.ErrLayoutMismatch, p.Name(), p.Layout(), vb.Layout())
}

// bindGroupKind names a bind group slot in the shared layouts.
type bindGroupKind uint8

const (
	groupGlobals bindGroupKind = iota
	groupModel
	groupTexture
	groupPost
)

func (k bindGroupKind) String() string {
	switch k {
	case groupGlobals:
		return "globals"
	case groupModel:
		return "model"
	case groupTexture:
		return "texture"
	case groupPost:
		return "post"
	default:
		return fmt.Sprintf("group(%d)", uint8(k))
	}
}

func (k bindGroupKind) layout(l *Layouts) hal.BindGroupLayout {
	switch k {
	case groupGlobals:
		return l.Globals
	case groupModel:
		return l.Model
	case groupTexture:
		return l.Texture
	default:
		return l.Post
	}
}

// pipelineDesc describes one render pipeline variant.
type pipelineDesc struct {
	name    string
	source  string
	vsEntry string
	layout  kit2d.VertexLayout
	groups  []bindGroupKind
	depth   bool
	noBlend bool
}

// renderPipeline is the common body of every kit2d pipeline: one shader
// module, one pipeline layout built from the shared bind group layouts, one
// render pipeline.
type renderPipeline struct {
	device hal.Device
	desc   pipelineDesc

	shader     hal.ShaderModule
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

func newRenderPipeline(device hal.Device, layouts *Layouts, cfg PipelineConfig, desc pipelineDesc) (*renderPipeline, error) {
	p := &renderPipeline{device: device, desc: desc}
	if err := p.create(layouts, cfg); err != nil {
		p.Destroy()
		return nil, err
	}
	slogger().Debug("pipeline created",
		"name", desc.name, "layout", desc.layout.Name, "depth", desc.depth, "entry", desc.vsEntry)
	return p, nil
}

func (p *renderPipeline) create(layouts *Layouts, cfg PipelineConfig) error {
	shader, err := createShaderModule(p.device, p.desc.name+"_shader", p.desc.source, cfg.SPIRV)
	if err != nil {
		return err
	}
	p.shader = shader

	groupLayouts := make([]hal.BindGroupLayout, len(p.desc.groups))
	for i, g := range p.desc.groups {
		groupLayouts[i] = g.layout(layouts)
	}
	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            p.desc.name + "_pipe_layout",
		BindGroupLayouts: groupLayouts,
	})
	if err != nil {
		return fmt.Errorf("create %s pipeline layout: %w", p.desc.name, err)
	}
	p.pipeLayout = pipeLayout

	target := gputypes.ColorTargetState{
		Format:    cfg.ColorFormat,
		WriteMask: gputypes.ColorWriteMaskAll,
	}
	if !p.desc.noBlend {
		premulBlend := gputypes.BlendStatePremultiplied()
		target.Blend = &premulBlend
	}

	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  p.desc.name + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: p.desc.vsEntry,
			Buffers:    p.desc.layout.Buffers(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets:    []gputypes.ColorTargetState{target},
		},
		DepthStencil: depthStencilState(cfg, p.desc.depth),
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: cfg.samples(),
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create %s pipeline: %w", p.desc.name, err)
	}
	p.pipeline = pipeline
	return nil
}

// depthStencilState returns the depth state of a pipeline. Every pass has a
// depth/stencil attachment, so pipelines without depth testing still declare
// the format and simply always pass without writing.
func depthStencilState(cfg PipelineConfig, depthTest bool) *hal.DepthStencilState {
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	state := &hal.DepthStencilState{
		Format:            cfg.DepthFormat,
		DepthWriteEnabled: false,
		DepthCompare:      gputypes.CompareFunctionAlways,
		StencilFront:      keep,
		StencilBack:       keep,
		StencilReadMask:   0x00,
		StencilWriteMask:  0x00,
	}
	if depthTest {
		state.DepthWriteEnabled = true
		state.DepthCompare = cfg.DepthCompare
	}
	return state
}

func (p *renderPipeline) Name() string { return p.desc.name }

func (p *renderPipeline) Layout() kit2d.VertexLayout { return p.desc.layout }

func (p *renderPipeline) UsesTexture() bool {
	for _, g := range p.desc.groups {
		if g == groupTexture {
			return true
		}
	}
	return false
}

// DepthTest reports whether the pipeline tests and writes depth.
func (p *renderPipeline) DepthTest() bool { return p.desc.depth }

func (p *renderPipeline) Bind(rp hal.RenderPassEncoder, state DrawState) error {
	if p.pipeline == nil {
		return fmt.Errorf("%s: %w", p.desc.name, kit2d.ErrRendererDestroyed)
	}
	groups := make([]hal.BindGroup, len(p.desc.groups))
	for i, g := range p.desc.groups {
		var bg hal.BindGroup
		switch g {
		case groupGlobals:
			bg = state.Globals
		case groupModel:
			bg = state.Model
		case groupTexture:
			bg = state.Texture
		case groupPost:
			bg = state.Post
		}
		if bg == nil {
			return fmt.Errorf("%s: %w: %v at group %d", p.desc.name, ErrMissingBinding, g, i)
		}
		groups[i] = bg
	}

	rp.SetPipeline(p.pipeline)
	for i, g := range p.desc.groups {
		var offsets []uint32
		if g == groupModel {
			offsets = []uint32{state.ModelOffset}
		}
		rp.SetBindGroup(uint32(i), groups[i], offsets) //nolint:gosec // at most four groups
	}
	return nil
}

func (p *renderPipeline) Draw(rp hal.RenderPassEncoder, vb *VertexBuffer) error {
	if err := CheckLayout(p, vb); err != nil {
		return err
	}
	if vb.IsEmpty() {
		return nil
	}
	vb.record(rp)
	return nil
}

// Destroy releases pipeline resources in reverse creation order.
func (p *renderPipeline) Destroy() {
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
