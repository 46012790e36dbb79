package gpu

import (
	"github.com/gogpu/kit2d"
	"github.com/gogpu/wgpu/hal"
)

// ShapePipeline draws flat-colored shape2d batches.
//
// Bind groups:
//
//	group 0: Globals
//	group 1: Model (dynamic offset)
type ShapePipeline struct {
	*renderPipeline
}

// NewShapePipeline creates the shape pipeline. With depth it consumes
// kit2d.Shape3DLayout and tests depth; otherwise it consumes
// kit2d.Shape2DLayout and draws in submission order.
func NewShapePipeline(device hal.Device, layouts *Layouts, cfg PipelineConfig, depth bool) (*ShapePipeline, error) {
	desc := pipelineDesc{
		name:    "shape2d",
		source:  shapeShaderSource,
		vsEntry: "vs_main_2d",
		layout:  kit2d.Shape2DLayout,
		groups:  []bindGroupKind{groupGlobals, groupModel},
	}
	if depth {
		desc.name = "shape3d"
		desc.vsEntry = "vs_main"
		desc.layout = kit2d.Shape3DLayout
		desc.depth = true
	}
	p, err := newRenderPipeline(device, layouts, cfg, desc)
	if err != nil {
		return nil, err
	}
	return &ShapePipeline{p}, nil
}
