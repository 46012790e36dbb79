package gpu

import (
	"github.com/gogpu/kit2d"
	"github.com/gogpu/wgpu/hal"
)

// SpritePipeline draws sprite2d batches from one texture.
//
// Bind groups:
//
//	group 0: Globals
//	group 1: Texture (texture + sampler)
//	group 2: Model (dynamic offset)
//
// The texture origin is fixed when the pipeline is created. TopLeft
// pipelines sample v as the batch emitted it; BottomLeft pipelines sample
// 1-v.
type SpritePipeline struct {
	*renderPipeline
	origin kit2d.Origin
}

// NewSpritePipeline creates a sprite pipeline. With depth it consumes
// kit2d.SpriteDepthLayout, tests depth and applies per-vertex opacity;
// otherwise it consumes kit2d.SpriteLayout.
func NewSpritePipeline(device hal.Device, layouts *Layouts, cfg PipelineConfig, depth bool, origin kit2d.Origin) (*SpritePipeline, error) {
	desc := pipelineDesc{
		name:    "sprite",
		source:  spriteShaderSource,
		vsEntry: "vs_main_2d",
		layout:  kit2d.SpriteLayout,
		groups:  []bindGroupKind{groupGlobals, groupTexture, groupModel},
	}
	if depth {
		desc.name = "sprite_depth"
		desc.vsEntry = "vs_main"
		desc.layout = kit2d.SpriteDepthLayout
		desc.depth = true
	}
	if origin == kit2d.BottomLeft {
		desc.name += "_flipped"
		desc.vsEntry += "_flipped"
	}
	p, err := newRenderPipeline(device, layouts, cfg, desc)
	if err != nil {
		return nil, err
	}
	return &SpritePipeline{renderPipeline: p, origin: origin}, nil
}

// Origin returns the texture origin the pipeline samples with.
func (p *SpritePipeline) Origin() kit2d.Origin { return p.origin }
