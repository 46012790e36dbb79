package gpu

import (
	"github.com/gogpu/kit2d"
	"github.com/gogpu/wgpu/hal"
)

// TexturedPipeline draws kit2d.SpriteLayout quads blending texture and
// vertex color half and half. It takes no model transform.
type TexturedPipeline struct {
	*renderPipeline
}

// NewTexturedPipeline creates the textured pipeline.
func NewTexturedPipeline(device hal.Device, layouts *Layouts, cfg PipelineConfig) (*TexturedPipeline, error) {
	p, err := newRenderPipeline(device, layouts, cfg, pipelineDesc{
		name:    "textured",
		source:  texturedShaderSource,
		vsEntry: "vs_main",
		layout:  kit2d.SpriteLayout,
		groups:  []bindGroupKind{groupGlobals, groupTexture},
	})
	if err != nil {
		return nil, err
	}
	return &TexturedPipeline{p}, nil
}
