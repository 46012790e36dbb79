package gpu

import (
	"github.com/gogpu/kit2d"
	"github.com/gogpu/wgpu/hal"
	"honnef.co/go/safeish"
)

// postVertex is one vertex in kit2d.PostLayout.
type postVertex struct {
	Position [2]float32
	UV       [2]float32
}

// fullScreenQuad covers clip space with two triangles. Texture v grows
// downward, so the bottom of the screen samples v = 1.
var fullScreenQuad = []postVertex{
	{Position: [2]float32{-1, -1}, UV: [2]float32{0, 1}},
	{Position: [2]float32{1, -1}, UV: [2]float32{1, 1}},
	{Position: [2]float32{1, 1}, UV: [2]float32{1, 0}},
	{Position: [2]float32{1, 1}, UV: [2]float32{1, 0}},
	{Position: [2]float32{-1, 1}, UV: [2]float32{0, 0}},
	{Position: [2]float32{-1, -1}, UV: [2]float32{0, 1}},
}

// PostPipeline tints a rendered texture over the whole target:
// mix(texel.rgb, color.rgb, color.a).
//
// Bind groups:
//
//	group 0: Post { color }
//	group 1: Texture (texture + sampler)
//
// The pipeline owns its full-screen quad.
type PostPipeline struct {
	*renderPipeline
	quad *VertexBuffer
}

// NewPostPipeline creates the post-process pipeline and uploads its quad.
// It replaces the target without blending.
func NewPostPipeline(device hal.Device, queue hal.Queue, layouts *Layouts, cfg PipelineConfig) (*PostPipeline, error) {
	p, err := newRenderPipeline(device, layouts, cfg, pipelineDesc{
		name:    "post",
		source:  postShaderSource,
		vsEntry: "vs_main",
		layout:  kit2d.PostLayout,
		groups:  []bindGroupKind{groupPost, groupTexture},
		noBlend: true,
	})
	if err != nil {
		return nil, err
	}

	quad, err := UploadVertexData(device, queue, kit2d.VertexData{
		Layout:      kit2d.PostLayout,
		Vertices:    safeish.SliceCast[[]byte](fullScreenQuad),
		VertexCount: len(fullScreenQuad),
	}, "kit2d_post_quad")
	if err != nil {
		p.Destroy()
		return nil, err
	}
	return &PostPipeline{renderPipeline: p, quad: quad}, nil
}

// Quad returns the full-screen quad.
func (p *PostPipeline) Quad() *VertexBuffer { return p.quad }

// DrawQuad records a draw of the full-screen quad.
func (p *PostPipeline) DrawQuad(rp hal.RenderPassEncoder) error {
	return p.Draw(rp, p.quad)
}

// Destroy releases the quad and the pipeline. Safe to call more than once.
func (p *PostPipeline) Destroy() {
	if p.quad != nil {
		p.quad.Destroy(p.device)
		p.quad = nil
	}
	p.renderPipeline.Destroy()
}
