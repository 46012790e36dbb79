// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/kit2d"
	"github.com/gogpu/kit2d/internal/gpu"
)

// Pipeline is a render pipeline obtained from a Renderer.
type Pipeline = gpu.Pipeline

// TransformIndex is the slot a transform occupies in the frame's transform
// buffer.
type TransformIndex = gpu.TransformIndex

// Op is one step of a render pass.
type Op interface {
	op()
}

// Clear clears the target before the pass draws. It must be the first op
// of a pass. Depth is the value the depth buffer is cleared to; zero means
// the far plane, 1.
type Clear struct {
	Color kit2d.Rgba8
	Depth float32
}

// DrawBatch draws uploaded batch data with a pipeline.
type DrawBatch struct {
	Pipeline Pipeline
	Buffer   *VertexBuffer
	// Transform is the model transform. Nil draws untransformed.
	Transform *kit2d.Transform
	// Texture is required by sprite and textured pipelines.
	Texture *Texture
}

// DrawPost draws Texture over the whole target through the post-process
// pipeline, mixing its color toward Color.RGB by Color.A.
type DrawPost struct {
	Texture *Texture
	Color   kit2d.Rgba8
}

func (Clear) op()     {}
func (DrawBatch) op() {}
func (DrawPost) op()  {}
