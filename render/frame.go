// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/kit2d"
	"github.com/gogpu/kit2d/internal/gpu"
	"github.com/gogpu/wgpu/hal"
)

// FrameContext collects the passes of one frame. Passes are validated as
// they are added and encoded together by Submit.
//
// A FrameContext is not safe for concurrent use, and a Renderer must not
// have two frames in flight.
type FrameContext struct {
	r      *Renderer
	target hal.TextureView
	width  uint32
	height uint32
	camera kit2d.Matrix4

	passes    []pass
	uploads   []*VertexBuffer
	postGroup []*gpu.UniformGroup
	stats     FrameStats

	submitted bool
	err       error
}

// FrameStats counts what a frame recorded.
type FrameStats struct {
	Passes     int
	Draws      int
	Elements   int
	Transforms int
}

type pass struct {
	clear *Clear
	draws []draw
}

// draw is one validated op. postColor marks a post-process draw; Pass
// creates its uniform group once the whole pass is valid.
type draw struct {
	pipeline  Pipeline
	buffer    *gpu.VertexBuffer
	model     TransformIndex
	texture   hal.BindGroup
	postColor *kit2d.Rgba
	post      *gpu.UniformGroup
}

// BeginFrame starts a frame rendering into target, a w by h view in the
// renderer's color format. Errors are reported by Pass and Submit.
func (r *Renderer) BeginFrame(target hal.TextureView, w, h uint32) *FrameContext {
	f := &FrameContext{r: r, target: target, width: w, height: h, camera: kit2d.Identity()}
	switch {
	case r.isDestroyed():
		f.err = kit2d.ErrRendererDestroyed
	case target == nil || w == 0 || h == 0:
		f.err = fmt.Errorf("kit2d: invalid frame target %dx%d", w, h)
	}
	r.transforms.Reset()
	return f
}

// SetCamera sets the transform applied to every draw before the
// orthographic projection.
func (f *FrameContext) SetCamera(m kit2d.Matrix4) { f.camera = m }

// Register adds t to the frame's transform buffer and returns its slot.
// DrawBatch registers its transform itself; Register reports capacity
// errors up front.
func (f *FrameContext) Register(t *kit2d.Transform) (TransformIndex, error) {
	if f.submitted {
		return 0, kit2d.ErrFrameSubmitted
	}
	return f.r.transforms.Register(t)
}

// Upload copies batch data to the GPU for this frame only. Submit releases
// the buffer.
func (f *FrameContext) Upload(data kit2d.VertexData) (*VertexBuffer, error) {
	if f.submitted {
		return nil, kit2d.ErrFrameSubmitted
	}
	vb, err := f.r.Upload(data)
	if err != nil {
		return nil, err
	}
	f.uploads = append(f.uploads, vb)
	return vb, nil
}

// Pass adds a render pass. A leading Clear clears the target; otherwise the
// pass draws over what earlier passes left. The first pass of a frame
// always starts with a cleared depth buffer, and with multisampling it
// must start with Clear. Ops are validated before
// anything is recorded: a buffer whose layout differs from its pipeline's
// fails the whole pass with an error wrapping kit2d.ErrLayoutMismatch.
// Empty buffers draw nothing.
func (f *FrameContext) Pass(ops ...Op) error {
	if f.submitted {
		return kit2d.ErrFrameSubmitted
	}
	if f.err != nil {
		return f.err
	}

	var p pass
	var transforms []*kit2d.Transform
	for i, op := range ops {
		switch op := op.(type) {
		case Clear:
			if i != 0 {
				return fmt.Errorf("kit2d: clear must be the first op of a pass, got it at %d", i)
			}
			c := op
			p.clear = &c
		case DrawBatch:
			d, err := f.drawBatch(op)
			if err != nil {
				return err
			}
			if d != nil {
				p.draws = append(p.draws, *d)
				transforms = append(transforms, op.Transform)
			}
		case DrawPost:
			d, err := f.drawPost(op)
			if err != nil {
				return err
			}
			p.draws = append(p.draws, *d)
			transforms = append(transforms, nil)
		default:
			return fmt.Errorf("kit2d: unknown op %T", op)
		}
	}
	// The multisample attachment is shared by every target, so a frame
	// must not load what another frame left in it.
	if len(f.passes) == 0 && p.clear == nil && f.r.pcfg.SampleCount > 1 {
		return errors.New("kit2d: the first pass of a multisampled frame must start with clear")
	}

	// Every op is valid. Only now do draws take transform slots and post
	// uniforms, so a rejected pass leaves the frame as it was.
	registered, groups := f.r.transforms.Len(), len(f.postGroup)
	for i := range p.draws {
		d := &p.draws[i]
		var err error
		if d.postColor != nil {
			d.post, err = gpu.NewPostGroup(f.r.device, f.r.queue, f.r.layouts, *d.postColor)
			if err == nil {
				f.postGroup = append(f.postGroup, d.post)
			} else {
				err = fmt.Errorf("kit2d: %w", err)
			}
		} else {
			d.model, err = f.r.transforms.Register(transforms[i])
		}
		if err != nil {
			f.r.transforms.Truncate(registered)
			for _, g := range f.postGroup[groups:] {
				g.Destroy(f.r.device)
			}
			f.postGroup = f.postGroup[:groups]
			return err
		}
	}
	f.passes = append(f.passes, p)
	return nil
}

func (f *FrameContext) drawBatch(op DrawBatch) (*draw, error) {
	if op.Pipeline == nil {
		return nil, errors.New("kit2d: draw without a pipeline")
	}
	if op.Buffer != nil {
		if err := gpu.CheckLayout(op.Pipeline, op.Buffer.vb); err != nil {
			kit2d.Logger().Error("kit2d: vertex layout mismatch",
				"pipeline", op.Pipeline.Name(), "want", op.Pipeline.Layout().Name, "got", op.Buffer.Layout().Name)
			return nil, err
		}
	}
	if op.Buffer.IsEmpty() {
		return nil, nil
	}
	var tex hal.BindGroup
	if op.Pipeline.UsesTexture() {
		if op.Texture == nil {
			return nil, fmt.Errorf("kit2d: %s: %w: no texture", op.Pipeline.Name(), gpu.ErrMissingBinding)
		}
		tex = op.Texture.t.BindGroup()
	}
	return &draw{pipeline: op.Pipeline, buffer: op.Buffer.vb, texture: tex}, nil
}

func (f *FrameContext) drawPost(op DrawPost) (*draw, error) {
	if op.Texture == nil {
		return nil, fmt.Errorf("kit2d: post: %w: no texture", gpu.ErrMissingBinding)
	}
	if op.Texture.View() == f.target {
		return nil, errors.New("kit2d: post: cannot sample the frame target")
	}
	p, err := f.r.postPipeline()
	if err != nil {
		return nil, err
	}
	color := f.color(op.Color)
	return &draw{pipeline: p, buffer: p.Quad(), texture: op.Texture.t.BindGroup(), postColor: &color}, nil
}

// color converts a color for the target, linearizing for sRGB targets.
func (f *FrameContext) color(c kit2d.Rgba8) kit2d.Rgba {
	rgba := c.ToRgba()
	if f.r.cfg.Linear {
		rgba = rgba.ToLinear()
	}
	return rgba
}

// Stats returns what the frame has recorded so far.
func (f *FrameContext) Stats() FrameStats {
	s := FrameStats{Passes: len(f.passes), Transforms: f.r.transforms.Len()}
	for _, p := range f.passes {
		s.Draws += len(p.draws)
		for _, d := range p.draws {
			s.Elements += d.buffer.ElementCount()
		}
	}
	return s
}

// Submit encodes every pass, submits them and waits for the GPU. Transient
// uploads are released and the transform buffer is reset whatever the
// outcome. A frame can be submitted once.
func (f *FrameContext) Submit() error {
	if f.submitted {
		return kit2d.ErrFrameSubmitted
	}
	f.stats = f.Stats()
	defer f.release()
	f.submitted = true
	if f.err != nil {
		return f.err
	}
	if f.r.isDestroyed() {
		return kit2d.ErrRendererDestroyed
	}
	if len(f.passes) == 0 {
		return nil
	}

	r := f.r
	if err := r.attachments.Ensure(r.device, r.pcfg, f.width, f.height); err != nil {
		return fmt.Errorf("kit2d: %w", err)
	}
	if err := r.transforms.Commit(r.device, r.queue, r.layouts.Model); err != nil {
		return fmt.Errorf("kit2d: %w", err)
	}
	globals, err := gpu.NewGlobalsGroup(r.device, r.queue, r.layouts, gpu.Globals{
		Ortho:     kit2d.Ortho(float32(f.width), float32(f.height), r.origin),
		Transform: f.camera,
	})
	if err != nil {
		return fmt.Errorf("kit2d: %w", err)
	}
	defer globals.Destroy(r.device)

	err = gpu.Submit(r.device, r.queue, "kit2d_frame", func(encoder hal.CommandEncoder) error {
		for i := range f.passes {
			if err := f.encodePass(encoder, i, globals); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("kit2d: %w", err)
	}
	kit2d.Logger().Debug("kit2d: frame submitted",
		"passes", f.stats.Passes, "draws", f.stats.Draws, "elements", f.stats.Elements, "transforms", f.stats.Transforms)
	return nil
}

func (f *FrameContext) encodePass(encoder hal.CommandEncoder, i int, globals *gpu.UniformGroup) error {
	p := f.passes[i]
	target := gpu.PassTarget{Color: f.target, Attachments: &f.r.attachments}
	if p.clear != nil {
		color := f.color(p.clear.Color)
		depth := p.clear.Depth
		if depth == 0 {
			depth = 1
		}
		target.Clear = &color
		target.ClearDepth = &depth
	} else if i == 0 {
		// The depth attachment outlives frames; start each frame at the far plane.
		depth := float32(kit2d.FarDepth)
		target.ClearDepth = &depth
	}

	rp := gpu.BeginPass(encoder, fmt.Sprintf("kit2d_pass_%d", i), target)
	defer rp.End()
	for _, d := range p.draws {
		state := gpu.DrawState{
			Globals:     globals.BindGroup(),
			Model:       f.r.transforms.BindGroup(),
			ModelOffset: f.r.transforms.Offset(d.model),
			Texture:     d.texture,
			Post:        d.post.BindGroup(),
		}
		if err := d.pipeline.Bind(rp, state); err != nil {
			return err
		}
		if err := d.pipeline.Draw(rp, d.buffer); err != nil {
			return err
		}
	}
	return nil
}

// release frees the frame's transient objects and resets the transform
// buffer for the next frame.
func (f *FrameContext) release() {
	for _, vb := range f.uploads {
		vb.Destroy()
	}
	f.uploads = nil
	for _, g := range f.postGroup {
		g.Destroy(f.r.device)
	}
	f.postGroup = nil
	f.passes = nil
	if !f.r.isDestroyed() {
		f.r.transforms.Reset()
	}
}

// SubmittedStats returns the statistics of a submitted frame.
func (f *FrameContext) SubmittedStats() FrameStats { return f.stats }
