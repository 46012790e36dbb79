// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/kit2d"
	"github.com/gogpu/kit2d/internal/gpu"
	"github.com/gogpu/wgpu/hal"
)

// VertexBuffer is finalized batch data resident on the GPU.
type VertexBuffer struct {
	vb     *gpu.VertexBuffer
	device hal.Device
}

// Layout returns the vertex layout the data was built for.
func (b *VertexBuffer) Layout() kit2d.VertexLayout { return b.vb.Layout() }

// ElementCount returns the number of indices (or vertices) drawn.
func (b *VertexBuffer) ElementCount() int { return b.vb.ElementCount() }

// IsEmpty reports whether drawing the buffer draws nothing.
func (b *VertexBuffer) IsEmpty() bool { return b == nil || b.vb.IsEmpty() }

// Destroy releases the GPU buffers. Buffers returned by FrameContext.Upload
// are released by Submit and need not be destroyed.
func (b *VertexBuffer) Destroy() { b.vb.Destroy(b.device) }

// TextureOption configures CreateTexture.
type TextureOption func(*gpu.TextureDesc)

// WithRepeat samples the texture with wrapping coordinates, as sprites with
// a Repeat other than one need.
func WithRepeat() TextureOption {
	return func(d *gpu.TextureDesc) { d.Repeat = true }
}

// WithNearest samples the texture without filtering, for pixel art.
func WithNearest() TextureOption {
	return func(d *gpu.TextureDesc) { d.Nearest = true }
}

// WithLabel sets the debug label.
func WithLabel(label string) TextureOption {
	return func(d *gpu.TextureDesc) { d.Label = label }
}

// Texture is a 2D texture that sprite, textured and post-process pipelines
// can sample. Canvases are textures that frames can also render into.
type Texture struct {
	t      *gpu.Texture
	device hal.Device
	queue  hal.Queue
}

// Size returns the texture size in pixels.
func (t *Texture) Size() (w, h uint32) { return t.t.Size() }

// Format returns the texel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.t.Format() }

// View returns the texture view. For a canvas it is a valid frame target.
func (t *Texture) View() hal.TextureView { return t.t.View() }

// IsCanvas reports whether frames can render into the texture.
func (t *Texture) IsCanvas() bool { return t.t.IsRenderTarget() }

// Write replaces the texture contents with tightly packed RGBA texels.
func (t *Texture) Write(rgba []byte) error { return t.t.Write(t.queue, rgba) }

// Destroy releases the texture.
func (t *Texture) Destroy() { t.t.Destroy(t.device) }

// ReadPixels copies a canvas back to the CPU as tightly packed RGBA.
func (t *Texture) ReadPixels() ([]byte, error) {
	pixels, err := gpu.ReadTexture(t.device, t.queue, t.t)
	if err != nil {
		return nil, fmt.Errorf("kit2d: %w", err)
	}
	switch t.Format() {
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		for i := 0; i+3 < len(pixels); i += 4 {
			pixels[i], pixels[i+2] = pixels[i+2], pixels[i]
		}
	}
	return pixels, nil
}

// Image reads a canvas back as an *image.RGBA.
func (t *Texture) Image() (*image.RGBA, error) {
	pixels, err := t.ReadPixels()
	if err != nil {
		return nil, err
	}
	w, h := t.Size()
	return &image.RGBA{
		Pix:    pixels,
		Stride: int(w) * 4,
		Rect:   image.Rect(0, 0, int(w), int(h)),
	}, nil
}
