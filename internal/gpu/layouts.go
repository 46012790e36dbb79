package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Uniform block sizes in bytes.
const (
	globalsSize = 128 // ortho + transform, two mat4x4<f32>
	modelSize   = 64  // one mat4x4<f32>
	postSize    = 16  // vec4<f32>
)

// Layouts holds the bind group layouts shared by every pipeline.
type Layouts struct {
	Globals hal.BindGroupLayout
	Model   hal.BindGroupLayout
	Texture hal.BindGroupLayout
	Post    hal.BindGroupLayout
}

// NewLayouts creates the shared bind group layouts. On error, any layout
// already created is destroyed.
func NewLayouts(device hal.Device) (*Layouts, error) {
	l := &Layouts{}
	var err error

	l.Globals, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "kit2d_globals_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: globalsSize,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create globals layout: %w", err)
	}

	l.Model, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "kit2d_model_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer: &gputypes.BufferBindingLayout{
					Type:             gputypes.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   modelSize,
				},
			},
		},
	})
	if err != nil {
		l.Destroy(device)
		return nil, fmt.Errorf("create model layout: %w", err)
	}

	l.Texture, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "kit2d_texture_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		l.Destroy(device)
		return nil, fmt.Errorf("create texture layout: %w", err)
	}

	l.Post, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "kit2d_post_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: postSize,
				},
			},
		},
	})
	if err != nil {
		l.Destroy(device)
		return nil, fmt.Errorf("create post layout: %w", err)
	}
	return l, nil
}

// Destroy releases the layouts. Safe to call more than once.
func (l *Layouts) Destroy(device hal.Device) {
	if l.Post != nil {
		device.DestroyBindGroupLayout(l.Post)
		l.Post = nil
	}
	if l.Texture != nil {
		device.DestroyBindGroupLayout(l.Texture)
		l.Texture = nil
	}
	if l.Model != nil {
		device.DestroyBindGroupLayout(l.Model)
		l.Model = nil
	}
	if l.Globals != nil {
		device.DestroyBindGroupLayout(l.Globals)
		l.Globals = nil
	}
}
