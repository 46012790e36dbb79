package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/kit2d"
	"github.com/gogpu/wgpu/hal"
	"honnef.co/go/safeish"
)

// Globals is the group 0 uniform block of the shape, sprite and textured
// pipelines. Ortho maps world units to clip space; Transform is a camera
// transform applied before it.
type Globals struct {
	Ortho     kit2d.Matrix4
	Transform kit2d.Matrix4
}

// NewGlobals returns globals for a w by h target with an identity camera.
func NewGlobals(w, h uint32, origin kit2d.Origin) Globals {
	return Globals{
		Ortho:     kit2d.Ortho(float32(w), float32(h), origin),
		Transform: kit2d.Identity(),
	}
}

// Bytes returns the uniform block: two column-major mat4x4<f32>.
func (g Globals) Bytes() []byte {
	cols := [][16]float32{g.Ortho.ColumnMajor(), g.Transform.ColumnMajor()}
	return safeish.SliceCast[[]byte](cols)
}

// packColor writes a vec4<f32> uniform.
func packColor(c kit2d.Rgba) []byte {
	buf := make([]byte, postSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(c.R))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(c.G))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(c.B))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(c.A))
	return buf
}

// UniformGroup is a uniform buffer together with the bind group that
// exposes it.
type UniformGroup struct {
	buf       hal.Buffer
	bindGroup hal.BindGroup
}

// newUniformGroup creates a uniform buffer holding data and binds it at
// binding 0 of layout.
func newUniformGroup(device hal.Device, queue hal.Queue, layout hal.BindGroupLayout, data []byte, label string) (*UniformGroup, error) {
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_uniform",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s uniform buffer: %w", label, err)
	}
	if err := queue.WriteBuffer(buf, 0, data); err != nil {
		device.DestroyBuffer(buf)
		return nil, fmt.Errorf("write %s uniform: %w", label, err)
	}

	bindGroup, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_bind",
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: uint64(len(data)),
			}},
		},
	})
	if err != nil {
		device.DestroyBuffer(buf)
		return nil, fmt.Errorf("create %s bind group: %w", label, err)
	}
	return &UniformGroup{buf: buf, bindGroup: bindGroup}, nil
}

// NewGlobalsGroup uploads g and binds it with the globals layout.
func NewGlobalsGroup(device hal.Device, queue hal.Queue, layouts *Layouts, g Globals) (*UniformGroup, error) {
	return newUniformGroup(device, queue, layouts.Globals, g.Bytes(), "kit2d_globals")
}

// NewPostGroup uploads the post-process color and binds it with the post
// layout.
func NewPostGroup(device hal.Device, queue hal.Queue, layouts *Layouts, color kit2d.Rgba) (*UniformGroup, error) {
	return newUniformGroup(device, queue, layouts.Post, packColor(color), "kit2d_post")
}

// BindGroup returns the bind group, or nil after Destroy.
func (u *UniformGroup) BindGroup() hal.BindGroup {
	if u == nil {
		return nil
	}
	return u.bindGroup
}

// Destroy releases the bind group and buffer. Safe to call more than once.
func (u *UniformGroup) Destroy(device hal.Device) {
	if u == nil {
		return
	}
	if u.bindGroup != nil {
		device.DestroyBindGroup(u.bindGroup)
		u.bindGroup = nil
	}
	if u.buf != nil {
		device.DestroyBuffer(u.buf)
		u.buf = nil
	}
}
