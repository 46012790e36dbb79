package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/kit2d"
	"github.com/gogpu/wgpu/hal"
)

// VertexBuffer is finalized vertex data resident on the GPU.
type VertexBuffer struct {
	layout      kit2d.VertexLayout
	vertices    hal.Buffer
	indices     hal.Buffer
	vertexCount uint32
	indexCount  uint32
}

// UploadVertexData copies data into new GPU buffers. Empty data needs no
// buffers and yields a VertexBuffer that draws nothing.
func UploadVertexData(device hal.Device, queue hal.Queue, data kit2d.VertexData, label string) (*VertexBuffer, error) {
	vb := &VertexBuffer{layout: data.Layout}
	if data.IsEmpty() {
		return vb, nil
	}

	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_vertices",
		Size:  uint64(len(data.Vertices)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s vertex buffer: %w: %w", label, kit2d.ErrVertexCapacity, err)
	}
	vb.vertices = buf
	if err := queue.WriteBuffer(buf, 0, data.Vertices); err != nil {
		vb.Destroy(device)
		return nil, fmt.Errorf("write %s vertices: %w: %w", label, kit2d.ErrVertexCapacity, err)
	}
	vb.vertexCount = uint32(data.VertexCount) //nolint:gosec // vertex counts fit in uint32

	if data.IsIndexed() {
		idx := data.IndexBytes()
		ibuf, err := device.CreateBuffer(&hal.BufferDescriptor{
			Label: label + "_indices",
			Size:  uint64(len(idx)),
			Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			vb.Destroy(device)
			return nil, fmt.Errorf("create %s index buffer: %w: %w", label, kit2d.ErrVertexCapacity, err)
		}
		vb.indices = ibuf
		if err := queue.WriteBuffer(ibuf, 0, idx); err != nil {
			vb.Destroy(device)
			return nil, fmt.Errorf("write %s indices: %w: %w", label, kit2d.ErrVertexCapacity, err)
		}
		vb.indexCount = uint32(len(data.Indices)) //nolint:gosec // index counts fit in uint32
	}
	return vb, nil
}

// Layout returns the layout the data was built for.
func (vb *VertexBuffer) Layout() kit2d.VertexLayout { return vb.layout }

// ElementCount returns the number of indices, or vertices if not indexed.
func (vb *VertexBuffer) ElementCount() int {
	if vb.indices != nil {
		return int(vb.indexCount)
	}
	return int(vb.vertexCount)
}

// IsEmpty reports whether drawing the buffer would draw nothing.
func (vb *VertexBuffer) IsEmpty() bool { return vb == nil || vb.vertices == nil }

// record binds the buffers and issues the draw.
func (vb *VertexBuffer) record(rp hal.RenderPassEncoder) {
	rp.SetVertexBuffer(0, vb.vertices, 0)
	if vb.indices != nil {
		rp.SetIndexBuffer(vb.indices, gputypes.IndexFormatUint32, 0)
		rp.DrawIndexed(vb.indexCount, 1, 0, 0, 0)
		return
	}
	rp.Draw(vb.vertexCount, 1, 0, 0)
}

// Destroy releases the GPU buffers. Safe to call more than once.
func (vb *VertexBuffer) Destroy(device hal.Device) {
	if vb.indices != nil {
		device.DestroyBuffer(vb.indices)
		vb.indices = nil
	}
	if vb.vertices != nil {
		device.DestroyBuffer(vb.vertices)
		vb.vertices = nil
	}
}
