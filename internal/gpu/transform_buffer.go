package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/kit2d"
	"github.com/gogpu/wgpu/hal"
)

// TransformAlignment is the distance in bytes between two transform slots.
// It matches the minimum dynamic uniform buffer offset alignment WebGPU
// guarantees.
const TransformAlignment = 256

// DefaultMaxTransforms bounds the transform buffer when no maximum is given.
const DefaultMaxTransforms = 4096

// TransformIndex is the slot a transform was registered at.
type TransformIndex uint32

// TransformBuffer collects the model transforms used in one frame into a
// single uniform buffer, one aligned slot per distinct transform.
//
// Transforms are deduplicated by pointer identity: registering the same
// *kit2d.Transform twice returns the same index, while two distinct
// transforms holding equal matrices get two slots.
//
// The CPU side grows by doubling up to the maximum. The GPU buffer is grown
// the same way in Commit, which also recreates the bind group.
//
// TransformBuffer is not safe for concurrent use.
type TransformBuffer struct {
	index map[*kit2d.Transform]TransformIndex
	order []*kit2d.Transform
	cap   int
	max   int

	buf       hal.Buffer
	bindGroup hal.BindGroup
	gpuSlots  int
}

// NewTransformBuffer returns an empty buffer with room for initial
// transforms that may grow to max. Non-positive values pick defaults.
func NewTransformBuffer(initial, maxSlots int) *TransformBuffer {
	if maxSlots <= 0 {
		maxSlots = DefaultMaxTransforms
	}
	if initial <= 0 {
		initial = 16
	}
	initial = min(initial, maxSlots)
	return &TransformBuffer{
		index: make(map[*kit2d.Transform]TransformIndex, initial),
		order: make([]*kit2d.Transform, 0, initial),
		cap:   initial,
		max:   maxSlots,
	}
}

// Register returns the slot of t, adding it if it has not been registered
// since the last Reset. A nil transform registers the identity.
func (tb *TransformBuffer) Register(t *kit2d.Transform) (TransformIndex, error) {
	if t == nil {
		t = identityTransform
	}
	if idx, ok := tb.index[t]; ok {
		return idx, nil
	}
	if len(tb.order) == tb.cap {
		if tb.cap >= tb.max {
			return 0, fmt.Errorf("%w: %d transforms", kit2d.ErrTransformCapacity, tb.max)
		}
		tb.cap = min(tb.cap*2, tb.max)
		slogger().Debug("transform buffer grown", "capacity", tb.cap)
	}
	idx := TransformIndex(len(tb.order)) //nolint:gosec // bounded by max
	tb.index[t] = idx
	tb.order = append(tb.order, t)
	return idx, nil
}

// identityTransform stands in for nil registrations so they share one slot.
var identityTransform = kit2d.IdentityTransform()

// Reset forgets all registrations, keeping capacity and GPU resources.
func (tb *TransformBuffer) Reset() {
	clear(tb.index)
	tb.order = tb.order[:0]
}

// Truncate forgets registrations made after the first n.
func (tb *TransformBuffer) Truncate(n int) {
	if n < 0 || n >= len(tb.order) {
		return
	}
	for _, t := range tb.order[n:] {
		delete(tb.index, t)
	}
	clear(tb.order[n:])
	tb.order = tb.order[:n]
}

// Len returns the number of registered transforms.
func (tb *TransformBuffer) Len() int { return len(tb.order) }

// Cap returns the number of slots available before the next growth.
func (tb *TransformBuffer) Cap() int { return tb.cap }

// Max returns the slot limit.
func (tb *TransformBuffer) Max() int { return tb.max }

// Offset returns the dynamic uniform offset of slot idx.
func (tb *TransformBuffer) Offset(idx TransformIndex) uint32 {
	return uint32(idx) * TransformAlignment
}

// Bytes encodes every registered transform at its slot offset, column-major.
// Matrices are read when Bytes is called, so a transform changed after
// registration uploads its latest value.
func (tb *TransformBuffer) Bytes() []byte {
	out := make([]byte, len(tb.order)*TransformAlignment)
	for i, t := range tb.order {
		slot := out[i*TransformAlignment:]
		for j, v := range t.Matrix.ColumnMajor() {
			binary.LittleEndian.PutUint32(slot[j*4:], math.Float32bits(v))
		}
	}
	return out
}

// Commit uploads the registered transforms, growing the GPU buffer and
// recreating its bind group when it is too small. At least one slot is
// always allocated so the bind group is valid for an empty frame.
func (tb *TransformBuffer) Commit(device hal.Device, queue hal.Queue, layout hal.BindGroupLayout) error {
	need := max(len(tb.order), 1)
	if tb.buf == nil || tb.gpuSlots < need {
		slots := max(tb.gpuSlots, 1)
		for slots < need {
			slots *= 2
		}
		if err := tb.allocate(device, layout, slots); err != nil {
			return err
		}
	}
	if len(tb.order) > 0 {
		if err := queue.WriteBuffer(tb.buf, 0, tb.Bytes()); err != nil {
			return fmt.Errorf("write transforms: %w: %w", kit2d.ErrTransformCapacity, err)
		}
	}
	return nil
}

func (tb *TransformBuffer) allocate(device hal.Device, layout hal.BindGroupLayout, slots int) error {
	tb.destroyGPU(device)

	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "kit2d_transforms",
		Size:  uint64(slots) * TransformAlignment, //nolint:gosec // slots is positive
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create transform buffer: %w: %w", kit2d.ErrTransformCapacity, err)
	}
	bindGroup, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "kit2d_transforms_bind",
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: modelSize,
			}},
		},
	})
	if err != nil {
		device.DestroyBuffer(buf)
		return fmt.Errorf("create transform bind group: %w", err)
	}
	tb.buf = buf
	tb.bindGroup = bindGroup
	tb.gpuSlots = slots
	slogger().Debug("transform buffer allocated", "slots", slots)
	return nil
}

// BindGroup returns the model bind group, or nil before the first Commit.
func (tb *TransformBuffer) BindGroup() hal.BindGroup { return tb.bindGroup }

// GPUSlots returns the number of slots in the GPU buffer.
func (tb *TransformBuffer) GPUSlots() int { return tb.gpuSlots }

func (tb *TransformBuffer) destroyGPU(device hal.Device) {
	if tb.bindGroup != nil {
		device.DestroyBindGroup(tb.bindGroup)
		tb.bindGroup = nil
	}
	if tb.buf != nil {
		device.DestroyBuffer(tb.buf)
		tb.buf = nil
	}
	tb.gpuSlots = 0
}

// Destroy releases GPU resources. Safe to call more than once.
func (tb *TransformBuffer) Destroy(device hal.Device) {
	tb.destroyGPU(device)
}
