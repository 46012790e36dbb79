package kit2d

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"honnef.co/go/safeish"
)

// VertexFormat is the format of one vertex attribute.
type VertexFormat uint8

// Vertex attribute formats.
const (
	Float32 VertexFormat = iota
	Float32x2
	Float32x3
	Float32x4
	Unorm8x4
)

// Size returns the attribute size in bytes.
func (f VertexFormat) Size() uint64 {
	switch f {
	case Float32, Unorm8x4:
		return 4
	case Float32x2:
		return 8
	case Float32x3:
		return 12
	case Float32x4:
		return 16
	default:
		panic(fmt.Sprintf("kit2d: unknown vertex format %d", f))
	}
}

// GPU returns the matching gputypes vertex format.
func (f VertexFormat) GPU() gputypes.VertexFormat {
	switch f {
	case Float32:
		return gputypes.VertexFormatFloat32
	case Float32x2:
		return gputypes.VertexFormatFloat32x2
	case Float32x3:
		return gputypes.VertexFormatFloat32x3
	case Float32x4:
		return gputypes.VertexFormatFloat32x4
	case Unorm8x4:
		return gputypes.VertexFormatUnorm8x4
	default:
		panic(fmt.Sprintf("kit2d: unknown vertex format %d", f))
	}
}

// VertexAttribute is one attribute of a vertex layout.
type VertexAttribute struct {
	Format   VertexFormat
	Offset   uint64
	Location uint32
}

// VertexLayout names a fixed vertex record format. Pipelines and batches
// agree on a layout by name and stride.
type VertexLayout struct {
	Name       string
	Stride     uint64
	Attributes []VertexAttribute
}

// NewVertexLayout packs formats back to back, assigning locations in order.
func NewVertexLayout(name string, formats ...VertexFormat) VertexLayout {
	l := VertexLayout{Name: name, Attributes: make([]VertexAttribute, len(formats))}
	for i, f := range formats {
		l.Attributes[i] = VertexAttribute{Format: f, Offset: l.Stride, Location: uint32(i)} //nolint:gosec // attribute count is tiny
		l.Stride += f.Size()
	}
	return l
}

// Matches reports whether data built for o can be drawn with l.
func (l VertexLayout) Matches(o VertexLayout) bool {
	if l.Stride != o.Stride || len(l.Attributes) != len(o.Attributes) {
		return false
	}
	for i := range l.Attributes {
		if l.Attributes[i] != o.Attributes[i] {
			return false
		}
	}
	return true
}

// String returns the layout name and stride.
func (l VertexLayout) String() string {
	return fmt.Sprintf("%s(%d bytes)", l.Name, l.Stride)
}

// Buffers returns the layout as a single per-vertex buffer layout.
func (l VertexLayout) Buffers() []gputypes.VertexBufferLayout {
	attrs := make([]gputypes.VertexAttribute, len(l.Attributes))
	for i, a := range l.Attributes {
		attrs[i] = gputypes.VertexAttribute{
			Format:         a.Format.GPU(),
			Offset:         a.Offset,
			ShaderLocation: a.Location,
		}
	}
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: l.Stride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  attrs,
		},
	}
}

// Named layouts.
//
//	Shape2DLayout      position vec2, angle f32, center vec2, color unorm8x4      24 bytes
//	Shape3DLayout      position vec3, angle f32, center vec2, color unorm8x4      28 bytes
//	SpriteLayout       position vec2, uv vec2, color unorm8x4                     20 bytes
//	SpriteDepthLayout  position vec3, uv vec2, color unorm8x4, opacity f32        28 bytes
//	PostLayout         position vec2, uv vec2                                     16 bytes
var (
	Shape2DLayout     = NewVertexLayout("shape2d", Float32x2, Float32, Float32x2, Unorm8x4)
	Shape3DLayout     = NewVertexLayout("shape3d", Float32x3, Float32, Float32x2, Unorm8x4)
	SpriteLayout      = NewVertexLayout("sprite", Float32x2, Float32x2, Unorm8x4)
	SpriteDepthLayout = NewVertexLayout("sprite_depth", Float32x3, Float32x2, Unorm8x4, Float32)
	PostLayout        = NewVertexLayout("post", Float32x2, Float32x2)
)

// VertexData is the immutable output of a finalized batch: raw vertex
// bytes in Layout, plus optional 32-bit indices.
type VertexData struct {
	Layout      VertexLayout
	Vertices    []byte
	Indices     []uint32
	VertexCount int
}

// ElementCount returns the number of indices, or the number of vertices
// for non-indexed data.
func (d VertexData) ElementCount() int {
	if d.Indices != nil {
		return len(d.Indices)
	}
	return d.VertexCount
}

// IsEmpty reports whether there is nothing to draw.
func (d VertexData) IsEmpty() bool {
	return d.ElementCount() == 0
}

// IsIndexed reports whether the data carries an index buffer.
func (d VertexData) IsIndexed() bool {
	return d.Indices != nil
}

// IndexBytes returns the indices as little-endian bytes.
func (d VertexData) IndexBytes() []byte {
	if len(d.Indices) == 0 {
		return nil
	}
	return safeish.SliceCast[[]byte](d.Indices)
}

// VertexStream is implemented by batches: anything that produces vertex
// data in a named layout.
type VertexStream interface {
	Layout() VertexLayout
	Finalize() (VertexData, int)
}

// QuadIndices appends the two triangles (0,1,2) and (2,3,0) of the quad
// whose first vertex is base.
func QuadIndices(dst []uint32, base uint32) []uint32 {
	return append(dst, base, base+1, base+2, base+2, base+3, base)
}
