package shape2d

import (
	"slices"

	"github.com/gogpu/kit2d"
	"honnef.co/go/safeish"
)

// Option configures a [Batch].
type Option func(*Batch)

// WithLayout2D makes the batch emit [kit2d.Shape2DLayout], dropping depth.
// By default batches emit [kit2d.Shape3DLayout].
func WithLayout2D() Option {
	return func(b *Batch) {
		b.layout = kit2d.Shape2DLayout
	}
}

// WithLinearColor linearizes every color as it is added, for render
// targets in an sRGB format.
func WithLinearColor() Option {
	return func(b *Batch) {
		b.linear = true
	}
}

// WithCapacity preallocates room for n quads.
func WithCapacity(n int) Option {
	return func(b *Batch) {
		b.vertices = slices.Grow(b.vertices, n*4)
		b.indices = slices.Grow(b.indices, n*6)
	}
}

// Batch accumulates shapes into one indexed vertex stream. Shapes are drawn
// in the order they are added.
//
// A Batch is not safe for concurrent use.
type Batch struct {
	layout kit2d.VertexLayout
	linear bool

	vertices []Vertex
	indices  []uint32

	// snapshot is the last Finalize result, valid while !dirty.
	snapshot kit2d.VertexData
	dirty    bool
}

// NewBatch returns an empty batch.
func NewBatch(opts ...Option) *Batch {
	b := &Batch{layout: kit2d.Shape3DLayout, dirty: true}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Layout returns the vertex layout the batch emits.
func (b *Batch) Layout() kit2d.VertexLayout { return b.layout }

// VertexCount returns the number of vertices added so far.
func (b *Batch) VertexCount() int { return len(b.vertices) }

// IsEmpty reports whether nothing has been added.
func (b *Batch) IsEmpty() bool { return len(b.vertices) == 0 }

// Add appends a shape.
func (b *Batch) Add(s Shape) {
	s.emit(b)
}

// AddRect appends a filled rectangle as one quad.
func (b *Batch) AddRect(r kit2d.Rect[float32], z kit2d.ZDepth, rot Rotation, color kit2d.Rgba8) {
	b.quad(r, z, rot, color)
}

// AddLine appends a quad of the given thickness centered on the segment
// p0-p1. A thickness of zero or less draws a one pixel line.
func (b *Batch) AddLine(p0, p1 kit2d.Point2[float32], color kit2d.Rgba8, thickness float32) {
	if thickness <= 0 {
		thickness = 1
	}
	b.lineQuad(p0, p1, thickness, kit2d.ZeroDepth, Rotation{}, color)
}

// Clear removes all shapes, keeping allocated memory.
func (b *Batch) Clear() {
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
	b.snapshot = kit2d.VertexData{}
	b.dirty = true
}

// Finalize returns the accumulated shapes as vertex data and the number of
// elements to draw. Calling it again without adding shapes returns the same
// snapshot. The snapshot is never modified by later calls.
func (b *Batch) Finalize() (kit2d.VertexData, int) {
	if !b.dirty {
		return b.snapshot, b.snapshot.ElementCount()
	}

	data := kit2d.VertexData{Layout: b.layout, VertexCount: len(b.vertices)}
	if len(b.vertices) > 0 {
		data.Vertices = b.encode()
		data.Indices = slices.Clone(b.indices)
	}
	b.snapshot = data
	b.dirty = false

	kit2d.Logger().Debug("shape2d: batch finalized",
		"layout", b.layout.Name, "vertices", data.VertexCount, "elements", data.ElementCount())
	return data, data.ElementCount()
}

// encode copies the vertices into a new byte slice in the batch layout.
func (b *Batch) encode() []byte {
	if b.layout.Matches(kit2d.Shape2DLayout) {
		flat := make([]Vertex2D, len(b.vertices))
		for i, v := range b.vertices {
			flat[i] = v.Flat()
		}
		return safeish.SliceCast[[]byte](flat)
	}
	return slices.Clone(safeish.SliceCast[[]byte](b.vertices))
}

func (b *Batch) color(c kit2d.Rgba8) kit2d.Rgba8 {
	if b.linear {
		return c.ToLinear()
	}
	return c
}

func (b *Batch) push(x, y float32, z kit2d.ZDepth, rot Rotation, c kit2d.Rgba8) {
	b.vertices = append(b.vertices, Vertex{
		Position: [3]float32{x, y, float32(z)},
		Angle:    rot.Angle,
		Center:   [2]float32{rot.Center.X, rot.Center.Y},
		Color:    c,
	})
}

// base returns the index of the next vertex.
func (b *Batch) base() uint32 {
	return uint32(len(b.vertices)) //nolint:gosec // batches stay far below 4G vertices
}

func (b *Batch) quad(r kit2d.Rect[float32], z kit2d.ZDepth, rot Rotation, color kit2d.Rgba8) {
	c := b.color(color)
	base := b.base()
	for _, p := range r.Corners() {
		b.push(p.X, p.Y, z, rot, c)
	}
	b.indices = kit2d.QuadIndices(b.indices, base)
	b.dirty = true
}

// lineQuad emits the quad p0-p1 widened by w/2 on each side.
func (b *Batch) lineQuad(p0, p1 kit2d.Point2[float32], w float32, z kit2d.ZDepth, rot Rotation, color kit2d.Rgba8) {
	dx, dy := kit2d.Line[float32]{P1: p0, P2: p1}.Direction()
	ox := w / 2 * float32(dy)
	oy := w / 2 * float32(dx)

	c := b.color(color)
	base := b.base()
	b.push(p0.X-ox, p0.Y+oy, z, rot, c)
	b.push(p0.X+ox, p0.Y-oy, z, rot, c)
	b.push(p1.X+ox, p1.Y-oy, z, rot, c)
	b.push(p1.X-ox, p1.Y+oy, z, rot, c)
	b.indices = kit2d.QuadIndices(b.indices, base)
	b.dirty = true
}

// fan emits a filled polygon as a triangle fan around its center.
func (b *Batch) fan(center kit2d.Point2[float32], r float32, sides int, z kit2d.ZDepth, color kit2d.Rgba8) {
	c := b.color(color)
	rot := Rotation{Center: center}
	hub := b.base()
	b.push(center.X, center.Y, z, rot, c)
	for i := 0; i < sides; i++ {
		x, y := circlePoint(center, r, i, sides)
		b.push(x, y, z, rot, c)
	}
	for i := uint32(0); i < uint32(sides); i++ { //nolint:gosec // sides is small
		next := (i+1)%uint32(sides) + 1 //nolint:gosec // sides is small
		b.indices = append(b.indices, hub, hub+1+i, hub+next)
	}
	b.dirty = true
}

// ring emits the band between two radii as one quad per side.
func (b *Batch) ring(center kit2d.Point2[float32], inner, outer float32, sides int, z kit2d.ZDepth, color kit2d.Rgba8) {
	c := b.color(color)
	rot := Rotation{Center: center}
	base := b.base()
	for i := 0; i < sides; i++ {
		x, y := circlePoint(center, outer, i, sides)
		b.push(x, y, z, rot, c)
		x, y = circlePoint(center, inner, i, sides)
		b.push(x, y, z, rot, c)
	}
	n := uint32(sides) //nolint:gosec // sides is small
	for i := uint32(0); i < n; i++ {
		o0, i0 := base+2*i, base+2*i+1
		j := (i + 1) % n
		o1, i1 := base+2*j, base+2*j+1
		b.indices = append(b.indices, o0, o1, i1, i1, i0, o0)
	}
	b.dirty = true
}
