package sprite2d

import (
	"slices"

	"github.com/gogpu/kit2d"
	"honnef.co/go/safeish"
)

// Option configures a [Batch].
type Option func(*Batch)

// WithLayout2D makes the batch emit [kit2d.SpriteLayout], dropping depth
// and opacity. By default batches emit [kit2d.SpriteDepthLayout].
func WithLayout2D() Option {
	return func(b *Batch) {
		b.layout = kit2d.SpriteLayout
	}
}

// WithLinearColor linearizes tint colors as they are pushed.
func WithLinearColor() Option {
	return func(b *Batch) {
		b.linear = true
	}
}

// WithCapacity preallocates room for n sprites.
func WithCapacity(n int) Option {
	return func(b *Batch) {
		b.vertices = slices.Grow(b.vertices, n*4)
		b.indices = slices.Grow(b.indices, n*6)
	}
}

// Batch accumulates sprites from one texture atlas into a single indexed
// vertex stream. Sprites are drawn in the order they are pushed.
//
// A Batch is not safe for concurrent use.
type Batch struct {
	w, h   float32
	layout kit2d.VertexLayout
	linear bool

	vertices []Vertex
	indices  []uint32
	sprites  int

	snapshot kit2d.VertexData
	dirty    bool
}

// NewBatch returns an empty batch for an atlas of w by h pixels.
func NewBatch(w, h uint32, opts ...Option) *Batch {
	b := &Batch{
		w:      float32(w),
		h:      float32(h),
		layout: kit2d.SpriteDepthLayout,
		dirty:  true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Singleton returns a batch holding one sprite.
func Singleton(w, h uint32, s Sprite, opts ...Option) *Batch {
	b := NewBatch(w, h, opts...)
	b.Push(s)
	return b
}

// Layout returns the vertex layout the batch emits.
func (b *Batch) Layout() kit2d.VertexLayout { return b.layout }

// Size returns the atlas size the batch normalizes texture coordinates by.
func (b *Batch) Size() (w, h uint32) { return uint32(b.w), uint32(b.h) }

// Len returns the number of sprites pushed.
func (b *Batch) Len() int { return b.sprites }

// IsEmpty reports whether no sprite has been pushed.
func (b *Batch) IsEmpty() bool { return b.sprites == 0 }

// Push appends one sprite as a quad. Opacity is clamped to [0, 1]. It
// panics if the sprite repeats a texture region smaller than the atlas.
func (b *Batch) Push(s Sprite) {
	u1, v1, u2, v2 := s.uv(b.w, b.h)
	s.Opacity = min(max(s.Opacity, 0), 1)
	c := s.Color
	if b.linear {
		c = c.ToLinear()
	}
	z := float32(s.ZDepth)
	d := s.Dst

	base := uint32(len(b.vertices)) //nolint:gosec // batches stay far below 4G vertices
	b.vertices = append(b.vertices,
		Vertex{Position: [3]float32{d.Min.X, d.Min.Y, z}, UV: [2]float32{u1, v1}, Color: c, Opacity: s.Opacity},
		Vertex{Position: [3]float32{d.Max.X, d.Min.Y, z}, UV: [2]float32{u2, v1}, Color: c, Opacity: s.Opacity},
		Vertex{Position: [3]float32{d.Max.X, d.Max.Y, z}, UV: [2]float32{u2, v2}, Color: c, Opacity: s.Opacity},
		Vertex{Position: [3]float32{d.Min.X, d.Max.Y, z}, UV: [2]float32{u1, v2}, Color: c, Opacity: s.Opacity},
	)
	b.indices = kit2d.QuadIndices(b.indices, base)
	b.sprites++
	b.dirty = true
}

// Add pushes a sprite built from its parts.
func (b *Batch) Add(src, dst kit2d.Rect[float32], z kit2d.ZDepth, color kit2d.Rgba8, opacity float32, rep kit2d.Repeat) {
	b.Push(Sprite{Src: src, Dst: dst, ZDepth: z, Color: color, Opacity: opacity, Repeat: rep})
}

// PushFrame pushes a sprite whose source is the animation's current frame.
func (b *Batch) PushFrame(anim *kit2d.Animation[kit2d.Rect[float32]], dst kit2d.Rect[float32], z kit2d.ZDepth, color kit2d.Rgba8, opacity float32) {
	b.Push(Sprite{Src: anim.Val(), Dst: dst, ZDepth: z, Color: color, Opacity: opacity, Repeat: kit2d.NoRepeat})
}

// Offset moves every sprite pushed so far by (x, y).
func (b *Batch) Offset(x, y float32) {
	if x == 0 && y == 0 {
		return
	}
	for i := range b.vertices {
		b.vertices[i].Position[0] += x
		b.vertices[i].Position[1] += y
	}
	b.dirty = true
}

// Clear removes all sprites, keeping allocated memory.
func (b *Batch) Clear() {
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
	b.sprites = 0
	b.snapshot = kit2d.VertexData{}
	b.dirty = true
}

// Finalize returns the accumulated sprites as vertex data and the number of
// elements to draw. Calling it again without changes returns the same
// snapshot. The snapshot is never modified by later calls.
func (b *Batch) Finalize() (kit2d.VertexData, int) {
	if !b.dirty {
		return b.snapshot, b.snapshot.ElementCount()
	}

	data := kit2d.VertexData{Layout: b.layout, VertexCount: len(b.vertices)}
	if len(b.vertices) > 0 {
		if b.layout.Matches(kit2d.SpriteLayout) {
			flat := make([]Vertex2D, len(b.vertices))
			for i, v := range b.vertices {
				flat[i] = v.Flat()
			}
			data.Vertices = safeish.SliceCast[[]byte](flat)
		} else {
			data.Vertices = slices.Clone(safeish.SliceCast[[]byte](b.vertices))
		}
		data.Indices = slices.Clone(b.indices)
	}
	b.snapshot = data
	b.dirty = false

	kit2d.Logger().Debug("sprite2d: batch finalized",
		"layout", b.layout.Name, "sprites", b.sprites, "elements", data.ElementCount())
	return data, data.ElementCount()
}
