package shape2d

import (
	"math"

	"github.com/gogpu/kit2d"
)

// DefaultCircleSides is the polygon resolution used for circles with
// fewer than three sides.
const DefaultCircleSides = 32

// Shape is a primitive that can be added to a [Batch].
type Shape interface {
	emit(b *Batch)
}

// Line is a stroked segment.
type Line struct {
	Line     kit2d.Line[float32]
	ZDepth   kit2d.ZDepth
	Rotation Rotation
	Stroke   Stroke
}

// Rectangle is a filled and/or stroked rectangle. The stroke lies inside
// the rectangle.
type Rectangle struct {
	Rect     kit2d.Rect[float32]
	ZDepth   kit2d.ZDepth
	Rotation Rotation
	Stroke   Stroke
	Fill     Fill
}

// Circle is a filled and/or stroked regular polygon approximating a circle.
// The stroke lies inside the radius.
type Circle struct {
	Center kit2d.Point2[float32]
	Radius float32
	Sides  int
	ZDepth kit2d.ZDepth
	Stroke Stroke
	Fill   Fill
}

func (l Line) emit(b *Batch) {
	w := l.Stroke.Width
	if w <= 0 {
		w = 1
	}
	b.lineQuad(l.Line.P1, l.Line.P2, w, l.ZDepth, l.Rotation, l.Stroke.Color)
}

func (r Rectangle) emit(b *Batch) {
	if r.Fill.Solid {
		b.quad(r.Rect, r.ZDepth, r.Rotation, r.Fill.Color)
	}
	w := r.Stroke.Width
	if w <= 0 {
		return
	}
	rc := r.Rect
	// Clamp so opposite bands never overlap and double-blend.
	w = min(w, rc.Width()/2, rc.Height()/2)
	c := r.Stroke.Color
	x1, y1, x2, y2 := rc.Min.X, rc.Min.Y, rc.Max.X, rc.Max.Y
	b.quad(kit2d.NewRect(x1, y1, x2, y1+w), r.ZDepth, r.Rotation, c)
	b.quad(kit2d.NewRect(x1, y2-w, x2, y2), r.ZDepth, r.Rotation, c)
	b.quad(kit2d.NewRect(x1, y1+w, x1+w, y2-w), r.ZDepth, r.Rotation, c)
	b.quad(kit2d.NewRect(x2-w, y1+w, x2, y2-w), r.ZDepth, r.Rotation, c)
}

func (c Circle) emit(b *Batch) {
	sides := c.Sides
	if sides < 3 {
		sides = DefaultCircleSides
	}
	if c.Fill.Solid {
		b.fan(c.Center, c.Radius, sides, c.ZDepth, c.Fill.Color)
	}
	if c.Stroke.Width > 0 {
		inner := max(c.Radius-c.Stroke.Width, 0)
		b.ring(c.Center, inner, c.Radius, sides, c.ZDepth, c.Stroke.Color)
	}
}

// circlePoint returns the i-th of n points on a circle of radius r.
func circlePoint(center kit2d.Point2[float32], r float32, i, n int) (float32, float32) {
	s, co := math.Sincos(2 * math.Pi * float64(i) / float64(n))
	return center.X + r*float32(co), center.Y + r*float32(s)
}
