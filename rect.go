package kit2d

// Rect is an axis-aligned rectangle. Min is never greater than Max on
// either axis; zero-area rectangles are allowed.
type Rect[T Number] struct {
	Min, Max Point2[T]
}

// NewRect returns the rectangle spanning (x1, y1) and (x2, y2) in any
// corner order.
func NewRect[T Number](x1, y1, x2, y2 T) Rect[T] {
	return RectFromPoints(Pt(x1, y1), Pt(x2, y2))
}

// RectFromPoints returns the rectangle spanning a and b.
func RectFromPoints[T Number](a, b Point2[T]) Rect[T] {
	return Rect[T]{
		Min: Point2[T]{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		Max: Point2[T]{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
	}
}

// RectWithSize returns the rectangle at (x, y) with the given size.
func RectWithSize[T Number](x, y, w, h T) Rect[T] {
	return NewRect(x, y, x+w, y+h)
}

// UnitRect returns the rectangle (0, 0)-(1, 1).
func UnitRect[T Number]() Rect[T] {
	return Rect[T]{Max: Point2[T]{X: 1, Y: 1}}
}

// Width returns Max.X - Min.X.
func (r Rect[T]) Width() T { return r.Max.X - r.Min.X }

// Height returns Max.Y - Min.Y.
func (r Rect[T]) Height() T { return r.Max.Y - r.Min.Y }

// Area returns Width*Height.
func (r Rect[T]) Area() T { return r.Width() * r.Height() }

// IsEmpty reports whether r has zero area.
func (r Rect[T]) IsEmpty() bool {
	return r.Min.X == r.Max.X || r.Min.Y == r.Max.Y
}

// Center returns the midpoint of r.
func (r Rect[T]) Center() Point2[T] {
	return Point2[T]{X: r.Min.X + r.Width()/2, Y: r.Min.Y + r.Height()/2}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect[T]) Contains(p Point2[T]) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Corners returns the four corners starting at Min and going clockwise
// on a top-left origin: (min.x, min.y), (max.x, min.y), (max.x, max.y),
// (min.x, max.y).
func (r Rect[T]) Corners() [4]Point2[T] {
	return [4]Point2[T]{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Max.Y},
	}
}

// Translate returns r moved by (dx, dy).
func (r Rect[T]) Translate(dx, dy T) Rect[T] {
	return Rect[T]{Min: r.Min.Translate(dx, dy), Max: r.Max.Translate(dx, dy)}
}

// Scale returns r scaled by (sx, sy) about the origin. Negative factors
// mirror the rectangle; the result is normalized.
func (r Rect[T]) Scale(sx, sy T) Rect[T] {
	return RectFromPoints(r.Min.Scale(sx, sy), r.Max.Scale(sx, sy))
}

// Transform returns the rectangle spanned by Min and Max after
// transformation by m. Only the two corners are mapped, so
// r.Transform(m1).Transform(m2) equals r.Transform(m2.Mul(m1)) only while
// both transforms keep rectangles axis-aligned: translation, scaling,
// mirroring and quarter turns.
func (r Rect[T]) Transform(m Matrix4) Rect[T] {
	return RectFromPoints(r.Min.Transform(m), r.Max.Transform(m))
}

// Line is a segment from P1 to P2.
type Line[T Number] struct {
	P1, P2 Point2[T]
}

// NewLine returns the segment (x1, y1)-(x2, y2).
func NewLine[T Number](x1, y1, x2, y2 T) Line[T] {
	return Line[T]{P1: Pt(x1, y1), P2: Pt(x2, y2)}
}

// Length returns the length of the segment.
func (l Line[T]) Length() float64 {
	return l.P2.Sub(l.P1).Length()
}

// Direction returns the unit vector from P1 to P2, or (0, 0) for a
// degenerate segment.
func (l Line[T]) Direction() (float64, float64) {
	n := l.Length()
	if n == 0 {
		return 0, 0
	}
	d := l.P2.Sub(l.P1)
	return float64(d.X) / n, float64(d.Y) / n
}

// Translate returns l moved by (dx, dy).
func (l Line[T]) Translate(dx, dy T) Line[T] {
	return Line[T]{P1: l.P1.Translate(dx, dy), P2: l.P2.Translate(dx, dy)}
}

// Scale returns l scaled by (sx, sy) about the origin.
func (l Line[T]) Scale(sx, sy T) Line[T] {
	return Line[T]{P1: l.P1.Scale(sx, sy), P2: l.P2.Scale(sx, sy)}
}

// Transform returns l with both endpoints transformed by m.
func (l Line[T]) Transform(m Matrix4) Line[T] {
	return Line[T]{P1: l.P1.Transform(m), P2: l.P2.Transform(m)}
}
