package kit2d

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Number is the coordinate type of the geometry primitives.
type Number interface {
	constraints.Integer | constraints.Float
}

// Point2 is a 2D point.
type Point2[T Number] struct {
	X, Y T
}

// Pt returns the point (x, y).
func Pt[T Number](x, y T) Point2[T] {
	return Point2[T]{X: x, Y: y}
}

// Add returns p+q.
func (p Point2[T]) Add(q Point2[T]) Point2[T] {
	return Point2[T]{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point2[T]) Sub(q Point2[T]) Point2[T] {
	return Point2[T]{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns p scaled by s.
func (p Point2[T]) Mul(s T) Point2[T] {
	return Point2[T]{X: p.X * s, Y: p.Y * s}
}

// Translate returns p moved by (dx, dy).
func (p Point2[T]) Translate(dx, dy T) Point2[T] {
	return Point2[T]{X: p.X + dx, Y: p.Y + dy}
}

// Scale returns p scaled by (sx, sy) about the origin.
func (p Point2[T]) Scale(sx, sy T) Point2[T] {
	return Point2[T]{X: p.X * sx, Y: p.Y * sy}
}

// Length returns the distance from the origin.
func (p Point2[T]) Length() float64 {
	return math.Hypot(float64(p.X), float64(p.Y))
}

// Transform returns p transformed by m with z = 0.
func (p Point2[T]) Transform(m Matrix4) Point2[T] {
	x, y, _ := m.Apply(float32(p.X), float32(p.Y), 0)
	return Point2[T]{X: T(x), Y: T(y)}
}
