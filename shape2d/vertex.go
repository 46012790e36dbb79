// Package shape2d builds vertex streams of solid colored shapes.
//
// Shapes are emitted as indexed quads and triangle fans. Each vertex
// carries its rotation angle and center; the shape pipeline applies the
// rotation in its vertex stage, so a rotated rectangle costs no more CPU
// work than an axis-aligned one.
package shape2d

import "github.com/gogpu/kit2d"

// Vertex is one vertex in [kit2d.Shape3DLayout]:
//
//	position (vec3<f32>)      = 12 bytes (location 0)
//	angle    (f32)            =  4 bytes (location 1)
//	center   (vec2<f32>)      =  8 bytes (location 2)
//	color    (vec4 unorm8x4)  =  4 bytes (location 3)
//
// Total = 28 bytes per vertex.
type Vertex struct {
	Position [3]float32
	Angle    float32
	Center   [2]float32
	Color    kit2d.Rgba8
}

// Vertex2D is one vertex in [kit2d.Shape2DLayout]: [Vertex] without depth.
// Total = 24 bytes per vertex.
type Vertex2D struct {
	Position [2]float32
	Angle    float32
	Center   [2]float32
	Color    kit2d.Rgba8
}

// Flat drops the depth component.
func (v Vertex) Flat() Vertex2D {
	return Vertex2D{
		Position: [2]float32{v.Position[0], v.Position[1]},
		Angle:    v.Angle,
		Center:   v.Center,
		Color:    v.Color,
	}
}

// Rotation rotates a shape by Angle radians about Center.
// The zero value means no rotation.
type Rotation struct {
	Angle  float32
	Center kit2d.Point2[float32]
}

// Rotate returns a rotation of angle radians about center.
func Rotate(angle float32, center kit2d.Point2[float32]) Rotation {
	return Rotation{Angle: angle, Center: center}
}

// Stroke outlines a shape. A zero width draws no outline.
type Stroke struct {
	Width float32
	Color kit2d.Rgba8
}

// NewStroke returns a stroke of the given width and color.
func NewStroke(width float32, color kit2d.Rgba8) Stroke {
	return Stroke{Width: width, Color: color}
}

// Fill paints a shape's interior when Solid is set.
type Fill struct {
	Solid bool
	Color kit2d.Rgba8
}

// Solid returns a solid fill.
func Solid(color kit2d.Rgba8) Fill {
	return Fill{Solid: true, Color: color}
}
