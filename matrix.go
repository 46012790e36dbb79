package kit2d

import (
	"math"

	"golang.org/x/image/math/f32"
)

// Matrix4 is a 4x4 float32 matrix in row-major order, m[row*4+col].
// Points are column vectors, so a.Mul(b) applies b first and a second.
type Matrix4 f32.Mat4

// Identity returns the identity matrix.
func Identity() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a matrix translating by (x, y, z).
func Translation(x, y, z float32) Matrix4 {
	return Matrix4{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	}
}

// Scaling returns a matrix scaling by (x, y, z) about the origin.
func Scaling(x, y, z float32) Matrix4 {
	return Matrix4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// RotationZ returns a counter-clockwise rotation about the Z axis, in radians.
// With a top-left origin the rotation appears clockwise on screen.
func RotationZ(angle float32) Matrix4 {
	s, c := math.Sincos(float64(angle))
	sin, cos := float32(s), float32(c)
	return Matrix4{
		cos, -sin, 0, 0,
		sin, cos, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Ortho returns the projection from pixel space to clip space for a
// target of w by h pixels. X spans [0, w]; Y spans [0, h] growing down
// for [TopLeft] and up for [BottomLeft]. Z in [0, 1] is passed through
// unchanged so that ZDepth maps directly onto the depth buffer.
func Ortho(w, h float32, origin Origin) Matrix4 {
	m := Matrix4{
		2 / w, 0, 0, -1,
		0, -2 / h, 0, 1,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	if origin == BottomLeft {
		m[5], m[7] = 2/h, -1
	}
	return m
}

// Mul returns m*n.
func (m Matrix4) Mul(n Matrix4) Matrix4 {
	var r Matrix4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * n[k*4+col]
			}
			r[row*4+col] = sum
		}
	}
	return r
}

// Apply transforms the point (x, y, z, 1). The result is divided by w when
// the matrix is projective.
func (m Matrix4) Apply(x, y, z float32) (float32, float32, float32) {
	rx := m[0]*x + m[1]*y + m[2]*z + m[3]
	ry := m[4]*x + m[5]*y + m[6]*z + m[7]
	rz := m[8]*x + m[9]*y + m[10]*z + m[11]
	w := m[12]*x + m[13]*y + m[14]*z + m[15]
	if w != 1 && w != 0 {
		rx, ry, rz = rx/w, ry/w, rz/w
	}
	return rx, ry, rz
}

// IsIdentity reports whether m is exactly the identity matrix.
func (m Matrix4) IsIdentity() bool {
	return m == Identity()
}

// ColumnMajor returns the matrix in the column-major order WGSL expects
// for mat4x4<f32>.
func (m Matrix4) ColumnMajor() [16]float32 {
	var out [16]float32
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[col*4+row] = m[row*4+col]
		}
	}
	return out
}

// Transform is a model transform handle. Transform buffers deduplicate by
// the handle's address, so share one *Transform between every draw that
// uses the same model matrix.
type Transform struct {
	Matrix Matrix4
}

// NewTransform returns a handle holding m.
func NewTransform(m Matrix4) *Transform {
	return &Transform{Matrix: m}
}

// IdentityTransform returns a new handle holding the identity matrix.
func IdentityTransform() *Transform {
	return &Transform{Matrix: Identity()}
}
