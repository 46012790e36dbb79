package kit2d

// ZDepth is the depth of a primitive in [0, 1]. Zero is nearest and is the
// default; the depth buffer is cleared to 1.
type ZDepth float32

// ZeroDepth is the nearest depth.
const ZeroDepth ZDepth = 0

// FarDepth is the value the depth buffer is cleared to.
const FarDepth ZDepth = 1

// Repeat is the number of times a texture repeats across a sprite.
// The zero value is treated as (1, 1).
type Repeat struct {
	X, Y float32
}

// NoRepeat draws the texture once.
var NoRepeat = Repeat{X: 1, Y: 1}

// IsDefault reports whether r draws the texture exactly once.
func (r Repeat) IsDefault() bool {
	n := r.Normalized()
	return n.X == 1 && n.Y == 1
}

// Normalized returns r with zero components replaced by 1.
func (r Repeat) Normalized() Repeat {
	if r.X == 0 {
		r.X = 1
	}
	if r.Y == 0 {
		r.Y = 1
	}
	return r
}

// Origin selects where (0, 0) lies on the render target.
type Origin uint8

const (
	// TopLeft puts the origin in the top-left corner with Y growing down.
	TopLeft Origin = iota
	// BottomLeft puts the origin in the bottom-left corner with Y growing up.
	BottomLeft
)

// String returns the origin name.
func (o Origin) String() string {
	switch o {
	case TopLeft:
		return "top-left"
	case BottomLeft:
		return "bottom-left"
	default:
		return "unknown"
	}
}
