package kit2d

import "math"

// Rgba is a color with float components in the range [0, 1].
type Rgba struct {
	R, G, B, A float32
}

// Rgba8 is an 8-bit color stored in R, G, B, A byte order.
// It is the color attribute of every vertex layout (unorm8x4).
type Rgba8 struct {
	R, G, B, A uint8
}

// Bgra8 is an 8-bit color stored in B, G, R, A byte order, matching
// BGRA8 surface and texture formats.
type Bgra8 struct {
	B, G, R, A uint8
}

// Common colors.
var (
	White       = Rgba8{R: 255, G: 255, B: 255, A: 255}
	Black       = Rgba8{A: 255}
	Red         = Rgba8{R: 255, A: 255}
	Green       = Rgba8{G: 255, A: 255}
	Blue        = Rgba8{B: 255, A: 255}
	Transparent = Rgba8{}
)

// DefaultColor is the color used when none is given: opaque white.
var DefaultColor = White

// NewRgba returns a float color.
func NewRgba(r, g, b, a float32) Rgba {
	return Rgba{R: r, G: g, B: b, A: a}
}

// RGB8 returns an opaque 8-bit color.
func RGB8(r, g, b uint8) Rgba8 {
	return Rgba8{R: r, G: g, B: b, A: 255}
}

// Linearize maps one sRGB encoded channel in [0, 1] to linear light.
func Linearize(c float32) float32 {
	if c < 0.04045 {
		return c / 12.92
	}
	return float32(math.Pow(float64((c+0.055)/1.055), 2.4))
}

// linearTable maps an sRGB byte to its linearized byte.
var linearTable [256]uint8

func init() {
	for i := range linearTable {
		l := Linearize(float32(i) / 255)
		linearTable[i] = uint8(math.Round(float64(l) * 255)) //nolint:gosec // l is in [0,1]
	}
}

// ToLinear converts the RGB channels to linear light. Alpha is unchanged.
// Apply it once, when a color enters a batch.
func (c Rgba) ToLinear() Rgba {
	return Rgba{R: Linearize(c.R), G: Linearize(c.G), B: Linearize(c.B), A: c.A}
}

// ToRgba8 quantizes the color, rounding each channel to the nearest byte.
func (c Rgba) ToRgba8() Rgba8 {
	return Rgba8{R: unitToByte(c.R), G: unitToByte(c.G), B: unitToByte(c.B), A: unitToByte(c.A)}
}

// Premultiplied returns the color with RGB multiplied by alpha.
func (c Rgba) Premultiplied() Rgba {
	return Rgba{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// ToLinear converts the RGB channels to linear light using a lookup table.
// Alpha is unchanged.
func (c Rgba8) ToLinear() Rgba8 {
	return Rgba8{R: linearTable[c.R], G: linearTable[c.G], B: linearTable[c.B], A: c.A}
}

// ToRgba expands the color to float components.
func (c Rgba8) ToRgba() Rgba {
	return Rgba{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}

// WithAlpha returns c with its alpha channel replaced.
func (c Rgba8) WithAlpha(a uint8) Rgba8 {
	c.A = a
	return c
}

// BGRA reorders the bytes for a BGRA target. Channel values are unchanged.
func (c Rgba8) BGRA() Bgra8 {
	return Bgra8{B: c.B, G: c.G, R: c.R, A: c.A}
}

// Pack returns the color as a uint32 with R in the lowest byte, which is
// the in-memory order on little-endian targets.
func (c Rgba8) Pack() uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(c.A)<<24
}

// Rgba8FromUint32 unpacks a value produced by [Rgba8.Pack].
func Rgba8FromUint32(v uint32) Rgba8 {
	return Rgba8{R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16), A: uint8(v >> 24)}
}

// RGBA reorders the bytes back to RGBA order.
func (c Bgra8) RGBA() Rgba8 {
	return Rgba8{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Pack returns the color as a uint32 with B in the lowest byte.
func (c Bgra8) Pack() uint32 {
	return uint32(c.B) | uint32(c.G)<<8 | uint32(c.R)<<16 | uint32(c.A)<<24
}

// Bgra8FromUint32 unpacks a value produced by [Bgra8.Pack].
func Bgra8FromUint32(v uint32) Bgra8 {
	return Bgra8{B: uint8(v), G: uint8(v >> 8), R: uint8(v >> 16), A: uint8(v >> 24)}
}

// ToLinear converts the RGB channels to linear light. Alpha is unchanged.
func (c Bgra8) ToLinear() Bgra8 {
	return c.RGBA().ToLinear().BGRA()
}

func unitToByte(x float32) uint8 {
	v := math.Round(float64(x) * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
