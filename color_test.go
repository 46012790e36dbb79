package kit2d

import (
	"math"
	"testing"
)

func TestLinearizeBelowCutoff(t *testing.T) {
	for _, c := range []float32{0, 0.001, 0.01, 0.02, 0.04, 0.0404} {
		if got, want := Linearize(c), c/12.92; got != want {
			t.Errorf("Linearize(%v) = %v, want %v", c, got, want)
		}
	}
}

func TestLinearizeAboveCutoff(t *testing.T) {
	for _, c := range []float32{0.04045, 0.1, 0.5, 0.73, 1} {
		want := float32(math.Pow(float64((c+0.055)/1.055), 2.4))
		if got := Linearize(c); got != want {
			t.Errorf("Linearize(%v) = %v, want %v", c, got, want)
		}
	}
}

func TestRgbaToLinearPerChannel(t *testing.T) {
	c := Rgba{R: 0.02, G: 0.5, B: 0.9, A: 0.3}
	got := c.ToLinear()

	if got.R != Linearize(c.R) {
		t.Errorf("R = %v, want %v", got.R, Linearize(c.R))
	}
	if got.G != Linearize(c.G) {
		t.Errorf("G = %v, want %v", got.G, Linearize(c.G))
	}
	if got.B != Linearize(c.B) {
		t.Errorf("B = %v, want %v", got.B, Linearize(c.B))
	}
	if got.A != c.A {
		t.Errorf("A = %v, want alpha untouched %v", got.A, c.A)
	}
}

func TestRgba8ToLinear(t *testing.T) {
	tests := []struct {
		name string
		in   Rgba8
		want Rgba8
	}{
		{"black stays black", Black, Black},
		{"white stays white", White, White},
		{"mid gray darkens", Rgba8{128, 128, 128, 128}, Rgba8{55, 55, 55, 128}},
		{"alpha untouched", Rgba8{0, 0, 0, 7}, Rgba8{0, 0, 0, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.ToLinear(); got != tt.want {
				t.Errorf("ToLinear(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRgba8ToLinearMatchesFloat(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := uint8(i)
		got := Rgba8{R: b, A: 255}.ToLinear().R
		want := Rgba{R: float32(i) / 255, A: 1}.ToLinear().ToRgba8().R
		if got != want {
			t.Errorf("channel %d: table %d, float path %d", i, got, want)
		}
	}
}

func TestDefaultColorIsOpaqueWhite(t *testing.T) {
	if DefaultColor != (Rgba8{255, 255, 255, 255}) {
		t.Errorf("DefaultColor = %v, want opaque white", DefaultColor)
	}
}

func TestPackRoundTrip(t *testing.T) {
	c := Rgba8{R: 0x11, G: 0x22, B: 0x33, A: 0x44}
	if got := c.Pack(); got != 0x44332211 {
		t.Errorf("Rgba8.Pack() = %#08x, want 0x44332211", got)
	}
	if got := Rgba8FromUint32(c.Pack()); got != c {
		t.Errorf("Rgba8FromUint32(Pack()) = %v, want %v", got, c)
	}

	b := c.BGRA()
	if got := b.Pack(); got != 0x44112233 {
		t.Errorf("Bgra8.Pack() = %#08x, want 0x44112233", got)
	}
	if got := Bgra8FromUint32(b.Pack()); got != b {
		t.Errorf("Bgra8FromUint32(Pack()) = %v, want %v", got, b)
	}
}

func TestBGRASwapKeepsValues(t *testing.T) {
	c := Rgba8{R: 10, G: 20, B: 30, A: 40}
	b := c.BGRA()
	if b.R != c.R || b.G != c.G || b.B != c.B || b.A != c.A {
		t.Errorf("BGRA() changed channel values: %v -> %v", c, b)
	}
	if got := b.RGBA(); got != c {
		t.Errorf("RGBA(BGRA()) = %v, want %v", got, c)
	}
	if got := b.ToLinear().RGBA(); got != c.ToLinear() {
		t.Errorf("Bgra8.ToLinear() = %v, want %v", got, c.ToLinear())
	}
}

func TestRgbaToRgba8(t *testing.T) {
	tests := []struct {
		in   Rgba
		want Rgba8
	}{
		{Rgba{1, 1, 1, 1}, White},
		{Rgba{0, 0, 0, 0}, Transparent},
		{Rgba{0.5, 0.5, 0.5, 1}, Rgba8{128, 128, 128, 255}},
		{Rgba{-1, 2, 0.2, 1}, Rgba8{0, 255, 51, 255}},
	}
	for _, tt := range tests {
		if got := tt.in.ToRgba8(); got != tt.want {
			t.Errorf("%v.ToRgba8() = %v, want %v", tt.in, got, tt.want)
		}
	}
}
