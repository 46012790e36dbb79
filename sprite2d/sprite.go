// Package sprite2d builds vertex streams of textured quads cut from a
// texture atlas.
//
// Texture coordinates are emitted as source pixel position divided by atlas
// size, so v grows with the source rectangle's Y. Which way Y points in the
// atlas is a property of the sprite pipeline the batch is drawn with:
// top-left pipelines sample v as emitted, bottom-left pipelines sample 1-v.
// Measure source rectangles in the same convention as the pipeline.
package sprite2d

import (
	"fmt"

	"github.com/gogpu/kit2d"
)

// Vertex is one vertex in [kit2d.SpriteDepthLayout]:
//
//	position (vec3<f32>)     = 12 bytes (location 0)
//	uv       (vec2<f32>)     =  8 bytes (location 1)
//	color    (vec4 unorm8x4) =  4 bytes (location 2)
//	opacity  (f32)           =  4 bytes (location 3)
//
// Total = 28 bytes per vertex.
type Vertex struct {
	Position [3]float32
	UV       [2]float32
	Color    kit2d.Rgba8
	Opacity  float32
}

// Vertex2D is one vertex in [kit2d.SpriteLayout]. It has no depth and no
// opacity. Total = 20 bytes per vertex.
type Vertex2D struct {
	Position [2]float32
	UV       [2]float32
	Color    kit2d.Rgba8
}

// Flat drops depth and opacity.
func (v Vertex) Flat() Vertex2D {
	return Vertex2D{
		Position: [2]float32{v.Position[0], v.Position[1]},
		UV:       v.UV,
		Color:    v.Color,
	}
}

// Sprite is one textured quad.
//
// Color tints the texture: the sprite pipeline mixes the texel toward
// Color.RGB by Color.A, so a transparent Color leaves the texture as is.
// Opacity scales the final alpha; the zero value draws nothing, so build
// sprites with [NewSprite] unless the fields are all set.
type Sprite struct {
	// Src is the source rectangle in atlas pixels.
	Src kit2d.Rect[float32]
	// Dst is the destination rectangle in world units.
	Dst     kit2d.Rect[float32]
	ZDepth  kit2d.ZDepth
	Color   kit2d.Rgba8
	Opacity float32
	// Repeat tiles the texture across Dst. Anything other than one
	// repetition requires Src to cover the whole atlas.
	Repeat kit2d.Repeat
}

// NewSprite returns an untinted, fully opaque sprite.
func NewSprite(src, dst kit2d.Rect[float32]) Sprite {
	return Sprite{
		Src:     src,
		Dst:     dst,
		Color:   kit2d.Transparent,
		Opacity: 1,
		Repeat:  kit2d.NoRepeat,
	}
}

// uv returns the texture coordinates of s in an atlas of w by h pixels.
func (s Sprite) uv(w, h float32) (u1, v1, u2, v2 float32) {
	rep := s.Repeat.Normalized()
	if !rep.IsDefault() && s.Src != kit2d.NewRect(0, 0, w, h) {
		panic(fmt.Sprintf("sprite2d: repeat %v requires the source to cover the whole %vx%v texture, got %v",
			rep, w, h, s.Src))
	}
	return s.Src.Min.X / w, s.Src.Min.Y / h, s.Src.Max.X / w * rep.X, s.Src.Max.Y / h * rep.Y
}
