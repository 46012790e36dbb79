// Command kit2ddemo renders a few frames of batched shapes and animated
// sprites offscreen, runs a tinting post pass and saves the result.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gogpu/kit2d"
	"github.com/gogpu/kit2d/render"
	"github.com/gogpu/kit2d/shape2d"
	"github.com/gogpu/kit2d/sprite2d"
)

const tile = 16

func main() {
	var (
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		frames  = flag.Int("frames", 8, "frames to render")
		config  = flag.String("config", "", "renderer config (TOML)")
		backend = flag.String("backend", "", "override the config backend (vulkan, noop)")
		output  = flag.String("output", "demo.png", "output file, empty to skip")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "kit2ddemo",
	})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}
	l := slog.New(logger)
	kit2d.SetLogger(l)
	slog.SetDefault(l)

	if err := run(*config, *backend, uint32(*width), uint32(*height), *frames, *output); err != nil { //nolint:gosec // flag sizes
		logger.Fatal("demo failed", "err", err)
	}
}

func run(configPath, backend string, w, h uint32, frames int, output string) error {
	cfg := render.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = render.LoadConfig(configPath); err != nil {
			return err
		}
	}
	if backend != "" {
		cfg.Backend = backend
	}

	r, err := render.Open(cfg)
	if err != nil {
		return err
	}
	defer r.Destroy()

	scene, err := r.NewCanvas(w, h, render.WithLabel("scene"))
	if err != nil {
		return err
	}
	defer scene.Destroy()
	screen, err := r.NewCanvas(w, h, render.WithLabel("screen"))
	if err != nil {
		return err
	}
	defer screen.Destroy()

	atlas, err := r.CreateTexture(4*tile, tile, checker(4, tile), render.WithNearest(), render.WithLabel("atlas"))
	if err != nil {
		return err
	}
	defer atlas.Destroy()

	shapes, err := r.ShapePipeline(true)
	if err != nil {
		return err
	}
	sprites, err := r.SpritePipeline(true, r.Origin())
	if err != nil {
		return err
	}

	// The background never changes, so it is uploaded once.
	background, err := r.Upload(backgroundShapes(float32(w), float32(h), cfg.Linear))
	if err != nil {
		return err
	}
	defer background.Destroy()

	anim := kit2d.NewAnimation(atlasFrames(4), 100*time.Millisecond)
	spin := kit2d.NewTransform(kit2d.Identity())
	const dt = 50 * time.Millisecond

	for i := range frames {
		anim.Step(dt)
		angle := float32(i) * math.Pi / 16
		spin.Matrix = kit2d.Translation(float32(w)/2, float32(h)/2, 0).Mul(kit2d.RotationZ(angle))

		f := r.BeginFrame(scene.View(), w, h)
		sb := sprite2d.NewBatch(4*tile, tile)
		for j := range 8 {
			x := float32(j) * 4 * tile
			sb.PushFrame(anim, kit2d.NewRect(x, 0, x+3*tile, 3*tile), 0.2, kit2d.Transparent, 1)
		}
		spriteData, _ := sb.Finalize()
		spriteBuf, err := f.Upload(spriteData)
		if err != nil {
			return err
		}
		spinBuf, err := f.Upload(spinner(cfg.Linear))
		if err != nil {
			return err
		}

		err = f.Pass(
			render.Clear{Color: kit2d.RGB8(16, 16, 24)},
			render.DrawBatch{Pipeline: shapes, Buffer: background},
			render.DrawBatch{Pipeline: shapes, Buffer: spinBuf, Transform: spin},
			render.DrawBatch{Pipeline: sprites, Buffer: spriteBuf, Texture: atlas},
		)
		if err != nil {
			return err
		}
		if err := f.Submit(); err != nil {
			return err
		}
		s := f.SubmittedStats()
		slog.Debug("frame", "n", i, "draws", s.Draws, "elements", s.Elements, "animation", anim.State())
	}

	post := r.BeginFrame(screen.View(), w, h)
	if err := post.Pass(render.Clear{}, render.DrawPost{Texture: scene, Color: kit2d.Rgba8{R: 255, G: 160, B: 64, A: 48}}); err != nil {
		return err
	}
	if err := post.Submit(); err != nil {
		return err
	}

	if output == "" {
		return nil
	}
	img, err := screen.Image()
	if err != nil {
		return err
	}
	file, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode %s: %w", output, err)
	}
	if err := file.Close(); err != nil {
		return err
	}
	slog.Info("saved", "file", output, "width", w, "height", h, "frames", frames)
	return nil
}

func batchOptions(linear bool) []shape2d.Option {
	if linear {
		return []shape2d.Option{shape2d.WithLinearColor()}
	}
	return nil
}

// backgroundShapes draws a band of rectangles behind everything else.
func backgroundShapes(w, h float32, linear bool) kit2d.VertexData {
	b := shape2d.NewBatch(batchOptions(linear)...)
	const bands = 12
	for i := range bands {
		t := float32(i) / bands
		c := kit2d.NewRgba(0.1+t*0.3, 0.2+t*0.2, 0.4, 1).ToRgba8()
		y := h * t
		b.AddRect(kit2d.NewRect(0, y, w, y+h/bands+1), 0.9, shape2d.Rotation{}, c)
	}
	b.Add(shape2d.Circle{
		Center: kit2d.Pt(w*0.8, h*0.3),
		Radius: h / 6,
		Fill:   shape2d.Solid(kit2d.RGB8(255, 200, 64)),
		Stroke: shape2d.NewStroke(4, kit2d.White),
	})
	data, _ := b.Finalize()
	return data
}

// spinner draws shapes around the origin for the rotating model transform.
func spinner(linear bool) kit2d.VertexData {
	b := shape2d.NewBatch(batchOptions(linear)...)
	b.Add(shape2d.Rectangle{
		Rect:   kit2d.NewRect[float32](-60, -60, 60, 60),
		Fill:   shape2d.Solid(kit2d.RGB8(200, 64, 96)),
		Stroke: shape2d.NewStroke(3, kit2d.White),
	})
	b.AddLine(kit2d.Pt[float32](-90, 0), kit2d.Pt[float32](90, 0), kit2d.Green, 4)
	b.AddRect(kit2d.NewRect[float32](-20, -20, 20, 20), 0.5, shape2d.Rotate(math.Pi/4, kit2d.Pt[float32](0, 0)), kit2d.Blue)
	data, _ := b.Finalize()
	return data
}

// checker returns n tiles of a size by size checker pattern side by side,
// each tile a different hue.
func checker(n, size int) []byte {
	w := n * size
	pix := make([]byte, w*size*4)
	for y := range size {
		for x := range w {
			c := kit2d.RGB8(uint8(60*(x/size+1)), 96, uint8(255-60*(x/size))) //nolint:gosec // n <= 4
			if (x/4+y/4)%2 == 0 {
				c = kit2d.White
			}
			o := (y*w + x) * 4
			pix[o], pix[o+1], pix[o+2], pix[o+3] = c.R, c.G, c.B, c.A
		}
	}
	return pix
}

func atlasFrames(n int) []kit2d.Rect[float32] {
	frames := make([]kit2d.Rect[float32], n)
	for i := range frames {
		x := float32(i * tile)
		frames[i] = kit2d.NewRect(x, 0, x+tile, tile)
	}
	return frames
}
