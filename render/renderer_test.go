// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/kit2d"
	"github.com/gogpu/kit2d/shape2d"
	"github.com/gogpu/wgpu/hal"
)

// newTestRenderer opens a renderer on the noop backend.
func newTestRenderer(t *testing.T, edit ...func(*Config)) *Renderer {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Backend = BackendNoop
	for _, e := range edit {
		e(&cfg)
	}
	r, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open(noop) failed: %v", err)
	}
	t.Cleanup(r.Destroy)
	return r
}

func TestOpenNoop(t *testing.T) {
	r := newTestRenderer(t)
	if r.ColorFormat() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("ColorFormat() = %v", r.ColorFormat())
	}
	if r.Origin() != kit2d.TopLeft {
		t.Errorf("Origin() = %v", r.Origin())
	}
}

func TestOpenInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SampleCount = 2
	if _, err := Open(cfg); !errors.Is(err, kit2d.ErrInvalidConfig) {
		t.Errorf("Open err = %v, want ErrInvalidConfig", err)
	}
}

func TestNewNilDevice(t *testing.T) {
	if _, err := New(nil, nil, DefaultConfig()); !errors.Is(err, kit2d.ErrInvalidConfig) {
		t.Errorf("New(nil) err = %v, want ErrInvalidConfig", err)
	}
}

func TestSelectAdapter(t *testing.T) {
	adapter := func(dt gputypes.DeviceType) hal.ExposedAdapter {
		var a hal.ExposedAdapter
		a.Info.DeviceType = dt
		return a
	}
	cpu := adapter(gputypes.DeviceType(255)) // neither GPU type
	integrated := adapter(gputypes.DeviceTypeIntegratedGPU)
	discrete := adapter(gputypes.DeviceTypeDiscreteGPU)

	tests := []struct {
		name     string
		adapters []hal.ExposedAdapter
		pref     string
		fallback bool
		want     gputypes.DeviceType
		none     bool
	}{
		{"discrete preferred", []hal.ExposedAdapter{integrated, discrete}, AdapterDiscrete, false, gputypes.DeviceTypeDiscreteGPU, false},
		{"integrated preferred", []hal.ExposedAdapter{discrete, integrated}, AdapterIntegrated, false, gputypes.DeviceTypeIntegratedGPU, false},
		{"falls back to integrated", []hal.ExposedAdapter{cpu, integrated}, AdapterDiscrete, false, gputypes.DeviceTypeIntegratedGPU, false},
		{"cpu rejected", []hal.ExposedAdapter{cpu}, AdapterDiscrete, false, 0, true},
		{"cpu accepted for any", []hal.ExposedAdapter{cpu}, AdapterAny, false, gputypes.DeviceType(255), false},
		{"cpu accepted with fallback", []hal.ExposedAdapter{cpu}, AdapterDiscrete, true, gputypes.DeviceType(255), false},
		{"no adapters", nil, AdapterAny, true, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectAdapter(tt.adapters, tt.pref, tt.fallback)
			if tt.none {
				if got != nil {
					t.Errorf("selected %v, want none", got.Info.DeviceType)
				}
				return
			}
			if got == nil || got.Info.DeviceType != tt.want {
				t.Errorf("selected %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPipelinesCached(t *testing.T) {
	r := newTestRenderer(t)

	a, err := r.ShapePipeline(true)
	if err != nil {
		t.Fatalf("ShapePipeline failed: %v", err)
	}
	b, _ := r.ShapePipeline(true)
	if a != b {
		t.Error("ShapePipeline(true) created a second pipeline")
	}
	flat, _ := r.ShapePipeline(false)
	if flat == a {
		t.Error("2D and depth shape pipelines are the same")
	}

	top, err := r.SpritePipeline(true, kit2d.TopLeft)
	if err != nil {
		t.Fatalf("SpritePipeline failed: %v", err)
	}
	bottom, _ := r.SpritePipeline(true, kit2d.BottomLeft)
	if top == bottom {
		t.Error("sprite pipelines for both origins are the same")
	}
	if _, err := r.TexturedPipeline(); err != nil {
		t.Errorf("TexturedPipeline failed: %v", err)
	}
	if _, err := r.PostPipeline(); err != nil {
		t.Errorf("PostPipeline failed: %v", err)
	}
}

func TestRendererDestroy(t *testing.T) {
	r := newTestRenderer(t)
	if _, err := r.ShapePipeline(false); err != nil {
		t.Fatal(err)
	}
	r.Destroy()
	r.Destroy()

	if _, err := r.ShapePipeline(false); !errors.Is(err, kit2d.ErrRendererDestroyed) {
		t.Errorf("ShapePipeline after Destroy: err = %v", err)
	}
	if _, err := r.Upload(kit2d.VertexData{}); !errors.Is(err, kit2d.ErrRendererDestroyed) {
		t.Errorf("Upload after Destroy: err = %v", err)
	}
	if err := r.BeginFrame(nil, 1, 1).Submit(); !errors.Is(err, kit2d.ErrRendererDestroyed) {
		t.Errorf("Submit after Destroy: err = %v", err)
	}
}

func TestUpload(t *testing.T) {
	r := newTestRenderer(t)
	b := shape2d.NewBatch()
	b.AddRect(kit2d.NewRect[float32](0, 0, 1, 1), 0, shape2d.Rotation{}, kit2d.White)
	data, n := b.Finalize()

	buf, err := r.Upload(data)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	defer buf.Destroy()
	if buf.ElementCount() != n || !buf.Layout().Matches(kit2d.Shape3DLayout) {
		t.Errorf("buffer: %d elements, layout %v", buf.ElementCount(), buf.Layout())
	}
}

func TestCreateTexture(t *testing.T) {
	r := newTestRenderer(t, func(c *Config) { c.Linear = true })

	tex, err := r.CreateTexture(2, 2, make([]byte, 16), WithRepeat(), WithNearest(), WithLabel("checker"))
	if err != nil {
		t.Fatalf("CreateTexture failed: %v", err)
	}
	defer tex.Destroy()
	if tex.Format() != gputypes.TextureFormatRGBA8UnormSrgb {
		t.Errorf("linear texture format = %v", tex.Format())
	}
	if tex.IsCanvas() {
		t.Error("sampled texture reports being a canvas")
	}
	if err := tex.Write(make([]byte, 16)); err != nil {
		t.Errorf("Write failed: %v", err)
	}
	if _, err := tex.ReadPixels(); err == nil {
		t.Error("ReadPixels of a sampled texture succeeded")
	}

	if _, err := r.CreateTexture(2, 2, make([]byte, 3)); err == nil {
		t.Error("CreateTexture accepted a short pixel slice")
	}
}

func TestCanvas(t *testing.T) {
	r := newTestRenderer(t)
	canvas, err := r.NewCanvas(16, 8)
	if err != nil {
		t.Fatalf("NewCanvas failed: %v", err)
	}
	defer canvas.Destroy()
	if !canvas.IsCanvas() || canvas.Format() != r.ColorFormat() {
		t.Errorf("canvas: IsCanvas %v format %v", canvas.IsCanvas(), canvas.Format())
	}
	img, err := canvas.Image()
	if err != nil {
		t.Fatalf("Image failed: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 8 || len(img.Pix) != 16*8*4 {
		t.Errorf("image bounds %v, %d bytes", img.Bounds(), len(img.Pix))
	}
}

// surfaceProvider is a host that reports a surface format but exposes no
// HAL objects.
type surfaceProvider struct {
	format gputypes.TextureFormat
}

func (surfaceProvider) Device() gpucontext.Device               { return nil }
func (surfaceProvider) Queue() gpucontext.Queue                 { return nil }
func (surfaceProvider) Adapter() gpucontext.Adapter             { return nil }
func (p surfaceProvider) SurfaceFormat() gputypes.TextureFormat { return p.format }

// halSurfaceProvider also exposes a HAL device and queue.
type halSurfaceProvider struct {
	surfaceProvider
	device hal.Device
	queue  hal.Queue
}

func (p halSurfaceProvider) HalDevice() any { return p.device }
func (p halSurfaceProvider) HalQueue() any  { return p.queue }

func TestNewFromProvider(t *testing.T) {
	if _, err := NewFromProvider(surfaceProvider{}, DefaultConfig()); !errors.Is(err, kit2d.ErrInvalidConfig) {
		t.Errorf("provider without HAL: err = %v, want ErrInvalidConfig", err)
	}

	host := newTestRenderer(t)
	provider := halSurfaceProvider{
		surfaceProvider: surfaceProvider{format: gputypes.TextureFormatRGBA8Unorm},
		device:          host.device,
		queue:           host.queue,
	}
	r, err := NewFromProvider(provider, DefaultConfig())
	if err != nil {
		t.Fatalf("NewFromProvider failed: %v", err)
	}
	defer r.Destroy()
	if r.ColorFormat() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("ColorFormat() = %v, want the surface format", r.ColorFormat())
	}
	if _, err := r.ShapePipeline(false); err != nil {
		t.Errorf("ShapePipeline failed: %v", err)
	}

	provider.device = nil
	if _, err := NewFromProvider(provider, DefaultConfig()); !errors.Is(err, kit2d.ErrInvalidConfig) {
		t.Errorf("nil HAL device: err = %v, want ErrInvalidConfig", err)
	}
}
