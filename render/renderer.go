// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/kit2d"
	"github.com/gogpu/kit2d/internal/gpu"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// DeviceHandle provides a GPU device owned by a host application, such as
// a gogpu window. It must also expose HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue.
type DeviceHandle = gpucontext.DeviceProvider

// Renderer owns the GPU objects shared by every frame: bind group layouts,
// lazily created pipelines, the transform buffer and the depth attachment.
//
// Pipeline getters are safe for concurrent use. Frames are not: build and
// submit one frame at a time.
type Renderer struct {
	cfg    Config
	pcfg   gpu.PipelineConfig
	origin kit2d.Origin

	device   hal.Device
	queue    hal.Queue
	instance hal.Instance // set when Open created the device
	owned    bool

	layouts     *gpu.Layouts
	transforms  *gpu.TransformBuffer
	attachments gpu.Attachments

	mu        sync.Mutex
	shapes    [2]*gpu.ShapePipeline     // [depth]
	sprites   [2][2]*gpu.SpritePipeline // [depth][origin]
	post      *gpu.PostPipeline
	textured  *gpu.TexturedPipeline
	destroyed bool
}

// instanceFactory is satisfied by HAL backends.
type instanceFactory interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// Open creates a device on the configured backend and adapter and returns a
// renderer owning it. When no adapter qualifies the error wraps
// kit2d.ErrNoAdapter.
func Open(cfg Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var backend instanceFactory
	switch cfg.Backend {
	case BackendNoop:
		backend = &noop.API{}
	default:
		b, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, fmt.Errorf("%w: vulkan backend not available", kit2d.ErrNoAdapter)
		}
		backend = b
	}

	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", kit2d.ErrNoAdapter, err)
	}

	adapters := instance.EnumerateAdapters(nil)
	selected := selectAdapter(adapters, cfg.Adapter, cfg.Backend == BackendNoop)
	if selected == nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: %d adapters, none %s", kit2d.ErrNoAdapter, len(adapters), cfg.Adapter)
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("kit2d: open device: %w", err)
	}

	r, err := New(openDev.Device, openDev.Queue, cfg)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	r.instance = instance
	r.owned = true
	kit2d.Logger().Info("kit2d: renderer opened",
		"backend", cfg.Backend, "adapter", selected.Info.Name, "type", selected.Info.DeviceType)
	return r, nil
}

// selectAdapter picks the preferred adapter type, falling back to the
// other GPU type. Other adapters are only taken with fallback set or when
// any adapter is acceptable.
func selectAdapter(adapters []hal.ExposedAdapter, pref string, fallback bool) *hal.ExposedAdapter {
	order := []gputypes.DeviceType{gputypes.DeviceTypeDiscreteGPU, gputypes.DeviceTypeIntegratedGPU}
	if pref == AdapterIntegrated {
		order[0], order[1] = order[1], order[0]
	}
	for _, want := range order {
		for i := range adapters {
			if adapters[i].Info.DeviceType == want {
				return &adapters[i]
			}
		}
	}
	if (fallback || pref == AdapterAny) && len(adapters) > 0 {
		return &adapters[0]
	}
	return nil
}

// New returns a renderer drawing with a device the caller owns. Destroy
// releases the renderer's objects but not the device.
func New(device hal.Device, queue hal.Queue, cfg Config) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("%w: nil device or queue", kit2d.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	origin, _ := cfg.origin()

	layouts, err := gpu.NewLayouts(device)
	if err != nil {
		return nil, fmt.Errorf("kit2d: %w", err)
	}
	return &Renderer{
		cfg:        cfg,
		pcfg:       cfg.pipelineConfig(),
		origin:     origin,
		device:     device,
		queue:      queue,
		layouts:    layouts,
		transforms: gpu.NewTransformBuffer(cfg.InitialTransforms, cfg.MaxTransforms),
	}, nil
}

// NewFromProvider returns a renderer drawing with the host's device. When
// the host reports a surface format it overrides cfg.ColorFormat.
func NewFromProvider(provider DeviceHandle, cfg Config) (*Renderer, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: provider does not expose HAL types", kit2d.ErrInvalidConfig)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", kit2d.ErrInvalidConfig)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", kit2d.ErrInvalidConfig)
	}

	r, err := New(device, queue, cfg)
	if err != nil {
		return nil, err
	}
	if f := provider.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		r.pcfg.ColorFormat = f
	}
	return r, nil
}

// Config returns the configuration the renderer was created with.
func (r *Renderer) Config() Config { return r.cfg }

// ColorFormat returns the format frame targets must have.
func (r *Renderer) ColorFormat() gputypes.TextureFormat { return r.pcfg.ColorFormat }

// Origin returns the world origin of frames.
func (r *Renderer) Origin() kit2d.Origin { return r.origin }

// ShapePipeline returns the shape pipeline, creating it on first use. With
// depth it draws kit2d.Shape3DLayout batches with depth testing, otherwise
// kit2d.Shape2DLayout batches in submission order.
func (r *Renderer) ShapePipeline(depth bool) (Pipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil, kit2d.ErrRendererDestroyed
	}
	i := boolIndex(depth)
	if r.shapes[i] == nil {
		p, err := gpu.NewShapePipeline(r.device, r.layouts, r.pcfg, depth)
		if err != nil {
			return nil, fmt.Errorf("kit2d: %w", err)
		}
		r.shapes[i] = p
	}
	return r.shapes[i], nil
}

// SpritePipeline returns the sprite pipeline for a layout and texture
// origin, creating it on first use.
func (r *Renderer) SpritePipeline(depth bool, origin kit2d.Origin) (Pipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil, kit2d.ErrRendererDestroyed
	}
	d, o := boolIndex(depth), boolIndex(origin == kit2d.BottomLeft)
	if r.sprites[d][o] == nil {
		p, err := gpu.NewSpritePipeline(r.device, r.layouts, r.pcfg, depth, origin)
		if err != nil {
			return nil, fmt.Errorf("kit2d: %w", err)
		}
		r.sprites[d][o] = p
	}
	return r.sprites[d][o], nil
}

// TexturedPipeline returns the textured pipeline, creating it on first use.
func (r *Renderer) TexturedPipeline() (Pipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil, kit2d.ErrRendererDestroyed
	}
	if r.textured == nil {
		p, err := gpu.NewTexturedPipeline(r.device, r.layouts, r.pcfg)
		if err != nil {
			return nil, fmt.Errorf("kit2d: %w", err)
		}
		r.textured = p
	}
	return r.textured, nil
}

// PostPipeline returns the post-process pipeline, creating it on first use.
func (r *Renderer) PostPipeline() (Pipeline, error) {
	p, err := r.postPipeline()
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Renderer) postPipeline() (*gpu.PostPipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil, kit2d.ErrRendererDestroyed
	}
	if r.post == nil {
		p, err := gpu.NewPostPipeline(r.device, r.queue, r.layouts, r.pcfg)
		if err != nil {
			return nil, fmt.Errorf("kit2d: %w", err)
		}
		r.post = p
	}
	return r.post, nil
}

func boolIndex(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (r *Renderer) isDestroyed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.destroyed
}

// Upload copies finalized batch data to the GPU. The buffer lives until
// Destroy, across any number of frames.
func (r *Renderer) Upload(data kit2d.VertexData) (*VertexBuffer, error) {
	if r.isDestroyed() {
		return nil, kit2d.ErrRendererDestroyed
	}
	vb, err := gpu.UploadVertexData(r.device, r.queue, data, "kit2d_"+data.Layout.Name)
	if err != nil {
		return nil, fmt.Errorf("kit2d: %w", err)
	}
	return &VertexBuffer{vb: vb, device: r.device}, nil
}

// CreateTexture creates a w by h texture from tightly packed RGBA texels,
// top row first. With Config.Linear the texture is sRGB so sampling
// returns linear values.
func (r *Renderer) CreateTexture(w, h uint32, rgba []byte, opts ...TextureOption) (*Texture, error) {
	return r.newTexture(gpu.TextureDesc{
		Label:  "kit2d_texture",
		Width:  w,
		Height: h,
		Format: r.cfg.textureFormat(),
	}, rgba, opts)
}

// NewCanvas creates an offscreen w by h target in the renderer's color
// format. Frames can render into it and later passes can sample it.
func (r *Renderer) NewCanvas(w, h uint32, opts ...TextureOption) (*Texture, error) {
	return r.newTexture(gpu.TextureDesc{
		Label:        "kit2d_canvas",
		Width:        w,
		Height:       h,
		Format:       r.pcfg.ColorFormat,
		RenderTarget: true,
	}, nil, opts)
}

func (r *Renderer) newTexture(desc gpu.TextureDesc, rgba []byte, opts []TextureOption) (*Texture, error) {
	if r.isDestroyed() {
		return nil, kit2d.ErrRendererDestroyed
	}
	for _, opt := range opts {
		opt(&desc)
	}
	t, err := gpu.NewTexture(r.device, r.queue, r.layouts, desc, rgba)
	if err != nil {
		return nil, fmt.Errorf("kit2d: %w", err)
	}
	return &Texture{t: t, device: r.device, queue: r.queue}, nil
}

// Destroy releases every object the renderer created, and the device if
// Open created it. Buffers and textures the caller created must be
// destroyed first. Safe to call more than once.
func (r *Renderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return
	}
	r.destroyed = true

	if r.post != nil {
		r.post.Destroy()
		r.post = nil
	}
	if r.textured != nil {
		r.textured.Destroy()
		r.textured = nil
	}
	for d := range r.sprites {
		for o := range r.sprites[d] {
			if r.sprites[d][o] != nil {
				r.sprites[d][o].Destroy()
				r.sprites[d][o] = nil
			}
		}
	}
	for i := range r.shapes {
		if r.shapes[i] != nil {
			r.shapes[i].Destroy()
			r.shapes[i] = nil
		}
	}
	r.attachments.Destroy(r.device)
	r.transforms.Destroy(r.device)
	r.layouts.Destroy(r.device)

	if r.owned {
		r.device.Destroy()
		if r.instance != nil {
			r.instance.Destroy()
			r.instance = nil
		}
	}
	kit2d.Logger().Debug("kit2d: renderer destroyed")
}
