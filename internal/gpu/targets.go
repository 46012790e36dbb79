package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Attachments holds the depth/stencil texture and, when multisampling, the
// MSAA color texture a pass renders into before resolving to its target.
type Attachments struct {
	msaaTex   hal.Texture
	msaaView  hal.TextureView
	depthTex  hal.Texture
	depthView hal.TextureView
	width     uint32
	height    uint32
	samples   uint32
}

// Ensure creates or recreates the attachments when the size or sample
// count changed. Otherwise it is a no-op.
func (a *Attachments) Ensure(device hal.Device, cfg PipelineConfig, w, h uint32) error {
	samples := cfg.samples()
	if a.width == w && a.height == h && a.samples == samples && a.depthTex != nil {
		return nil
	}
	a.Destroy(device)

	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	if samples > 1 {
		msaaTex, err := device.CreateTexture(&hal.TextureDescriptor{
			Label:         "kit2d_msaa_color",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   samples,
			Dimension:     gputypes.TextureDimension2D,
			Format:        cfg.ColorFormat,
			Usage:         gputypes.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("create MSAA color texture: %w", err)
		}
		a.msaaTex = msaaTex

		msaaView, err := device.CreateTextureView(msaaTex, &hal.TextureViewDescriptor{
			Label: "kit2d_msaa_color_view",
		})
		if err != nil {
			a.Destroy(device)
			return fmt.Errorf("create MSAA color view: %w", err)
		}
		a.msaaView = msaaView
	}

	depthTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "kit2d_depth_stencil",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        cfg.DepthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		a.Destroy(device)
		return fmt.Errorf("create depth/stencil texture: %w", err)
	}
	a.depthTex = depthTex

	depthView, err := device.CreateTextureView(depthTex, &hal.TextureViewDescriptor{
		Label: "kit2d_depth_stencil_view",
	})
	if err != nil {
		a.Destroy(device)
		return fmt.Errorf("create depth/stencil view: %w", err)
	}
	a.depthView = depthView

	a.width, a.height, a.samples = w, h, samples
	slogger().Debug("attachments created", "width", w, "height", h, "samples", samples)
	return nil
}

// DepthView returns the depth/stencil view, or nil before Ensure.
func (a *Attachments) DepthView() hal.TextureView { return a.depthView }

// MSAAView returns the multisampled color view, or nil when single-sampled.
func (a *Attachments) MSAAView() hal.TextureView { return a.msaaView }

// Size returns the current attachment size.
func (a *Attachments) Size() (w, h uint32) { return a.width, a.height }

// Destroy releases all attachments. Safe to call more than once.
func (a *Attachments) Destroy(device hal.Device) {
	if a.depthView != nil {
		device.DestroyTextureView(a.depthView)
		a.depthView = nil
	}
	if a.depthTex != nil {
		device.DestroyTexture(a.depthTex)
		a.depthTex = nil
	}
	if a.msaaView != nil {
		device.DestroyTextureView(a.msaaView)
		a.msaaView = nil
	}
	if a.msaaTex != nil {
		device.DestroyTexture(a.msaaTex)
		a.msaaTex = nil
	}
	a.width, a.height, a.samples = 0, 0, 0
}

// TextureDesc describes a sampled texture.
type TextureDesc struct {
	Label  string
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat

	// Repeat selects a repeating sampler, needed by sprites that tile.
	Repeat bool
	// Nearest selects nearest filtering instead of linear.
	Nearest bool
	// RenderTarget makes the texture usable as a color attachment, so a
	// frame can render into it and a later pass can sample it.
	RenderTarget bool
}

// Texture is a sampled 2D texture with its view, sampler and texture bind
// group.
type Texture struct {
	desc      TextureDesc
	tex       hal.Texture
	view      hal.TextureView
	sampler   hal.Sampler
	bindGroup hal.BindGroup
}

// NewTexture creates a texture and, if pixels is non-nil, uploads it.
// Pixels are tightly packed 4-byte texels, row by row from the top.
func NewTexture(device hal.Device, queue hal.Queue, layouts *Layouts, desc TextureDesc, pixels []byte) (*Texture, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("create texture %q: empty size %dx%d", desc.Label, desc.Width, desc.Height)
	}
	if desc.Format == gputypes.TextureFormatUndefined {
		desc.Format = gputypes.TextureFormatRGBA8Unorm
	}
	t := &Texture{desc: desc}
	if err := t.create(device, layouts); err != nil {
		t.Destroy(device)
		return nil, err
	}
	if pixels != nil {
		if err := t.Write(queue, pixels); err != nil {
			t.Destroy(device)
			return nil, err
		}
	}
	return t, nil
}

func (t *Texture) create(device hal.Device, layouts *Layouts) error {
	usage := gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst
	if t.desc.RenderTarget {
		usage |= gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc
	}
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         t.desc.Label,
		Size:          hal.Extent3D{Width: t.desc.Width, Height: t.desc.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        t.desc.Format,
		Usage:         usage,
	})
	if err != nil {
		return fmt.Errorf("create texture %q: %w", t.desc.Label, err)
	}
	t.tex = tex

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         t.desc.Label + "_view",
		Format:        t.desc.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return fmt.Errorf("create texture view %q: %w", t.desc.Label, err)
	}
	t.view = view

	address := gputypes.AddressModeClampToEdge
	if t.desc.Repeat {
		address = gputypes.AddressModeRepeat
	}
	filter := gputypes.FilterModeLinear
	if t.desc.Nearest {
		filter = gputypes.FilterModeNearest
	}
	sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        t.desc.Label + "_sampler",
		AddressModeU: address,
		AddressModeV: address,
		AddressModeW: address,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: filter,
	})
	if err != nil {
		return fmt.Errorf("create sampler %q: %w", t.desc.Label, err)
	}
	t.sampler = sampler

	bindGroup, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  t.desc.Label + "_bind",
		Layout: layouts.Texture,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{
				TextureView: gputypes.TextureViewHandle(view.NativeHandle()),
			}},
			{Binding: 1, Resource: gputypes.SamplerBinding{
				Sampler: gputypes.SamplerHandle(sampler.NativeHandle()),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create texture bind group %q: %w", t.desc.Label, err)
	}
	t.bindGroup = bindGroup
	return nil
}

// Write replaces the texture contents.
func (t *Texture) Write(queue hal.Queue, pixels []byte) error {
	want := int(t.desc.Width) * int(t.desc.Height) * 4
	if len(pixels) != want {
		return fmt.Errorf("write texture %q: %d bytes, want %d", t.desc.Label, len(pixels), want)
	}
	queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
		},
		pixels,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  t.desc.Width * 4,
			RowsPerImage: t.desc.Height,
		},
		&hal.Extent3D{Width: t.desc.Width, Height: t.desc.Height, DepthOrArrayLayers: 1},
	)
	return nil
}

// Size returns the texture size in pixels.
func (t *Texture) Size() (w, h uint32) { return t.desc.Width, t.desc.Height }

// Format returns the texel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.desc.Format }

// View returns the texture view, usable as a color attachment when the
// texture was created as a render target.
func (t *Texture) View() hal.TextureView { return t.view }

// BindGroup returns the texture bind group.
func (t *Texture) BindGroup() hal.BindGroup { return t.bindGroup }

// IsRenderTarget reports whether the texture can be rendered into.
func (t *Texture) IsRenderTarget() bool { return t.desc.RenderTarget }

// Destroy releases the texture and its companions. Safe to call more than
// once.
func (t *Texture) Destroy(device hal.Device) {
	if t.bindGroup != nil {
		device.DestroyBindGroup(t.bindGroup)
		t.bindGroup = nil
	}
	if t.sampler != nil {
		device.DestroySampler(t.sampler)
		t.sampler = nil
	}
	if t.view != nil {
		device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		device.DestroyTexture(t.tex)
		t.tex = nil
	}
}
