package gpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/kit2d"
	"github.com/gogpu/wgpu/hal"
)

// SubmitTimeout bounds how long Submit waits for the GPU.
const SubmitTimeout = 5 * time.Second

// Submit creates a command encoder, lets record fill it, then submits the
// commands and waits for the GPU to finish. If record fails the encoding
// is discarded and nothing is submitted.
func Submit(device hal.Device, queue hal.Queue, label string, record func(encoder hal.CommandEncoder) error) error {
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: label + "_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	if err := record(encoder); err != nil {
		encoder.DiscardEncoding()
		return err
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer device.DestroyFence(fence)

	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := device.Wait(fence, 1, SubmitTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

// PassTarget describes the attachments of one render pass.
type PassTarget struct {
	Color       hal.TextureView
	Attachments *Attachments

	// Clear, when non-nil, clears the color attachment first. Otherwise
	// its contents are loaded.
	Clear *kit2d.Rgba
	// ClearDepth, when non-nil, clears depth to the given value. Otherwise
	// depth is loaded.
	ClearDepth *float32
}

// BeginPass starts a render pass on target. With multisampling the pass
// renders into the MSAA attachment and resolves into target.Color. The
// attachments are shared by every target, so without Clear the pass loads
// whatever the previous pass on any target left there.
func BeginPass(encoder hal.CommandEncoder, label string, target PassTarget) hal.RenderPassEncoder {
	color := hal.RenderPassColorAttachment{
		View:    target.Color,
		LoadOp:  gputypes.LoadOpLoad,
		StoreOp: gputypes.StoreOpStore,
	}
	if msaa := target.Attachments.MSAAView(); msaa != nil {
		color.View = msaa
		color.ResolveTarget = target.Color
	}
	if target.Clear != nil {
		c := target.Clear
		color.LoadOp = gputypes.LoadOpClear
		color.ClearValue = gputypes.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
	}

	depth := &hal.RenderPassDepthStencilAttachment{
		View:              target.Attachments.DepthView(),
		DepthLoadOp:       gputypes.LoadOpLoad,
		DepthStoreOp:      gputypes.StoreOpStore,
		DepthClearValue:   1.0,
		StencilLoadOp:     gputypes.LoadOpClear,
		StencilStoreOp:    gputypes.StoreOpDiscard,
		StencilClearValue: 0,
	}
	if target.ClearDepth != nil {
		depth.DepthLoadOp = gputypes.LoadOpClear
		depth.DepthClearValue = *target.ClearDepth
	}

	return encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:                  label,
		ColorAttachments:       []hal.RenderPassColorAttachment{color},
		DepthStencilAttachment: depth,
	})
}

// copyPitchAlignment is the row alignment texture-to-buffer copies require.
const copyPitchAlignment = 256

// ReadTexture copies a render target texture back to the CPU and returns
// its texels tightly packed, in the texture's own channel order.
func ReadTexture(device hal.Device, queue hal.Queue, t *Texture) ([]byte, error) {
	if !t.IsRenderTarget() {
		return nil, fmt.Errorf("read texture %q: not created as a render target", t.desc.Label)
	}
	w, h := t.Size()
	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: t.desc.Label + "_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer device.DestroyBuffer(staging)

	err = Submit(device, queue, "kit2d_readback", func(encoder hal.CommandEncoder) error {
		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: t.tex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageRenderAttachment,
				NewUsage: gputypes.TextureUsageCopySrc,
			},
		}})
		encoder.CopyTextureToBuffer(t.tex, staging, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
			TextureBase:  hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
			Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		}})
		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: t.tex,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageCopySrc,
				NewUsage: gputypes.TextureUsageRenderAttachment,
			},
		}})
		return nil
	})
	if err != nil {
		return nil, err
	}

	readback := make([]byte, stagingSize)
	if err := queue.ReadBuffer(staging, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	if alignedBytesPerRow == bytesPerRow {
		return readback, nil
	}
	tight := make([]byte, uint64(bytesPerRow)*uint64(h))
	for row := uint32(0); row < h; row++ {
		src := int(row) * int(alignedBytesPerRow)
		dst := int(row) * int(bytesPerRow)
		copy(tight[dst:dst+int(bytesPerRow)], readback[src:src+int(bytesPerRow)])
	}
	return tight, nil
}
