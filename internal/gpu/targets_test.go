package gpu

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestAttachmentsEnsure(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	var a Attachments
	defer a.Destroy(device)
	cfg := DefaultPipelineConfig()

	if err := a.Ensure(device, cfg, 100, 50); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if a.DepthView() == nil {
		t.Fatal("no depth view")
	}
	if a.MSAAView() != nil {
		t.Error("single-sampled config created an MSAA view")
	}
	view := a.DepthView()
	if err := a.Ensure(device, cfg, 100, 50); err != nil {
		t.Fatalf("second Ensure failed: %v", err)
	}
	if a.DepthView() != view {
		t.Error("Ensure with the same size recreated the attachments")
	}

	cfg.SampleCount = 4
	if err := a.Ensure(device, cfg, 200, 100); err != nil {
		t.Fatalf("Ensure(msaa) failed: %v", err)
	}
	if w, h := a.Size(); w != 200 || h != 100 || a.MSAAView() == nil {
		t.Errorf("after resize: %dx%d msaa %v", w, h, a.MSAAView())
	}
}

func TestNewTexture(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()
	layouts := newTestLayouts(t, device)

	tex, err := NewTexture(device, queue, layouts, TextureDesc{Label: "checker", Width: 2, Height: 2, Repeat: true}, make([]byte, 16))
	if err != nil {
		t.Fatalf("NewTexture failed: %v", err)
	}
	if tex.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("default format = %v", tex.Format())
	}
	if tex.BindGroup() == nil || tex.View() == nil {
		t.Error("texture missing view or bind group")
	}
	if err := tex.Write(queue, make([]byte, 3)); err == nil {
		t.Error("Write accepted a short pixel slice")
	}
	tex.Destroy(device)
	tex.Destroy(device)
}

func TestNewTextureErrors(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()
	layouts := newTestLayouts(t, device)

	if _, err := NewTexture(device, queue, layouts, TextureDesc{Label: "empty"}, nil); err == nil {
		t.Error("zero-sized texture accepted")
	}
	if _, err := NewTexture(device, queue, layouts, TextureDesc{Label: "short", Width: 4, Height: 4}, make([]byte, 4)); err == nil {
		t.Error("texture with too few pixels accepted")
	}
}
