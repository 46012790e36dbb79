package gpu

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/kit2d"
)

func TestGlobalsBytes(t *testing.T) {
	g := NewGlobals(200, 100, kit2d.TopLeft)
	g.Transform = kit2d.Translation(7, 0, 0)

	data := g.Bytes()
	if len(data) != globalsSize {
		t.Fatalf("len = %d, want %d", len(data), globalsSize)
	}
	f := func(i int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])) }

	// ortho column 0 row 0 is 2/w, column 3 holds the (-1, 1) offset.
	if f(0) != 0.01 || f(12) != -1 || f(13) != 1 || f(5) != -0.02 {
		t.Errorf("ortho = %v %v %v %v", f(0), f(12), f(13), f(5))
	}
	if f(16+12) != 7 {
		t.Errorf("transform translation x = %v, want 7", f(16+12))
	}
}

func TestPackColor(t *testing.T) {
	data := packColor(kit2d.Rgba{R: 1, G: 0.5, B: 0.25, A: 0})
	want := []float32{1, 0.5, 0.25, 0}
	for i, w := range want {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])); got != w {
			t.Errorf("channel %d = %v, want %v", i, got, w)
		}
	}
}

func TestUniformGroups(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()
	layouts := newTestLayouts(t, device)

	globals, err := NewGlobalsGroup(device, queue, layouts, NewGlobals(64, 64, kit2d.TopLeft))
	if err != nil {
		t.Fatalf("NewGlobalsGroup failed: %v", err)
	}
	post, err := NewPostGroup(device, queue, layouts, kit2d.Rgba{A: 1})
	if err != nil {
		t.Fatalf("NewPostGroup failed: %v", err)
	}
	if globals.BindGroup() == nil || post.BindGroup() == nil {
		t.Error("uniform group without bind group")
	}
	globals.Destroy(device)
	globals.Destroy(device)
	post.Destroy(device)
	if globals.BindGroup() != nil {
		t.Error("bind group survives Destroy")
	}
}

func TestUniformGroupWriteFailure(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()
	layouts := newTestLayouts(t, device)

	if _, err := NewGlobalsGroup(device, failingQueue{queue}, layouts, NewGlobals(8, 8, kit2d.TopLeft)); !errors.Is(err, errWriteFailed) {
		t.Errorf("NewGlobalsGroup err = %v, want the write error", err)
	}
	if _, err := NewPostGroup(device, failingQueue{queue}, layouts, kit2d.Rgba{}); !errors.Is(err, errWriteFailed) {
		t.Errorf("NewPostGroup err = %v, want the write error", err)
	}
}
