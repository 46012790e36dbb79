package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice opens a device on the noop backend. The returned cleanup
// destroys the device and instance.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		t.Fatal("noop backend reported no adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// newTestLayouts creates the shared layouts on device and destroys them
// when the test ends.
func newTestLayouts(t *testing.T, device hal.Device) *Layouts {
	t.Helper()
	layouts, err := NewLayouts(device)
	if err != nil {
		t.Fatalf("NewLayouts failed: %v", err)
	}
	t.Cleanup(func() { layouts.Destroy(device) })
	return layouts
}

var errWriteFailed = errors.New("write failed")

// failingQueue is a queue whose buffer writes fail.
type failingQueue struct {
	hal.Queue
}

func (failingQueue) WriteBuffer(hal.Buffer, uint64, []byte) error { return errWriteFailed }
