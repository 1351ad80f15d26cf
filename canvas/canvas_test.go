package canvas

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/paint"
)

func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
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

func TestCanvasCreation(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	c, err := New(device, queue, 256, 128)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Destroy()

	if c.Width() != 256 || c.Height() != 128 {
		t.Errorf("size = %dx%d, want 256x128", c.Width(), c.Height())
	}
	if c.Texture() == nil || c.View() == nil {
		t.Error("expected non-nil texture and view")
	}
}

func TestCanvasEmptySize(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	if _, err := New(device, queue, 0, 128); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := New(device, queue, 128, 0); err == nil {
		t.Error("expected error for zero height")
	}
}

func TestCanvasClampsOversize(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	maxDim := gputypes.DefaultLimits().MaxTextureDimension2D
	c, err := New(device, queue, maxDim+1, 64)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Destroy()

	if c.Width() != maxDim {
		t.Errorf("width = %d, want clamped to %d", c.Width(), maxDim)
	}
	if c.Height() != 64 {
		t.Errorf("height = %d, want 64", c.Height())
	}
}

func TestCanvasClearSnapshotRestore(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	c, err := New(device, queue, 16, 16)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Destroy()

	if err := c.Clear(paint.White); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	snapshot, err := c.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snapshot) != 16*16*4 {
		t.Errorf("snapshot is %d bytes, want %d", len(snapshot), 16*16*4)
	}

	if err := c.Restore(snapshot); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	// Wrong-size snapshot must be rejected.
	if err := c.Restore(snapshot[:8]); err == nil {
		t.Error("expected error restoring a short snapshot")
	}
}

func TestCanvasResize(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	c, err := New(device, queue, 32, 32)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Destroy()

	if err := c.Resize(64, 48); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if c.Width() != 64 || c.Height() != 48 {
		t.Errorf("size after resize = %dx%d, want 64x48", c.Width(), c.Height())
	}

	// Same-size resize is a no-op.
	view := c.View()
	if err := c.Resize(64, 48); err != nil {
		t.Fatalf("no-op Resize failed: %v", err)
	}
	if c.View() != view {
		t.Error("same-size resize must keep the texture")
	}

	if err := c.Resize(0, 48); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestCanvasDestroyIdempotent(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	c, err := New(device, queue, 8, 8)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	c.Destroy()
	c.Destroy()
}
