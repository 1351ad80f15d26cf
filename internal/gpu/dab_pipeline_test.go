package gpu

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/paint"
)

func TestDabPipelineCreation(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	for _, shape := range []paint.Shape{paint.Square{}, paint.Disc{}} {
		p := NewDabPipeline(device, queue, shape, gputypes.TextureFormatRGBA8Unorm)

		if err := p.createPipeline(); err != nil {
			t.Fatalf("createPipeline(%s) failed: %v", shape.Name(), err)
		}

		if p.shader == nil {
			t.Errorf("%s: expected non-nil shader", shape.Name())
		}
		if p.dabLayout == nil {
			t.Errorf("%s: expected non-nil dabLayout", shape.Name())
		}
		if p.viewLayout == nil {
			t.Errorf("%s: expected non-nil viewLayout", shape.Name())
		}
		if p.pipeLayout == nil {
			t.Errorf("%s: expected non-nil pipeLayout", shape.Name())
		}
		if p.pipeline == nil {
			t.Errorf("%s: expected non-nil pipeline", shape.Name())
		}

		p.Destroy()
	}
}

func TestDabPipelineDestroy(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := NewDabPipeline(device, queue, paint.Disc{}, gputypes.TextureFormatRGBA8Unorm)

	if err := p.createPipeline(); err != nil {
		t.Fatalf("createPipeline failed: %v", err)
	}
	if p.pipeline == nil {
		t.Fatal("expected non-nil pipeline before destroy")
	}

	p.destroyPipeline()

	if p.shader != nil {
		t.Error("expected nil shader after destroy")
	}
	if p.dabLayout != nil {
		t.Error("expected nil dabLayout after destroy")
	}
	if p.viewLayout != nil {
		t.Error("expected nil viewLayout after destroy")
	}
	if p.pipeLayout != nil {
		t.Error("expected nil pipeLayout after destroy")
	}
	if p.pipeline != nil {
		t.Error("expected nil pipeline after destroy")
	}

	// Double-destroy should be safe.
	p.destroyPipeline()
}

func TestDabPipelineDestroyBeforeCreate(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p := NewDabPipeline(device, queue, paint.Square{}, gputypes.TextureFormatRGBA8Unorm)

	// Destroying a pipeline that was never created should not panic.
	p.destroyPipeline()
}

func TestDabPipelineStampDabs(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	_, view, texCleanup := createCanvasTexture(t, device, 64, 64)
	defer texCleanup()

	p := NewDabPipeline(device, queue, paint.Disc{}, gputypes.TextureFormatRGBA8Unorm)
	defer p.Destroy()

	dabs := []paint.Dab{
		{Color: paint.RGB(1, 0, 0), Position: paint.Pt(0.5, 0.5), Radius: 0.1},
		{Color: paint.RGB(0, 1, 0), Position: paint.Pt(0.25, 0.75), Radius: 0.05},
	}
	if err := p.StampDabs(view, dabs, paint.Identity().Mat4()); err != nil {
		t.Fatalf("StampDabs failed: %v", err)
	}
}

func TestDabPipelineStampNoDabs(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	_, view, texCleanup := createCanvasTexture(t, device, 16, 16)
	defer texCleanup()

	p := NewDabPipeline(device, queue, paint.Square{}, gputypes.TextureFormatRGBA8Unorm)
	defer p.Destroy()

	// Empty batch is a no-op and must not create the pipeline.
	if err := p.StampDabs(view, nil, paint.Identity().Mat4()); err != nil {
		t.Fatalf("StampDabs with no dabs failed: %v", err)
	}
	if p.pipeline != nil {
		t.Error("empty stamp should not create the pipeline")
	}
}

type unknownShape struct{}

func (unknownShape) Name() string                      { return "hexagon" }
func (unknownShape) Covers(paint.Point, paint.Dab) bool { return false }

func TestDabShaderSourceUnknownShape(t *testing.T) {
	if _, err := dabShaderSource(unknownShape{}); err == nil {
		t.Error("expected error for shape without a shader")
	}
}

func TestClearAndReadTexture(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	tex, view, texCleanup := createCanvasTexture(t, device, 8, 8)
	defer texCleanup()

	if err := ClearTexture(device, queue, view, paint.White); err != nil {
		t.Fatalf("ClearTexture failed: %v", err)
	}

	pixels, err := ReadTexture(device, queue, tex, 8, 8)
	if err != nil {
		t.Fatalf("ReadTexture failed: %v", err)
	}
	if len(pixels) != 8*8*4 {
		t.Errorf("ReadTexture returned %d bytes, want %d", len(pixels), 8*8*4)
	}
}

func TestWriteTextureSizeMismatch(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	tex, _, texCleanup := createCanvasTexture(t, device, 8, 8)
	defer texCleanup()

	if err := WriteTexture(queue, tex, make([]byte, 16), 8, 8); err == nil {
		t.Error("expected error for short pixel data")
	}
	if err := WriteTexture(queue, tex, make([]byte, 8*8*4), 8, 8); err != nil {
		t.Errorf("WriteTexture failed: %v", err)
	}
}
