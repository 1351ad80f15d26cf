// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package canvas manages the GPU canvas texture that brush dabs are stamped
// onto, and a snapshot-based history for undo/redo.
package canvas

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/internal/gpu"
)

// Format is the pixel format of every canvas texture.
const Format = gputypes.TextureFormatRGBA8Unorm

// Canvas is an RGBA8 GPU texture used as the painting surface. It is a
// render target for dab passes, sampleable by the composite pass, and
// copyable in both directions for snapshots.
//
// Canvas is not safe for concurrent use.
type Canvas struct {
	device hal.Device
	queue  hal.Queue

	tex  hal.Texture
	view hal.TextureView

	width, height uint32
}

// New creates a canvas of the requested size. Dimensions are clamped to
// the texture-dimension limit, so asking for an oversized canvas yields
// the largest one the device supports rather than an error.
func New(device hal.Device, queue hal.Queue, width, height uint32) (*Canvas, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("canvas: size %dx%d is empty", width, height)
	}

	maxDim := gputypes.DefaultLimits().MaxTextureDimension2D
	if width > maxDim || height > maxDim {
		paint.Logger().Warn("canvas size clamped",
			"requested_width", width, "requested_height", height, "max", maxDim)
		if width > maxDim {
			width = maxDim
		}
		if height > maxDim {
			height = maxDim
		}
	}

	c := &Canvas{device: device, queue: queue}
	if err := c.createTexture(width, height); err != nil {
		return nil, err
	}

	paint.Logger().Debug("created canvas", "width", width, "height", height)
	return c, nil
}

func (c *Canvas) createTexture(width, height uint32) error {
	tex, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "canvas",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        Format,
		Usage: gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageTextureBinding |
			gputypes.TextureUsageCopySrc |
			gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("canvas: create texture: %w", err)
	}

	view, err := c.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "canvas_view",
		Format:        Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		c.device.DestroyTexture(tex)
		return fmt.Errorf("canvas: create texture view: %w", err)
	}

	c.tex = tex
	c.view = view
	c.width = width
	c.height = height
	return nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() uint32 { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() uint32 { return c.height }

// Texture returns the underlying texture.
func (c *Canvas) Texture() hal.Texture { return c.tex }

// View returns the texture view used as the dab render target and the
// composite sample source.
func (c *Canvas) View() hal.TextureView { return c.view }

// Clear fills the canvas with a solid color.
func (c *Canvas) Clear(color paint.RGBA) error {
	if err := gpu.ClearTexture(c.device, c.queue, c.view, color); err != nil {
		return fmt.Errorf("canvas: clear: %w", err)
	}
	return nil
}

// Snapshot reads the canvas pixels back to the CPU: width*height*4 bytes
// of tightly packed RGBA rows, top row first. The returned slice is owned
// by the caller and is what History stores.
func (c *Canvas) Snapshot() ([]byte, error) {
	pixels, err := gpu.ReadTexture(c.device, c.queue, c.tex, c.width, c.height)
	if err != nil {
		return nil, fmt.Errorf("canvas: snapshot: %w", err)
	}
	return pixels, nil
}

// Restore uploads a snapshot taken at the canvas's current size.
func (c *Canvas) Restore(snapshot []byte) error {
	if err := gpu.WriteTexture(c.queue, c.tex, snapshot, c.width, c.height); err != nil {
		return fmt.Errorf("canvas: restore: %w", err)
	}
	return nil
}

// Resize recreates the canvas texture at a new size. The content is lost;
// the caller clears or restores afterwards. Dimensions are clamped the
// same way New clamps them.
func (c *Canvas) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("canvas: size %dx%d is empty", width, height)
	}
	maxDim := gputypes.DefaultLimits().MaxTextureDimension2D
	if width > maxDim {
		width = maxDim
	}
	if height > maxDim {
		height = maxDim
	}
	if width == c.width && height == c.height {
		return nil
	}

	c.destroyTexture()
	if err := c.createTexture(width, height); err != nil {
		return err
	}

	paint.Logger().Debug("resized canvas", "width", width, "height", height)
	return nil
}

// Destroy releases the canvas texture. Safe to call multiple times.
func (c *Canvas) Destroy() {
	c.destroyTexture()
}

func (c *Canvas) destroyTexture() {
	if c.view != nil {
		c.device.DestroyTextureView(c.view)
		c.view = nil
	}
	if c.tex != nil {
		c.device.DestroyTexture(c.tex)
		c.tex = nil
	}
	c.width = 0
	c.height = 0
}
