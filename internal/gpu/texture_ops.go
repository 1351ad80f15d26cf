package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/paint"
)

// ClearTexture fills a render-target view with a solid color using a
// clear-only render pass. Blocks until the GPU has finished.
func ClearTexture(device hal.Device, queue hal.Queue, view hal.TextureView, c paint.RGBA) error {
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "clear_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("clear"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "clear_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: c.R, G: c.G, B: c.B, A: c.A},
			},
		},
	})
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	return submitAndWait(device, queue, cmdBuf)
}

// ReadTexture copies a texture's pixels into a CPU byte slice
// (width*height*4 bytes, tightly packed rows). Blocks until the GPU has
// finished.
func ReadTexture(device hal.Device, queue hal.Queue, tex hal.Texture, w, h uint32) ([]byte, error) {
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "readback_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("readback"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	// The canvas texture sits in attachment layout after dab passes;
	// CopyTextureToBuffer needs transfer-source layout. No-op on backends
	// without explicit layouts (Metal, GLES, software, noop).
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	pixelBufSize := uint64(w) * uint64(h) * 4
	stagingBuf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "readback_staging",
		Size:  pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(tex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	if err := submitAndWait(device, queue, cmdBuf); err != nil {
		return nil, err
	}

	pixels := make([]byte, pixelBufSize)
	if err := queue.ReadBuffer(stagingBuf, 0, pixels); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}
	return pixels, nil
}

// WriteTexture uploads CPU pixels (width*height*4 bytes, tightly packed
// rows) into a texture.
func WriteTexture(queue hal.Queue, tex hal.Texture, pixels []byte, w, h uint32) error {
	if uint64(len(pixels)) != uint64(w)*uint64(h)*4 {
		return fmt.Errorf("pixel data is %d bytes, want %d", len(pixels), uint64(w)*uint64(h)*4)
	}
	queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
		},
		pixels,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * 4,
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	return nil
}

// submitAndWait submits one command buffer and blocks on its fence.
func submitAndWait(device hal.Device, queue hal.Queue, cmdBuf hal.CommandBuffer) error {
	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer device.DestroyFence(fence)

	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !fenceOK {
		return fmt.Errorf("wait for GPU: timed out after %v", fenceTimeout)
	}
	return nil
}
