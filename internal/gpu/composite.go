package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/canvas_blit.wgsl
var canvasBlitShaderSource string

// blitVertexStride is the byte stride per vertex in the composite pipeline.
// Layout per vertex:
//
//	position   (vec3<f32>) = 12 bytes (location 0)
//	tex_coords (vec2<f32>) = 8 bytes  (location 1)
//
// Total = 20 bytes.
const blitVertexStride = 20

// CompositePipeline samples the canvas texture onto a presentation target.
// This is the one pass that applies the view matrix: pan, zoom, and
// rotation change how the canvas is presented without touching its pixels.
//
// The canvas is drawn as an indexed quad spanning clip space before the
// view transform. Replace blending; the target is fully overwritten.
type CompositePipeline struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	shader     hal.ShaderModule
	viewLayout hal.BindGroupLayout
	texLayout  hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler

	vertBuf hal.Buffer
	idxBuf  hal.Buffer
}

// NewCompositePipeline creates a composite pipeline rendering to targets of
// the given format. GPU objects are created lazily on first use.
func NewCompositePipeline(device hal.Device, queue hal.Queue, format gputypes.TextureFormat) *CompositePipeline {
	return &CompositePipeline{
		device: device,
		queue:  queue,
		format: format,
	}
}

// Destroy releases all GPU resources held by the pipeline. Safe to call
// multiple times or on a pipeline with no allocated resources.
func (p *CompositePipeline) Destroy() {
	p.destroyPipeline()
}

// Composite draws the canvas texture onto target through the view matrix.
// Blocks until the GPU has finished. The target is cleared to the given
// background color first, so canvas regions panned off-screen leave no
// stale pixels.
func (p *CompositePipeline) Composite(target hal.TextureView, canvas hal.TextureView, view [16]float32, background gputypes.Color) error {
	if err := p.ensureReady(); err != nil {
		return err
	}

	viewBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "composite_view_uniform",
		Size:  viewUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create view buffer: %w", err)
	}
	defer p.device.DestroyBuffer(viewBuf)
	p.queue.WriteBuffer(viewBuf, 0, makeViewUniform(view))

	viewGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "composite_view_bind",
		Layout: p.viewLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: viewBuf.NativeHandle(), Offset: 0, Size: viewUniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create view bind group: %w", err)
	}
	defer p.device.DestroyBindGroup(viewGroup)

	texGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "composite_tex_bind",
		Layout: p.texLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{
				TextureView: canvas.NativeHandle(),
			}},
			{Binding: 1, Resource: gputypes.SamplerBinding{
				Sampler: p.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create texture bind group: %w", err)
	}
	defer p.device.DestroyBindGroup(texGroup)

	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "composite_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("composite"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "composite_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       target,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: background,
			},
		},
	})
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, viewGroup, nil)
	rp.SetBindGroup(1, texGroup, nil)
	rp.SetVertexBuffer(0, p.vertBuf, 0)
	rp.SetIndexBuffer(p.idxBuf, gputypes.IndexFormatUint16, 0)
	rp.DrawIndexed(6, 1, 0, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer p.device.FreeCommandBuffer(cmdBuf)

	return submitAndWait(p.device, p.queue, cmdBuf)
}

// ensureReady creates the pipeline and the static quad buffers on first use.
func (p *CompositePipeline) ensureReady() error {
	if p.pipeline != nil {
		return nil
	}
	if err := p.createPipeline(); err != nil {
		p.destroyPipeline()
		return fmt.Errorf("create composite pipeline: %w", err)
	}
	return nil
}

func (p *CompositePipeline) createPipeline() error {
	if canvasBlitShaderSource == "" {
		return fmt.Errorf("canvas_blit shader source is empty")
	}

	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "canvas_blit_shader",
		Source: hal.ShaderSource{WGSL: canvasBlitShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile canvas_blit shader: %w", err)
	}
	p.shader = shader

	viewLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "composite_view_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create view layout: %w", err)
	}
	p.viewLayout = viewLayout

	texLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "composite_tex_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create texture layout: %w", err)
	}
	p.texLayout = texLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "composite_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.viewLayout, p.texLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	// Linear filtering keeps the canvas smooth when zoomed.
	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "composite_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}
	p.sampler = sampler

	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "composite_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    blitVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	p.pipeline = pipeline

	if err := p.createQuadBuffers(); err != nil {
		return err
	}

	slogger().Debug("created composite pipeline")
	return nil
}

// createQuadBuffers uploads the static full-canvas quad. Positions span
// clip space with UVs mapping the full texture, v=0 at the top row.
func (p *CompositePipeline) createQuadBuffers() error {
	verts := buildBlitQuadVertices()
	vertBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "composite_verts",
		Size:  uint64(len(verts)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create vertex buffer: %w", err)
	}
	p.vertBuf = vertBuf
	p.queue.WriteBuffer(vertBuf, 0, verts)

	// Two CCW triangles: 0-1-2, 0-2-3. Padded to a 4-byte multiple.
	indices := []byte{0, 0, 1, 0, 2, 0, 0, 0, 2, 0, 3, 0, 0, 0, 0, 0}
	idxBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "composite_indices",
		Size:  uint64(len(indices)),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create index buffer: %w", err)
	}
	p.idxBuf = idxBuf
	p.queue.WriteBuffer(idxBuf, 0, indices)
	return nil
}

// destroyPipeline releases all pipeline resources in reverse creation order.
func (p *CompositePipeline) destroyPipeline() {
	if p.device == nil {
		return
	}
	if p.idxBuf != nil {
		p.device.DestroyBuffer(p.idxBuf)
		p.idxBuf = nil
	}
	if p.vertBuf != nil {
		p.device.DestroyBuffer(p.vertBuf)
		p.vertBuf = nil
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.texLayout != nil {
		p.device.DestroyBindGroupLayout(p.texLayout)
		p.texLayout = nil
	}
	if p.viewLayout != nil {
		p.device.DestroyBindGroupLayout(p.viewLayout)
		p.viewLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// blitVertexLayout returns the vertex buffer layout for the composite
// pipeline. Matches VertexInput in canvas_blit.wgsl.
func blitVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: blitVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1}, // tex_coords
			},
		},
	}
}

// buildBlitQuadVertices encodes the four canvas quad corners.
func buildBlitQuadVertices() []byte {
	corners := [4]struct {
		x, y, z, u, v float32
	}{
		{-1, 1, 0, 0, 0},  // top-left
		{-1, -1, 0, 0, 1}, // bottom-left
		{1, -1, 0, 1, 1},  // bottom-right
		{1, 1, 0, 1, 0},   // top-right
	}

	buf := make([]byte, 4*blitVertexStride)
	off := 0
	for _, c := range corners {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(c.x))
		binary.LittleEndian.PutUint32(buf[off+4:off+8], math.Float32bits(c.y))
		binary.LittleEndian.PutUint32(buf[off+8:off+12], math.Float32bits(c.z))
		binary.LittleEndian.PutUint32(buf[off+12:off+16], math.Float32bits(c.u))
		binary.LittleEndian.PutUint32(buf[off+16:off+20], math.Float32bits(c.v))
		off += blitVertexStride
	}
	return buf
}
