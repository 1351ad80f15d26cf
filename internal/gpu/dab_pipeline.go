package gpu

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/paint"
)

//go:embed shaders/square_dab.wgsl
var squareDabShaderSource string

//go:embed shaders/disc_dab.wgsl
var discDabShaderSource string

// fenceTimeout bounds every GPU wait in this package.
const fenceTimeout = 5 * time.Second

// dabShaderSource returns the WGSL program implementing a stamp shape's
// masking rule. The vertex stage is identical across shapes; only the
// fragment stage differs.
func dabShaderSource(shape paint.Shape) (string, error) {
	switch shape.Name() {
	case "square":
		return squareDabShaderSource, nil
	case "disc":
		return discDabShaderSource, nil
	default:
		return "", fmt.Errorf("no dab shader for shape %q", shape.Name())
	}
}

// DabPipeline stamps brush dabs onto a canvas texture. One pipeline exists
// per stamp shape; all shapes share the same procedural-quad vertex stage,
// uniform layouts, and blend state, differing only in the fragment program.
//
// Each dab is drawn in its own render pass with LoadOp=Load so earlier
// content (and earlier dabs of the same batch) shows through outside the
// stamp. Draws use standard source-over alpha blending on straight-alpha
// colors.
//
// DabPipeline is not safe for concurrent use.
type DabPipeline struct {
	device hal.Device
	queue  hal.Queue
	shape  paint.Shape
	format gputypes.TextureFormat

	shader     hal.ShaderModule
	dabLayout  hal.BindGroupLayout
	viewLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

// NewDabPipeline creates a dab pipeline for the given stamp shape and
// canvas texture format. GPU objects are created lazily on first stamp.
func NewDabPipeline(device hal.Device, queue hal.Queue, shape paint.Shape, format gputypes.TextureFormat) *DabPipeline {
	return &DabPipeline{
		device: device,
		queue:  queue,
		shape:  shape,
		format: format,
	}
}

// Shape returns the stamp shape this pipeline renders.
func (p *DabPipeline) Shape() paint.Shape { return p.shape }

// Destroy releases all GPU resources held by the pipeline. Safe to call
// multiple times or on a pipeline with no allocated resources.
func (p *DabPipeline) Destroy() {
	p.destroyPipeline()
}

// StampDabs draws the given dabs onto target in order, one render pass per
// dab, within a single submission. Each dab gets its own transient uniform
// buffer so a draw never observes a later dab's parameters. The call blocks
// until the GPU has finished.
//
// The view matrix is uploaded and bound (group 1) but the dab shaders do
// not apply it: dab placement depends only on the dab's own parameters.
func (p *DabPipeline) StampDabs(target hal.TextureView, dabs []paint.Dab, view [16]float32) error {
	if len(dabs) == 0 {
		return nil
	}
	if err := p.ensureReady(); err != nil {
		return err
	}

	viewBuf, err := p.createAndUploadBuffer("dab_view_uniform", makeViewUniform(view),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("create view buffer: %w", err)
	}
	defer p.device.DestroyBuffer(viewBuf)

	viewGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "dab_view_bind",
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

	dabBufs := make([]hal.Buffer, 0, len(dabs))
	dabGroups := make([]hal.BindGroup, 0, len(dabs))
	defer func() {
		for _, g := range dabGroups {
			p.device.DestroyBindGroup(g)
		}
		for _, b := range dabBufs {
			p.device.DestroyBuffer(b)
		}
	}()

	for i, d := range dabs {
		buf, err := p.createAndUploadBuffer("dab_uniform", makeDabUniform(d),
			gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
		if err != nil {
			return fmt.Errorf("create dab buffer %d: %w", i, err)
		}
		dabBufs = append(dabBufs, buf)

		group, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  "dab_bind",
			Layout: p.dabLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{
					Buffer: buf.NativeHandle(), Offset: 0, Size: dabUniformSize,
				}},
			},
		})
		if err != nil {
			return fmt.Errorf("create dab bind group %d: %w", i, err)
		}
		dabGroups = append(dabGroups, group)
	}

	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "dab_stamp_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("dab_stamp"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	for i := range dabs {
		rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: "dab_pass",
			ColorAttachments: []hal.RenderPassColorAttachment{
				{
					View:    target,
					LoadOp:  gputypes.LoadOpLoad,
					StoreOp: gputypes.StoreOpStore,
				},
			},
		})
		rp.SetPipeline(p.pipeline)
		rp.SetBindGroup(0, dabGroups[i], nil)
		rp.SetBindGroup(1, viewGroup, nil)
		rp.Draw(4, 1, 0, 0)
		rp.End()
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer p.device.FreeCommandBuffer(cmdBuf)

	if err := submitAndWait(p.device, p.queue, cmdBuf); err != nil {
		return err
	}

	slogger().Debug("stamped dabs",
		"shape", p.shape.Name(), "count", len(dabs))
	return nil
}

// ensureReady creates the pipeline on first use.
func (p *DabPipeline) ensureReady() error {
	if p.pipeline != nil {
		return nil
	}
	if err := p.createPipeline(); err != nil {
		return fmt.Errorf("create %s dab pipeline: %w", p.shape.Name(), err)
	}
	return nil
}

// createPipeline compiles the shape's shader and creates the render
// pipeline: procedural quad (no vertex buffers), triangle strip, alpha
// blending on the canvas format.
func (p *DabPipeline) createPipeline() error {
	source, err := dabShaderSource(p.shape)
	if err != nil {
		return err
	}
	if source == "" {
		return fmt.Errorf("%s dab shader source is empty", p.shape.Name())
	}

	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  p.shape.Name() + "_dab_shader",
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return fmt.Errorf("compile shader: %w", err)
	}
	p.shader = shader

	dabLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "dab_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		p.destroyPipeline()
		return fmt.Errorf("create dab uniform layout: %w", err)
	}
	p.dabLayout = dabLayout

	viewLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "dab_view_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		p.destroyPipeline()
		return fmt.Errorf("create view uniform layout: %w", err)
	}
	p.viewLayout = viewLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "dab_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.dabLayout, p.viewLayout},
	})
	if err != nil {
		p.destroyPipeline()
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	blend := alphaBlend()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  p.shape.Name() + "_dab_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleStrip,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.destroyPipeline()
		return fmt.Errorf("create render pipeline: %w", err)
	}
	p.pipeline = pipeline

	slogger().Debug("created dab pipeline", "shape", p.shape.Name())
	return nil
}

// destroyPipeline releases all pipeline resources in reverse creation order.
func (p *DabPipeline) destroyPipeline() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.viewLayout != nil {
		p.device.DestroyBindGroupLayout(p.viewLayout)
		p.viewLayout = nil
	}
	if p.dabLayout != nil {
		p.device.DestroyBindGroupLayout(p.dabLayout)
		p.dabLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (p *DabPipeline) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	p.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// alphaBlend is the blend state for dab draws: source-over on straight
// alpha. Color uses SrcAlpha/OneMinusSrcAlpha, alpha accumulates with
// One/OneMinusSrcAlpha.
func alphaBlend() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}
