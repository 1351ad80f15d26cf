// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package painter orchestrates a painting session: it owns the canvas,
// the dab pipelines, undo history, the stroke engine, and the view, and
// exposes the operations a painting application calls.
package painter

import (
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/canvas"
	"github.com/gogpu/paint/internal/gpu"
	"github.com/gogpu/paint/stroke"
)

// Brush holds the user-facing brush settings.
type Brush struct {
	// Color is the dab color, straight alpha.
	Color paint.RGBA

	// RadiusPx is the dab radius in canvas pixels. Clamped to the
	// canvas's smaller dimension when stamping.
	RadiusPx float64

	// Spacing is the dab spacing as a fraction of brush diameter.
	// Zero selects the stroke package default.
	Spacing float64

	// Jitter scatters dabs by up to ±Jitter*diameter pixels per axis.
	Jitter float64

	// Stabilizer in [0,1] smooths pointer input.
	Stabilizer float64

	// PixelPerfect steps strokes pixel by pixel, for pencil-style tools.
	PixelPerfect bool

	// Shape is the stamp shape. Nil means Disc.
	Shape paint.Shape
}

// DefaultBrush returns a 16 px black disc brush.
func DefaultBrush() Brush {
	return Brush{
		Color:    paint.Black,
		RadiusPx: 16,
		Shape:    paint.Disc{},
	}
}

// Options configures a Painter.
type Options struct {
	// CanvasWidth and CanvasHeight are the canvas size in pixels.
	CanvasWidth, CanvasHeight uint32

	// Background is the color the canvas is cleared to. Zero value is
	// transparent.
	Background paint.RGBA

	// HistoryLimit caps retained undo snapshots. Zero selects
	// canvas.DefaultHistoryLimit.
	HistoryLimit int
}

// Painter is a painting session over one canvas.
// Not safe for concurrent use.
type Painter struct {
	device hal.Device
	queue  hal.Queue

	canvas    *canvas.Canvas
	history   *canvas.History
	pipelines map[string]*gpu.DabPipeline
	composite *gpu.CompositePipeline

	stroke     *stroke.Stroke
	brush      Brush
	view       View
	background paint.RGBA
}

// New creates a painter on an already-open device. The canvas starts
// cleared to the background color, with that state as the first undo
// point.
func New(device hal.Device, queue hal.Queue, opts Options) (*Painter, error) {
	cv, err := canvas.New(device, queue, opts.CanvasWidth, opts.CanvasHeight)
	if err != nil {
		return nil, fmt.Errorf("painter: %w", err)
	}

	p := &Painter{
		device:     device,
		queue:      queue,
		canvas:     cv,
		history:    canvas.NewHistory(opts.HistoryLimit),
		pipelines:  make(map[string]*gpu.DabPipeline),
		composite:  gpu.NewCompositePipeline(device, queue, canvas.Format),
		brush:      DefaultBrush(),
		view:       NewView(),
		background: opts.Background,
	}

	if err := p.canvas.Clear(p.background); err != nil {
		p.Close()
		return nil, fmt.Errorf("painter: %w", err)
	}
	if err := p.pushHistory(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// DeviceHandle provides GPU device access from the host application.
// Hosts embedding the painter (a gogpu app, an editor shell) implement
// gpucontext.DeviceProvider and pass it to NewFromProvider so the painter
// shares the host's device instead of creating its own.
type DeviceHandle = gpucontext.DeviceProvider

// NewFromProvider creates a painter from a host-application device
// handle. The handle's concrete type must also expose the underlying HAL
// device and queue (HalDevice/HalQueue), which gpucontext-backed hosts do.
func NewFromProvider(provider DeviceHandle, opts Options) (*Painter, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("painter: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("painter: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("painter: provider HalQueue is not hal.Queue")
	}
	return New(device, queue, opts)
}

// Close releases all GPU resources. Safe to call multiple times.
func (p *Painter) Close() {
	for _, pl := range p.pipelines {
		pl.Destroy()
	}
	p.pipelines = make(map[string]*gpu.DabPipeline)
	if p.composite != nil {
		p.composite.Destroy()
	}
	if p.canvas != nil {
		p.canvas.Destroy()
		p.canvas = nil
	}
}

// SetBrush replaces the brush settings. Takes effect on the next stroke;
// an active stroke keeps its settings until EndStroke.
func (p *Painter) SetBrush(b Brush) {
	if b.Shape == nil {
		b.Shape = paint.Disc{}
	}
	p.brush = b
}

// Brush returns the current brush settings.
func (p *Painter) Brush() Brush { return p.brush }

// SetView replaces the view (pan/zoom/rotation), clamping the zoom.
func (p *Painter) SetView(v View) {
	p.view = v.Zoomed(v.Zoom)
}

// View returns the current view.
func (p *Painter) View() View { return p.view }

// Canvas returns the underlying canvas, e.g. for direct export.
func (p *Painter) Canvas() *canvas.Canvas { return p.canvas }

// StampAt stamps a single dab at a canvas pixel position, outside any
// stroke. Used for click-to-dot input.
func (p *Painter) StampAt(pos paint.Point) error {
	return p.stampPixels([]paint.Point{pos})
}

// StrokeTo feeds a pointer position (canvas pixels) to the stroke engine
// and stamps whatever dabs it emits. The first call of a gesture starts
// the stroke and stamps its initial dab.
func (p *Painter) StrokeTo(pos paint.Point) error {
	if p.stroke == nil || !p.stroke.Active() {
		p.stroke = stroke.New(stroke.Options{
			Diameter:     p.brush.RadiusPx * 2,
			Spacing:      p.brush.Spacing,
			Jitter:       p.brush.Jitter,
			Stabilizer:   p.brush.Stabilizer,
			PixelPerfect: p.brush.PixelPerfect,
		})
		return p.stampPixels(p.stroke.Start(pos))
	}
	return p.stampPixels(p.stroke.Move(pos))
}

// EndStroke finishes the active stroke and records an undo point.
// A no-op when no stroke is active.
func (p *Painter) EndStroke() error {
	if p.stroke == nil || !p.stroke.Active() {
		return nil
	}
	p.stroke.End()
	return p.pushHistory()
}

// Undo restores the previous undo point. Returns false when there is
// nothing to undo.
func (p *Painter) Undo() (bool, error) {
	snapshot, ok := p.history.Undo()
	if !ok {
		return false, nil
	}
	if err := p.canvas.Restore(snapshot); err != nil {
		return false, fmt.Errorf("painter: undo: %w", err)
	}
	return true, nil
}

// Redo restores the next undo point. Returns false when there is nothing
// to redo.
func (p *Painter) Redo() (bool, error) {
	snapshot, ok := p.history.Redo()
	if !ok {
		return false, nil
	}
	if err := p.canvas.Restore(snapshot); err != nil {
		return false, fmt.Errorf("painter: redo: %w", err)
	}
	return true, nil
}

// Clear wipes the canvas to the background color and records an undo
// point.
func (p *Painter) Clear() error {
	if err := p.canvas.Clear(p.background); err != nil {
		return fmt.Errorf("painter: %w", err)
	}
	return p.pushHistory()
}

// Resize recreates the canvas at a new size. The content is cleared and
// the history reset, since old snapshots no longer match the dimensions.
func (p *Painter) Resize(width, height uint32) error {
	if err := p.canvas.Resize(width, height); err != nil {
		return fmt.Errorf("painter: %w", err)
	}
	p.history.Reset()
	if err := p.canvas.Clear(p.background); err != nil {
		return fmt.Errorf("painter: %w", err)
	}
	return p.pushHistory()
}

// Composite draws the canvas onto a presentation target through the view
// transform. The target is cleared to the background color first.
func (p *Painter) Composite(target hal.TextureView) error {
	bg := p.background
	err := p.composite.Composite(target, p.canvas.View(), p.view.Matrix().Mat4(),
		gpuColor(bg))
	if err != nil {
		return fmt.Errorf("painter: composite: %w", err)
	}
	return nil
}

// CursorToCanvasPx maps a cursor position on a w x h presentation target
// to canvas pixel coordinates through the inverse view transform.
func (p *Painter) CursorToCanvasPx(cursor paint.Point, w, h float64) paint.Point {
	n := p.view.CursorToCanvas(cursor, w, h)
	return paint.Pt(n.X*float64(p.canvas.Width()), n.Y*float64(p.canvas.Height()))
}

// Image reads the canvas back into an NRGBA image, for export or
// inspection.
func (p *Painter) Image() (*image.NRGBA, error) {
	pixels, err := p.canvas.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("painter: %w", err)
	}
	w, h := int(p.canvas.Width()), int(p.canvas.Height())
	return &image.NRGBA{
		Pix:    pixels,
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}, nil
}

// stampPixels converts dab centers in canvas pixels to normalized dabs and
// draws them with the brush's shape pipeline.
func (p *Painter) stampPixels(centers []paint.Point) error {
	if len(centers) == 0 {
		return nil
	}

	dabs := make([]paint.Dab, len(centers))
	for i, c := range centers {
		dabs[i] = p.makeDab(c)
	}

	pl, err := p.pipelineFor(p.brushShape())
	if err != nil {
		return err
	}
	if err := pl.StampDabs(p.canvas.View(), dabs, p.view.Matrix().Mat4()); err != nil {
		return fmt.Errorf("painter: stamp: %w", err)
	}
	return nil
}

// makeDab normalizes a pixel-space dab center into canvas-normalized
// coordinates. Positions clamp to [0,1] so off-canvas input paints along
// the edge instead of vanishing; the radius clamps to the canvas's
// smaller dimension.
func (p *Painter) makeDab(center paint.Point) paint.Dab {
	w := float64(p.canvas.Width())
	h := float64(p.canvas.Height())
	minDim := w
	if h < minDim {
		minDim = h
	}

	radiusPx := p.brush.RadiusPx
	if radiusPx > minDim {
		radiusPx = minDim
	}

	return paint.Dab{
		Color:    p.brush.Color,
		Position: paint.Pt(clamp01(center.X/w), clamp01(center.Y/h)),
		Radius:   radiusPx / minDim,
	}
}

func (p *Painter) brushShape() paint.Shape {
	if p.brush.Shape == nil {
		return paint.Disc{}
	}
	return p.brush.Shape
}

// pipelineFor returns the dab pipeline for a shape, creating it on first
// use. Pipelines are cached per shape name for the painter's lifetime.
func (p *Painter) pipelineFor(shape paint.Shape) (*gpu.DabPipeline, error) {
	if pl, ok := p.pipelines[shape.Name()]; ok {
		return pl, nil
	}
	pl := gpu.NewDabPipeline(p.device, p.queue, shape, canvas.Format)
	p.pipelines[shape.Name()] = pl
	return pl, nil
}

// pushHistory snapshots the canvas as a new undo point.
func (p *Painter) pushHistory() error {
	snapshot, err := p.canvas.Snapshot()
	if err != nil {
		return fmt.Errorf("painter: history snapshot: %w", err)
	}
	p.history.Push(snapshot)
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
