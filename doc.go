// Package paint provides GPU-accelerated brush stamping for painting
// applications in the GoGPU ecosystem.
//
// # Overview
//
// paint renders individual brush dabs (stamps) onto a GPU canvas texture.
// Each dab is a small parameter block -- color, position, radius -- drawn as
// a procedurally generated quad whose fragments are masked by a stamp shape
// (filled square, filled disc). The library also carries the surrounding
// painting machinery: canvas texture management, snapshot-based undo/redo,
// stroke spacing and stabilization, view pan/zoom/rotate, and image export.
//
// # Quick Start
//
//	device, queue, cleanup, err := painter.OpenDevice()
//	if err != nil { ... }
//	defer cleanup()
//
//	p, err := painter.New(device, queue, painter.Options{
//	    CanvasWidth:  2048,
//	    CanvasHeight: 2048,
//	})
//	if err != nil { ... }
//	defer p.Close()
//
//	p.SetBrush(painter.Brush{Color: paint.RGB(1, 0, 0), RadiusPx: 20, Shape: paint.Disc{}})
//	p.StrokeTo(paint.Pt(512, 512))
//	p.EndStroke()
//
// # Coordinate System
//
// Dab positions are canvas-normalized: (0,0) is the top-left of the canvas,
// (1,1) the bottom-right. The clip-space conversion maps x in [0,1] to
// [-1,1] and flips y so that normalized y=0 lands at the top of the render
// target. Painter-level APIs work in canvas pixel coordinates and convert.
//
// # Architecture
//
//   - Public API: Dab, Shape (Square, Disc), RGBA, Point, Matrix, software Stamp
//   - canvas: GPU canvas texture and snapshot history
//   - stroke: spacing/stabilizer/jitter dab emission
//   - painter: orchestration, view transform, device integration
//   - export: PNG/JPEG/TIFF encoding of canvas readbacks
//   - internal/gpu: WGSL dab pipelines and canvas composite pass
package paint
