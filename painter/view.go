// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package painter

import "github.com/gogpu/paint"

// Zoom limits. Zoom outside this range makes the canvas unusably small or
// blows float precision in the inverse mapping.
const (
	MinZoom = 0.1
	MaxZoom = 20.0
)

// View is the camera over the canvas: pan, zoom, and rotation. It affects
// only how the canvas is presented (the composite pass) and how cursor
// positions map back onto the canvas. Dab placement never goes through it.
type View struct {
	// Pan is the canvas offset in clip-space units of the presentation
	// target: panning by (2, 0) moves the canvas a full target width.
	Pan paint.Point

	// Zoom is the canvas scale factor, clamped to [MinZoom, MaxZoom].
	Zoom float64

	// Rotation is the canvas rotation in radians.
	Rotation float64
}

// NewView returns the identity view: no pan, no rotation, zoom 1.
func NewView() View {
	return View{Zoom: 1}
}

// Zoomed returns a copy with the zoom set and clamped.
func (v View) Zoomed(zoom float64) View {
	if zoom < MinZoom {
		zoom = MinZoom
	}
	if zoom > MaxZoom {
		zoom = MaxZoom
	}
	v.Zoom = zoom
	return v
}

// Matrix returns the view transform applied to the canvas quad by the
// composite pass: translation, then rotation, then scale.
func (v View) Matrix() paint.Matrix {
	zoom := v.Zoomed(v.Zoom).Zoom
	return paint.Translate(v.Pan.X, v.Pan.Y).
		Multiply(paint.Rotate(v.Rotation)).
		Multiply(paint.Scale(zoom, zoom))
}

// CursorToCanvas maps a cursor position on the presentation target (pixels,
// origin top-left, target size w x h) to canvas-normalized coordinates. The
// cursor goes to clip space, back through the inverse view transform, and
// then to canvas space. The result can fall outside [0,1] when the cursor
// is off the canvas; the painter clamps it before stamping.
func (v View) CursorToCanvas(cursor paint.Point, w, h float64) paint.Point {
	clip := paint.Pt(cursor.X/w*2-1, 1-cursor.Y/h*2)
	c := v.Matrix().Invert().TransformPoint(clip)
	return paint.WorldFromClip(c)
}
