// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package stroke turns raw pointer input into evenly spaced dab centers.
//
// A Stroke is a per-gesture state machine: Start begins it at the first
// input point, Move feeds subsequent points, End finishes it. Moves are
// smoothed by an optional stabilizer and walked at a fixed spacing so dab
// density is independent of input event rate. All coordinates are canvas
// pixels; issuing the actual dab draws is the caller's job.
package stroke

import (
	"math"
	"math/rand"

	"github.com/gogpu/paint"
)

// minSpacingPx floors the distance between dabs so tiny spacing values
// cannot make the segment walk emit unboundedly.
const minSpacingPx = 1.0

// DefaultSpacing is the dab spacing as a fraction of brush diameter when
// Options.Spacing is zero.
const DefaultSpacing = 0.25

// Options configures a stroke.
type Options struct {
	// Diameter is the brush diameter in canvas pixels. Spacing and jitter
	// scale with it.
	Diameter float64

	// Spacing is the distance between dab centers as a fraction of
	// Diameter. Zero selects DefaultSpacing.
	Spacing float64

	// Jitter scatters each dab uniformly within ±Jitter*Diameter on both
	// axes. Zero disables scatter.
	Jitter float64

	// Stabilizer in [0,1] smooths input: each move is pulled toward the
	// previous smoothed position. 0 passes input through, values near 1
	// lag heavily behind the pointer.
	Stabilizer float64

	// PixelPerfect steps the stroke one pixel at a time along a Bresenham
	// line instead of spacing-based interpolation. Spacing and Jitter are
	// ignored. Used for 1px pencil tools.
	PixelPerfect bool

	// Rand is the jitter source. Nil uses the shared math/rand source;
	// tests inject a seeded one.
	Rand *rand.Rand
}

// Stroke emits dab centers for one brush gesture.
// Not safe for concurrent use.
type Stroke struct {
	opts   Options
	active bool

	prev  paint.Point // last smoothed position
	carry float64     // distance walked since the last dab

	lastPixel struct{ x, y int } // last emitted pixel (pixel-perfect mode)
}

// New creates a stroke with the given options.
func New(opts Options) *Stroke {
	if opts.Spacing <= 0 {
		opts.Spacing = DefaultSpacing
	}
	return &Stroke{opts: opts}
}

// Active reports whether a gesture is in progress.
func (s *Stroke) Active() bool { return s.active }

// Start begins a gesture at p and returns the initial dab center(s).
// Starting an active stroke restarts it.
func (s *Stroke) Start(p paint.Point) []paint.Point {
	s.active = true
	s.prev = p
	s.carry = 0
	s.lastPixel.x, s.lastPixel.y = pixelOf(p)
	return []paint.Point{s.jittered(p)}
}

// Move feeds the next input point and returns the dab centers to stamp,
// in stroke order. Returns nil when the pointer has not traveled far
// enough for a new dab.
func (s *Stroke) Move(raw paint.Point) []paint.Point {
	if !s.active {
		return nil
	}

	smoothed := s.stabilize(raw)
	if s.opts.PixelPerfect {
		return s.walkPixels(smoothed)
	}
	return s.walkSpaced(smoothed)
}

// End finishes the gesture. The stroke can be reused with Start.
func (s *Stroke) End() {
	s.active = false
	s.carry = 0
}

// stabilize pulls raw input toward the previous smoothed position:
// pos = prev + (raw-prev) * (1 - 0.95*s). The 0.95 cap keeps a fully
// stabilized stroke from freezing in place.
func (s *Stroke) stabilize(raw paint.Point) paint.Point {
	st := s.opts.Stabilizer
	if st <= 0 {
		return raw
	}
	if st > 1 {
		st = 1
	}
	return s.prev.Add(raw.Sub(s.prev).Mul(1 - 0.95*st))
}

// walkSpaced emits dabs along the segment prev..to every spacing distance,
// carrying the remainder into the next segment so spacing stays even
// across input events.
func (s *Stroke) walkSpaced(to paint.Point) []paint.Point {
	spacing := s.opts.Spacing * s.opts.Diameter
	if spacing < minSpacingPx {
		spacing = minSpacingPx
	}

	seg := to.Sub(s.prev)
	segLen := seg.Length()
	if segLen == 0 {
		return nil
	}

	var dabs []paint.Point
	for t := spacing - s.carry; t <= segLen; t += spacing {
		dabs = append(dabs, s.jittered(s.prev.Lerp(to, t/segLen)))
	}
	s.carry = math.Mod(s.carry+segLen, spacing)
	s.prev = to
	return dabs
}

// walkPixels emits one dab per pixel along a Bresenham line from the last
// emitted pixel to the target, skipping the starting pixel.
func (s *Stroke) walkPixels(to paint.Point) []paint.Point {
	x0, y0 := s.lastPixel.x, s.lastPixel.y
	x1, y1 := pixelOf(to)
	s.prev = to
	if x0 == x1 && y0 == y1 {
		return nil
	}

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	errAcc := dx + dy

	var dabs []paint.Point
	x, y := x0, y0
	for x != x1 || y != y1 {
		e2 := 2 * errAcc
		if e2 >= dy {
			errAcc += dy
			x += sx
		}
		if e2 <= dx {
			errAcc += dx
			y += sy
		}
		dabs = append(dabs, paint.Pt(float64(x)+0.5, float64(y)+0.5))
	}
	s.lastPixel.x, s.lastPixel.y = x1, y1
	return dabs
}

// jittered scatters p by the configured jitter amount.
func (s *Stroke) jittered(p paint.Point) paint.Point {
	j := s.opts.Jitter * s.opts.Diameter
	if j <= 0 {
		return p
	}
	return paint.Pt(
		p.X+s.randFloat()*2*j-j,
		p.Y+s.randFloat()*2*j-j,
	)
}

func (s *Stroke) randFloat() float64 {
	if s.opts.Rand != nil {
		return s.opts.Rand.Float64()
	}
	return rand.Float64()
}

func pixelOf(p paint.Point) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
