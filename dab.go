package paint

// Dab describes one brush stamp: a colored mark of a given radius centered
// at a canvas-normalized position. A Dab is constructed per stamp, consumed
// by exactly one draw, and discarded; nothing in this package retains it.
//
// Position lives in canvas-normalized space: [0,1]x[0,1] with (0,0) at the
// top-left of the canvas. Radius is expressed in the same normalized units.
//
// The caller owns the preconditions: Radius must be positive and Color
// channels are expected in [0,1]. Neither is validated here -- a
// non-positive radius produces degenerate zero-area geometry and NaN inputs
// are undefined behavior, matching the GPU pipeline's contract.
type Dab struct {
	// Color is the stamp color, straight (non-premultiplied) alpha.
	Color RGBA

	// Position is the stamp center in canvas-normalized coordinates.
	Position Point

	// Radius is half the stamp's side (square) or its radius (disc),
	// in canvas-normalized units.
	Radius float64
}

// WorldCorner returns corner i (0..3) of the axis-aligned square of side
// 2*Radius centered at Position, in canvas-normalized coordinates. The four
// corners, emitted in index order as a triangle strip, cover the stamp quad:
//
//	i=0 -> (-1,-1)  i=1 -> (+1,-1)  i=2 -> (-1,+1)  i=3 -> (+1,+1)
//
// This is the CPU mirror of the vertex stage's procedural quad; the GPU
// shaders compute the same corners from the built-in vertex index.
func (d Dab) WorldCorner(i int) Point {
	x := float64(i%2*2 - 1)
	y := float64(i/2*2 - 1)
	return Point{
		X: d.Position.X + x*d.Radius,
		Y: d.Position.Y + y*d.Radius,
	}
}

// ClipCorner returns corner i (0..3) of the stamp quad in clip space.
// See ClipFromWorld for the mapping.
func (d Dab) ClipCorner(i int) Point {
	return ClipFromWorld(d.WorldCorner(i))
}

// ClipFromWorld converts a canvas-normalized coordinate to clip space:
//
//	clip.x = w.x*2 - 1
//	clip.y = 1 - w.y*2
//
// x maps [0,1] to [-1,1]; y is flipped so that normalized y=0 (canvas top)
// lands at clip y=1 (top of the render target). The view transform is
// deliberately not part of this mapping: dab draws bind it but do not apply
// it, so a dab's on-target location depends only on its own parameters.
func ClipFromWorld(w Point) Point {
	return Point{X: w.X*2 - 1, Y: 1 - w.Y*2}
}

// WorldFromClip is the inverse of ClipFromWorld.
func WorldFromClip(c Point) Point {
	return Point{X: (c.X + 1) / 2, Y: (1 - c.Y) / 2}
}
