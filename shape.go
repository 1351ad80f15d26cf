package paint

// Shape is a stamp shape: it supplies the per-fragment masking rule that
// decides which pixels inside a dab's quad receive the dab color. All shapes
// share the same quad geometry (see Dab.WorldCorner); only the mask differs.
//
// Covers is the CPU form of the mask, used by the software raster path and
// by tests. The GPU path selects the matching WGSL fragment program by
// Name(); the two must agree: a world point covered on the CPU must be
// colored by the GPU program and vice versa.
type Shape interface {
	// Name identifies the shape. The GPU layer uses it to pick the shape's
	// fragment program and it appears in pipeline labels and log output.
	Name() string

	// Covers reports whether the world-space point w inside the dab's quad
	// receives the dab color. Points outside the quad are never tested.
	Covers(w Point, d Dab) bool
}

// Square fills the entire stamp quad unconditionally.
type Square struct{}

func (Square) Name() string { return "square" }

// Covers always reports true: every quad fragment is colored.
func (Square) Covers(Point, Dab) bool { return true }

// Disc keeps fragments within Radius of the dab center and discards the
// rest. The boundary is inclusive: a point at exactly distance Radius is
// colored, so the disc's pixel set is a subset of the square's.
type Disc struct{}

func (Disc) Name() string { return "disc" }

func (Disc) Covers(w Point, d Dab) bool {
	return w.Distance(d.Position) <= d.Radius
}
