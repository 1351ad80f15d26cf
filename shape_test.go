package paint

import "testing"

func TestSquareCoversEverything(t *testing.T) {
	d := Dab{Position: Pt(0.5, 0.5), Radius: 0.1}
	sq := Square{}

	pts := []Point{
		d.Position,
		Pt(0.4, 0.4), // corner
		Pt(0.58, 0.58),
	}
	for _, p := range pts {
		if !sq.Covers(p, d) {
			t.Errorf("Square.Covers(%v, %v) = false, want true", p.X, p.Y)
		}
	}
}

func TestDiscBoundaryInclusive(t *testing.T) {
	d := Dab{Position: Pt(0.5, 0.5), Radius: 0.1}
	disc := Disc{}

	// Exactly on the boundary: distance == radius must be covered.
	if !disc.Covers(Pt(0.5, 0.6), d) {
		t.Error("Disc.Covers at distance == radius = false, want true")
	}
	if !disc.Covers(d.Position, d) {
		t.Error("Disc.Covers at center = false, want true")
	}
}

func TestDiscRejectsOutside(t *testing.T) {
	d := Dab{Position: Pt(0.5, 0.5), Radius: 0.1}
	disc := Disc{}

	// Inside the quad but outside the disc (corner region).
	if disc.Covers(Pt(0.58, 0.58), d) {
		t.Error("Disc.Covers outside radius = true, want false")
	}
	if disc.Covers(Pt(0.4, 0.4), d) {
		t.Error("Disc.Covers at quad corner = true, want false")
	}
}

func TestDiscSubsetOfSquare(t *testing.T) {
	d := Dab{Position: Pt(0.3, 0.7), Radius: 0.15}
	sq, disc := Square{}, Disc{}

	// Sample a grid over the quad: every disc-covered point must also be
	// square-covered.
	for i := 0; i <= 20; i++ {
		for j := 0; j <= 20; j++ {
			p := Pt(
				d.Position.X-d.Radius+float64(i)/20*2*d.Radius,
				d.Position.Y-d.Radius+float64(j)/20*2*d.Radius,
			)
			if disc.Covers(p, d) && !sq.Covers(p, d) {
				t.Fatalf("disc covers (%v, %v) but square does not", p.X, p.Y)
			}
		}
	}
}

func TestShapeNames(t *testing.T) {
	if got := (Square{}).Name(); got != "square" {
		t.Errorf("Square.Name() = %q, want %q", got, "square")
	}
	if got := (Disc{}).Name(); got != "disc" {
		t.Errorf("Disc.Name() = %q, want %q", got, "disc")
	}
}
