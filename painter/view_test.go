package painter

import (
	"math"
	"testing"

	"github.com/gogpu/paint"
)

const viewEps = 1e-9

func TestNewViewIsIdentity(t *testing.T) {
	v := NewView()
	if !v.Matrix().IsIdentity() {
		t.Errorf("NewView().Matrix() = %+v, want identity", v.Matrix())
	}
}

func TestViewZoomClamp(t *testing.T) {
	if got := NewView().Zoomed(0.001).Zoom; got != MinZoom {
		t.Errorf("Zoomed(0.001) = %v, want %v", got, MinZoom)
	}
	if got := NewView().Zoomed(1000).Zoom; got != MaxZoom {
		t.Errorf("Zoomed(1000) = %v, want %v", got, MaxZoom)
	}
	if got := NewView().Zoomed(2).Zoom; got != 2 {
		t.Errorf("Zoomed(2) = %v, want 2", got)
	}
}

func TestCursorToCanvasIdentity(t *testing.T) {
	v := NewView()

	cases := []struct {
		cursor paint.Point
		want   paint.Point
	}{
		{paint.Pt(400, 300), paint.Pt(0.5, 0.5)}, // center
		{paint.Pt(0, 0), paint.Pt(0, 0)},         // top-left
		{paint.Pt(800, 600), paint.Pt(1, 1)},     // bottom-right
	}
	for _, c := range cases {
		got := v.CursorToCanvas(c.cursor, 800, 600)
		if math.Abs(got.X-c.want.X) > viewEps || math.Abs(got.Y-c.want.Y) > viewEps {
			t.Errorf("CursorToCanvas(%v, %v) = (%v, %v), want (%v, %v)",
				c.cursor.X, c.cursor.Y, got.X, got.Y, c.want.X, c.want.Y)
		}
	}
}

func TestCursorToCanvasZoomed(t *testing.T) {
	v := NewView().Zoomed(2)

	// Zoomed 2x around the center: the target's right edge midpoint lands
	// three quarters across the canvas.
	got := v.CursorToCanvas(paint.Pt(800, 300), 800, 600)
	if math.Abs(got.X-0.75) > viewEps || math.Abs(got.Y-0.5) > viewEps {
		t.Errorf("zoomed cursor mapping = (%v, %v), want (0.75, 0.5)", got.X, got.Y)
	}

	// The center is a fixed point of pure zoom.
	got = v.CursorToCanvas(paint.Pt(400, 300), 800, 600)
	if math.Abs(got.X-0.5) > viewEps || math.Abs(got.Y-0.5) > viewEps {
		t.Errorf("center under zoom = (%v, %v), want (0.5, 0.5)", got.X, got.Y)
	}
}

func TestCursorToCanvasPanned(t *testing.T) {
	// Pan the canvas half a target width to the right: the cursor at the
	// target center now points at the canvas's left edge midpoint.
	v := View{Pan: paint.Pt(1, 0), Zoom: 1}

	got := v.CursorToCanvas(paint.Pt(400, 300), 800, 600)
	if math.Abs(got.X-0) > viewEps || math.Abs(got.Y-0.5) > viewEps {
		t.Errorf("panned cursor mapping = (%v, %v), want (0, 0.5)", got.X, got.Y)
	}
}

func TestViewMatrixRoundTrip(t *testing.T) {
	v := View{Pan: paint.Pt(0.3, -0.2), Zoom: 1.5, Rotation: 0.4}
	m := v.Matrix()
	inv := m.Invert()

	p := paint.Pt(0.2, -0.6)
	got := inv.TransformPoint(m.TransformPoint(p))
	if math.Abs(got.X-p.X) > viewEps || math.Abs(got.Y-p.Y) > viewEps {
		t.Errorf("view matrix round trip of (%v, %v) = (%v, %v)", p.X, p.Y, got.X, got.Y)
	}
}
