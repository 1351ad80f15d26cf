package export

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: 255})
		}
	}
	return img
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, format := range []Format{PNG, JPEG, TIFF} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, testImage(), format, Options{}); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			decoded, name, err := image.Decode(&buf)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if name != format.String() {
				t.Errorf("decoded format = %q, want %q", name, format.String())
			}
			if got := decoded.Bounds(); got.Dx() != 8 || got.Dy() != 8 {
				t.Errorf("decoded bounds = %v, want 8x8", got)
			}
		})
	}
}

func TestEncodePNGLossless(t *testing.T) {
	src := testImage()
	var buf bytes.Buffer
	if err := Encode(&buf, src, PNG, Options{}); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, _, err := image.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := src.NRGBAAt(3, 5)
	r, g, b, _ := decoded.At(3, 5).RGBA()
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
		t.Errorf("pixel (3,5) = (%d, %d, %d), want (%d, %d, %d)",
			r>>8, g>>8, b>>8, want.R, want.G, want.B)
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testImage(), Format(99), Options{}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFormatExtension(t *testing.T) {
	cases := []struct {
		format Format
		want   string
	}{
		{PNG, ".png"},
		{JPEG, ".jpg"},
		{TIFF, ".tiff"},
	}
	for _, c := range cases {
		if got := c.format.Extension(); got != c.want {
			t.Errorf("%v.Extension() = %q, want %q", c.format, got, c.want)
		}
	}
}

func TestFormatForPath(t *testing.T) {
	cases := []struct {
		path string
		want Format
	}{
		{"out.png", PNG},
		{"out.PNG", PNG},
		{"photo.jpg", JPEG},
		{"photo.jpeg", JPEG},
		{"scan.tif", TIFF},
		{"scan.tiff", TIFF},
	}
	for _, c := range cases {
		got, err := FormatForPath(c.path)
		if err != nil {
			t.Errorf("FormatForPath(%q) error: %v", c.path, err)
			continue
		}
		if got != c.want {
			t.Errorf("FormatForPath(%q) = %v, want %v", c.path, got, c.want)
		}
	}

	if _, err := FormatForPath("notes.txt"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
