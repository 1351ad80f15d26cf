// Command paintdemo paints a brush-stroke demo image.
//
// By default it rasterizes on the CPU; with -gpu it opens a device and
// stamps the dabs through the render pipeline instead.
package main

import (
	"flag"
	"image"
	"log"
	"math"
	"os"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/export"
	"github.com/gogpu/paint/painter"
)

func main() {
	var (
		width  = flag.Int("width", 800, "canvas width")
		height = flag.Int("height", 600, "canvas height")
		output = flag.String("output", "demo.png", "output file (.png, .jpg, .tiff)")
		useGPU = flag.Bool("gpu", false, "render on the GPU")
	)
	flag.Parse()

	format, err := export.FormatForPath(*output)
	if err != nil {
		log.Fatalf("Bad output path: %v", err)
	}

	var img *image.NRGBA
	if *useGPU {
		img, err = renderGPU(uint32(*width), uint32(*height))
	} else {
		img, err = renderCPU(*width, *height)
	}
	if err != nil {
		log.Fatalf("Render failed: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create file: %v", err)
	}
	defer f.Close()

	if err := export.Encode(f, img, format, export.Options{}); err != nil {
		log.Fatalf("Failed to encode: %v", err)
	}

	log.Printf("Demo saved to %s (%dx%d)\n", *output, *width, *height)
}

// demoDabs lays out a spiral of discs with a square border, in canvas
// normalized coordinates.
func demoDabs() []struct {
	dab   paint.Dab
	shape paint.Shape
} {
	var out []struct {
		dab   paint.Dab
		shape paint.Shape
	}

	// Spiral of discs, hue shifting along the arc.
	for i := 0; i < 120; i++ {
		t := float64(i) / 120
		angle := t * 6 * math.Pi
		r := 0.05 + t*0.35
		out = append(out, struct {
			dab   paint.Dab
			shape paint.Shape
		}{
			dab: paint.Dab{
				Color:    paint.RGB(0.2+0.8*t, 0.3, 1-0.8*t),
				Position: paint.Pt(0.5+r*math.Cos(angle), 0.5+r*math.Sin(angle)),
				Radius:   0.01 + 0.02*t,
			},
			shape: paint.Disc{},
		})
	}

	// Square stamps along the top edge.
	for i := 0; i < 9; i++ {
		out = append(out, struct {
			dab   paint.Dab
			shape paint.Shape
		}{
			dab: paint.Dab{
				Color:    paint.RGB(0.1, 0.6, 0.3),
				Position: paint.Pt(0.1+float64(i)*0.1, 0.05),
				Radius:   0.025,
			},
			shape: paint.Square{},
		})
	}
	return out
}

func renderCPU(width, height int) (*image.NRGBA, error) {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for _, d := range demoDabs() {
		paint.Stamp(img, d.dab, d.shape)
	}
	return img, nil
}

func renderGPU(width, height uint32) (*image.NRGBA, error) {
	device, queue, cleanup, err := painter.OpenDevice()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	p, err := painter.New(device, queue, painter.Options{
		CanvasWidth:  width,
		CanvasHeight: height,
		Background:   paint.White,
	})
	if err != nil {
		return nil, err
	}
	defer p.Close()

	w, h := float64(width), float64(height)
	minDim := math.Min(w, h)
	for _, d := range demoDabs() {
		p.SetBrush(painter.Brush{
			Color:    d.dab.Color,
			RadiusPx: d.dab.Radius * minDim,
			Shape:    d.shape,
		})
		err := p.StampAt(paint.Pt(d.dab.Position.X*w, d.dab.Position.Y*h))
		if err != nil {
			return nil, err
		}
	}
	return p.Image()
}
