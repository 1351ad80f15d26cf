package paint

import (
	"image"
	"math"
)

// Stamp renders a dab into dst on the CPU, the software mirror of the GPU
// dab pipelines. Pixel centers are sampled: pixel (px,py) maps to the world
// point ((px+0.5)/W, (py+0.5)/H), row 0 being the canvas top, so no y-flip
// happens here (the flip belongs to the clip-space mapping, which the CPU
// path never enters). Covered pixels are composited source-over with the
// dab color; pixels outside the stamp quad or rejected by the shape's mask
// are left untouched.
//
// Stamp is the reference implementation the GPU path is tested against and
// the fallback when no device is available.
func Stamp(dst *image.NRGBA, d Dab, s Shape) {
	b := dst.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())
	if w == 0 || h == 0 || d.Radius <= 0 {
		return
	}

	// Quad footprint in pixel coordinates, clipped to the image.
	x0 := int(math.Floor((d.Position.X - d.Radius) * w))
	x1 := int(math.Ceil((d.Position.X + d.Radius) * w))
	y0 := int(math.Floor((d.Position.Y - d.Radius) * h))
	y1 := int(math.Ceil((d.Position.Y + d.Radius) * h))
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > b.Dx() {
		x1 = b.Dx()
	}
	if y1 > b.Dy() {
		y1 = b.Dy()
	}

	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			wp := Point{
				X: (float64(px) + 0.5) / w,
				Y: (float64(py) + 0.5) / h,
			}
			if math.Abs(wp.X-d.Position.X) > d.Radius ||
				math.Abs(wp.Y-d.Position.Y) > d.Radius {
				continue
			}
			if !s.Covers(wp, d) {
				continue
			}
			blendPixel(dst, b.Min.X+px, b.Min.Y+py, d.Color)
		}
	}
}

// blendPixel composites c over the existing pixel (source-over, straight
// alpha, matching the GPU blend state SrcAlpha/OneMinusSrcAlpha).
func blendPixel(dst *image.NRGBA, x, y int, c RGBA) {
	if c.A >= 1 {
		off := dst.PixOffset(x, y)
		dst.Pix[off+0] = uint8(clamp255(c.R * 255))
		dst.Pix[off+1] = uint8(clamp255(c.G * 255))
		dst.Pix[off+2] = uint8(clamp255(c.B * 255))
		dst.Pix[off+3] = 255
		return
	}
	if c.A <= 0 {
		return
	}

	off := dst.PixOffset(x, y)
	er := float64(dst.Pix[off+0]) / 255
	eg := float64(dst.Pix[off+1]) / 255
	eb := float64(dst.Pix[off+2]) / 255
	ea := float64(dst.Pix[off+3]) / 255

	inv := 1 - c.A
	outA := c.A + ea*inv
	if outA <= 0 {
		return
	}
	outR := (c.R*c.A + er*ea*inv) / outA
	outG := (c.G*c.A + eg*ea*inv) / outA
	outB := (c.B*c.A + eb*ea*inv) / outA

	dst.Pix[off+0] = uint8(clamp255(outR * 255))
	dst.Pix[off+1] = uint8(clamp255(outG * 255))
	dst.Pix[off+2] = uint8(clamp255(outB * 255))
	dst.Pix[off+3] = uint8(clamp255(outA * 255))
}
