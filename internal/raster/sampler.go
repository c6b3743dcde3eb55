package raster

import (
	"image"
	"image/color"
	"math"
)

// SampleBilinear blends the four texel centers nearest to (s, t) and returns
// the result as NRGBA. s runs left to right and t top to bottom, both
// normalized to [0, 1]; texel i has its center at (i+0.5)/dim. Coordinates
// and texel indices are clamped to the image, so edges and corners repeat the
// border texel instead of reading outside tex.Pix.
// Accesses tex.Pix directly for performance.
func SampleBilinear(tex *image.NRGBA, s, t float64) color.NRGBA {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()

	fx := clampUnit(s)*float64(w) - 0.5
	fy := clampUnit(t)*float64(h) - 0.5
	bx := math.Floor(fx)
	by := math.Floor(fy)
	dx := fx - bx
	dy := fy - by

	x0 := clampIndex(int(bx), w)
	x1 := clampIndex(int(bx)+1, w)
	y0 := clampIndex(int(by), h)
	y1 := clampIndex(int(by)+1, h)

	stride := tex.Stride
	pix := tex.Pix

	// Four texels
	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out [4]uint8
	for c := 0; c < 4; c++ {
		v := float64(pix[i00+c])*w00 + float64(pix[i10+c])*w10 +
			float64(pix[i01+c])*w01 + float64(pix[i11+c])*w11
		out[c] = round8(v)
	}
	return color.NRGBA{out[0], out[1], out[2], out[3]}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// clampUnit also maps NaN to 0.
func clampUnit(f float64) float64 {
	if !(f > 0) {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func round8(v float64) uint8 {
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
