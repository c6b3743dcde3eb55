package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample reduces img to w×h with CatmullRom filtering in premultiplied
// alpha, so a translucent background does not bleed dark fringes into the
// edge of the lens circle. Images already no larger than w×h are returned
// unchanged.
func Downsample(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= w && b.Dy() <= h {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premultiply(img), b, draw.Src, nil)
	return unpremultiply(dst)
}

func premultiply(img *image.NRGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := img.PixOffset(b.Min.X, y)
		di := out.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			a := float64(img.Pix[si+3]) / 255
			for c := 0; c < 3; c++ {
				out.Pix[di+c] = uint8(float64(img.Pix[si+c])*a + 0.5)
			}
			out.Pix[di+3] = img.Pix[si+3]
			si += 4
			di += 4
		}
	}
	return out
}

func unpremultiply(img *image.RGBA) *image.NRGBA {
	out := image.NewNRGBA(img.Rect)
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := float64(img.Pix[i+3])
		if a > 1 {
			inv := 255 / a
			for c := 0; c < 3; c++ {
				out.Pix[i+c] = clamp8(float64(img.Pix[i+c]) * inv)
			}
		}
		out.Pix[i+3] = img.Pix[i+3]
	}
	return out
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
