package raster

import (
	"image"
	"image/color"
)

// FrameBuffer is the output surface, kept as a flat slice for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8 // RGBA interleaved, len = W*H*4
}

// NewFrameBuffer allocates a zeroed w×h color buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, w*h*4),
	}
}

// Empty reports whether the buffer has no pixels to write.
func (fb *FrameBuffer) Empty() bool {
	return fb == nil || fb.Width <= 0 || fb.Height <= 0 || len(fb.Color) < fb.Width*fb.Height*4
}

// Set writes one pixel. No bounds check beyond the slice's own.
func (fb *FrameBuffer) Set(x, y int, c color.NRGBA) {
	i := (y*fb.Width + x) * 4
	fb.Color[i] = c.R
	fb.Color[i+1] = c.G
	fb.Color[i+2] = c.B
	fb.Color[i+3] = c.A
}

// At returns the pixel at (x, y).
func (fb *FrameBuffer) At(x, y int) color.NRGBA {
	i := (y*fb.Width + x) * 4
	return color.NRGBA{fb.Color[i], fb.Color[i+1], fb.Color[i+2], fb.Color[i+3]}
}

// Image wraps the buffer as an *image.NRGBA sharing the same pixels.
func (fb *FrameBuffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    fb.Color,
		Stride: fb.Width * 4,
		Rect:   image.Rect(0, 0, fb.Width, fb.Height),
	}
}

// Premultiplied writes the buffer as premultiplied-alpha RGBA into dst,
// growing it if needed, and returns it. Display backends that take
// premultiplied pixels read from this instead of Color.
func (fb *FrameBuffer) Premultiplied(dst []uint8) []uint8 {
	n := len(fb.Color)
	if cap(dst) < n {
		dst = make([]uint8, n)
	}
	dst = dst[:n]
	for i := 0; i+3 < n; i += 4 {
		a := uint32(fb.Color[i+3])
		switch a {
		case 255:
			copy(dst[i:i+4], fb.Color[i:i+4])
		case 0:
			dst[i], dst[i+1], dst[i+2], dst[i+3] = 0, 0, 0, 0
		default:
			dst[i] = uint8((uint32(fb.Color[i])*a + 127) / 255)
			dst[i+1] = uint8((uint32(fb.Color[i+1])*a + 127) / 255)
			dst[i+2] = uint8((uint32(fb.Color[i+2])*a + 127) / 255)
			dst[i+3] = uint8(a)
		}
	}
	return dst
}
