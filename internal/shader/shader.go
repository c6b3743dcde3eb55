// Package shader carries the Kage version of the fisheye remap for the
// windowed viewer's GPU path. The program mirrors projection.Kernel and
// raster.SampleBilinear in float32.
package shader

import (
	_ "embed"
	"image/color"

	"fisheye-equirect/internal/projection"
)

//go:embed equirect_kage.go
var source []byte

// Source returns the Kage program text for ebiten.NewShader.
func Source() []byte {
	out := make([]byte, len(source))
	copy(out, source)
	return out
}

// Uniforms returns the uniform values for one frame. bg is converted to the
// premultiplied form ebiten images use.
func Uniforms(p projection.Params, bg color.NRGBA) map[string]any {
	a := float32(bg.A) / 255
	return map[string]any{
		"FOV":    float32(p.FOV),
		"Center": []float32{float32(p.Center.X), float32(p.Center.Y)},
		"Yaw":    float32(p.Yaw),
		"Pitch":  float32(p.Pitch),
		"Background": []float32{
			float32(bg.R) / 255 * a,
			float32(bg.G) / 255 * a,
			float32(bg.B) / 255 * a,
			a,
		},
	}
}
