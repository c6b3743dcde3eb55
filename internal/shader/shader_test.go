package shader

import (
	"image/color"
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fisheye-equirect/internal/projection"
)

var uniformDecl = regexp.MustCompile(`(?m)^var ([A-Z]\w*) `)

func TestUniformsMatchProgram(t *testing.T) {
	src := string(Source())
	require.Contains(t, src, "//kage:unit pixels")
	require.Contains(t, src, "func Fragment(")

	var declared []string
	for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
		declared = append(declared, m[1])
	}
	u := Uniforms(projection.DefaultParams(), color.NRGBA{A: 255})

	var keys []string
	for k := range u {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, declared, keys)
}

func TestUniformsValues(t *testing.T) {
	p := projection.Params{FOV: math.Pi, Center: projection.Point{X: 0.25, Y: 0.75}, Yaw: 0.5, Pitch: -0.5}
	u := Uniforms(p, color.NRGBA{255, 0, 128, 128})

	assert.Equal(t, float32(math.Pi), u["FOV"])
	assert.Equal(t, []float32{0.25, 0.75}, u["Center"])
	assert.Equal(t, float32(0.5), u["Yaw"])
	assert.Equal(t, float32(-0.5), u["Pitch"])

	bg := u["Background"].([]float32)
	require.Len(t, bg, 4)
	assert.InDelta(t, 128.0/255, bg[0], 1e-6)
	assert.InDelta(t, 0, bg[1], 1e-6)
	assert.InDelta(t, 128.0/255*128.0/255, bg[2], 1e-6)
	assert.InDelta(t, 128.0/255, bg[3], 1e-6)
}

func TestSourceIsCopied(t *testing.T) {
	a := Source()
	a[0] = 'X'
	assert.NotEqual(t, a[0], Source()[0])
}
