package projection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	bad := []Params{
		{FOV: 0, Center: Point{0.5, 0.5}},
		{FOV: -1, Center: Point{0.5, 0.5}},
		{FOV: 7, Center: Point{0.5, 0.5}},
		{FOV: math.NaN(), Center: Point{0.5, 0.5}},
		{FOV: math.SmallestNonzeroFloat64, Center: Point{0.5, 0.5}},
		{FOV: math.Pi, Center: Point{math.Inf(1), 0.5}},
		{FOV: math.Pi, Center: Point{0.5, 0.5}, Yaw: math.NaN()},
	}
	for _, p := range bad {
		assert.ErrorIs(t, p.Validate(), ErrInvalidParams, "%+v", p)
	}
}

func TestPointerOffset(t *testing.T) {
	yaw, pitch := PointerOffset(0.5, 0.5)
	assert.Equal(t, 0.0, yaw)
	assert.Equal(t, 0.0, pitch)

	yaw, pitch = PointerOffset(1, 0)
	assert.InDelta(t, math.Pi, yaw, 1e-12)
	assert.InDelta(t, math.Pi/2, pitch, 1e-12)

	yaw, pitch = PointerOffset(0, 1)
	assert.InDelta(t, -math.Pi, yaw, 1e-12)
	assert.InDelta(t, -math.Pi/2, pitch, 1e-12)

	// Out of range positions are clamped.
	yaw, pitch = PointerOffset(-3, 9)
	assert.InDelta(t, -math.Pi, yaw, 1e-12)
	assert.InDelta(t, -math.Pi/2, pitch, 1e-12)
	yaw, _ = PointerOffset(math.NaN(), 0.5)
	assert.InDelta(t, -math.Pi, yaw, 1e-12)
}

func TestNDC(t *testing.T) {
	u, v := NDC(0, 0, 4, 2)
	assert.Equal(t, -0.75, u)
	assert.Equal(t, 0.5, v)

	u, v = NDC(3, 1, 4, 2)
	assert.Equal(t, 0.75, u)
	assert.Equal(t, -0.5, v)

	// Odd sizes put the middle pixel exactly on the axis.
	u, v = NDC(2, 1, 5, 3)
	assert.Equal(t, 0.0, u)
	assert.Equal(t, 0.0, v)
}
