package projection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectCenterMapsToOpticalCenter(t *testing.T) {
	for _, c := range []Point{{0.5, 0.5}, {0.3, 0.62}, {0, 1}} {
		p := DefaultParams()
		p.Center = c
		res := Project(0, 0, p)
		require.True(t, res.Covered)
		assert.Equal(t, 0.0, res.R)
		assert.Equal(t, c.X, res.S)
		assert.Equal(t, c.Y, res.T)
	}
}

func TestProjectHalfSphereZenithIsOnBoundary(t *testing.T) {
	res := Project(0, 1, DefaultParams())
	require.True(t, res.Covered, "θ == FOV/2 must be covered")
	assert.InDelta(t, 1.0, res.R, 1e-12)
	assert.InDelta(t, 0.5, res.S, 1e-9)
	assert.InDelta(t, 1.0, res.T, 1e-9)
}

func TestProjectCardinalDirections(t *testing.T) {
	p := DefaultParams()
	cases := []struct {
		name string
		u, v float64
		s, t float64
	}{
		{"right", 0.5, 0, 1, 0.5},
		{"left", -0.5, 0, 0, 0.5},
		{"down", 0, -1, 0.5, 0},
		{"halfway right", 0.25, 0, 0.75, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Project(tc.u, tc.v, p)
			require.True(t, res.Covered)
			assert.InDelta(t, tc.s, res.S, 1e-9)
			assert.InDelta(t, tc.t, res.T, 1e-9)
		})
	}
}

func TestProjectBehindCameraHasNoCoverage(t *testing.T) {
	p := DefaultParams()
	for _, u := range []float64{-1, -0.9, 0.75, 1} {
		res := Project(u, 0, p)
		assert.False(t, res.Covered, "u=%v", u)
		assert.Equal(t, Result{}, res)
	}
}

func TestProjectFullSphereLensCoversEverything(t *testing.T) {
	p := DefaultParams()
	p.FOV = 2 * math.Pi
	for u := -1.0; u <= 1.0; u += 0.125 {
		for v := -1.0; v <= 1.0; v += 0.125 {
			assert.True(t, Project(u, v, p).Covered, "u=%v v=%v", u, v)
		}
	}
}

func TestProjectNeverReturnsNaN(t *testing.T) {
	fovs := []float64{math.Pi / 3, math.Pi, 1.2 * math.Pi, 2 * math.Pi}
	offsets := [][2]float64{{0, 0}, {0.4, -0.2}, {math.Pi, math.Pi / 2}}
	const n = 64
	for _, fov := range fovs {
		for _, off := range offsets {
			p := DefaultParams()
			p.FOV = fov
			p.Yaw, p.Pitch = off[0], off[1]
			k := p.Kernel()
			for i := 0; i <= n; i++ {
				for j := 0; j <= n; j++ {
					u := -1 + 2*float64(i)/n
					v := -1 + 2*float64(j)/n
					res := k.Project(u, v)
					if !res.Covered {
						continue
					}
					for _, f := range []float64{res.S, res.T, res.R} {
						if math.IsNaN(f) || math.IsInf(f, 0) {
							t.Fatalf("fov=%v off=%v (%v,%v): non-finite result %+v", fov, off, u, v, res)
						}
					}
					assert.LessOrEqual(t, res.R, 1.0)
				}
			}
		}
	}
}

func TestProjectRadiusIsLinearInAngle(t *testing.T) {
	p := DefaultParams()
	p.FOV = math.Pi * 0.8
	// Along the equator θ == |λ| so r == |u|·π / (FOV/2).
	for _, u := range []float64{0.05, 0.1, 0.2, 0.3, 0.4} {
		res := Project(u, 0, p)
		require.True(t, res.Covered)
		assert.InDelta(t, u*math.Pi/(p.FOV/2), res.R, 1e-12)
	}
	assert.False(t, Project(0.41, 0, p).Covered)
}

func TestProjectViewOffset(t *testing.T) {
	p := DefaultParams()
	p.Yaw = math.Pi / 2

	// Looking 90° right, the output center sees the right edge of the lens circle.
	res := Project(0, 0, p)
	require.True(t, res.Covered)
	assert.InDelta(t, 1.0, res.R, 1e-12)
	assert.InDelta(t, 1.0, res.S, 1e-9)
	assert.InDelta(t, 0.5, res.T, 1e-9)

	// The lens axis now sits 90° to the left of the output center.
	res = Project(-0.5, 0, p)
	require.True(t, res.Covered)
	assert.InDelta(t, 0.0, res.R, 1e-9)

	p = DefaultParams()
	p.Pitch = math.Pi / 4
	res = Project(0, 0, p)
	require.True(t, res.Covered)
	assert.InDelta(t, 0.5, res.R, 1e-12)
	assert.InDelta(t, 0.5, res.S, 1e-9)
	assert.InDelta(t, 0.75, res.T, 1e-9)
}

func TestKernelMatchesProject(t *testing.T) {
	p := Params{FOV: 3.5, Center: Point{0.48, 0.51}, Yaw: 0.3, Pitch: -0.1}
	k := p.Kernel()
	for _, uv := range [][2]float64{{0, 0}, {0.3, -0.7}, {-0.99, 0.99}} {
		assert.Equal(t, Project(uv[0], uv[1], p), k.Project(uv[0], uv[1]))
	}
}

func TestProjectOpticalAxisWithTinyFOV(t *testing.T) {
	for _, fov := range []float64{math.SmallestNonzeroFloat64, 1e-300} {
		p := Params{FOV: fov, Center: Point{0.3, 0.7}}
		res := Project(0, 0, p)
		require.True(t, res.Covered, "fov=%v", fov)
		assert.Equal(t, 0.3, res.S)
		assert.Equal(t, 0.7, res.T)
		assert.Zero(t, res.R)

		assert.False(t, Project(0.5, 0, p).Covered, "fov=%v", fov)
	}
}
