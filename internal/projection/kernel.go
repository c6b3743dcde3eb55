package projection

import (
	"math"

	"fisheye-equirect/internal/mathutil"
)

// coverageEpsilon keeps θ == FOV/2 inside the disk despite acos rounding.
const coverageEpsilon = 1e-12

// Result is the kernel output for one output pixel. When Covered is false
// S, T and R are zero and must not be sampled.
type Result struct {
	Covered bool
	S, T    float64 // normalized fisheye coordinates, T grows upward
	R       float64 // normalized fisheye radius in [0, 1]
}

// Kernel is a Params snapshot with the per-frame constants precomputed.
type Kernel struct {
	halfFOV float64
	center  Point
	rotate  bool
	rot     mathutil.Mat3
}

// Kernel precomputes the constants for p. p must be valid.
func (p Params) Kernel() Kernel {
	k := Kernel{
		halfFOV: p.FOV / 2,
		center:  p.Center,
	}
	if p.Yaw != 0 || p.Pitch != 0 {
		k.rotate = true
		k.rot = p.Rotation()
	}
	return k
}

// Project maps the equirectangular coordinate (u, v) ∈ [-1, 1]² to the
// fisheye sampling coordinate using the equidistant lens model.
func Project(u, v float64, p Params) Result {
	return p.Kernel().Project(u, v)
}

// Project maps (u, v) to a fisheye coordinate. See the package-level Project.
func (k Kernel) Project(u, v float64) Result {
	lon := u * math.Pi
	lat := v * math.Pi / 2

	d := mathutil.SphereDir(lon, lat)
	if k.rotate {
		d = k.rot.MulVec3(d)
	}

	// Clamp before acos: poles and rotated vectors can land a hair outside [-1, 1].
	theta := math.Acos(mathutil.Clamp(d[2], -1, 1))
	if theta == 0 {
		return Result{Covered: true, S: k.center.X, T: k.center.Y}
	}
	r := theta / k.halfFOV
	if !(r <= 1+coverageEpsilon) {
		return Result{}
	}
	if r > 1 {
		r = 1
	}

	psi := math.Atan2(d[1], d[0])
	return Result{
		Covered: true,
		S:       k.center.X + r*math.Cos(psi)*0.5,
		T:       k.center.Y + r*math.Sin(psi)*0.5,
		R:       r,
	}
}
