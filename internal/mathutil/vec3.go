package mathutil

import "math"

// Vec3 is a 3-component vector (value type, stack-allocated).
type Vec3 [3]float64

func (v Vec3) Len() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// SphereDir returns the unit direction for longitude lon and latitude lat (radians).
// +Z is straight ahead, +X right, +Y up.
func SphereDir(lon, lat float64) Vec3 {
	cl := math.Cos(lat)
	return Vec3{cl * math.Sin(lon), math.Sin(lat), cl * math.Cos(lon)}
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
