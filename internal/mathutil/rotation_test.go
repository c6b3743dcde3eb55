package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const tol = 1e-12

func assertVec(t *testing.T, want, got Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, "component %d", i)
	}
}

func TestViewRotationForward(t *testing.T) {
	fwd := Vec3{0, 0, 1}

	assertVec(t, fwd, ViewRotation(0, 0).MulVec3(fwd))
	assertVec(t, Vec3{1, 0, 0}, ViewRotation(math.Pi/2, 0).MulVec3(fwd))
	assertVec(t, Vec3{0, 1, 0}, ViewRotation(0, math.Pi/2).MulVec3(fwd))
	assertVec(t, Vec3{0, -1, 0}, ViewRotation(0, -math.Pi/2).MulVec3(fwd))
}

func TestViewRotationOrthonormal(t *testing.T) {
	m := ViewRotation(0.7, -0.3)
	basis := []Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	var cols [3]Vec3
	for i, e := range basis {
		cols[i] = m.MulVec3(e)
		assert.InDelta(t, 1.0, cols[i].Len(), tol)
	}
	for i := 0; i < 3; i++ {
		a, b := cols[i], cols[(i+1)%3]
		assert.InDelta(t, 0.0, a[0]*b[0]+a[1]*b[1]+a[2]*b[2], tol, "columns %d,%d", i, (i+1)%3)
	}
	v := SphereDir(1.1, 0.4)
	assert.InDelta(t, 1.0, m.MulVec3(v).Len(), tol)
}

func TestSphereDir(t *testing.T) {
	assertVec(t, Vec3{0, 0, 1}, SphereDir(0, 0))
	assertVec(t, Vec3{1, 0, 0}, SphereDir(math.Pi/2, 0))
	assertVec(t, Vec3{0, 1, 0}, SphereDir(0, math.Pi/2))
	assertVec(t, Vec3{0, 0, -1}, SphereDir(math.Pi, 0))
	assert.InDelta(t, 1.0, SphereDir(-2.2, 1.3).Len(), tol)
}

func TestClampAndDegrees(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(1.0000001, -1, 1))
	assert.Equal(t, -1.0, Clamp(-3, -1, 1))
	assert.Equal(t, 0.25, Clamp(0.25, -1, 1))
	assert.InDelta(t, math.Pi, Deg2Rad(180), tol)
	assert.InDelta(t, 90.0, Rad2Deg(math.Pi/2), tol)
}
