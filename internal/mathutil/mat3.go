package mathutil

// Mat3 is a row-major 3×3 rotation, passed by value so a kernel snapshot
// carries its own copy.
type Mat3 [9]float64

// Mat3Mul returns a × b.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for i := 0; i < 9; i++ {
		row, col := i/3*3, i%3
		m[i] = a[row]*b[col] + a[row+1]*b[3+col] + a[row+2]*b[6+col]
	}
	return m
}

// MulVec3 returns M × v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}
