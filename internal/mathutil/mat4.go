package mathutil

// Mat4 is a 4×4 matrix stored row-major. Vectors are column vectors,
// transformed by right-multiplication (M × v).
type Mat4 [16]float32

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// MulPoint transforms a 3D point (w=1) by the 4×4 matrix.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11],
	}
}

// MulDir transforms a direction (w=0), ignoring translation.
func (m Mat4) MulDir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2],
	}
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3]*v[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7]*v[3],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11]*v[3],
		m[12]*v[0] + m[13]*v[1] + m[14]*v[2] + m[15]*v[3],
	}
}

func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// Inverse returns the general matrix inverse via the adjugate.
// Returns identity for singular matrices.
func (m Mat4) Inverse() Mat4 {
	// 2×2 subdeterminants of the lower two rows.
	s0 := m[8]*m[13] - m[9]*m[12]
	s1 := m[8]*m[14] - m[10]*m[12]
	s2 := m[8]*m[15] - m[11]*m[12]
	s3 := m[9]*m[14] - m[10]*m[13]
	s4 := m[9]*m[15] - m[11]*m[13]
	s5 := m[10]*m[15] - m[11]*m[14]

	// 2×2 subdeterminants of the upper two rows.
	c0 := m[0]*m[5] - m[1]*m[4]
	c1 := m[0]*m[6] - m[2]*m[4]
	c2 := m[0]*m[7] - m[3]*m[4]
	c3 := m[1]*m[6] - m[2]*m[5]
	c4 := m[1]*m[7] - m[3]*m[5]
	c5 := m[2]*m[7] - m[3]*m[6]

	det := c0*s5 - c1*s4 + c2*s3 + c3*s2 - c4*s1 + c5*s0
	if det > -1e-20 && det < 1e-20 {
		return Mat4Identity()
	}
	invDet := 1 / det

	return Mat4{
		(m[5]*s5 - m[6]*s4 + m[7]*s3) * invDet,
		(-m[1]*s5 + m[2]*s4 - m[3]*s3) * invDet,
		(m[13]*c5 - m[14]*c4 + m[15]*c3) * invDet,
		(-m[9]*c5 + m[10]*c4 - m[11]*c3) * invDet,

		(-m[4]*s5 + m[6]*s2 - m[7]*s1) * invDet,
		(m[0]*s5 - m[2]*s2 + m[3]*s1) * invDet,
		(-m[12]*c5 + m[14]*c2 - m[15]*c1) * invDet,
		(m[8]*c5 - m[10]*c2 + m[11]*c1) * invDet,

		(m[4]*s4 - m[5]*s2 + m[7]*s0) * invDet,
		(-m[0]*s4 + m[1]*s2 - m[3]*s0) * invDet,
		(m[12]*c4 - m[13]*c2 + m[15]*c0) * invDet,
		(-m[8]*c4 + m[9]*c2 - m[11]*c0) * invDet,

		(-m[4]*s3 + m[5]*s1 - m[6]*s0) * invDet,
		(m[0]*s3 - m[1]*s1 + m[2]*s0) * invDet,
		(-m[12]*c3 + m[13]*c1 - m[14]*c0) * invDet,
		(m[8]*c3 - m[9]*c1 + m[10]*c0) * invDet,
	}
}
