package math

import "math"

// Mat33 is a 3x3 matrix stored as three row vectors: right, up and at.
// Layout: [m0 m1 m2]  right
//
//	[m3 m4 m5]  up
//	[m6 m7 m8]  at
//
// Vectors are transformed as rows: v' = v * M.
type Mat33 [9]float64

// Mat33Identity returns an identity matrix.
func Mat33Identity() Mat33 {
	return Mat33{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Mat33FromAxes builds a matrix from its right, up and at rows.
func Mat33FromAxes(right, up, at Vec3) Mat33 {
	return Mat33{
		right.X, right.Y, right.Z,
		up.X, up.Y, up.Z,
		at.X, at.Y, at.Z,
	}
}

// Mat33FromAxisRotation returns a rotation of angle radians around a unit axis.
func Mat33FromAxisRotation(axis Vec3, angle float64) Mat33 {
	s, c := math.Sincos(angle)
	t := 1 - c
	tx, ty, tz := t*axis.X, t*axis.Y, t*axis.Z
	sx, sy, sz := s*axis.X, s*axis.Y, s*axis.Z

	return Mat33{
		tx*axis.X + c, tx*axis.Y + sz, tx*axis.Z - sy,
		ty*axis.X - sz, ty*axis.Y + c, ty*axis.Z + sx,
		tz*axis.X + sy, tz*axis.Y - sx, tz*axis.Z + c,
	}
}

// IsIdentity reports whether m is exactly the identity.
func (m Mat33) IsIdentity() bool {
	return m == Mat33Identity()
}

// Right returns the first row.
func (m Mat33) Right() Vec3 { return Vec3{m[0], m[1], m[2]} }

// Up returns the second row.
func (m Mat33) Up() Vec3 { return Vec3{m[3], m[4], m[5]} }

// At returns the third row.
func (m Mat33) At() Vec3 { return Vec3{m[6], m[7], m[8]} }

// SetRight returns m with the right row replaced.
func (m Mat33) SetRight(v Vec3) Mat33 {
	m[0], m[1], m[2] = v.X, v.Y, v.Z
	return m
}

// SetUp returns m with the up row replaced.
func (m Mat33) SetUp(v Vec3) Mat33 {
	m[3], m[4], m[5] = v.X, v.Y, v.Z
	return m
}

// SetAt returns m with the at row replaced.
func (m Mat33) SetAt(v Vec3) Mat33 {
	m[6], m[7], m[8] = v.X, v.Y, v.Z
	return m
}

// Transpose returns the transposed matrix.
func (m Mat33) Transpose() Mat33 {
	return Mat33{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Determinant returns the determinant.
func (m Mat33) Determinant() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) +
		m[1]*(m[5]*m[6]-m[3]*m[8]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Inverse returns the inverse matrix. ok is false when m is singular.
func (m Mat33) Inverse() (inv Mat33, ok bool) {
	det := m.Determinant()
	if det == 0 {
		return Mat33{}, false
	}
	r := 1 / det
	return Mat33{
		(m[4]*m[8] - m[5]*m[7]) * r,
		(m[7]*m[2] - m[8]*m[1]) * r,
		(m[1]*m[5] - m[2]*m[4]) * r,
		(m[5]*m[6] - m[3]*m[8]) * r,
		(m[8]*m[0] - m[6]*m[2]) * r,
		(m[3]*m[2] - m[0]*m[5]) * r,
		(m[3]*m[7] - m[4]*m[6]) * r,
		(m[6]*m[1] - m[7]*m[0]) * r,
		(m[0]*m[4] - m[3]*m[1]) * r,
	}, true
}

// InverseTranspose returns the transposed inverse, used to transform normals
// under non-uniform scale.
func (m Mat33) InverseTranspose() (Mat33, bool) {
	inv, ok := m.Inverse()
	if !ok {
		return Mat33{}, false
	}
	return inv.Transpose(), true
}

// Mul returns m * other: m is applied first.
func (m Mat33) Mul(other Mat33) Mat33 {
	return Mat33FromAxes(
		other.Transform(m.Right()),
		other.Transform(m.Up()),
		other.Transform(m.At()),
	)
}

// Transform transforms a vector by m.
func (m Mat33) Transform(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Mat43 extends m with a zero translation.
func (m Mat33) Mat43() Mat43 {
	return Mat43FromAxes(m.Right(), m.Up(), m.At(), Vec3{})
}
