package math

import "math"

// Mat43 is an affine transform stored as four row vectors: right, up, at and pos.
// Layout: [m0  m1  m2]   right
//
//	[m3  m4  m5]   up
//	[m6  m7  m8]   at
//	[m9  m10 m11]  pos
type Mat43 [12]float64

// Mat43Identity returns an identity transform.
func Mat43Identity() Mat43 {
	return Mat43{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
		0, 0, 0,
	}
}

// Mat43FromAxes builds a transform from its rows.
func Mat43FromAxes(right, up, at, pos Vec3) Mat43 {
	return Mat43{
		right.X, right.Y, right.Z,
		up.X, up.Y, up.Z,
		at.X, at.Y, at.Z,
		pos.X, pos.Y, pos.Z,
	}
}

// Mat43FromMat44 drops the fourth column of m.
func Mat43FromMat44(m Mat44) Mat43 {
	return Mat43{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
		m[12], m[13], m[14],
	}
}

// Mat43FromAxisRotation returns a rotation of angle radians around a unit axis.
func Mat43FromAxisRotation(axis Vec3, angle float64) Mat43 {
	return Mat33FromAxisRotation(axis, angle).Mat43()
}

// Mat43Translation returns a pure translation.
func Mat43Translation(v Vec3) Mat43 {
	return Mat43Identity().SetPos(v)
}

// Mat43Scale returns a pure scale.
func Mat43Scale(v Vec3) Mat43 {
	return Mat43{
		v.X, 0, 0,
		0, v.Y, 0,
		0, 0, v.Z,
		0, 0, 0,
	}
}

// IsIdentity reports whether m is exactly the identity.
func (m Mat43) IsIdentity() bool {
	return m == Mat43Identity()
}

// Right returns the first row.
func (m Mat43) Right() Vec3 { return Vec3{m[0], m[1], m[2]} }

// Up returns the second row.
func (m Mat43) Up() Vec3 { return Vec3{m[3], m[4], m[5]} }

// At returns the third row.
func (m Mat43) At() Vec3 { return Vec3{m[6], m[7], m[8]} }

// Pos returns the translation row.
func (m Mat43) Pos() Vec3 { return Vec3{m[9], m[10], m[11]} }

// SetRight returns m with the right row replaced.
func (m Mat43) SetRight(v Vec3) Mat43 {
	m[0], m[1], m[2] = v.X, v.Y, v.Z
	return m
}

// SetUp returns m with the up row replaced.
func (m Mat43) SetUp(v Vec3) Mat43 {
	m[3], m[4], m[5] = v.X, v.Y, v.Z
	return m
}

// SetAt returns m with the at row replaced.
func (m Mat43) SetAt(v Vec3) Mat43 {
	m[6], m[7], m[8] = v.X, v.Y, v.Z
	return m
}

// SetPos returns m with the translation replaced.
func (m Mat43) SetPos(v Vec3) Mat43 {
	m[9], m[10], m[11] = v.X, v.Y, v.Z
	return m
}

// Translate returns m with v added to the translation.
func (m Mat43) Translate(v Vec3) Mat43 {
	return m.SetPos(m.Pos().Add(v))
}

// Mat33 returns the rotation/scale part.
func (m Mat43) Mat33() Mat33 {
	return Mat33FromAxes(m.Right(), m.Up(), m.At())
}

// Determinant returns the determinant of the 3x3 part.
func (m Mat43) Determinant() float64 {
	return m.Mat33().Determinant()
}

// Inverse returns the inverse transform. ok is false when m is singular.
func (m Mat43) Inverse() (Mat43, bool) {
	det := m.Determinant()
	if det == 0 {
		return Mat43{}, false
	}
	r := 1 / det
	return Mat43{
		(m[4]*m[8] - m[5]*m[7]) * r,
		(m[7]*m[2] - m[8]*m[1]) * r,
		(m[1]*m[5] - m[2]*m[4]) * r,
		(m[5]*m[6] - m[3]*m[8]) * r,
		(m[8]*m[0] - m[6]*m[2]) * r,
		(m[3]*m[2] - m[0]*m[5]) * r,
		(m[3]*m[7] - m[4]*m[6]) * r,
		(m[6]*m[1] - m[7]*m[0]) * r,
		(m[0]*m[4] - m[3]*m[1]) * r,
		(m[3]*(m[10]*m[8]-m[7]*m[11]) + m[4]*(m[6]*m[11]-m[9]*m[8]) + m[5]*(m[9]*m[7]-m[6]*m[10])) * r,
		(m[6]*(m[2]*m[10]-m[1]*m[11]) + m[7]*(m[0]*m[11]-m[9]*m[2]) + m[8]*(m[9]*m[1]-m[0]*m[10])) * r,
		(m[9]*(m[2]*m[4]-m[1]*m[5]) + m[10]*(m[0]*m[5]-m[3]*m[2]) + m[11]*(m[3]*m[1]-m[0]*m[4])) * r,
	}, true
}

// InverseOrthonormal inverts a transform whose 3x3 part is orthonormal.
func (m Mat43) InverseOrthonormal() Mat43 {
	p := m.Pos()
	return Mat43{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
		-p.Dot(m.Right()),
		-p.Dot(m.Up()),
		-p.Dot(m.At()),
	}
}

// OrthoNormalize returns m with orthogonal unit axes. The pair of axes that
// are already closest to perpendicular is kept and the third is rebuilt from
// them.
func (m Mat43) OrthoNormalize() Mat43 {
	right, up, at := m.Right(), m.Up(), m.At()
	lx, ly, lz := right.Length(), up.Length(), at.Length()
	right, up, at = right.Normalize(), up.Normalize(), at.Normalize()

	// u, v, w are a cyclic permutation of right, up, at; w is rebuilt from
	// u and v, then v from w and u.
	var u, v, w *Vec3
	switch {
	case lx <= 0:
		u, v, w = &up, &at, &right
	case ly <= 0:
		u, v, w = &at, &right, &up
	case lz <= 0:
		u, v, w = &right, &up, &at
	default:
		ox := math.Abs(up.Dot(at))
		oy := math.Abs(at.Dot(right))
		oz := math.Abs(right.Dot(up))
		switch {
		case ox < oy && ox < oz:
			u, v, w = &up, &at, &right
		case ox >= oy && oy < oz:
			u, v, w = &at, &right, &up
		default:
			u, v, w = &right, &up, &at
		}
	}
	*w = u.Cross(*v).Normalize()
	*v = w.Cross(*u).Normalize()

	return Mat43FromAxes(right, up, at, m.Pos())
}

// TransformNormal transforms a direction, ignoring translation.
func (m Mat43) TransformNormal(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// TransformPoint transforms a position.
func (m Mat43) TransformPoint(v Vec3) Vec3 {
	return m.TransformNormal(v).Add(m.Pos())
}

// Mul returns m * other: m is applied first.
func (m Mat43) Mul(other Mat43) Mat43 {
	return Mat43FromAxes(
		other.TransformNormal(m.Right()),
		other.TransformNormal(m.Up()),
		other.TransformNormal(m.At()),
		other.TransformPoint(m.Pos()),
	)
}

// Mat44 expands m to a full 4x4 matrix.
func (m Mat43) Mat44() Mat44 {
	return Mat44{
		m[0], m[1], m[2], 0,
		m[3], m[4], m[5], 0,
		m[6], m[7], m[8], 0,
		m[9], m[10], m[11], 1,
	}
}

// Transpose returns the transposed 3x4 matrix as a row-major [12]float64.
func (m Mat43) Transpose() [12]float64 {
	return [12]float64{
		m[0], m[3], m[6], m[9],
		m[1], m[4], m[7], m[10],
		m[2], m[5], m[8], m[11],
	}
}
