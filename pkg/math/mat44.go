package math

// Mat44 is a 4x4 matrix stored as four row vectors, matching Mat43 with an
// extra column.
// Layout: [m0  m1  m2  m3]   right
//
//	[m4  m5  m6  m7]   up
//	[m8  m9  m10 m11]  at
//	[m12 m13 m14 m15]  pos
type Mat44 [16]float64

// Mat44Identity returns an identity matrix.
func Mat44Identity() Mat44 {
	return Mat44{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat44FromAxes builds a matrix from its rows.
func Mat44FromAxes(right, up, at, pos Vec4) Mat44 {
	return Mat44{
		right.X, right.Y, right.Z, right.W,
		up.X, up.Y, up.Z, up.W,
		at.X, at.Y, at.Z, at.W,
		pos.X, pos.Y, pos.Z, pos.W,
	}
}

// IsIdentity reports whether m is exactly the identity.
func (m Mat44) IsIdentity() bool {
	return m == Mat44Identity()
}

// Right returns the first row.
func (m Mat44) Right() Vec4 { return Vec4{m[0], m[1], m[2], m[3]} }

// Up returns the second row.
func (m Mat44) Up() Vec4 { return Vec4{m[4], m[5], m[6], m[7]} }

// At returns the third row.
func (m Mat44) At() Vec4 { return Vec4{m[8], m[9], m[10], m[11]} }

// Pos returns the fourth row.
func (m Mat44) Pos() Vec4 { return Vec4{m[12], m[13], m[14], m[15]} }

// SetPos returns m with the fourth row replaced.
func (m Mat44) SetPos(v Vec4) Mat44 {
	m[12], m[13], m[14], m[15] = v.X, v.Y, v.Z, v.W
	return m
}

// Translate returns m with v added to the fourth row.
func (m Mat44) Translate(v Vec4) Mat44 {
	return m.SetPos(m.Pos().Add(v))
}

// Transform multiplies the row vector v by m.
func (m Mat44) Transform(v Vec4) Vec4 {
	return m.Right().Scale(v.X).
		Add(m.Up().Scale(v.Y)).
		Add(m.At().Scale(v.Z)).
		Add(m.Pos().Scale(v.W))
}

// TransformNormal transforms a direction (w = 0).
func (m Mat44) TransformNormal(v Vec3) Vec4 {
	return m.Transform(Vec4{v.X, v.Y, v.Z, 0})
}

// TransformPoint transforms a position (w = 1).
func (m Mat44) TransformPoint(v Vec3) Vec4 {
	return m.Transform(Vec4{v.X, v.Y, v.Z, 1})
}

// Mul returns m * other: m is applied first.
func (m Mat44) Mul(other Mat44) Mat44 {
	return Mat44FromAxes(
		other.Transform(m.Right()),
		other.Transform(m.Up()),
		other.Transform(m.At()),
		other.Transform(m.Pos()),
	)
}

// Transpose returns the transposed matrix.
func (m Mat44) Transpose() Mat44 {
	return Mat44{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}
