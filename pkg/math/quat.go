package math

import "math"

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisRotation creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisRotation(axis Vec3, angle float64) Quat {
	s, c := math.Sincos(angle / 2)
	return Quat{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: c}.Normalize()
}

// QuatFromXYZ rebuilds a unit quaternion from its vector part. W is chosen
// non-positive, matching the packed rotation format of the engine.
func QuatFromXYZ(x, y, z float64) Quat {
	w := 1 - (x*x + y*y + z*z)
	if w < 0 {
		w = 0
	} else {
		w = -math.Sqrt(w)
	}
	return Quat{X: x, Y: y, Z: z, W: w}
}

// ToAxisRotation returns the rotation axis and angle. Any axis is returned for
// a near-identity rotation.
func (q Quat) ToAxisRotation() (Vec3, float64) {
	angle := math.Acos(math.Max(-1, math.Min(1, q.W))) * 2
	sinSq := 1 - q.W*q.W
	if sinSq < Precision {
		return XAxis, angle
	}
	return Vec3{q.X, q.Y, q.Z}.Scale(1 / math.Sqrt(sinSq)), angle
}

func (q Quat) vec4() Vec4 {
	return Vec4{q.X, q.Y, q.Z, q.W}
}

func quatFromVec4(v Vec4) Quat {
	return Quat{X: v.X, Y: v.Y, Z: v.Z, W: v.W}
}

// Length returns the magnitude.
func (q Quat) Length() float64 {
	return q.vec4().Length()
}

// Normalize returns a unit quaternion, or the zero quaternion if q has no length.
func (q Quat) Normalize() Quat {
	return quatFromVec4(q.vec4().Normalize())
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float64 {
	return q.vec4().Dot(other.vec4())
}

// Mul multiplies two quaternions (combines rotations).
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Lerp linearly interpolates along the shorter arc. The result is not normalized.
func (q Quat) Lerp(other Quat, t float64) Quat {
	if q.Dot(other) < 0 {
		other = quatFromVec4(other.vec4().Scale(-1))
	}
	return quatFromVec4(q.vec4().Add(other.vec4().Sub(q.vec4()).Scale(t)))
}

// slerpLerpCos is cos(1°); closer rotations fall back to a normalized lerp.
var slerpLerpCos = math.Cos(math.Pi / 180)

// Slerp performs spherical linear interpolation between two quaternions.
// t should be in range [0, 1].
func (q Quat) Slerp(other Quat, t float64) Quat {
	cosom := q.Dot(other)
	if cosom < 0 {
		q = quatFromVec4(q.vec4().Scale(-1))
		cosom = -cosom
	}

	if cosom > slerpLerpCos {
		return q.Lerp(other, t).Normalize()
	}

	omega := math.Acos(cosom)
	sinOmega := math.Sin(omega)
	a := q.vec4().Scale(math.Sin((1-t)*omega) / sinOmega)
	b := other.vec4().Scale(math.Sin(t*omega) / sinOmega)
	return quatFromVec4(a.Add(b))
}

// IsSimilar reports whether q and other describe the same rotation within
// Precision, treating q and -q as equal.
func (q Quat) IsSimilar(other Quat) bool {
	a := q.vec4()
	if q.W*other.W < 0 {
		a = a.Scale(-1)
	}
	return a.Sub(other.vec4()).LengthSq() < Precision*Precision
}

// TransformVec3 rotates v by q.
func (q Quat) TransformVec3(v Vec3) Vec3 {
	im := Vec3{q.X, q.Y, q.Z}
	r := v.Scale(q.W*q.W - im.Dot(im))
	s := im.Dot(v)
	r = r.Add(im.Scale(s + s))
	return r.Add(im.Cross(v).Scale(q.W + q.W))
}

// ToMat43 converts the quaternion to a rotation transform.
func (q Quat) ToMat43() Mat43 {
	xx := 2 * q.X * q.X
	yy := 2 * q.Y * q.Y
	zz := 2 * q.Z * q.Z
	xy := 2 * q.X * q.Y
	zw := 2 * q.Z * q.W
	xz := 2 * q.X * q.Z
	yw := 2 * q.Y * q.W
	yz := 2 * q.Y * q.Z
	xw := 2 * q.X * q.W

	return Mat43{
		1 - yy - zz, xy - zw, xz + yw,
		xy + zw, 1 - xx - zz, yz - xw,
		xz - yw, yz + xw, 1 - xx - yy,
		0, 0, 0,
	}
}

// QuatFromMat33 extracts the rotation of an orthonormal matrix. It is the
// inverse of ToMat43.
func QuatFromMat33(m Mat33) Quat {
	var x, y, z, w float64
	trace := m[0] + m[4] + m[8] + 1
	switch {
	case trace > Precision:
		w = math.Sqrt(trace) / 2
		x = (m[5] - m[7]) / (4 * w)
		y = (m[6] - m[2]) / (4 * w)
		z = (m[1] - m[3]) / (4 * w)
	case m[0] > m[4] && m[0] > m[8]:
		s := math.Sqrt(1+m[0]-m[4]-m[8]) * 2
		w = (m[5] - m[7]) / s
		x = 0.25 * s
		y = (m[3] + m[1]) / s
		z = (m[6] + m[2]) / s
	case m[4] > m[8]:
		s := math.Sqrt(1+m[4]-m[0]-m[8]) * 2
		w = (m[6] - m[2]) / s
		x = (m[3] + m[1]) / s
		y = 0.25 * s
		z = (m[7] + m[5]) / s
	default:
		s := math.Sqrt(1+m[8]-m[0]-m[4]) * 2
		w = (m[1] - m[3]) / s
		x = (m[6] + m[2]) / s
		y = (m[7] + m[5]) / s
		z = 0.25 * s
	}
	return Quat{X: -x, Y: -y, Z: -z, W: w}.Normalize()
}

// QuatFromMat43 extracts the rotation of a transform, ignoring translation.
func QuatFromMat43(m Mat43) Quat {
	return QuatFromMat33(m.Mat33())
}

// QuatPos is a rigid transform: a rotation followed by a translation.
type QuatPos struct {
	Rot Quat
	Pos Vec3
}

// TransformNormal rotates n.
func (qp QuatPos) TransformNormal(n Vec3) Vec3 {
	return qp.Rot.TransformVec3(n)
}

// TransformPoint rotates then translates p.
func (qp QuatPos) TransformPoint(p Vec3) Vec3 {
	return qp.Rot.TransformVec3(p).Add(qp.Pos)
}

// Mul composes two rigid transforms; other is applied first.
func (qp QuatPos) Mul(other QuatPos) QuatPos {
	return QuatPos{
		Rot: qp.Rot.Mul(other.Rot),
		Pos: qp.TransformPoint(other.Pos),
	}
}
