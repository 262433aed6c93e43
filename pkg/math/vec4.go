package math

import "math"

// Vec4 is a 4D vector, used for colors, skinning data and homogeneous points.
type Vec4 struct {
	X, Y, Z, W float64
}

// Add returns v + other.
func (v Vec4) Add(other Vec4) Vec4 {
	return Vec4{v.X + other.X, v.Y + other.Y, v.Z + other.Z, v.W + other.W}
}

// Sub returns v - other.
func (v Vec4) Sub(other Vec4) Vec4 {
	return Vec4{v.X - other.X, v.Y - other.Y, v.Z - other.Z, v.W - other.W}
}

// Scale returns v * scalar.
func (v Vec4) Scale(s float64) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// Dot returns the dot product.
func (v Vec4) Dot(other Vec4) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z + v.W*other.W
}

// LengthSq returns the squared magnitude.
func (v Vec4) LengthSq() float64 {
	return v.Dot(v)
}

// Length returns the magnitude.
func (v Vec4) Length() float64 {
	return math.Sqrt(v.LengthSq())
}

// Normalize returns a unit vector, or the zero vector if v has no length.
func (v Vec4) Normalize() Vec4 {
	lsq := v.LengthSq()
	if lsq == 0 {
		return Vec4{}
	}
	return v.Scale(1 / math.Sqrt(lsq))
}

// Equal reports whether every component differs by at most tol.
func (v Vec4) Equal(other Vec4, tol float64) bool {
	return math.Abs(v.X-other.X) <= tol &&
		math.Abs(v.Y-other.Y) <= tol &&
		math.Abs(v.Z-other.Z) <= tol &&
		math.Abs(v.W-other.W) <= tol
}

// XYZ drops the W component.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}
