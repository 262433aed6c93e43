package math

// Decomposition is a transform split into rotation, translation and scale.
type Decomposition struct {
	Rot   Quat
	Pos   Vec3
	Scale Vec3
	// Mirrored is set when the source had a negative determinant. Mirroring
	// is not representable, so it is folded into a negative X scale.
	Mirrored bool
}

// QuatPos returns the rigid part of the decomposition.
func (d Decomposition) QuatPos() QuatPos {
	return QuatPos{Rot: d.Rot, Pos: d.Pos}
}

// Decompose splits an affine transform into rotation, translation and
// per-axis scale. A zero-length axis is replaced by the matching unit axis
// before the rotation is extracted.
func Decompose(m Mat43) Decomposition {
	scale := Vec3{m.Right().Length(), m.Up().Length(), m.At().Length()}
	det := m.Determinant()

	var d Decomposition
	if !scale.Equal(Vec3{1, 1, 1}, Precision) || det < 0 {
		if det < 0 {
			d.Mirrored = true
			scale.X = -scale.X
		}
		m = m.SetRight(unscaleAxis(m.Right(), scale.X, XAxis))
		m = m.SetUp(unscaleAxis(m.Up(), scale.Y, YAxis))
		m = m.SetAt(unscaleAxis(m.At(), scale.Z, ZAxis))
	} else {
		scale = Vec3{1, 1, 1}
	}

	d.Rot = QuatFromMat43(m)
	d.Pos = m.Pos()
	d.Scale = scale
	return d
}

func unscaleAxis(axis Vec3, s float64, fallback Vec3) Vec3 {
	if s == 0 {
		return fallback
	}
	return axis.Scale(1 / s)
}
