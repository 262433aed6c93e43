package mesh

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/pkg/math"
)

// faceNormal returns the unit normal of triangle t, or zero when one of its
// edges is shorter than posTol.
func (m *Mesh) faceNormal(pi int, t Triangle, posTol float64) math.Vec3 {
	v1, v2, v3 := m.Positions[t[0]], m.Positions[t[1]], m.Positions[t[2]]
	e1 := v2.Sub(v1)
	e2 := v3.Sub(v1)
	e3 := v3.Sub(v2)
	if e1.IsZero(posTol) || e2.IsZero(posTol) || e3.IsZero(posTol) {
		m.logger().Warn("degenerate primitive",
			zap.Int("primitive", pi),
			zap.Ints("indices", t[:]),
			zap.Float64("tolerance", posTol))
		return math.Vec3{}
	}
	return e1.Cross(e2).Normalize()
}

// GenerateNormals replaces Normals with the average of the face normals of
// every triangle using each vertex. Vertices whose accumulated normal is too
// short to normalize get a zero normal.
func (m *Mesh) GenerateNormals(tol Tolerances) {
	normals := make([]math.Vec3, len(m.Positions))
	for pi, t := range m.Primitives {
		n := m.faceNormal(pi, t, tol.Position)
		for _, i := range t {
			normals[i] = normals[i].Add(n)
		}
	}
	for i, n := range normals {
		if n.LengthSq() > tol.DontNormalize {
			normals[i] = n.Normalize()
			continue
		}
		normals[i] = math.Vec3{}
		m.logger().Warn("vertex normal below normalizable tolerance",
			zap.Int("vertex", i),
			zap.Float64("tolerance", tol.DontNormalize))
	}
	m.Normals = normals
}

// neighbours returns the vertices within the position tolerance of vertex i,
// restricted to matching UVs in set 0 when withUV is set.
func (m *Mesh) neighbours(i int, tol Tolerances, withUV bool) []int {
	tree := m.pointMap()
	if withUV {
		uvs := m.UVSet(0)
		if len(uvs) == len(m.Positions) {
			return tree.WithinUV(m.Positions, m.Positions[i], tol.Position, uvs, uvs[i], tol.UV)
		}
	}
	return tree.Within(m.Positions, m.Positions[i], tol.Position)
}

// SmoothNormals averages the normals of coincident vertices whose normals
// are within tol.NormalSmooth (a cosine) of each other. Vertices are visited
// in index order and updated in place, so earlier results feed later ones.
func (m *Mesh) SmoothNormals(tol Tolerances, withUV bool) {
	if len(m.Normals) != len(m.Positions) {
		return
	}
	for i := range m.Positions {
		original := m.Normals[i]
		var sum math.Vec3
		var kept []int
		for _, j := range m.neighbours(i, tol, withUV) {
			if m.Normals[j].IsSimilar(original, tol.NormalSmooth) {
				sum = sum.Add(m.Normals[j])
				kept = append(kept, j)
			}
		}
		smooth := sum.Normalize().UnitCubeClamp()
		for _, j := range kept {
			m.Normals[j] = smooth
		}
	}
}

// GenerateNormalsFromTangents rebuilds each normal as tangent × binormal,
// oriented into the hemisphere of the existing normal. The existing normal
// is kept when the cross product is too short or lies in the surface plane.
func (m *Mesh) GenerateNormalsFromTangents(tol Tolerances) error {
	if len(m.Tangents) == 0 || len(m.Binormals) == 0 {
		m.logger().Debug("no tangents to generate normals from",
			zap.Int("tangents", len(m.Tangents)),
			zap.Int("binormals", len(m.Binormals)))
		return nil
	}
	n := len(m.Normals)
	if n != len(m.Tangents) || n != len(m.Binormals) {
		return fmt.Errorf("%w: %d normals, %d tangents, %d binormals",
			ErrStreamMismatch, n, len(m.Tangents), len(m.Binormals))
	}

	for i := range m.Normals {
		cp := m.Tangents[i].Cross(m.Binormals[i])
		if cp.LengthSq() <= tol.DontNormalize {
			continue
		}
		cp = cp.Normalize()
		cos := cp.Dot(m.Normals[i])
		if math.NearZero(cos, tol.Zero) {
			continue
		}
		if cos < 0 {
			cp = cp.Neg()
		}
		m.Normals[i] = cp
	}
	return nil
}
