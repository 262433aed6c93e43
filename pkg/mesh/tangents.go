package mesh

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/pkg/math"
)

// split records that clone was created from original during tangent
// generation.
type split struct {
	original int
	clone    int
}

// triangleTangents solves for the tangent (dP/du) and binormal (dP/dv) of
// triangle t one axis at a time. An axis whose 2x2 system is singular
// contributes zero.
func (m *Mesh) triangleTangents(pi int, t Triangle, uvs []math.Vec2, tol Tolerances) (du, dv math.Vec3) {
	v1, v2, v3 := m.Positions[t[0]], m.Positions[t[1]], m.Positions[t[2]]
	uv1, uv2, uv3 := uvs[t[0]], uvs[t[1]], uvs[t[2]]
	e21, e31, e32 := v2.Sub(v1), v3.Sub(v1), v3.Sub(v2)
	if e21.IsZero(tol.Position) || e31.IsZero(tol.Position) || e32.IsZero(tol.Position) {
		m.logger().Warn("degenerate triangle",
			zap.Int("primitive", pi),
			zap.Ints("indices", t[:]))
		return du, dv
	}

	d21 := uv2.Sub(uv1)
	d31 := uv3.Sub(uv1)
	for axis := 0; axis < 3; axis++ {
		edge1 := math.Vec3{X: e21.Component(axis), Y: d21.X, Z: d21.Y}
		edge2 := math.Vec3{X: e31.Component(axis), Y: d31.X, Z: d31.Y}
		cp := edge1.Cross(edge2)
		if math.NearZero(cp.X, tol.Zero) {
			continue
		}
		du = du.SetComponent(axis, -cp.Y/cp.X)
		dv = dv.SetComponent(axis, -cp.Z/cp.X)
	}
	return du, dv
}

// cloneVertex appends a copy of vertex v with the given tangent frame and
// returns its index.
func (m *Mesh) cloneVertex(v int, tangent, binormal math.Vec3) int {
	clone := len(m.Positions)
	m.Positions = append(m.Positions, m.Positions[v])
	if len(m.Normals) > v {
		m.Normals = append(m.Normals, m.Normals[v])
	}
	for i, uvs := range m.UVs {
		if len(uvs) > v {
			m.UVs[i] = append(uvs, uvs[v])
		}
	}
	m.Tangents = append(m.Tangents, tangent)
	m.Binormals = append(m.Binormals, binormal)
	if len(m.Colors) > v {
		m.Colors = append(m.Colors, m.Colors[v])
	}
	if len(m.SkinIndices) > v {
		m.SkinIndices = append(m.SkinIndices, m.SkinIndices[v])
	}
	if len(m.SkinWeights) > v {
		m.SkinWeights = append(m.SkinWeights, m.SkinWeights[v])
	}
	return clone
}

func (m *Mesh) repoint(pi, from, to int) {
	p := &m.Primitives[pi]
	for k := range p {
		if p[k] == from {
			p[k] = to
		}
	}
}

// accumulateTangent adds a triangle's tangent frame to vertex v or to one of
// its earlier clones, splitting off a new clone when none is close enough.
func (m *Mesh) accumulateTangent(v, pi int, splits *[]split, tangent, binormal math.Vec3, cosSq float64) {
	within := func(i int) bool {
		return m.Tangents[i].IsWithinTolerance(tangent, cosSq) &&
			m.Binormals[i].IsWithinTolerance(binormal, cosSq)
	}
	add := func(i int) {
		m.Tangents[i] = m.Tangents[i].Add(tangent)
		m.Binormals[i] = m.Binormals[i].Add(binormal)
		m.repoint(pi, v, i)
	}

	if within(v) {
		add(v)
		return
	}
	for _, s := range *splits {
		if s.original == v && within(s.clone) {
			add(s.clone)
			return
		}
	}

	clone := m.cloneVertex(v, tangent, binormal)
	m.repoint(pi, v, clone)
	*splits = append(*splits, split{original: v, clone: clone})
	m.logger().Debug("splitting vertex",
		zap.Int("vertex", v),
		zap.Int("clone", clone),
		zap.Int("primitive", pi))
}

// GenerateTangents computes per-vertex tangents and binormals from UV set 0.
// A vertex shared by triangles whose tangent frames diverge by more than
// tol.TangentSplit (a cosine) is split so each copy accumulates a compatible
// frame. The results are not normalized; call NormalizeTangents next.
func (m *Mesh) GenerateTangents(tol Tolerances) error {
	uvs := m.UVSet(0)
	if len(uvs) == 0 {
		m.logger().Debug("no uvs to generate tangents from")
		return nil
	}
	if len(uvs) != len(m.Positions) {
		return fmt.Errorf("%w: %d uvs for %d vertices", ErrStreamMismatch, len(uvs), len(m.Positions))
	}

	n := len(m.Positions)
	m.Tangents = make([]math.Vec3, n)
	m.Binormals = make([]math.Vec3, n)
	cosSq := tol.TangentSplit * tol.TangentSplit

	var splits []split
	for pi := range m.Primitives {
		t := m.Primitives[pi]
		// the UV slice may be reallocated by clones
		tangent, binormal := m.triangleTangents(pi, t, m.UVSet(0), tol)
		for _, v := range t {
			m.accumulateTangent(v, pi, &splits, tangent, binormal, cosSq)
		}
	}
	if len(splits) > 0 {
		m.invalidate()
		m.logger().Debug("split vertices for tangents",
			zap.Int("splits", len(splits)),
			zap.Int("vertices", len(m.Positions)))
	}
	return nil
}

// NormalizeTangents normalizes and clamps tangents and binormals. Values too
// short to normalize become zero.
func (m *Mesh) NormalizeTangents(tol Tolerances) {
	normalize := func(stream []math.Vec3, name string) {
		for i, v := range stream {
			if v.LengthSq() > tol.DontNormalize {
				stream[i] = v.Normalize().UnitCubeClamp()
				continue
			}
			m.logger().Warn("vertex "+name+" below normalizable tolerance",
				zap.Int("vertex", i),
				zap.Float64("tolerance", tol.DontNormalize))
			stream[i] = math.Vec3{}
		}
	}
	normalize(m.Tangents, "tangent")
	normalize(m.Binormals, "binormal")
}

// SmoothTangents averages the tangent frames of coincident vertices whose
// tangents and binormals are both within tol.NormalSmooth of each other.
func (m *Mesh) SmoothTangents(tol Tolerances, withUV bool) {
	n := len(m.Positions)
	if len(m.Tangents) != n || len(m.Binormals) != n {
		return
	}
	for i := range m.Positions {
		t0, b0 := m.Tangents[i], m.Binormals[i]
		var ts, bs math.Vec3
		var kept []int
		for _, j := range m.neighbours(i, tol, withUV) {
			if m.Tangents[j].IsSimilar(t0, tol.NormalSmooth) && m.Binormals[j].IsSimilar(b0, tol.NormalSmooth) {
				ts = ts.Add(m.Tangents[j])
				bs = bs.Add(m.Binormals[j])
				kept = append(kept, j)
			}
		}
		ts = ts.Normalize().UnitCubeClamp()
		bs = bs.Normalize().UnitCubeClamp()
		for _, j := range kept {
			m.Tangents[j] = ts
			m.Binormals[j] = bs
		}
	}
}

// GenerateSmoothNBTs runs the full tangent-space chain: normals (if
// missing), tangents with splitting, normalization, tangent smoothing,
// normals from tangents and finally normal smoothing.
func (m *Mesh) GenerateSmoothNBTs(tol Tolerances) error {
	if len(m.Normals) == 0 {
		m.GenerateNormals(tol)
	}
	if err := m.GenerateTangents(tol); err != nil {
		return fmt.Errorf("generating tangents: %w", err)
	}
	m.NormalizeTangents(tol)
	m.SmoothTangents(tol, false)
	if err := m.GenerateNormalsFromTangents(tol); err != nil {
		return fmt.Errorf("generating normals from tangents: %w", err)
	}
	m.SmoothNormals(tol, false)
	return nil
}
