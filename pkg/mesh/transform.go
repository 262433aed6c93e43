package mesh

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/pkg/math"
)

// Transform applies m to positions as points and to normals, tangents and
// binormals as directions.
func (m *Mesh) Transform(t math.Mat43) {
	for i, p := range m.Positions {
		m.Positions[i] = t.TransformPoint(p)
	}
	for _, s := range [][]math.Vec3{m.Normals, m.Tangents, m.Binormals} {
		for i, v := range s {
			s[i] = t.TransformNormal(v)
		}
	}
	m.invalidate()
}

// Rotate applies r to positions and to every direction stream.
func (m *Mesh) Rotate(r math.Mat33) {
	for _, s := range [][]math.Vec3{m.Positions, m.Normals, m.Tangents, m.Binormals} {
		for i, v := range s {
			s[i] = r.Transform(v)
		}
	}
	m.invalidate()
}

// FlipPrimitives reverses the winding of every triangle.
func (m *Mesh) FlipPrimitives() {
	for i, p := range m.Primitives {
		m.Primitives[i] = Triangle{p[0], p[2], p[1]}
	}
}

// MirrorIn negates the given axis (0, 1 or 2) of positions and normals.
// With flip set the winding is reversed so faces keep pointing outwards.
func (m *Mesh) MirrorIn(axis int, flip bool) {
	if axis < 0 || axis > 2 {
		m.logger().Warn("invalid mirror axis", zap.Int("axis", axis))
		return
	}
	for _, s := range [][]math.Vec3{m.Positions, m.Normals} {
		for i, v := range s {
			s[i] = v.SetComponent(axis, -v.Component(axis))
		}
	}
	m.invalidate()
	if flip {
		m.FlipPrimitives()
	}
}

// InvertVTextureMap mirrors the V coordinate of a UV set about the middle of
// the integer range that contains it, so [0, 1] maps onto itself.
func (m *Mesh) InvertVTextureMap(set int) {
	uvs := m.UVSet(set)
	if len(uvs) == 0 {
		return
	}
	lo, hi := uvs[0].Y, uvs[0].Y
	for _, uv := range uvs {
		lo = min(lo, uv.Y)
		hi = max(hi, uv.Y)
	}
	mid := gomath.Ceil(hi) + gomath.Floor(lo)

	out := make([]math.Vec2, len(uvs))
	for i, uv := range uvs {
		out[i] = math.Vec2{X: uv.X, Y: mid - uv.Y}
	}
	m.UVs[set] = out
}

// GenerateVertexWithNewUV clones vertex v with a new UV in set 0 and points
// primitive p at the clone. It returns the index of the new vertex.
func (m *Mesh) GenerateVertexWithNewUV(p, v int, uv math.Vec2) int {
	clone := len(m.Positions)
	uvs := m.UVSet(0)
	for len(uvs) < clone {
		uvs = append(uvs, math.Vec2{})
	}
	m.Positions = append(m.Positions, m.Positions[v])
	m.setUVSet(0, append(uvs, uv))
	m.invalidate()

	prim := &m.Primitives[p]
	for k := range prim {
		if prim[k] == v {
			prim[k] = clone
			return clone
		}
	}
	m.logger().Error("vertex not used by primitive",
		zap.Int("vertex", v),
		zap.Int("primitive", p))
	return clone
}
