package mesh

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/pkg/math"
)

// StitchVertices merges vertices with exactly equal positions and remaps
// primitives to the merged indices. Only positions are kept; all other
// streams are dropped, as they cannot be merged meaningfully.
func (m *Mesh) StitchVertices() {
	n := len(m.Positions)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return m.Positions[order[a]].Less(m.Positions[order[b]])
	})

	mapping := make([]int, n)
	next := -1
	for k, i := range order {
		if k == 0 || m.Positions[i] != m.Positions[order[k-1]] {
			next++
		}
		mapping[i] = next
	}

	positions := make([]math.Vec3, next+1)
	for i, to := range mapping {
		positions[to] = m.Positions[i]
	}
	for pi, p := range m.Primitives {
		m.Primitives[pi] = Triangle{mapping[p[0]], mapping[p[1]], mapping[p[2]]}
	}

	m.Positions = positions
	m.UVs = nil
	m.Normals = nil
	m.Tangents = nil
	m.Binormals = nil
	m.Colors = nil
	m.SkinIndices = nil
	m.SkinWeights = nil
	m.invalidate()
}

// RemoveDegeneratePrimitives drops triangles that repeat a vertex index and,
// when removeZeroLengthEdges is set, triangles with an edge shorter than
// edgeTol.
func (m *Mesh) RemoveDegeneratePrimitives(removeZeroLengthEdges bool, edgeTol float64) {
	degenerate := func(p Triangle) bool {
		if p[0] == p[1] || p[0] == p[2] || p[1] == p[2] {
			return true
		}
		if !removeZeroLengthEdges {
			return false
		}
		v1, v2, v3 := m.Positions[p[0]], m.Positions[p[1]], m.Positions[p[2]]
		return v2.Sub(v1).IsZero(edgeTol) ||
			v3.Sub(v1).IsZero(edgeTol) ||
			v3.Sub(v2).IsZero(edgeTol)
	}

	// before[i] counts the primitives kept ahead of old primitive i
	before := make([]int, len(m.Primitives)+1)
	kept := m.Primitives[:0]
	for i, p := range m.Primitives {
		before[i] = len(kept)
		if !degenerate(p) {
			kept = append(kept, p)
		}
	}
	before[len(before)-1] = len(kept)

	removed := len(m.Primitives) - len(kept)
	m.Primitives = kept
	if removed == 0 {
		return
	}
	m.logger().Debug("removed degenerate primitives", zap.Int("count", removed))
	for name, s := range m.Surfaces {
		m.Surfaces[name] = Surface{Start: before[clampIndex(s.Start, len(before))], End: before[clampIndex(s.End, len(before))]}
	}
}

func clampIndex(i, n int) int {
	return max(0, min(i, n-1))
}

// RemoveRedundantVertices drops vertices no primitive references. Surviving
// vertices are renumbered in the order primitives first reference them.
// It returns the old index of every new vertex.
func (m *Mesh) RemoveRedundantVertices() []int {
	mapping := make(map[int]int)
	var order []int
	for _, p := range m.Primitives {
		for _, i := range p {
			if _, ok := mapping[i]; !ok {
				mapping[i] = len(order)
				order = append(order, i)
			}
		}
	}
	if len(order) != len(m.Positions) {
		m.logger().Info("remapping vertices",
			zap.Int("from", len(m.Positions)),
			zap.Int("to", len(order)))
	}

	m.Positions = remapStream(m.Positions, order)
	for i := range m.UVs {
		m.UVs[i] = remapStream(m.UVs[i], order)
	}
	m.Normals = remapStream(m.Normals, order)
	m.Tangents = remapStream(m.Tangents, order)
	m.Binormals = remapStream(m.Binormals, order)
	m.Colors = remapStream(m.Colors, order)
	m.SkinIndices = remapStream(m.SkinIndices, order)
	m.SkinWeights = remapStream(m.SkinWeights, order)

	for pi, p := range m.Primitives {
		m.Primitives[pi] = Triangle{mapping[p[0]], mapping[p[1]], mapping[p[2]]}
	}
	m.invalidate()
	return order
}

// remapStream gathers source[order[i]] into a new slice. Empty streams stay
// empty.
func remapStream[T any](source []T, order []int) []T {
	if len(source) == 0 {
		return source
	}
	out := make([]T, len(order))
	for i, old := range order {
		out[i] = source[old]
	}
	return out
}
