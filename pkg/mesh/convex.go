package mesh

import (
	"github.com/Faultbox/meshforge/pkg/math"
)

// Component is one connected piece of a mesh with its own compact vertex
// numbering.
type Component struct {
	Positions  []math.Vec3
	Primitives []Triangle
}

// IsConvex reports whether no position lies in front of the plane of any
// triangle by more than math.Precision.
func IsConvex(positions []math.Vec3, primitives []Triangle) bool {
	for _, t := range primitives {
		v1, v2, v3 := positions[t[0]], positions[t[1]], positions[t[2]]
		normal := v1.Sub(v3).Cross(v2.Sub(v3)).Normalize()
		for _, p := range positions {
			if p.Sub(v1).Dot(normal) > math.Precision {
				return false
			}
		}
	}
	return true
}

// SimplyClosed reports whether every undirected edge is shared by exactly
// two triangles, i.e. the triangles bound a closed region without dangling
// faces. Self intersections are not detected.
func SimplyClosed(primitives []Triangle) bool {
	edges := make(map[[2]int]int, len(primitives)*3/2)
	inc := func(a, b int) bool {
		if a > b {
			a, b = b, a
		}
		k := [2]int{a, b}
		edges[k]++
		return edges[k] > 2
	}
	for _, t := range primitives {
		if inc(t[0], t[1]) || inc(t[1], t[2]) || inc(t[2], t[0]) {
			return false
		}
	}
	for _, n := range edges {
		if n != 2 {
			return false
		}
	}
	return true
}

// IsPlanar reports whether every position lies within tol (a squared
// distance) of the plane through the first three positions.
func IsPlanar(positions []math.Vec3, tol float64) bool {
	if len(positions) <= 3 {
		return true
	}
	p0 := positions[0]
	normal := positions[1].Sub(p0).Cross(positions[2].Sub(p0)).Normalize()
	for _, p := range positions {
		d := p.Sub(p0).Dot(normal)
		if d*d > tol {
			return false
		}
	}
	return true
}

// IsConvexPlanar reports whether planar positions, taken in order as a
// polygon outline, are convex: no position lies outside any outline edge.
func IsConvexPlanar(positions []math.Vec3) bool {
	if len(positions) <= 3 {
		return true
	}
	p0 := positions[0]
	normal := positions[1].Sub(p0).Cross(positions[2].Sub(p0)).Normalize()
	for i, p := range positions {
		q := positions[(i+1)%len(positions)]
		edgeNormal := normal.Cross(q.Sub(p))
		for _, w := range positions {
			if w.Sub(p).Dot(edgeNormal) < -math.Precision {
				return false
			}
		}
	}
	return true
}

// IsConvex reports whether the mesh is convex.
func (m *Mesh) IsConvex() bool { return IsConvex(m.Positions, m.Primitives) }

// SimplyClosed reports whether the mesh is a closed surface.
func (m *Mesh) SimplyClosed() bool { return SimplyClosed(m.Primitives) }

// IsPlanar reports whether all vertices lie in one plane.
func (m *Mesh) IsPlanar(tol float64) bool { return IsPlanar(m.Positions, tol) }

// IsConvexPlanar reports whether the vertices form a convex planar outline.
func (m *Mesh) IsConvexPlanar() bool { return IsConvexPlanar(m.Positions) }

// disjointSet is a union-find forest with union by rank and path
// compression.
type disjointSet struct {
	parent []int
	rank   []int
}

func newDisjointSet(n int) *disjointSet {
	ds := &disjointSet{parent: make([]int, n), rank: make([]int, n)}
	for i := range ds.parent {
		ds.parent[i] = i
	}
	return ds
}

func (ds *disjointSet) find(x int) int {
	root := x
	for ds.parent[root] != root {
		root = ds.parent[root]
	}
	for ds.parent[x] != root {
		ds.parent[x], x = root, ds.parent[x]
	}
	return root
}

func (ds *disjointSet) union(x, y int) {
	xr, yr := ds.find(x), ds.find(y)
	if xr == yr {
		return
	}
	switch {
	case ds.rank[xr] < ds.rank[yr]:
		ds.parent[xr] = yr
	case ds.rank[xr] > ds.rank[yr]:
		ds.parent[yr] = xr
	default:
		ds.parent[yr] = xr
		ds.rank[xr]++
	}
}

// ConnectedComponents splits the mesh into pieces connected through shared
// vertices. Components are ordered by their root vertex; each keeps the
// primitive order of the mesh and is renumbered in encounter order.
// Vertices referenced by no primitive do not form components.
func (m *Mesh) ConnectedComponents() []Component {
	ds := newDisjointSet(len(m.Positions))
	for _, t := range m.Primitives {
		ds.union(t[0], t[1])
		ds.union(t[1], t[2])
	}

	byRoot := make(map[int][]Triangle)
	for _, t := range m.Primitives {
		r := ds.find(t[0])
		byRoot[r] = append(byRoot[r], t)
	}

	var out []Component
	for v := range m.Positions {
		if ds.find(v) != v {
			continue
		}
		prims, ok := byRoot[v]
		if !ok {
			continue
		}
		sub := &Mesh{Name: m.Name, Positions: m.Positions, Primitives: prims, log: m.log}
		sub.RemoveRedundantVertices()
		out = append(out, Component{Positions: sub.Positions, Primitives: sub.Primitives})
	}
	return out
}
