package mesh

import (
	gomath "math"

	"github.com/Faultbox/meshforge/pkg/math"
)

// hullIndex maps input vertex indices to output indices in the order the
// hull reaches them.
type hullIndex struct {
	index map[int]int
	order []int
}

func newHullIndex(first ...int) *hullIndex {
	h := &hullIndex{index: make(map[int]int)}
	for _, i := range first {
		h.add(i)
	}
	return h
}

func (h *hullIndex) has(i int) bool {
	_, ok := h.index[i]
	return ok
}

func (h *hullIndex) add(i int) {
	if !h.has(i) {
		h.index[i] = len(h.order)
		h.order = append(h.order, i)
	}
}

func (h *hullIndex) mesh(name string, positions []math.Vec3, triangles []Triangle) *Mesh {
	out := New(name)
	out.Positions = make([]math.Vec3, len(h.order))
	for j, i := range h.order {
		out.Positions[j] = positions[i]
	}
	out.Primitives = make([]Triangle, len(triangles))
	for k, t := range triangles {
		out.Primitives[k] = Triangle{h.index[t[0]], h.index[t[1]], h.index[t[2]]}
	}
	return out
}

// MakePlanarConvexHull reduces coplanar positions to the outline of their
// convex hull and triangulates one side of it as a fan. Positions are
// projected onto the plane through the first three, then wrapped in 2D.
// It returns nil when fewer than three positions are given.
func MakePlanarConvexHull(positions []math.Vec3, tangentTol float64) *Mesh {
	if len(positions) < 3 {
		return nil
	}

	n := positions[1].Sub(positions[0]).Cross(positions[2].Sub(positions[0]))
	t := math.XAxis
	if n.X*n.X+n.Z*n.Z >= tangentTol {
		t = math.Vec3{X: -n.Z, Z: n.X}
	}
	u := n.Cross(t)

	projs := make([]math.Vec2, len(positions))
	for i, p := range positions {
		projs[i] = math.Vec2{X: p.Dot(t), Y: p.Dot(u)}
	}

	i0 := 0
	for i := 1; i < len(projs); i++ {
		if projs[i].Less(projs[i0]) {
			i0 = i
		}
	}

	out := newHullIndex(i0)
	var triangles []Triangle
	first := i0
	p0 := projs[i0]
	for {
		i1 := -1
		var best math.Vec2
		var bestLsq float64
		for i, p := range projs {
			if i == i0 {
				continue
			}
			d := p.Sub(p0)
			lsq := d.LengthSq()
			if i1 == -1 {
				i1, best, bestLsq = i, p, lsq
				continue
			}
			// right turn, or further along the same direction
			turn := best.Sub(p0).Cross(d)
			if turn < 0 || (turn == 0 && lsq > bestLsq) {
				i1, best, bestLsq = i, p, lsq
			}
		}
		if i1 == -1 || out.has(i1) {
			break
		}
		out.add(i1)
		if i0 != first {
			triangles = append(triangles, Triangle{first, i0, i1})
		}
		i0 = i1
		p0 = projs[i1]
	}

	return out.mesh("planar-hull", positions, triangles)
}

// MakeConvexHull builds a closed triangulated convex hull by gift wrapping:
// starting from an edge found with a 2D scan, each open edge is turned
// about until it meets the outermost remaining position. It returns nil if
// any input position does not end up on the hull or the result fails to be
// convex and closed, so the input must already be a minimal convex hull.
func MakeConvexHull(positions []math.Vec3, collinearTol, coplanarTol float64) *Mesh {
	if len(positions) < 3 {
		return nil
	}

	i0 := 0
	for i := 1; i < len(positions); i++ {
		if positions[i].Less(positions[i0]) {
			i0 = i
		}
	}

	// second vertex from a 2D scan of the xy projections
	i1 := -1
	cos1, lsq1 := -2.0, 0.0
	minp := positions[i0]
	for i, p := range positions {
		if i == i0 {
			continue
		}
		dx, dy := p.X-minp.X, p.Y-minp.Y
		lsq := dx*dx + dy*dy
		if lsq == 0 {
			if i1 == -1 {
				i1 = i
			}
			continue
		}
		cos := dy / gomath.Sqrt(lsq)
		if cos > cos1 || (cos == cos1 && lsq > lsq1) {
			cos1, lsq1, i1 = cos, lsq, i
		}
	}

	type edge [2]int
	closed := make(map[edge]bool)
	open := []edge{{i0, i1}, {i1, i0}}
	out := newHullIndex(i0, i1)
	var triangles []Triangle

	for len(open) > 0 {
		e := open[len(open)-1]
		open = open[:len(open)-1]
		if closed[e] {
			continue
		}
		a, b := e[0], e[1]

		p0 := positions[a]
		dir := positions[b].Sub(p0)
		lsq := dir.LengthSq()
		if lsq == 0 {
			return nil
		}
		isq := 1 / lsq

		i2 := -1
		var maxPedge math.Vec3
		var maxPlsq, maxT float64
		take := func(i int, pedge math.Vec3, plsq, t float64) {
			i2, maxPedge, maxPlsq, maxT = i, pedge, plsq, t
		}

		for i, p := range positions {
			if i == a || i == b {
				continue
			}
			// perpendicular from the edge line to p; the turn does not need
			// it but ties are broken by its length
			t := p.Sub(p0).Dot(dir) * isq
			pedge := p.Sub(p0.Add(dir.Scale(t)))
			plsq := pedge.LengthSq()
			if plsq <= collinearTol {
				continue
			}
			if i2 == -1 {
				take(i, pedge, plsq, t)
				continue
			}

			axis := pedge.Cross(maxPedge)
			coplanar := pedge.Dot(dir.Cross(maxPedge))
			if coplanar*coplanar > coplanarTol {
				turn := axis.Dot(dir)
				if turn < 0 || (turn <= collinearTol && plsq > maxPlsq) {
					take(i, pedge, plsq, t)
				}
				continue
			}

			if pedge.Dot(maxPedge) >= 0 {
				if plsq > maxPlsq || (plsq == maxPlsq && t > maxT) {
					take(i, pedge, plsq, t)
				}
				continue
			}
			// opposite sides of the edge: keep p if its plane has every
			// position behind it
			axis = p.Sub(p0).Cross(dir)
			internal := true
			for _, q := range positions {
				if axis.Dot(q.Sub(p0)) < 0 {
					internal = false
					break
				}
			}
			if internal {
				take(i, pedge, plsq, t)
			}
		}
		if i2 == -1 {
			return nil
		}

		out.add(i2)
		if !closed[edge{a, b}] && !closed[edge{b, i2}] && !closed[edge{i2, a}] {
			triangles = append(triangles, Triangle{a, b, i2})
			closed[edge{a, b}] = true
			closed[edge{b, i2}] = true
			closed[edge{i2, a}] = true
			open = append(open, edge{i2, b}, edge{a, i2})
		}
	}

	if len(out.order) != len(positions) {
		return nil
	}
	hull := out.mesh("hull", positions, triangles)
	if !hull.IsConvex() || !hull.SimplyClosed() {
		return nil
	}
	return hull
}
