// Package pointmap provides a kd-tree-like index over a point set where every
// node, internal or leaf, holds one point. It answers "all points within a
// per-axis tolerance of p" queries in O(log n) expected time.
package pointmap

import (
	"sort"

	"github.com/Faultbox/meshforge/pkg/math"
)

// Node is one point of the tree. Points in Left have a split-axis coordinate
// less than or equal to this node's; points in Right greater than or equal.
type Node struct {
	Index int
	Axis  int
	Left  *Node
	Right *Node
}

// Build constructs a tree over every index of points. It returns nil for an
// empty set. The tree references points by index only; callers must pass the
// same slice to the query methods.
func Build(points []math.Vec3) *Node {
	indices := make([]int, len(points))
	for i := range indices {
		indices[i] = i
	}
	return build(points, indices, 0)
}

func build(points []math.Vec3, indices []int, depth int) *Node {
	if len(indices) == 0 {
		return nil
	}

	axis := depth % 3
	sort.SliceStable(indices, func(i, j int) bool {
		return points[indices[i]].Component(axis) < points[indices[j]].Component(axis)
	})
	median := len(indices) / 2

	return &Node{
		Index: indices[median],
		Axis:  axis,
		Left:  build(points, indices[:median], depth+1),
		Right: build(points, indices[median+1:], depth+1),
	}
}

// Within returns the indices of every point whose coordinates each differ
// from p by at most tol. The order of the result is unspecified.
func (n *Node) Within(points []math.Vec3, p math.Vec3, tol float64) []int {
	var results []int
	n.walk(points, p, tol, func(i int) bool {
		return points[i].Equal(p, tol)
	}, &results)
	return results
}

// WithinUV is Within with the extra constraint that the point's UV differs
// from uv by at most uvTol on each axis.
func (n *Node) WithinUV(points []math.Vec3, p math.Vec3, tol float64, uvs []math.Vec2, uv math.Vec2, uvTol float64) []int {
	var results []int
	n.walk(points, p, tol, func(i int) bool {
		return points[i].Equal(p, tol) && uvs[i].Equal(uv, uvTol)
	}, &results)
	return results
}

func (n *Node) walk(points []math.Vec3, p math.Vec3, tol float64, match func(int) bool, results *[]int) {
	if n == nil {
		return
	}
	if match(n.Index) {
		*results = append(*results, n.Index)
	}

	v := points[n.Index].Component(n.Axis)
	q := p.Component(n.Axis)
	switch {
	case q+tol < v:
		n.Left.walk(points, p, tol, match, results)
	case q-tol > v:
		n.Right.walk(points, p, tol, match, results)
	default:
		n.Left.walk(points, p, tol, match, results)
		n.Right.walk(points, p, tol, match, results)
	}
}

// Len returns the number of points in the tree.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return 1 + n.Left.Len() + n.Right.Len()
}

// Depth returns the height of the tree.
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}
	return 1 + max(n.Left.Depth(), n.Right.Depth())
}
