package mesh

import (
	gomath "math"

	"github.com/Faultbox/meshforge/pkg/math"
)

// cubeCorners are the corners of the cube [-1, 1]³.
var cubeCorners = [8]math.Vec3{
	{X: -1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: 1}, {X: -1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: -1},
	{X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: -1},
}

// cubeFaces lists the corners of each face counter-clockwise seen from
// outside.
var cubeFaces = [6][4]int{
	{0, 1, 2, 3},
	{4, 0, 3, 7},
	{5, 4, 7, 6},
	{1, 5, 6, 2},
	{7, 3, 2, 6},
	{1, 0, 4, 5},
}

// NewTestCube returns the cube [-1, 1]³ with 4 unshared vertices per face
// and a full UV square on every face.
func NewTestCube() *Mesh {
	m := New("cube")
	var uvs []math.Vec2
	var indices []int
	for _, f := range cubeFaces {
		o := len(m.Positions)
		for _, c := range f {
			m.Positions = append(m.Positions, cubeCorners[c])
		}
		uvs = append(uvs,
			math.Vec2{X: 1, Y: 1}, math.Vec2{X: 0, Y: 1},
			math.Vec2{X: 0, Y: 0}, math.Vec2{X: 1, Y: 0})
		indices = append(indices, o, o+1, o+2, o, o+2, o+3)
	}
	m.setUVSet(0, uvs)
	m.GeneratePrimitives(indices)
	return m
}

// NewBox returns a closed box of 8 shared vertices and 12 outward facing
// triangles.
func NewBox(center, halfExtents math.Vec3) *Mesh {
	m := New("box")
	m.Positions = make([]math.Vec3, len(cubeCorners))
	for i, c := range cubeCorners {
		m.Positions[i] = center.Add(c.Mul(halfExtents))
	}
	for _, f := range cubeFaces {
		m.Primitives = append(m.Primitives,
			Triangle{f[0], f[1], f[2]},
			Triangle{f[0], f[2], f[3]})
	}
	return m
}

// NewClosedCube returns the cube [-1, 1]³ as a closed 8 vertex mesh.
func NewClosedCube() *Mesh {
	m := NewBox(math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1})
	m.Name = "cube"
	return m
}

type squareDef struct {
	name      string
	positions []math.Vec3
	uvs       []math.Vec2
	tangents  []math.Vec3
	binormals []math.Vec3
	indices   []int
}

func v3(x, y, z float64) math.Vec3 { return math.Vec3{X: x, Y: y, Z: z} }
func v2(x, y float64) math.Vec2    { return math.Vec2{X: x, Y: y} }

func repeat(v math.Vec3, n int) []math.Vec3 {
	out := make([]math.Vec3, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// NewTestSquares returns pairs of quads bent along a shared edge used to
// check tangent generation:
//
//	square-t, square-b        continuous positions, UVs mirrored across the seam
//	split-square-t/b          the same with the seam vertices already split
//	control-square-t/b        pre-split with hand-authored tangent frames
//
// The -t variants run U along X, the -b variants run V along X. None has
// normals; tangents are only present on the control squares.
func NewTestSquares() []*Mesh {
	r2 := 1 / gomath.Sqrt2
	quads := []int{0, 1, 2, 0, 2, 3, 1, 4, 5, 1, 5, 2}
	splitQuads := []int{0, 1, 2, 0, 2, 3, 6, 4, 5, 6, 5, 7}
	controlQuads := []int{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7}
	diag := v3(0, r2, r2)
	flipped := append(repeat(math.XAxis, 4), repeat(math.XAxis.Neg(), 4)...)

	defs := []squareDef{
		{
			name:      "square-t",
			positions: []math.Vec3{v3(0, 0, 0), v3(1, 0, 0), v3(1, 1, 1), v3(0, 1, 1), v3(2, 0, 0), v3(2, 1, 1)},
			uvs:       []math.Vec2{v2(0, 0), v2(1, 0), v2(1, 1), v2(0, 1), v2(0, 0), v2(0, 1)},
			indices:   quads,
		},
		{
			name:      "square-b",
			positions: []math.Vec3{v3(0, 2, 2), v3(1, 2, 2), v3(1, 3, 3), v3(0, 3, 3), v3(2, 2, 2), v3(2, 3, 3)},
			uvs:       []math.Vec2{v2(0, 0), v2(0, 1), v2(1, 1), v2(1, 0), v2(0, 0), v2(1, 0)},
			indices:   quads,
		},
		{
			name: "split-square-t",
			positions: []math.Vec3{v3(0, 4, 4), v3(1, 4, 4), v3(1, 5, 5), v3(0, 5, 5), v3(2, 4, 4), v3(2, 5, 5),
				v3(1, 4, 4), v3(1, 5, 5)},
			uvs:     []math.Vec2{v2(0, 0), v2(1, 0), v2(1, 1), v2(0, 1), v2(0, 0), v2(0, 1), v2(1, 0), v2(1, 1)},
			indices: splitQuads,
		},
		{
			name: "split-square-b",
			positions: []math.Vec3{v3(0, 6, 6), v3(1, 6, 6), v3(1, 7, 7), v3(0, 7, 7), v3(2, 6, 6), v3(2, 7, 7),
				v3(1, 6, 6), v3(1, 7, 7)},
			uvs:     []math.Vec2{v2(0, 0), v2(0, 1), v2(1, 1), v2(1, 0), v2(0, 0), v2(1, 0), v2(0, 1), v2(1, 1)},
			indices: splitQuads,
		},
		{
			name: "control-square-t",
			positions: []math.Vec3{v3(0, 8, 8), v3(1, 8, 8), v3(1, 9, 9), v3(0, 9, 9),
				v3(1, 8, 8), v3(2, 8, 8), v3(2, 9, 9), v3(1, 9, 9)},
			uvs:       []math.Vec2{v2(0, 0), v2(1, 0), v2(1, 1), v2(0, 1), v2(1, 0), v2(0, 0), v2(0, 1), v2(1, 1)},
			tangents:  flipped,
			binormals: repeat(diag, 8),
			indices:   controlQuads,
		},
		{
			name: "control-square-b",
			positions: []math.Vec3{v3(0, 10, 10), v3(1, 10, 10), v3(1, 11, 11), v3(0, 11, 11),
				v3(1, 10, 10), v3(2, 10, 10), v3(2, 11, 11), v3(1, 11, 11)},
			uvs:       []math.Vec2{v2(0, 0), v2(0, 1), v2(1, 1), v2(1, 0), v2(0, 1), v2(0, 0), v2(1, 0), v2(1, 1)},
			tangents:  repeat(diag, 8),
			binormals: cloneSlice(flipped),
			indices:   controlQuads,
		},
	}

	out := make([]*Mesh, 0, len(defs))
	for _, d := range defs {
		m := New(d.name)
		m.Positions = d.positions
		m.setUVSet(0, d.uvs)
		m.Tangents = d.tangents
		m.Binormals = d.binormals
		m.GeneratePrimitives(d.indices)
		out = append(out, m)
	}
	return out
}

// NewGrid returns an n×n vertex grid on the z = 0 plane spanning [0, 1]²
// with UVs equal to the XY position, triangulated counter-clockwise.
func NewGrid(n int) *Mesh {
	m := New("grid")
	if n < 2 {
		return m
	}
	step := 1 / float64(n-1)
	uvs := make([]math.Vec2, 0, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			p := math.Vec2{X: float64(x) * step, Y: float64(y) * step}
			m.Positions = append(m.Positions, math.Vec3{X: p.X, Y: p.Y})
			uvs = append(uvs, p)
		}
	}
	m.setUVSet(0, uvs)
	for y := 0; y < n-1; y++ {
		for x := 0; x < n-1; x++ {
			i := y*n + x
			m.Primitives = append(m.Primitives,
				Triangle{i, i + 1, i + n + 1},
				Triangle{i, i + n + 1, i + n})
		}
	}
	return m
}
