// Package mesh holds triangle meshes as parallel vertex streams and implements
// the build-time processing applied to them: normal and tangent-space
// generation, welding and cleanup, and convex hull decomposition.
package mesh

import (
	"errors"
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/pkg/math"
	"github.com/Faultbox/meshforge/pkg/pointmap"
)

// Mesh errors.
var (
	ErrUnknownSemantic   = errors.New("unknown vertex semantic")
	ErrStreamType        = errors.New("stream type does not match semantic")
	ErrStreamMismatch    = errors.New("vertex stream length mismatch")
	ErrIndexOutOfRange   = errors.New("primitive index out of range")
	ErrTooManyComponents = errors.New("too many connected components")
	ErrNotConvex         = errors.New("component cannot be converted to a convex hull")
)

// Triangle holds three vertex indices.
type Triangle [3]int

// BBox is an axis-aligned bounding box.
type BBox struct {
	Min math.Vec3
	Max math.Vec3
}

// Surface is a named range [Start, End) of the primitive list.
type Surface struct {
	Start int
	End   int
}

// Mesh is a triangle mesh stored as index-parallel vertex streams.
// Optional streams are either empty or exactly as long as Positions.
type Mesh struct {
	Name string

	Positions   []math.Vec3
	UVs         [][]math.Vec2
	Normals     []math.Vec3
	Tangents    []math.Vec3
	Binormals   []math.Vec3
	Colors      []math.Vec4
	SkinIndices []math.Vec4
	SkinWeights []math.Vec4

	Primitives []Triangle
	Surfaces   map[string]Surface
	BBox       BBox

	log  *zap.Logger
	tree *pointmap.Node
	// slice the tree was built over
	treeBase *math.Vec3
	treeLen  int
}

// New creates an empty mesh.
func New(name string) *Mesh {
	return &Mesh{
		Name: name,
		log:  zap.NewNop(),
	}
}

// Clone returns a deep copy of the mesh sharing its logger.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Name:        m.Name,
		Positions:   cloneSlice(m.Positions),
		Normals:     cloneSlice(m.Normals),
		Tangents:    cloneSlice(m.Tangents),
		Binormals:   cloneSlice(m.Binormals),
		Colors:      cloneSlice(m.Colors),
		SkinIndices: cloneSlice(m.SkinIndices),
		SkinWeights: cloneSlice(m.SkinWeights),
		Primitives:  cloneSlice(m.Primitives),
		BBox:        m.BBox,
		log:         m.log,
	}
	if m.UVs != nil {
		c.UVs = make([][]math.Vec2, len(m.UVs))
		for i, set := range m.UVs {
			c.UVs[i] = cloneSlice(set)
		}
	}
	if m.Surfaces != nil {
		c.Surfaces = make(map[string]Surface, len(m.Surfaces))
		for k, v := range m.Surfaces {
			c.Surfaces[k] = v
		}
	}
	return c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append([]T(nil), s...)
}

// SetLogger sets the logger used for degenerate-geometry warnings.
// A nil logger disables logging.
func (m *Mesh) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	m.log = l
}

func (m *Mesh) logger() *zap.Logger {
	if m.log == nil {
		m.log = zap.NewNop()
	}
	return m.log.With(zap.String("shape", m.Name))
}

// NumVertices returns the number of vertices.
func (m *Mesh) NumVertices() int {
	return len(m.Positions)
}

// UVSet returns texture coordinate set i, or nil if it does not exist.
func (m *Mesh) UVSet(i int) []math.Vec2 {
	if i < 0 || i >= len(m.UVs) {
		return nil
	}
	return m.UVs[i]
}

// setUVSet stores values as set i, growing the set list as needed.
func (m *Mesh) setUVSet(i int, values []math.Vec2) {
	for len(m.UVs) <= i {
		m.UVs = append(m.UVs, nil)
	}
	m.UVs[i] = values
}

// pointMap returns the cached spatial index over Positions. The index is
// rebuilt when Positions has been reassigned or resized since it was built.
// Moving positions in place without reassigning the slice is not detected;
// call a mesh method that edits positions instead.
func (m *Mesh) pointMap() *pointmap.Node {
	base := positionsBase(m.Positions)
	if m.tree == nil || m.treeBase != base || m.treeLen != len(m.Positions) {
		m.tree = pointmap.Build(m.Positions)
		m.treeBase, m.treeLen = base, len(m.Positions)
	}
	return m.tree
}

func positionsBase(p []math.Vec3) *math.Vec3 {
	if len(p) == 0 {
		return nil
	}
	return &p[0]
}

// invalidate drops caches derived from Positions.
func (m *Mesh) invalidate() {
	m.tree = nil
	m.treeBase, m.treeLen = nil, 0
}

// Validate checks that every non-empty stream matches the vertex count and
// that every primitive index is in range.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	check := func(name string, l int) error {
		if l != 0 && l != n {
			return fmt.Errorf("%w: %s has %d values for %d vertices", ErrStreamMismatch, name, l, n)
		}
		return nil
	}
	streams := []struct {
		name string
		l    int
	}{
		{"NORMAL", len(m.Normals)},
		{"TANGENT", len(m.Tangents)},
		{"BINORMAL", len(m.Binormals)},
		{"COLOR", len(m.Colors)},
		{"BLENDINDICES", len(m.SkinIndices)},
		{"BLENDWEIGHT", len(m.SkinWeights)},
	}
	for i, set := range m.UVs {
		streams = append(streams, struct {
			name string
			l    int
		}{fmt.Sprintf("TEXCOORD%d", i), len(set)})
	}
	for _, s := range streams {
		if err := check(s.name, s.l); err != nil {
			return err
		}
	}
	for pi, p := range m.Primitives {
		for _, i := range p {
			if i < 0 || i >= n {
				return fmt.Errorf("%w: primitive %d references vertex %d of %d", ErrIndexOutOfRange, pi, i, n)
			}
		}
	}
	return nil
}

// GeneratePrimitives builds the triangle list from a flat index list.
// Trailing indices that do not form a whole triangle are dropped.
func (m *Mesh) GeneratePrimitives(indices []int) {
	if len(indices)%3 != 0 {
		m.logger().Warn("index count is not a multiple of 3",
			zap.Int("indices", len(indices)))
	}
	m.Primitives = make([]Triangle, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		m.Primitives = append(m.Primitives, Triangle{indices[i], indices[i+1], indices[i+2]})
	}
}

// Indices flattens the triangle list.
func (m *Mesh) Indices() []int {
	out := make([]int, 0, len(m.Primitives)*3)
	for _, p := range m.Primitives {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}

// GenerateBBox recomputes BBox from Positions. An empty mesh gets an
// inverted infinite box.
func (m *Mesh) GenerateBBox() {
	if len(m.Positions) == 0 {
		inf := gomath.Inf(1)
		m.BBox = BBox{
			Min: math.Vec3{X: inf, Y: inf, Z: inf},
			Max: math.Vec3{X: -inf, Y: -inf, Z: -inf},
		}
		return
	}
	lo, hi := math.MinMax(m.Positions)
	m.BBox = BBox{Min: lo, Max: hi}
}

// ExtendMesh appends positions and primitives indexed relative to them.
// Only positions are extended; other streams are left untouched.
func (m *Mesh) ExtendMesh(positions []math.Vec3, primitives []Triangle) {
	offset := len(m.Positions)
	m.Positions = append(m.Positions, positions...)
	for _, p := range primitives {
		m.Primitives = append(m.Primitives, Triangle{p[0] + offset, p[1] + offset, p[2] + offset})
	}
	m.invalidate()
}
