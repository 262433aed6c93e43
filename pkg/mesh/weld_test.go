package mesh

import (
	"testing"

	"github.com/Faultbox/meshforge/pkg/math"
)

func TestStitchVertices(t *testing.T) {
	m := NewTestCube()
	m.StitchVertices()

	if m.NumVertices() != 8 {
		t.Fatalf("expected 8 welded vertices, got %d", m.NumVertices())
	}
	if len(m.Primitives) != 12 {
		t.Errorf("expected 12 primitives, got %d", len(m.Primitives))
	}
	for i := 1; i < len(m.Positions); i++ {
		if !m.Positions[i-1].Less(m.Positions[i]) {
			t.Errorf("positions not strictly ordered at %d: %v, %v", i, m.Positions[i-1], m.Positions[i])
		}
	}
	if len(m.UVs) != 0 {
		t.Error("expected attribute streams to be dropped")
	}
	if !m.IsConvex() || !m.SimplyClosed() {
		t.Error("welded cube should be convex and closed")
	}
	if err := m.Validate(); err != nil {
		t.Errorf("welded mesh invalid: %v", err)
	}
}

func TestStitchVerticesIdempotent(t *testing.T) {
	once := NewTestCube()
	once.StitchVertices()
	twice := once.Clone()
	twice.StitchVertices()

	if len(once.Positions) != len(twice.Positions) {
		t.Fatalf("vertex count changed: %d -> %d", len(once.Positions), len(twice.Positions))
	}
	for i := range once.Positions {
		if once.Positions[i] != twice.Positions[i] {
			t.Errorf("position %d changed: %v -> %v", i, once.Positions[i], twice.Positions[i])
		}
	}
	for i := range once.Primitives {
		if once.Primitives[i] != twice.Primitives[i] {
			t.Errorf("primitive %d changed: %v -> %v", i, once.Primitives[i], twice.Primitives[i])
		}
	}
}

func TestStitchVerticesExact(t *testing.T) {
	m := New("near")
	m.Positions = []math.Vec3{{X: 1}, {X: 1 + 1e-12}, {X: 1}}
	m.Primitives = []Triangle{{0, 1, 2}}
	m.StitchVertices()

	if m.NumVertices() != 2 {
		t.Errorf("expected only exact duplicates merged, got %d vertices", m.NumVertices())
	}
	if m.Primitives[0] != (Triangle{0, 1, 0}) {
		t.Errorf("got %v, want [0 1 0]", m.Primitives[0])
	}
}

func TestRemoveDegeneratePrimitives(t *testing.T) {
	positions := []math.Vec3{{}, {X: 1}, {Y: 1}, {X: 1e-9}}
	prims := []Triangle{
		{0, 1, 2},
		{0, 0, 1},
		{1, 2, 1},
		{0, 3, 2},
	}

	tests := []struct {
		name      string
		zeroEdges bool
		want      int
	}{
		{"indices only", false, 2},
		{"with zero length edges", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New("degenerate")
			m.Positions = positions
			m.Primitives = append([]Triangle(nil), prims...)
			m.RemoveDegeneratePrimitives(tt.zeroEdges, DefaultTolerances().Position)
			if len(m.Primitives) != tt.want {
				t.Errorf("got %d primitives, want %d", len(m.Primitives), tt.want)
			}
			if m.Primitives[0] != prims[0] {
				t.Errorf("first primitive changed: %v", m.Primitives[0])
			}
		})
	}
}

func TestRemoveRedundantVertices(t *testing.T) {
	m := NewTestCube()
	m.GenerateNormals(DefaultTolerances())
	// keep the +X face (vertices 8..11) and one triangle of the -X face
	m.Primitives = []Triangle{m.Primitives[4], m.Primitives[5], m.Primitives[0]}
	orig := m.Clone()

	order := m.RemoveRedundantVertices()

	if m.NumVertices() != 7 {
		t.Fatalf("expected 7 vertices, got %d", m.NumVertices())
	}
	wantOrder := []int{8, 9, 10, 11, 0, 1, 2}
	for i, old := range order {
		if old != wantOrder[i] {
			t.Errorf("new vertex %d: got old index %d, want %d", i, old, wantOrder[i])
		}
	}
	for i, old := range order {
		if m.Positions[i] != orig.Positions[old] ||
			m.Normals[i] != orig.Normals[old] ||
			m.UVs[0][i] != orig.UVs[0][old] {
			t.Errorf("vertex %d does not match original vertex %d", i, old)
		}
	}
	for pi, p := range m.Primitives {
		for k := range p {
			if order[p[k]] != orig.Primitives[pi][k] {
				t.Errorf("primitive %d corner %d maps to %d, want %d", pi, k, order[p[k]], orig.Primitives[pi][k])
			}
		}
	}
	if err := m.Validate(); err != nil {
		t.Errorf("mesh invalid: %v", err)
	}
}

func TestRemoveDegeneratePrimitivesShiftsSurfaces(t *testing.T) {
	m := NewGrid(3)
	// 8 triangles; drop one from each surface
	m.Primitives[1] = Triangle{0, 0, 1}
	m.Primitives[6] = Triangle{4, 5, 5}
	m.Surfaces = map[string]Surface{
		"bottom": {Start: 0, End: 4},
		"top":    {Start: 4, End: 8},
	}

	m.RemoveDegeneratePrimitives(false, 0)

	if len(m.Primitives) != 6 {
		t.Fatalf("expected 6 primitives, got %d", len(m.Primitives))
	}
	if s := m.Surfaces["bottom"]; s.Start != 0 || s.End != 3 {
		t.Errorf("bottom: got %+v, want {0 3}", s)
	}
	if s := m.Surfaces["top"]; s.Start != 3 || s.End != 6 {
		t.Errorf("top: got %+v, want {3 6}", s)
	}
}
