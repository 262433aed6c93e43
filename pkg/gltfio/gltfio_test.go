package gltfio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/meshforge/pkg/math"
	"github.com/Faultbox/meshforge/pkg/mesh"
)

func near3(a, b math.Vec3) bool { return a.Equal(b, 1e-5) }

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, ext := range []string{".glb", ".gltf"} {
		t.Run(ext, func(t *testing.T) {
			tol := mesh.DefaultTolerances()
			cube := mesh.NewTestCube()
			if err := cube.GenerateSmoothNBTs(tol); err != nil {
				t.Fatalf("GenerateSmoothNBTs failed: %v", err)
			}
			box := mesh.NewBox(math.Vec3{X: 5}, math.Vec3{X: 1, Y: 2, Z: 3})
			box.Colors = make([]math.Vec4, box.NumVertices())
			for i := range box.Colors {
				box.Colors[i] = math.Vec4{X: 0.3, Y: 0.6, Z: 0.2, W: 0.9}
			}

			path := filepath.Join(t.TempDir(), "out"+ext)
			if err := Save(path, []*mesh.Mesh{cube, box}); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("expected 2 meshes, got %d", len(got))
			}

			c := got[0]
			if c.Name != "cube" || c.NumVertices() != cube.NumVertices() || len(c.Primitives) != len(cube.Primitives) {
				t.Fatalf("cube: got %q with %d vertices %d primitives", c.Name, c.NumVertices(), len(c.Primitives))
			}
			for i := range cube.Positions {
				if !near3(c.Positions[i], cube.Positions[i]) {
					t.Errorf("position %d: got %v, want %v", i, c.Positions[i], cube.Positions[i])
				}
				if !near3(c.Normals[i], cube.Normals[i]) {
					t.Errorf("normal %d: got %v, want %v", i, c.Normals[i], cube.Normals[i])
				}
				if !near3(c.Tangents[i], cube.Tangents[i]) {
					t.Errorf("tangent %d: got %v, want %v", i, c.Tangents[i], cube.Tangents[i])
				}
				if c.UVs[0][i] != cube.UVs[0][i] {
					t.Errorf("uv %d: got %v, want %v", i, c.UVs[0][i], cube.UVs[0][i])
				}
			}
			for i := range cube.Primitives {
				if c.Primitives[i] != cube.Primitives[i] {
					t.Errorf("primitive %d: got %v, want %v", i, c.Primitives[i], cube.Primitives[i])
				}
			}
			if len(c.Binormals) != c.NumVertices() {
				t.Errorf("expected binormals rebuilt from tangent handedness, got %d", len(c.Binormals))
			}

			b := got[1]
			if len(b.Colors) != b.NumVertices() {
				t.Fatalf("got %d colors for %d vertices", len(b.Colors), b.NumVertices())
			}
			// float colors survive at float32 precision, not 8 bits
			for i, c := range b.Colors {
				if !c.Equal(math.Vec4{X: 0.3, Y: 0.6, Z: 0.2, W: 0.9}, 1e-6) {
					t.Errorf("color %d: got %v", i, c)
				}
			}
			if !near3(b.BBox.Min, math.Vec3{X: 4, Y: -2, Z: -3}) || !near3(b.BBox.Max, math.Vec3{X: 6, Y: 2, Z: 3}) {
				t.Errorf("box bbox %+v", b.BBox)
			}
		})
	}
}

func TestSaveLoadSurfaces(t *testing.T) {
	cube := mesh.NewClosedCube()
	cube.Surfaces = map[string]mesh.Surface{
		"sides": {Start: 0, End: 8},
		"caps":  {Start: 8, End: 12},
	}

	path := filepath.Join(t.TempDir(), "surfaces.glb")
	if err := Save(path, []*mesh.Mesh{cube}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	m := got[0]
	if len(m.Primitives) != 12 {
		t.Fatalf("expected 12 primitives, got %d", len(m.Primitives))
	}
	// each glTF primitive carries its own vertices
	if m.NumVertices() != 16 {
		t.Errorf("expected 16 vertices, got %d", m.NumVertices())
	}
	if s := m.Surfaces["sides"]; s.Start != 0 || s.End != 8 {
		t.Errorf("sides: got %+v", s)
	}
	if s := m.Surfaces["caps"]; s.Start != 8 || s.End != 12 {
		t.Errorf("caps: got %+v", s)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.glb")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "empty.gltf")
	if err := os.WriteFile(path, []byte(`{"asset":{"version":"2.0"}}`), 0o644); err != nil {
		t.Fatalf("writing empty document: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrNoMeshes) {
		t.Errorf("expected ErrNoMeshes, got %v", err)
	}
}

func TestAppendStream(t *testing.T) {
	var dst []int
	dst = appendStream(dst, 0, nil, 3)
	if len(dst) != 0 {
		t.Errorf("absent stream should stay empty, got %v", dst)
	}
	dst = appendStream(dst, 3, []int{7, 8}, 2)
	if len(dst) != 5 || dst[0] != 0 || dst[3] != 7 {
		t.Errorf("got %v, want [0 0 0 7 8]", dst)
	}
	dst = appendStream(dst, 5, nil, 2)
	if len(dst) != 7 || dst[6] != 0 {
		t.Errorf("got %v, want zero padded tail", dst)
	}
}
