package pipeline

import (
	"errors"
	gomath "math"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/meshforge/internal/config"
	"github.com/Faultbox/meshforge/pkg/gltfio"
	"github.com/Faultbox/meshforge/pkg/math"
	"github.com/Faultbox/meshforge/pkg/mesh"
)

func near(a, b math.Vec3) bool { return a.Equal(b, 1e-9) }

func writeSource(t *testing.T, meshes ...*mesh.Mesh) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.glb")
	if err := gltfio.Save(path, meshes); err != nil {
		t.Fatalf("writing source: %v", err)
	}
	return path
}

func twoBoxes() *mesh.Mesh {
	m := mesh.NewBox(math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1})
	other := mesh.NewBox(math.Vec3{X: 5}, math.Vec3{X: 1, Y: 1, Z: 1})
	m.ExtendMesh(other.Positions, other.Primitives)
	return m
}

func TestProcessMeshGrid(t *testing.T) {
	p := New(config.Default(), nil)
	m := mesh.NewGrid(3)

	if err := p.ProcessMesh(m); err != nil {
		t.Fatalf("ProcessMesh failed: %v", err)
	}
	if m.NumVertices() != 9 {
		t.Errorf("expected 9 vertices, got %d", m.NumVertices())
	}
	for i := range m.Positions {
		if !near(m.Normals[i], math.ZAxis) {
			t.Errorf("vertex %d normal: got %v, want +Z", i, m.Normals[i])
		}
		if !near(m.Tangents[i], math.XAxis) {
			t.Errorf("vertex %d tangent: got %v, want +X", i, m.Tangents[i])
		}
	}
	if !near(m.BBox.Min, math.Vec3{}) || !near(m.BBox.Max, math.Vec3{X: 1, Y: 1}) {
		t.Errorf("bbox %+v", m.BBox)
	}
}

func TestProcessMeshSteps(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
		mesh   func() *mesh.Mesh
		verify func(*testing.T, *mesh.Mesh)
	}{
		{
			name:   "scale regenerates normals",
			modify: func(c *config.Config) { c.Transform.Scale = math.Vec3{X: 2, Y: 2, Z: 2} },
			mesh: func() *mesh.Mesh {
				m := mesh.NewGrid(2)
				m.Normals = []math.Vec3{math.ZAxis, math.ZAxis, math.ZAxis, math.ZAxis}
				return m
			},
			verify: func(t *testing.T, m *mesh.Mesh) {
				if !near(m.BBox.Max, math.Vec3{X: 2, Y: 2}) {
					t.Errorf("expected scaled bbox, got %+v", m.BBox)
				}
				for i, n := range m.Normals {
					if gomath.Abs(n.Length()-1) > 1e-9 {
						t.Errorf("normal %d not unit length: %v", i, n)
					}
				}
			},
		},
		{
			name:   "translate",
			modify: func(c *config.Config) { c.Transform.Translate = math.Vec3{Z: 3} },
			mesh:   func() *mesh.Mesh { return mesh.NewGrid(2) },
			verify: func(t *testing.T, m *mesh.Mesh) {
				if m.BBox.Min.Z != 3 || m.BBox.Max.Z != 3 {
					t.Errorf("expected z = 3, got %+v", m.BBox)
				}
			},
		},
		{
			name:   "mirror keeps winding outward",
			modify: func(c *config.Config) { c.Transform.MirrorAxis = 0 },
			mesh:   func() *mesh.Mesh { return mesh.NewBox(math.Vec3{X: 3}, math.Vec3{X: 1, Y: 1, Z: 1}) },
			verify: func(t *testing.T, m *mesh.Mesh) {
				if m.BBox.Max.X != -2 {
					t.Errorf("expected mirrored box, got %+v", m.BBox)
				}
				if !m.IsConvex() {
					t.Error("mirrored box should stay convex")
				}
			},
		},
		{
			name:   "invert v",
			modify: func(c *config.Config) { c.Transform.InvertV = true },
			mesh:   func() *mesh.Mesh { return mesh.NewGrid(2) },
			verify: func(t *testing.T, m *mesh.Mesh) {
				// V flips, so the tangent chart's binormal turns to -Y
				if m.UVs[0][0].Y != 1 {
					t.Errorf("expected inverted V, got %v", m.UVs[0][0])
				}
				if !near(m.Binormals[0], math.YAxis.Neg()) {
					t.Errorf("expected -Y binormal, got %v", m.Binormals[0])
				}
			},
		},
		{
			name:   "tangents disabled",
			modify: func(c *config.Config) { c.Tangents.Generate = false },
			mesh:   func() *mesh.Mesh { return mesh.NewGrid(2) },
			verify: func(t *testing.T, m *mesh.Mesh) {
				if len(m.Tangents) != 0 || len(m.Binormals) != 0 {
					t.Error("expected no tangent space")
				}
				if len(m.Normals) != 4 {
					t.Errorf("expected normals, got %d", len(m.Normals))
				}
			},
		},
		{
			name:   "unsmoothed tangents",
			modify: func(c *config.Config) { c.Tangents.Smooth = false },
			mesh:   func() *mesh.Mesh { return mesh.NewGrid(3) },
			verify: func(t *testing.T, m *mesh.Mesh) {
				for i, tg := range m.Tangents {
					if !near(tg, math.XAxis) {
						t.Errorf("tangent %d: got %v, want +X", i, tg)
					}
				}
			},
		},
		{
			name:   "degenerates removed",
			modify: func(c *config.Config) {},
			mesh: func() *mesh.Mesh {
				m := mesh.NewGrid(2)
				m.Primitives = append(m.Primitives, mesh.Triangle{0, 0, 1})
				return m
			},
			verify: func(t *testing.T, m *mesh.Mesh) {
				if len(m.Primitives) != 2 {
					t.Errorf("expected 2 primitives, got %d", len(m.Primitives))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.modify(cfg)
			m := tt.mesh()
			if err := New(cfg, nil).ProcessMesh(m); err != nil {
				t.Fatalf("ProcessMesh failed: %v", err)
			}
			tt.verify(t, m)
		})
	}
}

func TestProcessMeshNegativeScaleWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := config.Default()
	cfg.Transform.Scale = math.Vec3{X: -1, Y: 1, Z: 1}

	if err := New(cfg, zap.New(core)).ProcessMesh(mesh.NewGrid(2)); err != nil {
		t.Fatalf("ProcessMesh failed: %v", err)
	}
	if logs.FilterMessage("negative scale not currently supported, use mirror_axis").Len() != 1 {
		t.Errorf("expected negative scale warning, got %v", logs.All())
	}
}

func TestProcessMeshInvalid(t *testing.T) {
	m := mesh.NewGrid(2)
	m.Normals = []math.Vec3{math.ZAxis}
	if err := New(config.Default(), nil).ProcessMesh(m); !errors.Is(err, mesh.ErrStreamMismatch) {
		t.Errorf("expected ErrStreamMismatch, got %v", err)
	}
}

func TestProcess(t *testing.T) {
	in := writeSource(t, mesh.NewTestCube(), mesh.NewGrid(3))
	out := filepath.Join(t.TempDir(), "out", "processed")

	p := New(config.Default(), nil)
	r, err := p.Process(in, out)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if r.Output != out+".glb" {
		t.Errorf("expected output %s.glb, got %s", out, r.Output)
	}
	if r.Meshes != 2 || r.Primitives != 12+8 {
		t.Errorf("unexpected report %+v", r)
	}

	got, err := gltfio.Load(r.Output)
	if err != nil {
		t.Fatalf("reloading output: %v", err)
	}
	for _, m := range got {
		if len(m.Normals) != m.NumVertices() || len(m.Tangents) != m.NumVertices() {
			t.Errorf("%s: missing tangent space after processing", m.Name)
		}
	}
}

func TestProcessNoOverwrite(t *testing.T) {
	in := writeSource(t, mesh.NewGrid(2))
	out := filepath.Join(t.TempDir(), "grid.glb")
	if err := os.WriteFile(out, []byte("keep"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg := config.Default()
	cfg.Output.Overwrite = false
	if _, err := New(cfg, nil).Process(in, out); !errors.Is(err, ErrOutputExists) {
		t.Errorf("expected ErrOutputExists, got %v", err)
	}
	if data, _ := os.ReadFile(out); string(data) != "keep" {
		t.Error("existing output was overwritten")
	}
}

func TestHulls(t *testing.T) {
	in := writeSource(t, twoBoxes())
	out := filepath.Join(t.TempDir(), "hulls.gltf")

	r, err := New(config.Default(), nil).Hulls(in, out)
	if err != nil {
		t.Fatalf("Hulls failed: %v", err)
	}
	if r.Hulls != 2 || r.Remainder != 0 {
		t.Errorf("expected 2 hulls and no remainder, got %+v", r)
	}

	got, err := gltfio.Load(out)
	if err != nil {
		t.Fatalf("reloading hulls: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(got))
	}
	for i, h := range got {
		if h.Name != "box-hull-"+string(rune('0'+i)) {
			t.Errorf("hull %d named %q", i, h.Name)
		}
		if h.NumVertices() != 8 {
			t.Errorf("hull %d: expected 8 vertices, got %d", i, h.NumVertices())
		}
	}
}

func TestHullsRemainder(t *testing.T) {
	m := twoBoxes()
	for i := 12; i < 24; i++ {
		p := m.Primitives[i]
		m.Primitives[i] = mesh.Triangle{p[0], p[2], p[1]}
	}
	in := writeSource(t, m)
	out := filepath.Join(t.TempDir(), "hulls.glb")

	if _, err := New(config.Default(), nil).Hulls(in, out); !errors.Is(err, mesh.ErrNotConvex) {
		t.Fatalf("expected ErrNotConvex, got %v", err)
	}

	cfg := config.Default()
	cfg.Hulls.AllowNonHulls = true
	r, err := New(cfg, nil).Hulls(in, out)
	if err != nil {
		t.Fatalf("Hulls failed: %v", err)
	}
	if r.Hulls != 1 || r.Remainder != 1 {
		t.Errorf("expected 1 hull and a remainder, got %+v", r)
	}

	got, err := gltfio.Load(out)
	if err != nil {
		t.Fatalf("reloading hulls: %v", err)
	}
	if len(got) != 2 || got[1].Name != "box-remainder" {
		t.Errorf("expected remainder written last, got %d meshes", len(got))
	}
}

func TestHullsJoinsErrors(t *testing.T) {
	bad := func() *mesh.Mesh {
		m := mesh.NewClosedCube()
		m.FlipPrimitives()
		return m
	}
	in := writeSource(t, bad(), bad())

	_, err := New(config.Default(), nil).Hulls(in, filepath.Join(t.TempDir(), "out.glb"))
	if n := len(multierr.Errors(err)); n != 2 {
		t.Errorf("expected 2 joined errors, got %d: %v", n, err)
	}
	if !errors.Is(err, mesh.ErrNotConvex) {
		t.Errorf("expected ErrNotConvex, got %v", err)
	}
}

func TestInspect(t *testing.T) {
	in := writeSource(t, mesh.NewTestCube(), twoBoxes(), mesh.NewGrid(3))

	infos, err := New(config.Default(), nil).Inspect(in)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected 3 meshes, got %d", len(infos))
	}

	tests := []struct {
		info       Info
		vertices   int
		welded     int
		components int
		convex     bool
		closed     bool
		planar     bool
	}{
		{infos[0], 24, 8, 1, true, true, false},
		{infos[1], 16, 16, 2, false, true, false},
		{infos[2], 9, 9, 1, true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.info.Name, func(t *testing.T) {
			if tt.info.Vertices != tt.vertices || tt.info.Welded != tt.welded {
				t.Errorf("got %d vertices %d welded, want %d and %d",
					tt.info.Vertices, tt.info.Welded, tt.vertices, tt.welded)
			}
			if tt.info.Components != tt.components {
				t.Errorf("got %d components, want %d", tt.info.Components, tt.components)
			}
			if tt.info.Convex != tt.convex || tt.info.Closed != tt.closed || tt.info.Planar != tt.planar {
				t.Errorf("got convex=%v closed=%v planar=%v", tt.info.Convex, tt.info.Closed, tt.info.Planar)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		out, format, want string
	}{
		{"a.glb", "gltf", "a.glb"},
		{"a.GLTF", "glb", "a.GLTF"},
		{"a", "gltf", "a.gltf"},
		{"a", "", "a.glb"},
		{"dir/a.obj", "glb", "dir/a.obj.glb"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.out, tt.format); got != tt.want {
			t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.out, tt.format, got, tt.want)
		}
	}
}
