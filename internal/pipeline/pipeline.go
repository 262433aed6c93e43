// Package pipeline runs the mesh build steps over whole files.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/assets"
	"github.com/Faultbox/meshforge/internal/config"
	"github.com/Faultbox/meshforge/pkg/gltfio"
	"github.com/Faultbox/meshforge/pkg/math"
	"github.com/Faultbox/meshforge/pkg/mesh"
)

// ErrOutputExists is returned when the output file exists and overwriting
// is disabled.
var ErrOutputExists = errors.New("output file exists")

// Report summarizes one pipeline run.
type Report struct {
	Meshes     int
	Vertices   int
	Primitives int
	Hulls      int
	// Remainder counts meshes written for components kept as triangles.
	Remainder int
	Output    string
	Duration  time.Duration
}

// Pipeline loads source files, processes their meshes and writes the result.
type Pipeline struct {
	cfg    *config.Config
	assets *assets.Manager
	log    *zap.Logger
}

// New creates a pipeline. A nil logger disables logging.
func New(cfg *config.Config, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		cfg:    cfg,
		assets: assets.NewManager(log.Named("assets")),
		log:    log,
	}
}

// Config returns the active configuration.
func (p *Pipeline) Config() *config.Config {
	return p.cfg
}

// Process runs ProcessMesh over every mesh in the input file and saves the
// result to out.
func (p *Pipeline) Process(in, out string) (*Report, error) {
	start := time.Now()
	meshes, err := p.assets.Load(in)
	if err != nil {
		return nil, err
	}

	err = p.forEach(meshes, func(_ int, m *mesh.Mesh) error {
		return p.ProcessMesh(m)
	})
	if err != nil {
		return nil, err
	}

	out = OutputPath(out, p.cfg.Output.Format)
	if err := p.save(out, meshes); err != nil {
		return nil, err
	}

	r := &Report{Meshes: len(meshes), Output: out}
	for _, m := range meshes {
		r.Vertices += m.NumVertices()
		r.Primitives += len(m.Primitives)
	}
	r.Duration = time.Since(start)
	p.log.Info("processed",
		zap.String("input", in),
		zap.String("output", out),
		zap.Int("meshes", r.Meshes),
		zap.Int("vertices", r.Vertices),
		zap.Duration("took", r.Duration))
	return r, nil
}

// forEach runs fn over meshes in parallel and joins every failure.
func (p *Pipeline) forEach(meshes []*mesh.Mesh, fn func(int, *mesh.Mesh) error) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	for i, m := range meshes {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, m *mesh.Mesh) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := fn(i, m); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("mesh %s: %w", m.Name, err))
				mu.Unlock()
			}
		}(i, m)
	}
	wg.Wait()
	return errs
}

// ProcessMesh applies the configured steps to m in place: transform,
// degenerate removal, normals, the tangent-space chain and the bounding box.
func (p *Pipeline) ProcessMesh(m *mesh.Mesh) error {
	log := p.log.With(zap.String("shape", m.Name))
	m.SetLogger(p.log)
	tol := p.cfg.MeshTolerances()

	if err := m.Validate(); err != nil {
		return err
	}

	regenerate := p.cfg.Normals.Generate || len(m.Normals) == 0
	if p.applyTransform(m, log) {
		regenerate = true
	}

	if p.cfg.Normals.RemoveDegenerates {
		before := len(m.Primitives)
		m.RemoveDegeneratePrimitives(false, tol.Position)
		if removed := before - len(m.Primitives); removed > 0 {
			log.Info("removed degenerate primitives", zap.Int("count", removed))
		}
	}

	if regenerate {
		m.GenerateNormals(tol)
	}
	if p.cfg.Normals.Smooth {
		m.SmoothNormals(tol, p.cfg.Normals.SmoothUV)
	}

	if p.cfg.Tangents.Generate {
		if len(m.UVSet(0)) == 0 {
			log.Debug("no texture coordinates, skipping tangents")
		} else if err := p.tangents(m); err != nil {
			return err
		}
	}

	m.GenerateBBox()
	log.Debug("mesh processed",
		zap.Int("vertices", m.NumVertices()),
		zap.Int("primitives", len(m.Primitives)))
	return nil
}

func (p *Pipeline) tangents(m *mesh.Mesh) error {
	tol := p.cfg.MeshTolerances()
	if p.cfg.Tangents.Smooth {
		return m.GenerateSmoothNBTs(tol)
	}
	if err := m.GenerateTangents(tol); err != nil {
		return err
	}
	m.NormalizeTangents(tol)
	return nil
}

// applyTransform applies the configured transform and reports whether it
// scaled the mesh, which leaves existing normals unusable.
func (p *Pipeline) applyTransform(m *mesh.Mesh, log *zap.Logger) bool {
	tc := p.cfg.Transform
	t := math.Mat43Scale(tc.Scale).SetPos(tc.Translate)

	scaled := false
	if !t.IsIdentity() {
		d := math.Decompose(t)
		if d.Mirrored {
			log.Warn("negative scale not currently supported, use mirror_axis",
				zap.Float64("x", tc.Scale.X),
				zap.Float64("y", tc.Scale.Y),
				zap.Float64("z", tc.Scale.Z))
		}
		scaled = tc.Scale != (math.Vec3{X: 1, Y: 1, Z: 1})
		m.Transform(t)
	}

	if tc.MirrorAxis >= 0 {
		m.MirrorIn(tc.MirrorAxis, true)
	}
	if tc.InvertV {
		m.InvertVTextureMap(0)
	}
	return scaled
}

func (p *Pipeline) save(out string, meshes []*mesh.Mesh) error {
	if !p.cfg.Output.Overwrite {
		if _, err := os.Stat(out); err == nil {
			return fmt.Errorf("%w: %s", ErrOutputExists, out)
		}
	}
	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := gltfio.Save(out, meshes); err != nil {
		return fmt.Errorf("saving %s: %w", out, err)
	}
	return nil
}

// OutputPath adds the extension for format when out has no glTF extension.
func OutputPath(out, format string) string {
	switch strings.ToLower(filepath.Ext(out)) {
	case ".glb", ".gltf":
		return out
	}
	if format == "" {
		format = "glb"
	}
	return out + "." + format
}
