package pipeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/pkg/mesh"
)

// Hulls decomposes every mesh in the input file into convex hulls and saves
// the hulls, followed by any remainder meshes, to out.
func (p *Pipeline) Hulls(in, out string) (*Report, error) {
	start := time.Now()
	meshes, err := p.assets.Load(in)
	if err != nil {
		return nil, err
	}

	results := make([]*mesh.HullResult, len(meshes))
	err = p.forEach(meshes, func(i int, m *mesh.Mesh) error {
		res, err := p.HullMesh(m)
		results[i] = res
		return err
	})
	if err != nil {
		return nil, err
	}

	r := &Report{Meshes: len(meshes)}
	var written []*mesh.Mesh
	for _, res := range results {
		for _, h := range res.Hulls {
			r.Vertices += h.NumVertices()
			r.Primitives += len(h.Primitives)
		}
		written = append(written, res.Hulls...)
		r.Hulls += len(res.Hulls)
	}
	for _, res := range results {
		if res.Remainder != nil {
			written = append(written, res.Remainder)
			r.Remainder++
		}
	}

	r.Output = OutputPath(out, p.cfg.Output.Format)
	if err := p.save(r.Output, written); err != nil {
		return nil, err
	}
	r.Duration = time.Since(start)
	p.log.Info("hulls written",
		zap.String("input", in),
		zap.String("output", r.Output),
		zap.Int("hulls", r.Hulls),
		zap.Int("remainder", r.Remainder),
		zap.Duration("took", r.Duration))
	return r, nil
}

// HullMesh runs the convex decomposition on m with the configured options.
// m is welded in place.
func (p *Pipeline) HullMesh(m *mesh.Mesh) (*mesh.HullResult, error) {
	m.SetLogger(p.log)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	res, err := m.ConvexHulls(p.cfg.HullOptions())
	if err != nil {
		return nil, err
	}
	for _, h := range res.Hulls {
		h.GenerateBBox()
	}
	if res.Remainder != nil {
		res.Remainder.GenerateBBox()
	}
	p.log.Info("converted to hulls",
		zap.String("shape", m.Name),
		zap.Int("hulls", len(res.Hulls)),
		zap.Bool("remainder", res.Remainder != nil))
	return res, nil
}
