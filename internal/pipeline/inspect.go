package pipeline

import (
	"sort"

	"github.com/Faultbox/meshforge/pkg/mesh"
)

// Info describes one mesh of a file.
type Info struct {
	Name       string
	Vertices   int
	Primitives int
	Streams    []string
	Surfaces   []string
	BBox       mesh.BBox
	// Welded counts vertices after stitching equal positions.
	Welded     int
	Components int
	Convex     bool
	Closed     bool
	Planar     bool
}

// Inspect loads in and describes each mesh without modifying the file.
func (p *Pipeline) Inspect(in string) ([]Info, error) {
	meshes, err := p.assets.Load(in)
	if err != nil {
		return nil, err
	}
	out := make([]Info, len(meshes))
	for i, m := range meshes {
		out[i] = p.Describe(m)
	}
	return out, nil
}

// Describe classifies m. Connectivity is measured on a welded copy, so m
// itself is not changed.
func (p *Pipeline) Describe(m *mesh.Mesh) Info {
	info := Info{
		Name:       m.Name,
		Vertices:   m.NumVertices(),
		Primitives: len(m.Primitives),
	}
	for _, s := range m.Semantics() {
		info.Streams = append(info.Streams, s.String())
	}
	for name := range m.Surfaces {
		info.Surfaces = append(info.Surfaces, name)
	}
	sort.Strings(info.Surfaces)

	m.GenerateBBox()
	info.BBox = m.BBox

	welded := m.Clone()
	welded.SetLogger(nil)
	welded.StitchVertices()
	welded.RemoveRedundantVertices()
	info.Welded = welded.NumVertices()
	info.Components = len(welded.ConnectedComponents())
	info.Convex = welded.IsConvex()
	info.Closed = welded.SimplyClosed()
	info.Planar = welded.IsPlanar(p.cfg.Tolerances.Planar)
	return info
}
