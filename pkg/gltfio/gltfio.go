// Package gltfio converts between glTF 2.0 documents and meshes.
package gltfio

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/pkg/math"
	"github.com/Faultbox/meshforge/pkg/mesh"
)

// ErrNoMeshes is returned when a document holds no triangle geometry.
var ErrNoMeshes = errors.New("no triangle meshes in document")

// Loader reads glTF and GLB files.
type Loader struct {
	log *zap.Logger
}

// NewLoader creates a loader. A nil logger disables logging.
func NewLoader(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log}
}

// Load reads path with a silent loader.
func Load(path string) ([]*mesh.Mesh, error) {
	return NewLoader(nil).Load(path)
}

// Load reads every glTF mesh in path as one Mesh. Primitives are
// concatenated and each becomes a Surface named after its material.
func (l *Loader) Load(path string) ([]*mesh.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	var out []*mesh.Mesh
	for mi, gm := range doc.Meshes {
		name := gm.Name
		if name == "" {
			name = fmt.Sprintf("mesh-%d", mi)
		}
		m := mesh.New(name)
		m.SetLogger(l.log)
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				l.log.Debug("skipping non-triangle primitive",
					zap.String("mesh", name),
					zap.Int("primitive", pi))
				continue
			}
			if err := readPrimitive(doc, prim, pi, m); err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", name, pi, err)
			}
		}
		if m.NumVertices() == 0 {
			continue
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("mesh %q: %w", name, err)
		}
		m.GenerateBBox()
		l.log.Debug("loaded mesh",
			zap.String("mesh", name),
			zap.Int("vertices", m.NumVertices()),
			zap.Int("primitives", len(m.Primitives)))
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoMeshes)
	}
	return out, nil
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive, pi int, m *mesh.Mesh) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}
	raw, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	base := m.NumVertices()
	count := len(raw)
	positions := make([]math.Vec3, count)
	for i, p := range raw {
		positions[i] = vec3(p)
	}

	var normals []math.Vec3
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		raw, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return fmt.Errorf("read normals: %w", err)
		}
		normals = make([]math.Vec3, len(raw))
		for i, n := range raw {
			normals[i] = vec3(n)
		}
	}

	var tangents, binormals []math.Vec3
	if idx, ok := prim.Attributes[gltf.TANGENT]; ok && len(normals) == count {
		raw, err := modeler.ReadTangent(doc, doc.Accessors[idx], nil)
		if err != nil {
			return fmt.Errorf("read tangents: %w", err)
		}
		tangents = make([]math.Vec3, len(raw))
		binormals = make([]math.Vec3, len(raw))
		for i, t := range raw {
			tangents[i] = math.Vec3{X: float64(t[0]), Y: float64(t[1]), Z: float64(t[2])}
			binormals[i] = normals[i].Cross(tangents[i]).Scale(float64(t[3]))
		}
	}

	var colors []math.Vec4
	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		var err error
		if colors, err = readColors(doc, doc.Accessors[idx]); err != nil {
			return fmt.Errorf("read colors: %w", err)
		}
	}

	var joints, weights []math.Vec4
	if idx, ok := prim.Attributes[gltf.JOINTS_0]; ok {
		raw, err := modeler.ReadJoints(doc, doc.Accessors[idx], nil)
		if err != nil {
			return fmt.Errorf("read joints: %w", err)
		}
		joints = make([]math.Vec4, len(raw))
		for i, j := range raw {
			joints[i] = math.Vec4{X: float64(j[0]), Y: float64(j[1]), Z: float64(j[2]), W: float64(j[3])}
		}
	}
	if idx, ok := prim.Attributes[gltf.WEIGHTS_0]; ok {
		raw, err := modeler.ReadWeights(doc, doc.Accessors[idx], nil)
		if err != nil {
			return fmt.Errorf("read weights: %w", err)
		}
		weights = make([]math.Vec4, len(raw))
		for i, w := range raw {
			weights[i] = math.Vec4{X: float64(w[0]), Y: float64(w[1]), Z: float64(w[2]), W: float64(w[3])}
		}
	}

	for set := 0; ; set++ {
		idx, ok := prim.Attributes[fmt.Sprintf("TEXCOORD_%d", set)]
		if !ok {
			break
		}
		raw, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return fmt.Errorf("read texcoord %d: %w", set, err)
		}
		uvs := make([]math.Vec2, len(raw))
		for i, uv := range raw {
			uvs[i] = math.Vec2{X: float64(uv[0]), Y: float64(uv[1])}
		}
		for len(m.UVs) <= set {
			m.UVs = append(m.UVs, nil)
		}
		m.UVs[set] = appendStream(m.UVs[set], base, uvs, count)
	}
	for set := range m.UVs {
		if len(m.UVs[set]) > 0 && len(m.UVs[set]) < base+count {
			m.UVs[set] = appendStream(m.UVs[set], base, nil, count)
		}
	}

	var indices []int
	if prim.Indices != nil {
		raw, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
		indices = make([]int, len(raw))
		for i, v := range raw {
			indices[i] = int(v)
		}
	} else {
		indices = make([]int, count)
		for i := range indices {
			indices[i] = i
		}
	}
	tris := make([]mesh.Triangle, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		tris = append(tris, mesh.Triangle{indices[i], indices[i+1], indices[i+2]})
	}

	m.Normals = appendStream(m.Normals, base, normals, count)
	m.Tangents = appendStream(m.Tangents, base, tangents, count)
	m.Binormals = appendStream(m.Binormals, base, binormals, count)
	m.Colors = appendStream(m.Colors, base, colors, count)
	m.SkinIndices = appendStream(m.SkinIndices, base, joints, count)
	m.SkinWeights = appendStream(m.SkinWeights, base, weights, count)

	start := len(m.Primitives)
	m.ExtendMesh(positions, tris)

	if m.Surfaces == nil {
		m.Surfaces = make(map[string]mesh.Surface)
	}
	name := surfaceName(doc, prim, pi)
	if _, dup := m.Surfaces[name]; dup {
		name = fmt.Sprintf("%s-%d", name, pi)
	}
	m.Surfaces[name] = mesh.Surface{Start: start, End: len(m.Primitives)}
	return nil
}

func surfaceName(doc *gltf.Document, prim *gltf.Primitive, pi int) string {
	if prim.Material != nil && *prim.Material < len(doc.Materials) {
		if name := doc.Materials[*prim.Material].Name; name != "" {
			return name
		}
	}
	return fmt.Sprintf("primitive-%d", pi)
}

// appendStream appends count values of src to dst, zero filling dst up to
// base first and using zeros when src is absent. Streams that stay absent
// stay empty.
func appendStream[T any](dst []T, base int, src []T, count int) []T {
	if len(src) == 0 && len(dst) == 0 {
		return dst
	}
	for len(dst) < base {
		var zero T
		dst = append(dst, zero)
	}
	if len(src) == 0 {
		return append(dst, make([]T, count)...)
	}
	return append(dst, src...)
}

// readColors reads COLOR_0 at full precision when it is stored as floats.
// Normalized integer colors go through modeler.ReadColor and lose nothing.
func readColors(doc *gltf.Document, acr *gltf.Accessor) ([]math.Vec4, error) {
	if acr.ComponentType == gltf.ComponentFloat {
		raw, err := modeler.ReadAccessor(doc, acr, nil)
		if err != nil {
			return nil, err
		}
		switch raw := raw.(type) {
		case [][4]float32:
			colors := make([]math.Vec4, len(raw))
			for i, c := range raw {
				colors[i] = math.Vec4{X: float64(c[0]), Y: float64(c[1]), Z: float64(c[2]), W: float64(c[3])}
			}
			return colors, nil
		case [][3]float32:
			colors := make([]math.Vec4, len(raw))
			for i, c := range raw {
				colors[i] = math.Vec4{X: float64(c[0]), Y: float64(c[1]), Z: float64(c[2]), W: 1}
			}
			return colors, nil
		}
		return nil, fmt.Errorf("unsupported color accessor %T", raw)
	}

	raw, err := modeler.ReadColor(doc, acr, nil)
	if err != nil {
		return nil, err
	}
	colors := make([]math.Vec4, len(raw))
	for i, c := range raw {
		colors[i] = math.Vec4{X: float64(c[0]) / 255, Y: float64(c[1]) / 255, Z: float64(c[2]) / 255, W: float64(c[3]) / 255}
	}
	return colors, nil
}

func vec3(v [3]float32) math.Vec3 {
	return math.Vec3{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

func f3(v math.Vec3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

func f4(v math.Vec4) [4]float32 {
	return [4]float32{float32(v.X), float32(v.Y), float32(v.Z), float32(v.W)}
}

// Save writes meshes to path, one node per mesh. The format follows the
// extension: ".gltf" writes JSON with an embedded buffer, anything else
// writes GLB.
func Save(path string, meshes []*mesh.Mesh) error {
	doc := gltf.NewDocument()
	for _, m := range meshes {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("mesh %q: %w", m.Name, err)
		}
		writeMesh(doc, m)
	}

	if strings.EqualFold(filepath.Ext(path), ".gltf") {
		doc.Buffers[0].EmbeddedResource()
		if err := gltf.Save(doc, path); err != nil {
			return fmt.Errorf("save gltf: %w", err)
		}
		return nil
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

func writeMesh(doc *gltf.Document, m *mesh.Mesh) {
	n := m.NumVertices()
	attrs := map[string]int{}

	positions := make([][3]float32, n)
	for i, p := range m.Positions {
		positions[i] = f3(p)
	}
	attrs[gltf.POSITION] = modeler.WritePosition(doc, positions)

	if len(m.Normals) == n && n > 0 {
		normals := make([][3]float32, n)
		for i, v := range m.Normals {
			normals[i] = f3(v)
		}
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, normals)

		if len(m.Tangents) == n && len(m.Binormals) == n {
			tangents := make([][4]float32, n)
			for i, t := range m.Tangents {
				w := float32(1)
				if m.Normals[i].Cross(t).Dot(m.Binormals[i]) < 0 {
					w = -1
				}
				tangents[i] = [4]float32{float32(t.X), float32(t.Y), float32(t.Z), w}
			}
			attrs[gltf.TANGENT] = modeler.WriteTangent(doc, tangents)
		}
	}

	for set, uvs := range m.UVs {
		if len(uvs) != n || n == 0 {
			continue
		}
		data := make([][2]float32, n)
		for i, uv := range uvs {
			data[i] = [2]float32{float32(uv.X), float32(uv.Y)}
		}
		attrs[fmt.Sprintf("TEXCOORD_%d", set)] = modeler.WriteTextureCoord(doc, data)
	}

	if len(m.Colors) == n && n > 0 {
		colors := make([][4]float32, n)
		for i, c := range m.Colors {
			colors[i] = f4(c)
		}
		attrs[gltf.COLOR_0] = modeler.WriteColor(doc, colors)
	}
	if len(m.SkinIndices) == n && len(m.SkinWeights) == n && n > 0 {
		joints := make([][4]uint16, n)
		weights := make([][4]float32, n)
		for i := range m.SkinIndices {
			j := m.SkinIndices[i]
			joints[i] = [4]uint16{uint16(j.X), uint16(j.Y), uint16(j.Z), uint16(j.W)}
			weights[i] = f4(m.SkinWeights[i])
		}
		attrs[gltf.JOINTS_0] = modeler.WriteJoints(doc, joints)
		attrs[gltf.WEIGHTS_0] = modeler.WriteWeights(doc, weights)
	}

	gm := &gltf.Mesh{Name: m.Name}
	for _, s := range surfaceRanges(m) {
		indices := make([]uint32, 0, (s.end-s.start)*3)
		for _, p := range m.Primitives[s.start:s.end] {
			indices = append(indices, uint32(p[0]), uint32(p[1]), uint32(p[2]))
		}
		prim := &gltf.Primitive{
			Mode:       gltf.PrimitiveTriangles,
			Attributes: copyAttributes(attrs),
			Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
		}
		if s.name != "" {
			doc.Materials = append(doc.Materials, &gltf.Material{Name: s.name})
			prim.Material = gltf.Index(len(doc.Materials) - 1)
		}
		gm.Primitives = append(gm.Primitives, prim)
	}

	doc.Meshes = append(doc.Meshes, gm)
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: m.Name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
}

func copyAttributes(attrs map[string]int) map[string]int {
	out := make(map[string]int, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

type surfaceRange struct {
	name       string
	start, end int
}

// surfaceRanges returns the valid surfaces ordered by start, or a single
// unnamed range covering every primitive.
func surfaceRanges(m *mesh.Mesh) []surfaceRange {
	var out []surfaceRange
	covered := 0
	for name, s := range m.Surfaces {
		if s.Start < 0 || s.End > len(m.Primitives) || s.Start >= s.End {
			continue
		}
		out = append(out, surfaceRange{name: name, start: s.Start, end: s.End})
		covered += s.End - s.Start
	}
	if len(out) == 0 || covered != len(m.Primitives) {
		return []surfaceRange{{start: 0, end: len(m.Primitives)}}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}
