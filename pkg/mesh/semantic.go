package mesh

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/pkg/math"
)

// SemanticKind identifies a vertex stream.
type SemanticKind int

const (
	SemanticPosition SemanticKind = iota
	SemanticTexCoord
	SemanticNormal
	SemanticTangent
	SemanticBinormal
	SemanticColor
	SemanticBlendIndices
	SemanticBlendWeight
)

// Semantic names a vertex stream. Set selects the texture coordinate set and
// is zero for every other kind.
type Semantic struct {
	Kind SemanticKind
	Set  int
}

var semanticNames = map[SemanticKind]string{
	SemanticPosition:     "POSITION",
	SemanticTexCoord:     "TEXCOORD",
	SemanticNormal:       "NORMAL",
	SemanticTangent:      "TANGENT",
	SemanticBinormal:     "BINORMAL",
	SemanticColor:        "COLOR",
	SemanticBlendIndices: "BLENDINDICES",
	SemanticBlendWeight:  "BLENDWEIGHT",
}

// String returns the canonical semantic name, e.g. "TEXCOORD1".
func (s Semantic) String() string {
	name := semanticNames[s.Kind]
	if s.Kind == SemanticTexCoord {
		return name + strconv.Itoa(s.Set)
	}
	return name
}

// ParseSemantic parses names such as POSITION, TEXCOORD, TEXCOORD3, NORMAL0
// or COLOR0.
func ParseSemantic(name string) (Semantic, error) {
	switch name {
	case "POSITION":
		return Semantic{Kind: SemanticPosition}, nil
	case "NORMAL", "NORMAL0":
		return Semantic{Kind: SemanticNormal}, nil
	case "TANGENT":
		return Semantic{Kind: SemanticTangent}, nil
	case "BINORMAL":
		return Semantic{Kind: SemanticBinormal}, nil
	case "COLOR", "COLOR0":
		return Semantic{Kind: SemanticColor}, nil
	case "BLENDINDICES":
		return Semantic{Kind: SemanticBlendIndices}, nil
	case "BLENDWEIGHT":
		return Semantic{Kind: SemanticBlendWeight}, nil
	case "TEXCOORD":
		return Semantic{Kind: SemanticTexCoord}, nil
	}
	if rest, ok := strings.CutPrefix(name, "TEXCOORD"); ok {
		set, err := strconv.Atoi(rest)
		if err == nil && set >= 0 {
			return Semantic{Kind: SemanticTexCoord, Set: set}, nil
		}
	}
	return Semantic{}, fmt.Errorf("%w: %q", ErrUnknownSemantic, name)
}

// SetValues replaces the stream named by semantic. Positions and
// directions take []math.Vec3, texture coordinates []math.Vec2, and colors
// and skinning data []math.Vec4.
func (m *Mesh) SetValues(semantic string, values any) error {
	s, err := ParseSemantic(semantic)
	if err != nil {
		m.logger().Warn("unknown semantic", zap.String("semantic", semantic))
		return err
	}

	typeErr := fmt.Errorf("%w: %s got %T", ErrStreamType, s, values)
	switch s.Kind {
	case SemanticTexCoord:
		v, ok := values.([]math.Vec2)
		if !ok {
			return typeErr
		}
		m.setUVSet(s.Set, v)
		return nil
	case SemanticColor, SemanticBlendIndices, SemanticBlendWeight:
		v, ok := values.([]math.Vec4)
		if !ok {
			return typeErr
		}
		switch s.Kind {
		case SemanticColor:
			m.Colors = v
		case SemanticBlendIndices:
			m.SkinIndices = v
		default:
			m.SkinWeights = v
		}
		return nil
	}

	v, ok := values.([]math.Vec3)
	if !ok {
		return typeErr
	}
	switch s.Kind {
	case SemanticPosition:
		m.Positions = v
		m.invalidate()
	case SemanticNormal:
		m.Normals = v
	case SemanticTangent:
		m.Tangents = v
	case SemanticBinormal:
		m.Binormals = v
	}
	return nil
}

// Values returns the stream named by semantic. A texture coordinate set
// that does not exist is returned as an empty []math.Vec2.
func (m *Mesh) Values(semantic string) (any, error) {
	s, err := ParseSemantic(semantic)
	if err != nil {
		m.logger().Warn("unknown semantic", zap.String("semantic", semantic))
		return nil, err
	}

	switch s.Kind {
	case SemanticPosition:
		return m.Positions, nil
	case SemanticTexCoord:
		return m.UVSet(s.Set), nil
	case SemanticNormal:
		return m.Normals, nil
	case SemanticTangent:
		return m.Tangents, nil
	case SemanticBinormal:
		return m.Binormals, nil
	case SemanticColor:
		return m.Colors, nil
	case SemanticBlendIndices:
		return m.SkinIndices, nil
	default:
		return m.SkinWeights, nil
	}
}

// Semantics lists the non-empty streams of the mesh in canonical order.
func (m *Mesh) Semantics() []Semantic {
	var out []Semantic
	if len(m.Positions) > 0 {
		out = append(out, Semantic{Kind: SemanticPosition})
	}
	for i, set := range m.UVs {
		if len(set) > 0 {
			out = append(out, Semantic{Kind: SemanticTexCoord, Set: i})
		}
	}
	streams := []struct {
		kind SemanticKind
		n    int
	}{
		{SemanticNormal, len(m.Normals)},
		{SemanticTangent, len(m.Tangents)},
		{SemanticBinormal, len(m.Binormals)},
		{SemanticColor, len(m.Colors)},
		{SemanticBlendIndices, len(m.SkinIndices)},
		{SemanticBlendWeight, len(m.SkinWeights)},
	}
	for _, s := range streams {
		if s.n > 0 {
			out = append(out, Semantic{Kind: s.kind})
		}
	}
	return out
}
