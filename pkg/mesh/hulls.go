package mesh

import (
	"fmt"

	"go.uber.org/zap"
)

// HullOptions controls ConvexHulls.
type HullOptions struct {
	// MaxComponents limits the number of connected components; zero or
	// negative means no limit.
	MaxComponents int
	// AllowNonHulls collects components that cannot become hulls into
	// HullResult.Remainder instead of failing.
	AllowNonHulls bool
	Tolerances    Tolerances
}

// DefaultHullOptions returns unlimited components, strict conversion and
// the default tolerances.
func DefaultHullOptions() HullOptions {
	return HullOptions{Tolerances: DefaultTolerances()}
}

// HullResult is the output of ConvexHulls.
type HullResult struct {
	Hulls []*Mesh
	// Remainder holds every component that was not converted, or nil.
	Remainder *Mesh
}

// ConvexHulls splits the mesh into convex hulls, one per connected
// component. The mesh is welded and cleaned in place first and keeps only
// positions and primitives afterwards.
//
// Convex planar components become 2D hulls when their outline is convex and
// has at least Tolerances.PlanarHullVertices vertices. Convex closed
// components become 3D hulls, which must themselves survive being hulled
// again. Anything else is either collected into the remainder or, without
// AllowNonHulls, fails with ErrNotConvex.
func (m *Mesh) ConvexHulls(opts HullOptions) (*HullResult, error) {
	tol := opts.Tolerances
	log := m.logger()

	m.StitchVertices()
	m.RemoveDegeneratePrimitives(true, tol.Position)
	m.RemoveRedundantVertices()

	components := m.ConnectedComponents()
	if opts.MaxComponents > 0 && len(components) > opts.MaxComponents {
		return nil, fmt.Errorf("%w: %d components, limit %d",
			ErrTooManyComponents, len(components), opts.MaxComponents)
	}

	remainder := New(m.Name + "-remainder")
	remainder.SetLogger(m.log)
	result := &HullResult{}

	reject := func(ci int, c Component, reason string) error {
		if !opts.AllowNonHulls {
			return fmt.Errorf("%w: component %d: %s", ErrNotConvex, ci, reason)
		}
		log.Info("keeping component as triangles",
			zap.Int("component", ci),
			zap.String("reason", reason))
		remainder.ExtendMesh(c.Positions, c.Primitives)
		return nil
	}

	for ci, c := range components {
		convex := IsConvex(c.Positions, c.Primitives)
		closed := SimplyClosed(c.Primitives)
		planar := IsPlanar(c.Positions, tol.Planar)

		switch {
		case convex && planar:
			if !IsConvexPlanar(c.Positions) || len(c.Positions) < tol.PlanarHullVertices {
				if err := reject(ci, c, "planar outline is not a convex hull candidate"); err != nil {
					return nil, err
				}
				continue
			}
			hull := MakePlanarConvexHull(c.Positions, tol.TangentProjection)
			if hull == nil {
				if err := reject(ci, c, "planar hull failed"); err != nil {
					return nil, err
				}
				continue
			}
			log.Debug("converted to planar convex hull",
				zap.Int("component", ci),
				zap.Int("vertices", hull.NumVertices()))
			result.Hulls = append(result.Hulls, hull)

		case convex && closed:
			hull := MakeConvexHull(c.Positions, tol.Collinear, tol.Coplanar)
			if hull == nil {
				if err := reject(ci, c, "convex closed component failed to hull"); err != nil {
					return nil, err
				}
				continue
			}
			// the runtime physics rebuilds hulls from their vertices
			if MakeConvexHull(hull.Positions, tol.Collinear, tol.Coplanar) == nil {
				if err := reject(ci, c, "hull could not be recomputed"); err != nil {
					return nil, err
				}
				continue
			}
			log.Debug("converted to convex hull",
				zap.Int("component", ci),
				zap.Int("vertices", hull.NumVertices()))
			result.Hulls = append(result.Hulls, hull)

		default:
			if err := reject(ci, c, "component is not convex"); err != nil {
				return nil, err
			}
		}
	}

	for i, h := range result.Hulls {
		h.Name = fmt.Sprintf("%s-hull-%d", m.Name, i)
		h.SetLogger(m.log)
	}
	if len(remainder.Positions) > 0 {
		result.Remainder = remainder
	}
	return result, nil
}
