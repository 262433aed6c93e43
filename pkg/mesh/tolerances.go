package mesh

// Tolerances holds every numeric threshold used by the mesh operations.
// Angular tolerances are cosines.
type Tolerances struct {
	Position          float64 `yaml:"position"`
	NormalSmooth      float64 `yaml:"normal_smooth"`
	TangentSplit      float64 `yaml:"tangent_split"`
	Zero              float64 `yaml:"zero"`
	DontNormalize     float64 `yaml:"dont_normalize"`
	UV                float64 `yaml:"uv"`
	Planar            float64 `yaml:"planar"`
	TangentProjection float64 `yaml:"tangent_projection"`
	Collinear         float64 `yaml:"collinear"`
	Coplanar          float64 `yaml:"coplanar"`
	// PlanarHullVertices is the minimum vertex count for a planar component
	// to be turned into a 2D hull.
	PlanarHullVertices int `yaml:"planar_hull_vertices"`
}

// DefaultTolerances returns the thresholds tuned for game assets.
//
//	cos(1π/8) = 0.923879 ~ 22.5°
//	cos(2π/8) = 0.707106 ~ 45°
//	cos(2π/6) = 0.5      ~ 60°
//	cos(3π/8) = 0.382683 ~ 67.5°
func DefaultTolerances() Tolerances {
	return Tolerances{
		Position:           1e-6,
		NormalSmooth:       0.5,
		TangentSplit:       0.5,
		Zero:               1e-6,
		DontNormalize:      1e-3,
		UV:                 1e-6,
		Planar:             1e-6,
		TangentProjection:  1e-10,
		Collinear:          1e-10,
		Coplanar:           1e-16,
		PlanarHullVertices: 5,
	}
}
