// Package config handles meshforge configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/meshforge/pkg/math"
	"github.com/Faultbox/meshforge/pkg/mesh"
)

// ErrInvalid is wrapped by Validate for any rejected setting.
var ErrInvalid = errors.New("invalid config")

// Config holds all pipeline settings.
type Config struct {
	Tolerances mesh.Tolerances `yaml:"tolerances"`
	Transform  TransformConfig `yaml:"transform"`
	Normals    NormalsConfig   `yaml:"normals"`
	Tangents   TangentsConfig  `yaml:"tangents"`
	Hulls      HullsConfig     `yaml:"hulls"`
	Output     OutputConfig    `yaml:"output"`
	Watch      WatchConfig     `yaml:"watch"`
	Logging    LoggingConfig   `yaml:"logging"`
}

// TransformConfig is applied to every mesh before any other step.
type TransformConfig struct {
	Translate math.Vec3 `yaml:"translate"`
	Scale     math.Vec3 `yaml:"scale"`
	// MirrorAxis is 0, 1 or 2 for x, y or z; -1 disables mirroring.
	MirrorAxis int  `yaml:"mirror_axis"`
	InvertV    bool `yaml:"invert_v"` // flip texture V of UV set 0
}

// NormalsConfig holds normal generation settings.
type NormalsConfig struct {
	RemoveDegenerates bool `yaml:"remove_degenerates"`
	Generate          bool `yaml:"generate"` // regenerate even if present
	Smooth            bool `yaml:"smooth"`
	SmoothUV          bool `yaml:"smooth_uv"` // only smooth across matching UVs
}

// TangentsConfig holds tangent-space settings.
type TangentsConfig struct {
	Generate bool `yaml:"generate"`
	Smooth   bool `yaml:"smooth"`
}

// HullsConfig holds convex decomposition settings.
type HullsConfig struct {
	MaxComponents int  `yaml:"max_components"`
	AllowNonHulls bool `yaml:"allow_non_hulls"`
}

// OutputConfig holds output settings.
type OutputConfig struct {
	Format    string `yaml:"format"` // glb or gltf, used when the output path has no extension
	Overwrite bool   `yaml:"overwrite"`
}

// WatchConfig holds file watching settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Tolerances: mesh.DefaultTolerances(),
		Transform: TransformConfig{
			Scale:      math.Vec3{X: 1, Y: 1, Z: 1},
			MirrorAxis: -1,
		},
		Normals: NormalsConfig{
			RemoveDegenerates: true,
			Generate:          false,
			Smooth:            true,
			SmoothUV:          false,
		},
		Tangents: TangentsConfig{
			Generate: true,
			Smooth:   true,
		},
		Hulls: HullsConfig{
			MaxComponents: 0,
			AllowNonHulls: false,
		},
		Output: OutputConfig{
			Format:    "glb",
			Overwrite: true,
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// MeshTolerances returns the tolerances handed to mesh operations.
func (c *Config) MeshTolerances() mesh.Tolerances {
	return c.Tolerances
}

// HullOptions returns the options for mesh.ConvexHulls.
func (c *Config) HullOptions() mesh.HullOptions {
	return mesh.HullOptions{
		MaxComponents: c.Hulls.MaxComponents,
		AllowNonHulls: c.Hulls.AllowNonHulls,
		Tolerances:    c.Tolerances,
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	t := c.Tolerances
	for name, v := range map[string]float64{
		"position":           t.Position,
		"zero":               t.Zero,
		"dont_normalize":     t.DontNormalize,
		"uv":                 t.UV,
		"planar":             t.Planar,
		"tangent_projection": t.TangentProjection,
		"collinear":          t.Collinear,
		"coplanar":           t.Coplanar,
	} {
		if v < 0 {
			return fmt.Errorf("%w: tolerances.%s must not be negative, got %g", ErrInvalid, name, v)
		}
	}
	if t.NormalSmooth < -1 || t.NormalSmooth > 1 {
		return fmt.Errorf("%w: tolerances.normal_smooth is a cosine, got %g", ErrInvalid, t.NormalSmooth)
	}
	if t.TangentSplit < -1 || t.TangentSplit > 1 {
		return fmt.Errorf("%w: tolerances.tangent_split is a cosine, got %g", ErrInvalid, t.TangentSplit)
	}
	if s := c.Transform.Scale; s.X == 0 || s.Y == 0 || s.Z == 0 {
		return fmt.Errorf("%w: transform.scale must not have a zero component, got %v", ErrInvalid, s)
	}
	if c.Transform.MirrorAxis < -1 || c.Transform.MirrorAxis > 2 {
		return fmt.Errorf("%w: transform.mirror_axis must be -1, 0, 1 or 2, got %d", ErrInvalid, c.Transform.MirrorAxis)
	}
	switch c.Output.Format {
	case "glb", "gltf":
	default:
		return fmt.Errorf("%w: output.format must be glb or gltf, got %q", ErrInvalid, c.Output.Format)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("%w: watch.debounce must not be negative", ErrInvalid)
	}
	return nil
}
