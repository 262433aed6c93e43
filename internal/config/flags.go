package config

import "github.com/spf13/pflag"

// RegisterFlags adds the config override flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "Path to config file")
	fs.Bool("debug", false, "Enable debug logging")
	fs.String("log-level", d.Logging.Level, "Log level (debug, info, warn, error)")
	fs.String("log-file", "", "Write logs to a rotating file")
	fs.Float64("position-tolerance", d.Tolerances.Position, "Distance under which positions are equal")
	fs.Float64("normal-smooth", d.Tolerances.NormalSmooth, "Cosine above which normals are smoothed together")
	fs.Float64("tangent-split", d.Tolerances.TangentSplit, "Cosine below which tangents split a vertex")
	fs.Bool("smooth-uv", d.Normals.SmoothUV, "Only smooth normals across matching texture coordinates")
	fs.Bool("tangents", d.Tangents.Generate, "Generate tangents and binormals")
	fs.Int("max-hulls", d.Hulls.MaxComponents, "Maximum number of convex hulls (0 for no limit)")
	fs.Bool("allow-non-hulls", d.Hulls.AllowNonHulls, "Keep non-convex components as a remainder mesh")
	fs.String("format", d.Output.Format, "Output format when the path has no extension (glb, gltf)")
}

// ConfigPath returns the explicit config path if provided via --config.
func ConfigPath(fs *pflag.FlagSet) string {
	if fs == nil {
		return ""
	}
	path, _ := fs.GetString("config")
	return path
}

// applyFlags applies the flags the user actually set. Flags left at their
// default never override the config file.
func applyFlags(cfg *Config, fs *pflag.FlagSet) {
	if fs == nil {
		return
	}
	changed := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}

	if changed("debug") {
		if v, _ := fs.GetBool("debug"); v {
			cfg.Logging.Level = "debug"
		}
	}
	if changed("log-level") {
		cfg.Logging.Level, _ = fs.GetString("log-level")
	}
	if changed("log-file") {
		cfg.Logging.LogFile, _ = fs.GetString("log-file")
	}
	if changed("position-tolerance") {
		cfg.Tolerances.Position, _ = fs.GetFloat64("position-tolerance")
	}
	if changed("normal-smooth") {
		cfg.Tolerances.NormalSmooth, _ = fs.GetFloat64("normal-smooth")
	}
	if changed("tangent-split") {
		cfg.Tolerances.TangentSplit, _ = fs.GetFloat64("tangent-split")
	}
	if changed("smooth-uv") {
		cfg.Normals.SmoothUV, _ = fs.GetBool("smooth-uv")
	}
	if changed("tangents") {
		cfg.Tangents.Generate, _ = fs.GetBool("tangents")
	}
	if changed("max-hulls") {
		cfg.Hulls.MaxComponents, _ = fs.GetInt("max-hulls")
	}
	if changed("allow-non-hulls") {
		cfg.Hulls.AllowNonHulls, _ = fs.GetBool("allow-non-hulls")
	}
	if changed("format") {
		cfg.Output.Format, _ = fs.GetString("format")
	}
}
