// meshforge prepares triangle meshes for a game engine: it generates
// normals and tangent space, welds and cleans geometry, and decomposes
// collision meshes into convex hulls.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/meshforge/internal/config"
	"github.com/Faultbox/meshforge/internal/logger"
	"github.com/Faultbox/meshforge/internal/pipeline"
)

// Set via ldflags during build.
var version = "dev"

// cfg is loaded before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "meshforge",
	Short: "Build-time mesh processing for game assets",
	Long: `meshforge processes glTF meshes for a game engine.

It generates and smooths normals, builds tangent space with seam splitting,
welds and cleans geometry and decomposes collision meshes into convex hulls.
Settings come from meshforge.yaml, the user config directory and flags, in
increasing priority.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())
}

func newPipeline() *pipeline.Pipeline {
	return pipeline.New(cfg, logger.For("pipeline"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
