package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var hullsCmd = &cobra.Command{
	Use:   "hulls <input> <output>",
	Short: "Decompose meshes into convex hulls",
	Long: `Weld each mesh, split it into connected components and turn every
component into a convex hull. Flat convex components become planar hulls.
Components that cannot be hulled fail the command unless --allow-non-hulls
is set, in which case they are written as a <name>-remainder mesh.`,
	Args: cobra.ExactArgs(2),
	RunE: runHulls,
}

func init() {
	rootCmd.AddCommand(hullsCmd)
}

func runHulls(cmd *cobra.Command, args []string) error {
	r, err := newPipeline().Hulls(args[0], args[1])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s: %d hulls from %d meshes\n", r.Output, r.Hulls, r.Meshes)
	if r.Remainder > 0 {
		fmt.Fprintf(out, "  %d remainder meshes kept as triangles\n", r.Remainder)
	}
	return nil
}
