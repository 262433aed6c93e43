package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Faultbox/meshforge/pkg/math"
)

var infoCmd = &cobra.Command{
	Use:   "info <input>",
	Short: "Display information about the meshes in a file",
	Long:  "Show vertex streams, counts, bounds and the convex, closed and planar classification of every mesh.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	infos, err := newPipeline().Inspect(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Mesh Information")
	fmt.Fprintln(out, "================")
	fmt.Fprintf(out, "File: %s\n", args[0])

	for _, info := range infos {
		fmt.Fprintf(out, "\n%s:\n", info.Name)
		fmt.Fprintf(out, "  Vertices: %d (%d welded)\n", info.Vertices, info.Welded)
		fmt.Fprintf(out, "  Triangles: %d\n", info.Primitives)
		fmt.Fprintf(out, "  Streams: %s\n", strings.Join(info.Streams, ", "))
		if len(info.Surfaces) > 0 {
			fmt.Fprintf(out, "  Surfaces: %s\n", strings.Join(info.Surfaces, ", "))
		}
		fmt.Fprintf(out, "  Bounds: %s - %s\n", formatVector(info.BBox.Min), formatVector(info.BBox.Max))
		fmt.Fprintf(out, "  Components: %d\n", info.Components)
		fmt.Fprintf(out, "  Convex: %s  Closed: %s  Planar: %s\n",
			yesNo(info.Convex), yesNo(info.Closed), yesNo(info.Planar))
	}
	return nil
}

func formatVector(v math.Vec3) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
