package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/logger"
	"github.com/Faultbox/meshforge/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <input> <output>",
	Short: "Process a file and reprocess it whenever it changes",
	Args:  cobra.ExactArgs(2),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]
	p := newPipeline()
	log := logger.For("watch")

	process := func(string) {
		r, err := p.Process(in, out)
		if err != nil {
			log.Error("processing failed", zap.String("input", in), zap.Error(err))
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d meshes, %d vertices\n", r.Output, r.Meshes, r.Vertices)
	}
	process(in)

	w, err := watch.New(cfg.Watch.Debounce, log)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Watch([]string{in}, process); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	log.Info("watching for changes", zap.String("input", in))
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
