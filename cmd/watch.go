package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msalah0e/kgview/internal/graph"
	"github.com/msalah0e/kgview/internal/interact"
	"github.com/msalah0e/kgview/internal/ui"
	"github.com/msalah0e/kgview/internal/watch"
)

func watchCmd(a *app) *cobra.Command {
	var (
		output string
		vf     viewFlags
	)

	cmd := &cobra.Command{
		Use:               "watch <graph>",
		Short:             "Re-render whenever the graph file changes",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: graphFileCompletionFunc,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := formatOf(output, a.cfg.Render.Format)
			if err != nil {
				return err
			}
			v, err := a.newViewer(interact.Callbacks{})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ui.Banner("watching " + args[0])
			w := watch.New(args[0], 0, func(ctx context.Context, g *graph.Graph) error {
				v.SetData(g, false)
				if err := vf.apply(v); err != nil {
					return err
				}
				if err := writeFrame(v, output, format); err != nil {
					return err
				}
				fmt.Fprintf(out, "  %s %s %s\n", ui.StatusIcon(true), output,
					ui.Subtle.Sprintf("(%d nodes, %d edges)", len(g.Nodes), len(g.Edges)))
				return nil
			}, a.logger)
			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.png or .svg)")
	_ = cmd.MarkFlagRequired("output")
	vf.register(cmd)

	return cmd
}
