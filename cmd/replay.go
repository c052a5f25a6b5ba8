package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msalah0e/kgview/internal/graph"
	"github.com/msalah0e/kgview/internal/interact"
	"github.com/msalah0e/kgview/internal/script"
	"github.com/msalah0e/kgview/internal/ui"
)

func replayCmd(a *app) *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "replay <graph> <events.toml>",
		Short: "Apply scripted pointer and view events, then draw the final frame",
		Long: `Replay a TOML event script against a freshly laid out graph.

Each [[event]] has a kind (down, move, up, dblclick, wheel, reset,
zoom_in, zoom_out, pan, filter, search, labels, node_size, relayout, fit,
focus) and its fields: x, y, delta, value, enabled, size, zoom. Fired
callbacks are printed as they happen.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.Load(args[0])
			if err != nil {
				return err
			}
			s, err := script.Load(args[1])
			if err != nil {
				return err
			}
			if format == "" {
				format = a.cfg.Render.Format
			}
			if output == "" {
				output = outputName(".", args[0], format)
			}
			format, err = formatOf(output, format)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			v, err := a.newViewer(interact.Callbacks{
				OnNodeClick: func(n graph.Node) {
					fmt.Fprintf(out, "  %s node-click %s\n", ui.Info.Sprint("→"), n.ID)
				},
				OnNodeDoubleClick: func(n graph.Node) {
					fmt.Fprintf(out, "  %s node-double-click %s\n", ui.Info.Sprint("→"), n.ID)
				},
				OnEdgeClick: func(e graph.Edge) {
					fmt.Fprintf(out, "  %s edge-click %s\n", ui.Info.Sprint("→"), e.ID)
				},
			})
			if err != nil {
				return err
			}
			v.SetData(g, false)

			if err := s.Apply(v); err != nil {
				return err
			}
			if err := writeFrame(v, output, format); err != nil {
				return err
			}

			st := v.State()
			selected := st.Selected
			if selected == "" {
				selected = "-"
			}
			fmt.Fprintf(out, "  %s %d events, zoom %.3f, pan (%.1f, %.1f), selected %s\n",
				ui.StatusIcon(true), len(s.Events), st.Zoom, st.Pan.X, st.Pan.Y, selected)
			fmt.Fprintf(out, "  %s\n", ui.Subtle.Sprint("wrote "+output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default <graph>.<format>)")
	cmd.Flags().StringVar(&format, "format", "", "Output format when -o has no extension")

	return cmd
}
