package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msalah0e/kgview/internal/graph"
	"github.com/msalah0e/kgview/internal/render"
	"github.com/msalah0e/kgview/internal/ui"
)

func infoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "info <graph>",
		Short:             "Show graph counts and the type legend",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: graphFileCompletionFunc,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			stats := g.GetStats()
			ui.Banner(args[0])

			if stats.Nodes == 0 {
				fmt.Fprintln(out, "  Empty graph.")
				return nil
			}

			fmt.Fprintf(out, "  %s  %d\n", ui.Brand.Sprintf("%-10s", "Nodes"), stats.Nodes)
			fmt.Fprintf(out, "  %s  %d\n", ui.Brand.Sprintf("%-10s", "Edges"), stats.Edges)
			if stats.Dangling > 0 {
				fmt.Fprintf(out, "  %s  %d %s\n", ui.Brand.Sprintf("%-10s", "Dangling"), stats.Dangling,
					ui.Subtle.Sprint("(not drawn)"))
			}
			fmt.Fprintln(out)

			theme := render.DefaultTheme()
			var entries []ui.LegendEntry
			for _, t := range g.Types() {
				glyph := render.Glyphs[t]
				if glyph == "" {
					glyph = "?"
				}
				entries = append(entries, ui.LegendEntry{
					Name:  string(t),
					Glyph: glyph,
					Count: stats.ByType[t],
					Color: theme.ColorFor(t),
				})
			}
			ui.Legend(entries)
			return nil
		},
	}
}
