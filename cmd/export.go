package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msalah0e/kgview/internal/graph"
	"github.com/msalah0e/kgview/internal/layout"
)

func exportCmd(a *app) *cobra.Command {
	var (
		format     string
		withLayout bool
	)

	cmd := &cobra.Command{
		Use:   "export <graph>",
		Short: "Convert a graph file to JSON or Graphviz DOT",
		Example: `  kgview export graph.toml --format json > graph.json
  kgview export graph.json --format dot --layout | neato -n -Tpng > graph.png`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: graphFileCompletionFunc,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.Load(args[0])
			if err != nil {
				return err
			}
			if withLayout {
				g = withPositions(g, layout.New(a.layoutConfig(), layout.WithLogger(a.logger)).Layout(g))
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := g.ExportJSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			case "dot":
				fmt.Fprint(out, g.ExportDOT(withLayout))
			default:
				return fmt.Errorf("unsupported export format %q (use json or dot)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or dot")
	cmd.Flags().BoolVar(&withLayout, "layout", false, "Include computed positions")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"json", "dot"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}
