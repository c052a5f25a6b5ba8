package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msalah0e/kgview/internal/graph"
	"github.com/msalah0e/kgview/internal/ui"
)

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "validate <graph>",
		Short:             "Check a graph file for missing fields, duplicates and dangling edges",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: graphFileCompletionFunc,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			verr := g.Validate()
			if verr == nil {
				fmt.Fprintf(out, "  %s %s: %d nodes, %d edges\n", ui.StatusIcon(true), args[0], len(g.Nodes), len(g.Edges))
				return nil
			}

			problems := unjoin(verr)
			for _, p := range problems {
				fmt.Fprintf(out, "  %s %s\n", ui.StatusIcon(false), p)
			}
			return fmt.Errorf("%s: %d problems", args[0], len(problems))
		},
	}
}

// unjoin flattens an errors.Join tree into its leaves.
func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, unjoin(e)...)
		}
		return out
	}
	return []error{err}
}
