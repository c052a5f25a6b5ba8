package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/msalah0e/kgview/internal/graph"
	"github.com/msalah0e/kgview/internal/interact"
	"github.com/msalah0e/kgview/internal/parallel"
	"github.com/msalah0e/kgview/internal/render"
	"github.com/msalah0e/kgview/internal/ui"
)

func renderCmd(a *app) *cobra.Command {
	var (
		output    string
		format    string
		showStats bool
		vf        viewFlags
	)

	cmd := &cobra.Command{
		Use:   "render <graph>...",
		Short: "Lay out graph files and draw them as PNG or SVG",
		Long: `Lay out each graph file and draw one frame of it.

With a single input, -o may name the output file. Otherwise -o is a
directory and each output is named after its input. Inputs are rendered
concurrently ([parallel] concurrency).`,
		Example: `  kgview render graph.json -o graph.png
  kgview render a.json b.toml -o out/ --format svg --no-labels
  kgview render graph.json --type person --fit --stats`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: graphFileCompletionFunc,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.cfg.Render.Format
			}
			targets, err := renderTargets(args, output, format)
			if err != nil {
				return err
			}

			stats := make([]render.Stats, len(args))
			tasks := make([]parallel.Task, len(args))
			for i, input := range args {
				tasks[i] = parallel.Task{
					Name: filepath.Base(input),
					Fn: func(ctx context.Context) (string, error) {
						s, err := a.renderOne(input, targets[i].path, targets[i].format, vf)
						stats[i] = s
						return "", err
					},
				}
			}

			results := parallel.Run(cmd.Context(), tasks, a.cfg.Parallel.Concurrency)
			if showStats {
				rows := make([][]string, 0, len(results))
				for i, r := range results {
					if !r.OK {
						continue
					}
					rows = append(rows, []string{
						targets[i].path,
						strconv.Itoa(stats[i].Nodes),
						strconv.Itoa(stats[i].Edges),
						strconv.Itoa(stats[i].Arrows),
						strconv.Itoa(stats[i].Labels),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout())
				ui.Table([]string{"OUTPUT", "NODES", "EDGES", "ARROWS", "LABELS"}, rows)
			}

			if failed := parallel.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d of %d renders failed", len(failed), len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (single input) or directory")
	cmd.Flags().StringVar(&format, "format", "", "Output format: png or svg (default from config)")
	cmd.Flags().BoolVar(&showStats, "stats", false, "Print what each frame drew")
	vf.register(cmd)

	return cmd
}

type target struct {
	path   string
	format string
}

// renderTargets resolves the output file of every input.
func renderTargets(inputs []string, output, format string) ([]target, error) {
	out := make([]target, len(inputs))
	if len(inputs) == 1 && output != "" && filepath.Ext(output) != "" {
		f, err := formatOf(output, format)
		if err != nil {
			return nil, err
		}
		out[0] = target{path: output, format: f}
		return out, nil
	}

	if _, err := formatOf("", format); err != nil {
		return nil, err
	}
	dir := output
	if dir == "" {
		dir = "."
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("-o %s: not a directory", dir)
	}
	seen := make(map[string]string, len(inputs))
	for i, input := range inputs {
		p := outputName(dir, input, format)
		if prev, dup := seen[p]; dup {
			return nil, fmt.Errorf("%s and %s would both write %s", prev, input, p)
		}
		seen[p] = input
		out[i] = target{path: p, format: format}
	}
	return out, nil
}

func (a *app) renderOne(input, path, format string, vf viewFlags) (render.Stats, error) {
	g, err := graph.Load(input)
	if err != nil {
		return render.Stats{}, err
	}
	v, err := a.newViewer(interact.Callbacks{})
	if err != nil {
		return render.Stats{}, err
	}
	v.SetData(g, false)
	if err := vf.apply(v); err != nil {
		return render.Stats{}, err
	}

	w, h := v.Size()
	stats := v.Paint(render.NewRecorder(w, h))
	if err := writeFrame(v, path, format); err != nil {
		return render.Stats{}, err
	}
	a.logger.Debug("rendered",
		zap.String("input", input),
		zap.String("output", path),
		zap.Int("nodes", stats.Nodes),
		zap.Int("edges", stats.Edges))
	return stats, nil
}
