package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/msalah0e/kgview/internal/config"
	"github.com/msalah0e/kgview/internal/logging"
	"github.com/msalah0e/kgview/internal/parallel"
	"github.com/msalah0e/kgview/internal/ui"
)

var version = "0.3.0"

// app carries what PersistentPreRunE loads for the subcommands.
type app struct {
	cfgPath string
	verbose bool
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "kgview",
		Short: "kgview — lay out and draw knowledge graphs",
		Long: ui.Brand.Sprint(ui.Mark+" kgview") + " — force-directed knowledge graph viewer\n" +
			ui.Subtle.Sprint("Lay out, render, inspect and replay interactions on graph files"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ui.Out = cmd.OutOrStdout()
			parallel.Out = cmd.OutOrStdout()

			var err error
			if a.cfgPath != "" {
				a.cfg, err = config.LoadFile(a.cfgPath)
			} else {
				a.cfg, err = config.Load()
			}
			if err != nil {
				return err
			}
			a.logger, err = logging.New(a.cfg.Log, a.verbose)
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.SetVersionTemplate("kgview {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Debug logging on stderr")

	rootCmd.AddCommand(
		renderCmd(a),
		layoutCmd(a),
		infoCmd(a),
		validateCmd(a),
		exportCmd(a),
		replayCmd(a),
		watchCmd(a),
		configCmd(a),
		cacheCmd(a),
		completionCmd(rootCmd),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		ui.Bad.Fprintf(os.Stderr, "kgview: %v\n", err)
		return err
	}
	return nil
}
