package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msalah0e/kgview/internal/cache"
	"github.com/msalah0e/kgview/internal/ui"
)

func cacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the on-disk layout cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "dir",
			Short: "Print the layout cache directory and entry count",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				dir := cache.LayoutDir()
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", dir,
					ui.Subtle.Sprintf("(%d entries)", cache.New(dir).Len()))
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached layout",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := cache.New(cache.LayoutDir()).Clear()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %s removed %d cached layouts\n", ui.StatusIcon(true), n)
				return nil
			},
		},
	)

	return cmd
}
