package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"epidash/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var lines int
	var cycle string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Display dashboard logs",
		Long: "Display the dashboard log file. The live dashboard never logs to the terminal,\n" +
			"so run this in a second terminal to watch fetch failures and refresh cycles.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			path := cfg.LogPath()
			filter := logs.Filter{CycleID: cycle}

			var result logs.TailResult
			if lines > 0 {
				result, err = logs.Tail(path, lines, filter)
			} else {
				result, err = logs.ReadFrom(path, 0, filter)
			}
			if err != nil {
				return fmt.Errorf("tail logs: %w", err)
			}
			for _, line := range result.Lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				if len(result.Lines) == 0 {
					fmt.Fprintln(out, "No log entries available")
				}
				return nil
			}

			followCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return logs.Follow(followCtx, path, result.Offset, filter, logs.DefaultPollInterval, func(batch []string) {
				for _, line := range batch {
					fmt.Fprintln(out, line)
				}
			})
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVarP(&lines, "lines", "n", 10, "Number of lines to show (0 for all)")
	cmd.Flags().StringVar(&cycle, "cycle", "", "Only show lines for this refresh cycle id")
	return cmd
}
