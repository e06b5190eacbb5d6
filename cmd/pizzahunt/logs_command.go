package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"pizzahunt/internal/logs"
)

var logSources = map[string]string{
	"agent":  "agent.log",
	"server": "pizzahuntd.log",
	"cli":    "pizzahunt.log",
}

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool

	cmd := &cobra.Command{
		Use:       "logs [agent|server|cli]",
		Short:     "Show recent log output",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"agent", "server", "cli"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source := "agent"
			if len(args) == 1 {
				source = args[0]
			}
			name, ok := logSources[source]
			if !ok {
				return fmt.Errorf("unknown log source %q (expected agent, server or cli)", source)
			}
			path := filepath.Join(cfg.Paths.LogDir, name)

			tail, offset, err := logs.Last(path, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(tail) == 0 && !follow {
				fmt.Fprintf(out, "No log output at %s\n", path)
				return nil
			}
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, offset, logs.DefaultPoll, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing lines as they are written")
	return cmd
}
