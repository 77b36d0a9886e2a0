package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nibzard/taskman/internal/logging"
)

func newLogCmd(a *app) *cobra.Command {
	var (
		lines  int
		follow bool
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the activity journal of the task file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := logging.JournalDir(a.cfg.JournalDir, a.cfg.TaskFile)
			if err != nil {
				return fmt.Errorf("finding journal directory: %w", err)
			}
			path, err := logging.FindLatestLog(dir)
			if err != nil {
				return fmt.Errorf("finding latest journal: %w", err)
			}
			out := cmd.OutOrStdout()
			if path == "" {
				fmt.Fprintln(out, "No journal files found.")
				return nil
			}
			a.logger.Info("tailing journal", "path", path)
			return logging.TailLog(cmd.Context(), out, path, lines, follow)
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of lines to show (0 = all)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow the journal (like tail -f)")
	return cmd
}
