// Package cmd implements the CLI command structure for taskman.
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nibzard/taskman/internal/config"
	"github.com/nibzard/taskman/internal/logging"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries the loaded configuration into subcommands.
type app struct {
	cws    *config.ConfigWithSources
	cfg    *config.Config
	logger *log.Logger
	stderr io.Writer
}

// Run executes the taskman CLI.
func Run(ctx context.Context, args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "taskman",
		Short: "A personal task manager backed by a JSON file",
		Long: `taskman keeps an ordered list of tasks in a JSON file.

Tasks are looked up by exact text, ignoring case. When nothing matches,
taskman suggests the closest task instead of acting on it.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	config.RegisterFlags(root.PersistentFlags())
	root.SetVersionTemplate("taskman version {{.Version}}\n")

	root.AddCommand(
		newAddCmd(a),
		newRemoveCmd(a),
		newSearchCmd(a),
		newDoneCmd(a),
		newListCmd(a),
		newClearCmd(a),
		newExportCmd(a),
		newTUICmd(a),
		newDoctorCmd(a),
		newConfigCmd(a),
		newLogCmd(a),
		newVersionCmd(),
	)
	return root
}

// load resolves configuration from the command's flags and builds the
// console logger.
func (a *app) load(cmd *cobra.Command) error {
	cws, err := config.LoadWithSources(cmd.Flags())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cws = cws
	a.cfg = cws.Config
	a.stderr = cmd.ErrOrStderr()
	a.logger = logging.NewConsoleLoggerFromConfig(a.stderr,
		a.cfg.LogLevel, a.cfg.LogFormat, a.cfg.LogTimestamps, a.cfg.LogCaller)
	for _, w := range cws.Warnings {
		a.logger.Warn(w)
	}
	a.logger.Debug("config loaded", "task_file", a.cfg.TaskFile, "files", cws.Files)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// version needs no config
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "taskman version %s\n", Version)
			return nil
		},
	}
}
