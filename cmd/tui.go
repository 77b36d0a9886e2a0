package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nibzard/taskman/internal/logging"
	"github.com/nibzard/taskman/internal/ui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			var last logging.Event
			return ui.RunTUI(ctx, s.mgr,
				ui.WithOnChange(func(ev logging.Event) {
					last = ev
					a.record(ev)
				}),
				ui.WithOnSave(func() {
					a.runHook(ctx, last)
				}),
			)
		},
	}
}
