package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nibzard/taskman/internal/logging"
	"github.com/nibzard/taskman/internal/todo"
)

const doctorLockWait = 500 * time.Millisecond

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check config, task file validity and the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.doctor(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func (a *app) doctor(ctx context.Context, w io.Writer) error {
	fmt.Fprintln(w, "taskman doctor")
	fmt.Fprintln(w, "==============")
	fmt.Fprintln(w)

	allOK := true
	fail := func(format string, args ...any) {
		fmt.Fprintf(w, "  ❌ "+format+"\n", args...)
		allOK = false
	}
	ok := func(format string, args ...any) {
		fmt.Fprintf(w, "  ✅ "+format+"\n", args...)
	}

	// Config
	fmt.Fprintln(w, "Config:")
	if len(a.cws.Files) == 0 {
		ok("No config file, using defaults")
	}
	for _, f := range a.cws.Files {
		ok("Read %s", f)
	}
	for _, warning := range a.cws.Warnings {
		fail("%s", warning)
	}
	fmt.Fprintln(w)

	// Task file
	fmt.Fprintf(w, "Task file: %s\n", a.cfg.TaskFile)
	info, err := os.Stat(a.cfg.TaskFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		ok("Not created yet, the first command will create it")
	case err != nil:
		fail("Error: %v", err)
	case info.IsDir():
		fail("Is a directory")
	default:
		result := todo.ValidateFile(a.cfg.TaskFile, todo.ValidationOptions{SchemaPath: a.cfg.SchemaFile})
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  ⚠️  %s\n", warning)
		}
		if result.Valid {
			ok("Valid (schema: %s)", result.Schema)
		} else {
			for _, verr := range result.Errors {
				fail("%v", verr)
			}
		}
	}

	// The lock probe creates the lock file, so it waits for a task file.
	if info != nil && !info.IsDir() {
		lockCtx, cancel := context.WithTimeout(ctx, doctorLockWait)
		lock, err := todo.AcquireLock(lockCtx, a.cfg.TaskFile)
		cancel()
		if err != nil {
			fail("Lock: %v", err)
		} else {
			lock.Release()
			ok("Lock is free")
		}
	}
	fmt.Fprintln(w)

	// Journal
	fmt.Fprintf(w, "Journal: %s\n", a.cfg.JournalDir)
	if dir, err := logging.JournalDir(a.cfg.JournalDir, a.cfg.TaskFile); err != nil {
		fail("Error: %v", err)
	} else if latest, err := logging.FindLatestLog(dir); err != nil {
		fail("Error: %v", err)
	} else if latest == "" {
		ok("No entries yet")
	} else {
		ok("Latest %s", latest)
	}
	fmt.Fprintln(w)

	// Hook
	if a.cfg.HookCommand != "" {
		fmt.Fprintf(w, "Hook: %s\n\n", a.cfg.HookCommand)
	}

	if !allOK {
		return fmt.Errorf("doctor found problems")
	}
	fmt.Fprintln(w, "All checks passed.")
	return nil
}
