// Package hooks invokes the external post-save hook.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// Options configures a hook invocation.
type Options struct {
	Command  string
	TaskFile string
	Event    string // journal event type, e.g. "add"
	Status   string // result status of the operation
	WorkDir  string
	Stdout   io.Writer // defaults to os.Stderr
	Stderr   io.Writer // defaults to os.Stderr
}

// Result captures the outcome of a hook invocation.
type Result struct {
	Ran      bool
	Command  []string
	ExitCode int
}

// Invoke runs the hook command through the system shell with TASKMAN_FILE,
// TASKMAN_EVENT and TASKMAN_STATUS in its environment. An empty command is
// a no-op.
func Invoke(ctx context.Context, opts Options) (Result, error) {
	if opts.Command == "" {
		return Result{}, nil
	}
	if opts.TaskFile == "" {
		return Result{}, fmt.Errorf("hook: task file is empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cmd := shellCommand(ctx, opts.Command)
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}
	cmd.Env = append(os.Environ(),
		"TASKMAN_FILE="+opts.TaskFile,
		"TASKMAN_EVENT="+opts.Event,
		"TASKMAN_STATUS="+opts.Status,
	)
	cmd.Stdout = writerOr(opts.Stdout, os.Stderr)
	cmd.Stderr = writerOr(opts.Stderr, os.Stderr)

	err := cmd.Run()
	result := Result{
		Ran:      true,
		Command:  cmd.Args,
		ExitCode: exitCodeFromError(err),
	}
	if err != nil {
		return result, fmt.Errorf("hook command failed: %w", err)
	}
	return result, nil
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, "sh", "-c", command)
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
