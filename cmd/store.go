package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/nibzard/taskman/internal/hooks"
	"github.com/nibzard/taskman/internal/logging"
	"github.com/nibzard/taskman/internal/todo"
)

// errNoMatch is wrapped by lookups that matched no task exactly.
var errNoMatch = errors.New("no matching task")

// session is a loaded task list held under the file lock.
type session struct {
	app  *app
	mgr  *todo.Manager
	lock *todo.FileLock
}

// open locks the task file and loads it.
func (a *app) open(ctx context.Context) (*session, error) {
	lock, err := todo.AcquireLock(ctx, a.cfg.TaskFile)
	if err != nil {
		return nil, err
	}

	mgr, err := todo.NewManager(a.cfg.TaskFile, todo.WithLogger(a.logger))
	if err != nil {
		lock.Release()
		return nil, err
	}
	outcome, err := mgr.Load()
	if err != nil {
		lock.Release()
		return nil, fmt.Errorf("loading task file: %w", err)
	}
	if outcome == todo.LoadCreated {
		a.logger.Info("created task file", "path", a.cfg.TaskFile)
	}
	return &session{app: a, mgr: mgr, lock: lock}, nil
}

// close releases the file lock.
func (s *session) close() {
	if err := s.lock.Release(); err != nil {
		s.app.logger.Warn("releasing lock", "err", err)
	}
}

// read runs fn against the loaded task list without saving.
func (a *app) read(ctx context.Context, fn func(*todo.Manager) error) error {
	s, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer s.close()
	return fn(s.mgr)
}

// mutate runs fn against the loaded task list and saves it when fn reports
// a change. Changes and misses are journaled. The hook runs after a save.
func (a *app) mutate(ctx context.Context, event string, fn func(*todo.Manager) (logging.Event, bool, error)) error {
	s, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	ev, changed, err := fn(s.mgr)
	ev.Type = event
	if err != nil {
		if errors.Is(err, errNoMatch) {
			a.record(ev)
		}
		return err
	}

	if changed {
		if err := s.mgr.Save(); err != nil {
			return fmt.Errorf("saving task file: %w", err)
		}
	}
	a.record(ev)
	if changed {
		a.runHook(ctx, ev)
	}
	return nil
}

// record appends ev to the journal. Journal failures are logged, not
// returned.
func (a *app) record(ev logging.Event) {
	journal, err := logging.OpenJournal(a.cfg.JournalDir, a.cfg.TaskFile)
	if err != nil {
		a.logger.Warn("opening journal", "err", err)
		return
	}
	defer journal.Close()
	if err := journal.Record(ev); err != nil {
		a.logger.Warn("writing journal", "err", err)
	}
}

// runHook invokes the configured post-save hook. A failing hook is logged,
// not returned.
func (a *app) runHook(ctx context.Context, ev logging.Event) {
	if a.cfg.HookCommand == "" {
		return
	}
	result, err := hooks.Invoke(ctx, hooks.Options{
		Command:  a.cfg.HookCommand,
		TaskFile: a.cfg.TaskFile,
		Event:    ev.Type,
		Status:   ev.Status,
		WorkDir:  a.cfg.WorkDir,
		Stdout:   a.stderr,
		Stderr:   a.stderr,
	})
	if err != nil {
		a.logger.Warn("hook failed", "command", a.cfg.HookCommand, "exit_code", result.ExitCode, "err", err)
		return
	}
	a.logger.Debug("hook ran", "command", a.cfg.HookCommand)
}

// missError turns a suggestion or not_found result into an error.
func missError(name string, r todo.Result) error {
	if r.Status == todo.StatusSuggestion {
		return fmt.Errorf("%w: %q, did you mean %q?", errNoMatch, name, r.Suggestion)
	}
	return fmt.Errorf("%w: %q", errNoMatch, name)
}
