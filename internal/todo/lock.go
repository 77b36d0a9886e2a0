package todo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockTimeout is how long AcquireLock waits for another process.
const LockTimeout = 5 * time.Second

const lockRetryDelay = 50 * time.Millisecond

// ErrLocked is returned when the task file lock is held elsewhere.
var ErrLocked = errors.New("task file is locked by another process")

// FileLock is an advisory lock on a task file, held through a sibling
// "<file>.lock" file.
type FileLock struct {
	flk *flock.Flock
}

// LockPath returns the lock file path for a task file.
func LockPath(taskFile string) string {
	return taskFile + ".lock"
}

// AcquireLock takes an exclusive lock for taskFile, waiting up to
// LockTimeout or until ctx is done.
func AcquireLock(ctx context.Context, taskFile string) (*FileLock, error) {
	if err := ValidatePath(taskFile); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(taskFile), 0o755); err != nil {
		return nil, fmt.Errorf("create task dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()

	flk := flock.New(LockPath(taskFile))
	locked, err := flk.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("lock task file: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}
	return &FileLock{flk: flk}, nil
}

// Release drops the lock. It is safe to call on a nil lock.
func (l *FileLock) Release() error {
	if l == nil || l.flk == nil {
		return nil
	}
	return l.flk.Unlock()
}
