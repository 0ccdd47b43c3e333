// Package lock provides a cross-process mutex over a shared file. The
// exchange log may be appended to by several server processes at once (one
// per agent session), so every append happens under an advisory OS lock
// taken on a ".lock" sibling of the log file.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// ErrTimeout is returned by Lock when the mutex cannot be acquired before
// the context ends.
var ErrTimeout = errors.New("timeout acquiring file lock")

// pollInterval is how often a blocked Lock retries the underlying flock.
const pollInterval = 10 * time.Millisecond

// FileMutex guards one shared file. The lock lives on a ".lock" sibling so
// the guarded file itself stays free for plain create and append calls while
// the mutex is held. Instances in different processes guarding the same path
// exclude each other.
type FileMutex struct {
	fl *flock.Flock
}

// ForFile returns the FileMutex guarding path.
func ForFile(path string) *FileMutex {
	return &FileMutex{fl: flock.New(path + ".lock")}
}

// Lock acquires the mutex, polling until it succeeds or ctx ends. A context
// that ends first reports ErrTimeout.
func (m *FileMutex) Lock(ctx context.Context) error {
	locked, err := m.fl.TryLockContext(ctx, pollInterval)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return ErrTimeout
		}
		return fmt.Errorf("error acquiring file lock %s: %w", m.fl.Path(), err)
	}
	if !locked {
		return ErrTimeout
	}
	return nil
}

// Unlock releases the mutex. The ".lock" sibling is left in place for the
// next holder.
func (m *FileMutex) Unlock() error {
	return m.fl.Unlock()
}

// LockFile returns the path of the ".lock" sibling.
func (m *FileMutex) LockFile() string {
	return m.fl.Path()
}
