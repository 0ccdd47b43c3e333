// Package history records one JSON line per tool exchange into an optional
// log file. The log may be shared between server processes, so each append
// happens under a cross-process file mutex. Recording is best effort:
// failures surface as errors for the caller to log, never as request
// failures.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Entry statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// appendLockTimeout bounds how long an append waits for the file mutex.
const appendLockTimeout = time.Second

// Entry is a single exchange record.
type Entry struct {
	// ID uniquely identifies the entry. Assigned by Record.
	ID string `json:"id"`
	// Time is when the exchange completed. Assigned by Record.
	Time time.Time `json:"time"`
	// Tool is the tool name that was called.
	Tool string `json:"tool"`
	// Model is the model the call was routed to, when a call was made.
	Model string `json:"model,omitempty"`
	// Temperature is the sampling temperature of the call, when one was made.
	Temperature float64 `json:"temperature,omitempty"`
	// DurationMS is the wall time of the exchange in milliseconds.
	DurationMS int64 `json:"duration_ms"`
	// Status is StatusOK or StatusError.
	Status string `json:"status"`
	// Detail carries the failure text for error entries.
	Detail string `json:"detail,omitempty"`
}

// Locker is the slice of lock.FileMutex the recorder needs.
type Locker interface {
	Lock(ctx context.Context) error
	Unlock() error
}

// Recorder appends exchange entries to a JSONL file. The zero-path Recorder
// is disabled and records nothing.
type Recorder struct {
	path string
	mu   Locker

	// overridable for tests
	now   func() time.Time
	newID func() string
}

// NewRecorder creates a Recorder appending to path under mu. An empty path
// disables recording.
func NewRecorder(path string, mu Locker) *Recorder {
	return &Recorder{
		path:  path,
		mu:    mu,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Enabled reports whether Record will write anything.
func (r *Recorder) Enabled() bool {
	return r != nil && r.path != ""
}

// Record appends one entry to the log. The entry's ID and Time are assigned
// here so callers only describe the exchange itself.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	if !r.Enabled() {
		return nil
	}

	e.ID = r.newID()
	e.Time = r.now().UTC()
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	lockCtx, cancel := context.WithTimeout(ctx, appendLockTimeout)
	defer cancel()
	if err := r.mu.Lock(lockCtx); err != nil {
		return fmt.Errorf("failed to lock history file %s: %w", r.path, err)
	}
	defer func() { _ = r.mu.Unlock() }()

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history file %s: %w", r.path, err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close history file: %w", err)
	}
	return nil
}
