package history

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemini-collab-server/internal/lock"
)

// mockLocker implements Locker with overridable behavior.
type mockLocker struct {
	LockFunc func(ctx context.Context) error
	unlocked int
}

func (m *mockLocker) Lock(ctx context.Context) error {
	if m.LockFunc != nil {
		return m.LockFunc(ctx)
	}
	return nil
}

func (m *mockLocker) Unlock() error {
	m.unlocked++
	return nil
}

func TestRecorderDisabled(t *testing.T) {
	r := NewRecorder("", &mockLocker{})
	assert.False(t, r.Enabled())
	require.NoError(t, r.Record(context.Background(), Entry{Tool: "ask_gemini", Status: StatusOK}))
}

func TestRecorderAppendsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exchanges.jsonl")
	mu := &mockLocker{}
	r := NewRecorder(path, mu)
	r.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	ids := []string{"id-1", "id-2"}
	r.newID = func() string { id := ids[0]; ids = ids[1:]; return id }

	require.True(t, r.Enabled())
	require.NoError(t, r.Record(context.Background(), Entry{Tool: "ask_gemini", Model: "gemini-2.0-flash", Temperature: 0.5, DurationMS: 42, Status: StatusOK}))
	require.NoError(t, r.Record(context.Background(), Entry{Tool: "gemini_code_review", Status: StatusError, Detail: "upstream status 500"}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, entries, 2)
	assert.Equal(t, "id-1", entries[0].ID)
	assert.Equal(t, "ask_gemini", entries[0].Tool)
	assert.Equal(t, "gemini-2.0-flash", entries[0].Model)
	assert.Equal(t, int64(42), entries[0].DurationMS)
	assert.Equal(t, StatusOK, entries[0].Status)
	assert.Equal(t, "id-2", entries[1].ID)
	assert.Equal(t, StatusError, entries[1].Status)
	assert.Equal(t, "upstream status 500", entries[1].Detail)
	assert.Equal(t, 2, mu.unlocked)
}

func TestRecorderAssignsUniqueIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exchanges.jsonl")
	r := NewRecorder(path, &mockLocker{})

	require.NoError(t, r.Record(context.Background(), Entry{Tool: "ask_gemini", Status: StatusOK}))
	require.NoError(t, r.Record(context.Background(), Entry{Tool: "ask_gemini", Status: StatusOK}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var first, second Entry
	lines := splitLines(t, data)
	require.Len(t, lines, 2)
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRecorderLockFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exchanges.jsonl")
	mu := &mockLocker{
		LockFunc: func(context.Context) error { return lock.ErrTimeout },
	}
	r := NewRecorder(path, mu)

	err := r.Record(context.Background(), Entry{Tool: "ask_gemini", Status: StatusOK})
	require.Error(t, err)
	assert.True(t, errors.Is(err, lock.ErrTimeout))
	assert.Zero(t, mu.unlocked, "a failed Lock must not be unlocked")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file should be created when locking fails")
}

func TestRecorderBoundsLockWait(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exchanges.jsonl")
	var gotDeadline bool
	mu := &mockLocker{
		LockFunc: func(ctx context.Context) error {
			_, gotDeadline = ctx.Deadline()
			return nil
		},
	}
	r := NewRecorder(path, mu)

	require.NoError(t, r.Record(context.Background(), Entry{Tool: "ask_gemini", Status: StatusOK}))
	assert.True(t, gotDeadline, "Record must bound the lock wait with a deadline")
}

func TestRecorderWithFileMutex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exchanges.jsonl")
	r := NewRecorder(path, lock.ForFile(path))

	require.NoError(t, r.Record(context.Background(), Entry{Tool: "gemini_brainstorm", Status: StatusOK}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var e Entry
	require.NoError(t, json.Unmarshal(splitLines(t, data)[0], &e))
	assert.Equal(t, "gemini_brainstorm", e.Tool)

	_, err = os.Stat(path + ".lock")
	assert.NoError(t, err, "appends go through the lock sibling")
}

func splitLines(t *testing.T, data []byte) [][]byte {
	t.Helper()
	var lines [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, data[start:i])
			start = i + 1
		}
	}
	return lines
}
