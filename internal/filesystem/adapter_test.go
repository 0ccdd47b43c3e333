package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemini-collab-server/internal/filesystem"
)

func TestDefaultFileSystemAdapter_ReadFileBytes(t *testing.T) {
	adapter := filesystem.NewDefaultFileSystemAdapter()
	dir := t.TempDir()

	path := filepath.Join(dir, "prompt.md")
	require.NoError(t, os.WriteFile(path, []byte("be concise\n"), 0o600))

	t.Run("existing file", func(t *testing.T) {
		content, err := adapter.ReadFileBytes(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("be concise\n"), content)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := adapter.ReadFileBytes(filepath.Join(dir, "nope.md"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file not found")
	})
}

func TestDefaultFileSystemAdapter_FileExists(t *testing.T) {
	adapter := filesystem.NewDefaultFileSystemAdapter()
	dir := t.TempDir()

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: gemini-2.0-flash\n"), 0o600))

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"present", path, true},
		{"absent", filepath.Join(dir, "other.yaml"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := adapter.FileExists(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultFileSystemAdapter_UserHomeDir(t *testing.T) {
	adapter := filesystem.NewDefaultFileSystemAdapter()
	home, err := adapter.UserHomeDir()
	require.NoError(t, err)
	assert.NotEmpty(t, home)
}
