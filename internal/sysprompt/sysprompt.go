// Package sysprompt loads the optional system prompt file that is prepended
// to outgoing prompts. The file is read exactly once at startup; the loaded
// prompt is immutable for the life of the process.
package sysprompt

import (
	"path/filepath"
	"strings"

	"gemini-collab-server/internal/filesystem"
)

// defaultRelPath is the prompt location under the user's home directory,
// shared with the other collaboration servers of this family.
const defaultRelPath = ".claude-mcp-servers/gemini-collab/GEMINI.md"

// Prompt is a loaded system prompt. The zero value means no prompt.
type Prompt struct {
	// Text is the trimmed prompt content.
	Text string
	// Path is the file the prompt was read from.
	Path string
}

// Loaded reports whether a non-empty prompt was read.
func (p Prompt) Loaded() bool {
	return p.Text != ""
}

// Filename returns the base name of the prompt file, for status display.
func (p Prompt) Filename() string {
	if p.Path == "" {
		return ""
	}
	return filepath.Base(p.Path)
}

// Apply prepends the prompt to a user request. Without a loaded prompt the
// request passes through unchanged.
func (p Prompt) Apply(request string) string {
	if !p.Loaded() {
		return request
	}
	return p.Text + "\n\n---\n\nUser Request:\n" + request
}

// Resolve returns the prompt file path: the override when non-empty, with a
// leading "~" expanded to the user home directory, otherwise the per-user
// default. If the home directory cannot be determined the path is returned
// unexpanded and the subsequent load simply finds nothing, which Load
// treats as "no prompt".
func Resolve(fsa filesystem.FileSystemAdapter, override string) string {
	if override != "" {
		return expandHome(fsa, override)
	}
	home, err := fsa.UserHomeDir()
	if err != nil {
		return filepath.FromSlash(defaultRelPath)
	}
	return filepath.Join(home, filepath.FromSlash(defaultRelPath))
}

// expandHome expands a leading "~" to the user home directory. Paths
// without the prefix pass through unchanged, as does any path when home
// cannot be resolved. "~user" forms are not expanded.
func expandHome(fsa filesystem.FileSystemAdapter, path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := fsa.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// Load reads the prompt file and trims surrounding whitespace. A missing,
// unreadable or empty file is not an error: collaboration works without a
// prompt, so every failure degrades to the zero Prompt. The existence
// check runs first so a missing file is never read.
func Load(fsa filesystem.FileSystemAdapter, path string) (Prompt, bool) {
	if exists, err := fsa.FileExists(path); err != nil || !exists {
		return Prompt{}, false
	}
	content, err := fsa.ReadFileBytes(path)
	if err != nil {
		return Prompt{}, false
	}
	text := strings.TrimSpace(string(content))
	if text == "" {
		return Prompt{}, false
	}
	return Prompt{Text: text, Path: path}, true
}
