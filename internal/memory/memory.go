// Package memory locates the developer's vocabulary memory file, a markdown
// document of project terms used to bias transcription toward the right
// spellings.
package memory

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	DirName  = ".voice-coding"
	FileName = "memory.md"
)

// Find walks up from start looking for .voice-coding/memory.md and falls back
// to the global file under home. It returns "" when neither exists.
func Find(start, home string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}

	for {
		candidate := filepath.Join(dir, DirName, FileName)
		if isFile(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if home != "" {
		global := GlobalPath(home)
		if isFile(global) {
			return global, nil
		}
	}
	return "", nil
}

// GlobalPath is the per-user memory file shared by all projects.
func GlobalPath(home string) string {
	return filepath.Join(home, DirName, FileName)
}

// Load returns the content of the memory file Find resolves, or "" when there
// is none.
func Load(start, home string) (content, path string, err error) {
	path, err = Find(start, home)
	if err != nil || path == "" {
		return "", "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", "", nil
		}
		return "", "", fmt.Errorf("reading memory file: %w", err)
	}
	return string(data), path, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
