package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// PathCache remembers one absolute path in a small text file.
type PathCache struct {
	File string
}

// NewPathCache returns the cache stored next to the executable at exe, in
// "<exe>.cache".
func NewPathCache(exe string) *PathCache {
	return &PathCache{File: exe + ".cache"}
}

// ForCurrentExecutable returns the cache of the running binary.
func ForCurrentExecutable() (*PathCache, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	return NewPathCache(exe), nil
}

// Load returns the cached path if the cache file exists and the path it
// names still exists on disk.
func (c *PathCache) Load() (string, bool) {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return "", false
	}
	path := strings.TrimSpace(string(data))
	if path == "" {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Store replaces the cached path. The file is written to a temporary file and
// renamed into place while holding a lock on "<file>.lock".
func (c *PathCache) Store(path string) error {
	lock := flock.New(c.File + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire cache lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(filepath.Dir(c.File), filepath.Base(c.File)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(path); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, c.File); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
