// Package discovery locates config files and executables on disk and
// remembers the executable the user settled on.
package discovery

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mj1618/cslogin/internal/apperr"
)

// FindFiles walks root recursively and returns the absolute paths of files
// whose base name matches pattern, ignoring case. Results are in lexical walk
// order. Directories that cannot be read are skipped.
func FindFiles(ctx context.Context, root, pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, err, "bad file pattern %q", pattern)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, err, "bad search root %q", root)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, apperr.Wrap(apperr.KindNotFound, err, "search root %s", abs)
	}

	var found []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if d != nil && d.IsDir() && path != abs {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if matchName(pattern, d.Name()) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// FindExecutable searches roots breadth-first for files named name. Each
// directory contributes its own matches before any of its subdirectories are
// visited. Results are de-duplicated and blank roots are ignored.
func FindExecutable(ctx context.Context, roots []string, name string) ([]string, error) {
	if _, err := filepath.Match(name, ""); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, err, "bad file name %q", name)
	}

	seen := make(map[string]bool)
	var found []string
	for _, root := range roots {
		if strings.TrimSpace(root) == "" {
			continue
		}
		queue := []string{root}
		for len(queue) > 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			dir := queue[0]
			queue = queue[1:]

			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			var subdirs []string
			for _, e := range entries {
				path := filepath.Join(dir, e.Name())
				if e.IsDir() {
					subdirs = append(subdirs, path)
					continue
				}
				if !matchName(name, e.Name()) {
					continue
				}
				key := pathKey(path)
				if !seen[key] {
					seen[key] = true
					found = append(found, path)
				}
			}
			queue = append(queue, subdirs...)
		}
	}
	return found, nil
}

// DefaultSearchRoots returns the directories programs are installed under.
func DefaultSearchRoots() []string {
	var roots []string
	seen := make(map[string]bool)
	for _, env := range []string{"ProgramFiles", "ProgramFiles(x86)"} {
		dir := strings.TrimSpace(os.Getenv(env))
		if dir == "" || seen[pathKey(dir)] {
			continue
		}
		seen[pathKey(dir)] = true
		roots = append(roots, dir)
	}
	return roots
}

func matchName(pattern, name string) bool {
	ok, _ := filepath.Match(strings.ToLower(pattern), strings.ToLower(name))
	return ok
}

func pathKey(path string) string {
	path = filepath.Clean(path)
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		return strings.ToLower(path)
	}
	return path
}
