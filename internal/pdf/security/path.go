// Package security confines tool-supplied paths to the citations directory.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideDirectory is returned for paths that escape the citations directory
var ErrOutsideDirectory = errors.New("path is outside the citations directory")

// PathValidator resolves paths relative to a root directory and rejects
// anything that leaves it, symlinks included
type PathValidator struct {
	root string
}

// NewPathValidator creates a validator rooted at dir. The directory does not
// have to exist yet.
func NewPathValidator(dir string) (*PathValidator, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("citations directory cannot be empty")
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve citations directory: %w", err)
	}

	return &PathValidator{root: filepath.Clean(root)}, nil
}

// Root returns the absolute citations directory
func (v *PathValidator) Root() string {
	return v.root
}

// Resolve returns the absolute form of path. Relative paths are taken
// relative to the root. The result must stay inside the root.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(strings.TrimSpace(path), "\x00", "")
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.root, path)
	}
	path = filepath.Clean(path)

	if !v.Contains(path) {
		return "", fmt.Errorf("%w: %s", ErrOutsideDirectory, path)
	}
	return path, nil
}

// Contains reports whether path lies inside the root, both lexically and
// after following symlinks
func (v *PathValidator) Contains(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if !within(v.root, abs) {
		return false
	}

	realRoot := v.root
	if resolved, err := filepath.EvalSymlinks(v.root); err == nil {
		realRoot = resolved
	}

	// Nonexistent targets have nothing to follow
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return os.IsNotExist(err)
	}
	return within(realRoot, real) || within(v.root, real)
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
