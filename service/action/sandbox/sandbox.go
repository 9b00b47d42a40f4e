// Package sandbox confines tool-supplied paths to the workspace directory.
// Every file tool resolves its paths through a Root so that neither relative
// escapes nor absolute paths can reach outside the workspace.
package sandbox

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrOutsideSandbox indicates a path that resolves outside the workspace
// directory.
var ErrOutsideSandbox = errors.New("path escapes the workspace directory")

// Root is the workspace directory file tools operate under.
type Root struct {
	dir string
}

// New creates a sandbox root for the supplied directory.
func New(dir string) (*Root, error) {
	absolute, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace directory %v: %w", dir, err)
	}
	return &Root{dir: absolute}, nil
}

// Dir returns the absolute workspace directory.
func (r *Root) Dir() string {
	return r.dir
}

// Resolve maps a tool-supplied path to an absolute location and enforces
// containment. An empty path or "." resolves to the root itself.
func (r *Root) Resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." {
		return r.dir, nil
	}
	candidate := name
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(r.dir, candidate)
	}
	candidate = filepath.Clean(candidate)
	rel, err := filepath.Rel(r.dir, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q: %w", name, ErrOutsideSandbox)
	}
	return candidate, nil
}

// Relative converts an absolute location back to a workspace-relative path.
func (r *Root) Relative(location string) string {
	rel, err := filepath.Rel(r.dir, location)
	if err != nil {
		return location
	}
	return rel
}
