package git

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
)

// RootResolver locates the repository root for a working directory and
// remembers the first successful answer until Reset.
type RootResolver struct {
	exec    Executor
	workDir string

	mu   sync.Mutex
	root string
}

// NewRootResolver creates a resolver bound to workDir.
func NewRootResolver(exec Executor, workDir string) *RootResolver {
	return &RootResolver{exec: exec, workDir: workDir}
}

// Resolve returns the absolute repository root.
func (r *RootResolver) Resolve(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.root != "" {
		return r.root, nil
	}

	out, err := r.exec.Exec(ctx, r.workDir, RootArgs()...)
	if err != nil {
		return "", &ResolutionError{Dir: r.workDir, Err: err}
	}
	root := firstLine(out)
	if root == "" {
		return "", &ResolutionError{Dir: r.workDir, Err: &ParseError{Reason: "empty repository root", Record: out}}
	}

	r.root = filepath.Clean(filepath.FromSlash(root))
	return r.root, nil
}

// Reset forgets the resolved root.
func (r *RootResolver) Reset() {
	r.mu.Lock()
	r.root = ""
	r.mu.Unlock()
}

// ToRepoRelative converts an absolute path into a forward-slash path relative
// to root. Relative paths are returned unchanged.
func ToRepoRelative(path, root string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	// git reports the root with symlinks resolved, so a path spelled through
	// a symlinked working directory lands outside it until resolved too.
	if isOutside(rel) {
		if resolved := evalSymlinks(path); resolved != path {
			if r, err := filepath.Rel(root, resolved); err == nil && !isOutside(r) {
				rel = r
			}
		}
	}
	return filepath.ToSlash(rel)
}

func isOutside(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// evalSymlinks resolves path, or its parent directory when path itself does
// not exist (a file deleted in the working tree still has history).
func evalSymlinks(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	dir, base := filepath.Split(path)
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return filepath.Join(resolved, base)
	}
	return path
}
