package git

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// PathFilter keeps files matching include globs and not matching exclude globs.
// An empty include list accepts everything.
type PathFilter struct {
	Include []string
	Exclude []string

	mu    sync.Mutex
	cache map[string]bool
}

// NewPathFilter validates the patterns and returns a filter.
func NewPathFilter(include, exclude []string) (*PathFilter, error) {
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return &PathFilter{
		Include: include,
		Exclude: exclude,
		cache:   make(map[string]bool),
	}, nil
}

// IsEmpty reports whether the filter accepts every path.
func (f *PathFilter) IsEmpty() bool {
	return f == nil || (len(f.Include) == 0 && len(f.Exclude) == 0)
}

// Apply returns the files whose path passes the filter.
func (f *PathFilter) Apply(files []CommittedFile) ([]CommittedFile, error) {
	if f.IsEmpty() {
		return files, nil
	}
	kept := files[:0:0]
	for _, file := range files {
		ok, err := f.matches(file.RelativePath)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, file)
		}
	}
	return kept, nil
}

func (f *PathFilter) matches(path string) (bool, error) {
	path = strings.ReplaceAll(path, "\\", "/")

	f.mu.Lock()
	if v, ok := f.cache[path]; ok {
		f.mu.Unlock()
		return v, nil
	}
	f.mu.Unlock()

	result, err := f.evaluate(path)
	if err != nil {
		return false, err
	}

	f.mu.Lock()
	f.cache[path] = result
	f.mu.Unlock()
	return result, nil
}

func (f *PathFilter) evaluate(path string) (bool, error) {
	for _, pattern := range f.Exclude {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return false, nil
		}
	}

	if len(f.Include) == 0 {
		return true, nil
	}

	for _, pattern := range f.Include {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("include pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
