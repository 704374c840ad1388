package git

import (
	"fmt"
	"strings"
)

// ProcessError is returned when the git binary exits unsuccessfully.
// Its message is the tool's stderr, unmodified.
type ProcessError struct {
	Dir      string
	Args     []string
	Stderr   string
	ExitCode int
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	if e.Err != nil {
		return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	}
	return fmt.Sprintf("git %s failed", strings.Join(e.Args, " "))
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// ResolutionError is returned when a directory is not inside a git repository.
type ResolutionError struct {
	Dir string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s is not inside a git repository: %v", e.Dir, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// ParseError reports output that does not have the expected shape.
type ParseError struct {
	Reason string
	Record string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected git output: %s: %q", e.Reason, truncate(e.Record, 80))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
