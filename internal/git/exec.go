package git

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Executor runs the version-control binary and returns its standard output.
type Executor interface {
	Exec(ctx context.Context, dir string, args ...string) (string, error)
}

// CommandExecutor runs git as an external process.
type CommandExecutor struct {
	binary string
	logger *slog.Logger
}

// NewCommandExecutor creates an executor for the given binary ("git" when empty).
func NewCommandExecutor(binary string, logger *slog.Logger) *CommandExecutor {
	if strings.TrimSpace(binary) == "" {
		binary = "git"
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CommandExecutor{binary: binary, logger: logger}
}

// Exec runs the binary with args in dir. A non-zero exit yields a *ProcessError
// carrying the captured stderr.
func (e *CommandExecutor) Exec(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	e.logger.Debug("git command",
		"dir", dir,
		"args", args,
		"duration", time.Since(start),
		"ok", err == nil)

	if err != nil {
		pe := &ProcessError{
			Dir:      dir,
			Args:     args,
			Stderr:   strings.TrimSpace(stderr.String()),
			ExitCode: -1,
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			pe.ExitCode = exitErr.ExitCode()
		}
		return "", pe
	}

	return stdout.String(), nil
}
