package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Logger is the process-wide logger. It discards everything until Initialize
// is called with debug enabled or a log file.
var Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// output is the log file opened by Initialize, if any.
var output *os.File

// Initialize sets up Logger based on the debug flag and an optional log file.
// With debug on and no file, logs go to stderr as text.
// A log file opened by an earlier call is closed first.
func Initialize(debug bool, logFile string) error {
	if err := Close(); err != nil {
		return err
	}
	if os.Getenv("GITHISTORY_DEBUG") == "1" {
		debug = true
	}
	if envFile := os.Getenv("GITHISTORY_LOG_FILE"); envFile != "" && logFile == "" {
		logFile = envFile
	}

	if !debug && logFile == "" {
		Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}

	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	if logFile == "" {
		Logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	output = f
	Logger = slog.New(slog.NewJSONHandler(f, opts))
	Logger.Debug("Debug logging initialized", "log_file", logFile)
	return nil
}

// Component returns a child of Logger tagged with the component name.
func Component(name string) *slog.Logger {
	return Logger.With(slog.String("component", name))
}

// Close closes the log file opened by Initialize and resets Logger to discard.
// It is a no-op when no file is open.
func Close() error {
	if output == nil {
		return nil
	}
	f := output
	output = nil
	Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}
