package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	slogmulti "github.com/samber/slog-multi"

	"github.com/Adoubf/json2pdf/internal/fileutil"
)

// logOptions selects log destinations and levels for one run.
type logOptions struct {
	level   string // config/flag level name; empty = info
	quiet   bool   // -q: errors only on stderr
	verbose bool   // -v: debug everywhere
	file    string // JSON log file; empty disables
	bar     bool   // a progress bar owns stderr, so info lines stay off it
}

// parseLevel maps a level name to slog.Level. Empty means info.
func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: log level %q", ErrUsage, name)
	}
}

// levels returns the stderr and file handler levels for opts.
func (o logOptions) levels() (stderrLevel, fileLevel slog.Level, err error) {
	level, err := parseLevel(o.level)
	if err != nil {
		return 0, 0, err
	}
	if o.verbose {
		level = slog.LevelDebug
	}

	stderrLevel, fileLevel = level, level
	switch {
	case o.quiet:
		stderrLevel = slog.LevelError
	case o.bar && stderrLevel < slog.LevelWarn:
		stderrLevel = slog.LevelWarn
	}
	return stderrLevel, fileLevel, nil
}

// newLoggerWithWriters creates a logger writing text to stderr and, when
// file is non-nil, JSON to file. Every record carries run_id.
func newLoggerWithWriters(stderr, file io.Writer, stderrLevel, fileLevel slog.Level, runID string) *slog.Logger {
	stderrHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: stderrLevel})
	if file == nil {
		return slog.New(stderrHandler).With("run_id", runID)
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: fileLevel})
	return slog.New(slogmulti.Fanout(stderrHandler, fileHandler)).With("run_id", runID)
}

// setupLogger creates the run logger and a cleanup function that closes the
// log file. A log file that cannot be opened is an error.
func setupLogger(stderr io.Writer, opts logOptions) (*slog.Logger, func() error, error) {
	stderrLevel, fileLevel, err := opts.levels()
	if err != nil {
		return nil, nil, err
	}
	runID := newRunID()

	if opts.file == "" {
		return newLoggerWithWriters(stderr, nil, stderrLevel, fileLevel, runID), func() error { return nil }, nil
	}

	if dir := filepath.Dir(opts.file); dir != "." {
		if err := os.MkdirAll(dir, fileutil.DirPermissions); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
	}
	// #nosec G304 -- log path is user-specified via --log-file flag
	file, err := os.OpenFile(opts.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, fileutil.FilePermissions)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	logger := newLoggerWithWriters(stderr, file, stderrLevel, fileLevel, runID)
	return logger, file.Close, nil
}

// newRunID returns a short random ID that ties together the log lines of one run.
func newRunID() string {
	return uuid.New().String()[:8]
}
