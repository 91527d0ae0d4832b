package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestLogOptionsLevels - Level selection per destination
// ---------------------------------------------------------------------------

func TestLogOptionsLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       logOptions
		wantStderr slog.Level
		wantFile   slog.Level
		wantErr    bool
	}{
		{"default", logOptions{}, slog.LevelInfo, slog.LevelInfo, false},
		{"configured level", logOptions{level: "WARN"}, slog.LevelWarn, slog.LevelWarn, false},
		{"verbose", logOptions{level: "error", verbose: true}, slog.LevelDebug, slog.LevelDebug, false},
		{"quiet keeps file level", logOptions{quiet: true}, slog.LevelError, slog.LevelInfo, false},
		{"progress bar raises stderr", logOptions{bar: true}, slog.LevelWarn, slog.LevelInfo, false},
		{"progress bar keeps error", logOptions{level: "error", bar: true}, slog.LevelError, slog.LevelError, false},
		{"unknown level", logOptions{level: "trace"}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stderrLevel, fileLevel, err := tt.opts.levels()
			if tt.wantErr {
				if !errors.Is(err, ErrUsage) {
					t.Fatalf("error = %v, want ErrUsage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stderrLevel != tt.wantStderr || fileLevel != tt.wantFile {
				t.Errorf("levels() = %v, %v; want %v, %v", stderrLevel, fileLevel, tt.wantStderr, tt.wantFile)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNewLoggerWithWriters - Fan-out to text and JSON handlers
// ---------------------------------------------------------------------------

func TestNewLoggerWithWriters(t *testing.T) {
	t.Parallel()

	var stderr, file bytes.Buffer
	logger := newLoggerWithWriters(&stderr, &file, slog.LevelWarn, slog.LevelInfo, "abcd1234")

	logger.Info("batch rendered", "batch", 1)
	logger.Warn("line skipped", "line", 3)

	if strings.Contains(stderr.String(), "batch rendered") {
		t.Error("info should stay off stderr at warn level")
	}
	if !strings.Contains(stderr.String(), "line skipped") || !strings.Contains(stderr.String(), "run_id=abcd1234") {
		t.Errorf("stderr = %q", stderr.String())
	}

	lines := strings.Split(strings.TrimSpace(file.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("file has %d lines, want 2:\n%s", len(lines), file.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("file line is not JSON: %v", err)
	}
	if entry["msg"] != "batch rendered" || entry["run_id"] != "abcd1234" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNewLoggerWithWriters_NoFile(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	logger := newLoggerWithWriters(&stderr, nil, slog.LevelInfo, slog.LevelInfo, "ffff0000")
	logger.Info("hello")

	if !strings.Contains(stderr.String(), "msg=hello") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestSetupLogger - Log file handling
// ---------------------------------------------------------------------------

func TestSetupLogger_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "run.log")
	var stderr bytes.Buffer

	logger, closeLog, err := setupLogger(&stderr, logOptions{file: path, quiet: true})
	if err != nil {
		t.Fatalf("setupLogger() error: %v", err)
	}
	logger.Info("processing records", "records", 3)
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"processing records"`) {
		t.Errorf("log file = %q", data)
	}
	if stderr.Len() != 0 {
		t.Errorf("quiet stderr should be empty, got %q", stderr.String())
	}
}

func TestSetupLogger_BadLevel(t *testing.T) {
	t.Parallel()

	if _, _, err := setupLogger(&bytes.Buffer{}, logOptions{level: "loud"}); !errors.Is(err, ErrUsage) {
		t.Errorf("error = %v, want ErrUsage", err)
	}
}

func TestNewRunID(t *testing.T) {
	t.Parallel()

	a, b := newRunID(), newRunID()
	if len(a) != 8 || a == b {
		t.Errorf("run IDs %q and %q should be distinct 8-char strings", a, b)
	}
}
