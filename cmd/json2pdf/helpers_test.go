package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	json2pdf "github.com/Adoubf/json2pdf"
)

// fakeRenderer writes a placeholder PDF per batch instead of driving Chrome.
type fakeRenderer struct {
	mu      sync.Mutex
	Err     error
	Inputs  []json2pdf.Input
	Paths   []string
	Options int
	Closed  bool
}

func (f *fakeRenderer) RenderToFile(ctx context.Context, input json2pdf.Input, path string) (*json2pdf.ConvertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	f.Inputs = append(f.Inputs, input)
	f.Paths = append(f.Paths, path)
	if err := os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o600); err != nil {
		return nil, err
	}
	return &json2pdf.ConvertResult{HTML: []byte("<html>" + input.Markup + "</html>"), PDF: []byte("%PDF-1.4 fake")}, nil
}

func (f *fakeRenderer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// testEnv returns an Environment with captured output, a fixed clock and r
// as the renderer.
func testEnv(r *fakeRenderer) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:        func() time.Time { return time.Date(2025, 3, 7, 9, 5, 4, 0, time.Local) },
		Stdout:     &stdout,
		Stderr:     &stderr,
		IsTerminal: func() bool { return false },
		NewRenderer: func(opts ...json2pdf.Option) (batchRenderer, error) {
			r.mu.Lock()
			r.Options = len(opts)
			r.mu.Unlock()
			return r, nil
		},
	}
	return env, &stdout, &stderr
}

// writeFile creates name under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

const threeRecords = `[
  {"title": "First", "body": "alpha", "extra": 1},
  {"title": "Second", "body": "beta"},
  {"title": "Third", "body": "gamma"}
]`
