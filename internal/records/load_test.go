package records

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Notes:
// - Record has an Equal method, so cmp.Diff compares records by field order
//   and JSON-equivalent values.
// - Warnings are captured with a slog text handler writing to a buffer.

func mustRecords(t *testing.T, input string) []Record {
	t.Helper()
	recs, err := DecodeJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeJSON(%q): %v", input, err)
	}
	return recs
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// ---------------------------------------------------------------------------
// IsJSONL
// ---------------------------------------------------------------------------

func TestIsJSONL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"data.jsonl", true},
		{"DATA.JSONL", true},
		{"dir/data.JsonL", true},
		{"data.json", false},
		{"data.jsonl.bak", false},
		{"jsonl", false},
	}

	for _, tt := range tests {
		if got := IsJSONL(tt.path); got != tt.want {
			t.Errorf("IsJSONL(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// DecodeJSON
// ---------------------------------------------------------------------------

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantLen int
		wantErr error
	}{
		{
			name:    "array of objects",
			input:   `[{"a":"x"},{"a":"y"},{"a":"z"}]`,
			wantLen: 3,
		},
		{
			name:    "empty array",
			input:   `[]`,
			wantLen: 0,
		},
		{
			name:    "heterogeneous field sets",
			input:   `[{"a":1},{"b":2,"c":3}]`,
			wantLen: 2,
		},
		{
			name:    "byte order mark ignored",
			input:   "\ufeff[{\"a\":1}]",
			wantLen: 1,
		},
		{
			name:    "surrounding whitespace",
			input:   "\n  [{\"a\":1}]  \n",
			wantLen: 1,
		},
		{
			name:    "truncated array",
			input:   `[{"a":1},`,
			wantErr: ErrMalformedInput,
		},
		{
			name:    "top-level object",
			input:   `{"a":1}`,
			wantErr: ErrMalformedInput,
		},
		{
			name:    "top-level null",
			input:   `null`,
			wantErr: ErrMalformedInput,
		},
		{
			name:    "empty document",
			input:   ``,
			wantErr: ErrMalformedInput,
		},
		{
			name:    "non-object element",
			input:   `[{"a":1}, 5]`,
			wantErr: ErrMalformedInput,
		},
		{
			name:    "JSONL content in a JSON file",
			input:   "{\"a\":1}\n{\"a\":2}\n",
			wantErr: ErrMalformedInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			recs, err := DecodeJSON(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeJSON() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeJSON() unexpected error: %v", err)
			}
			if len(recs) != tt.wantLen {
				t.Errorf("DecodeJSON() len = %d, want %d", len(recs), tt.wantLen)
			}
		})
	}
}

func TestDecodeJSON_PreservesOrder(t *testing.T) {
	t.Parallel()

	recs := mustRecords(t, `[{"id":1},{"id":2},{"id":3}]`)
	for i, rec := range recs {
		got, _ := rec.Get("id")
		if want := string(rune('1' + i)); string(got) != want {
			t.Errorf("record %d id = %s, want %s", i, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// DecodeJSONL
// ---------------------------------------------------------------------------

func TestDecodeJSONL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantLen      int
		wantWarnings int
	}{
		{
			name:    "one object per line",
			input:   "{\"a\":1}\n{\"a\":2}\n{\"a\":3}\n",
			wantLen: 3,
		},
		{
			name:    "no trailing newline",
			input:   "{\"a\":1}\n{\"a\":2}",
			wantLen: 2,
		},
		{
			name:    "blank lines ignored",
			input:   "\n{\"a\":1}\n\n   \n{\"a\":2}\n\n",
			wantLen: 2,
		},
		{
			name:    "CRLF line endings",
			input:   "{\"a\":1}\r\n{\"a\":2}\r\n",
			wantLen: 2,
		},
		{
			name:         "one malformed line among three",
			input:        "{\"a\":1}\n{\"a\": \n{\"a\":3}\n",
			wantLen:      2,
			wantWarnings: 1,
		},
		{
			name:         "non-object line skipped",
			input:        "{\"a\":1}\n[1,2]\n\"text\"\n",
			wantLen:      1,
			wantWarnings: 2,
		},
		{
			name:    "byte order mark on first line",
			input:   "\ufeff{\"a\":1}\n",
			wantLen: 1,
		},
		{
			name:    "empty input",
			input:   "",
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, buf := captureLogger()
			recs, err := DecodeJSONL(strings.NewReader(tt.input), logger)
			if err != nil {
				t.Fatalf("DecodeJSONL() unexpected error: %v", err)
			}
			if len(recs) != tt.wantLen {
				t.Errorf("DecodeJSONL() len = %d, want %d", len(recs), tt.wantLen)
			}
			if got := strings.Count(buf.String(), "skipping invalid JSONL line"); got != tt.wantWarnings {
				t.Errorf("warnings = %d, want %d\nlog:\n%s", got, tt.wantWarnings, buf.String())
			}
		})
	}
}

func TestDecodeJSONL_WarningDetails(t *testing.T) {
	t.Parallel()

	logger, buf := captureLogger()
	long := `{"text": "` + strings.Repeat("x", 80)
	input := "{\"a\":1}\n\n" + long + "\n"

	if _, err := DecodeJSONL(strings.NewReader(input), logger); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "line=3") {
		t.Errorf("warning should name physical line 3, got:\n%s", out)
	}
	if !strings.Contains(out, strings.Repeat("x", 40)+"...") {
		t.Errorf("warning should include truncated preview, got:\n%s", out)
	}
	if strings.Contains(out, strings.Repeat("x", 41)) {
		t.Errorf("preview should be cut at %d characters, got:\n%s", PreviewLength, out)
	}
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("expected WARN level, got:\n%s", out)
	}
}

func TestDecodeJSONL_NilLogger(t *testing.T) {
	t.Parallel()

	recs, err := DecodeJSONL(strings.NewReader("{\"a\":1}\nbad\n"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("len = %d, want 1", len(recs))
	}
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("JSON array file", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "data.json", `[{"a":"x"},{"a":"y"}]`)
		recs, err := Load(path, nil)
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		want := mustRecords(t, `[{"a":"x"},{"a":"y"}]`)
		if diff := cmp.Diff(want, recs); diff != "" {
			t.Errorf("Load() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("JSONL file with bad line", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "data.JSONL", "{\"a\":\"x\"}\n{broken\n{\"a\":\"z\"}\n")
		logger, buf := captureLogger()
		recs, err := Load(path, logger)
		if err != nil {
			t.Fatalf("Load() unexpected error: %v", err)
		}
		want := mustRecords(t, `[{"a":"x"},{"a":"z"}]`)
		if diff := cmp.Diff(want, recs); diff != "" {
			t.Errorf("Load() mismatch (-want +got):\n%s", diff)
		}
		if !strings.Contains(buf.String(), "source="+path) {
			t.Errorf("warning should carry source path, got:\n%s", buf.String())
		}
	})

	t.Run("malformed JSON file", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "data.json", "{\"a\":1}\n{\"a\":2}\n")
		_, err := Load(path, nil)
		if !errors.Is(err, ErrMalformedInput) {
			t.Errorf("Load() error = %v, want ErrMalformedInput", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), "nope.json"), nil)
		if !errors.Is(err, ErrReadSource) {
			t.Errorf("Load() error = %v, want ErrReadSource", err)
		}
	})
}

// ---------------------------------------------------------------------------
// Preview
// ---------------------------------------------------------------------------

func TestPreview(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"short", "abc", "abc"},
		{"exactly limit", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"over limit", strings.Repeat("a", 51), strings.Repeat("a", 50) + "..."},
		{"multibyte counted as characters", strings.Repeat("中", 60), strings.Repeat("中", 50) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Preview(tt.input); got != tt.expected {
				t.Errorf("Preview() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// DiscoverFields
// ---------------------------------------------------------------------------

func TestDiscoverFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
		want    []string
		wantErr error
	}{
		{
			name:    "JSON first record order",
			file:    "data.json",
			content: `[{"title":"a","body":"b","id":1},{"other":2}]`,
			want:    []string{"title", "body", "id"},
		},
		{
			name:    "JSON empty array",
			file:    "data.json",
			content: `[]`,
			want:    []string{},
		},
		{
			name:    "JSON with BOM",
			file:    "data.json",
			content: "\ufeff[{\"k\":1}]",
			want:    []string{"k"},
		},
		{
			name:    "JSON top-level object",
			file:    "data.json",
			content: `{"k":1}`,
			wantErr: ErrMalformedInput,
		},
		{
			name:    "JSONL skips leading bad lines",
			file:    "data.jsonl",
			content: "\nnot json\n{\"x\":1,\"y\":2}\n{\"z\":3}\n",
			want:    []string{"x", "y"},
		},
		{
			name:    "JSONL with no valid line",
			file:    "data.jsonl",
			content: "bad\n\n",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, tt.file, tt.content)
			got, err := DiscoverFields(path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DiscoverFields() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DiscoverFields() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DiscoverFields() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
