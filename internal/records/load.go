package records

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

// Sentinel errors for loading.
var (
	ErrMalformedInput = errors.New("malformed JSON input")
	ErrReadSource     = errors.New("failed to read record source")
)

// JSONLExtension marks a file as newline-delimited JSON.
const JSONLExtension = ".jsonl"

// PreviewLength is the number of characters kept when quoting a bad line.
const PreviewLength = 50

// utf8BOM is skipped at the start of a source.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// IsJSONL reports whether path follows the JSONL naming convention (case-insensitive).
func IsJSONL(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), JSONLExtension)
}

// Load reads the file at path into an ordered record sequence.
// JSONL files are parsed line by line and bad lines are skipped with a warning
// on logger. Any other file is parsed as a single JSON array and every parse
// failure is returned as ErrMalformedInput. A nil logger discards warnings.
func Load(path string, logger *slog.Logger) ([]Record, error) {
	f, err := os.Open(path) // #nosec G304 -- caller-supplied source path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadSource, err)
	}
	defer f.Close()

	if IsJSONL(path) {
		return DecodeJSONL(f, loggerOrDiscard(logger).With("source", path))
	}
	return DecodeJSON(f)
}

// DecodeJSON parses r as one top-level JSON array of objects.
func DecodeJSON(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadSource, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: top-level value must be an array", ErrMalformedInput)
	}

	var recs []Record
	if err := json.Unmarshal(trimmed, &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, nil
}

// DecodeJSONL parses r as one JSON object per line.
// Blank lines are ignored; lines that do not parse as an object are skipped
// and reported on logger at warn level.
func DecodeJSONL(r io.Reader, logger *slog.Logger) ([]Record, error) {
	logger = loggerOrDiscard(logger)
	br := bufio.NewReader(r)

	recs := []Record{}
	lineNo := 0
	for {
		line, readErr := br.ReadBytes('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, fmt.Errorf("%w: %v", ErrReadSource, readErr)
		}
		if len(line) > 0 {
			lineNo++
			if lineNo == 1 {
				line = bytes.TrimPrefix(line, utf8BOM)
			}
			text := bytes.TrimSpace(line)
			if len(text) > 0 {
				var rec Record
				if err := json.Unmarshal(text, &rec); err != nil {
					logger.Warn("skipping invalid JSONL line",
						"line", lineNo,
						"preview", Preview(string(text)),
						"error", err)
				} else {
					recs = append(recs, rec)
				}
			}
		}
		if readErr == io.EOF {
			break
		}
	}
	return recs, nil
}

// Preview truncates s to PreviewLength characters and appends "..." when cut.
func Preview(s string) string {
	if utf8.RuneCountInString(s) <= PreviewLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:PreviewLength]) + "..."
}

// DiscoverFields returns the field names of the first record in path.
// It stops reading once the first record is found. An empty source yields
// an empty list.
func DiscoverFields(path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- caller-supplied source path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadSource, err)
	}
	defer f.Close()

	if IsJSONL(path) {
		return firstJSONLFields(f)
	}
	return firstJSONFields(f)
}

func firstJSONLFields(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	first := true
	for {
		line, readErr := br.ReadBytes('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, fmt.Errorf("%w: %v", ErrReadSource, readErr)
		}
		if first {
			line = bytes.TrimPrefix(line, utf8BOM)
			first = false
		}
		if text := bytes.TrimSpace(line); len(text) > 0 {
			var rec Record
			if err := json.Unmarshal(text, &rec); err == nil {
				return rec.Names(), nil
			}
		}
		if readErr == io.EOF {
			return []string{}, nil
		}
	}
}

func firstJSONFields(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	dec := json.NewDecoder(br)
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty document", ErrMalformedInput)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("%w: top-level value must be an array", ErrMalformedInput)
	}
	if !dec.More() {
		return []string{}, nil
	}

	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return rec.Names(), nil
}

// loggerOrDiscard returns logger, or a logger that drops everything if nil.
func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
