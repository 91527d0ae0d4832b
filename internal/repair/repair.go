// Package repair reconstructs record sequences from sources that fail strict
// loading and decides whether the result stays in memory or goes to disk.
//
// The repair heuristic is intentionally narrow: each non-blank line must be
// one JSON object. There is no token-level correction.
package repair

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Adoubf/json2pdf/internal/fileutil"
	"github.com/Adoubf/json2pdf/internal/records"
)

// Options configures a repair.
type Options struct {
	// Target is the path for on-disk output. Empty means none requested.
	Target string
	// ThresholdMB is the largest source kept in memory. Zero uses DefaultThresholdMB.
	ThresholdMB float64
	// Logger receives skip warnings and progress. Nil discards.
	Logger *slog.Logger
}

// Outcome is the result of a repair.
// Exactly one of Path and Records is populated, as selected by WroteFile.
type Outcome struct {
	WroteFile bool
	Path      string
	Records   []records.Record
	Status    string
	SizeMB    float64
	// Repaired is true when strict loading failed and line repair succeeded.
	Repaired bool
}

// Repair loads source, falling back to line-by-line repair when strict
// loading reports malformed input. The source file is never modified.
func Repair(source string, opts Options) (Outcome, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	threshold, err := ThresholdBytes(opts.ThresholdMB)
	if err != nil {
		return Outcome{}, err
	}

	info, err := os.Stat(source)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", records.ErrReadSource, err)
	}
	if info.IsDir() {
		return Outcome{}, fmt.Errorf("%w: %s is a directory", records.ErrReadSource, source)
	}
	sizeMB := toMB(info.Size())

	target := opts.Target
	if target != "" && fileutil.SameFile(source, target) {
		return Outcome{}, fmt.Errorf("%w: %s", ErrTargetIsSource, target)
	}

	mode, err := Decide(info.Size(), threshold, target != "")
	if err != nil {
		return Outcome{}, err
	}

	recs, loadErr := records.Load(source, logger)
	if loadErr == nil {
		if len(recs) == 0 {
			return Outcome{}, fmt.Errorf("%w: %s", ErrEmptyOrInvalidInput, source)
		}
		return deliverLoaded(source, target, mode, recs, sizeMB)
	}
	if !errors.Is(loadErr, records.ErrMalformedInput) {
		return Outcome{}, loadErr
	}

	logger.Info("strict load failed, repairing line by line", "source", source, "error", loadErr)

	recs, err = repairLines(source)
	if err != nil {
		return Outcome{}, err
	}
	return deliverRepaired(target, mode, recs, sizeMB)
}

// deliverLoaded handles a source that loaded without repair.
func deliverLoaded(source, target string, mode Mode, recs []records.Record, sizeMB float64) (Outcome, error) {
	if mode == InMemory {
		return Outcome{
			Records: recs,
			SizeMB:  sizeMB,
			Status:  fmt.Sprintf("file is valid, %d records loaded into memory (%.2fMB)", len(recs), sizeMB),
		}, nil
	}

	if records.IsJSONL(source) && isJSONPath(target) {
		if err := writeRecords(target, recs); err != nil {
			return Outcome{}, err
		}
		return Outcome{
			WroteFile: true,
			Path:      target,
			SizeMB:    sizeMB,
			Status:    fmt.Sprintf("JSONL converted to JSON array: %s", target),
		}, nil
	}

	if err := fileutil.CopyFile(source, target); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return Outcome{
		WroteFile: true,
		Path:      target,
		SizeMB:    sizeMB,
		Status:    fmt.Sprintf("file copied to %s", target),
	}, nil
}

// deliverRepaired handles records produced by line repair.
func deliverRepaired(target string, mode Mode, recs []records.Record, sizeMB float64) (Outcome, error) {
	if mode == InMemory {
		return Outcome{
			Records:  recs,
			SizeMB:   sizeMB,
			Repaired: true,
			Status:   fmt.Sprintf("repaired %d records, loaded into memory (%.2fMB)", len(recs), sizeMB),
		}, nil
	}

	if err := writeRecords(target, recs); err != nil {
		return Outcome{}, err
	}
	return Outcome{
		WroteFile: true,
		Path:      target,
		SizeMB:    sizeMB,
		Repaired:  true,
		Status:    fmt.Sprintf("repaired %d records, written to %s (%.2fMB)", len(recs), target, sizeMB),
	}, nil
}

// repairLines parses every non-blank line of path as one JSON object.
// The first line that fails stops the repair with a *LineError carrying its
// physical line number, blank lines included.
func repairLines(path string) ([]records.Record, error) {
	f, err := os.Open(path) // #nosec G304 -- caller-supplied source path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", records.ErrReadSource, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var recs []records.Record
	lineNo := 0
	first := true
	for {
		raw, readErr := br.ReadBytes('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, fmt.Errorf("%w: %v", records.ErrReadSource, readErr)
		}
		if first {
			raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
			first = false
		}

		if len(raw) > 0 {
			lineNo++
		}
		if line := bytes.TrimSpace(raw); len(line) > 0 {
			rec, err := parseLine(line, lineNo)
			if err != nil {
				return nil, err
			}
			recs = append(recs, rec)
		}

		if readErr == io.EOF {
			break
		}
	}

	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: %s contains no non-blank lines", ErrEmptyOrInvalidInput, path)
	}
	return recs, nil
}

func parseLine(line []byte, lineNo int) (records.Record, error) {
	var rec records.Record
	err := json.Unmarshal(line, &rec)
	if err == nil {
		return rec, nil
	}

	shaped := line[0] == '{' && line[len(line)-1] == '}'
	lineErr := &LineError{
		Line:    lineNo,
		Preview: records.Preview(string(line)),
		Shaped:  shaped,
	}
	if shaped {
		lineErr.Err = err
	}
	return records.Record{}, lineErr
}

func writeRecords(target string, recs []records.Record) error {
	err := fileutil.WriteAtomic(target, func(w io.Writer) error {
		return records.Encode(w, recs)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// isJSONPath reports whether path has a .json extension (case-insensitive).
func isJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
