package repair

import (
	"errors"
	"fmt"
)

// Sentinel errors for repair operations.
var (
	ErrUnrepairableLine    = errors.New("line cannot be repaired into a JSON object")
	ErrEmptyOrInvalidInput = errors.New("no valid records found")
	ErrMissingOutputPath   = errors.New("large files require an output path")
	ErrTargetIsSource      = errors.New("output path is the source file")
	ErrInvalidThreshold    = errors.New("size threshold must not be negative")
	ErrWriteOutput         = errors.New("failed to write repaired output")
)

// LineError identifies the line that stopped a repair.
type LineError struct {
	Line    int    // 1-based physical line number
	Preview string // line text cut to the preview length
	Shaped  bool   // line starts with '{' and ends with '}'
	Err     error  // underlying parse failure, if any
}

func (e *LineError) Error() string {
	if e.Shaped {
		return fmt.Sprintf("cannot repair line %d: %s (%v)", e.Line, e.Preview, e.Err)
	}
	return fmt.Sprintf("line %d is not a JSON object: %s", e.Line, e.Preview)
}

func (e *LineError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUnrepairableLine}
	}
	return []error{ErrUnrepairableLine, e.Err}
}
