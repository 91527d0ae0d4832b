package json2pdf

import "github.com/Adoubf/json2pdf/internal/repair"

// DefaultThresholdMB is the largest source a repair keeps in memory when no
// target path is given.
const DefaultThresholdMB = repair.DefaultThresholdMB

// RepairOptions configures Repair.
type RepairOptions = repair.Options

// RepairOutcome is the result of Repair. WroteFile selects which of Path
// and Records is populated.
type RepairOutcome = repair.Outcome

// Repair loads source, rebuilding it line by line when strict loading fails.
//
// A source above the threshold requires opts.Target (ErrMissingOutputPath).
// With a target the records are written there as an indented JSON array, or
// the source bytes are copied when no conversion is needed; otherwise they
// are returned in memory. The source file is never modified. Errors:
// ErrUnrepairableLine (with *LineError), ErrEmptyOrInvalidInput,
// ErrMissingOutputPath, ErrTargetIsSource, ErrReadSource, ErrWriteOutput.
func Repair(source string, opts RepairOptions) (RepairOutcome, error) {
	return repair.Repair(source, opts)
}
