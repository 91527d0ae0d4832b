package main

import (
	"context"
	"errors"
	"os"

	json2pdf "github.com/Adoubf/json2pdf"
	"github.com/Adoubf/json2pdf/internal/assets"
	"github.com/Adoubf/json2pdf/internal/config"
	"github.com/Adoubf/json2pdf/internal/dateutil"
	"github.com/Adoubf/json2pdf/internal/hints"
)

// Exit codes for the json2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All batches rendered
	ExitGeneral = 1 // General/unexpected error, timeouts, interruption
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, write failures
	ExitBrowser = 4 // Browser/Chrome errors
	ExitInput   = 5 // Malformed, unrepairable or empty record data
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, json2pdf.ErrBrowserConnect) ||
		errors.Is(err, json2pdf.ErrPageCreate) ||
		errors.Is(err, json2pdf.ErrPageLoad) ||
		errors.Is(err, json2pdf.ErrPDFGeneration) {
		return ExitBrowser
	}

	// Record data errors (exit 5)
	if errors.Is(err, json2pdf.ErrMalformedInput) ||
		errors.Is(err, json2pdf.ErrUnrepairableLine) ||
		errors.Is(err, json2pdf.ErrEmptyOrInvalidInput) ||
		errors.Is(err, json2pdf.ErrMissingOutputPath) {
		return ExitInput
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, json2pdf.ErrReadSource) ||
		errors.Is(err, json2pdf.ErrWriteOutput) ||
		errors.Is(err, json2pdf.ErrWriteArtifact) ||
		errors.Is(err, assets.ErrAssetRead) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, json2pdf.ErrNoFields) ||
		errors.Is(err, json2pdf.ErrInvalidBatchSize) ||
		errors.Is(err, json2pdf.ErrNoOutputDir) ||
		errors.Is(err, json2pdf.ErrInvalidPrefix) ||
		errors.Is(err, json2pdf.ErrInvalidPageSize) ||
		errors.Is(err, json2pdf.ErrInvalidOrientation) ||
		errors.Is(err, json2pdf.ErrInvalidMargin) ||
		errors.Is(err, json2pdf.ErrInvalidFooterPosition) ||
		errors.Is(err, json2pdf.ErrInvalidColor) ||
		errors.Is(err, json2pdf.ErrInvalidFontFamily) ||
		errors.Is(err, json2pdf.ErrInvalidFontSize) ||
		errors.Is(err, json2pdf.ErrInvalidLineHeight) ||
		errors.Is(err, json2pdf.ErrInvalidJustify) ||
		errors.Is(err, json2pdf.ErrInvalidKeepPolicy) ||
		errors.Is(err, json2pdf.ErrInvalidValueFormat) ||
		errors.Is(err, json2pdf.ErrUnknownHighlightTheme) ||
		errors.Is(err, json2pdf.ErrInvalidThreshold) ||
		errors.Is(err, json2pdf.ErrTargetIsSource) ||
		errors.Is(err, json2pdf.ErrStyleNotFound) ||
		errors.Is(err, json2pdf.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintedError carries a hint computed where the failure context is known.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() }
func (e *hintedError) Unwrap() error { return e.err }

// withHint attaches hint to err. The hint is printed after the message.
func withHint(err error, hint string) error {
	return &hintedError{err: err, hint: hint}
}

// hintFor returns the hint to print after err, or "".
func hintFor(err error) string {
	var he *hintedError
	if errors.As(err, &he) {
		return he.hint
	}

	var lineErr *json2pdf.LineError
	switch {
	case errors.Is(err, json2pdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.As(err, &lineErr):
		return hints.ForUnrepairableLine(lineErr.Line)
	case errors.Is(err, json2pdf.ErrMalformedInput):
		return hints.ForMalformedInput()
	case errors.Is(err, json2pdf.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	case errors.Is(err, json2pdf.ErrWriteArtifact):
		return hints.ForOutputDirectory()
	}
	return ""
}
