package json2pdf

import (
	"errors"

	"github.com/Adoubf/json2pdf/internal/assets"
	"github.com/Adoubf/json2pdf/internal/pipeline"
	"github.com/Adoubf/json2pdf/internal/records"
	"github.com/Adoubf/json2pdf/internal/repair"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkup    = errors.New("markup content cannot be empty")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrWriteArtifact  = errors.New("failed to write document artifact")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Footer validation errors.
	ErrInvalidFooterPosition = errors.New("invalid footer position")

	// Style validation errors.
	ErrInvalidColor      = errors.New("invalid color")
	ErrInvalidFontFamily = errors.New("invalid font family")
	ErrInvalidFontSize   = errors.New("invalid font size")
	ErrInvalidLineHeight = errors.New("invalid line height")
	ErrInvalidJustify    = errors.New("invalid text alignment")
	ErrInvalidKeepPolicy = errors.New("invalid keep-together policy")

	// Job validation errors.
	ErrNoFields         = errors.New("at least one field must be selected")
	ErrInvalidBatchSize = errors.New("batch size must be a positive integer")
	ErrNoOutputDir      = errors.New("output directory cannot be empty")
	ErrInvalidPrefix    = errors.New("invalid artifact prefix")
	ErrNoSource         = errors.New("no record source given")

	// Asset loading errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

// Errors from the record, repair and rendering stages, re-exported so callers
// can match them without importing internal packages.
var (
	ErrMalformedInput        = records.ErrMalformedInput
	ErrReadSource            = records.ErrReadSource
	ErrUnrepairableLine      = repair.ErrUnrepairableLine
	ErrEmptyOrInvalidInput   = repair.ErrEmptyOrInvalidInput
	ErrMissingOutputPath     = repair.ErrMissingOutputPath
	ErrTargetIsSource        = repair.ErrTargetIsSource
	ErrInvalidThreshold      = repair.ErrInvalidThreshold
	ErrWriteOutput           = repair.ErrWriteOutput
	ErrHTMLConversion        = pipeline.ErrHTMLConversion
	ErrInvalidValueFormat    = pipeline.ErrInvalidValueFormat
	ErrUnknownHighlightTheme = pipeline.ErrUnknownHighlightTheme
	ErrStyleNotFound         = assets.ErrStyleNotFound
)

// LineError describes the first line that line repair could not parse.
// Use errors.As to retrieve it.
type LineError = repair.LineError
