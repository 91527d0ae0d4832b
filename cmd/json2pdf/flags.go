package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config   string
	quiet    bool
	verbose  bool
	logFile  string
	logLevel string
}

// recordFlags holds projection and batching flags.
type recordFlags struct {
	fields       []string
	batchSize    int
	separator    string
	separatorSet bool // --separator was given, possibly empty
	valueFormat  string
}

// repairFlags holds format repairer flags.
type repairFlags struct {
	enabled     bool
	output      string
	thresholdMB float64
}

// namingFlags holds artifact naming flags.
type namingFlags struct {
	prefix    string
	timestamp string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// footerFlags holds footer-related flags.
type footerFlags struct {
	position   string
	text       string
	date       string
	pageNumber bool
	disabled   bool
}

// styleFlags holds stylesheet selection and style override flags.
type styleFlags struct {
	name           string // built-in name or .css path
	css            string // extra stylesheet appended last
	fontFamily     string
	fontSize       float64
	lineHeight     float64
	accentColor    string
	justify        string
	keepTogether   string
	highlightTheme string
	assetPath      string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	timeout string
	html    bool
	records recordFlags
	repair  repairFlags
	naming  namingFlags
	page    pageFlags
	footer  footerFlags
	style   styleFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
	fs.StringVar(&f.logFile, "log-file", "", "also write JSON logs to this file")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// addRecordFlags adds projection and batching flags to a FlagSet.
func addRecordFlags(fs *flag.FlagSet, f *recordFlags) {
	fs.StringSliceVarP(&f.fields, "fields", "f", nil, "fields to render, in order (repeatable or comma list)")
	fs.IntVarP(&f.batchSize, "batch-size", "b", 0, "records per document (default 1500)")
	fs.StringVarP(&f.separator, "separator", "t", "", "text written after each record (default \"----\")")
	fs.StringVar(&f.valueFormat, "value-format", "", "field values as: text, markdown")
}

// addRepairFlags adds format repairer flags to a FlagSet.
func addRepairFlags(fs *flag.FlagSet, f *repairFlags) {
	fs.BoolVar(&f.enabled, "repair", false, "repair malformed input before converting")
	fs.StringVar(&f.output, "repair-output", "", "write repaired records to this path")
	fs.Float64Var(&f.thresholdMB, "threshold-mb", 0, "largest source repaired in memory (default 10)")
}

// addNamingFlags adds artifact naming flags to a FlagSet.
func addNamingFlags(fs *flag.FlagSet, f *namingFlags) {
	fs.StringVar(&f.prefix, "prefix", "", "artifact name prefix (default \"records\")")
	fs.StringVar(&f.timestamp, "timestamp", "", "artifact timestamp format (default YYYYMMDDHHmmss)")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addFooterFlags adds footer flags to a FlagSet.
func addFooterFlags(fs *flag.FlagSet, f *footerFlags) {
	fs.StringVar(&f.position, "footer-position", "", "footer position: left, center, right")
	fs.StringVar(&f.text, "footer-text", "", "custom footer text")
	fs.StringVar(&f.date, "footer-date", "", "footer date (\"auto\" = today)")
	fs.BoolVar(&f.pageNumber, "footer-page-number", false, "show page numbers in footer")
	fs.BoolVar(&f.disabled, "no-footer", false, "disable footer")
}

// addStyleFlags adds style flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.name, "style", "", "CSS style name or file path")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended last")
	fs.StringVar(&f.fontFamily, "font-family", "", "body font family")
	fs.Float64Var(&f.fontSize, "font-size", 0, "body font size in px")
	fs.Float64Var(&f.lineHeight, "line-height", 0, "body line height")
	fs.StringVar(&f.accentColor, "accent-color", "", "record border color (hex)")
	fs.StringVar(&f.justify, "justify", "", "paragraph alignment: justify, left")
	fs.StringVar(&f.keepTogether, "keep-together", "", "record page breaks: avoid, auto")
	fs.StringVar(&f.highlightTheme, "highlight-theme", "", "code highlight theme")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom style directory")
}

// newFlagSet returns a FlagSet that reports errors instead of exiting.
// Usage is printed to w on -h only.
func newFlagSet(name string, usage func(io.Writer), w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseFlagSet parses args and wraps parse failures as usage errors.
func parseFlagSet(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// registerConvertFlags adds every convert flag to fs. Completion scripts
// are generated from the same registration.
func registerConvertFlags(fs *flag.FlagSet, f *convertFlags) {
	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output directory (default ./output/pdfs)")
	fs.StringVar(&f.timeout, "timeout", "", "per-batch render timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.html, "html", false, "also write each batch's HTML")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addRecordFlags(fs, &f.records)
	addRepairFlags(fs, &f.repair)
	addNamingFlags(fs, &f.naming)
	addPageFlags(fs, &f.page)
	addFooterFlags(fs, &f.footer)
	addStyleFlags(fs, &f.style)
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, w io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newFlagSet("convert", printConvertUsage, w)
	registerConvertFlags(fs, f)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	f.records.separatorSet = fs.Changed("separator")

	return f, fs.Args(), nil
}

// repairCmdFlags holds flags for the repair command.
type repairCmdFlags struct {
	common      commonFlags
	output      string
	thresholdMB float64
}

func registerRepairFlags(fs *flag.FlagSet, f *repairCmdFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "write repaired records to this path")
	fs.Float64Var(&f.thresholdMB, "threshold-mb", 0, "largest source repaired in memory (default 10)")
	addCommonFlags(fs, &f.common)
}

// parseRepairFlags parses repair command flags and returns positional args.
func parseRepairFlags(args []string, w io.Writer) (*repairCmdFlags, []string, error) {
	f := &repairCmdFlags{}
	fs := newFlagSet("repair", printRepairUsage, w)
	registerRepairFlags(fs, f)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// fieldsCmdFlags holds flags for the fields command.
type fieldsCmdFlags struct {
	comma bool
}

func registerFieldsFlags(fs *flag.FlagSet, f *fieldsCmdFlags) {
	fs.BoolVar(&f.comma, "comma", false, "print names as one comma list, ready for --fields")
}

// parseFieldsFlags parses fields command flags and returns positional args.
func parseFieldsFlags(args []string, w io.Writer) (*fieldsCmdFlags, []string, error) {
	f := &fieldsCmdFlags{}
	fs := newFlagSet("fields", printFieldsUsage, w)
	registerFieldsFlags(fs, f)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
