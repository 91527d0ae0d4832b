package main

import (
	"fmt"
	"os"
	"time"

	json2pdf "github.com/Adoubf/json2pdf"
	"github.com/Adoubf/json2pdf/internal/config"
	"github.com/Adoubf/json2pdf/internal/dateutil"
)

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	// I/O flags
	if flags.output != "" {
		cfg.Output.Dir = flags.output
	}
	if flags.html {
		cfg.Output.HTML = true
	}

	// Record flags
	if len(flags.records.fields) > 0 {
		cfg.Records.Fields = flags.records.fields
	}
	if flags.records.batchSize != 0 {
		cfg.Records.BatchSize = flags.records.batchSize
	}
	if flags.records.valueFormat != "" {
		cfg.Records.ValueFormat = flags.records.valueFormat
	}

	// Repair flags
	if flags.repair.enabled {
		cfg.Repair.Enabled = true
	}
	if flags.repair.output != "" {
		cfg.Repair.Output = flags.repair.output
		cfg.Repair.Enabled = true
	}
	if flags.repair.thresholdMB != 0 {
		cfg.Repair.ThresholdMB = flags.repair.thresholdMB
	}

	// Naming flags
	if flags.naming.prefix != "" {
		cfg.Naming.Prefix = flags.naming.prefix
	}
	if flags.naming.timestamp != "" {
		cfg.Naming.Timestamp = flags.naming.timestamp
	}

	// Page flags
	if flags.page.size != "" {
		cfg.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin != 0 {
		cfg.Page.Margin = flags.page.margin
	}

	// Footer flags enable the footer
	if flags.footer.position != "" {
		cfg.Footer.Position = flags.footer.position
		cfg.Footer.Enabled = true
	}
	if flags.footer.text != "" {
		cfg.Footer.Text = flags.footer.text
		cfg.Footer.Enabled = true
	}
	if flags.footer.date != "" {
		cfg.Footer.Date = flags.footer.date
		cfg.Footer.Enabled = true
	}
	if flags.footer.pageNumber {
		cfg.Footer.ShowPageNumber = true
		cfg.Footer.Enabled = true
	}

	// Style flags
	if flags.style.name != "" {
		cfg.Style.Name = flags.style.name
	}
	if flags.style.css != "" {
		cfg.Style.CSS = flags.style.css
	}
	if flags.style.fontFamily != "" {
		cfg.Style.FontFamily = flags.style.fontFamily
	}
	if flags.style.fontSize != 0 {
		cfg.Style.FontSize = flags.style.fontSize
	}
	if flags.style.lineHeight != 0 {
		cfg.Style.LineHeight = flags.style.lineHeight
	}
	if flags.style.accentColor != "" {
		cfg.Style.AccentColor = flags.style.accentColor
	}
	if flags.style.justify != "" {
		cfg.Style.Justify = flags.style.justify
	}
	if flags.style.keepTogether != "" {
		cfg.Style.KeepTogether = flags.style.keepTogether
	}
	if flags.style.highlightTheme != "" {
		cfg.Style.HighlightTheme = flags.style.highlightTheme
	}
	if flags.style.assetPath != "" {
		cfg.Assets.BasePath = flags.style.assetPath
	}

	// Log flags
	if flags.common.logLevel != "" {
		cfg.Log.Level = flags.common.logLevel
	}
	if flags.common.logFile != "" {
		cfg.Log.File = flags.common.logFile
	}

	// Disable flags
	if flags.footer.disabled {
		cfg.Footer.Enabled = false
	}
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(args))
	}
	if len(args) == 1 {
		return args[0], nil
	}
	if cfg.Input.Path != "" {
		return cfg.Input.Path, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir returns the configured output directory or the default.
func resolveOutputDir(cfg *config.Config) string {
	if cfg.Output.Dir != "" {
		return cfg.Output.Dir
	}
	return json2pdf.DefaultOutputDir
}

// resolveBatchSize returns the configured batch size or the default.
// Negative values are kept so the processor reports them.
func resolveBatchSize(cfg *config.Config) int {
	if cfg.Records.BatchSize != 0 {
		return cfg.Records.BatchSize
	}
	return json2pdf.DefaultBatchSize
}

// resolveSeparator picks the record separator: an explicit flag (even
// empty) > JSON2PDF_SEPARATOR (even empty) > config > default.
func resolveSeparator(flags recordFlags, env *envConfig, cfg *config.Config) string {
	switch {
	case flags.separatorSet:
		return flags.separator
	case env.Separator != nil:
		return *env.Separator
	case cfg.Records.Separator != "":
		return cfg.Records.Separator
	default:
		return json2pdf.DefaultSeparator
	}
}

// resolvePrefix returns the configured artifact prefix or the default.
func resolvePrefix(cfg *config.Config) string {
	if cfg.Naming.Prefix != "" {
		return cfg.Naming.Prefix
	}
	return json2pdf.DefaultPrefix
}

// resolveTimeoutWithEnv picks the timeout: flag > env > config. Zero means
// the library default applies.
func resolveTimeoutWithEnv(flagValue string, envValue time.Duration, configValue string) (time.Duration, error) {
	if flagValue != "" {
		return parseTimeout(flagValue)
	}
	if envValue > 0 {
		return envValue, nil
	}
	if configValue != "" {
		return parseTimeout(configValue)
	}
	return 0, nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid timeout %q: %v", ErrUsage, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: timeout must be positive, got %s", ErrUsage, s)
	}
	return d, nil
}

// buildStyle creates json2pdf.Style from config. Zero fields keep the
// stylesheet's own values.
func buildStyle(cfg *config.Config) *json2pdf.Style {
	return &json2pdf.Style{
		FontFamily:      cfg.Style.FontFamily,
		FontSize:        cfg.Style.FontSize,
		LineHeight:      cfg.Style.LineHeight,
		TextColor:       cfg.Style.TextColor,
		HeadingColor:    cfg.Style.HeadingColor,
		AccentColor:     cfg.Style.AccentColor,
		BlockBackground: cfg.Style.BlockBackground,
		RuleColor:       cfg.Style.RuleColor,
		Justify:         cfg.Style.Justify,
		KeepTogether:    cfg.Style.KeepTogether,
		HighlightTheme:  cfg.Style.HighlightTheme,
	}
}

// buildPageSettings creates json2pdf.PageSettings from config, filling
// unset values from the defaults.
func buildPageSettings(cfg *config.Config) (*json2pdf.PageSettings, error) {
	ps := json2pdf.DefaultPageSettings()
	if cfg.Page.Size != "" {
		ps.Size = cfg.Page.Size
	}
	if cfg.Page.Orientation != "" {
		ps.Orientation = cfg.Page.Orientation
	}
	if cfg.Page.Margin != 0 {
		ps.Margin = cfg.Page.Margin
	}

	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}

// buildFooterData creates json2pdf.Footer from config, or nil when the
// footer is disabled. "auto" dates are resolved against now once per run.
func buildFooterData(cfg *config.Config, now time.Time) (*json2pdf.Footer, error) {
	if !cfg.Footer.Enabled {
		return nil, nil
	}

	date, err := dateutil.ResolveDate(cfg.Footer.Date, now)
	if err != nil {
		return nil, fmt.Errorf("footer date: %w", err)
	}

	return &json2pdf.Footer{
		Position:       cfg.Footer.Position,
		ShowPageNumber: cfg.Footer.ShowPageNumber,
		Date:           date,
		Text:           cfg.Footer.Text,
	}, nil
}

// readUserCSS reads the extra stylesheet named by cfg, if any.
func readUserCSS(cfg *config.Config) (string, error) {
	if cfg.Style.CSS == "" {
		return "", nil
	}
	content, err := os.ReadFile(cfg.Style.CSS) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(content), nil
}
