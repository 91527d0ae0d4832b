// Package config loads and validates YAML run configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Adoubf/json2pdf/internal/fileutil"
	"github.com/Adoubf/json2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDirName is the directory under the user config dir searched for named configs.
const AppDirName = "json2pdf"

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxFieldNameLength   = 256
	MaxFieldCount        = 200
	MaxSeparatorLength   = 200
	MaxPrefixLength      = 64
	MaxTimestampLength   = 50
	MaxStyleNameLength   = 100
	MaxFontFamilyLength  = 200
	MaxColorLength       = 20  // "#007acc" or color name
	MaxPageSizeLength    = 10  // "letter", "a4", "legal"
	MaxOrientationLength = 10  // "portrait", "landscape"
	MaxTextLength        = 500 // Footer free-form text
	MaxDateLength        = 30
)

// Config holds all configuration for a run. Zero values mean "use default".
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Records RecordsConfig `yaml:"records"`
	Repair  RepairConfig  `yaml:"repair"`
	Naming  NamingConfig  `yaml:"naming"`
	Style   StyleConfig   `yaml:"style"`
	Page    PageConfig    `yaml:"page"`
	Footer  FooterConfig  `yaml:"footer"`
	Assets  AssetsConfig  `yaml:"assets"`
	Log     LogConfig     `yaml:"log"`
	Timeout string        `yaml:"timeout"` // per-batch render timeout, e.g. "90s"
}

// InputConfig defines the record source.
type InputConfig struct {
	Path string `yaml:"path"` // used when no input argument is given
}

// OutputConfig defines where artifacts go.
type OutputConfig struct {
	Dir  string `yaml:"dir"`  // default ./output/pdfs
	HTML bool   `yaml:"html"` // also write the intermediate HTML
}

// RecordsConfig defines projection and batching.
type RecordsConfig struct {
	Fields      []string `yaml:"fields"`
	BatchSize   int      `yaml:"batchSize"`
	Separator   string   `yaml:"separator"`
	ValueFormat string   `yaml:"valueFormat"` // "text" or "markdown"
}

// RepairConfig defines the format repairer.
type RepairConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Output      string  `yaml:"output"`      // on-disk target; empty keeps small files in memory
	ThresholdMB float64 `yaml:"thresholdMB"` // default 10
}

// NamingConfig defines artifact file names.
type NamingConfig struct {
	Prefix    string `yaml:"prefix"`    // default "records"
	Timestamp string `yaml:"timestamp"` // token format, default "YYYYMMDDHHmmss"
}

// StyleConfig defines stylesheet selection and style options.
type StyleConfig struct {
	Name            string  `yaml:"name"` // built-in name or path to a .css file
	CSS             string  `yaml:"css"`  // extra user stylesheet path
	FontFamily      string  `yaml:"fontFamily"`
	FontSize        float64 `yaml:"fontSize"` // px
	LineHeight      float64 `yaml:"lineHeight"`
	TextColor       string  `yaml:"textColor"`
	HeadingColor    string  `yaml:"headingColor"`
	AccentColor     string  `yaml:"accentColor"`
	BlockBackground string  `yaml:"blockBackground"`
	RuleColor       string  `yaml:"ruleColor"`
	Justify         string  `yaml:"justify"`      // "justify" or "left"
	KeepTogether    string  `yaml:"keepTogether"` // "avoid" or "auto"
	HighlightTheme  string  `yaml:"highlightTheme"`
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "a4")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.8)
}

// FooterConfig defines page footer options.
type FooterConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Position       string `yaml:"position"` // "left", "center", "right" (default: "right")
	ShowPageNumber bool   `yaml:"showPageNumber"`
	Date           string `yaml:"date"` // literal, "auto" or "auto:FORMAT"
	Text           string `yaml:"text"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// LogConfig defines logging options.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // JSON log file; empty disables
}

// Validate checks lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	checks := []struct {
		name  string
		value string
		max   int
	}{
		{"input.path", c.Input.Path, MaxPathLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"records.separator", c.Records.Separator, MaxSeparatorLength},
		{"repair.output", c.Repair.Output, MaxPathLength},
		{"naming.prefix", c.Naming.Prefix, MaxPrefixLength},
		{"naming.timestamp", c.Naming.Timestamp, MaxTimestampLength},
		{"style.name", c.Style.Name, MaxPathLength},
		{"style.css", c.Style.CSS, MaxPathLength},
		{"style.fontFamily", c.Style.FontFamily, MaxFontFamilyLength},
		{"style.textColor", c.Style.TextColor, MaxColorLength},
		{"style.headingColor", c.Style.HeadingColor, MaxColorLength},
		{"style.accentColor", c.Style.AccentColor, MaxColorLength},
		{"style.blockBackground", c.Style.BlockBackground, MaxColorLength},
		{"style.ruleColor", c.Style.RuleColor, MaxColorLength},
		{"style.highlightTheme", c.Style.HighlightTheme, MaxStyleNameLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
		{"footer.date", c.Footer.Date, MaxDateLength},
		{"footer.text", c.Footer.Text, MaxTextLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"log.file", c.Log.File, MaxPathLength},
	}
	for _, chk := range checks {
		if err := validateFieldLength(chk.name, chk.value, chk.max); err != nil {
			return err
		}
	}

	if len(c.Records.Fields) > MaxFieldCount {
		return fmt.Errorf("%w: records.fields has %d entries (max %d)", ErrInvalidValue, len(c.Records.Fields), MaxFieldCount)
	}
	for i, f := range c.Records.Fields {
		if err := validateFieldLength(fmt.Sprintf("records.fields[%d]", i), f, MaxFieldNameLength); err != nil {
			return err
		}
	}
	if c.Records.BatchSize < 0 {
		return fmt.Errorf("%w: records.batchSize must be positive, got %d", ErrInvalidValue, c.Records.BatchSize)
	}
	if err := oneOf("records.valueFormat", c.Records.ValueFormat, "text", "markdown"); err != nil {
		return err
	}

	if c.Repair.ThresholdMB < 0 {
		return fmt.Errorf("%w: repair.thresholdMB must not be negative, got %.2f", ErrInvalidValue, c.Repair.ThresholdMB)
	}

	if fileutil.IsFilePath(c.Naming.Prefix) {
		return fmt.Errorf("%w: naming.prefix must not contain path separators", ErrInvalidValue)
	}

	if err := oneOf("style.justify", c.Style.Justify, "justify", "left"); err != nil {
		return err
	}
	if err := oneOf("style.keepTogether", c.Style.KeepTogether, "avoid", "auto"); err != nil {
		return err
	}
	if c.Style.FontSize < 0 || c.Style.LineHeight < 0 {
		return fmt.Errorf("%w: style sizes must not be negative", ErrInvalidValue)
	}

	if err := oneOf("footer.position", c.Footer.Position, "left", "center", "right"); err != nil {
		return err
	}
	if err := oneOf("log.level", c.Log.Level, "debug", "info", "warn", "error"); err != nil {
		return err
	}

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("%w: timeout: %v", ErrInvalidValue, err)
		}
		if d <= 0 {
			return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidValue, c.Timeout)
		}
	}

	return nil
}

// TimeoutDuration returns the parsed timeout, or zero if unset.
// Validate must have succeeded.
func (c *Config) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// oneOf accepts an empty value or one of allowed (case-insensitive).
func oneOf(fieldName, value string, allowed ...string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

// DefaultConfig returns an empty configuration; callers apply their own defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := yamlutil.ReadFileStrict(configPath, &cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists the candidate files for a config name, in lookup order:
// ./NAME.yaml, ./NAME.yml, then the same names under the user config dir.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
