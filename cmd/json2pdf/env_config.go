package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Adoubf/json2pdf/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // JSON2PDF_CONFIG: config file path
	Fields     []string      // JSON2PDF_FIELDS: comma-separated field list
	Timeout    time.Duration // JSON2PDF_TIMEOUT: per-batch render timeout

	// Tier 2 - Output and batching
	OutputDir string  // JSON2PDF_OUTPUT_DIR: artifact directory
	BatchSize int     // JSON2PDF_BATCH_SIZE: records per document
	Separator *string // JSON2PDF_SEPARATOR: record separator, may be empty
	Prefix    string  // JSON2PDF_PREFIX: artifact name prefix

	// Tier 3 - Extended
	Style       string  // JSON2PDF_STYLE: CSS style name or path
	PageSize    string  // JSON2PDF_PAGE_SIZE: a4, letter, legal
	ValueFormat string  // JSON2PDF_VALUE_FORMAT: text, markdown
	ThresholdMB float64 // JSON2PDF_THRESHOLD_MB: repair in-memory limit
	LogLevel    string  // JSON2PDF_LOG_LEVEL: debug, info, warn, error
	LogFile     string  // JSON2PDF_LOG_FILE: JSON log file
}

// knownEnvVars lists valid JSON2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"JSON2PDF_CONFIG":  true,
	"JSON2PDF_FIELDS":  true,
	"JSON2PDF_TIMEOUT": true,
	// Tier 2 - Output and batching
	"JSON2PDF_OUTPUT_DIR": true,
	"JSON2PDF_BATCH_SIZE": true,
	"JSON2PDF_SEPARATOR":  true,
	"JSON2PDF_PREFIX":     true,
	// Tier 3 - Extended
	"JSON2PDF_STYLE":        true,
	"JSON2PDF_PAGE_SIZE":    true,
	"JSON2PDF_VALUE_FORMAT": true,
	"JSON2PDF_THRESHOLD_MB": true,
	"JSON2PDF_LOG_LEVEL":    true,
	"JSON2PDF_LOG_FILE":     true,
	// Read by doctor
	"JSON2PDF_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		// Tier 1
		ConfigPath: os.Getenv("JSON2PDF_CONFIG"),
		Fields:     splitList(os.Getenv("JSON2PDF_FIELDS")),
		// Tier 2
		OutputDir: os.Getenv("JSON2PDF_OUTPUT_DIR"),
		Prefix:    os.Getenv("JSON2PDF_PREFIX"),
		// Tier 3
		Style:       os.Getenv("JSON2PDF_STYLE"),
		PageSize:    os.Getenv("JSON2PDF_PAGE_SIZE"),
		ValueFormat: os.Getenv("JSON2PDF_VALUE_FORMAT"),
		LogLevel:    os.Getenv("JSON2PDF_LOG_LEVEL"),
		LogFile:     os.Getenv("JSON2PDF_LOG_FILE"),
	}

	if timeout := os.Getenv("JSON2PDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if size := os.Getenv("JSON2PDF_BATCH_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil && n > 0 {
			cfg.BatchSize = n
		}
	}

	// Set but empty means "no separator"
	if sep, ok := os.LookupEnv("JSON2PDF_SEPARATOR"); ok {
		cfg.Separator = &sep
	}

	if mb := os.Getenv("JSON2PDF_THRESHOLD_MB"); mb != "" {
		if v, err := strconv.ParseFloat(mb, 64); err == nil && v > 0 {
			cfg.ThresholdMB = v
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized JSON2PDF_* variables.
// Helps catch typos like JSON2PDF_FIELD instead of JSON2PDF_FIELDS.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "JSON2PDF_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config values with the environment variables that
// are set, giving: CLI flags > env vars > config file > defaults.
// CLI flags are applied later via mergeFlags. The timeout and separator are
// resolved separately because their zero values are meaningful.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1
	if len(env.Fields) > 0 {
		cfg.Records.Fields = env.Fields
	}

	// Tier 2
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.BatchSize > 0 {
		cfg.Records.BatchSize = env.BatchSize
	}
	if env.Prefix != "" {
		cfg.Naming.Prefix = env.Prefix
	}

	// Tier 3
	if env.Style != "" {
		cfg.Style.Name = env.Style
	}
	if env.PageSize != "" {
		cfg.Page.Size = env.PageSize
	}
	if env.ValueFormat != "" {
		cfg.Records.ValueFormat = env.ValueFormat
	}
	if env.ThresholdMB > 0 {
		cfg.Repair.ThresholdMB = env.ThresholdMB
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFile != "" {
		cfg.Log.File = env.LogFile
	}
}

// splitList splits a comma list, trimming blanks and dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
