package json2pdf

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Adoubf/json2pdf/internal/pipeline"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.8 // about 2cm
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns A4 portrait with DefaultMargin.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	switch strings.ToLower(p.Size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// Footer configures the PDF footer.
type Footer struct {
	Position       string // "left", "center", "right" (default: "right")
	ShowPageNumber bool
	Date           string
	Text           string // e.g. the batch label
}

// Validate checks that footer settings are valid.
// Returns nil if f is nil (nil means no footer).
func (f *Footer) Validate() error {
	if f == nil {
		return nil
	}
	switch strings.ToLower(f.Position) {
	case "", "left", "center", "right":
		return nil
	default:
		return fmt.Errorf("%w: %q (must be left, center, or right)", ErrInvalidFooterPosition, f.Position)
	}
}

// Style bounds.
const (
	MinFontSize   = 6.0
	MaxFontSize   = 48.0
	MinLineHeight = 1.0
	MaxLineHeight = 3.0
)

// Text alignment and keep-together values.
const (
	JustifyFull = "justify"
	JustifyLeft = "left"

	KeepAvoid = "avoid"
	KeepAuto  = "auto"
)

// Style overrides the base stylesheet. Zero fields keep the stylesheet's value.
type Style struct {
	FontFamily      string  // CSS font stack, e.g. `"Noto Sans", sans-serif`
	FontSize        float64 // px
	LineHeight      float64 // unitless multiplier
	TextColor       string  // hex color
	HeadingColor    string  // field heading color
	AccentColor     string  // record left border
	BlockBackground string  // record background
	RuleColor       string  // separator rule
	Justify         string  // "justify" or "left"
	KeepTogether    string  // "avoid" keeps a record on one page when it fits, "auto" lets it split
	HighlightTheme  string  // chroma style for fenced code (default "github")
}

var (
	hexColorPattern   = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	fontFamilyPattern = regexp.MustCompile(`^[A-Za-z0-9 ,"'_-]+$`)
)

// Validate checks colors, sizes and enumerated values.
// Returns nil if s is nil (nil means stylesheet defaults).
func (s *Style) Validate() error {
	if s == nil {
		return nil
	}

	colors := []struct{ name, value string }{
		{"text", s.TextColor},
		{"heading", s.HeadingColor},
		{"accent", s.AccentColor},
		{"block background", s.BlockBackground},
		{"rule", s.RuleColor},
	}
	for _, c := range colors {
		if c.value != "" && !hexColorPattern.MatchString(c.value) {
			return fmt.Errorf("%w: %s color %q (must be #rgb or #rrggbb)", ErrInvalidColor, c.name, c.value)
		}
	}

	if s.FontFamily != "" && !fontFamilyPattern.MatchString(s.FontFamily) {
		return fmt.Errorf("%w: %q", ErrInvalidFontFamily, s.FontFamily)
	}
	if s.FontSize != 0 && (s.FontSize < MinFontSize || s.FontSize > MaxFontSize) {
		return fmt.Errorf("%w: %.1f (must be between %.0f and %.0f)", ErrInvalidFontSize, s.FontSize, MinFontSize, MaxFontSize)
	}
	if s.LineHeight != 0 && (s.LineHeight < MinLineHeight || s.LineHeight > MaxLineHeight) {
		return fmt.Errorf("%w: %.2f (must be between %.1f and %.1f)", ErrInvalidLineHeight, s.LineHeight, MinLineHeight, MaxLineHeight)
	}

	switch strings.ToLower(s.Justify) {
	case "", JustifyFull, JustifyLeft:
	default:
		return fmt.Errorf("%w: %q (must be justify or left)", ErrInvalidJustify, s.Justify)
	}
	switch strings.ToLower(s.KeepTogether) {
	case "", KeepAvoid, KeepAuto:
	default:
		return fmt.Errorf("%w: %q (must be avoid or auto)", ErrInvalidKeepPolicy, s.KeepTogether)
	}

	if s.HighlightTheme != "" {
		if _, err := pipeline.HighlightCSS(s.HighlightTheme); err != nil {
			return err
		}
	}
	return nil
}

// Input contains conversion parameters.
type Input struct {
	Markup    string        // Markdown produced by the markup projector (required)
	CSS       string        // Custom CSS appended last (optional)
	SourceDir string        // Base for relative image paths in values (optional)
	Style     *Style        // Style overrides (optional)
	Page      *PageSettings // Page settings (optional, nil = defaults)
	Footer    *Footer       // Footer config (optional)
	HTMLOnly  bool          // Skip PDF generation (debugging)
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	HTML []byte // Final HTML after CSS injection
	PDF  []byte // PDF bytes, nil when Input.HTMLOnly is set
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout    time.Duration
	styleInput string // style name or CSS file path
	assetPath  string // custom asset directory
	baseStyle  string // resolved base stylesheet
}

// DefaultTimeout is the page load timeout when none is specified.
const DefaultTimeout = 30 * time.Second

// WithTimeout sets the page load timeout for one conversion.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("json2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithStyle selects the base stylesheet by name ("default", "compact") or by
// path to a CSS file. The default is "default".
func WithStyle(nameOrPath string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = nameOrPath
	}
}

// WithAssetPath adds a directory whose styles/{name}.css files override or
// extend the built-in styles.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}
