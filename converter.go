package json2pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/Adoubf/json2pdf/internal/assets"
	"github.com/Adoubf/json2pdf/internal/fileutil"
	"github.com/Adoubf/json2pdf/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector   = (*pipeline.CSSInjection)(nil)
)

// Converter renders projected markup to PDF.
// Create with NewConverter(), use Convert() or RenderToFile(), and Close() when done.
// A Converter keeps one browser alive across calls and is not safe for
// concurrent use.
type Converter struct {
	cfg           converterConfig
	htmlConverter pipeline.HTMLConverter
	cssInjector   pipeline.CSSInjector
	pdfConverter  pdfConverter
}

// NewConverter creates a Converter. The base stylesheet is resolved here, so
// an unknown style name or unreadable CSS file fails before any rendering.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:           converterConfig{timeout: DefaultTimeout},
		htmlConverter: pipeline.NewGoldmarkConverter(),
		cssInjector:   &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	baseStyle, err := resolver.ResolveStyle(c.cfg.styleInput)
	if err != nil {
		return nil, fmt.Errorf("loading style %q: %w", c.cfg.styleInput, err)
	}
	c.cfg.baseStyle = baseStyle

	// Tests inject a fake before this point
	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}

	return c, nil
}

// Convert runs markup → HTML → styled HTML → PDF and returns both documents.
// If input.HTMLOnly is true, PDF generation is skipped.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	htmlContent, err := c.htmlConverter.ToHTML(ctx, input.Markup)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	// Record markers survive Markdown as text; turn them into containers
	htmlContent = pipeline.ExpandRecordMarkers(htmlContent)

	if input.SourceDir != "" {
		htmlContent, err = pipeline.RewriteImagePaths(htmlContent, input.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("rewriting image paths: %w", err)
		}
	}

	cssContent, err := c.buildCSS(input)
	if err != nil {
		return nil, err
	}

	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, cssContent)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	res := &ConvertResult{HTML: []byte(htmlContent)}
	if input.HTMLOnly {
		return res, nil
	}

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, &pdfOptions{
		Footer: input.Footer,
		Page:   input.Page,
	})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}

	res.PDF = pdfBytes
	return res, nil
}

// RenderToFile converts input and writes the PDF to path atomically.
// With HTMLOnly set, the HTML is written instead.
// I/O failures wrap ErrWriteArtifact.
func (c *Converter) RenderToFile(ctx context.Context, input Input, path string) (*ConvertResult, error) {
	res, err := c.Convert(ctx, input)
	if err != nil {
		return nil, err
	}

	data := res.PDF
	if input.HTMLOnly {
		data = res.HTML
	}
	if err := fileutil.WriteFileAtomic(path, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteArtifact, err)
	}
	return res, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// buildCSS assembles the stylesheet. Later rules override earlier ones:
// page breaks, base style, style overrides, code highlighting, user CSS.
func (c *Converter) buildCSS(input Input) (string, error) {
	var keep, theme string
	if input.Style != nil {
		keep = input.Style.KeepTogether
		theme = input.Style.HighlightTheme
	}
	if theme == "" {
		theme = pipeline.DefaultHighlightTheme
	}

	highlightCSS, err := pipeline.HighlightCSS(theme)
	if err != nil {
		return "", err
	}

	parts := []string{
		buildPageBreaksCSS(keep),
		c.cfg.baseStyle,
		buildStyleCSS(input.Style),
		highlightCSS,
		input.CSS,
	}
	var buf strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		buf.WriteString(p)
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// CLI users have their input validated earlier by Config.Validate() at config load time.
// Both paths converge here, ensuring all inputs are validated before processing.
func validateInput(input Input) error {
	if strings.TrimSpace(input.Markup) == "" {
		return ErrEmptyMarkup
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	if err := input.Footer.Validate(); err != nil {
		return err
	}
	return input.Style.Validate()
}
