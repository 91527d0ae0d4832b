package json2pdf

// Notes:
// - Browser-backed rendering is covered by html2pdf_integration_test.go
//   (integration build tag). Here the PDF stage is a mock so the pipeline
//   order, validation and CSS assembly can be checked without Chrome.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Adoubf/json2pdf/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockHTMLConverter struct {
	Result     string
	Err        error
	CalledWith string
}

func (m *mockHTMLConverter) ToHTML(ctx context.Context, content string) (string, error) {
	m.CalledWith = content
	if m.Err != nil {
		return "", m.Err
	}
	return m.Result, nil
}

type mockCSSInjector struct {
	CalledCSS string
}

func (m *mockCSSInjector) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	m.CalledCSS = cssContent
	return htmlContent + "<!--css-->"
}

type mockPDFConverter struct {
	Result     []byte
	Err        error
	CalledHTML string
	CalledOpts *pdfOptions
	Closed     bool
}

func (m *mockPDFConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	m.CalledHTML = htmlContent
	m.CalledOpts = opts
	return m.Result, m.Err
}

func (m *mockPDFConverter) Close() error {
	m.Closed = true
	return nil
}

type panicHTMLConverter struct{}

func (p *panicHTMLConverter) ToHTML(ctx context.Context, content string) (string, error) {
	panic("boom")
}

func withHTMLConverter(c pipeline.HTMLConverter) Option {
	return func(conv *Converter) { conv.htmlConverter = c }
}

func withCSSInjector(c pipeline.CSSInjector) Option {
	return func(conv *Converter) { conv.cssInjector = c }
}

func withPDFConverter(c pdfConverter) Option {
	return func(conv *Converter) { conv.pdfConverter = c }
}

func newTestConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()
	conv, err := NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	return conv
}

const sampleMarkup = "\uE010\n\n### a:\n\nx\n\n----\n\n\uE011\n\n"

// ---------------------------------------------------------------------------
// NewConverter
// ---------------------------------------------------------------------------

func TestNewConverter_Styles(t *testing.T) {
	t.Parallel()

	cssPath := filepath.Join(t.TempDir(), "mine.css")
	if err := os.WriteFile(cssPath, []byte("body { color: #123456; }"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		opts     []Option
		contains string
		wantErr  error
	}{
		{"default style", nil, "#007acc", nil},
		{"named style", []Option{WithStyle("compact")}, ".record", nil},
		{"css file", []Option{WithStyle(cssPath)}, "#123456", nil},
		{"unknown style", []Option{WithStyle("nope")}, "", ErrStyleNotFound},
		{"bad asset path", []Option{WithAssetPath(filepath.Join(t.TempDir(), "missing"))}, "", ErrInvalidAssetPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := append([]Option{withPDFConverter(&mockPDFConverter{})}, tt.opts...)
			conv, err := NewConverter(opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewConverter() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewConverter() error = %v", err)
			}
			if !strings.Contains(conv.cfg.baseStyle, tt.contains) {
				t.Errorf("base style missing %q", tt.contains)
			}
		})
	}
}

func TestWithTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero timeout")
		}
	}()
	WithTimeout(0)
}

// ---------------------------------------------------------------------------
// Convert
// ---------------------------------------------------------------------------

func TestConvert_Success(t *testing.T) {
	t.Parallel()

	htmlConv := &mockHTMLConverter{Result: "<html><head></head><body>\uE010<p>x</p>\uE011</body></html>"}
	injector := &mockCSSInjector{}
	pdfConv := &mockPDFConverter{Result: []byte("%PDF-1.7")}
	conv := newTestConverter(t, withHTMLConverter(htmlConv), withCSSInjector(injector), withPDFConverter(pdfConv))

	page := &PageSettings{Size: "letter", Orientation: "landscape", Margin: 1}
	footer := &Footer{ShowPageNumber: true}
	res, err := conv.Convert(context.Background(), Input{
		Markup: sampleMarkup,
		CSS:    "/* user */",
		Page:   page,
		Footer: footer,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if htmlConv.CalledWith != sampleMarkup {
		t.Errorf("HTML converter got %q", htmlConv.CalledWith)
	}
	if !strings.Contains(pdfConv.CalledHTML, `<div class="record"><p>x</p></div>`) {
		t.Errorf("record markers not expanded: %q", pdfConv.CalledHTML)
	}
	if pdfConv.CalledOpts.Page != page || pdfConv.CalledOpts.Footer != footer {
		t.Error("page settings and footer not forwarded to PDF stage")
	}
	if string(res.PDF) != "%PDF-1.7" {
		t.Errorf("PDF = %q", res.PDF)
	}
	if !strings.HasSuffix(string(res.HTML), "<!--css-->") {
		t.Error("result HTML should be the CSS-injected document")
	}
}

func TestConvert_CSSOrder(t *testing.T) {
	t.Parallel()

	injector := &mockCSSInjector{}
	conv := newTestConverter(t,
		withHTMLConverter(&mockHTMLConverter{Result: "<html></html>"}),
		withCSSInjector(injector),
		withPDFConverter(&mockPDFConverter{}))

	_, err := conv.Convert(context.Background(), Input{
		Markup:   sampleMarkup,
		CSS:      "/* user css */",
		Style:    &Style{HeadingColor: "#abcdef"},
		HTMLOnly: true,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	css := injector.CalledCSS
	order := []string{
		"break-inside: avoid",    // page breaks
		"border-left: 3px solid", // base stylesheet
		"color: #abcdef",         // style overrides
		".chroma",                // highlight theme
		"/* user css */",         // user CSS last
	}
	last := -1
	for _, marker := range order {
		idx := strings.Index(css, marker)
		if idx == -1 {
			t.Fatalf("CSS missing %q", marker)
		}
		if idx < last {
			t.Errorf("%q appears out of order", marker)
		}
		last = idx
	}
}

func TestConvert_KeepTogetherAuto(t *testing.T) {
	t.Parallel()

	injector := &mockCSSInjector{}
	conv := newTestConverter(t,
		withHTMLConverter(&mockHTMLConverter{Result: "<html></html>"}),
		withCSSInjector(injector),
		withPDFConverter(&mockPDFConverter{}))

	_, err := conv.Convert(context.Background(), Input{
		Markup:   sampleMarkup,
		Style:    &Style{KeepTogether: KeepAuto},
		HTMLOnly: true,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if strings.Contains(injector.CalledCSS, "keep each record together") {
		t.Error("keep-together rule should be omitted for auto policy")
	}
}

func TestConvert_HTMLOnlySkipsPDF(t *testing.T) {
	t.Parallel()

	pdfConv := &mockPDFConverter{Result: []byte("%PDF")}
	conv := newTestConverter(t, withPDFConverter(pdfConv))

	res, err := conv.Convert(context.Background(), Input{Markup: sampleMarkup, HTMLOnly: true})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if res.PDF != nil {
		t.Error("PDF should be nil in HTML-only mode")
	}
	if pdfConv.CalledHTML != "" {
		t.Error("PDF stage should not run in HTML-only mode")
	}
	if !strings.Contains(string(res.HTML), `<div class="record">`) {
		t.Errorf("HTML missing record container: %s", res.HTML)
	}
}

func TestConvert_Errors(t *testing.T) {
	t.Parallel()

	htmlErr := errors.New("html failed")
	pdfErr := errors.New("pdf failed")

	tests := []struct {
		name    string
		opts    []Option
		input   Input
		wantErr error
	}{
		{"empty markup", nil, Input{Markup: "  \n"}, ErrEmptyMarkup},
		{"invalid page", nil, Input{Markup: sampleMarkup, Page: &PageSettings{Size: "a3", Orientation: "portrait", Margin: 1}}, ErrInvalidPageSize},
		{"invalid footer", nil, Input{Markup: sampleMarkup, Footer: &Footer{Position: "top"}}, ErrInvalidFooterPosition},
		{"invalid style", nil, Input{Markup: sampleMarkup, Style: &Style{AccentColor: "blue"}}, ErrInvalidColor},
		{"unknown highlight theme", nil, Input{Markup: sampleMarkup, Style: &Style{HighlightTheme: "no-such-theme"}}, ErrUnknownHighlightTheme},
		{"html stage error", []Option{withHTMLConverter(&mockHTMLConverter{Err: htmlErr})}, Input{Markup: sampleMarkup}, htmlErr},
		{"pdf stage error", []Option{withPDFConverter(&mockPDFConverter{Err: pdfErr})}, Input{Markup: sampleMarkup}, pdfErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := append([]Option{withPDFConverter(&mockPDFConverter{})}, tt.opts...)
			conv := newTestConverter(t, opts...)

			_, err := conv.Convert(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConvert_RecoversPanic(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withHTMLConverter(&panicHTMLConverter{}), withPDFConverter(&mockPDFConverter{}))

	_, err := conv.Convert(context.Background(), Input{Markup: sampleMarkup})
	if err == nil || !strings.Contains(err.Error(), "internal error") {
		t.Errorf("Convert() error = %v, want internal error", err)
	}
}

func TestConvert_ContextCancellation(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conv.Convert(ctx, Input{Markup: sampleMarkup})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() error = %v, want context.Canceled", err)
	}
}

func TestConvert_RewritesImagePaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{}))

	res, err := conv.Convert(context.Background(), Input{
		Markup:    "![chart](img/chart.png)\n",
		SourceDir: dir,
		HTMLOnly:  true,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(string(res.HTML), "file://") {
		t.Errorf("image path not rewritten: %s", res.HTML)
	}
}

// ---------------------------------------------------------------------------
// RenderToFile and Close
// ---------------------------------------------------------------------------

func TestRenderToFile(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{Result: []byte("%PDF-1.7 data")}))
	path := filepath.Join(t.TempDir(), "nested", "out.pdf")

	if _, err := conv.RenderToFile(context.Background(), Input{Markup: sampleMarkup}, path); err != nil {
		t.Fatalf("RenderToFile() error = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "%PDF-1.7 data" {
		t.Errorf("file content = %q", got)
	}
}

func TestRenderToFile_WriteError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{Result: []byte("%PDF")}))
	_, err := conv.RenderToFile(context.Background(), Input{Markup: sampleMarkup}, filepath.Join(blocker, "out.pdf"))
	if !errors.Is(err, ErrWriteArtifact) {
		t.Errorf("RenderToFile() error = %v, want ErrWriteArtifact", err)
	}
}

func TestConverter_Close(t *testing.T) {
	t.Parallel()

	pdfConv := &mockPDFConverter{}
	conv := newTestConverter(t, withPDFConverter(pdfConv))
	if err := conv.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !pdfConv.Closed {
		t.Error("Close() should close the PDF converter")
	}

	if err := (&Converter{}).Close(); err != nil {
		t.Errorf("Close() on empty converter error = %v", err)
	}
}
