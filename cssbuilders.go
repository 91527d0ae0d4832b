package json2pdf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Adoubf/json2pdf/internal/pipeline"
)

// defaultFontFamily is the font stack for the PDF footer.
const defaultFontFamily = "sans-serif"

// Orphan and widow line counts for paragraphs.
const (
	defaultOrphans = 2
	defaultWidows  = 2
)

// buildPageBreaksCSS generates page break rules. Headings never end a page.
// Records are kept on one page unless keep is KeepAuto; a record taller
// than a page is still split by the browser.
func buildPageBreaksCSS(keep string) string {
	var buf strings.Builder

	buf.WriteString(`
/* Page breaks: a field heading never ends a page */
h1, h2, h3, h4, h5, h6 {
  break-after: avoid;
  page-break-after: avoid;
  break-inside: avoid;
  page-break-inside: avoid;
}
`)

	fmt.Fprintf(&buf, `
/* Page breaks: orphan/widow control */
p, li, pre, blockquote {
  orphans: %d;
  widows: %d;
}
`, defaultOrphans, defaultWidows)

	if !strings.EqualFold(keep, KeepAuto) {
		fmt.Fprintf(&buf, `
/* Page breaks: keep each record together */
.%s {
  break-inside: avoid;
  page-break-inside: avoid;
}
`, pipeline.RecordClass)
	}

	return buf.String()
}

// buildStyleCSS turns Style overrides into rules placed after the base
// stylesheet. Fields left at their zero value produce no declaration.
func buildStyleCSS(s *Style) string {
	if s == nil {
		return ""
	}

	var buf strings.Builder
	writeRule(&buf, "body", []declaration{
		{"font-family", s.FontFamily},
		{"font-size", px(s.FontSize)},
		{"line-height", number(s.LineHeight)},
		{"color", s.TextColor},
	})
	writeRule(&buf, "h3", []declaration{{"color", s.HeadingColor}})
	writeRule(&buf, "."+pipeline.RecordClass, []declaration{
		{"border-left-color", s.AccentColor},
		{"background-color", s.BlockBackground},
	})
	writeRule(&buf, "hr", []declaration{{"border-top-color", s.RuleColor}})
	writeRule(&buf, "p", []declaration{{"text-align", strings.ToLower(s.Justify)}})
	return buf.String()
}

type declaration struct {
	property string
	value    string
}

// writeRule writes selector { ... } with the non-empty declarations, or
// nothing when all are empty.
func writeRule(buf *strings.Builder, selector string, decls []declaration) {
	var body strings.Builder
	for _, d := range decls {
		if d.value != "" {
			fmt.Fprintf(&body, "  %s: %s;\n", d.property, d.value)
		}
	}
	if body.Len() == 0 {
		return
	}
	fmt.Fprintf(buf, "\n%s {\n%s}\n", selector, body.String())
}

func px(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

func number(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
