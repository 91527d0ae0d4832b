package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Adoubf/json2pdf/internal/records"
)

// ErrInvalidValueFormat indicates an unknown value format name.
var ErrInvalidValueFormat = errors.New("invalid value format")

// ValueFormat selects how field values are written into the markup.
type ValueFormat string

// Value formats.
const (
	// ValueFormatText renders values literally.
	ValueFormatText ValueFormat = "text"
	// ValueFormatMarkdown treats values as Markdown, including fenced code.
	// Blocks a value leaves open are closed or neutralised at its end.
	ValueFormatMarkdown ValueFormat = "markdown"
)

// ParseValueFormat returns the ValueFormat named by s (case-insensitive).
// An empty string selects ValueFormatText.
func ParseValueFormat(s string) (ValueFormat, error) {
	switch ValueFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", ValueFormatText:
		return ValueFormatText, nil
	case ValueFormatMarkdown:
		return ValueFormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q (must be text or markdown)", ErrInvalidValueFormat, s)
	}
}

// MarkupProjector defines the contract for projecting records into markup.
type MarkupProjector interface {
	Project(recs []records.Record, fields []string, separator string) string
}

// Projector writes records as Markdown blocks.
// The zero value uses ValueFormatText.
type Projector struct {
	Format ValueFormat
}

// Project renders recs in order. Each record becomes a block delimited by
// RecordStartMarker and RecordEndMarker holding one level-3 heading per
// present field followed by its value, then the separator as its own
// paragraph. A separator other than a thematic break renders as literal
// text. Fields absent from a record are skipped.
func (p *Projector) Project(recs []records.Record, fields []string, separator string) string {
	var b strings.Builder
	separator = separatorMarkup(normalizeValue(separator))

	for _, rec := range recs {
		writeParagraph(&b, RecordStartMarker)

		for _, field := range fields {
			raw, ok := rec.Get(field)
			if !ok {
				continue
			}
			writeParagraph(&b, "### "+fieldHeading(field)+":")
			if value := p.formatValue(records.Stringify(raw)); value != "" {
				writeParagraph(&b, value)
			}
		}

		if separator != "" {
			writeParagraph(&b, separator)
		}
		writeParagraph(&b, RecordEndMarker)
	}
	return b.String()
}

func (p *Projector) formatValue(value string) string {
	value = normalizeValue(value)
	if p.Format == ValueFormatMarkdown {
		return closeOpenBlocks(value)
	}
	return escapeText(value)
}

// fieldHeading renders a field name as single-line literal heading text.
func fieldHeading(name string) string {
	return escapeText(strings.Join(strings.Fields(markerStripper.Replace(name)), " "))
}

// writeParagraph appends s followed by a blank line.
func writeParagraph(b *strings.Builder, s string) {
	b.WriteString(s)
	b.WriteString("\n\n")
}
