package pipeline

import (
	"context"
	"strings"
)

// RecordClass is the CSS class of the container around each record.
const RecordClass = "record"

// recordMarkerExpander replaces marker paragraphs with record containers.
// Stray markers that did not end up in their own paragraph are dropped.
var recordMarkerExpander = strings.NewReplacer(
	"<p>"+RecordStartMarker+"</p>", `<div class="`+RecordClass+`">`,
	"<p>"+RecordEndMarker+"</p>", "</div>",
	RecordStartMarker, "",
	RecordEndMarker, "",
)

// ExpandRecordMarkers turns the record markers written by Projector into
// <div class="record"> containers. Called after Goldmark HTML conversion.
func ExpandRecordMarkers(htmlContent string) string {
	return recordMarkerExpander.Replace(htmlContent)
}

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent injection attacks.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	// Check for cancellation
	if ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		// Find the closing > of <body...>
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
