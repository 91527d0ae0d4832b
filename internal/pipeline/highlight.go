package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultHighlightTheme is the chroma style used for fenced code.
const DefaultHighlightTheme = "github"

// ErrUnknownHighlightTheme indicates a chroma style name that is not registered.
var ErrUnknownHighlightTheme = errors.New("unknown highlight theme")

// HighlightCSS returns the stylesheet for the chroma CSS classes emitted by
// GoldmarkConverter, using the named theme. An empty name selects
// DefaultHighlightTheme.
func HighlightCSS(theme string) (string, error) {
	style, err := lookupStyle(theme)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&b, style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return b.String(), nil
}

// HighlightThemes lists the registered theme names.
func HighlightThemes() []string {
	return styles.Names()
}

func lookupStyle(theme string) (*chroma.Style, error) {
	if theme == "" {
		theme = DefaultHighlightTheme
	}
	if style, ok := styles.Registry[theme]; ok {
		return style, nil
	}
	if style, ok := styles.Registry[strings.ToLower(theme)]; ok {
		return style, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownHighlightTheme, theme)
}
