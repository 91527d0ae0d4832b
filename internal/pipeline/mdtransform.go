package pipeline

import (
	"regexp"
	"strings"
)

// Record markers use Unicode Private Use Area characters.
// They pass through Goldmark unchanged (no WithUnsafe needed) and are
// expanded into record containers after HTML generation.
const (
	RecordStartMarker = "\uE010" // U+E010: Private Use Area
	RecordEndMarker   = "\uE011" // U+E011: Private Use Area
)

// nbsp keeps leading indentation visible without starting a code block.
const nbsp = "\u00A0"

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// Trailing spaces would otherwise turn into hard breaks or stray blank lines
	trailingSpace = regexp.MustCompile(`[ \t]+\n`)
)

// markerStripper removes record markers from field content.
var markerStripper = strings.NewReplacer(RecordStartMarker, "", RecordEndMarker, "")

// normalizeValue prepares a field value for Markdown: unified line endings,
// no surrounding whitespace, and at most one blank line between paragraphs.
func normalizeValue(content string) string {
	content = markerStripper.Replace(content)
	content = normalizeLineEndings(content)
	content = trailingSpace.ReplaceAllString(content, "\n")
	content = strings.TrimSpace(content)
	return compressBlankLines(content)
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 1, so three or more
// line breaks read as a single paragraph break.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// escapeText makes content render literally in Markdown.
// Every ASCII punctuation character is backslash-escaped and leading
// spaces or tabs on each line become non-breaking spaces.
func escapeText(content string) string {
	var b strings.Builder
	b.Grow(len(content) + len(content)/8)

	atLineStart := true
	for _, r := range content {
		switch {
		case r == '\n':
			b.WriteRune(r)
			atLineStart = true
			continue
		case atLineStart && r == ' ':
			b.WriteString(nbsp)
			continue
		case atLineStart && r == '\t':
			b.WriteString(strings.Repeat(nbsp, 4))
			continue
		case isASCIIPunct(r):
			b.WriteByte('\\')
		}
		b.WriteRune(r)
		atLineStart = false
	}
	return b.String()
}

// closeOpenBlocks keeps content from swallowing the markup that follows it.
// A fenced code block left open at the end is terminated. A line opening an
// HTML block that only ends at a closing token (script, pre, style,
// textarea, comment, processing instruction, declaration, CDATA) gets its
// leading '<' escaped when that token never appears.
func closeOpenBlocks(content string) string {
	lines := strings.Split(content, "\n")
	var fence string
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimLeft(line, " ")
		indent := len(line) - len(trimmed)
		if indent > 3 {
			continue
		}
		if fence != "" {
			if strings.HasPrefix(trimmed, fence) && strings.Trim(trimmed, fence[:1]+" \t") == "" {
				fence = ""
			}
			continue
		}
		if f := fenceOpener(trimmed); f != "" {
			fence = f
			continue
		}
		opener, closer := htmlBlockBounds(trimmed)
		if opener == "" {
			continue
		}
		if end := htmlBlockEnd(lines, i, len(opener), closer); end >= 0 {
			i = end
			continue
		}
		lines[i] = line[:indent] + "\\" + trimmed
	}

	content = strings.Join(lines, "\n")
	if fence != "" {
		content += "\n" + fence
	}
	return content
}

// htmlEndTags end an HTML block opened by any of the raw text elements.
var htmlEndTags = []string{"</script>", "</pre>", "</style>", "</textarea>"}

// htmlBlockBounds returns the opening token of an end-token-terminated HTML
// block starting on line and the token that closes it. For raw text
// elements closer is empty and any of htmlEndTags ends the block.
func htmlBlockBounds(line string) (opener, closer string) {
	if !strings.HasPrefix(line, "<") {
		return "", ""
	}
	lower := strings.ToLower(line)
	for _, tag := range []string{"<script", "<pre", "<style", "<textarea"} {
		if !strings.HasPrefix(lower, tag) {
			continue
		}
		rest := lower[len(tag):]
		if rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '>' {
			return tag, ""
		}
	}
	switch {
	case strings.HasPrefix(line, "<!--"):
		return "<!--", "-->"
	case strings.HasPrefix(line, "<?"):
		return "<?", "?>"
	case strings.HasPrefix(line, "<![CDATA["):
		return "<![CDATA[", "]]>"
	case len(line) > 2 && line[1] == '!' && isASCIILetter(line[2]):
		return line[:3], ">"
	}
	return "", ""
}

// htmlBlockEnd returns the index of the line that ends the HTML block opened
// on lines[start], or -1 when the block runs past the end of lines.
func htmlBlockEnd(lines []string, start, openerLen int, closer string) int {
	for i := start; i < len(lines); i++ {
		line := lines[i]
		if i == start {
			line = strings.TrimLeft(line, " ")[openerLen:]
		}
		if closer != "" {
			if strings.Contains(line, closer) {
				return i
			}
			continue
		}
		lower := strings.ToLower(line)
		for _, tag := range htmlEndTags {
			if strings.Contains(lower, tag) {
				return i
			}
		}
	}
	return -1
}

// separatorMarkup renders a record separator. A thematic break (three or
// more of the same '-', '*' or '_', spaces allowed) stays a rule; any other
// text is escaped so it renders literally.
func separatorMarkup(separator string) string {
	if isThematicBreak(separator) {
		return separator
	}
	return escapeText(separator)
}

func isThematicBreak(s string) bool {
	s = strings.NewReplacer(" ", "", "\t", "").Replace(s)
	if len(s) < 3 || strings.Trim(s, s[:1]) != "" {
		return false
	}
	return s[0] == '-' || s[0] == '*' || s[0] == '_'
}

// fenceOpener returns the fence run (``` or ~~~, three or more) that opens
// a code block on line, or "" if line does not open one.
func fenceOpener(line string) string {
	if len(line) < 3 || (line[0] != '`' && line[0] != '~') {
		return ""
	}
	n := 0
	for n < len(line) && line[n] == line[0] {
		n++
	}
	if n < 3 {
		return ""
	}
	if line[0] == '`' && strings.Contains(line[n:], "`") {
		return ""
	}
	return line[:n]
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isASCIIPunct matches the characters CommonMark allows to be backslash-escaped.
func isASCIIPunct(r rune) bool {
	return (r >= '!' && r <= '/') ||
		(r >= ':' && r <= '@') ||
		(r >= '[' && r <= '`') ||
		(r >= '{' && r <= '~')
}
