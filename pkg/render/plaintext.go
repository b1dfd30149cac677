package render

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	brTag      = regexp.MustCompile(`(?i)<\s*br\s*/?\s*>`)
	pClose     = regexp.MustCompile(`(?i)<\s*/\s*p\s*>`)
	divClose   = regexp.MustCompile(`(?i)<\s*/\s*div\s*>`)
	liClose    = regexp.MustCompile(`(?i)<\s*/\s*li\s*>`)
	liOpen     = regexp.MustCompile(`(?i)<\s*li\b[^>]*>`)
	blankLines = regexp.MustCompile(`\n{3,}`)

	stripPolicy = bluemonday.StrictPolicy()
)

// PlainText converts an HTML fragment into readable plaintext
func PlainText(markup string) string {
	text := brTag.ReplaceAllString(markup, "\n")
	text = pClose.ReplaceAllString(text, "\n\n")
	text = divClose.ReplaceAllString(text, "\n")
	text = liClose.ReplaceAllString(text, "\n")
	text = liOpen.ReplaceAllString(text, "- ")

	// StrictPolicy drops every tag and escapes the remaining text
	text = html.UnescapeString(stripPolicy.Sanitize(text))
	text = strings.ReplaceAll(text, "\u00a0", " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	text = strings.Join(lines, "\n")

	return strings.TrimSpace(blankLines.ReplaceAllString(text, "\n\n"))
}
