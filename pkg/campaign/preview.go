package campaign

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const previewPadding = 2

// writePreview frames a rendered message with its recipient and subject as the title
func writePreview(w io.Writer, title, body string) error {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")

	width := utf8.RuneCountInString(title) + 4
	for _, line := range lines {
		if n := utf8.RuneCountInString(line) + previewPadding*2; n > width {
			width = n
		}
	}

	var b strings.Builder
	b.WriteString("╭─ " + title + " ")
	b.WriteString(strings.Repeat("─", width-utf8.RuneCountInString(title)-3))
	b.WriteString("╮\n")

	blank := "│" + strings.Repeat(" ", width) + "│\n"
	b.WriteString(blank)
	for _, line := range lines {
		pad := width - previewPadding - utf8.RuneCountInString(line)
		b.WriteString("│" + strings.Repeat(" ", previewPadding) + line + strings.Repeat(" ", pad) + "│\n")
	}
	b.WriteString(blank)

	b.WriteString("╰" + strings.Repeat("─", width) + "╯\n")

	_, err := fmt.Fprint(w, b.String())
	return err
}
