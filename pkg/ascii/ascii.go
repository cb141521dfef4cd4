// Package ascii provides utilities for formatted terminal output
package ascii

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Box builds a box containing the provided lines and returns it as a string.
// Lines are left-aligned with single-space padding on each side. Multi-width
// runes (emoji, CJK, etc.) are accounted for so the borders stay aligned.
func Box(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	trimmed := make([]string, len(lines))
	maxWidth := 0
	for i, line := range lines {
		trimmed[i] = strings.TrimRight(line, " ")
		if w := StringWidth(trimmed[i]); w > maxWidth {
			maxWidth = w
		}
	}

	leftPadding, rightPadding := 1, 1
	innerWidth := maxWidth + leftPadding + rightPadding
	border := strings.Repeat("─", innerWidth)

	var sb strings.Builder
	sb.WriteString("┌" + border + "┐\n")
	for _, line := range trimmed {
		fill := innerWidth - leftPadding - rightPadding - StringWidth(line)
		if fill < 0 {
			fill = 0
		}
		sb.WriteString("│ " + line + strings.Repeat(" ", fill) + " │\n")
	}
	sb.WriteString("└" + border + "┘\n")
	return sb.String()
}

// DrawBox writes Box(lines) to w.
func DrawBox(w io.Writer, lines []string) {
	_, _ = fmt.Fprint(w, Box(lines))
}

// Columns pads the first column of each row to a common display width so
// the second column lines up.
func Columns(rows [][2]string) []string {
	width := 0
	for _, r := range rows {
		if w := StringWidth(r[0]); w > width {
			width = w
		}
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r[0] + strings.Repeat(" ", width-StringWidth(r[0])) + "  " + r[1]
	}
	return out
}

// TruncateForBox shortens value to at most width display columns, ending
// with an ellipsis when cut.
func TruncateForBox(value string, width int) string {
	if width <= 0 || StringWidth(value) <= width {
		return value
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(value, width, "…")
}

// StringWidth returns the display width of s.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}
