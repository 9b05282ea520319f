package listview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderFunc renders one item at the given width. The returned string may
// span multiple lines; the list normalizes it to the fixed row height.
type RenderFunc[T any] func(item T, selected bool, width int) string

// normalizeRow forces rendered content to exactly height lines of at most
// width cells. The fixed row height is what makes the window arithmetic
// exact: every row occupies estimatedRowHeight cells, no remeasurement loop.
func normalizeRow(content string, height, width int) []string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = truncateLine(line, width)
		}
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

// truncateLine cuts a line to the given display width.
func truncateLine(line string, width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	w := 0
	for _, r := range line {
		rw := lipgloss.Width(string(r))
		if w+rw > width {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String()
}
