package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// colGap is the padding between columns.
const colGap = 2

// RenderTable renders a simple aligned table with a header separator line.
// Headers are rendered with the Header style. Columns are padded to the
// maximum width found in each column across both headers and rows.
func RenderTable(headers []string, rows [][]string) string {
	return RenderTableMax(headers, rows, 0)
}

// RenderTableMax is RenderTable with cells truncated to maxCol visible
// cells. A maxCol of zero or less disables truncation.
func RenderTableMax(headers []string, rows [][]string, maxCol int) string {
	if len(headers) == 0 {
		return ""
	}
	cols := len(headers)

	cell := func(row []string, i int) string {
		if i >= len(row) {
			return ""
		}
		if maxCol > 0 && lipgloss.Width(row[i]) > maxCol {
			return Truncate(row[i], maxCol)
		}
		return row[i]
	}

	// Measure visible width so ANSI styling does not skew alignment.
	widths := make([]int, cols)
	for i := range headers {
		widths[i] = lipgloss.Width(cell(headers, i))
	}
	for _, row := range rows {
		for i := 0; i < cols; i++ {
			if w := lipgloss.Width(cell(row, i)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(row []string, style func(string) string) {
		for i := 0; i < cols; i++ {
			c := cell(row, i)
			pad := max(widths[i]-lipgloss.Width(c), 0)
			b.WriteString(style(c))
			if i < cols-1 {
				b.WriteString(strings.Repeat(" ", pad+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return StyleHeader.Render(s) })
	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return b.String()
}
