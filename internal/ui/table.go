// Package ui renders non-interactive terminal output for lin.
package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

// RenderTable formats headers and rows as an aligned, borderless table.
// Column widths are calculated from content. Returns "" when rows is empty.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow && colorEnabled {
				return headerStyle
			}
			return cellStyle
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}
