package app

import (
	"fmt"
	"strings"

	"sheetops/domain/grid"
)

// formatValue renders a cell value for feedback strings. Empty cells render
// as the empty string.
func formatValue(v any) string {
	return grid.KeyString(v)
}

// formatParam renders a raw envelope parameter for feedback strings. JSON
// null renders as "null" so the caller can see what it sent.
func formatParam(v any) string {
	if v == nil {
		return "null"
	}
	return grid.KeyString(v)
}

// cellRef formats a cell address for feedback, e.g.
// "cell at row 2, column B (2,B)".
func cellRef(row, col int) string {
	label := grid.ColumnLabel(col)
	return fmt.Sprintf("cell at row %d, column %s (%d,%s)", row, label, row, label)
}

// rowSummary lists populated row cells as "column A: 'x', column C: 'y'".
func rowSummary(values []grid.Value) string {
	parts := make([]string, 0, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("column %s: '%s'", grid.ColumnLabel(i+1), formatValue(v)))
	}
	return strings.Join(parts, ", ")
}

// columnSummary lists populated column cells as "row 1: 'x', row 3: 'y'".
func columnSummary(values []grid.Value) string {
	parts := make([]string, 0, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("row %d: '%s'", i+1, formatValue(v)))
	}
	return strings.Join(parts, ", ")
}

// quotedList lists populated cells as "'a', 'b'", used when reporting
// removed rows and columns.
func quotedList(values []grid.Value) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("'%s'", formatValue(v)))
	}
	return strings.Join(parts, ", ")
}

// headerList lists every header cell, including empty ones, so the rendering
// preserves column positions.
func headerList(values []grid.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("'%s'", formatValue(v))
	}
	return strings.Join(parts, ", ")
}

// columnID names a column for read_column feedback, echoing the reference
// the caller used; numeric references also carry their letter form.
func columnID(raw any, col int) string {
	switch raw.(type) {
	case int, int64, float64:
		return fmt.Sprintf("column %d (%s)", col, grid.ColumnLabel(col))
	case string:
		return fmt.Sprintf("column %s", raw)
	default:
		return fmt.Sprintf("column %v", raw)
	}
}
