// Package output formats command results as aligned tables or structured
// documents.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Column represents a single table column with its header and current width.
type Column struct {
	Header string
	Width  int
	hidden bool
}

// Table provides a table formatter with dynamic column widths.
// Widths are measured in display columns, so wide runes align correctly.
type Table struct {
	columns   []Column
	separator string
}

// NewTable creates a new table formatter with a two-space separator.
func NewTable() *Table {
	return &Table{
		columns:   make([]Column, 0),
		separator: "  ",
	}
}

// AddColumn adds a column with the given header and returns the table.
//
// The initial width is the display width of the header.
//
// Parameters:
//   - header: The text to display in the column header
//
// Returns:
//   - *Table: The table instance for method chaining
func (t *Table) AddColumn(header string) *Table {
	return t.AddConditionalColumn(header, true)
}

// AddConditionalColumn adds a column that is only rendered when visible.
//
// This is useful for columns that only matter when some row has data, such
// as RECIPE in the list output.
func (t *Table) AddConditionalColumn(header string, visible bool) *Table {
	t.columns = append(t.columns, Column{
		Header: header,
		Width:  DisplayWidth(header),
		hidden: !visible,
	})
	return t
}

// UpdateWidths widens columns to fit a row of values and returns the table.
func (t *Table) UpdateWidths(values ...string) *Table {
	for i, val := range values {
		if i < len(t.columns) {
			if width := DisplayWidth(val); width > t.columns[i].Width {
				t.columns[i].Width = width
			}
		}
	}
	return t
}

// HeaderRow returns the formatted header row string.
func (t *Table) HeaderRow() string {
	var parts []string
	for _, col := range t.columns {
		if !col.hidden {
			parts = append(parts, ToWidth(col.Header, col.Width))
		}
	}
	return strings.TrimRight(strings.Join(parts, t.separator), " ")
}

// SeparatorRow returns a separator row with dashes matching column widths.
func (t *Table) SeparatorRow() string {
	var parts []string
	for _, col := range t.columns {
		if !col.hidden {
			parts = append(parts, strings.Repeat("-", col.Width))
		}
	}
	return strings.Join(parts, t.separator)
}

// FormatRow formats a data row with proper padding for each column and returns the formatted string.
//
// Values for hidden columns are still expected at their position and are
// skipped. Missing trailing values are treated as empty strings. Trailing
// padding is trimmed.
//
// Parameters:
//   - values: One string per column, hidden columns included
//
// Returns:
//   - string: Formatted row with values separated by the separator
func (t *Table) FormatRow(values ...string) string {
	var parts []string
	for i, col := range t.columns {
		if col.hidden {
			continue
		}
		val := ""
		if i < len(values) {
			val = values[i]
		}
		parts = append(parts, ToWidth(val, col.Width))
	}
	return strings.TrimRight(strings.Join(parts, t.separator), " ")
}

// ColumnCount returns the total number of columns including hidden ones.
func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// GetColumnWidth returns the width of a column by index, or 0 when out of range.
func (t *Table) GetColumnWidth(index int) int {
	if index >= 0 && index < len(t.columns) {
		return t.columns[index].Width
	}
	return 0
}

// Fprint outputs the table header and separator to the given writer.
func (t *Table) Fprint(w io.Writer) {
	_, _ = fmt.Fprintln(w, t.HeaderRow())
	_, _ = fmt.Fprintln(w, t.SeparatorRow())
}

// Render writes the header, separator, and every row, sizing columns to fit.
//
// Parameters:
//   - w: Destination writer
//   - rows: Data rows, one string per column
func (t *Table) Render(w io.Writer, rows [][]string) {
	for _, row := range rows {
		t.UpdateWidths(row...)
	}
	t.Fprint(w)
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, t.FormatRow(row...))
	}
}
