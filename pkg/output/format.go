package output

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Format is an output format accepted by --format.
type Format string

const (
	// FormatTable is the default human-readable table.
	FormatTable Format = "table"

	// FormatCSV writes comma-separated values with a header row.
	FormatCSV Format = "csv"

	// FormatJSON writes a single JSON document.
	FormatJSON Format = "json"

	// FormatXML writes an XML document with a declaration header.
	FormatXML Format = "xml"
)

// ParseFormat parses s case-insensitively.
//
// Parameters:
//   - s: The format name from the command line
//
// Returns:
//   - Format: The parsed format
//   - error: When s names no known format; empty selects FormatTable
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "xml":
		return FormatXML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: table, csv, json, xml)", s)
	}
}

// Formatter writes structured data in one format.
type Formatter struct {
	format Format
	writer io.Writer
}

// NewFormatter returns a formatter writing to writer.
func NewFormatter(format Format, writer io.Writer) *Formatter {
	return &Formatter{
		format: format,
		writer: writer,
	}
}

// WriteCSV writes headers followed by rows.
func (f *Formatter) WriteCSV(headers []string, rows [][]string) error {
	w := csv.NewWriter(f.writer)

	if err := w.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteJSON writes data as indented JSON.
func (f *Formatter) WriteJSON(data any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteXML writes data as indented XML preceded by the standard header.
func (f *Formatter) WriteXML(data any) error {
	_, _ = fmt.Fprint(f.writer, xml.Header)
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(f.writer)
	return nil
}
