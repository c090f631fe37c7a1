package output

import (
	"fmt"
	"io"
)

// WriteListResult writes result in a structured format.
//
// Parameters:
//   - w: Destination writer
//   - format: FormatJSON, FormatXML, or FormatCSV
//   - result: The data to write
//
// Returns:
//   - error: For FormatTable or encoding failures
func WriteListResult(w io.Writer, format Format, result *ListResult) error {
	formatter := NewFormatter(format, w)

	switch format {
	case FormatJSON:
		return formatter.WriteJSON(result)
	case FormatXML:
		return formatter.WriteXML(result)
	case FormatCSV:
		rows := make([][]string, 0, len(result.Packages))
		for _, e := range result.Packages {
			rows = append(rows, []string{e.Package, e.Version, e.Date, e.SHA256, e.TagFilter, e.Recipe})
		}
		return formatter.WriteCSV([]string{"PACKAGE", "VERSION", "DATE", "SHA256", "TAG_FILTER", "RECIPE"}, rows)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteCheckResult writes result in a structured format.
func WriteCheckResult(w io.Writer, format Format, result *CheckResult) error {
	formatter := NewFormatter(format, w)

	switch format {
	case FormatJSON:
		return formatter.WriteJSON(result)
	case FormatXML:
		return formatter.WriteXML(result)
	case FormatCSV:
		rows := make([][]string, 0, len(result.Packages))
		for _, e := range result.Packages {
			rows = append(rows, []string{e.Package, e.Status, e.OldVersion, e.NewVersion, e.Error})
		}
		return formatter.WriteCSV([]string{"PACKAGE", "STATUS", "OLD", "NEW", "ERROR"}, rows)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
