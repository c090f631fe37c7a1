package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ajxudir/tagtrack/pkg/errors"
	"github.com/ajxudir/tagtrack/pkg/output"
	"github.com/ajxudir/tagtrack/pkg/registry"
)

var listFormatFlag string

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show the tracked packages and their recorded versions",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringVar(&listFormatFlag, "format", "", "Output format: json, csv, xml (default: table)")
}

// runList prints the versions file as a table or a structured document.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Unused
//
// Returns:
//   - error: ExitError when the format is unknown or the file cannot be read
func runList(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(listFormatFlag)
	if err != nil {
		return errors.NewExitError(errors.ExitConfigError, err)
	}

	reg, err := registry.Load(registryFlag)
	if err != nil {
		return errors.NewExitError(errors.ExitFailure, err)
	}

	result := buildListResult(registryFlag, reg)
	w := stdoutFunc()
	if format != output.FormatTable {
		return output.WriteListResult(w, format, result)
	}
	printListTable(w, result)
	return nil
}

func buildListResult(path string, reg *registry.Registry) *output.ListResult {
	result := &output.ListResult{
		Registry: path,
		Date:     reg.Meta.Date,
		Packages: make([]output.ListEntry, 0, len(reg.Versions)),
	}
	for _, name := range reg.Names() {
		rec, _ := reg.Get(name)
		result.Packages = append(result.Packages, output.ListEntry{
			Package:   name,
			Version:   rec.Version,
			Date:      rec.Date,
			SHA256:    rec.SHA256,
			TagFilter: rec.TagFilter,
			Recipe:    rec.Recipe,
		})
	}
	return result
}

// printListTable renders the packages; the filter and recipe columns only
// appear when some package sets them.
func printListTable(w io.Writer, result *output.ListResult) {
	if len(result.Packages) == 0 {
		_, _ = fmt.Fprintf(w, "No packages tracked in %s.\n", result.Registry)
		return
	}

	hasFilter, hasRecipe := false, false
	rows := make([][]string, 0, len(result.Packages))
	for _, p := range result.Packages {
		hasFilter = hasFilter || p.TagFilter != ""
		hasRecipe = hasRecipe || p.Recipe != ""
		rows = append(rows, []string{p.Package, p.Version, orNone(p.Date), orNone(p.TagFilter), orNone(p.Recipe)})
	}

	output.NewTable().
		AddColumn("PACKAGE").
		AddColumn("VERSION").
		AddColumn("DATE").
		AddConditionalColumn("TAG FILTER", hasFilter).
		AddConditionalColumn("RECIPE", hasRecipe).
		Render(w, rows)

	if result.Date != "" {
		_, _ = fmt.Fprintf(w, "\nLast checked: %s\n", result.Date)
	}
}
