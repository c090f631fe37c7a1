package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/ajxudir/tagtrack/pkg/constants"
	"github.com/ajxudir/tagtrack/pkg/decision"
	"github.com/ajxudir/tagtrack/pkg/output"
)

// printSummaryTable writes one row per checked package followed by the
// outcome counts and the collected warnings.
func printSummaryTable(w io.Writer, summary decision.Summary, committed bool, warns []string) {
	if len(summary.Results) == 0 {
		_, _ = fmt.Fprintln(w, "No packages checked.")
		printWarnings(w, warns)
		return
	}

	rows := make([][]string, 0, len(summary.Results))
	hasErrors := false
	for _, res := range summary.Results {
		msg := resultError(res)
		hasErrors = hasErrors || msg != ""
		rows = append(rows, []string{
			strings.TrimSpace(constants.StatusIcon(string(res.Outcome)) + " " + string(res.Outcome)),
			res.Package,
			orNone(res.OldVersion),
			orNone(res.NewVersion),
			msg,
		})
	}

	_, _ = fmt.Fprintln(w)
	output.NewTable().
		AddColumn("STATUS").
		AddColumn("PACKAGE").
		AddColumn("CURRENT").
		AddColumn("LATEST").
		AddConditionalColumn("ERROR", hasErrors).
		Render(w, rows)

	s := buildCheckResult(summary, committed, nil).Summary
	_, _ = fmt.Fprintf(w, "\n%d package(s): %d updated, %d up to date, %d skipped, %d declined, %d failed\n",
		s.Total, s.Updated, s.UpToDate, s.Skipped, s.Declined, s.Failed)
	if committed {
		_, _ = fmt.Fprintf(w, "%s Committed %d change(s)\n", constants.IconSuccess, len(summary.Changes))
	}
	printWarnings(w, warns)
}

func printWarnings(w io.Writer, warns []string) {
	if len(warns) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)
	for _, msg := range warns {
		_, _ = fmt.Fprintf(w, "%s %s\n", constants.IconWarn, msg)
	}
}

// warningMessages drops the "Warning: " prefix the summary already implies.
func warningMessages(collected []string) []string {
	if len(collected) == 0 {
		return nil
	}
	out := make([]string, 0, len(collected))
	for _, msg := range collected {
		out = append(out, strings.TrimPrefix(msg, "Warning: "))
	}
	return out
}

// buildCheckResult converts a run summary into the structured output type.
func buildCheckResult(summary decision.Summary, committed bool, warns []string) *output.CheckResult {
	result := &output.CheckResult{
		Summary: output.CheckSummary{
			Total:     len(summary.Results),
			Updated:   summary.Count(decision.Updated),
			UpToDate:  summary.Count(decision.NoUpdate),
			Skipped:   summary.Count(decision.SkippedBranch) + summary.Count(decision.SkippedCommitPin),
			Declined:  summary.Count(decision.DeclinedByUser),
			Failed:    summary.Count(decision.Failed),
			Committed: committed,
		},
		Packages: make([]output.CheckEntry, 0, len(summary.Results)),
		Warnings: warns,
	}
	for _, res := range summary.Results {
		result.Packages = append(result.Packages, output.CheckEntry{
			Package:    res.Package,
			Status:     string(res.Outcome),
			OldVersion: res.OldVersion,
			NewVersion: res.NewVersion,
			Error:      resultError(res),
		})
	}
	return result
}

func resultError(res decision.Result) string {
	switch {
	case res.Err != nil:
		return firstLine(res.Err.Error())
	case res.RecipeErr != nil:
		return firstLine(res.RecipeErr.Error())
	default:
		return ""
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func orNone(s string) string {
	if s == "" {
		return constants.PlaceholderNone
	}
	return s
}
