// Package constants provides the status strings and icons shared by the
// checker and the CLI output.
package constants

// Outcome constants name the terminal state of one package check.
const (
	// StatusSkippedBranch indicates the recorded version is a branch name.
	StatusSkippedBranch = "SkippedBranch"

	// StatusSkippedCommitPin indicates the recorded version is a "#sha" pin.
	StatusSkippedCommitPin = "SkippedCommitPin"

	// StatusNoUpdate indicates no newer tag exists (or none was wanted).
	StatusNoUpdate = "NoUpdate"

	// StatusDeclined indicates the user declined the offered update.
	StatusDeclined = "DeclinedByUser"

	// StatusUpdated indicates the record now holds the new version.
	StatusUpdated = "Updated"

	// StatusFailed indicates the check aborted with an error.
	StatusFailed = "Failed"
)

// Placeholder values for display when data is not available.
const (
	// PlaceholderNA is used when a value is not available.
	PlaceholderNA = "#N/A"

	// PlaceholderNone marks an optional field that is not set.
	PlaceholderNone = "-"
)

// DefaultBranchNames are recorded versions that track a branch instead of
// a release.
var DefaultBranchNames = []string{"main", "master"}

// Icon constants for status display.
const (
	// IconSuccess marks an applied update.
	IconSuccess = "🟢"

	// IconInfo marks a package that is current.
	IconInfo = "🔵"

	// IconPinned marks a branch or commit pin.
	IconPinned = "📌"

	// IconDeclined marks an update the user declined.
	IconDeclined = "🟡"

	// IconError marks a failed check.
	IconError = "❌"

	// IconWarn is the warning prefix for messages.
	IconWarn = "⚠️"
)

// StatusIcon returns the display icon of an outcome status.
func StatusIcon(status string) string {
	switch status {
	case StatusUpdated:
		return IconSuccess
	case StatusNoUpdate:
		return IconInfo
	case StatusSkippedBranch, StatusSkippedCommitPin:
		return IconPinned
	case StatusDeclined:
		return IconDeclined
	case StatusFailed:
		return IconError
	default:
		return ""
	}
}
