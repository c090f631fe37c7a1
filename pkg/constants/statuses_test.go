package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStatusConstants tests the behavior of status constants.
//
// It verifies:
//   - Status constants have the expected string values
//   - Prevents accidental changes to status constant values
func TestStatusConstants(t *testing.T) {
	tests := []struct {
		name     string
		constant string
		expected string
	}{
		{"StatusSkippedBranch", StatusSkippedBranch, "SkippedBranch"},
		{"StatusSkippedCommitPin", StatusSkippedCommitPin, "SkippedCommitPin"},
		{"StatusNoUpdate", StatusNoUpdate, "NoUpdate"},
		{"StatusDeclined", StatusDeclined, "DeclinedByUser"},
		{"StatusUpdated", StatusUpdated, "Updated"},
		{"StatusFailed", StatusFailed, "Failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.constant, "constant %s has unexpected value", tt.name)
		})
	}
}

// TestStatusIcon tests the icon lookup for every outcome.
func TestStatusIcon(t *testing.T) {
	assert.Equal(t, IconSuccess, StatusIcon(StatusUpdated))
	assert.Equal(t, IconInfo, StatusIcon(StatusNoUpdate))
	assert.Equal(t, IconPinned, StatusIcon(StatusSkippedBranch))
	assert.Equal(t, IconPinned, StatusIcon(StatusSkippedCommitPin))
	assert.Equal(t, IconDeclined, StatusIcon(StatusDeclined))
	assert.Equal(t, IconError, StatusIcon(StatusFailed))
	assert.Empty(t, StatusIcon("Unknown"))
}

// TestDefaultBranchNames tests the branch names treated as moving targets.
func TestDefaultBranchNames(t *testing.T) {
	assert.Equal(t, []string{"main", "master"}, DefaultBranchNames)
}
