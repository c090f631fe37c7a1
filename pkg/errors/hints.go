package errors

import (
	"strings"
)

// ErrorHint provides actionable resolution hints for common errors.
//
// Fields:
//   - Pattern: Substring to match in error message (case-insensitive)
//   - Hint: Brief description of the issue
//   - Resolution: Command or action to resolve the issue
type ErrorHint struct {
	Pattern    string
	Hint       string
	Resolution string
}

// CommonErrorHints is checked in order; the first matching pattern wins.
var CommonErrorHints = []ErrorHint{
	{
		Pattern:    "status 403",
		Hint:       "API rate limit exhausted",
		Resolution: "pass --token or set TOKEN to raise the limit, or retry later",
	},
	{
		Pattern:    "status 401",
		Hint:       "Token rejected",
		Resolution: "check the value of --token or TOKEN",
	},
	{
		Pattern:    "status 404",
		Hint:       "Repository or tag not found",
		Resolution: "check the package name (owner/repo) in the registry",
	},
	{
		Pattern:    "circuit breaker open",
		Hint:       "Host failed repeatedly and is paused",
		Resolution: "retry later or raise fetch.breaker_threshold",
	},
	{
		Pattern:    "no such host",
		Hint:       "DNS lookup failed",
		Resolution: "check network access and api_url in the config",
	},
	{
		Pattern:    "invalid tag filter",
		Hint:       "tag_filter is not a valid regular expression",
		Resolution: "fix tag_filter for this package in the registry",
	},
	{
		Pattern:    "repository does not exist",
		Hint:       "Not inside a git repository",
		Resolution: "run from a git checkout or omit --commit",
	},
	{
		Pattern:    "executable file not found",
		Hint:       "git is not installed",
		Resolution: "install git or set commit.backend: go-git",
	},
}

// GetHint returns the hint and resolution for err, or "" when none matches.
func GetHint(err error) string {
	if err == nil {
		return ""
	}

	errStr := strings.ToLower(err.Error())
	for _, hint := range CommonErrorHints {
		if strings.Contains(errStr, strings.ToLower(hint.Pattern)) {
			return hint.Hint + ": " + hint.Resolution
		}
	}

	return ""
}

// EnhanceErrorWithHint adds actionable hints to an error message if a matching pattern is found.
//
// Parameters:
//   - err: The error to enhance
//
// Returns:
//   - string: Error message with hint appended if found, otherwise just the error message
func EnhanceErrorWithHint(err error) string {
	if err == nil {
		return ""
	}

	errStr := err.Error()
	if hint := GetHint(err); hint != "" {
		return errStr + "\n  \U0001F4A1 " + hint
	}
	return errStr
}
