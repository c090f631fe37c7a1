package version

import (
	"golang.org/x/mod/semver"
)

// Compare orders two keys component by component, left to right.
//
// Parameters:
//   - a: The first key
//   - b: The second key
//
// Returns:
//   - int: -1 if a < b, 0 if a == b, 1 if a > b
func Compare(a, b Key) int {
	for i := 0; i < Components; i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// CompareStrings parses both strings and compares the resulting keys.
func CompareStrings(a, b string) int {
	return Compare(Parse(a), Parse(b))
}

// NeedsUpdate reports whether candidate is strictly newer than recorded.
//
// Equal keys never need an update, even when the raw strings differ
// ("1.0" and "v1.0.0" are the same release).
//
// Parameters:
//   - recorded: The version currently stored for the package
//   - candidate: The version derived from the best upstream tag
//
// Returns:
//   - bool: true when recorded sorts before candidate
func NeedsUpdate(recorded, candidate string) bool {
	return CompareStrings(recorded, candidate) < 0
}

// IsPrerelease reports whether raw reads as a semver pre-release such as
// "v2.0.0-rc.1". The numeric key ignores pre-release labels, so callers use
// this only to warn about a selection, never to reorder it.
func IsPrerelease(raw string) bool {
	s := Trim(raw)
	if s == "" {
		return false
	}
	v := "v" + s
	if !semver.IsValid(v) {
		return false
	}
	return semver.Prerelease(v) != ""
}
