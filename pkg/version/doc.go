// Package version turns loosely formatted release strings into comparable keys.
//
// Upstream tags rarely follow a single convention. A project may publish
// "v1.2.3", "release-1_2", "1.2.3+build.7" or "2024.01.15" side by side, so
// parsing is lenient and total:
//
//   - Any leading run of non-digit characters is dropped ("v", "release-").
//   - The delimiters "_", "-" and "+" are treated like ".".
//   - Up to five numeric components are read; anything missing or not a
//     number becomes 0 and anything past the fifth is ignored.
//
// Parse never fails. A string that cannot be understood degrades to the zero
// key and therefore sorts below every real release.
//
// Comparison is plain lexicographic order over the five components:
//
//	version.Compare(version.Parse("v1.10"), version.Parse("1.9.9")) // 1
//	version.NeedsUpdate("1.0.0", "1.0.1")                           // true
package version
