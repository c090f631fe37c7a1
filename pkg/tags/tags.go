// Package tags holds the upstream tag model and the selection of the best
// release tag among a fetched tag list.
package tags

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/ajxudir/tagtrack/pkg/version"
)

// Commit is the commit reference embedded in a tag listing.
type Commit struct {
	SHA string `json:"sha"`
	URL string `json:"url,omitempty"`
}

// Tag is one entry of a remote tag list.
type Tag struct {
	Name   string `json:"name"`
	Commit Commit `json:"commit"`
}

// Key returns the parsed version key of the tag name.
func (t Tag) Key() version.Key {
	return version.Parse(t.Name)
}

// Version returns the tag name with its non-numeric prefix removed.
func (t Tag) Version() string {
	return version.Trim(t.Name)
}

// Filter keeps the tags whose name matches pattern at the start of the name.
//
// It performs the following operations:
//   - Returns tags unchanged when pattern is empty
//   - Compiles pattern anchored at position 0 (prefix match, not full match)
//   - Keeps matching tags in their original relative order
//
// Parameters:
//   - tags: The fetched tag list
//   - pattern: A regular expression; "" disables filtering
//
// Returns:
//   - []Tag: The retained tags
//   - error: When pattern does not compile
func Filter(tags []Tag, pattern string) ([]Tag, error) {
	if pattern == "" {
		return tags, nil
	}

	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid tag filter %q: %w", pattern, err)
	}

	filtered := make([]Tag, 0, len(tags))
	for _, t := range tags {
		if re.MatchString(t.Name) {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// SortDescending returns a copy of tags ordered from newest to oldest.
//
// Tags whose names parse to the same key keep their input order, so "1.0.0"
// and "v1.0.0" are ranked by whichever the remote listed first.
func SortDescending(tags []Tag) []Tag {
	type ranked struct {
		tag Tag
		key version.Key
	}

	entries := make([]ranked, len(tags))
	for i, t := range tags {
		entries[i] = ranked{tag: t, key: t.Key()}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return version.Compare(entries[i].key, entries[j].key) > 0
	})

	sorted := make([]Tag, len(entries))
	for i, e := range entries {
		sorted[i] = e.tag
	}
	return sorted
}

// Best returns the highest ranked tag, or false when tags is empty.
func Best(tags []Tag) (Tag, bool) {
	if len(tags) == 0 {
		return Tag{}, false
	}
	return SortDescending(tags)[0], true
}
