// Package github reads release tags and commit metadata from a GitHub
// compatible REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/ajxudir/tagtrack/pkg/fetch"
	"github.com/ajxudir/tagtrack/pkg/tags"
)

const (
	// DefaultAPIURL is the public GitHub REST endpoint.
	DefaultAPIURL = "https://api.github.com"

	// DefaultArchiveURL is the host serving tag archives.
	DefaultArchiveURL = "https://github.com"
)

// Getter is the subset of fetch.Client used by Source.
type Getter interface {
	Get(ctx context.Context, rawURL string) (*fetch.Response, error)
	GetAll(ctx context.Context, rawURL string) ([]json.RawMessage, error)
}

// Source resolves tags, commit dates and archive URLs for "owner/repo"
// package identifiers.
type Source struct {
	client     Getter
	apiURL     string
	archiveURL string
}

// NewSource creates a Source. Empty base URLs fall back to the public GitHub
// endpoints.
func NewSource(client Getter, apiURL, archiveURL string) *Source {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if archiveURL == "" {
		archiveURL = DefaultArchiveURL
	}
	return &Source{
		client:     client,
		apiURL:     strings.TrimRight(apiURL, "/"),
		archiveURL: strings.TrimRight(archiveURL, "/"),
	}
}

// Tags lists every tag of pkg across all pages, in the order the API returns
// them.
func (s *Source) Tags(ctx context.Context, pkg string) ([]tags.Tag, error) {
	items, err := s.client.GetAll(ctx, fmt.Sprintf("%s/repos/%s/tags", s.apiURL, pkg))
	if err != nil {
		return nil, fmt.Errorf("listing tags of %s: %w", pkg, err)
	}

	out := make([]tags.Tag, 0, len(items))
	for i, raw := range items {
		var t tags.Tag
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("decoding tag %d of %s: %w", i, pkg, err)
		}
		out = append(out, t)
	}
	return out, nil
}

type gitCommit struct {
	Author struct {
		Date string `json:"date"`
	} `json:"author"`
}

// CommitDate returns the author date of a commit as reported by the API.
func (s *Source) CommitDate(ctx context.Context, pkg, sha string) (string, error) {
	resp, err := s.client.Get(ctx, fmt.Sprintf("%s/repos/%s/git/commits/%s", s.apiURL, pkg, url.PathEscape(sha)))
	if err != nil {
		return "", fmt.Errorf("fetching commit %s of %s: %w", sha, pkg, err)
	}

	var c gitCommit
	if err := resp.JSON(&c); err != nil {
		return "", err
	}
	if c.Author.Date == "" {
		return "", fmt.Errorf("commit %s of %s has no author date", sha, pkg)
	}
	return c.Author.Date, nil
}

// ArchiveURL returns the zip archive URL of a tag.
func (s *Source) ArchiveURL(pkg, tag string) string {
	return fmt.Sprintf("%s/%s/archive/refs/tags/%s.zip", s.archiveURL, pkg, tag)
}
