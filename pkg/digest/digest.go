// Package digest fingerprints downloaded archives.
package digest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/ajxudir/tagtrack/pkg/fetch"
	"github.com/ajxudir/tagtrack/pkg/verbose"
)

// Getter is the single-request primitive of fetch.Client.
type Getter interface {
	Get(ctx context.Context, rawURL string) (*fetch.Response, error)
}

// Fetcher downloads a resource and returns its SHA-256 digest.
type Fetcher struct {
	client Getter
}

// NewFetcher creates a Fetcher using client for downloads, so archive
// downloads follow the same rate-limit retry policy as API calls.
func NewFetcher(client Getter) *Fetcher {
	return &Fetcher{client: client}
}

// Digest downloads rawURL and returns the lowercase hex SHA-256 of its body.
func (f *Fetcher) Digest(ctx context.Context, rawURL string) (string, error) {
	resp, err := f.client.Get(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	sum := Sum(resp.Body)
	verbose.Printf("sha256 of %s (%d bytes): %s", rawURL, len(resp.Body), sum)
	return sum, nil
}

// Sum returns the lowercase hex SHA-256 of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
