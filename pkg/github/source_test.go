package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajxudir/tagtrack/pkg/fetch"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widget/tags", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			_, _ = w.Write([]byte(`[{"name":"v1.0.0","commit":{"sha":"c1"}}]`))
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/acme/widget/tags?page=2>; rel="next"`, srv.URL))
		_, _ = w.Write([]byte(`[{"name":"v2.0.0","commit":{"sha":"c2"}},{"name":"v1.5.0","commit":{"sha":"c15"}}]`))
	})
	mux.HandleFunc("/repos/acme/widget/git/commits/c2", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sha":"c2","author":{"name":"dev","date":"2024-03-01T10:00:00Z"}}`))
	})
	mux.HandleFunc("/repos/acme/widget/git/commits/nodate", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sha":"nodate","author":{}}`))
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// TestTags tests tag listing across pages.
//
// It verifies:
//   - All pages are concatenated in API order
//   - Names and commit SHAs are decoded
func TestTags(t *testing.T) {
	srv := newServer(t)
	s := NewSource(fetch.New(fetch.WithBackoff(0), fetch.WithTimeout(5*time.Second)), srv.URL, "")

	list, err := s.Tags(context.Background(), "acme/widget")
	require.NoError(t, err)

	names := make([]string, 0, len(list))
	for _, tag := range list {
		names = append(names, tag.Name)
	}
	assert.Equal(t, []string{"v2.0.0", "v1.5.0", "v1.0.0"}, names)
	assert.Equal(t, "c15", list[1].Commit.SHA)
}

// TestTagsNotFound tests the error for an unknown repository.
func TestTagsNotFound(t *testing.T) {
	srv := newServer(t)
	s := NewSource(fetch.New(fetch.WithBackoff(0)), srv.URL+"/", "")

	_, err := s.Tags(context.Background(), "acme/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing tags of acme/missing")
	te, ok := fetch.IsTransportError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, te.StatusCode)
}

// TestCommitDate tests the commit author date lookup.
//
// It verifies:
//   - The author date is returned verbatim
//   - A commit without a date is an error
func TestCommitDate(t *testing.T) {
	srv := newServer(t)
	s := NewSource(fetch.New(fetch.WithBackoff(0)), srv.URL, "")

	date, err := s.CommitDate(context.Background(), "acme/widget", "c2")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T10:00:00Z", date)

	_, err = s.CommitDate(context.Background(), "acme/widget", "nodate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no author date")
}

// TestArchiveURL tests archive URL construction.
func TestArchiveURL(t *testing.T) {
	s := NewSource(nil, "", "")
	assert.Equal(t, "https://github.com/acme/widget/archive/refs/tags/v2.0.0.zip", s.ArchiveURL("acme/widget", "v2.0.0"))

	s = NewSource(nil, "https://ghe.local/api/v3/", "https://ghe.local/")
	assert.Equal(t, "https://ghe.local/acme/widget/archive/refs/tags/1.0.zip", s.ArchiveURL("acme/widget", "1.0"))
	assert.Equal(t, "https://ghe.local/api/v3", s.apiURL)
}
