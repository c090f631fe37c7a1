package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadConfigDefaults tests loading without any config file.
//
// It verifies:
//   - Embedded defaults are used
//   - Source is empty
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://api.github.com", cfg.APIURL)
	assert.Equal(t, "https://github.com", cfg.ArchiveURL)
	assert.Equal(t, "tagtrack", cfg.UserAgent)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 10, cfg.Fetch.MaxAttempts)
	assert.Equal(t, 60*time.Second, cfg.Fetch.RateLimitWait)
	assert.Equal(t, 0, cfg.Fetch.BreakerThreshold)
	assert.Equal(t, []string{"main", "master"}, cfg.Branches)
	assert.Equal(t, BackendExec, cfg.Commit.Backend)
	assert.Empty(t, cfg.Source)
}

// TestLoadConfigLocalFile tests that .tagtrack.yml overrides single keys.
//
// It verifies:
//   - Overridden keys take the file value
//   - Keys absent from the file keep their defaults
//   - Lists are replaced, not appended
func TestLoadConfigLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, LocalConfigName, `
fetch:
  max_attempts: 3
  rate_limit_wait: 5s
branches: [trunk]
commit:
  backend: go-git
`)

	cfg, err := LoadConfig("", dir)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, 3, cfg.Fetch.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Fetch.RateLimitWait)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, []string{"trunk"}, cfg.Branches)
	assert.Equal(t, BackendGoGit, cfg.Commit.Backend)
	assert.Equal(t, "tagtrack", cfg.Commit.AuthorName)
}

// TestLoadConfigExplicitPath tests --config handling.
func TestLoadConfigExplicitPath(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, LocalConfigName, "user_agent: local\n")
	explicit := writeConfig(t, t.TempDir(), "custom.yml", "user_agent: custom\n")

	cfg, err := LoadConfig(explicit, dir)
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.UserAgent)

	_, err = LoadConfig(filepath.Join(dir, "missing.yml"), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

// TestLoadConfigEmptyFile tests that an empty file keeps every default.
func TestLoadConfigEmptyFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "empty.yml", "")

	cfg, err := LoadConfig(path, "")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Fetch.MaxAttempts)
}

// TestLoadConfigErrors tests rejected config files.
func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "invalid yaml", content: "fetch: [", want: "invalid YAML"},
		{name: "unknown key", content: "fetch:\n  retries: 3\n", want: "retries"},
		{name: "bad duration", content: "fetch:\n  timeout: soon\n", want: "invalid YAML"},
		{name: "bad backend", content: "commit:\n  backend: svn\n", want: "commit.backend"},
		{name: "zero attempts", content: "fetch:\n  max_attempts: 0\n", want: "fetch.max_attempts"},
		{name: "bad api url", content: "api_url: ftp://example.com\n", want: "api_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "c.yml", tt.content)
			_, err := LoadConfig(path, "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

// TestLoadConfigTooLarge tests the size limit check.
func TestLoadConfigTooLarge(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "big.yml", "# "+strings.Repeat("x", 64)+"\n")

	err := overlayFile(loadDefaultConfig(), path, 16)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file too large")
}

// TestGetDefaultConfig tests that the embedded YAML decodes cleanly.
func TestGetDefaultConfig(t *testing.T) {
	raw := GetDefaultConfig()
	assert.Contains(t, raw, "api_url:")

	cfg := &Config{}
	require.NoError(t, overlayData(cfg, []byte(raw)))
	assert.NoError(t, cfg.Validate())
}
