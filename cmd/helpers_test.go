package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ajxudir/tagtrack/pkg/commit"
	"github.com/ajxudir/tagtrack/pkg/registry"
	"github.com/ajxudir/tagtrack/pkg/warnings"
)

type upstreamTag struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

func tag(name, sha string) upstreamTag {
	t := upstreamTag{Name: name}
	t.Commit.SHA = sha
	return t
}

// newUpstream serves tag lists, commits and archives for the given packages.
// Unknown repositories answer 404.
func newUpstream(t *testing.T, repos map[string][]upstreamTag) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasPrefix(path, "/repos/") && strings.HasSuffix(path, "/tags"):
			pkg := strings.TrimSuffix(strings.TrimPrefix(path, "/repos/"), "/tags")
			list, ok := repos[pkg]
			if !ok {
				http.NotFound(w, r)
				return
			}
			_ = json.NewEncoder(w).Encode(list)
		case strings.HasPrefix(path, "/repos/") && strings.Contains(path, "/git/commits/"):
			sha := path[strings.LastIndex(path, "/")+1:]
			_, _ = fmt.Fprintf(w, `{"sha":%q,"author":{"date":"2024-02-02T10:00:00Z"}}`, sha)
		case strings.Contains(path, "/archive/refs/tags/"):
			_, _ = w.Write([]byte("archive:" + path))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// checkEnv is a temporary workspace with a config pointing at the fake
// upstream and a versions file.
type checkEnv struct {
	dir      string
	config   string
	registry string
	stdout   *bytes.Buffer
	warnings *warnings.Collector
}

// setupCheck resets every flag, points the config at srv, and captures output.
func setupCheck(t *testing.T, srv *httptest.Server, registryJSON string) *checkEnv {
	t.Helper()
	dir := t.TempDir()

	env := &checkEnv{
		dir:      dir,
		config:   filepath.Join(dir, "tagtrack.yml"),
		registry: filepath.Join(dir, "versions.json"),
		stdout:   &bytes.Buffer{},
		warnings: &warnings.Collector{},
	}

	cfg := fmt.Sprintf("api_url: %s\narchive_url: %s\nfetch:\n  max_attempts: 2\n  rate_limit_wait: 0s\n", srv.URL, srv.URL)
	require.NoError(t, os.WriteFile(env.config, []byte(cfg), 0o644))
	if registryJSON != "" {
		require.NoError(t, os.WriteFile(env.registry, []byte(registryJSON), 0o644))
	}

	resetFlags()
	oldStdout, oldStdin, oldNow, oldCommitter, oldGetenv, oldSleep, oldPreflight := stdoutFunc, stdinReaderFunc, nowFunc, newCommitterFunc, getenvFunc, sleepFunc, preflightFunc
	stdoutFunc = func() io.Writer { return env.stdout }
	stdinReaderFunc = func() io.Reader { return strings.NewReader("") }
	nowFunc = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	getenvFunc = func(string) string { return "" }
	sleepFunc = func(context.Context, time.Duration) error { return nil }
	preflightFunc = func(...string) error { return nil }
	restoreWarnings := warnings.SetWarningWriter(env.warnings)

	t.Cleanup(func() {
		stdoutFunc, stdinReaderFunc, nowFunc, newCommitterFunc, getenvFunc, sleepFunc, preflightFunc = oldStdout, oldStdin, oldNow, oldCommitter, oldGetenv, oldSleep, oldPreflight
		restoreWarnings()
		resetFlags()
		rootCmd.SetArgs(nil)
	})
	return env
}

// run executes the root command with the workspace's config and registry.
func (e *checkEnv) run(args ...string) error {
	full := append([]string{"-c", e.config, "-f", e.registry}, args...)
	rootCmd.SetArgs(full)
	return ExecuteTest()
}

func (e *checkEnv) load(t *testing.T, path string) *registry.Registry {
	t.Helper()
	reg, err := registry.Load(path)
	require.NoError(t, err)
	return reg
}

func resetFlags() {
	verboseFlag = false
	versionFlag = false
	registryFlag = DefaultRegistryFile
	configFlag = ""
	checkForceFlag = false
	checkTokenFlag = ""
	checkYesFlag = false
	checkOutputFlag = ""
	checkPackageFlag = ""
	checkAddFlag = ""
	checkDelayFlag = 0
	checkCommitFlag = false
	checkRecipesFlag = false
	checkFormatFlag = ""
	listFormatFlag = ""
}

// recordingCommitter captures Commit calls.
type recordingCommitter struct {
	registryFile string
	changes      []commit.Change
	err          error
}

func (c *recordingCommitter) Commit(_ context.Context, registryFile string, changes []commit.Change) error {
	c.registryFile = registryFile
	c.changes = changes
	return c.err
}
