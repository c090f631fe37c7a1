package decision

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajxudir/tagtrack/pkg/registry"
	"github.com/ajxudir/tagtrack/pkg/tags"
)

func newRegistry() *registry.Registry {
	reg := registry.New()
	reg.Set("acme/widget", &registry.Record{Version: "1.0.0"})
	reg.Set("acme/edge", &registry.Record{Version: "main"})
	reg.Set("zlib/zlib", &registry.Record{Version: "#abc"})
	return reg
}

// TestParseAdd tests splitting of the add spec.
func TestParseAdd(t *testing.T) {
	name, ver, err := ParseAdd("acme/new:1.2")
	require.NoError(t, err)
	assert.Equal(t, "acme/new", name)
	assert.Equal(t, "1.2", ver)

	name, ver, err = ParseAdd("acme/new")
	require.NoError(t, err)
	assert.Equal(t, "acme/new", name)
	assert.Empty(t, ver)

	name, ver, err = ParseAdd("acme/new:v1:extra")
	require.NoError(t, err)
	assert.Equal(t, "acme/new", name)
	assert.Equal(t, "v1:extra", ver)

	_, _, err = ParseAdd(":1.0")
	assert.Error(t, err)
}

// TestRunAll tests a sequential run over the registry.
//
// It verifies:
//   - Packages are checked in sorted order
//   - Each outcome is recorded and changes are collected
//   - The delay is applied between checked packages only
func TestRunAll(t *testing.T) {
	silenceWarnings(t)
	f := newFixture()
	f.source.tags["acme/widget"] = tagList("v2.0.0")

	var sleeps []time.Duration
	r := &Runner{Checker: f.checker, Sleep: func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}}

	summary, err := r.Run(context.Background(), newRegistry(), RunOptions{Options: Options{AutoAccept: true}, Delay: time.Second})
	require.NoError(t, err)

	require.Len(t, summary.Results, 3)
	assert.Equal(t, "acme/edge", summary.Results[0].Package)
	assert.Equal(t, SkippedBranch, summary.Results[0].Outcome)
	assert.Equal(t, Updated, summary.Results[1].Outcome)
	assert.Equal(t, SkippedCommitPin, summary.Results[2].Outcome)

	require.Len(t, summary.Changes, 1)
	assert.Equal(t, "acme/widget", summary.Changes[0].Package)
	assert.Equal(t, 1, summary.Count(Updated))
	assert.Equal(t, 0, summary.Count(Failed))
	assert.Equal(t, []time.Duration{time.Second, time.Second}, sleeps)
}

// TestRunContinuesAfterFailure tests that one failure does not stop the run.
func TestRunContinuesAfterFailure(t *testing.T) {
	silenceWarnings(t)
	f := newFixture()
	f.source.tags["acme/widget"] = nil
	reg := newRegistry()
	reg.Set("zzz/last", &registry.Record{Version: "1.0"})
	f.source.tags["zzz/last"] = tagList("2.0")
	f.source.dates["sha-2.0"] = "2024-01-01T00:00:00Z"

	r := &Runner{Checker: f.checker}
	summary, err := r.Run(context.Background(), reg, RunOptions{Options: Options{AutoAccept: true}})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Count(Failed))
	assert.Equal(t, 1, summary.Count(Updated))
	assert.Equal(t, "2.0", reg.Versions["zzz/last"].Version)
}

// TestRunSinglePackage tests the package restriction.
func TestRunSinglePackage(t *testing.T) {
	silenceWarnings(t)
	f := newFixture()
	r := &Runner{Checker: f.checker}

	summary, err := r.Run(context.Background(), newRegistry(), RunOptions{Package: "zlib/zlib"})
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, "zlib/zlib", summary.Results[0].Package)

	collected := silenceWarnings(t)
	summary, err = r.Run(context.Background(), newRegistry(), RunOptions{Package: "nope/nope"})
	require.NoError(t, err)
	assert.Empty(t, summary.Results)
	require.Len(t, collected.Messages(), 1)
	assert.Contains(t, collected.Messages()[0], "not tracked")
}

// TestRunAdd tests registering a new package.
//
// It verifies:
//   - Only the new package is checked
//   - The record is stored even when the check does not update it
func TestRunAdd(t *testing.T) {
	silenceWarnings(t)
	f := newFixture()
	f.source.tags["acme/new"] = []tags.Tag{{Name: "v3.0", Commit: tags.Commit{SHA: "n3"}}}
	f.source.dates["n3"] = "2024-04-04T00:00:00Z"
	reg := newRegistry()

	r := &Runner{Checker: f.checker}
	summary, err := r.Run(context.Background(), reg, RunOptions{Options: Options{AutoAccept: true}, Add: "acme/new"})
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, Updated, summary.Results[0].Outcome)
	assert.Equal(t, "3.0", reg.Versions["acme/new"].Version)
	assert.Equal(t, "1.0.0", reg.Versions["acme/widget"].Version)

	_, err = r.Run(context.Background(), reg, RunOptions{Add: "acme/pinned:#deadbeef"})
	require.NoError(t, err)
	assert.Equal(t, "#deadbeef", reg.Versions["acme/pinned"].Version)

	_, err = r.Run(context.Background(), reg, RunOptions{Add: ":"})
	assert.Error(t, err)
}

// TestRunCancelled tests that cancellation stops before the next package.
func TestRunCancelled(t *testing.T) {
	silenceWarnings(t)
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())

	r := &Runner{Checker: f.checker, Sleep: func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}}

	summary, err := r.Run(ctx, newRegistry(), RunOptions{Delay: time.Minute})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Len(t, summary.Results, 1)
}

// TestRunnerDefaultSleep tests the built-in timer honours cancellation.
func TestRunnerDefaultSleep(t *testing.T) {
	r := &Runner{}
	require.NoError(t, r.sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.sleep(ctx, time.Hour), context.Canceled)
}
