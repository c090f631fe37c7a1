// Package testutil holds helpers shared by the tagtrack command tests.
package testutil

import (
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// CaptureStdout runs fn with os.Stdout redirected and returns what fn wrote.
func CaptureStdout(t *testing.T, fn func()) string {
	t.Helper()
	return capture(t, &os.Stdout, fn)
}

// CaptureStderr runs fn with os.Stderr redirected and returns what fn wrote.
func CaptureStderr(t *testing.T, fn func()) string {
	t.Helper()
	return capture(t, &os.Stderr, fn)
}

// capture points *stream at a pipe while fn runs. The pipe is drained
// concurrently, so fn may write more than the pipe buffer holds. The stream
// is restored at test cleanup even when fn never returns.
func capture(t *testing.T, stream **os.File, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := *stream
	*stream = w
	restore := sync.OnceFunc(func() {
		*stream = orig
		_ = w.Close()
	})
	t.Cleanup(restore)

	drained := make(chan string, 1)
	go func() {
		var buf strings.Builder
		_, _ = io.Copy(&buf, r)
		_ = r.Close()
		drained <- buf.String()
	}()

	fn()
	restore()
	return <-drained
}
