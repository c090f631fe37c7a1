package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenk/backoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBreakerTripsOnServerErrors tests that repeated 5xx open the breaker.
//
// It verifies:
//   - The breaker opens after the threshold
//   - Further calls fail fast with ErrCircuitOpen without reaching the server
func TestBreakerTripsOnServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(WithBreaker(2))

	for i := 0; i < 2; i++ {
		_, err := c.Get(context.Background(), srv.URL)
		require.Error(t, err)
		_, ok := IsTransportError(err)
		assert.True(t, ok)
	}

	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCircuitOpen))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	for _, state := range c.BreakerState() {
		assert.Equal(t, "open", state)
	}
}

// TestBreakerIgnoresClientErrors tests that 404s do not trip the breaker.
func TestBreakerIgnoresClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(WithBreaker(1))
	for i := 0; i < 3; i++ {
		_, err := c.Get(context.Background(), srv.URL)
		te, ok := IsTransportError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, te.StatusCode)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	states := c.BreakerState()
	require.Len(t, states, 1)
	for _, state := range states {
		assert.Equal(t, "closed", state)
	}
}

type countingBackOff struct {
	calls int32
}

func (b *countingBackOff) NextBackOff() time.Duration {
	atomic.AddInt32(&b.calls, 1)
	return time.Millisecond
}

func (b *countingBackOff) Reset() {}

// TestBreakerHalfOpenTrial tests the trial request of a re-armed breaker.
//
// It verifies:
//   - After the backoff elapses one request reaches the server again
//   - The trial advances the re-arm backoff exactly once
//   - A failed trial reports the server error, not ErrCircuitOpen
func TestBreakerHalfOpenTrial(t *testing.T) {
	bo := &countingBackOff{}
	orig := newBreakerBackOff
	newBreakerBackOff = func() backoff.BackOff { return bo }
	t.Cleanup(func() { newBreakerBackOff = orig })

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(WithBreaker(1))
	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)

	time.Sleep(20 * time.Millisecond)
	before := atomic.LoadInt32(&bo.calls)

	_, err = c.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCircuitOpen))
	te, ok := IsTransportError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, te.StatusCode)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&bo.calls)-before)
}

// TestHostOf tests breaker grouping keys.
func TestHostOf(t *testing.T) {
	assert.Equal(t, "api.github.com", hostOf("https://api.github.com/repos/a/b/tags"))
	assert.Equal(t, "not a url", hostOf("not a url"))
}
