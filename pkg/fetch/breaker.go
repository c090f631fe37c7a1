package fetch

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// Breakers keeps one circuit breaker per remote host.
//
// A breaker trips after a number of consecutive host-level failures (network
// errors, 5xx, exhausted rate limits) and re-arms with exponential backoff.
// Client errors such as 404 describe a single package and do not count.
type Breakers struct {
	threshold int64
	mu        sync.RWMutex
	breakers  map[string]*circuit.Breaker
}

// NewBreakers creates a per-host breaker set tripping after threshold
// consecutive failures.
func NewBreakers(threshold int) *Breakers {
	return &Breakers{
		threshold: int64(threshold),
		breakers:  make(map[string]*circuit.Breaker),
	}
}

func (b *Breakers) get(host string) *circuit.Breaker {
	b.mu.RLock()
	breaker, ok := b.breakers[host]
	b.mu.RUnlock()
	if ok {
		return breaker
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if breaker, ok := b.breakers[host]; ok {
		return breaker
	}

	breaker = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    newBreakerBackOff(),
		ShouldTrip: circuit.ThresholdTripFunc(b.threshold),
	})
	b.breakers[host] = breaker
	return breaker
}

// newBreakerBackOff returns the re-arm schedule of a tripped breaker.
var newBreakerBackOff = func() backoff.BackOff {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()
	return expBackoff
}

// call runs fn under the breaker for the host of rawURL.
//
// Readiness is checked by breaker.Call alone; every readiness check of a
// half-open breaker consumes one step of its backoff.
func (b *Breakers) call(rawURL string, fn func() (*Response, error)) (*Response, error) {
	host := hostOf(rawURL)
	breaker := b.get(host)

	var (
		resp      *Response
		clientErr error
	)
	err := breaker.Call(func() error {
		r, err := fn()
		if err != nil && !countsAsHostFailure(err) {
			clientErr = err
			return nil
		}
		resp = r
		return err
	}, 0)
	if clientErr != nil {
		return nil, clientErr
	}
	if errors.Is(err, circuit.ErrBreakerOpen) {
		return nil, fmt.Errorf("%w for %s", ErrCircuitOpen, host)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// State reports "open" or "closed" for every host seen so far.
func (b *Breakers) State() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	states := make(map[string]string, len(b.breakers))
	for host, breaker := range b.breakers {
		if breaker.Tripped() {
			states[host] = "open"
		} else {
			states[host] = "closed"
		}
	}
	return states
}

func countsAsHostFailure(err error) bool {
	te, ok := IsTransportError(err)
	if !ok {
		return true
	}
	return te.StatusCode >= 500 || te.Is(ErrRateLimited)
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		if len(rawURL) > 50 {
			return rawURL[:50]
		}
		return rawURL
	}
	return parsed.Host
}
