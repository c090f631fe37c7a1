package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRateLimited is returned when the remote keeps refusing requests with
	// HTTP 403 after every attempt was used.
	ErrRateLimited = errors.New("rate limited by upstream")

	// ErrCircuitOpen is returned while the breaker for a host is open.
	ErrCircuitOpen = errors.New("circuit breaker open")
)

// TransportError reports a non-success HTTP status.
//
// Fields:
//   - StatusCode: The last status received
//   - URL: The requested URL
//   - Body: The first bytes of the response body, for diagnostics
type TransportError struct {
	StatusCode int
	URL        string
	Body       string
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: unexpected status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Is lets a 403 transport error match ErrRateLimited.
func (e *TransportError) Is(target error) bool {
	return target == ErrRateLimited && e.StatusCode == http.StatusForbidden
}

// IsTransportError reports whether err wraps a *TransportError and returns it.
func IsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
