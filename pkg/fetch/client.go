// Package fetch retrieves resources from a paginated, rate-limited HTTP API.
//
// A Client issues authenticated GET requests, waits out HTTP 403 rate limits
// with a constant backoff, and follows RFC 8288 "next" links to assemble
// multi-page listings in order.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenk/backoff"
	"github.com/rs/dnscache"

	"github.com/ajxudir/tagtrack/pkg/verbose"
)

const (
	// DefaultTimeout bounds a single request attempt.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxAttempts is the total number of attempts on rate limiting.
	DefaultMaxAttempts = 10

	// DefaultRateLimitWait is the pause after each HTTP 403.
	DefaultRateLimitWait = 60 * time.Second

	// DefaultUserAgent identifies the client to the remote API.
	DefaultUserAgent = "tagtrack"

	errorBodyLimit = 1024
)

// Response is a fully read HTTP response.
type Response struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NextLink returns the absolute URL of the next page, or "".
func (r *Response) NextLink() string {
	return parseNextLink(r.Header.Get("Link"), r.URL)
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", r.URL, err)
	}
	return nil
}

// NotifyFunc is called before each wait on a rate-limited request.
type NotifyFunc func(url string, attempt int, wait time.Duration)

// Client performs GET requests with retry on rate limiting.
type Client struct {
	httpClient  *http.Client
	token       string
	userAgent   string
	maxAttempts int
	wait        time.Duration
	timeout     time.Duration
	breakers    *Breakers
	notify      NotifyFunc
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithToken sets the bearer token sent on every request. Empty disables auth.
func WithToken(token string) Option {
	return func(cl *Client) {
		cl.token = token
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		if ua != "" {
			cl.userAgent = ua
		}
	}
}

// WithMaxAttempts sets the total number of attempts for a rate-limited request.
// Values below 1 are treated as 1.
func WithMaxAttempts(n int) Option {
	return func(cl *Client) {
		if n < 1 {
			n = 1
		}
		cl.maxAttempts = n
	}
}

// WithBackoff sets the wait between rate-limited attempts.
func WithBackoff(d time.Duration) Option {
	return func(cl *Client) {
		if d >= 0 {
			cl.wait = d
		}
	}
}

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

// WithBreaker enables per-host circuit breaking after threshold consecutive
// host failures. A threshold of 0 or less leaves it disabled.
func WithBreaker(threshold int) Option {
	return func(cl *Client) {
		if threshold > 0 {
			cl.breakers = NewBreakers(threshold)
		}
	}
}

// WithNotify registers a callback invoked before every rate-limit wait.
func WithNotify(fn NotifyFunc) Option {
	return func(cl *Client) {
		cl.notify = fn
	}
}

// New creates a Client with the given options.
//
// Defaults: 30s timeout per attempt, 10 attempts, 60s wait after HTTP 403 and
// a transport resolving hosts through a DNS cache.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Transport: newTransport(&dnscache.Resolver{})},
		userAgent:   DefaultUserAgent,
		maxAttempts: DefaultMaxAttempts,
		wait:        DefaultRateLimitWait,
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BreakerState reports the per-host breaker states, or nil when disabled.
func (c *Client) BreakerState() map[string]string {
	if c.breakers == nil {
		return nil
	}
	return c.breakers.State()
}

// Get fetches rawURL and returns the fully read response.
//
// It performs the following operations:
//   - Sends a GET with the bearer token and user agent
//   - On HTTP 403 waits the configured backoff and tries again, up to the
//     configured number of attempts
//   - Fails immediately on any other non-2xx status or on a network error
//
// Parameters:
//   - ctx: Context for cancellation; cancelling aborts a pending wait
//   - rawURL: The absolute URL to fetch
//
// Returns:
//   - *Response: The successful response
//   - error: *TransportError for HTTP failures (a 403 one also matches
//     ErrRateLimited), the context error when cancelled, or a wrapped network error
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	if c.breakers != nil {
		return c.breakers.call(rawURL, func() (*Response, error) {
			return c.get(ctx, rawURL)
		})
	}
	return c.get(ctx, rawURL)
}

func (c *Client) get(ctx context.Context, rawURL string) (*Response, error) {
	var (
		last    *Response
		attempt int
	)

	op := func() error {
		attempt++
		verbose.Request(http.MethodGet, rawURL, attempt)

		resp, err := c.do(ctx, rawURL)
		if err != nil {
			return backoff.Permanent(err)
		}
		last = resp

		switch {
		case resp.StatusCode == http.StatusForbidden:
			return ErrRateLimited
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			return backoff.Permanent(c.transportError(resp))
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.wait), uint64(c.maxAttempts-1)),
		ctx,
	)

	err := backoff.RetryNotify(op, policy, func(_ error, wait time.Duration) {
		verbose.RateLimited(rawURL, http.StatusForbidden, wait)
		if c.notify != nil {
			c.notify(rawURL, attempt, wait)
		}
	})
	if err == nil {
		return last, nil
	}

	if errors.Is(err, ErrRateLimited) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, c.transportError(last)
	}
	return nil, err
}

func (c *Client) do(ctx context.Context, rawURL string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, */*")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}

	return &Response{
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (c *Client) transportError(resp *Response) *TransportError {
	body := resp.Body
	if len(body) > errorBodyLimit {
		body = body[:errorBodyLimit]
	}
	return &TransportError{
		StatusCode: resp.StatusCode,
		URL:        resp.URL,
		Body:       string(body),
	}
}

// GetAll fetches every page of a JSON array listing starting at rawURL.
//
// Pages are fetched one after another by following the rel="next" link until
// it is absent. Items keep page order and in-page order. A next link that was
// already visited ends the walk.
//
// Parameters:
//   - ctx: Context for cancellation
//   - rawURL: URL of the first page
//
// Returns:
//   - []json.RawMessage: The concatenated items of all pages
//   - error: The first fetch or decode error; no partial result is returned
func (c *Client) GetAll(ctx context.Context, rawURL string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	seen := make(map[string]bool)

	for next, page := rawURL, 1; next != ""; page++ {
		if seen[next] {
			verbose.Printf("Pagination loop detected at %s, stopping after %d pages", next, page-1)
			break
		}
		seen[next] = true

		resp, err := c.Get(ctx, next)
		if err != nil {
			return nil, err
		}

		var pageItems []json.RawMessage
		if err := resp.JSON(&pageItems); err != nil {
			return nil, err
		}
		verbose.Printf("Page %d of %s: %d items", page, rawURL, len(pageItems))

		items = append(items, pageItems...)
		next = resp.NextLink()
	}

	return items, nil
}
