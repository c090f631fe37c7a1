package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// ValidationError is a single invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message string.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationErrors collects every problem found by Validate.
type ValidationErrors []ValidationError

// Error joins the messages, one per line.
func (v ValidationErrors) Error() string {
	lines := make([]string, 0, len(v)+1)
	lines = append(lines, "invalid configuration:")
	for _, e := range v {
		lines = append(lines, "  - "+e.Error())
	}
	return strings.Join(lines, "\n")
}

// Validate checks value ranges and enumerations.
//
// Returns:
//   - error: ValidationErrors listing every invalid field, or nil
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	for field, raw := range map[string]string{"api_url": c.APIURL, "archive_url": c.ArchiveURL} {
		if msg := checkURL(raw); msg != "" {
			add(field, "%s", msg)
		}
	}
	if c.Fetch.Timeout <= 0 {
		add("fetch.timeout", "must be positive, got %s", c.Fetch.Timeout)
	}
	if c.Fetch.MaxAttempts < 1 {
		add("fetch.max_attempts", "must be at least 1, got %d", c.Fetch.MaxAttempts)
	}
	if c.Fetch.RateLimitWait < 0 {
		add("fetch.rate_limit_wait", "must not be negative, got %s", c.Fetch.RateLimitWait)
	}
	if c.Fetch.BreakerThreshold < 0 {
		add("fetch.breaker_threshold", "must not be negative, got %d", c.Fetch.BreakerThreshold)
	}
	for i, b := range c.Branches {
		if strings.TrimSpace(b) == "" {
			add(fmt.Sprintf("branches[%d]", i), "must not be empty")
		}
	}
	switch c.Commit.Backend {
	case BackendExec, BackendGoGit:
	default:
		add("commit.backend", "unknown backend %q (valid: %s, %s)", c.Commit.Backend, BackendExec, BackendGoGit)
	}

	if len(errs) == 0 {
		return nil
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
	return errs
}

func checkURL(raw string) string {
	if raw == "" {
		return "must not be empty"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err.Error()
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Sprintf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "missing host"
	}
	return ""
}
