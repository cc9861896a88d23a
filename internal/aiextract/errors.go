// Package aiextract reaches the external AI extraction boundary: it builds
// the request, walks a fixed model preference order, retries transient
// failures with backoff, and recovers JSON from messy responses. A parse
// failure degrades to zero AI markers; it never panics the pipeline.
package aiextract

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RateLimitError indicates the provider returned HTTP 429. The provider's
// suggested delay is surfaced to the caller; there is no local retry loop
// for rate limits.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

// UnavailableError marks the provider as permanently unavailable for this
// run (the documented non-retryable service code).
type UnavailableError struct {
	Status int
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("provider unavailable (status %d): %v", e.Status, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// modelNotRecognized reports whether a response means "advance to the next
// candidate model": a 404, or a 400 whose message mentions the model.
func modelNotRecognized(status int, body string) bool {
	if status == 404 {
		return true
	}
	return status == 400 && strings.Contains(strings.ToLower(body), "model")
}
