package checker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Kind classifies a failed vision call.
type Kind string

const (
	KindTimeout   Kind = "timeout"
	KindAuth      Kind = "auth"
	KindRateLimit Kind = "rate-limit"
	KindTransport Kind = "transport"
	KindUnknown   Kind = "unknown"
)

// CallError is returned by vision providers when a call fails.
type CallError struct {
	Provider   string
	Kind       Kind
	StatusCode int
	RetryAfter time.Duration
	Err        error
}

func (e *CallError) Error() string {
	if e.Kind == KindRateLimit {
		return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("%s %s error: %v", e.Provider, e.Kind, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a rate-limit CallError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *CallError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &CallError{
		Provider:   provider,
		Kind:       KindRateLimit,
		StatusCode: http.StatusTooManyRequests,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Err:        err,
	}
}

// NewStatusError classifies a non-200 API response.
func NewStatusError(provider string, status int, body []byte, retryAfter string) *CallError {
	baseErr := fmt.Errorf("%s API error (status %d): %s", provider, status, Truncate(string(body), 500))
	if status == http.StatusTooManyRequests {
		return NewRateLimitError(provider, baseErr, ParseRetryAfterHeader(retryAfter))
	}
	return &CallError{
		Provider:   provider,
		Kind:       kindForStatus(status),
		StatusCode: status,
		Err:        baseErr,
	}
}

// NewTransportError wraps a failure to reach the API or read its reply.
func NewTransportError(provider string, err error) *CallError {
	kind := KindTransport
	if isTimeout(err) {
		kind = KindTimeout
	}
	return &CallError{Provider: provider, Kind: kind, Err: err}
}

// NewCallError wraps a failure that happened after a successful round trip,
// such as an undecodable or empty reply.
func NewCallError(provider string, err error) *CallError {
	return &CallError{Provider: provider, Kind: KindUnknown, Err: err}
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return KindTimeout
	case status >= 500:
		return KindTransport
	default:
		return KindUnknown
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// KindOf returns the Kind of err. Errors that are not CallErrors are
// classified as timeouts when they carry a deadline, unknown otherwise.
func KindOf(err error) Kind {
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr.Kind
	}
	if isTimeout(err) {
		return KindTimeout
	}
	return KindUnknown
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

// Truncate shortens s to at most maxLen bytes for inclusion in error messages.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
