package checker_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creativecheck/internal/checker"
)

func TestNewRateLimitError_DefaultRetryAfter(t *testing.T) {
	err := checker.NewRateLimitError("openai", fmt.Errorf("err"), 0)

	assert.Equal(t, 60*time.Second, err.RetryAfter)
	assert.Equal(t, checker.KindRateLimit, err.Kind)
	assert.Contains(t, err.Error(), "openai rate limited")
}

func TestNewStatusError_Kinds(t *testing.T) {
	tests := []struct {
		status int
		want   checker.Kind
	}{
		{http.StatusUnauthorized, checker.KindAuth},
		{http.StatusForbidden, checker.KindAuth},
		{http.StatusTooManyRequests, checker.KindRateLimit},
		{http.StatusGatewayTimeout, checker.KindTimeout},
		{http.StatusRequestTimeout, checker.KindTimeout},
		{http.StatusBadGateway, checker.KindTransport},
		{http.StatusBadRequest, checker.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := checker.NewStatusError("claude", tt.status, []byte("body"), "")
			assert.Equal(t, tt.want, err.Kind)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.Contains(t, err.Error(), fmt.Sprintf("status %d", tt.status))
		})
	}
}

func TestNewStatusError_RetryAfterHeader(t *testing.T) {
	err := checker.NewStatusError("openai", http.StatusTooManyRequests, nil, "15")
	assert.Equal(t, 15*time.Second, err.RetryAfter)
}

func TestNewTransportError_Timeout(t *testing.T) {
	err := checker.NewTransportError("openai", fmt.Errorf("calling: %w", context.DeadlineExceeded))
	assert.Equal(t, checker.KindTimeout, err.Kind)

	err = checker.NewTransportError("openai", errors.New("connection refused"))
	assert.Equal(t, checker.KindTransport, err.Kind)
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("analyze: %w", checker.NewStatusError("openai", http.StatusUnauthorized, nil, ""))
	assert.Equal(t, checker.KindAuth, checker.KindOf(wrapped))
	assert.Equal(t, checker.KindTimeout, checker.KindOf(context.DeadlineExceeded))
	assert.Equal(t, checker.KindUnknown, checker.KindOf(errors.New("boom")))
}

func TestCallError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying")
	err := checker.NewCallError("gemini", underlying)

	var target *checker.CallError
	require.True(t, errors.As(fmt.Errorf("wrap: %w", err), &target))
	assert.Equal(t, "gemini", target.Provider)
	assert.ErrorIs(t, err, underlying)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, checker.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, checker.ParseRetryAfterHeader("Wed, 21 Oct 2015 07:28:00 GMT"))
	assert.Equal(t, 120, checker.ParseRetryAfterHeader("120"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", checker.Truncate("abc", 5))
	assert.Equal(t, "ab...", checker.Truncate("abcdef", 2))
}
