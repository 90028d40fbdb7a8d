package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mentionlab/benchworker/internal/provider"
)

type nestedStatusErr struct {
	status int
}

func (e *nestedStatusErr) Error() string       { return "request failed" }
func (e *nestedStatusErr) ResponseStatus() int { return e.status }

func TestIsTransient(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limit kind", &provider.APIError{Status: 429, Kind: "rate_limit_error", Message: "slow down"}, true},
		{"overloaded kind", &provider.APIError{Status: 529, Kind: "overloaded_error", Message: "busy"}, true},
		{"direct 429 status", &provider.APIError{Status: 429, Message: "too many requests"}, true},
		{"direct 500 status", &provider.APIError{Status: 500, Message: "boom"}, true},
		{"direct 503 status", &provider.APIError{Status: 503, Message: "unavailable"}, true},
		{"nested response status", &nestedStatusErr{status: 502}, true},
		{"nested response status ok", &nestedStatusErr{status: 200}, false},
		{"message rate limit", errors.New("openai: rate limit exceeded"), true},
		{"message timed out", errors.New("client.Timeout exceeded: request timed out"), true},
		{"message connection", errors.New("connection reset by peer"), true},
		{"message server error", errors.New("upstream server error"), true},
		{"message status phrase", errors.New("request failed with status code: 503"), true},
		{"wrapped transient", fmt.Errorf("generate: %w", &provider.APIError{Status: 500, Message: "oops"}), true},
		{"bad request", &provider.APIError{Status: 400, Kind: "invalid_request_error", Message: "bad input"}, false},
		{"auth failure", &provider.APIError{Status: 401, Kind: "authentication_error", Message: "invalid api key"}, false},
		{"plain permanent", errors.New("invalid api key"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTransient(tc.err); got != tc.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestDoPermanentErrorNoRetry(t *testing.T) {
	calls := 0
	permanent := errors.New("invalid api key")

	err := Do(context.Background(), func() error {
		calls++
		return permanent
	})

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if !errors.Is(err, permanent) {
		t.Errorf("expected the permanent error back, got %v", err)
	}
}

func TestDoTransientExhaustion(t *testing.T) {
	if testing.Short() {
		t.Skip("exercises real backoff sleeps")
	}

	calls := 0
	transient := errors.New("connection refused")

	err := Do(context.Background(), func() error {
		calls++
		return transient
	})

	if calls != MaxAttempts {
		t.Errorf("expected %d calls, got %d", MaxAttempts, calls)
	}
	if !errors.Is(err, transient) {
		t.Errorf("expected the last transient error back, got %v", err)
	}
}

func TestDoTransientThenSuccess(t *testing.T) {
	if testing.Short() {
		t.Skip("exercises real backoff sleeps")
	}

	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		if calls == 1 {
			return errors.New("rate limit hit")
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected success after retry, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestDoCanceledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := Do(ctx, func() error {
		calls++
		cancel()
		return errors.New("connection reset")
	})

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if err == nil {
		t.Error("expected an error")
	}
}
