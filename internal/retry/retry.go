// Package retry classifies provider errors as transient or permanent and
// bounds the retry loop around a single provider call. Classification is a
// pure function so it can be tested apart from the sleep mechanics.
package retry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/avast/retry-go"
)

const (
	// MaxAttempts is the provider-call retry budget, including the first try.
	MaxAttempts = 3
	backoffBase = 1 * time.Second
)

// kindTokens match provider error categories like "rate_limit_error" or
// "InternalServerError" once underscores and dashes are stripped.
var kindTokens = []string{
	"ratelimit",
	"timeout",
	"connection",
	"internalserver",
	"serviceunavailable",
	"overloaded",
}

var messageTokens = []string{
	"rate limit",
	"timed out",
	"timeout",
	"connection",
	"temporarily unavailable",
	"server error",
	"status code: 429",
	"status code: 500",
	"status code: 502",
	"status code: 503",
	"status code: 504",
}

type statusCarrier interface {
	HTTPStatus() int
}

type responseStatusCarrier interface {
	ResponseStatus() int
}

type kindCarrier interface {
	ErrorKind() string
}

func transientStatus(status int) bool {
	return status == 429 || status >= 500
}

// IsTransient reports whether an error is worth retrying: a transient error
// category, a 429 or 5xx HTTP status on either attachment point, or a known
// substring in the message. Everything else is permanent.
// Parameters:
//   - err: provider-call error.
// Returns:
//   - bool: true if retrying may succeed.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var kinded kindCarrier
	if errors.As(err, &kinded) {
		kind := strings.ToLower(kinded.ErrorKind())
		kind = strings.NewReplacer("_", "", "-", "").Replace(kind)
		for _, token := range kindTokens {
			if strings.Contains(kind, token) {
				return true
			}
		}
	}

	var direct statusCarrier
	if errors.As(err, &direct) && transientStatus(direct.HTTPStatus()) {
		return true
	}
	var nested responseStatusCarrier
	if errors.As(err, &nested) && transientStatus(nested.ResponseStatus()) {
		return true
	}

	message := strings.ToLower(err.Error())
	for _, token := range messageTokens {
		if strings.Contains(message, token) {
			return true
		}
	}
	return false
}

// Do runs op under the bounded retry policy: up to MaxAttempts attempts with
// exponential backoff (1s, 2s, ...) between transient failures. Permanent
// errors return immediately; exhausting the budget returns the last error.
// Parameters:
//   - ctx: context consulted between attempts; cancellation stops retrying.
//   - op: the guarded call.
// Returns:
//   - error: nil on success, otherwise the final attempt's error.
func Do(ctx context.Context, op func() error) error {
	return retry.Do(
		op,
		retry.Attempts(MaxAttempts),
		retry.Delay(backoffBase),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			if ctx.Err() != nil {
				return false
			}
			return IsTransient(err)
		}),
	)
}
