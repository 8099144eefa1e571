// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/cockroachdb/errors"
)

// RetryConfig configures how GraphQL requests are retried.
type RetryConfig struct {
	// Attempts is the total number of tries, including the first.
	Attempts int
	// BaseDelay seeds the exponential backoff.
	BaseDelay time.Duration
	// MaxDelay caps the backoff before jitter. Zero means no cap.
	MaxDelay time.Duration
	// RequestTimeout bounds each individual HTTP request.
	RequestTimeout time.Duration
	// Jitter adds a random delay in [0, backoff) to every wait.
	Jitter bool
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts:       5,
		BaseDelay:      200 * time.Millisecond,
		MaxDelay:       60 * time.Second,
		RequestTimeout: 30 * time.Second,
		Jitter:         true,
	}
}

// maxBackoff bounds an uncapped backoff so that doubling and jitter cannot
// overflow time.Duration.
const maxBackoff = time.Duration(math.MaxInt64 / 2)

// Backoff returns the wait after the given failed attempt (1-based):
// BaseDelay doubled for every attempt after the first.
func (c RetryConfig) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	limit := maxBackoff
	if c.MaxDelay > 0 && c.MaxDelay < limit {
		limit = c.MaxDelay
	}
	delay := min(c.BaseDelay, limit)
	for i := 1; i < attempt && delay < limit; i++ {
		if delay > limit/2 {
			delay = limit
			break
		}
		delay *= 2
	}
	if c.Jitter && delay > 0 {
		delay += rand.N(delay)
	}
	return delay
}

// ShouldRetry reports whether err is worth another attempt. Transport
// failures and empty responses are retried; HTTP and decode failures only
// when the response looks transient; GraphQL errors never.
func ShouldRetry(err error) bool {
	var (
		transportErr *TransportError
		emptyErr     *EmptyResponseError
		statusErr    *HTTPStatusError
		decodeErr    *DecodeError
	)
	switch {
	case errors.As(err, &transportErr), errors.As(err, &emptyErr):
		return true
	case errors.As(err, &statusErr):
		return isTransient(statusErr.Status, statusErr.Snippet)
	case errors.As(err, &decodeErr):
		return isTransient(decodeErr.Status, decodeErr.Snippet)
	default:
		return false
	}
}

// withRetry runs fn until it succeeds, fails permanently, or runs out of
// attempts. The last error is returned unchanged.
func (c *Client) withRetry(ctx context.Context, operation string, fn func() error) error {
	attempts := c.retry.Attempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || attempt >= attempts || !ShouldRetry(err) {
			return err
		}
		if ctx.Err() != nil {
			return errors.WithSecondaryError(ctx.Err(), err)
		}

		backoff := c.retry.Backoff(attempt)
		c.logger.Warn("retrying GraphQL request",
			"operation", operation,
			"attempt", attempt,
			"backoff", backoff,
			"error", err)

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return errors.WithSecondaryError(ctx.Err(), err)
		}
	}
}
