package llm

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxRetries = 5
	baseDelay  = time.Second
)

// requestLimiter paces provider calls and retries rate-limited ones
// with exponential backoff plus jitter.
type requestLimiter struct {
	limiter *rate.Limiter
}

func newRequestLimiter(requestsPerMin float64) *requestLimiter {
	if requestsPerMin <= 0 {
		requestsPerMin = 15
	}
	return &requestLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerMin/60.0), 1),
	}
}

// do runs fn under the rate limit, retrying on 429-style errors
func (l *requestLimiter) do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := l.limiter.Wait(ctx); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRateLimited(err) {
			return err
		}

		delay := baseDelay*(1<<attempt) + time.Duration(rand.Int63n(int64(time.Second)))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit")
}
