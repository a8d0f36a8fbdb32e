package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// rateLimiter bounds outgoing model calls per minute.
type rateLimiter struct {
	limiter *rate.Limiter
}

// newRateLimiter creates a limiter allowing requestsPerMinute calls with a
// burst of the same size.
func newRateLimiter(requestsPerMinute int) *rateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}

	every := time.Minute / time.Duration(requestsPerMinute)
	return &rateLimiter{
		limiter: rate.NewLimiter(rate.Every(every), requestsPerMinute),
	}
}

// wait blocks until a call is allowed or the context is canceled.
func (rl *rateLimiter) wait(ctx context.Context) error {
	if err := rl.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter canceled: %w", err)
	}
	return nil
}
