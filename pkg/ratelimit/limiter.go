// pkg/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"time"
)

// Limiter counts hits per key in fixed windows.
type Limiter interface {
	// Allow records one hit for key. When the window's limit is exhausted it
	// returns false and the time until the window resets.
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}
