package retry

import (
	"context"
	"time"
)

// WithSleep replaces the backoff wait, letting tests record delays.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(m *Model) {
		m.sleep = fn
	}
}
