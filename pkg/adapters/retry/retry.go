// Package retry decorates a ports.ModelInvoker with exponential backoff.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
)

// DefaultBaseDelay is the wait before the second attempt.
const DefaultBaseDelay = 300 * time.Millisecond

// PermanentError marks a failure that must not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so the decorator returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Model retries the wrapped invoker, doubling the delay after each failure.
type Model struct {
	next     ports.ModelInvoker
	attempts int
	base     time.Duration
	logger   *slog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

// Option configures a Model.
type Option func(*Model)

// WithBaseDelay sets the first backoff delay.
func WithBaseDelay(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.base = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// Wrap returns next decorated with up to attempts tries.
// attempts < 1 is treated as a single try.
func Wrap(next ports.ModelInvoker, attempts int, opts ...Option) *Model {
	if attempts < 1 {
		attempts = 1
	}
	m := &Model{
		next:     next,
		attempts: attempts,
		base:     DefaultBaseDelay,
		logger:   logging.NewNop(),
		sleep:    sleepCtx,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Model) Name() string { return m.next.Name() }

func (m *Model) Invoke(ctx context.Context, messages []domain.Message, opts ports.InvokeOptions) (ports.ModelResponse, error) {
	var last error
	for i := 0; i < m.attempts; i++ {
		resp, err := m.next.Invoke(ctx, messages, opts)
		if err == nil {
			return resp, nil
		}

		var perm *PermanentError
		if errors.As(err, &perm) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return ports.ModelResponse{}, err
		}
		last = err

		if i == m.attempts-1 {
			break
		}
		delay := m.base * time.Duration(1<<i)
		m.logger.Warn("model call failed, retrying",
			"model", m.next.Name(), "attempt", i+1, "delay", delay, "err", err)
		if err := m.sleep(ctx, delay); err != nil {
			return ports.ModelResponse{}, err
		}
	}
	return ports.ModelResponse{}, last
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
