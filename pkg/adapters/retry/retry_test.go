package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/canvas/pkg/adapters/retry"
	"github.com/aretw0/canvas/pkg/adapters/scripted"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("503 service unavailable")

func msgs() []domain.Message {
	return []domain.Message{domain.NewMessage(domain.RoleUser, "hi")}
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name       string
		replies    []scripted.Reply
		attempts   int
		want       string
		wantErr    error
		wantCalls  int
		wantDelays []time.Duration
	}{
		{
			name:      "first try succeeds",
			replies:   []scripted.Reply{{Content: "ok"}},
			attempts:  3,
			want:      "ok",
			wantCalls: 1,
		},
		{
			name:       "recovers after transient failures",
			replies:    []scripted.Reply{{Err: errFlaky}, {Err: errFlaky}, {Content: "ok"}},
			attempts:   3,
			want:       "ok",
			wantCalls:  3,
			wantDelays: []time.Duration{10 * time.Millisecond, 20 * time.Millisecond},
		},
		{
			name:       "gives up with last error",
			replies:    []scripted.Reply{{Err: errFlaky}, {Err: errFlaky}},
			attempts:   2,
			wantErr:    errFlaky,
			wantCalls:  2,
			wantDelays: []time.Duration{10 * time.Millisecond},
		},
		{
			name:      "permanent errors are not retried",
			replies:   []scripted.Reply{{Err: retry.Permanent(errFlaky)}, {Content: "never"}},
			attempts:  3,
			wantErr:   errFlaky,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := scripted.New("flaky", nil, scripted.WithReplies(tt.replies...))
			var delays []time.Duration
			m := retry.Wrap(inner, tt.attempts,
				retry.WithBaseDelay(10*time.Millisecond),
				retry.WithSleep(func(ctx context.Context, d time.Duration) error {
					delays = append(delays, d)
					return nil
				}))

			resp, err := m.Invoke(context.Background(), msgs(), ports.InvokeOptions{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, resp.Content)
			}
			assert.Len(t, inner.Calls(), tt.wantCalls)
			assert.Equal(t, tt.wantDelays, delays)
			assert.Equal(t, "flaky", m.Name())
		})
	}
}

func TestRetry_StopsOnCancel(t *testing.T) {
	inner := scripted.New("flaky", nil, scripted.WithReplies(
		scripted.Reply{Err: errFlaky}, scripted.Reply{Content: "late"}))
	ctx, cancel := context.WithCancel(context.Background())

	m := retry.Wrap(inner, 5, retry.WithSleep(func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}))

	_, err := m.Invoke(ctx, msgs(), ports.InvokeOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, inner.Calls(), 1)
}
