package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock obtained from a DistributedLocker.
// Releasing a lock that already expired, or was taken over, is a no-op.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes work on a key across processes, so replicas
// sharing one store never interleave updates of the same session.
type DistributedLocker interface {
	// Lock waits until key is free or ctx is done. The lock lapses after ttl
	// if the holder dies without calling the returned UnlockFunc.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
