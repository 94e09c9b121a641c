package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/canvas/pkg/adapters/memory"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}

func TestMemoryStore_BoundedContract(t *testing.T) {
	store := memory.NewStore(memory.WithCapacity(64))
	ports.RunStateStoreContract(t, store)
}

func TestMemoryStore_EvictsLeastRecentlyUsed(t *testing.T) {
	store := memory.NewStore(memory.WithCapacity(2))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a", domain.NewState("a", nil)))
	require.NoError(t, store.Save(ctx, "b", domain.NewState("b", nil)))

	// Touch "a" so "b" becomes the eviction candidate.
	_, err := store.Load(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "c", domain.NewState("c", nil)))

	_, err = store.Load(ctx, "b")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids)
}
