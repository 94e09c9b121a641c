package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]*domain.State
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, state *domain.State) error {
	time.Sleep(2 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.State)
	}
	s.data[sessionID] = state.Clone()
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	time.Sleep(2 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.data[sessionID]; ok {
		return state.Clone(), nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestManager_UpdateSerializes(t *testing.T) {
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "race-test"

	_, err := manager.Create(ctx, id, domain.NewArtifact("t", "v"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	concurrentWrites := 10

	// Each update is a read-modify-write. Without the lock some appends would be lost.
	for i := 0; i < concurrentWrites; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := manager.Update(ctx, id, func(_ context.Context, s *domain.State) (*domain.State, error) {
				next := s.Clone()
				next.Artifact = next.Artifact.Append(domain.NewMarkdownVersion(0, "t", "v"))
				return next, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := manager.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, concurrentWrites+1, state.Artifact.Len())
	assert.Equal(t, concurrentWrites+1, state.Artifact.CurrentIndex)
}

func TestManager_UpdateFailureSavesNothing(t *testing.T) {
	manager := session.NewManager(&SlowStore{})
	ctx := context.Background()

	_, err := manager.Create(ctx, "s", domain.NewArtifact("t", "v"))
	require.NoError(t, err)

	boom := errors.New("boom")
	_, _, err = manager.Update(ctx, "s", func(_ context.Context, s *domain.State) (*domain.State, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	state, err := manager.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, state.Artifact.Len())

	_, _, err = manager.Update(ctx, "missing", func(_ context.Context, s *domain.State) (*domain.State, error) {
		return s, nil
	})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_LoadOrStart(t *testing.T) {
	// Verify atomic creation
	store := &SlowStore{}
	manager := session.NewManager(store)
	ctx := context.Background()
	id := "atomic-init"

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := manager.LoadOrStart(ctx, id, domain.NewArtifact("t", "body"))
			assert.NoError(t, err)
			assert.NotNil(t, state)
		}()
	}
	wg.Wait()

	state, err := manager.Load(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, id, state.SessionID)
	assert.Equal(t, 1, state.Artifact.Len())
}

func TestManager_CreateRejectsDuplicate(t *testing.T) {
	manager := session.NewManager(&SlowStore{})
	ctx := context.Background()

	_, err := manager.Create(ctx, "dup", domain.NewArtifact("t", "a"))
	require.NoError(t, err)

	_, err = manager.Create(ctx, "dup", domain.NewArtifact("t", "b"))
	assert.ErrorIs(t, err, session.ErrSessionExists)
}

func TestManager_LoadArtifact(t *testing.T) {
	manager := session.NewManager(&SlowStore{})
	ctx := context.Background()

	_, err := manager.Create(ctx, "empty", nil)
	require.NoError(t, err)
	_, err = manager.LoadArtifact(ctx, "empty")
	assert.ErrorIs(t, err, domain.ErrNoArtifact)

	_, err = manager.LoadArtifact(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
