package memory

import (
	"context"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aretw0/canvas/pkg/domain"
)

// Store implements ports.StateStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.State
	mu   sync.RWMutex

	// bounded replaces data when a capacity is configured.
	bounded *lru.Cache[string, *domain.State]
}

// Option configures the Store.
type Option func(*Store)

// WithCapacity bounds the store to n sessions, evicting the least recently used.
// n <= 0 keeps the store unbounded.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n <= 0 {
			return
		}
		// lru.New only fails for non-positive sizes.
		cache, _ := lru.New[string, *domain.State](n)
		s.bounded = cache
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		data: make(map[string]*domain.State),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save persists a deep copy of the state in memory.
func (s *Store) Save(ctx context.Context, sessionID string, state *domain.State) error {
	copied := state.Clone()

	if s.bounded != nil {
		s.bounded.Add(sessionID, copied)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load retrieves the state from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	if s.bounded != nil {
		state, ok := s.bounded.Get(sessionID)
		if !ok {
			return nil, domain.ErrSessionNotFound
		}
		return state.Clone(), nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Copy on read so caller can't mutate store state directly by pointer
	return state.Clone(), nil
}

// Delete removes the state.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if s.bounded != nil {
		s.bounded.Remove(sessionID)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns active sessions in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var sessions []string
	if s.bounded != nil {
		sessions = s.bounded.Keys()
	} else {
		s.mu.RLock()
		sessions = make([]string, 0, len(s.data))
		for id := range s.data {
			sessions = append(sessions, id)
		}
		s.mu.RUnlock()
	}
	sort.Strings(sessions)
	return sessions, nil
}
