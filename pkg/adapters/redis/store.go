// Package redis stores sessions and session locks in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/canvas/pkg/domain"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "canvas:session:"

// Key layout under the prefix:
//
//	state:<id>   JSON-encoded domain.State, expiring with the session TTL
//	sessions     sorted set of ids scored by expiry (unix seconds)
//	lock:<key>   see Locker
const (
	stateSegment = "state:"
	indexSegment = "sessions"
)

// noExpiry scores sessions saved without a TTL (2100-01-01).
const noExpiry = 4102444800

// Store implements ports.StateStore on Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL expires sessions ttl after their last save. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix replaces DefaultPrefix. An empty prefix is ignored.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New dials address and returns a store owning the connection.
func New(address, password string, db int, opts ...Option) *Store {
	return NewFromClient(backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	}), opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{client: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client exposes the underlying connection so a Locker can share it.
func (s *Store) Client() *backend.Client { return s.client }

// Prefix returns the key namespace in use.
func (s *Store) Prefix() string { return s.prefix }

func (s *Store) stateKey(sessionID string) string { return s.prefix + stateSegment + sessionID }
func (s *Store) indexKey() string                 { return s.prefix + indexSegment }

// Save writes the state and its index entry in one MULTI/EXEC transaction.
func (s *Store) Save(ctx context.Context, sessionID string, state *domain.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	expiry := float64(noExpiry)
	if s.ttl > 0 {
		expiry = float64(time.Now().Add(s.ttl).Unix())
	}

	_, err = s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Set(ctx, s.stateKey(sessionID), data, s.ttl)
		pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: expiry, Member: sessionID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return nil
}

// Load decodes the stored state. Expired and unknown sessions are domain.ErrSessionNotFound.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	data, err := s.client.Get(ctx, s.stateKey(sessionID)).Bytes()
	switch {
	case errors.Is(err, backend.Nil):
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	case err != nil:
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	var state domain.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return &state, nil
}

// Delete removes the session and its index entry. Unknown ids are not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Del(ctx, s.stateKey(sessionID))
		pipe.ZRem(ctx, s.indexKey(), sessionID)
		return nil
	})
	return err
}

// List returns the ids of live sessions in id order, pruning expired index entries.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", now).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired sessions: %w", err)
	}

	ids, err := s.client.ZRangeByScore(ctx, s.indexKey(), &backend.ZRangeBy{Min: "(" + now, Max: "+inf"}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	slices.Sort(ids)
	return ids, nil
}

// Ping checks connectivity, used by readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
