package ports

import (
	"context"

	"github.com/aretw0/canvas/pkg/domain"
)

// StateStore defines the interface for persisting execution state.
// A suspended run survives between Invoke and Resume only through this store.
type StateStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.State) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.State, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns all active session IDs.
	List(ctx context.Context) ([]string, error)
}

// ArtifactStore gives read access to the versioned document of a session.
type ArtifactStore interface {
	// LoadArtifact returns the artifact of a session.
	// Returns domain.ErrSessionNotFound or domain.ErrNoArtifact.
	LoadArtifact(ctx context.Context, sessionID string) (*domain.Artifact, error)
}
