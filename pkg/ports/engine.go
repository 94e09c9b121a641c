package ports

import (
	"context"

	"github.com/aretw0/canvas/pkg/domain"
)

// RevisionEngine is the stateless core used by adapters (HTTP, MCP, CLI).
// It never mutates the input state; it returns a new one.
type RevisionEngine interface {
	// Invoke starts a run for the request. The returned state is either
	// terminated (a version was committed) or suspended awaiting a decision.
	Invoke(ctx context.Context, state *domain.State, req domain.Request) (*domain.State, error)

	// Resume continues a suspended run with a decision on the pending proposal.
	Resume(ctx context.Context, state *domain.State, resume domain.Resume) (*domain.State, error)

	// Inspect returns the static graph for introspection.
	Inspect() domain.Graph
}
