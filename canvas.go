package canvas

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/internal/presentation/markdown"
	"github.com/aretw0/canvas/internal/runtime"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
)

// Version is the canvas release, reported by the CLI and the servers.
const Version = "0.4.0"

// ErrNoModel is returned by New when no ModelInvoker is given.
var ErrNoModel = errors.New("canvas: a model is required")

// Engine is the high-level entry point for the canvas library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime     *runtime.Engine
	model       ports.ModelInvoker
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	runtimeOpts []runtime.EngineOption
}

var _ ports.RevisionEngine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks. Repeated calls merge.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithInvokeOptions sets the generation parameters passed on every model call.
func WithInvokeOptions(opts ports.InvokeOptions) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithInvokeOptions(opts))
	}
}

// WithThemeApproval makes theme rewrites suspend for approval like highlight edits.
func WithThemeApproval() Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithThemeApproval())
	}
}

// WithStrictRouting fails requests that select no operation instead of
// falling through to the highlighted-text path.
func WithStrictRouting() Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithStrictRouting())
	}
}

// WithRejectPendingOverwrite refuses new runs while a proposal awaits a decision.
func WithRejectPendingOverwrite() Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithRejectPendingOverwrite())
	}
}

// New initializes a canvas Engine around a model.
func New(model ports.ModelInvoker, opts ...Option) (*Engine, error) {
	if model == nil {
		return nil, ErrNoModel
	}
	eng := &Engine{model: model}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized so the runtime default is not overwritten with nil.
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	eng.logger = eng.logger.With("model", model.Name())

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)

	eng.runtime = runtime.NewEngine(model, runtimeOpts...)
	return eng, nil
}

// Start creates the initial state for a session around a markdown document.
// The title is the document's first heading, or fallbackTitle when it has none.
func (e *Engine) Start(sessionID, body, fallbackTitle string) *domain.State {
	title := markdown.Title(body, fallbackTitle)
	return domain.NewState(sessionID, domain.NewArtifact(title, body))
}

// Invoke starts a run for req. The input state is never mutated.
func (e *Engine) Invoke(ctx context.Context, state *domain.State, req domain.Request) (*domain.State, error) {
	return e.runtime.Invoke(ctx, state, req)
}

// Resume continues a suspended run with a decision on the pending proposal.
func (e *Engine) Resume(ctx context.Context, state *domain.State, resume domain.Resume) (*domain.State, error) {
	return e.runtime.Resume(ctx, state, resume)
}

// Inspect returns the static revision graph for visualization or introspection tools.
func (e *Engine) Inspect() domain.Graph {
	return e.runtime.Inspect()
}

// Model returns the model the engine calls.
func (e *Engine) Model() ports.ModelInvoker {
	return e.model
}
