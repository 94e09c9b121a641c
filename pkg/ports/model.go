package ports

import (
	"context"

	"github.com/aretw0/canvas/pkg/domain"
)

// InvokeOptions tunes a single model call. Zero values mean provider defaults.
type InvokeOptions struct {
	Temperature *float64
	MaxTokens   int
}

// ModelResponse is the text returned by a model.
// Thinking holds a reasoning trace when the provider reports one separately.
type ModelResponse struct {
	Content  string
	Thinking string
}

// ModelInvoker is the capability the revision nodes use to reach a language model.
// Credentials and provider selection are the adapter's concern.
type ModelInvoker interface {
	// Invoke sends the ordered messages and returns the model output.
	// It must honor ctx cancellation.
	Invoke(ctx context.Context, messages []domain.Message, opts InvokeOptions) (ModelResponse, error)

	// Name returns the model identifier, used for thinking-model detection and metrics.
	Name() string
}
