// Package openai adapts the OpenAI chat completions API to ports.ModelInvoker.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrEmptyChoices is returned when the API answers without any choice.
var ErrEmptyChoices = errors.New("openai: empty choices")

// Config selects the model and credentials.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// MaxRetries is handed to the SDK. Zero disables its built-in retries;
	// wrap the model with the retry package instead.
	MaxRetries int
}

// Model implements ports.ModelInvoker with the official openai-go SDK.
type Model struct {
	client openai.Client
	model  string
}

// New validates cfg and builds a client.
func New(cfg Config, extra ...option.RequestOption) (*Model, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; provide model.api_key")
	}
	if cfg.Model == "" {
		return nil, errors.New("openai model is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	opts = append(opts, extra...)

	return &Model{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

func (m *Model) Name() string { return m.model }

// Invoke sends the conversation as a chat completion.
func (m *Model) Invoke(ctx context.Context, messages []domain.Message, opts ports.InvokeOptions) (ports.ModelResponse, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(m.model),
		Messages: toParams(messages),
	}
	// Reasoning models reject a custom temperature.
	if opts.Temperature != nil && !isReasoningModel(m.model) {
		params.Temperature = openai.Float(*opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return ports.ModelResponse{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ports.ModelResponse{}, ErrEmptyChoices
	}
	return ports.ModelResponse{Content: resp.Choices[0].Message.Content}, nil
}

func toParams(messages []domain.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		// Reasoning traces are kept for the reader, not replayed to the model.
		if msg.Kind == domain.MessageThinking {
			continue
		}
		switch msg.Role {
		case domain.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case domain.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

func isReasoningModel(name string) bool {
	name = strings.ToLower(name)
	for _, prefix := range []string{"o1", "o3", "o4"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
