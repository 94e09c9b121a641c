// Package gemini adapts the Google Gen AI SDK to ports.ModelInvoker.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
	genai "google.golang.org/genai"
)

// ErrEmptyCandidates is returned when the API answers without content.
var ErrEmptyCandidates = errors.New("gemini: empty candidates")

// Config selects the model and credentials.
// An empty APIKey lets the SDK read GOOGLE_API_KEY / GEMINI_API_KEY.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Model implements ports.ModelInvoker on top of genai.Models.GenerateContent.
type Model struct {
	cli   *genai.Client
	model string
}

func New(ctx context.Context, cfg Config) (*Model, error) {
	if cfg.Model == "" {
		return nil, errors.New("gemini model is required")
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Model{cli: cli, model: cfg.Model}, nil
}

func (m *Model) Name() string { return m.model }

// Invoke maps system messages to the system instruction and the rest to contents.
// Parts flagged as thoughts are returned as Thinking.
func (m *Model) Invoke(ctx context.Context, messages []domain.Message, opts ports.InvokeOptions) (ports.ModelResponse, error) {
	system, contents := toContents(messages)

	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if opts.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}

	resp, err := m.cli.Models.GenerateContent(ctx, m.model, contents, cfg)
	if err != nil {
		return ports.ModelResponse{}, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ports.ModelResponse{}, ErrEmptyCandidates
	}

	var text, thought strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.Thought {
			thought.WriteString(part.Text)
			continue
		}
		text.WriteString(part.Text)
	}
	return ports.ModelResponse{Content: text.String(), Thinking: thought.String()}, nil
}

func toContents(messages []domain.Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		switch {
		case msg.Kind == domain.MessageThinking:
			continue
		case msg.Role == domain.RoleSystem:
			system = append(system, msg.Content)
		case msg.Role == domain.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	return strings.Join(system, "\n\n"), contents
}
