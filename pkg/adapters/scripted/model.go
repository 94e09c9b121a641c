// Package scripted provides a deterministic ports.ModelInvoker for tests and offline use.
package scripted

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
)

// ErrExhausted is returned when no reply is queued and no responder is set.
var ErrExhausted = errors.New("scripted model has no more replies")

// Reply is one queued model answer.
type Reply struct {
	Content  string
	Thinking string
	Err      error
}

// Responder computes a reply from the prompt when the queue is empty.
type Responder func(msgs []domain.Message) (string, error)

// Model replays queued replies in order.
type Model struct {
	mu        sync.Mutex
	name      string
	replies   []Reply
	responder Responder
	calls     [][]domain.Message
}

// Option configures a Model.
type Option func(*Model)

// WithResponder sets the fallback used once the queue is empty.
func WithResponder(r Responder) Option {
	return func(m *Model) {
		m.responder = r
	}
}

// WithReplies queues full replies.
func WithReplies(replies ...Reply) Option {
	return func(m *Model) {
		m.replies = append(m.replies, replies...)
	}
}

// New creates a scripted model that answers with contents in order.
func New(name string, contents []string, opts ...Option) *Model {
	m := &Model{name: name}
	for _, c := range contents {
		m.replies = append(m.replies, Reply{Content: c})
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewEcho creates a scripted model that returns its input unchanged (see Echo).
func NewEcho(name string) *Model {
	return New(name, nil, WithResponder(Echo))
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) Invoke(ctx context.Context, msgs []domain.Message, _ ports.InvokeOptions) (ports.ModelResponse, error) {
	if err := ctx.Err(); err != nil {
		return ports.ModelResponse{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, append([]domain.Message(nil), msgs...))

	if len(m.replies) > 0 {
		r := m.replies[0]
		m.replies = m.replies[1:]
		return ports.ModelResponse{Content: r.Content, Thinking: r.Thinking}, r.Err
	}
	if m.responder != nil {
		out, err := m.responder(msgs)
		return ports.ModelResponse{Content: out}, err
	}
	return ports.ModelResponse{}, ErrExhausted
}

// Push queues another reply.
func (m *Model) Push(r Reply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, r)
}

// Calls returns the messages of every invocation so far.
func (m *Model) Calls() [][]domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]domain.Message, len(m.calls))
	copy(out, m.calls)
	return out
}

// Echo answers a theme prompt with the artifact body it carries and a
// highlighted-text prompt with the selected text. Anything else is echoed whole.
func Echo(msgs []domain.Message) (string, error) {
	if len(msgs) == 0 {
		return "", nil
	}
	first := msgs[0].Content
	if body, ok := between(first, "<artifact>\n", "\n</artifact>"); ok {
		return body, nil
	}
	if sel, ok := between(first, "# Selected text\n", "\n\n# Text block"); ok {
		return sel, nil
	}
	return msgs[len(msgs)-1].Content, nil
}

func between(s, open, close string) (string, bool) {
	i := strings.Index(s, open)
	if i < 0 {
		return "", false
	}
	rest := s[i+len(open):]
	j := strings.Index(rest, close)
	if j < 0 {
		return "", false
	}
	return rest[:j], true
}
