package domain

import "github.com/google/uuid"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// MessageKind separates chat turns from informational entries.
type MessageKind string

const (
	MessageChat MessageKind = "chat"
	// MessageThinking carries a model reasoning trace. It is never written into the artifact.
	MessageThinking MessageKind = "thinking"
	// MessageStatus carries a short confirmation such as an approval outcome.
	MessageStatus MessageKind = "status"
)

// Message is one entry of the conversation log.
type Message struct {
	ID      string      `json:"id"`
	Role    Role        `json:"role"`
	Content string      `json:"content"`
	Kind    MessageKind `json:"kind,omitempty"`
}

// NewMessage creates a chat message with a fresh ID.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
		Kind:    MessageChat,
	}
}

// NewThinkingMessage wraps a reasoning trace.
func NewThinkingMessage(content string) Message {
	return Message{
		ID:      "thinking-" + uuid.NewString(),
		Role:    RoleAssistant,
		Content: content,
		Kind:    MessageThinking,
	}
}

// NewStatusMessage records a human-readable status line in the log.
func NewStatusMessage(role Role, content string) Message {
	return Message{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
		Kind:    MessageStatus,
	}
}
