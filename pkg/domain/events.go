package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter   EventType = "node_enter"
	EventNodeLeave   EventType = "node_leave"
	EventModelCall   EventType = "model_call"
	EventModelReturn EventType = "model_return"
	EventSuspend     EventType = "suspend"
	EventCommit      EventType = "commit"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// NodeEvent represents entry or exit from a node.
type NodeEvent struct {
	EventBase
	NodeID string `json:"node_id"`
	Err    error  `json:"-"`
}

// ModelEvent represents a model invocation.
type ModelEvent struct {
	EventBase
	NodeID   string        `json:"node_id"`
	Model    string        `json:"model"`
	Duration time.Duration `json:"duration,omitempty"`
	IsError  bool          `json:"is_error,omitempty"`
}

// SuspendEvent is emitted when a run stops to await a decision.
type SuspendEvent struct {
	EventBase
	NodeID     string    `json:"node_id"`
	ProposalID string    `json:"proposal_id"`
	Operation  Operation `json:"operation"`
}

// CommitEvent is emitted when a new content version is appended.
type CommitEvent struct {
	EventBase
	NodeID    string    `json:"node_id"`
	Index     int       `json:"index"`
	Operation Operation `json:"operation,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnNodeEnter   func(context.Context, *NodeEvent)
	OnNodeLeave   func(context.Context, *NodeEvent)
	OnModelCall   func(context.Context, *ModelEvent)
	OnModelReturn func(context.Context, *ModelEvent)
	OnSuspend     func(context.Context, *SuspendEvent)
	OnCommit      func(context.Context, *CommitEvent)
}

// Merge combines two hook sets so both are invoked, h first.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnNodeEnter:   chain(h.OnNodeEnter, other.OnNodeEnter),
		OnNodeLeave:   chain(h.OnNodeLeave, other.OnNodeLeave),
		OnModelCall:   chain(h.OnModelCall, other.OnModelCall),
		OnModelReturn: chain(h.OnModelReturn, other.OnModelReturn),
		OnSuspend:     chain(h.OnSuspend, other.OnSuspend),
		OnCommit:      chain(h.OnCommit, other.OnCommit),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
