package domain

import "time"

// ExecutionStatus defines the current mode of a run.
type ExecutionStatus string

const (
	StatusActive     ExecutionStatus = "active"     // Routing or generating
	StatusSuspended  ExecutionStatus = "suspended"  // Awaiting an approval decision
	StatusTerminated ExecutionStatus = "terminated" // Run finished
)

// Interrupt is the payload of a suspended run.
type Interrupt struct {
	Reason   string          `json:"reason"`
	NodeID   string          `json:"node_id"`
	Proposal *ProposedChange `json:"proposed_changes"`
}

// State is the snapshot threaded through every node of a run.
// The engine never mutates a State it was handed; nodes return updates
// that are applied to a clone.
type State struct {
	SessionID     string          `json:"session_id"`
	Status        ExecutionStatus `json:"status"`
	CurrentNodeID string          `json:"current_node_id,omitempty"`

	// History tracks the nodes visited across runs.
	History []string `json:"history,omitempty"`

	Artifact *Artifact `json:"artifact,omitempty"`
	Intent   Intent    `json:"intent"`

	Proposal *ProposedChange `json:"proposed_changes,omitempty"`
	Approval Decision        `json:"approval_result,omitempty"`

	Messages []Message `json:"messages,omitempty"`

	// Next is the routing field written by the approval gate.
	Next string `json:"next,omitempty"`

	// Interrupt is set only while Status == StatusSuspended.
	Interrupt *Interrupt `json:"interrupt,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`

	// Sealed carries the encrypted form of a stored state. Only envelopes
	// written by an encrypting store set it.
	Sealed string `json:"sealed,omitempty"`
}

// NewState creates a clean state for a session around an existing artifact.
func NewState(sessionID string, artifact *Artifact) *State {
	return &State{
		SessionID: sessionID,
		Status:    StatusTerminated,
		Artifact:  artifact,
		UpdatedAt: time.Now().UTC(),
	}
}

// IsSuspended reports whether the run is waiting for an approval decision.
func (s *State) IsSuspended() bool {
	return s != nil && s.Status == StatusSuspended && s.Interrupt != nil
}

// LastUserMessage returns the most recent chat message authored by the user.
func (s *State) LastUserMessage() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		m := s.Messages[i]
		if m.Role == RoleUser && m.Kind != MessageStatus {
			return m, true
		}
	}
	return Message{}, false
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.History = append([]string(nil), s.History...)
	out.Messages = append([]Message(nil), s.Messages...)
	out.Artifact = s.Artifact.Clone()
	out.Proposal = s.Proposal.Clone()
	if s.Intent.Highlight != nil {
		h := *s.Intent.Highlight
		out.Intent.Highlight = &h
	}
	out.Intent.ContextDocuments = append([]string(nil), s.Intent.ContextDocuments...)
	if s.Interrupt != nil {
		in := *s.Interrupt
		in.Proposal = s.Interrupt.Proposal.Clone()
		out.Interrupt = &in
	}
	return &out
}
