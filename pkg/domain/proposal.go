package domain

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Operation tags which node produced a ProposedChange.
type Operation string

const (
	OpLanguage              Operation = "language"
	OpFormat                Operation = "format"
	OpCopyedit              Operation = "copyedit"
	OpUpdateHighlightedText Operation = "updateHighlightedText"
)

// IsTheme reports whether the operation rewrites the whole body.
func (o Operation) IsTheme() bool {
	switch o {
	case OpLanguage, OpFormat, OpCopyedit:
		return true
	}
	return false
}

// Known reports whether the apply node recognizes the operation.
func (o Operation) Known() bool {
	return o.IsTheme() || o == OpUpdateHighlightedText
}

// ChangeMetadata describes where a ProposedChange came from.
type ChangeMetadata struct {
	Operation     Operation `json:"operation"`
	SelectedText  string    `json:"selected_text,omitempty"`
	MarkdownBlock string    `json:"markdown_block,omitempty"`
}

// ProposedChange is a pending edit awaiting a human decision.
// CurrentText is the exact substring expected in the live body.
type ProposedChange struct {
	ID           string         `json:"id"`
	CurrentText  string         `json:"current_text"`
	ProposedText string         `json:"proposed_text"`
	Metadata     ChangeMetadata `json:"metadata"`
	// BaseIndex is the version the proposal was computed against.
	BaseIndex int       `json:"base_index"`
	CreatedAt time.Time `json:"created_at"`
}

// NewProposedChange stamps a proposal with a fresh identifier.
func NewProposedChange(currentText, proposedText string, meta ChangeMetadata, baseIndex int) *ProposedChange {
	return &ProposedChange{
		ID:           uuid.NewString(),
		CurrentText:  currentText,
		ProposedText: proposedText,
		Metadata:     meta,
		BaseIndex:    baseIndex,
		CreatedAt:    time.Now().UTC(),
	}
}

// Clone returns a copy of the proposal.
func (p *ProposedChange) Clone() *ProposedChange {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

// ApplyTo replaces CurrentText in body with ProposedText.
// A highlight edit that recorded its enclosing block only rewrites the first
// match inside that block; every other proposal replaces the first match in body.
func (p *ProposedChange) ApplyTo(body string) (string, error) {
	if p == nil {
		return "", ErrMissingChangeData
	}
	if p.CurrentText == "" || p.ProposedText == "" {
		return "", ErrMissingRequiredData
	}
	if p.Metadata.Operation == OpUpdateHighlightedText && p.Metadata.MarkdownBlock != "" {
		return p.applyInBlock(body)
	}
	if !strings.Contains(body, p.CurrentText) {
		return "", ErrSelectionNotFound
	}
	return strings.Replace(body, p.CurrentText, p.ProposedText, 1), nil
}

func (p *ProposedChange) applyInBlock(body string) (string, error) {
	block := p.Metadata.MarkdownBlock
	start := strings.Index(body, block)
	if start < 0 {
		return "", fmt.Errorf("%w: enclosing block not in body", ErrSelectionNotFound)
	}
	at := strings.Index(block, p.CurrentText)
	if at < 0 {
		return "", fmt.Errorf("%w: selection not in its block", ErrSelectionNotFound)
	}
	at += start
	return body[:at] + p.ProposedText + body[at+len(p.CurrentText):], nil
}

// Decision is the tri-state approval signal.
// It encodes to JSON as null (unset), true (approved) or false (rejected).
type Decision int8

const (
	DecisionUnset Decision = iota
	DecisionApproved
	DecisionRejected
)

// DecisionOf converts a host-supplied boolean into a Decision.
func DecisionOf(approved bool) Decision {
	if approved {
		return DecisionApproved
	}
	return DecisionRejected
}

// IsSet reports whether a decision has been made.
func (d Decision) IsSet() bool {
	return d == DecisionApproved || d == DecisionRejected
}

func (d Decision) String() string {
	switch d {
	case DecisionApproved:
		return "approved"
	case DecisionRejected:
		return "rejected"
	default:
		return "unset"
	}
}

func (d Decision) MarshalJSON() ([]byte, error) {
	switch d {
	case DecisionApproved:
		return []byte("true"), nil
	case DecisionRejected:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (d *Decision) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "null":
		*d = DecisionUnset
	case "true":
		*d = DecisionApproved
	case "false":
		*d = DecisionRejected
	default:
		return fmt.Errorf("invalid approval result %s", data)
	}
	return nil
}
