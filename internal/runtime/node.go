package runtime

import (
	"context"

	"github.com/aretw0/canvas/pkg/domain"
)

// Node identifiers of the revision graph.
const (
	NodeRouter          = "generatePath"
	NodeRewriteTheme    = "rewriteArtifactTheme"
	NodeUpdateHighlight = "updateHighlightedText"
	NodeHumanApprover   = "humanApprover"
	NodeApplyChanges    = "applyApprovedChanges"
	NodeRejectChanges   = "rejectChanges"
	NodeEnd             = "__end__"
)

// Update is the partial state returned by a node.
// Zero fields leave the state as it was.
type Update struct {
	// Artifact replaces the artifact when non-nil.
	Artifact *domain.Artifact
	// Operation tags the commit carried by Artifact.
	Operation domain.Operation
	// Messages are appended to the conversation.
	Messages []domain.Message
	// ClearProposal drops the pending proposal and the decision.
	ClearProposal bool
	// Next names the node to run after this one. Empty ends the run.
	Next string
}

// Outcome is what a node produces: an update, optionally suspending the run.
type Outcome struct {
	Update Update
	// Suspend is non-nil when the node stops the run to await a decision.
	Suspend *domain.Interrupt
}

// NodeFunc is the signature of every graph node.
// Nodes read the state and never mutate it.
type NodeFunc func(ctx context.Context, state *domain.State) (Outcome, error)

func suspendFor(nodeID string, p *domain.ProposedChange) Outcome {
	return Outcome{Suspend: &domain.Interrupt{
		Reason:   "Please review changes",
		NodeID:   nodeID,
		Proposal: p,
	}}
}

// applyUpdate returns a copy of s with u applied.
func applyUpdate(s *domain.State, u Update) *domain.State {
	next := s.Clone()
	if u.Artifact != nil {
		next.Artifact = u.Artifact
	}
	if len(u.Messages) > 0 {
		next.Messages = append(next.Messages, u.Messages...)
	}
	if u.ClearProposal {
		next.Proposal = nil
		next.Approval = domain.DecisionUnset
	}
	next.Next = u.Next
	return next
}
