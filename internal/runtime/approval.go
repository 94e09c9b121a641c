package runtime

import (
	"context"

	"github.com/aretw0/canvas/pkg/domain"
)

// humanApprover turns the decision into a route.
func humanApprover(_ context.Context, s *domain.State) (Outcome, error) {
	if !s.Approval.IsSet() {
		return Outcome{}, domain.ErrNoDecision
	}
	status := "Changes approved"
	if s.Approval == domain.DecisionRejected {
		status = "Changes rejected"
	}
	return Outcome{Update: Update{
		Next:     RouteDecision(s.Approval),
		Messages: []domain.Message{domain.NewStatusMessage(domain.RoleUser, status)},
	}}, nil
}

// applyApprovedChanges applies the proposal to the current body and appends the
// result. Highlight edits are anchored on their enclosing block.
func applyApprovedChanges(_ context.Context, s *domain.State) (Outcome, error) {
	p := s.Proposal
	if s.Artifact.Len() == 0 || p == nil {
		return Outcome{}, domain.ErrMissingChangeData
	}
	if p.CurrentText == "" || p.ProposedText == "" {
		return Outcome{}, domain.ErrMissingRequiredData
	}
	if !p.Metadata.Operation.Known() {
		return Outcome{}, domain.ErrUnknownOperation
	}

	cur, err := s.Artifact.Current()
	if err != nil {
		return Outcome{}, err
	}
	body, err := cur.Markdown()
	if err != nil {
		return Outcome{}, err
	}
	updated, err := p.ApplyTo(body)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Update: Update{
		Artifact:      s.Artifact.Append(cur.WithMarkdown(updated)),
		Operation:     p.Metadata.Operation,
		ClearProposal: true,
	}}, nil
}

// rejectChanges drops the proposal and leaves the artifact untouched.
func rejectChanges(_ context.Context, _ *domain.State) (Outcome, error) {
	return Outcome{Update: Update{ClearProposal: true}}, nil
}
