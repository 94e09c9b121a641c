package runtime

import (
	"context"
	"strings"

	"github.com/aretw0/canvas/internal/prompt"
	"github.com/aretw0/canvas/pkg/domain"
)

// updateHighlight proposes a replacement for the selected text. It never commits:
// the proposal is applied by applyApprovedChanges after a decision.
func (e *Engine) updateHighlight(ctx context.Context, s *domain.State) (Outcome, error) {
	if s.Approval.IsSet() {
		return Outcome{Update: Update{Next: NodeHumanApprover}}, nil
	}
	h := s.Intent.Highlight
	if !h.Valid() {
		return Outcome{}, domain.ErrMissingHighlight
	}
	if s.Artifact.Len() == 0 {
		return Outcome{}, domain.ErrNoArtifact
	}
	cur, err := s.Artifact.Current()
	if err != nil {
		return Outcome{}, err
	}
	if _, err := cur.Markdown(); err != nil {
		return Outcome{}, err
	}

	request := prompt.DefaultRequest
	if m, ok := s.LastUserMessage(); ok && strings.TrimSpace(m.Content) != "" {
		request = m.Content
	}

	msgs := []domain.Message{
		domain.NewMessage(prompt.SystemRole(e.modelName()), prompt.ForHighlight(*h, "", request)),
	}
	if ctxMsg, ok := prompt.ContextMessage(s.Intent.ContextDocuments); ok {
		msgs = append(msgs, ctxMsg)
	}
	msgs = append(msgs, domain.NewMessage(domain.RoleUser, request))

	text, thinking, err := e.generate(ctx, s, NodeUpdateHighlight, msgs)
	if err != nil {
		return Outcome{}, err
	}
	if !strings.HasSuffix(h.SelectedText, "\n") {
		text = strings.TrimSuffix(text, "\n")
	}

	p := domain.NewProposedChange(h.SelectedText, text, domain.ChangeMetadata{
		Operation:     domain.OpUpdateHighlightedText,
		SelectedText:  h.SelectedText,
		MarkdownBlock: h.MarkdownBlock,
	}, cur.Index)

	out := suspendFor(NodeUpdateHighlight, p)
	out.Update.Messages = thinking
	return out, nil
}

func (e *Engine) modelName() string {
	if e.model == nil {
		return ""
	}
	return e.model.Name()
}
