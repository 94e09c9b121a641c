package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/canvas/internal/prompt"
	"github.com/aretw0/canvas/pkg/domain"
)

// rewriteTheme applies a language, format or copyedit pass to the whole current version.
// Markdown bodies commit directly unless approval is requested; articles always commit.
func (e *Engine) rewriteTheme(ctx context.Context, s *domain.State) (Outcome, error) {
	if s.Approval.IsSet() {
		return Outcome{Update: Update{Next: NodeHumanApprover}}, nil
	}
	if s.Artifact.Len() == 0 {
		return Outcome{}, domain.ErrNoArtifact
	}
	op := s.Intent.Operation()
	if op == "" {
		return Outcome{}, domain.ErrNoOperationSelected
	}

	cur, err := s.Artifact.Current()
	if err != nil {
		return Outcome{}, err
	}

	switch cur.Kind {
	case domain.KindMarkdown:
		return e.rewriteMarkdown(ctx, s, cur, op)
	case domain.KindArticles:
		return e.rewriteArticles(ctx, s, cur, op)
	default:
		return Outcome{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedContentType, cur.Kind)
	}
}

func (e *Engine) rewriteMarkdown(ctx context.Context, s *domain.State, cur domain.ContentVersion, op domain.Operation) (Outcome, error) {
	text, thinking, err := e.themePass(ctx, s, op, cur.FullMarkdown)
	if err != nil {
		return Outcome{}, err
	}

	if e.themeApproval || s.Intent.RequireApproval {
		p := domain.NewProposedChange(cur.FullMarkdown, text, domain.ChangeMetadata{Operation: op}, cur.Index)
		out := suspendFor(NodeRewriteTheme, p)
		out.Update.Messages = thinking
		return out, nil
	}

	return Outcome{Update: Update{
		Artifact:  s.Artifact.Append(cur.WithMarkdown(text)),
		Operation: op,
		Messages:  thinking,
	}}, nil
}

// rewriteArticles runs the operation on every article in order and appends one
// version holding all of them. Titles and authors are kept.
func (e *Engine) rewriteArticles(ctx context.Context, s *domain.State, cur domain.ContentVersion, op domain.Operation) (Outcome, error) {
	articles := make([]domain.Article, 0, len(cur.Articles))
	var thinking []domain.Message
	for i, a := range cur.Articles {
		text, trace, err := e.themePass(ctx, s, op, a.FullMarkdown)
		if err != nil {
			return Outcome{}, fmt.Errorf("article %d (%s): %w", i+1, a.Title, err)
		}
		a.FullMarkdown = text
		articles = append(articles, a)
		thinking = append(thinking, trace...)
	}

	return Outcome{Update: Update{
		Artifact:  s.Artifact.Append(cur.WithArticles(articles)),
		Operation: op,
		Messages:  thinking,
	}}, nil
}

func (e *Engine) themePass(ctx context.Context, s *domain.State, op domain.Operation, body string) (string, []domain.Message, error) {
	p, err := prompt.ForTheme(op, body)
	if err != nil {
		return "", nil, err
	}
	return e.generate(ctx, s, NodeRewriteTheme, []domain.Message{
		domain.NewMessage(domain.RoleUser, p),
	})
}
