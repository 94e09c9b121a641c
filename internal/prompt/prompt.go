package prompt

import (
	"fmt"
	"strings"

	"github.com/aretw0/canvas/pkg/domain"
)

// ForTheme returns the rewrite prompt for a theme operation with body substituted.
func ForTheme(op domain.Operation, body string) (string, error) {
	var tmpl string
	switch op {
	case domain.OpLanguage:
		tmpl = ChangeLanguage
	case domain.OpFormat:
		tmpl = ChangeFormat
	case domain.OpCopyedit:
		tmpl = Copyedit
	case "":
		return "", domain.ErrNoOperationSelected
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownOperation, op)
	}
	return strings.NewReplacer(PlaceholderArtifactContent, body).Replace(tmpl), nil
}

// ForHighlight returns the highlighted-text prompt.
// An empty request falls back to DefaultRequest.
func ForHighlight(h domain.Highlight, info, request string) string {
	if strings.TrimSpace(request) == "" {
		request = DefaultRequest
	}
	r := strings.NewReplacer(
		PlaceholderHighlightedText, h.SelectedText,
		PlaceholderTextBlocks, h.MarkdownBlock,
		PlaceholderInfo, info,
		PlaceholderRequest, request,
	)
	return r.Replace(UpdateHighlighted)
}

// ContextMessage folds plain-text context documents into a single user message.
// It returns false when there is nothing to send.
func ContextMessage(docs []string) (domain.Message, bool) {
	var parts []string
	for _, d := range docs {
		if d = strings.TrimSpace(d); d != "" {
			parts = append(parts, d)
		}
	}
	if len(parts) == 0 {
		return domain.Message{}, false
	}

	var sb strings.Builder
	sb.WriteString(ContextPreamble)
	for _, p := range parts {
		sb.WriteString("\n\n")
		sb.WriteString(p)
	}
	return domain.NewMessage(domain.RoleUser, sb.String()), true
}

// SystemRole returns the role the instruction prompt is sent with.
// Models that reject system messages (o1-mini) receive it as a user turn.
func SystemRole(model string) domain.Role {
	if strings.Contains(strings.ToLower(model), "o1-mini") {
		return domain.RoleUser
	}
	return domain.RoleSystem
}
