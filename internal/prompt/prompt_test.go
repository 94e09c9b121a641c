package prompt

import (
	"strings"
	"testing"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForTheme(t *testing.T) {
	tests := []struct {
		op       domain.Operation
		contains string
	}{
		{domain.OpLanguage, "changing the language"},
		{domain.OpFormat, "formatting the following artifact"},
		{domain.OpCopyedit, "COPYEDITING PRIMER"},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			got, err := ForTheme(tt.op, "Hello world")
			require.NoError(t, err)
			assert.Contains(t, got, tt.contains)
			assert.Contains(t, got, "<artifact>\nHello world\n</artifact>")
			assert.NotContains(t, got, PlaceholderArtifactContent)
		})
	}
}

func TestForTheme_Errors(t *testing.T) {
	_, err := ForTheme("", "body")
	assert.ErrorIs(t, err, domain.ErrNoOperationSelected)

	_, err = ForTheme(domain.OpUpdateHighlightedText, "body")
	assert.ErrorIs(t, err, domain.ErrUnknownOperation)
}

func TestForTheme_BodyWithPlaceholderIsLiteral(t *testing.T) {
	got, err := ForTheme(domain.OpFormat, "see {artifactContent} here")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(got, "see {artifactContent} here"))
}

func TestForHighlight(t *testing.T) {
	h := domain.Highlight{SelectedText: "world", MarkdownBlock: "Hello world"}

	got := ForHighlight(h, "", "make it planetary")
	assert.Contains(t, got, "# Selected text\nworld\n")
	assert.Contains(t, got, "# Text block\nHello world\n")
	assert.Contains(t, got, "# User request\nmake it planetary\n")

	fallback := ForHighlight(h, "", "  ")
	assert.Contains(t, fallback, "# User request\n"+DefaultRequest+"\n")
}

func TestContextMessage(t *testing.T) {
	_, ok := ContextMessage([]string{"", "  "})
	assert.False(t, ok)

	msg, ok := ContextMessage([]string{"style guide", "glossary"})
	require.True(t, ok)
	assert.Equal(t, domain.RoleUser, msg.Role)
	assert.True(t, strings.HasPrefix(msg.Content, ContextPreamble))
	assert.Contains(t, msg.Content, "style guide\n\nglossary")
}

func TestSystemRole(t *testing.T) {
	assert.Equal(t, domain.RoleUser, SystemRole("o1-mini"))
	assert.Equal(t, domain.RoleSystem, SystemRole("gpt-4o-mini"))
}
