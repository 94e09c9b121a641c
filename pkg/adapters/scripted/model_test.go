package scripted

import (
	"context"
	"testing"

	"github.com/aretw0/canvas/internal/prompt"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_RepliesInOrder(t *testing.T) {
	m := New("scripted", []string{"one", "two"})
	ctx := context.Background()
	msgs := []domain.Message{domain.NewMessage(domain.RoleUser, "hi")}

	r, err := m.Invoke(ctx, msgs, ports.InvokeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "one", r.Content)

	r, err = m.Invoke(ctx, msgs, ports.InvokeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "two", r.Content)

	_, err = m.Invoke(ctx, msgs, ports.InvokeOptions{})
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Len(t, m.Calls(), 3)
}

func TestModel_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New("scripted", []string{"x"}).Invoke(ctx, nil, ports.InvokeOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEcho(t *testing.T) {
	theme, err := prompt.ForTheme(domain.OpCopyedit, "Hello world")
	require.NoError(t, err)
	got, err := Echo([]domain.Message{domain.NewMessage(domain.RoleUser, theme)})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", got)

	hl := prompt.ForHighlight(domain.Highlight{SelectedText: "world", MarkdownBlock: "Hello world"}, "", "")
	got, err = Echo([]domain.Message{domain.NewMessage(domain.RoleSystem, hl)})
	require.NoError(t, err)
	assert.Equal(t, "world", got)
}
