package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecision_JSON(t *testing.T) {
	tests := []struct {
		decision Decision
		encoded  string
	}{
		{DecisionUnset, "null"},
		{DecisionApproved, "true"},
		{DecisionRejected, "false"},
	}

	for _, tt := range tests {
		t.Run(tt.decision.String(), func(t *testing.T) {
			data, err := json.Marshal(tt.decision)
			require.NoError(t, err)
			assert.Equal(t, tt.encoded, string(data))

			var got Decision
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, tt.decision, got)
		})
	}

	var d Decision
	assert.Error(t, json.Unmarshal([]byte(`"yes"`), &d))
}

func TestDecision_StateFieldDecodesNull(t *testing.T) {
	var s State
	require.NoError(t, json.Unmarshal([]byte(`{"session_id":"s","approval_result":null}`), &s))
	assert.False(t, s.Approval.IsSet())

	require.NoError(t, json.Unmarshal([]byte(`{"session_id":"s","approval_result":false}`), &s))
	assert.Equal(t, DecisionRejected, s.Approval)
}

func TestNewProposedChange(t *testing.T) {
	a := NewProposedChange("world", "earth", ChangeMetadata{Operation: OpUpdateHighlightedText}, 1)
	b := NewProposedChange("world", "earth", ChangeMetadata{Operation: OpUpdateHighlightedText}, 1)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID, "every proposal gets its own identifier")
	assert.Equal(t, 1, a.BaseIndex)

	c := a.Clone()
	c.ProposedText = "mars"
	assert.Equal(t, "earth", a.ProposedText)
}

func TestOperation_Classify(t *testing.T) {
	assert.True(t, OpCopyedit.IsTheme())
	assert.False(t, OpUpdateHighlightedText.IsTheme())
	assert.True(t, OpUpdateHighlightedText.Known())
	assert.False(t, Operation("translate").Known())
}

func TestIntent_OperationFirstMatchWins(t *testing.T) {
	assert.Equal(t, OpLanguage, Intent{Language: true, Copyedit: true}.Operation())
	assert.Equal(t, OpFormat, Intent{Format: true, Copyedit: true}.Operation())
	assert.Equal(t, Operation(""), Intent{}.Operation())
	assert.Equal(t, OpCopyedit, IntentFor(OpCopyedit).Operation())
}

func TestProposedChange_ApplyTo(t *testing.T) {
	tests := []struct {
		name    string
		p       *ProposedChange
		body    string
		want    string
		wantErr error
	}{
		{name: "first occurrence only", p: &ProposedChange{CurrentText: "world", ProposedText: "earth"}, body: "world, world", want: "earth, world"},
		{name: "whole body", p: &ProposedChange{CurrentText: "Hello world", ProposedText: "Hi"}, body: "Hello world", want: "Hi"},
		{name: "nil", p: nil, body: "x", wantErr: ErrMissingChangeData},
		{name: "empty proposed", p: &ProposedChange{CurrentText: "x"}, body: "x", wantErr: ErrMissingRequiredData},
		{name: "missing selection", p: &ProposedChange{CurrentText: "mars", ProposedText: "earth"}, body: "Hello world", wantErr: ErrSelectionNotFound},
		{
			name: "highlight stays inside its block",
			p:    &ProposedChange{CurrentText: "world", ProposedText: "earth", Metadata: ChangeMetadata{Operation: OpUpdateHighlightedText, MarkdownBlock: "Hello world"}},
			body: "world peace.\n\nHello world\n\nworld tour",
			want: "world peace.\n\nHello earth\n\nworld tour",
		},
		{
			name:    "highlight block missing",
			p:       &ProposedChange{CurrentText: "world", ProposedText: "earth", Metadata: ChangeMetadata{Operation: OpUpdateHighlightedText, MarkdownBlock: "Goodbye world"}},
			body:    "world peace.\n\nHello world",
			wantErr: ErrSelectionNotFound,
		},
		{
			name:    "highlight selection outside block",
			p:       &ProposedChange{CurrentText: "peace", ProposedText: "calm", Metadata: ChangeMetadata{Operation: OpUpdateHighlightedText, MarkdownBlock: "Hello world"}},
			body:    "world peace.\n\nHello world",
			wantErr: ErrSelectionNotFound,
		},
		{
			name: "theme ignores block",
			p:    &ProposedChange{CurrentText: "world", ProposedText: "earth", Metadata: ChangeMetadata{Operation: OpCopyedit, MarkdownBlock: "Hello world"}},
			body: "world peace.\n\nHello world",
			want: "earth peace.\n\nHello world",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.p.ApplyTo(tt.body)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
