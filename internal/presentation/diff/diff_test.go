package diff

import (
	"testing"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	got := Lines("one\ntwo\nthree\n", "one\n2\nthree\n")
	assert.Equal(t, []Line{
		{Equal, "one"},
		{Delete, "two"},
		{Insert, "2"},
		{Equal, "three"},
	}, got)
}

func TestUnified(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{
			name: "identical",
			a:    "same\n",
			b:    "same\n",
			want: "",
		},
		{
			name: "single line change",
			a:    "Hello world",
			b:    "Hello earth",
			want: "--- a\n+++ b\n@@ -1,1 +1,1 @@\n-Hello world\n+Hello earth\n",
		},
		{
			name: "from empty",
			a:    "",
			b:    "new",
			want: "--- a\n+++ b\n@@ -0,0 +1,1 @@\n+new\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Unified(tt.a, tt.b, "a", "b"))
		})
	}
}

func TestProposal(t *testing.T) {
	p := domain.NewProposedChange("world", "earth", domain.ChangeMetadata{Operation: domain.OpUpdateHighlightedText}, 1)

	out, err := Proposal("# Greeting\nHello world\n", p)
	require.NoError(t, err)
	assert.Contains(t, out, "--- a/version-1\n")
	assert.Contains(t, out, "-Hello world\n+Hello earth\n")
	assert.Contains(t, out, " # Greeting\n")

	_, err = Proposal("nothing here", p)
	assert.ErrorIs(t, err, domain.ErrSelectionNotFound)
}

func TestVersions(t *testing.T) {
	a := domain.NewArtifact("t", "Hello world").Append(domain.NewMarkdownVersion(0, "t", "Hello, world."))

	out, err := Versions(a, 1, 2)
	require.NoError(t, err)
	assert.Contains(t, out, "+Hello, world.")

	_, err = Versions(a, 1, 7)
	assert.ErrorIs(t, err, domain.ErrVersionNotFound)
}
