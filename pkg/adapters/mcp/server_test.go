package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canvas/internal/runtime"
	"github.com/aretw0/canvas/pkg/adapters/memory"
	"github.com/aretw0/canvas/pkg/adapters/scripted"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/session"
)

func newTestServer(replies ...string) *Server {
	return NewServer(
		runtime.NewEngine(scripted.New("gpt-4o-mini", replies)),
		session.NewManager(memory.NewStore()),
		"test",
	)
}

func TestServer_HighlightApproval(t *testing.T) {
	s := newTestServer("earth")
	ctx := context.Background()

	created, err := s.handleCreate(ctx, mcp.CallToolRequest{}, createArgs{
		SessionID: "s1",
		Markdown:  "# Greeting\n\nHello world",
	})
	require.NoError(t, err)
	assert.Equal(t, "Greeting", created.Current.Title)

	// The enclosing block is found from the selection alone.
	suspended, err := s.handleInvoke(ctx, mcp.CallToolRequest{}, invokeArgs{
		SessionID:    "s1",
		Request:      "make it earth",
		SelectedText: "world",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusSuspended, suspended.Status)
	require.NotNil(t, suspended.Proposal)
	assert.Equal(t, "Hello world", suspended.Proposal.Metadata.MarkdownBlock)

	done, err := s.handleResume(ctx, mcp.CallToolRequest{}, resumeArgs{
		SessionID:  "s1",
		ProposalID: suspended.Proposal.ID,
		Approved:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTerminated, done.Status)

	got, err := s.handleGetArtifact(ctx, mcp.CallToolRequest{}, artifactArgs{SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Versions)
	assert.Equal(t, "# Greeting\n\nHello earth", got.Current.FullMarkdown)
	assert.Nil(t, got.Proposal)
}

func TestServer_ThemeAndErrors(t *testing.T) {
	s := newTestServer("Hello, world.")
	ctx := context.Background()

	_, err := s.handleCreate(ctx, mcp.CallToolRequest{}, createArgs{SessionID: "s1", Markdown: "Hello world"})
	require.NoError(t, err)

	_, err = s.handleInvoke(ctx, mcp.CallToolRequest{}, invokeArgs{SessionID: "s1", Operation: "translate"})
	assert.ErrorIs(t, err, domain.ErrUnknownOperation)

	resp, err := s.handleInvoke(ctx, mcp.CallToolRequest{}, invokeArgs{SessionID: "s1", Operation: "copyedit"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, world.", resp.Current.FullMarkdown)

	_, err = s.handleResume(ctx, mcp.CallToolRequest{}, resumeArgs{SessionID: "s1", ProposalID: "x", Approved: true})
	assert.ErrorIs(t, err, domain.ErrNotSuspended)

	_, err = s.handleGetArtifact(ctx, mcp.CallToolRequest{}, artifactArgs{SessionID: "missing"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = s.handleCreate(ctx, mcp.CallToolRequest{}, createArgs{SessionID: "s2"})
	assert.ErrorIs(t, err, domain.ErrNoArtifact)
}

func TestServer_GraphResources(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()

	contents, err := s.readGraph(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text := contents[0].(mcp.TextResourceContents)
	assert.Equal(t, GraphURI, text.URI)
	assert.True(t, strings.HasPrefix(text.Text, "graph TD"))
	assert.Contains(t, text.Text, runtime.NodeHumanApprover)

	contents, err = s.readGraphJSON(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	var g domain.Graph
	require.NoError(t, json.Unmarshal([]byte(contents[0].(mcp.TextResourceContents).Text), &g))
	assert.Len(t, g.Nodes, len(runtime.Graph().Nodes))
}

func TestServer_StructuredToolHandler(t *testing.T) {
	s := newTestServer()
	ctx := context.Background()
	_, err := s.handleCreate(ctx, mcp.CallToolRequest{}, createArgs{SessionID: "s1", Markdown: "Hello world"})
	require.NoError(t, err)

	handler := mcp.NewStructuredToolHandler(s.handleGetArtifact)
	req := mcp.CallToolRequest{}
	req.Params.Name = "get_artifact"
	req.Params.Arguments = map[string]any{"session_id": "s1"}

	result, err := handler(ctx, req)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	data, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	var resp RunResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, 1, resp.Versions)
}
