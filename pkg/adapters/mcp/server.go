// Package mcp exposes revision sessions as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/internal/presentation/graph"
	"github.com/aretw0/canvas/internal/presentation/markdown"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
	"github.com/aretw0/canvas/pkg/session"
)

// GraphURI is the resource holding the revision graph as a Mermaid flowchart.
const GraphURI = "canvas://graph"

// RunResponse aligns with the HTTP API and provides a unified structure across adapters.
type RunResponse struct {
	SessionID string                 `json:"session_id" jsonschema_description:"Session the run belongs to"`
	Status    domain.ExecutionStatus `json:"status" jsonschema_description:"active, suspended or terminated"`
	Current   *domain.ContentVersion `json:"current,omitempty" jsonschema_description:"The current content version"`
	Proposal  *domain.ProposedChange `json:"proposed_changes,omitempty" jsonschema_description:"Pending change awaiting approval"`
	Versions  int                    `json:"versions" jsonschema_description:"Number of stored versions"`
}

type createArgs struct {
	SessionID string `json:"session_id"`
	Markdown  string `json:"markdown"`
	Title     string `json:"title"`
}

type invokeArgs struct {
	SessionID       string `json:"session_id"`
	Request         string `json:"request"`
	Operation       string `json:"operation"`
	SelectedText    string `json:"selected_text"`
	MarkdownBlock   string `json:"markdown_block"`
	RequireApproval bool   `json:"require_approval"`
}

type resumeArgs struct {
	SessionID  string `json:"session_id"`
	ProposalID string `json:"proposal_id"`
	Approved   bool   `json:"approved"`
}

type artifactArgs struct {
	SessionID string `json:"session_id"`
}

// Server wraps the revision engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.RevisionEngine
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.RevisionEngine, sessions *session.Manager, version string, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		mcpServer: server.NewMCPServer("canvas-mcp", version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Create a session around a markdown document."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("markdown", mcp.Required(), mcp.Description("Initial markdown body")),
		mcp.WithString("title", mcp.Description("Title (defaults to the first heading)")),
		mcp.WithOutputSchema[RunResponse](),
	), mcp.NewStructuredToolHandler(s.handleCreate))

	s.mcpServer.AddTool(mcp.NewTool("invoke",
		mcp.WithDescription("Revise the artifact. Either pick a theme operation or pass a highlighted selection. Highlight edits suspend for approval."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("request", mcp.Description("What to change, in natural language")),
		mcp.WithString("operation", mcp.Description("Theme rewrite"), mcp.Enum("language", "format", "copyedit", "updateHighlightedText")),
		mcp.WithString("selected_text", mcp.Description("Exact selected text to rewrite")),
		mcp.WithString("markdown_block", mcp.Description("Block enclosing the selection (defaults to the block found in the body)")),
		mcp.WithBoolean("require_approval", mcp.Description("Suspend theme rewrites for approval")),
		mcp.WithOutputSchema[RunResponse](),
	), mcp.NewStructuredToolHandler(s.handleInvoke))

	s.mcpServer.AddTool(mcp.NewTool("resume",
		mcp.WithDescription("Approve or reject the pending proposal."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("proposal_id", mcp.Required(), mcp.Description("ID of the pending proposal")),
		mcp.WithBoolean("approved", mcp.Required(), mcp.Description("true applies the change, false discards it")),
		mcp.WithOutputSchema[RunResponse](),
	), mcp.NewStructuredToolHandler(s.handleResume))

	s.mcpServer.AddTool(mcp.NewTool("get_artifact",
		mcp.WithDescription("Get the current artifact version and any pending proposal."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithOutputSchema[RunResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetArtifact))
}

func (s *Server) handleCreate(ctx context.Context, _ mcp.CallToolRequest, args createArgs) (RunResponse, error) {
	if args.Markdown == "" {
		return RunResponse{}, domain.ErrNoArtifact
	}
	title := args.Title
	if title == "" {
		title = markdown.Title(args.Markdown, "Untitled")
	}
	state, err := s.sessions.Create(ctx, args.SessionID, domain.NewArtifact(title, args.Markdown))
	if err != nil {
		return RunResponse{}, err
	}
	return toResponse(state), nil
}

func (s *Server) handleInvoke(ctx context.Context, _ mcp.CallToolRequest, args invokeArgs) (RunResponse, error) {
	_, after, err := s.sessions.Update(ctx, args.SessionID, func(ctx context.Context, st *domain.State) (*domain.State, error) {
		req, err := args.toRequest(st)
		if err != nil {
			return nil, err
		}
		return s.engine.Invoke(ctx, st, req)
	})
	if err != nil {
		s.logger.Warn("MCP invoke failed", "session_id", args.SessionID, "err", err)
		return RunResponse{}, err
	}
	return toResponse(after), nil
}

func (s *Server) handleResume(ctx context.Context, _ mcp.CallToolRequest, args resumeArgs) (RunResponse, error) {
	_, after, err := s.sessions.Update(ctx, args.SessionID, func(ctx context.Context, st *domain.State) (*domain.State, error) {
		return s.engine.Resume(ctx, st, domain.Resume{ProposalID: args.ProposalID, Approved: args.Approved})
	})
	if err != nil {
		s.logger.Warn("MCP resume failed", "session_id", args.SessionID, "err", err)
		return RunResponse{}, err
	}
	return toResponse(after), nil
}

func (s *Server) handleGetArtifact(ctx context.Context, _ mcp.CallToolRequest, args artifactArgs) (RunResponse, error) {
	state, err := s.sessions.Load(ctx, args.SessionID)
	if err != nil {
		return RunResponse{}, err
	}
	return toResponse(state), nil
}

// toRequest builds the engine request, locating the enclosing block when only the selection is given.
func (a invokeArgs) toRequest(st *domain.State) (domain.Request, error) {
	var intent domain.Intent
	op := domain.Operation(a.Operation)
	switch {
	case op == "" || op == domain.OpUpdateHighlightedText:
	case op.IsTheme():
		intent = domain.IntentFor(op)
	default:
		return domain.Request{}, fmt.Errorf("%w: %q", domain.ErrUnknownOperation, a.Operation)
	}
	intent.RequireApproval = a.RequireApproval

	if a.SelectedText != "" {
		block := a.MarkdownBlock
		if block == "" && st.Artifact != nil {
			if cur, err := st.Artifact.Current(); err == nil {
				if body, err := cur.Markdown(); err == nil {
					block, _ = markdown.BlockContaining(body, a.SelectedText)
				}
			}
		}
		intent.Highlight = &domain.Highlight{SelectedText: a.SelectedText, MarkdownBlock: block}
	}
	return domain.Request{Message: a.Request, Intent: intent}, nil
}

func toResponse(st *domain.State) RunResponse {
	resp := RunResponse{
		SessionID: st.SessionID,
		Status:    st.Status,
		Proposal:  st.Proposal,
		Versions:  st.Artifact.Len(),
	}
	if cur, err := st.Artifact.Current(); err == nil {
		resp.Current = &cur
	}
	return resp
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Revision Graph",
		mcp.WithResourceDescription("The revision state machine as a Mermaid flowchart"),
		mcp.WithMIMEType("text/vnd.mermaid"),
	), s.readGraph)

	s.mcpServer.AddResource(mcp.NewResource(GraphURI+".json", "Revision Graph (JSON)",
		mcp.WithMIMEType("application/json"),
	), s.readGraphJSON)
}

func (s *Server) readGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI,
			MIMEType: "text/vnd.mermaid",
			Text:     graph.GenerateMermaid(s.engine.Inspect(), nil),
		},
	}, nil
}

func (s *Server) readGraphJSON(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(s.engine.Inspect())
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI + ".json",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
