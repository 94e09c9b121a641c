// Package http exposes revision sessions over a JSON API with SSE updates.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/internal/presentation/diff"
	"github.com/aretw0/canvas/internal/presentation/graph"
	"github.com/aretw0/canvas/internal/presentation/markdown"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
	"github.com/aretw0/canvas/pkg/session"
)

// DefaultMaxBodySize bounds request bodies unless overridden.
const DefaultMaxBodySize = 1 << 20

// Server binds the revision engine to persisted sessions.
type Server struct {
	Engine   ports.RevisionEngine
	Sessions *session.Manager
	Streams  *StreamManager

	logger  *slog.Logger
	metrics http.Handler
	maxBody int64
	version string
}

// Option configures the Server.
type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithMaxBodySize bounds request bodies to n bytes.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithVersion is reported by GET /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates the server without routes; see Handler.
func NewServer(engine ports.RevisionEngine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		logger:   logging.NewNop(),
		maxBody:  DefaultMaxBodySize,
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.RevisionEngine, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(engine, sessions, opts...).Handler()
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/graph", s.GetGraph)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Post("/", s.CreateSession)
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/invoke", s.Invoke)
			r.Post("/resume", s.Resume)
			r.Post("/select", s.SelectVersion)
			r.Get("/diff", s.GetDiff)
			r.Get("/graph", s.GetSessionGraph)
			r.Get("/artifact.html", s.GetArtifactHTML)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// createRequest seeds a session with either a markdown body or articles.
type createRequest struct {
	Title    string           `json:"title"`
	Markdown string           `json:"markdown"`
	Articles []domain.Article `json:"articles"`
}

// invokeRequest is the flat body of POST /sessions/{id}/invoke.
type invokeRequest struct {
	Request          string            `json:"request"`
	Operation        domain.Operation  `json:"operation"`
	Highlight        *domain.Highlight `json:"highlight"`
	RequireApproval  bool              `json:"require_approval"`
	ContextDocuments []string          `json:"context_documents"`
}

func (b invokeRequest) toDomain() (domain.Request, error) {
	var intent domain.Intent
	switch {
	case b.Operation == "" || b.Operation == domain.OpUpdateHighlightedText:
	case b.Operation.IsTheme():
		intent = domain.IntentFor(b.Operation)
	default:
		return domain.Request{}, fmt.Errorf("%w: %q", domain.ErrUnknownOperation, b.Operation)
	}
	intent.Highlight = b.Highlight
	intent.RequireApproval = b.RequireApproval
	intent.ContextDocuments = b.ContextDocuments
	return domain.Request{Message: b.Request, Intent: intent}, nil
}

type selectRequest struct {
	Index int `json:"index"`
}

// CreateSession handles POST /sessions/{id}.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body createRequest
	if !s.decode(w, r, &body) {
		return
	}

	var artifact *domain.Artifact
	switch {
	case len(body.Articles) > 0:
		title := body.Title
		if title == "" {
			title = "Untitled"
		}
		artifact = domain.NewArticlesArtifact(title, body.Articles)
	case body.Markdown != "":
		title := body.Title
		if title == "" {
			title = markdown.Title(body.Markdown, "Untitled")
		}
		artifact = domain.NewArtifact(title, body.Markdown)
	default:
		s.writeError(w, r, fmt.Errorf("%w: provide markdown or articles", domain.ErrNoArtifact))
		return
	}

	state, err := s.Sessions.Create(r.Context(), id, artifact)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("session created", "session_id", id, "title", artifact.Contents[0].Title)
	s.broadcast(nil, state)
	s.writeJSON(w, http.StatusCreated, state)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.Sessions.Load(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Invoke handles POST /sessions/{id}/invoke.
func (s *Server) Invoke(w http.ResponseWriter, r *http.Request) {
	var body invokeRequest
	if !s.decode(w, r, &body) {
		return
	}
	req, err := body.toDomain()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.update(w, r, func(ctx context.Context, st *domain.State) (*domain.State, error) {
		return s.Engine.Invoke(ctx, st, req)
	})
}

// Resume handles POST /sessions/{id}/resume.
func (s *Server) Resume(w http.ResponseWriter, r *http.Request) {
	var body domain.Resume
	if !s.decode(w, r, &body) {
		return
	}
	s.update(w, r, func(ctx context.Context, st *domain.State) (*domain.State, error) {
		return s.Engine.Resume(ctx, st, body)
	})
}

// SelectVersion handles POST /sessions/{id}/select (undo/redo).
func (s *Server) SelectVersion(w http.ResponseWriter, r *http.Request) {
	var body selectRequest
	if !s.decode(w, r, &body) {
		return
	}
	s.update(w, r, func(_ context.Context, st *domain.State) (*domain.State, error) {
		if st.IsSuspended() {
			return nil, domain.ErrProposalPending
		}
		if st.Artifact == nil {
			return nil, domain.ErrNoArtifact
		}
		selected, err := st.Artifact.Select(body.Index)
		if err != nil {
			return nil, err
		}
		next := st.Clone()
		next.Artifact = selected
		return next, nil
	})
}

// GetDiff handles GET /sessions/{id}/diff.
// Without query parameters it diffs the pending proposal; ?from=&to= diffs two versions.
func (s *Server) GetDiff(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var out string
	if q := r.URL.Query(); q.Has("from") || q.Has("to") {
		from, errFrom := strconv.Atoi(q.Get("from"))
		to, errTo := strconv.Atoi(q.Get("to"))
		if errFrom != nil || errTo != nil {
			s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "from and to must be version indexes"})
			return
		}
		out, err = diff.Versions(state.Artifact, from, to)
	} else {
		if state.Proposal == nil {
			s.writeError(w, r, domain.ErrNotSuspended)
			return
		}
		var cur domain.ContentVersion
		if cur, err = state.Artifact.Current(); err == nil {
			var body string
			if body, err = cur.Markdown(); err == nil {
				out, err = diff.Proposal(body, state.Proposal)
			}
		}
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/x-diff; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

// GetArtifactHTML handles GET /sessions/{id}/artifact.html.
func (s *Server) GetArtifactHTML(w http.ResponseWriter, r *http.Request) {
	artifact, err := s.Sessions.LoadArtifact(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cur, err := artifact.Current()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var src string
	switch cur.Kind {
	case domain.KindArticles:
		parts := make([]string, 0, len(cur.Articles))
		for _, a := range cur.Articles {
			parts = append(parts, "# "+a.Title+"\n\n"+a.FullMarkdown)
		}
		src = strings.Join(parts, "\n\n---\n\n")
	default:
		src, err = cur.Markdown()
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	html, err := markdown.ToHTML(src)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// GetGraph handles GET /graph. ?format=mermaid returns a flowchart.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	g := s.Engine.Inspect()
	if r.URL.Query().Get("format") == "mermaid" {
		s.writeMermaid(w, graph.GenerateMermaid(g, nil))
		return
	}
	s.writeJSON(w, http.StatusOK, g)
}

// GetSessionGraph handles GET /sessions/{id}/graph, the flowchart with the session overlay.
func (s *Server) GetSessionGraph(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeMermaid(w, graph.GenerateMermaid(s.Engine.Inspect(), graph.OverlayFromState(state)))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

// update runs fn under the session lock, persists the result and broadcasts the diff.
func (s *Server) update(w http.ResponseWriter, r *http.Request, fn func(context.Context, *domain.State) (*domain.State, error)) {
	id := chi.URLParam(r, "id")
	before, after, err := s.Sessions.Update(r.Context(), id, fn)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.broadcast(before, after)
	s.writeJSON(w, http.StatusOK, after)
}

func (s *Server) broadcast(before, after *domain.State) {
	d := domain.Diff(before, after)
	if d == nil {
		return
	}
	data, err := json.Marshal(d)
	if err != nil {
		s.logger.Error("diff encode failed", "session_id", after.SessionID, "err", err)
		return
	}
	s.Streams.Broadcast(after.SessionID, string(data))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, err)
			return false
		}
		s.logger.Warn("invalid request body", "path", r.URL.Path, "err", err)
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, newErrorBody(err))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeMermaid(w http.ResponseWriter, src string) {
	w.Header().Set("Content-Type", "text/vnd.mermaid; charset=utf-8")
	_, _ = w.Write([]byte(src))
}
