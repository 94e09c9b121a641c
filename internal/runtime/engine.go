package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/internal/prompt"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
)

// maxSteps bounds a single run. The graph is acyclic, so any run longer than this is a bug.
const maxSteps = 16

var (
	errNilState = errors.New("state is nil")
	errNoModel  = errors.New("no model invoker configured")
)

// Engine is the revision state machine.
// It is stateless: every call takes a state and returns a new one.
type Engine struct {
	model      ports.ModelInvoker
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	invokeOpts ports.InvokeOptions

	themeApproval          bool
	strictRouting          bool
	rejectPendingOverwrite bool

	nodes map[string]NodeFunc
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithInvokeOptions sets the options passed to every model call.
func WithInvokeOptions(opts ports.InvokeOptions) EngineOption {
	return func(e *Engine) {
		e.invokeOpts = opts
	}
}

// WithThemeApproval makes markdown theme rewrites suspend for a decision instead of committing.
func WithThemeApproval() EngineOption {
	return func(e *Engine) {
		e.themeApproval = true
	}
}

// WithStrictRouting rejects requests that carry neither a highlight nor a theme flag.
func WithStrictRouting() EngineOption {
	return func(e *Engine) {
		e.strictRouting = true
	}
}

// WithRejectPendingOverwrite refuses new requests while a proposal awaits a decision.
func WithRejectPendingOverwrite() EngineOption {
	return func(e *Engine) {
		e.rejectPendingOverwrite = true
	}
}

// NewEngine creates an engine around a model invoker.
func NewEngine(model ports.ModelInvoker, opts ...EngineOption) *Engine {
	e := &Engine{
		model:  model,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.nodes = map[string]NodeFunc{
		NodeRewriteTheme:    e.rewriteTheme,
		NodeUpdateHighlight: e.updateHighlight,
		NodeHumanApprover:   humanApprover,
		NodeApplyChanges:    applyApprovedChanges,
		NodeRejectChanges:   rejectChanges,
	}
	return e
}

// Inspect returns the static graph.
func (e *Engine) Inspect() domain.Graph {
	return Graph()
}

// Invoke starts a run for req.
// A pending proposal is overwritten unless WithRejectPendingOverwrite is set.
func (e *Engine) Invoke(ctx context.Context, state *domain.State, req domain.Request) (*domain.State, error) {
	if state == nil {
		return nil, errNilState
	}
	if pending := pendingProposal(state); pending != nil {
		if e.rejectPendingOverwrite {
			return nil, fmt.Errorf("%w: %s", domain.ErrProposalPending, pending.ID)
		}
		e.logger.WarnContext(ctx, "overwriting pending proposal",
			"session_id", state.SessionID, "proposal_id", pending.ID)
	}

	start, err := RouteIntent(req.Intent, e.strictRouting)
	if err != nil {
		return nil, &domain.NodeError{NodeID: NodeRouter, Err: err}
	}

	next := state.Clone()
	next.Status = domain.StatusActive
	next.Intent = req.Intent
	next.Proposal = nil
	next.Approval = domain.DecisionUnset
	next.Interrupt = nil
	next.Next = ""
	next.CurrentNodeID = NodeRouter
	next.History = append(next.History, NodeRouter)
	if req.Message != "" {
		next.Messages = append(next.Messages, domain.NewMessage(domain.RoleUser, req.Message))
	}

	if next.Artifact.Len() > 0 && !next.Artifact.CurrentIsValid() {
		e.logger.WarnContext(ctx, "current index not found, using last version",
			"session_id", next.SessionID, "current_index", next.Artifact.CurrentIndex)
	}

	e.logger.DebugContext(ctx, "routing request", "session_id", next.SessionID, "node", start)
	return e.run(ctx, next, start)
}

// Resume continues a suspended run with a decision.
// The decision must name the pending proposal; any other ID is domain.ErrStaleProposal.
func (e *Engine) Resume(ctx context.Context, state *domain.State, resume domain.Resume) (*domain.State, error) {
	if state == nil {
		return nil, errNilState
	}
	if !state.IsSuspended() {
		return nil, domain.ErrNotSuspended
	}
	pending := pendingProposal(state)
	if pending == nil {
		return nil, domain.ErrMissingChangeData
	}
	if resume.ProposalID != pending.ID {
		return nil, fmt.Errorf("%w: got %q, pending %q", domain.ErrStaleProposal, resume.ProposalID, pending.ID)
	}

	next := state.Clone()
	next.Status = domain.StatusActive
	next.Proposal = pending.Clone()
	next.Approval = domain.DecisionOf(resume.Approved)
	from := next.Interrupt.NodeID
	next.Interrupt = nil

	e.logger.DebugContext(ctx, "resuming run",
		"session_id", next.SessionID, "node", from, "decision", next.Approval.String())
	return e.run(ctx, next, from)
}

// run executes nodes from start until the run ends or suspends.
func (e *Engine) run(ctx context.Context, state *domain.State, start string) (*domain.State, error) {
	current := start
	for step := 0; current != NodeEnd; step++ {
		if step >= maxSteps {
			return nil, fmt.Errorf("run exceeded %d steps at node %s", maxSteps, current)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		node, ok := e.nodes[current]
		if !ok {
			return nil, &domain.NodeError{NodeID: current, Err: fmt.Errorf("unknown node")}
		}

		state.CurrentNodeID = current
		state.History = append(state.History, current)

		e.emitNodeEnter(ctx, state.SessionID, current)
		out, err := node(ctx, state)
		e.emitNodeLeave(ctx, state.SessionID, current, err)
		if err != nil {
			e.logger.ErrorContext(ctx, "node failed", "session_id", state.SessionID, "node", current, "error", err)
			return nil, &domain.NodeError{NodeID: current, Err: err}
		}

		before := state.Artifact.Len()
		state = applyUpdate(state, out.Update)
		if state.Artifact.Len() > before {
			e.commit(ctx, state, current, out.Update.Operation)
		}

		if out.Suspend != nil {
			return e.suspend(ctx, state, out.Suspend), nil
		}

		current = out.Update.Next
		if current == "" {
			current = NodeEnd
		}
	}

	state.Status = domain.StatusTerminated
	state.CurrentNodeID = NodeEnd
	state.Next = ""
	state.UpdatedAt = time.Now().UTC()
	return state, nil
}

func (e *Engine) suspend(ctx context.Context, state *domain.State, in *domain.Interrupt) *domain.State {
	state.Status = domain.StatusSuspended
	state.Interrupt = in
	state.Proposal = in.Proposal.Clone()
	state.Approval = domain.DecisionUnset
	state.Next = ""
	state.UpdatedAt = time.Now().UTC()

	e.logger.InfoContext(ctx, "awaiting approval",
		"session_id", state.SessionID, "node", in.NodeID, "proposal_id", in.Proposal.ID)
	if e.hooks.OnSuspend != nil {
		e.hooks.OnSuspend(ctx, &domain.SuspendEvent{
			EventBase:  e.base(domain.EventSuspend, state.SessionID),
			NodeID:     in.NodeID,
			ProposalID: in.Proposal.ID,
			Operation:  in.Proposal.Metadata.Operation,
		})
	}
	return state
}

// commit records a newly appended version with a status message and a hook.
func (e *Engine) commit(ctx context.Context, state *domain.State, nodeID string, op domain.Operation) {
	idx := state.Artifact.CurrentIndex
	state.Messages = append(state.Messages,
		domain.NewStatusMessage(domain.RoleAssistant, fmt.Sprintf("Updated artifact to version %d", idx)))

	e.logger.InfoContext(ctx, "artifact updated",
		"session_id", state.SessionID, "node", nodeID, "index", idx, "operation", op)
	if e.hooks.OnCommit != nil {
		e.hooks.OnCommit(ctx, &domain.CommitEvent{
			EventBase: e.base(domain.EventCommit, state.SessionID),
			NodeID:    nodeID,
			Index:     idx,
			Operation: op,
		})
	}
}

// generate calls the model and separates any reasoning trace from the answer.
// The trace, if present, is returned as a thinking message.
func (e *Engine) generate(ctx context.Context, state *domain.State, nodeID string, msgs []domain.Message) (string, []domain.Message, error) {
	if e.model == nil {
		return "", nil, errNoModel
	}
	name := e.model.Name()

	if e.hooks.OnModelCall != nil {
		e.hooks.OnModelCall(ctx, &domain.ModelEvent{
			EventBase: e.base(domain.EventModelCall, state.SessionID),
			NodeID:    nodeID,
			Model:     name,
		})
	}

	started := time.Now()
	resp, err := e.model.Invoke(ctx, msgs, e.invokeOpts)

	if e.hooks.OnModelReturn != nil {
		e.hooks.OnModelReturn(ctx, &domain.ModelEvent{
			EventBase: e.base(domain.EventModelReturn, state.SessionID),
			NodeID:    nodeID,
			Model:     name,
			Duration:  time.Since(started),
			IsError:   err != nil,
		})
	}
	if err != nil {
		return "", nil, fmt.Errorf("model %s: %w", name, err)
	}

	content, thinking := resp.Content, resp.Thinking
	if prompt.IsThinkingModel(name) {
		var inline string
		inline, content = prompt.SplitThinking(content)
		if thinking == "" {
			thinking = inline
		}
	}

	var extra []domain.Message
	if thinking != "" {
		extra = append(extra, domain.NewThinkingMessage(thinking))
	}
	return content, extra, nil
}

func (e *Engine) base(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, SessionID: sessionID}
}

func (e *Engine) emitNodeEnter(ctx context.Context, sessionID, nodeID string) {
	if e.hooks.OnNodeEnter != nil {
		e.hooks.OnNodeEnter(ctx, &domain.NodeEvent{
			EventBase: e.base(domain.EventNodeEnter, sessionID),
			NodeID:    nodeID,
		})
	}
}

func (e *Engine) emitNodeLeave(ctx context.Context, sessionID, nodeID string, err error) {
	if e.hooks.OnNodeLeave != nil {
		e.hooks.OnNodeLeave(ctx, &domain.NodeEvent{
			EventBase: e.base(domain.EventNodeLeave, sessionID),
			NodeID:    nodeID,
			Err:       err,
		})
	}
}

func pendingProposal(s *domain.State) *domain.ProposedChange {
	if s.Interrupt != nil && s.Interrupt.Proposal != nil {
		return s.Interrupt.Proposal
	}
	return s.Proposal
}
