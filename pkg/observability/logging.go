package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/canvas/pkg/domain"
)

// LogHooks logs every lifecycle event at debug level, suspensions and commits at info.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_enter", "session_id", e.SessionID, "node_id", e.NodeID)
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "node_leave", "session_id", e.SessionID, "node_id", e.NodeID, "err", e.Err)
				return
			}
			logger.DebugContext(ctx, "node_leave", "session_id", e.SessionID, "node_id", e.NodeID)
		},
		OnModelCall: func(ctx context.Context, e *domain.ModelEvent) {
			logger.DebugContext(ctx, "model_call", "node_id", e.NodeID, "model", e.Model)
		},
		OnModelReturn: func(ctx context.Context, e *domain.ModelEvent) {
			logger.DebugContext(ctx, "model_return",
				"node_id", e.NodeID, "model", e.Model, "duration", e.Duration, "is_error", e.IsError)
		},
		OnSuspend: func(ctx context.Context, e *domain.SuspendEvent) {
			logger.InfoContext(ctx, "suspended",
				"session_id", e.SessionID, "node_id", e.NodeID, "proposal_id", e.ProposalID, "operation", e.Operation)
		},
		OnCommit: func(ctx context.Context, e *domain.CommitEvent) {
			logger.InfoContext(ctx, "committed",
				"session_id", e.SessionID, "index", e.Index, "operation", e.Operation)
		},
	}
}
