package runtime

import "github.com/aretw0/canvas/pkg/domain"

// RouteIntent selects the revision node for a fresh request.
// A highlight wins over theme flags. With neither present the highlighted-text
// path is chosen, unless strict is set, which yields domain.ErrNoRoute.
func RouteIntent(intent domain.Intent, strict bool) (string, error) {
	switch {
	case intent.Highlight != nil:
		return NodeUpdateHighlight, nil
	case intent.Operation() != "":
		return NodeRewriteTheme, nil
	case strict:
		return "", domain.ErrNoRoute
	default:
		return NodeUpdateHighlight, nil
	}
}

// RouteDecision selects the finalizing node once a decision exists.
// An unset decision routes to apply.
func RouteDecision(d domain.Decision) string {
	if d == domain.DecisionRejected {
		return NodeRejectChanges
	}
	return NodeApplyChanges
}

// Graph is the static shape of the revision state machine.
func Graph() domain.Graph {
	return domain.Graph{
		Nodes: []domain.GraphNode{
			{ID: NodeRouter, Kind: domain.NodeKindStart},
			{ID: NodeRewriteTheme, Kind: domain.NodeKindRevision, Suspends: true},
			{ID: NodeUpdateHighlight, Kind: domain.NodeKindRevision, Suspends: true},
			{ID: NodeHumanApprover, Kind: domain.NodeKindGate},
			{ID: NodeApplyChanges, Kind: domain.NodeKindFinalize},
			{ID: NodeRejectChanges, Kind: domain.NodeKindFinalize},
			{ID: NodeEnd, Kind: domain.NodeKindEnd},
		},
		Edges: []domain.GraphEdge{
			{From: NodeRouter, To: NodeUpdateHighlight, Condition: "highlighted text"},
			{From: NodeRouter, To: NodeRewriteTheme, Condition: "language | format | copyedit"},
			{From: NodeRewriteTheme, To: NodeEnd},
			{From: NodeRewriteTheme, To: NodeHumanApprover, Condition: "resumed"},
			{From: NodeUpdateHighlight, To: NodeHumanApprover, Condition: "resumed"},
			{From: NodeHumanApprover, To: NodeApplyChanges, Condition: "approved"},
			{From: NodeHumanApprover, To: NodeRejectChanges, Condition: "rejected"},
			{From: NodeApplyChanges, To: NodeEnd},
			{From: NodeRejectChanges, To: NodeEnd},
		},
	}
}
