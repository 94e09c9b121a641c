package domain

// NodeKind classifies a graph node for introspection.
type NodeKind string

const (
	NodeKindStart    NodeKind = "start"
	NodeKindRevision NodeKind = "revision"
	NodeKindGate     NodeKind = "gate"
	NodeKindFinalize NodeKind = "finalize"
	NodeKindEnd      NodeKind = "end"
)

// GraphNode describes one node of the revision graph.
type GraphNode struct {
	ID   string   `json:"id"`
	Kind NodeKind `json:"kind"`
	// Suspends is true for nodes that may stop the run to await a decision.
	Suspends bool `json:"suspends,omitempty"`
}

// GraphEdge is a routing edge. Condition is empty for unconditional edges.
type GraphEdge struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Condition string `json:"condition,omitempty"`
}

// Graph is the static shape of the revision state machine.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// EdgesFrom returns the outgoing edges of a node in declaration order.
func (g Graph) EdgesFrom(id string) []GraphEdge {
	var out []GraphEdge
	for _, e := range g.Edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}
