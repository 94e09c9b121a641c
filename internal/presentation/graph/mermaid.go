package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/canvas/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
	// Suspended marks the current node as waiting for a decision.
	Suspended bool
}

// OverlayFromState builds an overlay from a session snapshot.
func OverlayFromState(s *domain.State) *GraphOverlay {
	if s == nil {
		return nil
	}
	return &GraphOverlay{
		VisitedNodes: s.History,
		CurrentNode:  s.CurrentNodeID,
		Suspended:    s.IsSuspended(),
	}
}

// GenerateMermaid produces a Mermaid flowchart of the revision graph.
// Shapes follow the node kind:
// - Start and End: ((Circle))
// - Gate: {Rhombus}
// - Nodes that may suspend: [/Parallelogram/]
// - Finalize: [[Subroutine]]
// Overlay styles (Visited/Current) are applied if provided.
func GenerateMermaid(g domain.Graph, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range g.Nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.Kind == domain.NodeKindStart || node.Kind == domain.NodeKindEnd:
			opener, closer = "((", "))"
		case node.Kind == domain.NodeKindGate:
			opener, closer = "{", "}"
		case node.Suspends:
			opener, closer = "[/", "/]"
		case node.Kind == domain.NodeKindFinalize:
			opener, closer = "[[", "]]"
		}

		label := node.ID
		if node.Suspends {
			label += " <br/> ⏸ approval"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))
	}

	for _, e := range g.Edges {
		arrow := "-->"
		if e.Condition != "" {
			// Mermaid labels cannot hold double quotes or bare pipes.
			safeCondition := strings.NewReplacer("\"", "'", "|", "/").Replace(e.Condition)
			arrow = fmt.Sprintf("-- \"%s\" -->", safeCondition)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(e.From), arrow, sanitizeMermaidID(e.To)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef suspended fill:#ffcdd2,stroke:#c62828,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentNode != "" {
			class := "current"
			if overlay.Suspended {
				class = "suspended"
			}
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", sanitizeMermaidID(overlay.CurrentNode), class))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_").Replace(id)
}
