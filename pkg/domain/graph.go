package domain

import "strings"

// Position is a 2D canvas coordinate assigned by the layout engine (or
// hand-fixed, in the fallback fixture).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GraphNode is one positioned, classified node of the output graph.
type GraphNode struct {
	ID           string    `json:"id"`
	Position     Position  `json:"position"`
	Kind         StateKind `json:"kind"`
	Agents       []string  `json:"agents,omitempty"`
	IsErrorState bool      `json:"isErrorState"`
}

// GraphEdge is one labelled connection of the output graph. IDs are
// sequential ("e0", "e1", ...) across a single compile and carry no
// meaning beyond that compile.
type GraphEdge struct {
	ID             string `json:"id"`
	Source         string `json:"sourceId"`
	Target         string `json:"targetId"`
	Label          string `json:"label"`
	IsRecoveryPath bool   `json:"isRecoveryPath"`
}

// PositionedGraph is the compiler pipeline's final output. It is a
// transient value: recomputed on every document change, never mutated in
// place.
type PositionedGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Empty reports whether the graph has no nodes. An empty graph triggers
// wholesale fixture substitution downstream.
func (g PositionedGraph) Empty() bool {
	return len(g.Nodes) == 0
}

// Clone returns a deep copy so callers can hand the graph out without
// aliasing their own slices.
func (g PositionedGraph) Clone() PositionedGraph {
	out := PositionedGraph{
		Nodes: make([]GraphNode, len(g.Nodes)),
		Edges: make([]GraphEdge, len(g.Edges)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Edges, g.Edges)
	for i, n := range g.Nodes {
		if n.Agents != nil {
			agents := make([]string, len(n.Agents))
			copy(agents, n.Agents)
			out.Nodes[i].Agents = agents
		}
	}
	return out
}

// IsRecoveryLabel reports whether a transition label marks a recovery
// path: any label containing "failure", or exactly "feedback" or "retry".
// The predicate is closed; no other label qualifies.
func IsRecoveryLabel(label string) bool {
	if strings.Contains(label, "failure") {
		return true
	}
	return label == "feedback" || label == "retry"
}

// IsTerminalID reports whether the ID belongs to the reserved terminal
// row ("complete" or "halt").
func IsTerminalID(id string) bool {
	return id == StateComplete || id == StateHalt
}
