package compiler

import (
	"fmt"

	"github.com/aretw0/canopy/pkg/domain"
)

// Blueprint is the pre-layout form of the graph: node order, node data
// without positions, and the full edge list.
type Blueprint struct {
	Order []string
	Nodes map[string]domain.GraphNode
	Edges []domain.GraphEdge
}

// BuildGraph converts a typed workflow description into its graph
// blueprint. It never fails: an empty workflow yields an empty blueprint.
//
// Edge IDs use a single counter across the whole description, so they are
// stable within one call but carry no meaning across calls. Dangling
// transition targets pass through untouched; resolving them is a
// rendering concern, not a compiler concern.
func BuildGraph(wf *domain.Workflow) Blueprint {
	bp := Blueprint{Nodes: make(map[string]domain.GraphNode)}
	if wf == nil {
		return bp
	}

	edgeSeq := 0
	for _, state := range wf.States {
		bp.Order = append(bp.Order, state.ID)
		bp.Nodes[state.ID] = domain.GraphNode{
			ID:           state.ID,
			Kind:         state.Kind,
			Agents:       state.Agents,
			IsErrorState: state.ID == domain.StateHalt,
		}

		for _, t := range state.Transitions {
			bp.Edges = append(bp.Edges, domain.GraphEdge{
				ID:             fmt.Sprintf("e%d", edgeSeq),
				Source:         state.ID,
				Target:         t.Target,
				Label:          t.Condition,
				IsRecoveryPath: domain.IsRecoveryLabel(t.Condition),
			})
			edgeSeq++
		}
	}

	return bp
}
