package compiler

import (
	"log/slog"

	"github.com/aretw0/canopy/pkg/domain"
)

// Compiler is the single-pass document → graph pipeline: parse, build,
// layout, then fixture substitution when the result is empty.
//
// A Compiler is safe for concurrent use: every call allocates fresh
// results and nothing is shared between calls. It is also deterministic
// and idempotent, so callers may memoize on the exact document text.
type Compiler struct {
	parser *Parser
}

// New creates a compiler pipeline. The logger is only consulted when a
// document is rejected at the parse boundary.
func New(log *slog.Logger) *Compiler {
	return &Compiler{parser: NewParser(log)}
}

// Compile transforms document text into a positioned graph. It never
// fails: a document that cannot be parsed, lacks the states section, or
// declares no states produces the fallback fixture wholesale, never
// merged with partial output.
func (c *Compiler) Compile(text string) domain.PositionedGraph {
	graph, _ := c.CompileDetailed(text)
	return graph
}

// CompileDetailed is Compile plus a flag reporting whether the fixture
// was substituted, for callers that track fallback rates.
func (c *Compiler) CompileDetailed(text string) (domain.PositionedGraph, bool) {
	wf, err := c.parser.Parse(text)
	if err != nil {
		// The parse diagnostic is already logged; from here an invalid
		// document and an empty one behave identically.
		wf = &domain.Workflow{}
	}
	return c.CompileWorkflow(wf)
}

// CompileWorkflow runs the graph build and layout on an already-parsed
// description, applying the same fixture substitution rule.
func (c *Compiler) CompileWorkflow(wf *domain.Workflow) (domain.PositionedGraph, bool) {
	bp := BuildGraph(wf)
	if len(bp.Order) == 0 {
		return Fallback(), true
	}

	positions := Layout(bp.Order)

	graph := domain.PositionedGraph{
		Nodes: make([]domain.GraphNode, 0, len(bp.Order)),
		Edges: bp.Edges,
	}
	for _, id := range bp.Order {
		node := bp.Nodes[id]
		node.Position = positions[id]
		graph.Nodes = append(graph.Nodes, node)
	}
	if graph.Edges == nil {
		graph.Edges = []domain.GraphEdge{}
	}
	return graph, false
}
