package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/canopy/internal/presentation/graph"
	"github.com/aretw0/canopy/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		graph    domain.PositionedGraph
		contains []string
	}{
		{
			name: "Initial Node Shape",
			graph: domain.PositionedGraph{Nodes: []domain.GraphNode{
				{ID: "gather", Kind: domain.KindInitial},
			}},
			contains: []string{
				`gather(("gather"))`,
			},
		},
		{
			name: "Fan-Out And Orchestrator Shapes",
			graph: domain.PositionedGraph{Nodes: []domain.GraphNode{
				{ID: "spread", Kind: domain.KindFanOut},
				{ID: "merge", Kind: domain.KindOrchestratorTask},
			}},
			contains: []string{
				`spread[["spread"]]`,
				`merge[["merge"]]`,
			},
		},
		{
			name: "Human Approval Shape",
			graph: domain.PositionedGraph{Nodes: []domain.GraphNode{
				{ID: "signoff", Kind: domain.KindHumanApproval},
			}},
			contains: []string{
				`signoff[/"signoff"/]`,
			},
		},
		{
			name: "Terminal Shape",
			graph: domain.PositionedGraph{Nodes: []domain.GraphNode{
				{ID: "complete", Kind: domain.KindTerminal},
			}},
			contains: []string{
				`complete(["complete"])`,
			},
		},
		{
			name: "Unknown Kind Falls Back To Rectangle",
			graph: domain.PositionedGraph{Nodes: []domain.GraphNode{
				{ID: "odd", Kind: "quantum"},
			}},
			contains: []string{
				`odd["odd"]`,
			},
		},
		{
			name: "Agents Annotated",
			graph: domain.PositionedGraph{Nodes: []domain.GraphNode{
				{ID: "build", Kind: domain.KindFanOut, Agents: []string{"backend_dev", "frontend_dev"}},
			}},
			contains: []string{
				`build[["build<br/>backend_dev, frontend_dev"]]`,
			},
		},
		{
			name: "ID Sanitization",
			graph: domain.PositionedGraph{Nodes: []domain.GraphNode{
				{ID: "fan-out.step", Kind: domain.KindSingle},
			}},
			contains: []string{
				`fan_out_step["fan-out.step"]`,
			},
		},
		{
			name: "Recovery Edge Dashed",
			graph: domain.PositionedGraph{
				Nodes: []domain.GraphNode{{ID: "a"}, {ID: "b"}},
				Edges: []domain.GraphEdge{
					{ID: "e0", Source: "a", Target: "b", Label: "ok"},
					{ID: "e1", Source: "b", Target: "a", Label: "retry", IsRecoveryPath: true},
				},
			},
			contains: []string{
				`a -- "ok" --> b`,
				`b -. "retry" .-> a`,
			},
		},
		{
			name: "Error State Class",
			graph: domain.PositionedGraph{Nodes: []domain.GraphNode{
				{ID: "halt", Kind: domain.KindTerminal, IsErrorState: true},
			}},
			contains: []string{
				"classDef errorState",
				"class halt errorState;",
			},
		},
		{
			name: "Label Escaping",
			graph: domain.PositionedGraph{
				Nodes: []domain.GraphNode{{ID: "a"}, {ID: "b"}},
				Edges: []domain.GraphEdge{
					{ID: "e0", Source: "a", Target: "b", Label: `input == "yes"`},
				},
			},
			contains: []string{
				`-- "input == 'yes'" -->`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := graph.GenerateMermaid(tt.graph)

			if !strings.HasPrefix(output, "graph TD\n") {
				t.Errorf("output must start with header, got %q", output[:min(len(output), 20)])
			}
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q.\nFull output:\n%s", want, output)
				}
			}
		})
	}
}

func TestGenerateMermaid_FixtureRoundTrip(t *testing.T) {
	g := domain.PositionedGraph{
		Nodes: []domain.GraphNode{
			{ID: "plan", Kind: domain.KindSingle, Agents: []string{"planner"}},
			{ID: "halt", Kind: domain.KindTerminal, IsErrorState: true},
		},
		Edges: []domain.GraphEdge{
			{ID: "e0", Source: "plan", Target: "halt", Label: "planning_failure", IsRecoveryPath: true},
		},
	}

	out := graph.GenerateMermaid(g)
	for _, want := range []string{
		`plan["plan<br/>planner"]`,
		`halt(["halt"])`,
		`plan -. "planning_failure" .-> halt`,
		"class halt errorState;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
