package compiler

import "github.com/aretw0/canopy/pkg/domain"

// fallbackGraph is the reference build-review-ship workflow, substituted
// wholesale whenever the pipeline yields zero nodes. Coordinates are
// hand-fixed literals (deliberately not Layout output) and must stay
// bit-exact for consumers that key off this fixture.
var fallbackGraph = domain.PositionedGraph{
	Nodes: []domain.GraphNode{
		{ID: "init", Position: domain.Position{X: 300, Y: 0}, Kind: domain.KindInitial, Agents: []string{"orchestrator"}},
		{ID: "plan", Position: domain.Position{X: 300, Y: 110}, Kind: domain.KindSingle, Agents: []string{"planner"}},
		{ID: "design_review", Position: domain.Position{X: 300, Y: 220}, Kind: domain.KindHumanApproval},
		{ID: "implement", Position: domain.Position{X: 300, Y: 340}, Kind: domain.KindFanOut, Agents: []string{"backend_dev", "frontend_dev", "test_writer"}},
		{ID: "integrate", Position: domain.Position{X: 300, Y: 460}, Kind: domain.KindOrchestratorTask, Agents: []string{"integrator"}},
		{ID: "test", Position: domain.Position{X: 300, Y: 580}, Kind: domain.KindSingle, Agents: []string{"test_runner"}},
		{ID: "code_review", Position: domain.Position{X: 300, Y: 700}, Kind: domain.KindFanOut, Agents: []string{"reviewer_alpha", "reviewer_beta"}},
		{ID: "fix", Position: domain.Position{X: 540, Y: 520}, Kind: domain.KindSingle, Agents: []string{"bug_fixer"}},
		{ID: "human_approval", Position: domain.Position{X: 300, Y: 820}, Kind: domain.KindHumanApproval},
		{ID: "complete", Position: domain.Position{X: 180, Y: 950}, Kind: domain.KindTerminal},
		{ID: "halt", Position: domain.Position{X: 460, Y: 950}, Kind: domain.KindTerminal, IsErrorState: true},
	},
	Edges: []domain.GraphEdge{
		{ID: "e0", Source: "init", Target: "plan", Label: "ready"},
		{ID: "e1", Source: "init", Target: "halt", Label: "init_failure", IsRecoveryPath: true},
		{ID: "e2", Source: "plan", Target: "design_review", Label: "planned"},
		{ID: "e3", Source: "plan", Target: "halt", Label: "planning_failure", IsRecoveryPath: true},
		{ID: "e4", Source: "design_review", Target: "implement", Label: "approved"},
		{ID: "e5", Source: "design_review", Target: "plan", Label: "feedback", IsRecoveryPath: true},
		{ID: "e6", Source: "implement", Target: "integrate", Label: "all_success"},
		{ID: "e7", Source: "implement", Target: "fix", Label: "partial_failure", IsRecoveryPath: true},
		{ID: "e8", Source: "implement", Target: "halt", Label: "all_failure", IsRecoveryPath: true},
		{ID: "e9", Source: "integrate", Target: "test", Label: "integrated"},
		{ID: "e10", Source: "integrate", Target: "fix", Label: "integration_failure", IsRecoveryPath: true},
		{ID: "e11", Source: "test", Target: "code_review", Label: "tests_passed"},
		{ID: "e12", Source: "test", Target: "fix", Label: "test_failure", IsRecoveryPath: true},
		{ID: "e13", Source: "code_review", Target: "human_approval", Label: "all_success"},
		{ID: "e14", Source: "code_review", Target: "fix", Label: "changes_requested"},
		{ID: "e15", Source: "fix", Target: "test", Label: "retry", IsRecoveryPath: true},
		{ID: "e16", Source: "fix", Target: "halt", Label: "max_retries_exceeded"},
		{ID: "e17", Source: "human_approval", Target: "complete", Label: "approved"},
		{ID: "e18", Source: "human_approval", Target: "fix", Label: "feedback", IsRecoveryPath: true},
		{ID: "e19", Source: "human_approval", Target: "halt", Label: "rejected"},
	},
}

// Fallback returns a deep copy of the reference fixture graph so callers
// can never corrupt the shared literal.
func Fallback() domain.PositionedGraph {
	return fallbackGraph.Clone()
}
