package compiler

import "github.com/aretw0/canopy/pkg/domain"

// Layout constants. These are part of the output contract: consumers
// expect exactly this geometry, not merely similar positioning.
const (
	// CenterX is the x coordinate of the vertical spine.
	CenterX = 300
	// VerticalGap is the y distance between consecutive regular states.
	VerticalGap = 120
	// TerminalGap is the x distance between terminal-row neighbours.
	TerminalGap = 200
)

// Layout assigns deterministic coordinates to every node given only the
// ordered ID sequence. Kinds, agents and edges are irrelevant: regular
// states form a single vertical chain, and the reserved terminal IDs form
// one centered row beneath it.
//
// It is a fixed heuristic, not a layout solver: no crossing
// minimization, no physics.
func Layout(order []string) map[string]domain.Position {
	positions := make(map[string]domain.Position, len(order))

	var regular, terminal []string
	for _, id := range order {
		if domain.IsTerminalID(id) {
			terminal = append(terminal, id)
			continue
		}
		regular = append(regular, id)
	}

	for i, id := range regular {
		positions[id] = domain.Position{X: CenterX, Y: float64(i * VerticalGap)}
	}

	bottomY := float64(len(regular) * VerticalGap)
	for i, id := range terminal {
		offset := (float64(i) - float64(len(terminal)-1)/2) * TerminalGap
		positions[id] = domain.Position{X: CenterX + offset, Y: bottomY}
	}

	return positions
}
