package compiler_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy/internal/compiler"
)

func TestFallback_Shape(t *testing.T) {
	g := compiler.Fallback()

	assert.Len(t, g.Nodes, 11)
	assert.Len(t, g.Edges, 20)
}

func TestFallback_BitExactAcrossCalls(t *testing.T) {
	assert.Equal(t, compiler.Fallback(), compiler.Fallback())
}

func TestFallback_CallersCannotCorruptTheFixture(t *testing.T) {
	g := compiler.Fallback()
	g.Nodes[0].ID = "tampered"
	g.Nodes[3].Agents[0] = "tampered"
	g.Edges[0].Label = "tampered"

	fresh := compiler.Fallback()
	assert.Equal(t, "init", fresh.Nodes[0].ID)
	assert.Equal(t, "backend_dev", fresh.Nodes[3].Agents[0])
	assert.Equal(t, "ready", fresh.Edges[0].Label)
}

func TestFallback_ReferenceSemantics(t *testing.T) {
	g := compiler.Fallback()

	byID := make(map[string]int)
	for i, n := range g.Nodes {
		byID[n.ID] = i
	}

	// halt is the only error state.
	for _, n := range g.Nodes {
		assert.Equal(t, n.ID == "halt", n.IsErrorState, n.ID)
	}

	// Edge IDs are sequential and recovery classification matches the
	// label predicate the compiler applies.
	recoveries := 0
	for i, e := range g.Edges {
		assert.Equal(t, "e"+strconv.Itoa(i), e.ID)
		if e.IsRecoveryPath {
			recoveries++
		}
	}
	assert.Equal(t, 9, recoveries)

	// The fixture's coordinates are hand-fixed; the fix state sits off the
	// spine, which the layout formula would never produce.
	require.Contains(t, byID, "fix")
	assert.NotEqual(t, float64(compiler.CenterX), g.Nodes[byID["fix"]].Position.X)
}
