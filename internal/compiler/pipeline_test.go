package compiler_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/aretw0/canopy/internal/compiler"
	"github.com/aretw0/canopy/pkg/domain"
)

const reviewDoc = `states:
  A:
    type: initial
    transitions:
      x: B
  B:
    type: single
    transitions:
      y: A
`

func TestCompile_FallbackSubstitution(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty string", ""},
		{"empty mapping", "{}"},
		{"empty states", "states: {}"},
		{"malformed document", "states: [broken"},
	}

	c := compiler.New(nil)
	fixture := compiler.Fallback()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Compile(tt.doc)
			// Wholesale substitution: the full fixture, never a merge.
			assert.Equal(t, fixture, got)
		})
	}
}

func TestCompile_EdgeOrderFollowsDocument(t *testing.T) {
	g := compiler.New(nil).Compile(reviewDoc)

	require.Len(t, g.Edges, 2)
	assert.Equal(t, domain.GraphEdge{ID: "e0", Source: "A", Target: "B", Label: "x"}, g.Edges[0])
	assert.Equal(t, domain.GraphEdge{ID: "e1", Source: "B", Target: "A", Label: "y"}, g.Edges[1])
}

func TestCompile_Determinism(t *testing.T) {
	c := compiler.New(nil)
	first := c.Compile(reviewDoc)
	second := c.Compile(reviewDoc)
	assert.Equal(t, first, second)
}

func TestCompile_PositionsApplied(t *testing.T) {
	doc := `states:
  gather:
    type: initial
  summarize:
    type: single
    agent: summarizer
  complete:
    type: terminal
  halt:
    type: terminal
`
	g := compiler.New(nil).Compile(doc)

	require.Len(t, g.Nodes, 4)
	assert.Equal(t, domain.Position{X: 300, Y: 0}, g.Nodes[0].Position)
	assert.Equal(t, domain.Position{X: 300, Y: 120}, g.Nodes[1].Position)
	assert.Equal(t, domain.Position{X: 200, Y: 240}, g.Nodes[2].Position)
	assert.Equal(t, domain.Position{X: 400, Y: 240}, g.Nodes[3].Position)
	assert.Equal(t, []string{"summarizer"}, g.Nodes[1].Agents)
	assert.True(t, g.Nodes[3].IsErrorState)
}

func TestCompile_NoEdgesYieldsEmptySlice(t *testing.T) {
	g := compiler.New(nil).Compile("states:\n  only:\n    type: single\n")
	assert.NotNil(t, g.Edges)
	assert.Empty(t, g.Edges)
}

// Property: compiling any generated document is deterministic, keeps
// document order, and never produces an empty graph (the fixture covers
// the empty case).
func TestCompile_DeterminismProperty(t *testing.T) {
	c := compiler.New(nil)
	idGen := rapid.StringMatching(`[a-z][a-z0-9_]{0,8}`)

	rapid.Check(t, func(t *rapid.T) {
		ids := rapid.SliceOfNDistinct(idGen, 1, 8, rapid.ID[string]).Draw(t, "ids")

		var sb strings.Builder
		sb.WriteString("states:\n")
		for i, id := range ids {
			fmt.Fprintf(&sb, "  %s:\n    type: single\n", id)
			if i > 0 {
				fmt.Fprintf(&sb, "    transitions:\n      back: %s\n", ids[0])
			}
		}
		doc := sb.String()

		first := c.Compile(doc)
		second := c.Compile(doc)
		if len(first.Nodes) == 0 {
			t.Fatalf("compile produced an empty graph for %q", doc)
		}
		for i, n := range first.Nodes {
			if n.ID != ids[i] && !domain.IsTerminalID(n.ID) {
				t.Fatalf("node order diverged at %d: got %s want %s", i, n.ID, ids[i])
			}
		}
		assertGraphsEqual(t, first, second)
	})
}

func assertGraphsEqual(t *rapid.T, a, b domain.PositionedGraph) {
	if len(a.Nodes) != len(b.Nodes) || len(a.Edges) != len(b.Edges) {
		t.Fatalf("graph shapes diverged between identical compiles")
	}
	for i := range a.Nodes {
		if a.Nodes[i].ID != b.Nodes[i].ID || a.Nodes[i].Position != b.Nodes[i].Position {
			t.Fatalf("node %d diverged between identical compiles", i)
		}
	}
	for i := range a.Edges {
		if a.Edges[i] != b.Edges[i] {
			t.Fatalf("edge %d diverged between identical compiles", i)
		}
	}
}
