package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy/internal/compiler"
	"github.com/aretw0/canopy/pkg/domain"
)

func TestParser_AgentNormalization(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "single agent wrapped as singleton",
			body: "    agent: coder\n",
			want: []string{"coder"},
		},
		{
			name: "agents list used as-is",
			body: "    agents: [coder, reviewer]\n",
			want: []string{"coder", "reviewer"},
		},
		{
			name: "agents takes precedence over agent",
			body: "    agent: solo\n    agents: [a, b]\n",
			want: []string{"a", "b"},
		},
		{
			name: "empty agents list stays empty, agent ignored",
			body: "    agent: solo\n    agents: []\n",
			want: []string{},
		},
		{
			name: "neither field yields nil",
			body: "    type: single\n",
			want: nil,
		},
	}

	p := compiler.NewParser(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf, err := p.Parse("states:\n  work:\n" + tt.body)
			require.NoError(t, err)
			require.Len(t, wf.States, 1)
			assert.Equal(t, tt.want, wf.States[0].Agents)
		})
	}
}

func TestParser_TransitionsKeepDocumentOrder(t *testing.T) {
	doc := `states:
  triage:
    type: single
    transitions:
      zulu: review
      alpha: build
      mike: halt
`
	wf, err := compiler.NewParser(nil).Parse(doc)
	require.NoError(t, err)

	spec, ok := wf.State("triage")
	require.True(t, ok)
	require.Equal(t, []domain.Transition{
		{Condition: "zulu", Target: "review"},
		{Condition: "alpha", Target: "build"},
		{Condition: "mike", Target: "halt"},
	}, spec.Transitions)
}

func TestParser_DuplicateIDsLastSeenWins(t *testing.T) {
	doc := `states:
  a:
    type: single
    agent: first
  b:
    type: single
  a:
    type: fan-out
    agents: [second]
`
	wf, err := compiler.NewParser(nil).Parse(doc)
	require.NoError(t, err)

	// The later body wins, but "a" keeps its first-seen slot.
	require.Len(t, wf.States, 2)
	assert.Equal(t, "a", wf.States[0].ID)
	assert.Equal(t, domain.KindFanOut, wf.States[0].Kind)
	assert.Equal(t, []string{"second"}, wf.States[0].Agents)
	assert.Equal(t, "b", wf.States[1].ID)
}

func TestParser_DuplicateConditionsLastSeenWins(t *testing.T) {
	doc := `states:
  review:
    type: single
    transitions:
      approved: publish
      rejected: rework
      approved: archive
  publish:
  rework:
  archive:
`
	wf, err := compiler.NewParser(nil).Parse(doc)
	require.NoError(t, err)

	// The later target wins, but "approved" keeps its first-seen slot.
	require.Len(t, wf.States[0].Transitions, 2)
	assert.Equal(t, domain.Transition{Condition: "approved", Target: "archive"}, wf.States[0].Transitions[0])
	assert.Equal(t, domain.Transition{Condition: "rejected", Target: "rework"}, wf.States[0].Transitions[1])
}

func TestParser_UnknownKindSurvives(t *testing.T) {
	wf, err := compiler.NewParser(nil).Parse("states:\n  odd:\n    type: quantum\n")
	require.NoError(t, err)
	assert.Equal(t, domain.StateKind("quantum"), wf.States[0].Kind)
}

func TestParser_BareStateBody(t *testing.T) {
	wf, err := compiler.NewParser(nil).Parse("states:\n  complete:\n  halt:\n")
	require.NoError(t, err)
	require.Len(t, wf.States, 2)
	assert.Equal(t, domain.StateSpec{ID: "complete"}, wf.States[0])
}

func TestParser_FailureCases(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ""},
		{"empty mapping", "{}"},
		{"states is a scalar", "states: nope"},
		{"states is a sequence", "states:\n  - a\n  - b\n"},
		{"malformed yaml", "states: {a: [}"},
		{"top level sequence", "- a\n- b\n"},
		{"scalar state body", "states:\n  a: just-a-string\n"},
	}

	p := compiler.NewParser(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf, err := p.Parse(tt.doc)
			assert.ErrorIs(t, err, domain.ErrInvalidDocument)
			assert.Nil(t, wf)
		})
	}
}

func TestParser_EmptyStatesMappingIsNotAFailure(t *testing.T) {
	wf, err := compiler.NewParser(nil).Parse("states: {}")
	require.NoError(t, err)
	assert.True(t, wf.Empty())
}

func TestParser_NoReferentialValidation(t *testing.T) {
	doc := `states:
  lone:
    transitions:
      go: nowhere
`
	wf, err := compiler.NewParser(nil).Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, "nowhere", wf.States[0].Transitions[0].Target)
}
