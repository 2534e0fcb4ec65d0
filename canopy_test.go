package canopy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/pkg/adapters/memory"
)

const reviewDoc = `states:
  draft:
    type: initial
    agent: writer
    transitions:
      submitted: review
  review:
    type: human-approval
    transitions:
      approved: complete
      changes_requested: draft
  complete:
    type: terminal
`

func TestNew_RequiresPathOrStore(t *testing.T) {
	_, err := canopy.New("")
	require.Error(t, err)

	st, err := canopy.New("", canopy.WithDocumentStore(memory.NewDocumentStore()))
	require.NoError(t, err)
	require.NotNil(t, st)
}

func TestNew_LoamBacked(t *testing.T) {
	dir := t.TempDir()
	st, err := canopy.New(dir)
	require.NoError(t, err)

	ctx := context.Background()
	rev, err := st.SetDocument(ctx, reviewDoc, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rev)

	// Reopening the same directory sees the saved document.
	st2, err := canopy.New(dir)
	require.NoError(t, err)
	text, rev, err := st2.Document(ctx)
	require.NoError(t, err)
	assert.Equal(t, reviewDoc, text)
	assert.Equal(t, uint64(1), rev)
}

func TestStudio_GraphFollowsDocument(t *testing.T) {
	st, err := canopy.New("", canopy.WithDocumentStore(memory.NewDocumentStore()))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = st.SetDocument(ctx, reviewDoc, 0)
	require.NoError(t, err)

	g, err := st.Graph(ctx)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 3)
	assert.Equal(t, "draft", g.Nodes[0].ID)
	assert.Equal(t, "review", g.Nodes[1].ID)
	assert.Equal(t, "complete", g.Nodes[2].ID)
}

func TestStudio_Subscribe(t *testing.T) {
	st, err := canopy.New("", canopy.WithDocumentStore(memory.NewDocumentStore()))
	require.NoError(t, err)

	updates, cancel := st.Subscribe()
	defer cancel()

	ctx := context.Background()
	_, err = st.SetDocument(ctx, reviewDoc, 0)
	require.NoError(t, err)

	update := <-updates
	assert.Equal(t, uint64(1), update.Revision)
	assert.Len(t, update.Graph.Nodes, 3)
}

func TestCompile_EmptyDocumentYieldsExample(t *testing.T) {
	g := canopy.Compile("")
	assert.Len(t, g.Nodes, 11)
	assert.Len(t, g.Edges, 20)
}

func TestValidate(t *testing.T) {
	res := canopy.Validate(reviewDoc)
	assert.True(t, res.Valid)

	res = canopy.Validate("states: [broken")
	assert.False(t, res.Valid)
}

func TestMermaid(t *testing.T) {
	out := canopy.Mermaid(canopy.Compile(reviewDoc))
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "draft")
}
