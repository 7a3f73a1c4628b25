package roadmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoadmap() *Roadmap {
	return &Roadmap{
		Title:       "Backend Path",
		Description: "From zero to deployed",
		Nodes: []Node{
			{ID: "n1", Title: "HTTP basics", Status: StatusCompleted, Topics: []string{"verbs", "status codes"}},
			{ID: "n2", Title: "Databases", Status: StatusActive, EstimatedHours: 12, Topics: []string{"sql"}},
			{ID: "n3", Title: "Caching", Status: StatusNotStarted},
			{ID: "n4", Title: "Deployment", Status: StatusNotStarted},
		},
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	data := []byte(`{"title":"Go Path","nodes":[{"id":"a","title":"Syntax","estimatedHours":4,"status":"active","topics":["vars","funcs"]}]}`)

	r, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "Go Path", r.Title)
	require.Len(t, r.Nodes, 1)
	assert.Equal(t, "a", r.Nodes[0].ID)
	assert.Equal(t, 4, r.Nodes[0].EstimatedHours)
	assert.Equal(t, StatusActive, r.Nodes[0].Status)
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`{"nodes": [`))
	assert.ErrorIs(t, err, ErrMalformedDocument)
}

func TestSerializeRoundTrip(t *testing.T) {
	t.Parallel()

	r := testRoadmap()
	data, err := r.Serialize()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, r, parsed)
}

func TestCompleteNode_AdvancesNext(t *testing.T) {
	t.Parallel()

	r := testRoadmap()
	require.NoError(t, r.CompleteNode("n2"))

	assert.Equal(t, StatusCompleted, r.Nodes[1].Status)
	assert.Equal(t, StatusActive, r.Nodes[2].Status)
	// Untouched neighbors stay as they were.
	assert.Equal(t, StatusCompleted, r.Nodes[0].Status)
	assert.Equal(t, StatusNotStarted, r.Nodes[3].Status)
}

func TestCompleteNode_RepeatFails(t *testing.T) {
	t.Parallel()

	r := testRoadmap()
	require.NoError(t, r.CompleteNode("n2"))

	err := r.CompleteNode("n2")
	assert.ErrorIs(t, err, ErrNodeNotActive)
}

func TestCompleteNode_NotActive(t *testing.T) {
	t.Parallel()

	r := testRoadmap()

	// Not-started node cannot be completed out of order.
	assert.ErrorIs(t, r.CompleteNode("n4"), ErrNodeNotActive)
	// Neither can an already-completed node.
	assert.ErrorIs(t, r.CompleteNode("n1"), ErrNodeNotActive)
	// Roadmap is unchanged by failed attempts.
	assert.Equal(t, StatusActive, r.Nodes[1].Status)
}

func TestCompleteNode_NotFound(t *testing.T) {
	t.Parallel()

	r := testRoadmap()
	assert.ErrorIs(t, r.CompleteNode("missing"), ErrNodeNotFound)
}

func TestCompleteNode_LastNodeTerminal(t *testing.T) {
	t.Parallel()

	r := &Roadmap{Nodes: []Node{
		{ID: "a", Status: StatusCompleted},
		{ID: "b", Status: StatusActive},
	}}

	require.NoError(t, r.CompleteNode("b"))
	assert.Equal(t, StatusCompleted, r.Nodes[1].Status)
	assert.Nil(t, r.ActiveNode())
}

func TestActiveNode(t *testing.T) {
	t.Parallel()

	r := testRoadmap()
	active := r.ActiveNode()
	require.NotNil(t, active)
	assert.Equal(t, "n2", active.ID)
}
