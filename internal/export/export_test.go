package export

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/goalgraph/internal/graph"
)

func sampleGraph() *graph.Graph {
	goals := []graph.GoalRecord{
		{ID: "1", Title: `Grow "core" revenue`, Completion: 35, LinkedProjects: []graph.Link{{ID: "10", Weight: 70}, {ID: "11", Weight: 30}}},
		{ID: "2", Title: "Reduce churn", Completion: 10},
	}
	projects := []graph.ProjectRecord{
		{ID: "10", Name: "Checkout", Completion: 80},
		{ID: "11", Name: "Pricing", Completion: 40},
	}
	return graph.Build(goals, projects)
}

func TestGenerateMermaid(t *testing.T) {
	out := GenerateMermaid(sampleGraph())

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, "graph LR", lines[0])
	assert.Equal(t, []string{
		`  N0("Grow #quot;core#quot; revenue (35%)")`,
		`  N1("Reduce churn (10%)")`,
		`  N2["Checkout (80%)"]`,
		`  N3["Pricing (40%)"]`,
		`  N0 -->|"supports 70"| N2`,
		`  N0 -->|"supports 30"| N3`,
	}, lines[1:])
}

func TestGenerateMermaid_Empty(t *testing.T) {
	assert.Equal(t, "graph LR\n", GenerateMermaid(&graph.Graph{}))
}

func TestGenerateMermaidFromStore(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()
	require.NoError(t, graph.SaveGraph(ctx, store, sampleGraph()))

	out, err := GenerateMermaidFromStore(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, GenerateMermaid(sampleGraph()), out)
}

func TestNewLayoutExport(t *testing.T) {
	g := sampleGraph()
	e := NewLayoutExport(g, "goal-1", graph.DefaultLayoutOptions())

	assert.Equal(t, "goal-1", e.Focal)
	assert.Equal(t, graph.GraphStats{GoalCount: 2, ProjectCount: 2, EdgeCount: 2}, e.Stats)
	require.Len(t, e.Nodes, 4)
	require.Len(t, e.Edges, 2)

	byID := map[string]NodeExport{}
	for _, n := range e.Nodes {
		byID[n.ID] = n
	}

	require.NotNil(t, byID["goal-1"].Depth)
	assert.Equal(t, 0, *byID["goal-1"].Depth)
	require.NotNil(t, byID["project-10"].Depth)
	assert.Equal(t, 1, *byID["project-10"].Depth)
	assert.Nil(t, byID["goal-2"].Depth, "disconnected goal is not placed")

	p := byID["project-11"].Position
	assert.InDelta(t, -300, p.X, 1e-9)
	assert.InDelta(t, 0, p.Y, 1e-9)
	assert.Equal(t, graph.ProjectSize, byID["project-11"].Size)

	assert.Len(t, e.Placed(), 3)

	// The input graph is not touched.
	assert.Equal(t, graph.Position{}, g.Node("project-11").Position)
}

func TestLayoutExport_Marshal(t *testing.T) {
	e := NewLayoutExport(sampleGraph(), "goal-1", graph.LayoutOptions{
		BaseRadius: 100,
		Window:     graph.AngleWindow{Start: 0, End: math.Pi},
		MaxDepth:   1,
		RingFactor: 0.5,
	})

	data, err := e.Marshal()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "goal-1", decoded["focal"])
	assert.NotEmpty(t, decoded["exportedAt"])

	opts := decoded["options"].(map[string]any)
	assert.Equal(t, 100.0, opts["baseRadius"])

	nodes := decoded["nodes"].([]any)
	last := nodes[3].(map[string]any)
	assert.Equal(t, "project-11", last["id"])
	assert.Equal(t, 1.0, last["depth"])

	goal2 := nodes[1].(map[string]any)
	_, hasDepth := goal2["depth"]
	assert.False(t, hasDepth)
}

func TestNewLayoutExport_EmptyGraph(t *testing.T) {
	e := NewLayoutExport(&graph.Graph{}, "goal-1", graph.DefaultLayoutOptions())
	assert.Empty(t, e.Nodes)
	assert.NotNil(t, e.Edges)
}
