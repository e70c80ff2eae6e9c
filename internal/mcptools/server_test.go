package mcptools

import (
	"context"
	"encoding/json"
	"net"
	"sort"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/goalgraph/internal/graph"
)

// setupServerClient wires an MCP server and client together using in-memory
// transports. It returns the connected client session and the underlying
// GraphService so that tests can inspect state when needed.
func setupServerClient(t *testing.T) (*mcp.ClientSession, *GraphService) {
	t.Helper()

	svc := NewGraphService(nil, nil)
	server := NewGraphMCPServer(svc)

	st, ct := mcp.NewInMemoryTransports()

	ctx := context.Background()

	_, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		session.Close()
		svc.Close()
	})

	return session, svc
}

// callTool invokes a tool and decodes its structured output into out.
func callTool(t *testing.T, session *mcp.ClientSession, name string, args any, out any) {
	t.Helper()

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.False(t, result.IsError, "tool %s returned an error: %v", name, result.Content)

	raw, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

// TestMCPListTools verifies that the MCP server exposes exactly 6 tools with
// the expected names.
func TestMCPListTools(t *testing.T) {
	session, _ := setupServerClient(t)
	ctx := context.Background()

	result, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)

	require.Len(t, result.Tools, 6, "expected 6 registered tools")

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}
	sort.Strings(names)

	expected := []string{
		"aggregate_progress",
		"build_graph",
		"get_components",
		"get_neighborhood",
		"layout_graph",
		"normalize_weights",
	}
	assert.Equal(t, expected, names)
}

// TestMCPBuildAndLayout builds the roadmap fixture through the client and
// then lays it out around goal-1.
func TestMCPBuildAndLayout(t *testing.T) {
	session, _ := setupServerClient(t)

	var built BuildGraphOutput
	callTool(t, session, "build_graph", BuildGraphInput{
		Paths: []string{fixtureAbsPath(t, "roadmap.yaml"), fixtureAbsPath(t, "extra.json")},
	}, &built)
	assert.Equal(t, graph.GraphStats{GoalCount: 4, ProjectCount: 4, EdgeCount: 7}, built.Stats)

	var laid LayoutGraphOutput
	callTool(t, session, "layout_graph", LayoutGraphInput{Focal: "goal-1"}, &laid)
	assert.Equal(t, "goal-1", laid.Layout.Focal)
	assert.Len(t, laid.Layout.Nodes, 8)

	var rolled AggregateProgressOutput
	callTool(t, session, "aggregate_progress", AggregateProgressInput{GoalID: "1"}, &rolled)
	assert.Equal(t, 68, rolled.Completion)

	var comps GetComponentsOutput
	callTool(t, session, "get_components", GetComponentsInput{}, &comps)
	require.Len(t, comps.Components, 2)
	assert.Equal(t, []string{"goal-3"}, comps.Components[1].Members)
}

// TestMCPNormalizeWeights checks the example set 50/30/30.
func TestMCPNormalizeWeights(t *testing.T) {
	session, _ := setupServerClient(t)

	var out NormalizeWeightsOutput
	callTool(t, session, "normalize_weights", NormalizeWeightsInput{
		Weights: []graph.Weight{{ID: "a", Value: 50}, {ID: "b", Value: 30}, {ID: "c", Value: 30}},
	}, &out)

	assert.Equal(t, []graph.Weight{{ID: "a", Value: 46}, {ID: "b", Value: 27}, {ID: "c", Value: 27}}, out.Weights)
}

// TestMCPToolErrorBeforeBuild verifies that graph tools report an error
// result rather than failing the call when nothing has been built.
func TestMCPToolErrorBeforeBuild(t *testing.T) {
	session, _ := setupServerClient(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_neighborhood",
		Arguments: GetNeighborhoodInput{NodeID: "goal-1"},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestRunMCPServer_ListenFailureReturns(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	svc := NewGraphService(nil, nil)
	defer svc.Close()

	errc := make(chan error, 1)
	go func() { errc <- RunMCPServer(context.Background(), svc, ln.Addr().String()) }()

	select {
	case err := <-errc:
		assert.Error(t, err, "address already in use")
	case <-time.After(5 * time.Second):
		t.Fatal("RunMCPServer did not return after a listen failure")
	}
}

func TestRunMCPServer_StopsOnCancel(t *testing.T) {
	svc := NewGraphService(nil, nil)
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- RunMCPServer(ctx, svc, "127.0.0.1:0") }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunMCPServer did not stop after cancel")
	}
}
