package mcptools

import (
	"context"
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewGraphMCPServer creates an MCP server with all 6 relationship graph tools registered.
func NewGraphMCPServer(svc *GraphService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "goalgraph",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "build_graph",
		Description: "Load goal and project records from files and inline input, build the relationship graph, and store it for the other tools. Returns node and edge counts.",
	}, svc.BuildGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "normalize_weights",
		Description: "Rescale an ordered set of sibling link weights to integers summing to 100. Rounding residue goes to the first entry.",
	}, svc.NormalizeWeights)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "aggregate_progress",
		Description: "Compute the weighted average completion of a goal in the built graph, or of ad hoc links with given completions.",
	}, svc.AggregateProgress)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "layout_graph",
		Description: "Position the built graph in concentric rings around a focal node. Returns every node with its position and ring depth.",
	}, svc.LayoutGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_neighborhood",
		Description: "Walk links in both directions from a node and return one path per reachable node, up to the given depth.",
	}, svc.GetNeighborhood)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_components",
		Description: "Return the connected components of the built graph with cohesion scores. Nodes outside the focal node's component are never placed by layout_graph.",
	}, svc.GetComponents)

	return server
}

// RunMCPServerStdio runs the MCP server on stdio transport, blocking until
// stdin is closed or the context is cancelled.
func RunMCPServerStdio(ctx context.Context, svc *GraphService) error {
	return NewGraphMCPServer(svc).Run(ctx, &mcp.StdioTransport{})
}

// RunMCPServer starts an HTTP server exposing the relationship graph MCP tools.
func RunMCPServer(ctx context.Context, svc *GraphService, addr string) error {
	server := NewGraphMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled. The watcher exits before
	// RunMCPServer returns, including when the listener fails to start.
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			httpServer.Shutdown(context.Background())
		case <-done:
		}
	}()
	defer func() {
		close(done)
		<-stopped
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
