package mcptools

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/goalgraph/internal/config"
	"github.com/dusk-indust/goalgraph/internal/ctxlog"
	"github.com/dusk-indust/goalgraph/internal/export"
	"github.com/dusk-indust/goalgraph/internal/graph"
	"github.com/dusk-indust/goalgraph/internal/records"
)

const defaultNeighborhoodDepth = 2

var errNoGraph = errors.New("no graph built, call build_graph first")

// StoreFactory opens an empty store for a freshly built graph.
type StoreFactory func() (graph.Store, error)

// MemStoreFactory returns in-memory stores.
func MemStoreFactory() (graph.Store, error) {
	return graph.NewMemStore(), nil
}

// GraphService holds the current graph store and settings used by MCP tool
// handlers. Every build_graph call replaces the store.
type GraphService struct {
	mu       sync.RWMutex
	store    graph.Store
	newStore StoreFactory
	layout   graph.LayoutOptions
	policy   graph.ZeroSumPolicy
}

// NewGraphService creates a GraphService. A nil cfg uses defaults and a nil
// factory uses MemStoreFactory.
func NewGraphService(cfg *config.Config, newStore StoreFactory) *GraphService {
	svc := &GraphService{
		newStore: newStore,
		layout:   graph.DefaultLayoutOptions(),
		policy:   graph.ZeroSumLeave,
	}
	if svc.newStore == nil {
		svc.newStore = MemStoreFactory
	}
	if cfg != nil {
		svc.layout = cfg.LayoutOptions()
		svc.policy = cfg.ZeroSumPolicy()
	}
	return svc
}

// Close releases the current store.
func (s *GraphService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}

// withStore runs fn against the store built by the last build_graph call.
// The store cannot be replaced or closed until fn returns.
func (s *GraphService) withStore(fn func(graph.Store) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return errNoGraph
	}
	return fn(s.store)
}

// loadGraph reads the whole built graph back from the current store.
func (s *GraphService) loadGraph(ctx context.Context) (*graph.Graph, error) {
	var g *graph.Graph
	err := s.withStore(func(store graph.Store) error {
		var err error
		g, err = graph.LoadGraph(ctx, store)
		return err
	})
	return g, err
}

// BuildGraph loads records from files and inline input, builds the
// relationship graph, and saves it into a new store.
func (s *GraphService) BuildGraph(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BuildGraphInput,
) (*mcp.CallToolResult, BuildGraphOutput, error) {
	if len(input.Paths) == 0 && len(input.Goals) == 0 && len(input.Projects) == 0 {
		return nil, BuildGraphOutput{}, fmt.Errorf("paths or inline records are required")
	}

	data, err := records.LoadFiles(ctx, input.Paths)
	if err != nil {
		return nil, BuildGraphOutput{}, fmt.Errorf("load records: %w", err)
	}
	data.Merge(&records.Dataset{Goals: input.Goals, Projects: input.Projects})

	g := data.Graph()
	dropped := declaredLinks(data) - len(g.Edges)

	store, err := s.newStore()
	if err != nil {
		return nil, BuildGraphOutput{}, fmt.Errorf("open store: %w", err)
	}
	if err := graph.SaveGraph(ctx, store, g); err != nil {
		store.Close()
		return nil, BuildGraphOutput{}, fmt.Errorf("save graph: %w", err)
	}

	s.mu.Lock()
	old := s.store
	s.store = store
	if old != nil {
		if err := old.Close(); err != nil {
			ctxlog.FromContext(ctx).Warn("closing previous store", "error", err)
		}
	}
	s.mu.Unlock()

	stats := g.Stats()
	ctxlog.FromContext(ctx).Info("graph built",
		"goals", stats.GoalCount,
		"projects", stats.ProjectCount,
		"edges", stats.EdgeCount,
		"droppedLinks", dropped,
	)

	return nil, BuildGraphOutput{Stats: stats, DroppedLinks: dropped}, nil
}

// declaredLinks counts the links on the first record of each ID, matching
// what Build considers.
func declaredLinks(d *records.Dataset) int {
	n := 0
	seen := make(map[string]bool, len(d.Goals))
	for _, g := range d.Goals {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		n += len(g.LinkedGoals) + len(g.LinkedProjects)
	}
	seen = make(map[string]bool, len(d.Projects))
	for _, p := range d.Projects {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		n += len(p.LinkedGoals)
	}
	return n
}

// NormalizeWeights rescales a sibling weight set to sum to 100.
func (s *GraphService) NormalizeWeights(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input NormalizeWeightsInput,
) (*mcp.CallToolResult, NormalizeWeightsOutput, error) {
	policy := s.policy
	switch graph.ZeroSumPolicy(input.ZeroSumPolicy) {
	case "":
	case graph.ZeroSumLeave, graph.ZeroSumEqual:
		policy = graph.ZeroSumPolicy(input.ZeroSumPolicy)
	default:
		return nil, NormalizeWeightsOutput{}, fmt.Errorf("unknown zeroSumPolicy %q", input.ZeroSumPolicy)
	}

	out := graph.NormalizeWith(graph.Weights(input.Weights), policy)
	return nil, NormalizeWeightsOutput{Weights: out, Sum: out.Sum()}, nil
}

// AggregateProgress computes a weighted completion, either for a goal in the
// built graph or for ad hoc links.
func (s *GraphService) AggregateProgress(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AggregateProgressInput,
) (*mcp.CallToolResult, AggregateProgressOutput, error) {
	if input.GoalID == "" {
		if len(input.Links) == 0 {
			return nil, AggregateProgressOutput{}, fmt.Errorf("goalId or links is required")
		}
		resolve := func(id string) (float64, bool) {
			c, ok := input.Completions[id]
			return c, ok
		}
		return nil, AggregateProgressOutput{Completion: graph.Aggregate(input.Links, resolve)}, nil
	}

	g, err := s.loadGraph(ctx)
	if err != nil {
		return nil, AggregateProgressOutput{}, err
	}

	id := graph.GoalID(input.GoalID)
	if g.Node(id) == nil {
		return nil, AggregateProgressOutput{}, fmt.Errorf("%w: goal %q", records.ErrUnknownRecord, input.GoalID)
	}
	links := g.RollupLinks(id, graph.NodeKindProject)
	if len(links) == 0 {
		links = g.RollupLinks(id, graph.NodeKindGoal)
	}
	return nil, AggregateProgressOutput{Completion: graph.Aggregate(links, graph.NodeResolver(g.Nodes))}, nil
}

// LayoutGraph runs a radial layout pass over the built graph.
func (s *GraphService) LayoutGraph(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LayoutGraphInput,
) (*mcp.CallToolResult, LayoutGraphOutput, error) {
	if input.Focal == "" {
		return nil, LayoutGraphOutput{}, fmt.Errorf("focal is required")
	}

	g, err := s.loadGraph(ctx)
	if err != nil {
		return nil, LayoutGraphOutput{}, err
	}
	if g.Node(input.Focal) == nil {
		return nil, LayoutGraphOutput{}, fmt.Errorf("%w: node %q", records.ErrUnknownRecord, input.Focal)
	}

	res := export.NewLayoutExport(g, input.Focal, s.layoutOptions(input))
	ctxlog.FromContext(ctx).Debug("layout computed", "focal", input.Focal, "placed", len(res.Placed()))
	return nil, LayoutGraphOutput{Layout: *res}, nil
}

// layoutOptions overlays the non-zero fields of input on the configured layout.
func (s *GraphService) layoutOptions(input LayoutGraphInput) graph.LayoutOptions {
	opts := s.layout
	if input.BaseRadius != 0 {
		opts.BaseRadius = input.BaseRadius
	}
	if input.WindowStart != 0 || input.WindowEnd != 0 {
		opts.Window = graph.AngleWindow{Start: input.WindowStart, End: input.WindowEnd}
	}
	if input.MaxDepth != 0 {
		opts.MaxDepth = input.MaxDepth
	}
	if input.RingFactor != 0 {
		opts.RingFactor = input.RingFactor
	}
	return opts
}

// GetNeighborhood walks links in both directions from a node.
func (s *GraphService) GetNeighborhood(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetNeighborhoodInput,
) (*mcp.CallToolResult, GetNeighborhoodOutput, error) {
	if input.NodeID == "" {
		return nil, GetNeighborhoodOutput{}, fmt.Errorf("nodeId is required")
	}
	maxDepth := input.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultNeighborhoodDepth
	}

	var paths []graph.Path
	err := s.withStore(func(store graph.Store) error {
		var err error
		paths, err = store.Neighborhood(ctx, input.NodeID, maxDepth)
		if err != nil {
			return fmt.Errorf("neighborhood: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, GetNeighborhoodOutput{}, err
	}
	if paths == nil {
		paths = []graph.Path{}
	}
	return nil, GetNeighborhoodOutput{Paths: paths}, nil
}

// GetComponents returns the connected components of the built graph.
func (s *GraphService) GetComponents(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ GetComponentsInput,
) (*mcp.CallToolResult, GetComponentsOutput, error) {
	g, err := s.loadGraph(ctx)
	if err != nil {
		return nil, GetComponentsOutput{}, err
	}
	components := graph.Components(g)
	if components == nil {
		components = []graph.Component{}
	}
	return nil, GetComponentsOutput{Components: components}, nil
}
