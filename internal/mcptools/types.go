package mcptools

import (
	"github.com/dusk-indust/goalgraph/internal/export"
	"github.com/dusk-indust/goalgraph/internal/graph"
)

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// BuildGraphInput is the input for the build_graph MCP tool.
type BuildGraphInput struct {
	Paths    []string              `json:"paths,omitempty" jsonschema:"record files (.yml, .yaml or .json) to load, merged in order"`
	Goals    []graph.GoalRecord    `json:"goals,omitempty" jsonschema:"inline goal records, appended after the files"`
	Projects []graph.ProjectRecord `json:"projects,omitempty" jsonschema:"inline project records, appended after the files"`
}

// BuildGraphOutput is the result of the build_graph MCP tool.
type BuildGraphOutput struct {
	Stats        graph.GraphStats `json:"stats"`
	DroppedLinks int              `json:"droppedLinks"`
}

// NormalizeWeightsInput is the input for the normalize_weights MCP tool.
type NormalizeWeightsInput struct {
	Weights       []graph.Weight `json:"weights" jsonschema:"ordered sibling weights; rounding residue goes to the first entry"`
	ZeroSumPolicy string         `json:"zeroSumPolicy,omitempty" jsonschema:"all-zero handling: leave or equal (default: configured policy)"`
}

// NormalizeWeightsOutput is the result of the normalize_weights MCP tool.
type NormalizeWeightsOutput struct {
	Weights []graph.Weight `json:"weights"`
	Sum     float64        `json:"sum"`
}

// AggregateProgressInput is the input for the aggregate_progress MCP tool.
// Either GoalID or Links must be set.
type AggregateProgressInput struct {
	GoalID      string             `json:"goalId,omitempty" jsonschema:"raw goal ID in the built graph; rolls up its linked projects, or its linked goals when it has none"`
	Links       []graph.Link       `json:"links,omitempty" jsonschema:"ad hoc weighted links"`
	Completions map[string]float64 `json:"completions,omitempty" jsonschema:"completion percentage per link ID, used with links"`
}

// AggregateProgressOutput is the result of the aggregate_progress MCP tool.
type AggregateProgressOutput struct {
	Completion int `json:"completion"`
}

// LayoutGraphInput is the input for the layout_graph MCP tool.
// Zero values fall back to the configured layout.
type LayoutGraphInput struct {
	Focal       string  `json:"focal" jsonschema:"node ID to center the layout on, e.g. goal-1"`
	BaseRadius  float64 `json:"baseRadius,omitempty" jsonschema:"radius of the first ring"`
	WindowStart float64 `json:"windowStart,omitempty" jsonschema:"start of the angular window in radians"`
	WindowEnd   float64 `json:"windowEnd,omitempty" jsonschema:"end of the angular window in radians"`
	MaxDepth    int     `json:"maxDepth,omitempty" jsonschema:"number of rings to place"`
	RingFactor  float64 `json:"ringFactor,omitempty" jsonschema:"radius multiplier between rings"`
}

// LayoutGraphOutput is the result of the layout_graph MCP tool.
type LayoutGraphOutput struct {
	Layout export.LayoutExport `json:"layout"`
}

// GetNeighborhoodInput is the input for the get_neighborhood MCP tool.
type GetNeighborhoodInput struct {
	NodeID   string `json:"nodeId" jsonschema:"node ID to start from, e.g. project-10"`
	MaxDepth int    `json:"maxDepth,omitempty" jsonschema:"maximum number of hops (default: 2)"`
}

// GetNeighborhoodOutput is the result of the get_neighborhood MCP tool.
type GetNeighborhoodOutput struct {
	Paths []graph.Path `json:"paths"`
}

// GetComponentsInput is the input for the get_components MCP tool.
type GetComponentsInput struct{}

// GetComponentsOutput is the result of the get_components MCP tool.
type GetComponentsOutput struct {
	Components []graph.Component `json:"components"`
}
