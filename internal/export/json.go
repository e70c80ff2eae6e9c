package export

import (
	"encoding/json"
	"time"

	"github.com/dusk-indust/goalgraph/internal/graph"
)

// LayoutExport is the JSON document describing one layout pass.
type LayoutExport struct {
	Focal      string              `json:"focal"`
	ExportedAt string              `json:"exportedAt"`
	Options    graph.LayoutOptions `json:"options"`
	Stats      graph.GraphStats    `json:"stats"`
	Nodes      []NodeExport        `json:"nodes"`
	Edges      []graph.Edge        `json:"edges"`
}

// NodeExport is a laid-out node. Depth is nil for nodes the pass did not
// reach; they keep their previous position.
type NodeExport struct {
	ID         string         `json:"id"`
	Kind       graph.NodeKind `json:"kind"`
	Title      string         `json:"title"`
	Status     graph.Status   `json:"status"`
	Completion float64        `json:"completion"`
	Position   graph.Position `json:"position"`
	Size       graph.Size     `json:"size"`
	Depth      *int           `json:"depth,omitempty"`
}

// NewLayoutExport runs a layout pass over g and packages the result.
func NewLayoutExport(g *graph.Graph, focal string, opts graph.LayoutOptions) *LayoutExport {
	res := graph.Arrange(g.Nodes, g.Edges, focal, opts)

	out := &LayoutExport{
		Focal:      focal,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Options:    opts,
		Stats:      g.Stats(),
		Nodes:      make([]NodeExport, 0, len(res.Nodes)),
		Edges:      g.Edges,
	}
	if out.Edges == nil {
		out.Edges = []graph.Edge{}
	}

	for _, n := range res.Nodes {
		ne := NodeExport{
			ID:         n.ID,
			Kind:       n.Kind,
			Title:      n.Title,
			Status:     n.Status,
			Completion: n.Completion,
			Position:   n.Position,
			Size:       n.Size,
		}
		if d, ok := res.Depths[n.ID]; ok {
			ne.Depth = &d
		}
		out.Nodes = append(out.Nodes, ne)
	}
	return out
}

// Placed returns the nodes that received a depth.
func (e *LayoutExport) Placed() []NodeExport {
	var out []NodeExport
	for _, n := range e.Nodes {
		if n.Depth != nil {
			out = append(out, n)
		}
	}
	return out
}

// Marshal renders the export as indented JSON.
func (e *LayoutExport) Marshal() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}
