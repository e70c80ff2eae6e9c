package export

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dusk-indust/goalgraph/internal/graph"
)

// GenerateMermaid produces a Mermaid graph LR flowchart of g.
// Goals render as rounded boxes and projects as rectangles; every edge is
// drawn, labelled with its relation and weight.
func GenerateMermaid(g *graph.Graph) string {
	// Node IDs contain dashes, so Mermaid gets its own alphanumeric IDs.
	nodeIDs := make(map[string]string, len(g.Nodes))
	getID := func(id string) string {
		if m, ok := nodeIDs[id]; ok {
			return m
		}
		m := fmt.Sprintf("N%d", len(nodeIDs))
		nodeIDs[id] = m
		return m
	}

	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, n := range g.Nodes {
		label := escapeLabel(fmt.Sprintf("%s (%s%%)", n.Title, formatNumber(n.Completion)))
		switch n.Kind {
		case graph.NodeKindGoal:
			fmt.Fprintf(&sb, "  %s(\"%s\")\n", getID(n.ID), label)
		default:
			fmt.Fprintf(&sb, "  %s[\"%s\"]\n", getID(n.ID), label)
		}
	}

	for _, e := range g.Edges {
		fmt.Fprintf(&sb, "  %s -->|\"%s %s\"| %s\n",
			getID(e.FromID), e.Relation, formatNumber(e.Weight), getID(e.ToID))
	}

	return sb.String()
}

// GenerateMermaidFromStore renders the graph held by store.
func GenerateMermaidFromStore(ctx context.Context, store graph.Store) (string, error) {
	g, err := graph.LoadGraph(ctx, store)
	if err != nil {
		return "", fmt.Errorf("load graph: %w", err)
	}
	return GenerateMermaid(g), nil
}

// escapeLabel replaces characters that would end a quoted Mermaid label.
func escapeLabel(s string) string {
	return strings.NewReplacer(`"`, "#quot;", "\n", " ").Replace(s)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
