package graph

import "math"

// CompletionResolver looks up the completion percentage of a linked node.
// The second result is false when the target cannot be resolved.
type CompletionResolver func(id string) (float64, bool)

// Aggregate returns the weight-weighted average completion of links, rounded
// to the nearest integer.
//
// Links whose target does not resolve are left out of both the weighted sum
// and the weight total. The result is 0 when links is empty or when the
// resolvable weights sum to 0.
func Aggregate(links []Link, resolve CompletionResolver) int {
	if len(links) == 0 || resolve == nil {
		return 0
	}

	var weighted, total float64
	for _, l := range links {
		c, ok := resolve(l.ID)
		if !ok {
			continue
		}
		weighted += l.Weight * c
		total += l.Weight
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(weighted / total))
}

// NodeResolver resolves completion by node ID over the given nodes.
func NodeResolver(nodes []Node) CompletionResolver {
	byID := make(map[string]float64, len(nodes))
	for _, n := range nodes {
		if _, ok := byID[n.ID]; !ok {
			byID[n.ID] = n.Completion
		}
	}
	return func(id string) (float64, bool) {
		c, ok := byID[id]
		return c, ok
	}
}

// RollupLinks returns the outgoing edges of nodeID as links keyed by target
// node ID, ready to pass to Aggregate. kind filters by target node kind; an
// empty kind keeps every target.
func (g *Graph) RollupLinks(nodeID string, kind NodeKind) []Link {
	kinds := make(map[string]NodeKind, len(g.Nodes))
	for _, n := range g.Nodes {
		kinds[n.ID] = n.Kind
	}
	var links []Link
	for _, e := range g.Edges {
		if e.FromID != nodeID {
			continue
		}
		if kind != "" && kinds[e.ToID] != kind {
			continue
		}
		links = append(links, Link{ID: e.ToID, Weight: e.Weight})
	}
	return links
}
