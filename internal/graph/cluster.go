package graph

// Component is a connected group of nodes in the undirected link graph.
type Component struct {
	Name     string   `json:"name"`     // ID of the first member in node order
	Members  []string `json:"members"`  // node IDs in discovery order
	Cohesion float64  `json:"cohesion"` // distinct linked pairs / possible pairs
}

// Components finds the connected components of g, treating edges as
// undirected. Components are returned in order of their first node in
// g.Nodes; singletons are included. The radial layout never crosses from one
// component to another, so this tells a caller which nodes a focal choice
// leaves unplaced.
//
// Algorithm:
//  1. Build an undirected adjacency list over edges between known nodes.
//  2. BFS from every unvisited node in node order.
//  3. Score each component by how densely its members are linked.
func Components(g *Graph) []Component {
	adj := buildAdjacency(g)

	visited := make(map[string]bool, len(g.Nodes))
	var out []Component
	for _, n := range g.Nodes {
		if visited[n.ID] {
			continue
		}
		members := bfsComponent(n.ID, adj, visited)
		out = append(out, Component{
			Name:     n.ID,
			Members:  members,
			Cohesion: computeCohesion(members, adj),
		})
	}
	return out
}

// buildAdjacency constructs an ordered, de-duplicated, bidirectional
// adjacency list. Self links and dangling edges are ignored.
func buildAdjacency(g *Graph) map[string][]string {
	adj := make(map[string][]string, len(g.Nodes))
	seen := make(map[string]map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		adj[n.ID] = nil
		seen[n.ID] = make(map[string]bool)
	}
	link := func(a, b string) {
		if seen[a][b] {
			return
		}
		seen[a][b] = true
		adj[a] = append(adj[a], b)
	}
	for _, e := range g.Edges {
		if e.FromID == e.ToID || seen[e.FromID] == nil || seen[e.ToID] == nil {
			continue
		}
		link(e.FromID, e.ToID)
		link(e.ToID, e.FromID)
	}
	return adj
}

// bfsComponent performs BFS from start and returns all reachable nodes,
// marking them visited.
func bfsComponent(start string, adj map[string][]string, visited map[string]bool) []string {
	var component []string
	queue := []string{start}
	visited[start] = true

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		component = append(component, node)
		for _, neighbor := range adj[node] {
			if !visited[neighbor] {
				visited[neighbor] = true
				queue = append(queue, neighbor)
			}
		}
	}
	return component
}

// computeCohesion returns linked pairs / (n*(n-1)/2). A singleton scores 1.
func computeCohesion(members []string, adj map[string][]string) float64 {
	n := len(members)
	if n < 2 {
		return 1
	}
	degrees := 0
	for _, m := range members {
		degrees += len(adj[m])
	}
	pairs := float64(n*(n-1)) / 2
	return float64(degrees/2) / pairs
}
