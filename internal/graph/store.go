package graph

import (
	"context"
	"fmt"
	"io"
)

// Store persists a built relationship graph.
// Implementations: KuzuStore (cgo builds), MemStore (default and tests).
type Store interface {
	io.Closer

	// Schema setup, called once before any data is inserted.
	InitSchema(ctx context.Context) error

	// Write operations.
	AddNode(ctx context.Context, node Node) error
	AddEdge(ctx context.Context, edge Edge) error

	// Read operations. Nodes and Edges return insertion order.
	GetNode(ctx context.Context, id string) (*Node, error)
	Nodes(ctx context.Context) ([]Node, error)
	Edges(ctx context.Context) ([]Edge, error)

	// Neighborhood walks links in both directions from id, up to maxDepth hops.
	Neighborhood(ctx context.Context, id string, maxDepth int) ([]Path, error)

	Stats(ctx context.Context) (*GraphStats, error)
}

// SaveGraph writes every node and edge of g into store.
func SaveGraph(ctx context.Context, store Store, g *Graph) error {
	if err := store.InitSchema(ctx); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	for _, n := range g.Nodes {
		if err := store.AddNode(ctx, n); err != nil {
			return fmt.Errorf("add node %s: %w", n.ID, err)
		}
	}
	for _, e := range g.Edges {
		if err := store.AddEdge(ctx, e); err != nil {
			return fmt.Errorf("add edge %s: %w", e.ID, err)
		}
	}
	return nil
}

// LoadGraph reads the full contents of store back into a Graph.
func LoadGraph(ctx context.Context, store Store) (*Graph, error) {
	nodes, err := store.Nodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	edges, err := store.Edges(ctx)
	if err != nil {
		return nil, fmt.Errorf("load edges: %w", err)
	}
	return &Graph{Nodes: nodes, Edges: edges}, nil
}

// walkNeighborhood runs a bidirectional BFS from start using neighbors to
// expand each node. It returns one Path per reachable node.
func walkNeighborhood(start string, maxDepth int, neighbors func(id string) ([]string, error)) ([]Path, error) {
	if maxDepth <= 0 {
		return nil, nil
	}

	type bfsEntry struct {
		id   string
		path []string
	}

	visited := map[string]bool{start: true}
	queue := []bfsEntry{{id: start, path: []string{start}}}
	var paths []Path

	for depth := 0; depth < maxDepth && len(queue) > 0; depth++ {
		var nextQueue []bfsEntry
		for _, entry := range queue {
			nbs, err := neighbors(entry.id)
			if err != nil {
				return nil, err
			}
			for _, nb := range nbs {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				newPath := make([]string, len(entry.path), len(entry.path)+1)
				copy(newPath, entry.path)
				newPath = append(newPath, nb)
				paths = append(paths, Path{
					Nodes: newPath,
					Depth: len(newPath) - 1,
				})
				nextQueue = append(nextQueue, bfsEntry{id: nb, path: newPath})
			}
		}
		queue = nextQueue
	}
	return paths, nil
}
