package graph

import (
	"context"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using Go maps. Thread-safe via sync.RWMutex.
type MemStore struct {
	mu    sync.RWMutex
	nodes map[string]Node
	order []string // node IDs in first-insertion order
	edges []Edge
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{
		nodes: make(map[string]Node),
	}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// AddNode stores a node keyed by ID. Re-adding an ID replaces the node but
// keeps its original position in Nodes.
func (m *MemStore) AddNode(_ context.Context, node Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[node.ID]; !ok {
		m.order = append(m.order, node.ID)
	}
	m.nodes[node.ID] = node
	return nil
}

// AddEdge appends an edge to the internal slice.
func (m *MemStore) AddEdge(_ context.Context, edge Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges = append(m.edges, edge)
	return nil
}

// GetNode returns the node with the given ID, or nil if not found.
func (m *MemStore) GetNode(_ context.Context, id string) (*Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.nodes[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

// Nodes returns a copy of all nodes in insertion order.
func (m *MemStore) Nodes(_ context.Context) ([]Node, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Node, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.nodes[id])
	}
	return out, nil
}

// Edges returns a copy of all edges in insertion order.
func (m *MemStore) Edges(_ context.Context) ([]Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Edge, len(m.edges))
	copy(out, m.edges)
	return out, nil
}

// Neighborhood performs a BFS over links in both directions from id, up to
// maxDepth hops. It returns one Path per reachable node.
func (m *MemStore) Neighborhood(_ context.Context, id string, maxDepth int) ([]Path, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return walkNeighborhood(id, maxDepth, func(cur string) ([]string, error) {
		return m.neighbors(cur), nil
	})
}

// neighbors returns IDs one hop from id in either direction, in edge order.
func (m *MemStore) neighbors(id string) []string {
	var result []string
	for _, e := range m.edges {
		switch id {
		case e.FromID:
			result = append(result, e.ToID)
		case e.ToID:
			result = append(result, e.FromID)
		}
	}
	return result
}

// Stats returns node and edge counts.
func (m *MemStore) Stats(_ context.Context) (*GraphStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := &GraphStats{EdgeCount: len(m.edges)}
	for _, n := range m.nodes {
		switch n.Kind {
		case NodeKindGoal:
			s.GoalCount++
		case NodeKindProject:
			s.ProjectCount++
		}
	}
	return s, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}
