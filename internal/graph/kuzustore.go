//go:build cgo

package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements the Store interface using KuzuDB as the graph backend.
// It requires CGO because the go-kuzu driver wraps KuzuDB's C library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given path. KuzuDB creates the leaf itself for new databases.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by InitSchema.
// Node tables must precede relationship tables. seq records insertion order.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS GraphNode(
		id STRING,
		kind STRING,
		title STRING,
		status STRING,
		completion DOUBLE,
		x DOUBLE,
		y DOUBLE,
		width DOUBLE,
		height DOUBLE,
		seq INT64,
		PRIMARY KEY(id)
	)`,
	`CREATE REL TABLE IF NOT EXISTS LINK(
		FROM GraphNode TO GraphNode,
		id STRING,
		relation STRING,
		weight DOUBLE,
		seq INT64
	)`,
}

// InitSchema creates the node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Write operations ----------

// AddNode inserts a GraphNode. Inserting an existing ID is an error.
func (s *KuzuStore) AddNode(_ context.Context, node Node) error {
	seq, err := s.count("MATCH (n:GraphNode) RETURN count(n)")
	if err != nil {
		return err
	}
	return s.exec(
		`CREATE (n:GraphNode {
			id: $id,
			kind: $kind,
			title: $title,
			status: $status,
			completion: $completion,
			x: $x,
			y: $y,
			width: $w,
			height: $h,
			seq: $seq
		})`,
		map[string]any{
			"id":         node.ID,
			"kind":       string(node.Kind),
			"title":      node.Title,
			"status":     string(node.Status),
			"completion": node.Completion,
			"x":          node.Position.X,
			"y":          node.Position.Y,
			"w":          node.Size.Width,
			"h":          node.Size.Height,
			"seq":        int64(seq),
		},
	)
}

// AddEdge inserts a LINK between two existing nodes. An edge whose endpoints
// are missing matches nothing and is not stored.
func (s *KuzuStore) AddEdge(_ context.Context, edge Edge) error {
	seq, err := s.count("MATCH ()-[r:LINK]->() RETURN count(r)")
	if err != nil {
		return err
	}
	return s.exec(
		`MATCH (a:GraphNode {id: $src}), (b:GraphNode {id: $dst})
		 CREATE (a)-[:LINK {id: $id, relation: $rel, weight: $weight, seq: $seq}]->(b)`,
		map[string]any{
			"src":    edge.FromID,
			"dst":    edge.ToID,
			"id":     edge.ID,
			"rel":    string(edge.Relation),
			"weight": edge.Weight,
			"seq":    int64(seq),
		},
	)
}

// ---------- Read operations ----------

const nodeColumns = "n.id, n.kind, n.title, n.status, n.completion, n.x, n.y, n.width, n.height"

// GetNode retrieves a single node by ID, or returns nil if not found.
func (s *KuzuStore) GetNode(_ context.Context, id string) (*Node, error) {
	rows, err := s.query(
		"MATCH (n:GraphNode {id: $id}) RETURN "+nodeColumns,
		map[string]any{"id": id},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	n := rowToNode(rows[0])
	return &n, nil
}

// Nodes returns all nodes in insertion order.
func (s *KuzuStore) Nodes(_ context.Context) ([]Node, error) {
	rows, err := s.query("MATCH (n:GraphNode) RETURN "+nodeColumns+" ORDER BY n.seq", nil)
	if err != nil {
		return nil, err
	}
	out := make([]Node, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToNode(r))
	}
	return out, nil
}

// Edges returns all links in insertion order.
func (s *KuzuStore) Edges(_ context.Context) ([]Edge, error) {
	rows, err := s.query(
		`MATCH (a:GraphNode)-[r:LINK]->(b:GraphNode)
		 RETURN r.id, a.id, b.id, r.relation, r.weight
		 ORDER BY r.seq`,
		nil,
	)
	if err != nil {
		return nil, err
	}
	out := make([]Edge, 0, len(rows))
	for _, r := range rows {
		out = append(out, Edge{
			ID:       toString(r[0]),
			FromID:   toString(r[1]),
			ToID:     toString(r[2]),
			Relation: Relation(toString(r[3])),
			Weight:   toFloat64(r[4]),
		})
	}
	return out, nil
}

// ---------- Graph traversal ----------

// Neighborhood performs a BFS over LINK relationships in both directions.
func (s *KuzuStore) Neighborhood(_ context.Context, id string, maxDepth int) ([]Path, error) {
	return walkNeighborhood(id, maxDepth, s.neighbors)
}

// neighbors returns the IDs one LINK away from id, either direction.
func (s *KuzuStore) neighbors(id string) ([]string, error) {
	rows, err := s.query(
		"MATCH (a:GraphNode {id: $id})-[r:LINK]-(b:GraphNode) RETURN b.id ORDER BY r.seq",
		map[string]any{"id": id},
	)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, toString(r[0]))
	}
	return out, nil
}

// ---------- Stats ----------

// Stats returns node counts per kind and the edge count.
func (s *KuzuStore) Stats(_ context.Context) (*GraphStats, error) {
	rows, err := s.query("MATCH (n:GraphNode) RETURN n.kind, count(n)", nil)
	if err != nil {
		return nil, err
	}
	stats := &GraphStats{}
	for _, r := range rows {
		switch NodeKind(toString(r[0])) {
		case NodeKindGoal:
			stats.GoalCount = toInt(r[1])
		case NodeKindProject:
			stats.ProjectCount = toInt(r[1])
		}
	}
	edges, err := s.count("MATCH ()-[r:LINK]->() RETURN count(r)")
	if err != nil {
		return nil, err
	}
	stats.EdgeCount = edges
	return stats, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// count runs a single-value count query.
func (s *KuzuStore) count(cypher string) (int, error) {
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// rowToNode converts a nodeColumns row into a Node.
func rowToNode(r []any) Node {
	return Node{
		ID:         toString(r[0]),
		Kind:       NodeKind(toString(r[1])),
		Title:      toString(r[2]),
		Status:     Status(toString(r[3])),
		Completion: toFloat64(r[4]),
		Position:   Position{X: toFloat64(r[5]), Y: toFloat64(r[6])},
		Size:       Size{Width: toFloat64(r[7]), Height: toFloat64(r[8])},
	}
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, bool, string).

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
