package graph

// --- Enums ---

// NodeKind classifies nodes in the relationship graph.
type NodeKind string

const (
	NodeKindGoal    NodeKind = "goal"
	NodeKindProject NodeKind = "project"
)

// Status is the lifecycle state copied from a goal or project record.
// Values outside the known set pass through unchanged.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusOnHold     Status = "on_hold"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Relation labels an edge. The label is display metadata only.
type Relation string

const (
	RelationSupports    Relation = "supports"
	RelationSupportedBy Relation = "supported_by"
	RelationRelatedTo   Relation = "related_to"
)

// Fixed node dimensions per kind, in canvas units.
var (
	GoalSize    = Size{Width: 180, Height: 80}
	ProjectSize = Size{Width: 160, Height: 60}
)

// --- Models ---

// Position is a 2-D canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the rendered footprint of a node.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Node is a goal or project in the relationship graph.
type Node struct {
	ID         string   `json:"id"` // "goal-<raw>" or "project-<raw>"
	Kind       NodeKind `json:"kind"`
	Title      string   `json:"title"`
	Status     Status   `json:"status"`
	Completion float64  `json:"completion"` // 0..100
	Position   Position `json:"position"`
	Size       Size     `json:"size"`
}

// Edge is a weighted link between two nodes.
type Edge struct {
	ID       string   `json:"id"`
	FromID   string   `json:"fromId"`
	ToID     string   `json:"toId"`
	Relation Relation `json:"relation"`
	Weight   float64  `json:"weight"` // 0..100
}

// Graph is the output of Build: nodes in record order, edges in emission order.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// GraphStats summarizes a relationship graph.
type GraphStats struct {
	GoalCount    int `json:"goalCount"`
	ProjectCount int `json:"projectCount"`
	EdgeCount    int `json:"edgeCount"`
}

// Path is an ordered sequence of node IDs from a start node to a reachable node.
type Path struct {
	Nodes []string `json:"nodes"`
	Depth int      `json:"depth"`
}

// Link is a weighted reference from one record to another by raw ID.
type Link struct {
	ID     string  `json:"id" yaml:"id"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// GoalRecord is a goal as supplied by the domain data provider.
type GoalRecord struct {
	ID             string  `json:"id" yaml:"id"`
	Title          string  `json:"title" yaml:"title"`
	Status         Status  `json:"status" yaml:"status"`
	Completion     float64 `json:"completion" yaml:"completion"`
	AutoProgress   bool    `json:"autoProgress,omitempty" yaml:"autoProgress,omitempty"`
	LinkedGoals    []Link  `json:"linkedGoals,omitempty" yaml:"linkedGoals,omitempty"`
	LinkedProjects []Link  `json:"linkedProjects,omitempty" yaml:"linkedProjects,omitempty"`
}

// ProjectRecord is a project as supplied by the domain data provider.
type ProjectRecord struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Status      Status  `json:"status" yaml:"status"`
	Completion  float64 `json:"completion" yaml:"completion"`
	LinkedGoals []Link  `json:"linkedGoals,omitempty" yaml:"linkedGoals,omitempty"`
}

// GoalID returns the namespaced node ID for a raw goal identifier.
func GoalID(raw string) string { return "goal-" + raw }

// ProjectID returns the namespaced node ID for a raw project identifier.
func ProjectID(raw string) string { return "project-" + raw }
