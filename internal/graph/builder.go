package graph

import "fmt"

// Thresholds for labelling goal-to-goal edges. The label is a display hint
// and nothing relies on it.
const (
	supportsThreshold    = 70
	supportedByThreshold = 30
)

// Build converts goal and project records into a node/edge graph.
//
// One node is emitted per record, namespaced by kind so a goal and a project
// sharing a raw ID stay distinct. Links become edges in declaration order:
//  1. goal linked goals:    goal -> goal, relation from the weight heuristic
//  2. goal linked projects: goal -> project, supports
//  3. project linked goals: project -> goal, supports
//
// Edges whose endpoints are not in the node set are dropped. Links declared
// on both sides are not merged.
func Build(goals []GoalRecord, projects []ProjectRecord) *Graph {
	g := &Graph{
		Nodes: make([]Node, 0, len(goals)+len(projects)),
	}
	known := make(map[string]bool, len(goals)+len(projects))

	for _, r := range goals {
		id := GoalID(r.ID)
		if known[id] {
			continue
		}
		known[id] = true
		g.Nodes = append(g.Nodes, Node{
			ID:         id,
			Kind:       NodeKindGoal,
			Title:      r.Title,
			Status:     r.Status,
			Completion: clampPercent(r.Completion),
			Size:       GoalSize,
		})
	}
	for _, r := range projects {
		id := ProjectID(r.ID)
		if known[id] {
			continue
		}
		known[id] = true
		g.Nodes = append(g.Nodes, Node{
			ID:         id,
			Kind:       NodeKindProject,
			Title:      r.Name,
			Status:     r.Status,
			Completion: clampPercent(r.Completion),
			Size:       ProjectSize,
		})
	}

	emit := func(from, to string, rel Relation, weight float64) {
		if !known[from] || !known[to] {
			return
		}
		g.Edges = append(g.Edges, Edge{
			ID:       fmt.Sprintf("e%d:%s->%s", len(g.Edges), from, to),
			FromID:   from,
			ToID:     to,
			Relation: rel,
			Weight:   weight,
		})
	}

	seen := make(map[string]bool, len(goals))
	for _, r := range goals {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		from := GoalID(r.ID)
		for _, l := range r.LinkedGoals {
			emit(from, GoalID(l.ID), ClassifyGoalLink(l.Weight), l.Weight)
		}
		for _, l := range r.LinkedProjects {
			emit(from, ProjectID(l.ID), RelationSupports, l.Weight)
		}
	}

	seen = make(map[string]bool, len(projects))
	for _, r := range projects {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		from := ProjectID(r.ID)
		for _, l := range r.LinkedGoals {
			emit(from, GoalID(l.ID), RelationSupports, l.Weight)
		}
	}

	return g
}

// ClassifyGoalLink infers a relation label for a goal-to-goal link from its weight.
func ClassifyGoalLink(weight float64) Relation {
	switch {
	case weight >= supportsThreshold:
		return RelationSupports
	case weight <= supportedByThreshold:
		return RelationSupportedBy
	default:
		return RelationRelatedTo
	}
}

// Stats counts the nodes and edges of g.
func (g *Graph) Stats() GraphStats {
	var s GraphStats
	for _, n := range g.Nodes {
		switch n.Kind {
		case NodeKindGoal:
			s.GoalCount++
		case NodeKindProject:
			s.ProjectCount++
		}
	}
	s.EdgeCount = len(g.Edges)
	return s
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
