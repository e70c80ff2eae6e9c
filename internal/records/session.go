package records

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dusk-indust/goalgraph/internal/graph"
)

// ErrWeightRange is returned for weights outside [0, 100].
var ErrWeightRange = errors.New("weight out of range")

// LinkSet names one sibling link list on a record.
type LinkSet string

const (
	LinkSetGoals    LinkSet = "goals"    // GoalRecord.LinkedGoals, ProjectRecord.LinkedGoals
	LinkSetProjects LinkSet = "projects" // GoalRecord.LinkedProjects
)

// Owner identifies the record that owns a link set.
type Owner struct {
	Kind graph.NodeKind
	ID   string
}

// GoalOwner is shorthand for a goal-owned link set.
func GoalOwner(id string) Owner { return Owner{Kind: graph.NodeKindGoal, ID: id} }

// ProjectOwner is shorthand for a project-owned link set.
func ProjectOwner(id string) Owner { return Owner{Kind: graph.NodeKindProject, ID: id} }

// Session is an edit session over a private copy of a dataset. Every weight
// change renormalizes the affected sibling set before it becomes visible, so
// readers only ever observe sets summing to 100.
type Session struct {
	ID     string
	policy graph.ZeroSumPolicy
	data   *Dataset
}

// NewSession starts a session on a copy of d.
func NewSession(d *Dataset, policy graph.ZeroSumPolicy) *Session {
	if policy == "" {
		policy = graph.ZeroSumLeave
	}
	return &Session{
		ID:     uuid.NewString(),
		policy: policy,
		data:   d.Clone(),
	}
}

// Dataset returns a copy of the edited records.
func (s *Session) Dataset() *Dataset {
	return s.data.Clone()
}

// Links returns a copy of one link set.
func (s *Session) Links(owner Owner, set LinkSet) ([]graph.Link, error) {
	links, err := s.linkSet(owner, set)
	if err != nil {
		return nil, err
	}
	return cloneLinks(*links), nil
}

// SetLinkWeight changes the weight of an existing link and renormalizes its
// siblings. If the change would leave every weight at zero under the leave
// policy, nothing is modified and ErrZeroWeights is returned.
func (s *Session) SetLinkWeight(owner Owner, set LinkSet, linkID string, weight float64) ([]graph.Link, error) {
	if weight < 0 || weight > graph.WeightTotal {
		return nil, fmt.Errorf("%w: %v", ErrWeightRange, weight)
	}
	links, err := s.linkSet(owner, set)
	if err != nil {
		return nil, err
	}
	idx := indexOf(*links, linkID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s has no %s link %q", ErrUnknownLink, owner.ID, set, linkID)
	}

	edited := cloneLinks(*links)
	edited[idx].Weight = weight
	return s.commit(links, edited, true)
}

// Link adds a link to target with the given weight, or updates the weight if
// the link already exists, then renormalizes the set.
func (s *Session) Link(owner Owner, set LinkSet, targetID string, weight float64) ([]graph.Link, error) {
	if weight < 0 || weight > graph.WeightTotal {
		return nil, fmt.Errorf("%w: %v", ErrWeightRange, weight)
	}
	links, err := s.linkSet(owner, set)
	if err != nil {
		return nil, err
	}
	if !s.targetExists(set, targetID) {
		return nil, fmt.Errorf("%w: link target %s %q", ErrUnknownRecord, set, targetID)
	}
	if indexOf(*links, targetID) >= 0 {
		return s.SetLinkWeight(owner, set, targetID, weight)
	}

	edited := append(cloneLinks(*links), graph.Link{ID: targetID, Weight: weight})
	return s.commit(links, edited, true)
}

// Unlink removes the link to target and renormalizes the remaining siblings.
// Removing the last non-zero link is allowed; the leftover set is then kept
// as is under the leave policy.
func (s *Session) Unlink(owner Owner, set LinkSet, targetID string) ([]graph.Link, error) {
	links, err := s.linkSet(owner, set)
	if err != nil {
		return nil, err
	}
	idx := indexOf(*links, targetID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s has no %s link %q", ErrUnknownLink, owner.ID, set, targetID)
	}

	edited := make([]graph.Link, 0, len(*links)-1)
	edited = append(edited, (*links)[:idx]...)
	edited = append(edited, (*links)[idx+1:]...)
	return s.commit(links, edited, false)
}

// commit normalizes edited and stores it in place of *dst.
func (s *Session) commit(dst *[]graph.Link, edited []graph.Link, rejectZero bool) ([]graph.Link, error) {
	w := graph.WeightsFromLinks(edited)
	if rejectZero && len(w) > 0 && w.Sum() == 0 && s.policy == graph.ZeroSumLeave {
		return nil, ErrZeroWeights
	}
	normalized := graph.NormalizeWith(w, s.policy).Links()
	*dst = normalized
	return cloneLinks(normalized), nil
}

// Rollup returns the aggregated completion of a goal: the weighted average
// of its linked projects, or of its linked goals when it has no projects.
func (s *Session) Rollup(goalID string) (int, error) {
	g := s.data.Goal(goalID)
	if g == nil {
		return 0, fmt.Errorf("%w: goal %q", ErrUnknownRecord, goalID)
	}
	return rollup(s.data, g), nil
}

// ApplyRollups writes the rollup into every goal with AutoProgress set, in
// record order, and returns the IDs whose completion changed.
func (s *Session) ApplyRollups() []string {
	var changed []string
	for i := range s.data.Goals {
		g := &s.data.Goals[i]
		if !g.AutoProgress {
			continue
		}
		v := float64(rollup(s.data, g))
		if v != g.Completion {
			g.Completion = v
			changed = append(changed, g.ID)
		}
	}
	return changed
}

func rollup(d *Dataset, g *graph.GoalRecord) int {
	if len(g.LinkedProjects) > 0 {
		return graph.Aggregate(g.LinkedProjects, d.ResolveProject)
	}
	return graph.Aggregate(g.LinkedGoals, d.ResolveGoal)
}

// linkSet returns a pointer to the owner's link list.
func (s *Session) linkSet(owner Owner, set LinkSet) (*[]graph.Link, error) {
	switch owner.Kind {
	case graph.NodeKindGoal:
		g := s.data.Goal(owner.ID)
		if g == nil {
			return nil, fmt.Errorf("%w: goal %q", ErrUnknownRecord, owner.ID)
		}
		switch set {
		case LinkSetGoals:
			return &g.LinkedGoals, nil
		case LinkSetProjects:
			return &g.LinkedProjects, nil
		}
	case graph.NodeKindProject:
		p := s.data.Project(owner.ID)
		if p == nil {
			return nil, fmt.Errorf("%w: project %q", ErrUnknownRecord, owner.ID)
		}
		if set == LinkSetGoals {
			return &p.LinkedGoals, nil
		}
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrUnknownRecord, owner.Kind)
	}
	return nil, fmt.Errorf("%w: %s has no %s link set", ErrUnknownLink, owner.Kind, set)
}

func (s *Session) targetExists(set LinkSet, id string) bool {
	if set == LinkSetProjects {
		return s.data.Project(id) != nil
	}
	return s.data.Goal(id) != nil
}

func indexOf(links []graph.Link, id string) int {
	for i, l := range links {
		if l.ID == id {
			return i
		}
	}
	return -1
}
