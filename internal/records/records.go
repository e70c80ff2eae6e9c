// Package records loads goal and project records and provides edit sessions
// that keep their link weights consistent.
package records

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/goalgraph/internal/graph"
)

// Sentinel errors returned by loaders and sessions.
var (
	ErrUnknownRecord = errors.New("unknown record")
	ErrUnknownLink   = errors.New("unknown link")
	ErrZeroWeights   = errors.New("link weights must not all be zero")
	ErrUnsupported   = errors.New("unsupported record file")
)

// Dataset is the set of goal and project records the graph is built from.
type Dataset struct {
	Goals    []graph.GoalRecord    `json:"goals" yaml:"goals"`
	Projects []graph.ProjectRecord `json:"projects" yaml:"projects"`
}

// Graph builds the relationship graph for the dataset.
func (d *Dataset) Graph() *graph.Graph {
	return graph.Build(d.Goals, d.Projects)
}

// Goal returns the goal with the given raw ID, or nil.
func (d *Dataset) Goal(id string) *graph.GoalRecord {
	for i := range d.Goals {
		if d.Goals[i].ID == id {
			return &d.Goals[i]
		}
	}
	return nil
}

// Project returns the project with the given raw ID, or nil.
func (d *Dataset) Project(id string) *graph.ProjectRecord {
	for i := range d.Projects {
		if d.Projects[i].ID == id {
			return &d.Projects[i]
		}
	}
	return nil
}

// ResolveGoal resolves goal completion by raw ID.
func (d *Dataset) ResolveGoal(id string) (float64, bool) {
	if g := d.Goal(id); g != nil {
		return g.Completion, true
	}
	return 0, false
}

// ResolveProject resolves project completion by raw ID.
func (d *Dataset) ResolveProject(id string) (float64, bool) {
	if p := d.Project(id); p != nil {
		return p.Completion, true
	}
	return 0, false
}

// Merge appends other's records to d.
func (d *Dataset) Merge(other *Dataset) {
	d.Goals = append(d.Goals, other.Goals...)
	d.Projects = append(d.Projects, other.Projects...)
}

// Clone returns a deep copy of d.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Goals:    make([]graph.GoalRecord, len(d.Goals)),
		Projects: make([]graph.ProjectRecord, len(d.Projects)),
	}
	for i, g := range d.Goals {
		g.LinkedGoals = cloneLinks(g.LinkedGoals)
		g.LinkedProjects = cloneLinks(g.LinkedProjects)
		out.Goals[i] = g
	}
	for i, p := range d.Projects {
		p.LinkedGoals = cloneLinks(p.LinkedGoals)
		out.Projects[i] = p
	}
	return out
}

func cloneLinks(links []graph.Link) []graph.Link {
	if links == nil {
		return nil
	}
	out := make([]graph.Link, len(links))
	copy(out, links)
	return out
}

// Decode parses a YAML or JSON document of the form {goals: [...], projects: [...]}.
func Decode(data []byte) (*Dataset, error) {
	var d Dataset
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadFile reads a .yml, .yaml or .json record file.
func LoadFile(path string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml", ".json":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	d, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return d, nil
}

// LoadFiles reads every path in parallel and merges the results in argument
// order. The first failure cancels the remaining reads.
func LoadFiles(ctx context.Context, paths []string) (*Dataset, error) {
	parts := make([]*Dataset, len(paths))
	g, gctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, err := LoadFile(path)
			if err != nil {
				return err
			}
			parts[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &Dataset{}
	for _, d := range parts {
		merged.Merge(d)
	}
	return merged, nil
}

// Encode renders d as YAML.
func Encode(d *Dataset) ([]byte, error) {
	return yaml.Marshal(d)
}
