package records

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/goalgraph/internal/graph"
)

// fixturePath returns the path to a record fixture. Tests run from
// internal/records/, so fixtures live at ../../testdata/records.
func fixturePath(name string) string {
	return filepath.Join("..", "..", "testdata", "records", name)
}

func TestLoadFile_YAML(t *testing.T) {
	d, err := LoadFile(fixturePath("roadmap.yaml"))
	require.NoError(t, err)

	require.Len(t, d.Goals, 3)
	require.Len(t, d.Projects, 3)

	g := d.Goal("1")
	require.NotNil(t, g)
	assert.Equal(t, "Grow recurring revenue", g.Title)
	assert.Equal(t, graph.StatusInProgress, g.Status)
	assert.True(t, g.AutoProgress)
	assert.Equal(t, []graph.Link{{ID: "10", Weight: 70}, {ID: "11", Weight: 30}}, g.LinkedProjects)

	p := d.Project("12")
	require.NotNil(t, p)
	assert.Equal(t, graph.StatusCompleted, p.Status)
	assert.Equal(t, []graph.Link{{ID: "2", Weight: 100}}, p.LinkedGoals)
}

func TestLoadFile_JSON(t *testing.T) {
	d, err := LoadFile(fixturePath("extra.json"))
	require.NoError(t, err)

	require.Len(t, d.Goals, 1)
	assert.Equal(t, "Enter EU market", d.Goals[0].Title)
	assert.Equal(t, "GDPR review", d.Projects[0].Name)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile("roadmap.txt")
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("goals: [unterminated"), 0o644))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}

func TestLoadFiles_MergesInArgumentOrder(t *testing.T) {
	d, err := LoadFiles(context.Background(), []string{fixturePath("extra.json"), fixturePath("roadmap.yaml")})
	require.NoError(t, err)

	require.Len(t, d.Goals, 4)
	assert.Equal(t, "4", d.Goals[0].ID)
	assert.Equal(t, "1", d.Goals[1].ID)
	assert.Equal(t, "13", d.Projects[0].ID)

	g := d.Graph()
	assert.Equal(t, graph.GraphStats{GoalCount: 4, ProjectCount: 4, EdgeCount: 7}, g.Stats())
}

func TestLoadFiles_FailsOnAnyError(t *testing.T) {
	_, err := LoadFiles(context.Background(), []string{fixturePath("roadmap.yaml"), "missing.yaml"})
	assert.Error(t, err)
}

func TestLoadFiles_Empty(t *testing.T) {
	d, err := LoadFiles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, d.Goals)
	assert.Empty(t, d.Projects)
}

func TestDataset_Resolvers(t *testing.T) {
	d, err := LoadFile(fixturePath("roadmap.yaml"))
	require.NoError(t, err)

	c, ok := d.ResolveProject("10")
	assert.True(t, ok)
	assert.Equal(t, 80.0, c)

	_, ok = d.ResolveProject("99")
	assert.False(t, ok)

	c, ok = d.ResolveGoal("2")
	assert.True(t, ok)
	assert.Equal(t, 10.0, c)

	// Scenario: 70% at 80 and 30% at 40 rolls up to 68.
	assert.Equal(t, 68, graph.Aggregate(d.Goal("1").LinkedProjects, d.ResolveProject))
}

func TestDataset_CloneIsDeep(t *testing.T) {
	d, err := LoadFile(fixturePath("roadmap.yaml"))
	require.NoError(t, err)

	c := d.Clone()
	c.Goals[0].LinkedProjects[0].Weight = 1
	c.Projects[2].LinkedGoals[0].ID = "x"

	assert.Equal(t, 70.0, d.Goals[0].LinkedProjects[0].Weight)
	assert.Equal(t, "2", d.Projects[2].LinkedGoals[0].ID)
}
