package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

// nodesByID indexes nodes for assertions.
func nodesByID(nodes []Node) map[string]Node {
	out := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		out[n.ID] = n
	}
	return out
}

// dist returns the Euclidean distance between two positions.
func dist(a, b Position) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// plainNodes creates goal nodes with the given IDs at the origin.
func plainNodes(ids ...string) []Node {
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = Node{ID: id, Kind: NodeKindGoal, Size: GoalSize}
	}
	return out
}

// link creates an edge between two node IDs.
func link(from, to string) Edge {
	return Edge{ID: from + "->" + to, FromID: from, ToID: to, Relation: RelationRelatedTo, Weight: 50}
}

func TestLayout_TwoNeighboursSplitFullCircle(t *testing.T) {
	nodes := []Node{
		{ID: "goal-A", Kind: NodeKindGoal},
		{ID: "goal-B", Kind: NodeKindGoal},
		{ID: "project-X", Kind: NodeKindProject},
	}
	edges := []Edge{
		{ID: "e0", FromID: "goal-A", ToID: "project-X", Relation: RelationSupports, Weight: 60},
		{ID: "e1", FromID: "goal-A", ToID: "goal-B", Relation: RelationRelatedTo, Weight: 40},
	}

	got := nodesByID(Layout(nodes, edges, "goal-A", LayoutOptions{BaseRadius: 300, Window: FullCircle}))

	assert.Equal(t, Position{}, got["goal-A"].Position)

	x := got["project-X"].Position
	assert.InDelta(t, 300, x.X, eps)
	assert.InDelta(t, 0, x.Y, eps)

	b := got["goal-B"].Position
	assert.InDelta(t, -300, b.X, eps)
	assert.InDelta(t, 0, b.Y, eps)
}

func TestLayout_UnknownFocalIsNoOp(t *testing.T) {
	nodes := plainNodes("a", "b")
	nodes[1].Position = Position{X: 5, Y: 6}

	got := Layout(nodes, []Edge{link("a", "b")}, "nope", DefaultLayoutOptions())

	assert.Equal(t, nodes, got)
}

func TestLayout_DoesNotMutateInput(t *testing.T) {
	nodes := plainNodes("a", "b", "c")
	edges := []Edge{link("a", "b"), link("b", "c")}
	before := make([]Node, len(nodes))
	copy(before, nodes)

	got := Layout(nodes, edges, "a", DefaultLayoutOptions())

	assert.Equal(t, before, nodes)
	assert.NotEqual(t, nodes[1].Position, got[1].Position)
}

func TestLayout_Deterministic(t *testing.T) {
	nodes := plainNodes("a", "b", "c", "d", "e", "f", "g")
	edges := []Edge{
		link("a", "b"), link("c", "a"), link("a", "d"),
		link("b", "e"), link("e", "f"), link("d", "g"), link("g", "b"),
	}

	first := Layout(nodes, edges, "a", DefaultLayoutOptions())
	second := Layout(nodes, edges, "a", DefaultLayoutOptions())

	assert.Equal(t, first, second)
}

func TestLayout_RingRadiusShrinksPerDepth(t *testing.T) {
	// Chain a-b-c-d-e: e is four hops out and beyond the default depth.
	nodes := plainNodes("a", "b", "c", "d", "e")
	nodes[4].Position = Position{X: 42, Y: 17}
	edges := []Edge{link("a", "b"), link("b", "c"), link("c", "d"), link("d", "e")}
	opts := DefaultLayoutOptions()

	res := Arrange(nodes, edges, "a", opts)
	got := nodesByID(res.Nodes)
	focal := got["a"].Position

	for id, depth := range map[string]int{"b": 1, "c": 2, "d": 3} {
		assert.Equal(t, depth, res.Depths[id])
		want := 300 * math.Pow(0.8, float64(depth-1))
		assert.InDelta(t, want, dist(focal, got[id].Position), 1e-6, "node %s", id)
		assert.InDelta(t, want, opts.RingRadius(depth), 1e-9)
	}

	_, placed := res.Depths["e"]
	assert.False(t, placed, "e lies beyond MaxDepth")
	assert.Equal(t, Position{X: 42, Y: 17}, got["e"].Position, "unreached nodes keep their position")
}

func TestLayout_SubWindowCenteredOnParent(t *testing.T) {
	// a has two neighbours: b at angle 0 and c at angle π, each with a wedge of π.
	// b's children d, e split [-π/2, π/2) on ring 2 (radius 240) and sit at
	// the centres of their halves, -π/4 and π/4.
	nodes := plainNodes("a", "b", "c", "d", "e")
	edges := []Edge{link("a", "b"), link("a", "c"), link("b", "d"), link("e", "b")}

	got := nodesByID(Layout(nodes, edges, "a", DefaultLayoutOptions()))
	r := 240 / math.Sqrt2

	d := got["d"].Position
	assert.InDelta(t, r, d.X, 1e-6)
	assert.InDelta(t, -r, d.Y, 1e-6)

	e := got["e"].Position
	assert.InDelta(t, r, e.X, 1e-6)
	assert.InDelta(t, r, e.Y, 1e-6)
}

func TestLayout_UnevenFanOutKeepsRingsDistinct(t *testing.T) {
	// q has two children and q2 one; below them c2 has two and d one.
	nodes := plainNodes("f", "q", "q2", "c1", "c2", "d", "x1", "x2", "y")
	edges := []Edge{
		link("f", "q"), link("f", "q2"),
		link("q", "c1"), link("q", "c2"), link("q2", "d"),
		link("c2", "x1"), link("c2", "x2"), link("d", "y"),
	}

	res := Arrange(nodes, edges, "f", DefaultLayoutOptions())
	got := nodesByID(res.Nodes)

	rings := map[int][]string{}
	for id, depth := range res.Depths {
		rings[depth] = append(rings[depth], id)
	}
	require.Len(t, rings[3], 3)

	for depth, ids := range rings {
		for i := range ids {
			for j := i + 1; j < len(ids); j++ {
				a, b := got[ids[i]].Position, got[ids[j]].Position
				assert.Greater(t, dist(a, b), 1.0, "ring %d: %s and %s collide", depth, ids[i], ids[j])
			}
		}
	}

	// d is q2's only child and y is d's, so both keep q2's angle of π.
	y := got["y"].Position
	assert.InDelta(t, -192, y.X, 1e-6)
	assert.InDelta(t, 0, y.Y, 1e-6)
}

func TestLayout_CyclePlacesEachNodeOnceAtShallowestDepth(t *testing.T) {
	// a-b, b-c, c-a: c is a direct neighbour of a even though b is listed first.
	nodes := plainNodes("a", "b", "c")
	edges := []Edge{link("a", "b"), link("b", "c"), link("c", "a")}

	res := Arrange(nodes, edges, "a", DefaultLayoutOptions())
	got := nodesByID(res.Nodes)

	assert.Equal(t, 1, res.Depths["b"])
	assert.Equal(t, 1, res.Depths["c"])
	assert.InDelta(t, 300, dist(Position{}, got["b"].Position), 1e-6)
	assert.InDelta(t, 300, dist(Position{}, got["c"].Position), 1e-6)
	assert.Greater(t, dist(got["b"].Position, got["c"].Position), 1.0, "b and c must not collide")
}

func TestLayout_DuplicateAndSelfEdges(t *testing.T) {
	nodes := plainNodes("a", "b", "c")
	edges := []Edge{link("a", "b"), link("b", "a"), link("a", "a"), link("a", "c")}

	got := nodesByID(Layout(nodes, edges, "a", DefaultLayoutOptions()))

	// Duplicates collapse: b and c split the circle in half.
	assert.InDelta(t, 300, got["b"].Position.X, 1e-6)
	assert.InDelta(t, -300, got["c"].Position.X, 1e-6)
	assert.Equal(t, Position{}, got["a"].Position)
}

func TestLayout_IgnoresEdgesToUnknownNodes(t *testing.T) {
	nodes := plainNodes("a", "b")
	edges := []Edge{link("a", "ghost"), link("a", "b")}

	got := nodesByID(Layout(nodes, edges, "a", DefaultLayoutOptions()))

	// Only b is a neighbour, so it takes the first slot at angle 0.
	assert.InDelta(t, 300, got["b"].Position.X, 1e-6)
	assert.InDelta(t, 0, got["b"].Position.Y, 1e-6)
}

func TestLayout_FocalOffsetAndWindow(t *testing.T) {
	nodes := plainNodes("a", "b", "c")
	nodes[0].Position = Position{X: 100, Y: -50}
	edges := []Edge{link("a", "b"), link("a", "c")}
	opts := LayoutOptions{BaseRadius: 10, Window: AngleWindow{Start: math.Pi / 2, End: math.Pi}}

	got := nodesByID(Layout(nodes, edges, "a", opts))

	// Slices of π/4 starting at π/2.
	b := got["b"].Position
	assert.InDelta(t, 100, b.X, 1e-6)
	assert.InDelta(t, -40, b.Y, 1e-6)

	c := got["c"].Position
	assert.InDelta(t, 100+10*math.Cos(3*math.Pi/4), c.X, 1e-6)
	assert.InDelta(t, -50+10*math.Sin(3*math.Pi/4), c.Y, 1e-6)
}

func TestLayout_DisconnectedComponentUntouched(t *testing.T) {
	nodes := plainNodes("a", "b", "island")
	nodes[2].Position = Position{X: -7, Y: 3}

	res := Arrange(nodes, []Edge{link("a", "b")}, "a", DefaultLayoutOptions())

	assert.Equal(t, Position{X: -7, Y: 3}, nodesByID(res.Nodes)["island"].Position)
	assert.Equal(t, map[string]int{"a": 0, "b": 1}, res.Depths)
}

func TestLayout_IsolatedFocal(t *testing.T) {
	nodes := plainNodes("a", "b")
	got := Layout(nodes, nil, "a", DefaultLayoutOptions())
	assert.Equal(t, nodes, got)
}

func TestLayoutOptions_Defaults(t *testing.T) {
	o := LayoutOptions{BaseRadius: -1, Window: AngleWindow{Start: 1, End: 1}, MaxDepth: 0, RingFactor: 0}.withDefaults()
	assert.Equal(t, DefaultLayoutOptions(), o)

	custom := LayoutOptions{BaseRadius: 50, Window: AngleWindow{Start: 0, End: math.Pi}, MaxDepth: 1, RingFactor: 0.5}
	assert.Equal(t, custom, custom.withDefaults())
}

func TestLayout_MaxDepthOption(t *testing.T) {
	nodes := plainNodes("a", "b", "c")
	edges := []Edge{link("a", "b"), link("b", "c")}

	res := Arrange(nodes, edges, "a", LayoutOptions{MaxDepth: 1})
	require.Contains(t, res.Depths, "b")
	assert.NotContains(t, res.Depths, "c")
}
