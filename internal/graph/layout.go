package graph

import "math"

// Layout defaults.
const (
	DefaultBaseRadius = 300
	DefaultMaxDepth   = 3
	DefaultRingFactor = 0.8
)

// AngleWindow is the half-open angular range [Start, End) in radians.
type AngleWindow struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// FullCircle is the unrestricted window [0, 2π).
var FullCircle = AngleWindow{Start: 0, End: 2 * math.Pi}

// Width returns End - Start.
func (w AngleWindow) Width() float64 { return w.End - w.Start }

// LayoutOptions controls a radial layout pass.
type LayoutOptions struct {
	BaseRadius float64     `json:"baseRadius"` // radius of the first ring
	Window     AngleWindow `json:"window"`     // range shared by the first ring
	MaxDepth   int         `json:"maxDepth"`   // rings placed beyond the focal node
	RingFactor float64     `json:"ringFactor"` // radius multiplier from one ring to the next
}

// DefaultLayoutOptions returns a full-circle layout with three rings.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		BaseRadius: DefaultBaseRadius,
		Window:     FullCircle,
		MaxDepth:   DefaultMaxDepth,
		RingFactor: DefaultRingFactor,
	}
}

// withDefaults replaces unusable option values with defaults.
func (o LayoutOptions) withDefaults() LayoutOptions {
	if !(o.BaseRadius > 0) || math.IsInf(o.BaseRadius, 0) {
		o.BaseRadius = DefaultBaseRadius
	}
	if w := o.Window.Width(); !(w > 0) || math.IsInf(w, 0) {
		o.Window = FullCircle
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if !(o.RingFactor > 0) || math.IsInf(o.RingFactor, 0) {
		o.RingFactor = DefaultRingFactor
	}
	return o
}

// RingRadius returns the distance from the focal node of ring depth (depth >= 1).
func (o LayoutOptions) RingRadius(depth int) float64 {
	o = o.withDefaults()
	return o.BaseRadius * math.Pow(o.RingFactor, float64(depth-1))
}

// LayoutResult is the outcome of Arrange.
type LayoutResult struct {
	Nodes  []Node         `json:"nodes"`
	Depths map[string]int `json:"depths"` // ring per placed node; the focal node is 0
}

// Layout positions nodes radially around focalID. It is Arrange without the
// depth bookkeeping.
func Layout(nodes []Node, edges []Edge, focalID string, opts LayoutOptions) []Node {
	return Arrange(nodes, edges, focalID, opts).Nodes
}

// Arrange computes a radial layout around the focal node and returns a copy
// of nodes with positions filled in. The inputs are not modified.
//
// The focal node keeps its position. Its neighbours, in edge-list order,
// split opts.Window into equal slices on the first ring. Every placed node
// then spreads its own unplaced neighbours over a sub-window as wide as its
// slice, centered on its angle, one ring further out with the radius
// scaled by opts.RingFactor. Each child takes the centre of an equal share
// of that sub-window, so wedges on one ring never overlap. All rings are centered on the focal node, so a
// node at depth d sits at opts.RingRadius(d) from it.
//
// Rings are filled breadth-first and a node is placed at most once, at its
// shallowest depth. Nodes not reached within opts.MaxDepth keep their prior
// position. An unknown focal ID yields an unchanged copy.
func Arrange(nodes []Node, edges []Edge, focalID string, opts LayoutOptions) LayoutResult {
	out := make([]Node, len(nodes))
	copy(out, nodes)
	res := LayoutResult{Nodes: out, Depths: map[string]int{}}

	focal := -1
	for i := range out {
		if out[i].ID == focalID {
			focal = i
			break
		}
	}
	if focal < 0 {
		return res
	}

	pass := newRadialPass(out, edges, opts.withDefaults())
	pass.origin = out[focal].Position
	pass.visited[focalID] = true
	res.Depths[focalID] = 0

	root := slot{id: focalID, wedge: pass.opts.Window.Width()}
	pass.placeRing([]slot{root}, 1, pass.opts.BaseRadius)

	for i := range out {
		if p, ok := pass.positions[out[i].ID]; ok {
			out[i].Position = p
		}
	}
	for id, d := range pass.depths {
		res.Depths[id] = d
	}
	return res
}

// slot is a placed node together with the wedge its children share.
type slot struct {
	id    string
	angle float64
	wedge float64
}

// radialPass holds the working state of one Arrange call.
type radialPass struct {
	opts      LayoutOptions
	origin    Position
	adj       map[string][]string
	visited   map[string]bool
	positions map[string]Position
	depths    map[string]int
}

// newRadialPass builds an undirected adjacency list from edges whose
// endpoints are both in nodes. Neighbour lists keep edge-list order.
func newRadialPass(nodes []Node, edges []Edge, opts LayoutOptions) *radialPass {
	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
	}
	adj := make(map[string][]string, len(nodes))
	for _, e := range edges {
		if e.FromID == e.ToID || !present[e.FromID] || !present[e.ToID] {
			continue
		}
		adj[e.FromID] = append(adj[e.FromID], e.ToID)
		adj[e.ToID] = append(adj[e.ToID], e.FromID)
	}
	return &radialPass{
		opts:      opts,
		adj:       adj,
		visited:   make(map[string]bool, len(nodes)),
		positions: make(map[string]Position, len(nodes)),
		depths:    make(map[string]int, len(nodes)),
	}
}

// placeRing places the unplaced neighbours of every node in frontier on ring
// depth, then recurses into the next ring.
func (p *radialPass) placeRing(frontier []slot, depth int, radius float64) {
	if depth > p.opts.MaxDepth || len(frontier) == 0 {
		return
	}

	var next []slot
	for _, parent := range frontier {
		children := p.claimNeighbours(parent.id)
		if len(children) == 0 {
			continue
		}

		// The first ring starts at the window edge. Deeper rings split the
		// parent's wedge and sit at the centre of each sub-slot, so sibling
		// wedges tile the parent's wedge exactly.
		start := parent.angle - parent.wedge/2
		offset := 0.5
		if depth == 1 {
			start = p.opts.Window.Start
			offset = 0
		}
		step := parent.wedge / float64(len(children))

		for i, id := range children {
			theta := start + (float64(i)+offset)*step
			p.positions[id] = Position{
				X: p.origin.X + radius*math.Cos(theta),
				Y: p.origin.Y + radius*math.Sin(theta),
			}
			p.depths[id] = depth
			next = append(next, slot{id: id, angle: theta, wedge: step})
		}
	}

	p.placeRing(next, depth+1, radius*p.opts.RingFactor)
}

// claimNeighbours returns the not yet visited neighbours of id in adjacency
// order and marks them visited.
func (p *radialPass) claimNeighbours(id string) []string {
	var out []string
	for _, nb := range p.adj[id] {
		if p.visited[nb] {
			continue
		}
		p.visited[nb] = true
		out = append(out, nb)
	}
	return out
}
