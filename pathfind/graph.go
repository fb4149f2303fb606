// Package pathfind builds a contraction hierarchy over the cooked
// directed-road graph and answers shortest-path queries for each
// lane-type family independently (§4.4).
package pathfind

import (
	"github.com/sirupsen/logrus"

	"github.com/vvbv/abstreet/mapmodel"
)

var log = logrus.WithField("module", "pathfind")

// Node is a contraction-hierarchy vertex: one cooked lane. Lanes, not
// intersections, are the routing unit because the edge set must come
// from allowed turns (I6), not raw lane-to-lane intersection adjacency.
type Node = mapmodel.LaneID

// Edge is a directed graph edge: a turn out of one lane onto another,
// so a found path can be replayed back into concrete lanes. On every
// edge of a Graph, Lane equals To; it's kept as its own field because
// downstream code (path reconstruction, shortcut unpacking) reads a
// lane off an edge without needing to know Node's underlying type.
// Inside a CH, a Down edge points back at its predecessor while Lane
// keeps the lane the original edge entered, and a shortcut edge has no
// Lane until it is unpacked.
type Edge struct {
	To     Node
	Weight int // centimeters
	Lane   mapmodel.LaneID
}

// Graph is the plain (uncontracted) directed graph for one lane-type
// family: every allowed turn between two lanes of that family
// contributes one edge from the incoming lane to the outgoing lane.
type Graph struct {
	Family mapmodel.LaneType
	Out    map[Node][]Edge
	nodes  map[Node]bool
}

// cmPerMeter converts the geometry package's meters into the integer
// centimeter weights the hierarchy is built and queried in (§4.4: "edge
// weights are integer path-cost units, not floating-point meters, so
// the hierarchy's tie-breaking is reproducible across platforms").
const cmPerMeter = 100

// BuildGraph collects every Turn connecting two lanes of `family` into
// a directed lane graph. A turn only exists in `i.Turns` if it's
// currently allowed -- GenerateTurns never emits an incompatible pair,
// and EditBanTurn/EditReopenLane/EditCloseLane mutate `i.Turns`/`Lane.
// Closed` directly -- so routing edges automatically disappear and
// reappear as those edits are applied (§4.2, I6). Closed lanes are
// omitted even if some stale turn still references them.
func BuildGraph(m *mapmodel.Map, family mapmodel.LaneType) *Graph {
	g := &Graph{Family: family, Out: make(map[Node][]Edge), nodes: make(map[Node]bool)}
	for _, l := range m.Lanes {
		if l.Type != family || l.Closed {
			continue
		}
		g.nodes[l.ID] = true
	}
	for _, i := range m.Intersections {
		for _, t := range i.Turns {
			in, ok := m.Lanes[t.ID.From]
			if !ok || in.Type != family || in.Closed {
				continue
			}
			out, ok := m.Lanes[t.ID.To]
			if !ok || out.Type != family || out.Closed {
				continue
			}
			w := int((t.Geom.Length()+out.Center.Length())*cmPerMeter) + 1
			g.Out[t.ID.From] = append(g.Out[t.ID.From], Edge{To: t.ID.To, Weight: w, Lane: t.ID.To})
		}
	}
	return g
}

func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	return out
}
