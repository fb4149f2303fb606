package pathfind

import (
	"sort"

	"github.com/vvbv/abstreet/mapmodel"
)

// CH is a contraction hierarchy: every node is assigned a rank, and
// each direction's search graph only relaxes edges toward
// higher-ranked nodes (§4.4).
type CH struct {
	Family mapmodel.LaneType
	Up     map[Node][]Edge
	Down   map[Node][]Edge
	Rank   map[Node]int
	// shortcutVia records, for a shortcut edge (u,v), the original edge
	// pair it replaces, so queries can unpack it back into real lanes.
	shortcutVia map[shortcutKey][2]Edge
}

type shortcutKey struct {
	from, to Node
}

// Contract builds a CH from g using a simple degree-based node order
// (lowest degree contracted first) and a hop-limited witness search, a
// standard and well-understood simplification of the full
// edge-difference priority term used in production hierarchies.
func Contract(g *Graph) *CH {
	nodes := g.Nodes()
	adj := copyAdj(g.Out)
	inAdj := reverseAdj(adj)

	order := contractionOrder(nodes, adj, inAdj)
	rank := make(map[Node]int, len(order))
	for i, n := range order {
		rank[n] = i
	}

	up := make(map[Node][]Edge)
	down := make(map[Node][]Edge)
	shortcuts := make(map[shortcutKey][2]Edge)

	contracted := make(map[Node]bool)
	for _, v := range order {
		preds := inAdj[v]
		succs := adj[v]
		for _, pe := range preds {
			u := pe.from
			if contracted[u] {
				continue
			}
			for _, se := range succs.edges {
				w := se.To
				if contracted[w] || w == u {
					continue
				}
				viaCost := pe.weight + se.Weight
				witness := witnessDistance(adj, contracted, u, w, v, viaCost)
				if witness <= viaCost {
					continue // a witness path not through v is at least as good
				}
				key := shortcutKey{from: u, to: w}
				adj[u] = appendEdge(adj[u], Edge{To: w, Weight: viaCost})
				inAdj[w] = append(inAdj[w], predEdge{from: u, weight: viaCost})
				shortcuts[key] = [2]Edge{{To: v, Weight: pe.weight, Lane: pe.lane}, {To: w, Weight: se.Weight, Lane: se.Lane}}
			}
		}
		contracted[v] = true
	}

	for u, edges := range adj {
		for _, e := range edges.edges {
			if rank[u] < rank[e.To] {
				up[u] = append(up[u], e)
			} else {
				down[e.To] = append(down[e.To], Edge{To: u, Weight: e.Weight, Lane: e.Lane})
			}
		}
	}

	return &CH{Family: g.Family, Up: up, Down: down, Rank: rank, shortcutVia: shortcuts}
}

// contractionOrder ranks nodes by current degree (in+out edge count),
// lowest first: a cheap but effective proxy for "contracts cheaply"
// without needing to track edge-difference incrementally.
func contractionOrder(nodes []Node, adj map[Node]edgeList, inAdj map[Node][]predEdge) []Node {
	out := append([]Node{}, nodes...)
	sort.Slice(out, func(i, j int) bool {
		di := len(adj[out[i]].edges) + len(inAdj[out[i]])
		dj := len(adj[out[j]].edges) + len(inAdj[out[j]])
		if di != dj {
			return di < dj
		}
		return out[i] < out[j]
	})
	return out
}

// witnessDistance runs a small hop-limited Dijkstra over the
// not-yet-contracted subgraph to see whether some path from u to w
// beats viaCost without passing through skip; returning a value >
// viaCost means no witness was found and the shortcut is needed.
func witnessDistance(adj map[Node]edgeList, contracted map[Node]bool, u, w, skip Node, cap int) int {
	restricted := make(map[Node][]Edge, 4)
	for n, el := range adj {
		if contracted[n] || n == skip {
			continue
		}
		for _, e := range el.edges {
			if contracted[e.To] || e.To == skip {
				continue
			}
			restricted[n] = append(restricted[n], e)
		}
	}
	dist := dijkstra(restricted, u, func(n Node, cost int) bool { return cost > cap }, 5)
	if d, ok := dist[w]; ok {
		return d
	}
	return cap + 1
}

type edgeList struct{ edges []Edge }

type predEdge struct {
	from   Node
	weight int
	lane   mapmodel.LaneID
}

func copyAdj(src map[Node][]Edge) map[Node]edgeList {
	out := make(map[Node]edgeList, len(src))
	for n, edges := range src {
		out[n] = edgeList{edges: append([]Edge{}, edges...)}
	}
	return out
}

func reverseAdj(adj map[Node]edgeList) map[Node][]predEdge {
	out := make(map[Node][]predEdge)
	for u, el := range adj {
		for _, e := range el.edges {
			out[e.To] = append(out[e.To], predEdge{from: u, weight: e.Weight, lane: e.Lane})
		}
	}
	return out
}

func appendEdge(el edgeList, e Edge) edgeList {
	el.edges = append(el.edges, e)
	return el
}
