package pathfind

import "container/heap"

// predEntry records, for one node reached during a CH-direction
// search, the edge and predecessor node used to reach it.
type predEntry struct {
	edge Edge
	from Node
}

// searchUp runs single-source Dijkstra over one CH direction graph
// (already restricted to rank-increasing edges by construction),
// recording the predecessor edge used to reach each node.
func searchUp(adj map[Node][]Edge, src Node) (map[Node]int, map[Node]predEntry) {
	dist := map[Node]int{src: 0}
	pred := map[Node]predEntry{}
	pq := &nodeHeap{{node: src, cost: 0}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		if d, ok := dist[cur.node]; ok && cur.cost > d {
			continue
		}
		for _, e := range adj[cur.node] {
			nd := cur.cost + e.Weight
			if d, ok := dist[e.To]; !ok || nd < d {
				dist[e.To] = nd
				pred[e.To] = predEntry{edge: e, from: cur.node}
				heap.Push(pq, pqItem{node: e.To, cost: nd})
			}
		}
	}
	return dist, pred
}

// Query runs a bidirectional search over the hierarchy: forward from
// src following only Up edges, backward from dst following only Down
// edges, meeting at the node minimizing the sum of both distances
// (§4.4). The returned edge sequence has already been unpacked back
// into real lanes.
func (ch *CH) Query(src, dst Node) ([]Edge, int, bool) {
	if src == dst {
		return nil, 0, true
	}
	distF, predF := searchUp(ch.Up, src)
	distB, predB := searchUp(ch.Down, dst)

	best := -1
	var meet Node
	for n, df := range distF {
		if db, ok := distB[n]; ok {
			if total := df + db; best == -1 || total < best {
				best, meet = total, n
			}
		}
	}
	if best == -1 {
		return nil, 0, false
	}

	// Forward half: walk predF backward from meet to src, building the
	// real node sequence src -> ... -> meet.
	var fwdNodes []Node
	cur := meet
	for cur != src {
		fwdNodes = append([]Node{cur}, fwdNodes...)
		pe, ok := predF[cur]
		if !ok {
			return nil, 0, false
		}
		cur = pe.from
	}
	fwdNodes = append([]Node{src}, fwdNodes...)

	// Backward half: predB[n] gives the real edge n -> predB[n].from, so
	// walking meet -> predB[meet].from -> ... reaches dst in real order.
	var backNodes []Node
	cur = meet
	for cur != dst {
		pe, ok := predB[cur]
		if !ok {
			return nil, 0, false
		}
		backNodes = append(backNodes, cur)
		cur = pe.from
	}
	backNodes = append(backNodes, dst)

	path := append(fwdNodes, backNodes[1:]...)

	var out []Edge
	for i := 0; i < len(path)-1; i++ {
		a, b := path[i], path[i+1]
		e, ok := edgeBetween(ch, predF, predB, a, b)
		if !ok {
			return nil, 0, false
		}
		out = append(out, unpackOne(ch, a, e)...)
	}
	return out, best, true
}

// edgeBetween recovers the raw (possibly shortcut) edge used between
// two adjacent path nodes from whichever direction's predecessor map
// recorded it.
func edgeBetween(ch *CH, predF, predB map[Node]predEntry, a, b Node) (Edge, bool) {
	if pe, ok := predF[b]; ok && pe.from == a {
		return pe.edge, true
	}
	if pe, ok := predB[a]; ok && pe.from == b {
		// a Down edge points back at its predecessor; turn it around so it
		// runs a -> b like the real or shortcut edge it stands for
		return Edge{To: b, Weight: pe.edge.Weight, Lane: pe.edge.Lane}, true
	}
	return Edge{}, false
}

// unpackOne expands a shortcut edge (from, e.To) into the two edges it
// replaces, recursively, until only original lane edges remain.
func unpackOne(ch *CH, from Node, e Edge) []Edge {
	if via, ok := ch.shortcutVia[shortcutKey{from: from, to: e.To}]; ok {
		left := unpackOne(ch, from, via[0])
		right := unpackOne(ch, via[0].To, via[1])
		return append(left, right...)
	}
	return []Edge{e}
}
