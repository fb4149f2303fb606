package pathfind

import "container/heap"

// pqItem is one entry of the Dijkstra priority queue.
type pqItem struct {
	node Node
	cost int
}

type nodeHeap []pqItem

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(pqItem)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// dijkstra runs a standard single-source shortest path search over adj,
// stopping early once `stop` no longer needs expanding (or never, if
// stop is nil). It's used as the witness search during contraction.
func dijkstra(adj map[Node][]Edge, src Node, stop func(Node, int) bool, maxHops int) map[Node]int {
	dist := map[Node]int{src: 0}
	hops := map[Node]int{src: 0}
	pq := &nodeHeap{{node: src, cost: 0}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		if d, ok := dist[cur.node]; ok && cur.cost > d {
			continue
		}
		if stop != nil && stop(cur.node, cur.cost) {
			continue
		}
		if maxHops > 0 && hops[cur.node] >= maxHops {
			continue
		}
		for _, e := range adj[cur.node] {
			nd := cur.cost + e.Weight
			if d, ok := dist[e.To]; !ok || nd < d {
				dist[e.To] = nd
				hops[e.To] = hops[cur.node] + 1
				heap.Push(pq, pqItem{node: e.To, cost: nd})
			}
		}
	}
	return dist
}

// ShortestPath runs plain Dijkstra with path reconstruction;
// Engine.Resolve uses it as the RetrySlow fallback when the contraction
// hierarchy finds no route.
func ShortestPath(g *Graph, src, dst Node) ([]Edge, int, bool) {
	type state struct {
		cost int
		via  Edge
		from Node
		has  bool
	}
	best := map[Node]state{src: {cost: 0}}
	pq := &nodeHeap{{node: src, cost: 0}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		if cur.cost > best[cur.node].cost && cur.node != src {
			continue
		}
		if cur.node == dst {
			break
		}
		for _, e := range g.Out[cur.node] {
			nd := cur.cost + e.Weight
			if s, ok := best[e.To]; !ok || nd < s.cost {
				best[e.To] = state{cost: nd, via: e, from: cur.node, has: true}
				heap.Push(pq, pqItem{node: e.To, cost: nd})
			}
		}
	}
	final, ok := best[dst]
	if !ok && dst != src {
		return nil, 0, false
	}
	var edges []Edge
	cur := dst
	for cur != src {
		s := best[cur]
		if !s.has {
			return nil, 0, false
		}
		edges = append([]Edge{s.via}, edges...)
		cur = s.from
	}
	return edges, final.cost, true
}
