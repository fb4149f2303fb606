package initialmap

import "github.com/vvbv/abstreet/rawmap"

// Prune runs Phase D: any road or intersection not reachable (treating
// roads as undirected edges) from the largest connected component is
// dropped, per §4.1's connectivity guarantee that the cooked map's
// driving graph is one component.
func Prune(m *rawmap.Map) {
	adj := make(map[rawmap.StableIntersectionID][]rawmap.StableIntersectionID)
	for _, r := range m.Roads {
		if r.Deleted {
			continue
		}
		adj[r.I1] = append(adj[r.I1], r.I2)
		adj[r.I2] = append(adj[r.I2], r.I1)
	}

	visited := make(map[rawmap.StableIntersectionID]bool)
	var components [][]rawmap.StableIntersectionID
	for id := range m.Intersections {
		if visited[id] {
			continue
		}
		comp := bfs(id, adj, visited)
		components = append(components, comp)
	}
	if len(components) <= 1 {
		return
	}

	best := 0
	for i, c := range components {
		if len(c) > len(components[best]) {
			best = i
		}
		_ = i
	}
	keep := make(map[rawmap.StableIntersectionID]bool, len(components[best]))
	for _, id := range components[best] {
		keep[id] = true
	}

	dropped := 0
	for id := range m.Intersections {
		if !keep[id] {
			delete(m.Intersections, id)
			dropped++
		}
	}
	for rid, r := range m.Roads {
		if !keep[r.I1] || !keep[r.I2] {
			delete(m.Roads, rid)
		}
	}
	log.Infof("prune: dropped %d disconnected intersections (%d components found)", dropped, len(components))
}

func bfs(start rawmap.StableIntersectionID, adj map[rawmap.StableIntersectionID][]rawmap.StableIntersectionID, visited map[rawmap.StableIntersectionID]bool) []rawmap.StableIntersectionID {
	queue := []rawmap.StableIntersectionID{start}
	visited[start] = true
	var comp []rawmap.StableIntersectionID
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		comp = append(comp, cur)
		for _, next := range adj[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return comp
}
