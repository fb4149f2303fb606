package pathfind

import "github.com/vvbv/abstreet/mapmodel"

// AugmentWithTransit extends a pedestrian sidewalk graph with
// zero-weight RideBus edges between every pair of stops on the same
// route: pathfinding treats "ride the bus between these two stops" as
// free, since the in-vehicle travel time is sim's concern, not a
// distance cost the pedestrian hierarchy should be minimizing (§4.4).
func AugmentWithTransit(sidewalks *Graph, m *mapmodel.Map) {
	for _, route := range m.BusRoutes {
		for i := 0; i < len(route.Stops); i++ {
			for j := 0; j < len(route.Stops); j++ {
				if i == j {
					continue
				}
				from := stopSidewalkNode(m, route.Stops[i])
				to := stopSidewalkNode(m, route.Stops[j])
				if from == 0 || to == 0 || from == to {
					continue
				}
				sidewalks.Out[from] = append(sidewalks.Out[from], Edge{To: to, Weight: 0, Lane: to})
				sidewalks.nodes[from] = true
				sidewalks.nodes[to] = true
			}
		}
	}
}

func stopSidewalkNode(m *mapmodel.Map, id mapmodel.BusStopID) Node {
	stop, ok := m.BusStops[id]
	if !ok {
		return 0
	}
	lane, ok := m.GetLane(stop.Lane)
	if !ok {
		return 0
	}
	if lane.Type == mapmodel.LaneSidewalk {
		return lane.ID
	}
	// a stop snapped to a bus or driving lane is reached from the
	// sidewalk on the same side of its road
	if road, ok := m.Roads[lane.Road]; ok {
		for _, id := range road.Lanes {
			if l, ok := m.GetLane(id); ok && l.Type == mapmodel.LaneSidewalk && l.Src == lane.Src {
				return id
			}
		}
	}
	return 0
}

// ShouldUseTransit compares a plain walking distance against the
// walk-plus-transit distance produced by a hierarchy built over a
// transit-augmented sidewalk graph, and reports whether the transit
// route is worth it by at least a flat walking-vs-waiting margin.
func ShouldUseTransit(walkOnlyCm, withTransitCm int, minSavingsCm int) bool {
	if withTransitCm >= walkOnlyCm {
		return false
	}
	return walkOnlyCm-withTransitCm >= minSavingsCm
}
