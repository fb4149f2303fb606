package mapmodel

import (
	"math"

	"github.com/vvbv/abstreet/geom"
)

// GTFSStop is the subset of a parsed GTFS stop record that snapping
// needs; utils/geoio turns a real feed into these (§4.1 Phase I).
type GTFSStop struct {
	ID    string
	Name  string
	Point geom.Pt2D
}

// GTFSRoute is an ordered stop sequence read off a GTFS trip pattern.
type GTFSRoute struct {
	ID      string
	Name    string
	StopIDs []string
}

// CookBusRoutes runs Phase I: snap every GTFS stop onto the nearest bus
// lane (falling back to a driving lane where no dedicated bus lane
// exists), then replay each route's stop sequence as a BusRoute.
func CookBusRoutes(m *Map, stops []GTFSStop, routes []GTFSRoute) {
	var busLanes, drivingLanes []*Lane
	for _, l := range m.Lanes {
		switch l.Type {
		case LaneBus:
			busLanes = append(busLanes, l)
		case LaneDriving:
			drivingLanes = append(drivingLanes, l)
		}
	}

	byGTFSID := make(map[string]BusStopID, len(stops))
	nextStop := BusStopID(1)
	for _, s := range stops {
		lane, dist, ok := snapTo(busLanes, s.Point)
		if !ok {
			lane, dist, ok = snapTo(drivingLanes, s.Point)
		}
		if !ok {
			log.Warnf("bus stop %s (%s) has no nearby lane to snap to, dropping", s.ID, s.Name)
			continue
		}
		id := nextStop
		nextStop++
		m.BusStops[id] = &BusStop{ID: id, Lane: lane.ID, DistAlong: dist, Name: s.Name}
		byGTFSID[s.ID] = id
	}

	nextRoute := BusRouteID(1)
	for _, r := range routes {
		rid := nextRoute
		nextRoute++
		br := &BusRoute{ID: rid, Name: r.Name}
		for _, sid := range r.StopIDs {
			if id, ok := byGTFSID[sid]; ok {
				br.Stops = append(br.Stops, id)
			}
		}
		if len(br.Stops) < 2 {
			log.Warnf("bus route %s has fewer than 2 resolvable stops, dropping", r.Name)
			continue
		}
		m.BusRoutes[rid] = br
	}
}

func snapTo(lanes []*Lane, pt geom.Pt2D) (*Lane, float64, bool) {
	var best *Lane
	bestDist := math.Inf(1)
	var bestS float64
	for _, l := range lanes {
		s := l.Center.ClosestS(pt)
		p, _, ok := l.Center.SafeDistAlong(s)
		if !ok {
			continue
		}
		d := p.Dist(pt)
		if d < bestDist {
			bestDist, best, bestS = d, l, s
		}
	}
	return best, bestS, best != nil
}
