package mapmodel

import (
	"math"

	"github.com/vvbv/abstreet/geom"
	"github.com/vvbv/abstreet/rawmap"
)

// CookBuildings snaps every raw building footprint to the nearest
// sidewalk lane's centerline, so trip generation can place a pedestrian
// leg's start/end directly on the walking graph without a separate
// runtime search (§4.1's external correction inputs feed in here too:
// Address/NumUnits ride along from the raw record unchanged).
func CookBuildings(m *Map, raw *rawmap.Map) {
	var sidewalks []*Lane
	for _, l := range m.Lanes {
		if l.Type == LaneSidewalk {
			sidewalks = append(sidewalks, l)
		}
	}
	for i, rb := range raw.Buildings {
		id := BuildingID(i + 1)
		center := geom.Center(rb.Points)
		var best *Lane
		var bestDist = math.Inf(1)
		var bestS float64
		for _, l := range sidewalks {
			s := l.Center.ClosestS(center)
			pt, _, ok := l.Center.SafeDistAlong(s)
			if !ok {
				continue
			}
			d := pt.Dist(center)
			if d < bestDist {
				bestDist = d
				best = l
				bestS = s
			}
		}
		b := &Building{
			ID:      id,
			Stable:  rb.ID,
			Polygon: geom.NewPolygon(geom.CloseOffPolygon(rb.Points)),
			Address: rb.Address,
			NumUnits: rb.NumUnits,
		}
		if best != nil {
			b.NearestSidewalk = best.ID
			b.DistAlong = bestS
		}
		m.Buildings[id] = b
	}
}
