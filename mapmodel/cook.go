package mapmodel

import (
	"math"

	"github.com/vvbv/abstreet/geom"
	"github.com/vvbv/abstreet/initialmap"
	"github.com/vvbv/abstreet/rawmap"
)

// Cook assigns dense IDs over initialmap's output and builds the lane
// offset polylines, intersection turn sets, and a default control
// policy per intersection (§3: "dense IDs are assigned fresh on every
// rebuild, in a deterministic but otherwise unspecified order").
func Cook(in initialmap.Result) *Map {
	m := newMap()

	interIDs := sortedStableInterIDs(in.Raw)
	for idx, sid := range interIDs {
		raw := in.Raw.Intersections[sid]
		id := IntersectionID(idx + 1)
		m.stableInterToID[sid] = id
		poly := geom.Polygon{}
		if p, ok := in.Polygons[sid]; ok {
			poly = p.Polygon
		}
		m.Intersections[id] = &Intersection{
			ID:      id,
			Stable:  sid,
			Point:   raw.Point,
			Polygon: poly,
			Control: controlFor(raw, in.Raw.RoadsAt(sid)),
			Turns:   make(map[TurnID]*Turn),
		}
	}

	roadIDs := sortedStableRoadIDs(in.Raw)
	nextLane := LaneID(1)
	for idx, sid := range roadIDs {
		raw := in.Raw.Roads[sid]
		rid := RoadID(idx + 1)
		m.stableRoadToID[sid] = rid
		srcI, dstI := m.stableInterToID[raw.I1], m.stableInterToID[raw.I2]

		center := in.Trimmed[sid].Center
		specs := in.Lanes[sid]
		road := &Road{ID: rid, Stable: sid, OsmWay: raw.OsmWay, Src: srcI, Dst: dstI, Center: center}

		offsets := laneOffsets(specs)
		for i, spec := range specs {
			lid := nextLane
			nextLane++
			laneCenter := offsetCenterline(center, offsets[i])
			fromI, toI := srcI, dstI
			if spec.Direction == initialmap.Back {
				laneCenter = laneCenter.Reversed()
				fromI, toI = dstI, srcI
			}
			lane := &Lane{
				ID: lid, Road: rid, Type: spec.Type, Index: i,
				Src: fromI, Dst: toI, Center: laneCenter, Width: spec.Width,
			}
			m.Lanes[lid] = lane
			road.Lanes = append(road.Lanes, lid)
			m.Intersections[toI].Incoming = append(m.Intersections[toI].Incoming, lid)
			m.Intersections[fromI].Outgoing = append(m.Intersections[fromI].Outgoing, lid)
		}
		m.Roads[rid] = road
	}

	for _, i := range m.Intersections {
		GenerateTurns(m, i)
	}

	CookBuildings(m, in.Raw)

	return m
}

func controlFor(raw *rawmap.Intersection, roads []*rawmap.Road) ControlType {
	switch raw.Type {
	case rawmap.IntersectionBorder:
		return ControlBorder
	case rawmap.IntersectionTrafficSignal:
		return ControlTrafficSignal
	}
	if len(roads) <= 2 {
		return ControlFreeform
	}
	return ControlStopSign
}

func sortedStableInterIDs(m *rawmap.Map) []rawmap.StableIntersectionID {
	out := make([]rawmap.StableIntersectionID, 0, len(m.Intersections))
	for id := range m.Intersections {
		out = append(out, id)
	}
	sortInts(out)
	return out
}

func sortedStableRoadIDs(m *rawmap.Map) []rawmap.StableRoadID {
	out := make([]rawmap.StableRoadID, 0, len(m.Roads))
	for id, r := range m.Roads {
		if !r.Deleted {
			out = append(out, id)
		}
	}
	sortRoadInts(out)
	return out
}

func sortInts(s []rawmap.StableIntersectionID) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func sortRoadInts(s []rawmap.StableRoadID) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// laneOffsets returns, for each lane spec in order, the signed
// perpendicular distance of its center from the road centerline: lanes
// to the "back" direction (left of travel by convention) are negative.
func laneOffsets(specs []initialmap.LaneSpec) []float64 {
	out := make([]float64, len(specs))
	var total float64
	for _, s := range specs {
		total += s.Width
	}
	cursor := -total / 2
	for i, s := range specs {
		out[i] = cursor + s.Width/2
		cursor += s.Width
	}
	return out
}

func offsetCenterline(center geom.PolyLine, offset float64) geom.PolyLine {
	if math.Abs(offset) < 1e-9 {
		return center
	}
	if offset > 0 {
		return center.ShiftRight(offset)
	}
	return center.ShiftLeft(-offset)
}
