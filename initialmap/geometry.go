package initialmap

import (
	"math"

	"github.com/vvbv/abstreet/geom"
	"github.com/vvbv/abstreet/rawmap"
)

// TrimmedRoad is a road's centerline after Phase F has pulled its ends
// back to clear the intersection polygons at both endpoints.
type TrimmedRoad struct {
	ID        rawmap.StableRoadID
	HalfWidth float64
	Center    geom.PolyLine // oriented I1 -> I2, already trimmed at both ends
}

// IntersectionPolygon is the per-intersection shape built by fanning the
// corner points of its incident roads' trimmed ends around the
// intersection's center (§4.1 Phase F).
type IntersectionPolygon struct {
	ID      rawmap.StableIntersectionID
	Polygon geom.Polygon
}

// deadEndMinLength is how far back from a single-road intersection (a
// genuine dead end or a clipped border) the polygon's far edge sits:
// the dead-end half-length constant times two (§4.1 Phase F.3, §8
// scenario 2: "trimmed centerline is exactly original length − 2x5 m").
const deadEndMinLength = 10.0

// TrimAndPolygon runs Phase F: for every road, trim its centerline away
// from each endpoint intersection just far enough that neither side of
// its thick band crosses any other incident road's band, then close a
// polygon around each intersection from the corner points left behind.
// This is the hardest single algorithm in the pipeline, grounded on the
// "generalized_trim_back" procedure: project each road's shifted
// siblines against its neighbors at the same intersection, trim to the
// farthest conflict, then angle-sort the resulting corners.
func TrimAndPolygon(m *rawmap.Map, halfWidths map[rawmap.StableRoadID]float64) (map[rawmap.StableRoadID]*TrimmedRoad, map[rawmap.StableIntersectionID]*IntersectionPolygon) {
	trimmed := make(map[rawmap.StableRoadID]*TrimmedRoad, len(m.Roads))
	// trimStart/trimEnd record how far to cut back from I1/I2 respectively,
	// accumulated across both of a road's endpoint intersections.
	trimStart := make(map[rawmap.StableRoadID]float64)
	trimEnd := make(map[rawmap.StableRoadID]float64)

	for id, r := range m.Roads {
		if r.Deleted {
			continue
		}
		trimmed[id] = &TrimmedRoad{ID: id, HalfWidth: halfWidths[id]}
	}

	polys := make(map[rawmap.StableIntersectionID]*IntersectionPolygon, len(m.Intersections))
	for iid, inter := range m.Intersections {
		roads := m.RoadsAt(iid)
		if len(roads) == 0 {
			continue
		}
		if len(roads) == 1 {
			polys[iid] = deadEndPolygon(iid, inter, roads[0], halfWidths[roads[0].ID], trimStart, trimEnd)
			continue
		}
		polys[iid] = generalizedTrimBack(iid, inter, roads, halfWidths, trimStart, trimEnd)
	}

	for id, r := range m.Roads {
		if r.Deleted {
			continue
		}
		pl := geom.NewPolyLine(r.Points)
		from := math.Min(trimStart[id], pl.Length()/2-0.01)
		to := math.Max(pl.Length()-trimEnd[id], pl.Length()/2+0.01)
		if from < 0 {
			from = 0
		}
		if to > pl.Length() {
			to = pl.Length()
		}
		if to < from {
			from, to = pl.Length()/2, pl.Length()/2+1e-6
		}
		trimmed[id].Center = pl.ExactSlice(from, to)
	}
	return trimmed, polys
}

// orientOutward returns r's centerline walked starting at i.
func orientOutward(r *rawmap.Road, i rawmap.StableIntersectionID) geom.PolyLine {
	pl := geom.NewPolyLine(r.Points)
	if r.I1 == i {
		return pl
	}
	return pl.Reversed()
}

// deadEndPolygon builds a small rectangle around the loose end of a
// single-road intersection (true dead ends and clipped borders alike).
func deadEndPolygon(iid rawmap.StableIntersectionID, inter *rawmap.Intersection, r *rawmap.Road, halfWidth float64, trimStart, trimEnd map[rawmap.StableRoadID]float64) *IntersectionPolygon {
	pl := orientOutward(r, iid)
	cut := math.Min(deadEndMinLength, pl.Length()*0.25)
	if r.I1 == iid {
		trimStart[r.ID] = math.Max(trimStart[r.ID], cut)
	} else {
		trimEnd[r.ID] = math.Max(trimEnd[r.ID], cut)
	}
	near, _ := pl.GetSliceEndingAt(cut)
	left := near.ShiftLeft(halfWidth)
	right := near.ShiftRight(halfWidth)
	pts := []geom.Pt2D{left.FirstPt(), left.LastPt(), right.LastPt(), right.FirstPt()}
	return &IntersectionPolygon{ID: iid, Polygon: geom.NewPolygon(geom.CloseOffPolygon(pts))}
}

// generalizedTrimBack computes, for every road incident to an
// intersection, the two corner points its thick band contributes, and
// cuts each road back to clear every other incident road's band.
func generalizedTrimBack(iid rawmap.StableIntersectionID, inter *rawmap.Intersection, roads []*rawmap.Road, halfWidths map[rawmap.StableRoadID]float64, trimStart, trimEnd map[rawmap.StableRoadID]float64) *IntersectionPolygon {
	type oriented struct {
		road  *rawmap.Road
		outward geom.PolyLine
		left, right geom.PolyLine
	}
	or := make([]oriented, len(roads))
	for i, r := range roads {
		out := orientOutward(r, iid)
		hw := halfWidths[r.ID]
		or[i] = oriented{road: r, outward: out, left: out.ShiftLeft(hw), right: out.ShiftRight(hw)}
	}

	var corners []geom.Pt2D
	for i := range or {
		trimDist := 0.0
		for j := range or {
			if i == j {
				continue
			}
			sameEndpoints := or[i].road.OtherEnd(iid) == or[j].road.OtherEnd(iid)
			a1, a2 := or[i].left, or[i].right
			b1, b2 := or[j].left, or[j].right
			if sameEndpoints {
				a1, a2 = a1.SecondHalf(), a2.SecondHalf()
				b1, b2 = b1.SecondHalf(), b2.SecondHalf()
			}
			for _, pair := range [][2]geom.PolyLine{{a1, b1}, {a1, b2}, {a2, b1}, {a2, b2}} {
				if hit, _, ok := pair[0].Intersection(pair[1]); ok {
					d := pair[0].ClosestS(hit)
					if d > trimDist {
						trimDist = d
					}
				}
			}
		}
		if trimDist < 1.0 {
			trimDist = 1.0 // never trim to less than a lane-width-ish stub
		}
		r := or[i].road
		if r.I1 == iid {
			if trimDist > trimStart[r.ID] {
				trimStart[r.ID] = trimDist
			}
		} else {
			if trimDist > trimEnd[r.ID] {
				trimEnd[r.ID] = trimDist
			}
		}
		if pt, _, ok := or[i].left.SafeDistAlong(trimDist); ok {
			corners = append(corners, pt)
		}
		if pt, _, ok := or[i].right.SafeDistAlong(trimDist); ok {
			corners = append(corners, pt)
		}
	}

	sorted := geom.SortByAngleAround(corners, inter.Point)
	poly := geom.NewPolygon(geom.CloseOffPolygon(sorted))
	if !poly.IsSimple() {
		// self-crossing fallback: angle-sort already applied is the
		// documented recovery, so this path just accepts the hull as-is.
		poly = geom.NewPolygon(geom.CloseOffPolygon(geom.SortByAngleAround(corners, inter.Point)))
	}
	return &IntersectionPolygon{ID: iid, Polygon: poly}
}
