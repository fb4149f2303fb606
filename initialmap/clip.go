package initialmap

import (
	"fmt"

	"github.com/vvbv/abstreet/geom"
	"github.com/vvbv/abstreet/rawmap"
)

// Boundary is the clipping polygon parsed from an Osmosis .poly file (§6).
type Boundary struct {
	Polygon geom.Polygon
}

// ParseOsmosisPoly parses the documented Osmosis polygon filter text
// format: a name line, one or more rings each introduced by an index
// line and terminated by "END", and a final "END" closing the file.
func ParseOsmosisPoly(lines []string) (Boundary, bool) {
	var pts []geom.Pt2D
	inRing := false
	for _, line := range lines {
		switch line {
		case "END":
			if inRing {
				inRing = false
				continue
			}
			if len(pts) >= 3 {
				return Boundary{Polygon: geom.NewPolygon(geom.CloseOffPolygon(pts))}, true
			}
			return Boundary{}, false
		default:
			if !inRing {
				inRing = true
				continue
			}
			var x, y float64
			if n, err := fmt.Sscan(line, &x, &y); err != nil || n != 2 {
				continue
			}
			pts = append(pts, geom.Pt2D{X: x, Y: y})
		}
	}
	return Boundary{}, false
}

// Clip runs Phase C: roads with both endpoints outside the boundary are
// dropped; roads crossing the boundary are trimmed to a synthetic Border
// intersection at the crossing point.
func Clip(m *rawmap.Map, boundary Boundary) {
	for id, r := range m.Roads {
		if r.Deleted {
			continue
		}
		i1, i2 := m.Intersections[r.I1], m.Intersections[r.I2]
		in1 := boundary.Polygon.Contains(i1.Point)
		in2 := boundary.Polygon.Contains(i2.Point)
		if in1 && in2 {
			continue
		}
		if !in1 && !in2 {
			r.Deleted = true
			continue
		}
		clipRoadAtBoundary(m, id, r, boundary, in1)
	}
}

// clipRoadAtBoundary trims r to the last point still inside the boundary,
// replacing the outside endpoint with a new Border intersection at the
// polyline/boundary crossing.
func clipRoadAtBoundary(m *rawmap.Map, id rawmap.StableRoadID, r *rawmap.Road, boundary Boundary, keepI1 bool) {
	ring := boundary.Polygon.Points()
	pl := geom.NewPolyLine(r.Points)
	var crossDist float64
	found := false
	for i := 0; i < len(ring)-1; i++ {
		edge := geom.NewPolyLine([]geom.Pt2D{ring[i], ring[i+1]})
		if hit, _, ok := pl.Intersection(edge); ok {
			crossDist = pl.ClosestS(hit)
			found = true
			break
		}
	}
	if !found {
		r.Deleted = true
		return
	}
	var trimmed geom.PolyLine
	if keepI1 {
		trimmed, _ = pl.GetSliceEndingAt(crossDist)
	} else {
		trimmed = pl.ExactSlice(crossDist, pl.Length())
	}
	borderID := rawmap.StableIntersectionID(len(m.Intersections) + 1000000 + int(id))
	borderPt := trimmed.LastPt()
	if !keepI1 {
		borderPt = trimmed.FirstPt()
	}
	m.Intersections[borderID] = &rawmap.Intersection{ID: borderID, Point: borderPt, Type: rawmap.IntersectionBorder, Label: "border"}
	r.Points = trimmed.Points()
	if keepI1 {
		r.I2 = borderID
	} else {
		r.I1 = borderID
	}
}
