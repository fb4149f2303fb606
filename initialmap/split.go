package initialmap

import (
	"github.com/vvbv/abstreet/geom"
	"github.com/vvbv/abstreet/rawmap"
)

// collapseRoundabouts replaces each way tagged junction=roundabout with
// its centroid, and repoints every other way's matching endpoint at that
// centroid, before intersection-splitting runs (§4.1 Phase B).
func collapseRoundabouts(roads []RawWay) []RawWay {
	var plain []RawWay
	var abouts []RawWay
	for _, r := range roads {
		if r.Tags.Is("junction", "roundabout") {
			abouts = append(abouts, r)
		} else {
			plain = append(plain, r)
		}
	}
	if len(abouts) == 0 {
		return roads
	}
	for _, ring := range abouts {
		center := geom.Center(ring.Points)
		onRing := make(map[geom.Pt2D]bool, len(ring.Points))
		for _, p := range ring.Points {
			onRing[p] = true
		}
		for i := range plain {
			for j, p := range plain[i].Points {
				if onRing[p] {
					plain[i].Points[j] = center
				}
			}
		}
	}
	return plain
}

// Split runs Phase B: every road is cut into one fragment per pair of
// consecutive "hard" points, where a hard point is the first or last
// point of any way, or a point shared by two or more ways. Ways
// entirely without a second hard point (dead-end spurs of length 1
// segment) still produce a single fragment between their two endpoints.
func Split(roads []RawWay) *rawmap.Map {
	roads = collapseRoundabouts(roads)
	m := rawmap.NewMap()

	touchCount := make(map[geom.Pt2D]int)
	for _, r := range roads {
		for _, p := range r.Points {
			touchCount[p]++
		}
	}

	isHard := func(r RawWay, idx int) bool {
		if idx == 0 || idx == len(r.Points)-1 {
			return true
		}
		return touchCount[r.Points[idx]] > 1
	}

	interByPoint := make(map[geom.Pt2D]rawmap.StableIntersectionID)
	nextI := rawmap.StableIntersectionID(1)
	nextR := rawmap.StableRoadID(1)

	internFor := func(p geom.Pt2D) rawmap.StableIntersectionID {
		if id, ok := interByPoint[p]; ok {
			return id
		}
		id := nextI
		nextI++
		m.Intersections[id] = &rawmap.Intersection{ID: id, Point: p, Type: rawmap.IntersectionStopSign}
		interByPoint[p] = id
		return id
	}

	for _, r := range roads {
		start := 0
		for idx := 1; idx < len(r.Points); idx++ {
			if !isHard(r, idx) {
				continue
			}
			frag := r.Points[start : idx+1]
			i1 := internFor(frag[0])
			i2 := internFor(frag[len(frag)-1])
			id := nextR
			nextR++
			m.Roads[id] = &rawmap.Road{
				ID:     id,
				I1:     i1,
				I2:     i2,
				Points: append([]geom.Pt2D{}, frag...),
				OsmWay: r.ID,
				Tags:   r.Tags,
			}
			start = idx
		}
	}

	log.Infof("split: %d ways -> %d intersections, %d road fragments", len(roads), len(m.Intersections), len(m.Roads))
	return m
}
