package initialmap

import (
	"github.com/vvbv/abstreet/rawmap"
)

// Result is everything later stages (mapmodel's cooking pass) need out
// of the initial-map build: the raw graph after hints, each road's lane
// assignment, and Phase F's trimmed centerlines and polygons.
type Result struct {
	Raw       *rawmap.Map
	Lanes     map[rawmap.StableRoadID][]LaneSpec
	Trimmed   map[rawmap.StableRoadID]*TrimmedRoad
	Polygons  map[rawmap.StableIntersectionID]*IntersectionPolygon
	HintsDone rawmap.ApplyResult
}

// Build runs Phases A through G in order: ingest, split, optional clip,
// prune, classify lanes, apply hints, then trim and polygon. Each phase
// operates on the output of the last, as laid out in §4.1.
func Build(ways []RawWay, boundary *Boundary, hints []rawmap.Hint) Result {
	classified := Ingest(IngestInput{Ways: ways})

	m := Split(classified.Roads)

	if boundary != nil {
		Clip(m, *boundary)
	}

	Prune(m)

	lanes := make(map[rawmap.StableRoadID][]LaneSpec, len(m.Roads))
	for id, r := range m.Roads {
		if r.Deleted {
			continue
		}
		lanes[id] = ClassifyLanes(r.Tags)
	}

	hintsDone := rawmap.ApplyHints(m, hints)
	for id, r := range m.Roads {
		if r.Deleted {
			continue
		}
		if _, ok := lanes[id]; !ok {
			lanes[id] = ClassifyLanes(r.Tags)
		}
	}

	halfWidths := make(map[rawmap.StableRoadID]float64, len(lanes))
	for id, ls := range lanes {
		var total float64
		for _, l := range ls {
			total += l.Width
		}
		halfWidths[id] = total / 2
	}

	trimmed, polys := TrimAndPolygon(m, halfWidths)

	attachBuildingsAndAreas(m, classified)

	return Result{Raw: m, Lanes: lanes, Trimmed: trimmed, Polygons: polys, HintsDone: hintsDone}
}

func attachBuildingsAndAreas(m *rawmap.Map, classified IngestResult) {
	for i, w := range classified.Buildings {
		m.Buildings = append(m.Buildings, &rawmap.Building{
			ID:     rawmap.StableBuildingID(i + 1),
			OsmWay: w.ID,
			Points: w.Points,
			Tags:   w.Tags,
		})
	}
	for _, w := range classified.Areas {
		m.Areas = append(m.Areas, &rawmap.Area{
			OsmWay: w.ID,
			Points: w.Points,
			Tags:   w.Tags,
			Kind:   areaKind(w.Tags),
		})
	}
}
