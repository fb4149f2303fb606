// Package initialmap implements Phases A-G of the map construction
// pipeline (§4.1): raw ingest, splitting at intersections, clipping,
// connectivity pruning, lane classification, hint application, and
// trimming and intersection polygon generation. Its output is handed to
// mapmodel to cook into the immutable lane/intersection/turn graph; turn
// generation and bus-route snapping happen there, not here.
package initialmap

import (
	"github.com/paulmach/osm"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/vvbv/abstreet/geom"
	"github.com/vvbv/abstreet/rawmap"
)

var log = logrus.WithField("module", "initialmap")

// excludedHighways are excluded from the road classification even
// though they carry a highway=* tag (§4.1 Phase A).
var excludedHighways = map[string]bool{
	"pedestrian":    true,
	"footway":       true,
	"steps":         true,
	"path":          true,
	"construction":  true,
	"proposed":      true,
	"raceway":       true,
	"bridleway":     true,
	"corridor":      true,
	"platform":      true,
}

// WayKind is the classification a raw way receives in Phase A.
type WayKind int

const (
	WayNone WayKind = iota
	WayRoad
	WayBuilding
	WayArea
)

// ClassifyWay applies the fixed tag filter of Phase A.
func ClassifyWay(tags rawmap.Tags) WayKind {
	if hw, ok := tags.Get("highway"); ok && hw != "" && !excludedHighways[hw] {
		return WayRoad
	}
	if b, ok := tags.Get("building"); ok && b != "" {
		return WayBuilding
	}
	if tags.Is("leisure", "park") {
		return WayArea
	}
	if n, ok := tags.Get("natural"); ok && (n == "wood" || n == "wetland") {
		return WayArea
	}
	if wv, ok := tags.Get("waterway"); ok && wv != "" {
		return WayArea
	}
	return WayNone
}

func areaKind(tags rawmap.Tags) rawmap.AreaKind {
	if n, _ := tags.Get("natural"); n == "wetland" {
		return rawmap.AreaWetland
	}
	if wv, ok := tags.Get("waterway"); ok && wv != "" {
		return rawmap.AreaWater
	}
	return rawmap.AreaPark
}

// RawWay is the pre-split way record: its node references resolved to
// coordinates via an O(1) preindex, plus its tags (§4.1 Phase A).
type RawWay struct {
	ID     osm.WayID
	NodeID []osm.NodeID
	Points []geom.Pt2D
	Tags   rawmap.Tags
}

// NodeIndex resolves osm.NodeID -> coordinates in O(1) (§4.1 Phase A).
type NodeIndex map[osm.NodeID]geom.Pt2D

// IngestInput is the parsed-but-unclassified OSM extract: every way
// with its node references resolved through the preindex.
type IngestInput struct {
	Ways []RawWay
}

// IngestResult is Phase A's classified output, still one record per
// original OSM way (splitting happens in Phase B).
type IngestResult struct {
	Roads     []RawWay
	Buildings []RawWay
	Areas     []RawWay
}

// Ingest runs Phase A: classify each way as Road, Building, or Area.
func Ingest(in IngestInput) IngestResult {
	var res IngestResult
	for _, w := range in.Ways {
		switch ClassifyWay(w.Tags) {
		case WayRoad:
			res.Roads = append(res.Roads, w)
		case WayBuilding:
			res.Buildings = append(res.Buildings, w)
		case WayArea:
			res.Areas = append(res.Areas, w)
		}
	}
	log.Infof("ingest: %d roads, %d buildings, %d areas (of %d ways)",
		len(res.Roads), len(res.Buildings), len(res.Areas), len(in.Ways))
	return res
}

// ResolveWay turns an osm.Way's node references into a RawWay via the
// preindex, dropping unresolvable references with a warning (§7: "input
// malformed" fails the affected record, not the pipeline).
func ResolveWay(w *osm.Way, idx NodeIndex) (RawWay, bool) {
	tags := make(rawmap.Tags, len(w.Tags))
	for _, t := range w.Tags {
		tags[t.Key] = t.Value
	}
	ids := lo.Map(w.Nodes, func(wn osm.WayNode, _ int) osm.NodeID { return wn.ID })
	pts := make([]geom.Pt2D, 0, len(ids))
	for _, id := range ids {
		pt, ok := idx[id]
		if !ok {
			log.Warnf("way %d references unknown node %d, dropping way", w.ID, id)
			return RawWay{}, false
		}
		pts = append(pts, pt)
	}
	if len(pts) < 2 {
		log.Warnf("way %d has fewer than 2 resolvable points, dropping", w.ID)
		return RawWay{}, false
	}
	return RawWay{ID: w.ID, NodeID: ids, Points: pts, Tags: tags}, true
}
