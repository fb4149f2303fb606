// Package geoio adapts the pipeline's external data formats (OSM
// extracts, GTFS feeds, GeoJSON exports) into the plain types
// initialmap and mapmodel consume, keeping every format-specific
// parser library import confined to this one package.
package geoio

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/sirupsen/logrus"

	"github.com/vvbv/abstreet/geom"
	"github.com/vvbv/abstreet/initialmap"
)

var log = logrus.WithField("module", "geoio")

// earthRadiusMeters backs the equirectangular projection used to turn
// lat/lon into the meters-based plane the geometry package works in;
// adequate at city scale, the same assumption the cooked map's
// geometry invariants already depend on (§2).
const earthRadiusMeters = 6371000.0

// Project converts a lat/lon pair into meters relative to originLat,
// using an equirectangular approximation.
func Project(lat, lon, originLat, originLon float64) geom.Pt2D {
	x := (lon - originLon) * math.Pi / 180 * earthRadiusMeters * math.Cos(originLat*math.Pi/180)
	y := (lat - originLat) * math.Pi / 180 * earthRadiusMeters
	return geom.Pt2D{X: x, Y: y}
}

// ParseOSMPBF two-pass-scans a .osm.pbf extract (the way pass collects
// referenced node IDs, the node pass resolves only those), then
// resolves every way into an initialmap.RawWay, grounded on the same
// two-pass shape used elsewhere in the pack for large PBF files. The
// origin it picked for the meters projection is returned so a
// companion GTFS feed can be projected into the same plane.
func ParseOSMPBF(ctx context.Context, rs io.ReadSeeker) ([]initialmap.RawWay, float64, float64, error) {
	referenced := make(map[osm.NodeID]struct{})
	var ways []*osm.Way

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok || len(w.Nodes) < 2 {
			continue
		}
		ways = append(ways, w)
		for _, wn := range w.Nodes {
			referenced[wn.ID] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, 0, 0, fmt.Errorf("geoio: pass 1 (ways): %w", err)
	}
	scanner.Close()

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, 0, 0, fmt.Errorf("geoio: seek for pass 2: %w", err)
	}

	var originLat, originLon float64
	haveOrigin := false
	idx := make(initialmap.NodeIndex, len(referenced))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referenced[n.ID]; !needed {
			continue
		}
		if !haveOrigin {
			originLat, originLon = n.Lat, n.Lon
			haveOrigin = true
		}
		idx[n.ID] = Project(n.Lat, n.Lon, originLat, originLon)
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, 0, 0, fmt.Errorf("geoio: pass 2 (nodes): %w", err)
	}
	scanner.Close()

	out := make([]initialmap.RawWay, 0, len(ways))
	for _, w := range ways {
		if rw, ok := initialmap.ResolveWay(w, idx); ok {
			out = append(out, rw)
		}
	}
	log.Infof("geoio: parsed %d ways, %d node coordinates from PBF", len(out), len(idx))
	return out, originLat, originLon, nil
}
