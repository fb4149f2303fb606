package geoio

import (
	"math"

	geojson "github.com/paulmach/go.geojson"

	"github.com/vvbv/abstreet/geom"
	"github.com/vvbv/abstreet/mapmodel"
)

// Unproject is Project's inverse, used only for debug/export rendering
// where the output has to be real lat/lon again (e.g. to view in a
// standard GIS tool).
func Unproject(pt geom.Pt2D, originLat, originLon float64) (lat, lon float64) {
	lat = originLat + pt.Y/earthRadiusMeters*180/math.Pi
	lon = originLon + pt.X/(earthRadiusMeters*math.Cos(originLat*math.Pi/180))*180/math.Pi
	return lat, lon
}

func lineStringCoords(pl geom.PolyLine, originLat, originLon float64) [][]float64 {
	pts := pl.Points()
	coords := make([][]float64, len(pts))
	for i, p := range pts {
		lat, lon := Unproject(p, originLat, originLon)
		coords[i] = []float64{lon, lat}
	}
	return coords
}

func polygonCoords(poly geom.Polygon, originLat, originLon float64) [][][]float64 {
	pts := poly.Points()
	ring := make([][]float64, len(pts))
	for i, p := range pts {
		lat, lon := Unproject(p, originLat, originLon)
		ring[i] = []float64{lon, lat}
	}
	return [][][]float64{ring}
}

// ExportMap renders a cooked map's lane centerlines, intersection
// polygons, and building footprints as a single GeoJSON FeatureCollection,
// useful for feeding straight into any GIS viewer while debugging the
// construction pipeline (§4.1 has no built-in visualizer, so this is the
// escape hatch for inspecting intermediate results by eye).
func ExportMap(m *mapmodel.Map, originLat, originLon float64) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, l := range m.Lanes {
		f := geojson.NewLineStringFeature(lineStringCoords(l.Center, originLat, originLon))
		f.SetProperty("kind", "lane")
		f.SetProperty("lane_id", int(l.ID))
		f.SetProperty("lane_type", int(l.Type))
		f.SetProperty("closed", l.Closed)
		fc.AddFeature(f)
	}

	for _, i := range m.Intersections {
		f := geojson.NewPolygonFeature(polygonCoords(i.Polygon, originLat, originLon))
		f.SetProperty("kind", "intersection")
		f.SetProperty("intersection_id", int(i.ID))
		f.SetProperty("control", int(i.Control))
		fc.AddFeature(f)
	}

	for _, b := range m.Buildings {
		f := geojson.NewPolygonFeature(polygonCoords(b.Polygon, originLat, originLon))
		f.SetProperty("kind", "building")
		f.SetProperty("building_id", int(b.ID))
		f.SetProperty("address", b.Address)
		fc.AddFeature(f)
	}

	for _, s := range m.BusStops {
		lat, lon := Unproject(mustPointOnLane(m, s), originLat, originLon)
		f := geojson.NewPointFeature([]float64{lon, lat})
		f.SetProperty("kind", "bus_stop")
		f.SetProperty("bus_stop_id", int(s.ID))
		f.SetProperty("name", s.Name)
		fc.AddFeature(f)
	}

	return fc
}

func mustPointOnLane(m *mapmodel.Map, s *mapmodel.BusStop) geom.Pt2D {
	lane, ok := m.GetLane(s.Lane)
	if !ok {
		return geom.Pt2D{}
	}
	pt, _, ok := lane.Center.SafeDistAlong(s.DistAlong)
	if !ok {
		return geom.Pt2D{}
	}
	return pt
}
