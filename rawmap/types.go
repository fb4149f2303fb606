// Package rawmap holds the typed records the map pipeline ingests (§3, §6)
// and the raw-graph mutations ("hints", §4.1 Phase G) that correct them.
// Raw records are mutated only during the initial-map phase.
package rawmap

import (
	"github.com/paulmach/osm"

	"github.com/vvbv/abstreet/geom"
)

// Tags is an OSM-style key/value tag set, shared by ways, buildings and areas.
type Tags map[string]string

func (t Tags) Get(key string) (string, bool) {
	v, ok := t[key]
	return v, ok
}

func (t Tags) Is(key, value string) bool {
	return t[key] == value
}

// StableIntersectionID and StableRoadID are assigned at raw ingest and
// survive hint application and re-import of user corrections (§3). They
// are never interchangeable with mapmodel's dense post-build indices.
type StableIntersectionID int
type StableRoadID int
type StableBuildingID int

// IntersectionType classifies an intersection before lane-level cooking
// assigns its final control policy.
type IntersectionType int

const (
	IntersectionStopSign IntersectionType = iota
	IntersectionTrafficSignal
	IntersectionBorder
)

// Intersection is a raw graph node: either an OSM-derived junction, a
// roundabout collapsed to its centroid, or a synthetic Border where a
// road was clipped (§4.1 Phase B, C).
type Intersection struct {
	ID    StableIntersectionID
	Point geom.Pt2D
	Type  IntersectionType
	Label string
}

// Road is a raw graph edge: one OSM way (or a post-split fragment of one)
// between two intersections, still carrying its full tag set. Lane
// classification (Phase E) hasn't happened yet.
type Road struct {
	ID      StableRoadID
	I1, I2  StableIntersectionID
	Points  []geom.Pt2D
	OsmWay  osm.WayID
	Tags    Tags
	Deleted bool // tombstoned by a DeleteRoad/MergeRoad hint rather than removed from the map, to keep stable IDs stable
}

// Building is a footprint polygon plus whatever parcel/permit metadata has
// been overlaid onto it (§4.1 external correction inputs).
type Building struct {
	ID        StableBuildingID
	OsmWay    osm.WayID
	Points    []geom.Pt2D
	Tags      Tags
	Address   string
	NumUnits  int // overwritten by a residential-permit snap
}

// AreaKind distinguishes the non-road, non-building polygons the renderer
// draws as background (parks, water, swamp).
type AreaKind int

const (
	AreaPark AreaKind = iota
	AreaWater
	AreaWetland
)

type Area struct {
	OsmWay osm.WayID
	Points []geom.Pt2D
	Tags   Tags
	Kind   AreaKind
}

// Map is the full raw-ingest output: every typed record Phase A classified,
// keyed by stable ID where one exists.
type Map struct {
	Intersections map[StableIntersectionID]*Intersection
	Roads         map[StableRoadID]*Road
	Buildings     []*Building
	Areas         []*Area
}

func NewMap() *Map {
	return &Map{
		Intersections: make(map[StableIntersectionID]*Intersection),
		Roads:         make(map[StableRoadID]*Road),
	}
}

// RoadsAt returns the surviving (non-deleted) roads incident to intersection i.
func (m *Map) RoadsAt(i StableIntersectionID) []*Road {
	var out []*Road
	for _, r := range m.Roads {
		if r.Deleted {
			continue
		}
		if r.I1 == i || r.I2 == i {
			out = append(out, r)
		}
	}
	return out
}

// OtherEnd returns the intersection at the far end of r from i.
func (r *Road) OtherEnd(i StableIntersectionID) StableIntersectionID {
	if r.I1 == i {
		return r.I2
	}
	if r.I2 == i {
		return r.I1
	}
	panic("rawmap: OtherEnd: road not incident to intersection")
}
