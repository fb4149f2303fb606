// Package mapmodel holds the cooked map: the dense, rebuild-local
// lane/intersection/turn graph that pathfind and sim query at runtime
// (§4.2, §4.3). It never touches stable IDs directly; those live one
// layer down in rawmap and are translated once, at cook time.
package mapmodel

import (
	"github.com/paulmach/osm"
	"github.com/sirupsen/logrus"

	"github.com/vvbv/abstreet/geom"
	"github.com/vvbv/abstreet/initialmap"
	"github.com/vvbv/abstreet/rawmap"
)

var log = logrus.WithField("module", "mapmodel")

// Dense identifiers are only valid for the lifetime of one cooked Map;
// they are reassigned on every rebuild (§3).
type LaneID int
type IntersectionID int
type TurnID struct {
	Parent IntersectionID
	From   LaneID
	To     LaneID
}
type RoadID int
type BuildingID int
type BusStopID int
type BusRouteID int

type LaneType = initialmap.LaneType

const (
	LaneDriving  = initialmap.LaneDriving
	LaneParking  = initialmap.LaneParking
	LaneBiking   = initialmap.LaneBiking
	LaneBus      = initialmap.LaneBus
	LaneSidewalk = initialmap.LaneSidewalk
)

// ControlType is an intersection's turn-arbitration policy (§4.5).
type ControlType int

const (
	ControlFreeform ControlType = iota
	ControlStopSign
	ControlTrafficSignal
	ControlBorder
)

// Road groups every lane cut from the same raw road fragment, in the
// left-to-right order Phase E assigned them.
type Road struct {
	ID       RoadID
	Stable   rawmap.StableRoadID
	OsmWay   osm.WayID // the original way this road was cut from; every stretch Phase B cuts from one way carries the same value
	Src, Dst IntersectionID
	Lanes    []LaneID
	Center   geom.PolyLine
}

// Lane is one travel lane: its own offset polyline (parallel to the
// road's trimmed centerline), its type, and the turns it participates in.
type Lane struct {
	ID        LaneID
	Road      RoadID
	Type      LaneType
	Index     int // position within Road.Lanes, 0 = leftmost
	Src, Dst  IntersectionID
	Center    geom.PolyLine
	Width     float64
	Closed    bool // true under an active edit that disables this lane
}

// TurnKind classifies the geometric relationship between a turn's two
// lanes, by the signed angle between their endpoint headings (§4.1 Phase H).
type TurnKind int

const (
	TurnStraight TurnKind = iota
	TurnLeft
	TurnRight
	TurnLaneChangeLeft
	TurnLaneChangeRight
	TurnCrosswalk
	TurnSharedSidewalkCorner
)

// Turn connects one incoming lane to one outgoing lane through an
// intersection's interior; its Geom is the short connector used both
// for rendering and for the conflict predicate (§4.3).
type Turn struct {
	ID   TurnID
	Kind TurnKind
	Geom geom.PolyLine
}

// Intersection is a cooked graph node: a control policy plus every lane
// that terminates or originates there, and the turns generated between them.
type Intersection struct {
	ID      IntersectionID
	Stable  rawmap.StableIntersectionID
	Point   geom.Pt2D
	Polygon geom.Polygon
	Control ControlType
	Incoming, Outgoing []LaneID
	Turns   map[TurnID]*Turn
}

// Building is a footprint plus the sidewalk lane it's snapped to for
// trip generation (§4.1's external correction inputs; snapping happens
// at cook time since it needs the cooked sidewalk graph to exist).
type Building struct {
	ID        BuildingID
	Stable    rawmap.StableBuildingID
	Polygon   geom.Polygon
	Address   string
	NumUnits  int
	NearestSidewalk LaneID
	DistAlong       float64
}

// BusStop is a point on a bus lane (or on a driving lane, when the map
// has no bus lane to snap to) where a BusRoute picks up and drops off
// riders (§4.1 Phase I).
type BusStop struct {
	ID        BusStopID
	Lane      LaneID
	DistAlong float64
	Name      string
}

// BusRoute is an ordered list of stops a bus trip follows repeatedly;
// §4.6's ServeBusRoute leg walks this list.
type BusRoute struct {
	ID    BusRouteID
	Name  string
	Stops []BusStopID
}

// Map is the complete cooked graph handed to pathfind and sim.
type Map struct {
	Lanes         map[LaneID]*Lane
	Roads         map[RoadID]*Road
	Intersections map[IntersectionID]*Intersection
	Buildings     map[BuildingID]*Building
	BusStops      map[BusStopID]*BusStop
	BusRoutes     map[BusRouteID]*BusRoute

	stableRoadToID  map[rawmap.StableRoadID]RoadID
	stableInterToID map[rawmap.StableIntersectionID]IntersectionID
}

func newMap() *Map {
	return &Map{
		Lanes:           make(map[LaneID]*Lane),
		Roads:           make(map[RoadID]*Road),
		Intersections:   make(map[IntersectionID]*Intersection),
		Buildings:       make(map[BuildingID]*Building),
		BusStops:        make(map[BusStopID]*BusStop),
		BusRoutes:       make(map[BusRouteID]*BusRoute),
		stableRoadToID:  make(map[rawmap.StableRoadID]RoadID),
		stableInterToID: make(map[rawmap.StableIntersectionID]IntersectionID),
	}
}

func (m *Map) GetLane(id LaneID) (*Lane, bool) {
	l, ok := m.Lanes[id]
	return l, ok
}

func (m *Map) GetLaneOrError(id LaneID) (*Lane, error) {
	l, ok := m.Lanes[id]
	if !ok {
		return nil, &NotFoundError{Kind: "lane", ID: int(id)}
	}
	return l, nil
}

func (m *Map) GetIntersection(id IntersectionID) (*Intersection, bool) {
	i, ok := m.Intersections[id]
	return i, ok
}

func (m *Map) GetIntersectionOrError(id IntersectionID) (*Intersection, error) {
	i, ok := m.Intersections[id]
	if !ok {
		return nil, &NotFoundError{Kind: "intersection", ID: int(id)}
	}
	return i, nil
}

// NotFoundError reports a dense-ID lookup miss, which after a successful
// cook should never happen on IDs the caller got back from this package.
type NotFoundError struct {
	Kind string
	ID   int
}

func (e *NotFoundError) Error() string {
	return "mapmodel: " + e.Kind + " not found by dense id"
}
