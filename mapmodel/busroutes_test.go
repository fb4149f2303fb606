package mapmodel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvbv/abstreet/geom"
	"github.com/vvbv/abstreet/mapmodel"
)

func busRouteMap() *mapmodel.Map {
	return &mapmodel.Map{
		Lanes: map[mapmodel.LaneID]*mapmodel.Lane{
			1: {ID: 1, Type: mapmodel.LaneBus, Center: geom.NewPolyLine([]geom.Pt2D{{X: 0, Y: 0}, {X: 100, Y: 0}})},
			2: {ID: 2, Type: mapmodel.LaneDriving, Center: geom.NewPolyLine([]geom.Pt2D{{X: 0, Y: 50}, {X: 100, Y: 50}})},
		},
		BusStops:  map[mapmodel.BusStopID]*mapmodel.BusStop{},
		BusRoutes: map[mapmodel.BusRouteID]*mapmodel.BusRoute{},
	}
}

func TestCookBusRoutesSnapsToDedicatedBusLaneFirst(t *testing.T) {
	m := busRouteMap()
	stops := []mapmodel.GTFSStop{
		{ID: "s1", Name: "Stop 1", Point: geom.Pt2D{X: 10, Y: 1}},
		{ID: "s2", Name: "Stop 2", Point: geom.Pt2D{X: 90, Y: 1}},
	}
	routes := []mapmodel.GTFSRoute{
		{ID: "r1", Name: "Route 1", StopIDs: []string{"s1", "s2"}},
	}

	mapmodel.CookBusRoutes(m, stops, routes)

	assert.Len(t, m.BusStops, 2)
	for _, s := range m.BusStops {
		assert.Equal(t, mapmodel.LaneID(1), s.Lane)
	}
	assert.Len(t, m.BusRoutes, 1)
	assert.Len(t, m.BusRoutes[1].Stops, 2)
}

func TestCookBusRoutesDropsRouteWithFewerThanTwoResolvedStops(t *testing.T) {
	m := busRouteMap()
	stops := []mapmodel.GTFSStop{
		{ID: "s1", Name: "Stop 1", Point: geom.Pt2D{X: 10, Y: 1}},
	}
	routes := []mapmodel.GTFSRoute{
		{ID: "r1", Name: "Route 1", StopIDs: []string{"s1", "unknown"}},
	}

	mapmodel.CookBusRoutes(m, stops, routes)

	assert.Empty(t, m.BusRoutes)
}

func TestCookBusRoutesFallsBackToDrivingLaneWhenNoBusLanesExist(t *testing.T) {
	m := busRouteMap()
	delete(m.Lanes, 1)
	stops := []mapmodel.GTFSStop{
		{ID: "s1", Name: "Stop 1", Point: geom.Pt2D{X: 10, Y: 51}},
	}

	mapmodel.CookBusRoutes(m, stops, nil)

	assert.Len(t, m.BusStops, 1)
	for _, s := range m.BusStops {
		assert.Equal(t, mapmodel.LaneID(2), s.Lane)
	}
}
