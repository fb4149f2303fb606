package pathfind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvbv/abstreet/geom"
	"github.com/vvbv/abstreet/mapmodel"
	"github.com/vvbv/abstreet/pathfind"
)

func transitMap() *mapmodel.Map {
	return &mapmodel.Map{
		Lanes: map[mapmodel.LaneID]*mapmodel.Lane{
			1: {ID: 1, Type: mapmodel.LaneSidewalk, Src: 10, Dst: 11, Center: geom.NewPolyLine([]geom.Pt2D{{X: 0, Y: 0}, {X: 5, Y: 0}})},
			2: {ID: 2, Type: mapmodel.LaneSidewalk, Src: 20, Dst: 21, Center: geom.NewPolyLine([]geom.Pt2D{{X: 100, Y: 0}, {X: 105, Y: 0}})},
		},
		BusStops: map[mapmodel.BusStopID]*mapmodel.BusStop{
			1: {ID: 1, Lane: 1},
			2: {ID: 2, Lane: 2},
		},
		BusRoutes: map[mapmodel.BusRouteID]*mapmodel.BusRoute{
			1: {ID: 1, Name: "Route 1", Stops: []mapmodel.BusStopID{1, 2}},
		},
	}
}

func TestAugmentWithTransitAddsZeroWeightEdgeBetweenStops(t *testing.T) {
	m := transitMap()
	sidewalks := pathfind.BuildGraph(m, mapmodel.LaneSidewalk)

	pathfind.AugmentWithTransit(sidewalks, m)

	edges := sidewalks.Out[1]
	assert.Len(t, edges, 1)
	assert.Equal(t, pathfind.Node(2), edges[0].To)
	assert.Equal(t, 0, edges[0].Weight)
}

func TestAugmentWithTransitSkipsUnresolvedStops(t *testing.T) {
	m := transitMap()
	delete(m.BusStops, 2)
	sidewalks := pathfind.BuildGraph(m, mapmodel.LaneSidewalk)

	pathfind.AugmentWithTransit(sidewalks, m)

	assert.Empty(t, sidewalks.Out[1])
}

func TestShouldUseTransitRequiresMinimumSavings(t *testing.T) {
	assert.True(t, pathfind.ShouldUseTransit(1000, 400, 500))
	assert.False(t, pathfind.ShouldUseTransit(1000, 800, 500))
	assert.False(t, pathfind.ShouldUseTransit(1000, 1000, 0))
}
