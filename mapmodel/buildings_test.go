package mapmodel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvbv/abstreet/geom"
	"github.com/vvbv/abstreet/mapmodel"
	"github.com/vvbv/abstreet/rawmap"
)

func TestCookBuildingsSnapsToNearestSidewalk(t *testing.T) {
	m := &mapmodel.Map{
		Lanes: map[mapmodel.LaneID]*mapmodel.Lane{
			1: {ID: 1, Type: mapmodel.LaneSidewalk, Center: geom.NewPolyLine([]geom.Pt2D{{X: 0, Y: 0}, {X: 100, Y: 0}})},
			2: {ID: 2, Type: mapmodel.LaneDriving, Center: geom.NewPolyLine([]geom.Pt2D{{X: 0, Y: 50}, {X: 100, Y: 50}})},
		},
		Buildings: map[mapmodel.BuildingID]*mapmodel.Building{},
	}
	raw := &rawmap.Map{
		Buildings: []*rawmap.Building{
			{ID: 7, Points: []geom.Pt2D{{X: 10, Y: 2}, {X: 12, Y: 2}, {X: 12, Y: 4}, {X: 10, Y: 4}}, Address: "1 Main St", NumUnits: 3},
		},
	}

	mapmodel.CookBuildings(m, raw)

	got := m.Buildings[1]
	assert.NotNil(t, got)
	assert.Equal(t, rawmap.StableBuildingID(7), got.Stable)
	assert.Equal(t, "1 Main St", got.Address)
	assert.Equal(t, 3, got.NumUnits)
	assert.Equal(t, mapmodel.LaneID(1), got.NearestSidewalk)
	assert.InDelta(t, 11.0, got.DistAlong, 1e-6)
}

func TestCookBuildingsLeavesNearestSidewalkZeroWithNoSidewalks(t *testing.T) {
	m := &mapmodel.Map{
		Lanes:     map[mapmodel.LaneID]*mapmodel.Lane{},
		Buildings: map[mapmodel.BuildingID]*mapmodel.Building{},
	}
	raw := &rawmap.Map{
		Buildings: []*rawmap.Building{
			{ID: 1, Points: []geom.Pt2D{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}},
		},
	}

	mapmodel.CookBuildings(m, raw)

	b := m.Buildings[1]
	assert.NotNil(t, b)
	assert.Equal(t, mapmodel.LaneID(0), b.NearestSidewalk)
}
