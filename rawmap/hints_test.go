package rawmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvbv/abstreet/geom"
	"github.com/vvbv/abstreet/rawmap"
)

func twoRoadMap() *rawmap.Map {
	m := rawmap.NewMap()
	m.Intersections[1] = &rawmap.Intersection{ID: 1, Point: geom.Pt2D{X: 0, Y: 0}}
	m.Intersections[2] = &rawmap.Intersection{ID: 2, Point: geom.Pt2D{X: 10, Y: 0}}
	m.Intersections[3] = &rawmap.Intersection{ID: 3, Point: geom.Pt2D{X: 20, Y: 0}}
	m.Roads[1] = &rawmap.Road{ID: 1, I1: 1, I2: 2, Points: []geom.Pt2D{{X: 0, Y: 0}, {X: 10, Y: 0}}}
	m.Roads[2] = &rawmap.Road{ID: 2, I1: 2, I2: 3, Points: []geom.Pt2D{{X: 10, Y: 0}, {X: 20, Y: 0}}}
	return m
}

func TestApplyHintsDeleteRoad(t *testing.T) {
	m := twoRoadMap()
	res := rawmap.ApplyHints(m, []rawmap.Hint{{Kind: rawmap.HintDeleteRoad, Road: 1}})
	assert.Len(t, res.Applied, 1)
	assert.True(t, m.Roads[1].Deleted)
}

func TestApplyHintsDeleteRoadTwiceSkipsSecond(t *testing.T) {
	m := twoRoadMap()
	hints := []rawmap.Hint{
		{Kind: rawmap.HintDeleteRoad, Road: 1},
		{Kind: rawmap.HintDeleteRoad, Road: 1},
	}
	res := rawmap.ApplyHints(m, hints)
	assert.Len(t, res.Applied, 1)
	assert.Len(t, res.Skipped, 1)
}

func TestApplyHintsMergeRoadRepointsOtherRoads(t *testing.T) {
	m := twoRoadMap()
	res := rawmap.ApplyHints(m, []rawmap.Hint{{Kind: rawmap.HintMergeRoad, Road: 1}})
	assert.Len(t, res.Applied, 1)
	assert.True(t, m.Roads[1].Deleted)
	_, stillThere := m.Intersections[2]
	assert.False(t, stillThere)
	assert.Equal(t, rawmap.StableIntersectionID(1), m.Roads[2].I1)
}

func TestApplyHintsMergeDegenerateIntersection(t *testing.T) {
	m := twoRoadMap()
	res := rawmap.ApplyHints(m, []rawmap.Hint{{Kind: rawmap.HintMergeDegenerateIntersection, Intersection: 2}})
	assert.Len(t, res.Applied, 1)
	_, stillThere := m.Intersections[2]
	assert.False(t, stillThere)
	assert.True(t, m.Roads[2].Deleted)
	assert.Equal(t, rawmap.StableIntersectionID(3), m.Roads[1].I2)
	// merged road's points should span both original segments
	assert.Len(t, m.Roads[1].Points, 3)
}

func TestApplyHintsUnknownStableIDSkips(t *testing.T) {
	m := twoRoadMap()
	res := rawmap.ApplyHints(m, []rawmap.Hint{{Kind: rawmap.HintDeleteRoad, Road: 999}})
	assert.Empty(t, res.Applied)
	assert.Len(t, res.Skipped, 1)
}

func TestRoadsAtExcludesDeleted(t *testing.T) {
	m := twoRoadMap()
	m.Roads[1].Deleted = true
	roads := m.RoadsAt(1)
	assert.Empty(t, roads)
	roads = m.RoadsAt(2)
	assert.Len(t, roads, 1)
}

func TestOtherEndPanicsOnNonIncidentRoad(t *testing.T) {
	m := twoRoadMap()
	assert.Panics(t, func() { m.Roads[1].OtherEnd(99) })
}
