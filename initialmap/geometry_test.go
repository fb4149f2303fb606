package initialmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvbv/abstreet/geom"
	"github.com/vvbv/abstreet/initialmap"
	"github.com/vvbv/abstreet/rawmap"
)

// deadEndMap builds the minimal two-node, one-edge graph Phase F's
// dead-end branch handles: both endpoints have exactly one incident
// road, so both are trimmed back by the dead-end constant.
func deadEndMap(length float64) *rawmap.Map {
	m := rawmap.NewMap()
	m.Intersections[1] = &rawmap.Intersection{ID: 1, Point: geom.Pt2D{X: 0, Y: 0}}
	m.Intersections[2] = &rawmap.Intersection{ID: 2, Point: geom.Pt2D{X: length, Y: 0}}
	m.Roads[1] = &rawmap.Road{
		ID:     1,
		I1:     1,
		I2:     2,
		Points: []geom.Pt2D{{X: 0, Y: 0}, {X: length, Y: 0}},
	}
	return m
}

func TestTrimAndPolygonTrimsBothDeadEndsByTheDeadEndConstant(t *testing.T) {
	const length = 100.0
	m := deadEndMap(length)
	halfWidths := map[rawmap.StableRoadID]float64{1: 2.0}

	trimmed, polys := initialmap.TrimAndPolygon(m, halfWidths)

	road := trimmed[1]
	assert.NotNil(t, road)
	// both ends are single-road (dead-end) intersections, so the total
	// reduction is twice the dead-end constant (§4.1 Phase F.3).
	assert.InDelta(t, length-2*10.0, road.Center.Length(), 1e-6)

	for _, iid := range []rawmap.StableIntersectionID{1, 2} {
		poly, ok := polys[iid]
		assert.True(t, ok)
		// 4 corner points plus the closing duplicate of the first (§8
		// scenario 2: "a 4-vertex polygon").
		assert.Len(t, poly.Polygon.Points(), 5)
	}
}

func TestTrimAndPolygonDeadEndFallsBackToDegenerateStubOnShortRoad(t *testing.T) {
	// a road shorter than the dead-end constant can't be trimmed back
	// the full distance; the implementation clamps to a quarter of its
	// own length instead of going negative.
	const length = 2.0
	m := deadEndMap(length)
	halfWidths := map[rawmap.StableRoadID]float64{1: 1.0}

	trimmed, polys := initialmap.TrimAndPolygon(m, halfWidths)

	road := trimmed[1]
	assert.NotNil(t, road)
	assert.GreaterOrEqual(t, road.Center.Length(), 0.0)
	assert.LessOrEqual(t, road.Center.Length(), length)

	poly, ok := polys[1]
	assert.True(t, ok)
	assert.Len(t, poly.Polygon.Points(), 5)
}
