package mapmodel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvbv/abstreet/geom"
	"github.com/vvbv/abstreet/initialmap"
	"github.com/vvbv/abstreet/mapmodel"
	"github.com/vvbv/abstreet/rawmap"
)

func twoIntersectionResult() initialmap.Result {
	raw := rawmap.NewMap()
	raw.Intersections[1] = &rawmap.Intersection{ID: 1, Point: geom.Pt2D{X: 0, Y: 0}, Type: rawmap.IntersectionBorder}
	raw.Intersections[2] = &rawmap.Intersection{ID: 2, Point: geom.Pt2D{X: 100, Y: 0}, Type: rawmap.IntersectionBorder}
	raw.Roads[1] = &rawmap.Road{ID: 1, I1: 1, I2: 2, Points: []geom.Pt2D{{X: 0, Y: 0}, {X: 100, Y: 0}}}

	center := geom.NewPolyLine([]geom.Pt2D{{X: 0, Y: 0}, {X: 100, Y: 0}})
	return initialmap.Result{
		Raw: raw,
		Lanes: map[rawmap.StableRoadID][]initialmap.LaneSpec{
			1: {
				{Type: initialmap.LaneDriving, Direction: initialmap.Forward, Width: 3.0},
				{Type: initialmap.LaneDriving, Direction: initialmap.Back, Width: 3.0},
			},
		},
		Trimmed: map[rawmap.StableRoadID]*initialmap.TrimmedRoad{
			1: {ID: 1, HalfWidth: 3.0, Center: center},
		},
		Polygons: map[rawmap.StableIntersectionID]*initialmap.IntersectionPolygon{},
	}
}

func TestCookAssignsDenseIDsAndGeneratesLanes(t *testing.T) {
	m := mapmodel.Cook(twoIntersectionResult())

	assert.Len(t, m.Intersections, 2)
	assert.Len(t, m.Lanes, 2)
	assert.Len(t, m.Roads, 1)

	road := m.Roads[1]
	assert.Len(t, road.Lanes, 2)

	forward := m.Lanes[road.Lanes[0]]
	backward := m.Lanes[road.Lanes[1]]
	assert.NotEqual(t, forward.Src, backward.Src)
	assert.Equal(t, forward.Src, backward.Dst)
}

func TestCookAssignsBorderControlForDeadEnds(t *testing.T) {
	m := mapmodel.Cook(twoIntersectionResult())
	for _, i := range m.Intersections {
		assert.Equal(t, mapmodel.ControlBorder, i.Control)
	}
}
