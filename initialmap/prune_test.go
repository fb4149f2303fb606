package initialmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvbv/abstreet/geom"
	"github.com/vvbv/abstreet/initialmap"
	"github.com/vvbv/abstreet/rawmap"
)

func TestPruneDropsDisconnectedComponent(t *testing.T) {
	m := rawmap.NewMap()
	// main component: 1-2-3
	m.Intersections[1] = &rawmap.Intersection{ID: 1}
	m.Intersections[2] = &rawmap.Intersection{ID: 2}
	m.Intersections[3] = &rawmap.Intersection{ID: 3}
	m.Roads[1] = &rawmap.Road{ID: 1, I1: 1, I2: 2, Points: []geom.Pt2D{{X: 0, Y: 0}, {X: 1, Y: 0}}}
	m.Roads[2] = &rawmap.Road{ID: 2, I1: 2, I2: 3, Points: []geom.Pt2D{{X: 1, Y: 0}, {X: 2, Y: 0}}}

	// isolated pair: 4-5
	m.Intersections[4] = &rawmap.Intersection{ID: 4}
	m.Intersections[5] = &rawmap.Intersection{ID: 5}
	m.Roads[3] = &rawmap.Road{ID: 3, I1: 4, I2: 5, Points: []geom.Pt2D{{X: 100, Y: 0}, {X: 101, Y: 0}}}

	initialmap.Prune(m)

	assert.Len(t, m.Intersections, 3)
	assert.Len(t, m.Roads, 2)
	_, ok := m.Intersections[4]
	assert.False(t, ok)
}

func TestPruneNoOpOnSingleComponent(t *testing.T) {
	m := rawmap.NewMap()
	m.Intersections[1] = &rawmap.Intersection{ID: 1}
	m.Intersections[2] = &rawmap.Intersection{ID: 2}
	m.Roads[1] = &rawmap.Road{ID: 1, I1: 1, I2: 2, Points: []geom.Pt2D{{X: 0, Y: 0}, {X: 1, Y: 0}}}

	initialmap.Prune(m)

	assert.Len(t, m.Intersections, 2)
	assert.Len(t, m.Roads, 1)
}

func TestPruneIgnoresDeletedRoadsWhenBuildingAdjacency(t *testing.T) {
	m := rawmap.NewMap()
	m.Intersections[1] = &rawmap.Intersection{ID: 1}
	m.Intersections[2] = &rawmap.Intersection{ID: 2}
	m.Intersections[3] = &rawmap.Intersection{ID: 3}
	m.Roads[1] = &rawmap.Road{ID: 1, I1: 1, I2: 2, Points: []geom.Pt2D{{X: 0, Y: 0}, {X: 1, Y: 0}}}
	m.Roads[2] = &rawmap.Road{ID: 2, I1: 2, I2: 3, Points: []geom.Pt2D{{X: 1, Y: 0}, {X: 2, Y: 0}}, Deleted: true}

	initialmap.Prune(m)

	// intersection 3 is only reachable via the deleted road, so it's pruned
	assert.Len(t, m.Intersections, 2)
	_, ok := m.Intersections[3]
	assert.False(t, ok)
}
