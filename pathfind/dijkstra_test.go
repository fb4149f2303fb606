package pathfind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvbv/abstreet/mapmodel"
	"github.com/vvbv/abstreet/pathfind"
)

func TestShortestPathFindsCheapestRoute(t *testing.T) {
	g := &pathfind.Graph{Out: map[pathfind.Node][]pathfind.Edge{
		1: {{To: 2, Weight: 10, Lane: 1}, {To: 3, Weight: 1, Lane: 2}},
		3: {{To: 2, Weight: 1, Lane: 3}},
	}}

	edges, cost, ok := pathfind.ShortestPath(g, 1, 2)
	assert.True(t, ok)
	assert.Equal(t, 2, cost)
	assert.Equal(t, []mapmodel.LaneID{2, 3}, []mapmodel.LaneID{edges[0].Lane, edges[1].Lane})
}

func TestShortestPathSourceEqualsDestination(t *testing.T) {
	g := &pathfind.Graph{Out: map[pathfind.Node][]pathfind.Edge{}}
	edges, cost, ok := pathfind.ShortestPath(g, 1, 1)
	assert.True(t, ok)
	assert.Equal(t, 0, cost)
	assert.Empty(t, edges)
}

func TestShortestPathNoRouteReturnsFalse(t *testing.T) {
	g := &pathfind.Graph{Out: map[pathfind.Node][]pathfind.Edge{
		1: {{To: 2, Weight: 1, Lane: 1}},
	}}
	_, _, ok := pathfind.ShortestPath(g, 3, 4)
	assert.False(t, ok)
}
