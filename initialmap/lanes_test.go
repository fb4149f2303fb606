package initialmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvbv/abstreet/initialmap"
	"github.com/vvbv/abstreet/rawmap"
)

func countDir(lanes []initialmap.LaneSpec, typ initialmap.LaneType, dir initialmap.Direction) int {
	n := 0
	for _, l := range lanes {
		if l.Type == typ && l.Direction == dir {
			n++
		}
	}
	return n
}

func TestClassifyLanesPlainTwoWayRoadGetsOneDrivingLaneEachDirection(t *testing.T) {
	lanes := initialmap.ClassifyLanes(rawmap.Tags{})
	assert.Equal(t, 1, countDir(lanes, initialmap.LaneDriving, initialmap.Forward))
	assert.Equal(t, 1, countDir(lanes, initialmap.LaneDriving, initialmap.Back))
	assert.Equal(t, 1, countDir(lanes, initialmap.LaneSidewalk, initialmap.Forward))
	assert.Equal(t, 1, countDir(lanes, initialmap.LaneSidewalk, initialmap.Back))
}

func TestClassifyLanesOnewayHasNoBackDrivingLane(t *testing.T) {
	lanes := initialmap.ClassifyLanes(rawmap.Tags{"oneway": "yes"})
	assert.Equal(t, 1, countDir(lanes, initialmap.LaneDriving, initialmap.Forward))
	assert.Equal(t, 0, countDir(lanes, initialmap.LaneDriving, initialmap.Back))
}

func TestClassifyLanesSplitsExplicitLaneCountOneway(t *testing.T) {
	lanes := initialmap.ClassifyLanes(rawmap.Tags{"oneway": "yes", "lanes": "3"})
	assert.Equal(t, 3, countDir(lanes, initialmap.LaneDriving, initialmap.Forward))
}

func TestClassifyLanesSplitsExplicitLaneCountTwoWay(t *testing.T) {
	lanes := initialmap.ClassifyLanes(rawmap.Tags{"lanes": "3"})
	assert.Equal(t, 2, countDir(lanes, initialmap.LaneDriving, initialmap.Forward))
	assert.Equal(t, 1, countDir(lanes, initialmap.LaneDriving, initialmap.Back))
}

func TestClassifyLanesNoSidewalkTagDropsBoth(t *testing.T) {
	lanes := initialmap.ClassifyLanes(rawmap.Tags{"sidewalk": "none"})
	assert.Equal(t, 0, countDir(lanes, initialmap.LaneSidewalk, initialmap.Forward))
	assert.Equal(t, 0, countDir(lanes, initialmap.LaneSidewalk, initialmap.Back))
}

func TestClassifyLanesSidewalkRightOnlyDropsLeft(t *testing.T) {
	lanes := initialmap.ClassifyLanes(rawmap.Tags{"sidewalk": "right"})
	assert.Equal(t, 0, countDir(lanes, initialmap.LaneSidewalk, initialmap.Back))
	assert.Equal(t, 1, countDir(lanes, initialmap.LaneSidewalk, initialmap.Forward))
}

func TestClassifyLanesCyclewayAddsBikingBothSides(t *testing.T) {
	lanes := initialmap.ClassifyLanes(rawmap.Tags{"cycleway": "lane"})
	assert.Equal(t, 1, countDir(lanes, initialmap.LaneBiking, initialmap.Forward))
	assert.Equal(t, 1, countDir(lanes, initialmap.LaneBiking, initialmap.Back))
}

func TestClassifyLanesParkingTagAddsParkingLane(t *testing.T) {
	lanes := initialmap.ClassifyLanes(rawmap.Tags{"parking:right": "parallel"})
	assert.Equal(t, 1, countDir(lanes, initialmap.LaneParking, initialmap.Forward))
}

func TestClassifyLanesBusRouteUpgradesOuterDrivingLanes(t *testing.T) {
	lanes := initialmap.ClassifyLanes(rawmap.Tags{"route": "bus"})
	assert.Equal(t, 1, countDir(lanes, initialmap.LaneBus, initialmap.Forward))
	assert.Equal(t, 1, countDir(lanes, initialmap.LaneBus, initialmap.Back))
	assert.Equal(t, 0, countDir(lanes, initialmap.LaneDriving, initialmap.Forward))
	assert.Equal(t, 0, countDir(lanes, initialmap.LaneDriving, initialmap.Back))
}
