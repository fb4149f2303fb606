package sim_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvbv/abstreet/sim"
)

func twoTripBlock(dep float64) sim.ScheduleBlock {
	return sim.ScheduleBlock{
		DepartureTime: &dep,
		Trips: []sim.ScheduleTrip{
			{Legs: []sim.TripLeg{{Kind: sim.LegWalk}}},
			{Legs: []sim.TripLeg{{Kind: sim.LegDrive}}},
		},
	}
}

func TestScheduleWalksThroughSingleBlock(t *testing.T) {
	dep := 100.0
	sched := sim.NewSchedule([]sim.ScheduleBlock{twoTripBlock(dep)})

	assert.False(t, sched.Empty())
	first := sched.GetTrip()
	assert.NotNil(t, first)
	assert.Equal(t, sim.LegWalk, first.Legs[0].Kind)
	assert.InDelta(t, dep, sched.GetDepartureTime(), 1e-9)

	assert.True(t, sched.NextTrip(150))
	second := sched.GetTrip()
	assert.NotNil(t, second)
	assert.Equal(t, sim.LegDrive, second.Legs[0].Kind)

	assert.False(t, sched.NextTrip(200))
	assert.True(t, sched.Empty())
	assert.Nil(t, sched.GetTrip())
	assert.True(t, math.IsInf(sched.GetDepartureTime(), 1))
}

func TestScheduleWaitTimeAnchorsOnPreviousTripEnd(t *testing.T) {
	wait := 30.0
	block := sim.ScheduleBlock{
		WaitTime: &wait,
		Trips: []sim.ScheduleTrip{
			{Legs: []sim.TripLeg{{Kind: sim.LegWalk}}},
			{Legs: []sim.TripLeg{{Kind: sim.LegWalk}}},
		},
	}
	sched := sim.NewSchedule([]sim.ScheduleBlock{block})

	// no DepartureTime set: departure is lastTripEndTime (0) + WaitTime
	assert.InDelta(t, 30.0, sched.GetDepartureTime(), 1e-9)

	sched.NextTrip(500)
	assert.InDelta(t, 530.0, sched.GetDepartureTime(), 1e-9)
}

func TestScheduleLoopsBlockBeforeAdvancing(t *testing.T) {
	block := sim.ScheduleBlock{
		LoopCount: 2,
		Trips: []sim.ScheduleTrip{
			{Legs: []sim.TripLeg{{Kind: sim.LegWalk}}},
		},
	}
	sched := sim.NewSchedule([]sim.ScheduleBlock{block})

	assert.NotNil(t, sched.GetTrip())
	assert.True(t, sched.NextTrip(10)) // loop 1 -> loop 2 of the same block
	assert.NotNil(t, sched.GetTrip())
	assert.False(t, sched.NextTrip(20)) // loop 2 done, no further blocks
	assert.True(t, sched.Empty())
}

func TestScheduleAdvancesAcrossBlocks(t *testing.T) {
	dep2 := 1000.0
	blocks := []sim.ScheduleBlock{
		{Trips: []sim.ScheduleTrip{{Legs: []sim.TripLeg{{Kind: sim.LegWalk}}}}},
		{DepartureTime: &dep2, Trips: []sim.ScheduleTrip{{Legs: []sim.TripLeg{{Kind: sim.LegDrive}}}}},
	}
	sched := sim.NewSchedule(blocks)

	assert.True(t, sched.NextTrip(5))
	second := sched.GetTrip()
	assert.NotNil(t, second)
	assert.Equal(t, sim.LegDrive, second.Legs[0].Kind)
	assert.InDelta(t, dep2, sched.GetDepartureTime(), 1e-9)
}
