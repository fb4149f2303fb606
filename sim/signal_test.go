package sim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvbv/abstreet/geom"
	"github.com/vvbv/abstreet/mapmodel"
	"github.com/vvbv/abstreet/sim"
)

func TestNewDefaultTrafficSignalSplitsConflictingTurnsAcrossPhases(t *testing.T) {
	parent := mapmodel.IntersectionID(1)
	t1, t2, turns := crossingTurns(parent)
	i := &mapmodel.Intersection{ID: parent, Control: mapmodel.ControlTrafficSignal, Turns: turns}

	sig := sim.NewDefaultTrafficSignal(i)

	p1 := sig.CurrentPhase(0)
	assert.NotEqual(t, p1.Priority(t1), p1.Priority(t2))
}

func TestNewDefaultTrafficSignalNeverBansCrosswalks(t *testing.T) {
	parent := mapmodel.IntersectionID(1)
	t1, t2, turns := crossingTurns(parent)
	walk := mapmodel.TurnID{Parent: parent, From: 5, To: 6}
	turns[walk] = &mapmodel.Turn{ID: walk, Kind: mapmodel.TurnCrosswalk, Geom: geom.NewPolyLine([]geom.Pt2D{{X: 0, Y: 0}, {X: 1, Y: 1}})}
	i := &mapmodel.Intersection{ID: parent, Control: mapmodel.ControlTrafficSignal, Turns: turns}

	sig := sim.NewDefaultTrafficSignal(i)

	p1 := sig.CurrentPhase(0)
	p2 := sig.CurrentPhase(31)
	assert.Equal(t, sim.TurnYield, p1.Priority(walk))
	assert.Equal(t, sim.TurnYield, p2.Priority(walk))
	assert.NotEqual(t, t1, walk)
	assert.NotEqual(t, t2, walk)
}

func TestTrafficSignalCurrentPhaseCyclesOnTime(t *testing.T) {
	parent := mapmodel.IntersectionID(1)
	_, _, turns := crossingTurns(parent)
	i := &mapmodel.Intersection{ID: parent, Control: mapmodel.ControlTrafficSignal, Turns: turns}
	sig := sim.NewDefaultTrafficSignal(i)

	first := sig.CurrentPhase(0)
	second := sig.CurrentPhase(31)
	wrapped := sig.CurrentPhase(60)

	assert.NotSame(t, first, second)
	assert.Same(t, first, wrapped)
}
