package sim

import "github.com/vvbv/abstreet/mapmodel"

// TurnPriorityLevel is how a traffic-signal phase treats one turn: it
// may proceed outright (Priority), proceed but yield to a conflicting
// Priority turn (Yield), or may not proceed at all (Banned) (§4.5).
type TurnPriorityLevel int

const (
	TurnBanned TurnPriorityLevel = iota
	TurnYield
	TurnPriorityHigh
)

// Phase is one fixed-duration slice of a signal's cycle: the priority
// level every turn at the intersection holds during it.
type Phase struct {
	DurationSeconds float64
	priority        map[mapmodel.TurnID]TurnPriorityLevel
}

func (p *Phase) Priority(t mapmodel.TurnID) TurnPriorityLevel {
	return p.priority[t]
}

// TrafficSignal is a fixed-cycle sequence of phases; CurrentPhase maps
// a simulation time onto whichever phase the cycle is in then, using
// simple modular arithmetic since the cycle never changes at runtime.
type TrafficSignal struct {
	phases     []*Phase
	cycleTotal float64
}

// CurrentPhase returns the phase active at time t.
func (s *TrafficSignal) CurrentPhase(t float64) *Phase {
	if s.cycleTotal <= 0 {
		return s.phases[0]
	}
	offset := mod(t, s.cycleTotal)
	var acc float64
	for _, p := range s.phases {
		acc += p.DurationSeconds
		if offset < acc {
			return p
		}
	}
	return s.phases[len(s.phases)-1]
}

func mod(a, m float64) float64 {
	r := a - float64(int64(a/m))*m
	if r < 0 {
		r += m
	}
	return r
}

// NewDefaultTrafficSignal builds a two-phase cycle partitioning turns
// into two groups by a simple greedy coloring: phase 1 gets the first
// turn encountered and everything that doesn't conflict with anything
// already assigned to it, phase 2 gets the rest, which may still
// conflict with each other. This is
// the documented simplification for intersections without an
// authoritative real-world signal timing plan (§4.5 Open Question).
func NewDefaultTrafficSignal(i *mapmodel.Intersection) *TrafficSignal {
	ids := sortedTurnIDs(i)
	group1 := make(map[mapmodel.TurnID]bool)
	var group2 []mapmodel.TurnID

	for _, id := range ids {
		t := i.Turns[id]
		conflictsWithGroup1 := false
		for g := range group1 {
			if other, ok := i.Turns[g]; ok && t.ConflictsWith(other) {
				conflictsWithGroup1 = true
				break
			}
		}
		if !conflictsWithGroup1 {
			group1[id] = true
		} else {
			group2 = append(group2, id)
		}
	}

	phase1 := &Phase{DurationSeconds: 30, priority: make(map[mapmodel.TurnID]TurnPriorityLevel)}
	phase2 := &Phase{DurationSeconds: 30, priority: make(map[mapmodel.TurnID]TurnPriorityLevel)}
	for _, id := range ids {
		if group1[id] {
			phase1.priority[id] = TurnPriorityHigh
			phase2.priority[id] = TurnBanned
		} else {
			phase1.priority[id] = TurnBanned
			phase2.priority[id] = TurnPriorityHigh
		}
	}
	// crosswalks and shared corners never get banned: pedestrians cross
	// on every phase rather than waiting a full cycle.
	for _, id := range ids {
		t := i.Turns[id]
		if t.Kind == mapmodel.TurnCrosswalk || t.Kind == mapmodel.TurnSharedSidewalkCorner {
			phase1.priority[id] = TurnYield
			phase2.priority[id] = TurnYield
		}
	}

	return &TrafficSignal{phases: []*Phase{phase1, phase2}, cycleTotal: phase1.DurationSeconds + phase2.DurationSeconds}
}
