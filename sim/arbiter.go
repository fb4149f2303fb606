// Package sim implements the discrete-event intersection arbiter and
// trip manager that drive a cooked map at simulation time (§4.5, §4.6).
package sim

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/vvbv/abstreet/mapmodel"
)

var log = logrus.WithField("module", "sim")

// WaitAtStopSign is how long a vehicle holds a stop-sign intersection
// before it's eligible to go, even with no conflicting traffic.
const WaitAtStopSign = 0.5 // seconds

// AgentID identifies whichever car or pedestrian is making a turn
// request; sim doesn't need to know which, only that requests from the
// same agent never conflict with themselves.
type AgentID int64

// Request is one agent's claim on one turn.
type Request struct {
	Agent AgentID
	Turn  mapmodel.TurnID
}

// intersectionState is the accepted/waiting bookkeeping for a single
// intersection, matching the "accepted set + waiting set with arrival
// time" shape used by every policy.
type intersectionState struct {
	id       mapmodel.IntersectionID
	accepted map[Request]bool
	waiting  map[Request]float64 // request -> time first requested
}

// Arbiter owns per-intersection turn state for the whole map and
// decides, policy by policy, whether a waiting request may proceed.
type Arbiter struct {
	m       *mapmodel.Map
	states  map[mapmodel.IntersectionID]*intersectionState
	signals map[mapmodel.IntersectionID]*TrafficSignal
	signs   map[mapmodel.IntersectionID]*StopSignPriority
	strict  bool // stored from NewArbiter; freeformPolicy is strict whatever its value
}

// NewArbiter builds one state entry per intersection and a default
// control structure (stop-sign priority by turn kind, or the two-phase
// NewDefaultTrafficSignal cycle) for each stop-sign or signalized one.
func NewArbiter(m *mapmodel.Map, strictFreeform bool) *Arbiter {
	a := &Arbiter{
		m:       m,
		states:  make(map[mapmodel.IntersectionID]*intersectionState),
		signals: make(map[mapmodel.IntersectionID]*TrafficSignal),
		signs:   make(map[mapmodel.IntersectionID]*StopSignPriority),
		strict:  strictFreeform,
	}
	for id, i := range m.Intersections {
		a.states[id] = &intersectionState{id: id, accepted: make(map[Request]bool), waiting: make(map[Request]float64)}
		switch i.Control {
		case mapmodel.ControlTrafficSignal:
			a.signals[id] = NewDefaultTrafficSignal(i)
		case mapmodel.ControlStopSign:
			a.signs[id] = NewDefaultStopSignPriority(i)
		}
	}
	return a
}

// anyAcceptedConflictWith reports whether any currently-accepted turn
// at req's intersection conflicts with req's turn.
func (a *Arbiter) anyAcceptedConflictWith(st *intersectionState, turnID mapmodel.TurnID) bool {
	i := a.m.Intersections[st.id]
	turn, ok := i.Turns[turnID]
	if !ok {
		return false
	}
	for req := range st.accepted {
		if other, ok := i.Turns[req.Turn]; ok && turn.ConflictsWith(other) {
			return true
		}
	}
	return false
}

// Scheduler is the minimal callback surface the arbiter needs from the
// event loop: schedule a wakeup for an agent at (or no earlier than) a
// given time.
type Scheduler interface {
	WakeAgentAt(t float64, agent AgentID)
}

// MaybeStartTurn is called when agent is at the head of its lane,
// ready to make turnID. Returning true means the agent must start the
// turn now; false means it must wait for a scheduled wakeup.
func (a *Arbiter) MaybeStartTurn(agent AgentID, turnID mapmodel.TurnID, now float64, sched Scheduler) bool {
	req := Request{Agent: agent, Turn: turnID}
	st := a.states[turnID.Parent]
	if _, already := st.waiting[req]; !already {
		st.waiting[req] = now
	}

	i := a.m.Intersections[turnID.Parent]
	var allowed bool
	switch i.Control {
	case mapmodel.ControlTrafficSignal:
		allowed = a.trafficSignalPolicy(st, a.signals[turnID.Parent], req, now)
	case mapmodel.ControlStopSign:
		allowed = a.stopSignPolicy(st, a.signs[turnID.Parent], req, now, sched)
	default:
		allowed = a.freeformPolicy(st, req)
	}

	if !allowed {
		return false
	}
	delete(st.waiting, req)
	st.accepted[req] = true
	return true
}

// TurnFinished releases an accepted turn and wakes every other agent
// waiting at the same intersection, since a freed slot might now let
// one of them through.
func (a *Arbiter) TurnFinished(now float64, agent AgentID, turnID mapmodel.TurnID, sched Scheduler) {
	st := a.states[turnID.Parent]
	req := Request{Agent: agent, Turn: turnID}
	if !st.accepted[req] {
		log.Warnf("sim: TurnFinished for a request that wasn't accepted: %+v", req)
	}
	delete(st.accepted, req)
	for r := range st.waiting {
		sched.WakeAgentAt(now, r.Agent)
	}
}

func (a *Arbiter) freeformPolicy(st *intersectionState, req Request) bool {
	return !a.anyAcceptedConflictWith(st, req.Turn)
}

// StopSignPriority assigns every turn at a stop-controlled intersection
// a rank; higher-ranked turns (e.g. the uncontrolled major road) always
// win over lower-ranked ones once both have waited past WaitAtStopSign.
type StopSignPriority struct {
	rank map[mapmodel.TurnID]int
}

// NewDefaultStopSignPriority ranks turns by kind: straight-through
// movements rank highest, right turns next, and every other kind
// lowest, a reasonable default absent real sign-placement
// data (§4.5's Open Question: stop-sign ranks come from turn geometry
// when no authoritative all-way/2-way designation is available).
func NewDefaultStopSignPriority(i *mapmodel.Intersection) *StopSignPriority {
	sp := &StopSignPriority{rank: make(map[mapmodel.TurnID]int)}
	for id, t := range i.Turns {
		switch t.Kind {
		case mapmodel.TurnStraight:
			sp.rank[id] = 2
		case mapmodel.TurnRight:
			sp.rank[id] = 1
		default:
			sp.rank[id] = 0
		}
	}
	return sp
}

func (a *Arbiter) stopSignPolicy(st *intersectionState, sp *StopSignPriority, req Request, now float64, sched Scheduler) bool {
	if a.anyAcceptedConflictWith(st, req.Turn) {
		return false
	}
	ourPriority := sp.rank[req.Turn]
	ourTime := st.waiting[req]

	if now < ourTime+WaitAtStopSign {
		sched.WakeAgentAt(ourTime+WaitAtStopSign, req.Agent)
		return false
	}

	for r, t := range st.waiting {
		if r == req {
			continue
		}
		if sp.rank[r.Turn] > ourPriority {
			return false
		}
		if sp.rank[r.Turn] == ourPriority && t < ourTime {
			return false
		}
	}
	return true
}

func (a *Arbiter) trafficSignalPolicy(st *intersectionState, sig *TrafficSignal, req Request, now float64) bool {
	cycle := sig.CurrentPhase(now)
	for r := range st.accepted {
		if cycle.Priority(r.Turn) == TurnBanned {
			return false
		}
	}
	if cycle.Priority(req.Turn) == TurnBanned {
		return false
	}
	if a.anyAcceptedConflictWith(st, req.Turn) {
		return false
	}
	if cycle.Priority(req.Turn) == TurnYield {
		i := a.m.Intersections[req.Turn.Parent]
		turn := i.Turns[req.Turn]
		for r := range st.waiting {
			if r == req {
				continue
			}
			if other, ok := i.Turns[r.Turn]; ok && turn.ConflictsWith(other) && cycle.Priority(r.Turn) == TurnPriorityHigh {
				return false
			}
		}
	}
	return true
}

// sortedTurnIDs is a small helper the signal phase builder uses to get
// a deterministic iteration order when it needs one.
func sortedTurnIDs(i *mapmodel.Intersection) []mapmodel.TurnID {
	out := make([]mapmodel.TurnID, 0, len(i.Turns))
	for id := range i.Turns {
		out = append(out, id)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].From != out[b].From {
			return out[a].From < out[b].From
		}
		return out[a].To < out[b].To
	})
	return out
}
