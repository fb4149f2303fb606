package sim

import (
	"github.com/vvbv/abstreet/mapmodel"
	"github.com/vvbv/abstreet/utils/container"
)

// CommandKind tags a scheduled event (§5: "dispatch by tag, not by
// subclassing").
type CommandKind int

const (
	CmdUpdateAgent CommandKind = iota
	CmdUpdateIntersection
	CmdSpawnTrip
)

// Command is one scheduled event; only the fields relevant to Kind are set.
type Command struct {
	Kind         CommandKind
	Agent        AgentID
	Intersection mapmodel.IntersectionID
	Trip         TripID
}

// EventLoop is the discrete-event scheduler: a min-heap over (time,
// tiebreaker) ordered events, matching the teacher's generic priority
// queue adapted here so two events at the same timestamp still process
// in the order they were scheduled (§5).
type EventLoop struct {
	queue   *container.PriorityQueue[Command]
	now     float64
	counter float64
}

func NewEventLoop() *EventLoop {
	return &EventLoop{queue: container.NewPriorityQueue[Command]()}
}

// priorityKey packs (time, insertion order) into one float64: time
// dominates the comparison, and the fractional tiebreaker can't grow
// large enough to cross into the next time's integer part for any
// realistic run length.
func (e *EventLoop) priorityKey(t float64) float64 {
	e.counter++
	return t*1e6 + mod(e.counter, 1e6)
}

// Push schedules cmd to run at time t (t >= e.now).
func (e *EventLoop) Push(t float64, cmd Command) {
	e.queue.Push(cmd, e.priorityKey(t))
}

// WakeAgentAt implements the Scheduler interface the arbiter needs,
// translating a raw wakeup time into an UpdateAgent command.
func (e *EventLoop) WakeAgentAt(t float64, agent AgentID) {
	e.Push(t, Command{Kind: CmdUpdateAgent, Agent: agent})
}

func (e *EventLoop) Now() float64 { return e.now }

// Run drains the queue up to (and including) untilSeconds, invoking
// dispatch for every command in timestamp order.
func (e *EventLoop) Run(untilSeconds float64, dispatch func(now float64, cmd Command)) {
	for e.queue.Len() > 0 {
		cmd, key := e.queue.Pop()
		t := key / 1e6
		if t > untilSeconds {
			e.queue.Push(cmd, key) // put it back; caller may resume later
			break
		}
		e.now = t
		dispatch(e.now, cmd)
	}
}
