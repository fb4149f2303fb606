package sim

import (
	"github.com/vvbv/abstreet/mapmodel"
	"github.com/vvbv/abstreet/pathfind"
)

// TripID identifies one trip from spawn to (attempted) completion.
type TripID int

// TripMode classifies a trip by its dominant leg, for reporting;
// "dominant" follows the same precedence the leg loop below applies.
type TripMode int

const (
	ModeWalk TripMode = iota
	ModeBike
	ModeTransit
	ModeDrive
)

// LegKind tags a TripLeg's event-table entry (§4.6: "dispatch the next
// leg by tag, not by subclassing different leg types").
type LegKind int

const (
	LegWalk LegKind = iota
	LegDrive
	LegRideBus
	LegServeBusRoute
)

// WalkPurpose distinguishes what a completed Walk leg was for. LegKind
// alone isn't enough to pick the right event-table row: walking to a
// parked car, walking to a bike rack, walking to a bus stop, and
// walking to the trip's actual destination all pop LegWalk but each
// triggers a different action (§4.6).
type WalkPurpose int

const (
	WalkFinal WalkPurpose = iota
	WalkToParking
	WalkToBikeRack
	WalkToBusStop
)

// DrivingGoalKind is the two shapes a Drive leg's destination can take
// (§4.6 glossary: "DrivingGoal ∈ {ParkNear(building), Border(intersection,
// lane-type)}").
type DrivingGoalKind int

const (
	GoalParkNear DrivingGoalKind = iota
	GoalBorder
)

// DrivingGoal is where a Drive leg (car or bike) is headed. Only the
// fields matching Kind are meaningful.
type DrivingGoal struct {
	Kind           DrivingGoalKind
	Building       mapmodel.BuildingID
	Border         mapmodel.IntersectionID
	BorderLaneType mapmodel.LaneType
}

// VehicleKind distinguishes a car Drive leg from a bike Drive leg; both
// pop the same way (park-or-border) but route over different families.
type VehicleKind int

const (
	VehicleCar VehicleKind = iota
	VehicleBike
)

// TripLeg is one stage of a trip. Fields not relevant to Kind are zero.
type TripLeg struct {
	Kind        LegKind
	WalkGoal    mapmodel.LaneID // sidewalk lane to walk to
	WalkDistCm  int
	WalkPurpose WalkPurpose // meaningful when Kind == LegWalk
	DriveGoal   DrivingGoal // meaningful when Kind == LegDrive
	Vehicle     VehicleKind // meaningful when Kind == LegDrive
	BusRoute    mapmodel.BusRouteID
	BusStop     mapmodel.BusStopID
}

// Trip is a spawned agent's full itinerary; legs are consumed front to
// back as each completes.
type Trip struct {
	ID         TripID
	SpawnedAt  float64
	FinishedAt *float64
	Mode       TripMode
	Legs       []TripLeg
	Aborted    bool
}

func (t *Trip) isBusTrip() bool {
	return len(t.Legs) == 1 && t.Legs[0].Kind == LegServeBusRoute
}

// TripManager owns every trip's lifecycle: spawn bookkeeping, the
// active-agent index, and the unfinished/bus-trip counters that the
// run's summary statistics are built from (§4.6).
type TripManager struct {
	trips           []*Trip
	activeTripMode  map[AgentID]TripID
	numBusTrips     int
	unfinishedTrips int

	// busPresent/waitingForBus implement §4.6 row 5/6's bus-stop
	// rendezvous: a ServeBusRoute agent arriving at a stop flips
	// busPresent and wakes everyone who was waiting there.
	busPresent    map[mapmodel.BusStopID]bool
	waitingForBus map[mapmodel.BusStopID][]AgentID
}

func NewTripManager() *TripManager {
	return &TripManager{
		activeTripMode: make(map[AgentID]TripID),
		busPresent:     make(map[mapmodel.BusStopID]bool),
		waitingForBus:  make(map[mapmodel.BusStopID][]AgentID),
	}
}

// NewTrip registers a trip and classifies its mode by the strongest
// leg kind present, in the same precedence order as the original: any
// Drive leg makes it a Drive trip, any RideBus/ServeBusRoute leg (absent
// a Drive leg) makes it Transit, otherwise it's a Walk trip.
func (tm *TripManager) NewTrip(spawnedAt float64, legs []TripLeg) TripID {
	if len(legs) == 0 {
		panic("sim: NewTrip: empty leg list")
	}
	mode := ModeWalk
	for _, l := range legs {
		switch l.Kind {
		case LegDrive:
			mode = ModeDrive
		case LegRideBus, LegServeBusRoute:
			if mode != ModeDrive {
				mode = ModeTransit
			}
		}
	}
	id := TripID(len(tm.trips))
	trip := &Trip{ID: id, SpawnedAt: spawnedAt, Mode: mode, Legs: legs}
	if !trip.isBusTrip() {
		tm.unfinishedTrips++
	}
	tm.trips = append(tm.trips, trip)
	return id
}

// AgentStartingTripLeg records which agent is now actively progressing
// a trip, so the next completion event can be routed back to it.
func (tm *TripManager) AgentStartingTripLeg(agent AgentID, trip TripID) {
	if _, already := tm.activeTripMode[agent]; already {
		panic("sim: AgentStartingTripLeg: agent already has an active trip")
	}
	tm.activeTripMode[agent] = trip
	if tm.trips[trip].isBusTrip() {
		tm.numBusTrips++
	}
}

// AdvanceLeg pops the completed leg off the front of the agent's trip,
// clears the agent's active-trip entry, and returns the legs still to
// run (empty after the last one). ok is false only when the agent has
// no active trip or its trip has no leg left to pop.
func (tm *TripManager) AdvanceLeg(agent AgentID) (remaining []TripLeg, ok bool) {
	tripID, ok := tm.activeTripMode[agent]
	if !ok {
		return nil, false
	}
	trip := tm.trips[tripID]
	if len(trip.Legs) == 0 {
		return nil, false
	}
	trip.Legs = trip.Legs[1:]
	delete(tm.activeTripMode, agent)
	return trip.Legs, true
}

// FinishTrip marks a trip complete at time `now` and releases its
// unfinished-trip accounting.
func (tm *TripManager) FinishTrip(now float64, trip TripID) {
	t := tm.trips[trip]
	if t.FinishedAt != nil {
		return
	}
	t.FinishedAt = &now
	if !t.isBusTrip() {
		tm.unfinishedTrips--
	}
}

// AbortTrip marks a trip as failed to complete, e.g. because
// pathfinding found no route for one of its legs (§7: "a leg with no
// path aborts the trip rather than the whole run").
func (tm *TripManager) AbortTrip(trip TripID) {
	t := tm.trips[trip]
	t.Aborted = true
	if !t.isBusTrip() && t.FinishedAt == nil {
		tm.unfinishedTrips--
	}
}

func (tm *TripManager) UnfinishedTrips() int { return tm.unfinishedTrips }
func (tm *TripManager) NumBusTrips() int     { return tm.numBusTrips }

// RegisterWaitingForBus records that agent is standing at stop with no
// bus currently there (§4.6 row 5's "no bus present" branch).
func (tm *TripManager) RegisterWaitingForBus(agent AgentID, stop mapmodel.BusStopID) {
	tm.waitingForBus[stop] = append(tm.waitingForBus[stop], agent)
}

// IsBusPresent reports whether a ServeBusRoute agent is currently
// sitting at stop, per the last BusArrival/BusDeparture call.
func (tm *TripManager) IsBusPresent(stop mapmodel.BusStopID) bool {
	return tm.busPresent[stop]
}

// BusArrival records that a bus has reached stop and wakes every agent
// that was waiting there (§4.6 row 6: the deferred pop for agents that
// found no bus waiting in row 5).
func (tm *TripManager) BusArrival(now float64, stop mapmodel.BusStopID, sched Scheduler) {
	tm.busPresent[stop] = true
	waiting := tm.waitingForBus[stop]
	delete(tm.waitingForBus, stop)
	for _, agent := range waiting {
		sched.WakeAgentAt(now, agent)
	}
}

// BusDeparture records that no bus is sitting at stop any more.
func (tm *TripManager) BusDeparture(stop mapmodel.BusStopID) {
	delete(tm.busPresent, stop)
}

// TripEventKind is one of §4.6's nine mode-transition events, keyed off
// the leg that just completed.
type TripEventKind int

const (
	// EventAdvanceToNextLeg: no special handling needed; the next leg
	// (if any) starts as-is, or the trip finishes if none remains.
	EventAdvanceToNextLeg TripEventKind = iota
	// EventSpawnPedestrianAfterParking: rows 1 & 4, a car or bike
	// reached its ParkNear goal; a pedestrian continues the trip.
	EventSpawnPedestrianAfterParking
	// EventComputeDrivingPath: row 2, a pedestrian reached its parked
	// vehicle and the drive leg's path must now be resolved.
	EventComputeDrivingPath
	// EventComputeBikePath: row 3, a pedestrian reached a bike rack.
	EventComputeBikePath
	// EventWaitForBus: row 5 with no bus present; the agent parks at
	// the stop until BusArrival wakes it.
	EventWaitForBus
	// EventBoardBus: row 5 with a bus present, or row 6's deferred pop;
	// the rider's next leg (RideBus) starts.
	EventBoardBus
	// EventAlightBus: row 7, the rider's RideBus leg completed.
	EventAlightBus
	// EventTripFinished: rows 8 & 9, the trip's itinerary is exhausted.
	EventTripFinished
)

// ClassifyLegCompletion implements §4.6's mode-transition table for
// every row except the bus-stop arrival branch, which depends on
// runtime bus-presence state the caller checks separately via
// BusStopEvent before calling this for a WalkToBusStop leg.
func ClassifyLegCompletion(completed TripLeg, hasNext bool) TripEventKind {
	switch completed.Kind {
	case LegDrive:
		if completed.DriveGoal.Kind == GoalBorder {
			return EventTripFinished
		}
		return EventSpawnPedestrianAfterParking
	case LegWalk:
		switch completed.WalkPurpose {
		case WalkToParking:
			return EventComputeDrivingPath
		case WalkToBikeRack:
			return EventComputeBikePath
		default:
			return EventTripFinished
		}
	case LegRideBus:
		return EventAlightBus
	default:
		if !hasNext {
			return EventTripFinished
		}
		return EventAdvanceToNextLeg
	}
}

// BusStopEvent implements §4.6 row 5's branch: a pedestrian reaching a
// bus stop either boards immediately, if a bus is already there, or
// starts waiting.
func BusStopEvent(busPresent bool) TripEventKind {
	if busPresent {
		return EventBoardBus
	}
	return EventWaitForBus
}

// ResolveLegPath runs pathfinding for whichever lane-type family a leg
// needs, returning the path or signaling that the trip should abort.
func ResolveLegPath(engine *pathfind.Engine, family mapmodel.LaneType, from, to mapmodel.LaneID) (pathfind.Path, bool) {
	p, err := engine.Resolve(pathfind.PathRequest{Family: family, StartLane: from, EndLane: to})
	if err != nil {
		return pathfind.Path{}, false
	}
	return p, true
}
