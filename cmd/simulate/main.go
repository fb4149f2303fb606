// Command simulate replays a trip table against a cooked map, driving
// it lane by lane through the discrete-event scheduler and
// intersection arbiter until the configured time horizon, then reports
// the run's summary counters.
package main

import (
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/vvbv/abstreet/mapmodel"
	"github.com/vvbv/abstreet/pathfind"
	"github.com/vvbv/abstreet/sim"
	"github.com/vvbv/abstreet/utils/config"
	"github.com/vvbv/abstreet/utils/randengine"
)

var log = logrus.WithField("module", "simulate")

var opts struct {
	Config   string `short:"c" long:"config" required:"true" description:"scenario YAML path"`
	LogLevel string `long:"log.level" default:"info" description:"trace|debug|info|warn|error"`
}

// retryIntervalSeconds is how often a blocked agent rechecks the
// arbiter when MaybeStartTurn declines without itself scheduling a
// wakeup (the Freeform and TrafficSignal policies only wake waiters
// from TurnFinished; at leg-level granularity there's no guarantee
// another agent will ever clear that intersection, so a bounded poll
// keeps the run from deadlocking).
const retryIntervalSeconds = 1.0

// tripLegSpec is the on-disk shape of one leg; only the fields its Kind
// needs are populated. WalkGoal is always "the lane to walk/drive/ride
// to"; WalkPurpose/DriveGoalKind/Vehicle pick which row of §4.6's
// mode-transition table fires once that lane is reached.
type tripLegSpec struct {
	Kind                string `yaml:"kind"`
	WalkGoal            int    `yaml:"walk_goal,omitempty"`
	WalkPurpose         string `yaml:"walk_purpose,omitempty"`
	DriveGoal           int    `yaml:"drive_goal,omitempty"`
	DriveGoalKind       string `yaml:"drive_goal_kind,omitempty"`
	DriveBorder         int    `yaml:"drive_border,omitempty"`
	DriveBorderLaneType string `yaml:"drive_border_lane_type,omitempty"`
	Vehicle             string `yaml:"vehicle,omitempty"`
	BusRoute            int    `yaml:"bus_route,omitempty"`
	BusStop             int    `yaml:"bus_stop,omitempty"`
	StartLane           int    `yaml:"start_lane,omitempty"`
}

type tripSpec struct {
	SpawnSeconds float64       `yaml:"spawn_seconds"`
	Legs         []tripLegSpec `yaml:"legs"`
}

// scheduleBlockSpec is one repeating block of an agent's day: either a
// fixed departure time or a wait relative to the previous trip's end,
// optionally replaying its trip list loop_count times before the
// schedule moves to the next block.
type scheduleBlockSpec struct {
	DepartureSeconds *float64   `yaml:"departure_seconds,omitempty"`
	WaitSeconds      *float64   `yaml:"wait_seconds,omitempty"`
	LoopCount        int32      `yaml:"loop_count,omitempty"`
	Trips            []tripSpec `yaml:"trips"`
}

// agentScheduleSpec is a multi-trip agent: a starting lane plus a
// sequence of schedule blocks driven by sim.Schedule instead of a
// single one-shot trip.
type agentScheduleSpec struct {
	StartLane int                 `yaml:"start_lane"`
	Blocks    []scheduleBlockSpec `yaml:"blocks"`
}

type tripsFile struct {
	Trips     []tripSpec          `yaml:"trips,omitempty"`
	Schedules []agentScheduleSpec `yaml:"schedules,omitempty"`
}

func walkPurposeFromString(s string) sim.WalkPurpose {
	switch s {
	case "parking":
		return sim.WalkToParking
	case "bike_rack":
		return sim.WalkToBikeRack
	case "bus_stop":
		return sim.WalkToBusStop
	default:
		return sim.WalkFinal
	}
}

func vehicleFromString(s string) sim.VehicleKind {
	if s == "bike" {
		return sim.VehicleBike
	}
	return sim.VehicleCar
}

func laneTypeFromString(s string) (mapmodel.LaneType, bool) {
	switch s {
	case "driving":
		return mapmodel.LaneDriving, true
	case "biking":
		return mapmodel.LaneBiking, true
	case "parking":
		return mapmodel.LaneParking, true
	case "bus":
		return mapmodel.LaneBus, true
	case "sidewalk":
		return mapmodel.LaneSidewalk, true
	default:
		return 0, false
	}
}

// driveGoalFromSpec translates a leg's on-disk drive_goal_kind into the
// polymorphic DrivingGoal §4.6 dispatches on; "park_near" is the
// default so existing trip tables that only set drive_goal keep working.
func driveGoalFromSpec(ls tripLegSpec) sim.DrivingGoal {
	if ls.DriveGoalKind == "border" {
		laneType, _ := laneTypeFromString(ls.DriveBorderLaneType)
		return sim.DrivingGoal{
			Kind:           sim.GoalBorder,
			Border:         mapmodel.IntersectionID(ls.DriveBorder),
			BorderLaneType: laneType,
		}
	}
	return sim.DrivingGoal{Kind: sim.GoalParkNear, Building: mapmodel.BuildingID(ls.DriveGoal)}
}

func legKindAndFamily(k string) (sim.LegKind, mapmodel.LaneType, bool) {
	switch k {
	case "walk":
		return sim.LegWalk, mapmodel.LaneSidewalk, true
	case "drive":
		return sim.LegDrive, mapmodel.LaneDriving, true
	case "ride_bus":
		return sim.LegRideBus, mapmodel.LaneBus, true
	case "serve_bus_route":
		return sim.LegServeBusRoute, mapmodel.LaneBus, true
	default:
		return 0, 0, false
	}
}

func loadTripsFile(path string) (tripsFile, error) {
	var tf tripsFile
	raw, err := os.ReadFile(path)
	if err != nil {
		return tf, err
	}
	err = yaml.Unmarshal(raw, &tf)
	return tf, err
}

// buildLegs translates a tripSpec's on-disk legs into sim.TripLeg
// values, reporting the first leg's start lane and whether every leg
// kind was recognized.
func buildLegs(spec tripSpec) ([]sim.TripLeg, mapmodel.LaneID, bool) {
	legs := make([]sim.TripLeg, 0, len(spec.Legs))
	var startLane mapmodel.LaneID
	for li, ls := range spec.Legs {
		kind, _, ok := legKindAndFamily(ls.Kind)
		if !ok {
			log.Warnf("simulate: leg %d has unknown kind %q, skipping trip", li, ls.Kind)
			return nil, 0, false
		}
		if li == 0 {
			startLane = mapmodel.LaneID(ls.StartLane)
		}
		legs = append(legs, sim.TripLeg{
			Kind:        kind,
			WalkGoal:    mapmodel.LaneID(ls.WalkGoal),
			WalkPurpose: walkPurposeFromString(ls.WalkPurpose),
			DriveGoal:   driveGoalFromSpec(ls),
			Vehicle:     vehicleFromString(ls.Vehicle),
			BusRoute:    mapmodel.BusRouteID(ls.BusRoute),
			BusStop:     mapmodel.BusStopID(ls.BusStop),
		})
	}
	return legs, startLane, len(legs) > 0
}

// agentState tracks one agent's progress through the lane sequence a
// leg's resolved path produced.
type agentState struct {
	trip          sim.TripID
	family        mapmodel.LaneType
	steps         []mapmodel.LaneID
	idx           int
	leg           sim.TripLeg // the leg currently being walked/driven/ridden
	remainingLegs []sim.TripLeg
}

// waitingRider is a pedestrian parked at a bus stop with no bus there
// yet (§4.6 row 5); it has no agentState of its own until BusArrival
// wakes it and it starts its RideBus leg.
type waitingRider struct {
	trip sim.TripID
	legs []sim.TripLeg
}

type runner struct {
	m           *mapmodel.Map
	engine      *pathfind.Engine
	arbiter     *sim.Arbiter
	trips       *sim.TripManager
	loop        *sim.EventLoop
	agentAt     map[sim.AgentID]mapmodel.LaneID
	states      map[sim.AgentID]*agentState
	schedules   map[sim.AgentID]*sim.Schedule
	pendingLegs map[sim.AgentID][]sim.TripLeg
	waiting     map[sim.AgentID]waitingRider
	stopByLane  map[mapmodel.LaneID]mapmodel.BusStopID
}

// onTripComplete marks trip finished and, for a schedule-driven agent,
// advances to its next trip and schedules that trip's spawn.
func (r *runner) onTripComplete(agent sim.AgentID, trip sim.TripID) {
	now := r.loop.Now()
	r.trips.FinishTrip(now, trip)

	sched, ok := r.schedules[agent]
	if !ok || !sched.NextTrip(now) {
		return
	}
	next := sched.GetTrip()
	if next == nil {
		return
	}
	dep := sched.GetDepartureTime()
	tripID := r.trips.NewTrip(dep, next.Legs)
	r.pendingLegs[agent] = next.Legs
	r.loop.Push(dep, sim.Command{Kind: sim.CmdSpawnTrip, Agent: agent, Trip: tripID})
}

// startLeg resolves legs[0]'s path from the agent's current lane and
// begins lane-by-lane traversal; an empty leg list finishes the trip.
func (r *runner) startLeg(agent sim.AgentID, trip sim.TripID, legs []sim.TripLeg) {
	if len(legs) == 0 {
		r.onTripComplete(agent, trip)
		delete(r.states, agent)
		return
	}
	leg := legs[0]
	family, ok := familyForLegKind(leg.Kind)
	if !ok {
		r.trips.AbortTrip(trip)
		return
	}
	from, ok := r.agentAt[agent]
	if !ok {
		r.trips.AbortTrip(trip)
		return
	}

	r.trips.AgentStartingTripLeg(agent, trip)
	path, ok := sim.ResolveLegPath(r.engine, family, from, leg.WalkGoal)
	if !ok {
		r.trips.AbortTrip(trip)
		return
	}

	steps := make([]mapmodel.LaneID, len(path.Steps))
	for i, s := range path.Steps {
		steps[i] = s.Lane
	}
	if len(steps) == 0 {
		steps = []mapmodel.LaneID{from}
	}
	r.states[agent] = &agentState{trip: trip, family: family, steps: steps, leg: leg, remainingLegs: legs[1:]}
	r.scheduleLaneTraversal(agent)
}

// finishLeg implements §4.6's mode-transition table for the leg that
// just completed: most rows just resolve and start the next leg the
// same way startLeg always has, but the bus-stop and border/ParkNear
// rows need the distinction the old uniform loop never made.
func (r *runner) finishLeg(agent sim.AgentID, trip sim.TripID, completed sim.TripLeg, remaining []sim.TripLeg) {
	if completed.Kind == sim.LegWalk && completed.WalkPurpose == sim.WalkToBusStop {
		if sim.BusStopEvent(r.trips.IsBusPresent(completed.BusStop)) == sim.EventBoardBus {
			r.startLeg(agent, trip, remaining)
		} else {
			r.trips.RegisterWaitingForBus(agent, completed.BusStop)
			r.waiting[agent] = waitingRider{trip: trip, legs: remaining}
		}
		return
	}

	switch sim.ClassifyLegCompletion(completed, len(remaining) > 0) {
	case sim.EventTripFinished:
		r.onTripComplete(agent, trip)
	default:
		r.startLeg(agent, trip, remaining)
	}
}

// maybeAnnounceBusStop fires §4.6 row 6's bus-arrival event when a
// ServeBusRoute agent reaches a lane that hosts a stop: everyone
// waiting there is woken to board, then the bus immediately departs at
// this granularity (dwell time isn't modeled).
func (r *runner) maybeAnnounceBusStop(now float64, lane mapmodel.LaneID) {
	stop, ok := r.stopByLane[lane]
	if !ok {
		return
	}
	r.trips.BusArrival(now, stop, r.loop)
	r.trips.BusDeparture(stop)
}

// scheduleLaneTraversal pushes the event for the agent reaching the
// far end of its current lane.
func (r *runner) scheduleLaneTraversal(agent sim.AgentID) {
	st := r.states[agent]
	lane, ok := r.m.GetLane(st.steps[st.idx])
	if !ok {
		r.trips.AbortTrip(st.trip)
		delete(r.states, agent)
		return
	}
	costCm := int(lane.Center.Length() * 100)
	travel := sim.TravelTimeSeconds(st.family, costCm)
	r.loop.Push(r.loop.Now()+travel, sim.Command{Kind: sim.CmdUpdateAgent, Agent: agent, Trip: st.trip})
}

// onReachLaneEnd fires when an agent arrives at the far end of its
// current lane: either the leg is done, or the agent must clear the
// turn into the next lane through the arbiter before continuing.
func (r *runner) onReachLaneEnd(agent sim.AgentID) {
	if w, ok := r.waiting[agent]; ok {
		delete(r.waiting, agent)
		r.startLeg(agent, w.trip, w.legs)
		return
	}

	st, ok := r.states[agent]
	if !ok {
		return
	}

	now := r.loop.Now()
	if st.leg.Kind == sim.LegServeBusRoute {
		r.maybeAnnounceBusStop(now, st.steps[st.idx])
	}

	if st.idx == len(st.steps)-1 {
		r.agentAt[agent] = st.steps[st.idx]
		completed := st.leg
		legs := st.remainingLegs
		trip := st.trip
		delete(r.states, agent)
		r.finishLeg(agent, trip, completed, legs)
		return
	}

	fromID, toID := st.steps[st.idx], st.steps[st.idx+1]
	fromLane, ok := r.m.GetLane(fromID)
	if !ok {
		r.trips.AbortTrip(st.trip)
		delete(r.states, agent)
		return
	}
	turn := mapmodel.TurnID{Parent: fromLane.Dst, From: fromID, To: toID}

	if !r.arbiter.MaybeStartTurn(agent, turn, now, r.loop) {
		r.loop.Push(now+retryIntervalSeconds, sim.Command{Kind: sim.CmdUpdateAgent, Agent: agent, Trip: st.trip})
		return
	}
	// the turn itself is treated as instantaneous at this granularity;
	// release it immediately so waiting agents see the slot free.
	r.arbiter.TurnFinished(now, agent, turn, r.loop)
	st.idx++
	r.scheduleLaneTraversal(agent)
}

func familyForLegKind(k sim.LegKind) (mapmodel.LaneType, bool) {
	switch k {
	case sim.LegWalk:
		return mapmodel.LaneSidewalk, true
	case sim.LegDrive:
		return mapmodel.LaneDriving, true
	case sim.LegRideBus, sim.LegServeBusRoute:
		return mapmodel.LaneBus, true
	default:
		return 0, false
	}
}

func main() {
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}
	if lvl, err := logrus.ParseLevel(opts.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		log.Fatalf("simulate: loading scenario config: %v", err)
	}
	rc := config.NewRuntimeConfig(cfg)

	mf, err := os.Open(cfg.SimInput.Map)
	if err != nil {
		log.Fatalf("simulate: opening cooked map: %v", err)
	}
	defer mf.Close()
	m, err := mapmodel.Load(mf)
	if err != nil {
		log.Fatalf("simulate: decoding cooked map: %v", err)
	}

	tf, err := loadTripsFile(cfg.SimInput.Trips)
	if err != nil {
		log.Fatalf("simulate: loading trip table: %v", err)
	}

	r := &runner{
		m:           m,
		engine:      pathfind.NewEngine(m),
		arbiter:     sim.NewArbiter(m, rc.Control.FreeformStrict),
		trips:       sim.NewTripManager(),
		loop:        sim.NewEventLoop(),
		agentAt:     make(map[sim.AgentID]mapmodel.LaneID),
		states:      make(map[sim.AgentID]*agentState),
		schedules:   make(map[sim.AgentID]*sim.Schedule),
		pendingLegs: make(map[sim.AgentID][]sim.TripLeg),
		waiting:     make(map[sim.AgentID]waitingRider),
		stopByLane:  make(map[mapmodel.LaneID]mapmodel.BusStopID),
	}
	for _, stop := range m.BusStops {
		r.stopByLane[stop.Lane] = stop.ID
	}
	rng := randengine.New(rc.Control.Seed)
	nextAgent := 0

	for _, spec := range tf.Trips {
		agent := sim.AgentID(nextAgent)
		nextAgent++
		legs, startLane, ok := buildLegs(spec)
		if !ok {
			continue
		}
		// a small random offset keeps identically-timed trip-table
		// entries from producing perfectly synchronized, artificial
		// lockstep contention at shared intersections.
		spawnAt := spec.SpawnSeconds + rng.Float64Safe()
		tripID := r.trips.NewTrip(spawnAt, legs)
		r.agentAt[agent] = startLane
		r.pendingLegs[agent] = legs
		r.loop.Push(spawnAt, sim.Command{Kind: sim.CmdSpawnTrip, Agent: agent, Trip: tripID})
	}

	for _, as := range tf.Schedules {
		agent := sim.AgentID(nextAgent)
		nextAgent++

		blocks := make([]sim.ScheduleBlock, 0, len(as.Blocks))
		for _, bs := range as.Blocks {
			block := sim.ScheduleBlock{DepartureTime: bs.DepartureSeconds, WaitTime: bs.WaitSeconds, LoopCount: bs.LoopCount}
			for _, ts := range bs.Trips {
				legs, _, ok := buildLegs(ts)
				if !ok {
					continue
				}
				block.Trips = append(block.Trips, sim.ScheduleTrip{Legs: legs})
			}
			if len(block.Trips) > 0 {
				blocks = append(blocks, block)
			}
		}
		if len(blocks) == 0 {
			continue
		}
		sched := sim.NewSchedule(blocks)
		first := sched.GetTrip()
		if first == nil {
			continue
		}
		dep := sched.GetDepartureTime()
		tripID := r.trips.NewTrip(dep, first.Legs)
		r.agentAt[agent] = mapmodel.LaneID(as.StartLane)
		r.pendingLegs[agent] = first.Legs
		r.schedules[agent] = sched
		r.loop.Push(dep, sim.Command{Kind: sim.CmdSpawnTrip, Agent: agent, Trip: tripID})
	}

	r.loop.Run(rc.Control.Step.TotalSeconds, func(now float64, cmd sim.Command) {
		switch cmd.Kind {
		case sim.CmdSpawnTrip:
			r.startLeg(cmd.Agent, cmd.Trip, r.pendingLegs[cmd.Agent])
		case sim.CmdUpdateAgent:
			r.onReachLaneEnd(cmd.Agent)
		}
	})

	log.Infof("simulate: run complete at t=%.1fs: %d unfinished trips, %d bus trips",
		r.loop.Now(), r.trips.UnfinishedTrips(), r.trips.NumBusTrips())
}
