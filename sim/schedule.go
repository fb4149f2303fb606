package sim

import "math"

// ScheduleTrip is one trip within a schedule block: the ordered legs a
// single spawn of TripManager.NewTrip will run.
type ScheduleTrip struct {
	Legs []TripLeg
}

// ScheduleBlock is a group of trips that repeat together: either
// DepartureTime (an absolute clock time) or WaitTime (relative to the
// previous block's last trip ending) anchors when the block starts: a
// non-zero LoopCount means the block's trip list replays that many
// times before the schedule advances to the next block.
type ScheduleBlock struct {
	DepartureTime *float64
	WaitTime      *float64
	LoopCount     int32
	Trips         []ScheduleTrip
}

// Schedule drives an agent through a sequence of trip blocks, handling
// the wait-time/departure-time anchoring and block-loop bookkeeping an
// agent with more than one trip per run needs (§4.6's trip manager only
// covers a single trip's legs; an agent that runs errands all day needs
// something to decide when the next trip begins).
type Schedule struct {
	blocks []ScheduleBlock

	blockIndex int32
	tripIndex  int32
	loopCount  int32

	lastTripEndTime float64
}

// NewSchedule builds a schedule over blocks, in order.
func NewSchedule(blocks []ScheduleBlock) *Schedule {
	return &Schedule{blocks: append([]ScheduleBlock{}, blocks...)}
}

// Empty reports whether every block's trips have been exhausted.
func (s *Schedule) Empty() bool {
	return len(s.blocks) == 0
}

// GetTrip returns the trip the schedule is currently positioned at, or
// nil once the schedule has run out.
func (s *Schedule) GetTrip() *ScheduleTrip {
	if s.Empty() || s.blockIndex >= int32(len(s.blocks)) {
		return nil
	}
	trips := s.blocks[s.blockIndex].Trips
	if s.tripIndex >= int32(len(trips)) {
		return nil
	}
	return &trips[s.tripIndex]
}

// GetDepartureTime computes when the current trip should start: an
// explicit DepartureTime wins outright, otherwise it's the last trip's
// end time plus WaitTime (or immediately, if neither is set).
func (s *Schedule) GetDepartureTime() float64 {
	trip := s.GetTrip()
	if trip == nil {
		return math.Inf(1)
	}
	block := s.blocks[s.blockIndex]
	if block.DepartureTime != nil && s.loopCount == 0 && s.tripIndex == 0 {
		return *block.DepartureTime
	}
	if block.WaitTime != nil {
		return s.lastTripEndTime + *block.WaitTime
	}
	return s.lastTripEndTime
}

// NextTrip advances to the next trip, handling per-block looping and
// block-to-block transitions; it reports whether any trip remains.
func (s *Schedule) NextTrip(now float64) bool {
	if s.Empty() {
		return false
	}
	block := s.blocks[s.blockIndex]
	s.lastTripEndTime = now

	s.tripIndex++
	if s.tripIndex != int32(len(block.Trips)) {
		return true
	}
	s.tripIndex = 0
	s.loopCount++
	if block.LoopCount > 0 && s.loopCount < block.LoopCount {
		return true
	}
	s.loopCount = 0
	s.blockIndex++
	if s.blockIndex == int32(len(s.blocks)) {
		s.blocks = nil
		s.blockIndex = 0
		return false
	}
	next := s.blocks[s.blockIndex]
	if next.WaitTime == nil && next.DepartureTime != nil {
		s.lastTripEndTime = *next.DepartureTime
	}
	return true
}
