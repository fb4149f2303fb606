package mapmodel

import "fmt"

// EditKind tags the kind of mutation an Edit applies to the cooked map,
// dispatched by tag rather than by subclassing (§4.2).
type EditKind int

const (
	EditChangeLaneType EditKind = iota
	EditCloseLane
	EditReopenLane
	EditBanTurn
	EditAllowTurn
)

// Edit is a single, reversible mutation to the cooked map. Applying one
// never re-cooks the whole map; it only touches the lanes/turns named
// and regenerates turns at any intersection whose lane types changed.
type Edit struct {
	Kind     EditKind
	Lane     LaneID
	NewType  LaneType
	Turn     TurnID
}

// undo remembers enough of a lane's prior state to reverse one Edit.
type undo struct {
	edit    Edit
	oldType LaneType
	oldClosed bool
	hadTurn bool
}

// EditSet is an ordered, revertible sequence of edits applied to one Map.
type EditSet struct {
	m      *Map
	undone []undo
}

func NewEditSet(m *Map) *EditSet {
	return &EditSet{m: m}
}

// Apply performs e against the set's map, recording enough to Revert it.
func (es *EditSet) Apply(e Edit) error {
	switch e.Kind {
	case EditChangeLaneType:
		l, err := es.m.GetLaneOrError(e.Lane)
		if err != nil {
			return err
		}
		if err := validateLaneTypeChange(es.m, l, e.NewType); err != nil {
			return err
		}
		u := undo{edit: e, oldType: l.Type}
		l.Type = e.NewType
		es.undone = append(es.undone, u)
		es.regenerateTurnsAt(l)
	case EditCloseLane:
		l, err := es.m.GetLaneOrError(e.Lane)
		if err != nil {
			return err
		}
		es.undone = append(es.undone, undo{edit: e, oldClosed: l.Closed})
		l.Closed = true
	case EditReopenLane:
		l, err := es.m.GetLaneOrError(e.Lane)
		if err != nil {
			return err
		}
		es.undone = append(es.undone, undo{edit: e, oldClosed: l.Closed})
		l.Closed = false
	case EditBanTurn:
		i, err := es.m.GetIntersectionOrError(e.Turn.Parent)
		if err != nil {
			return err
		}
		_, had := i.Turns[e.Turn]
		es.undone = append(es.undone, undo{edit: e, hadTurn: had})
		delete(i.Turns, e.Turn)
	case EditAllowTurn:
		i, err := es.m.GetIntersectionOrError(e.Turn.Parent)
		if err != nil {
			return err
		}
		_, had := i.Turns[e.Turn]
		in, inOK := es.m.GetLane(e.Turn.From)
		out, outOK := es.m.GetLane(e.Turn.To)
		if inOK && outOK {
			i.Turns[e.Turn] = &Turn{ID: e.Turn, Kind: classifyTurn(es.m, in, out), Geom: connectorGeom(in, out)}
		}
		es.undone = append(es.undone, undo{edit: e, hadTurn: had})
	}
	return nil
}

// RevertLast undoes the most recently applied edit, if any.
func (es *EditSet) RevertLast() {
	if len(es.undone) == 0 {
		return
	}
	u := es.undone[len(es.undone)-1]
	es.undone = es.undone[:len(es.undone)-1]
	switch u.edit.Kind {
	case EditChangeLaneType:
		if l, ok := es.m.GetLane(u.edit.Lane); ok {
			l.Type = u.oldType
			es.regenerateTurnsAt(l)
		}
	case EditCloseLane, EditReopenLane:
		if l, ok := es.m.GetLane(u.edit.Lane); ok {
			l.Closed = u.oldClosed
		}
	case EditBanTurn:
		if u.hadTurn {
			if in, ok := es.m.GetLane(u.edit.Turn.From); ok {
				if out, ok2 := es.m.GetLane(u.edit.Turn.To); ok2 {
					if i, ok3 := es.m.GetIntersection(u.edit.Turn.Parent); ok3 {
						i.Turns[u.edit.Turn] = &Turn{ID: u.edit.Turn, Kind: classifyTurn(es.m, in, out), Geom: connectorGeom(in, out)}
					}
				}
			}
		}
	case EditAllowTurn:
		if i, ok := es.m.GetIntersection(u.edit.Turn.Parent); ok && !u.hadTurn {
			delete(i.Turns, u.edit.Turn)
		}
	}
}

// validateLaneTypeChange enforces §4.2's legality constraints on a
// proposed lane type change before it's applied: at most one parking
// lane per side, no two adjacent biking lanes, and at least one
// driving-or-bus lane left on any road that hosts a bus stop.
func validateLaneTypeChange(m *Map, l *Lane, newType LaneType) error {
	road, ok := m.Roads[l.Road]
	if !ok {
		return nil
	}

	typeOf := func(lid LaneID) LaneType {
		if lid == l.ID {
			return newType
		}
		return m.Lanes[lid].Type
	}

	var forwardParking, backParking int
	types := make([]LaneType, len(road.Lanes))
	for _, lid := range road.Lanes {
		lane := m.Lanes[lid]
		t := typeOf(lid)
		if lane.Index >= 0 && lane.Index < len(types) {
			types[lane.Index] = t
		}
		if t != LaneParking {
			continue
		}
		if lane.Src == road.Src {
			forwardParking++
		} else {
			backParking++
		}
	}
	if forwardParking > 1 || backParking > 1 {
		return fmt.Errorf("mapmodel: edit: road %d would have more than one parking lane on a side", road.ID)
	}

	for i := 0; i+1 < len(types); i++ {
		if types[i] == LaneBiking && types[i+1] == LaneBiking {
			return fmt.Errorf("mapmodel: edit: road %d would have two adjacent biking lanes", road.ID)
		}
	}

	hasBusStop := false
	for _, stop := range m.BusStops {
		for _, lid := range road.Lanes {
			if stop.Lane == lid {
				hasBusStop = true
			}
		}
	}
	if hasBusStop {
		hasDrivingOrBus := false
		for _, lid := range road.Lanes {
			if t := typeOf(lid); t == LaneDriving || t == LaneBus {
				hasDrivingOrBus = true
				break
			}
		}
		if !hasDrivingOrBus {
			return fmt.Errorf("mapmodel: edit: road %d hosts a bus stop and needs at least one driving-or-bus lane", road.ID)
		}
	}
	return nil
}

func (es *EditSet) regenerateTurnsAt(l *Lane) {
	for _, endID := range [2]IntersectionID{l.Src, l.Dst} {
		if i, ok := es.m.GetIntersection(endID); ok {
			for id := range i.Turns {
				if id.From == l.ID || id.To == l.ID {
					delete(i.Turns, id)
				}
			}
			GenerateTurns(es.m, i)
		}
	}
}
