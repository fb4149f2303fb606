package mapmodel

// isLaneChange reports whether k represents an in-road lateral shift
// rather than a movement through the intersection proper.
func isLaneChange(k TurnKind) bool {
	return k == TurnLaneChangeLeft || k == TurnLaneChangeRight
}

// isVehicleMovement reports whether k is made by a car/bike rather
// than a pedestrian; §3 I4's destination-lane conflict only fires when
// at least one of the two turns is a vehicle movement.
func isVehicleMovement(k TurnKind) bool {
	return k != TurnCrosswalk && k != TurnSharedSidewalkCorner
}

// ConflictsWith reports whether two turns at the same intersection
// cannot safely proceed at the same time: their connector geometries
// cross, or they share a destination lane and at least one is a
// vehicle movement (§3 I4). LaneChange and SharedSidewalkCorner turns
// never conflict with anything -- a LaneChange only represents an
// in-road shift for pathfinding, and a SharedSidewalkCorner is a
// continuous stretch of the same sidewalk (§4.3).
func (t *Turn) ConflictsWith(o *Turn) bool {
	if t.ID.Parent != o.ID.Parent {
		return false
	}
	if t.ID == o.ID {
		return false
	}
	if isLaneChange(t.Kind) || isLaneChange(o.Kind) || t.Kind == TurnSharedSidewalkCorner || o.Kind == TurnSharedSidewalkCorner {
		return false
	}
	if _, _, ok := t.Geom.Intersection(o.Geom); ok {
		return true
	}
	if t.ID.To == o.ID.To && (isVehicleMovement(t.Kind) || isVehicleMovement(o.Kind)) {
		return true
	}
	return false
}

// ConflictingTurns returns every turn at i.e that conflicts with t,
// i.e. the full reservation set a StopSign or TrafficSignal arbiter
// must clear before granting t the intersection.
func (i *Intersection) ConflictingTurns(id TurnID) []TurnID {
	t, ok := i.Turns[id]
	if !ok {
		return nil
	}
	var out []TurnID
	for oid, o := range i.Turns {
		if oid == id {
			continue
		}
		if t.ConflictsWith(o) {
			out = append(out, oid)
		}
	}
	return out
}
