package mapmodel

import (
	"math"

	"github.com/vvbv/abstreet/geom"
)

// straightAngleThreshold bounds how far a turn's heading change can be
// from zero and still classify as Straight, rather than Left or Right
// (§4.1 Phase H).
const straightAngleThreshold = 0.3 // radians, ~17 degrees

// GenerateTurns populates i.Turns from every compatible (incoming,
// outgoing) lane pair at the intersection. Pairs on the same road are
// skipped: leaving by the road you came in on is a U-turn, and no turn
// is generated for it.
func GenerateTurns(m *Map, i *Intersection) {
	for _, inID := range i.Incoming {
		in := m.Lanes[inID]
		for _, outID := range i.Outgoing {
			out := m.Lanes[outID]
			if in.Road == out.Road {
				continue
			}
			if !compatibleTurn(in.Type, out.Type) {
				continue
			}
			kind := classifyTurn(m, in, out)
			t := &Turn{
				ID:   TurnID{Parent: i.ID, From: inID, To: outID},
				Kind: kind,
				Geom: connectorGeom(in, out),
			}
			i.Turns[t.ID] = t
		}
	}
}

func compatibleTurn(a, b LaneType) bool {
	if a == b {
		return true
	}
	return (a == LaneBus && b == LaneDriving) || (a == LaneDriving && b == LaneBus)
}

// sameOriginalWay reports whether two cooked roads were cut from the
// same OSM way. Phase B splits a way into one road per stretch between
// intersection points, so this holds for consecutive stretches of one
// way meeting at an intersection.
func sameOriginalWay(m *Map, a, b RoadID) bool {
	ra, ok := m.Roads[a]
	if !ok {
		return false
	}
	rb, ok := m.Roads[b]
	if !ok {
		return false
	}
	return ra.OsmWay == rb.OsmWay
}

// classifyTurn signs the heading change from in's last direction to
// out's first direction; sidewalk-to-sidewalk pairs are further split
// into crosswalks (crossing a road) and shared corners (rounding one).
func classifyTurn(m *Map, in, out *Lane) TurnKind {
	inAngle := in.Center.LastLine().Angle()
	outAngle := geom.Line{Pt1: out.Center.Points()[0], Pt2: out.Center.Points()[min1(1, len(out.Center.Points())-1)]}.Angle()
	delta := normalizeSigned(outAngle - inAngle)

	if in.Type == LaneSidewalk && out.Type == LaneSidewalk {
		if math.Abs(delta) > math.Pi/2 {
			return TurnCrosswalk
		}
		return TurnSharedSidewalkCorner
	}

	if in.Type == out.Type && sameOriginalWay(m, in.Road, out.Road) && math.Abs(delta) <= math.Pi/2 {
		if delta >= 0 {
			return TurnLaneChangeLeft
		}
		return TurnLaneChangeRight
	}
	if math.Abs(delta) <= straightAngleThreshold {
		return TurnStraight
	}
	if delta > 0 {
		return TurnLeft
	}
	return TurnRight
}

func min1(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// normalizeSigned maps an angle difference into (-pi, pi].
func normalizeSigned(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// connectorGeom is the short path a turn's geometry follows through the
// intersection interior: a straight segment from the incoming lane's
// end to the outgoing lane's start, adequate for both rendering and the
// conflict predicate (§4.3), which only needs crossing behavior.
func connectorGeom(in, out *Lane) geom.PolyLine {
	a, b := in.Center.LastPt(), out.Center.FirstPt()
	if a.ApproxEq(b, geom.EpsilonDist) {
		b = geom.Pt2D{X: b.X + geom.EpsilonDist*2, Y: b.Y}
	}
	return geom.NewPolyLine([]geom.Pt2D{a, b})
}
