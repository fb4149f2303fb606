package geom

import "math"

// Line is a single directed segment from Pt1 to Pt2.
type Line struct {
	Pt1, Pt2 Pt2D
}

// Angle returns the direction of the line, in radians, [0, 2π).
func (l Line) Angle() float64 {
	return l.Pt1.AngleTo(l.Pt2)
}

// Length returns the Euclidean length of the line.
func (l Line) Length() float64 {
	return l.Pt1.Dist(l.Pt2)
}

// InfiniteLine treats a Line as an infinite line for intersection purposes.
type InfiniteLine struct {
	Pt1, Pt2 Pt2D
}

// Infinite reinterprets l as an infinite line through its two points.
func (l Line) Infinite() InfiniteLine {
	return InfiniteLine{Pt1: l.Pt1, Pt2: l.Pt2}
}

// SegmentIntersection returns the intersection of two finite segments, if any,
// tolerant of shared endpoints (used by the turn-conflict test, §4.3).
func SegmentIntersection(a, b Line) (Pt2D, bool) {
	return lineIntersect(a.Pt1, a.Pt2, b.Pt1, b.Pt2, true)
}

// LineIntersection returns the intersection point of the lines through a
// and b, treating both as unbounded (the hit may lie outside either
// segment); parallel lines report false.
func LineIntersection(a, b Line) (Pt2D, bool) {
	return lineIntersect(a.Pt1, a.Pt2, b.Pt1, b.Pt2, false)
}

// InfiniteIntersection intersects two infinite lines.
func InfiniteIntersection(a, b InfiniteLine) (Pt2D, bool) {
	return lineIntersectRaw(a.Pt1, a.Pt2, b.Pt1, b.Pt2)
}

func lineIntersect(p1, p2, p3, p4 Pt2D, segmentBounded bool) (Pt2D, bool) {
	d1x, d1y := p2.X-p1.X, p2.Y-p1.Y
	d2x, d2y := p4.X-p3.X, p4.Y-p3.Y
	denom := d1x*d2y - d1y*d2x
	if math.Abs(denom) < 1e-12 {
		return Pt2D{}, false
	}
	t := ((p3.X-p1.X)*d2y - (p3.Y-p1.Y)*d2x) / denom
	u := ((p3.X-p1.X)*d1y - (p3.Y-p1.Y)*d1x) / denom
	const eps = 1e-9
	if segmentBounded {
		if t < -eps || t > 1+eps || u < -eps || u > 1+eps {
			return Pt2D{}, false
		}
	}
	return Pt2D{X: p1.X + t*d1x, Y: p1.Y + t*d1y}, true
}

func lineIntersectRaw(p1, p2, p3, p4 Pt2D) (Pt2D, bool) {
	return lineIntersect(p1, p2, p3, p4, false)
}
