// Package geom provides the 2-D geometry primitives the map pipeline is
// built on: points, polylines, polygons, and the shift/intersect/angle
// operations the intersection-trimming algorithm needs.
package geom

import (
	"fmt"
	"math"
)

// EpsilonDist is the tolerance used everywhere two points are compared
// for practical equality (§5c).
const EpsilonDist = 0.1 / 1000.0 // 0.1 mm, in meters

// PolygonDedupeEpsilon is the tolerance used when deduplicating polygon
// vertices produced by intersection trimming (§5c, §4.1 Phase F.6).
const PolygonDedupeEpsilon = 0.1 // meters

// Pt2D is a point in a projected, meters-based plane.
type Pt2D struct {
	X, Y float64
}

func (p Pt2D) String() string {
	return fmt.Sprintf("Pt2D(%.2f, %.2f)", p.X, p.Y)
}

// ApproxEq reports whether p and o are within the given distance of each other.
func (p Pt2D) ApproxEq(o Pt2D, within float64) bool {
	return p.Dist(o) <= within
}

// Dist returns the Euclidean distance between p and o.
func (p Pt2D) Dist(o Pt2D) float64 {
	dx, dy := p.X-o.X, p.Y-o.Y
	return math.Hypot(dx, dy)
}

// AngleTo returns the angle in radians of the ray from p to o, in [0, 2π).
func (p Pt2D) AngleTo(o Pt2D) float64 {
	a := math.Atan2(o.Y-p.Y, o.X-p.X)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// ProjectAway returns the point `dist` away from p in direction `angle` (radians).
func (p Pt2D) ProjectAway(dist, angle float64) Pt2D {
	return Pt2D{X: p.X + dist*math.Cos(angle), Y: p.Y + dist*math.Sin(angle)}
}

// Center returns the arithmetic mean of pts. Panics on an empty slice.
func Center(pts []Pt2D) Pt2D {
	if len(pts) == 0 {
		panic("geom.Center: empty point list")
	}
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pts))
	return Pt2D{X: sx / n, Y: sy / n}
}

// ApproxDedupe drops every point that lies within `within` of a point
// already kept, keeping the earliest one. The kept points stay in input
// order; no sorting is done.
func ApproxDedupe(pts []Pt2D, within float64) []Pt2D {
	if len(pts) == 0 {
		return nil
	}
	out := make([]Pt2D, 0, len(pts))
	for _, p := range pts {
		dup := false
		for _, q := range out {
			if p.ApproxEq(q, within) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

// RotateDegrees adds `deg` degrees to an angle expressed in radians.
func RotateDegrees(angleRad, deg float64) float64 {
	return angleRad + deg*math.Pi/180.0
}

// NormalizedDegrees returns the angle in [0, 360).
func NormalizedDegrees(angleRad float64) float64 {
	d := angleRad * 180.0 / math.Pi
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
