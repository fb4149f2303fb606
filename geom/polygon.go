package geom

import (
	"bytes"
	"encoding/gob"
	"sort"
)

// Polygon is a closed ring of points; by convention the first and last
// point are equal (see CloseOffPolygon).
type Polygon struct {
	pts []Pt2D
}

func NewPolygon(pts []Pt2D) Polygon {
	return Polygon{pts: append([]Pt2D{}, pts...)}
}

func (p Polygon) Points() []Pt2D { return p.pts }

func (p Polygon) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(p.pts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Polygon) GobDecode(data []byte) error {
	var pts []Pt2D
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&pts); err != nil {
		return err
	}
	p.pts = pts
	return nil
}

// CloseOffPolygon appends the first point to the end unless it's already
// (approximately) there, matching the teacher's close_off_polygon.
func CloseOffPolygon(pts []Pt2D) []Pt2D {
	if len(pts) == 0 {
		return pts
	}
	out := append([]Pt2D{}, pts...)
	if out[len(out)-1].ApproxEq(out[0], PolygonDedupeEpsilon) {
		out = out[:len(out)-1]
	}
	out = append(out, out[0])
	return out
}

// SortByAngleAround sorts pts (in place on a copy) by angle around center,
// used both to build an intersection polygon and as its self-crossing
// fallback (§4.1 Phase F.6).
func SortByAngleAround(pts []Pt2D, center Pt2D) []Pt2D {
	out := append([]Pt2D{}, pts...)
	sort.Slice(out, func(i, j int) bool {
		return NormalizedDegrees(center.AngleTo(out[i])) < NormalizedDegrees(center.AngleTo(out[j]))
	})
	return out
}

// IsSimple reports whether the polygon's edges do not cross themselves
// (ignoring edges that share an endpoint, as consecutive edges always do).
func (p Polygon) IsSimple() bool {
	n := len(p.pts)
	if n < 4 {
		return true
	}
	for i := 0; i < n-1; i++ {
		a := Line{Pt1: p.pts[i], Pt2: p.pts[i+1]}
		for j := i + 1; j < n-1; j++ {
			if j == i || (i == 0 && j == n-2) {
				continue // adjacent edges (including wraparound) share an endpoint
			}
			if j == i+1 {
				continue
			}
			b := Line{Pt1: p.pts[j], Pt2: p.pts[j+1]}
			if _, ok := SegmentIntersection(a, b); ok {
				return false
			}
		}
	}
	return true
}

// Contains reports whether pt lies within the polygon, using the standard
// ray-casting even-odd rule.
func (p Polygon) Contains(pt Pt2D) bool {
	n := len(p.pts)
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := p.pts[i], p.pts[j]
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) {
			xIntersect := (pj.X-pi.X)*(pt.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if pt.X < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

// Centroid returns the simple vertex-average centroid (sufficient for
// angle-sorting and "within union of thick bands" checks; not the
// area-weighted centroid).
func (p Polygon) Centroid() Pt2D {
	pts := p.pts
	if len(pts) > 1 && pts[0].ApproxEq(pts[len(pts)-1], EpsilonDist) {
		pts = pts[:len(pts)-1]
	}
	return Center(pts)
}
