package geom

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"
)

// PolyLine is an ordered, non-degenerate sequence of points.
type PolyLine struct {
	pts []Pt2D
}

// NewPolyLine builds a PolyLine, panicking on fewer than two points
// (mirrors the teacher's defensive style of panicking on invariant
// violations it considers a construction bug, not recoverable input).
func NewPolyLine(pts []Pt2D) PolyLine {
	if len(pts) < 2 {
		panic(fmt.Sprintf("geom.NewPolyLine: need >=2 points, got %d", len(pts)))
	}
	return PolyLine{pts: append([]Pt2D{}, pts...)}
}

func (pl PolyLine) Points() []Pt2D { return pl.pts }

// GobEncode/GobDecode expose the point slice for serialization, since
// the pts field itself is unexported (§6: cooked-map blobs carry real
// PolyLine values, not just their rendered points).
func (pl PolyLine) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(pl.pts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pl *PolyLine) GobDecode(data []byte) error {
	var pts []Pt2D
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&pts); err != nil {
		return err
	}
	pl.pts = pts
	return nil
}
func (pl PolyLine) FirstPt() Pt2D  { return pl.pts[0] }
func (pl PolyLine) LastPt() Pt2D   { return pl.pts[len(pl.pts)-1] }

// Lengths returns the cumulative length at each vertex (len(pts) entries,
// Lengths()[0] == 0).
func (pl PolyLine) Lengths() []float64 {
	out := make([]float64, len(pl.pts))
	for i := 1; i < len(pl.pts); i++ {
		out[i] = out[i-1] + pl.pts[i-1].Dist(pl.pts[i])
	}
	return out
}

// Length returns the total length of the polyline.
func (pl PolyLine) Length() float64 {
	lens := pl.Lengths()
	return lens[len(lens)-1]
}

// LastLine returns the final segment of the polyline.
func (pl PolyLine) LastLine() Line {
	n := len(pl.pts)
	return Line{Pt1: pl.pts[n-2], Pt2: pl.pts[n-1]}
}

// Reversed returns the polyline walked back to front.
func (pl PolyLine) Reversed() PolyLine {
	out := make([]Pt2D, len(pl.pts))
	for i, p := range pl.pts {
		out[len(pl.pts)-1-i] = p
	}
	return PolyLine{pts: out}
}

// SecondHalf returns the polyline sliced from its midpoint (by distance)
// to its end; used to avoid matching shifted bands at the wrong end when
// two roads share both endpoints (§4.1 Phase F.4 special case).
func (pl PolyLine) SecondHalf() PolyLine {
	half := pl.Length() / 2
	return pl.ExactSlice(half, pl.Length())
}

// ExactSlice returns the sub-polyline spanning distance [from, to] along pl.
func (pl PolyLine) ExactSlice(from, to float64) PolyLine {
	if to < from {
		panic("geom.PolyLine.ExactSlice: to < from")
	}
	lens := pl.Lengths()
	total := lens[len(lens)-1]
	if from < -EpsilonDist || to > total+EpsilonDist {
		panic(fmt.Sprintf("geom.PolyLine.ExactSlice: [%f,%f] out of bounds for length %f", from, to, total))
	}
	from = math.Max(0, from)
	to = math.Min(total, to)

	var out []Pt2D
	for i := 0; i < len(pl.pts); i++ {
		if lens[i] >= from && len(out) == 0 {
			if lens[i] > from && i > 0 {
				out = append(out, blendAt(pl.pts, lens, from))
			} else {
				out = append(out, pl.pts[i])
			}
		}
		if len(out) > 0 && lens[i] > from && lens[i] < to {
			out = append(out, pl.pts[i])
		}
		if lens[i] >= to {
			out = append(out, blendAt(pl.pts, lens, to))
			break
		}
	}
	if len(out) < 2 {
		out = []Pt2D{blendAt(pl.pts, lens, from), blendAt(pl.pts, lens, to)}
	}
	return PolyLine{pts: dedupeConsecutive(out)}
}

func blendAt(pts []Pt2D, lens []float64, s float64) Pt2D {
	for i := 1; i < len(pts); i++ {
		if s <= lens[i]+1e-9 {
			segLen := lens[i] - lens[i-1]
			if segLen < 1e-12 {
				return pts[i]
			}
			k := (s - lens[i-1]) / segLen
			return Blend(pts[i-1], pts[i], k)
		}
	}
	return pts[len(pts)-1]
}

func dedupeConsecutive(pts []Pt2D) []Pt2D {
	out := pts[:0:0]
	for i, p := range pts {
		if i == 0 || p.Dist(pts[i-1]) > EpsilonDist {
			out = append(out, p)
		}
	}
	return out
}

// Blend linearly interpolates between a and b by fraction k in [0,1].
func Blend(a, b Pt2D, k float64) Pt2D {
	return Pt2D{X: a.X + (b.X-a.X)*k, Y: a.Y + (b.Y-a.Y)*k}
}

// ShiftRight offsets every point of pl by `width` to the right of the
// direction of travel (positive width). ShiftLeft is the mirror.
func (pl PolyLine) ShiftRight(width float64) PolyLine {
	return pl.shift(width)
}

func (pl PolyLine) ShiftLeft(width float64) PolyLine {
	return pl.shift(-width)
}

// shift performs a per-segment perpendicular offset and reconnects
// consecutive segments at their new intersection (or averages at sharp
// turns) -- a simplified analogue of abstreet's PolyLine::shift_with_corrections.
func (pl PolyLine) shift(width float64) PolyLine {
	if width == 0 {
		return pl
	}
	n := len(pl.pts)
	segs := make([]Line, n-1)
	for i := 0; i < n-1; i++ {
		a, b := pl.pts[i], pl.pts[i+1]
		angle := a.AngleTo(b)
		normal := angle - math.Pi/2
		offset := Pt2D{X: width * math.Cos(normal), Y: width * math.Sin(normal)}
		segs[i] = Line{
			Pt1: Pt2D{X: a.X + offset.X, Y: a.Y + offset.Y},
			Pt2: Pt2D{X: b.X + offset.X, Y: b.Y + offset.Y},
		}
	}
	out := make([]Pt2D, 0, n)
	out = append(out, segs[0].Pt1)
	for i := 0; i < len(segs)-1; i++ {
		if hit, ok := InfiniteIntersection(segs[i].Infinite(), segs[i+1].Infinite()); ok {
			out = append(out, hit)
		} else {
			out = append(out, Blend(segs[i].Pt2, segs[i+1].Pt1, 0.5))
		}
	}
	out = append(out, segs[len(segs)-1].Pt2)
	return PolyLine{pts: dedupeConsecutive(out)}
}

// Intersection returns the first point at which pl crosses o, tolerant of
// shared endpoints, along with the angle of pl's segment at the hit.
func (pl PolyLine) Intersection(o PolyLine) (Pt2D, float64, bool) {
	for i := 0; i < len(pl.pts)-1; i++ {
		segA := Line{Pt1: pl.pts[i], Pt2: pl.pts[i+1]}
		for j := 0; j < len(o.pts)-1; j++ {
			segB := Line{Pt1: o.pts[j], Pt2: o.pts[j+1]}
			if hit, ok := SegmentIntersection(segA, segB); ok {
				return hit, segA.Angle(), true
			}
		}
	}
	return Pt2D{}, 0, false
}

// IntersectionInfinite intersects pl (as a sequence of finite segments,
// tested in order) against an infinite line, returning the distance along
// pl at the first hit.
func (pl PolyLine) IntersectionInfinite(o InfiniteLine) (float64, bool) {
	lens := pl.Lengths()
	for i := 0; i < len(pl.pts)-1; i++ {
		seg := Line{Pt1: pl.pts[i], Pt2: pl.pts[i+1]}
		if hit, ok := lineIntersect(seg.Pt1, seg.Pt2, o.Pt1, o.Pt2, false); ok {
			// clamp the hit to this segment; report false if it lands outside.
			segLen := seg.Length()
			if segLen < 1e-12 {
				continue
			}
			t := seg.Pt1.Dist(hit) / segLen
			if t < -1e-6 || t > 1+1e-6 {
				continue
			}
			return lens[i] + seg.Pt1.Dist(hit), true
		}
	}
	return 0, false
}

// GetSliceEndingAt returns the prefix of pl up to distance `to`, or false
// if `to` is out of range.
func (pl PolyLine) GetSliceEndingAt(to float64) (PolyLine, bool) {
	if to < -EpsilonDist || to > pl.Length()+EpsilonDist {
		return PolyLine{}, false
	}
	return pl.ExactSlice(0, math.Max(0, math.Min(to, pl.Length()))), true
}

// SafeDistAlong returns the point `dist` along pl plus the tangent angle
// there, or false if pl is shorter than dist.
func (pl PolyLine) SafeDistAlong(dist float64) (Pt2D, float64, bool) {
	if dist > pl.Length()+EpsilonDist {
		return Pt2D{}, 0, false
	}
	lens := pl.Lengths()
	for i := 1; i < len(lens); i++ {
		if dist <= lens[i]+1e-9 {
			segLen := lens[i] - lens[i-1]
			var k float64
			if segLen > 1e-12 {
				k = (dist - lens[i-1]) / segLen
			}
			return Blend(pl.pts[i-1], pl.pts[i], k), Line{Pt1: pl.pts[i-1], Pt2: pl.pts[i]}.Angle(), true
		}
	}
	return pl.LastPt(), pl.LastLine().Angle(), true
}

// PolylineDirection is the tangent angle of one segment of a polyline.
type PolylineDirection struct {
	Direction float64
}

// Directions returns the tangent angle of each segment (len(pts)-1 entries).
func (pl PolyLine) Directions() []PolylineDirection {
	out := make([]PolylineDirection, len(pl.pts)-1)
	for i := range out {
		out[i] = PolylineDirection{Direction: Line{Pt1: pl.pts[i], Pt2: pl.pts[i+1]}.Angle()}
	}
	return out
}

// ClosestS projects pos onto pl and returns the distance along pl of the
// closest point.
func (pl PolyLine) ClosestS(pos Pt2D) float64 {
	lens := pl.Lengths()
	best, bestDist := 0.0, math.Inf(1)
	for i := 0; i < len(pl.pts)-1; i++ {
		a, b := pl.pts[i], pl.pts[i+1]
		segLen := a.Dist(b)
		var t float64
		if segLen > 1e-12 {
			t = ((pos.X-a.X)*(b.X-a.X) + (pos.Y-a.Y)*(b.Y-a.Y)) / (segLen * segLen)
		}
		t = math.Max(0, math.Min(1, t))
		proj := Blend(a, b, t)
		d := proj.Dist(pos)
		if d < bestDist {
			bestDist = d
			best = lens[i] + t*segLen
		}
	}
	return best
}
