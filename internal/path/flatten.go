package path

import "math"

// DefaultTolerance is the maximum distance from the curve for flattening,
// in device pixels.
const DefaultTolerance = 0.1

// maxDepth bounds curve subdivision so degenerate input cannot recurse forever.
const maxDepth = 16

// Flatten converts p into polylines with only straight segments. Each MoveTo
// starts a new polyline; Close marks the current one closed.
func Flatten(p *Path, tolerance float64) []Polyline {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	var (
		out     []Polyline
		cur     []Point
		current Point
		start   Point
	)
	flush := func(closed bool) {
		if len(cur) > 1 || (closed && len(cur) > 0) {
			out = append(out, Polyline{Points: cur, Closed: closed})
		}
		cur = nil
	}

	p.Walk(func(v Verb, pts []Point) {
		switch v {
		case MoveTo:
			flush(false)
			current, start = pts[0], pts[0]
			cur = append(cur, current)
		case LineTo:
			if len(cur) == 0 {
				cur = append(cur, current)
			}
			current = pts[0]
			cur = append(cur, current)
		case QuadTo:
			if len(cur) == 0 {
				cur = append(cur, current)
			}
			cur = flattenQuad(cur, current, pts[0], pts[1], tolerance, 0)
			current = pts[1]
		case CubeTo:
			if len(cur) == 0 {
				cur = append(cur, current)
			}
			cur = flattenCubic(cur, current, pts[0], pts[1], pts[2], tolerance, 0)
			current = pts[2]
		case Close:
			flush(true)
			current = start
		}
	})
	flush(false)
	return out
}

func flattenQuad(dst []Point, p0, p1, p2 Point, tolerance float64, depth int) []Point {
	if depth >= maxDepth || distanceToLine(p1, p0, p2) < tolerance {
		return append(dst, p2)
	}
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := q0.Lerp(q1, 0.5)
	dst = flattenQuad(dst, p0, q0, q2, tolerance, depth+1)
	return flattenQuad(dst, q2, q1, p2, tolerance, depth+1)
}

func flattenCubic(dst []Point, p0, p1, p2, p3 Point, tolerance float64, depth int) []Point {
	d := math.Max(distanceToLine(p1, p0, p3), distanceToLine(p2, p0, p3))
	if depth >= maxDepth || d < tolerance {
		return append(dst, p3)
	}
	// de Casteljau split at t = 0.5
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	s := r0.Lerp(r1, 0.5)
	dst = flattenCubic(dst, p0, q0, r0, s, tolerance, depth+1)
	return flattenCubic(dst, s, r1, q2, p3, tolerance, depth+1)
}

// distanceToLine returns the distance from p to the segment (a, b).
func distanceToLine(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < 1e-20 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	switch {
	case t < 0:
		return p.Distance(a)
	case t > 1:
		return p.Distance(b)
	}
	return p.Distance(a.Add(ab.Mul(t)))
}
