// Package path stores path geometry shared by the rasterizer and the stroker.
package path

import "math"

// Point is a 2D point or vector.
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point        { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Sub(q Point) Point        { return Point{X: p.X - q.X, Y: p.Y - q.Y} }
func (p Point) Mul(s float64) Point      { return Point{X: p.X * s, Y: p.Y * s} }
func (p Point) Dot(q Point) float64      { return p.X*q.X + p.Y*q.Y }
func (p Point) Cross(q Point) float64    { return p.X*q.Y - p.Y*q.X }
func (p Point) Length() float64          { return math.Hypot(p.X, p.Y) }
func (p Point) Distance(q Point) float64 { return p.Sub(q).Length() }

// Lerp interpolates between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Perp returns p rotated 90 degrees counter-clockwise.
func (p Point) Perp() Point { return Point{X: -p.Y, Y: p.X} }

// Normalize returns a unit vector in the direction of p, or the zero vector.
func (p Point) Normalize() Point {
	l := p.Length()
	if l < 1e-12 {
		return Point{}
	}
	return Point{X: p.X / l, Y: p.Y / l}
}

// Verb is a path command.
type Verb uint8

const (
	MoveTo Verb = iota
	LineTo
	QuadTo
	CubeTo
	Close
)

// pointCount is the number of points each verb consumes.
var pointCount = [...]int{MoveTo: 1, LineTo: 1, QuadTo: 2, CubeTo: 3, Close: 0}

// Points returns the number of points v consumes.
func (v Verb) Points() int { return pointCount[v] }

// Path is a sequence of verbs and their points.
//
// A LineTo, QuadTo or CubeTo without a preceding MoveTo starts at the origin.
type Path struct {
	Verbs  []Verb
	Points []Point
}

func (p *Path) MoveTo(pt Point) {
	p.Verbs = append(p.Verbs, MoveTo)
	p.Points = append(p.Points, pt)
}

func (p *Path) LineTo(pt Point) {
	p.Verbs = append(p.Verbs, LineTo)
	p.Points = append(p.Points, pt)
}

func (p *Path) QuadTo(c, pt Point) {
	p.Verbs = append(p.Verbs, QuadTo)
	p.Points = append(p.Points, c, pt)
}

func (p *Path) CubeTo(c1, c2, pt Point) {
	p.Verbs = append(p.Verbs, CubeTo)
	p.Points = append(p.Points, c1, c2, pt)
}

func (p *Path) Close() {
	p.Verbs = append(p.Verbs, Close)
}

// Empty reports whether p has no verbs.
func (p *Path) Empty() bool { return len(p.Verbs) == 0 }

// Reset clears p, keeping its storage.
func (p *Path) Reset() {
	p.Verbs = p.Verbs[:0]
	p.Points = p.Points[:0]
}

// Clone returns a deep copy of p.
func (p *Path) Clone() *Path {
	return &Path{
		Verbs:  append([]Verb(nil), p.Verbs...),
		Points: append([]Point(nil), p.Points...),
	}
}

// Map returns a copy of p with every point passed through f.
func (p *Path) Map(f func(Point) Point) *Path {
	out := &Path{
		Verbs:  append([]Verb(nil), p.Verbs...),
		Points: make([]Point, len(p.Points)),
	}
	for i, pt := range p.Points {
		out.Points[i] = f(pt)
	}
	return out
}

// Bounds returns the bounding box of all points, including control points.
// ok is false for a path without points.
func (p *Path) Bounds() (lo, hi Point, ok bool) {
	if len(p.Points) == 0 {
		return Point{}, Point{}, false
	}
	lo, hi = p.Points[0], p.Points[0]
	for _, pt := range p.Points[1:] {
		lo.X = math.Min(lo.X, pt.X)
		lo.Y = math.Min(lo.Y, pt.Y)
		hi.X = math.Max(hi.X, pt.X)
		hi.Y = math.Max(hi.Y, pt.Y)
	}
	return lo, hi, true
}

// Walk calls fn for every verb with its points. The slice passed to fn is
// only valid during the call.
func (p *Path) Walk(fn func(v Verb, pts []Point)) {
	i := 0
	for _, v := range p.Verbs {
		n := v.Points()
		fn(v, p.Points[i:i+n])
		i += n
	}
}

// Polyline is a flattened subpath.
type Polyline struct {
	Points []Point
	Closed bool
}

// FromPolygons builds a path of closed line subpaths.
func FromPolygons(polys [][]Point) *Path {
	p := &Path{}
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		p.MoveTo(poly[0])
		for _, pt := range poly[1:] {
			p.LineTo(pt)
		}
		p.Close()
	}
	return p
}
