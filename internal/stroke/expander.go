package stroke

import (
	"math"
	"slices"

	"github.com/gogpu/swraster/internal/path"
)

// Point is a point in user space.
type Point = path.Point

// Cap specifies the shape of open subpath ends.
type Cap int

const (
	// CapButt ends the stroke flat at the endpoint.
	CapButt Cap = iota
	// CapRound adds a half circle of the stroke width at each end.
	CapRound
	// CapSquare extends the stroke by half its width past each end.
	CapSquare
)

// Join specifies the shape of corners between segments.
type Join int

const (
	// JoinMiter extends the outer edges until they meet, falling back to
	// a bevel beyond the miter limit.
	JoinMiter Join = iota
	// JoinRound fills the corner with a circular arc.
	JoinRound
	// JoinBevel cuts the corner with a straight line.
	JoinBevel
)

// Style defines the stroke geometry.
type Style struct {
	Width      float64
	Cap        Cap
	Join       Join
	MiterLimit float64
}

// DefaultStyle returns a one unit wide stroke with butt caps and miter joins.
func DefaultStyle() Style {
	return Style{Width: 1, Cap: CapButt, Join: JoinMiter, MiterLimit: 10}
}

// Expander converts polylines to fill polygons.
type Expander struct {
	style     Style
	tolerance float64
	out       [][]Point
}

// NewExpander creates an expander for style.
func NewExpander(style Style) *Expander {
	if style.MiterLimit < 1 {
		style.MiterLimit = 1
	}
	return &Expander{style: style, tolerance: 0.1}
}

// SetTolerance sets the maximum deviation of round joins and caps from the
// true circle. Non-positive values are ignored.
func (e *Expander) SetTolerance(tolerance float64) {
	if tolerance > 0 {
		e.tolerance = tolerance
	}
}

// Expand returns the polygons covering the stroked area of lines.
// A stroke of non-positive width covers nothing.
func (e *Expander) Expand(lines []path.Polyline) [][]Point {
	e.out = nil
	if !(e.style.Width > 0) {
		return nil
	}
	for _, l := range lines {
		e.expandOne(l)
	}
	return e.out
}

func (e *Expander) expandOne(l path.Polyline) {
	pts := dedup(l.Points, l.Closed)
	hw := e.style.Width / 2

	if len(pts) == 1 {
		e.dot(pts[0], hw)
		return
	}
	if len(pts) == 2 {
		// A closed two point path is the segment traced twice.
		l.Closed = false
	}

	n := len(pts)
	segs := n - 1
	if l.Closed {
		segs = n
	}
	for i := range segs {
		a, b := pts[i], pts[(i+1)%n]
		e.segment(a, b, hw)
	}

	if l.Closed {
		for i := range n {
			e.join(pts[(i+n-1)%n], pts[i], pts[(i+1)%n], hw)
		}
		return
	}
	for i := 1; i < n-1; i++ {
		e.join(pts[i-1], pts[i], pts[i+1], hw)
	}
	e.cap(pts[0], pts[0].Sub(pts[1]).Normalize(), hw)
	e.cap(pts[n-1], pts[n-1].Sub(pts[n-2]).Normalize(), hw)
}

// segment emits the rectangle around a-b.
func (e *Expander) segment(a, b Point, hw float64) {
	n := b.Sub(a).Normalize().Perp().Mul(hw)
	e.emit([]Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
}

// join emits the corner piece at p between segments prev-p and p-next.
func (e *Expander) join(prev, p, next Point, hw float64) {
	d0 := p.Sub(prev).Normalize()
	d1 := next.Sub(p).Normalize()
	cross := d0.Cross(d1)
	dot := d0.Dot(d1)
	if dot > 0 && math.Abs(cross) < 1e-9 {
		return
	}

	if e.style.Join == JoinRound {
		e.circle(p, hw)
		return
	}

	// The outer side of the turn is opposite the direction of rotation.
	side := 1.0
	if cross > 0 {
		side = -1
	}
	o0 := p.Add(d0.Perp().Mul(side * hw))
	o1 := p.Add(d1.Perp().Mul(side * hw))

	if e.style.Join == JoinMiter && dot > -1+1e-9 {
		ratio := math.Sqrt(2 / (1 + dot))
		if ratio <= e.style.MiterLimit {
			bis := o0.Sub(p).Add(o1.Sub(p)).Normalize()
			m := p.Add(bis.Mul(hw * ratio))
			e.emit([]Point{p, o0, m, o1})
			return
		}
	}
	e.emit([]Point{p, o0, o1})
}

// cap emits the end piece at p, where dir points away from the stroke.
func (e *Expander) cap(p, dir Point, hw float64) {
	switch e.style.Cap {
	case CapRound:
		e.circle(p, hw)
	case CapSquare:
		n := dir.Perp().Mul(hw)
		ext := dir.Mul(hw)
		e.emit([]Point{p.Add(n), p.Add(n).Add(ext), p.Sub(n).Add(ext), p.Sub(n)})
	}
}

// dot emits the piece for a zero-length subpath. Butt caps draw nothing.
func (e *Expander) dot(p Point, hw float64) {
	switch e.style.Cap {
	case CapRound:
		e.circle(p, hw)
	case CapSquare:
		e.emit([]Point{
			{X: p.X - hw, Y: p.Y - hw}, {X: p.X + hw, Y: p.Y - hw},
			{X: p.X + hw, Y: p.Y + hw}, {X: p.X - hw, Y: p.Y + hw},
		})
	}
}

// circle emits a polygon approximating a circle within the tolerance.
func (e *Expander) circle(c Point, r float64) {
	n := 8
	if r > e.tolerance {
		step := 2 * math.Acos(1-e.tolerance/r)
		n = max(8, min(256, int(math.Ceil(2*math.Pi/step))))
	}
	poly := make([]Point, n)
	for i := range n {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		poly[i] = Point{X: c.X + r*cos, Y: c.Y + r*sin}
	}
	e.emit(poly)
}

// emit appends poly with a positive signed area, dropping degenerate ones.
func (e *Expander) emit(poly []Point) {
	a := signedArea(poly)
	if math.Abs(a) < 1e-12 {
		return
	}
	if a < 0 {
		slices.Reverse(poly)
	}
	e.out = append(e.out, poly)
}

func signedArea(poly []Point) float64 {
	var s float64
	for i, p := range poly {
		q := poly[(i+1)%len(poly)]
		s += p.Cross(q)
	}
	return s / 2
}

// dedup drops consecutive duplicate points, and for closed polylines a
// trailing copy of the first point.
func dedup(pts []Point, closed bool) []Point {
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		if len(out) == 0 || p.Distance(out[len(out)-1]) > 1e-9 {
			out = append(out, p)
		}
	}
	if closed && len(out) > 1 && out[0].Distance(out[len(out)-1]) <= 1e-9 {
		out = out[:len(out)-1]
	}
	return out
}
