package swraster

import (
	"math"

	"github.com/gogpu/swraster/internal/path"
)

// kappa is the control point distance for a cubic quarter circle.
const kappa = 0.5522847498307936

// Path represents a vector shape made of subpaths of lines and Bézier
// curves. The zero value is an empty path ready to use.
type Path struct {
	p path.Path
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.p.MoveTo(Pt(x, y))
}

// LineTo adds a line to (x, y).
func (p *Path) LineTo(x, y float64) {
	p.p.LineTo(Pt(x, y))
}

// QuadTo adds a quadratic Bézier curve with control point (cx, cy).
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.p.QuadTo(Pt(cx, cy), Pt(x, y))
}

// CubicTo adds a cubic Bézier curve with control points (c1x, c1y) and
// (c2x, c2y).
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.p.CubeTo(Pt(c1x, c1y), Pt(c2x, c2y), Pt(x, y))
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.p.Close()
}

// Reset removes all subpaths.
func (p *Path) Reset() {
	p.p.Reset()
}

// IsEmpty reports whether the path has no segments.
func (p *Path) IsEmpty() bool {
	return p == nil || p.p.Empty()
}

// Bounds returns the bounding box of the path's points, control points
// included. ok is false for an empty path.
func (p *Path) Bounds() (lo, hi Point, ok bool) {
	return p.raw().Bounds()
}

// Clone returns a deep copy of the path.
func (p *Path) Clone() *Path {
	return &Path{p: *p.p.Clone()}
}

// Rectangle adds a closed axis-aligned rectangle.
func (p *Path) Rectangle(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// RoundedRectangle adds a closed rectangle with corners of radius r.
func (p *Path) RoundedRectangle(x, y, w, h, r float64) {
	r = math.Min(r, math.Min(w, h)/2)
	if r <= 0 {
		p.Rectangle(x, y, w, h)
		return
	}
	k := r * kappa
	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.CubicTo(x+w-r+k, y, x+w, y+r-k, x+w, y+r)
	p.LineTo(x+w, y+h-r)
	p.CubicTo(x+w, y+h-r+k, x+w-r+k, y+h, x+w-r, y+h)
	p.LineTo(x+r, y+h)
	p.CubicTo(x+r-k, y+h, x, y+h-r+k, x, y+h-r)
	p.LineTo(x, y+r)
	p.CubicTo(x, y+r-k, x+r-k, y, x+r, y)
	p.Close()
}

// Ellipse adds a closed ellipse centered at (cx, cy).
func (p *Path) Ellipse(cx, cy, rx, ry float64) {
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	p.CubicTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	p.CubicTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	p.CubicTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	p.Close()
}

// Circle adds a closed circle.
func (p *Path) Circle(cx, cy, r float64) {
	p.Ellipse(cx, cy, r, r)
}

// Polygon adds a closed polygon through pts. Fewer than two points add
// nothing.
func (p *Path) Polygon(pts ...Point) {
	if len(pts) < 2 {
		return
	}
	p.p.MoveTo(pts[0])
	for _, pt := range pts[1:] {
		p.p.LineTo(pt)
	}
	p.p.Close()
}

// raw returns the internal representation. A nil path is empty.
func (p *Path) raw() *path.Path {
	if p == nil {
		return &path.Path{}
	}
	return &p.p
}
