package swraster

import "math"

// maxFocus is the largest focus distance as a fraction of the radius.
// A focus on the circle itself makes the gradient degenerate.
const maxFocus = 0.99

// RadialGradient varies color from the focus point (FX, FY) outward to the
// circle of the given Radius around (CX, CY), all in user space. A focus
// outside the circle is moved just inside it.
type RadialGradient struct {
	CX, CY, Radius float64
	FX, FY         float64
	Stops          []GradientStop
	Cycle          CycleMethod
}

// NewRadialGradient creates a gradient on the circle at (cx, cy) with the
// focus at its center.
func NewRadialGradient(cx, cy, radius float64) *RadialGradient {
	return &RadialGradient{CX: cx, CY: cy, Radius: radius, FX: cx, FY: cy}
}

// SetFocus moves the focus point.
func (g *RadialGradient) SetFocus(fx, fy float64) *RadialGradient {
	g.FX, g.FY = fx, fy
	return g
}

// AddStop appends a stop. Stops must be added in increasing order.
func (g *RadialGradient) AddStop(s GradientStop) *RadialGradient {
	g.Stops = append(g.Stops, s)
	return g
}

// SetCycle sets the cycle method.
func (g *RadialGradient) SetCycle(c CycleMethod) *RadialGradient {
	g.Cycle = c
	return g
}

func (g *RadialGradient) newShader(c *Context, inv Transform) (shader, error) {
	sh := &radialShader{
		rampShader: newRampShader(c.colorMap(g.Stops, g.Cycle)),
		inv:        inv,
		r:          g.Radius,
	}
	center := Pt(g.CX, g.CY)
	focus := Pt(g.FX, g.FY)
	if off := focus.Sub(center); off.Length() > maxFocus*g.Radius {
		focus = center.Add(off.Normalize().Mul(maxFocus * g.Radius))
	}
	sh.f = focus
	sh.w = focus.Sub(center)
	sh.c = sh.w.Dot(sh.w) - g.Radius*g.Radius
	return sh, nil
}

type radialShader struct {
	rampShader
	inv Transform
	f   Point
	w   Point   // focus minus center
	c   float64 // |w|² - r²
	r   float64
}

// param returns the gradient parameter at user-space point p: the distance
// from the focus to p relative to the distance from the focus to the
// circle along the same ray.
func (s *radialShader) param(p Point) float64 {
	v := p.Sub(s.f)
	vv := v.Dot(v)
	if vv == 0 {
		return 0
	}
	wv := s.w.Dot(v)
	disc := wv*wv - vv*s.c
	k := (-wv + math.Sqrt(math.Max(disc, 0))) / vv
	if k <= 0 {
		return 1
	}
	return 1 / k
}

func (s *radialShader) shadeSpan(x, y int, dst []uint32) {
	if !(s.r > 0) {
		solidShader(s.last()).shadeSpan(x, y, dst)
		return
	}
	for i := range dst {
		dst[i] = s.at(s.param(devicePoint(s.inv, x+i, y)))
	}
}
