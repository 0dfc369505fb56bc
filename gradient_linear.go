package swraster

// LinearGradient varies color along the line from (X0, Y0) to (X1, Y1),
// given in user space. Colors are constant along lines perpendicular to it.
//
// Example:
//
//	g := swraster.NewLinearGradient(0, 0, 100, 0).
//	    AddStop(swraster.Stop(0, 0xFF0000FF)).
//	    AddStop(swraster.Stop(1, 0xFFFF0000))
//	ctx.FillShape(p, nil, swraster.Identity(), clip, g)
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []GradientStop
	Cycle          CycleMethod
}

// NewLinearGradient creates a gradient from (x0, y0) to (x1, y1) with no
// stops and CycleNone.
func NewLinearGradient(x0, y0, x1, y1 float64) *LinearGradient {
	return &LinearGradient{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// AddStop appends a stop. Stops must be added in increasing order.
func (g *LinearGradient) AddStop(s GradientStop) *LinearGradient {
	g.Stops = append(g.Stops, s)
	return g
}

// SetCycle sets the cycle method.
func (g *LinearGradient) SetCycle(c CycleMethod) *LinearGradient {
	g.Cycle = c
	return g
}

func (g *LinearGradient) newShader(c *Context, inv Transform) (shader, error) {
	sh := &linearShader{
		rampShader: newRampShader(c.colorMap(g.Stops, g.Cycle)),
		inv:        inv,
		p0:         Pt(g.X0, g.Y0),
		d:          Pt(g.X1-g.X0, g.Y1-g.Y0),
	}
	if l2 := sh.d.Dot(sh.d); l2 > 0 {
		sh.invLen2 = 1 / l2
	}
	return sh, nil
}

type linearShader struct {
	rampShader
	inv     Transform
	p0, d   Point
	invLen2 float64
}

func (s *linearShader) shadeSpan(x, y int, dst []uint32) {
	if s.invLen2 == 0 {
		solidShader(s.last()).shadeSpan(x, y, dst)
		return
	}
	for i := range dst {
		p := devicePoint(s.inv, x+i, y)
		dst[i] = s.at(p.Sub(s.p0).Dot(s.d) * s.invLen2)
	}
}
