package scene

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/swraster"
)

// ParseColor parses #RRGGBB or #AARRGGBB into non-premultiplied ARGB.
func ParseColor(s string) (uint32, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return 0, fmt.Errorf("color %q: want #RRGGBB or #AARRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v |= 0xff000000
	}
	return uint32(v), nil
}

type pathOp struct {
	verb byte
	args []float64
}

var pathArity = map[byte]int{'M': 2, 'L': 2, 'Q': 4, 'C': 6, 'Z': 0}

// parsePathData reads absolute path commands separated by white space or
// commas, such as "M 0 0 L 10 0 Q 15 5 10 10 Z".
func parsePathData(d string) ([]pathOp, error) {
	fields := strings.FieldsFunc(d, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	var ops []pathOp
	for i := 0; i < len(fields); {
		tok := fields[i]
		if len(tok) != 1 {
			return nil, fmt.Errorf("path: unexpected %q", tok)
		}
		verb := tok[0]
		n, ok := pathArity[verb]
		if !ok {
			return nil, fmt.Errorf("path: unknown command %q", tok)
		}
		if len(ops) == 0 && verb != 'M' {
			return nil, fmt.Errorf("path: must start with M, got %q", tok)
		}
		if i+n >= len(fields) {
			return nil, fmt.Errorf("path: %c needs %d numbers", verb, n)
		}
		args := make([]float64, n)
		for j := range n {
			v, err := strconv.ParseFloat(fields[i+1+j], 64)
			if err != nil {
				return nil, fmt.Errorf("path: %c: %w", verb, err)
			}
			args[j] = v
		}
		ops = append(ops, pathOp{verb: verb, args: args})
		i += 1 + n
	}
	if len(ops) == 0 {
		return nil, errors.New("path: no commands")
	}
	return ops, nil
}

// Path returns the shape outline in user space.
func (s *Shape) Path() (*swraster.Path, error) {
	p := swraster.NewPath()
	switch s.Kind {
	case "rect":
		p.Rectangle(s.X, s.Y, s.W, s.H)
	case "rounded_rect":
		p.RoundedRectangle(s.X, s.Y, s.W, s.H, s.R)
	case "circle":
		p.Circle(s.CX, s.CY, s.R)
	case "ellipse":
		p.Ellipse(s.CX, s.CY, s.RX, s.RY)
	case "polygon":
		pts := make([]swraster.Point, len(s.Points))
		for i, xy := range s.Points {
			if len(xy) != 2 {
				return nil, fmt.Errorf("polygon point %d has %d coordinates", i, len(xy))
			}
			pts[i] = swraster.Pt(xy[0], xy[1])
		}
		p.Polygon(pts...)
	case "path":
		ops, err := parsePathData(s.D)
		if err != nil {
			return nil, err
		}
		for _, op := range ops {
			a := op.args
			switch op.verb {
			case 'M':
				p.MoveTo(a[0], a[1])
			case 'L':
				p.LineTo(a[0], a[1])
			case 'Q':
				p.QuadTo(a[0], a[1], a[2], a[3])
			case 'C':
				p.CubicTo(a[0], a[1], a[2], a[3], a[4], a[5])
			case 'Z':
				p.Close()
			}
		}
	default:
		return nil, fmt.Errorf("unknown shape kind %q", s.Kind)
	}
	return p, nil
}

// transform returns the device transform of the shape for a scene drawn
// at the given scale.
func (s *Shape) transform(scale float64) swraster.Transform {
	base := swraster.Scale(scale, scale)
	t := s.Transform
	if t == nil {
		return base
	}
	if len(t.Perspective) == 9 {
		m := t.Perspective
		return swraster.Perspective{
			{scale * m[0], scale * m[1], scale * m[2]},
			{scale * m[3], scale * m[4], scale * m[5]},
			{m[6], m[7], m[8]},
		}
	}
	if len(t.Matrix) == 6 {
		m := t.Matrix
		return base.Multiply(swraster.Affine{A: m[0], B: m[1], C: m[2], D: m[3], E: m[4], F: m[5]})
	}

	m := base
	if len(t.Translate) == 2 {
		m = m.Multiply(swraster.Translate(t.Translate[0], t.Translate[1]))
	}
	if t.Rotate != 0 {
		m = m.Multiply(swraster.Rotate(t.Rotate * math.Pi / 180))
	}
	if len(t.Scale) == 2 {
		m = m.Multiply(swraster.Scale(t.Scale[0], t.Scale[1]))
	}
	return m
}

// clip returns the device clip of the shape, or bounds when none is set.
func (s *Shape) clip(scale float64, bounds image.Rectangle) image.Rectangle {
	if len(s.Clip) != 4 {
		return bounds
	}
	c := s.Clip
	return image.Rect(
		int(math.Floor(c[0]*scale)), int(math.Floor(c[1]*scale)),
		int(math.Ceil((c[0]+c[2])*scale)), int(math.Ceil((c[1]+c[3])*scale)),
	).Intersect(bounds)
}

// basicStroke converts the stroke description, or returns nil for fills.
func (s *Shape) basicStroke() (*swraster.BasicStroke, error) {
	if s.Stroke == nil {
		return nil, nil
	}
	st := swraster.DefaultStroke()
	st.Width = s.Stroke.Width
	if s.Stroke.Cap != "" {
		c, ok := swraster.ParseLineCap(s.Stroke.Cap)
		if !ok {
			return nil, fmt.Errorf("unknown cap %q", s.Stroke.Cap)
		}
		st.Cap = c
	}
	if s.Stroke.Join != "" {
		j, ok := swraster.ParseLineJoin(s.Stroke.Join)
		if !ok {
			return nil, fmt.Errorf("unknown join %q", s.Stroke.Join)
		}
		st.Join = j
	}
	if s.Stroke.MiterLimit > 0 {
		st.MiterLimit = s.Stroke.MiterLimit
	}
	st.Dash = s.Stroke.Dash
	st.DashPhase = s.Stroke.DashPhase
	return st, nil
}

// Build converts the paint description.
func (p *Paint) Build() (swraster.Paint, error) {
	switch {
	case p.Linear != nil:
		g := p.Linear
		if len(g.From) != 2 || len(g.To) != 2 {
			return nil, errors.New("linear gradient needs from and to points")
		}
		lg := swraster.NewLinearGradient(g.From[0], g.From[1], g.To[0], g.To[1])
		stops, cycle, err := g.stops()
		if err != nil {
			return nil, err
		}
		lg.Stops, lg.Cycle = stops, cycle
		return lg, nil
	case p.Radial != nil:
		g := p.Radial
		if len(g.Center) != 2 {
			return nil, errors.New("radial gradient needs a center")
		}
		rg := swraster.NewRadialGradient(g.Center[0], g.Center[1], g.Radius)
		if len(g.Focus) == 2 {
			rg.SetFocus(g.Focus[0], g.Focus[1])
		}
		stops, cycle, err := g.stops()
		if err != nil {
			return nil, err
		}
		rg.Stops, rg.Cycle = stops, cycle
		return rg, nil
	default:
		c, err := ParseColor(p.Color)
		if err != nil {
			return nil, err
		}
		return swraster.SolidColor(c), nil
	}
}

func (g *Gradient) stops() ([]swraster.GradientStop, swraster.CycleMethod, error) {
	cycle, ok := swraster.ParseCycleMethod(g.Cycle)
	if !ok {
		return nil, 0, fmt.Errorf("unknown cycle %q", g.Cycle)
	}
	stops := make([]swraster.GradientStop, len(g.Stops))
	for i, st := range g.Stops {
		if i > 0 && st.Offset < g.Stops[i-1].Offset {
			return nil, 0, fmt.Errorf("gradient stop %d is out of order", i)
		}
		c, err := ParseColor(st.Color)
		if err != nil {
			return nil, 0, err
		}
		stops[i] = swraster.Stop(st.Offset, c)
	}
	return stops, cycle, nil
}

// Filter builds the filter of the effect.
func (e *Effect) Filter() swraster.Filter {
	if e.Color != nil {
		return e.Color.matrix()
	}
	d := e.Displacement
	size := 1
	if d.Wave != nil {
		size = d.Wave.Size
		if size <= 0 {
			size = 64
		}
	}
	m := swraster.NewFloatMap(size, size)
	if w := d.Wave; w != nil {
		for y := range size {
			v := (float64(y) + 0.5) / float64(size)
			shift := float32(w.Amplitude * math.Sin(2*math.Pi*w.Period*v))
			for x := range size {
				m.Set(x, y, shift, 0, 0, 0)
			}
		}
	}

	f := swraster.NewDisplacementMap(m)
	if len(d.Scale) == 2 {
		f.ScaleX, f.ScaleY = float32(d.Scale[0]), float32(d.Scale[1])
	}
	if len(d.Offset) == 2 {
		f.OffsetX, f.OffsetY = float32(d.Offset[0]), float32(d.Offset[1])
	}
	f.Wrap = d.Wrap
	return f
}

func (c *Color) matrix() *swraster.ColorMatrix {
	m := swraster.NewColorMatrix()
	if c.Brightness != nil {
		m = m.Then(swraster.Brightness(float32(*c.Brightness)))
	}
	if c.Saturation != nil {
		m = m.Then(swraster.Saturation(float32(*c.Saturation)))
	}
	if c.Opacity != nil {
		m = m.Then(swraster.Opacity(float32(*c.Opacity)))
	}
	if c.Invert {
		m = m.Then(swraster.Invert())
	}
	return m
}
