package swraster

import "github.com/gogpu/swraster/internal/stroke"

// LineCap specifies the shape of the end of an open stroked subpath.
type LineCap int

const (
	// LineCapButt ends the stroke exactly at the endpoint.
	LineCapButt LineCap = iota
	// LineCapRound ends the stroke with a semicircle.
	LineCapRound
	// LineCapSquare ends the stroke with a half square past the endpoint.
	LineCapSquare
)

// LineJoin specifies the shape of corners in a stroked path.
type LineJoin int

const (
	// LineJoinMiter extends the outer edges to a sharp point.
	LineJoinMiter LineJoin = iota
	// LineJoinRound rounds the corner.
	LineJoinRound
	// LineJoinBevel cuts the corner off.
	LineJoinBevel
)

// String returns the cap name.
func (c LineCap) String() string {
	switch c {
	case LineCapButt:
		return "butt"
	case LineCapRound:
		return "round"
	case LineCapSquare:
		return "square"
	default:
		return "unknown"
	}
}

// String returns the join name.
func (j LineJoin) String() string {
	switch j {
	case LineJoinMiter:
		return "miter"
	case LineJoinRound:
		return "round"
	case LineJoinBevel:
		return "bevel"
	default:
		return "unknown"
	}
}

// ParseLineCap returns the cap with the given name.
func ParseLineCap(name string) (LineCap, bool) {
	for c := LineCapButt; c <= LineCapSquare; c++ {
		if c.String() == name {
			return c, true
		}
	}
	return LineCapButt, false
}

// ParseLineJoin returns the join with the given name.
func ParseLineJoin(name string) (LineJoin, bool) {
	for j := LineJoinMiter; j <= LineJoinBevel; j++ {
		if j.String() == name {
			return j, true
		}
	}
	return LineJoinMiter, false
}

// BasicStroke describes how the outline of a shape is stroked.
// Width is in user-space units.
type BasicStroke struct {
	Width      float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64

	// Dash alternates "on" and "off" lengths in user space. An empty Dash
	// draws a solid line. An odd number of entries is repeated once.
	Dash      []float64
	DashPhase float64
}

// DefaultStroke returns a solid one unit stroke with butt caps and miter
// joins at a miter limit of 10.
func DefaultStroke() *BasicStroke {
	return &BasicStroke{Width: 1, Cap: LineCapButt, Join: LineJoinMiter, MiterLimit: 10}
}

func (s *BasicStroke) style() stroke.Style {
	st := stroke.Style{
		Width:      s.Width,
		MiterLimit: s.MiterLimit,
	}
	switch s.Cap {
	case LineCapRound:
		st.Cap = stroke.CapRound
	case LineCapSquare:
		st.Cap = stroke.CapSquare
	default:
		st.Cap = stroke.CapButt
	}
	switch s.Join {
	case LineJoinRound:
		st.Join = stroke.JoinRound
	case LineJoinBevel:
		st.Join = stroke.JoinBevel
	default:
		st.Join = stroke.JoinMiter
	}
	return st
}
