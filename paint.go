package swraster

import (
	"math"

	"github.com/gogpu/swraster/pixfmt"
)

// Paint describes how the interior of a shape is colored.
//
// The implementations are [SolidColor], [*LinearGradient],
// [*RadialGradient] and [*ImagePattern].
type Paint interface {
	// newShader prepares the paint for one fill. inv maps device space to
	// the paint's user space.
	newShader(c *Context, inv Transform) (shader, error)
}

// shader produces premultiplied ARGB colors for a horizontal run of device
// pixels starting at (x, y). Colors are evaluated at pixel centers.
type shader interface {
	shadeSpan(x, y int, dst []uint32)
}

// SolidColor is a uniform non-premultiplied ARGB color.
type SolidColor uint32

func (s SolidColor) newShader(*Context, Transform) (shader, error) {
	return solidShader(pixfmt.Premultiply(uint32(s))), nil
}

type solidShader uint32

func (s solidShader) shadeSpan(_, _ int, dst []uint32) {
	for i := range dst {
		dst[i] = uint32(s)
	}
}

// GradientStop is a color at a 16.16 fixed-point position along a
// gradient, in [0, FractionOne].
type GradientStop struct {
	Fraction int
	Color    uint32
}

// Stop returns a gradient stop at offset in [0, 1].
func Stop(offset float64, argb uint32) GradientStop {
	return GradientStop{Fraction: fraction(offset), Color: argb}
}

// fraction converts a gradient parameter to 16.16 fixed point. The result
// is limited to a range that fits in 32 bits.
func fraction(t float64) int {
	const limit = 1 << 15
	switch {
	case math.IsNaN(t):
		return 0
	case t < -limit:
		t = -limit
	case t > limit:
		t = limit
	}
	return int(math.Floor(t * FractionOne))
}

// rampShader holds a premultiplied copy of a color map's ramp.
type rampShader struct {
	cmap *GradientColorMap
	pre  [rampSize]uint32
}

func newRampShader(cmap *GradientColorMap) rampShader {
	rs := rampShader{cmap: cmap}
	for i := range rs.pre {
		rs.pre[i] = pixfmt.Premultiply(cmap.Color(i))
	}
	return rs
}

// at returns the premultiplied color for the gradient parameter t.
func (rs *rampShader) at(t float64) uint32 {
	return rs.pre[rs.cmap.Pad(fraction(t))>>8]
}

// last returns the premultiplied color of the final stop.
func (rs *rampShader) last() uint32 {
	return rs.pre[rampSize-1]
}

// devicePoint returns the center of device pixel (x, y) in user space.
func devicePoint(inv Transform, x, y int) Point {
	return inv.Apply(Point{X: float64(x) + 0.5, Y: float64(y) + 0.5})
}
