package swraster

import (
	"fmt"
	"math"

	"github.com/gogpu/swraster/pixfmt"
	"github.com/gogpu/swraster/scratch"
)

// ImagePattern fills with an image tiled over user space. One copy of the
// image covers the rectangle (X, Y, Width, Height); the pattern repeats in
// both directions from there.
type ImagePattern struct {
	Image               *pixfmt.Buffer
	X, Y, Width, Height float64
}

// NewImagePattern creates a pattern drawing img at its natural size with
// the origin at (0, 0).
func NewImagePattern(img *pixfmt.Buffer) *ImagePattern {
	return &ImagePattern{Image: img, Width: float64(img.Width), Height: float64(img.Height)}
}

func (p *ImagePattern) newShader(c *Context, inv Transform) (shader, error) {
	if p.Image == nil {
		contractf("image pattern without an image")
	}
	w, h := p.Image.Width, p.Image.Height
	if w <= 0 || h <= 0 || !(p.Width > 0) || !(p.Height > 0) {
		return solidShader(0), nil
	}

	tex, err := c.scratch.Validate(scratch.KindImagePaint, w, h)
	if err != nil {
		return nil, fmt.Errorf("image pattern: %w", err)
	}
	dst := tex.Pixels()
	for y := range h {
		for x := range w {
			dst.SetPre(x, y, p.Image.AtPre(x, y))
		}
	}
	return &patternShader{
		inv:    inv,
		pix:    dst.Ints,
		stride: dst.Stride,
		w:      w,
		h:      h,
		x:      p.X, y: p.Y,
		sx: 1 / p.Width, sy: 1 / p.Height,
	}, nil
}

type patternShader struct {
	inv          Transform
	pix          []uint32
	stride, w, h int
	x, y, sx, sy float64
}

func (s *patternShader) shadeSpan(x, y int, dst []uint32) {
	for i := range dst {
		p := devicePoint(s.inv, x+i, y)
		u := (p.X - s.x) * s.sx
		v := (p.Y - s.y) * s.sy
		u -= math.Floor(u)
		v -= math.Floor(v)
		dst[i] = LSample(s.pix, s.w, s.h, s.stride, float32(u), float32(v)).ARGB()
	}
}
