package swraster

import (
	"fmt"
	"image"

	"github.com/gogpu/swraster/internal/raster"
	"github.com/gogpu/swraster/scratch"
)

// Strategy selects how shape coverage is composited into the target.
// Both strategies produce identical coverage; they differ in where that
// coverage lives between rasterization and compositing.
type Strategy int

const (
	// StrategyDirect composites span by span straight from the coverage
	// accumulation buffer.
	StrategyDirect Strategy = iota
	// StrategyMask uploads coverage into a cached mask texture and fills
	// the target through it.
	StrategyMask
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyDirect:
		return "direct"
	case StrategyMask:
		return "mask"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy returns the strategy with the given name.
func ParseStrategy(name string) (Strategy, bool) {
	switch name {
	case "direct":
		return StrategyDirect, true
	case "mask":
		return StrategyMask, true
	}
	return StrategyDirect, false
}

// filler composites coverage for area through a shader.
type filler interface {
	fill(c *Context, cov *image.Alpha, area image.Rectangle, sh shader) error
}

func newFiller(s Strategy) filler {
	switch s {
	case StrategyDirect:
		return directFiller{}
	case StrategyMask:
		return maskFiller{}
	}
	contractf("unknown strategy %d", int(s))
	return nil
}

// directFiller composites non-zero coverage runs of the producer buffer.
type directFiller struct{}

func (directFiller) fill(c *Context, cov *image.Alpha, area image.Rectangle, sh shader) error {
	for y := 0; y < area.Dy(); y++ {
		raster.Spans(cov, y, func(x0, x1 int, row []uint8) {
			c.compositeSpan(area.Min.X+x0, area.Min.Y+y, row, sh)
		})
	}
	return nil
}

// maskFiller copies coverage into the scratch mask texture, then fills the
// target through the texture.
type maskFiller struct{}

func (maskFiller) fill(c *Context, cov *image.Alpha, area image.Rectangle, sh shader) error {
	w, h := area.Dx(), area.Dy()
	tex, err := c.scratch.Validate(scratch.KindMask, w, h)
	if err != nil {
		return fmt.Errorf("mask texture: %w", err)
	}
	mask := tex.Coverage()
	for y := range h {
		copy(mask.Pix[y*mask.Stride:y*mask.Stride+w], cov.Pix[y*cov.Stride:y*cov.Stride+w])
	}

	for y := range h {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		c.compositeSpan(area.Min.X, area.Min.Y+y, row, sh)
	}
	return nil
}
