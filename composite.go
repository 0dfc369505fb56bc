package swraster

import (
	"fmt"

	"github.com/gogpu/swraster/pixfmt"
)

// CompositeRule selects how filled colors combine with the target.
type CompositeRule int

const (
	// CompositeSrcOver blends the paint over the target pixels.
	CompositeSrcOver CompositeRule = iota
	// CompositeSrc replaces the target pixels with the paint. Partially
	// covered pixels interpolate between the target and the paint by
	// coverage.
	CompositeSrc
)

// String returns the rule name.
func (r CompositeRule) String() string {
	switch r {
	case CompositeSrcOver:
		return "src-over"
	case CompositeSrc:
		return "src"
	default:
		return fmt.Sprintf("CompositeRule(%d)", int(r))
	}
}

// ParseCompositeRule returns the rule with the given name.
func ParseCompositeRule(name string) (CompositeRule, bool) {
	switch name {
	case "src-over", "src_over":
		return CompositeSrcOver, true
	case "src":
		return CompositeSrc, true
	}
	return CompositeSrcOver, false
}

// div255 divides by 255 with rounding, exact for products of two bytes.
func div255(x uint32) uint32 {
	return (x*257 + 257) >> 16
}

// weights returns the coverage weight of the color channels and of alpha
// for a source of alpha sa. For an opaque source both are the same value.
func weights(cov, sa uint32) (k, aval uint32) {
	return ((cov + 1) * 255) >> 8, ((cov + 1) * sa) >> 8
}

// blendSrcOver composites premultiplied src with coverage cov over dst.
// Each channel is rounded once.
func blendSrcOver(src, dst uint32, cov uint8) uint32 {
	sa := src >> 24
	if cov == 0xff && sa == 0xff {
		return src
	}
	k, aval := weights(uint32(cov), sa)
	if aval == 0 {
		return dst
	}
	inv := 255 - aval
	return div255(255*aval+inv*(dst>>24))<<24 |
		div255((src>>16&0xff)*k+inv*(dst>>16&0xff))<<16 |
		div255((src>>8&0xff)*k+inv*(dst>>8&0xff))<<8 |
		div255((src&0xff)*k+inv*(dst&0xff))
}

// blendSrc replaces dst by premultiplied src, interpolating by cov.
func blendSrc(src, dst uint32, cov uint8) uint32 {
	if cov == 0xff {
		return src
	}
	k, aval := weights(uint32(cov), src>>24)
	inv := 255 - uint32(cov)
	if 255*aval+inv*(dst>>24) == 0 {
		return 0
	}
	return div255(255*aval+inv*(dst>>24))<<24 |
		div255((src>>16&0xff)*k+inv*(dst>>16&0xff))<<16 |
		div255((src>>8&0xff)*k+inv*(dst>>8&0xff))<<8 |
		div255((src&0xff)*k+inv*(dst&0xff))
}

// compositeSpan combines the shader's colors, weighted by cov, with the
// target pixels starting at device (x, y) under the context's rule.
// Pixels with zero coverage are left untouched.
func (c *Context) compositeSpan(x, y int, cov []uint8, sh shader) {
	if cap(c.span) < len(cov) {
		c.span = make([]uint32, len(cov))
	}
	colors := c.span[:len(cov)]
	sh.shadeSpan(x, y, colors)

	blend := blendSrcOver
	if c.rule == CompositeSrc {
		blend = blendSrc
	}
	buf := c.target.buf
	for i, a := range cov {
		if a == 0 {
			continue
		}
		px := x + i
		if buf.Layout == pixfmt.IntArgbPre {
			j := y*buf.Stride + px
			buf.Ints[j] = blend(colors[i], buf.Ints[j], a)
			continue
		}
		buf.SetPre(px, y, blend(colors[i], buf.AtPre(px, y), a))
	}
}
