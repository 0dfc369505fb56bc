// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster produces anti-aliased coverage for filled paths.
//
// Coverage is accumulated with the signed-area algorithm of
// golang.org/x/image/vector. Overlapping subpaths of the same orientation
// saturate instead of cancelling, so stroke outlines made of many
// overlapping pieces fill with the non-zero winding rule.
package raster

import (
	"image"
	"image/draw"

	"golang.org/x/image/vector"

	"github.com/gogpu/swraster/internal/path"
)

// Producer accumulates the coverage of one or more paths over a device
// area. A Producer is reused across shapes; Reset starts a new one.
type Producer struct {
	area image.Rectangle
	r    vector.Rasterizer
	pix  []uint8
	mask image.Alpha

	open      bool
	tolerance float64
}

// NewProducer returns a producer with an empty area.
func NewProducer() *Producer {
	return &Producer{tolerance: path.DefaultTolerance}
}

// SetTolerance sets the flattening tolerance, in device pixels, used for
// outlines that reach far outside the area. Non-positive values are ignored.
func (p *Producer) SetTolerance(tolerance float64) {
	if tolerance > 0 {
		p.tolerance = tolerance
	}
}

// Reset clears accumulated coverage and sets the device area to cover.
func (p *Producer) Reset(area image.Rectangle) {
	p.area = area.Canon()
	if p.area.Empty() {
		p.area = image.Rectangle{}
	}
	p.r.Reset(p.area.Dx(), p.area.Dy())
	p.r.DrawOp = draw.Src
	p.open = false
}

// Area returns the device area covered by the producer.
func (p *Producer) Area() image.Rectangle { return p.area }

// Fill adds the interior of pth, given in device coordinates, to the
// accumulated coverage. Open subpaths are closed implicitly.
//
// Outlines reaching more than a few pixels outside the area are flattened
// and clipped to a band around it first, keeping coordinates in the range
// the accumulator handles exactly. Subpaths with non-finite points are then
// ignored.
func (p *Producer) Fill(pth *path.Path) {
	if p.area.Empty() || pth == nil {
		return
	}
	if lo, hi, ok := pth.Bounds(); ok {
		if b := guardBand(p.area); !b.contains(lo, hi) {
			pth = clipToBand(pth, b, p.tolerance)
		}
	}
	ox, oy := float64(p.area.Min.X), float64(p.area.Min.Y)
	local := func(pt path.Point) (float32, float32) {
		return float32(pt.X - ox), float32(pt.Y - oy)
	}

	started := false
	pth.Walk(func(v path.Verb, pts []path.Point) {
		if !started && v != path.MoveTo {
			x, y := local(path.Point{})
			p.r.MoveTo(x, y)
		}
		started = true

		switch v {
		case path.MoveTo:
			p.closeOpen()
			x, y := local(pts[0])
			p.r.MoveTo(x, y)
		case path.LineTo:
			x, y := local(pts[0])
			p.r.LineTo(x, y)
			p.open = true
		case path.QuadTo:
			bx, by := local(pts[0])
			cx, cy := local(pts[1])
			p.r.QuadTo(bx, by, cx, cy)
			p.open = true
		case path.CubeTo:
			bx, by := local(pts[0])
			cx, cy := local(pts[1])
			dx, dy := local(pts[2])
			p.r.CubeTo(bx, by, cx, cy, dx, dy)
			p.open = true
		case path.Close:
			p.closeOpen()
		}
	})
	p.closeOpen()
}

func (p *Producer) closeOpen() {
	if p.open {
		p.r.ClosePath()
		p.open = false
	}
}

// Coverage resolves the accumulated coverage into an alpha image whose
// origin is the top-left corner of Area. The returned image is owned by
// the producer and is valid until the next Reset or Coverage call.
func (p *Producer) Coverage() *image.Alpha {
	w, h := p.area.Dx(), p.area.Dy()
	n := w * h
	if cap(p.pix) < n {
		p.pix = make([]uint8, n)
	}
	p.mask = image.Alpha{Pix: p.pix[:n], Stride: w, Rect: image.Rect(0, 0, w, h)}
	if n > 0 {
		p.r.Draw(&p.mask, p.mask.Rect, image.Opaque, image.Point{})
	}
	return &p.mask
}

// Spans calls fn for each maximal run of non-zero coverage in row y of
// cov, with x0 inclusive and x1 exclusive.
func Spans(cov *image.Alpha, y int, fn func(x0, x1 int, row []uint8)) {
	b := cov.Rect
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	off := cov.PixOffset(b.Min.X, y)
	row := cov.Pix[off : off+b.Dx()]
	for x := 0; x < len(row); {
		if row[x] == 0 {
			x++
			continue
		}
		start := x
		for x < len(row) && row[x] != 0 {
			x++
		}
		fn(b.Min.X+start, b.Min.X+x, row[start:x])
	}
}
