// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"image"
	"math"

	"github.com/gogpu/swraster/internal/path"
)

// guard is the width in pixels of the band kept around the producer area
// when outlines are clipped. Edges moved onto the band boundary lie outside
// the area, so they change no covered pixel.
const guard = 2

// band is a clip rectangle in device coordinates.
type band struct {
	minX, minY, maxX, maxY float64
}

func guardBand(area image.Rectangle) band {
	return band{
		minX: float64(area.Min.X - guard),
		minY: float64(area.Min.Y - guard),
		maxX: float64(area.Max.X + guard),
		maxY: float64(area.Max.Y + guard),
	}
}

// contains reports whether [lo, hi] lies inside the band.
func (b band) contains(lo, hi path.Point) bool {
	return lo.X >= b.minX && lo.Y >= b.minY && hi.X <= b.maxX && hi.Y <= b.maxY
}

// Sides of the band, one per Sutherland-Hodgman pass.
const (
	sideLeft = iota
	sideRight
	sideTop
	sideBottom
)

func (b band) inside(p path.Point, side int) bool {
	switch side {
	case sideLeft:
		return p.X >= b.minX
	case sideRight:
		return p.X <= b.maxX
	case sideTop:
		return p.Y >= b.minY
	default:
		return p.Y <= b.maxY
	}
}

// cross returns the point where segment (p, q) meets the line of side.
// p and q lie on opposite sides of it.
func (b band) cross(p, q path.Point, side int) path.Point {
	switch side {
	case sideLeft, sideRight:
		x := b.minX
		if side == sideRight {
			x = b.maxX
		}
		t := (x - p.X) / (q.X - p.X)
		return path.Point{X: x, Y: p.Y + t*(q.Y-p.Y)}
	default:
		y := b.minY
		if side == sideBottom {
			y = b.maxY
		}
		t := (y - p.Y) / (q.Y - p.Y)
		return path.Point{X: p.X + t*(q.X-p.X), Y: y}
	}
}

// clipPolygon clips the closed polygon poly to the band. Parts outside are
// replaced by runs along the band boundary, so the winding number of every
// point inside the band is unchanged. It returns nil when nothing is left.
func (b band) clipPolygon(poly []path.Point) []path.Point {
	in := poly
	for side := sideLeft; side <= sideBottom; side++ {
		out := make([]path.Point, 0, len(in)+2)
		for i, q := range in {
			p := in[(i+len(in)-1)%len(in)]
			pin, qin := b.inside(p, side), b.inside(q, side)
			switch {
			case pin && qin:
				out = append(out, q)
			case pin:
				out = append(out, b.cross(p, q, side))
			case qin:
				out = append(out, b.cross(p, q, side), q)
			}
		}
		if len(out) < 3 {
			return nil
		}
		in = out
	}
	return in
}

func finite(poly []path.Point) bool {
	for _, p := range poly {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}

// clipToBand returns pth flattened and clipped to b. Subpaths with
// non-finite points are dropped.
func clipToBand(pth *path.Path, b band, tolerance float64) *path.Path {
	var polys [][]path.Point
	for _, l := range path.Flatten(pth, tolerance) {
		if len(l.Points) < 3 || !finite(l.Points) {
			continue
		}
		if poly := b.clipPolygon(l.Points); poly != nil {
			polys = append(polys, poly)
		}
	}
	return path.FromPolygons(polys)
}
