package swraster

// Sample accumulates four color channels during box-filtered sampling.
// Values from LSample are in [0, 1].
type Sample struct {
	R, G, B, A float32
}

// ARGB converts s, taken as premultiplied channels in [0, 1], to packed
// premultiplied ARGB. Channels are clamped to [0, 1] and to alpha.
func (s Sample) ARGB() uint32 {
	a := unit8(s.A)
	return a<<24 | min(unit8(s.R), a)<<16 | min(unit8(s.G), a)<<8 | min(unit8(s.B), a)
}

func unit8(v float32) uint32 {
	switch {
	case !(v > 0):
		return 0
	case v >= 1:
		return 255
	}
	return uint32(v*255 + 0.5)
}

// LSample box-filters the packed ARGB grid pix, w by h pixels with the given
// row stride, at normalized coordinates (x, y) in [0, 1]. The result
// channels are in [0, 1].
//
// The four pixels around the sample point are weighted by their overlap
// with a one pixel box centered on it. Pixels outside the grid are left
// out rather than clamped or wrapped, so samples near an edge lose weight.
func LSample(pix []uint32, w, h, stride int, x, y float32) Sample {
	var s Sample
	LAccumSample(pix, w, h, stride, x*float32(w), y*float32(h), 1, &s)
	return s
}

// LAccumSample adds factor times the box-filtered value of pix at pixel
// coordinates (x, y) to acc. Channels are scaled to [0, 1] before
// weighting. Out-of-grid neighbors are omitted as in LSample.
func LAccumSample(pix []uint32, w, h, stride int, x, y, factor float32, acc *Sample) {
	bilinear(w, h, x, y, func(i, j int, weight float32) {
		p := pix[j*stride+i]
		m := weight * factor / 255
		acc.R += float32(p>>16&0xff) * m
		acc.G += float32(p>>8&0xff) * m
		acc.B += float32(p&0xff) * m
		acc.A += float32(p>>24) * m
	})
}

// FSample box-filters a float attribute map at normalized coordinates.
// Each map element holds four floats, stored in order R, G, B, A at
// data[4*(y*stride+x):].
func FSample(data []float32, w, h, stride int, x, y float32) Sample {
	var s Sample
	FAccumSample(data, w, h, stride, x*float32(w), y*float32(h), 1, &s)
	return s
}

// FAccumSample adds factor times the box-filtered value of data at pixel
// coordinates (x, y) to acc.
func FAccumSample(data []float32, w, h, stride int, x, y, factor float32, acc *Sample) {
	bilinear(w, h, x, y, func(i, j int, weight float32) {
		e := data[4*(j*stride+i):]
		m := weight * factor
		acc.R += e[0] * m
		acc.G += e[1] * m
		acc.B += e[2] * m
		acc.A += e[3] * m
	})
}

// bilinear calls fn for the in-grid pixels under a one pixel box centered
// at (x, y), with their overlap weights. The coordinate is shifted by half
// a pixel before truncation so that truncation rounds the same way on both
// sides of zero.
func bilinear(w, h int, x, y float32, fn func(i, j int, weight float32)) {
	x += 0.5
	y += 0.5
	if !(x >= 0 && y >= 0) || x >= float32(w+1) || y >= float32(h+1) {
		return
	}
	ix, iy := int(x), int(y)
	fx, fy := x-float32(ix), y-float32(iy)
	fxy := fx * fy
	if iy < h {
		if ix < w {
			fn(ix, iy, fxy)
		}
		if ix > 0 {
			fn(ix-1, iy, fy-fxy)
		}
	}
	if iy > 0 {
		if ix < w {
			fn(ix, iy-1, fx-fxy)
		}
		if ix > 0 {
			fn(ix-1, iy-1, 1-fx-fy+fxy)
		}
	}
}
