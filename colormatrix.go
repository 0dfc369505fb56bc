package swraster

import (
	"fmt"
	"math"

	"github.com/gogpu/swraster/backend"
	"github.com/gogpu/swraster/pixfmt"
)

// ColorMatrix transforms colors with a 4x5 matrix applied to
// non-premultiplied components in [0, 255]:
//
//	[R']   [m0  m1  m2  m3  m4 ]   [R]
//	[G'] = [m5  m6  m7  m8  m9 ] * [G]
//	[B']   [m10 m11 m12 m13 m14]   [B]
//	[A']   [m15 m16 m17 m18 m19]   [A]
//	                               [1]
type ColorMatrix struct {
	Matrix [20]float32
}

// Rec. 709 luminance weights.
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

// NewColorMatrix returns the identity color matrix.
func NewColorMatrix() *ColorMatrix {
	return &ColorMatrix{Matrix: [20]float32{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}}
}

// Brightness scales the color channels by factor.
func Brightness(factor float32) *ColorMatrix {
	m := NewColorMatrix()
	m.Matrix[0], m.Matrix[6], m.Matrix[12] = factor, factor, factor
	return m
}

// Saturation blends between grayscale (0) and the original colors (1).
func Saturation(factor float32) *ColorMatrix {
	inv := 1 - factor
	return &ColorMatrix{Matrix: [20]float32{
		lumR*inv + factor, lumG * inv, lumB * inv, 0, 0,
		lumR * inv, lumG*inv + factor, lumB * inv, 0, 0,
		lumR * inv, lumG * inv, lumB*inv + factor, 0, 0,
		0, 0, 0, 1, 0,
	}}
}

// Invert inverts the color channels and keeps alpha.
func Invert() *ColorMatrix {
	return &ColorMatrix{Matrix: [20]float32{
		-1, 0, 0, 0, 255,
		0, -1, 0, 0, 255,
		0, 0, -1, 0, 255,
		0, 0, 0, 1, 0,
	}}
}

// Opacity scales alpha by factor.
func Opacity(factor float32) *ColorMatrix {
	m := NewColorMatrix()
	m.Matrix[18] = factor
	return m
}

// Then returns the matrix applying m first and next second.
func (m *ColorMatrix) Then(next *ColorMatrix) *ColorMatrix {
	a, b := &next.Matrix, &m.Matrix
	out := &ColorMatrix{}
	r := &out.Matrix
	for row := range 4 {
		for col := range 4 {
			var sum float32
			for k := range 4 {
				sum += a[row*5+k] * b[k*5+col]
			}
			r[row*5+col] = sum
		}
		r[row*5+4] = a[row*5]*b[4] + a[row*5+1]*b[9] + a[row*5+2]*b[14] + a[row*5+3]*b[19] + a[row*5+4]
	}
	return out
}

// Name implements Filter.
func (m *ColorMatrix) Name() string { return "color-matrix" }

// ApplySoftware implements Filter.
func (m *ColorMatrix) ApplySoftware(src backend.View, dst *pixfmt.Buffer) error {
	in := src.Pixels()
	if in == nil {
		return fmt.Errorf("%w: %s needs a color texture, got %v", ErrFilterFailed, m.Name(), src.Format())
	}
	k := &m.Matrix
	for y := range min(in.Height, dst.Height) {
		for x := range min(in.Width, dst.Width) {
			a8, r8, g8, b8 := pixfmt.Unpack(in.AtPre(x, y))
			a := float32(a8)
			var r, g, b float32
			if a8 > 0 {
				r, g, b = float32(r8)*255/a, float32(g8)*255/a, float32(b8)*255/a
			}

			nr := k[0]*r + k[1]*g + k[2]*b + k[3]*a + k[4]
			ng := k[5]*r + k[6]*g + k[7]*b + k[8]*a + k[9]
			nb := k[10]*r + k[11]*g + k[12]*b + k[13]*a + k[14]
			na := clamp255(k[15]*r + k[16]*g + k[17]*b + k[18]*a + k[19])

			f := na / 255
			dst.SetPre(x, y, pixfmt.Pack(round8(na), round8(clamp255(nr)*f), round8(clamp255(ng)*f), round8(clamp255(nb)*f)))
		}
	}
	return nil
}

func clamp255(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	return min(v, 255)
}

func round8(v float32) uint8 {
	return uint8(math.Floor(float64(v) + 0.5))
}
