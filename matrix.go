package swraster

import "math"

// Transform maps user-space points to device space.
type Transform interface {
	// Apply maps a user-space point to device space.
	Apply(p Point) Point

	// Inverse returns the inverse transform. ok is false when the transform
	// is singular.
	Inverse() (inv Transform, ok bool)
}

// Affine is a 2D affine transformation in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation.
func Identity() Affine {
	return Affine{A: 1, E: 1}
}

// Translate creates a translation.
func Translate(x, y float64) Affine {
	return Affine{A: 1, C: x, E: 1, F: y}
}

// Scale creates a scaling transformation.
func Scale(x, y float64) Affine {
	return Affine{A: x, E: y}
}

// Rotate creates a rotation (angle in radians).
func Rotate(angle float64) Affine {
	sin, cos := math.Sincos(angle)
	return Affine{
		A: cos, B: -sin,
		D: sin, E: cos,
	}
}

// Multiply returns m * other, which applies other first.
func (m Affine) Multiply(other Affine) Affine {
	return Affine{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// Apply implements Transform.
func (m Affine) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Inverse implements Transform.
func (m Affine) Inverse() (Transform, bool) {
	inv, ok := m.Invert()
	return inv, ok
}

// Invert returns the inverse matrix. ok is false if m is singular.
func (m Affine) Invert() (Affine, bool) {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < 1e-12 {
		return Affine{}, false
	}
	invDet := 1.0 / det
	return Affine{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}, true
}

// IsIdentity reports whether m is the identity.
func (m Affine) IsIdentity() bool {
	return m == Identity()
}

// Perspective is a 3x3 projective transformation in row-major order:
//
//	x' = (m00*x + m01*y + m02) / w
//	y' = (m10*x + m11*y + m12) / w
//	w  =  m20*x + m21*y + m22
type Perspective [3][3]float64

// PerspectiveFromAffine lifts an affine transform into a 3x3 matrix.
func PerspectiveFromAffine(a Affine) Perspective {
	return Perspective{
		{a.A, a.B, a.C},
		{a.D, a.E, a.F},
		{0, 0, 1},
	}
}

// Apply implements Transform. Points mapped to the line at infinity are
// returned unchanged in the homogeneous numerator.
func (m Perspective) Apply(p Point) Point {
	x := m[0][0]*p.X + m[0][1]*p.Y + m[0][2]
	y := m[1][0]*p.X + m[1][1]*p.Y + m[1][2]
	w := m[2][0]*p.X + m[2][1]*p.Y + m[2][2]
	if w == 0 {
		return Point{X: x, Y: y}
	}
	return Point{X: x / w, Y: y / w}
}

// Inverse implements Transform using the adjugate matrix.
func (m Perspective) Inverse() (Transform, bool) {
	c00 := m[1][1]*m[2][2] - m[1][2]*m[2][1]
	c01 := m[1][2]*m[2][0] - m[1][0]*m[2][2]
	c02 := m[1][0]*m[2][1] - m[1][1]*m[2][0]
	det := m[0][0]*c00 + m[0][1]*c01 + m[0][2]*c02
	if math.Abs(det) < 1e-12 {
		return nil, false
	}
	inv := 1 / det
	return Perspective{
		{c00 * inv, (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * inv, (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * inv},
		{c01 * inv, (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * inv, (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * inv},
		{c02 * inv, (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * inv, (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * inv},
	}, true
}

// IsAffine reports whether the bottom row is (0, 0, 1).
func (m Perspective) IsAffine() bool {
	return m[2][0] == 0 && m[2][1] == 0 && m[2][2] == 1
}

// Affine returns the affine part of m. It is only meaningful when IsAffine.
func (m Perspective) Affine() Affine {
	return Affine{
		A: m[0][0], B: m[0][1], C: m[0][2],
		D: m[1][0], E: m[1][1], F: m[1][2],
	}
}

// asAffine returns t as an Affine when it is one.
func asAffine(t Transform) (Affine, bool) {
	switch v := t.(type) {
	case nil:
		return Identity(), true
	case Affine:
		return v, true
	case *Affine:
		return *v, true
	case Perspective:
		if v.IsAffine() {
			return v.Affine(), true
		}
	}
	return Affine{}, false
}
