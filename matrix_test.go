package swraster

import (
	"math"
	"testing"
)

func pointsNear(a, b Point, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

func TestAffine_Apply(t *testing.T) {
	tests := []struct {
		name string
		m    Affine
		in   Point
		want Point
	}{
		{"identity", Identity(), Pt(3, 4), Pt(3, 4)},
		{"translate", Translate(10, -2), Pt(3, 4), Pt(13, 2)},
		{"scale", Scale(2, 3), Pt(3, 4), Pt(6, 12)},
		{"rotate 90deg", Rotate(math.Pi / 2), Pt(1, 0), Pt(0, 1)},
		{"scale then translate", Translate(1, 1).Multiply(Scale(2, 2)), Pt(1, 1), Pt(3, 3)},
		{"translate then scale", Scale(2, 2).Multiply(Translate(1, 1)), Pt(1, 1), Pt(4, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Apply(tt.in); !pointsNear(got, tt.want, 1e-12) {
				t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAffine_Invert(t *testing.T) {
	m := Translate(5, -7).Multiply(Rotate(0.3)).Multiply(Scale(2, 0.5))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("Invert reported a singular matrix")
	}
	for _, p := range []Point{Pt(0, 0), Pt(1, 2), Pt(-30, 12.5)} {
		if got := inv.Apply(m.Apply(p)); !pointsNear(got, p, 1e-9) {
			t.Errorf("round trip of %v = %v", p, got)
		}
	}
	if got := m.Multiply(inv).Apply(Pt(7, 3)); !pointsNear(got, Pt(7, 3), 1e-9) {
		t.Errorf("m * inverse moved (7, 3) to %v", got)
	}

	if _, ok := Scale(0, 1).Invert(); ok {
		t.Error("Invert of a singular matrix succeeded")
	}
	if _, ok := Scale(0, 1).Inverse(); ok {
		t.Error("Inverse of a singular matrix succeeded")
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective{
		{2, 0.1, 3},
		{0.2, 1.5, -1},
		{0.001, 0.002, 1},
	}
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("Inverse reported a singular matrix")
	}
	for _, p := range []Point{Pt(0, 0), Pt(10, 20), Pt(-50, 80)} {
		if got := inv.Apply(m.Apply(p)); !pointsNear(got, p, 1e-9) {
			t.Errorf("round trip of %v = %v", p, got)
		}
	}

	lifted := PerspectiveFromAffine(Translate(1, 2).Multiply(Scale(3, 4)))
	if got := lifted.Apply(Pt(1, 1)); !pointsNear(got, Pt(4, 6), 1e-12) {
		t.Errorf("lifted Apply = %v, want (4, 6)", got)
	}
	if _, ok := (Perspective{}).Inverse(); ok {
		t.Error("Inverse of the zero matrix succeeded")
	}
}

func TestAsAffine(t *testing.T) {
	tests := []struct {
		name   string
		t      Transform
		want   Affine
		affine bool
	}{
		{"nil", nil, Identity(), true},
		{"affine", Translate(1, 2), Translate(1, 2), true},
		{"affine pointer", &Affine{A: 2, E: 2}, Scale(2, 2), true},
		{"lifted affine", PerspectiveFromAffine(Scale(3, 1)), Scale(3, 1), true},
		{"projective", Perspective{{1, 0, 0}, {0, 1, 0}, {0.5, 0, 1}}, Affine{}, false},
		{"scaled homogeneous", projective(Identity()), Affine{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := asAffine(tt.t)
			if ok != tt.affine || got != tt.want {
				t.Errorf("asAffine = %v, %v; want %v, %v", got, ok, tt.want, tt.affine)
			}
		})
	}
}
