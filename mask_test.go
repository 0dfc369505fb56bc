package swraster

import (
	"image"
	"testing"
)

func TestMask(t *testing.T) {
	m := newMask(image.Rect(12, 10, 10, 13))
	if m.Bounds() != image.Rect(10, 10, 12, 13) {
		t.Fatalf("Bounds = %v, want canonical rectangle", m.Bounds())
	}
	copy(m.Data(), []uint8{1, 2, 3, 4, 5, 6})

	tests := []struct {
		x, y int
		want uint8
	}{
		{10, 10, 1},
		{11, 10, 2},
		{10, 12, 5},
		{11, 12, 6},
		{9, 10, 0},
		{12, 10, 0},
		{10, 13, 0},
	}
	for _, tt := range tests {
		if got := m.At(tt.x, tt.y); got != tt.want {
			t.Errorf("At(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
	if got := m.Sum(); got != 21 {
		t.Errorf("Sum = %d, want 21", got)
	}

	img := m.Alpha()
	if img.Rect != m.Bounds() || img.AlphaAt(11, 11).A != 4 {
		t.Errorf("Alpha = %v, pixel %d", img.Rect, img.AlphaAt(11, 11).A)
	}
	img.Pix[0] = 99
	if m.At(10, 10) != 1 {
		t.Error("Alpha shares storage with the mask")
	}
}

func TestMask_Empty(t *testing.T) {
	m := newMask(image.Rectangle{})
	if !m.Empty() || m.Sum() != 0 || m.At(0, 0) != 0 {
		t.Errorf("empty mask = %+v", m)
	}
}
