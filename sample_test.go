package swraster

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestLSample_PixelCenters(t *testing.T) {
	pix := []uint32{
		0xFFFF0000, 0xFF00FF00, 0, // stride 3, last column unused
		0xFF0000FF, 0x80404040, 0,
	}
	tests := []struct {
		name string
		x, y float32
		want Sample
	}{
		{"top left", 0.25, 0.25, Sample{R: 1, A: 1}},
		{"top right", 0.75, 0.25, Sample{G: 1, A: 1}},
		{"bottom left", 0.25, 0.75, Sample{B: 1, A: 1}},
		{"bottom right", 0.75, 0.75, Sample{R: 64.0 / 255, G: 64.0 / 255, B: 64.0 / 255, A: 128.0 / 255}},
		{"middle", 0.5, 0.5, Sample{
			R: 0.25 + 0.25*64/255, G: 0.25 + 0.25*64/255, B: 0.25 + 0.25*64/255,
			A: 0.75 + 0.25*128/255,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LSample(pix, 2, 2, 3, tt.x, tt.y)
			if !near(got.R, tt.want.R) || !near(got.G, tt.want.G) || !near(got.B, tt.want.B) || !near(got.A, tt.want.A) {
				t.Errorf("LSample(%v, %v) = %+v, want %+v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestLSample_EdgesLoseWeight(t *testing.T) {
	white := []uint32{0xFFFFFFFF}
	tests := []struct {
		name  string
		x, y  float32
		wantA float32
	}{
		{"center", 0.5, 0.5, 1},
		{"corner", 0, 0, 0.25},
		{"far corner", 1, 1, 0.25},
		{"left edge", 0, 0.5, 0.5},
		{"just outside", -0.4, 0.5, 0.1},
		{"negative after shift", -0.6, 0.5, 0},
		{"beyond right", 1.6, 0.5, 0},
		{"huge", 1e30, 0.5, 0},
		{"nan", float32(math.NaN()), 0.5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LSample(white, 1, 1, 1, tt.x, tt.y); !near(got.A, tt.wantA) {
				t.Errorf("alpha = %v, want %v", got.A, tt.wantA)
			}
		})
	}
}

func TestLAccumSample(t *testing.T) {
	pix := []uint32{0xFF000000 | 255<<16, 0xFF000000 | 51<<16}
	var acc Sample
	LAccumSample(pix, 2, 1, 2, 0.5, 0.5, 0.5, &acc)
	LAccumSample(pix, 2, 1, 2, 1.5, 0.5, 0.5, &acc)
	if !near(acc.R, 0.6) || !near(acc.A, 1) {
		t.Errorf("acc = %+v, want R 0.6 A 1", acc)
	}
}

func TestFSample(t *testing.T) {
	m := NewFloatMap(2, 1)
	m.Set(0, 0, 1, 2, 3, 4)
	m.Set(1, 0, -1, 0, 1, 0)

	got := FSample(m.Data, 2, 1, 2, 0.25, 0.5)
	if got != m.At(0, 0) {
		t.Errorf("FSample at first center = %+v", got)
	}
	got = FSample(m.Data, 2, 1, 2, 0.5, 0.5)
	want := Sample{R: 0, G: 1, B: 2, A: 2}
	if !near(got.R, want.R) || !near(got.G, want.G) || !near(got.B, want.B) || !near(got.A, want.A) {
		t.Errorf("FSample between elements = %+v, want %+v", got, want)
	}

	var acc Sample
	FAccumSample(m.Data, 2, 1, 2, 0.5, 0.5, 2, &acc)
	if acc != (Sample{R: 2, G: 4, B: 6, A: 8}) {
		t.Errorf("FAccumSample = %+v", acc)
	}
}

func TestSample_ARGB(t *testing.T) {
	tests := []struct {
		s    Sample
		want uint32
	}{
		{Sample{R: 1, G: 1, B: 1, A: 1}, 0xFFFFFFFF},
		{Sample{}, 0},
		{Sample{R: 2, G: -1, B: 0.5, A: 1}, 0xFFFF0080},
		{Sample{R: 1, A: 0.5}, 0x80800000},
	}
	for _, tt := range tests {
		if got := tt.s.ARGB(); got != tt.want {
			t.Errorf("%+v.ARGB() = %#08x, want %#08x", tt.s, got, tt.want)
		}
	}
}
