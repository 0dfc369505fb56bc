package swraster

import (
	"slices"
	"testing"
)

func channelDiff(a, b uint32) int {
	worst := 0
	for shift := 0; shift < 32; shift += 8 {
		d := int((a>>shift)&0xff) - int((b>>shift)&0xff)
		if d < 0 {
			d = -d
		}
		worst = max(worst, d)
	}
	return worst
}

func TestGradientColorMap_Endpoints(t *testing.T) {
	tests := []struct {
		name      string
		fractions []int
		colors    []uint32
	}{
		{"two stops", []int{0, FractionOne}, []uint32{0xff000000, 0xffffffff}},
		{"interior stops", []int{0x4000, 0xc000}, []uint32{0xffff0000, 0xff0000ff}},
		{"single stop", []int{0x8000}, []uint32{0x80123456}},
		{"three stops", []int{0, 0x8000, FractionOne}, []uint32{0xff0000ff, 0xff00ff00, 0xffff0000}},
	}

	for _, tt := range tests {
		for _, cycle := range []CycleMethod{CycleNone, CycleRepeat, CycleReflect} {
			t.Run(tt.name+"/"+cycle.String(), func(t *testing.T) {
				m := NewGradientColorMap(tt.fractions, tt.colors, cycle)
				if got := m.Color(0); got != tt.colors[0] {
					t.Errorf("ramp[0] = %#08x, want %#08x", got, tt.colors[0])
				}
				last := tt.colors[len(tt.colors)-1]
				if got := m.Color(255); got != last {
					t.Errorf("ramp[255] = %#08x, want %#08x", got, last)
				}
			})
		}
	}
}

func TestGradientColorMap_Normalization(t *testing.T) {
	tests := []struct {
		name          string
		fractions     []int
		colors        []uint32
		wantFractions []int
		wantColors    []uint32
	}{
		{
			name:          "already normalized",
			fractions:     []int{0, FractionOne},
			colors:        []uint32{1, 2},
			wantFractions: []int{0, FractionOne},
			wantColors:    []uint32{1, 2},
		},
		{
			name:          "missing start",
			fractions:     []int{0x1000, FractionOne},
			colors:        []uint32{1, 2},
			wantFractions: []int{0, 0x1000, FractionOne},
			wantColors:    []uint32{1, 1, 2},
		},
		{
			name:          "missing end",
			fractions:     []int{0, 0x1000},
			colors:        []uint32{1, 2},
			wantFractions: []int{0, 0x1000, FractionOne},
			wantColors:    []uint32{1, 2, 2},
		},
		{
			name:          "missing both",
			fractions:     []int{0x8000},
			colors:        []uint32{7},
			wantFractions: []int{0, 0x8000, FractionOne},
			wantColors:    []uint32{7, 7, 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewGradientColorMap(tt.fractions, tt.colors, CycleNone)
			if got := m.Fractions(); !slices.Equal(got, tt.wantFractions) {
				t.Errorf("Fractions() = %v, want %v", got, tt.wantFractions)
			}
			if got := m.Colors(); !slices.Equal(got, tt.wantColors) {
				t.Errorf("Colors() = %v, want %v", got, tt.wantColors)
			}
		})
	}
}

func TestGradientColorMap_DoesNotAliasInput(t *testing.T) {
	fr := []int{0, FractionOne}
	cs := []uint32{0xff000000, 0xffffffff}
	m := NewGradientColorMap(fr, cs, CycleNone)
	fr[1] = 0x100
	cs[0] = 0
	if m.Fractions()[1] != FractionOne || m.Colors()[0] != 0xff000000 {
		t.Error("color map shares storage with caller slices")
	}
}

func TestGradientColorMap_BlackToWhiteMidpoint(t *testing.T) {
	m := NewGradientColorMap([]int{0, FractionOne}, []uint32{0xff000000, 0xffffffff}, CycleNone)
	mid := m.Color(128)
	if mid>>24 != 0xff {
		t.Fatalf("alpha = %#x, want 0xff", mid>>24)
	}
	for shift := 0; shift < 24; shift += 8 {
		c := int((mid >> shift) & 0xff)
		if c < 126 || c > 130 {
			t.Errorf("channel at shift %d = %d, want 128±2", shift, c)
		}
	}
}

func TestGradientColorMap_Monotonic(t *testing.T) {
	m := NewGradientColorMap([]int{0, FractionOne}, []uint32{0xff000000, 0xffffffff}, CycleNone)
	prev := -1
	for i := range 256 {
		c := int(m.Color(i) & 0xff)
		if c < prev {
			t.Fatalf("ramp not monotonic at %d: %d < %d", i, c, prev)
		}
		prev = c
	}
}

func TestGradientColorMap_BlueGreenRed(t *testing.T) {
	for _, cycle := range []CycleMethod{CycleRepeat, CycleNone} {
		t.Run(cycle.String(), func(t *testing.T) {
			m := NewGradientColorMap(
				[]int{0, 0x8000, FractionOne},
				[]uint32{0xff0000ff, 0xff00ff00, 0xffff0000},
				cycle,
			)
			if got := m.Color(0); got != 0xff0000ff {
				t.Errorf("ramp[0] = %#08x, want 0xff0000ff", got)
			}
			if got := m.Color(255); got != 0xffff0000 {
				t.Errorf("ramp[255] = %#08x, want 0xffff0000", got)
			}
			if got := m.Color(128); channelDiff(got, 0xff00ff00) > 2 {
				t.Errorf("ramp[128] = %#08x, want about 0xff00ff00", got)
			}
			if got := m.Color(64); channelDiff(got, 0xff007f80) > 2 {
				t.Errorf("ramp[64] = %#08x, want about 0xff007f80", got)
			}
		})
	}
}

func TestGradientColorMap_Pad(t *testing.T) {
	tests := []struct {
		cycle CycleMethod
		in    int
		want  int
	}{
		{CycleNone, -5, 0},
		{CycleNone, 0x1234, 0x1234},
		{CycleNone, 0x10000, 0xffff},
		{CycleNone, 0x7ffff, 0xffff},
		{CycleRepeat, 0x10010, 0x10},
		{CycleRepeat, -1, 0xffff},
		{CycleReflect, 0x100, 0x100},
		{CycleReflect, -0x100, 0x100},
		{CycleReflect, 0x10000, 0xffff},
		{CycleReflect, 0x1ff00, 0xff},
		{CycleReflect, 0x20100, 0x100},
	}

	for _, tt := range tests {
		m := NewGradientColorMap([]int{0, FractionOne}, []uint32{0, 0}, tt.cycle)
		if got := m.Pad(tt.in); got != tt.want {
			t.Errorf("%v Pad(%#x) = %#x, want %#x", tt.cycle, tt.in, got, tt.want)
		}
	}
}

func TestGradientColorMap_RepeatPeriodic(t *testing.T) {
	m := NewGradientColorMap([]int{0, 0x6000, FractionOne},
		[]uint32{0xffff0000, 0x8000ff00, 0xff0000ff}, CycleRepeat)
	for frac := -0x20000; frac < 0x20000; frac += 0x123 {
		if a, b := m.Lookup(frac), m.Lookup(frac+FractionOne); a != b {
			t.Fatalf("Lookup(%#x) = %#08x, Lookup(%#x) = %#08x", frac, a, frac+FractionOne, b)
		}
	}
}

func TestGradientColorMap_ReflectSymmetric(t *testing.T) {
	m := NewGradientColorMap([]int{0, FractionOne}, []uint32{0xff000000, 0xffffffff}, CycleReflect)
	for frac := 0; frac <= 0xffff; frac += 0x101 {
		if a, b := m.Lookup(frac), m.Lookup(-frac); a != b {
			t.Fatalf("Lookup(%#x) = %#08x, Lookup(-%#x) = %#08x", frac, a, frac, b)
		}
		if a, b := m.Lookup(frac), m.Lookup(0x1ffff-frac); a != b {
			t.Fatalf("Lookup(%#x) = %#08x, mirrored = %#08x", frac, a, b)
		}
	}
}

func TestGradientColorMap_Lookup(t *testing.T) {
	m := NewGradientColorMap([]int{0, FractionOne}, []uint32{0xff000000, 0xffffffff}, CycleNone)
	if got := m.Lookup(-100); got != m.Color(0) {
		t.Errorf("Lookup below range = %#08x, want ramp[0]", got)
	}
	if got := m.Lookup(0x20000); got != m.Color(255) {
		t.Errorf("Lookup above range = %#08x, want ramp[255]", got)
	}
	if got := m.Lookup(0x4000); got != m.Color(0x40) {
		t.Errorf("Lookup(0x4000) = %#08x, want ramp[64]", got)
	}
	if m.Cycle() != CycleNone {
		t.Errorf("Cycle() = %v", m.Cycle())
	}
	ramp := m.Ramp()
	ramp[0] = 0
	if m.Color(0) == 0 {
		t.Error("Ramp() exposed internal storage")
	}
}

func TestNewGradientColorMap_Panics(t *testing.T) {
	tests := []struct {
		name      string
		fractions []int
		colors    []uint32
		cycle     CycleMethod
	}{
		{"empty", nil, nil, CycleNone},
		{"length mismatch", []int{0, FractionOne}, []uint32{0}, CycleNone},
		{"negative fraction", []int{-1, FractionOne}, []uint32{0, 0}, CycleNone},
		{"fraction too large", []int{0, FractionOne + 1}, []uint32{0, 0}, CycleNone},
		{"unsorted", []int{0x8000, 0x4000}, []uint32{0, 0}, CycleNone},
		{"unknown cycle", []int{0, FractionOne}, []uint32{0, 0}, CycleMethod(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			NewGradientColorMap(tt.fractions, tt.colors, tt.cycle)
		})
	}
}

func TestParseCycleMethod(t *testing.T) {
	for _, c := range []CycleMethod{CycleNone, CycleRepeat, CycleReflect} {
		got, ok := ParseCycleMethod(c.String())
		if !ok || got != c {
			t.Errorf("ParseCycleMethod(%q) = %v, %v", c.String(), got, ok)
		}
	}
	if _, ok := ParseCycleMethod("mirror"); ok {
		t.Error("ParseCycleMethod accepted an unknown name")
	}
}
