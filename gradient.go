package swraster

import (
	"fmt"
	"slices"
)

// CycleMethod defines how gradient fractions outside [0, 1) are folded back
// into range.
type CycleMethod int

const (
	// CycleNone clamps to the end colors.
	CycleNone CycleMethod = iota
	// CycleRepeat repeats the gradient.
	CycleRepeat
	// CycleReflect mirrors the gradient on every other period.
	CycleReflect
)

// String returns the cycle method name.
func (c CycleMethod) String() string {
	switch c {
	case CycleNone:
		return "none"
	case CycleRepeat:
		return "repeat"
	case CycleReflect:
		return "reflect"
	default:
		return fmt.Sprintf("CycleMethod(%d)", int(c))
	}
}

// ParseCycleMethod returns the cycle method with the given name.
func ParseCycleMethod(name string) (CycleMethod, bool) {
	switch name {
	case "none", "pad", "":
		return CycleNone, true
	case "repeat":
		return CycleRepeat, true
	case "reflect":
		return CycleReflect, true
	default:
		return 0, false
	}
}

// Fixed-point gradient fractions: 0x10000 is the end of the gradient.
const (
	FractionOne = 0x10000

	rampBits = 8
	rampSize = 1 << rampBits

	// Anti-aliasing window around each ramp entry, in fraction units.
	aaDelta = 192
	aaStep  = 64
)

// GradientColorMap is a 256-entry color ramp built from fixed-point gradient
// stops. The ramp is computed once at construction and is immutable.
//
// Fractions are 16.16 fixed-point values in [0, 0x10000]; colors are
// non-premultiplied packed ARGB.
type GradientColorMap struct {
	cycle     CycleMethod
	fractions []int
	rgba      []uint32
	ramp      [rampSize]uint32

	// unpacked channels of rgba, used only while building the ramp
	r, g, b, a []int
}

// NewGradientColorMap builds the ramp for the given stops.
//
// fractions and colors must have the same non-zero length, fractions must be
// non-decreasing and within [0, 0x10000], and cycle must be a known method.
// Violations are programming errors and panic.
//
// A missing stop at 0 or at 0x10000 is synthesized from the nearest color.
func NewGradientColorMap(fractions []int, colors []uint32, cycle CycleMethod) *GradientColorMap {
	if len(fractions) == 0 || len(fractions) != len(colors) {
		contractf("gradient needs matching non-empty stops, got %d fractions and %d colors",
			len(fractions), len(colors))
	}
	if cycle < CycleNone || cycle > CycleReflect {
		contractf("unknown cycle method %d", int(cycle))
	}
	for i, f := range fractions {
		if f < 0 || f > FractionOne {
			contractf("gradient fraction %d out of range: %#x", i, f)
		}
		if i > 0 && f < fractions[i-1] {
			contractf("gradient fractions not sorted at %d", i)
		}
	}

	fr := slices.Clone(fractions)
	cs := slices.Clone(colors)
	if fr[0] != 0 {
		fr = slices.Insert(fr, 0, 0)
		cs = slices.Insert(cs, 0, cs[0])
	}
	if last := len(fr) - 1; fr[last] != FractionOne {
		fr = append(fr, FractionOne)
		cs = append(cs, cs[last])
	}

	m := &GradientColorMap{cycle: cycle, fractions: fr, rgba: cs}
	m.buildRamp()
	return m
}

func (m *GradientColorMap) buildRamp() {
	n := len(m.rgba)
	m.r = make([]int, n)
	m.g = make([]int, n)
	m.b = make([]int, n)
	m.a = make([]int, n)
	for i, c := range m.rgba {
		m.a[i] = int(c>>24) & 0xff
		m.r[i] = int(c>>16) & 0xff
		m.g[i] = int(c>>8) & 0xff
		m.b[i] = int(c) & 0xff
	}

	m.ramp[0] = m.rgba[0]
	m.ramp[rampSize-1] = m.rgba[n-1]
	for i := 1; i < rampSize-1; i++ {
		m.ramp[i] = m.colorAA(i << (16 - rampBits))
	}
	m.r, m.g, m.b, m.a = nil, nil, nil, nil
}

// findStop returns the index of the first stop whose fraction exceeds frac,
// or 1 if there is none.
func (m *GradientColorMap) findStop(frac int) int {
	for i := 1; i < len(m.fractions); i++ {
		if m.fractions[i] > frac {
			return i
		}
	}
	return 1
}

// accumColor adds the color interpolated at frac to the channel sums.
func (m *GradientColorMap) accumColor(frac int, sum *[4]int) {
	s := m.findStop(frac)
	frac -= m.fractions[s-1]
	delta := m.fractions[s] - m.fractions[s-1]
	sum[0] += m.a[s-1] + frac*(m.a[s]-m.a[s-1])/delta
	sum[1] += m.r[s-1] + frac*(m.r[s]-m.r[s-1])/delta
	sum[2] += m.g[s-1] + frac*(m.g[s]-m.g[s-1])/delta
	sum[3] += m.b[s-1] + frac*(m.b[s]-m.b[s-1])/delta
}

// colorAA averages samples in a small window around frac. The window
// collapses to a single sample when it lies strictly inside one stop pair.
func (m *GradientColorMap) colorAA(frac int) uint32 {
	s := m.findStop(frac)
	delta := aaDelta
	if m.fractions[s-1] < m.Pad(frac-delta) && m.Pad(frac+delta) < m.fractions[s] {
		delta = 0
	}

	var sum [4]int
	total := 0
	for i := -delta; i <= delta; i += aaStep {
		m.accumColor(m.Pad(frac+i), &sum)
		total++
	}
	a := sum[0] / total
	r := sum[1] / total
	g := sum[2] / total
	b := sum[3] / total
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b) //nolint:gosec // channels are in [0, 255]
}

// Pad folds a fraction into [0, 0xFFFF] according to the cycle method.
func (m *GradientColorMap) Pad(frac int) int {
	switch m.cycle {
	case CycleNone:
		return min(max(frac, 0), 0xffff)
	case CycleRepeat:
		return frac & 0xffff
	case CycleReflect:
		if frac < 0 {
			frac = -frac
		}
		frac &= 0x1ffff
		if frac > 0xffff {
			frac = 0x1ffff - frac
		}
		return frac
	default:
		contractf("unknown cycle method %d", int(m.cycle))
		return 0
	}
}

// Ramp returns a copy of the color ramp.
func (m *GradientColorMap) Ramp() [256]uint32 {
	return m.ramp
}

// Color returns ramp entry i.
func (m *GradientColorMap) Color(i int) uint32 {
	return m.ramp[i]
}

// Lookup returns the ramp color for a 16.16 gradient fraction after folding
// it with the cycle method.
func (m *GradientColorMap) Lookup(frac int) uint32 {
	return m.ramp[m.Pad(frac)>>(16-rampBits)]
}

// Fractions returns the normalized stop fractions.
func (m *GradientColorMap) Fractions() []int {
	return slices.Clone(m.fractions)
}

// Colors returns the normalized stop colors.
func (m *GradientColorMap) Colors() []uint32 {
	return slices.Clone(m.rgba)
}

// Cycle returns the cycle method.
func (m *GradientColorMap) Cycle() CycleMethod {
	return m.cycle
}
