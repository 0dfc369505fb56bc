package stroke

import (
	"math"

	"github.com/gogpu/swraster/internal/path"
)

// MaxDashes bounds the number of dash intervals one call to Dash may
// produce.
const MaxDashes = 1 << 18

// Dash splits lines into the "on" intervals of pattern, starting phase units
// into the pattern. The pattern restarts at every subpath. An odd-length
// pattern is repeated to make it even. Lines are returned unchanged if the
// pattern is empty, has a negative entry, or sums to zero. They are also
// returned unchanged, stroked solid, if the pattern is so short against
// their length that more than MaxDashes intervals would result.
//
// For a closed subpath that both starts and ends inside a dash, the last
// dash is joined to the first so the seam shows no cap.
func Dash(lines []path.Polyline, pattern []float64, phase float64) []path.Polyline {
	pat, total, ok := normalizePattern(pattern)
	if !ok || tooManyDashes(lines, len(pat), total) {
		return lines
	}

	// Starting position within the pattern.
	phase = math.Mod(phase, total)
	if phase < 0 {
		phase += total
	}
	startIdx := 0
	for phase >= pat[startIdx] {
		phase -= pat[startIdx]
		startIdx = (startIdx + 1) % len(pat)
	}
	startRemain := pat[startIdx] - phase

	var out []path.Polyline
	for _, l := range lines {
		out = append(out, dashOne(l, pat, startIdx, startRemain)...)
	}
	return out
}

func tooManyDashes(lines []path.Polyline, entries int, total float64) bool {
	var length float64
	for _, l := range lines {
		for i := 1; i < len(l.Points); i++ {
			length += l.Points[i-1].Distance(l.Points[i])
		}
		if l.Closed && len(l.Points) > 1 {
			length += l.Points[len(l.Points)-1].Distance(l.Points[0])
		}
	}
	// Each subpath may add one partial interval at either end.
	n := length/total*float64(entries/2) + float64(2*len(lines))
	return !(n <= MaxDashes)
}

func normalizePattern(pattern []float64) ([]float64, float64, bool) {
	if len(pattern) == 0 {
		return nil, 0, false
	}
	var total float64
	for _, v := range pattern {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, 0, false
		}
		total += v
	}
	if total <= 0 {
		return nil, 0, false
	}
	pat := pattern
	if len(pat)%2 == 1 {
		pat = append(append([]float64(nil), pattern...), pattern...)
		total *= 2
	}
	return pat, total, true
}

func dashOne(l path.Polyline, pat []float64, idx int, remain float64) []path.Polyline {
	pts := l.Points
	if l.Closed && len(pts) > 1 {
		pts = append(append([]Point(nil), pts...), pts[0])
	}
	if len(pts) < 2 {
		return nil
	}

	startsOn := idx%2 == 0
	var (
		out []path.Polyline
		cur []Point
	)
	on := startsOn
	toggled := false
	if on {
		cur = []Point{pts[0]}
	}

	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		segLen := a.Distance(b)
		pos := 0.0
		for segLen-pos > remain {
			pos += remain
			p := a.Lerp(b, pos/segLen)
			if on {
				cur = append(cur, p)
				out = append(out, path.Polyline{Points: cur})
				cur = nil
			} else {
				cur = []Point{p}
			}
			on = !on
			toggled = true
			idx = (idx + 1) % len(pat)
			remain = pat[idx]
		}
		remain -= segLen - pos
		if on {
			cur = append(cur, b)
		}
	}
	if !toggled {
		if on {
			return []path.Polyline{l}
		}
		return nil
	}
	if on && len(cur) > 1 {
		out = append(out, path.Polyline{Points: cur})
	}

	// Join the trailing dash of a closed subpath onto the leading one.
	if l.Closed && startsOn && on && len(out) > 1 {
		last := out[len(out)-1]
		first := out[0]
		merged := append(last.Points[:len(last.Points):len(last.Points)], first.Points[1:]...)
		out[0] = path.Polyline{Points: merged}
		out = out[:len(out)-1]
	}
	return out
}
