package swraster

import (
	"encoding/binary"

	"github.com/gogpu/swraster/internal/cache"
)

// defaultRampCacheSize is the number of color maps a Context keeps.
const defaultRampCacheSize = 64

// rampCache memoizes color maps by their stops and cycle method.
type rampCache struct {
	maps *cache.Cache[string, *GradientColorMap]
}

func newRampCache(size int) *rampCache {
	return &rampCache{maps: cache.New[string, *GradientColorMap](size)}
}

// get returns the color map for stops, building it on first use.
func (rc *rampCache) get(stops []GradientStop, cycle CycleMethod) *GradientColorMap {
	return rc.maps.GetOrCreate(rampKey(stops, cycle), func() *GradientColorMap {
		fr := make([]int, len(stops))
		cs := make([]uint32, len(stops))
		for i, s := range stops {
			fr[i], cs[i] = s.Fraction, s.Color
		}
		return NewGradientColorMap(fr, cs, cycle)
	})
}

func rampKey(stops []GradientStop, cycle CycleMethod) string {
	b := make([]byte, 0, 1+8*len(stops))
	b = append(b, byte(cycle))
	for _, s := range stops {
		b = binary.LittleEndian.AppendUint32(b, uint32(int32(s.Fraction)))
		b = binary.LittleEndian.AppendUint32(b, s.Color)
	}
	return string(b)
}
