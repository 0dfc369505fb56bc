package swraster

import (
	"fmt"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/swraster/backend"
	"github.com/gogpu/swraster/pixfmt"
	"github.com/gogpu/swraster/scratch"
)

// FloatMap is a grid of four-channel float values, stored row by row as
// R, G, B, A in Data.
type FloatMap struct {
	Width, Height int
	Data          []float32
}

// NewFloatMap creates a zeroed width x height map.
func NewFloatMap(width, height int) *FloatMap {
	if width <= 0 || height <= 0 {
		contractf("invalid float map size %dx%d", width, height)
	}
	return &FloatMap{Width: width, Height: height, Data: make([]float32, 4*width*height)}
}

// Set stores the four channels of element (x, y).
func (m *FloatMap) Set(x, y int, r, g, b, a float32) {
	e := m.Data[4*(y*m.Width+x):]
	e[0], e[1], e[2], e[3] = r, g, b, a
}

// At returns element (x, y).
func (m *FloatMap) At(x, y int) Sample {
	e := m.Data[4*(y*m.Width+x):]
	return Sample{R: e[0], G: e[1], B: e[2], A: e[3]}
}

// Filter is one stage of an effect chain. Filters are identified by name
// so that a device can decide whether it runs them natively.
type Filter interface {
	Name() string

	// ApplySoftware renders the filter on the CPU. src is a borrowed view
	// of the input and dst has the same size.
	ApplySoftware(src backend.View, dst *pixfmt.Buffer) error
}

// FilterAccelerator is implemented by devices that run some filters
// natively.
type FilterAccelerator interface {
	Accelerates(f Filter) bool
	ApplyFilter(f Filter, src backend.Texture) (backend.Texture, error)
}

// DisplacementMap moves each pixel by an amount read from a FloatMap.
//
// For destination pixel center (u, v) in normalized coordinates the
// source is sampled at
//
//	u + OffsetX + ScaleX * map(u, v).R
//	v + OffsetY + ScaleY * map(u, v).G
//
// With Wrap the source coordinates wrap around; otherwise samples beyond
// the edge fade to transparent.
type DisplacementMap struct {
	Map              *FloatMap
	ScaleX, ScaleY   float32
	OffsetX, OffsetY float32
	Wrap             bool
}

// NewDisplacementMap creates a filter with unit scale and no offset.
func NewDisplacementMap(m *FloatMap) *DisplacementMap {
	return &DisplacementMap{Map: m, ScaleX: 1, ScaleY: 1}
}

// Name implements Filter.
func (d *DisplacementMap) Name() string { return "displacement-map" }

// ApplySoftware implements Filter.
func (d *DisplacementMap) ApplySoftware(src backend.View, dst *pixfmt.Buffer) error {
	if d.Map == nil {
		contractf("displacement map without a map")
	}
	in := src.Pixels()
	if in == nil || in.Layout != pixfmt.IntArgbPre {
		return fmt.Errorf("%w: %s needs a color texture, got %v", ErrFilterFailed, d.Name(), src.Format())
	}
	w, h := in.Width, in.Height
	m := d.Map
	fw, fh := float32(w), float32(h)

	for y := 0; y < dst.Height; y++ {
		v := (float32(y) + 0.5) / fh
		for x := 0; x < dst.Width; x++ {
			u := (float32(x) + 0.5) / fw
			off := FSample(m.Data, m.Width, m.Height, m.Width, u, v)
			su := u + d.OffsetX + d.ScaleX*off.R
			sv := v + d.OffsetY + d.ScaleY*off.G
			if d.Wrap {
				su -= float32(math.Floor(float64(su)))
				sv -= float32(math.Floor(float64(sv)))
			}
			dst.SetPre(x, y, LSample(in.Ints, w, h, in.Stride, su, sv).ARGB())
		}
	}
	return nil
}

// FilterChain runs filters in order, feeding each result to the next.
type FilterChain struct {
	Filters []Filter
}

// NewFilterChain creates a chain of filters.
func NewFilterChain(filters ...Filter) *FilterChain {
	return &FilterChain{Filters: filters}
}

// Run applies the chain to src on dev and returns the final texture.
//
// A filter runs on the device when dev implements FilterAccelerator and
// accelerates it. Otherwise it runs in software on a borrowed view of the
// current texture, writing into a new texture from dev that is handed to
// the next stage. src stays owned by the caller and is never released;
// intermediate textures are released once consumed. The caller owns the
// returned texture, which is src itself for an empty chain.
func (fc *FilterChain) Run(dev backend.Device, src backend.Texture) (backend.Texture, error) {
	return fc.run(dev, src, src.Width(), src.Height())
}

// run is Run restricted to the top-left w x h pixels of each texture.
func (fc *FilterChain) run(dev backend.Device, src backend.Texture, w, h int) (backend.Texture, error) {
	accel, _ := dev.(FilterAccelerator)
	cur := src
	for _, f := range fc.Filters {
		var (
			next backend.Texture
			err  error
		)
		if accel != nil && accel.Accelerates(f) {
			next, err = accel.ApplyFilter(f, cur)
		} else {
			Logger().Debug("swraster: filter runs in software", "filter", f.Name(), "device", dev.Name())
			next, err = applySoftware(dev, f, cur, w, h)
		}
		if err != nil {
			if cur != src {
				cur.Release()
			}
			Logger().Warn("swraster: filter failed", "filter", f.Name(), "error", err)
			return nil, fmt.Errorf("%s: %w", f.Name(), err)
		}
		if cur != src {
			cur.Release()
		}
		cur = next
	}
	return cur, nil
}

// applySoftware runs f on a borrowed w x h view of src into a new texture.
func applySoftware(dev backend.Device, f Filter, src backend.Texture, w, h int) (backend.Texture, error) {
	view := backend.BorrowRegion(src, w, h)
	if !view.Valid() {
		return nil, fmt.Errorf("%w: source texture released", ErrFilterFailed)
	}
	out, err := dev.CreateTexture(backend.Texture2D(f.Name(), gputypes.TextureFormatBGRA8Unorm,
		view.Width(), view.Height(), gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopySrc))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFilterFailed, err)
	}
	if err := f.ApplySoftware(view, out.Pixels()); err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}

// RunFilters runs chain on src with the context's device. On failure the
// target is marked lost and nil is returned.
func (c *Context) RunFilters(chain *FilterChain, src backend.Texture) backend.Texture {
	c.checkOpen()
	out, err := chain.Run(c.device, src)
	if err != nil {
		c.lose(err)
		return nil
	}
	return out
}

// FilterTarget runs chain over the target pixels and writes the result
// back. The pixels are read back into the context's cached read-back
// texture, so repeated calls reuse one buffer. On failure the target is
// marked lost and its error is returned.
func (c *Context) FilterTarget(chain *FilterChain) error {
	c.checkOpen()
	if c.target.Lost() {
		return c.target.Err()
	}
	buf := c.target.buf
	w, h := buf.Width, buf.Height
	tex, err := c.scratch.Validate(scratch.KindReadback, w, h)
	if err != nil {
		c.lose(err)
		return c.target.Err()
	}
	in := tex.Pixels()
	for y := range h {
		for x := range w {
			in.SetPre(x, y, buf.AtPre(x, y))
		}
	}

	out, err := chain.run(c.device, tex, w, h)
	if err != nil {
		c.lose(err)
		return c.target.Err()
	}
	if out != tex {
		defer out.Release()
	}
	res := backend.BorrowRegion(out, w, h).Pixels()
	for y := range h {
		for x := range w {
			buf.SetPre(x, y, res.AtPre(x, y))
		}
	}
	return nil
}
