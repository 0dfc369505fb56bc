package swraster

import (
	"image"
	"io"
	"log/slog"
	"math"

	"github.com/gogpu/swraster/backend"
	"github.com/gogpu/swraster/internal/path"
	"github.com/gogpu/swraster/internal/raster"
	"github.com/gogpu/swraster/internal/stroke"
	"github.com/gogpu/swraster/scratch"
)

// defaultTolerance is the default curve flattening tolerance in device
// pixels.
const defaultTolerance = 0.1

// coordLimit bounds device coordinates before conversion to int.
const coordLimit = 1 << 24

// Context rasterizes shapes into a RenderTarget.
//
// A Context is bound to one target and one Strategy for its lifetime and
// must be used from a single goroutine. Context implements io.Closer;
// Close releases its scratch textures.
type Context struct {
	target    *RenderTarget
	strategy  Strategy
	rule      CompositeRule
	filler    filler
	device    backend.Device
	scratch   *scratch.Cache
	ramps     *rampCache
	producer  *raster.Producer
	tolerance float64
	log       *slog.Logger

	span   []uint32
	closed bool
}

var _ io.Closer = (*Context)(nil)

// NewContext creates a context drawing into target.
//
//	target, _ := swraster.NewRenderTarget(800, 600)
//	ctx := swraster.NewContext(target, swraster.WithStrategy(swraster.StrategyMask))
//	defer ctx.Close()
func NewContext(target *RenderTarget, opts ...Option) *Context {
	if target == nil {
		contractf("nil render target")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	log := o.logger
	if log == nil {
		log = Logger()
	}
	dev := o.device
	if dev == nil {
		dev = backend.NewHostDevice(backend.WithName("swraster"))
	}

	checkRule(o.rule)
	c := &Context{
		target:    target,
		strategy:  o.strategy,
		rule:      o.rule,
		filler:    newFiller(o.strategy),
		device:    dev,
		scratch:   scratch.New(dev, scratch.WithLogger(log)),
		ramps:     newRampCache(o.rampCacheSize),
		producer:  newProducer(o.tolerance),
		tolerance: o.tolerance,
		log:       log,
	}
	log.Debug("swraster: context created",
		"strategy", c.strategy, "device", dev.Name(),
		"width", target.Width(), "height", target.Height())
	return c
}

// Target returns the render target of the context.
func (c *Context) Target() *RenderTarget { return c.target }

// Strategy returns the strategy chosen at construction.
func (c *Context) Strategy() Strategy { return c.strategy }

// CompositeRule returns the rule used by FillShape.
func (c *Context) CompositeRule() CompositeRule { return c.rule }

// SetCompositeRule sets the rule used by subsequent fills.
func (c *Context) SetCompositeRule(r CompositeRule) {
	checkRule(r)
	c.rule = r
}

// Device returns the device allocating the context's scratch textures.
func (c *Context) Device() backend.Device { return c.device }

// ScratchStats returns the scratch texture cache counters.
func (c *Context) ScratchStats() scratch.Stats { return c.scratch.Stats() }

// Trim lets the garbage collector reclaim idle scratch textures. Textures
// still present at the next fill are reused.
func (c *Context) Trim() { c.scratch.Trim() }

// Close releases the scratch textures. The context must not be used
// afterwards. Close is idempotent and always returns nil.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.scratch.Dispose()
	return nil
}

// FillShape composites shape into the target with paint.
//
// shape is in user space and is mapped to device space by transform; a nil
// transform is the identity. If stroke is non-nil the stroke outline is
// filled instead of the interior. Only covered pixels inside clip are
// changed, combined with the paint under the context's CompositeRule.
//
// FillShape does not report errors. If a scratch resource cannot be
// allocated the target is marked lost and the fill is dropped; fills into
// a lost target are skipped.
func (c *Context) FillShape(shape *Path, stroke *BasicStroke, transform Transform, clip image.Rectangle, paint Paint) {
	c.checkOpen()
	if paint == nil {
		contractf("nil paint")
	}
	if c.target.Lost() {
		return
	}
	if transform == nil {
		transform = Identity()
	}
	area, ok := c.rasterize(shape, stroke, transform, clip)
	if !ok {
		return
	}
	inv, ok := transform.Inverse()
	if !ok {
		return
	}

	sh, err := paint.newShader(c, inv)
	if err != nil {
		c.lose(err)
		return
	}
	if err := c.filler.fill(c, c.producer.Coverage(), area, sh); err != nil {
		c.lose(err)
	}
}

// RasterizeMask returns the coverage of shape, or of its stroke outline
// when stroke is non-nil, within clip. The mask is empty when nothing is
// covered.
func (c *Context) RasterizeMask(shape *Path, stroke *BasicStroke, transform Transform, clip image.Rectangle) *Mask {
	c.checkOpen()
	if transform == nil {
		transform = Identity()
	}
	area, ok := c.rasterize(shape, stroke, transform, clip)
	if !ok {
		return newMask(image.Rectangle{})
	}
	cov := c.producer.Coverage()
	m := newMask(area)
	copy(m.data, cov.Pix)
	return m
}

// colorMap returns the cached color map for stops.
func (c *Context) colorMap(stops []GradientStop, cycle CycleMethod) *GradientColorMap {
	return c.ramps.get(stops, cycle)
}

func (c *Context) lose(err error) {
	c.target.MarkLost(err)
	c.log.Warn("swraster: render target lost", "error", err, "strategy", c.strategy)
}

func checkRule(r CompositeRule) {
	if r != CompositeSrcOver && r != CompositeSrc {
		contractf("unknown composite rule %d", int(r))
	}
}

func (c *Context) checkOpen() {
	if c.closed {
		contractf("use of closed context")
	}
}

// rasterize accumulates the device-space outline of shape in the producer
// and returns the covered area. ok is false when nothing can be covered.
func (c *Context) rasterize(shape *Path, st *BasicStroke, xf Transform, clip image.Rectangle) (image.Rectangle, bool) {
	outline := c.outline(shape.raw(), st, xf)
	if outline == nil || outline.Empty() {
		return image.Rectangle{}, false
	}
	lo, hi, ok := outline.Bounds()
	if !ok {
		return image.Rectangle{}, false
	}
	area := deviceRect(lo, hi).Intersect(clip).Intersect(c.target.Bounds())
	if area.Empty() {
		return image.Rectangle{}, false
	}
	c.producer.Reset(area)
	c.producer.Fill(outline)
	return area, true
}

// outline returns the device-space path to fill. Strokes are expanded to
// polygons in user space so that widths follow the transform.
func (c *Context) outline(src *path.Path, st *BasicStroke, xf Transform) *path.Path {
	if src.Empty() {
		return nil
	}
	aff, isAffine := asAffine(xf)

	if st != nil {
		tol := c.tolerance
		if isAffine {
			scale := math.Max(math.Hypot(aff.A, aff.D), math.Hypot(aff.B, aff.E))
			if !(scale > 0) {
				return nil
			}
			tol /= scale
		}
		lines := path.Flatten(src, tol)
		if len(st.Dash) > 0 {
			lines = stroke.Dash(lines, st.Dash, st.DashPhase)
		}
		e := stroke.NewExpander(st.style())
		e.SetTolerance(tol)
		return path.FromPolygons(e.Expand(lines)).Map(xf.Apply)
	}

	if isAffine {
		return src.Map(aff.Apply)
	}
	// Curves do not stay curves under perspective; flatten first.
	lines := path.Flatten(src, c.tolerance/2)
	polys := make([][]Point, 0, len(lines))
	for _, l := range lines {
		poly := make([]Point, len(l.Points))
		for i, p := range l.Points {
			poly[i] = xf.Apply(p)
		}
		polys = append(polys, poly)
	}
	return path.FromPolygons(polys)
}

func newProducer(tolerance float64) *raster.Producer {
	p := raster.NewProducer()
	p.SetTolerance(tolerance)
	return p
}

// deviceRect returns the pixel rectangle enclosing [lo, hi].
func deviceRect(lo, hi Point) image.Rectangle {
	clamp := func(v float64) float64 {
		if math.IsNaN(v) {
			return 0
		}
		return math.Max(-coordLimit, math.Min(coordLimit, v))
	}
	return image.Rect(
		int(math.Floor(clamp(lo.X))), int(math.Floor(clamp(lo.Y))),
		int(math.Ceil(clamp(hi.X))), int(math.Ceil(clamp(hi.Y))),
	)
}
