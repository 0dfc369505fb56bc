package swraster

import (
	"errors"
	"fmt"
	"image"
	"math"
	"slices"
	"testing"

	"github.com/gogpu/swraster/backend"
	"github.com/gogpu/swraster/pixfmt"
)

var strategies = []Strategy{StrategyDirect, StrategyMask}

func newTestContext(t *testing.T, w, h int, opts ...Option) *Context {
	t.Helper()
	target, err := NewRenderTarget(w, h)
	if err != nil {
		t.Fatalf("NewRenderTarget: %v", err)
	}
	ctx := NewContext(target, opts...)
	t.Cleanup(func() { _ = ctx.Close() })
	return ctx
}

func rectPath(x, y, w, h float64) *Path {
	p := NewPath()
	p.Rectangle(x, y, w, h)
	return p
}

func pixel(ctx *Context, x, y int) uint32 {
	return ctx.Target().Buffer().AtPre(x, y)
}

func TestFillShape_SolidRect(t *testing.T) {
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			ctx := newTestContext(t, 20, 20, WithStrategy(s))
			ctx.FillShape(rectPath(5, 5, 10, 10), nil, Identity(), ctx.Target().Bounds(), SolidColor(0xFFFF0000))

			tests := []struct {
				x, y int
				want uint32
			}{
				{10, 10, 0xFFFF0000},
				{5, 5, 0xFFFF0000},
				{14, 14, 0xFFFF0000},
				{4, 10, 0},
				{15, 10, 0},
				{0, 0, 0},
			}
			for _, tt := range tests {
				if got := pixel(ctx, tt.x, tt.y); got != tt.want {
					t.Errorf("pixel(%d,%d) = %#08x, want %#08x", tt.x, tt.y, got, tt.want)
				}
			}
		})
	}
}

func TestFillShape_SourceOver(t *testing.T) {
	ctx := newTestContext(t, 4, 4)
	ctx.Target().Clear(0xFF0000FF)
	ctx.FillShape(rectPath(0, 0, 4, 4), nil, nil, ctx.Target().Bounds(), SolidColor(0x80FF0000))

	// 0x80FF0000 premultiplies to 0x80800000; over opaque blue the blue
	// channel keeps 127/255 of its value.
	if got := pixel(ctx, 1, 1); got != 0xFF80007F {
		t.Errorf("pixel = %#08x, want 0xff80007f", got)
	}
}

func TestFillShape_Clip(t *testing.T) {
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			ctx := newTestContext(t, 20, 20, WithStrategy(s))
			clip := image.Rect(0, 0, 10, 20)
			ctx.FillShape(rectPath(0, 0, 20, 20), nil, Identity(), clip, SolidColor(0xFF00FF00))

			if got := pixel(ctx, 9, 5); got != 0xFF00FF00 {
				t.Errorf("inside clip = %#08x", got)
			}
			if got := pixel(ctx, 10, 5); got != 0 {
				t.Errorf("outside clip = %#08x, want 0", got)
			}
		})
	}
}

func TestFillShape_OtherTargetLayouts(t *testing.T) {
	for _, l := range []pixfmt.Layout{pixfmt.IntArgb, pixfmt.ByteBgra, pixfmt.ByteBgraPre} {
		t.Run(l.String(), func(t *testing.T) {
			buf, err := pixfmt.NewBuffer(l, 8, 8)
			if err != nil {
				t.Fatal(err)
			}
			target, err := WrapRenderTarget(buf)
			if err != nil {
				t.Fatal(err)
			}
			ctx := NewContext(target)
			defer ctx.Close()
			ctx.FillShape(rectPath(0, 0, 8, 8), nil, nil, target.Bounds(), SolidColor(0xFF123456))
			if got := buf.Get(3, 3); got != 0xFF123456 {
				t.Errorf("Get = %#08x, want 0xff123456", got)
			}
		})
	}
}

// render draws a fixed scene exercising every paint and outline kind.
func render(t *testing.T, s Strategy) (*Context, []*Mask) {
	t.Helper()
	ctx := newTestContext(t, 64, 64, WithStrategy(s))
	clip := image.Rect(2, 3, 60, 61)

	circle := NewPath()
	circle.Circle(32, 32, 20.3)
	linear := NewLinearGradient(10, 0, 50, 0).
		AddStop(Stop(0, 0xFF0000FF)).
		AddStop(Stop(0.5, 0x8000FF00)).
		AddStop(Stop(1, 0xFFFF0000)).
		SetCycle(CycleReflect)
	ctx.FillShape(circle, nil, Identity(), clip, linear)

	curve := NewPath()
	curve.MoveTo(5, 50)
	curve.CubicTo(20, 10, 40, 70, 58, 20)
	dashed := &BasicStroke{Width: 3.5, Cap: LineCapRound, Join: LineJoinRound, MiterLimit: 4, Dash: []float64{6, 3}, DashPhase: 1}
	radial := NewRadialGradient(30, 30, 25).SetFocus(20, 25).
		AddStop(Stop(0, 0xFFFFFF00)).
		AddStop(Stop(1, 0xFF000080))
	ctx.FillShape(curve, dashed, Identity(), clip, radial)

	img, err := pixfmt.NewBuffer(pixfmt.IntArgb, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range []uint32{0xFFFF0000, 0x8000FF00, 0xFF0000FF, 0xFFFFFFFF, 0x00000000, 0xC0808080} {
		img.Put(i%3, i/3, c)
	}
	pattern := &ImagePattern{Image: img, X: 1, Y: 2, Width: 7, Height: 5}
	xf := Translate(32, 32).Multiply(Rotate(0.4)).Multiply(Scale(1.5, 0.8))
	star := NewPath()
	star.Polygon(Pt(0, -20), Pt(6, -6), Pt(20, -4), Pt(8, 6), Pt(12, 20), Pt(0, 10), Pt(-12, 20), Pt(-8, 6), Pt(-20, -4), Pt(-6, -6))
	ctx.FillShape(star, nil, xf, clip, pattern)

	outline := &BasicStroke{Width: 2, Join: LineJoinMiter, MiterLimit: 10}
	ctx.FillShape(star, outline, xf, clip, SolidColor(0xCC202020))

	masks := []*Mask{
		ctx.RasterizeMask(circle, nil, Identity(), clip),
		ctx.RasterizeMask(curve, dashed, Identity(), clip),
		ctx.RasterizeMask(star, outline, xf, clip),
	}
	return ctx, masks
}

func TestStrategies_BitIdentical(t *testing.T) {
	direct, directMasks := render(t, StrategyDirect)
	mask, maskMasks := render(t, StrategyMask)

	a, b := direct.Target().Buffer(), mask.Target().Buffer()
	if !slices.Equal(a.Ints, b.Ints) {
		for i := range a.Ints {
			if a.Ints[i] != b.Ints[i] {
				t.Fatalf("pixel %d differs: direct %#08x, mask %#08x", i, a.Ints[i], b.Ints[i])
			}
		}
	}
	if slices.Max(a.Ints) == 0 {
		t.Fatal("scene rendered nothing")
	}
	for i := range directMasks {
		if directMasks[i].Bounds() != maskMasks[i].Bounds() || !slices.Equal(directMasks[i].Data(), maskMasks[i].Data()) {
			t.Errorf("mask %d differs between strategies", i)
		}
	}
	if st := mask.ScratchStats(); st.Allocations == 0 || st.Hits == 0 {
		t.Errorf("mask strategy did not reuse scratch textures: %+v", st)
	}
}

func TestFillShape_FarGeometry(t *testing.T) {
	for _, s := range strategies {
		for _, far := range []float64{1e3, 1e6, 1e7, 1e8, 1e12} {
			t.Run(fmt.Sprintf("%v/%g", s, far), func(t *testing.T) {
				ctx := newTestContext(t, 32, 32, WithStrategy(s))
				full := ctx.Target().Bounds()
				ctx.FillShape(rectPath(-far, -far, 2*far, 2*far), nil, nil, full, SolidColor(0xFFFF0000))
				for _, pt := range []image.Point{{0, 0}, {1, 1}, {31, 31}} {
					if got := pixel(ctx, pt.X, pt.Y); got != 0xFFFF0000 {
						t.Errorf("rect: pixel%v = %#08x, want 0xffff0000", pt, got)
					}
				}

				ctx.Target().Clear(0)
				tri := NewPath()
				tri.Polygon(Point{X: 0, Y: 0}, Point{X: far, Y: 5}, Point{X: 5, Y: far})
				ctx.FillShape(tri, nil, nil, full, SolidColor(0xFF0000FF))
				if got := pixel(ctx, 10, 10); got != 0xFF0000FF {
					t.Errorf("triangle: pixel(10,10) = %#08x, want 0xff0000ff", got)
				}
			})
		}
	}
}

func TestFillShape_PerspectiveThroughInfinity(t *testing.T) {
	// w crosses zero at x = -10, inside the shape.
	xf := Perspective{{1, 0, 0}, {0, 1, 0}, {0.1, 0, 1}}
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			ctx := newTestContext(t, 32, 32, WithStrategy(s))
			ctx.FillShape(rectPath(-20, 0, 40, 32), nil, xf, ctx.Target().Bounds(), SolidColor(0xFF00FF00))
			if ctx.Target().Lost() {
				t.Fatal("target lost")
			}
		})
	}
}

func TestRasterizeMask(t *testing.T) {
	ctx := newTestContext(t, 30, 30)
	full := ctx.Target().Bounds()

	tests := []struct {
		name       string
		path       *Path
		stroke     *BasicStroke
		xf         Transform
		wantBounds image.Rectangle
		wantSum    int
	}{
		{
			name:       "rect",
			path:       rectPath(2, 3, 10, 10),
			xf:         Identity(),
			wantBounds: image.Rect(2, 3, 12, 13),
			wantSum:    100 * 255,
		},
		{
			name:       "butt stroke",
			path:       func() *Path { p := NewPath(); p.MoveTo(0, 10); p.LineTo(20, 10); return p }(),
			stroke:     &BasicStroke{Width: 2},
			xf:         Identity(),
			wantBounds: image.Rect(0, 9, 20, 11),
			wantSum:    40 * 255,
		},
		{
			name:       "scaled stroke",
			path:       func() *Path { p := NewPath(); p.MoveTo(0, 5); p.LineTo(10, 5); return p }(),
			stroke:     &BasicStroke{Width: 2},
			xf:         Scale(2, 2),
			wantBounds: image.Rect(0, 8, 20, 12),
			wantSum:    80 * 255,
		},
		{
			name:       "perspective rect",
			path:       rectPath(2, 3, 10, 10),
			xf:         projective(Translate(5, 5)),
			wantBounds: image.Rect(7, 8, 17, 18),
			wantSum:    100 * 255,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ctx.RasterizeMask(tt.path, tt.stroke, tt.xf, full)
			if m.Bounds() != tt.wantBounds {
				t.Errorf("Bounds = %v, want %v", m.Bounds(), tt.wantBounds)
			}
			if got := m.Sum(); got != tt.wantSum {
				t.Errorf("Sum = %d, want %d", got, tt.wantSum)
			}
		})
	}
}

func TestRasterizeMask_Empty(t *testing.T) {
	ctx := newTestContext(t, 10, 10)
	tests := []struct {
		name string
		path *Path
		clip image.Rectangle
	}{
		{"nil path", nil, ctx.Target().Bounds()},
		{"empty path", NewPath(), ctx.Target().Bounds()},
		{"outside target", rectPath(20, 20, 5, 5), image.Rect(0, 0, 100, 100)},
		{"empty clip", rectPath(0, 0, 5, 5), image.Rectangle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if m := ctx.RasterizeMask(tt.path, nil, nil, tt.clip); !m.Empty() || m.Sum() != 0 {
				t.Errorf("mask = %v, want empty", m.Bounds())
			}
		})
	}
}

// projective returns the mapping of a as a non-affine matrix, scaled
// by two so that every product stays exact.
func projective(a Affine) Perspective {
	p := PerspectiveFromAffine(a)
	for i := range p {
		for j := range p[i] {
			p[i][j] *= 2
		}
	}
	return p
}

func TestFillShape_PerspectiveMatchesAffine(t *testing.T) {
	affine := newTestContext(t, 32, 32)
	persp := newTestContext(t, 32, 32)
	shape := rectPath(3.3, 4.7, 12.2, 9.9)
	xf := Translate(4, 2).Multiply(Scale(1.5, 1.25))

	affine.FillShape(shape, nil, xf, affine.Target().Bounds(), SolidColor(0xFF808080))
	persp.FillShape(shape, nil, projective(xf), persp.Target().Bounds(), SolidColor(0xFF808080))

	if !slices.Equal(affine.Target().Buffer().Ints, persp.Target().Buffer().Ints) {
		t.Error("perspective form of an affine transform rendered differently")
	}
}

func TestFillShape_LinearGradient(t *testing.T) {
	ctx := newTestContext(t, 100, 1)
	g := NewLinearGradient(0, 0, 100, 0).
		AddStop(Stop(0, 0xFF000000)).
		AddStop(Stop(1, 0xFFFFFFFF))
	ctx.FillShape(rectPath(0, 0, 100, 1), nil, nil, ctx.Target().Bounds(), g)

	prev := -1
	for x := range 100 {
		v := int(pixel(ctx, x, 0) & 0xff)
		if v < prev {
			t.Fatalf("gradient decreases at x=%d: %d < %d", x, v, prev)
		}
		prev = v
	}
	if v := int(pixel(ctx, 50, 0) & 0xff); v < 126 || v > 131 {
		t.Errorf("midpoint = %d, want about 128", v)
	}
	if v := pixel(ctx, 0, 0) & 0xff; v > 2 {
		t.Errorf("start = %d, want about 0", v)
	}
}

func TestFillShape_DegenerateGradientUsesLastStop(t *testing.T) {
	ctx := newTestContext(t, 4, 4)
	g := NewLinearGradient(2, 2, 2, 2).
		AddStop(Stop(0, 0xFF0000FF)).
		AddStop(Stop(1, 0xFFFF0000))
	ctx.FillShape(rectPath(0, 0, 4, 4), nil, nil, ctx.Target().Bounds(), g)
	if got := pixel(ctx, 1, 1); got != 0xFFFF0000 {
		t.Errorf("pixel = %#08x, want last stop", got)
	}
}

func TestFillShape_RadialGradient(t *testing.T) {
	ctx := newTestContext(t, 41, 41)
	g := NewRadialGradient(20.5, 20.5, 10).
		AddStop(Stop(0, 0xFFFFFFFF)).
		AddStop(Stop(1, 0xFF000000))
	ctx.FillShape(rectPath(0, 0, 41, 41), nil, nil, ctx.Target().Bounds(), g)

	if v := pixel(ctx, 20, 20) & 0xff; v < 250 {
		t.Errorf("center = %d, want about 255", v)
	}
	if got := pixel(ctx, 0, 0); got != 0xFF000000 {
		t.Errorf("outside circle = %#08x, want last stop", got)
	}
	// Halfway to the circle.
	if v := int(pixel(ctx, 25, 20) & 0xff); v < 120 || v > 136 {
		t.Errorf("half radius = %d, want about 128", v)
	}
}

func TestRadialShader_Focus(t *testing.T) {
	ctx := newTestContext(t, 1, 1)
	g := NewRadialGradient(0, 0, 10).SetFocus(100, 0).
		AddStop(Stop(0, 0xFF000000)).
		AddStop(Stop(1, 0xFFFFFFFF))
	sh, err := g.newShader(ctx, Identity())
	if err != nil {
		t.Fatal(err)
	}
	rs := sh.(*radialShader)
	if math.Abs(rs.f.X-9.9) > 1e-9 || rs.f.Y != 0 {
		t.Errorf("focus = %v, want clamped to (9.9, 0)", rs.f)
	}
	if got := rs.param(rs.f); got != 0 {
		t.Errorf("param at focus = %v, want 0", got)
	}
	if got := rs.param(Pt(-10, 0)); math.Abs(got-1) > 1e-9 {
		t.Errorf("param on circle = %v, want 1", got)
	}
}

func TestFillShape_ImagePatternTiles(t *testing.T) {
	img, err := pixfmt.NewBuffer(pixfmt.IntArgbPre, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	colors := []uint32{0xFFFF0000, 0xFF00FF00, 0xFF0000FF, 0xFFFFFFFF}
	for i, c := range colors {
		img.SetPre(i%2, i/2, c)
	}

	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			ctx := newTestContext(t, 6, 4, WithStrategy(s))
			ctx.FillShape(rectPath(0, 0, 6, 4), nil, nil, ctx.Target().Bounds(), NewImagePattern(img))
			for y := range 4 {
				for x := range 6 {
					want := colors[(y%2)*2+x%2]
					if got := pixel(ctx, x, y); got != want {
						t.Errorf("pixel(%d,%d) = %#08x, want %#08x", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestFillShape_LostTargetOnAllocationFailure(t *testing.T) {
	img, _ := pixfmt.NewBuffer(pixfmt.IntArgb, 4, 4)
	tests := []struct {
		name     string
		strategy Strategy
		paint    Paint
	}{
		{"mask texture", StrategyMask, SolidColor(0xFFFFFFFF)},
		{"image paint texture", StrategyDirect, NewImagePattern(img)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := backend.NewHostDevice(backend.WithMemoryBudget(16))
			ctx := newTestContext(t, 16, 16, WithStrategy(tt.strategy), WithDevice(dev))
			target := ctx.Target()

			ctx.FillShape(rectPath(0, 0, 16, 16), nil, nil, target.Bounds(), tt.paint)
			if !target.Lost() {
				t.Fatal("target not marked lost")
			}
			if err := target.Err(); !errors.Is(err, ErrTargetLost) || !errors.Is(err, backend.ErrOutOfMemory) {
				t.Errorf("Err = %v", err)
			}
			if got := pixel(ctx, 8, 8); got != 0 {
				t.Errorf("lost fill wrote %#08x", got)
			}

			// Fills are skipped until the target is revived.
			ctx.FillShape(rectPath(0, 0, 4, 4), nil, nil, target.Bounds(), SolidColor(0xFFFFFFFF))
			if got := pixel(ctx, 1, 1); got != 0 {
				t.Errorf("fill into lost target wrote %#08x", got)
			}
			target.Revive()
			if target.Lost() {
				t.Error("Revive did not clear the lost state")
			}
		})
	}
}

func TestContext_RampCache(t *testing.T) {
	ctx := newTestContext(t, 8, 8, WithRampCacheSize(1))
	g1 := NewLinearGradient(0, 0, 8, 0).AddStop(Stop(0, 0xFF000000)).AddStop(Stop(1, 0xFFFFFFFF))
	g2 := NewLinearGradient(0, 0, 8, 0).AddStop(Stop(0, 0xFF000000)).AddStop(Stop(1, 0xFFFFFFFF))
	g3 := NewLinearGradient(0, 0, 8, 0).AddStop(Stop(0, 0xFFFF0000)).AddStop(Stop(1, 0xFFFFFFFF))

	shape := rectPath(0, 0, 8, 8)
	ctx.FillShape(shape, nil, nil, ctx.Target().Bounds(), g1)
	ctx.FillShape(shape, nil, nil, ctx.Target().Bounds(), g2)
	st := ctx.ramps.maps.Stats()
	if st.Misses != 1 || st.Hits != 1 {
		t.Errorf("after equal gradients hits/misses = %d/%d, want 1/1", st.Hits, st.Misses)
	}
	ctx.FillShape(shape, nil, nil, ctx.Target().Bounds(), g3)
	if st := ctx.ramps.maps.Stats(); st.Len != 1 || st.Evictions != 1 {
		t.Errorf("Stats = %+v", st)
	}
}

func TestContext_Contracts(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"nil target", func() { NewContext(nil) }},
		{"unknown strategy", func() {
			target, _ := NewRenderTarget(1, 1)
			NewContext(target, WithStrategy(Strategy(9)))
		}},
		{"nil paint", func() {
			target, _ := NewRenderTarget(1, 1)
			NewContext(target).FillShape(rectPath(0, 0, 1, 1), nil, nil, target.Bounds(), nil)
		}},
		{"closed context", func() {
			target, _ := NewRenderTarget(1, 1)
			ctx := NewContext(target)
			_ = ctx.Close()
			ctx.RasterizeMask(rectPath(0, 0, 1, 1), nil, nil, target.Bounds())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestContext_CloseReleasesScratch(t *testing.T) {
	dev := backend.NewHostDevice()
	target, _ := NewRenderTarget(8, 8)
	ctx := NewContext(target, WithStrategy(StrategyMask), WithDevice(dev))
	ctx.FillShape(rectPath(0, 0, 8, 8), nil, nil, target.Bounds(), SolidColor(0xFFFFFFFF))
	if dev.LiveTextures() != 1 {
		t.Fatalf("LiveTextures = %d, want 1", dev.LiveTextures())
	}
	if err := ctx.Close(); err != nil {
		t.Fatal(err)
	}
	if err := ctx.Close(); err != nil {
		t.Fatal(err)
	}
	if dev.LiveTextures() != 0 {
		t.Errorf("LiveTextures after Close = %d", dev.LiveTextures())
	}
}
