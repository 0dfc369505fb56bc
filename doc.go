// Package swraster is a software rasterization and gradient compositing
// core.
//
// # Overview
//
// A [Context] fills vector shapes into a [RenderTarget]. Each fill takes
// a [Path], an optional [BasicStroke], a [Transform], an integer clip
// rectangle and a [Paint]:
//
//	target, _ := swraster.NewRenderTarget(256, 256)
//	ctx := swraster.NewContext(target)
//	defer ctx.Close()
//
//	p := swraster.NewPath()
//	p.Circle(128, 128, 100)
//
//	g := swraster.NewLinearGradient(28, 0, 228, 0).
//	    AddStop(swraster.Stop(0, 0xFF0000FF)).
//	    AddStop(swraster.Stop(1, 0xFFFF0000))
//	ctx.FillShape(p, nil, swraster.Identity(), target.Bounds(), g)
//
// # Strategies
//
// Coverage is computed once per shape by an anti-aliasing scanline
// producer. [StrategyDirect] composites straight from the producer's
// buffer; [StrategyMask] first uploads coverage into a cached mask texture.
// The strategy is chosen with [WithStrategy] and both yield the same
// pixels.
//
// # Gradients
//
// [GradientColorMap] precomputes a 256-entry ramp from 16.16 fixed-point
// stops, softening stop boundaries by averaging nearby samples. Contexts
// keep recently used color maps in a small cache.
//
// # Resources
//
// Scratch textures (mask, readback and image paint) come from a
// [scratch.Cache] on a [backend.Device]. If one cannot be allocated the
// target is marked lost: the fill is dropped, [RenderTarget.Lost] reports
// true and later fills are skipped until [RenderTarget.Revive].
//
// # Effects
//
// A [FilterChain] runs filters such as [DisplacementMap] and [ColorMatrix] on
// device textures. Filters a device cannot run natively go through their
// software implementation on a borrowed [backend.View] of the texture.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Pixel (x, y) is sampled at its center (x+0.5, y+0.5)
package swraster
