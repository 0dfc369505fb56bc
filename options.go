package swraster

import (
	"log/slog"

	"github.com/gogpu/swraster/backend"
)

// Option configures a Context during creation.
//
// Example:
//
//	// Software scanline rendering with default settings
//	ctx := swraster.NewContext(target)
//
//	// Mask textures on a shared device
//	ctx := swraster.NewContext(target,
//	    swraster.WithStrategy(swraster.StrategyMask),
//	    swraster.WithDevice(dev))
type Option func(*options)

// options holds optional configuration for Context creation.
type options struct {
	strategy      Strategy
	rule          CompositeRule
	device        backend.Device
	rampCacheSize int
	tolerance     float64
	logger        *slog.Logger
}

// defaultOptions returns the default context options.
func defaultOptions() options {
	return options{
		strategy:      StrategyDirect,
		rampCacheSize: defaultRampCacheSize,
		tolerance:     defaultTolerance,
	}
}

// WithStrategy selects how coverage reaches the target. The strategy is
// fixed for the lifetime of the Context.
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithCompositeRule sets the initial composite rule. The default is
// CompositeSrcOver.
func WithCompositeRule(r CompositeRule) Option {
	return func(o *options) {
		o.rule = r
	}
}

// WithDevice sets the device that allocates scratch textures. By default
// each Context creates a private host-memory device.
func WithDevice(d backend.Device) Option {
	return func(o *options) {
		o.device = d
	}
}

// WithRampCacheSize sets how many gradient color maps the Context keeps.
// Zero or less means unlimited.
func WithRampCacheSize(n int) Option {
	return func(o *options) {
		o.rampCacheSize = n
	}
}

// WithTolerance sets the maximum distance in device pixels between a curve
// and its flattened approximation. Non-positive values are ignored.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		if tol > 0 {
			o.tolerance = tol
		}
	}
}

// WithLogger sets the logger of the Context, overriding the package logger
// set with SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
