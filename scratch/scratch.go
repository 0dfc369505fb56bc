// Package scratch caches reusable scratch textures for the rasterizer.
//
// One texture is kept per [Kind]. A request for a kind is served from the
// cached texture when it is large enough, otherwise a larger texture
// replaces it. Physical capacity is rounded up to a multiple of 64 in each
// dimension, so the logical content size reported by [Cache.Content] may be
// smaller than the texture.
//
// Cached textures are held strongly until [Cache.Trim] is called. Trim
// demotes every holder to a weak reference, after which the garbage
// collector may reclaim the texture; [Cache.Validate] then transparently
// allocates a fresh one. A reclaimed texture is released back to its device
// by a runtime cleanup, or by Validate itself if the cleanup has not run
// yet, so the replacement never competes with it for device memory.
package scratch

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"weak"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/swraster/backend"
)

// Kind identifies the purpose of a scratch texture.
type Kind uint8

const (
	// KindMask holds single-channel coverage for mask fills.
	KindMask Kind = iota

	// KindReadback holds color pixels read back from a target.
	KindReadback

	// KindImagePaint holds the premultiplied pixels of an image pattern.
	KindImagePaint

	kindCount
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMask:
		return "mask"
	case KindReadback:
		return "readback"
	case KindImagePaint:
		return "image-paint"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Format returns the texture format used for the kind.
func (k Kind) Format() gputypes.TextureFormat {
	if k == KindMask {
		return gputypes.TextureFormatR8Unorm
	}
	return gputypes.TextureFormatBGRA8Unorm
}

func (k Kind) usage() gputypes.TextureUsage {
	switch k {
	case KindReadback:
		return gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc | gputypes.TextureUsageTextureBinding
	default:
		return gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding
	}
}

// Granularity is the capacity rounding step in pixels.
const Granularity = 64

// ErrInvalidRequest is returned for an unknown kind or a non-positive size.
var ErrInvalidRequest = errors.New("scratch: invalid request")

// Stats reports cache activity.
type Stats struct {
	Hits        uint64
	Allocations uint64
	Reclaimed   uint64
	Failures    uint64
	Resident    int
}

// slot pairs a texture with the logical size of its current content.
type slot struct {
	tex     backend.Texture
	width   int
	height  int
	cleanup runtime.Cleanup
}

// holder keeps a slot either strongly or, after Trim, weakly. tex is the
// storage of a demoted slot; it is released when the slot is found
// reclaimed.
type holder struct {
	strong  *slot
	weak    weak.Pointer[slot]
	tex     backend.Texture
	demoted bool
}

func (h *holder) get() *slot {
	if h.strong != nil {
		return h.strong
	}
	if h.demoted {
		return h.weak.Value()
	}
	return nil
}

// Cache holds one scratch texture per kind.
//
// Cache is safe for concurrent use, although a render target normally owns
// one Cache and uses it from a single goroutine.
type Cache struct {
	mu      sync.Mutex
	dev     backend.Device
	logger  *slog.Logger
	holders [kindCount]holder
	stats   Stats
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for allocation events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an empty cache allocating from dev.
func New(dev backend.Device, opts ...Option) *Cache {
	c := &Cache{
		dev:    dev,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate returns a texture of the given kind at least width x height pixels
// large, allocating or growing it as needed, and records width x height as
// the logical content size.
//
// The returned texture remains owned by the cache: callers must not release
// it and must call Validate again before each use.
func (c *Cache) Validate(kind Kind, width, height int) (backend.Texture, error) {
	if kind >= kindCount || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %v %dx%d", ErrInvalidRequest, kind, width, height)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	h := &c.holders[kind]
	s := h.get()
	if s == nil && h.demoted {
		h.tex.Release()
		c.stats.Reclaimed++
		c.logger.Debug("scratch texture reclaimed", "kind", kind)
	}
	if s != nil && !s.tex.Released() && s.tex.Width() >= width && s.tex.Height() >= height {
		s.width, s.height = width, height
		*h = holder{strong: s}
		c.stats.Hits++
		return s.tex, nil
	}

	capW, capH := roundUp(width), roundUp(height)
	if s != nil {
		capW = max(capW, s.tex.Width())
		capH = max(capH, s.tex.Height())
		s.cleanup.Stop()
		s.tex.Release()
	}
	*h = holder{}

	tex, err := c.dev.CreateTexture(backend.Texture2D("scratch-"+kind.String(), kind.Format(), capW, capH, kind.usage()))
	if err != nil {
		c.stats.Failures++
		return nil, fmt.Errorf("scratch: allocate %v %dx%d: %w", kind, capW, capH, err)
	}

	s = &slot{tex: tex, width: width, height: height}
	s.cleanup = runtime.AddCleanup(s, releaseTexture, tex)
	*h = holder{strong: s}
	c.stats.Allocations++
	c.logger.Debug("scratch texture allocated", "kind", kind, "width", capW, "height", capH)
	return tex, nil
}

// Content returns the logical content size last recorded for kind.
// ok is false when no texture of that kind is held.
func (c *Cache) Content(kind Kind) (width, height int, ok bool) {
	if kind >= kindCount {
		return 0, 0, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.holders[kind].get()
	if s == nil {
		return 0, 0, false
	}
	return s.width, s.height, true
}

// Trim demotes every cached texture to a weak reference so the garbage
// collector may reclaim it under memory pressure.
func (c *Cache) Trim() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.holders {
		h := &c.holders[i]
		if h.strong == nil {
			continue
		}
		*h = holder{weak: weak.Make(h.strong), tex: h.strong.tex, demoted: true}
	}
}

// Dispose releases every cached texture immediately.
func (c *Cache) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.holders {
		h := &c.holders[i]
		if s := h.get(); s != nil {
			s.cleanup.Stop()
			s.tex.Release()
		} else if h.tex != nil {
			h.tex.Release()
		}
		*h = holder{}
	}
}

// Stats returns a snapshot of cache activity.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stats
	for i := range c.holders {
		if c.holders[i].get() != nil {
			st.Resident++
		}
	}
	return st
}

func releaseTexture(t backend.Texture) {
	t.Release()
}

func roundUp(n int) int {
	return (n + Granularity - 1) / Granularity * Granularity
}
