// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/swraster/pixfmt"
)

// HostDevice allocates textures in process memory.
//
// HostDevice is safe for concurrent use. Textures it creates report their
// release back to the device so that LiveBytes stays accurate.
type HostDevice struct {
	mu       sync.Mutex
	name     string
	budget   int64
	live     int64
	textures int
	created  uint64
	closed   bool
}

// HostOption configures a HostDevice.
type HostOption func(*HostDevice)

// WithMemoryBudget limits the total bytes of live textures.
// A budget of 0 or less means unlimited.
func WithMemoryBudget(bytes int64) HostOption {
	return func(d *HostDevice) {
		d.budget = bytes
	}
}

// WithName sets the device name reported by Name.
func WithName(name string) HostOption {
	return func(d *HostDevice) {
		d.name = name
	}
}

// NewHostDevice creates a host memory device.
func NewHostDevice(opts ...HostOption) *HostDevice {
	d := &HostDevice{name: "host"}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name implements Device.
func (d *HostDevice) Name() string {
	return d.name
}

// CreateTexture implements Device.
func (d *HostDevice) CreateTexture(desc Descriptor) (Texture, error) {
	bpp := BytesPerPixel(desc.Format)
	if bpp == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, desc.Format)
	}
	w, h := desc.Size.Width, desc.Size.Height
	if w == 0 || h == 0 || w > MaxTextureDimension || h > MaxTextureDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	if desc.Size.DepthOrArrayLayers == 0 {
		desc.Size.DepthOrArrayLayers = 1
	}
	size := int64(w) * int64(h) * int64(bpp)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrDeviceClosed
	}
	if d.budget > 0 && d.live+size > d.budget {
		live := d.live
		d.mu.Unlock()
		return nil, fmt.Errorf("%w: %q needs %d bytes, %d of %d in use",
			ErrOutOfMemory, desc.Label, size, live, d.budget)
	}
	d.live += size
	d.textures++
	d.created++
	d.mu.Unlock()

	t := &hostTexture{device: d, desc: desc, size: size}
	switch desc.Format {
	case gputypes.TextureFormatR8Unorm:
		t.alpha = image.NewAlpha(image.Rect(0, 0, int(w), int(h)))
	default:
		buf, err := pixfmt.NewBuffer(pixfmt.IntArgbPre, int(w), int(h))
		if err != nil {
			d.free(size)
			return nil, err
		}
		t.pixels = buf
	}
	return t, nil
}

// LiveBytes returns the bytes held by textures that have not been released.
func (d *HostDevice) LiveBytes() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live
}

// LiveTextures returns the number of textures that have not been released.
func (d *HostDevice) LiveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.textures
}

// Created returns the total number of textures ever created.
func (d *HostDevice) Created() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created
}

// Close rejects further allocations. Live textures stay valid until released.
func (d *HostDevice) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

func (d *HostDevice) free(size int64) {
	d.mu.Lock()
	d.live -= size
	d.textures--
	d.mu.Unlock()
}

// hostTexture is a Texture backed by Go memory.
type hostTexture struct {
	mu       sync.Mutex
	device   *HostDevice
	desc     Descriptor
	size     int64
	pixels   *pixfmt.Buffer
	alpha    *image.Alpha
	released bool
}

func (t *hostTexture) Descriptor() Descriptor { return t.desc }
func (t *hostTexture) Width() int             { return int(t.desc.Size.Width) }
func (t *hostTexture) Height() int            { return int(t.desc.Size.Height) }

func (t *hostTexture) Pixels() *pixfmt.Buffer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pixels
}

func (t *hostTexture) Coverage() *image.Alpha {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.alpha
}

func (t *hostTexture) Release() {
	t.mu.Lock()
	if t.released {
		t.mu.Unlock()
		return
	}
	t.released = true
	t.pixels = nil
	t.alpha = nil
	t.mu.Unlock()
	t.device.free(t.size)
}

func (t *hostTexture) Released() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.released
}

var _ Device = (*HostDevice)(nil)
