// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/swraster/pixfmt"
)

// Common backend errors.
var (
	// ErrOutOfMemory is returned when a texture cannot be allocated.
	ErrOutOfMemory = errors.New("backend: out of memory")

	// ErrUnsupportedFormat is returned for texture formats the device cannot store.
	ErrUnsupportedFormat = errors.New("backend: unsupported texture format")

	// ErrInvalidSize is returned when a descriptor has a zero or oversized extent.
	ErrInvalidSize = errors.New("backend: invalid texture size")

	// ErrDeviceClosed is returned when creating textures on a closed device.
	ErrDeviceClosed = errors.New("backend: device closed")
)

// MaxTextureDimension is the largest width or height a texture may have.
const MaxTextureDimension = 16384

// Descriptor describes a texture to create.
type Descriptor struct {
	// Label is an optional debug name.
	Label string

	// Format is the texture pixel format.
	Format gputypes.TextureFormat

	// Size is the texture extent. DepthOrArrayLayers of 0 is treated as 1.
	Size gputypes.Extent3D

	// Usage specifies how the texture will be used.
	Usage gputypes.TextureUsage
}

// Device creates textures.
type Device interface {
	// Name identifies the device in logs.
	Name() string

	// CreateTexture allocates a texture described by desc.
	CreateTexture(desc Descriptor) (Texture, error)
}

// Texture is an owned texture. The owner must call Release exactly once.
type Texture interface {
	// Descriptor returns the descriptor the texture was created with.
	Descriptor() Descriptor

	// Width returns the texture width in pixels.
	Width() int

	// Height returns the texture height in pixels.
	Height() int

	// Pixels returns color storage for BGRA8Unorm textures, nil otherwise.
	Pixels() *pixfmt.Buffer

	// Coverage returns single-channel storage for R8Unorm textures, nil otherwise.
	Coverage() *image.Alpha

	// Release frees the storage. Calls after the first are no-ops.
	Release()

	// Released reports whether Release has been called.
	Released() bool
}

// BytesPerPixel returns the storage size of one texel, or 0 for
// formats the backend does not store.
func BytesPerPixel(format gputypes.TextureFormat) int {
	switch format {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatBGRA8Unorm:
		return 4
	default:
		return 0
	}
}

// Texture2D returns a descriptor for a single-layer 2D texture.
func Texture2D(label string, format gputypes.TextureFormat, width, height int, usage gputypes.TextureUsage) Descriptor {
	return Descriptor{
		Label:  label,
		Format: format,
		Size: gputypes.Extent3D{
			Width:              uint32(width),  //nolint:gosec // validated by CreateTexture
			Height:             uint32(height), //nolint:gosec // validated by CreateTexture
			DepthOrArrayLayers: 1,
		},
		Usage: usage,
	}
}
