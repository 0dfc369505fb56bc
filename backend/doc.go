// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package backend abstracts the device that owns textures used by the
// rasterizer.
//
// A [Device] creates [Texture] values from a [Descriptor]. A Texture owns its
// storage and must be released exactly once by its owner. Code that only
// needs to read or write another owner's texture receives a [View] built with
// [Borrow], or [BorrowRegion] for its top-left corner; View has no Release
// method, so a borrowed texture cannot be freed by the borrower.
//
// # Host memory device
//
// [HostDevice] keeps textures in process memory. It tracks live bytes and can
// be given a memory budget, in which case allocations that would exceed the
// budget fail with [ErrOutOfMemory]:
//
//	dev := backend.NewHostDevice(backend.WithMemoryBudget(64 << 20))
//	tex, err := dev.CreateTexture(backend.Descriptor{
//		Format: gputypes.TextureFormatR8Unorm,
//		Size:   gputypes.Extent3D{Width: 256, Height: 256, DepthOrArrayLayers: 1},
//		Usage:  gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
//	})
//
// # Formats
//
// Two formats are supported. BGRA8Unorm textures hold premultiplied
// pixels laid out as packed ARGB words, exposed as a [pixfmt.Buffer] in the
// IntArgbPre layout. R8Unorm textures hold single-channel coverage, exposed
// as an [image.Alpha].
package backend
