// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/swraster/pixfmt"
)

// View is a non-owning handle to another owner's texture.
//
// A View exposes the texture's storage but cannot release it. The owner
// keeps the texture alive for as long as the View is used.
type View struct {
	tex  Texture
	w, h int
}

// Borrow returns a View of t. The zero View is returned for a nil texture.
func Borrow(t Texture) View {
	if t == nil {
		return View{}
	}
	return View{tex: t, w: t.Width(), h: t.Height()}
}

// BorrowRegion returns a View of the top-left width x height pixels of t,
// clamped to the texture size. Cached textures are often larger than their
// content; the region keeps consumers to the content.
func BorrowRegion(t Texture, width, height int) View {
	if t == nil {
		return View{}
	}
	return View{tex: t, w: max(0, min(width, t.Width())), h: max(0, min(height, t.Height()))}
}

// Valid reports whether the view refers to a live texture.
func (v View) Valid() bool {
	return v.tex != nil && !v.tex.Released()
}

// Width returns the width of the view, or 0 for an invalid view.
func (v View) Width() int { return v.w }

// Height returns the height of the view, or 0 for an invalid view.
func (v View) Height() int { return v.h }

// Format returns the format of the viewed texture.
func (v View) Format() gputypes.TextureFormat {
	if v.tex == nil {
		return gputypes.TextureFormatUndefined
	}
	return v.tex.Descriptor().Format
}

// Pixels returns the color storage of the view. For a region smaller than
// the texture the buffer shares the texture's storage and stride.
func (v View) Pixels() *pixfmt.Buffer {
	if v.tex == nil {
		return nil
	}
	buf := v.tex.Pixels()
	if buf == nil || (buf.Width == v.w && buf.Height == v.h) {
		return buf
	}
	sub := *buf
	sub.Width, sub.Height = v.w, v.h
	return &sub
}

// Coverage returns the coverage storage of the view.
func (v View) Coverage() *image.Alpha {
	if v.tex == nil {
		return nil
	}
	a := v.tex.Coverage()
	if a == nil || (a.Rect.Dx() == v.w && a.Rect.Dy() == v.h) {
		return a
	}
	return a.SubImage(image.Rect(0, 0, v.w, v.h)).(*image.Alpha)
}
