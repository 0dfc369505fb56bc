package swraster

import (
	"fmt"
	"image"

	"github.com/gogpu/swraster/pixfmt"
)

// RenderTarget is the destination of a Context's fills.
//
// A target is marked lost when a resource it needs cannot be allocated.
// Fills into a lost target are skipped until Revive is called, which
// degrades the current frame instead of failing the render loop.
type RenderTarget struct {
	buf  *pixfmt.Buffer
	lost error
}

// NewRenderTarget allocates a transparent width x height target in the
// IntArgbPre layout.
func NewRenderTarget(width, height int) (*RenderTarget, error) {
	buf, err := pixfmt.NewBuffer(pixfmt.IntArgbPre, width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}
	return &RenderTarget{buf: buf}, nil
}

// WrapRenderTarget returns a target drawing into buf, which may use any
// layout.
func WrapRenderTarget(buf *pixfmt.Buffer) (*RenderTarget, error) {
	if buf == nil || !buf.Layout.IsValid() || buf.Width <= 0 || buf.Height <= 0 {
		return nil, ErrInvalidTarget
	}
	return &RenderTarget{buf: buf}, nil
}

// Buffer returns the pixels of the target.
func (t *RenderTarget) Buffer() *pixfmt.Buffer { return t.buf }

// Width returns the target width in pixels.
func (t *RenderTarget) Width() int { return t.buf.Width }

// Height returns the target height in pixels.
func (t *RenderTarget) Height() int { return t.buf.Height }

// Bounds returns the target rectangle, usable as a clip covering it all.
func (t *RenderTarget) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.buf.Width, t.buf.Height)
}

// Lost reports whether the target has been marked lost.
func (t *RenderTarget) Lost() bool { return t.lost != nil }

// Err returns the cause of the loss, or nil.
func (t *RenderTarget) Err() error {
	if t.lost == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTargetLost, t.lost)
}

// MarkLost marks the target lost. The first cause is kept.
func (t *RenderTarget) MarkLost(cause error) {
	if cause == nil {
		cause = ErrTargetLost
	}
	if t.lost == nil {
		t.lost = cause
	}
}

// Revive clears the lost state so the next frame can render again.
func (t *RenderTarget) Revive() { t.lost = nil }

// ClearRect sets the pixels of r inside the target to the
// non-premultiplied ARGB color.
func (t *RenderTarget) ClearRect(r image.Rectangle, argb uint32) {
	r = r.Intersect(t.Bounds())
	pre := pixfmt.Premultiply(argb)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			t.buf.SetPre(x, y, pre)
		}
	}
}

// Clear sets every pixel to the non-premultiplied ARGB color.
func (t *RenderTarget) Clear(argb uint32) {
	if argb == 0 {
		t.buf.Clear()
		return
	}
	t.buf.Fill(argb)
}
