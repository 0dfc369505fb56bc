package pixfmt

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var (
	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("pixfmt: invalid dimensions")

	// ErrInvalidLayout is returned for an unknown layout.
	ErrInvalidLayout = errors.New("pixfmt: invalid layout")

	// ErrBufferTooSmall is returned when backing storage cannot hold the image.
	ErrBufferTooSmall = errors.New("pixfmt: buffer too small")
)

// Buffer is a rectangular pixel buffer in one of the supported layouts.
//
// Packed layouts keep their pixels in Ints with Stride counted in uint32
// elements; byte layouts keep them in Bytes with Stride counted in bytes.
// Buffer implements draw.Image with a non-premultiplied color model so it
// can feed image/png and golang.org/x/image/draw directly.
type Buffer struct {
	Layout Layout
	Width  int
	Height int
	Stride int
	Bytes  []byte
	Ints   []uint32
}

// NewBuffer allocates a zeroed buffer with a tight stride.
func NewBuffer(l Layout, width, height int) (*Buffer, error) {
	if !l.IsValid() {
		return nil, ErrInvalidLayout
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	b := &Buffer{Layout: l, Width: width, Height: height}
	if l.IsPacked() {
		b.Stride = width
		b.Ints = make([]uint32, width*height)
	} else {
		b.Stride = width * 4
		b.Bytes = make([]byte, width*height*4)
	}
	return b, nil
}

// WrapInts wraps existing packed storage without copying.
func WrapInts(l Layout, ints []uint32, width, height, stride int) (*Buffer, error) {
	if !l.IsPacked() {
		return nil, fmt.Errorf("%w: %v over []uint32", ErrInvalidLayout, l)
	}
	if width <= 0 || height <= 0 || stride < width {
		return nil, fmt.Errorf("%w: %dx%d stride %d", ErrInvalidDimensions, width, height, stride)
	}
	if len(ints) < (height-1)*stride+width {
		return nil, ErrBufferTooSmall
	}
	return &Buffer{Layout: l, Width: width, Height: height, Stride: stride, Ints: ints}, nil
}

// WrapBytes wraps existing byte storage without copying.
func WrapBytes(l Layout, data []byte, width, height, stride int) (*Buffer, error) {
	if !l.IsValid() || l.IsPacked() {
		return nil, fmt.Errorf("%w: %v over []byte", ErrInvalidLayout, l)
	}
	if width <= 0 || height <= 0 || stride < width*4 {
		return nil, fmt.Errorf("%w: %dx%d stride %d", ErrInvalidDimensions, width, height, stride)
	}
	if len(data) < (height-1)*stride+width*4 {
		return nil, ErrBufferTooSmall
	}
	return &Buffer{Layout: l, Width: width, Height: height, Stride: stride, Bytes: data}, nil
}

// InBounds reports whether (x, y) addresses a pixel of b.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// Get returns the non-premultiplied ARGB value at (x, y).
// Out-of-bounds reads return transparent black.
func (b *Buffer) Get(x, y int) uint32 {
	if !b.InBounds(x, y) {
		return 0
	}
	if b.Layout.IsPacked() {
		return DecodeInt(b.Layout, b.Ints, x, y, b.Stride)
	}
	return DecodeByte(b.Layout, b.Bytes, x, y, b.Stride)
}

// Put stores a non-premultiplied ARGB value at (x, y).
// Out-of-bounds writes are ignored.
func (b *Buffer) Put(x, y int, argb uint32) {
	if !b.InBounds(x, y) {
		return
	}
	if b.Layout.IsPacked() {
		EncodeInt(b.Layout, b.Ints, x, y, b.Stride, argb)
		return
	}
	EncodeByte(b.Layout, b.Bytes, x, y, b.Stride, argb)
}

// AtPre returns the premultiplied ARGB value at (x, y). Premultiplied
// layouts return the stored value without a conversion round trip.
func (b *Buffer) AtPre(x, y int) uint32 {
	if !b.InBounds(x, y) {
		return 0
	}
	switch b.Layout {
	case IntArgbPre:
		return b.Ints[y*b.Stride+x]
	case ByteBgraPre:
		i := y*b.Stride + x*4
		return Pack(b.Bytes[i+3], b.Bytes[i+2], b.Bytes[i+1], b.Bytes[i])
	default:
		return Premultiply(b.Get(x, y))
	}
}

// SetPre stores a premultiplied ARGB value at (x, y).
func (b *Buffer) SetPre(x, y int, pre uint32) {
	if !b.InBounds(x, y) {
		return
	}
	switch b.Layout {
	case IntArgbPre:
		b.Ints[y*b.Stride+x] = pre
	case ByteBgraPre:
		i := y*b.Stride + x*4
		b.Bytes[i] = byte(pre)
		b.Bytes[i+1] = byte(pre >> 8)
		b.Bytes[i+2] = byte(pre >> 16)
		b.Bytes[i+3] = byte(pre >> 24)
	default:
		b.Put(x, y, Unpremultiply(pre))
	}
}

// Fill sets every pixel to the non-premultiplied ARGB value.
func (b *Buffer) Fill(argb uint32) {
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			b.Put(x, y, argb)
		}
	}
}

// Clear sets every pixel to transparent black.
func (b *Buffer) Clear() {
	if b.Layout.IsPacked() {
		for y := 0; y < b.Height; y++ {
			clear(b.Ints[y*b.Stride : y*b.Stride+b.Width])
		}
		return
	}
	for y := 0; y < b.Height; y++ {
		clear(b.Bytes[y*b.Stride : y*b.Stride+b.Width*4])
	}
}

// Convert returns a copy of b in layout l.
func (b *Buffer) Convert(l Layout) (*Buffer, error) {
	out, err := NewBuffer(l, b.Width, b.Height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if l.IsPremultiplied() {
				out.SetPre(x, y, b.AtPre(x, y))
			} else {
				out.Put(x, y, b.Get(x, y))
			}
		}
	}
	return out, nil
}

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// At implements image.Image.
func (b *Buffer) At(x, y int) color.Color {
	a, r, g, bl := Unpack(b.Get(x, y))
	return color.NRGBA{R: r, G: g, B: bl, A: a}
}

// Set implements draw.Image.
func (b *Buffer) Set(x, y int, c color.Color) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	b.Put(x, y, Pack(n.A, n.R, n.G, n.B))
}

// ToNRGBA copies b into a new *image.NRGBA.
func (b *Buffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(b.Bounds())
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			a, r, g, bl := Unpack(b.Get(x, y))
			i := img.PixOffset(x, y)
			img.Pix[i] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = bl
			img.Pix[i+3] = a
		}
	}
	return img
}
