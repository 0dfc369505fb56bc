package swraster

import "image"

// Mask is an anti-aliased coverage mask in device coordinates.
// Values range from 0 (not covered) to 255 (fully covered).
type Mask struct {
	rect image.Rectangle
	data []uint8
}

// newMask creates an empty mask covering rect.
func newMask(rect image.Rectangle) *Mask {
	rect = rect.Canon()
	return &Mask{rect: rect, data: make([]uint8, rect.Dx()*rect.Dy())}
}

// Bounds returns the device area covered by the mask. It is empty when
// nothing was rasterized.
func (m *Mask) Bounds() image.Rectangle {
	return m.rect
}

// Empty reports whether the mask covers no pixels.
func (m *Mask) Empty() bool { return m.rect.Empty() }

// At returns the coverage at device pixel (x, y).
// Returns 0 for coordinates outside the mask bounds.
func (m *Mask) At(x, y int) uint8 {
	if !(image.Point{X: x, Y: y}).In(m.rect) {
		return 0
	}
	return m.data[(y-m.rect.Min.Y)*m.rect.Dx()+x-m.rect.Min.X]
}

// Sum returns the total coverage of the mask.
func (m *Mask) Sum() int {
	s := 0
	for _, v := range m.data {
		s += int(v)
	}
	return s
}

// Alpha returns a copy of the mask as an image.
func (m *Mask) Alpha() *image.Alpha {
	img := image.NewAlpha(m.rect)
	copy(img.Pix, m.data)
	return img
}

// Data returns the underlying row-major coverage, Bounds().Dx() values per
// row.
func (m *Mask) Data() []uint8 {
	return m.data
}
