// Package pixfmt converts pixels between packed 32-bit ARGB and the
// in-memory buffer layouts used by render targets and textures.
//
// The canonical pixel value is a non-premultiplied uint32 laid out as
// A<<24 | R<<16 | G<<8 | B. Every layout has a stateless codec selected by a
// switch on [Layout], so a single Layout value can be shared freely.
package pixfmt

// Layout identifies a concrete buffer layout.
type Layout uint8

const (
	// IntArgb stores one non-premultiplied packed ARGB value per uint32.
	IntArgb Layout = iota

	// IntArgbPre stores one premultiplied packed ARGB value per uint32.
	IntArgbPre

	// ByteBgra stores four bytes per pixel in B, G, R, A order, non-premultiplied.
	ByteBgra

	// ByteBgraPre stores four bytes per pixel in B, G, R, A order, premultiplied.
	ByteBgraPre

	layoutCount
)

// Info describes the storage of a layout.
type Info struct {
	// BytesPerPixel is the number of bytes one pixel occupies.
	BytesPerPixel int

	// PixelStride is the number of elements of the backing slice per pixel:
	// 1 for int layouts, 4 for byte layouts.
	PixelStride int

	// Packed reports whether the layout is backed by []uint32.
	Packed bool

	// Premultiplied reports whether color channels are premultiplied by alpha.
	Premultiplied bool
}

var infoTable = [layoutCount]Info{
	IntArgb:     {BytesPerPixel: 4, PixelStride: 1, Packed: true},
	IntArgbPre:  {BytesPerPixel: 4, PixelStride: 1, Packed: true, Premultiplied: true},
	ByteBgra:    {BytesPerPixel: 4, PixelStride: 4},
	ByteBgraPre: {BytesPerPixel: 4, PixelStride: 4, Premultiplied: true},
}

// Info returns the storage description of l.
// Unknown layouts return the zero Info.
func (l Layout) Info() Info {
	if l >= layoutCount {
		return Info{}
	}
	return infoTable[l]
}

// IsValid reports whether l is a known layout.
func (l Layout) IsValid() bool {
	return l < layoutCount
}

// IsPacked reports whether l is backed by []uint32.
func (l Layout) IsPacked() bool {
	return l.Info().Packed
}

// IsPremultiplied reports whether l stores premultiplied channels.
func (l Layout) IsPremultiplied() bool {
	return l.Info().Premultiplied
}

// Premultiplied returns the premultiplied counterpart of l.
func (l Layout) Premultiplied() Layout {
	switch l {
	case IntArgb:
		return IntArgbPre
	case ByteBgra:
		return ByteBgraPre
	default:
		return l
	}
}

// Straight returns the non-premultiplied counterpart of l.
func (l Layout) Straight() Layout {
	switch l {
	case IntArgbPre:
		return IntArgb
	case ByteBgraPre:
		return ByteBgra
	default:
		return l
	}
}

// String returns the layout name.
func (l Layout) String() string {
	switch l {
	case IntArgb:
		return "IntArgb"
	case IntArgbPre:
		return "IntArgbPre"
	case ByteBgra:
		return "ByteBgra"
	case ByteBgraPre:
		return "ByteBgraPre"
	default:
		return "Unknown"
	}
}

// ParseLayout returns the layout with the given name.
func ParseLayout(name string) (Layout, bool) {
	for l := IntArgb; l < layoutCount; l++ {
		if l.String() == name {
			return l, true
		}
	}
	return 0, false
}
