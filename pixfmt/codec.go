package pixfmt

import "fmt"

// Pack assembles a packed ARGB value from 8-bit channels.
func Pack(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Unpack splits a packed ARGB value into 8-bit channels.
func Unpack(argb uint32) (a, r, g, b uint8) {
	return uint8(argb >> 24), uint8(argb >> 16), uint8(argb >> 8), uint8(argb)
}

// Premultiply converts a non-premultiplied ARGB value to premultiplied form.
// Channels are scaled by (c*a + 127) / 255; alpha 0 yields 0 and alpha 255
// leaves the value unchanged.
func Premultiply(argb uint32) uint32 {
	a := argb >> 24
	switch a {
	case 0:
		return 0
	case 0xff:
		return argb
	}
	r := ((argb>>16)&0xff*a + 127) / 255
	g := ((argb>>8)&0xff*a + 127) / 255
	b := ((argb)&0xff*a + 127) / 255
	return a<<24 | r<<16 | g<<8 | b
}

// Unpremultiply converts a premultiplied ARGB value to non-premultiplied form.
// A channel at or above alpha saturates to 255.
func Unpremultiply(argb uint32) uint32 {
	a := argb >> 24
	if a == 0 || a == 0xff {
		return argb
	}
	r := unpremulChannel((argb>>16)&0xff, a)
	g := unpremulChannel((argb>>8)&0xff, a)
	b := unpremulChannel(argb&0xff, a)
	return a<<24 | r<<16 | g<<8 | b
}

func unpremulChannel(c, a uint32) uint32 {
	if c >= a {
		return 0xff
	}
	return (c*255 + a/2) / a
}

// DecodeInt reads pixel (x, y) from a packed-int buffer and returns it as
// non-premultiplied ARGB. The pixel lives at buf[y*stride + x].
func DecodeInt(l Layout, buf []uint32, x, y, stride int) uint32 {
	v := buf[y*stride+x]
	switch l {
	case IntArgb:
		return v
	case IntArgbPre:
		return Unpremultiply(v)
	default:
		panic(fmt.Sprintf("pixfmt: %v is not a packed-int layout", l))
	}
}

// EncodeInt stores the non-premultiplied ARGB value at pixel (x, y) of a
// packed-int buffer.
func EncodeInt(l Layout, buf []uint32, x, y, stride int, argb uint32) {
	i := y*stride + x
	switch l {
	case IntArgb:
		buf[i] = argb
	case IntArgbPre:
		buf[i] = Premultiply(argb)
	default:
		panic(fmt.Sprintf("pixfmt: %v is not a packed-int layout", l))
	}
}

// DecodeByte reads pixel (x, y) from an interleaved BGRA byte buffer and
// returns it as non-premultiplied ARGB. The pixel starts at
// buf[y*stride + x*4].
func DecodeByte(l Layout, buf []byte, x, y, stride int) uint32 {
	i := y*stride + x*4
	p := buf[i : i+4 : i+4]
	v := Pack(p[3], p[2], p[1], p[0])
	switch l {
	case ByteBgra:
		return v
	case ByteBgraPre:
		return Unpremultiply(v)
	default:
		panic(fmt.Sprintf("pixfmt: %v is not a byte layout", l))
	}
}

// EncodeByte stores the non-premultiplied ARGB value at pixel (x, y) of an
// interleaved BGRA byte buffer.
func EncodeByte(l Layout, buf []byte, x, y, stride int, argb uint32) {
	switch l {
	case ByteBgra:
	case ByteBgraPre:
		argb = Premultiply(argb)
	default:
		panic(fmt.Sprintf("pixfmt: %v is not a byte layout", l))
	}
	i := y*stride + x*4
	p := buf[i : i+4 : i+4]
	p[0] = byte(argb)
	p[1] = byte(argb >> 8)
	p[2] = byte(argb >> 16)
	p[3] = byte(argb >> 24)
}
