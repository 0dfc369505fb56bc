package swraster

import (
	"testing"

	"github.com/gogpu/swraster/backend"
)

func TestColorMatrix(t *testing.T) {
	tests := []struct {
		name string
		m    *ColorMatrix
		in   uint32 // premultiplied
		want uint32
	}{
		{"identity", NewColorMatrix(), 0x80402010, 0x80402010},
		{"identity transparent", NewColorMatrix(), 0, 0},
		{"invert", Invert(), 0xFFFF0000, 0xFF00FFFF},
		{"grayscale", Saturation(0), 0xFFFF0000, 0xFF363636},
		{"opacity", Opacity(0.5), 0xFFFFFFFF, 0x80808080},
		{"brightness", Brightness(2), 0xFF402010, 0xFF804020},
		{"brightness then invert", Brightness(0.5).Then(Invert()), 0xFFFFFFFF, 0xFF808080},
		{"invert then brightness", Invert().Then(Brightness(0.5)), 0xFFFFFFFF, 0xFF000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := backend.NewHostDevice()
			src := colorTexture(t, dev, 1, 1)
			src.Pixels().SetPre(0, 0, tt.in)

			out, err := NewFilterChain(tt.m).Run(dev, src)
			if err != nil {
				t.Fatal(err)
			}
			if got := out.Pixels().AtPre(0, 0); got != tt.want {
				t.Errorf("result = %#08x, want %#08x", got, tt.want)
			}
		})
	}
}

func TestFilterChain_MixedStages(t *testing.T) {
	dev := backend.NewHostDevice()
	src := colorTexture(t, dev, 4, 4)
	shift := NewDisplacementMap(NewFloatMap(1, 1))
	shift.OffsetX = 0.25

	out, err := NewFilterChain(shift, Invert()).Run(dev, src)
	if err != nil {
		t.Fatal(err)
	}
	want := src.Pixels().AtPre(2, 1) ^ 0x00FFFFFF
	if got := out.Pixels().AtPre(1, 1); got != want {
		t.Errorf("pixel(1,1) = %#08x, want %#08x", got, want)
	}
	if got := out.Pixels().AtPre(3, 1); got != 0 {
		t.Errorf("pixel(3,1) = %#08x, want transparent", got)
	}
}
