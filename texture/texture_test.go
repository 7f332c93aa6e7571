package texture

import (
	"testing"

	"github.com/schuttejoe/ShootyEngine/types"
)

func checkerboard(w, h uint32) *Texture {
	data := make([]byte, w*h*4)
	for y := uint32(0); y < h; y++ {
		for x := uint32(0); x < w; x++ {
			off := (y*w + x) * 4
			var v byte
			if (x+y)%2 == 0 {
				v = 255
			}
			data[off], data[off+1], data[off+2], data[off+3] = v, v, v, 255
		}
	}
	return &Texture{Format: Rgba8, Width: w, Height: h, Data: data}
}

func TestSampleNearestReturnsFullAlpha(t *testing.T) {
	tex := checkerboard(4, 4)
	c := tex.SampleNearest(types.XY(0, 0))
	if c[3] != 1 {
		t.Fatalf("expected full alpha, got %v", c[3])
	}
}

func TestSampleBilinearInterpolates(t *testing.T) {
	data := []byte{
		0, 0, 0, 255, 255, 255, 255, 255,
		0, 0, 0, 255, 255, 255, 255, 255,
	}
	tex := &Texture{Format: Rgba8, Width: 2, Height: 2, Data: data}

	center := tex.SampleBilinear(types.XY(0.5, 0.5))
	if center[0] <= 0 || center[0] >= 1 {
		t.Fatalf("expected a blended value strictly between 0 and 1, got %v", center[0])
	}
}

func TestSampleFilteredFallsBackToBoxAverage(t *testing.T) {
	tex := checkerboard(64, 64)
	wide := tex.SampleFiltered(types.XY(0.5, 0.5), types.XY(0.5, 0), types.XY(0, 0.5))
	narrow := tex.SampleBilinear(types.XY(0.5, 0.5))
	_ = narrow
	if wide[0] < 0 || wide[0] > 1 {
		t.Fatalf("expected a normalized luminance, got %v", wide[0])
	}
}

func TestLuminance32FRoundTrip(t *testing.T) {
	tex := &Texture{Format: Luminance32F, Width: 1, Height: 1}
	tex.Data = make([]byte, 4)
	tex.Data[0], tex.Data[1], tex.Data[2], tex.Data[3] = 0, 0, 128, 63 // 1.0f little-endian
	c := tex.SampleNearest(types.XY(0, 0))
	if c[0] < 0.99 || c[0] > 1.01 {
		t.Fatalf("expected luminance ~1.0, got %v", c[0])
	}
}
