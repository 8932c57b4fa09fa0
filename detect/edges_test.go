package detect

import (
	"image"
	"image/color"
	"testing"

	"mreader/config"
)

var testConfig = config.SpreadConfig{
	Enable:          true,
	EdgeWidth:       4,
	Threshold:       24,
	MinAspect:       1.2,
	HeightTolerance: 0.05,
}

// bands draws horizontal black and white stripes, stripe height is band
// pixels, invert swaps colors.
func bands(w, h, band int, invert bool) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		black := (y/band)%2 == 0
		if invert {
			black = !black
		}
		c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		if black {
			c = color.NRGBA{A: 255}
		}
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// gradient goes from black at the top to white at the bottom or the other way
// around.
func gradient(w, h int, invert bool) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		v := uint8(255 * y / (h - 1))
		if invert {
			v = 255 - v
		}
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func blank(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func TestEdges_IsSpread(t *testing.T) {
	tests := []struct {
		name        string
		left, right image.Image
		want        bool
	}{
		{"continued artwork", bands(60, 100, 10, false), bands(60, 100, 10, false), true},
		{"scaled continuation", gradient(60, 100, false), gradient(59, 98, false), true},
		{"reversed gradient", gradient(60, 100, false), gradient(60, 100, true), false},
		{"broken artwork", bands(60, 100, 10, false), bands(60, 100, 10, true), false},
		{"blank margins", blank(60, 100), blank(60, 100), false},
		{"landscape page", bands(120, 100, 10, false), bands(60, 100, 10, false), false},
		{"height mismatch", bands(60, 100, 10, false), bands(60, 130, 10, false), false},
		{"empty", image.NewNRGBA(image.Rect(0, 0, 0, 0)), bands(60, 100, 10, false), false},
	}

	d := NewEdges(&testConfig)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.IsSpread(tt.left, tt.right); got != tt.want {
				t.Errorf("IsSpread() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEdges_AspectDisabled(t *testing.T) {
	cfg := testConfig
	cfg.MinAspect = 0

	d := NewEdges(&cfg)
	if !d.IsSpread(bands(120, 100, 10, false), bands(120, 100, 10, false)) {
		t.Error("landscape pages must be accepted when aspect check is disabled")
	}
}

func TestStddev(t *testing.T) {
	if s := stddev(nil); s != 0 {
		t.Errorf("stddev(nil) = %v", s)
	}
	if s := stddev([]float64{0, 255}); s != 127.5 {
		t.Errorf("stddev() = %v, want 127.5", s)
	}
}
