package images

import (
	"image"
	"image/color"
	"image/draw"
)

// ToGray returns grayscale copy of img when every pixel of it has R==G==B.
// Scanned manga pages often come as RGB with no color in them.
func ToGray(img image.Image) (*image.Gray, bool) {
	if g, ok := img.(*image.Gray); ok {
		return g, true
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.R != c.G || c.G != c.B {
				return nil, false
			}
		}
	}
	g := image.NewGray(b)
	draw.Draw(g, b, img, b.Min, draw.Src)
	return g, true
}
