package images

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// JoinHorizontal puts right next to left on white canvas. Lower image is
// scaled up to the height of the taller one.
func JoinHorizontal(left, right image.Image) image.Image {
	h := max(left.Bounds().Dy(), right.Bounds().Dy())
	left, right = fitHeight(left, h), fitHeight(right, h)

	lw := left.Bounds().Dx()
	dst := imaging.New(lw+right.Bounds().Dx(), h, color.White)
	dst = imaging.Paste(dst, left, image.Pt(0, 0))
	return imaging.Paste(dst, right, image.Pt(lw, 0))
}

func fitHeight(img image.Image, h int) image.Image {
	if img.Bounds().Dy() == h {
		return img
	}
	return imaging.Resize(img, 0, h, imaging.Lanczos)
}
