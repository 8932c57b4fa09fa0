package images

import (
	"bytes"
	"fmt"
	"image"

	// registered decoders for page formats
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode decodes page image returning format name as image.Decode does. SVG
// pages are rasterized in their intrinsic size.
func Decode(data []byte) (image.Image, string, error) {
	if IsSVG(data) {
		img, err := RasterizeSVG(data, 0)
		if err != nil {
			return nil, "", fmt.Errorf("unable to rasterize svg: %w", err)
		}
		return img, "svg", nil
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("unable to decode image: %w", err)
	}
	return img, format, nil
}
