package images

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// Encode writes page image in requested format. Pages without color are
// stored as grayscale, JPEG output always carries JFIF header.
func Encode(img image.Image, format imaging.Format, quality int) ([]byte, error) {
	if g, ok := ToGray(img); ok {
		img = g
	}

	buf := new(bytes.Buffer)
	switch format {
	case imaging.JPEG:
		if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("unable to encode jpeg: %w", err)
		}
		out, _, err := EnsureJFIFAPP0(buf.Bytes(), DpiPxPerInch, 300, 300)
		if err != nil {
			return nil, err
		}
		return out, nil
	case imaging.PNG:
		if err := imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
			return nil, fmt.Errorf("unable to encode png: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported page format %s", format)
	}
}
