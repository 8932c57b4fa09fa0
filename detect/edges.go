// Package detect provides spread detectors deciding whether two pages are
// halves of one picture.
package detect

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"mreader/config"
)

// minContrast is the lowest standard deviation of edge luminance to consider
// edge to carry any artwork. Blank margins say nothing about continuity.
const minContrast = 6.0

// Edges compares touching edges of two pages. Pages are parts of a spread
// when both are portrait, have similar height and their edges continue each
// other.
type Edges struct {
	width           int
	threshold       float64
	minAspect       float64
	heightTolerance float64
}

func NewEdges(cfg *config.SpreadConfig) *Edges {
	return &Edges{
		width:           max(cfg.EdgeWidth, 1),
		threshold:       cfg.Threshold,
		minAspect:       cfg.MinAspect,
		heightTolerance: cfg.HeightTolerance,
	}
}

// IsSpread expects pages in display order, right edge of left page meets left
// edge of right page.
func (e *Edges) IsSpread(left, right image.Image) bool {
	lb, rb := left.Bounds(), right.Bounds()
	if lb.Empty() || rb.Empty() {
		return false
	}
	if !e.portrait(lb) || !e.portrait(rb) {
		return false
	}

	lh, rh := lb.Dy(), rb.Dy()
	if float64(abs(lh-rh)) > e.heightTolerance*float64(max(lh, rh)) {
		return false
	}

	h := min(lh, rh)
	ls := e.profile(imaging.Crop(left, image.Rect(lb.Max.X-min(e.width, lb.Dx()), lb.Min.Y, lb.Max.X, lb.Max.Y)), h)
	rs := e.profile(imaging.Crop(right, image.Rect(rb.Min.X, rb.Min.Y, rb.Min.X+min(e.width, rb.Dx()), rb.Max.Y)), h)

	if stddev(ls) < minContrast && stddev(rs) < minContrast {
		return false
	}

	var sum float64
	for y := range h {
		sum += math.Abs(ls[y] - rs[y])
	}
	return sum/float64(h) < e.threshold
}

func (e *Edges) portrait(r image.Rectangle) bool {
	return float64(r.Dy()) >= float64(r.Dx())*e.minAspect
}

// profile returns mean luminance of every row of the strip resampled to h
// rows.
func (e *Edges) profile(strip *image.NRGBA, h int) []float64 {
	gray := imaging.Grayscale(strip)
	if gray.Bounds().Dy() != h {
		gray = imaging.Resize(gray, gray.Bounds().Dx(), h, imaging.Box)
	}

	w := gray.Bounds().Dx()
	out := make([]float64, h)
	for y := range h {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w*4]
		var sum int
		for x := 0; x < len(row); x += 4 {
			sum += int(row[x])
		}
		out[y] = float64(sum) / float64(w)
	}
	return out
}

func stddev(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var mean float64
	for _, x := range v {
		mean += x
	}
	mean /= float64(len(v))

	var sq float64
	for _, x := range v {
		sq += (x - mean) * (x - mean)
	}
	return math.Sqrt(sq / float64(len(v)))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
