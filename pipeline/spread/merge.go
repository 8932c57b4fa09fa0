package spread

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"mreader/config"
	"mreader/page"
	"mreader/utils/images"
)

// merge asks detector about pages a and a+1 and on positive answer makes
// output of a the joined picture and output of b skipped. Nothing changes on
// negative answer. Locks of both pages must be held, so status events of
// neighbouring pages wait for the detector while progress events do not.
func (f *fusion) merge(a, b int) bool {
	left, right := a, b
	if f.direction != nil && f.direction() == config.ReadingDirectionRtl {
		left, right = b, a
	}

	lb, rb := f.input(left).Bitmap(), f.input(right).Bitmap()
	if lb == nil || rb == nil {
		f.log.Debug("Page has no image, not a spread", zap.Int("left", left), zap.Int("right", right))
		return false
	}
	limg, err := lb()
	if err != nil {
		f.log.Warn("Unable to decode page", zap.Int("page", left), zap.Error(err))
		return false
	}
	rimg, err := rb()
	if err != nil {
		f.log.Warn("Unable to decode page", zap.Int("page", right), zap.Error(err))
		return false
	}
	if !f.detector.IsSpread(limg, rimg) {
		return false
	}

	skipped := f.outputs[b]
	skipped.SetBitmap(nil)
	skipped.Update(page.State{Status: page.StatusSkip})

	joined := f.outputs[a]
	joined.SetBitmap(func() (image.Image, error) {
		l, err := lb()
		if err != nil {
			return nil, fmt.Errorf("unable to decode page %d: %w", left, err)
		}
		r, err := rb()
		if err != nil {
			return nil, fmt.Errorf("unable to decode page %d: %w", right, err)
		}
		return images.JoinHorizontal(l, r), nil
	})
	joined.Update(page.State{Status: page.StatusReady})

	f.log.Debug("Pages merged into spread", zap.Int("left", left), zap.Int("right", right))
	return true
}
