// Package pipeline chains page interceptors between page loader and page
// consumers.
package pipeline

import (
	"go.uber.org/zap"

	"mreader/page"
)

// Interceptor observes status and progress of pages of the previous stage
// and writes pages of its own stage. Hooks receive input page, output page is
// the one with the same index. Hooks may be called concurrently for different
// pages and must only touch output page of their own index, cross page effects
// are interceptor's own business.
type Interceptor interface {
	OnStatus(in *page.Page)
	OnProgress(in *page.Page)
}

// Withholder is implemented by interceptors which may deliberately postpone
// propagation of page state.
type Withholder interface {
	Withholding(in *page.Page) bool
}

// Factory creates interceptor for a single chapter stage.
type Factory func(outputs []*page.Page, log *zap.Logger) Interceptor

// PassThrough copies input state to output unchanged. It is useful by itself
// and as embedded default for interceptors interested only in some events.
type PassThrough struct {
	Outputs []*page.Page
}

func (pt *PassThrough) OnStatus(in *page.Page) {
	out := pt.Outputs[in.Index()]
	out.SetBitmap(in.Bitmap())
	out.Update(in.State())
}

func (pt *PassThrough) OnProgress(in *page.Page) {
	pt.Outputs[in.Index()].SetProgress(in.Progress())
}

// NewPassThrough is a Factory for PassThrough stage.
func NewPassThrough(outputs []*page.Page, _ *zap.Logger) Interceptor {
	return &PassThrough{Outputs: outputs}
}
