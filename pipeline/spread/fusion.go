// Package spread implements interceptor which detects two adjacent pages
// being halves of a single double page picture and merges them.
package spread

import (
	"image"
	"slices"
	"sync"

	"go.uber.org/zap"

	"mreader/config"
	"mreader/page"
	"mreader/pipeline"
)

// Detector decides whether two decoded pages, given in display order, are
// halves of the same picture. It must not keep references to images.
type Detector interface {
	IsSpread(left, right image.Image) bool
}

// New returns pipeline stage factory. Direction is consulted on every merge
// attempt, nil means left to right.
func New(detector Detector, direction func() config.ReadingDirection) pipeline.Factory {
	return func(outputs []*page.Page, log *zap.Logger) pipeline.Interceptor {
		return &fusion{
			outputs:      outputs,
			detector:     detector,
			direction:    direction,
			log:          log.Named("spread"),
			locks:        newLocks(len(outputs)),
			checked:      make(map[int]bool),
			partOfSpread: make(map[int]bool),
			pending:      make(map[int]map[int]struct{}),
		}
	}
}

type fusion struct {
	outputs   []*page.Page
	detector  Detector
	direction func() config.ReadingDirection
	log       *zap.Logger

	locks locks

	mu sync.Mutex
	// checked[i] - pair (i, i+1) has been attempted
	checked map[int]bool
	// partOfSpread[i] - page i has been consumed by merge
	partOfSpread map[int]bool
	// pending[i] - pages to hear from before page i could be emitted
	pending map[int]map[int]struct{}
}

func (f *fusion) input(index int) *page.Page {
	return f.outputs[index].Source()
}

// Withholding reports whether emission of page is postponed until its
// neighbours settle.
func (f *fusion) Withholding(in *page.Page) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending[in.Index()]) > 0
}

// OnProgress passes progress through unless page has been merged. Only the
// spread maps are consulted, page locks are not taken so progress is not held
// up while a merge is being decided.
func (f *fusion) OnProgress(in *page.Page) {
	index := in.Index()
	if index < 0 || index >= len(f.outputs) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.partOfSpread[index] {
		return
	}
	f.outputs[index].SetProgress(in.Progress())
}

func (f *fusion) OnStatus(in *page.Page) {
	index := in.Index()
	if index < 0 || index >= len(f.outputs) {
		return
	}
	if f.consumed(index) {
		return
	}

	var changed []int
	switch st := in.Status(); {
	case st == page.StatusReady:
		changed = f.onReady(index)
	case st.IsLoading():
		changed = f.onLoading(index)
	default:
		changed = f.onSettled(index)
	}
	f.notify(changed)
}

// consumed reports whether page has been merged. Merged page output is final.
func (f *fusion) consumed(index int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.partOfSpread[index] {
		delete(f.pending, index)
		return true
	}
	return false
}

func (f *fusion) onSettled(index int) []int {
	f.locks.lock(index, index)
	defer f.locks.unlock(index, index)

	f.mu.Lock()
	if f.partOfSpread[index] {
		f.mu.Unlock()
		return nil
	}
	delete(f.pending, index)
	f.mu.Unlock()

	f.emit(index)
	return []int{index}
}

// onLoading holds back loading states while a merge may still depend on
// loading neighbours.
func (f *fusion) onLoading(index int) []int {
	f.locks.lock(index, index)
	defer f.locks.unlock(index, index)

	f.mu.Lock()
	if f.partOfSpread[index] {
		f.mu.Unlock()
		return nil
	}
	waits := make(map[int]struct{})
	if next := index + 1; next < len(f.outputs) && !f.checked[index] && !f.partOfSpread[next] && f.input(next).Status().IsLoading() {
		waits[next] = struct{}{}
	}
	if prev := index - 1; prev >= 0 && !f.checked[prev] && !f.partOfSpread[prev] && f.input(prev).Status().IsLoading() {
		waits[prev] = struct{}{}
	}
	f.setPendingLocked(index, waits)
	f.mu.Unlock()

	if len(waits) > 0 {
		return nil
	}
	f.emit(index)
	return []int{index}
}

// onReady tries the forward pair (index, index+1) first, waiting while next
// page is loading, and the backward pair (index-1, index) after that. Locks of
// all three pages are held, so every pair is attempted at most once and the
// first pair attempted with positive answer wins.
func (f *fusion) onReady(index int) []int {
	lo, hi := f.locks.span(index)
	f.locks.lock(lo, hi)
	defer f.locks.unlock(lo, hi)

	changed := []int{index}

	f.mu.Lock()
	delete(f.pending, index)
	if f.partOfSpread[index] {
		f.mu.Unlock()
		return changed
	}

	if next := index + 1; next < len(f.outputs) && !f.checked[index] && !f.partOfSpread[next] {
		switch st := f.input(next).Status(); {
		case st.IsLoading():
			f.pending[index] = map[int]struct{}{next: {}}
			f.mu.Unlock()
			return changed
		case st == page.StatusReady:
			f.checked[index] = true
			f.mu.Unlock()
			if f.merge(index, next) {
				f.consume(index, next)
				return append(changed, next)
			}
			f.mu.Lock()
		}
	}

	if prev := index - 1; prev >= 0 && !f.checked[prev] && !f.partOfSpread[prev] && f.input(prev).Status() == page.StatusReady {
		f.checked[prev] = true
		f.mu.Unlock()
		if f.merge(prev, index) {
			f.consume(prev, index)
			return append(changed, prev)
		}
	} else {
		f.mu.Unlock()
	}

	f.emit(index)
	return changed
}

// consume marks merged pages, they never wait for anything again.
func (f *fusion) consume(a, b int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.partOfSpread[a], f.partOfSpread[b] = true, true
	delete(f.pending, a)
	delete(f.pending, b)
}

func (f *fusion) setPendingLocked(index int, waits map[int]struct{}) {
	if len(waits) > 0 {
		f.pending[index] = waits
	} else {
		delete(f.pending, index)
	}
}

// emit copies input page state to output. Page lock must be held.
func (f *fusion) emit(index int) {
	in, out := f.input(index), f.outputs[index]
	out.SetBitmap(in.Bitmap())
	out.Update(in.State())
}

// notify re-runs pages whose every awaited neighbour has changed. Must be
// called without page locks.
func (f *fusion) notify(changed []int) {
	if len(changed) == 0 {
		return
	}

	var wake []int
	f.mu.Lock()
	for index, waits := range f.pending {
		hit, left := false, 0
		for d := range waits {
			if slices.Contains(changed, d) {
				hit = true
			} else {
				left++
			}
		}
		switch {
		case !hit:
		case left == 0:
			// set is replaced when page is re-run
			wake = append(wake, index)
		default:
			for _, d := range changed {
				delete(waits, d)
			}
		}
	}
	f.mu.Unlock()

	slices.Sort(wake)
	for _, index := range wake {
		f.log.Debug("Re-evaluating page", zap.Int("page", index), zap.Ints("after", changed))
		f.OnStatus(f.input(index))
	}
}
