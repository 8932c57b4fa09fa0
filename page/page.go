package page

import (
	"fmt"
	"image"
	"sync"
)

// Bitmap lazily produces decoded page image. It may be invoked any number of
// times, every call decodes anew, nothing is cached by the page.
type Bitmap func() (image.Image, error)

// State is page status together with failure reason.
type State struct {
	Status Status
	Err    error
}

func (s State) String() string {
	if s.Err != nil {
		return fmt.Sprintf("%s(%v)", s.Status, s.Err)
	}
	return s.Status.String()
}

// Page is a single unit of displayable chapter content. Original pages are
// produced when chapter page list is resolved and are mutated by the loader,
// proxy pages mirror originals at every interceptor stage and are mutated by
// interceptors only.
type Page struct {
	index   int
	url     string
	kind    Kind
	chapter *Chapter
	origin  *Page
	source  *Page

	mu       sync.Mutex
	imageURL string
	bitmap   Bitmap

	status   Stream[State]
	progress Stream[int]
}

func newOriginal(ch *Chapter, index int, url string) *Page {
	p := &Page{
		index:   index,
		url:     url,
		kind:    KindOriginal,
		chapter: ch,
	}
	p.origin = p
	return p
}

// NewProxy creates page for the next pipeline stage reading from src. Proxy
// shares identity with src but has its own status, progress and bitmap.
func NewProxy(src *Page) *Page {
	return &Page{
		index:   src.index,
		url:     src.url,
		kind:    KindProxy,
		chapter: src.chapter,
		origin:  src.origin,
		source:  src,
	}
}

func (p *Page) Index() int {
	return p.index
}

func (p *Page) URL() string {
	return p.url
}

func (p *Page) Kind() Kind {
	return p.kind
}

// Chapter returns chapter page belongs to. Reference is not owning.
func (p *Page) Chapter() *Chapter {
	return p.chapter
}

// Origin returns original page for proxy and page itself for original.
func (p *Page) Origin() *Page {
	return p.origin
}

// Source returns page of the previous pipeline stage, nil for original.
func (p *Page) Source() *Page {
	return p.source
}

// ImageURL is resolved by loader on original page, proxies report value of
// their origin.
func (p *Page) ImageURL() string {
	if p.kind == KindProxy {
		return p.origin.ImageURL()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.imageURL
}

func (p *Page) SetImageURL(u string) {
	if p.kind == KindProxy {
		p.origin.SetImageURL(u)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.imageURL = u
}

func (p *Page) State() State {
	return p.status.Load()
}

func (p *Page) Status() Status {
	return p.status.Load().Status
}

// Err returns failure reason when status is StatusError.
func (p *Page) Err() error {
	return p.status.Load().Err
}

func (p *Page) Progress() int {
	return p.progress.Load()
}

// Bitmap returns image accessor or nil when page has no image (yet).
func (p *Page) Bitmap() Bitmap {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bitmap
}

func (p *Page) SetBitmap(b Bitmap) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bitmap = b
}

// Update sets new state and emits it to all status subscribers. Every call
// emits, repeated states included.
func (p *Page) Update(s State) {
	if s.Status != StatusError {
		s.Err = nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status.Emit(s)
}

func (p *Page) SetStatus(s Status) {
	p.Update(State{Status: s})
}

// Fail puts page into error state with reason.
func (p *Page) Fail(reason error) {
	p.Update(State{Status: StatusError, Err: reason})
}

// SetProgress emits load progress in percents, clamped to 0..100.
func (p *Page) SetProgress(v int) {
	v = max(0, min(v, 100))
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress.Emit(v)
}

// WatchStatus subscribes to status changes, subscription starts with current
// state.
func (p *Page) WatchStatus() *Subscription[State] {
	return p.status.Subscribe()
}

// WatchProgress subscribes to progress changes, subscription starts with
// current value.
func (p *Page) WatchProgress() *Subscription[int] {
	return p.progress.Subscribe()
}

func (p *Page) String() string {
	return fmt.Sprintf("%s page %d [%s]", p.kind, p.index, p.State())
}
