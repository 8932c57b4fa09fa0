package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mreader/page"
)

// ErrNotManaged is returned when page does not belong to any chapter pipeline
// built by the Manager.
var ErrNotManaged = errors.New("page is not managed by pipeline")

// PageLoader fetches original pages. LoadPage emits status and progress on
// the page and returns once page is settled or ctx is done. RetryPage resets
// page so next LoadPage fetches it again.
type PageLoader interface {
	LoadPage(ctx context.Context, p *page.Page) error
	RetryPage(ctx context.Context, p *page.Page) error
}

// binding is one stage input of original page and interceptor consuming it.
type binding struct {
	src  *page.Page
	hook Interceptor
}

type chain struct {
	// stages[i] are output pages of i-th interceptor
	stages [][]*page.Page
	// bindings[i] lists stage inputs of i-th original page in stage order
	bindings [][]binding
}

func (c *chain) final(index int) *page.Page {
	return c.stages[len(c.stages)-1][index]
}

func (c *chain) withholding(index int) bool {
	for _, b := range c.bindings[index] {
		if w, ok := b.hook.(Withholder); ok && w.Withholding(b.src) {
			return true
		}
	}
	return false
}

// Manager builds interceptor chains per chapter and drives page loads through
// them.
type Manager struct {
	loader    PageLoader
	factories []Factory
	log       *zap.Logger

	mu    sync.Mutex
	arena map[*page.Chapter]*chain
}

// NewManager creates manager for interceptors in the order of factories.
func NewManager(loader PageLoader, log *zap.Logger, factories ...Factory) *Manager {
	return &Manager{
		loader:    loader,
		factories: factories,
		log:       log.Named("pipeline"),
		arena:     make(map[*page.Chapter]*chain),
	}
}

// GetOriginalPage returns original page for any page of the pipeline.
func (m *Manager) GetOriginalPage(p *page.Page) *page.Page {
	switch p.Kind() {
	case page.KindProxy:
		return p.Origin()
	default:
		return p
	}
}

// GetInterceptedPage returns final stage page for p building chapter chain on
// first request. Without interceptors original page is returned.
func (m *Manager) GetInterceptedPage(p *page.Page) *page.Page {
	orig := m.GetOriginalPage(p)
	if len(m.factories) == 0 {
		return orig
	}
	return m.chainFor(orig.Chapter()).final(orig.Index())
}

func (m *Manager) chainFor(ch *page.Chapter) *chain {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.arena[ch]; ok {
		return c
	}
	c := m.build(ch)
	m.arena[ch] = c
	return c
}

func (m *Manager) lookup(ch *page.Chapter) *chain {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.arena[ch]
}

func (m *Manager) build(ch *page.Chapter) *chain {
	inputs := ch.Pages()
	c := &chain{bindings: make([][]binding, len(inputs))}
	for i, factory := range m.factories {
		outputs := make([]*page.Page, len(inputs))
		for j, in := range inputs {
			outputs[j] = page.NewProxy(in)
		}
		hook := factory(outputs, m.log.With(zap.String("chapter", ch.ID), zap.Int("stage", i)))
		for j, in := range inputs {
			c.bindings[j] = append(c.bindings[j], binding{src: in, hook: hook})
		}
		c.stages = append(c.stages, outputs)
		inputs = outputs
	}
	m.log.Debug("Chapter pipeline built", zap.String("chapter", ch.ID), zap.Int("pages", ch.Len()), zap.Int("stages", len(c.stages)))
	return c
}

// UnloadChapter forgets chapter pipeline together with all interceptor state.
// Next GetInterceptedPage builds it anew.
func (m *Manager) UnloadChapter(ch *page.Chapter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.arena, ch)
}

// Chapters returns number of chapter pipelines held.
func (m *Manager) Chapters() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.arena)
}

// RetryPage resets original page of p in the loader.
func (m *Manager) RetryPage(ctx context.Context, p *page.Page) error {
	return m.loader.RetryPage(ctx, m.GetOriginalPage(p))
}

type watch struct {
	b        binding
	status   *page.Subscription[page.State]
	progress *page.Subscription[int]
}

// LoadPage loads original page of p feeding every stage interceptor with its
// events while loader works. On success it returns after final page is
// settled and no interceptor withholds it. On loader failure stages are
// drained and loader error is returned. On cancellation consumers stop where
// they are and ctx error is returned.
func (m *Manager) LoadPage(ctx context.Context, p *page.Page) error {
	orig := m.GetOriginalPage(p)
	if len(m.factories) == 0 {
		return m.loader.LoadPage(ctx, orig)
	}
	c := m.lookup(orig.Chapter())
	if c == nil {
		return fmt.Errorf("page %d of %q: %w", orig.Index(), orig.URL(), ErrNotManaged)
	}

	log := m.log.With(zap.String("chapter", orig.Chapter().ID), zap.Int("page", orig.Index()))

	// subscribe before loader starts so no event is missed
	watches := make([]watch, 0, len(c.bindings[orig.Index()]))
	for _, b := range c.bindings[orig.Index()] {
		watches = append(watches, watch{b: b, status: b.src.WatchStatus(), progress: b.src.WatchProgress()})
	}
	final := c.final(orig.Index()).WatchStatus()

	stop := sync.OnceFunc(func() {
		for _, w := range watches {
			w.status.Close()
			w.progress.Close()
		}
		final.Close()
	})
	defer stop()

	changed := make(chan struct{}, 1)

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range watches {
		g.Go(func() error {
			return consume(gctx, w.status, log, func() { w.b.hook.OnStatus(w.b.src) })
		})
		g.Go(func() error {
			return consume(gctx, w.progress, log, func() { w.b.hook.OnProgress(w.b.src) })
		})
	}
	g.Go(func() error {
		return final.Consume(gctx, func(page.State) {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	})
	g.Go(func() error {
		defer stop()

		if err := m.loader.LoadPage(gctx, orig); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// terminal state still has to reach consumers
			if derr := drain(gctx, watches); derr != nil {
				return derr
			}
			log.Debug("Page load failed", zap.Error(err))
			return err
		}
		for {
			if err := drain(gctx, watches); err != nil {
				return err
			}
			if c.final(orig.Index()).Status().IsSettled() && !c.withholding(orig.Index()) {
				return nil
			}
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-changed:
			}
		}
	})

	err := g.Wait()
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// drain waits for all events delivered so far to be handled, stage by stage.
func drain(ctx context.Context, watches []watch) error {
	for _, w := range watches {
		if err := w.status.WaitIdle(ctx); err != nil {
			return err
		}
		if err := w.progress.WaitIdle(ctx); err != nil {
			return err
		}
	}
	return nil
}

func consume[T any](ctx context.Context, sub *page.Subscription[T], log *zap.Logger, hook func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Interceptor panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			err = fmt.Errorf("interceptor panic: %v", r)
		}
	}()
	return sub.Consume(ctx, func(T) { hook() })
}
