// Package reader drives chapter reading: it opens sources, loads pages
// through interceptor pipeline and writes rendered chapters out.
package reader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"

	"mreader/archive"
	"mreader/config"
	"mreader/detect"
	"mreader/loader"
	"mreader/page"
	"mreader/pipeline"
	"mreader/pipeline/spread"
	"mreader/utils/debug"
)

// ErrNoPages is returned when chapter source has no page images.
var ErrNoPages = errors.New("no pages found")

// Session keeps opened chapters with their pipelines.
type Session struct {
	cfg     *config.ReaderConfig
	cp      encoding.Encoding
	log     *zap.Logger
	loader  *loader.Loader
	manager *pipeline.Manager

	mu       sync.Mutex
	chapters map[*page.Chapter]string
}

// NewSession creates session. When cp is not nil it is used for non UTF-8
// names in archives.
func NewSession(cfg *config.ReaderConfig, cp encoding.Encoding, log *zap.Logger) *Session {
	s := &Session{
		cfg:      cfg,
		cp:       cp,
		log:      log.Named("reader"),
		loader:   loader.New(&cfg.Loading, log),
		chapters: make(map[*page.Chapter]string),
	}

	var stages []pipeline.Factory
	if cfg.Spread.Enable {
		stages = append(stages, spread.New(detect.NewEdges(&cfg.Spread), func() config.ReadingDirection {
			return s.cfg.Direction
		}))
	}
	s.manager = pipeline.NewManager(s.loader, log, stages...)
	return s
}

// Open creates chapter from archive or image directory and builds its
// pipeline.
func (s *Session) Open(path string) (*page.Chapter, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var ch *page.Chapter
	switch {
	case fi.IsDir():
		ch, err = s.loader.OpenDir(path)
	default:
		var ok bool
		if ok, err = archive.IsArchive(path); err == nil && !ok {
			err = fmt.Errorf("unsupported source %q, expecting cbz/zip archive or directory", path)
		}
		if err == nil {
			ch, err = s.loader.OpenArchive(path, s.cp)
		}
	}
	if err != nil {
		return nil, err
	}
	if ch.Len() == 0 {
		s.loader.Forget(ch)
		return nil, fmt.Errorf("%q: %w", path, ErrNoPages)
	}

	// first lookup builds the pipeline for whole chapter
	s.manager.GetInterceptedPage(ch.Page(0))

	s.mu.Lock()
	s.chapters[ch] = path
	s.mu.Unlock()

	s.log.Info("Chapter opened", zap.String("title", ch.Title), zap.String("id", ch.ID), zap.Int("pages", ch.Len()))
	return ch, nil
}

// Source returns path chapter was opened from.
func (s *Session) Source(ch *page.Chapter) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chapters[ch]
}

// LoadChapter loads every page of the chapter through the pipeline, one task
// per page. Failed pages are retried up to configured number of times, page
// failures are not errors of the chapter.
func (s *Session) LoadChapter(ctx context.Context, ch *page.Chapter) error {
	pending := ch.Pages()
	for attempt := 0; ; attempt++ {
		failed, err := s.loadPages(ctx, pending)
		if err != nil {
			return err
		}
		if len(failed) == 0 {
			return nil
		}
		if attempt >= s.cfg.Loading.Retries {
			for _, p := range failed {
				s.log.Warn("Unable to load page", zap.String("chapter", ch.Title), zap.Int("page", p.Index()), zap.String("url", p.URL()), zap.Error(p.Err()))
			}
			return nil
		}
		for _, p := range failed {
			if err := s.manager.RetryPage(ctx, p); err != nil {
				return err
			}
		}
		s.log.Debug("Retrying failed pages", zap.String("chapter", ch.Title), zap.Int("pages", len(failed)), zap.Int("attempt", attempt+1))
		pending = failed
	}
}

// loadPages returns original pages which ended in error state.
func (s *Session) loadPages(ctx context.Context, pages []*page.Page) ([]*page.Page, error) {
	var (
		mu     sync.Mutex
		failed []*page.Page
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range pages {
		g.Go(func() error {
			err := s.manager.LoadPage(gctx, s.manager.GetInterceptedPage(p))
			switch {
			case err == nil:
				return nil
			case p.Status() == page.StatusError && gctx.Err() == nil:
				mu.Lock()
				failed = append(failed, p)
				mu.Unlock()
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return failed, nil
}

// Pages returns final stage pages of the chapter, ready for rendering.
func (s *Session) Pages(ch *page.Chapter) []*page.Page {
	out := make([]*page.Page, 0, ch.Len())
	for _, p := range ch.Pages() {
		out = append(out, s.manager.GetInterceptedPage(p))
	}
	return out
}

// Close drops chapter pipeline and fetched data.
func (s *Session) Close(ch *page.Chapter) {
	s.manager.UnloadChapter(ch)
	s.loader.Forget(ch)

	s.mu.Lock()
	delete(s.chapters, ch)
	s.mu.Unlock()
}

// Trace dumps state of every page of the chapter at all stages.
func (s *Session) Trace(ch *page.Chapter) []byte {
	tw := debug.NewTreeWriter()
	tw.Line(0, "chapter %s", ch.ID)
	tw.Field(1, "title", ch.Title)
	tw.Field(1, "source", s.Source(ch))
	for _, p := range ch.Pages() {
		final := s.manager.GetInterceptedPage(p)
		tw.Line(1, "page %d", p.Index())
		tw.Field(2, "url", p.URL())
		tw.Field(2, "image", p.ImageURL())
		tw.Field(2, "loaded", p.State().String())
		tw.Field(2, "shown", final.State().String())
		tw.Field(2, "progress", fmt.Sprintf("%d%%", p.Progress()))
	}
	return tw.Bytes()
}
