// Package loader fetches chapter pages from comic archives and image
// directories. It reports status and progress on original pages the same way
// remote fetcher would, so the page pipeline does not care where data comes
// from.
package loader

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/text/encoding"

	"mreader/archive"
	"mreader/config"
	"mreader/page"
	"mreader/utils/images"
)

var (
	// ErrNotImage is failure reason of page whose data is not a known image.
	ErrNotImage = errors.New("not an image")
	// ErrUnknownPage is returned for pages of chapters loader did not open.
	ErrUnknownPage = errors.New("page does not belong to opened chapter")
)

type origin struct {
	path      string
	isArchive bool
}

func (o *origin) locate(name string) string {
	if o.isArchive {
		return "zip://" + filepath.ToSlash(o.path) + "#" + name
	}
	return filepath.Join(o.path, name)
}

func (o *origin) open(name string) (io.ReadCloser, int64, error) {
	if o.isArchive {
		r, size, err := archive.Open(o.path, name)
		return r, int64(size), err
	}
	f, err := os.Open(filepath.Join(o.path, name))
	if err != nil {
		return nil, 0, err
	}
	fi, err := f.Stat()
	if err != nil {
		return nil, 0, multierr.Append(err, f.Close())
	}
	return f, fi.Size(), nil
}

// Blob is fetched page data.
type Blob struct {
	Data []byte
	// Ext is sniffed image type.
	Ext string
}

// Loader implements pipeline.PageLoader. Number of pages fetched at the same
// time is limited by configured number of workers, pages waiting for a slot
// stay queued.
type Loader struct {
	cfg   *config.LoadingConfig
	log   *zap.Logger
	slots *semaphore.Weighted

	mu      sync.Mutex
	origins map[*page.Chapter]*origin
	blobs   map[*page.Page]Blob
}

func New(cfg *config.LoadingConfig, log *zap.Logger) *Loader {
	return &Loader{
		cfg:     cfg,
		log:     log.Named("loader"),
		slots:   semaphore.NewWeighted(int64(cfg.Workers)),
		origins: make(map[*page.Chapter]*origin),
		blobs:   make(map[*page.Page]Blob),
	}
}

// OpenArchive creates chapter from page images stored in zip/cbz archive.
// Non UTF-8 entry names are decoded with cp when it is not nil.
func (l *Loader) OpenArchive(path string, cp encoding.Encoding) (*page.Chapter, error) {
	entries, err := archive.Pages(path, "", cp)
	if err != nil {
		return nil, fmt.Errorf("unable to list archive pages: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return l.open(path, true, names), nil
}

// OpenDir creates chapter from image files in directory, subdirectories are
// not visited.
func (l *Loader) OpenDir(path string) (*page.Chapter, error) {
	des, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("unable to list directory pages: %w", err)
	}
	var names []string
	for _, de := range des {
		if !de.Type().IsRegular() || strings.HasPrefix(de.Name(), ".") {
			continue
		}
		ok, err := sniffFile(filepath.Join(path, de.Name()))
		if err != nil {
			return nil, err
		}
		if ok {
			names = append(names, de.Name())
		}
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})
	return l.open(path, false, names), nil
}

func sniffFile(name string) (bool, error) {
	f, err := os.Open(name)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, 1024)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return archive.ImageExt(head[:n], name) != "", nil
}

func (l *Loader) open(path string, isArchive bool, names []string) *page.Chapter {
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	ch := page.NewChapter(uuid.Must(uuid.NewV7()).String(), title, names)

	l.mu.Lock()
	l.origins[ch] = &origin{path: path, isArchive: isArchive}
	l.mu.Unlock()

	l.log.Debug("Chapter opened", zap.String("path", path), zap.String("id", ch.ID), zap.Int("pages", ch.Len()))
	return ch
}

// Forget drops chapter and all data fetched for its pages.
func (l *Loader) Forget(ch *page.Chapter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.origins, ch)
	for _, p := range ch.Pages() {
		delete(l.blobs, p)
	}
}

func (l *Loader) originOf(p *page.Page) *origin {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.origins[p.Chapter()]
}

// Data returns fetched data of original page of p.
func (l *Loader) Data(p *page.Page) (Blob, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.blobs[p.Origin()]
	return b, ok
}

// LoadPage fetches page data. Ready page is left alone. Page goes through all
// loading states and ends either ready with bitmap accessor installed or in
// error state, in which case error is returned as well. When ctx is done load
// stops leaving page in loading state.
func (l *Loader) LoadPage(ctx context.Context, p *page.Page) error {
	if p.Status() == page.StatusReady {
		return nil
	}
	o := l.originOf(p)
	if o == nil {
		return fmt.Errorf("page %d of %q: %w", p.Index(), p.URL(), ErrUnknownPage)
	}

	p.SetStatus(page.StatusQueued)
	if err := l.slots.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.slots.Release(1)

	p.SetStatus(page.StatusLoadingMetadata)
	p.SetImageURL(o.locate(p.URL()))

	data, err := l.download(ctx, o, p)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.log.Debug("Unable to read page", zap.Int("page", p.Index()), zap.String("url", p.ImageURL()), zap.Error(err))
		p.Fail(err)
		return err
	}

	ext := archive.ImageExt(data, p.URL())
	if ext == "" {
		err := fmt.Errorf("page %q: %w", p.URL(), ErrNotImage)
		p.Fail(err)
		return err
	}

	l.mu.Lock()
	l.blobs[p] = Blob{Data: data, Ext: ext}
	l.mu.Unlock()

	p.SetBitmap(func() (image.Image, error) {
		img, _, err := images.Decode(data)
		return img, err
	})
	p.SetProgress(100)
	p.SetStatus(page.StatusReady)

	l.log.Debug("Page loaded", zap.Int("page", p.Index()), zap.String("type", ext), zap.Int("size", len(data)))
	return nil
}

// download reads page data chunk by chunk reporting progress.
func (l *Loader) download(ctx context.Context, o *origin, p *page.Page) (data []byte, err error) {
	r, size, err := o.open(p.URL())
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, r.Close())
	}()

	p.SetStatus(page.StatusDownloadingImage)
	p.SetProgress(0)

	data = make([]byte, 0, max(size, 0))
	chunk := make([]byte, l.cfg.ChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, rerr := r.Read(chunk)
		data = append(data, chunk[:n]...)
		if size > 0 {
			p.SetProgress(int(int64(len(data)) * 100 / size))
		}
		if errors.Is(rerr, io.EOF) {
			return data, nil
		}
		if rerr != nil {
			return nil, rerr
		}
	}
}

// RetryPage forgets fetched data and puts page back into queue.
func (l *Loader) RetryPage(_ context.Context, p *page.Page) error {
	if l.originOf(p) == nil {
		return fmt.Errorf("page %d of %q: %w", p.Index(), p.URL(), ErrUnknownPage)
	}
	l.mu.Lock()
	delete(l.blobs, p)
	l.mu.Unlock()

	p.SetBitmap(nil)
	p.SetProgress(0)
	p.SetStatus(page.StatusQueued)
	return nil
}
