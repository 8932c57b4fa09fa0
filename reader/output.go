package reader

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/disintegration/imaging"
	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
	fixzip "github.com/hidez8891/zip"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"mreader/config"
	"mreader/page"
	"mreader/utils/images"
)

// Values are available to output name template.
type Values struct {
	Title  string
	ID     string
	Pages  int
	Source string
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// outputName builds file (or directory) name for rendered chapter.
func (s *Session) outputName(ch *page.Chapter) string {
	src := s.Source(ch)
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))

	if tmpl := s.cfg.Output.NameTemplate; len(tmpl) > 0 {
		expanded, err := expandTemplate(config.NameTemplateFieldName, tmpl, Values{
			Title:  ch.Title,
			ID:     ch.ID,
			Pages:  ch.Len(),
			Source: base,
		})
		switch {
		case err != nil:
			s.log.Warn("Unable to expand output name template, using source name", zap.Error(err))
		case len(strings.TrimSpace(expanded)) == 0:
			s.log.Warn("Output name template expanded to nothing, using source name")
		default:
			base = strings.TrimSpace(expanded)
		}
	}
	if s.cfg.Output.FileNameTransliterate {
		base = slug.Make(base)
	}
	return config.CleanFileName(base) + s.cfg.Output.Format.Ext()
}

type rendered struct {
	name string
	data []byte
}

// WriteChapter renders loaded chapter into dst directory and returns path of
// produced output. Skipped pages are left out, pages in error or still
// loading are reported and left out.
func (s *Session) WriteChapter(ctx context.Context, ch *page.Chapter, dst string) (string, error) {
	width := len(fmt.Sprint(ch.Len()))

	var out []rendered
	for _, p := range s.Pages(ch) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		switch st := p.State(); st.Status {
		case page.StatusReady:
		case page.StatusSkip:
			continue
		case page.StatusError:
			s.log.Warn("Page is broken, leaving it out", zap.Int("page", p.Index()), zap.String("url", p.URL()), zap.Error(st.Err))
			continue
		default:
			s.log.Warn("Page is not loaded, leaving it out", zap.Int("page", p.Index()), zap.Stringer("status", st.Status))
			continue
		}
		data, ext, err := s.render(p)
		if err != nil {
			s.log.Warn("Unable to render page, leaving it out", zap.Int("page", p.Index()), zap.Error(err))
			continue
		}
		out = append(out, rendered{name: fmt.Sprintf("%0*d%s", width, p.Index()+1, ext), data: data})
	}
	if len(out) == 0 {
		return "", fmt.Errorf("chapter %q: %w", ch.Title, ErrNoPages)
	}

	target := filepath.Join(dst, s.outputName(ch))
	var err error
	switch s.cfg.Output.Format {
	case config.OutputFormatCbz:
		err = s.writeCbz(target, out)
	default:
		err = writeDir(target, out)
	}
	if err != nil {
		return "", err
	}
	s.log.Info("Chapter written", zap.String("title", ch.Title), zap.String("to", target), zap.Int("pages", len(out)))
	return target, nil
}

// render returns page image data and file extension. Pages left untouched by
// pipeline keep source data when output images are "original".
func (s *Session) render(p *page.Page) ([]byte, string, error) {
	bmp := p.Bitmap()
	if bmp == nil {
		return nil, "", fmt.Errorf("page %d has no image", p.Index())
	}
	img, err := bmp()
	if err != nil {
		return nil, "", fmt.Errorf("unable to decode page %d: %w", p.Index(), err)
	}

	format := s.cfg.Output.Images
	if format == config.ImageFormatOriginal {
		if blob, ok := s.loader.Data(p); ok && blob.Ext != "svg" && sameSize(blob.Data, img.Bounds()) {
			return blob.Data, "." + blob.Ext, nil
		}
		format = config.ImageFormatJpeg
	}

	f := imaging.JPEG
	if format == config.ImageFormatPng {
		f = imaging.PNG
	}
	data, err := images.Encode(img, f, s.cfg.Output.JPEGQuality)
	if err != nil {
		return nil, "", fmt.Errorf("unable to encode page %d: %w", p.Index(), err)
	}
	return data, format.Ext(), nil
}

// sameSize reports whether source data has the dimensions of the rendered
// image, merged spreads never do.
func sameSize(data []byte, b image.Rectangle) bool {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return false
	}
	return cfg.Width == b.Dx() && cfg.Height == b.Dy()
}

func writeDir(target string, pages []rendered) error {
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	for _, r := range pages {
		if err := os.WriteFile(filepath.Join(target, r.name), r.data, 0o644); err != nil {
			return fmt.Errorf("unable to write page: %w", err)
		}
	}
	return nil
}

func (s *Session) writeCbz(target string, pages []rendered) (err error) {
	if !s.cfg.Output.FixZip {
		return writeZip(target, pages)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".mreader-*.cbz")
	if err != nil {
		return fmt.Errorf("unable to create temporary archive: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		err = multierr.Append(err, os.Remove(tmpName))
	}()
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := writeZip(tmpName, pages); err != nil {
		return err
	}
	return copyZipWithoutDataDescriptors(tmpName, target)
}

func writeZip(target string, pages []rendered) (err error) {
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("unable to create archive: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	w := zip.NewWriter(f)
	now := time.Now()
	for _, r := range pages {
		// page images are compressed already
		fw, err := w.CreateHeader(&zip.FileHeader{Name: r.name, Method: zip.Store, Modified: now})
		if err != nil {
			return fmt.Errorf("unable to add page to archive: %w", err)
		}
		if _, err := fw.Write(r.data); err != nil {
			return fmt.Errorf("unable to write page to archive: %w", err)
		}
	}
	return w.Close()
}

// copyZipWithoutDataDescriptors rewrites archive so some readers would not
// choke on it.
func copyZipWithoutDataDescriptors(from, to string) error {

	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	for _, file := range r.File {
		file.Flags &= ^fixzip.FlagDataDescriptor
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("unable to finalize target file (%s): %w", to, err)
	}
	return out.Close()
}
