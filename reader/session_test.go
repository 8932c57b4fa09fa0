package reader

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"mreader/config"
	"mreader/page"
)

func testConfig() *config.ReaderConfig {
	return &config.ReaderConfig{
		Direction: config.ReadingDirectionLtr,
		Spread: config.SpreadConfig{
			Enable:          true,
			EdgeWidth:       4,
			Threshold:       24,
			MinAspect:       1.2,
			HeightTolerance: 0.05,
		},
		Loading: config.LoadingConfig{Workers: 2, Retries: 1, ChunkSize: 512},
		Output: config.OutputConfig{
			Format:      config.OutputFormatDir,
			Images:      config.ImageFormatOriginal,
			JPEGQuality: 85,
			FixZip:      true,
		},
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// gradient goes from black at the top to white at the bottom or the other way
// around, halves of the same gradient look like a spread.
func gradient(w, h int, invert bool) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		v := uint8(255 * y / (h - 1))
		if invert {
			v = 255 - v
		}
		for x := range w {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func blank(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

// chapterDir writes blank page, two halves of a spread and a standalone page.
func chapterDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "Chapter 7")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	pages := []image.Image{
		blank(60, 100),
		gradient(60, 100, false),
		gradient(60, 100, false),
		gradient(60, 100, true),
	}
	for i, img := range pages {
		name := filepath.Join(dir, []string{"p1.png", "p2.png", "p3.png", "p10.png"}[i])
		if err := os.WriteFile(name, encodePNG(t, img), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func statuses(pages []*page.Page) []page.Status {
	out := make([]page.Status, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.Status())
	}
	return out
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	des, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, de := range des {
		names = append(names, de.Name())
	}
	slices.Sort(names)
	return names
}

func TestSession_ReadSpread(t *testing.T) {
	ctx := testContext(t)
	s := NewSession(testConfig(), nil, zap.NewNop())

	ch, err := s.Open(chapterDir(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if ch.Len() != 4 || ch.Title != "Chapter 7" {
		t.Fatalf("chapter %q has %d pages", ch.Title, ch.Len())
	}
	if err := s.LoadChapter(ctx, ch); err != nil {
		t.Fatalf("LoadChapter() error = %v", err)
	}

	pages := s.Pages(ch)
	want := []page.Status{page.StatusReady, page.StatusReady, page.StatusSkip, page.StatusReady}
	if got := statuses(pages); !slices.Equal(got, want) {
		t.Fatalf("statuses = %v, want %v", got, want)
	}
	img, err := pages[1].Bitmap()()
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 100 {
		t.Errorf("merged bounds = %v", img.Bounds())
	}

	out, err := s.WriteChapter(ctx, ch, t.TempDir())
	if err != nil {
		t.Fatalf("WriteChapter() error = %v", err)
	}
	if filepath.Base(out) != "Chapter 7" {
		t.Errorf("output = %q", out)
	}
	// untouched pages keep source data, merged spread is encoded
	if got := listDir(t, out); !slices.Equal(got, []string{"1.png", "2.jpg", "4.png"}) {
		t.Errorf("written pages = %v", got)
	}
	src, err := os.ReadFile(filepath.Join(ch.Page(0).ImageURL()))
	if err != nil {
		t.Fatal(err)
	}
	dst, err := os.ReadFile(filepath.Join(out, "1.png"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(src, dst) {
		t.Error("untouched page must be copied as is")
	}

	trace := string(s.Trace(ch))
	for _, want := range []string{"chapter " + ch.ID, "page 2", "shown: skip", "loaded: ready"} {
		if !strings.Contains(trace, want) {
			t.Errorf("trace does not have %q:\n%s", want, trace)
		}
	}
}

func TestSession_NoSpreads(t *testing.T) {
	ctx := testContext(t)
	cfg := testConfig()
	cfg.Spread.Enable = false
	cfg.Output.Images = config.ImageFormatPng
	s := NewSession(cfg, nil, zap.NewNop())

	ch, err := s.Open(chapterDir(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.LoadChapter(ctx, ch); err != nil {
		t.Fatal(err)
	}
	for i, p := range s.Pages(ch) {
		if p != ch.Page(i) {
			t.Errorf("page %d: without stages pages are originals", i)
		}
		if p.Status() != page.StatusReady {
			t.Errorf("page %d = %v", i, p)
		}
	}
	out, err := s.WriteChapter(ctx, ch, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if got := listDir(t, out); !slices.Equal(got, []string{"1.png", "2.png", "3.png", "4.png"}) {
		t.Errorf("written pages = %v", got)
	}
}

func TestSession_RightToLeft(t *testing.T) {
	ctx := testContext(t)
	cfg := testConfig()
	cfg.Direction = config.ReadingDirectionRtl
	s := NewSession(cfg, nil, zap.NewNop())

	dir := filepath.Join(t.TempDir(), "rtl")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	// in right to left reading the lower numbered page is the right half
	for name, img := range map[string]image.Image{"1.png": gradient(60, 100, false), "2.png": gradient(60, 100, false)} {
		if err := os.WriteFile(filepath.Join(dir, name), encodePNG(t, img), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	ch, err := s.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.LoadChapter(ctx, ch); err != nil {
		t.Fatal(err)
	}
	want := []page.Status{page.StatusReady, page.StatusSkip}
	if got := statuses(s.Pages(ch)); !slices.Equal(got, want) {
		t.Errorf("statuses = %v, want %v", got, want)
	}
}

func TestSession_BrokenPage(t *testing.T) {
	ctx := testContext(t)
	s := NewSession(testConfig(), nil, zap.NewNop())

	dir := chapterDir(t)
	ch, err := s.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(dir, "p10.png")); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadChapter(ctx, ch); err != nil {
		t.Fatalf("page failure must not fail chapter, got %v", err)
	}
	last := s.Pages(ch)[3]
	if last.Status() != page.StatusError || !errors.Is(last.Err(), os.ErrNotExist) {
		t.Fatalf("page 3 = %v", last)
	}
	out, err := s.WriteChapter(ctx, ch, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if got := listDir(t, out); !slices.Equal(got, []string{"1.png", "2.jpg"}) {
		t.Errorf("written pages = %v", got)
	}
}

func TestSession_Cbz(t *testing.T) {
	for _, fix := range []bool{true, false} {
		t.Run(map[bool]string{true: "fixed", false: "plain"}[fix], func(t *testing.T) {
			ctx := testContext(t)
			cfg := testConfig()
			cfg.Output.Format = config.OutputFormatCbz
			cfg.Output.FixZip = fix
			cfg.Output.NameTemplate = `{{ .Title | upper }} ({{ .Pages }})`
			cfg.Output.FileNameTransliterate = true
			s := NewSession(cfg, nil, zap.NewNop())

			ch, err := s.Open(chapterDir(t))
			if err != nil {
				t.Fatal(err)
			}
			if err := s.LoadChapter(ctx, ch); err != nil {
				t.Fatal(err)
			}
			dst := t.TempDir()
			out, err := s.WriteChapter(ctx, ch, dst)
			if err != nil {
				t.Fatalf("WriteChapter() error = %v", err)
			}
			if filepath.Base(out) != "chapter-7-4.cbz" {
				t.Errorf("output = %q", filepath.Base(out))
			}
			if got := listDir(t, dst); len(got) != 1 {
				t.Errorf("temporary files left behind: %v", got)
			}

			r, err := zip.OpenReader(out)
			if err != nil {
				t.Fatal(err)
			}
			defer r.Close()
			var names []string
			for _, f := range r.File {
				names = append(names, f.Name)
				if fix && f.Flags&0x8 != 0 {
					t.Errorf("%s has data descriptor", f.Name)
				}
			}
			if !slices.Equal(names, []string{"1.png", "2.jpg", "4.png"}) {
				t.Errorf("archive pages = %v", names)
			}
		})
	}
}

func TestSession_OpenArchive(t *testing.T) {
	ctx := testContext(t)
	s := NewSession(testConfig(), nil, zap.NewNop())

	name := filepath.Join(t.TempDir(), "vol.cbz")
	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(f)
	for _, n := range []string{"b.png", "a.png"} {
		fw, err := w.Create(n)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(encodePNG(t, blank(60, 100))); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	ch, err := s.Open(name)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if ch.Page(0).URL() != "a.png" || ch.Title != "vol" {
		t.Errorf("chapter %q starts with %q", ch.Title, ch.Page(0).URL())
	}
	if err := s.LoadChapter(ctx, ch); err != nil {
		t.Fatal(err)
	}
	if got := statuses(s.Pages(ch)); !slices.Equal(got, []page.Status{page.StatusReady, page.StatusReady}) {
		t.Errorf("statuses = %v", got)
	}
}

func TestSession_OpenErrors(t *testing.T) {
	s := NewSession(testConfig(), nil, zap.NewNop())

	if _, err := s.Open(filepath.Join(t.TempDir(), "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing source error = %v", err)
	}
	if _, err := s.Open(t.TempDir()); !errors.Is(err, ErrNoPages) {
		t.Errorf("empty directory error = %v", err)
	}
	plain := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(plain, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Open(plain); err == nil || !strings.Contains(err.Error(), "unsupported source") {
		t.Errorf("plain file error = %v", err)
	}
}

func TestSession_Close(t *testing.T) {
	ctx := testContext(t)
	s := NewSession(testConfig(), nil, zap.NewNop())
	ch, err := s.Open(chapterDir(t))
	if err != nil {
		t.Fatal(err)
	}
	first := s.Pages(ch)[0]
	if err := s.LoadChapter(ctx, ch); err != nil {
		t.Fatal(err)
	}
	s.Close(ch)
	if s.Source(ch) != "" {
		t.Error("closed chapter still known")
	}
	if err := s.manager.LoadPage(ctx, first); err == nil {
		t.Error("closed chapter pages must not load")
	}
}
