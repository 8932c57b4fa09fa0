package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/h2non/filetype"
	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"golang.org/x/text/encoding"

	"mreader/utils/images"
)

// sniffLen is enough for filetype matchers and svg detection.
const sniffLen = 1024

// Entry describes page image in archive.
type Entry struct {
	// Name is entry name as stored in archive.
	Name string
	// Display is Name decoded from forced code page when necessary.
	Display string
	// Ext is sniffed image type: jpg, png, gif, webp, bmp, tif or svg.
	Ext  string
	Size uint64
}

// Pages lists page images under prefix in natural order of their names.
// Entries which are not images are ignored. When cp is not nil names not
// marked as UTF-8 are decoded with it.
func Pages(archive, prefix string, cp encoding.Encoding) ([]Entry, error) {
	var entries []Entry
	err := Walk(archive, prefix, func(_ string, f *zip.File) error {
		if isJunk(f.Name) {
			return nil
		}
		ext, err := sniff(f)
		if err != nil {
			return fmt.Errorf("unable to read %q: %w", f.Name, err)
		}
		if ext == "" {
			return nil
		}
		display := f.Name
		if cp != nil && f.NonUTF8 {
			if n, err := cp.NewDecoder().String(f.Name); err == nil {
				display = n
			}
		}
		entries = append(entries, Entry{Name: f.Name, Display: display, Ext: ext, Size: f.UncompressedSize64})
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		switch {
		case natural.Less(a.Display, b.Display):
			return -1
		case natural.Less(b.Display, a.Display):
			return 1
		}
		return 0
	})
	return entries, nil
}

func sniff(f *zip.File) (string, error) {
	r, err := f.Open()
	if err != nil {
		return "", err
	}
	defer r.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	return ImageExt(head[:n], f.Name), nil
}

// ImageExt returns image type of data or empty string when data is not an
// image. SVG is recognized by content or by name.
func ImageExt(head []byte, name string) string {
	if filetype.IsImage(head) {
		kind, _ := filetype.Match(head)
		return kind.Extension
	}
	if images.IsSVG(head) || (strings.EqualFold(path.Ext(name), ".svg") && len(head) > 0) {
		return "svg"
	}
	return ""
}

type entryReader struct {
	io.ReadCloser
	arc *zip.ReadCloser
}

func (r *entryReader) Close() error {
	return multierr.Append(r.ReadCloser.Close(), r.arc.Close())
}

// Open returns reader for named entry and its uncompressed size.
func Open(archive, name string) (io.ReadCloser, uint64, error) {
	arc, err := zip.OpenReader(archive)
	if err != nil {
		return nil, 0, err
	}
	for _, f := range arc.File {
		if f.Name != name {
			continue
		}
		r, err := f.Open()
		if err != nil {
			return nil, 0, multierr.Append(err, arc.Close())
		}
		return &entryReader{ReadCloser: r, arc: arc}, f.UncompressedSize64, nil
	}
	return nil, 0, multierr.Append(fmt.Errorf("entry %q: %w", name, os.ErrNotExist), arc.Close())
}

// Read returns content of named entry.
func Read(archive, name string) ([]byte, error) {
	r, _, err := Open(archive, name)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	return data, multierr.Append(err, r.Close())
}

// IsArchive sniffs file content for zip signature.
func IsArchive(name string) (bool, error) {
	f, err := os.Open(name)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}
