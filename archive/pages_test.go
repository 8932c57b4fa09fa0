package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

type testEntry struct {
	name    string
	data    []byte
	nonUTF8 bool
}

func pngData(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 6))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func createTestArchive(t *testing.T, entries []testEntry) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "test.cbz")
	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for _, e := range entries {
		fw, err := w.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Store, NonUTF8: e.nonUTF8})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(e.data); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestPages(t *testing.T) {
	img := pngData(t)
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 20"></svg>`)
	name := createTestArchive(t, []testEntry{
		{name: "ch1/page10.png", data: img},
		{name: "ch1/page2.png", data: img},
		{name: "ch1/page1.svg", data: svg},
		{name: "ch1/notes.txt", data: []byte("not a page")},
		{name: "ch1/.hidden.png", data: img},
		{name: "__MACOSX/ch1/._page1.png", data: img},
		{name: "ch2/page1.png", data: img},
	})

	entries, err := Pages(name, "ch1/", nil)
	if err != nil {
		t.Fatalf("Pages() error = %v", err)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Name+":"+e.Ext)
	}
	want := "ch1/page1.svg:svg ch1/page2.png:png ch1/page10.png:png"
	if strings.Join(got, " ") != want {
		t.Errorf("Pages() = %v, want %v", got, want)
	}
	if entries[1].Size != uint64(len(img)) {
		t.Errorf("Size = %d, want %d", entries[1].Size, len(img))
	}
}

func TestPages_CodePage(t *testing.T) {
	raw, err := charmap.Windows1251.NewEncoder().String("глава/01.png")
	if err != nil {
		t.Fatal(err)
	}
	name := createTestArchive(t, []testEntry{{name: raw, data: pngData(t), nonUTF8: true}})

	entries, err := Pages(name, "", charmap.Windows1251)
	if err != nil {
		t.Fatalf("Pages() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Display != "глава/01.png" {
		t.Errorf("Display = %q", entries[0].Display)
	}
	if entries[0].Name != raw {
		t.Errorf("Name must stay as stored")
	}
}

func TestWalk_UnsafePath(t *testing.T) {
	name := createTestArchive(t, []testEntry{{name: "../evil.png", data: pngData(t)}})
	err := Walk(name, "", func(string, *zip.File) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "unsafe path") {
		t.Errorf("Walk() error = %v, want unsafe path", err)
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	img := pngData(t)
	name := createTestArchive(t, []testEntry{{name: "a.png", data: img}, {name: "b.png", data: img}})
	stop := errors.New("stop")
	count := 0
	err := Walk(name, "", func(string, *zip.File) error {
		count++
		return stop
	})
	if !errors.Is(err, stop) || count != 1 {
		t.Errorf("Walk() = %v after %d calls", err, count)
	}
}

func TestWalk_InvalidArchive(t *testing.T) {
	name := filepath.Join(t.TempDir(), "bad.cbz")
	if err := os.WriteFile(name, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Walk(name, "", func(string, *zip.File) error { return nil }); err == nil {
		t.Error("expected error for invalid archive")
	}
}

func TestOpenRead(t *testing.T) {
	name := createTestArchive(t, []testEntry{{name: "a.png", data: []byte("payload")}})

	r, size, err := Open(name, "a.png")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if string(data) != "payload" || size != 7 {
		t.Errorf("Open() = %q, %d", data, size)
	}

	data, err = Read(name, "a.png")
	if err != nil || string(data) != "payload" {
		t.Errorf("Read() = %q, %v", data, err)
	}

	if _, err := Read(name, "missing.png"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Read() missing error = %v", err)
	}
}

func TestIsArchive(t *testing.T) {
	name := createTestArchive(t, []testEntry{{name: "a.png", data: pngData(t)}})
	ok, err := IsArchive(name)
	if err != nil || !ok {
		t.Errorf("IsArchive(zip) = %v, %v", ok, err)
	}

	plain := filepath.Join(t.TempDir(), "plain.png")
	if err := os.WriteFile(plain, pngData(t), 0o644); err != nil {
		t.Fatal(err)
	}
	ok, err = IsArchive(plain)
	if err != nil || ok {
		t.Errorf("IsArchive(png) = %v, %v", ok, err)
	}
}
