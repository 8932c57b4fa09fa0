package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readReport(t *testing.T, name string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer r.Close()

	files := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read %s: %v", f.Name, err)
		}
		files[f.Name] = string(data)
	}
	return files
}

func TestReport_Close(t *testing.T) {
	dir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}

	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	logName := filepath.Join(dir, "final.log")
	if err := os.WriteFile(logName, []byte("log line"), 0644); err != nil {
		t.Fatalf("failed to write log: %v", err)
	}

	r.Store("final.log", logName)
	r.Store("missing.log", filepath.Join(dir, "does-not-exist.log"))
	r.StoreData("pages/chapter.txt", []byte("0 ready"))
	r.StoreData("pages/chapter.txt", []byte("1 skip"))

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readReport(t, conf.Destination)
	if files["final.log"] != "log line" {
		t.Errorf("final.log = %q, want %q", files["final.log"], "log line")
	}
	if _, ok := files["missing.log"]; ok {
		t.Error("absent files must be ignored")
	}
	if files["pages/chapter.txt"] != "0 ready" {
		t.Errorf("pages/chapter.txt = %q", files["pages/chapter.txt"])
	}

	versioned := 0
	for name := range files {
		if strings.HasPrefix(name, "pages/chapter.txt-") {
			versioned++
		}
	}
	if versioned != 1 {
		t.Errorf("expected one versioned data entry, got %d", versioned)
	}
	if !strings.Contains(files["MANIFEST"], "final.log") {
		t.Errorf("MANIFEST does not list stored file: %q", files["MANIFEST"])
	}
}

func TestReport_StoreOverwritePanics(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("final.log", "/tmp/a.log")

	defer func() {
		if recover() == nil {
			t.Error("expected panic on conflicting Store")
		}
	}()
	r.Store("final.log", "/tmp/b.log")
}

func TestReport_Nil(t *testing.T) {
	var r *Report
	r.Store("x", "y")
	r.StoreData("x", []byte("y"))
	if r.Name() != "" {
		t.Error("Name on nil report should be empty")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
}

func TestReport_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
