// Package archive lists and reads page images kept in zip based comic
// archives (cbz).
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"strings"
)

// WalkFunc is called for each file in archive visited by Walk. The archive
// argument is path to archive passed to Walk. If an error is returned,
// processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk visits all files in the archive with names starting with prefix in
// the order they are stored. Archive with unsafe entry names (absolute or
// with "..") is rejected as a whole.
func Walk(archive, prefix string, walkFn WalkFunc) error {

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, prefix) {
			if err := walkFn(archive, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// isSafePath returns false for absolute paths and paths with ".." elements.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}

// isJunk reports entries archivers and file managers leave behind.
func isJunk(name string) bool {
	if strings.HasPrefix(name, "__MACOSX/") {
		return true
	}
	base := path.Base(name)
	return strings.HasPrefix(base, ".") || strings.EqualFold(base, "thumbs.db")
}
