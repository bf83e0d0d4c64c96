// Package memfs provides an in-memory file system for tests of packages
// that read documents through relinks.FS.
package memfs

import (
	"os"
	"path/filepath"
	"strings"
)

// FS maps slash-separated paths to file content. Directories exist
// implicitly for every file below them.
type FS map[string][]byte

func key(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// Exists reports whether path is a file in fs or a parent of one.
func (fs FS) Exists(path string) bool {
	k := key(path)
	if _, ok := fs[k]; ok {
		return true
	}

	dir := strings.TrimSuffix(k, "/") + "/"
	for name := range fs {
		if strings.HasPrefix(name, dir) {
			return true
		}
	}
	return false
}

// ReadFile returns the content stored for path. Directories are not
// readable.
func (fs FS) ReadFile(path string) ([]byte, error) {
	content, ok := fs[key(path)]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return content, nil
}
