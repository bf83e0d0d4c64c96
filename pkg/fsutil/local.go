package fsutil

import (
	"os"

	"github.com/go-enry/go-enry/v2"
)

// Local is the host file system.
// With FollowSymlinks unset, a dangling or looping symlink still counts as
// existing because the link itself is present.
type Local struct {
	FollowSymlinks bool
}

// Exists reports whether path names a file or directory.
func (l Local) Exists(path string) bool {
	stat := os.Lstat
	if l.FollowSymlinks {
		stat = os.Stat
	}
	_, err := stat(path)
	return err == nil
}

// ReadFile returns the full content of path.
func (Local) ReadFile(path string) ([]byte, error) {
	//nolint:gosec // reading user-referenced documents is the point
	return os.ReadFile(path)
}

// Exists reports whether path exists on the host file system.
func Exists(path string) bool {
	return Local{FollowSymlinks: true}.Exists(path)
}

// IsText reports whether content looks like text rather than binary data.
// Empty content is text.
func IsText(content []byte) bool {
	return !enry.IsBinary(content)
}
