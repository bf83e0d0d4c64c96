//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// isFatal reports fsnotify errors the watcher cannot recover from: inotify
// watch exhaustion and file descriptor limits.
func isFatal(err error) bool {
	return errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}
