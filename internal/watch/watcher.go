// Package watch re-runs a callback when files under a directory tree change.
//
// Events are debounced: a burst of writes (an editor saving through a temp
// file, a branch checkout) produces one callback carrying every changed path.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/relinkcheck/internal/logging"
)

// DefaultDebounce is the quiet period used when Config.Debounce is unset.
const DefaultDebounce = 300 * time.Millisecond

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

// Config holds the parameters for a Watcher.
type Config struct {
	// BaseDir is the root of the watched tree. Defaults to the working directory.
	BaseDir string

	// Patterns select the files whose writes and creations trigger a
	// callback, matched against slash-separated paths relative to BaseDir.
	// An empty list selects every file.
	Patterns []string

	// Ignore lists additional globs that never trigger and are not descended
	// into. Patterns without a slash also match base names.
	Ignore []string

	// Debounce is the quiet period after the last event before the callback
	// fires. Zero or negative values fall back to DefaultDebounce.
	Debounce time.Duration

	// OnChange receives the sorted absolute paths that changed.
	OnChange func(ctx context.Context, changed []string) error

	// Logger receives watcher diagnostics. Defaults to logging.Default().
	Logger *log.Logger
}

// Watcher monitors a directory tree and fires a debounced callback.
type Watcher struct {
	onChange func(ctx context.Context, changed []string) error
	notify   *fsnotify.Watcher
	filter   *treeFilter
	logger   *log.Logger
	quiet    time.Duration
	started  atomic.Bool
}

// New creates a Watcher and registers every directory under BaseDir that
// is not ignored.
func New(cfg Config) (*Watcher, error) {
	root := cfg.BaseDir
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	filter, err := newTreeFilter(root, cfg.Patterns, cfg.Ignore)
	if err != nil {
		return nil, err
	}

	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		onChange: cfg.OnChange,
		notify:   notify,
		filter:   filter,
		logger:   cfg.Logger,
		quiet:    cfg.Debounce,
	}
	if w.logger == nil {
		w.logger = logging.Default()
	}
	if w.quiet <= 0 {
		w.quiet = DefaultDebounce
	}

	if err := w.watchTree(root, true); err != nil {
		if closeErr := notify.Close(); closeErr != nil {
			w.logger.Debug("closing watcher after setup failure", logging.FieldError, closeErr)
		}
		return nil, err
	}

	return w, nil
}

// BaseDir returns the absolute root of the watched tree.
func (w *Watcher) BaseDir() string {
	return w.filter.root
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks.
// It returns nil on cancellation and an error when fsnotify fails beyond
// recovery. A callback is never re-entered: paths that change while it runs
// are delivered by a later call.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	pending := newBatch(w.quiet, func(changed []string) {
		if ctx.Err() != nil || w.onChange == nil {
			return
		}
		if err := w.onChange(ctx, changed); err != nil {
			w.logger.Error("change handler failed", logging.FieldError, err, logging.FieldFiles, len(changed))
		}
	})

	defer func() {
		pending.stop()
		if err := w.notify.Close(); err != nil {
			w.logger.Debug("closing fsnotify watcher", logging.FieldError, err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.notify.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if w.accept(evt) {
				w.logger.Debug("change queued", logging.FieldPath, evt.Name, logging.FieldEvent, evt.Op.String())
				pending.add(evt.Name)
			}

		case err, ok := <-w.notify.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify reported an error", logging.FieldError, err)
		}
	}
}

// accept decides whether evt is queued and starts watching directories it
// creates. A removal or rename of any path that is not ignored counts, since
// links may point at files of any type.
func (w *Watcher) accept(evt fsnotify.Event) bool {
	if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) &&
		!evt.Has(fsnotify.Remove) && !evt.Has(fsnotify.Rename) {
		return false
	}

	rel := w.filter.relative(evt.Name)
	if w.filter.skipped(rel) {
		return false
	}

	switch {
	case evt.Has(fsnotify.Remove), evt.Has(fsnotify.Rename):
		return true
	case evt.Has(fsnotify.Create) && isDir(evt.Name):
		if err := w.watchTree(evt.Name, false); err != nil {
			w.logger.Warn("cannot watch new directory", logging.FieldPath, evt.Name, logging.FieldError, err)
		}
		return true
	default:
		return w.filter.triggered(rel)
	}
}

// watchTree adds dir and every directory below it that is not ignored.
// Unreadable entries are skipped. With strict set, the first directory that
// cannot be added aborts the walk. Otherwise failures are logged and the
// walk goes on.
func (w *Watcher) watchTree(dir string, strict bool) error {
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.logger.Debug("skipping unreadable path", logging.FieldPath, path, logging.FieldError, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.filter.root && w.filter.skipped(w.filter.relative(path)) {
			return filepath.SkipDir
		}
		if err := w.notify.Add(path); err != nil {
			if strict {
				return fmt.Errorf("watch: add directory %q: %w", path, err)
			}
			w.logger.Warn("cannot watch directory", logging.FieldPath, path, logging.FieldError, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk directory tree: %w", err)
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
