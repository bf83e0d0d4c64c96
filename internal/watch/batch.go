package watch

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// batch gathers changed paths and hands them to flush once quiet has
// passed without a new one. While a flush is still running the next one
// waits another quiet period and the paths stay queued.
type batch struct {
	quiet time.Duration
	flush func(paths []string)

	mu      sync.Mutex
	paths   map[string]struct{}
	timer   *time.Timer
	stopped bool
	busy    atomic.Bool
}

func newBatch(quiet time.Duration, flush func(paths []string)) *batch {
	return &batch{
		quiet: quiet,
		flush: flush,
		paths: make(map[string]struct{}),
	}
}

// add queues path and restarts the quiet period.
func (b *batch) add(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.paths[path] = struct{}{}
	b.rearm()
}

// rearm must be called with mu held.
func (b *batch) rearm() {
	if b.stopped {
		return
	}
	if b.timer == nil {
		b.timer = time.AfterFunc(b.quiet, b.fire)
		return
	}
	b.timer.Reset(b.quiet)
}

func (b *batch) fire() {
	if !b.busy.CompareAndSwap(false, true) {
		b.mu.Lock()
		b.rearm()
		b.mu.Unlock()
		return
	}
	defer b.busy.Store(false)

	b.mu.Lock()
	paths := slices.Sorted(maps.Keys(b.paths))
	clear(b.paths)
	b.mu.Unlock()

	if len(paths) > 0 {
		b.flush(paths)
	}
}

// stop cancels a pending flush. A flush already running is not waited for.
func (b *batch) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
	}
}
