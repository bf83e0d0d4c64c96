package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// startWatcher runs w in the background and returns a stop function that
// cancels it and reports Run's error.
func startWatcher(t *testing.T, w *Watcher) func() error {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// Give the event loop time to start.
	time.Sleep(50 * time.Millisecond)

	return func() error {
		cancel()
		select {
		case err := <-errCh:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("Run did not return after cancellation")
			return nil
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWatcher_Debounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var (
		mu        sync.Mutex
		calls     int
		collected []string
	)
	done := make(chan struct{})

	w, err := New(Config{
		BaseDir:  dir,
		Patterns: PatternsForExtensions([]string{".md"}),
		Debounce: 100 * time.Millisecond,
		Logger:   quietLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			collected = append(collected, changed...)
			if calls == 1 {
				close(done)
			}
			return nil
		},
	})
	require.NoError(t, err)
	stop := startWatcher(t, w)

	for _, name := range []string{"a.md", "b.md", "c.md"} {
		writeFile(t, filepath.Join(dir, name), "# Title\n")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, stop())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		assert.Contains(t, collected, filepath.Join(dir, name))
	}
}

func TestWatcher_PatternFiltering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fired := make(chan []string, 10)

	w, err := New(Config{
		BaseDir:  dir,
		Patterns: PatternsForExtensions([]string{".md"}),
		Debounce: 50 * time.Millisecond,
		Logger:   quietLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	require.NoError(t, err)
	stop := startWatcher(t, w)

	writeFile(t, filepath.Join(dir, "image.png"), "png")
	time.Sleep(200 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "readme.md"), "# Readme\n")

	select {
	case changed := <-fired:
		assert.NotContains(t, changed, filepath.Join(dir, "image.png"))
		assert.Contains(t, changed, filepath.Join(dir, "readme.md"))
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	require.NoError(t, stop())
}

func TestWatcher_RemovalOfAnyFileTriggers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "diagram.png")
	writeFile(t, target, "png")

	fired := make(chan []string, 10)
	w, err := New(Config{
		BaseDir:  dir,
		Patterns: PatternsForExtensions([]string{".md"}),
		Debounce: 50 * time.Millisecond,
		Logger:   quietLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	require.NoError(t, err)
	stop := startWatcher(t, w)

	require.NoError(t, os.Remove(target))

	select {
	case changed := <-fired:
		assert.Contains(t, changed, target)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback on removal")
	}

	require.NoError(t, stop())
}

func TestWatcher_IgnorePatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fired := make(chan []string, 10)

	w, err := New(Config{
		BaseDir:  dir,
		Ignore:   []string{"drafts/**"},
		Debounce: 50 * time.Millisecond,
		Logger:   quietLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	require.NoError(t, err)
	stop := startWatcher(t, w)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "drafts"), 0o750))
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "drafts", "wip.md"), "# WIP\n")
	time.Sleep(200 * time.Millisecond)
	writeFile(t, filepath.Join(dir, "index.md"), "# Index\n")

	select {
	case changed := <-fired:
		assert.Equal(t, []string{filepath.Join(dir, "index.md")}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	require.NoError(t, stop())
}

func TestWatcher_NewDirectoryIsWatched(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	nested := filepath.Join(dir, "guide")
	want := filepath.Join(nested, "setup.md")

	var seen atomic.Bool
	done := make(chan struct{})

	w, err := New(Config{
		BaseDir:  dir,
		Patterns: PatternsForExtensions([]string{".md"}),
		Debounce: 50 * time.Millisecond,
		Logger:   quietLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			for _, path := range changed {
				if path == want && seen.CompareAndSwap(false, true) {
					close(done)
				}
			}
			return nil
		},
	})
	require.NoError(t, err)
	stop := startWatcher(t, w)

	require.NoError(t, os.Mkdir(nested, 0o750))
	// Let the create event register the directory before writing into it.
	time.Sleep(200 * time.Millisecond)
	writeFile(t, want, "# Setup\n")

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change in new directory")
	}

	require.NoError(t, stop())
}

func TestWatcher_SkipIfBusy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	var (
		active    atomic.Int32
		maxActive atomic.Int32
		calls     atomic.Int32
	)

	w, err := New(Config{
		BaseDir:  dir,
		Debounce: 20 * time.Millisecond,
		Logger:   quietLogger(),
		OnChange: func(_ context.Context, _ []string) error {
			n := active.Add(1)
			for {
				prev := maxActive.Load()
				if n <= prev || maxActive.CompareAndSwap(prev, n) {
					break
				}
			}
			calls.Add(1)
			time.Sleep(150 * time.Millisecond)
			active.Add(-1)
			return nil
		},
	})
	require.NoError(t, err)
	stop := startWatcher(t, w)

	for i := range 5 {
		writeFile(t, filepath.Join(dir, "f.md"), string(rune('a'+i)))
		time.Sleep(40 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return calls.Load() > 0 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	require.NoError(t, stop())

	assert.Equal(t, int32(1), maxActive.Load())
}

func TestWatcher_ContextCancel(t *testing.T) {
	t.Parallel()

	w, err := New(Config{BaseDir: t.TempDir(), Logger: quietLogger()})
	require.NoError(t, err)

	stop := startWatcher(t, w)
	assert.NoError(t, stop())
}

func TestWatcher_DoubleRun(t *testing.T) {
	t.Parallel()

	w, err := New(Config{BaseDir: t.TempDir(), Logger: quietLogger()})
	require.NoError(t, err)

	stop := startWatcher(t, w)

	err = w.Run(context.Background())
	require.ErrorIs(t, err, ErrAlreadyRunning)

	assert.NoError(t, stop())
}

func TestNew_InvalidPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"watch", Config{Patterns: []string{"[unclosed"}}, "invalid watch pattern"},
		{"ignore", Config{Ignore: []string{"docs/[a-"}}, "invalid ignore pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.cfg.BaseDir = t.TempDir()
			tt.cfg.Logger = quietLogger()
			_, err := New(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(Config{BaseDir: dir, Logger: quietLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.notify.Close() })

	assert.Equal(t, dir, w.BaseDir())
	assert.Equal(t, DefaultDebounce, w.quiet)
}

func TestTreeFilter_Skipped(t *testing.T) {
	t.Parallel()

	f, err := newTreeFilter("/repo", nil, []string{"vendor/**", "*.tmp"})
	require.NoError(t, err)

	tests := []struct {
		path    string
		ignored bool
	}{
		{".git", true},
		{".git/config", true},
		{"sub/.git/HEAD", true},
		{"node_modules/pkg/README.md", true},
		{"docs/node_modules/x.md", true},
		{"notes.md.swp", true},
		{"backup~", true},
		{".DS_Store", true},
		{"sub/.DS_Store", true},
		{"vendor", true},
		{"vendor/lib/README.md", true},
		{"docs/draft.tmp", true},
		{"README.md", false},
		{"docs/guide.md", false},
		{".gitignore", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.ignored, f.skipped(tt.path))
		})
	}
}

func TestPatternsForExtensions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"**/*.md", "**/*.mdx"}, PatternsForExtensions([]string{".md", ".mdx"}))
	assert.Empty(t, PatternsForExtensions(nil))
}

func TestTreeFilter_Triggered(t *testing.T) {
	t.Parallel()

	all, err := newTreeFilter("/repo", nil, nil)
	require.NoError(t, err)
	assert.True(t, all.triggered("img/logo.png"))

	md, err := newTreeFilter("/repo", PatternsForExtensions([]string{".md"}), nil)
	require.NoError(t, err)
	assert.True(t, md.triggered("README.md"))
	assert.True(t, md.triggered("docs/guide.md"))
	assert.False(t, md.triggered("img/logo.png"))

	assert.Equal(t, "docs/guide.md", md.relative(filepath.Join("/repo", "docs", "guide.md")))
}

func TestBatch_CoalescesPaths(t *testing.T) {
	t.Parallel()

	flushed := make(chan []string, 4)
	b := newBatch(30*time.Millisecond, func(paths []string) { flushed <- paths })
	t.Cleanup(b.stop)

	b.add("/r/b.md")
	b.add("/r/a.md")
	b.add("/r/b.md")

	select {
	case paths := <-flushed:
		assert.Equal(t, []string{"/r/a.md", "/r/b.md"}, paths)
	case <-time.After(2 * time.Second):
		t.Fatal("batch never flushed")
	}

	select {
	case paths := <-flushed:
		t.Fatalf("unexpected second flush %v", paths)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBatch_StopCancelsFlush(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	b := newBatch(30*time.Millisecond, func([]string) { calls.Add(1) })

	b.add("/r/a.md")
	b.stop()
	b.add("/r/b.md")

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, calls.Load())
}
