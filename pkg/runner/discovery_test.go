package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/relinkcheck/pkg/runner"
)

// tree creates files (with parent directories) under a fresh temp dir.
func tree(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("# "+f+"\n"), 0o600))
	}
	return dir
}

// rel strips dir from each path and converts to slash form.
func rel(t *testing.T, dir string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(dir, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	files := []string{
		"readme.md",
		"docs/guide.md",
		"docs/api.markdown",
		"docs/page.mdx",
		"docs/UPPER.MD",
		"src/main.go",
		"notes.txt",
		".hidden/secret.md",
		"docs/.draft.md",
		"vendor/lib/readme.md",
		"docs/tmp/scratch.md",
	}

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "defaults",
			want: []string{
				"docs/UPPER.MD", "docs/api.markdown", "docs/guide.md", "docs/page.mdx",
				"docs/tmp/scratch.md", "readme.md", "vendor/lib/readme.md",
			},
		},
		{
			name: "exclude directory glob",
			opts: runner.Options{ExcludeGlobs: []string{"vendor/**", "**/tmp/**"}},
			want: []string{
				"docs/UPPER.MD", "docs/api.markdown", "docs/guide.md", "docs/page.mdx", "readme.md",
			},
		},
		{
			name: "base name pattern",
			opts: runner.Options{ExcludeGlobs: []string{"readme.md"}},
			want: []string{
				"docs/UPPER.MD", "docs/api.markdown", "docs/guide.md", "docs/page.mdx", "docs/tmp/scratch.md",
			},
		},
		{
			name: "include glob",
			opts: runner.Options{IncludeGlobs: []string{"docs/*.md"}},
			want: []string{"docs/guide.md"},
		},
		{
			name: "custom extensions",
			opts: runner.Options{Extensions: []string{".txt"}},
			want: []string{"notes.txt"},
		},
		{
			name: "sub path",
			opts: runner.Options{Paths: []string{"docs/tmp"}},
			want: []string{"docs/tmp/scratch.md"},
		},
	}

	dir := tree(t, files...)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts := tt.opts
			opts.WorkingDir = dir

			got, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rel(t, dir, got))
		})
	}
}

func TestDiscover_ExplicitFiles(t *testing.T) {
	t.Parallel()

	dir := tree(t, "a.md", "b.txt", "skip.md")

	got, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   dir,
		Paths:        []string{"b.txt", "a.md", "a.md", filepath.Join(dir, "a.md"), "skip.md"},
		ExcludeGlobs: []string{"skip.md"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "b.txt"}, rel(t, dir, got))
}

func TestDiscover_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: t.TempDir(),
		Paths:      []string{"absent"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscover_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: tree(t, "a.md")})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	outside := tree(t, "shared/linked.md")
	dir := tree(t, "readme.md")
	require.NoError(t, os.Symlink(filepath.Join(outside, "shared"), filepath.Join(dir, "shared")))
	// A cycle back to the root must not loop forever.
	require.NoError(t, os.Symlink(dir, filepath.Join(dir, "loop")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "dangling.md")))

	got, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "readme.md")}, got)

	got, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	require.NoError(t, err)
	realOutside, err := filepath.EvalSymlinks(outside)
	require.NoError(t, err)
	assert.Contains(t, got, filepath.Join(realOutside, "shared", "linked.md"))
	assert.Contains(t, got, filepath.Join(dir, "readme.md"))
}

func TestMatchAny(t *testing.T) {
	t.Parallel()

	tests := []struct {
		patterns []string
		path     string
		want     bool
	}{
		{patterns: []string{"vendor/**"}, path: "vendor/a/b.md", want: true},
		{patterns: []string{"**/node_modules/**"}, path: "web/node_modules/x/readme.md", want: true},
		{patterns: []string{"*.tmp.md"}, path: "docs/deep/file.tmp.md", want: true},
		{patterns: []string{"docs/*.md"}, path: "docs/deep/file.md", want: false},
		{patterns: []string{"[invalid"}, path: "[invalid", want: false},
		{patterns: nil, path: "a.md", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, runner.MatchAny(tt.patterns, tt.path))
		})
	}
}
