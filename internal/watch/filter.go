package watch

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/relinkcheck/pkg/runner"
)

// builtinSkips are never reported and never descended into.
//
//nolint:gochecknoglobals // read-only
var builtinSkips = []string{
	".git/**",
	"**/.git/**",
	"**/node_modules/**",
	"*.swp",
	"*.swo",
	"*~",
	".DS_Store",
}

// treeFilter matches paths below root against the skip and trigger globs.
// Globs see slash-separated paths relative to root.
type treeFilter struct {
	root     string
	skip     []string
	triggers []string
}

func newTreeFilter(root string, triggers, skip []string) (*treeFilter, error) {
	if err := checkGlobs("watch", triggers); err != nil {
		return nil, err
	}
	if err := checkGlobs("ignore", skip); err != nil {
		return nil, err
	}
	return &treeFilter{
		root:     root,
		skip:     append(slices.Clone(builtinSkips), skip...),
		triggers: triggers,
	}, nil
}

func checkGlobs(kind string, globs []string) error {
	for _, g := range globs {
		if !doublestar.ValidatePattern(filepath.ToSlash(g)) {
			return fmt.Errorf("watch: invalid %s pattern %q", kind, g)
		}
	}
	return nil
}

// relative returns path relative to root in slash form. Paths outside
// root come back unchanged.
func (f *treeFilter) relative(path string) string {
	rel, err := filepath.Rel(f.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// skipped also tries rel as a directory so "vendor/**" covers vendor itself.
func (f *treeFilter) skipped(rel string) bool {
	return runner.MatchAny(f.skip, rel) || runner.MatchAny(f.skip, rel+"/")
}

// triggered reports whether a write to rel should be reported. No trigger
// globs means every file.
func (f *treeFilter) triggered(rel string) bool {
	if len(f.triggers) == 0 {
		return true
	}
	return runner.MatchAny(f.triggers, rel)
}

// PatternsForExtensions returns globs selecting files with the given extensions.
func PatternsForExtensions(exts []string) []string {
	globs := make([]string, 0, len(exts))
	for _, ext := range exts {
		globs = append(globs, "**/*"+ext)
	}
	return globs
}
