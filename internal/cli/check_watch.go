package cli

import (
	"context"

	"github.com/yaklabco/relinkcheck/internal/logging"
	"github.com/yaklabco/relinkcheck/internal/watch"
	"github.com/yaklabco/relinkcheck/pkg/config"
	"github.com/yaklabco/relinkcheck/pkg/fsutil"
	"github.com/yaklabco/relinkcheck/pkg/runner"
)

// watch runs the check once, then again whenever the tree changes, until
// ctx is cancelled. Check failures are reported but do not stop watching.
func (s *checkSession) watch(ctx context.Context) error {
	last, err := s.run(ctx)
	if err != nil {
		return err
	}

	exts := s.cfg.Extensions
	if len(exts) == 0 {
		exts = config.DefaultExtensions()
	}

	watcher, err := watch.New(watch.Config{
		BaseDir:  s.workDir,
		Patterns: watch.PatternsForExtensions(exts),
		Ignore:   s.cfg.Ignore,
		Logger:   s.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			if contentUnchanged(ctx, last, changed) {
				s.logger.Debug("skipping re-check, content unchanged", logging.FieldFiles, changed)
				return nil
			}
			s.logger.Info("change detected, re-checking", logging.FieldFiles, len(changed))
			result, err := s.run(ctx)
			if err != nil {
				return err
			}
			last = result
			return nil
		},
	})
	if err != nil {
		return err
	}

	s.logger.Info("watching for changes", logging.FieldPath, watcher.BaseDir())
	return watcher.Run(ctx)
}

// contentUnchanged reports whether every changed path is a document from the
// previous run whose content is byte-for-byte the same, as when an editor
// rewrites a file on save without edits. Any other path forces a re-check.
func contentUnchanged(ctx context.Context, last *runner.Result, changed []string) bool {
	if last == nil || len(changed) == 0 {
		return false
	}

	infos := make(map[string]*fsutil.FileInfo, len(last.Files))
	for _, outcome := range last.Files {
		if outcome.Result != nil && outcome.Result.Info != nil {
			infos[outcome.Path] = outcome.Result.Info
		}
	}

	for _, path := range changed {
		info, ok := infos[path]
		if !ok {
			return false
		}
		modified, err := fsutil.CheckModified(ctx, info)
		if err != nil || modified {
			return false
		}
	}
	return true
}
