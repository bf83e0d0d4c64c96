package lint

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/relinkcheck/pkg/config"
	"github.com/yaklabco/relinkcheck/pkg/fsutil"
)

// ErrParseFailure indicates a document could not be parsed.
var ErrParseFailure = errors.New("parse failure")

// PipelineResult contains the result of processing a single file.
type PipelineResult struct {
	*FileResult

	// Path is the file path that was processed.
	Path string

	// Info is the file state at the moment it was read.
	Info *fsutil.FileInfo
}

// Summary returns a short human-readable status.
func (pr *PipelineResult) Summary() string {
	if pr.FileResult != nil && pr.HasIssues() {
		return "issues found"
	}
	return "ok"
}

// Pipeline reads documents from disk and runs them through the engine.
type Pipeline struct {
	// Engine is used for parsing and rule execution.
	Engine *Engine
}

// NewPipeline creates a new pipeline with the given engine.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile reads path and checks it.
// Read failures carry the fsutil sentinel errors (ErrNotFound,
// ErrPermissionDenied, ErrIsDirectory).
func (p *Pipeline) ProcessFile(ctx context.Context, path string, cfg *config.Config) (*PipelineResult, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	result, err := p.ProcessContent(ctx, path, content, cfg)
	if err != nil {
		return nil, err
	}
	result.Info = info
	return result, nil
}

// ProcessContent checks in-memory content without reading the file itself.
// Link targets are still resolved against the file system.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
) (*PipelineResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing cancelled: %w", err)
	}

	fileResult, err := p.Engine.LintFile(ctx, path, content, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	return &PipelineResult{FileResult: fileResult, Path: path}, nil
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, fsutil.ErrNotFound) ||
		errors.Is(err, fsutil.ErrPermissionDenied) ||
		errors.Is(err, fsutil.ErrIsDirectory) ||
		errors.Is(err, ErrParseFailure)
}
