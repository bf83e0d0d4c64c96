package lint

import (
	"context"

	"github.com/yaklabco/relinkcheck/pkg/config"
	"github.com/yaklabco/relinkcheck/pkg/mdast"
)

// RuleContext provides all context needed by a rule to check one file.
//
// It is a short-lived parameter object created per rule invocation, so it
// carries the context.Context as a field.
type RuleContext struct {
	// Ctx is the context for cancellation and timeouts.
	Ctx context.Context

	// File is the parsed FileSnapshot.
	File *mdast.FileSnapshot

	// Root is the AST root node (convenience alias for File.Root).
	Root *mdast.Node

	// Config is the resolved configuration.
	Config *config.Config

	// RuleConfig is the rule-specific configuration (may be nil).
	RuleConfig *config.RuleConfig

	// Registry provides access to the rule registry for name lookups.
	Registry *Registry

	// WorkingDir is the directory relative file paths are resolved against.
	WorkingDir string

	memo Memo
}

// Memo holds values computed once per file and shared by every rule run on it.
// Rules run sequentially per file, so it needs no locking.
type Memo map[string]any

// NewRuleContext creates a RuleContext for the given file and configuration.
func NewRuleContext(
	ctx context.Context,
	file *mdast.FileSnapshot,
	cfg *config.Config,
	ruleCfg *config.RuleConfig,
) *RuleContext {
	var root *mdast.Node
	if file != nil {
		root = file.Root
	}

	return &RuleContext{
		Ctx:        ctx,
		File:       file,
		Root:       root,
		Config:     cfg,
		RuleConfig: ruleCfg,
	}
}

// WithMemo attaches a shared memo to the context and returns it.
func (rc *RuleContext) WithMemo(memo Memo) *RuleContext {
	rc.memo = memo
	return rc
}

// Cancelled returns true if the context has been cancelled.
func (rc *RuleContext) Cancelled() bool {
	select {
	case <-rc.Ctx.Done():
		return true
	default:
		return false
	}
}

// Memoize returns the value stored under key in the context's memo,
// computing it with build on first use. Without a memo, build runs every time.
func Memoize[T any](rc *RuleContext, key string, build func() T) T {
	if rc.memo == nil {
		return build()
	}
	if v, ok := rc.memo[key].(T); ok {
		return v
	}
	v := build()
	rc.memo[key] = v
	return v
}
