package lint_test

import (
	"context"

	"github.com/yaklabco/relinkcheck/pkg/config"
	"github.com/yaklabco/relinkcheck/pkg/lint"
	"github.com/yaklabco/relinkcheck/pkg/mdast"
)

// stubParser returns a bare document snapshot, or err when set.
type stubParser struct {
	err error
}

func (p *stubParser) Parse(_ context.Context, path string, content []byte) (*mdast.FileSnapshot, error) {
	if p.err != nil {
		return nil, p.err
	}
	snap := mdast.NewFileSnapshot(path, content)
	snap.Root = mdast.NewDocument()
	mdast.SetFile(snap.Root, snap)
	return snap, nil
}

// stubRule returns fixed diagnostics and records how it was called.
type stubRule struct {
	lint.BaseRule
	disabled bool
	severity config.Severity
	diags    []lint.Diagnostic
	err      error
	apply    func(*lint.RuleContext)
}

func newStubRule(id, name string, diags ...lint.Diagnostic) *stubRule {
	return &stubRule{BaseRule: lint.NewBaseRule(id, name, "stub "+id, "test"), diags: diags}
}

func (r *stubRule) DefaultEnabled() bool { return !r.disabled }

func (r *stubRule) DefaultSeverity() config.Severity {
	if r.severity != "" {
		return r.severity
	}
	return r.BaseRule.DefaultSeverity()
}

func (r *stubRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if r.apply != nil {
		r.apply(ctx)
	}
	out := make([]lint.Diagnostic, len(r.diags))
	copy(out, r.diags)
	return out, r.err
}

func registryWith(rules ...lint.Rule) *lint.Registry {
	reg := lint.NewRegistry()
	for _, r := range rules {
		reg.Register(r)
	}
	return reg
}
