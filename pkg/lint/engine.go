package lint

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/yaklabco/relinkcheck/pkg/config"
	"github.com/yaklabco/relinkcheck/pkg/mdast"
)

// FileResult contains the results of checking a single file.
type FileResult struct {
	// Snapshot is the parsed file.
	Snapshot *mdast.FileSnapshot

	// Diagnostics contains all issues found, ordered by position.
	Diagnostics []Diagnostic

	// RuleErrors contains any errors from rule execution, keyed by rule ID.
	RuleErrors map[string]error
}

// HasIssues returns true if any diagnostics were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// IssueCount returns the total number of diagnostics.
func (fr *FileResult) IssueCount() int {
	return len(fr.Diagnostics)
}

// CountBySeverity returns the number of diagnostics with the given severity.
func (fr *FileResult) CountBySeverity(sev config.Severity) int {
	count := 0
	for _, d := range fr.Diagnostics {
		if d.Severity == sev {
			count++
		}
	}
	return count
}

// Engine coordinates parsing and rule execution.
type Engine struct {
	// Parser parses Markdown files into FileSnapshots.
	Parser Parser

	// Registry holds all available rules.
	Registry *Registry

	// WorkingDir resolves relative document paths. Empty means the process
	// working directory.
	WorkingDir string
}

// NewEngine creates a new Engine with the given parser and registry.
func NewEngine(parser Parser, registry *Registry) *Engine {
	return &Engine{
		Parser:   parser,
		Registry: registry,
	}
}

// LintFile parses and checks a single file.
func (e *Engine) LintFile(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
) (*FileResult, error) {
	snapshot, err := e.Parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	resolved := ResolveRules(e.Registry, cfg)

	result := &FileResult{
		Snapshot:   snapshot,
		RuleErrors: make(map[string]error),
	}

	memo := Memo{}

	for _, rr := range resolved {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("check cancelled: %w", ctx.Err())
		default:
		}

		ruleCtx := NewRuleContext(ctx, snapshot, cfg, rr.Config).WithMemo(memo)
		ruleCtx.Registry = e.Registry
		ruleCtx.WorkingDir = e.WorkingDir

		diags, err := rr.Rule.Apply(ruleCtx)
		if err != nil {
			result.RuleErrors[rr.Rule.ID()] = err
			continue
		}

		for i := range diags {
			diags[i].Severity = rr.Severity
			if diags[i].FilePath == "" {
				diags[i].FilePath = path
			}
			if diags[i].RuleName == "" {
				diags[i].RuleName = rr.Rule.Name()
			}
		}

		result.Diagnostics = append(result.Diagnostics, diags...)
	}

	// Rules run one after another, so restore document order across them.
	slices.SortStableFunc(result.Diagnostics, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.StartLine, b.StartLine),
			cmp.Compare(a.StartColumn, b.StartColumn),
		)
	})

	return result, nil
}
