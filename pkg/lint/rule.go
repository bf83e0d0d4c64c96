// Package lint provides the rule engine, diagnostics, and registry for relinkcheck.
package lint

import (
	"github.com/yaklabco/relinkcheck/pkg/config"
	"github.com/yaklabco/relinkcheck/pkg/mdast"
)

// Diagnostic represents a single problem found in a file.
type Diagnostic struct {
	// Source names the tool that produced the diagnostic.
	Source string

	// RuleID is the identifier of the rule that produced this diagnostic.
	RuleID string

	// RuleName is the human-readable name of the rule (e.g., "file-reference").
	RuleName string

	// Message is the human-readable description of the issue.
	Message string

	// Severity indicates the importance of the diagnostic.
	Severity config.Severity

	// FilePath is the path to the file containing the issue.
	FilePath string

	// StartLine is the 1-based line number where the issue starts.
	StartLine int

	// StartColumn is the 1-based column number where the issue starts.
	StartColumn int

	// EndLine is the 1-based line number where the issue ends.
	EndLine int

	// EndColumn is the 1-based column number where the issue ends.
	EndColumn int

	// Suggestion is an optional human-readable hint.
	Suggestion string

	// Target is the link destination the diagnostic is about, as written.
	Target string
}

// HasPosition reports whether the diagnostic is anchored to a source location.
func (d *Diagnostic) HasPosition() bool {
	return d.StartLine > 0
}

// SourcePosition returns the diagnostic position as a SourcePosition.
func (d *Diagnostic) SourcePosition() mdast.SourcePosition {
	return mdast.SourcePosition{
		StartLine:   d.StartLine,
		StartColumn: d.StartColumn,
		EndLine:     d.EndLine,
		EndColumn:   d.EndColumn,
	}
}

// Rule defines the interface that all rules must implement.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "missing-file").
	ID() string

	// Name returns the human-readable name of the rule.
	Name() string

	// Description returns a detailed description of what the rule checks.
	Description() string

	// DefaultEnabled returns whether the rule is enabled by default.
	DefaultEnabled() bool

	// DefaultSeverity returns the default severity for this rule.
	DefaultSeverity() config.Severity

	// Tags returns categorization tags for this rule (e.g., ["links"]).
	Tags() []string

	// Apply executes the rule against the given context and returns diagnostics.
	//
	// Rules must respect context cancellation and return an error only for
	// internal failures, not violations.
	Apply(ctx *RuleContext) ([]Diagnostic, error)
}
