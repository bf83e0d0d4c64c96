package lint

import (
	"github.com/yaklabco/relinkcheck/pkg/config"
	"github.com/yaklabco/relinkcheck/pkg/mdast"
)

// DiagnosticBuilder helps construct Diagnostic values.
type DiagnosticBuilder struct {
	diag Diagnostic
}

// NewDiagnostic starts building a diagnostic anchored to node.
// A nil node or one without a known range yields a file-level diagnostic.
func NewDiagnostic(ruleID string, node *mdast.Node, message string) *DiagnosticBuilder {
	var filePath string
	var pos mdast.SourcePosition

	if node != nil {
		pos = node.SourcePosition()
		if node.File != nil {
			filePath = node.File.Path
		}
	}

	return NewDiagnosticAt(ruleID, filePath, pos, message)
}

// NewDiagnosticAt starts building a diagnostic at a specific position.
func NewDiagnosticAt(
	ruleID string,
	filePath string,
	pos mdast.SourcePosition,
	message string,
) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		diag: Diagnostic{
			RuleID:      ruleID,
			Message:     message,
			FilePath:    filePath,
			StartLine:   pos.StartLine,
			StartColumn: pos.StartColumn,
			EndLine:     pos.EndLine,
			EndColumn:   pos.EndColumn,
		},
	}
}

// WithSource sets the name of the producing tool.
func (b *DiagnosticBuilder) WithSource(source string) *DiagnosticBuilder {
	b.diag.Source = source
	return b
}

// WithRuleName sets the human-readable rule name.
func (b *DiagnosticBuilder) WithRuleName(name string) *DiagnosticBuilder {
	b.diag.RuleName = name
	return b
}

// WithSeverity sets the severity.
func (b *DiagnosticBuilder) WithSeverity(s config.Severity) *DiagnosticBuilder {
	b.diag.Severity = s
	return b
}

// WithSuggestion sets a human-readable hint.
func (b *DiagnosticBuilder) WithSuggestion(s string) *DiagnosticBuilder {
	b.diag.Suggestion = s
	return b
}

// WithTarget records the link destination the diagnostic is about.
func (b *DiagnosticBuilder) WithTarget(target string) *DiagnosticBuilder {
	b.diag.Target = target
	return b
}

// Build returns the constructed Diagnostic.
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.diag
}
