package runner

import (
	"github.com/yaklabco/relinkcheck/pkg/config"
	"github.com/yaklabco/relinkcheck/pkg/lint"
)

// FileOutcome is the result of processing one discovered file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result contains the pipeline result for this file.
	// Nil if the file could not be processed.
	Result *lint.PipelineResult

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesErrored    int
	FilesWithIssues int

	DiagnosticsTotal      int
	DiagnosticsBySeverity map[config.Severity]int

	// RuleErrors counts rule failures across all files.
	RuleErrors int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file, ordered by path.
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasErrors reports whether any diagnostic has error severity.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.DiagnosticsBySeverity[config.SeverityError] > 0
}

// HasWarnings reports whether any diagnostic has warning severity.
func (r *Result) HasWarnings() bool {
	return r != nil && r.Stats.DiagnosticsBySeverity[config.SeverityWarning] > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	return r != nil && r.Stats.DiagnosticsTotal > 0
}

// Diagnostics returns every diagnostic of the run in file order.
func (r *Result) Diagnostics() []lint.Diagnostic {
	if r == nil {
		return nil
	}
	var out []lint.Diagnostic
	for _, f := range r.Files {
		if f.Result != nil && f.Result.FileResult != nil {
			out = append(out, f.Result.Diagnostics...)
		}
	}
	return out
}

func newStats() Stats {
	return Stats{DiagnosticsBySeverity: make(map[config.Severity]int)}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil || outcome.Result.FileResult == nil {
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.RuleErrors += len(outcome.Result.RuleErrors)

	diags := outcome.Result.Diagnostics
	r.Stats.DiagnosticsTotal += len(diags)
	if len(diags) > 0 {
		r.Stats.FilesWithIssues++
	}
	for _, diag := range diags {
		r.Stats.DiagnosticsBySeverity[diag.Severity]++
	}
}
