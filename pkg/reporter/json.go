package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/relinkcheck/pkg/config"
	"github.com/yaklabco/relinkcheck/pkg/lint"
	"github.com/yaklabco/relinkcheck/pkg/runner"
)

// jsonSchemaVersion versions the JSON document layout.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version     string           `json:"version"`
	ToolVersion string           `json:"toolVersion"`
	Files       []JSONFileResult `json:"files"`
	Summary     JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string            `json:"path"`
	Diagnostics []JSONDiagnostic  `json:"diagnostics"`
	RuleErrors  map[string]string `json:"ruleErrors,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// JSONDiagnostic represents a single diagnostic.
type JSONDiagnostic struct {
	Source      string `json:"source"`
	RuleID      string `json:"ruleId"`
	RuleName    string `json:"ruleName"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
	Suggestion  string `json:"suggestion,omitempty"`
	Target      string `json:"target,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked    int            `json:"filesChecked"`
	FilesWithIssues int            `json:"filesWithIssues"`
	FilesErrored    int            `json:"filesErrored"`
	TotalIssues     int            `json:"totalIssues"`
	BySeverity      map[string]int `json:"bySeverity"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	encoder.SetEscapeHTML(false)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalIssues, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version:     jsonSchemaVersion,
		ToolVersion: r.opts.ToolVersion,
		Files:       make([]JSONFileResult, 0),
		Summary:     JSONSummary{BySeverity: make(map[string]int)},
	}

	if result == nil {
		return output
	}

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:        r.opts.displayPath(file.Path),
			Diagnostics: make([]JSONDiagnostic, 0),
		}

		switch {
		case file.Error != nil:
			fileResult.Error = file.Error.Error()
			output.Summary.FilesErrored++
		case file.Result != nil && file.Result.FileResult != nil:
			for _, diag := range file.Result.Diagnostics {
				fileResult.Diagnostics = append(fileResult.Diagnostics, toJSONDiagnostic(diag))
				output.Summary.BySeverity[severityKey(diag.Severity)]++
			}
			fileResult.RuleErrors = ruleErrorStrings(file.Result.RuleErrors)
			output.Summary.FilesChecked++
		}

		output.Summary.TotalIssues += len(fileResult.Diagnostics)
		if len(fileResult.Diagnostics) > 0 {
			output.Summary.FilesWithIssues++
		}

		output.Files = append(output.Files, fileResult)
	}

	return output
}

func toJSONDiagnostic(diag lint.Diagnostic) JSONDiagnostic {
	return JSONDiagnostic{
		Source:      diag.Source,
		RuleID:      diag.RuleID,
		RuleName:    diag.RuleName,
		Severity:    severityKey(diag.Severity),
		Message:     diag.Message,
		StartLine:   diag.StartLine,
		StartColumn: diag.StartColumn,
		EndLine:     diag.EndLine,
		EndColumn:   diag.EndColumn,
		Suggestion:  diag.Suggestion,
		Target:      diag.Target,
	}
}

func ruleErrorStrings(errs map[string]error) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string]string, len(errs))
	for id, err := range errs {
		out[id] = err.Error()
	}
	return out
}

// severityKey maps an unset severity to warning.
func severityKey(sev config.Severity) string {
	if sev == "" {
		return string(config.SeverityWarning)
	}
	return string(sev)
}
