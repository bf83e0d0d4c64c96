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

// SARIF version used by this reporter.
const sarifVersion = "2.1.0"

// SARIF schema URI.
const sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

const (
	toolName           = "relinkcheck"
	toolInformationURI = "https://github.com/yaklabco/relinkcheck"
)

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool        SARIFTool         `json:"tool"`
	Results     []SARIFResult     `json:"results"`
	Invocations []SARIFInvocation `json:"invocations,omitempty"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and rules.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes a rule.
type SARIFRule struct {
	ID               string               `json:"id"`
	Name             string               `json:"name,omitempty"`
	ShortDescription SARIFMultiformatText `json:"shortDescription"`
	DefaultConfig    *SARIFRuleConfig     `json:"defaultConfiguration,omitempty"`
	Properties       map[string]any       `json:"properties,omitempty"`
}

// SARIFMultiformatText contains text in multiple formats.
type SARIFMultiformatText struct {
	Text string `json:"text"`
}

// SARIFRuleConfig contains rule configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFResult represents a single diagnostic result.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFMessage contains the result message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation contains file path and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           *SARIFRegion          `json:"region,omitempty"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion describes the affected text region.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// SARIFInvocation records files that could not be analysed.
type SARIFInvocation struct {
	ExecutionSuccessful        bool                `json:"executionSuccessful"`
	ToolExecutionNotifications []SARIFNotification `json:"toolExecutionNotifications,omitempty"`
}

// SARIFNotification is a tool-level message tied to a file.
type SARIFNotification struct {
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations,omitempty"`
}

// SARIFReporter formats results as SARIF.
type SARIFReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
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
		return 0, fmt.Errorf("encode SARIF: %w", err)
	}

	return len(output.Runs[0].Results), nil
}

func (r *SARIFReporter) buildOutput(result *runner.Result) *SARIFOutput {
	run := SARIFRun{
		Tool: SARIFTool{
			Driver: SARIFDriver{
				Name:           toolName,
				Version:        r.opts.ToolVersion,
				InformationURI: toolInformationURI,
				Rules:          make([]SARIFRule, 0, len(r.opts.Rules)),
			},
		},
		Results: make([]SARIFResult, 0),
	}

	ruleIndex := make(map[string]int)
	for _, info := range r.opts.Rules {
		ruleIndex[info.ID] = len(run.Tool.Driver.Rules)
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRuleFromInfo(info))
	}

	var notifications []SARIFNotification

	if result != nil {
		for _, file := range result.Files {
			uri := r.opts.displayPath(file.Path)

			if file.Error != nil {
				notifications = append(notifications, SARIFNotification{
					Level:     "error",
					Message:   SARIFMessage{Text: file.Error.Error()},
					Locations: []SARIFLocation{{PhysicalLocation: SARIFPhysicalLocation{ArtifactLocation: SARIFArtifactLocation{URI: uri}}}},
				})
				continue
			}
			if file.Result == nil || file.Result.FileResult == nil {
				continue
			}

			for _, diag := range file.Result.Diagnostics {
				idx, ok := ruleIndex[diag.RuleID]
				if !ok {
					idx = len(run.Tool.Driver.Rules)
					ruleIndex[diag.RuleID] = idx
					run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRuleFromDiagnostic(diag))
				}
				run.Results = append(run.Results, sarifResult(diag, idx, uri))
			}
		}
	}

	if len(notifications) > 0 {
		run.Invocations = []SARIFInvocation{{
			ExecutionSuccessful:        false,
			ToolExecutionNotifications: notifications,
		}}
	}

	return &SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs:    []SARIFRun{run},
	}
}

func sarifRuleFromInfo(info config.RuleInfo) SARIFRule {
	rule := SARIFRule{
		ID:               info.ID,
		Name:             info.Name,
		ShortDescription: SARIFMultiformatText{Text: info.Description},
		DefaultConfig:    &SARIFRuleConfig{Level: severityToSARIFLevel(info.Severity)},
	}
	if len(info.Tags) > 0 {
		rule.Properties = map[string]any{"tags": info.Tags}
	}
	return rule
}

func sarifRuleFromDiagnostic(diag lint.Diagnostic) SARIFRule {
	return SARIFRule{
		ID:               diag.RuleID,
		Name:             diag.RuleName,
		ShortDescription: SARIFMultiformatText{Text: diag.Message},
		DefaultConfig:    &SARIFRuleConfig{Level: severityToSARIFLevel(diag.Severity)},
	}
}

func sarifResult(diag lint.Diagnostic, ruleIndex int, uri string) SARIFResult {
	message := diag.Message
	if diag.Suggestion != "" {
		message += " " + diag.Suggestion
	}

	location := SARIFPhysicalLocation{ArtifactLocation: SARIFArtifactLocation{URI: uri}}
	if diag.HasPosition() {
		location.Region = &SARIFRegion{
			StartLine:   diag.StartLine,
			StartColumn: diag.StartColumn,
			EndLine:     diag.EndLine,
			EndColumn:   diag.EndColumn,
		}
	}

	return SARIFResult{
		RuleID:    diag.RuleID,
		RuleIndex: ruleIndex,
		Level:     severityToSARIFLevel(diag.Severity),
		Message:   SARIFMessage{Text: message},
		Locations: []SARIFLocation{{PhysicalLocation: location}},
	}
}

// severityToSARIFLevel converts a relinkcheck severity to a SARIF level.
func severityToSARIFLevel(severity config.Severity) string {
	switch severity {
	case config.SeverityError:
		return "error"
	case config.SeverityInfo:
		return "note"
	default:
		return "warning"
	}
}
