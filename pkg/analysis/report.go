// Package analysis aggregates check results into per-rule, per-file and
// per-destination views for summary output.
package analysis

// Report contains pre-computed views of check results.
type Report struct {
	// ByFile groups diagnostics by the file containing the broken link.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// ByRule groups diagnostics by rule.
	ByRule []RuleAnalysis `json:"byRule,omitempty"`

	// ByTarget groups diagnostics by the destination that could not be found.
	ByTarget []TargetAnalysis `json:"byTarget,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files           int `json:"filesChecked"`
	FilesWithIssues int `json:"filesWithIssues"`
	FilesErrored    int `json:"filesErrored"`
	Issues          int `json:"totalIssues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Infos           int `json:"infos"`
}

// HasIssues returns true if there are any issues.
func (t Totals) HasIssues() bool {
	return t.Issues > 0
}

// HasErrors returns true if there are any errors.
func (t Totals) HasErrors() bool {
	return t.Errors > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Path     string   `json:"path"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
	Rules    []string `json:"rules,omitempty"`
}

// RuleAnalysis contains aggregated data for a single rule.
type RuleAnalysis struct {
	RuleID   string   `json:"ruleId"`
	RuleName string   `json:"ruleName"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
	Files    []string `json:"files,omitempty"`
}

// TargetAnalysis describes one missing destination and who links to it.
//
// Target is the destination resolved against the linking file, so that
// "../b.md" from docs/a.md and "b.md" from the root both read "b.md".
// Same-file anchors resolve to the linking file itself.
type TargetAnalysis struct {
	Target     string   `json:"target"`
	RuleID     string   `json:"ruleId"`
	References int      `json:"references"`
	Errors     int      `json:"errors"`
	Warnings   int      `json:"warnings"`
	Files      []string `json:"files,omitempty"`
}
