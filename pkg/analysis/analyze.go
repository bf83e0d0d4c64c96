package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/relinkcheck/pkg/lint"
	"github.com/yaklabco/relinkcheck/pkg/relinks"
	"github.com/yaklabco/relinkcheck/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// Severity string constants for internal use.
const (
	severityError   = "error"
	severityWarning = "warning"
	severityInfo    = "info"
)

// makeRelativePath converts an absolute path to a slash-separated path
// relative to workDir. Paths outside workDir are kept as-is.
func makeRelativePath(absPath, workDir string) string {
	if workDir == "" || !filepath.IsAbs(absPath) {
		return filepath.ToSlash(absPath)
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(absPath)
	}
	return filepath.ToSlash(relPath)
}

// targetKey identifies a missing destination: the resolved path plus the
// rule that flagged it.
type targetKey struct {
	target string
	ruleID string
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	ruleMap     map[string]*RuleAnalysis
	fileMap     map[string]*FileAnalysis
	targetMap   map[targetKey]*TargetAnalysis
	ruleFiles   map[string]map[string]bool
	fileRules   map[string]map[string]bool
	targetFiles map[targetKey]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		ruleMap:     make(map[string]*RuleAnalysis),
		fileMap:     make(map[string]*FileAnalysis),
		targetMap:   make(map[targetKey]*TargetAnalysis),
		ruleFiles:   make(map[string]map[string]bool),
		fileRules:   make(map[string]map[string]bool),
		targetFiles: make(map[targetKey]map[string]bool),
	}
}

// normalizeSeverity returns the severity string, defaulting to error.
func normalizeSeverity(sev string) string {
	if sev == "" {
		return severityError
	}
	return sev
}

func incrementSeverityCounts(severity string, totals *Totals, fa *FileAnalysis) {
	switch severity {
	case severityError:
		totals.Errors++
		fa.Errors++
	case severityWarning:
		totals.Warnings++
		fa.Warnings++
	case severityInfo:
		totals.Infos++
		fa.Infos++
	}
}

func incrementRuleSeverity(severity string, ra *RuleAnalysis) {
	switch severity {
	case severityError:
		ra.Errors++
	case severityWarning:
		ra.Warnings++
	case severityInfo:
		ra.Infos++
	}
}

func (ctx *analysisContext) getOrCreateFileAnalysis(path string) *FileAnalysis {
	if _, ok := ctx.fileMap[path]; !ok {
		ctx.fileMap[path] = &FileAnalysis{Path: path}
		ctx.fileRules[path] = make(map[string]bool)
	}
	return ctx.fileMap[path]
}

func (ctx *analysisContext) getOrCreateRuleAnalysis(ruleID, ruleName string) *RuleAnalysis {
	if _, ok := ctx.ruleMap[ruleID]; !ok {
		ctx.ruleMap[ruleID] = &RuleAnalysis{
			RuleID:   ruleID,
			RuleName: ruleName,
		}
		ctx.ruleFiles[ruleID] = make(map[string]bool)
	}
	return ctx.ruleMap[ruleID]
}

func (ctx *analysisContext) recordTarget(key targetKey, severity, displayPath string) {
	ta, ok := ctx.targetMap[key]
	if !ok {
		ta = &TargetAnalysis{Target: key.target, RuleID: key.ruleID}
		ctx.targetMap[key] = ta
		ctx.targetFiles[key] = make(map[string]bool)
	}
	ta.References++
	switch severity {
	case severityError:
		ta.Errors++
	case severityWarning:
		ta.Warnings++
	}
	ctx.targetFiles[key][displayPath] = true
}

// resolveTarget returns the destination a diagnostic points at, relative
// to workDir. Missing files drop their fragment since the whole file is
// absent. Returns "" when the diagnostic carries no destination.
func resolveTarget(diag *lint.Diagnostic, docPath, workDir string) string {
	if diag.Target == "" {
		return ""
	}
	target := relinks.Classify(diag.Target)
	switch target.Kind {
	case relinks.KindRelative, relinks.KindAnchor:
	case relinks.KindRooted, relinks.KindExternal:
		return diag.Target
	}

	resolved := makeRelativePath(target.Resolve(docPath), workDir)
	if diag.RuleID != relinks.RuleMissingFile && target.HasFragment {
		resolved += "#" + target.Fragment
	}
	return resolved
}

func (ctx *analysisContext) buildByRule(opts Options) []RuleAnalysis {
	result := make([]RuleAnalysis, 0, len(ctx.ruleMap))
	for ruleID, ra := range ctx.ruleMap {
		for f := range ctx.ruleFiles[ruleID] {
			ra.Files = append(ra.Files, f)
		}
		slices.Sort(ra.Files)
		result = append(result, *ra)
	}
	sortRuleAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

func (ctx *analysisContext) buildByFile(opts Options) []FileAnalysis {
	var result []FileAnalysis
	for path, fa := range ctx.fileMap {
		if fa.Issues == 0 {
			continue
		}
		for r := range ctx.fileRules[path] {
			fa.Rules = append(fa.Rules, r)
		}
		slices.Sort(fa.Rules)
		result = append(result, *fa)
	}
	sortFileAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

func (ctx *analysisContext) buildByTarget(opts Options) []TargetAnalysis {
	result := make([]TargetAnalysis, 0, len(ctx.targetMap))
	for key, ta := range ctx.targetMap {
		for f := range ctx.targetFiles[key] {
			ta.Files = append(ta.Files, f)
		}
		slices.Sort(ta.Files)
		result = append(result, *ta)
	}
	sortTargetAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

// Analyze transforms a runner.Result into a Report.
// It performs a single pass through diagnostics to compute all views.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{Version: ReportVersion}

	if result == nil {
		return report
	}

	ctx := newAnalysisContext()

	for _, file := range result.Files {
		report.Totals.Files++
		if file.Error != nil {
			report.Totals.FilesErrored++
			continue
		}
		if file.Result == nil || file.Result.FileResult == nil {
			continue
		}
		if len(file.Result.Diagnostics) > 0 {
			report.Totals.FilesWithIssues++
		}

		displayPath := makeRelativePath(file.Path, opts.WorkingDir)
		fa := ctx.getOrCreateFileAnalysis(displayPath)

		for i := range file.Result.Diagnostics {
			diag := &file.Result.Diagnostics[i]
			report.Totals.Issues++
			severity := normalizeSeverity(string(diag.Severity))

			incrementSeverityCounts(severity, &report.Totals, fa)
			fa.Issues++
			ctx.fileRules[displayPath][diag.RuleID] = true

			ra := ctx.getOrCreateRuleAnalysis(diag.RuleID, diag.RuleName)
			ra.Issues++
			incrementRuleSeverity(severity, ra)
			ctx.ruleFiles[diag.RuleID][displayPath] = true

			if target := resolveTarget(diag, file.Path, opts.WorkingDir); target != "" {
				ctx.recordTarget(targetKey{target: target, ruleID: diag.RuleID}, severity, displayPath)
			}
		}
	}

	if opts.IncludeByRule {
		report.ByRule = ctx.buildByRule(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = ctx.buildByFile(opts)
	}
	if opts.IncludeByTarget {
		report.ByTarget = ctx.buildByTarget(opts)
	}

	return report
}

// compareCounts orders by issues, breaking ties by name so output is stable.
func compareCounts(leftN, rightN int, leftName, rightName string, desc bool) int {
	result := cmp.Compare(leftN, rightN)
	if desc {
		result = -result
	}
	if result == 0 {
		result = cmp.Compare(leftName, rightName)
	}
	return result
}

// compareSeverity puts errors first, then warnings, then larger counts.
func compareSeverity(leftErr, rightErr, leftWarn, rightWarn, leftN, rightN int, leftName, rightName string) int {
	result := cmp.Compare(rightErr, leftErr)
	if result == 0 {
		result = cmp.Compare(rightWarn, leftWarn)
	}
	if result == 0 {
		result = cmp.Compare(rightN, leftN)
	}
	if result == 0 {
		result = cmp.Compare(leftName, rightName)
	}
	return result
}

func sortRuleAnalysis(rules []RuleAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(rules, func(left, right RuleAnalysis) int {
		switch sortBy {
		case SortByAlpha:
			return cmp.Compare(left.RuleID, right.RuleID)
		case SortBySeverity:
			return compareSeverity(left.Errors, right.Errors, left.Warnings, right.Warnings,
				left.Issues, right.Issues, left.RuleID, right.RuleID)
		default: // SortByCount
			return compareCounts(left.Issues, right.Issues, left.RuleID, right.RuleID, desc)
		}
	})
}

func sortFileAnalysis(files []FileAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(files, func(left, right FileAnalysis) int {
		switch sortBy {
		case SortByAlpha:
			return cmp.Compare(left.Path, right.Path)
		case SortBySeverity:
			return compareSeverity(left.Errors, right.Errors, left.Warnings, right.Warnings,
				left.Issues, right.Issues, left.Path, right.Path)
		default: // SortByCount
			return compareCounts(left.Issues, right.Issues, left.Path, right.Path, desc)
		}
	})
}

func sortTargetAnalysis(targets []TargetAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(targets, func(left, right TargetAnalysis) int {
		leftName := left.Target + "\x00" + left.RuleID
		rightName := right.Target + "\x00" + right.RuleID
		switch sortBy {
		case SortByAlpha:
			return cmp.Compare(leftName, rightName)
		case SortBySeverity:
			return compareSeverity(left.Errors, right.Errors, left.Warnings, right.Warnings,
				left.References, right.References, leftName, rightName)
		default: // SortByCount
			return compareCounts(left.References, right.References, leftName, rightName, desc)
		}
	})
}
