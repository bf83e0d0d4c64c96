package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/relinkcheck/internal/ui/pretty"
	"github.com/yaklabco/relinkcheck/pkg/analysis"
	"github.com/yaklabco/relinkcheck/pkg/runner"
)

// Table layout for summary output. All tables share one width.
const (
	tableWidth        = 90
	ruleColWidth      = 30
	fileColWidth      = 60
	targetColWidth    = 50
	targetRuleWidth   = 17
	numColWidth       = 7
	warnColWidth      = 8
	maxRuleNameLength = 28
	maxFilePathLength = 58
	maxTargetLength   = 48
)

// padRight pads s with spaces to width display cells.
// Pad before styling: ANSI sequences would count toward the width.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// padLeft pads s on the left to width display cells.
func padLeft(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}

// truncateEnd keeps the first limit runes of s, marking the cut with an ellipsis.
func truncateEnd(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}

// truncateStart keeps the last limit runes of s. Paths keep their file name.
func truncateStart(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return "…" + string(runes[len(runes)-(limit-1):])
}

// SummaryReporter formats results as aggregated tables: broken links per
// rule, per file and per missing destination.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("report cancelled: %w", err)
	}

	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	opts := analysis.DefaultOptions()
	opts.WorkingDir = r.opts.WorkingDir
	report := analysis.Analyze(result, opts)

	r.Render(report)
	return report.Totals.Issues, nil
}

// Render writes the tables for a precomputed report.
func (r *SummaryReporter) Render(report *analysis.Report) {
	if !report.Totals.HasIssues() {
		fmt.Fprintln(r.bw, r.styles.Success.Render("No broken links found")+
			r.styles.Dim.Render(fmt.Sprintf(" (%s checked)",
				plural(report.Totals.Files-report.Totals.FilesErrored, "file", "files"))))
		if report.Totals.FilesErrored > 0 {
			fmt.Fprintln(r.bw, r.styles.Failure.Render(
				plural(report.Totals.FilesErrored, "file", "files")+" unreadable"))
		}
		return
	}

	r.renderRuleTable(report.ByRule)
	fmt.Fprintln(r.bw)
	r.renderFileTable(report.ByFile)
	fmt.Fprintln(r.bw)
	r.renderTargetTable(report.ByTarget)
	fmt.Fprintln(r.bw)
	r.renderTotals(report.Totals)
}

func (r *SummaryReporter) separator() {
	fmt.Fprintln(r.bw, r.styles.Dim.Render(strings.Repeat("─", tableWidth)))
}

func (r *SummaryReporter) header(cells ...string) {
	styled := make([]string, len(cells))
	for i, cell := range cells {
		styled[i] = r.styles.Bold.Render(cell)
	}
	fmt.Fprintln(r.bw, strings.Join(styled, " "))
}

// rowStyle colors a padded cell by the worst severity it carries.
func (r *SummaryReporter) rowStyle(padded string, errors, warnings int) string {
	switch {
	case errors > 0:
		return r.styles.Error.Render(padded)
	case warnings > 0:
		return r.styles.Warning.Render(padded)
	default:
		return padded
	}
}

func (r *SummaryReporter) renderRuleTable(rules []analysis.RuleAnalysis) {
	if len(rules) == 0 {
		return
	}

	fmt.Fprintln(r.bw, r.styles.SummaryTitle.Render("Rules Summary"))
	r.separator()
	r.header(
		padRight("Rule", ruleColWidth),
		padLeft("Count", numColWidth),
		padLeft("Errors", numColWidth),
		padLeft("Warnings", warnColWidth),
	)
	r.separator()

	for _, rule := range rules {
		name := rule.RuleID
		if name == "" {
			name = rule.RuleName
		}
		name = truncateEnd(name, maxRuleNameLength)

		fmt.Fprintf(r.bw, "%s %s %s %s\n",
			r.rowStyle(padRight(name, ruleColWidth), rule.Errors, rule.Warnings),
			padLeft(strconv.Itoa(rule.Issues), numColWidth),
			padLeft(strconv.Itoa(rule.Errors), numColWidth),
			padLeft(strconv.Itoa(rule.Warnings), warnColWidth),
		)
	}
}

func (r *SummaryReporter) renderFileTable(files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}

	fmt.Fprintln(r.bw, r.styles.SummaryTitle.Render("Files Summary"))
	r.separator()
	r.header(
		padRight("File", fileColWidth),
		padLeft("Count", numColWidth),
		padLeft("Errors", numColWidth),
		padLeft("Warnings", warnColWidth),
	)
	r.separator()

	for _, file := range files {
		path := truncateStart(file.Path, maxFilePathLength)

		fmt.Fprintf(r.bw, "%s %s %s %s\n",
			r.rowStyle(padRight(path, fileColWidth), file.Errors, file.Warnings),
			padLeft(strconv.Itoa(file.Issues), numColWidth),
			padLeft(strconv.Itoa(file.Errors), numColWidth),
			padLeft(strconv.Itoa(file.Warnings), warnColWidth),
		)
	}
}

func (r *SummaryReporter) renderTargetTable(targets []analysis.TargetAnalysis) {
	if len(targets) == 0 {
		return
	}

	fmt.Fprintln(r.bw, r.styles.SummaryTitle.Render("Broken Targets"))
	r.separator()
	r.header(
		padRight("Target", targetColWidth),
		padRight("Rule", targetRuleWidth),
		padLeft("Refs", numColWidth),
		padLeft("Files", numColWidth),
	)
	r.separator()

	for _, target := range targets {
		name := truncateStart(target.Target, maxTargetLength)

		fmt.Fprintf(r.bw, "%s %s %s %s\n",
			r.rowStyle(padRight(name, targetColWidth), target.Errors, target.Warnings),
			r.styles.RuleID.Render(padRight(target.RuleID, targetRuleWidth)),
			padLeft(strconv.Itoa(target.References), numColWidth),
			padLeft(strconv.Itoa(len(target.Files)), numColWidth),
		)
	}
}

func (r *SummaryReporter) renderTotals(totals analysis.Totals) {
	main := plural(totals.Issues, "issue", "issues")

	var severityParts []string
	if totals.Errors > 0 {
		severityParts = append(severityParts, r.styles.Error.Render(plural(totals.Errors, "error", "errors")))
	}
	if totals.Warnings > 0 {
		severityParts = append(severityParts, r.styles.Warning.Render(plural(totals.Warnings, "warning", "warnings")))
	}
	if len(severityParts) > 0 {
		main += " (" + strings.Join(severityParts, ", ") + ")"
	}

	parts := []string{main, "in " + plural(totals.FilesWithIssues, "file", "files")}
	line := strings.Join(parts, " ")
	if totals.FilesErrored > 0 {
		line += ", " + r.styles.Failure.Render(plural(totals.FilesErrored, "file", "files")+" unreadable")
	}

	fmt.Fprintln(r.bw, r.styles.Bold.Render("Total: ")+line)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
