package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/relinkcheck/pkg/config"
	"github.com/yaklabco/relinkcheck/pkg/runner"
)

const summaryDividerWidth = 40

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 issues (2 errors, 1 warning) in 2 files".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	var parts []string

	if stats.DiagnosticsTotal == 0 {
		parts = append(parts, s.Success.Render("No broken links")+
			s.Dim.Render(fmt.Sprintf(" (%s checked)", plural(stats.FilesProcessed, "file", "files"))))
	} else {
		main := plural(stats.DiagnosticsTotal, "issue", "issues")
		if breakdown := s.severityBreakdown(stats); len(breakdown) > 0 {
			main += " (" + strings.Join(breakdown, ", ") + ")"
		}
		parts = append(parts, main, "in "+plural(stats.FilesWithIssues, "file", "files"))
	}

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(plural(stats.FilesErrored, "file", "files")+" unreadable"))
	}
	if stats.RuleErrors > 0 {
		parts = append(parts, s.Failure.Render(plural(stats.RuleErrors, "rule error", "rule errors")))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files checked:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")
	if stats.FilesWithIssues > 0 {
		builder.WriteString("  Files with issues: " +
			s.Failure.Render(strconv.Itoa(stats.FilesWithIssues)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files unreadable:  " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString("  Total issues:      " +
		s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)) + "\n")
	if n := stats.DiagnosticsBySeverity[config.SeverityError]; n > 0 {
		builder.WriteString("    Errors:          " + s.Error.Render(strconv.Itoa(n)) + "\n")
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityWarning]; n > 0 {
		builder.WriteString("    Warnings:        " + s.Warning.Render(strconv.Itoa(n)) + "\n")
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityInfo]; n > 0 {
		builder.WriteString("    Info:            " + s.Info.Render(strconv.Itoa(n)) + "\n")
	}
	builder.WriteString("\n")

	switch {
	case stats.DiagnosticsBySeverity[config.SeverityError] > 0:
		builder.WriteString(s.Failure.Render("Check failed with errors"))
	case stats.DiagnosticsBySeverity[config.SeverityWarning] > 0:
		builder.WriteString(s.Warning.Render("Check completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Check passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}

func (s *Styles) severityBreakdown(stats runner.Stats) []string {
	var parts []string
	if n := stats.DiagnosticsBySeverity[config.SeverityError]; n > 0 {
		parts = append(parts, s.Error.Render(plural(n, "error", "errors")))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityWarning]; n > 0 {
		parts = append(parts, s.Warning.Render(plural(n, "warning", "warnings")))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityInfo]; n > 0 {
		parts = append(parts, s.Info.Render(fmt.Sprintf("%d info", n)))
	}
	return parts
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
