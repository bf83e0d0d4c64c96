package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/relinkcheck/pkg/config"
	"github.com/yaklabco/relinkcheck/pkg/lint"
)

// contextIndent aligns source context under the diagnostic line.
const contextIndent = "        "

// FormatDiagnostic formats a single diagnostic for terminal output:
//
//	docs/a.md:3:5  error  Cannot find file `b.md`  (missing-file)
func (s *Styles) FormatDiagnostic(diag *lint.Diagnostic, showContext bool, sourceLine string) string {
	var builder strings.Builder

	location := s.FilePath.Render(diag.FilePath)
	if diag.HasPosition() {
		location += s.Location.Render(fmt.Sprintf(":%d:%d", diag.StartLine, diag.StartColumn))
	}

	fmt.Fprintf(&builder, "  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
		s.RuleID.Render("("+diag.RuleID+")"),
	)

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, diag.StartColumn, span(diag)))
	}

	if diag.Suggestion != "" {
		builder.WriteString("    " + s.Dim.Render("Suggestion:") + " " +
			s.Suggestion.Render(diag.Suggestion) + "\n")
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	if !sev.IsValid() {
		return string(sev)
	}
	return s.ForSeverity(sev).Render(string(sev))
}

// FormatSourceContext formats the source line with a caret marker under
// column. A width above one extends the marker with tildes.
func (s *Styles) FormatSourceContext(line string, column, width int) string {
	var builder strings.Builder

	line = strings.TrimRight(line, "\r\n")
	builder.WriteString(contextIndent + s.SourceLine.Render(expandTabs(line)) + "\n")

	if column > 0 {
		marker := "^"
		if width > 1 {
			marker += strings.Repeat("~", width-1)
		}
		padding := contextIndent + strings.Repeat(" ", displayColumn(line, column)-1)
		builder.WriteString(padding + s.Caret.Render(marker) + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case issueCount == 1:
		header += s.Dim.Render(" (1 issue)")
	case issueCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}

// span is the marker width for single-line diagnostics, zero otherwise.
func span(diag *lint.Diagnostic) int {
	if diag.EndLine != diag.StartLine || diag.EndColumn <= diag.StartColumn {
		return 0
	}
	return diag.EndColumn - diag.StartColumn
}

// displayColumn maps a 1-based byte column onto the rendered line, where
// tabs become single spaces and multi-byte runes occupy one cell.
func displayColumn(line string, column int) int {
	if column-1 > len(line) {
		column = len(line) + 1
	}
	return len([]rune(line[:column-1])) + 1
}

func expandTabs(line string) string {
	return strings.ReplaceAll(line, "\t", " ")
}
