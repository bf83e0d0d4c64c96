package reporter

import (
	"bufio"
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/yaklabco/relinkcheck/internal/ui/pretty"
	"github.com/yaklabco/relinkcheck/pkg/lint"
	"github.com/yaklabco/relinkcheck/pkg/mdast"
	"github.com/yaklabco/relinkcheck/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		if err := ctx.Err(); err != nil {
			return total, fmt.Errorf("report cancelled: %w", err)
		}
		total += r.reportFile(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

// reportFile writes one file's diagnostics and returns how many it wrote.
func (r *TextReporter) reportFile(file runner.FileOutcome) int {
	path := r.opts.displayPath(file.Path)

	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
		)
		return 0
	}
	if file.Result == nil || file.Result.FileResult == nil {
		return 0
	}

	for _, ruleID := range slices.Sorted(maps.Keys(file.Result.RuleErrors)) {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Warning.Render(fmt.Sprintf("rule %s failed: %v", ruleID, file.Result.RuleErrors[ruleID])),
		)
	}

	diagnostics := file.Result.Diagnostics
	if len(diagnostics) == 0 {
		return 0
	}

	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(diagnostics)))
	}

	for _, diag := range diagnostics {
		var sourceLine string
		if r.opts.ShowContext {
			sourceLine = getSourceLine(file.Result.Snapshot, diag.StartLine)
		}
		fmt.Fprint(r.bw, r.styles.FormatDiagnostic(r.display(diag), r.opts.ShowContext, sourceLine))
	}

	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw)
	}

	return len(diagnostics)
}

func (r *TextReporter) display(diag lint.Diagnostic) *lint.Diagnostic {
	diag.FilePath = r.opts.displayPath(diag.FilePath)
	return &diag
}

// getSourceLine extracts a line from a snapshot using its line index.
func getSourceLine(snapshot *mdast.FileSnapshot, lineNum int) string {
	if snapshot == nil {
		return ""
	}
	content := snapshot.LineContent(lineNum)
	if content == nil {
		return ""
	}
	return string(content)
}
