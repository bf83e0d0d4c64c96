package reporter

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/relinkcheck/internal/ui/pretty"
	"github.com/yaklabco/relinkcheck/pkg/config"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized text output: "auto", "always" or "never".
	Color string

	// ShowContext prints the offending source line under each diagnostic.
	ShowContext bool

	// ShowSummary appends the one-line run summary to text output.
	ShowSummary bool

	// GroupByFile prints a header per file instead of a flat list.
	GroupByFile bool

	// Compact minifies JSON and SARIF output.
	Compact bool

	// WorkingDir is the directory paths are shown relative to.
	// If empty, paths are kept as-is.
	WorkingDir string

	// ToolVersion is recorded in machine-readable output.
	ToolVersion string

	// Rules describes the known rules for SARIF driver metadata.
	// Rules seen only in diagnostics are described by their first message.
	Rules []config.RuleInfo
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       pretty.ColorAuto,
		ShowContext: true,
		ShowSummary: true,
		GroupByFile: true,
		ToolVersion: "dev",
	}
}

// displayPath makes path relative to the working directory when it lives
// beneath it, using forward slashes.
func (o Options) displayPath(path string) string {
	if o.WorkingDir == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(o.WorkingDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
