package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/relinkcheck/internal/configloader"
	"github.com/yaklabco/relinkcheck/pkg/fsutil"
	"github.com/yaklabco/relinkcheck/pkg/runner"
)

// Exit codes for relinkcheck.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitLintErrors indicates the check completed but found errors.
	ExitLintErrors = 1

	// ExitLintWarnings indicates the check found warnings in strict mode.
	ExitLintWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrLintIssuesFound is returned when the check reports error diagnostics.
	ErrLintIssuesFound = errors.New("broken links found")

	// ErrLintWarningsFound is returned when strict mode fails on warnings.
	ErrLintWarningsFound = errors.New("warnings found in strict mode")

	// ErrInvalidUsage marks flag and argument errors.
	ErrInvalidUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	switch {
	case result == nil:
		return ExitSuccess
	case result.HasErrors():
		return ExitLintErrors
	case strict && result.HasWarnings():
		return ExitLintWarnings
	default:
		return ExitSuccess
	}
}

// errorForExitCode returns the sentinel error signalling code, or nil.
func errorForExitCode(code int) error {
	switch code {
	case ExitLintErrors:
		return ErrLintIssuesFound
	case ExitLintWarnings:
		return ErrLintWarningsFound
	default:
		return nil
	}
}

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrLintIssuesFound):
		return ExitLintErrors
	case errors.Is(err, ErrLintWarningsFound):
		return ExitLintWarnings
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.Is(err, configloader.ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsReportedFailure reports whether err only signals a failing exit status
// for issues that were already printed.
func IsReportedFailure(err error) bool {
	return errors.Is(err, ErrLintIssuesFound) || errors.Is(err, ErrLintWarningsFound)
}
