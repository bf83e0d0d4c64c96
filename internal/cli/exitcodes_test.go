package cli_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/relinkcheck/internal/cli"
	"github.com/yaklabco/relinkcheck/internal/configloader"
	"github.com/yaklabco/relinkcheck/pkg/config"
	"github.com/yaklabco/relinkcheck/pkg/fsutil"
	"github.com/yaklabco/relinkcheck/pkg/runner"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitSuccess},
		{"issues", cli.ErrLintIssuesFound, cli.ExitLintErrors},
		{"strict warnings", cli.ErrLintWarningsFound, cli.ExitLintWarnings},
		{"usage", fmt.Errorf("%w: bad flag", cli.ErrInvalidUsage), cli.ExitInvalidUsage},
		{"config", fmt.Errorf("%w: flavor", configloader.ErrInvalidConfig), cli.ExitConfigError},
		{
			"config wins over io",
			fmt.Errorf("%w: read: %w", configloader.ErrInvalidConfig, fs.ErrNotExist),
			cli.ExitConfigError,
		},
		{"missing path", fmt.Errorf("stat docs: %w", fs.ErrNotExist), cli.ExitIOError},
		{"unreadable", fmt.Errorf("%w: a.md", fsutil.ErrPermissionDenied), cli.ExitIOError},
		{"other", errors.New("boom"), cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	withCounts := func(errs, warnings int) *runner.Result {
		return &runner.Result{Stats: runner.Stats{
			DiagnosticsTotal: errs + warnings,
			DiagnosticsBySeverity: map[config.Severity]int{
				config.SeverityError:   errs,
				config.SeverityWarning: warnings,
			},
		}}
	}

	tests := []struct {
		name   string
		result *runner.Result
		strict bool
		want   int
	}{
		{"nil result", nil, true, cli.ExitSuccess},
		{"clean", withCounts(0, 0), true, cli.ExitSuccess},
		{"errors", withCounts(2, 0), false, cli.ExitLintErrors},
		{"errors beat strict warnings", withCounts(1, 3), true, cli.ExitLintErrors},
		{"warnings lenient", withCounts(0, 1), false, cli.ExitSuccess},
		{"warnings strict", withCounts(0, 1), true, cli.ExitLintWarnings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCodeFromResult(tt.result, tt.strict))
		})
	}
}

func TestIsReportedFailure(t *testing.T) {
	t.Parallel()

	assert.True(t, cli.IsReportedFailure(cli.ErrLintIssuesFound))
	assert.True(t, cli.IsReportedFailure(fmt.Errorf("wrapped: %w", cli.ErrLintWarningsFound)))
	assert.False(t, cli.IsReportedFailure(configloader.ErrInvalidConfig))
	assert.False(t, cli.IsReportedFailure(nil))
}
