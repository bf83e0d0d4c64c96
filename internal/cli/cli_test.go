package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/relinkcheck/internal/cli"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "1.2.3",
		Commit:  "abc123",
		Date:    "2024-01-01",
	}
}

// execute runs the root command with args and returns captured stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	require.NotNil(t, cmd)
	assert.Equal(t, "relinkcheck", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"check", "rules", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		require.NoError(t, err, "subcommand %q", name)
		assert.Equal(t, name, subCmd.Name())
	}
}

func TestCheckCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	checkCmd, _, err := cmd.Find([]string{"check"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		defValue string
	}{
		{"format", "text"},
		{"flavor", "gfm"},
		{"ignore", "[]"},
		{"enable", "[]"},
		{"disable", "[]"},
		{"jobs", "0"},
		{"strict", "false"},
		{"no-context", "false"},
		{"compact", "false"},
		{"watch", "false"},
	}

	for _, tt := range tests {
		flag := checkCmd.Flags().Lookup(tt.name)
		if assert.NotNil(t, flag, "flag %q", tt.name) {
			assert.Equal(t, tt.defValue, flag.DefValue, "flag %q", tt.name)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "global flag %q", name)
	}
}

func TestCheckCommandAcceptsArbitraryArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	checkCmd, _, err := cmd.Find([]string{"check"})
	require.NoError(t, err)

	assert.NoError(t, checkCmd.Args(checkCmd, []string{"file1.md", "file2.md", "docs/"}))
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "relinkcheck")
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "abc123")
	assert.Contains(t, out, "2024-01-01")
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "relinkcheck [command]")
	assert.Contains(t, out, "Commands:")
	assert.Contains(t, out, "check")
	assert.Contains(t, out, "Global Flags:")
}

func TestHelpOutput_Subcommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "check", "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "Check that relative links resolve")
	assert.Contains(t, out, "Examples:")
	assert.Contains(t, out, "-w, --watch")
	assert.Contains(t, out, `--format string`)
	assert.Contains(t, out, `(default "text")`)
	assert.Contains(t, out, "--color string")
}

func TestInvalidColorMode(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "version", "--color", "sometimes")

	require.ErrorIs(t, err, cli.ErrInvalidUsage)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestUnknownFlag(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "check", "--no-such-flag")

	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}
