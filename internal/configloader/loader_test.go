package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/relinkcheck/pkg/config"
	"github.com/yaklabco/relinkcheck/pkg/lint"
	"github.com/yaklabco/relinkcheck/pkg/lint/rules"
)

func testRegistry() *lint.Registry {
	registry := lint.NewRegistry()
	rules.RegisterAll(registry)
	return registry
}

// projectDir creates a temp directory that acts as a VCS root so the upward
// config search never leaves it.
func projectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
		Registry:           testRegistry(),
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(projectDir(t)))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, config.FlavorGFM, result.Config.Flavor)
	assert.Equal(t, "error", result.Config.SeverityDefault)
	assert.True(t, result.Config.FollowSymlinks)
	assert.Equal(t, config.DefaultIgnore(), result.Config.Ignore)
	assert.Equal(t, config.DefaultExtensions(), result.Config.Extensions)
	assert.Empty(t, result.LoadedFrom)
	assert.Empty(t, result.Warnings)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	configPath := filepath.Join(dir, ".relinkcheck.yml")
	writeFile(t, configPath, `
flavor: commonmark
follow_symlinks: false
ignore:
  - "drafts/**"
rules:
  file-reference:
    enabled: false
  missing-heading:
    severity: warning
`)

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, config.FlavorCommonMark, cfg.Flavor)
	assert.False(t, cfg.FollowSymlinks)
	assert.Equal(t, []string{"drafts/**"}, cfg.Ignore)
	assert.Equal(t, config.DefaultExtensions(), cfg.Extensions)

	require.Contains(t, cfg.Rules, "missing-file")
	assert.NotContains(t, cfg.Rules, "file-reference")
	require.NotNil(t, cfg.Rules["missing-file"].Enabled)
	assert.False(t, *cfg.Rules["missing-file"].Enabled)
	require.NotNil(t, cfg.Rules["missing-heading"].Severity)
	assert.Equal(t, "warning", *cfg.Rules["missing-heading"].Severity)

	assert.Equal(t, []string{configPath}, result.LoadedFrom)
	assert.Equal(t, configPath, result.Paths.Project)
}

func TestLoad_ProjectConfigFoundFromSubdirectory(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	configPath := filepath.Join(dir, ".relinkcheck.yaml")
	writeFile(t, configPath, "severity_default: info\n")
	sub := filepath.Join(dir, "docs", "guide")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	result, err := Load(context.Background(), isolated(sub))
	require.NoError(t, err)

	assert.Equal(t, "info", result.Config.SeverityDefault)
	assert.Equal(t, []string{configPath}, result.LoadedFrom)
}

func TestLoad_EmptyConfigKeepsDefaults(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".relinkcheck.yml"), "# nothing configured yet\n")

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)

	assert.True(t, result.Config.FollowSymlinks)
	assert.Equal(t, config.FlavorGFM, result.Config.Flavor)
	assert.Len(t, result.LoadedFrom, 1)
}

func TestLoad_ExplicitConfigOverridesProject(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	projectPath := filepath.Join(dir, ".relinkcheck.yml")
	writeFile(t, projectPath, `
severity_default: warning
extensions: [".md"]
rules:
  missing-file:
    severity: info
`)
	explicitPath := filepath.Join(dir, "ci", "strict.yml")
	writeFile(t, explicitPath, `
flavor: commonmark
rules:
  missing-file:
    enabled: false
`)

	opts := isolated(dir)
	opts.ExplicitPath = explicitPath

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, config.FlavorCommonMark, cfg.Flavor)
	assert.Equal(t, "warning", cfg.SeverityDefault)
	assert.Equal(t, []string{".md"}, cfg.Extensions)

	rule := cfg.Rules["missing-file"]
	require.NotNil(t, rule.Enabled)
	require.NotNil(t, rule.Severity)
	assert.False(t, *rule.Enabled)
	assert.Equal(t, "info", *rule.Severity)

	assert.Equal(t, []string{projectPath, explicitPath}, result.LoadedFrom)
	assert.Equal(t, explicitPath, result.Paths.Explicit)
}

func TestLoad_IgnoreProjectConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".relinkcheck.yml"), "flavor: commonmark\n")

	opts := isolated(dir)
	opts.IgnoreProjectConfig = true

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, config.FlavorGFM, result.Config.Flavor)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".relinkcheck.yml"), `
flavor: commonmark
ignore: ["a/**"]
`)

	opts := isolated(dir)
	opts.CLIConfig = &config.Config{
		Flavor:       config.FlavorGFM,
		Format:       config.FormatJSON,
		Jobs:         4,
		Strict:       true,
		Ignore:       []string{"b/**"},
		DisableRules: []string{"heading-reference"},
	}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, config.FlavorGFM, cfg.Flavor)
	assert.Equal(t, config.FormatJSON, cfg.Format)
	assert.Equal(t, 4, cfg.Jobs)
	assert.True(t, cfg.Strict)
	assert.True(t, cfg.FollowSymlinks)
	assert.Equal(t, []string{"b/**"}, cfg.Ignore)
	assert.Equal(t, []string{"heading-reference"}, cfg.DisableRules)
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{name: "bad yaml", content: "flavor: [unclosed\n", wantMsg: "parse YAML"},
		{name: "not a mapping", content: "- a\n- b\n", wantMsg: "parse YAML"},
		{name: "bad flavor", content: "flavor: markdown-it\n", wantMsg: "invalid flavor"},
		{name: "bad severity", content: "severity_default: fatal\n", wantMsg: "invalid severity"},
		{name: "bad rule severity", content: "rules:\n  missing-file:\n    severity: loud\n", wantMsg: "rules.missing-file.severity"},
		{name: "bad glob", content: "ignore: [\"docs/[\"]\n", wantMsg: "invalid glob pattern"},
		{name: "bad extension", content: "extensions: [md]\n", wantMsg: "must start with a dot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := projectDir(t)
			writeFile(t, filepath.Join(dir, ".relinkcheck.yml"), tt.content)

			result, err := Load(context.Background(), isolated(dir))
			require.Error(t, err)
			assert.Nil(t, result)
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad_MissingExplicitConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	opts := isolated(dir)
	opts.ExplicitPath = filepath.Join(dir, "nope.yml")

	_, err := Load(context.Background(), opts)

	require.ErrorIs(t, err, ErrInvalidConfig)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	configPath := filepath.Join(dir, ".relinkcheck.yml")
	writeFile(t, configPath, `
fix: true
rules:
  MD001:
    enabled: false
`)

	opts := isolated(dir)
	opts.CLIConfig = &config.Config{EnableRules: []string{"no-such-rule"}}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, result.Warnings, 3)
	assert.Contains(t, result.Warnings[0], `unknown key "fix"`)
	assert.Contains(t, result.Warnings[1], `unknown rule "MD001"`)
	assert.Contains(t, result.Warnings[2], `unknown rule "no-such-rule"`)
}

func TestLoad_NameAndIDBothConfigured(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".relinkcheck.yml"), `
rules:
  heading-reference:
    enabled: false
    severity: info
  missing-heading:
    severity: warning
`)

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)

	require.Len(t, result.Config.Rules, 1)
	rule := result.Config.Rules["missing-heading"]
	require.NotNil(t, rule.Enabled)
	require.NotNil(t, rule.Severity)
	assert.False(t, *rule.Enabled)
	assert.Equal(t, "warning", *rule.Severity)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `"missing-heading" takes precedence`)
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(projectDir(t)))

	require.ErrorIs(t, err, context.Canceled)
}

func TestLoad_Environment(t *testing.T) {
	// Not parallel: modifies the process environment.
	t.Setenv("RELINKCHECK_FLAVOR", "commonmark")
	t.Setenv("RELINKCHECK_FOLLOW_SYMLINKS", "false")
	t.Setenv("RELINKCHECK_IGNORE", " build/** , ,tmp/**")
	t.Setenv("RELINKCHECK_JOBS", "3")

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".relinkcheck.yml"), "flavor: gfm\nfollow_symlinks: true\n")

	opts := isolated(dir)
	opts.IgnoreEnv = false

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, config.FlavorCommonMark, result.Config.Flavor)
	assert.False(t, result.Config.FollowSymlinks)
	assert.Equal(t, []string{"build/**", "tmp/**"}, result.Config.Ignore)
	assert.Equal(t, 3, result.Config.Jobs)
}

func TestLoad_EnvironmentInvalid(t *testing.T) {
	t.Setenv("RELINKCHECK_STRICT", "sometimes")

	opts := isolated(projectDir(t))
	opts.IgnoreEnv = false

	_, err := Load(context.Background(), opts)

	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "RELINKCHECK_STRICT")
}
