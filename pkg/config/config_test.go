package config_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/relinkcheck/pkg/config"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, config.FlavorGFM, cfg.Flavor)
	assert.Equal(t, "error", cfg.SeverityDefault)
	assert.Equal(t, []string{".md", ".markdown", ".mdx"}, cfg.Extensions)
	assert.True(t, cfg.FollowSymlinks)
	assert.Equal(t, config.FormatText, cfg.Format)
	assert.NotNil(t, cfg.Rules)
}

func TestEnumValidity(t *testing.T) {
	t.Parallel()

	assert.True(t, config.SeverityWarning.IsValid())
	assert.False(t, config.Severity("fatal").IsValid())
	assert.True(t, config.FormatSARIF.IsValid())
	assert.False(t, config.OutputFormat("diff").IsValid())
	assert.True(t, config.FlavorCommonMark.IsValid())
	assert.False(t, config.Flavor("mdx").IsValid())
}

func TestHasExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		extensions []string
		path       string
		want       bool
	}{
		{name: "default md", path: "docs/readme.md", want: true},
		{name: "default mdx", path: "page.mdx", want: true},
		{name: "case insensitive", path: "README.MD", want: true},
		{name: "not markdown", path: "main.go", want: false},
		{name: "no extension", path: "LICENSE", want: false},
		{name: "custom list", extensions: []string{".txt"}, path: "notes.txt", want: true},
		{name: "custom list excludes md", extensions: []string{".txt"}, path: "readme.md", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := &config.Config{Extensions: tt.extensions}
			assert.Equal(t, tt.want, cfg.HasExtension(tt.path))
		})
	}
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	t.Run("minimal template parses", func(t *testing.T) {
		t.Parallel()
		content, err := config.GenerateTemplate(config.TemplateOptions{})
		require.NoError(t, err)
		assert.Contains(t, string(content), "# relinkcheck configuration")

		cfg, err := config.FromYAML(content)
		require.NoError(t, err)
		assert.Equal(t, config.FlavorGFM, cfg.Flavor)
	})

	t.Run("full template lists rules", func(t *testing.T) {
		t.Parallel()
		content, err := config.GenerateTemplate(config.TemplateOptions{Full: true})
		require.NoError(t, err)

		cfg, err := config.FromYAML(content)
		require.NoError(t, err)
		assert.Contains(t, cfg.Rules, "missing-file")
		assert.Contains(t, cfg.Rules, "missing-heading")
		assert.Contains(t, string(content), "Tags: links")
	})

	t.Run("include filter", func(t *testing.T) {
		t.Parallel()
		content, err := config.GenerateTemplate(config.TemplateOptions{
			Full:         true,
			IncludeRules: []string{"missing-file"},
		})
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, yaml.Unmarshal(content, &raw))
		rules, ok := raw["rules"].(map[string]any)
		require.True(t, ok)
		assert.Len(t, rules, 1)
		assert.Contains(t, rules, "missing-file")
	})

	t.Run("json output", func(t *testing.T) {
		t.Parallel()
		content, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(content, &raw))
		assert.Equal(t, "gfm", raw["flavor"])
	})
}
