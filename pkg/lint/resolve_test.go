package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/relinkcheck/pkg/config"
	"github.com/yaklabco/relinkcheck/pkg/lint"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestResolveRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		cfg          *config.Config
		wantIDs      []string
		wantSeverity map[string]config.Severity
	}{
		{
			name:    "nil config keeps defaults",
			cfg:     nil,
			wantIDs: []string{"missing-file", "missing-heading"},
			wantSeverity: map[string]config.Severity{
				"missing-file":    config.SeverityError,
				"missing-heading": config.SeverityError,
			},
		},
		{
			name:    "severity_default applies to every rule",
			cfg:     &config.Config{SeverityDefault: "warning"},
			wantIDs: []string{"missing-file", "missing-heading"},
			wantSeverity: map[string]config.Severity{
				"missing-file":    config.SeverityWarning,
				"missing-heading": config.SeverityWarning,
			},
		},
		{
			name: "per-rule severity beats severity_default",
			cfg: &config.Config{
				SeverityDefault: "warning",
				Rules: map[string]config.RuleConfig{
					"missing-heading": {Severity: strPtr("info")},
				},
			},
			wantIDs: []string{"missing-file", "missing-heading"},
			wantSeverity: map[string]config.Severity{
				"missing-file":    config.SeverityWarning,
				"missing-heading": config.SeverityInfo,
			},
		},
		{
			name: "invalid severity is ignored",
			cfg: &config.Config{
				SeverityDefault: "loud",
				Rules: map[string]config.RuleConfig{
					"missing-file": {Severity: strPtr("fatal")},
				},
			},
			wantIDs: []string{"missing-file", "missing-heading"},
			wantSeverity: map[string]config.Severity{
				"missing-file": config.SeverityError,
			},
		},
		{
			name: "disable by rule name",
			cfg: &config.Config{
				Rules: map[string]config.RuleConfig{
					"heading-reference": {Enabled: boolPtr(false)},
				},
			},
			wantIDs: []string{"missing-file"},
		},
		{
			name: "ID key wins over name key",
			cfg: &config.Config{
				Rules: map[string]config.RuleConfig{
					"file-reference": {Enabled: boolPtr(false)},
					"missing-file":   {Enabled: boolPtr(true)},
				},
			},
			wantIDs: []string{"missing-file", "missing-heading"},
		},
		{
			name:    "CLI disable by ID",
			cfg:     &config.Config{DisableRules: []string{"missing-heading"}},
			wantIDs: []string{"missing-file"},
		},
		{
			name: "CLI enable overrides config file",
			cfg: &config.Config{
				Rules: map[string]config.RuleConfig{
					"missing-file": {Enabled: boolPtr(false)},
				},
				EnableRules: []string{"file-reference"},
			},
			wantIDs: []string{"missing-file", "missing-heading"},
		},
		{
			name: "CLI disable beats CLI enable",
			cfg: &config.Config{
				EnableRules:  []string{"missing-file"},
				DisableRules: []string{"missing-file"},
			},
			wantIDs: []string{"missing-heading"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			reg := registryWith(
				newStubRule("missing-heading", "heading-reference"),
				newStubRule("missing-file", "file-reference"),
			)

			resolved := lint.ResolveRules(reg, tt.cfg)

			ids := make([]string, 0, len(resolved))
			for _, rr := range resolved {
				ids = append(ids, rr.Rule.ID())
				if want, ok := tt.wantSeverity[rr.Rule.ID()]; ok {
					assert.Equal(t, want, rr.Severity, rr.Rule.ID())
				}
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestResolveRules_DisabledByDefault(t *testing.T) {
	t.Parallel()

	rule := newStubRule("opt-in", "opt-in-rule")
	rule.disabled = true
	reg := registryWith(rule)

	assert.Empty(t, lint.ResolveRules(reg, config.NewConfig()))

	cfg := config.NewConfig()
	cfg.EnableRules = []string{"opt-in"}
	resolved := lint.ResolveRules(reg, cfg)
	require.Len(t, resolved, 1)
	assert.True(t, resolved[0].Enabled)
}

func TestResolveRules_CarriesRuleConfig(t *testing.T) {
	t.Parallel()

	reg := registryWith(newStubRule("missing-file", "file-reference"))
	cfg := &config.Config{
		Rules: map[string]config.RuleConfig{
			"missing-file": {Severity: strPtr("warning")},
		},
	}

	resolved := lint.ResolveRules(reg, cfg)
	require.Len(t, resolved, 1)
	require.NotNil(t, resolved[0].Config)
	assert.Equal(t, "warning", *resolved[0].Config.Severity)
}
