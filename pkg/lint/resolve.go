package lint

import "github.com/yaklabco/relinkcheck/pkg/config"

// ResolvedRule pairs a Rule with its resolved configuration.
type ResolvedRule struct {
	// Rule is the underlying rule implementation.
	Rule Rule

	// Enabled indicates whether the rule should be run.
	Enabled bool

	// Severity is the resolved severity for diagnostics from this rule.
	Severity config.Severity

	// Config is the rule-specific configuration (may be nil).
	Config *config.RuleConfig
}

// ResolveRules determines which rules to run based on registry and config.
// Returns only enabled rules, sorted by ID.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	var resolved []ResolvedRule

	for _, rule := range registry.Rules() {
		rr := resolveRule(rule, cfg)
		if rr.Enabled {
			resolved = append(resolved, rr)
		}
	}

	return resolved
}

// resolveRule layers rule defaults, severity_default, the rules section and
// CLI enable/disable lists, in that order.
func resolveRule(rule Rule, cfg *config.Config) ResolvedRule {
	rr := ResolvedRule{
		Rule:     rule,
		Enabled:  rule.DefaultEnabled(),
		Severity: rule.DefaultSeverity(),
	}

	if cfg == nil {
		return rr
	}

	if sev := config.Severity(cfg.SeverityDefault); sev.IsValid() {
		rr.Severity = sev
	}

	// Rule keys may be IDs or names; an ID key wins when both are present.
	if ruleCfg, ok := cfg.Rules[rule.Name()]; ok {
		rr.apply(ruleCfg)
	}
	if ruleCfg, ok := cfg.Rules[rule.ID()]; ok {
		rr.apply(ruleCfg)
	}

	if names(rule, cfg.EnableRules) {
		rr.Enabled = true
	}
	if names(rule, cfg.DisableRules) {
		rr.Enabled = false
	}

	return rr
}

func (rr *ResolvedRule) apply(ruleCfg config.RuleConfig) {
	rr.Config = &ruleCfg
	if ruleCfg.Enabled != nil {
		rr.Enabled = *ruleCfg.Enabled
	}
	if ruleCfg.Severity != nil {
		if sev := config.Severity(*ruleCfg.Severity); sev.IsValid() {
			rr.Severity = sev
		}
	}
}

// names reports whether any key in keys is the rule's ID or name.
func names(rule Rule, keys []string) bool {
	for _, key := range keys {
		if key == rule.ID() || key == rule.Name() {
			return true
		}
	}
	return false
}
