package configloader

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/relinkcheck/pkg/config"
	"github.com/yaklabco/relinkcheck/pkg/lint"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "rules.missing-file.severity").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown rules).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// Validate checks a configuration for errors and warnings.
// Rule keys are checked against registry; a nil registry skips that check.
func Validate(cfg *config.Config, registry *lint.Registry) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Flavor != "" && !cfg.Flavor.IsValid() {
		result.addError("flavor", cfg.Flavor,
			fmt.Sprintf("invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor))
	}
	if cfg.SeverityDefault != "" && !config.Severity(cfg.SeverityDefault).IsValid() {
		result.addError("severity_default", cfg.SeverityDefault,
			fmt.Sprintf("invalid severity %q; must be one of: error, warning, info", cfg.SeverityDefault))
	}
	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.addError("format", cfg.Format,
			fmt.Sprintf("invalid format %q; must be one of: text, json, sarif, summary", cfg.Format))
	}
	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	validateRules(cfg, registry, result)
	validateGlobs("ignore", cfg.Ignore, result)
	validateExtensions(cfg.Extensions, result)
	validateRuleLists(registry, "enable", cfg.EnableRules, result)
	validateRuleLists(registry, "disable", cfg.DisableRules, result)

	return result
}

func (r *ValidationResult) addError(field string, value any, msg string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: msg})
}

func (r *ValidationResult) addWarning(field string, value any, msg string) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: msg})
}

// validateRules checks rule configurations for errors and warnings.
func validateRules(cfg *config.Config, registry *lint.Registry, result *ValidationResult) {
	for _, key := range slices.Sorted(maps.Keys(cfg.Rules)) {
		ruleCfg := cfg.Rules[key]

		if registry != nil {
			if _, ok := registry.Get(key); !ok {
				result.addWarning("rules."+key, key,
					fmt.Sprintf("unknown rule %q; it will be ignored", key))
			}
		}

		if ruleCfg.Severity != nil && !config.Severity(*ruleCfg.Severity).IsValid() {
			result.addError("rules."+key+".severity", *ruleCfg.Severity,
				fmt.Sprintf("invalid severity %q; must be one of: error, warning, info", *ruleCfg.Severity))
		}
	}
}

// validateGlobs checks that every pattern is a valid doublestar glob.
func validateGlobs(field string, patterns []string, result *ValidationResult) {
	for i, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			result.addError(fmt.Sprintf("%s[%d]", field, i), pattern,
				fmt.Sprintf("invalid glob pattern %q", pattern))
		}
	}
}

func validateExtensions(exts []string, result *ValidationResult) {
	for i, ext := range exts {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			result.addError(fmt.Sprintf("extensions[%d]", i), ext,
				fmt.Sprintf("invalid extension %q; must start with a dot", ext))
		}
	}
}

func validateRuleLists(registry *lint.Registry, flag string, keys []string, result *ValidationResult) {
	if registry == nil {
		return
	}
	for _, key := range keys {
		if _, ok := registry.Get(key); !ok {
			result.addWarning(flag, key, fmt.Sprintf("unknown rule %q; it will be ignored", key))
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, registry *lint.Registry, filePath string) *ValidationResult {
	result := Validate(cfg, registry)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}
