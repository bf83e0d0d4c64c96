// Package config defines the configuration types for relinkcheck.
// These types are plain data with no dependency on the loader that fills them.
package config

import (
	"path/filepath"
	"slices"
	"strings"
)

// Severity represents the severity level of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid reports whether s is a known severity.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// RuleConfig holds per-rule settings.
type RuleConfig struct {
	Enabled  *bool   `mapstructure:"enabled" yaml:"enabled,omitempty"`
	Severity *string `mapstructure:"severity" yaml:"severity,omitempty"`
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatSARIF OutputFormat = "sarif"

	// FormatSummary aggregates broken links by rule, file and destination.
	FormatSummary OutputFormat = "summary"
)

// IsValid reports whether f is a supported output format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSARIF, FormatSummary:
		return true
	default:
		return false
	}
}

// Flavor specifies the Markdown flavor to use for parsing.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// IsValid reports whether f is a supported flavor.
func (f Flavor) IsValid() bool {
	return f == FlavorCommonMark || f == FlavorGFM
}

// DefaultExtensions lists the file extensions treated as Markdown documents.
func DefaultExtensions() []string {
	return []string{".md", ".markdown", ".mdx"}
}

// DefaultIgnore lists the glob patterns excluded when nothing else is configured.
func DefaultIgnore() []string {
	return []string{"vendor/**", "node_modules/**", ".git/**"}
}

// Config is the root configuration structure.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `mapstructure:"flavor" yaml:"flavor"`

	// SeverityDefault applies to every rule without its own severity.
	SeverityDefault string `mapstructure:"severity_default" yaml:"severity_default"`

	// Rules contains per-rule configuration keyed by rule ID or name.
	Rules map[string]RuleConfig `mapstructure:"rules" yaml:"rules"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	// Extensions lists the file extensions discovered when walking directories.
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`

	// FollowSymlinks makes discovery descend into symlinked directories and
	// makes the existence check resolve links.
	FollowSymlinks bool `mapstructure:"follow_symlinks" yaml:"follow_symlinks"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-"`

	// EnableRules contains rule IDs or names to explicitly enable.
	EnableRules []string `mapstructure:"-" yaml:"-"`

	// DisableRules contains rule IDs or names to explicitly disable.
	DisableRules []string `mapstructure:"-" yaml:"-"`

	// Strict turns warnings into a failing exit status.
	Strict bool `mapstructure:"-" yaml:"-"`
}

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	return &Config{
		Flavor:          FlavorGFM,
		SeverityDefault: string(SeverityError),
		Rules:           make(map[string]RuleConfig),
		Ignore:          DefaultIgnore(),
		Extensions:      DefaultExtensions(),
		FollowSymlinks:  true,
		Format:          FormatText,
		Jobs:            0, // 0 means use GOMAXPROCS
	}
}

// HasExtension reports whether path ends in one of the configured extensions.
// An empty list falls back to DefaultExtensions.
func (c *Config) HasExtension(path string) bool {
	exts := c.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions()
	}
	ext := filepath.Ext(path)
	return slices.ContainsFunc(exts, func(want string) bool {
		return strings.EqualFold(ext, want)
	})
}
