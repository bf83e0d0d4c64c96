// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support and validation.
package configloader

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/yaklabco/relinkcheck/pkg/config"
	"github.com/yaklabco/relinkcheck/pkg/lint"
)

// ErrInvalidConfig marks failures caused by configuration content or files.
var ErrInvalidConfig = errors.New("invalid configuration")

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	// It is loaded on top of any discovered project config.
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// Registry resolves rule names to IDs. Defaults to lint.DefaultRegistry.
	Registry *lint.Registry

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (RELINKCHECK_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.relinkcheck.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/relinkcheck/config.yaml)
//  6. System config (/etc/relinkcheck/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	registry := opts.Registry
	if registry == nil {
		registry = lint.DefaultRegistry
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	layers := []struct {
		name string
		path string
		skip bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, false},
	}
	for _, l := range layers {
		if l.skip || l.path == "" {
			continue
		}
		layer, err := readLayer(l.path)
		if err != nil {
			return nil, fmt.Errorf("%w: load %s config: %w", ErrInvalidConfig, l.name, err)
		}
		layer.applyTo(cfg)
		result.LoadedFrom = append(result.LoadedFrom, l.path)
		result.Warnings = append(result.Warnings, layer.warnings()...)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("%w: load environment: %w", ErrInvalidConfig, err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	normalizeRuleKeys(cfg, registry, result)

	validation := Validate(cfg, registry)
	if !validation.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, &validation.Errors[0])
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// normalizeRuleKeys rewrites rule names to canonical IDs so that
// "file-reference" and "missing-file" configure the same rule. When both
// forms are present the ID entry's fields win. Unknown keys are kept for
// validation to report.
func normalizeRuleKeys(cfg *config.Config, registry *lint.Registry, result *LoadResult) {
	if len(cfg.Rules) == 0 {
		return
	}

	normalized := make(map[string]config.RuleConfig, len(cfg.Rules))
	var idKeys []string

	for _, key := range slices.Sorted(maps.Keys(cfg.Rules)) {
		id, ok := registry.Resolve(key)
		switch {
		case !ok:
			normalized[key] = cfg.Rules[key]
		case id == key:
			idKeys = append(idKeys, key)
		default:
			normalized[id] = cfg.Rules[key]
		}
	}

	for _, id := range idKeys {
		if existing, ok := normalized[id]; ok {
			rule, _ := registry.GetByID(id)
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("rule %s is configured as both %q and %q; %q takes precedence",
					id, rule.Name(), id, id))
			normalized[id] = mergeRuleConfig(existing, cfg.Rules[id])
			continue
		}
		normalized[id] = cfg.Rules[id]
	}

	cfg.Rules = normalized
}
