package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every rule with its current defaults.
	// If false, generates a minimal commented template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string

	// IncludeRules restricts the full template to these rule IDs.
	IncludeRules []string
}

// RuleInfo contains rule metadata for template generation.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
	Severity    Severity
	Tags        []string
}

// RuleInfoProvider returns rule information.
// It decouples this package from the rule registry.
type RuleInfoProvider func() []RuleInfo

// DefaultRuleInfoProvider is set by the rules package during init.
//
//nolint:gochecknoglobals // Extension point for rule info.
var DefaultRuleInfoProvider RuleInfoProvider

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	var (
		content []byte
		err     error
	)
	if opts.Full {
		content, err = generateFullTemplate(opts)
	} else {
		content = []byte(minimalTemplate)
	}
	if err != nil {
		return nil, err
	}

	if opts.Format == "json" {
		return templateToJSON(content)
	}
	return content, nil
}

const minimalTemplate = `# relinkcheck configuration
# See: https://github.com/yaklabco/relinkcheck

# Markdown flavor: commonmark or gfm
flavor: gfm

# Default severity for all rules: error, warning, or info
# severity_default: error

# Extensions treated as Markdown when walking directories
# extensions:
#   - ".md"
#   - ".markdown"
#   - ".mdx"

# Resolve symlinks when checking that link targets exist
# follow_symlinks: true

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"

# Rule-specific configuration, keyed by rule ID or name
# rules:
#   missing-heading:
#     severity: warning
#   file-reference:
#     enabled: false
`

func generateFullTemplate(opts TemplateOptions) ([]byte, error) {
	rules := getRuleInfos()
	if len(opts.IncludeRules) > 0 {
		rules = slices.DeleteFunc(rules, func(r RuleInfo) bool {
			return !slices.Contains(opts.IncludeRules, r.ID)
		})
	}
	slices.SortFunc(rules, func(a, b RuleInfo) int {
		return strings.Compare(a.ID, b.ID)
	})

	var header strings.Builder
	header.WriteString(DefaultTemplateHeader())
	header.WriteString("\n#\n# Available rules:\n")
	for _, rule := range rules {
		fmt.Fprintf(&header, "#\n#   %s (%s)\n", rule.ID, rule.Name)
		fmt.Fprintf(&header, "#     %s\n", wrapComment(rule.Description, commentWrapWidth))
		if len(rule.Tags) > 0 {
			fmt.Fprintf(&header, "#     Tags: %s\n", strings.Join(rule.Tags, ", "))
		}
	}

	cfg := NewConfig()
	for _, rule := range rules {
		enabled := rule.Enabled
		severity := string(rule.Severity)
		cfg.Rules[rule.ID] = RuleConfig{Enabled: &enabled, Severity: &severity}
	}

	return cfg.ToYAMLWithHeader(header.String())
}

// getRuleInfos returns information about all registered rules.
func getRuleInfos() []RuleInfo {
	if DefaultRuleInfoProvider != nil {
		return DefaultRuleInfoProvider()
	}

	return []RuleInfo{
		{
			ID: "missing-file", Name: "file-reference", Enabled: true, Severity: SeverityError,
			Description: "Relative links must point to files that exist",
			Tags:        []string{"links"},
		},
		{
			ID: "missing-heading", Name: "heading-reference", Enabled: true, Severity: SeverityError,
			Description: "Link fragments must match a heading in the target document",
			Tags:        []string{"links"},
		},
	}
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	currentLine := ""
	for _, word := range strings.Fields(text) {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n#     ")
}

// templateToJSON re-encodes the uncommented settings of a YAML template as JSON.
func templateToJSON(yamlContent []byte) ([]byte, error) {
	settings := map[string]any{}
	if err := yaml.Unmarshal(yamlContent, &settings); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(settings); err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# relinkcheck configuration
# See: https://github.com/yaklabco/relinkcheck`
}
