package configloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/relinkcheck/pkg/config"
)

// knownFileKeys are the top-level keys a config file may set.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFileKeys = []string{
	"flavor",
	"severity_default",
	"rules",
	"ignore",
	"extensions",
	"follow_symlinks",
}

// fileLayer is one parsed configuration file. Pointer and nil fields were
// absent from the file and leave lower layers untouched.
type fileLayer struct {
	Flavor          *config.Flavor               `yaml:"flavor"`
	SeverityDefault *string                      `yaml:"severity_default"`
	Rules           map[string]config.RuleConfig `yaml:"rules"`
	Ignore          []string                     `yaml:"ignore"`
	Extensions      []string                     `yaml:"extensions"`
	FollowSymlinks  *bool                        `yaml:"follow_symlinks"`

	// path is the file the layer was read from.
	path string

	// unknown lists top-level keys that no field consumes.
	unknown []string
}

// readLayer reads and parses a configuration file.
func readLayer(path string) (*fileLayer, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	layer, err := parseLayer(content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	layer.path = path
	return layer, nil
}

// parseLayer decodes YAML content. An empty document yields an empty layer.
func parseLayer(content []byte) (*fileLayer, error) {
	layer := &fileLayer{}

	var raw map[string]yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(content)).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return layer, nil
		}
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	if err := yaml.Unmarshal(content, layer); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	for key := range raw {
		if !slices.Contains(knownFileKeys, key) {
			layer.unknown = append(layer.unknown, key)
		}
	}
	sort.Strings(layer.unknown)

	return layer, nil
}

// applyTo overlays the layer onto cfg. Rule entries merge field by field.
func (l *fileLayer) applyTo(cfg *config.Config) {
	if l.Flavor != nil {
		cfg.Flavor = *l.Flavor
	}
	if l.SeverityDefault != nil {
		cfg.SeverityDefault = *l.SeverityDefault
	}
	if l.FollowSymlinks != nil {
		cfg.FollowSymlinks = *l.FollowSymlinks
	}
	if l.Ignore != nil {
		cfg.Ignore = slices.Clone(l.Ignore)
	}
	if l.Extensions != nil {
		cfg.Extensions = slices.Clone(l.Extensions)
	}
	cfg.Rules = mergeRules(cfg.Rules, l.Rules)
}

// warnings describes the unknown keys of the layer.
func (l *fileLayer) warnings() []string {
	out := make([]string, 0, len(l.unknown))
	for _, key := range l.unknown {
		out = append(out, fmt.Sprintf("%s: unknown key %q; it will be ignored", l.path, key))
	}
	return out
}
