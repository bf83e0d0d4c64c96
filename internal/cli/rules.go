package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/relinkcheck/internal/logging"
	"github.com/yaklabco/relinkcheck/pkg/config"
	"github.com/yaklabco/relinkcheck/pkg/lint"
	"github.com/yaklabco/relinkcheck/pkg/lint/rules"
)

type rulesFlags struct {
	format string
}

const (
	formatJSON = "json"
	formatText = "text"
)

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	Enabled     bool     `json:"enabled"`
	Tags        []string `json:"tags"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available rules",
		Long: `List all rules with their IDs, names, descriptions and default severity.
Either the ID or the name can be used in configuration and with --enable
and --disable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos := rules.RuleInfos(lint.DefaultRegistry)

			switch flags.format {
			case formatJSON:
				return outputRulesJSON(cmd.OutOrStdout(), infos)
			case formatText:
				outputRulesText(cmd.OutOrStdout(), infos)
				return nil
			default:
				return fmt.Errorf("%w: --format must be text or json, got %q", ErrInvalidUsage, flags.format)
			}
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", formatText, "output format: text, json")

	return cmd
}

func outputRulesText(w io.Writer, infos []config.RuleInfo) {
	logger := logging.NewWithWriter(w, "info")

	if len(infos) == 0 {
		logger.Info("no rules registered")
		return
	}

	for _, info := range infos {
		logger.Info(info.ID+"/"+info.Name,
			logging.FieldSeverity, info.Severity,
			logging.FieldEnabled, info.Enabled,
			logging.FieldTags, strings.Join(info.Tags, ","),
			logging.FieldDescription, info.Description,
		)
	}
}

// outputRulesJSON writes rules as a JSON array.
func outputRulesJSON(w io.Writer, infos []config.RuleInfo) error {
	out := make([]ruleInfo, 0, len(infos))
	for _, info := range infos {
		tags := info.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, ruleInfo{
			ID:          info.ID,
			Name:        info.Name,
			Description: info.Description,
			Severity:    string(info.Severity),
			Enabled:     info.Enabled,
			Tags:        tags,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}
