// Package cli provides the Cobra command structure for relinkcheck.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/relinkcheck/internal/logging"
	"github.com/yaklabco/relinkcheck/internal/ui/pretty"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root relinkcheck command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "relinkcheck",
		Short: "Check relative links and heading anchors in Markdown",
		Long: `relinkcheck checks that relative links in Markdown documents point at
files that exist and at headings that exist.

It reads links, images and reference definitions, resolves them against the
document's directory, and reports a missing file or a missing heading
anchor. Absolute URLs are never fetched.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if debug {
				logging.SetLevel("debug")
			}
			switch color {
			case pretty.ColorAuto, pretty.ColorAlways, pretty.ColorNever:
				return nil
			default:
				return fmt.Errorf("%w: --color must be auto, always or never, got %q", ErrInvalidUsage, color)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	})

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", pretty.ColorAuto,
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newCheckCommand(info))
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
