package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/relinkcheck/internal/configloader"
	"github.com/yaklabco/relinkcheck/internal/logging"
	"github.com/yaklabco/relinkcheck/pkg/config"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// errOverwriteDeclined is returned when the user answers no at the prompt.
var errOverwriteDeclined = errors.New("overwrite declined")

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

// stdinIsTerminal reports whether the overwrite prompt can be shown.
//
//nolint:gochecknoglobals // Replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // Fd fits in int on supported platforms
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a relinkcheck configuration file",
		Long: `Create a .relinkcheck.yml configuration file in the current directory.

When the file already exists you are asked before it is overwritten. Without
an interactive terminal, --force is required.

Examples:
  relinkcheck init                     Create a minimal .relinkcheck.yml
  relinkcheck init --full              List every rule with its defaults
  relinkcheck init --format json       Create .relinkcheck.json instead
  relinkcheck init --output docs.yml   Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file without asking")
	cmd.Flags().BoolVar(&flags.full, "full", false, "generate a template listing every rule")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"output file path (default: .relinkcheck.yml or .relinkcheck.json)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "info")

	if flags.format != "yaml" && flags.format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be yaml or json", ErrInvalidUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = defaultInitPath(flags.format)
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			if err := askOverwrite(cmd, outputPath); err != nil {
				return err
			}
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'relinkcheck rules' to see all available rules")

	return nil
}

// askOverwrite prompts on an interactive terminal and refuses otherwise.
func askOverwrite(cmd *cobra.Command, path string) error {
	if !stdinIsTerminal() {
		return fmt.Errorf("file %q already exists; use --force to overwrite", path)
	}
	ok, err := confirmOverwrite(cmd.InOrStdin(), cmd.ErrOrStderr(), path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", path, errOverwriteDeclined)
	}
	return nil
}

func defaultInitPath(format string) string {
	if format == formatJSON {
		return ".relinkcheck.json"
	}
	return configloader.ProjectConfigFiles[0]
}

// confirmOverwrite asks on out and reads a yes/no answer from in.
// Anything other than y or yes declines.
func confirmOverwrite(in io.Reader, out io.Writer, path string) (bool, error) {
	if _, err := fmt.Fprintf(out, "%s already exists. Overwrite? [y/N] ", path); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
