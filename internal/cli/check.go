package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/relinkcheck/internal/configloader"
	"github.com/yaklabco/relinkcheck/internal/logging"
	"github.com/yaklabco/relinkcheck/pkg/config"
	"github.com/yaklabco/relinkcheck/pkg/lint"
	"github.com/yaklabco/relinkcheck/pkg/lint/rules"
	goldmarkparser "github.com/yaklabco/relinkcheck/pkg/parser/goldmark"
	"github.com/yaklabco/relinkcheck/pkg/reporter"
	"github.com/yaklabco/relinkcheck/pkg/runner"
)

type checkFlags struct {
	format    string
	flavor    string
	ignore    []string
	enable    []string
	disable   []string
	jobs      int
	strict    bool
	noContext bool
	compact   bool
	watch     bool
}

func newCheckCommand(info BuildInfo) *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check relative links in Markdown files",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags, info)
		},
	}

	addCheckFlags(cmd, flags)

	return cmd
}

const checkLongDescription = `Check that relative links resolve to existing files and headings.

By default, checks all .md, .markdown and .mdx files in the current directory
and subdirectories. Files named explicitly are checked whatever their
extension.

Examples:
  relinkcheck check                       # Check current directory
  relinkcheck check docs/                 # Check docs directory
  relinkcheck check README.md             # Check a single file
  relinkcheck check --format sarif        # SARIF for code scanning
  relinkcheck check --disable missing-heading
  relinkcheck check --strict              # Fail on warnings too
  relinkcheck check --watch docs/         # Re-check when files change`

// checkSession holds everything one check run needs so watch mode can repeat it.
type checkSession struct {
	cmd      *cobra.Command
	args     []string
	flags    *checkFlags
	info     BuildInfo
	workDir  string
	cfg      *config.Config
	registry *lint.Registry
	runner   *runner.Runner
	logger   *log.Logger
}

func runCheck(cmd *cobra.Command, args []string, flags *checkFlags, info BuildInfo) error {
	logger := logging.Default()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	registry := lint.DefaultRegistry

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		Registry:     registry,
		CLIConfig:    cliConfig(cmd, flags),
	})
	if err != nil {
		return errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldFlavor, cfg.Flavor,
		logging.FieldFormat, cfg.Format,
		logging.FieldJobs, cfg.Jobs,
	)

	engine := lint.NewEngine(goldmarkparser.New(string(cfg.Flavor)), registry)

	session := &checkSession{
		cmd:      cmd,
		args:     args,
		flags:    flags,
		info:     info,
		workDir:  workDir,
		cfg:      cfg,
		registry: registry,
		runner:   runner.New(lint.NewPipeline(engine)),
		logger:   logger,
	}

	if flags.watch {
		watchCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return session.watch(watchCtx)
	}

	result, err := session.run(ctx)
	if err != nil {
		return err
	}
	return errorForExitCode(ExitCodeFromResult(result, cfg.Strict))
}

// cliConfig builds the highest-precedence configuration layer from the
// flags the user actually set.
func cliConfig(cmd *cobra.Command, flags *checkFlags) *config.Config {
	cfg := &config.Config{}
	changed := cmd.Flags().Changed

	if changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	if changed("flavor") {
		cfg.Flavor = config.Flavor(flags.flavor)
	}
	if changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if changed("jobs") {
		cfg.Jobs = flags.jobs
	}
	cfg.EnableRules = flags.enable
	cfg.DisableRules = flags.disable
	cfg.Strict = flags.strict

	return cfg
}

// run performs one discovery and check pass and reports it.
func (s *checkSession) run(ctx context.Context) (*runner.Result, error) {
	opts := runner.OptionsFromConfig(s.cfg, s.args)
	opts.WorkingDir = s.workDir

	s.logger.Debug("starting check run",
		logging.FieldPaths, opts.Paths,
		logging.FieldWorkingDir, opts.WorkingDir,
		logging.FieldJobs, opts.Jobs,
	)

	result, err := s.runner.Run(ctx, opts)
	if err != nil {
		return nil, errors.Join(errors.New("check run failed"), err)
	}

	s.logger.Debug("check run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
	)

	for _, outcome := range result.Files {
		if outcome.Error != nil {
			s.logger.Warn("cannot check file", logging.FieldPath, outcome.Path, logging.FieldError, outcome.Error)
		}
	}

	if err := s.report(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *checkSession) report(ctx context.Context, result *runner.Result) error {
	format, err := reporter.ParseFormat(string(s.cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}

	colorMode, err := s.cmd.Flags().GetString("color")
	if err != nil {
		return fmt.Errorf("get color flag: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      s.cmd.OutOrStdout(),
		Format:      format,
		Color:       colorMode,
		ShowContext: !s.flags.noContext,
		ShowSummary: true,
		GroupByFile: true,
		Compact:     s.flags.compact,
		WorkingDir:  s.workDir,
		ToolVersion: s.info.Version,
		Rules:       rules.RuleInfos(s.registry),
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		s.logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}
	return nil
}

func addCheckFlags(cmd *cobra.Command, flags *checkFlags) {
	cmd.Flags().StringVar(&flags.format, "format", string(config.FormatText), "output format: text, json, sarif, summary")
	cmd.Flags().StringVar(&flags.flavor, "flavor", string(config.FlavorGFM), "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rule IDs or names to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rule IDs or names to disable")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit with status 2 when only warnings are found")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minify JSON and SARIF output")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-check when files change")
}
