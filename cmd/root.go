package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ethanolivertroy/validpack/internal/clients"
	"github.com/ethanolivertroy/validpack/internal/config"
	"github.com/ethanolivertroy/validpack/internal/models"
	"github.com/ethanolivertroy/validpack/internal/reporter"
	"github.com/ethanolivertroy/validpack/internal/scanner"
)

// Exit codes
const (
	exitOK       = 0
	exitProblems = 1
	exitError    = 2
)

var outputFormats = []string{"console", "json", "sarif"}

// errProblemsFound signals exit code 1 without printing an error
var errProblemsFound = errors.New("problems found")

const longHelp = `validpack scans a project for dependency manifests and checks that every
declared package exists in its public registry. A package that does not
exist can be registered by an attacker (dependency confusion, typosquatting).

Supported ecosystems:
  - npm:    package.json
  - NuGet:  *.csproj
  - PyPI:   requirements*.txt, pyproject.toml
  - Crates: Cargo.toml
  - Maven:  pom.xml
  - Gradle: build.gradle, build.gradle.kts

Packages on the blacklist are always reported. Packages on the whitelist
are never looked up. Both lists and exclude globs are read from the config
file (JSON, YAML or TOML).

Exit codes:
  0  no problems found
  1  packages not found or blacklisted
  2  invalid arguments or unexpected error

Examples:
  # Scan the current directory
  validpack

  # Scan a project with a custom config
  validpack ./app --config validpack.yaml

  # SARIF for GitHub Code Scanning
  validpack --output sarif --output-file results.sarif

  # Write an example config file
  validpack --init-config validpack.json`

var (
	flagConfig          string
	flagOutput          string
	flagOutputFile      string
	flagVerbose         bool
	flagNoFail          bool
	flagTimeout         time.Duration
	flagRequestInterval time.Duration
	flagInitConfig      string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:           "validpack [path]",
	Short:         "Check that every declared dependency exists in its package registry",
	Long:          longHelp,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCheck,
}

// Execute runs the root command and exits with its status code
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func init() {
	defaults := models.DefaultOptions()

	f := rootCmd.Flags()
	f.StringVarP(&flagConfig, "config", "c", defaults.ConfigFile, "Config file with whitelist, blacklist and exclude patterns (.json, .yaml, .toml)")
	f.StringVarP(&flagOutput, "output", "o", defaults.OutputFormat, "Output format: console, json, sarif")
	f.StringVar(&flagOutputFile, "output-file", "", "Write the report to a file instead of stdout")
	f.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	f.BoolVar(&flagNoFail, "no-fail", false, "Exit 0 even if problems are found")
	f.DurationVar(&flagTimeout, "timeout", defaults.Timeout, "Timeout for each registry request")
	f.DurationVar(&flagRequestInterval, "request-interval", defaults.RequestInterval, "Minimum spacing between registry requests")
	f.StringVar(&flagInitConfig, "init-config", "", "Write an example config file and exit")
}

// run executes rootCmd with args and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	resetFlags()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errProblemsFound):
		return exitProblems
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
}

// resetFlags restores every flag to its default so rootCmd can run again
func resetFlags() {
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts := &models.Options{
		Path:            ".",
		ConfigFile:      flagConfig,
		OutputFormat:    strings.ToLower(flagOutput),
		OutputFile:      flagOutputFile,
		Verbose:         flagVerbose,
		FailOnProblems:  !flagNoFail,
		Timeout:         flagTimeout,
		RequestInterval: flagRequestInterval,
	}
	if len(args) == 1 {
		opts.Path = args[0]
	}

	level := log.InfoLevel
	if opts.Verbose {
		level = log.DebugLevel
	}
	logger := newLogger(cmd.ErrOrStderr(), level)

	if flagInitConfig != "" {
		if err := config.WriteExample(flagInitConfig); err != nil {
			return err
		}
		logger.Info("example config written", "file", flagInitConfig)
		return nil
	}

	if !isOutputFormat(opts.OutputFormat) {
		return fmt.Errorf("invalid output format %q (allowed: %s)",
			opts.OutputFormat, strings.Join(outputFormats, ", "))
	}

	cfg := loadConfig(logger, opts.ConfigFile, cmd.Flags().Changed("config"))
	return runScan(cmd.Context(), opts, cfg, logger, cmd.OutOrStdout())
}

// loadConfig falls back to an empty configuration when the file is
// missing or unreadable. A missing default file is not worth a warning.
func loadConfig(logger *log.Logger, path string, explicit bool) models.Configuration {
	cfg, err := config.Load(path)
	switch {
	case err == nil:
		logger.Debug("config loaded", "file", path,
			"whitelist", len(cfg.Whitelist),
			"blacklist", len(cfg.Blacklist),
			"exclude", len(cfg.Exclude))
	case errors.Is(err, os.ErrNotExist) && !explicit:
		logger.Debug("no config file, using defaults", "file", path)
	default:
		logger.Warn("using default config", "err", err)
	}
	return cfg
}

func runScan(ctx context.Context, opts *models.Options, cfg models.Configuration, logger *log.Logger, stdout io.Writer) error {
	probe := clients.NewProbe(opts.Timeout, clients.NewIntervalGate(opts.RequestInterval))
	s := scanner.New(cfg, scanner.WithLogger(logger), scanner.WithProbe(probe))

	start := time.Now()
	result, err := s.Scan(ctx, opts.Path)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	logger.Debug("scan finished", "elapsed", time.Since(start).Round(time.Millisecond))

	output, err := reporter.Get(opts.OutputFormat).Report(result)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if opts.OutputFile != "" {
		if err := os.WriteFile(opts.OutputFile, output, 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Info("report written", "file", opts.OutputFile)
	} else {
		fmt.Fprint(stdout, string(output))
	}

	if result.HasProblems() && opts.FailOnProblems {
		return errProblemsFound
	}
	return nil
}

func isOutputFormat(format string) bool {
	for _, f := range outputFormats {
		if f == format {
			return true
		}
	}
	return false
}
