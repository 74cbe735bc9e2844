package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/spf13/cobra"

	"github.com/xgx-io/esm"
	"github.com/xgx-io/esm/internal/config"
)

var (
	cfgFile      string
	logFormat    string
	reportFormat string
)

// exit ends the process after an unhandled error; tests replace it.
var exit = os.Exit

// app is what every scenario command runs with, built before the command.
var app struct {
	cfg    *config.Config
	logger *slog.Logger
	term   *esm.Terminal
}

var rootCmd = &cobra.Command{
	Use:   "esm",
	Short: "Walkthroughs of structured error signaling",
	Long: `esm runs small programs that exercise the error-signaling mechanism:

  divide     - per-pair handling of division by zero
  hierarchy  - most specific handler wins; unreachable handlers are refused
  trace      - origin trace of a failure three calls deep
  propagate  - an unhandled error reaching the terminal handler
  finally    - the cleanup guarantee and its exit gap
  resources  - scoped resources released in reverse order
  bank       - a project-defined error kind

Errors no scenario handles are reported with their full trace and the
process exits with status 1.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (overrides config)")
	rootCmd.PersistentFlags().StringVar(&reportFormat, "report-format", "", "unhandled error report format: text or json (overrides config)")
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if reportFormat != "" {
		cfg.Report.Format = reportFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.Log.SlogLevel()
	logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Format, level)
	slog.SetDefault(logger)

	app.cfg = cfg
	app.logger = logger
	app.term = esm.NewTerminal(
		esm.WithOutput(cmd.ErrOrStderr()),
		esm.WithLogger(logger),
		esm.WithExit(exit),
		esm.WithReportFormat(esm.ReportFormat(cfg.Report.Format)),
	)
	return nil
}

func newLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// runScenario runs fn under the terminal handler.
func runScenario(name string, fn func()) {
	app.logger.Debug("scenario start", "scenario", name)
	if code := app.term.Run(fn); code != 0 {
		app.logger.Debug("scenario failed", "scenario", name, "status", code)
		return
	}
	app.logger.Debug("scenario done", "scenario", name)
}

// filesystem returns the configured root, or an in-memory filesystem holding
// seed when no root is set.
func filesystem(seed map[string]string) (billy.Filesystem, error) {
	if app.cfg.Resources.Root != "" {
		return osfs.New(app.cfg.Resources.Root), nil
	}
	fsys := memfs.New()
	for name, content := range seed {
		if err := util.WriteFile(fsys, name, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("seed %s: %w", name, err)
		}
	}
	return fsys, nil
}
