package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dimerapp/config-parser/internal/audit"
	"github.com/dimerapp/config-parser/internal/config"
	"github.com/dimerapp/config-parser/internal/log"
	"github.com/dimerapp/config-parser/internal/metrics"
	"github.com/dimerapp/config-parser/internal/parser"
	"github.com/dimerapp/config-parser/internal/paths"
	"github.com/dimerapp/config-parser/internal/store"
	"github.com/dimerapp/config-parser/internal/templates"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		stop()
		os.Exit(1)
	}
}

type rootFlags struct {
	root              string
	apiURL            string
	logLevel          string
	lang              string
	noDomainCheck     bool
	explicitVersionNo bool
}

// cli carries the collaborators shared by every subcommand.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	cfg       config.Config
	logger    *slog.Logger
	templates *templates.Bundle
	metrics   *metrics.Metrics
	parser    *parser.Parser
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "dimer-config",
		Short: "Normalize, validate and scaffold dimer.json",
		Long: `dimer-config reads a project's dimer.json, normalizes its zones and
versions and reports every validation problem it finds.

Settings come from DIMER_* environment variables; flags override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd, flags)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.root, "root", "", "project root holding dimer.json (DIMER_PROJECT_ROOT)")
	pf.StringVar(&flags.apiURL, "api-url", "", "override compilerOptions.apiUrl (DIMER_API_URL)")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (DIMER_LOG_LEVEL)")
	pf.StringVar(&flags.lang, "lang", "", "message language, en or ru (DIMER_LANG)")
	pf.BoolVar(&flags.noDomainCheck, "no-domain-check", false, "do not report a missing domain")
	pf.BoolVar(&flags.explicitVersionNo, "explicit-version-no", false, "let a version object's own \"no\" win over its key")

	rootCmd.AddCommand(
		initCmd(c),
		parseCmd(c),
		mcpCmd(c),
		versionCmd(),
	)

	return rootCmd
}

func (c *cli) setup(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	changed := cmd.Flags().Changed
	if changed("root") {
		cfg.ProjectRoot = flags.root
	}
	if changed("api-url") {
		cfg.APIURL = flags.apiURL
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if changed("lang") {
		cfg.Lang = flags.lang
	}
	if changed("no-domain-check") {
		cfg.ValidateDomain = !flags.noDomainCheck
	}
	if changed("explicit-version-no") {
		cfg.ExplicitVersionNo = flags.explicitVersionNo
	}

	c.cfg = cfg
	c.logger = log.New(cfg.LogLevel, c.stderr)

	c.templates, err = templates.Load(cfg.Lang)
	if err != nil {
		return err
	}

	resolver, err := paths.New(cfg.ProjectRoot)
	if err != nil {
		return err
	}

	c.metrics = metrics.New()
	c.parser = &parser.Parser{
		Paths:   resolver,
		Store:   store.NewDisk(),
		Options: cfg.Options(),
		Logger:  c.logger,
		Audit:   audit.New(c.logger),
		Metrics: c.metrics,
	}
	return nil
}

// message renders a catalogue entry for terminal output.
func (c *cli) message(key string, data map[string]any, fallback string) string {
	return templates.Text(c.templates, key, data, fallback)
}
