// Package main is the entry point for diagreport. It collects logs,
// configuration, a storage listing and host information of an offline
// server into a single zip bundle.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Guliveer/vitalis/diagnostics/internal/classifier"
	"github.com/Guliveer/vitalis/diagnostics/internal/config"
	"github.com/Guliveer/vitalis/diagnostics/internal/diagnostics"
	"github.com/Guliveer/vitalis/diagnostics/internal/progress"
	"github.com/Guliveer/vitalis/diagnostics/internal/providers"
	"github.com/Guliveer/vitalis/diagnostics/internal/retention"
	"github.com/Guliveer/vitalis/diagnostics/internal/source"
)

// version is set at build time via -ldflags.
var version = "dev"

const (
	logsClassifier = "logs"
	bundlePrefix   = "diagreport-"

	// bundleTimeFormat names bundles so they sort chronologically.
	bundleTimeFormat = "20060102T150405Z"
)

type options struct {
	configPath  string
	storeDir    string
	logDir      string
	to          string
	logLevel    string
	classifiers []string
	list        bool
	dryRun      bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "diagreport: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "diagreport",
		Short:         "Collect diagnostics of an offline server into a zip bundle",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts, stdout, stderr)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Path to configuration file (default: search standard locations)")
	f.StringVar(&opts.storeDir, "store-dir", "", "Server storage directory")
	f.StringVar(&opts.logDir, "log-dir", "", "Server log directory")
	f.StringVar(&opts.to, "to", "", "Directory the bundle is written to")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level: debug | info | warn | error")
	f.StringSliceVarP(&opts.classifiers, "classifiers", "c", nil, "Classifiers to collect, or \"all\"")
	f.BoolVar(&opts.list, "list", false, "List the available classifiers and exit")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Print the files the bundle would contain and exit")

	cmd.AddCommand(newInitConfigCmd(stdout))
	return cmd
}

func newInitConfigCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config <path>",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := config.WriteConfig(config.DefaultConfig(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Configuration written to %s\n", args[0])
			return nil
		},
	}
}

func run(cmd *cobra.Command, opts *options, stdout, stderr io.Writer) error {
	cli := config.CLIOverrides{
		StoreDir:    opts.storeDir,
		LogDir:      opts.logDir,
		Destination: opts.to,
		LogLevel:    opts.logLevel,
		Classifiers: opts.classifiers,
	}
	var cfg *config.Config
	var err error
	if cmd.Flags().Changed("config") {
		cfg, err = config.LoadLayered(cli, opts.configPath)
	} else {
		cfg, err = config.LoadLayered(cli)
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := initLogger(cfg, stderr)
	defer func() { _ = logger.Sync() }()

	logger.Debug("Starting diagreport", zap.String("version", version))

	now := time.Now().UTC()
	requested := classifier.ParseSet(cfg.Report.Classifiers...)

	reporter := diagnostics.NewReporter(logger)
	fs := afero.NewOsFs()
	reporter.RegisterAllProviders(providers.Builtin(), diagnostics.InitContext{
		FS:       fs,
		Config:   cfg,
		StoreDir: cfg.Resolve(cfg.Server.StoreDir),
		Logger:   logger,
	})
	reporter.RegisterSource(manifestClassifier, newManifestSource(requested, now))
	if cfg.Logging.File != "" {
		for _, src := range source.RotatingFiles(fs, "logs/diagreport", cfg.Logging.File) {
			reporter.RegisterSource(logsClassifier, src)
		}
	}

	switch {
	case opts.list:
		fmt.Fprintln(stdout, classifier.AllLabel)
		for _, c := range reporter.AvailableClassifiers() {
			fmt.Fprintln(stdout, c)
		}
		return nil
	case opts.dryRun:
		for _, src := range reporter.Sources(requested) {
			fmt.Fprintln(stdout, src.DestinationPath())
		}
		return nil
	}

	dest := filepath.Join(cfg.Report.Destination, bundlePrefix+now.Format(bundleTimeFormat)+".zip")
	p := progress.Tee(progress.NewConsole(stdout), progress.NewLogger(logger))
	if err := reporter.Dump(requested, dest, p); err != nil {
		return fmt.Errorf("writing bundle: %w", err)
	}
	fmt.Fprintf(stdout, "Diagnostics bundle written to %s\n", dest)

	pruner := retention.New(fs, cfg.Report.Destination, bundlePrefix, retention.Policy{
		Keep:       cfg.Report.Keep,
		MaxTotalMB: cfg.Report.MaxTotalMB,
	}, logger.Named("retention"))
	removed, err := pruner.Prune()
	if err != nil {
		logger.Warn("Pruning old bundles failed", zap.Error(err))
	} else if len(removed) > 0 {
		logger.Info("Pruned old bundles", zap.Int("count", len(removed)))
	}
	return nil
}
