// Package main provides rookprob, a command-line tool for Rook win
// probability estimates, snapshot imports, statistics and backtests.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/rookscore/internal/config"
	"github.com/yourusername/rookscore/internal/logger"
	"github.com/yourusername/rookscore/internal/store"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// app holds state shared by the subcommands
type app struct {
	configFile string
	output     string
	logLevel   string

	cfg    *config.Config
	logger *logrus.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "rookprob",
		Short:        "Estimate Rook win probabilities from scorekeeper snapshots",
		Long:         `Estimates the win probability of a Rook game in progress, imports scorekeeper exports and maintains game statistics.`,
		Version:      fmt.Sprintf("%s (%s)", Version, GitCommit),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
	}

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", formatText, "Output format: text, json or yaml")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override the configured log level")

	root.AddCommand(
		a.newEstimateCmd(),
		a.newImportCmd(),
		a.newStatsCmd(),
		a.newInsightsCmd(),
		a.newBacktestCmd(),
	)
	return root
}

func (a *app) setup(ctx context.Context) error {
	if !validFormat(a.output) {
		return fmt.Errorf("unknown output format %q", a.output)
	}

	cfg, err := config.LoadWithDefaults(a.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.logLevel != "" {
		cfg.App.LogLevel = a.logLevel
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := config.ApplySecretsFromEnv(ctx, cfg, os.Getenv); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.cfg = cfg
	a.logger = logger.NewLogger(cfg.App.LogLevel)
	// keep stdout for command output
	a.logger.SetOutput(os.Stderr)
	return nil
}

// openStore returns an in-memory store loaded from exportFile, or the
// configured store when exportFile is empty
func (a *app) openStore(ctx context.Context, exportFile string) (store.Store, string, error) {
	if exportFile == "" {
		s, err := store.New(ctx, a.cfg)
		return s, a.cfg.Store.Driver, err
	}

	data, err := readInput(exportFile)
	if err != nil {
		return nil, "", err
	}
	s := store.NewMemoryStore()
	if _, err := store.ImportSnapshot(ctx, s, data, store.ImportOptions{Source: exportFile}); err != nil {
		return nil, "", fmt.Errorf("failed to load %s: %w", exportFile, err)
	}
	return s, "memory", nil
}

// readInput reads path, or stdin when path is "-"
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
