package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danipagano/digital-collections-monitor/internal/config"
	"github.com/danipagano/digital-collections-monitor/internal/domain"
	"github.com/danipagano/digital-collections-monitor/internal/logging"
	"github.com/danipagano/digital-collections-monitor/internal/repo/sqlite"
)

var cfg = config.FromEnv()

var rootCmd = &cobra.Command{
	Use:   "collections-monitor",
	Short: "Uptime monitor for digital archive collections",
	Long: `collections-monitor probes a set of digital archive collections over
HTTP(S), records reachability and latency to a SQLite database, and
derives rolling availability statistics.

Run 'collections-monitor check' for a single monitoring cycle, 'report'
for the current status and 24-hour uptime view, or 'serve' for periodic
cycles plus a read-only status API.`,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database file")
	pf.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-probe timeout")
	pf.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "maximum probes in flight")
	pf.StringVar(&cfg.TargetsFile, "targets", cfg.TargetsFile, "YAML collections file (built-in list when empty)")
	pf.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "log directory")

	rootCmd.AddCommand(checkCmd, reportCmd, serveCmd)
}

// setup opens the logger, the store and the target list shared by all
// subcommands. The returned cleanup closes them in order.
func setup(ctx context.Context) (*zap.Logger, *sqlite.Store, []domain.Target, func(), error) {
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	store, err := sqlite.New(ctx, cfg.DBPath, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, nil, fmt.Errorf("open store: %w", err)
	}
	targets, err := config.LoadTargets(cfg.TargetsFile)
	if err != nil {
		store.Close()
		_ = logger.Sync()
		return nil, nil, nil, nil, err
	}
	cleanup := func() {
		store.Close()
		_ = logger.Sync()
	}
	return logger, store, targets, cleanup, nil
}
