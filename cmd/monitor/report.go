package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/danipagano/digital-collections-monitor/internal/report"
	"github.com/danipagano/digital-collections-monitor/internal/stats"
)

var reportWindowHours int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the current status and uptime report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, store, _, cleanup, err := setup(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		window := time.Duration(reportWindowHours) * time.Hour
		now := time.Now().UTC()

		current, err := store.CurrentStatus(ctx)
		if err != nil {
			return fmt.Errorf("current status: %w", err)
		}
		history, err := store.History(ctx, now.Add(-window))
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}

		rep := report.Build(current, stats.Uptime(history, window, now), window, now)
		rep.Render(os.Stdout)
		return nil
	},
}

func init() {
	reportCmd.Flags().IntVar(&reportWindowHours, "window", int(cfg.Window.Hours()), "uptime window in hours")
}
