package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danipagano/digital-collections-monitor/internal/domain"
	"github.com/danipagano/digital-collections-monitor/internal/probe"
	"github.com/danipagano/digital-collections-monitor/internal/scheduler"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one monitoring cycle",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger, store, targets, cleanup, err := setup(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		sched := scheduler.New(logger, probe.NewHTTPChecker(cfg.Timeout), cfg.Timeout, cfg.Concurrency)
		sched.OnResult = printProgress
		runner := scheduler.NewRunner(logger, sched, store, store, targets, 0)

		fmt.Printf("Starting monitoring cycle at %s\n", time.Now().Format("2006-01-02 15:04:05"))
		fmt.Printf("Monitoring %d digital collections...\n", len(targets))

		sum, err := runner.RunOnce(ctx)
		if err != nil {
			return fmt.Errorf("monitoring cycle: %w", err)
		}

		fmt.Printf("\nMonitoring cycle completed. Results saved to %s\n", cfg.DBPath)
		fmt.Printf("Summary: %d/%d collections accessible\n", sum.Accessible, sum.Total)
		return nil
	},
}

func printProgress(r domain.ProbeResult) {
	status := "✅ UP"
	if !r.IsAccessible {
		status = "❌ DOWN"
	}
	rt := ""
	if r.ResponseTime != nil {
		rt = fmt.Sprintf(" (%.2fs)", *r.ResponseTime)
	}
	detail := ""
	if r.ErrorMessage != nil {
		detail = " - " + *r.ErrorMessage
	}
	fmt.Printf("%s %s%s%s\n", status, r.CollectionName, rt, detail)
}
