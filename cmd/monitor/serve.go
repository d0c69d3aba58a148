package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danipagano/digital-collections-monitor/internal/config"
	"github.com/danipagano/digital-collections-monitor/internal/httpapi"
	"github.com/danipagano/digital-collections-monitor/internal/probe"
	"github.com/danipagano/digital-collections-monitor/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run periodic monitoring cycles and the status API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger, store, targets, cleanup, err := setup(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		sched := scheduler.New(logger, probe.NewHTTPChecker(cfg.Timeout), cfg.Timeout, cfg.Concurrency)
		runner := scheduler.NewRunner(logger, sched, store, store, targets, cfg.Interval)
		go runner.Run(ctx)

		if cfg.TargetsFile != "" {
			go func() {
				if err := config.WatchTargets(ctx, logger, cfg.TargetsFile, runner.SetTargets); err != nil {
					logger.Warn("targets_watch_failed", zap.Error(err))
				}
			}()
		}

		api := httpapi.NewServer(logger, store, store, cfg.Window)
		srv := &http.Server{Addr: cfg.Addr, Handler: api.Router()}

		go func() {
			<-ctx.Done()
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shCtx)
		}()

		logger.Info("api_listen", zap.String("addr", cfg.Addr))
		fmt.Printf("Serving status API on %s (cycle every %s)\n", cfg.Addr, cfg.Interval)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().DurationVar(&cfg.Interval, "interval", cfg.Interval, "time between monitoring cycles")
	serveCmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "status API bind address")
}
