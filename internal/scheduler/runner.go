package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/danipagano/digital-collections-monitor/internal/domain"
	"github.com/danipagano/digital-collections-monitor/internal/repo"
)

// Runner executes monitoring cycles: fan out one probe per target,
// persist the batch, record state-change alerts. A storage failure fails
// the cycle; it is never reported as a completed cycle.
type Runner struct {
	Logger    *zap.Logger
	Scheduler *Scheduler
	Results   repo.ResultStore
	Alerts    repo.AlertStore // optional; nil disables alert recording
	Interval  time.Duration   // loop period for Run; 0 disables the loop

	mu      sync.RWMutex
	targets []domain.Target
}

func NewRunner(
	logger *zap.Logger,
	sched *Scheduler,
	results repo.ResultStore,
	alerts repo.AlertStore,
	targets []domain.Target,
	interval time.Duration,
) *Runner {
	return &Runner{
		Logger:    logger,
		Scheduler: sched,
		Results:   results,
		Alerts:    alerts,
		Interval:  interval,
		targets:   targets,
	}
}

// SetTargets swaps the target list; the next cycle picks it up.
func (r *Runner) SetTargets(targets []domain.Target) {
	r.mu.Lock()
	r.targets = targets
	r.mu.Unlock()
	r.Logger.Info("targets_updated", zap.Int("count", len(targets)))
}

func (r *Runner) Targets() []domain.Target {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.targets
}

// CycleSummary reports one completed monitoring cycle.
type CycleSummary struct {
	Total      int
	Accessible int
	StartedAt  time.Time
	Duration   time.Duration
}

// RunOnce performs a complete monitoring cycle and returns its summary.
func (r *Runner) RunOnce(ctx context.Context) (CycleSummary, error) {
	start := time.Now().UTC()
	targets := r.Targets()

	// Snapshot previous accessibility before the new batch lands, so the
	// alert detector can see state flips.
	var prev map[string]bool
	if r.Alerts != nil {
		cur, err := r.Results.CurrentStatus(ctx)
		if err != nil {
			r.Logger.Warn("current_status_error", zap.Error(err))
		} else {
			prev = make(map[string]bool, len(cur))
			for _, res := range cur {
				prev[res.CollectionName] = res.IsAccessible
			}
		}
	}

	results := r.Scheduler.Run(ctx, targets)
	if err := r.Results.Append(ctx, results); err != nil {
		return CycleSummary{}, fmt.Errorf("append results: %w", err)
	}

	if r.Alerts != nil {
		r.recordAlerts(ctx, prev, results)
	}

	sum := CycleSummary{
		Total:     len(results),
		StartedAt: start,
		Duration:  time.Since(start),
	}
	for _, res := range results {
		if res.IsAccessible {
			sum.Accessible++
		}
	}
	r.Logger.Info("cycle_done",
		zap.Int("total", sum.Total),
		zap.Int("accessible", sum.Accessible),
		zap.Duration("duration", sum.Duration),
	)
	return sum, nil
}

// Run executes cycles on a ticker until ctx is cancelled, starting with
// an immediate pass.
func (r *Runner) Run(ctx context.Context) {
	if r.Interval <= 0 {
		r.Logger.Info("runner_disabled")
		return
	}
	t := time.NewTicker(r.Interval)
	defer t.Stop()

	if _, err := r.RunOnce(ctx); err != nil {
		r.Logger.Error("cycle_failed", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("runner_stopped")
			return
		case <-t.C:
			if _, err := r.RunOnce(ctx); err != nil {
				r.Logger.Error("cycle_failed", zap.Error(err))
			}
		}
	}
}
