package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/danipagano/digital-collections-monitor/internal/domain"
	"github.com/danipagano/digital-collections-monitor/internal/probe"
)

// Scheduler fans probes out across a bounded worker pool and collects
// results as they complete, in no particular order.
type Scheduler struct {
	Logger      *zap.Logger
	Checker     probe.Checker
	Timeout     time.Duration
	Concurrency int

	// OnResult, when set, is called from the collecting goroutine as each
	// result arrives. Used for per-target progress lines; advisory only.
	OnResult func(domain.ProbeResult)
}

func New(logger *zap.Logger, checker probe.Checker, timeout time.Duration, concurrency int) *Scheduler {
	if concurrency < 1 {
		concurrency = 5
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Scheduler{
		Logger:      logger,
		Checker:     checker,
		Timeout:     timeout,
		Concurrency: concurrency,
	}
}

// Run probes every target exactly once and returns one result per target.
// A probe failure is an ordinary result, not a scheduler failure; Run only
// returns after all targets have reported.
func (s *Scheduler) Run(ctx context.Context, targets []domain.Target) []domain.ProbeResult {
	results := make(chan domain.ProbeResult, len(targets))
	sem := make(chan struct{}, s.Concurrency)
	var wg sync.WaitGroup

	for _, tgt := range targets {
		t := tgt
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()
			results <- s.probeOne(ctx, t)
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]domain.ProbeResult, 0, len(targets))
	for r := range results {
		if s.OnResult != nil {
			s.OnResult(r)
		}
		s.Logger.Debug("probe_result",
			zap.String("collection", r.CollectionName),
			zap.String("url", r.URL),
			zap.Bool("accessible", r.IsAccessible),
		)
		out = append(out, r)
	}
	return out
}

// probeOne runs a single check under its own deadline. A panic escaping
// the checker still produces a result so the cycle never loses a target.
func (s *Scheduler) probeOne(ctx context.Context, t domain.Target) (res domain.ProbeResult) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("Unexpected error: %v", r)
			res = domain.ProbeResult{
				CollectionName: t.Name,
				URL:            t.URL,
				Timestamp:      time.Now().UTC(),
				ErrorMessage:   &msg,
			}
			s.Logger.Warn("probe_panic",
				zap.String("collection", t.Name),
				zap.String("url", t.URL),
				zap.Any("panic", r),
			)
		}
	}()

	cctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	return s.Checker.Check(cctx, t.Name, t.URL)
}
