package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/danipagano/digital-collections-monitor/internal/domain"
)

// recordAlerts writes a down/recovered AlertRecord for every collection
// whose accessibility flipped since the previous cycle. First-ever
// observations record nothing; there is no prior state to flip from.
// Alert writes are best effort and never fail the cycle.
func (r *Runner) recordAlerts(ctx context.Context, prev map[string]bool, results []domain.ProbeResult) {
	for _, res := range results {
		was, seen := prev[res.CollectionName]
		if !seen || was == res.IsAccessible {
			continue
		}

		a := &domain.AlertRecord{
			CollectionName: res.CollectionName,
			Timestamp:      res.Timestamp,
		}
		if res.IsAccessible {
			a.AlertType = domain.AlertTypeRecovered
			a.Message = fmt.Sprintf("%s is accessible again", res.CollectionName)
		} else {
			a.AlertType = domain.AlertTypeDown
			detail := "no response"
			if res.ErrorMessage != nil {
				detail = *res.ErrorMessage
			}
			a.Message = fmt.Sprintf("%s is inaccessible: %s", res.CollectionName, detail)
		}

		if err := r.Alerts.AddAlert(ctx, a); err != nil {
			r.Logger.Warn("alert_append_error",
				zap.String("collection", res.CollectionName),
				zap.Error(err),
			)
			continue
		}
		r.Logger.Info("alert_recorded",
			zap.String("collection", res.CollectionName),
			zap.String("type", a.AlertType),
		)
	}
}
