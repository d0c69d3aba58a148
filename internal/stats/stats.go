// Package stats derives windowed availability aggregates from probe
// history. Everything here is a pure function of its inputs.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/danipagano/digital-collections-monitor/internal/domain"
)

// CollectionStats summarizes availability for one collection over a
// trailing window.
type CollectionStats struct {
	UptimePercent    float64  `json:"uptime_percent"`
	TotalChecks      int      `json:"total_checks"`
	SuccessfulChecks int      `json:"successful_checks"`
	AvgResponseTime  *float64 `json:"avg_response_time"` // seconds, nil if nothing was timed
}

// Uptime computes per-collection stats over the window ending at now.
// Records at or before now-window are excluded. Collections with no
// records in the window get no entry.
func Uptime(history []domain.ProbeResult, window time.Duration, now time.Time) map[string]CollectionStats {
	cutoff := now.Add(-window)

	type acc struct {
		total, ok, timed int
		sum              float64
	}
	byName := make(map[string]*acc)
	for _, r := range history {
		if !r.Timestamp.After(cutoff) {
			continue
		}
		a := byName[r.CollectionName]
		if a == nil {
			a = &acc{}
			byName[r.CollectionName] = a
		}
		a.total++
		if r.IsAccessible {
			a.ok++
		}
		if r.ResponseTime != nil {
			a.sum += *r.ResponseTime
			a.timed++
		}
	}

	out := make(map[string]CollectionStats, len(byName))
	for name, a := range byName {
		s := CollectionStats{
			TotalChecks:      a.total,
			SuccessfulChecks: a.ok,
		}
		if a.total > 0 {
			s.UptimePercent = round2(float64(a.ok) / float64(a.total) * 100)
		}
		if a.timed > 0 {
			avg := round2(a.sum / float64(a.timed))
			s.AvgResponseTime = &avg
		}
		out[name] = s
	}
	return out
}

// SortedNames returns the collection names ascending, for deterministic
// rendering of the map.
func SortedNames(m map[string]CollectionStats) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
