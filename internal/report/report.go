// Package report renders the human-facing status report. It is a pure
// consumer of the store's current-status view and the stats aggregates.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/danipagano/digital-collections-monitor/internal/domain"
	"github.com/danipagano/digital-collections-monitor/internal/stats"
)

// Report is the display-ready combination of a current-status snapshot
// and a windowed uptime aggregate.
type Report struct {
	GeneratedAt time.Time
	Window      time.Duration
	Current     []domain.ProbeResult
	Stats       map[string]stats.CollectionStats
}

func Build(current []domain.ProbeResult, st map[string]stats.CollectionStats, window time.Duration, now time.Time) Report {
	return Report{
		GeneratedAt: now,
		Window:      window,
		Current:     current,
		Stats:       st,
	}
}

func (r Report) UpCount() int {
	n := 0
	for _, res := range r.Current {
		if res.IsAccessible {
			n++
		}
	}
	return n
}

func (r Report) DownCount() int {
	return len(r.Current) - r.UpCount()
}

// Render writes the formatted report. Layout: header, current UP/DOWN
// snapshot, then the windowed uptime section with 99%/95% tiers.
func (r Report) Render(w io.Writer) {
	line := func(format string, args ...any) {
		fmt.Fprintf(w, format+"\n", args...)
	}

	sep := "================================================================================"
	line("%s", sep)
	line("DIGITAL COLLECTIONS STATUS REPORT")
	line("%s", sep)
	line("Report generated: %s", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	line("Monitoring %d digital collections", len(r.Current))
	line("")

	line("Current Status: %d UP, %d DOWN", r.UpCount(), r.DownCount())
	line("%s", "----------------------------------------")
	for _, res := range r.Current {
		icon := "✅"
		if !res.IsAccessible {
			icon = "❌"
		}
		rt := ""
		if res.ResponseTime != nil {
			rt = fmt.Sprintf(" (%.2fs)", *res.ResponseTime)
		}
		errMsg := ""
		if res.ErrorMessage != nil {
			errMsg = " - " + *res.ErrorMessage
		}
		line("%s %s%s%s", icon, res.CollectionName, rt, errMsg)
	}

	if len(r.Stats) == 0 {
		return
	}

	line("")
	line("%d-Hour Uptime Statistics:", int(r.Window.Hours()))
	line("%s", "----------------------------------------")
	for _, name := range stats.SortedNames(r.Stats) {
		s := r.Stats[name]
		tier := "🔴"
		switch {
		case s.UptimePercent >= 99:
			tier = "🟢"
		case s.UptimePercent >= 95:
			tier = "🟡"
		}
		avg := ""
		if s.AvgResponseTime != nil {
			avg = fmt.Sprintf(" (avg: %.2fs)", *s.AvgResponseTime)
		}
		line("%s %s: %.2f%% uptime (%d checks)%s", tier, name, s.UptimePercent, s.TotalChecks, avg)
	}
}
