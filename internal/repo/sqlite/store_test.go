package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/danipagano/digital-collections-monitor/internal/domain"
	"github.com/danipagano/digital-collections-monitor/internal/repo"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func result(name string, ts time.Time, ok bool) domain.ProbeResult {
	r := domain.ProbeResult{
		CollectionName: name,
		URL:            "https://example.org/" + name,
		Timestamp:      ts,
		IsAccessible:   ok,
	}
	if ok {
		code := 200
		rt := 0.12
		length := int64(4096)
		r.StatusCode = &code
		r.ResponseTime = &rt
		r.ContentLength = &length
	} else {
		msg := "Connection error"
		r.ErrorMessage = &msg
	}
	return r
}

func TestNew_EnablesWAL(t *testing.T) {
	s := newTestStore(t)

	var mode string
	if err := s.db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("journal_mode = %q, want wal", mode)
	}
}

func TestAppendAndHistory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	ts := time.Date(2026, 8, 1, 12, 0, 0, 123456789, time.UTC)

	if err := s.Append(ctx, []domain.ProbeResult{result("a", ts, true), result("b", ts, false)}); err != nil {
		t.Fatalf("append: %v", err)
	}

	hist, err := s.History(ctx, ts.Add(-time.Hour))
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("want 2 records, got %d", len(hist))
	}

	a := hist[0]
	if a.CollectionName != "a" || !a.Timestamp.Equal(ts) {
		t.Fatalf("round trip mangled record: %+v", a)
	}
	if a.StatusCode == nil || *a.StatusCode != 200 || a.ResponseTime == nil || *a.ResponseTime != 0.12 {
		t.Fatalf("nullable columns lost: %+v", a)
	}
	if a.ErrorMessage != nil {
		t.Fatalf("accessible record must carry no error message: %+v", a)
	}

	b := hist[1]
	if b.StatusCode != nil || b.ResponseTime != nil || b.ContentLength != nil {
		t.Fatalf("failed record must keep optional columns NULL: %+v", b)
	}
	if b.ErrorMessage == nil || *b.ErrorMessage != "Connection error" {
		t.Fatalf("failed record lost its error message: %+v", b)
	}
}

func TestTimestampColumnRoundTripsAsText(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	ts := time.Date(2026, 8, 1, 12, 0, 0, 123456789, time.UTC)

	if err := s.Append(ctx, []domain.ProbeResult{result("a", ts, true)}); err != nil {
		t.Fatalf("append: %v", err)
	}

	// The column must hand back exactly the fixed-width string that was
	// written; a DATETIME declared type would make the driver rewrite it.
	var raw string
	if err := s.db.QueryRowContext(ctx, `SELECT timestamp FROM monitoring_results`).Scan(&raw); err != nil {
		t.Fatalf("scan raw timestamp: %v", err)
	}
	if want := ts.Format(timeLayout); raw != want {
		t.Fatalf("stored timestamp %q, want %q", raw, want)
	}

	cur, err := s.CurrentStatus(ctx)
	if err != nil {
		t.Fatalf("current status: %v", err)
	}
	if len(cur) != 1 || !cur[0].Timestamp.Equal(ts) {
		t.Fatalf("timestamp mangled on read: %+v", cur)
	}
}

func TestCurrentStatus_LatestPerCollection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	s.Append(ctx, []domain.ProbeResult{
		result("b", base, true),
		result("a", base, true),
	})
	s.Append(ctx, []domain.ProbeResult{
		result("a", base.Add(time.Minute), false),
		result("b", base.Add(time.Minute), true),
	})

	cur, err := s.CurrentStatus(ctx)
	if err != nil {
		t.Fatalf("current status: %v", err)
	}
	if len(cur) != 2 {
		t.Fatalf("want one record per collection, got %d", len(cur))
	}
	if cur[0].CollectionName != "a" || cur[1].CollectionName != "b" {
		t.Fatalf("want name-ascending order, got %+v", cur)
	}
	if cur[0].IsAccessible || !cur[0].Timestamp.Equal(base.Add(time.Minute)) {
		t.Fatalf("latest record for a is wrong: %+v", cur[0])
	}
}

func TestCurrentStatus_TieBreakHighestID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	s.Append(ctx, []domain.ProbeResult{
		result("a", ts, true),
		result("a", ts, false),
	})

	cur, err := s.CurrentStatus(ctx)
	if err != nil {
		t.Fatalf("current status: %v", err)
	}
	if len(cur) != 1 || cur[0].IsAccessible {
		t.Fatalf("tie on timestamp should break on highest id, got %+v", cur)
	}
}

func TestHistory_BoundaryExcluded(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	ts := time.Date(2026, 8, 1, 12, 0, 0, 500000000, time.UTC)

	s.Append(ctx, []domain.ProbeResult{result("a", ts, true)})

	hist, err := s.History(ctx, ts)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 0 {
		t.Fatalf("timestamp == since must be excluded, got %+v", hist)
	}

	hist, err = s.History(ctx, ts.Add(-time.Nanosecond))
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 1 {
		t.Fatalf("timestamp > since must be included, got %+v", hist)
	}
}

func TestAppend_EmptyBatchIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.Append(ctx, nil); err != nil {
		t.Fatalf("empty append should succeed: %v", err)
	}
}

func TestAlerts_AddListResolve(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a1 := &domain.AlertRecord{CollectionName: "a", AlertType: domain.AlertTypeDown, Message: "a is inaccessible: HTTP 500"}
	a2 := &domain.AlertRecord{CollectionName: "b", AlertType: domain.AlertTypeRecovered, Message: "b is accessible again"}
	if err := s.AddAlert(ctx, a1); err != nil {
		t.Fatalf("add alert: %v", err)
	}
	if err := s.AddAlert(ctx, a2); err != nil {
		t.Fatalf("add alert: %v", err)
	}
	if a1.ID == 0 || a2.ID == 0 {
		t.Fatalf("ids not assigned: %d %d", a1.ID, a2.ID)
	}

	if err := s.ResolveAlert(ctx, a1.ID); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	open, err := s.Alerts(ctx, true)
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if len(open) != 1 || open[0].CollectionName != "b" || open[0].Resolved {
		t.Fatalf("want only b unresolved, got %+v", open)
	}

	all, err := s.Alerts(ctx, false)
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("want 2 alerts total, got %d", len(all))
	}

	if err := s.ResolveAlert(ctx, 12345); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("want ErrNotFound for unknown id, got %v", err)
	}
}
