package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/danipagano/digital-collections-monitor/internal/domain"
	"github.com/danipagano/digital-collections-monitor/internal/repo"
)

var _ repo.ResultStore = (*Store)(nil)
var _ repo.AlertStore = (*Store)(nil)

// Store keeps results and alerts in memory behind a mutex. Used in tests
// and as a stand-in while no database file is wanted.
type Store struct {
	mu         sync.RWMutex
	results    []domain.ProbeResult
	alerts     []domain.AlertRecord
	nextResult int64
	nextAlert  int64
}

func New() *Store {
	return &Store{
		results:    make([]domain.ProbeResult, 0, 128),
		nextResult: 1,
		nextAlert:  1,
	}
}

func (m *Store) Append(ctx context.Context, results []domain.ProbeResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range results {
		r.ID = m.nextResult
		m.nextResult++
		if r.Timestamp.IsZero() {
			r.Timestamp = time.Now().UTC()
		}
		m.results = append(m.results, r)
	}
	return nil
}

func (m *Store) CurrentStatus(ctx context.Context) ([]domain.ProbeResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	latest := make(map[string]domain.ProbeResult)
	for _, r := range m.results {
		cur, ok := latest[r.CollectionName]
		if !ok || r.Timestamp.After(cur.Timestamp) ||
			(r.Timestamp.Equal(cur.Timestamp) && r.ID > cur.ID) {
			latest[r.CollectionName] = r
		}
	}

	out := make([]domain.ProbeResult, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CollectionName < out[j].CollectionName })
	return out, nil
}

func (m *Store) History(ctx context.Context, since time.Time) ([]domain.ProbeResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.ProbeResult
	for _, r := range m.results {
		if r.Timestamp.After(since) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Store) AddAlert(ctx context.Context, a *domain.AlertRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = m.nextAlert
	m.nextAlert++
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	m.alerts = append(m.alerts, *a)
	return nil
}

func (m *Store) Alerts(ctx context.Context, onlyUnresolved bool) ([]domain.AlertRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.AlertRecord
	for _, a := range m.alerts {
		if onlyUnresolved && a.Resolved {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Store) ResolveAlert(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.alerts {
		if m.alerts[i].ID == id {
			m.alerts[i].Resolved = true
			return nil
		}
	}
	return repo.ErrNotFound
}
