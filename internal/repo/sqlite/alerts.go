package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/danipagano/digital-collections-monitor/internal/domain"
	"github.com/danipagano/digital-collections-monitor/internal/repo"
)

func (s *Store) AddAlert(ctx context.Context, a *domain.AlertRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := a.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO alerts (collection_name, alert_type, message, timestamp, resolved)
		 VALUES (?, ?, ?, ?, ?)`,
		a.CollectionName, a.AlertType, a.Message, ts.UTC().Format(timeLayout), a.Resolved,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		a.ID = id
	}
	return nil
}

func (s *Store) Alerts(ctx context.Context, onlyUnresolved bool) ([]domain.AlertRecord, error) {
	q := `SELECT id, collection_name, alert_type, message, timestamp, resolved FROM alerts`
	if onlyUnresolved {
		q += ` WHERE resolved = FALSE`
	}
	q += ` ORDER BY timestamp DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var out []domain.AlertRecord
	for rows.Next() {
		var (
			a  domain.AlertRecord
			ts string
		)
		if err := rows.Scan(&a.ID, &a.CollectionName, &a.AlertType, &a.Message, &ts, &a.Resolved); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		t, err := time.Parse(timeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("parse alert timestamp %q: %w", ts, err)
		}
		a.Timestamp = t.UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) ResolveAlert(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `UPDATE alerts SET resolved = TRUE WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}
	if n == 0 {
		return repo.ErrNotFound
	}
	return nil
}
