package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/danipagano/digital-collections-monitor/internal/domain"
	"github.com/danipagano/digital-collections-monitor/internal/repo"
)

var _ repo.ResultStore = (*Store)(nil)
var _ repo.AlertStore = (*Store)(nil)

// timeLayout is fixed-width UTC so that lexicographic order over the
// stored TEXT column is chronological order. The columns are declared
// TEXT, not DATETIME, so the driver hands the string back untouched.
const timeLayout = "2006-01-02 15:04:05.000000000"

// Store is the SQLite-backed result and alert store. Writes go through a
// single-writer mutex; SQLite serializes at the file level but the mutex
// keeps batch appends from interleaving at the connection pool level.
type Store struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
}

func New(ctx context.Context, path string, log *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctxPing); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	s := &Store{db: db, log: log}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS monitoring_results (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	collection_name TEXT NOT NULL,
	url             TEXT NOT NULL,
	status_code     INTEGER,
	response_time   REAL,
	content_length  INTEGER,
	timestamp       TEXT DEFAULT CURRENT_TIMESTAMP,
	error_message   TEXT,
	is_accessible   BOOLEAN
);
CREATE INDEX IF NOT EXISTS idx_results_name_ts ON monitoring_results (collection_name, timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_results_ts ON monitoring_results (timestamp);

CREATE TABLE IF NOT EXISTS alerts (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	collection_name TEXT NOT NULL,
	alert_type      TEXT NOT NULL,
	message         TEXT NOT NULL,
	timestamp       TEXT DEFAULT CURRENT_TIMESTAMP,
	resolved        BOOLEAN DEFAULT FALSE
);
`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// ---- ResultStore ----

// Append writes the batch inside one transaction. Per-record failures are
// collected; any failure rolls the whole batch back so a partial record
// can never become visible.
func (s *Store) Append(ctx context.Context, results []domain.ProbeResult) error {
	if len(results) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	var errs error
	for _, r := range results {
		ts := r.Timestamp
		if ts.IsZero() {
			ts = time.Now().UTC()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO monitoring_results
			   (collection_name, url, status_code, response_time, content_length, timestamp, error_message, is_accessible)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.CollectionName, r.URL, r.StatusCode, r.ResponseTime, r.ContentLength,
			ts.UTC().Format(timeLayout), r.ErrorMessage, r.IsAccessible,
		)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("insert result for %q: %w", r.CollectionName, err))
		}
	}
	if errs != nil {
		return errs
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	s.log.Debug("results_appended", zap.Int("count", len(results)))
	return nil
}

func (s *Store) CurrentStatus(ctx context.Context) ([]domain.ProbeResult, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, collection_name, url, status_code, response_time, content_length, timestamp, error_message, is_accessible
  FROM monitoring_results r
 WHERE r.id = (SELECT id
                 FROM monitoring_results
                WHERE collection_name = r.collection_name
                ORDER BY timestamp DESC, id DESC
                LIMIT 1)
 ORDER BY collection_name`)
	if err != nil {
		return nil, fmt.Errorf("current status: %w", err)
	}
	defer rows.Close()
	return scanResults(rows)
}

func (s *Store) History(ctx context.Context, since time.Time) ([]domain.ProbeResult, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, collection_name, url, status_code, response_time, content_length, timestamp, error_message, is_accessible
  FROM monitoring_results
 WHERE timestamp > ?
 ORDER BY timestamp, id`,
		since.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	defer rows.Close()
	return scanResults(rows)
}

func scanResults(rows *sql.Rows) ([]domain.ProbeResult, error) {
	var out []domain.ProbeResult
	for rows.Next() {
		var (
			r      domain.ProbeResult
			code   sql.NullInt64
			rt     sql.NullFloat64
			length sql.NullInt64
			ts     string
			errMsg sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.CollectionName, &r.URL, &code, &rt, &length, &ts, &errMsg, &r.IsAccessible); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if code.Valid {
			v := int(code.Int64)
			r.StatusCode = &v
		}
		if rt.Valid {
			v := rt.Float64
			r.ResponseTime = &v
		}
		if length.Valid {
			v := length.Int64
			r.ContentLength = &v
		}
		if errMsg.Valid {
			v := errMsg.String
			r.ErrorMessage = &v
		}
		t, err := time.Parse(timeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		r.Timestamp = t.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}
