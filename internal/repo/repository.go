package repo

import (
	"context"
	"errors"
	"time"

	"github.com/danipagano/digital-collections-monitor/internal/domain"
)

// ErrNotFound is returned by lookups and updates with no matching record.
var ErrNotFound = errors.New("not found")

// Ports (interfaces) — swap in any DB adapter later.

// ResultStore is the append-only log of probe outcomes plus its derived
// read views. Implementations must serialize concurrent writers.
type ResultStore interface {
	// Append persists the batch. Each record is written whole or not at
	// all; partial batches are reported through the returned error and
	// must never leave a half-written record behind.
	Append(ctx context.Context, results []domain.ProbeResult) error

	// CurrentStatus returns the most recent record per collection,
	// ordered by collection name ascending. Timestamp ties break on the
	// highest id.
	CurrentStatus(ctx context.Context) ([]domain.ProbeResult, error)

	// History returns every record with a timestamp strictly after since,
	// in chronological order.
	History(ctx context.Context, since time.Time) ([]domain.ProbeResult, error)
}

// AlertStore persists accessibility state-change alerts.
type AlertStore interface {
	AddAlert(ctx context.Context, a *domain.AlertRecord) error
	Alerts(ctx context.Context, onlyUnresolved bool) ([]domain.AlertRecord, error)
	ResolveAlert(ctx context.Context, id int64) error
}
