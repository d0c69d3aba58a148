package domain

import "time"

// Alert types recorded when a collection's accessibility flips.
const (
	AlertTypeDown      = "down"
	AlertTypeRecovered = "recovered"
)

// AlertRecord marks an accessibility state change for a collection.
// Records are stored for later inspection; no delivery transport exists.
type AlertRecord struct {
	ID             int64     `json:"id"`
	CollectionName string    `json:"collection_name"`
	AlertType      string    `json:"alert_type"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
	Resolved       bool      `json:"resolved"`
}
