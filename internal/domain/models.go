package domain

import "time"

// Target is one named digital collection endpoint under observation.
// Targets are supplied by configuration and referenced by name in results;
// they are never persisted as their own entity.
type Target struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// ProbeResult is one reachability observation for a collection. It is
// created once at the end of a probe attempt and appended immutably.
//
// The nullable columns are pointers: a probe that never completed a
// response leaves StatusCode, ResponseTime and ContentLength unset.
type ProbeResult struct {
	ID             int64     `json:"id"`
	CollectionName string    `json:"collection_name"`
	URL            string    `json:"url"`
	StatusCode     *int      `json:"status_code"`
	ResponseTime   *float64  `json:"response_time"` // seconds
	ContentLength  *int64    `json:"content_length"`
	Timestamp      time.Time `json:"timestamp"`
	ErrorMessage   *string   `json:"error_message"`
	IsAccessible   bool      `json:"is_accessible"`
}
