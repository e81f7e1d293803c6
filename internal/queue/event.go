// Package queue defines message payloads exchanged over the message broker.
package queue

// ImportCompletedEvent is published once the startup import has reconciled
// the catalog.  It carries enough for downstream consumers to log or alert
// on without querying the database.
type ImportCompletedEvent struct {
	RunID      string `json:"run_id"`
	Locations  int    `json:"locations"`
	Events     int    `json:"events"`
	DurationMS int64  `json:"duration_ms"`
	FinishedAt string `json:"finished_at"`
}
