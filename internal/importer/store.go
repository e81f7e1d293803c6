// Package importer runs the startup pipeline that turns the raw LCSD feeds
// into the bounded venue catalog served by the API: parse, deduplicate,
// aggregate, select and reconcile.  It runs exactly once per process start,
// before the HTTP listener opens.
package importer

import "context"

// EventPayload is one persisted event row queued during aggregation and
// bulk-inserted once all feed events have been walked.
type EventPayload struct {
	LocationID  uint64
	EventID     string
	Title       string
	Date        string
	Description string
	Presenter   string
	Price       string
	AgeLimit    string
	URL         string
}

// BootstrapAccount is an account ensured to exist at startup.
type BootstrapAccount struct {
	Username string
	Password string
	Email    string
	Role     string
}

// Store is the narrow persistence surface the pipeline needs.  Keeping it
// small lets the selection and aggregation logic run against an in-memory
// fake in tests.
type Store interface {
	// ClearCatalog removes all persisted locations and events ahead of a
	// fresh import.
	ClearCatalog(ctx context.Context) error

	// EnsureAccount creates the account unless its username already exists.
	EnsureAccount(ctx context.Context, acc BootstrapAccount) error

	// CreateLocation persists a location with a zero event count and
	// returns its row id.
	CreateLocation(ctx context.Context, venueID, name string, lat, lng float64) (uint64, error)

	// InsertEvents bulk-inserts the queued event payloads.
	InsertEvents(ctx context.Context, events []EventPayload) error

	// DeleteLocationsNotIn prunes every location whose id is absent from
	// keep.  An empty keep set prunes everything.
	DeleteLocationsNotIn(ctx context.Context, keep []uint64) error

	// DeleteEventsNotIn prunes every event whose owning location is absent
	// from keep.
	DeleteEventsNotIn(ctx context.Context, keep []uint64) error

	// RecountEvents rewrites event_count for each kept location from the
	// actual number of persisted events referencing it.
	RecountEvents(ctx context.Context, keep []uint64) error
}
