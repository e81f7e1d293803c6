package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Event mirrors the 'events' table.  event_id is the feed-assigned
// identifier; date is free text as published by the feed, not a validated
// calendar date.
type Event struct {
	ID          uint64    `json:"id"`
	LocationID  uint64    `json:"locationId"`
	EventID     string    `json:"eventId"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Presenter   string    `json:"presenter"`
	Price       string    `json:"price"`
	AgeLimit    string    `json:"ageLimit"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EventRepo encapsulates all database queries related to events.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

const eventColumns = "id, location_id, event_id, title, date, description, presenter, price, age_limit, url, created_at"

func scanEvent(row interface{ Scan(...any) error }) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.LocationID, &e.EventID, &e.Title, &e.Date, &e.Description,
		&e.Presenter, &e.Price, &e.AgeLimit, &e.URL, &e.CreatedAt)
	return e, err
}

// Create inserts a single event (admin surface) and populates its ID.
func (r *EventRepo) Create(ctx context.Context, e *Event) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO events (location_id, event_id, title, date, description, presenter, price, age_limit, url) VALUES (?,?,?,?,?,?,?,?,?)",
		e.LocationID, e.EventID, e.Title, e.Date, e.Description, e.Presenter, e.Price, e.AgeLimit, e.URL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// InsertBatch bulk-inserts the events collected during aggregation with a
// single multi-row statement.
func (r *EventRepo) InsertBatch(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("INSERT INTO events (location_id, event_id, title, date, description, presenter, price, age_limit, url) VALUES ")
	args := make([]any, 0, len(events)*9)
	for i, e := range events {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?,?,?,?,?,?,?,?)")
		args = append(args, e.LocationID, e.EventID, e.Title, e.Date, e.Description,
			e.Presenter, e.Price, e.AgeLimit, e.URL)
	}
	_, err := r.DB.ExecContext(ctx, sb.String(), args...)
	return err
}

// GetByID fetches a single event.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (Event, error) {
	e, err := scanEvent(r.DB.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, ErrEventNotFound
	}
	return e, err
}

// ListByLocation returns all events belonging to a location.
func (r *EventRepo) ListByLocation(ctx context.Context, locationID uint64) ([]Event, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE location_id=?", locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Random picks one event uniformly at random along with its location.  The
// catalog holds at most a few hundred rows, so ORDER BY RAND() is fine.
func (r *EventRepo) Random(ctx context.Context) (Event, Location, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT e.id, e.location_id, e.event_id, e.title, e.date, e.description, e.presenter, e.price, e.age_limit, e.url, e.created_at,
		        l.id, l.venue_id, l.name, l.description, l.latitude, l.longitude, l.event_count, l.favorite_count, l.last_updated, l.created_at
		 FROM events e JOIN locations l ON l.id = e.location_id
		 ORDER BY RAND() LIMIT 1`)
	var e Event
	var l Location
	err := row.Scan(&e.ID, &e.LocationID, &e.EventID, &e.Title, &e.Date, &e.Description,
		&e.Presenter, &e.Price, &e.AgeLimit, &e.URL, &e.CreatedAt,
		&l.ID, &l.VenueID, &l.Name, &l.Description, &l.Latitude, &l.Longitude,
		&l.EventCount, &l.FavoriteCount, &l.LastUpdated, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, Location{}, ErrEventNotFound
	}
	return e, l, err
}

// Update rewrites the mutable fields of an event.
func (r *EventRepo) Update(ctx context.Context, e *Event) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE events SET location_id=?, event_id=?, title=?, date=?, description=?, presenter=?, price=?, age_limit=?, url=? WHERE id=?",
		e.LocationID, e.EventID, e.Title, e.Date, e.Description, e.Presenter, e.Price, e.AgeLimit, e.URL, e.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, e.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a single event.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// DeleteAll wipes the table ahead of a fresh import.
func (r *EventRepo) DeleteAll(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM events")
	return err
}

// DeleteByLocationNotIn removes every event whose owning location is not in
// keep.  An empty keep set removes all events.
func (r *EventRepo) DeleteByLocationNotIn(ctx context.Context, keep []uint64) error {
	if len(keep) == 0 {
		return r.DeleteAll(ctx)
	}
	placeholders, args := inArgs(keep)
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM events WHERE location_id NOT IN ("+placeholders+")", args...)
	return err
}

// Count returns the number of persisted events.
func (r *EventRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&n)
	return n, err
}
