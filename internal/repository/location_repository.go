package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Location mirrors the 'locations' table.  venue_id is the external id the
// feed assigned to the venue; event_count is a cache rewritten by the import
// reconciliation step and is only authoritative after it runs.
type Location struct {
	ID            uint64    `json:"id"`
	VenueID       string    `json:"venueId"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	EventCount    int       `json:"eventCount"`
	FavoriteCount int       `json:"favoriteCount"`
	LastUpdated   time.Time `json:"lastUpdated"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LocationRepo encapsulates all database queries related to locations.
type LocationRepo struct{ DB *sql.DB }

func NewLocationRepo(db *sql.DB) *LocationRepo { return &LocationRepo{DB: db} }

const locationColumns = "id, venue_id, name, description, latitude, longitude, event_count, favorite_count, last_updated, created_at"

func scanLocation(row interface{ Scan(...any) error }) (Location, error) {
	var l Location
	err := row.Scan(&l.ID, &l.VenueID, &l.Name, &l.Description, &l.Latitude, &l.Longitude,
		&l.EventCount, &l.FavoriteCount, &l.LastUpdated, &l.CreatedAt)
	return l, err
}

// Create inserts a new location and populates its ID.
func (r *LocationRepo) Create(ctx context.Context, l *Location) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO locations (venue_id, name, description, latitude, longitude, event_count, favorite_count, last_updated) VALUES (?,?,?,?,?,?,?,?)",
		l.VenueID, l.Name, l.Description, l.Latitude, l.Longitude, l.EventCount, l.FavoriteCount, time.Now().UTC())
	if err != nil {
		if isDuplicate(err) {
			return ErrVenueExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// GetByID fetches a single location.
func (r *LocationRepo) GetByID(ctx context.Context, id uint64) (Location, error) {
	l, err := scanLocation(r.DB.QueryRowContext(ctx,
		"SELECT "+locationColumns+" FROM locations WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Location{}, ErrLocationNotFound
	}
	return l, err
}

// ListAll returns every persisted location.  The catalog is capped at ten
// rows by the import pipeline, so no pagination is needed.
func (r *LocationRepo) ListAll(ctx context.Context) ([]Location, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+locationColumns+" FROM locations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Search matches the query against name and description, case-insensitively.
func (r *LocationRepo) Search(ctx context.Context, q string) ([]Location, error) {
	pattern := "%" + q + "%"
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+locationColumns+" FROM locations WHERE name LIKE ? OR description LIKE ? LIMIT 10",
		pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a location.
func (r *LocationRepo) Update(ctx context.Context, l *Location) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE locations SET venue_id=?, name=?, description=?, latitude=?, longitude=?, last_updated=? WHERE id=?",
		l.VenueID, l.Name, l.Description, l.Latitude, l.Longitude, time.Now().UTC(), l.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrVenueExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, l.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a location; its events go with it via the FK cascade.
func (r *LocationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM locations WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLocationNotFound
	}
	return nil
}

// DeleteAll wipes the table ahead of a fresh import.
func (r *LocationRepo) DeleteAll(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM locations")
	return err
}

// DeleteNotIn removes every location whose id is not in keep.  An empty
// keep set removes all locations.
func (r *LocationRepo) DeleteNotIn(ctx context.Context, keep []uint64) error {
	if len(keep) == 0 {
		return r.DeleteAll(ctx)
	}
	placeholders, args := inArgs(keep)
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM locations WHERE id NOT IN ("+placeholders+")", args...)
	return err
}

// RecountEvents rewrites event_count for the kept locations from the actual
// rows in the events table.
func (r *LocationRepo) RecountEvents(ctx context.Context, keep []uint64) error {
	if len(keep) == 0 {
		return nil
	}
	placeholders, args := inArgs(keep)
	_, err := r.DB.ExecContext(ctx,
		`UPDATE locations l
		 SET l.event_count = (SELECT COUNT(*) FROM events e WHERE e.location_id = l.id)
		 WHERE l.id IN (`+placeholders+")", args...)
	return err
}

// AdjustFavoriteCount applies delta to favorite_count, clamped at zero, and
// returns the new value.
func (r *LocationRepo) AdjustFavoriteCount(ctx context.Context, id uint64, delta int) (int, error) {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE locations SET favorite_count = GREATEST(0, favorite_count + ?) WHERE id=?", delta, id)
	if err != nil {
		return 0, err
	}
	var count int
	err = r.DB.QueryRowContext(ctx,
		"SELECT favorite_count FROM locations WHERE id=? LIMIT 1", id).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrLocationNotFound
	}
	return count, err
}

// Count returns the number of persisted locations.
func (r *LocationRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM locations").Scan(&n)
	return n, err
}

// inArgs expands ids into a "?,?,..." placeholder list plus its arguments.
func inArgs(ids []uint64) (string, []any) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return strings.TrimSuffix(strings.Repeat("?,", len(ids)), ","), args
}
