package repository

import (
	"context"
	"errors"

	"github.com/marcoyuen/culturemap/internal/importer"
)

// accountStore is the slice of UserRepo the bootstrap step needs.
type accountStore interface {
	GetByUsername(ctx context.Context, username string) (User, error)
	Create(ctx context.Context, username, email, password, role string, cost int) (uint64, error)
}

// ImportStore adapts the repositories to the importer.Store interface so
// the pipeline never touches SQL directly.
type ImportStore struct {
	Locations  *LocationRepo
	Events     *EventRepo
	Users      accountStore
	BcryptCost int
}

func NewImportStore(loc *LocationRepo, ev *EventRepo, users *UserRepo, bcryptCost int) *ImportStore {
	return &ImportStore{Locations: loc, Events: ev, Users: users, BcryptCost: bcryptCost}
}

// ClearCatalog wipes events first so the delete order never trips the FK.
func (s *ImportStore) ClearCatalog(ctx context.Context) error {
	if err := s.Events.DeleteAll(ctx); err != nil {
		return err
	}
	return s.Locations.DeleteAll(ctx)
}

// EnsureAccount creates the bootstrap account unless the username exists.
func (s *ImportStore) EnsureAccount(ctx context.Context, acc importer.BootstrapAccount) error {
	_, err := s.Users.GetByUsername(ctx, acc.Username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return err
	}
	_, err = s.Users.Create(ctx, acc.Username, acc.Email, acc.Password, acc.Role, s.BcryptCost)
	if errors.Is(err, ErrUsernameExists) {
		return nil
	}
	return err
}

func (s *ImportStore) CreateLocation(ctx context.Context, venueID, name string, lat, lng float64) (uint64, error) {
	l := Location{VenueID: venueID, Name: name, Latitude: lat, Longitude: lng}
	if err := s.Locations.Create(ctx, &l); err != nil {
		return 0, err
	}
	return l.ID, nil
}

func (s *ImportStore) InsertEvents(ctx context.Context, payloads []importer.EventPayload) error {
	events := make([]Event, 0, len(payloads))
	for _, p := range payloads {
		events = append(events, Event{
			LocationID:  p.LocationID,
			EventID:     p.EventID,
			Title:       p.Title,
			Date:        p.Date,
			Description: p.Description,
			Presenter:   p.Presenter,
			Price:       p.Price,
			AgeLimit:    p.AgeLimit,
			URL:         p.URL,
		})
	}
	return s.Events.InsertBatch(ctx, events)
}

func (s *ImportStore) DeleteLocationsNotIn(ctx context.Context, keep []uint64) error {
	return s.Locations.DeleteNotIn(ctx, keep)
}

func (s *ImportStore) DeleteEventsNotIn(ctx context.Context, keep []uint64) error {
	return s.Events.DeleteByLocationNotIn(ctx, keep)
}

func (s *ImportStore) RecountEvents(ctx context.Context, keep []uint64) error {
	return s.Locations.RecountEvents(ctx, keep)
}
