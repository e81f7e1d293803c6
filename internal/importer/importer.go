package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/marcoyuen/culturemap/internal/config"
	"github.com/marcoyuen/culturemap/internal/feed"
)

// Bootstrap accounts ensured on every startup.  Creation is idempotent:
// an existing username is left untouched.
var bootstrapAccounts = []BootstrapAccount{
	{Username: "admin", Password: "admin123", Email: "admin@culturalvenues.hk", Role: "admin"},
	{Username: "testuser", Password: "testuser123", Email: "user@culturalvenues.hk", Role: "user"},
}

// Summary describes a completed import run.
type Summary struct {
	RunID     string
	Locations int
	Events    int
	Duration  time.Duration
}

// Importer owns the startup pipeline.  It is not re-entrant and is expected
// to run exactly once, between the storage connection and the HTTP listener.
type Importer struct {
	cfg     config.Config
	store   Store
	fetcher *feed.Fetcher
	log     *logrus.Logger
}

// New builds an Importer over the given store.
func New(cfg config.Config, store Store, log *logrus.Logger) *Importer {
	return &Importer{cfg: cfg, store: store, fetcher: feed.NewFetcher(), log: log}
}

// Run executes the whole pipeline: refresh the cached feed documents, parse
// them, rebuild the location/event tables, select the venues to retain and
// reconcile the store against that selection.
//
// Feed fetch failures are soft (the cached copy, or an empty catalog, is
// used instead); a parse failure of an existing document is returned as a
// fatal startup error.
func (imp *Importer) Run(ctx context.Context) (Summary, error) {
	runID := uuid.NewString()
	log := imp.log.WithField("run", runID)
	start := time.Now()

	venuesPath := filepath.Join(imp.cfg.DataDir, "venues.xml")
	eventsPath := filepath.Join(imp.cfg.DataDir, "events.xml")
	imp.refresh(ctx, log, venuesPath, eventsPath)

	venues, err := imp.loadVenues(venuesPath, log)
	if err != nil {
		return Summary{}, err
	}
	events, err := imp.loadEvents(eventsPath, log)
	if err != nil {
		return Summary{}, err
	}

	if err := imp.store.ClearCatalog(ctx); err != nil {
		return Summary{}, fmt.Errorf("clear catalog: %w", err)
	}
	for _, acc := range bootstrapAccounts {
		if err := imp.store.EnsureAccount(ctx, acc); err != nil {
			return Summary{}, fmt.Errorf("ensure account %s: %w", acc.Username, err)
		}
	}

	canon, _ := feed.Dedupe(venues)
	counters, locations, created, err := imp.aggregate(ctx, events, canon)
	if err != nil {
		return Summary{}, err
	}

	selected := SelectVenues(counters, canon, created)
	keep := make([]uint64, 0, len(selected))
	for _, id := range selected {
		keep = append(keep, locations[id])
	}

	if err := imp.reconcile(ctx, keep); err != nil {
		return Summary{}, err
	}

	sum := Summary{
		RunID:     runID,
		Locations: len(keep),
		Events:    eventTotal(counters, selected),
		Duration:  time.Since(start),
	}
	log.WithFields(logrus.Fields{
		"locations": sum.Locations,
		"duration":  sum.Duration,
	}).Info("import finished")
	return sum, nil
}

// refresh downloads both feed documents concurrently.  The two fetches are
// independent I/O with no shared mutation; everything after them is strictly
// sequential.
func (imp *Importer) refresh(ctx context.Context, log *logrus.Entry, venuesPath, eventsPath string) {
	targets := []struct{ url, dest string }{
		{imp.cfg.VenuesURL, venuesPath},
		{imp.cfg.EventsURL, eventsPath},
	}
	var wg sync.WaitGroup
	for _, t := range targets {
		wg.Add(1)
		go func(url, dest string) {
			defer wg.Done()
			updated, err := imp.fetcher.Fetch(ctx, url, dest)
			switch {
			case err != nil:
				log.WithError(err).WithField("url", url).Warn("feed fetch failed, keeping cached copy")
			case updated:
				log.WithField("file", dest).Info("feed updated")
			}
		}(t.url, t.dest)
	}
	wg.Wait()
}

// loadVenues reads and parses the cached venues document.  A missing file
// degrades to an empty venue list; a malformed one is fatal.
func (imp *Importer) loadVenues(path string, log *logrus.Entry) ([]feed.RawVenue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Warn("no venues document available, importing empty catalog")
		return nil, nil
	}
	venues, err := feed.ParseVenues(data)
	if err != nil {
		return nil, fmt.Errorf("parse venues feed: %w", err)
	}
	return venues, nil
}

func (imp *Importer) loadEvents(path string, log *logrus.Entry) ([]feed.RawEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Warn("no events document available, importing empty catalog")
		return nil, nil
	}
	events, err := feed.ParseEvents(data)
	if err != nil {
		return nil, fmt.Errorf("parse events feed: %w", err)
	}
	return events, nil
}

// aggregate walks the feed events one at a time.  Every non-blank venue
// reference bumps that venue's counter, whether or not the venue passed
// coordinate validation; only canonical venues get a location row (created
// on first sight) and persisted events.  Event rows are collected and
// bulk-inserted after the walk so location creation for a venue always
// happens before any of its events are stored.
func (imp *Importer) aggregate(ctx context.Context, events []feed.RawEvent, canon map[string]feed.CanonicalVenue) (map[string]int, map[string]uint64, []string, error) {
	counters := make(map[string]int)
	locations := make(map[string]uint64)
	created := make([]string, 0, len(canon))
	payloads := make([]EventPayload, 0, len(events))

	for _, e := range events {
		if e.VenueID == "" {
			continue
		}
		counters[e.VenueID]++

		venue, ok := canon[e.VenueID]
		if !ok {
			continue
		}
		locID, ok := locations[e.VenueID]
		if !ok {
			var err error
			locID, err = imp.store.CreateLocation(ctx, venue.VenueID, venue.Name, venue.Latitude, venue.Longitude)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("create location %s: %w", venue.VenueID, err)
			}
			locations[e.VenueID] = locID
			created = append(created, e.VenueID)
		}
		payloads = append(payloads, EventPayload{
			LocationID:  locID,
			EventID:     e.ID,
			Title:       e.Title,
			Date:        e.Date,
			Description: e.Description,
			Presenter:   e.Presenter,
			Price:       e.Price,
			AgeLimit:    e.AgeLimit,
			URL:         e.URL,
		})
	}

	if len(payloads) > 0 {
		if err := imp.store.InsertEvents(ctx, payloads); err != nil {
			return nil, nil, nil, fmt.Errorf("insert events: %w", err)
		}
	}
	return counters, locations, created, nil
}

// reconcile prunes everything outside the selection and then rewrites the
// cached event counts.  The recount must run after the deletions so it never
// counts rows that are about to disappear.
func (imp *Importer) reconcile(ctx context.Context, keep []uint64) error {
	if err := imp.store.DeleteLocationsNotIn(ctx, keep); err != nil {
		return fmt.Errorf("prune locations: %w", err)
	}
	if err := imp.store.DeleteEventsNotIn(ctx, keep); err != nil {
		return fmt.Errorf("prune events: %w", err)
	}
	if err := imp.store.RecountEvents(ctx, keep); err != nil {
		return fmt.Errorf("recount events: %w", err)
	}
	return nil
}

func eventTotal(counters map[string]int, selected []string) int {
	total := 0
	for _, id := range selected {
		total += counters[id]
	}
	return total
}
