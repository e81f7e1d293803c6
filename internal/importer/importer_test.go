package importer

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/marcoyuen/culturemap/internal/config"
)

// fakeStore records every pipeline call in memory.
type fakeStore struct {
	cleared   bool
	accounts  []string
	locations map[uint64]string // row id -> venue id
	nextID    uint64
	events    []EventPayload
	keptLocs  []uint64
	keptEvs   []uint64
	recounted []uint64
	pruned    bool
	counted   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{locations: map[uint64]string{}}
}

func (s *fakeStore) ClearCatalog(context.Context) error { s.cleared = true; return nil }

func (s *fakeStore) EnsureAccount(_ context.Context, acc BootstrapAccount) error {
	s.accounts = append(s.accounts, acc.Username)
	return nil
}

func (s *fakeStore) CreateLocation(_ context.Context, venueID, _ string, _, _ float64) (uint64, error) {
	s.nextID++
	s.locations[s.nextID] = venueID
	return s.nextID, nil
}

func (s *fakeStore) InsertEvents(_ context.Context, events []EventPayload) error {
	s.events = append(s.events, events...)
	return nil
}

func (s *fakeStore) DeleteLocationsNotIn(_ context.Context, keep []uint64) error {
	s.pruned = true
	s.keptLocs = append([]uint64(nil), keep...)
	return nil
}

func (s *fakeStore) DeleteEventsNotIn(_ context.Context, keep []uint64) error {
	s.keptEvs = append([]uint64(nil), keep...)
	return nil
}

func (s *fakeStore) RecountEvents(_ context.Context, keep []uint64) error {
	if !s.pruned {
		panic("recount before prune")
	}
	s.counted = true
	s.recounted = append([]uint64(nil), keep...)
	return nil
}

func testConfig(dir string) config.Config {
	return config.Config{
		DataDir: dir,
		// Unreachable endpoints: the refresh fails softly and the pipeline
		// runs off the pre-seeded cache files.
		VenuesURL: "http://127.0.0.1:1/venues",
		EventsURL: "http://127.0.0.1:1/events",
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func seed(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const venuesDoc = `<venues>
  <venue id="A"><venuee>City Hall</venuee><latitude>22.2824834</latitude><longitude>114.1616301</longitude></venue>
  <venue id="B"><venuee>City Hall Twin</venuee><latitude>22.2824834</latitude><longitude>114.1616301</longitude></venue>
  <venue id="C"><venuee>No Coords</venuee></venue>
  <venue id="D"><venuee>Ko Shan Theatre</venuee><latitude>22.3119</latitude><longitude>114.1849</longitude></venue>
</venues>`

const eventsDoc = `<events>
  <event id="e1"><venueid>A</venueid><titlee>Show 1</titlee></event>
  <event id="e2"><venueid>A</venueid><titlee>Show 2</titlee></event>
  <event id="e3"><venueid>A</venueid><titlee>Show 3</titlee></event>
  <event id="e4"><venueid>C</venueid><titlee>Ghost 1</titlee></event>
  <event id="e5"><venueid>C</venueid><titlee>Ghost 2</titlee></event>
  <event id="e6"><venueid>C</venueid><titlee>Ghost 3</titlee></event>
  <event id="e7"><venueid>C</venueid><titlee>Ghost 4</titlee></event>
  <event id="e8"><venueid>D</venueid><titlee>Opera</titlee></event>
  <event id="e9"><venueid></venueid><titlee>Unattributed</titlee></event>
</events>`

func TestRunFullPipeline(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "venues.xml", venuesDoc)
	seed(t, dir, "events.xml", eventsDoc)

	store := newFakeStore()
	sum, err := New(testConfig(dir), store, quietLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !store.cleared {
		t.Error("catalog was not cleared before the import")
	}
	if len(store.accounts) != 2 || store.accounts[0] != "admin" || store.accounts[1] != "testuser" {
		t.Errorf("bootstrap accounts = %v", store.accounts)
	}

	// A has coordinates and events; D likewise.  B is a coordinate duplicate
	// of A, C never passed validation.  Neither may get a location even
	// though C has the most events.
	if len(store.locations) != 2 {
		t.Fatalf("created %d locations, want 2: %v", len(store.locations), store.locations)
	}
	byVenue := map[string]bool{}
	for _, v := range store.locations {
		byVenue[v] = true
	}
	if !byVenue["A"] || !byVenue["D"] {
		t.Errorf("locations created for %v, want A and D", store.locations)
	}

	// Only events of located venues are persisted: 3 for A, 1 for D.
	if len(store.events) != 4 {
		t.Errorf("persisted %d events, want 4", len(store.events))
	}

	// A clears the floor; D enters through backfill.  Both survive pruning.
	if len(store.keptLocs) != 2 {
		t.Errorf("kept locations = %v, want 2 ids", store.keptLocs)
	}
	if len(store.recounted) != 2 {
		t.Errorf("recount ran over %v, want the 2 kept ids", store.recounted)
	}

	if sum.Locations != 2 || sum.Events != 4 {
		t.Errorf("summary = %+v, want 2 locations / 4 events", sum)
	}
	if sum.RunID == "" {
		t.Error("summary carries no run id")
	}
}

func TestRunWithoutCachedFeeds(t *testing.T) {
	store := newFakeStore()
	sum, err := New(testConfig(t.TempDir()), store, quietLogger()).Run(context.Background())
	if err != nil {
		t.Fatalf("missing cache files must degrade, not fail: %v", err)
	}
	if len(store.locations) != 0 || len(store.events) != 0 {
		t.Errorf("empty feeds produced locations=%v events=%d", store.locations, len(store.events))
	}
	// Pruning against an empty keep set wipes whatever was persisted before.
	if !store.pruned || !store.counted {
		t.Error("reconciliation should still run")
	}
	if sum.Locations != 0 {
		t.Errorf("summary reports %d locations", sum.Locations)
	}
}

func TestRunMalformedFeedIsFatal(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "venues.xml", "<venues><venue")

	if _, err := New(testConfig(dir), newFakeStore(), quietLogger()).Run(context.Background()); err == nil {
		t.Fatal("expected error for malformed cached document")
	}
}

func TestRunIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, "venues.xml", venuesDoc)
	seed(t, dir, "events.xml", eventsDoc)

	first := newFakeStore()
	if _, err := New(testConfig(dir), first, quietLogger()).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	second := newFakeStore()
	if _, err := New(testConfig(dir), second, quietLogger()).Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(first.locations) != len(second.locations) || len(first.events) != len(second.events) {
		t.Errorf("re-import diverged: %v/%d vs %v/%d",
			first.locations, len(first.events), second.locations, len(second.events))
	}
}
