package importer

import (
	"fmt"
	"testing"

	"github.com/marcoyuen/culturemap/internal/feed"
)

// venueAt builds a canonical venue with distinct coordinates derived from n.
func venueAt(id string, n int) feed.CanonicalVenue {
	return feed.CanonicalVenue{
		VenueID:   id,
		Name:      "Venue " + id,
		Latitude:  22.2 + float64(n)*0.01,
		Longitude: 114.1 + float64(n)*0.01,
	}
}

func TestSelectVenuesFloorAndOrder(t *testing.T) {
	canon := map[string]feed.CanonicalVenue{}
	counters := map[string]int{"a": 5, "b": 3, "c": 2, "d": 8}
	candidates := []string{"a", "b", "c", "d"}
	for i, id := range candidates {
		canon[id] = venueAt(id, i)
	}

	got := SelectVenues(counters, canon, candidates)
	want := []string{"d", "a", "b", "c"} // c enters via backfill, after all floor venues
	if len(got) != len(want) {
		t.Fatalf("selected %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("selected %v, want %v", got, want)
		}
	}
}

func TestSelectVenuesCap(t *testing.T) {
	canon := map[string]feed.CanonicalVenue{}
	counters := map[string]int{}
	var candidates []string
	for i := 0; i < 15; i++ {
		id := fmt.Sprintf("v%02d", i)
		candidates = append(candidates, id)
		canon[id] = venueAt(id, i)
		counters[id] = 20 - i // all above floor, strictly decreasing
	}

	got := SelectVenues(counters, canon, candidates)
	if len(got) != 10 {
		t.Fatalf("selected %d venues, want 10", len(got))
	}
	if got[0] != "v00" || got[9] != "v09" {
		t.Errorf("selection order wrong: %v", got)
	}
}

func TestSelectVenuesCoordinateDiversity(t *testing.T) {
	// b shares a's rounded coordinates and must be skipped even though it
	// clears the floor on its own.
	canon := map[string]feed.CanonicalVenue{
		"a": {VenueID: "a", Latitude: 22.2855456, Longitude: 114.1616301},
		"b": {VenueID: "b", Latitude: 22.2855461, Longitude: 114.1616299},
		"c": venueAt("c", 3),
	}
	counters := map[string]int{"a": 9, "b": 7, "c": 4}

	got := SelectVenues(counters, canon, []string{"a", "b", "c"})
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("selected %v, want [a c]", got)
	}
}

func TestSelectVenuesTieBreakIsCreationOrder(t *testing.T) {
	canon := map[string]feed.CanonicalVenue{
		"x": venueAt("x", 1),
		"y": venueAt("y", 2),
	}
	counters := map[string]int{"x": 4, "y": 4}

	got := SelectVenues(counters, canon, []string{"y", "x"})
	if len(got) != 2 || got[0] != "y" {
		t.Fatalf("equal counts must keep candidate order, got %v", got)
	}
}

func TestSelectVenuesEmpty(t *testing.T) {
	if got := SelectVenues(nil, nil, nil); len(got) != 0 {
		t.Fatalf("selected %v from nothing", got)
	}
}
