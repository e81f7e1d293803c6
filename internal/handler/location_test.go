package handler

import (
	"testing"

	"github.com/marcoyuen/culturemap/internal/repository"
)

func testCatalog() []repository.Location {
	return []repository.Location{
		{ID: 1, Name: "Hong Kong City Hall", Latitude: 22.2824834, Longitude: 114.1616301, EventCount: 12},
		{ID: 2, Name: "Ko Shan Theatre", Latitude: 22.3119, Longitude: 114.1849, EventCount: 5},
		{ID: 3, Name: "Sha Tin Town Hall", Latitude: 22.3817, Longitude: 114.1889, EventCount: 8},
	}
}

func TestFilterByKeyword(t *testing.T) {
	cases := []struct {
		keyword string
		want    []uint64
	}{
		{"hall", []uint64{1, 3}},
		{"THEATRE", []uint64{2}},
		{"sha tin", []uint64{3}},
		{"nowhere", nil},
	}
	for _, tc := range cases {
		got := filterByKeyword(testCatalog(), tc.keyword)
		if len(got) != len(tc.want) {
			t.Errorf("keyword %q matched %d locations, want %d", tc.keyword, len(got), len(tc.want))
			continue
		}
		for i, l := range got {
			if l.ID != tc.want[i] {
				t.Errorf("keyword %q matched %d, want %d", tc.keyword, l.ID, tc.want[i])
			}
		}
	}
}

func TestFilterByDistance(t *testing.T) {
	// Reference at City Hall: only City Hall itself sits within 1 km;
	// a 20 km radius covers the whole catalog.
	near := filterByDistance(testCatalog(), 1, 22.2824834, 114.1616301)
	if len(near) != 1 || near[0].ID != 1 {
		t.Errorf("1 km filter kept %v", near)
	}
	far := filterByDistance(testCatalog(), 20, 22.2824834, 114.1616301)
	if len(far) != 3 {
		t.Errorf("20 km filter kept %d locations, want 3", len(far))
	}
}

func TestSortLocations(t *testing.T) {
	byName := testCatalog()
	sortLocations(byName, "", 0, 0)
	if byName[0].ID != 1 || byName[1].ID != 2 || byName[2].ID != 3 {
		t.Errorf("name sort order: %v %v %v", byName[0].ID, byName[1].ID, byName[2].ID)
	}

	byEvents := testCatalog()
	sortLocations(byEvents, "events", 0, 0)
	if byEvents[0].ID != 1 || byEvents[1].ID != 3 || byEvents[2].ID != 2 {
		t.Errorf("event sort order: %v %v %v", byEvents[0].ID, byEvents[1].ID, byEvents[2].ID)
	}

	byDistance := testCatalog()
	sortLocations(byDistance, "distance", 22.3119, 114.1849) // at Ko Shan
	if byDistance[0].ID != 2 {
		t.Errorf("distance sort put %d first, want 2", byDistance[0].ID)
	}
}

func TestStrOr(t *testing.T) {
	v := "$120"
	if got := strOr(&v, "Free"); got != "$120" {
		t.Errorf("strOr = %q", got)
	}
	empty := ""
	if got := strOr(&empty, "Free"); got != "Free" {
		t.Errorf("empty string should fall back, got %q", got)
	}
	if got := strOr(nil, "Free"); got != "Free" {
		t.Errorf("nil should fall back, got %q", got)
	}
}
