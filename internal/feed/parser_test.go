package feed

import (
	"testing"
)

func TestParseVenues(t *testing.T) {
	doc := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<venues>
  <venue id="50100018">
    <venuee>Hong Kong City Hall</venuee>
    <latitude>22.2824834</latitude>
    <longitude>114.1616301</longitude>
  </venue>
  <venue id="36110031">
    <venuee></venuee>
    <latitude></latitude>
    <longitude>114.17</longitude>
  </venue>
  <venue id="">
    <venuee>Orphan</venuee>
    <latitude>22.3</latitude>
    <longitude>114.2</longitude>
  </venue>
  <venue id="87200012">
    <venuee>Bad Coords</venuee>
    <latitude>NaN</latitude>
    <longitude>abc</longitude>
  </venue>
</venues>`)

	venues, err := ParseVenues(doc)
	if err != nil {
		t.Fatalf("ParseVenues: %v", err)
	}
	if len(venues) != 3 {
		t.Fatalf("got %d venues, want 3 (blank id dropped)", len(venues))
	}

	v := venues[0]
	if v.ID != "50100018" || v.Name != "Hong Kong City Hall" {
		t.Errorf("first venue = %q %q", v.ID, v.Name)
	}
	if v.Latitude == nil || *v.Latitude != 22.2824834 {
		t.Errorf("latitude = %v, want 22.2824834", v.Latitude)
	}

	v = venues[1]
	if v.Name != DefaultText {
		t.Errorf("blank name = %q, want %q", v.Name, DefaultText)
	}
	if v.Latitude != nil {
		t.Errorf("empty latitude = %v, want nil", *v.Latitude)
	}
	if v.Longitude == nil {
		t.Error("longitude should survive on its own")
	}

	v = venues[2]
	if v.Latitude != nil || v.Longitude != nil {
		t.Errorf("NaN/garbage coords should be nil, got %v %v", v.Latitude, v.Longitude)
	}
}

func TestParseVenuesSingleRecord(t *testing.T) {
	doc := []byte(`<venues><venue id="1"><venuee>Solo</venuee><latitude>22.1</latitude><longitude>114.1</longitude></venue></venues>`)
	venues, err := ParseVenues(doc)
	if err != nil {
		t.Fatalf("ParseVenues: %v", err)
	}
	if len(venues) != 1 || venues[0].Name != "Solo" {
		t.Fatalf("single-record doc parsed as %+v", venues)
	}
}

func TestParseVenuesMalformed(t *testing.T) {
	if _, err := ParseVenues([]byte(`<venues><venue`)); err == nil {
		t.Fatal("expected error for truncated document")
	}
}

func TestParseEventsDefaults(t *testing.T) {
	doc := []byte(`<events>
  <event id="E1">
    <venueid>50100018</venueid>
    <titlee>Piano Recital</titlee>
    <predateE>15 Sep 2026</predateE>
    <desce>An evening of Chopin.</desce>
    <presenterorge>LCSD</presenterorge>
    <pricee>$180</pricee>
    <agelimite>6+</agelimite>
    <urle>https://example.hk/e1</urle>
  </event>
  <event id="E2">
    <venueid> 36110031 </venueid>
    <titlee>  </titlee>
  </event>
</events>`)

	events, err := ParseEvents(doc)
	if err != nil {
		t.Fatalf("ParseEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	full := events[0]
	if full.Title != "Piano Recital" || full.Price != "$180" || full.AgeLimit != "6+" {
		t.Errorf("populated fields mangled: %+v", full)
	}

	bare := events[1]
	if bare.VenueID != "36110031" {
		t.Errorf("venue id not trimmed: %q", bare.VenueID)
	}
	for name, got := range map[string]struct{ got, want string }{
		"title":     {bare.Title, DefaultText},
		"date":      {bare.Date, DefaultDate},
		"desc":      {bare.Description, DefaultText},
		"presenter": {bare.Presenter, DefaultText},
		"price":     {bare.Price, DefaultPrice},
		"ageLimit":  {bare.AgeLimit, DefaultAgeLimit},
		"url":       {bare.URL, DefaultText},
	} {
		if got.got != got.want {
			t.Errorf("%s default = %q, want %q", name, got.got, got.want)
		}
	}
}
