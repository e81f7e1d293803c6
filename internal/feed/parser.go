package feed

import (
	"encoding/xml"
	"math"
	"strconv"
	"strings"
)

// Sentinel defaults applied to blank or absent feed fields.
const (
	DefaultText     = "N/A"
	DefaultPrice    = "Free"
	DefaultAgeLimit = "All ages"
	DefaultDate     = "Not Confirmed"
)

// RawVenue is one venue record as parsed from the venues feed.  Latitude and
// Longitude are nil when the field is missing or not a finite number; zero
// is a legitimate coordinate and is never substituted for a missing value.
type RawVenue struct {
	ID        string
	Name      string
	Latitude  *float64
	Longitude *float64
}

// RawEvent is one event record as parsed from the events feed.  All textual
// fields carry their sentinel default instead of being empty.
type RawEvent struct {
	ID          string
	VenueID     string
	Title       string
	Date        string
	Description string
	Presenter   string
	Price       string
	AgeLimit    string
	URL         string
}

// The LCSD documents use a flat <venues><venue/>...</venues> /
// <events><event/>...</events> layout with English fields suffixed "e".
// encoding/xml decodes repeated elements into the slice regardless of
// whether the document carries one record or many, so a single-record
// document needs no special casing.
type venueDoc struct {
	XMLName xml.Name   `xml:"venues"`
	Venues  []venueRec `xml:"venue"`
}

type venueRec struct {
	ID        string `xml:"id,attr"`
	Name      string `xml:"venuee"`
	Latitude  string `xml:"latitude"`
	Longitude string `xml:"longitude"`
}

type eventDoc struct {
	XMLName xml.Name   `xml:"events"`
	Events  []eventRec `xml:"event"`
}

type eventRec struct {
	ID        string `xml:"id,attr"`
	VenueID   string `xml:"venueid"`
	Title     string `xml:"titlee"`
	PreDate   string `xml:"predateE"`
	Desc      string `xml:"desce"`
	Presenter string `xml:"presenterorge"`
	Price     string `xml:"pricee"`
	AgeLimit  string `xml:"agelimite"`
	URL       string `xml:"urle"`
}

// ParseVenues decodes the venues document.  Records without an id attribute
// are dropped.  A document that fails to decode at all is a fatal condition
// for the caller.
func ParseVenues(data []byte) ([]RawVenue, error) {
	var doc venueDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	venues := make([]RawVenue, 0, len(doc.Venues))
	for _, v := range doc.Venues {
		id := strings.TrimSpace(v.ID)
		if id == "" {
			continue
		}
		venues = append(venues, RawVenue{
			ID:        id,
			Name:      clean(v.Name, DefaultText),
			Latitude:  parseCoord(v.Latitude),
			Longitude: parseCoord(v.Longitude),
		})
	}
	return venues, nil
}

// ParseEvents decodes the events document, applying the field defaults.
func ParseEvents(data []byte) ([]RawEvent, error) {
	var doc eventDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	events := make([]RawEvent, 0, len(doc.Events))
	for _, e := range doc.Events {
		events = append(events, RawEvent{
			ID:          clean(e.ID, DefaultText),
			VenueID:     strings.TrimSpace(e.VenueID),
			Title:       clean(e.Title, DefaultText),
			Date:        clean(e.PreDate, DefaultDate),
			Description: clean(e.Desc, DefaultText),
			Presenter:   clean(e.Presenter, DefaultText),
			Price:       clean(e.Price, DefaultPrice),
			AgeLimit:    clean(e.AgeLimit, DefaultAgeLimit),
			URL:         clean(e.URL, DefaultText),
		})
	}
	return events, nil
}

// clean trims s and substitutes def when the result is empty.
func clean(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

// parseCoord converts a coordinate field to a float, returning nil for
// missing, unparseable or non-finite values.
func parseCoord(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
