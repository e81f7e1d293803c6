package feed

import (
	"fmt"
	"math"
)

// CanonicalVenue is a venue that survived coordinate deduplication and is
// eligible for persistence.
type CanonicalVenue struct {
	VenueID   string
	Name      string
	Latitude  float64
	Longitude float64
}

// CoordKey renders a coordinate pair at 6-decimal precision (~0.1 m).  Two
// venues with equal keys are treated as the same physical site, both during
// deduplication and during selection.
func CoordKey(lat, lng float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lng)
}

// Dedupe collapses raw venues sharing a coordinate pair into a single
// canonical entry.  Only venues with both coordinates present survive; the
// first venue seen at a coordinate key (in feed order) wins and later ones
// at the same key are dropped.  A later record reusing an earlier id
// overwrites the mapping entry, as a map keyed by id naturally does.
// The returned slice lists canonical ids in order of first appearance.
func Dedupe(venues []RawVenue) (map[string]CanonicalVenue, []string) {
	canon := make(map[string]CanonicalVenue, len(venues))
	order := make([]string, 0, len(venues))
	taken := make(map[string]bool, len(venues))

	for _, v := range venues {
		if v.Latitude == nil || v.Longitude == nil {
			continue
		}
		if math.IsNaN(*v.Latitude) || math.IsNaN(*v.Longitude) {
			continue
		}
		key := CoordKey(*v.Latitude, *v.Longitude)
		if taken[key] {
			continue
		}
		taken[key] = true
		if _, dup := canon[v.ID]; !dup {
			order = append(order, v.ID)
		}
		canon[v.ID] = CanonicalVenue{
			VenueID:   v.ID,
			Name:      v.Name,
			Latitude:  *v.Latitude,
			Longitude: *v.Longitude,
		}
	}
	return canon, order
}
