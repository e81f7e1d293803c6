package importer

import (
	"sort"

	"github.com/marcoyuen/culturemap/internal/feed"
)

const (
	// maxVenues caps the number of locations retained after an import.
	maxVenues = 10
	// minEventFloor is the event count a venue needs to qualify for the
	// primary selection pass.  Venues below it only enter via backfill.
	minEventFloor = 3
)

// SelectVenues picks at most maxVenues venue ids out of the candidates,
// biased toward event volume while never representing the same physical
// site twice.
//
// candidates must hold the venue ids that received a location during
// aggregation, in creation order; that order is the tie-break for equal
// counts.  The primary pass considers only venues at or above the event
// floor.  When the cap is not reached, a backfill pass admits the remaining
// candidates in the same descending-count order.  Both passes skip a venue
// whose 6-decimal coordinate key has already been accepted.
func SelectVenues(counters map[string]int, canon map[string]feed.CanonicalVenue, candidates []string) []string {
	ranked := make([]string, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counters[ranked[i]] > counters[ranked[j]]
	})

	selected := make([]string, 0, maxVenues)
	taken := make(map[string]bool, maxVenues)
	accept := func(id string) {
		v, ok := canon[id]
		if !ok {
			return
		}
		key := feed.CoordKey(v.Latitude, v.Longitude)
		if taken[key] {
			return
		}
		taken[key] = true
		selected = append(selected, id)
	}

	for _, id := range ranked {
		if len(selected) >= maxVenues {
			return selected
		}
		if counters[id] >= minEventFloor {
			accept(id)
		}
	}
	for _, id := range ranked {
		if len(selected) >= maxVenues {
			break
		}
		if counters[id] < minEventFloor {
			accept(id)
		}
	}
	return selected
}
