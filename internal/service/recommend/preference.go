// internal/service/recommend/preference.go

package recommend

import (
	"sort"

	"localfeed/internal/domain/place"
	domain "localfeed/internal/domain/recommend"
)

// FilterAndRank filters places against the caller's preferences and ranks the survivors.
// Ranking is stable so equally scored places keep their input order.
func FilterAndRank(places []place.Place, prefs domain.UserPreferences) []place.Place {
	categories := toSet(prefs.PreferredCategories)
	slots := make(map[domain.TimeSlot]bool, len(prefs.PreferredTimeSlots))
	for _, s := range prefs.PreferredTimeSlots {
		slots[s] = true
	}

	filtered := make([]place.Place, 0, len(places))
	for _, p := range places {
		if len(categories) > 0 && !categories[p.Category] {
			continue
		}
		if !matchesPriceRange(p, prefs.PreferredPriceRange) {
			continue
		}
		// Places without a start time always pass the time-of-day filter
		if len(slots) > 0 && p.StartTime != nil && !slots[TimeSlotFor(p)] {
			continue
		}
		filtered = append(filtered, p)
	}

	score := func(p place.Place) int {
		s := 0
		if categories[p.Category] {
			s += 2
		}
		if prefs.PreferredPriceRange != "" && string(p.Type) == string(prefs.PreferredPriceRange) {
			s++
		}
		return s
	}

	ranked := make([]scoredPlace, len(filtered))
	for i, p := range filtered {
		ranked[i] = scoredPlace{place: p, score: score(p)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]place.Place, len(ranked))
	for i, r := range ranked {
		out[i] = r.place
	}
	return out
}

type scoredPlace struct {
	place place.Place
	score int
}

// matchesPriceRange applies the price band filter
func matchesPriceRange(p place.Place, r domain.PriceRange) bool {
	switch r {
	case domain.PriceRangeFree:
		return p.Type == place.PriceFree
	case domain.PriceRangePaid:
		return p.Type == place.PricePaid
	default:
		return true
	}
}
