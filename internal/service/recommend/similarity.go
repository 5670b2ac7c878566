// internal/service/recommend/similarity.go

package recommend

import (
	"time"

	"localfeed/internal/domain/place"
	domain "localfeed/internal/domain/recommend"
)

// TemporallyCompatible reports whether two places fall within the same outing window.
// Places without a start time are compatible with everything.
func TemporallyCompatible(a, b place.Place, window time.Duration) bool {
	if a.StartTime == nil || b.StartTime == nil {
		return true
	}

	diff := a.StartTime.Sub(*b.StartTime)
	if diff < 0 {
		diff = -diff
	}
	return diff <= window
}

// CategorySimilarity scores category and tag overlap between two places in [0,1].
// Identical categories score 1; otherwise the Jaccard index of the tag sets is used.
func CategorySimilarity(a, b place.Place) float64 {
	if a.Category == b.Category {
		return 1.0
	}

	setA := toSet(a.Tags)
	setB := toSet(b.Tags)

	union := len(setA)
	intersection := 0
	for tag := range setB {
		if setA[tag] {
			intersection++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// TimeSlotForHour maps an hour of day onto the four time slot buckets
func TimeSlotForHour(hour int) domain.TimeSlot {
	switch {
	case hour < 12:
		return domain.SlotMorning
	case hour < 17:
		return domain.SlotAfternoon
	case hour < 21:
		return domain.SlotEvening
	default:
		return domain.SlotNight
	}
}

// TimeSlotFor returns the time slot of a place, or Anytime when it has no start time
func TimeSlotFor(p place.Place) domain.TimeSlot {
	if p.StartTime == nil {
		return domain.SlotAnytime
	}
	return TimeSlotForHour(p.StartTime.Hour())
}

// toSet builds a lookup set from a string slice
func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
