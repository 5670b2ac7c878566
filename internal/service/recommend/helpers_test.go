// internal/service/recommend/helpers_test.go

package recommend

import (
	"time"

	"localfeed/internal/domain/place"
)

const (
	austinLat = 30.2672
	austinLng = -97.7431
	// roughly 0.5 km of latitude
	halfKmLat = 0.5 / 111.195
)

func float(v float64) *float64 {
	return &v
}

func at(hour int) *time.Time {
	t := time.Date(2026, 10, 17, hour, 0, 0, 0, time.UTC)
	return &t
}

func newPlace(id, category string, lat, lng float64) place.Place {
	return NormalizePlace(place.Place{
		ID:        id,
		Title:     "Place " + id,
		City:      "Austin",
		Category:  category,
		Latitude:  float(lat),
		Longitude: float(lng),
	})
}

func withPrice(p place.Place, price float64) place.Place {
	p.Price = price
	return NormalizePlace(p)
}

func withStart(p place.Place, start *time.Time) place.Place {
	p.StartTime = start
	return p
}

func withTags(p place.Place, tags ...string) place.Place {
	p.Tags = tags
	return NormalizePlace(p)
}

func placeIDs(places []place.Place) []string {
	ids := make([]string, len(places))
	for i, p := range places {
		ids[i] = p.ID
	}
	return ids
}
