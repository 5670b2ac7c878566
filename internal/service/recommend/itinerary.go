// internal/service/recommend/itinerary.go

package recommend

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	domain "localfeed/internal/domain/recommend"
)

// itineraryNamespace scopes deterministic itinerary IDs
var itineraryNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("localfeed/itineraries"))

// BuildItineraries maps the first maxCount clusters onto itineraries.
// Clusters are expected to be sorted already and are not re-sorted here.
func BuildItineraries(clusters []domain.Cluster, maxCount int) []domain.Itinerary {
	if maxCount > len(clusters) {
		maxCount = len(clusters)
	}
	if maxCount <= 0 {
		return []domain.Itinerary{}
	}

	itineraries := make([]domain.Itinerary, 0, maxCount)
	for _, c := range clusters[:maxCount] {
		itineraries = append(itineraries, buildItinerary(c))
	}

	return itineraries
}

func buildItinerary(c domain.Cluster) domain.Itinerary {
	var totalCost float64
	ids := make([]string, 0, len(c.Places))
	titles := make([]string, 0, len(c.Places))
	for _, p := range c.Places {
		totalCost += p.Price
		ids = append(ids, p.ID)
		titles = append(titles, p.Title)
	}

	return domain.Itinerary{
		ID:                uuid.NewSHA1(itineraryNamespace, []byte(strings.Join(ids, ","))).String(),
		Title:             fmt.Sprintf("%s Experience in %s", c.Category, c.Center.City),
		Description:       describe(c, titles),
		Places:            c.Places,
		Category:          c.Category,
		TimeSlot:          c.TimeSlot,
		EstimatedDuration: durationPerPlace * len(c.Places),
		TotalCost:         totalCost,
		Score:             c.RecommendationScore,
	}
}

// describe synthesizes a short itinerary description from the member titles
func describe(c domain.Cluster, titles []string) string {
	var when string
	switch c.TimeSlot {
	case domain.SlotAnytime:
		when = "any time"
	case domain.SlotNight:
		when = "at night"
	default:
		when = "in the " + strings.ToLower(string(c.TimeSlot))
	}
	return fmt.Sprintf("%d nearby stops to enjoy %s: %s", len(titles), when, strings.Join(titles, ", "))
}
