// internal/service/recommend/itinerary_test.go

package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localfeed/internal/domain/place"
	domain "localfeed/internal/domain/recommend"
)

func testCluster(score float64, places ...place.Place) domain.Cluster {
	return domain.Cluster{
		Center:              domain.Center{Latitude: austinLat, Longitude: austinLng, City: "Austin"},
		Places:              places,
		Category:            "food",
		TimeSlot:            domain.SlotEvening,
		RecommendationScore: score,
	}
}

func TestBuildItineraries(t *testing.T) {
	a := withPrice(newPlace("a", "food", austinLat, austinLng), 12.5)
	b := withPrice(newPlace("b", "food", austinLat, austinLng), 7.5)
	c := newPlace("c", "food", austinLat, austinLng)

	itineraries := BuildItineraries([]domain.Cluster{testCluster(2.5, a, b, c)}, 5)
	require.Len(t, itineraries, 1)

	it := itineraries[0]
	assert.Equal(t, "food Experience in Austin", it.Title)
	assert.Equal(t, 6, it.EstimatedDuration)
	assert.Equal(t, 20.0, it.TotalCost)
	assert.Equal(t, 2.5, it.Score)
	assert.Equal(t, domain.SlotEvening, it.TimeSlot)
	assert.Equal(t, "food", it.Category)
	assert.Equal(t, []string{"a", "b", "c"}, placeIDs(it.Places))
	assert.Equal(t, "3 nearby stops to enjoy in the evening: Place a, Place b, Place c", it.Description)
	assert.NotEmpty(t, it.ID)
}

func TestBuildItinerariesKeepsOrderAndLimit(t *testing.T) {
	p := func(id string) place.Place { return newPlace(id, "food", austinLat, austinLng) }

	// Deliberately unsorted; the builder must not reorder
	clusters := []domain.Cluster{
		testCluster(1.0, p("a"), p("b")),
		testCluster(3.0, p("c"), p("d")),
		testCluster(2.0, p("e"), p("f")),
	}

	itineraries := BuildItineraries(clusters, 2)
	require.Len(t, itineraries, 2)
	assert.Equal(t, 1.0, itineraries[0].Score)
	assert.Equal(t, 3.0, itineraries[1].Score)

	assert.Len(t, BuildItineraries(clusters, 10), 3)
	assert.Empty(t, BuildItineraries(clusters, 0))
	assert.NotNil(t, BuildItineraries(clusters, -1))
}

func TestItineraryIDIsDeterministic(t *testing.T) {
	a := newPlace("a", "food", austinLat, austinLng)
	b := newPlace("b", "food", austinLat, austinLng)

	first := BuildItineraries([]domain.Cluster{testCluster(1, a, b)}, 1)
	second := BuildItineraries([]domain.Cluster{testCluster(1, a, b)}, 1)
	reversed := BuildItineraries([]domain.Cluster{testCluster(1, b, a)}, 1)

	assert.Equal(t, first[0].ID, second[0].ID)
	assert.NotEqual(t, first[0].ID, reversed[0].ID)
}

func TestDescribeTimeSlots(t *testing.T) {
	tests := map[domain.TimeSlot]string{
		domain.SlotMorning:   "in the morning",
		domain.SlotAfternoon: "in the afternoon",
		domain.SlotNight:     "at night",
		domain.SlotAnytime:   "any time",
	}

	for slot, phrase := range tests {
		c := domain.Cluster{TimeSlot: slot}
		assert.Contains(t, describe(c, []string{"One"}), phrase)
	}
}
