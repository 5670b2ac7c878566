// internal/service/recommend/decode_test.go

package recommend

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localfeed/internal/domain/place"
	domain "localfeed/internal/domain/recommend"
)

func rawRecords(docs ...string) []json.RawMessage {
	raw := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		raw[i] = json.RawMessage(d)
	}
	return raw
}

func TestDecodePlaces(t *testing.T) {
	raw := rawRecords(
		`{"id":"ok-1","title":"Taco Night","category":"food","tags":["Tacos"," LIVE ","tacos"],"latitude":30.26,"longitude":-97.74,"price":12,"startTime":"2026-10-17T19:00:00Z"}`,
		`{"title":"No id"}`,
		`{"id":"bad-lat","latitude":91,"longitude":0}`,
		`{"id":"bad-price","price":-1}`,
		`not json`,
		`{"id":"ok-2","category":"music"}`,
	)

	places, rejected := DecodePlaces(raw, zerolog.Nop())
	require.Len(t, places, 2)
	assert.Equal(t, []string{"ok-1", "ok-2"}, placeIDs(places))

	first := places[0]
	assert.Equal(t, []string{"tacos", "live"}, first.Tags)
	assert.Equal(t, place.PricePaid, first.Type)
	require.NotNil(t, first.StartTime)
	assert.Equal(t, 19, first.StartTime.Hour())
	assert.True(t, first.HasCoordinates())

	assert.Equal(t, place.PriceFree, places[1].Type)
	assert.False(t, places[1].HasCoordinates())

	require.Len(t, rejected, 4)
	assert.Equal(t, KindPlace, rejected[0].Kind)
	assert.Equal(t, 1, rejected[0].Index)
	assert.Equal(t, "ID", rejected[0].Field)
	assert.Equal(t, "is required", rejected[0].Reason)

	assert.Equal(t, "bad-lat", rejected[1].ID)
	assert.Equal(t, "Latitude", rejected[1].Field)
	assert.Equal(t, "must be at most 90", rejected[1].Reason)

	assert.Equal(t, "Price", rejected[2].Field)
	assert.Equal(t, 4, rejected[3].Index)
	assert.Empty(t, rejected[3].Field)
	assert.Contains(t, rejected[1].Error(), "place[2]: field Latitude")
}

func TestDecodePlacesBlankID(t *testing.T) {
	places, rejected := DecodePlaces(rawRecords(`{"id":"   "}`), zerolog.Nop())
	assert.Empty(t, places)
	require.Len(t, rejected, 1)
	assert.Equal(t, "ID", rejected[0].Field)
}

func TestDecodeVideos(t *testing.T) {
	raw := rawRecords(
		`{"id":"v1","title":"Best espresso","tags":["Coffee"],"viewCount":42}`,
		`{"id":"v2","viewCount":-5}`,
		`{"title":"missing id"}`,
	)

	videos, rejected := DecodeVideos(raw, zerolog.Nop())
	require.Len(t, videos, 1)
	assert.Equal(t, "v1", videos[0].ID)
	assert.Equal(t, []string{"coffee"}, videos[0].Tags)
	assert.Equal(t, int64(42), videos[0].ViewCount)

	require.Len(t, rejected, 2)
	assert.Equal(t, KindVideo, rejected[0].Kind)
	assert.Equal(t, "ViewCount", rejected[0].Field)
	assert.Equal(t, "ID", rejected[1].Field)
}

func TestDecodePreferences(t *testing.T) {
	prefs, err := DecodePreferences(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.UserPreferences{}, prefs)

	prefs, err = DecodePreferences([]byte(`{"preferredCategories":["food"],"preferredPriceRange":"free","preferredTimeSlots":["Evening"],"maxDistance":5}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"food"}, prefs.PreferredCategories)
	assert.Equal(t, domain.PriceRangeFree, prefs.PreferredPriceRange)
	assert.Equal(t, []domain.TimeSlot{domain.SlotEvening}, prefs.PreferredTimeSlots)
	require.NotNil(t, prefs.MaxDistance)
	assert.Equal(t, 5.0, *prefs.MaxDistance)

	_, err = DecodePreferences([]byte(`{"preferredPriceRange":"cheap"}`))
	assert.Error(t, err)

	_, err = DecodePreferences([]byte(`{"preferredTimeSlots":["Brunch"]}`))
	assert.Error(t, err)

	_, err = DecodePreferences([]byte(`{`))
	assert.Error(t, err)
}
