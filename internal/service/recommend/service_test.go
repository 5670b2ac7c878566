// internal/service/recommend/service_test.go

package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localfeed/internal/domain/place"
	domain "localfeed/internal/domain/recommend"
)

type fakePlaceStore struct {
	places []place.Place
	err    error
	filter place.Filter
}

func (s *fakePlaceStore) FindPlaces(ctx context.Context, filter place.Filter) ([]place.Place, error) {
	s.filter = filter
	return s.places, s.err
}

type fakeVideoStore struct {
	videos []place.Video
	err    error
	city   string
}

func (s *fakeVideoStore) FindVideos(ctx context.Context, city string, limit int) ([]place.Video, error) {
	s.city = city
	return s.videos, s.err
}

type fakePublisher struct {
	mu        sync.Mutex
	published []*domain.Response
	err       error
}

func (p *fakePublisher) PublishGenerated(ctx context.Context, resp *domain.Response) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, resp)
	return p.err
}

func newTestService(t *testing.T, places place.Store, videos place.VideoStore, pub domain.EventPublisher) *RecommendationService {
	t.Helper()
	svc, err := NewRecommendationService(DefaultConfig(), DefaultTables(), places, videos, pub, zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func TestNewRecommendationServiceRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProximityThresholdKm = 0

	_, err := NewRecommendationService(cfg, nil, nil, nil, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestRecommendEmptyInput(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)

	resp, err := svc.Recommend(context.Background(), domain.Request{})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Empty(t, resp.Clusters)
	assert.Empty(t, resp.Itineraries)
	assert.Empty(t, resp.PersonalizedRecommendations)
	assert.Nil(t, resp.Experiences)
}

func TestRecommend(t *testing.T) {
	pub := &fakePublisher{}
	svc := newTestService(t, nil, nil, pub)

	withVideo := newPlace("native", "music", austinLat+0.3, austinLng)
	withVideo.VideoIDs = []string{"own-clip"}

	req := domain.Request{
		City: "Austin",
		Places: []place.Place{
			withStart(newPlace("a", "food", austinLat, austinLng), at(18)),
			withStart(newPlace("b", "food", austinLat+halfKmLat, austinLng), at(19)),
			withVideo,
		},
		Videos: []place.Video{
			{ID: "coffee", Title: "Best espresso", Tags: []string{"coffee", "food"}},
			{ID: "clip", Title: "Clip"},
		},
		Preferences:       domain.UserPreferences{PreferredCategories: []string{"food"}},
		MaxVideosPerEvent: 1,
		Contextualize:     true,
	}

	resp, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Clusters, 1)
	require.Len(t, resp.Itineraries, 1)
	assert.Equal(t, "food Experience in Austin", resp.Itineraries[0].Title)
	assert.Equal(t, []string{"a", "b"}, placeIDs(resp.PersonalizedRecommendations))

	// The place with a native video is not matched
	require.Len(t, resp.Experiences, 2)
	for _, exp := range resp.Experiences {
		require.Len(t, exp.Videos, 1)
		assert.Equal(t, "coffee", exp.Videos[0].ID)
		assert.True(t, exp.Videos[0].IsContextual)
	}
	assert.Equal(t, "Place a - Food Experience 1", resp.Experiences[0].Videos[0].Title)

	assert.Equal(t, "Austin", resp.City)
	require.Len(t, pub.published, 1)
	assert.Equal(t, resp.ID, pub.published[0].ID)
}

func TestRecommendNilVideoPoolSkipsMatching(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)

	resp, err := svc.Recommend(context.Background(), domain.Request{
		Places: []place.Place{newPlace("a", "food", austinLat, austinLng)},
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Experiences)

	resp, err = svc.Recommend(context.Background(), domain.Request{
		Places: []place.Place{newPlace("a", "food", austinLat, austinLng)},
		Videos: []place.Video{},
	})
	require.NoError(t, err)
	require.Len(t, resp.Experiences, 1)
	assert.Empty(t, resp.Experiences[0].Videos)
}

func TestRecommendDefaultLimits(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)

	var places []place.Place
	for i := 0; i < 8; i++ {
		lat := austinLat + float64(i)*0.2
		places = append(places,
			newPlace(string(rune('a'+i))+"1", "food", lat, austinLng),
			newPlace(string(rune('a'+i))+"2", "food", lat, austinLng),
		)
	}

	resp, err := svc.Recommend(context.Background(), domain.Request{Places: places})
	require.NoError(t, err)
	assert.Len(t, resp.Clusters, 8)
	assert.Len(t, resp.Itineraries, DefaultMaxItineraries)
}

func TestRecommendNormalizesInProcessPlaces(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)

	req := domain.Request{
		Places: []place.Place{
			{ID: " a ", Category: "food", Tags: []string{"Patio"}, Latitude: float(austinLat), Longitude: float(austinLng)},
			{ID: "b", Category: "food", Type: place.PriceFree, Latitude: float(austinLat), Longitude: float(austinLng)},
			{ID: "", Category: "food", Price: 10, Type: place.PriceFree, Latitude: float(austinLat), Longitude: float(austinLng)},
			{ID: "d", Category: "food", Price: -1, Latitude: float(austinLat), Longitude: float(austinLng)},
		},
		Preferences: domain.UserPreferences{PreferredPriceRange: domain.PriceRangeFree},
	}

	resp, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)

	// Matching free places carry no price diversity bonus
	require.Len(t, resp.Clusters, 1)
	assert.Equal(t, []string{"a", "b"}, placeIDs(resp.Clusters[0].Places))
	assert.InDelta(t, 3.0, resp.Clusters[0].RecommendationScore, 1e-9)

	assert.Equal(t, []string{"a", "b"}, placeIDs(resp.PersonalizedRecommendations))
	assert.Equal(t, place.PriceFree, resp.PersonalizedRecommendations[0].Type)
	assert.Equal(t, []string{"patio"}, resp.PersonalizedRecommendations[0].Tags)

	// The caller's slice is left untouched
	assert.Equal(t, " a ", req.Places[0].ID)
	assert.Equal(t, place.PriceType(""), req.Places[0].Type)
}

func TestSanitizePlaces(t *testing.T) {
	places, rejected := SanitizePlaces([]place.Place{
		{ID: "ok", Price: 12},
		{ID: "   "},
		{ID: "neg", Price: -3},
	}, zerolog.Nop())

	require.Len(t, places, 1)
	assert.Equal(t, place.PricePaid, places[0].Type)

	require.Len(t, rejected, 2)
	assert.Equal(t, 1, rejected[0].Index)
	assert.Equal(t, "ID", rejected[0].Field)
	assert.Equal(t, 2, rejected[1].Index)
	assert.Equal(t, "Price", rejected[1].Field)
}

func TestRecommendCancelledContext(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Recommend(ctx, domain.Request{
		Places: []place.Place{newPlace("a", "food", austinLat, austinLng)},
		Videos: []place.Video{{ID: "v"}},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecommendPublishFailureIsIgnored(t *testing.T) {
	pub := &fakePublisher{err: errors.New("nats down")}
	svc := newTestService(t, nil, nil, pub)

	resp, err := svc.Recommend(context.Background(), domain.Request{})
	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Len(t, pub.published, 1)
}

func TestRecommendForCity(t *testing.T) {
	places := &fakePlaceStore{places: []place.Place{
		{ID: "a", Title: "A", City: "Austin", Category: "food", Price: 5, Latitude: float(austinLat), Longitude: float(austinLng), Tags: []string{"Patio"}},
		{ID: "b", Title: "B", City: "Austin", Category: "food", Latitude: float(austinLat), Longitude: float(austinLng)},
	}}
	videos := &fakeVideoStore{}
	svc := newTestService(t, places, videos, nil)

	resp, err := svc.RecommendForCity(context.Background(), domain.CityRequest{City: "Austin", Category: "food"})
	require.NoError(t, err)

	assert.Equal(t, "Austin", places.filter.City)
	assert.Equal(t, "food", places.filter.Category)
	assert.Equal(t, "Austin", videos.city)

	require.Len(t, resp.Clusters, 1)
	assert.InDelta(t, 3.5, resp.Clusters[0].RecommendationScore, 1e-9)
	assert.Equal(t, place.PricePaid, resp.PersonalizedRecommendations[0].Type)
	assert.Equal(t, []string{"patio"}, resp.PersonalizedRecommendations[0].Tags)

	// An empty video pool still yields an experience per place
	assert.Len(t, resp.Experiences, 2)
}

func TestRecommendForCityStoreErrors(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)
	_, err := svc.RecommendForCity(context.Background(), domain.CityRequest{City: "Austin"})
	assert.Error(t, err)

	boom := errors.New("connection refused")
	svc = newTestService(t, &fakePlaceStore{err: boom}, nil, nil)
	_, err = svc.RecommendForCity(context.Background(), domain.CityRequest{City: "Austin"})
	assert.ErrorIs(t, err, boom)

	svc = newTestService(t, &fakePlaceStore{}, &fakeVideoStore{err: boom}, nil)
	_, err = svc.RecommendForCity(context.Background(), domain.CityRequest{City: "Austin"})
	assert.ErrorIs(t, err, boom)
}

func TestMatchVideosContextualizesOnlyWithoutNativeVideo(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)
	event := place.Place{ID: "e", Title: "Coffee Tasting", Category: "food"}

	matches := svc.MatchVideos(context.Background(), event, clips(2), 0, true)
	require.Len(t, matches, 2)
	assert.True(t, matches[0].IsContextual)

	event.VideoIDs = []string{"native"}
	matches = svc.MatchVideos(context.Background(), event, clips(2), 1, true)
	require.Len(t, matches, 1)
	assert.False(t, matches[0].IsContextual)
	assert.Equal(t, "Clip 1", matches[0].Title)
}
