// internal/service/recommend/service.go

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"localfeed/internal/domain/place"
	domain "localfeed/internal/domain/recommend"
	"localfeed/internal/metrics"
)

// RecommendationService implements the domain.Service interface
type RecommendationService struct {
	config     Config
	clusterer  *Clusterer
	matcher    *Matcher
	placeStore place.Store
	videoStore place.VideoStore
	publisher  domain.EventPublisher
	logger     zerolog.Logger
}

// NewRecommendationService creates a new recommendation service.
// Stores and publisher may be nil when only Recommend and MatchVideos are used.
func NewRecommendationService(
	cfg Config,
	tables *Tables,
	placeStore place.Store,
	videoStore place.VideoStore,
	publisher domain.EventPublisher,
	logger zerolog.Logger,
) (*RecommendationService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recommendation config: %w", err)
	}

	return &RecommendationService{
		config:     cfg,
		clusterer:  NewClusterer(cfg),
		matcher:    NewMatcher(cfg, tables),
		placeStore: placeStore,
		videoStore: videoStore,
		publisher:  publisher,
		logger:     logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Recommend clusters places into itineraries, filters them against preferences
// and matches videos to places without one. The three computations are independent
// and run concurrently.
func (s *RecommendationService) Recommend(ctx context.Context, req domain.Request) (*domain.Response, error) {
	start := time.Now()

	resp, err := s.recommend(ctx, req)
	metrics.RecordRecommendation("request", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, resp)
	return resp, nil
}

func (s *RecommendationService) recommend(ctx context.Context, req domain.Request) (*domain.Response, error) {
	places, _ := SanitizePlaces(req.Places, s.logger)

	maxItineraries := req.MaxItineraries
	if maxItineraries <= 0 {
		maxItineraries = s.config.MaxItineraries
	}
	maxVideos := req.MaxVideosPerEvent
	if maxVideos <= 0 {
		maxVideos = s.config.MaxVideosPerEvent
	}

	var (
		clusters     []domain.Cluster
		itineraries  []domain.Itinerary
		personalized []place.Place
		experiences  []domain.Experience
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		clusters = s.clusterer.Cluster(places)
		itineraries = BuildItineraries(clusters, maxItineraries)
		return nil
	})

	g.Go(func() error {
		personalized = FilterAndRank(places, req.Preferences)
		return nil
	})

	if req.Videos != nil {
		g.Go(func() error {
			experiences = make([]domain.Experience, 0, len(places))
			for _, p := range places {
				if err := gctx.Err(); err != nil {
					return err
				}
				if p.HasVideo() {
					continue
				}
				experiences = append(experiences, domain.Experience{
					Place:  p,
					Videos: s.MatchVideos(gctx, p, req.Videos, maxVideos, req.Contextualize),
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error generating recommendations: %w", err)
	}

	metrics.RecordClusters(len(clusters))

	s.logger.Debug().
		Str("city", req.City).
		Int("places", len(places)).
		Int("videos", len(req.Videos)).
		Int("clusters", len(clusters)).
		Int("itineraries", len(itineraries)).
		Int("personalized", len(personalized)).
		Int("experiences", len(experiences)).
		Msg("generated recommendations")

	return &domain.Response{
		ID:                          uuid.New().String(),
		City:                        req.City,
		Clusters:                    clusters,
		Itineraries:                 itineraries,
		PersonalizedRecommendations: personalized,
		Experiences:                 experiences,
		GeneratedAt:                 time.Now().UTC(),
	}, nil
}

// RecommendForCity loads the places and video pool for a city and recommends over them
func (s *RecommendationService) RecommendForCity(ctx context.Context, req domain.CityRequest) (*domain.Response, error) {
	start := time.Now()

	resp, err := s.recommendForCity(ctx, req)
	metrics.RecordRecommendation("city", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, resp)
	return resp, nil
}

func (s *RecommendationService) recommendForCity(ctx context.Context, req domain.CityRequest) (*domain.Response, error) {
	if s.placeStore == nil {
		return nil, fmt.Errorf("no place store configured")
	}

	places, err := s.placeStore.FindPlaces(ctx, place.Filter{City: req.City, Category: req.Category})
	if err != nil {
		return nil, fmt.Errorf("error loading places: %w", err)
	}

	var videos []place.Video
	if s.videoStore != nil {
		videos, err = s.videoStore.FindVideos(ctx, req.City, 0)
		if err != nil {
			return nil, fmt.Errorf("error loading videos: %w", err)
		}
		if videos == nil {
			videos = []place.Video{}
		}
	}

	return s.recommend(ctx, domain.Request{
		City:              req.City,
		Places:            places,
		Videos:            videos,
		Preferences:       req.Preferences,
		MaxItineraries:    req.MaxItineraries,
		MaxVideosPerEvent: req.MaxVideosPerEvent,
		Contextualize:     req.Contextualize,
	})
}

// MatchVideos scores the video pool against one event and returns its best matches.
// Matches are contextualized only for events without native videos.
func (s *RecommendationService) MatchVideos(
	ctx context.Context,
	event place.Place,
	videos []place.Video,
	maxVideos int,
	contextualize bool,
) []domain.RecommendationMatch {
	if maxVideos <= 0 {
		maxVideos = s.config.MaxVideosPerEvent
	}

	matches := s.matcher.FindMatches(event, videos, maxVideos)

	contextual := contextualize && !event.HasVideo() && len(matches) > 0
	if contextual {
		matches = s.matcher.Contextualize(event, matches)
	}
	metrics.RecordVideoMatches(len(matches), contextual)

	return matches
}

// publish announces a generated response; failures are logged and never fail the request
func (s *RecommendationService) publish(ctx context.Context, resp *domain.Response) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.PublishGenerated(ctx, resp)
	metrics.RecordEventPublished(err)
	if err != nil {
		s.logger.Warn().Err(err).Str("response_id", resp.ID).Msg("error publishing recommendation event")
	}
}
