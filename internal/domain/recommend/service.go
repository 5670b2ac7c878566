// internal/domain/recommend/service.go

package recommend

import (
	"context"

	"localfeed/internal/domain/place"
)

// Service defines the interface for the recommendation core
type Service interface {
	// Recommend clusters, filters and matches videos for fully materialized input
	Recommend(ctx context.Context, req Request) (*Response, error)

	// RecommendForCity loads places and videos for a city and recommends over them
	RecommendForCity(ctx context.Context, req CityRequest) (*Response, error)

	// MatchVideos scores a video pool against a single event
	MatchVideos(ctx context.Context, event place.Place, videos []place.Video, maxVideos int, contextualize bool) []RecommendationMatch
}

// EventPublisher announces generated recommendations to interested listeners
type EventPublisher interface {
	// PublishGenerated publishes a summary of a generated response
	PublishGenerated(ctx context.Context, resp *Response) error
}
