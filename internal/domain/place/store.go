// internal/domain/place/store.go

package place

import (
	"context"
)

// Store provides access to normalized places produced by the ingestion pipeline
type Store interface {
	// FindPlaces returns places matching the filter
	FindPlaces(ctx context.Context, filter Filter) ([]Place, error)
}

// VideoStore provides access to the short-form video pool
type VideoStore interface {
	// FindVideos returns candidate videos for a city; an empty city returns the whole pool
	FindVideos(ctx context.Context, city string, limit int) ([]Video, error)
}
