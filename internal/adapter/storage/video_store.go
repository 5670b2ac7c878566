// internal/adapter/storage/video_store.go

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"localfeed/internal/domain/place"
)

// defaultVideoLimit caps the candidate pool loaded for matching
const defaultVideoLimit = 200

// VideoStore implements storage for the short-form video pool
type VideoStore struct {
	db *pgxpool.Pool
}

// NewVideoStore creates a new video store
func NewVideoStore(db *pgxpool.Pool) *VideoStore {
	return &VideoStore{
		db: db,
	}
}

// SaveVideo saves a video to storage
func (s *VideoStore) SaveVideo(ctx context.Context, v place.Video) error {
	query := `
		INSERT INTO videos (
			id, title, description, tags, location_name, view_count, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		ON CONFLICT (id) DO UPDATE
		SET
			title = $2,
			description = $3,
			tags = $4,
			location_name = $5,
			view_count = $6,
			updated_at = $7
	`

	_, err := s.db.Exec(ctx, query, v.ID, v.Title, v.Description, v.Tags, v.Location, v.ViewCount, time.Now())
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// FindVideos finds candidate videos for a city, most viewed first
func (s *VideoStore) FindVideos(ctx context.Context, city string, limit int) ([]place.Video, error) {
	query, args := buildVideoQuery(city, limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var videos []place.Video
	for rows.Next() {
		var v place.Video

		err := rows.Scan(
			&v.ID,
			&v.Title,
			&v.Description,
			&v.Tags,
			&v.Location,
			&v.ViewCount,
		)

		if err != nil {
			return nil, fmt.Errorf("error scanning video: %w", err)
		}

		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return videos, nil
}

func buildVideoQuery(city string, limit int) (string, []interface{}) {
	if limit <= 0 {
		limit = defaultVideoLimit
	}

	if city == "" {
		return `
		SELECT id, title, description, tags, location_name, view_count
		FROM videos
		ORDER BY view_count DESC, id ASC
		LIMIT $1
	`, []interface{}{limit}
	}

	return `
		SELECT id, title, description, tags, location_name, view_count
		FROM videos
		WHERE location_name ILIKE '%' || $1 || '%'
		ORDER BY view_count DESC, id ASC
		LIMIT $2
	`, []interface{}{city, limit}
}
