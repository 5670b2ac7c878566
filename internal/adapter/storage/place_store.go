// internal/adapter/storage/place_store.go

package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"localfeed/internal/domain/place"
)

// defaultPlaceLimit caps unbounded place queries
const defaultPlaceLimit = 500

// PlaceStore implements storage for places
type PlaceStore struct {
	db *pgxpool.Pool
}

// NewPlaceStore creates a new place store
func NewPlaceStore(db *pgxpool.Pool) *PlaceStore {
	return &PlaceStore{
		db: db,
	}
}

// SavePlace saves a place to storage
func (s *PlaceStore) SavePlace(ctx context.Context, p place.Place) error {
	query := `
		INSERT INTO places (
			id, title, description, location_name, city, category, tags,
			location, start_time, end_time,
			price, price_type, external_source, video_ids, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			CASE WHEN $8::float8 IS NOT NULL AND $9::float8 IS NOT NULL
				THEN ST_MakePoint($8, $9)::geography END,
			$10, $11,
			$12, $13, $14, $15, $16
		)
		ON CONFLICT (id) DO UPDATE
		SET
			title = $2,
			description = $3,
			location_name = $4,
			city = $5,
			category = $6,
			tags = $7,
			location = CASE WHEN $8::float8 IS NOT NULL AND $9::float8 IS NOT NULL
				THEN ST_MakePoint($8, $9)::geography ELSE places.location END,
			start_time = $10,
			end_time = $11,
			price = $12,
			price_type = $13,
			external_source = $14,
			video_ids = $15,
			updated_at = $16
	`

	_, err := s.db.Exec(
		ctx,
		query,
		p.ID,
		p.Title,
		p.Description,
		p.Location,
		p.City,
		p.Category,
		p.Tags,
		p.Longitude,
		p.Latitude,
		p.StartTime,
		p.EndTime,
		p.Price,
		string(place.TypeForPrice(p.Price)),
		p.ExternalSource,
		p.VideoIDs,
		time.Now(),
	)

	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// FindPlaces finds places matching the filter
func (s *PlaceStore) FindPlaces(ctx context.Context, filter place.Filter) ([]place.Place, error) {
	query, args := buildPlaceQuery(filter)

	// Execute query
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	// Parse results
	var places []place.Place
	for rows.Next() {
		var p place.Place
		var priceType string

		err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.Location,
			&p.City,
			&p.Category,
			&p.Tags,
			&p.Longitude,
			&p.Latitude,
			&p.StartTime,
			&p.EndTime,
			&p.Price,
			&priceType,
			&p.ExternalSource,
			&p.VideoIDs,
		)

		if err != nil {
			return nil, fmt.Errorf("error scanning place: %w", err)
		}

		p.Type = place.PriceType(priceType)
		places = append(places, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating places: %w", err)
	}

	return places, nil
}

// buildPlaceQuery assembles the place lookup query and its arguments.
// Rows come back in ingestion order so clustering stays reproducible.
func buildPlaceQuery(filter place.Filter) (string, []interface{}) {
	queryBuilder := strings.Builder{}
	queryBuilder.WriteString(`
		SELECT
			id, title, description, location_name, city, category, tags,
			ST_X(location::geometry) as lng, ST_Y(location::geometry) as lat,
			start_time, end_time,
			price, price_type, external_source, video_ids
		FROM places
		WHERE 1=1
	`)

	args := []interface{}{}
	argIndex := 1

	if filter.City != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND lower(city) = lower($%d)", argIndex))
		args = append(args, filter.City)
		argIndex++
	}

	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND lower(category) = lower($%d)", argIndex))
		args = append(args, filter.Category)
		argIndex++
	}

	queryBuilder.WriteString(" ORDER BY created_at ASC, id ASC")

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPlaceLimit
	}
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argIndex))
	args = append(args, limit)

	return queryBuilder.String(), args
}
