// internal/server/handlers/ingest.go

package handlers

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"localfeed/internal/domain/place"
	"localfeed/internal/service/recommend"
)

// PlaceWriter persists normalized places
type PlaceWriter interface {
	SavePlace(ctx context.Context, p place.Place) error
}

// VideoWriter persists videos into the matching pool
type VideoWriter interface {
	SaveVideo(ctx context.Context, v place.Video) error
}

// IngestHandler accepts batches of normalized places and videos from upstream collectors
type IngestHandler struct {
	places PlaceWriter
	videos VideoWriter
	logger zerolog.Logger
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(places PlaceWriter, videos VideoWriter, logger zerolog.Logger) *IngestHandler {
	return &IngestHandler{
		places: places,
		videos: videos,
		logger: logger.With().Str("component", "ingest_handler").Logger(),
	}
}

type ingestResponse struct {
	Saved    int              `json:"saved"`
	Rejected []rejectedRecord `json:"rejected,omitempty"`
}

// SavePlaces stores a batch of places, dropping malformed records
func (h *IngestHandler) SavePlaces(w http.ResponseWriter, r *http.Request) {
	var raw []json.RawMessage
	if err := decodeBody(w, r, &raw); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	places, rejected := recommend.DecodePlaces(raw, h.logger)
	for i, p := range places {
		if err := h.places.SavePlace(r.Context(), p); err != nil {
			h.logger.Error().Err(err).Str("place_id", p.ID).Int("saved", i).Msg("error saving place")
			respondWithError(w, http.StatusInternalServerError, "Failed to save places", err)
			return
		}
	}

	respondWithJSON(w, http.StatusCreated, ingestResponse{
		Saved:    len(places),
		Rejected: toRejected(rejected),
	})
}

// SaveVideos stores a batch of videos, dropping malformed records
func (h *IngestHandler) SaveVideos(w http.ResponseWriter, r *http.Request) {
	var raw []json.RawMessage
	if err := decodeBody(w, r, &raw); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	videos, rejected := recommend.DecodeVideos(raw, h.logger)
	for i, v := range videos {
		if err := h.videos.SaveVideo(r.Context(), v); err != nil {
			h.logger.Error().Err(err).Str("video_id", v.ID).Int("saved", i).Msg("error saving video")
			respondWithError(w, http.StatusInternalServerError, "Failed to save videos", err)
			return
		}
	}

	respondWithJSON(w, http.StatusCreated, ingestResponse{
		Saved:    len(videos),
		Rejected: toRejected(rejected),
	})
}
