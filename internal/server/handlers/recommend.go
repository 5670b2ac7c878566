// internal/server/handlers/recommend.go

package handlers

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"localfeed/internal/domain/place"
	domain "localfeed/internal/domain/recommend"
	"localfeed/internal/service/recommend"
)

// RecommendationHandler handles recommendation HTTP requests
type RecommendationHandler struct {
	service domain.Service
	logger  zerolog.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(service domain.Service, logger zerolog.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		service: service,
		logger:  logger.With().Str("component", "recommend_handler").Logger(),
	}
}

// rejectedRecord reports an input record that was dropped
type rejectedRecord struct {
	Kind   string `json:"kind"`
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

type recommendationResponse struct {
	*domain.Response
	Rejected []rejectedRecord `json:"rejected,omitempty"`
}

type recommendRequest struct {
	City              string            `json:"city"`
	Places            []json.RawMessage `json:"places"`
	Videos            []json.RawMessage `json:"videos"`
	Preferences       json.RawMessage   `json:"preferences"`
	MaxItineraries    int               `json:"maxItineraries"`
	MaxVideosPerEvent int               `json:"maxVideosPerEvent"`
	Contextualize     bool              `json:"contextualize"`
}

type matchRequest struct {
	Event         json.RawMessage   `json:"event"`
	Videos        []json.RawMessage `json:"videos"`
	MaxVideos     int               `json:"maxVideos"`
	Contextualize bool              `json:"contextualize"`
}

type matchResponse struct {
	EventID  string                       `json:"eventId"`
	Videos   []domain.RecommendationMatch `json:"videos"`
	Rejected []rejectedRecord             `json:"rejected,omitempty"`
}

// CreateRecommendations runs the recommendation pipeline over places supplied in the body
func (h *RecommendationHandler) CreateRecommendations(w http.ResponseWriter, r *http.Request) {
	var body recommendRequest
	if err := decodeBody(w, r, &body); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	prefs, err := recommend.DecodePreferences(body.Preferences)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid preferences", err)
		return
	}

	places, rejectedPlaces := recommend.DecodePlaces(body.Places, h.logger)

	// An absent video list skips matching; an empty one still yields experiences
	var videos []place.Video
	var rejectedVideos []*recommend.InputShapeError
	if body.Videos != nil {
		videos, rejectedVideos = recommend.DecodeVideos(body.Videos, h.logger)
	}

	resp, err := h.service.Recommend(r.Context(), domain.Request{
		City:              body.City,
		Places:            places,
		Videos:            videos,
		Preferences:       prefs,
		MaxItineraries:    body.MaxItineraries,
		MaxVideosPerEvent: body.MaxVideosPerEvent,
		Contextualize:     body.Contextualize,
	})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to generate recommendations", err)
		return
	}

	respondWithJSON(w, http.StatusOK, recommendationResponse{
		Response: resp,
		Rejected: toRejected(rejectedPlaces, rejectedVideos),
	})
}

// GetCityRecommendations runs the recommendation pipeline over stored places for a city
func (h *RecommendationHandler) GetCityRecommendations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	city := query.Get("city")
	if city == "" {
		respondWithError(w, http.StatusBadRequest, "Missing city", nil)
		return
	}

	prefs, err := recommend.DecodePreferences([]byte(query.Get("preferences")))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid preferences", err)
		return
	}

	maxItineraries, _ := strconv.Atoi(query.Get("max_itineraries"))
	maxVideos, _ := strconv.Atoi(query.Get("max_videos"))
	contextualize, _ := strconv.ParseBool(query.Get("contextualize"))

	resp, err := h.service.RecommendForCity(r.Context(), domain.CityRequest{
		City:              city,
		Category:          query.Get("category"),
		Preferences:       prefs,
		MaxItineraries:    maxItineraries,
		MaxVideosPerEvent: maxVideos,
		Contextualize:     contextualize,
	})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to generate recommendations", err)
		return
	}

	respondWithJSON(w, http.StatusOK, recommendationResponse{Response: resp})
}

// MatchVideos matches a video pool against a single event
func (h *RecommendationHandler) MatchVideos(w http.ResponseWriter, r *http.Request) {
	var body matchRequest
	if err := decodeBody(w, r, &body); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if len(body.Event) == 0 {
		respondWithError(w, http.StatusBadRequest, "Missing event", nil)
		return
	}

	events, rejected := recommend.DecodePlaces([]json.RawMessage{body.Event}, h.logger)
	if len(events) == 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid event", rejected[0])
		return
	}

	videos, rejectedVideos := recommend.DecodeVideos(body.Videos, h.logger)

	matches := h.service.MatchVideos(r.Context(), events[0], videos, body.MaxVideos, body.Contextualize)

	respondWithJSON(w, http.StatusOK, matchResponse{
		EventID:  events[0].ID,
		Videos:   matches,
		Rejected: toRejected(rejectedVideos),
	})
}

func toRejected(groups ...[]*recommend.InputShapeError) []rejectedRecord {
	var out []rejectedRecord
	for _, group := range groups {
		for _, e := range group {
			out = append(out, rejectedRecord{
				Kind:   e.Kind,
				Index:  e.Index,
				ID:     e.ID,
				Field:  e.Field,
				Reason: e.Reason,
			})
		}
	}
	return out
}
