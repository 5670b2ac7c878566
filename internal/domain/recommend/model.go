// internal/domain/recommend/model.go

package recommend

import (
	"time"

	"localfeed/internal/domain/place"
)

// TimeSlot is a coarse time-of-day label
type TimeSlot string

const (
	SlotMorning   TimeSlot = "Morning"
	SlotAfternoon TimeSlot = "Afternoon"
	SlotEvening   TimeSlot = "Evening"
	SlotNight     TimeSlot = "Night"
	SlotAnytime   TimeSlot = "Anytime"
)

// PriceRange is the caller's preferred price band
type PriceRange string

const (
	PriceRangeFree  PriceRange = "free"
	PriceRangePaid  PriceRange = "paid"
	PriceRangeMixed PriceRange = "mixed"
)

// Center is the mean position of a cluster
type Center struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	City      string  `json:"city"`
}

// Cluster represents a request-scoped group of nearby, time-compatible places
type Cluster struct {
	Center              Center        `json:"center"`
	Places              []place.Place `json:"places"`
	Category            string        `json:"category"`
	TimeSlot            TimeSlot      `json:"timeSlot"`
	RecommendationScore float64       `json:"recommendationScore"`
}

// Itinerary is a display-ready projection of a cluster
type Itinerary struct {
	ID                string        `json:"id"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	Places            []place.Place `json:"places"`
	Category          string        `json:"category"`
	TimeSlot          TimeSlot      `json:"timeSlot"`
	EstimatedDuration int           `json:"estimatedDuration"`
	TotalCost         float64       `json:"totalCost"`
	Score             float64       `json:"recommendationScore"`
}

// UserPreferences holds caller-supplied filtering preferences
type UserPreferences struct {
	PreferredCategories []string   `json:"preferredCategories,omitempty"`
	PreferredPriceRange PriceRange `json:"preferredPriceRange,omitempty" validate:"omitempty,oneof=free paid mixed"`
	PreferredTimeSlots  []TimeSlot `json:"preferredTimeSlots,omitempty" validate:"omitempty,dive,oneof=Morning Afternoon Evening Night"`
	// MaxDistance is advisory and not applied by filtering
	MaxDistance *float64 `json:"maxDistance,omitempty" validate:"omitempty,min=0"`
}

// RecommendationMatch wraps a video matched to an event
type RecommendationMatch struct {
	place.Video
	SimilarityScore      float64 `json:"similarityScore"`
	IsRecommended        bool    `json:"isRecommended"`
	RecommendationReason string  `json:"recommendationReason"`
	IsContextual         bool    `json:"isContextual"`
}

// Experience pairs a place with its matched videos
type Experience struct {
	place.Place
	Videos []RecommendationMatch `json:"videos"`
}

// Request is the input to a single recommendation run
type Request struct {
	// City labels the response and its published event; it does not filter places
	City string

	Places []place.Place

	// Videos is the pool for video matching; a nil pool skips matching entirely
	Videos []place.Video

	Preferences       UserPreferences
	MaxItineraries    int
	MaxVideosPerEvent int

	// Contextualize rewrites matched video titles for events without native videos
	Contextualize bool
}

// CityRequest asks for recommendations over the places stored for a city
type CityRequest struct {
	City              string
	Category          string
	Preferences       UserPreferences
	MaxItineraries    int
	MaxVideosPerEvent int
	Contextualize     bool
}

// Response is the combined output of a recommendation run
type Response struct {
	ID                          string        `json:"id"`
	City                        string        `json:"city,omitempty"`
	Clusters                    []Cluster     `json:"clusters"`
	Itineraries                 []Itinerary   `json:"itineraries"`
	PersonalizedRecommendations []place.Place `json:"personalizedRecommendations"`
	Experiences                 []Experience  `json:"experiences,omitempty"`
	GeneratedAt                 time.Time     `json:"generatedAt"`
}
