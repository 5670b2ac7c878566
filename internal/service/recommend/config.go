// internal/service/recommend/config.go

package recommend

import (
	"fmt"
	"time"
)

// Default tuning constants for clustering and video matching
const (
	DefaultProximityThresholdKm = 2.0
	DefaultTimeWindow           = 24 * time.Hour
	DefaultRelevanceThreshold   = 20.0
	DefaultMaxKeywords          = 10
	DefaultMinKeywordLength     = 3
	DefaultMaxItineraries       = 5
	DefaultMaxVideosPerEvent    = 3

	// durationPerPlace is the number of hours an itinerary budgets per stop
	durationPerPlace = 2
	// priceDiversityBonus rewards pairing free and paid places
	priceDiversityBonus = 0.5
)

// Weights are the additive contributions of each video similarity signal
type Weights struct {
	Category     float64
	TagOverlap   float64
	City         float64
	Keyword      float64
	ActivityType float64
	TimeOfDay    float64
}

// DefaultWeights returns the standard video similarity weights
func DefaultWeights() Weights {
	return Weights{
		Category:     40,
		TagOverlap:   15,
		City:         25,
		Keyword:      10,
		ActivityType: 20,
		TimeOfDay:    10,
	}
}

// Config contains configuration for the recommendation core
type Config struct {
	ProximityThresholdKm float64
	TimeWindow           time.Duration
	RelevanceThreshold   float64
	MaxKeywords          int
	MinKeywordLength     int
	MaxItineraries       int
	MaxVideosPerEvent    int
	Weights              Weights
}

// DefaultConfig returns the default recommendation configuration
func DefaultConfig() Config {
	return Config{
		ProximityThresholdKm: DefaultProximityThresholdKm,
		TimeWindow:           DefaultTimeWindow,
		RelevanceThreshold:   DefaultRelevanceThreshold,
		MaxKeywords:          DefaultMaxKeywords,
		MinKeywordLength:     DefaultMinKeywordLength,
		MaxItineraries:       DefaultMaxItineraries,
		MaxVideosPerEvent:    DefaultMaxVideosPerEvent,
		Weights:              DefaultWeights(),
	}
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if c.ProximityThresholdKm <= 0 {
		return fmt.Errorf("proximity threshold must be positive, got %v", c.ProximityThresholdKm)
	}
	if c.TimeWindow < 0 {
		return fmt.Errorf("time window must not be negative, got %v", c.TimeWindow)
	}
	if c.MaxKeywords <= 0 {
		return fmt.Errorf("max keywords must be positive, got %d", c.MaxKeywords)
	}
	if c.MaxItineraries < 0 || c.MaxVideosPerEvent < 0 {
		return fmt.Errorf("result limits must not be negative")
	}
	return nil
}
