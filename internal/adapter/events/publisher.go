// internal/adapter/events/publisher.go

package events

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"

	domain "localfeed/internal/domain/recommend"
)

// DefaultTopic is the subject prefix for recommendation events
const DefaultTopic = "recommendations"

// EventGenerated is the event type carried by published recommendation summaries
const EventGenerated = "recommendations.generated"

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Conn is the subset of *nats.Conn used to publish events
type Conn interface {
	Publish(subj string, data []byte) error
}

// GeneratedEvent summarizes a generated recommendation response
type GeneratedEvent struct {
	Type         string    `json:"type"`
	ID           string    `json:"id"`
	City         string    `json:"city"`
	Clusters     int       `json:"clusters"`
	Itineraries  []Summary `json:"itineraries"`
	Personalized int       `json:"personalized"`
	Experiences  int       `json:"experiences"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

// Summary is the compact form of an itinerary carried in events
type Summary struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	TimeSlot string  `json:"timeSlot"`
	Places   int     `json:"places"`
	Score    float64 `json:"recommendationScore"`
}

// Publisher publishes recommendation events to NATS
type Publisher struct {
	conn  Conn
	topic string
}

// NewPublisher creates a new event publisher
func NewPublisher(conn Conn, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}

	return &Publisher{
		conn:  conn,
		topic: topic,
	}
}

// PublishGenerated publishes a summary of a generated response on the city subject
func (p *Publisher) PublishGenerated(ctx context.Context, resp *domain.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	event := GeneratedEvent{
		Type:         EventGenerated,
		ID:           resp.ID,
		City:         resp.City,
		Clusters:     len(resp.Clusters),
		Itineraries:  make([]Summary, 0, len(resp.Itineraries)),
		Personalized: len(resp.PersonalizedRecommendations),
		Experiences:  len(resp.Experiences),
		GeneratedAt:  resp.GeneratedAt,
	}
	for _, it := range resp.Itineraries {
		event.Itineraries = append(event.Itineraries, Summary{
			ID:       it.ID,
			Title:    it.Title,
			TimeSlot: string(it.TimeSlot),
			Places:   len(it.Places),
			Score:    it.Score,
		})
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshaling event: %w", err)
	}

	if err := p.conn.Publish(Subject(p.topic, resp.City), data); err != nil {
		return fmt.Errorf("error publishing event: %w", err)
	}

	return nil
}

// Subject returns the NATS subject for a city's recommendation events
func Subject(topic, city string) string {
	return fmt.Sprintf("%s.%s", topic, CitySlug(city))
}

// CitySlug converts a city name into a single subject token
func CitySlug(city string) string {
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(city), "-"), "-")
	if slug == "" {
		return "all"
	}
	return slug
}
