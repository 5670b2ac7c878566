// internal/metrics/metrics.go

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localfeed_recommendation_requests_total",
			Help: "Total number of recommendation runs",
		},
		[]string{"source", "outcome"}, // source: request, city
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "localfeed_recommendation_duration_seconds",
			Help:    "Duration of recommendation runs in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"source"},
	)

	ClustersProduced = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "localfeed_clusters_per_run",
			Help:    "Number of clusters produced per recommendation run",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		},
	)

	VideoMatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localfeed_video_matches_total",
			Help: "Total number of videos matched to events",
		},
		[]string{"contextual"},
	)

	// Input Metrics
	DroppedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localfeed_dropped_records_total",
			Help: "Total number of input records dropped for shape errors",
		},
		[]string{"kind"}, // place, video
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localfeed_events_published_total",
			Help: "Total number of recommendation events published",
		},
		[]string{"status"},
	)

	// WebSocket Metrics
	WSConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "localfeed_websocket_connections_active",
			Help: "Number of open recommendation feed websocket connections",
		},
	)
)

// RecordRecommendation records the outcome and duration of a recommendation run
func RecordRecommendation(source string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	RecommendationRequests.WithLabelValues(source, outcome).Inc()
	RecommendationDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordClusters records the number of clusters produced by a run
func RecordClusters(n int) {
	ClustersProduced.Observe(float64(n))
}

// RecordVideoMatches records matched videos
func RecordVideoMatches(n int, contextual bool) {
	VideoMatches.WithLabelValues(strconv.FormatBool(contextual)).Add(float64(n))
}

// RecordDroppedRecord records an input record rejected for its shape
func RecordDroppedRecord(kind string) {
	DroppedRecords.WithLabelValues(kind).Inc()
}

// RecordEventPublished records the result of publishing an event
func RecordEventPublished(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	EventsPublished.WithLabelValues(status).Inc()
}
