// internal/service/recommend/clusterer.go

package recommend

import (
	"math"
	"sort"
	"time"

	"localfeed/internal/domain/place"
	domain "localfeed/internal/domain/recommend"
	"localfeed/internal/service/geo"
)

// PairScore holds the individual contributions of a place pair to a cluster score
type PairScore struct {
	Distance       float64
	Category       float64
	Temporal       float64
	PriceDiversity float64
}

// Total returns the sum of all pair contributions
func (s PairScore) Total() float64 {
	return s.Distance + s.Category + s.Temporal + s.PriceDiversity
}

// Clusterer groups places into proximity and time coherent clusters
type Clusterer struct {
	proximityKm float64
	window      time.Duration
}

// NewClusterer creates a new clusterer from the recommendation config
func NewClusterer(cfg Config) *Clusterer {
	return &Clusterer{
		proximityKm: cfg.ProximityThresholdKm,
		window:      cfg.TimeWindow,
	}
}

// Cluster groups places greedily in input order and returns clusters sorted by score.
// The input slice is not modified.
func (c *Clusterer) Cluster(places []place.Place) []domain.Cluster {
	if len(places) == 0 {
		return []domain.Cluster{}
	}

	assigned := make([]bool, len(places))
	clusters := make([]domain.Cluster, 0)

	for i, seed := range places {
		if assigned[i] {
			continue
		}

		// Start a new cluster with this place
		members := []place.Place{seed}
		assigned[i] = true

		// Find nearby places to add to this cluster
		for j := i + 1; j < len(places); j++ {
			if assigned[j] {
				continue
			}

			if c.canJoin(seed, places[j]) {
				members = append(members, places[j])
				assigned[j] = true
			}
		}

		// A lone place is not a cluster
		if len(members) < 2 {
			continue
		}

		clusters = append(clusters, c.buildCluster(members))
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].RecommendationScore > clusters[j].RecommendationScore
	})

	return clusters
}

// canJoin determines if a candidate may join the cluster seeded by seed
func (c *Clusterer) canJoin(seed, candidate place.Place) bool {
	if !seed.HasCoordinates() || !candidate.HasCoordinates() {
		return false
	}

	center := geo.Point{Latitude: *seed.Latitude, Longitude: *seed.Longitude}
	point := geo.Point{Latitude: *candidate.Latitude, Longitude: *candidate.Longitude}
	if !geo.IsWithinBounds(point, center, c.proximityKm) {
		return false
	}

	return TemporallyCompatible(seed, candidate, c.window)
}

// buildCluster computes the aggregate fields of a cluster from its members
func (c *Clusterer) buildCluster(members []place.Place) domain.Cluster {
	points := make([]geo.Point, 0, len(members))
	city := ""
	for _, p := range members {
		if p.HasCoordinates() {
			points = append(points, geo.Point{Latitude: *p.Latitude, Longitude: *p.Longitude})
		}
		if city == "" {
			city = p.City
		}
	}
	center := geo.Centroid(points)

	return domain.Cluster{
		Center: domain.Center{
			Latitude:  center.Latitude,
			Longitude: center.Longitude,
			City:      city,
		},
		Places:              members,
		Category:            DominantCategory(members),
		TimeSlot:            clusterTimeSlot(members),
		RecommendationScore: c.Score(members),
	}
}

// ScorePair computes the four score contributions of a pair of places
func (c *Clusterer) ScorePair(p, q place.Place) PairScore {
	var s PairScore

	if p.HasCoordinates() && q.HasCoordinates() {
		distance := geo.DistanceKm(*p.Latitude, *p.Longitude, *q.Latitude, *q.Longitude)
		s.Distance = math.Max(0, 1-distance/c.proximityKm)
	}

	s.Category = CategorySimilarity(p, q)

	if TemporallyCompatible(p, q, c.window) {
		s.Temporal = 1.0
	}

	if p.Type != q.Type {
		s.PriceDiversity = priceDiversityBonus
	}

	return s
}

// Score computes the mean pairwise recommendation score of a set of places
func (c *Clusterer) Score(members []place.Place) float64 {
	if len(members) < 2 {
		return 0
	}

	var total float64
	pairs := 0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			total += c.ScorePair(members[i], members[j]).Total()
			pairs++
		}
	}

	return total / float64(pairs)
}

// DominantCategory returns the most frequent category, ties going to the first encountered
func DominantCategory(members []place.Place) string {
	counts := make(map[string]int)
	dominant := ""
	best := 0

	for _, p := range members {
		counts[p.Category]++
	}
	for _, p := range members {
		if counts[p.Category] > best {
			dominant = p.Category
			best = counts[p.Category]
		}
	}

	return dominant
}

// clusterTimeSlot derives the time slot from the mean start time of the members
func clusterTimeSlot(members []place.Place) domain.TimeSlot {
	var sum int64
	var loc *time.Location
	n := 0

	for _, p := range members {
		if p.StartTime == nil {
			continue
		}
		if loc == nil {
			loc = p.StartTime.Location()
		}
		sum += p.StartTime.Unix()
		n++
	}

	if n == 0 {
		return domain.SlotAnytime
	}

	mean := time.Unix(sum/int64(n), 0).In(loc)
	return TimeSlotForHour(mean.Hour())
}
