// internal/service/recommend/matcher.go

package recommend

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"localfeed/internal/domain/place"
	domain "localfeed/internal/domain/recommend"
)

var (
	nonWordPattern = regexp.MustCompile(`[^\w\s]`)
	tokenSeparator = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// Matcher scores short videos against events by content similarity
type Matcher struct {
	weights          Weights
	threshold        float64
	maxKeywords      int
	minKeywordLength int
	tables           *Tables
}

// NewMatcher creates a new video matcher
func NewMatcher(cfg Config, tables *Tables) *Matcher {
	if tables == nil {
		tables = DefaultTables()
	}

	return &Matcher{
		weights:          cfg.Weights,
		threshold:        cfg.RelevanceThreshold,
		maxKeywords:      cfg.MaxKeywords,
		minKeywordLength: cfg.MinKeywordLength,
		tables:           tables,
	}
}

// eventProfile caches the event side of the similarity signals
type eventProfile struct {
	category  string
	city      string
	tags      map[string]bool
	keywords  []string
	eventType string
	timeOfDay *TimeOfDay
}

// signals holds the raw similarity signals between an event and a video
type signals struct {
	categoryMatch  bool
	tagOverlap     int
	cityMatch      bool
	sharedKeywords []string
	sameType       bool
	timeMatch      bool
}

type scoredVideo struct {
	index   int
	video   place.Video
	score   float64
	signals signals
}

func (m *Matcher) profile(event place.Place) eventProfile {
	p := eventProfile{
		category:  strings.ToLower(event.Category),
		city:      strings.ToLower(strings.TrimSpace(event.City)),
		tags:      lowerSet(event.Tags),
		keywords:  m.ExtractKeywords(event.Title + " " + event.Description),
		eventType: m.EventType(event),
	}

	if event.StartTime != nil {
		if tod, ok := m.tables.TimeOfDayForHour(event.StartTime.Hour()); ok {
			p.timeOfDay = &tod
		}
	}

	return p
}

func (m *Matcher) signals(p eventProfile, video place.Video) signals {
	var s signals

	videoTags := lowerSet(video.Tags)
	s.categoryMatch = p.category != "" && videoTags[p.category]

	for tag := range p.tags {
		if videoTags[tag] {
			s.tagOverlap++
		}
	}

	s.cityMatch = p.city != "" && strings.Contains(strings.ToLower(video.Location), p.city)

	videoKeywords := toSet(m.ExtractKeywords(video.Title + " " + video.Description))
	for _, kw := range p.keywords {
		if videoKeywords[kw] {
			s.sharedKeywords = append(s.sharedKeywords, kw)
		}
	}

	s.sameType = p.eventType == m.VideoType(video)

	if p.timeOfDay != nil {
		text := wordText(video.Title, video.Description)
		if containsKeyword(text, p.timeOfDay.Name) {
			s.timeMatch = true
		} else {
			for _, kw := range p.timeOfDay.Keywords {
				if containsKeyword(text, kw) {
					s.timeMatch = true
					break
				}
			}
		}
	}

	return s
}

func (m *Matcher) scoreSignals(s signals) float64 {
	var score float64
	if s.categoryMatch {
		score += m.weights.Category
	}
	score += m.weights.TagOverlap * float64(s.tagOverlap)
	if s.cityMatch {
		score += m.weights.City
	}
	score += m.weights.Keyword * float64(len(s.sharedKeywords))
	if s.sameType {
		score += m.weights.ActivityType
	}
	if s.timeMatch {
		score += m.weights.TimeOfDay
	}
	return score
}

// Score computes the additive similarity score between an event and a video
func (m *Matcher) Score(event place.Place, video place.Video) float64 {
	return m.scoreSignals(m.signals(m.profile(event), video))
}

// FindMatches selects up to maxVideos videos for an event.
// Videos scoring above the relevance threshold come first; remaining slots are
// filled with same-activity videos and then by popularity.
func (m *Matcher) FindMatches(event place.Place, videos []place.Video, maxVideos int) []domain.RecommendationMatch {
	if maxVideos <= 0 || len(videos) == 0 {
		return []domain.RecommendationMatch{}
	}

	p := m.profile(event)

	scored := make([]scoredVideo, len(videos))
	for i, v := range videos {
		s := m.signals(p, v)
		scored[i] = scoredVideo{index: i, video: v, score: m.scoreSignals(s), signals: s}
	}

	ranked := make([]scoredVideo, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	selected := make([]scoredVideo, 0, maxVideos)
	taken := make(map[int]bool, maxVideos)

	for _, sv := range ranked {
		if len(selected) >= maxVideos || sv.score <= m.threshold {
			break
		}
		taken[sv.index] = true
		selected = append(selected, sv)
	}

	// Fallback: same activity type in pool order
	if len(selected) < maxVideos {
		for i, sv := range scored {
			if len(selected) >= maxVideos {
				break
			}
			if !taken[i] && sv.signals.sameType {
				taken[i] = true
				selected = append(selected, sv)
			}
		}
	}

	// Fallback: most viewed
	if len(selected) < maxVideos {
		order := make([]int, 0, len(scored))
		for i := range scored {
			if !taken[i] {
				order = append(order, i)
			}
		}
		sort.SliceStable(order, func(a, b int) bool {
			return scored[order[a]].video.ViewCount > scored[order[b]].video.ViewCount
		})
		for _, i := range order {
			if len(selected) >= maxVideos {
				break
			}
			taken[i] = true
			selected = append(selected, scored[i])
		}
	}

	matches := make([]domain.RecommendationMatch, 0, len(selected))
	for _, sv := range selected {
		matches = append(matches, domain.RecommendationMatch{
			Video:                sv.video,
			SimilarityScore:      sv.score,
			IsRecommended:        true,
			RecommendationReason: m.reason(event, p, sv.signals),
		})
	}

	return matches
}

// reason picks the human readable explanation for a match by signal priority
func (m *Matcher) reason(event place.Place, p eventProfile, s signals) string {
	switch {
	case s.sameType:
		return "Similar " + p.eventType + " experience"
	case s.categoryMatch:
		return "Matches " + event.Category + " category"
	case s.cityMatch:
		return "From the same area"
	case len(s.sharedKeywords) > 0:
		top := s.sharedKeywords
		if len(top) > 2 {
			top = top[:2]
		}
		return "Similar keywords: " + strings.Join(top, ", ")
	default:
		return "Popular related content"
	}
}

// Contextualize rewrites match titles and descriptions to reference the event.
// The returned matches are copies; the input slice and its videos are left untouched.
func (m *Matcher) Contextualize(event place.Place, matches []domain.RecommendationMatch) []domain.RecommendationMatch {
	tmpl := m.tables.Template(m.EventType(event))

	out := make([]domain.RecommendationMatch, len(matches))
	for i, match := range matches {
		r := strings.NewReplacer("{title}", event.Title, "{n}", strconv.Itoa(i+1))
		match.Title = r.Replace(tmpl.Title)
		match.Description = r.Replace(tmpl.Description)
		match.IsContextual = true
		out[i] = match
	}

	return out
}

// EventType classifies an event into an activity type.
// The category is checked first, then tags, title and description.
func (m *Matcher) EventType(event place.Place) string {
	category := strings.ToLower(strings.TrimSpace(event.Category))
	if category != "" {
		for _, at := range m.tables.ActivityTypes.Types {
			for _, c := range at.Categories {
				if c == category {
					return at.Name
				}
			}
		}
	}

	return m.classifyText(event.Tags, event.Title, event.Description)
}

// VideoType classifies a video into an activity type from its tags and text
func (m *Matcher) VideoType(video place.Video) string {
	return m.classifyText(video.Tags, video.Title, video.Description)
}

func (m *Matcher) classifyText(tags []string, title, description string) string {
	text := wordText(append(append([]string{}, tags...), title, description)...)

	for _, at := range m.tables.ActivityTypes.Types {
		for _, kw := range at.Keywords {
			if containsKeyword(text, kw) {
				return at.Name
			}
		}
	}

	return m.tables.ActivityTypes.Default
}

// wordText lowercases parts into space-separated words with a space at each end,
// so keywords only match whole words
func wordText(parts ...string) string {
	words := tokenSeparator.Split(strings.ToLower(strings.Join(parts, " ")), -1)
	return " " + strings.Join(strings.Fields(strings.Join(words, " ")), " ") + " "
}

// containsKeyword reports whether a word or multi-word phrase appears in text built by wordText
func containsKeyword(text, keyword string) bool {
	keyword = strings.Join(strings.Fields(strings.ToLower(keyword)), " ")
	if keyword == "" {
		return false
	}
	return strings.Contains(text, " "+keyword+" ")
}

// ExtractKeywords returns up to the configured number of distinct, meaningful words from text
func (m *Matcher) ExtractKeywords(text string) []string {
	cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(text), "")

	seen := make(map[string]bool)
	keywords := make([]string, 0, m.maxKeywords)
	for _, word := range strings.Fields(cleaned) {
		if len(keywords) >= m.maxKeywords {
			break
		}
		if len(word) < m.minKeywordLength || m.tables.IsStopWord(word) || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
	}

	return keywords
}

// lowerSet builds a lowercase lookup set from a string slice
func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = true
	}
	return set
}
