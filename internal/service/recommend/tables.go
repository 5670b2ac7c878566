// internal/service/recommend/tables.go

package recommend

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTablesYAML []byte

// ActivityType describes one activity classification and its lookup keywords
type ActivityType struct {
	Name       string   `yaml:"name"`
	Categories []string `yaml:"categories"`
	Keywords   []string `yaml:"keywords"`
}

// TimeOfDay describes an hour range and the words that signal it in text
type TimeOfDay struct {
	Name     string   `yaml:"name"`
	Start    int      `yaml:"start"`
	End      int      `yaml:"end"`
	Keywords []string `yaml:"keywords"`
}

// ContextTemplate is the title and description pattern for contextual videos
type ContextTemplate struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Tables holds the data tables used for keyword extraction and classification
type Tables struct {
	StopWords     []string `yaml:"stop_words"`
	ActivityTypes struct {
		Default string         `yaml:"default"`
		Types   []ActivityType `yaml:"types"`
	} `yaml:"activity_types"`
	TimeOfDay        []TimeOfDay                `yaml:"time_of_day"`
	ContextTemplates map[string]ContextTemplate `yaml:"context_templates"`

	stopWords map[string]bool
}

// ParseTables decodes and validates a YAML table document
func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("error parsing tables: %w", err)
	}

	if t.ActivityTypes.Default == "" {
		return nil, fmt.Errorf("activity types must declare a default")
	}
	if _, ok := t.ContextTemplates[t.ActivityTypes.Default]; !ok {
		return nil, fmt.Errorf("missing context template for default activity type %q", t.ActivityTypes.Default)
	}
	for _, at := range t.ActivityTypes.Types {
		if _, ok := t.ContextTemplates[at.Name]; !ok {
			return nil, fmt.Errorf("missing context template for activity type %q", at.Name)
		}
	}
	for _, tod := range t.TimeOfDay {
		if tod.Start < 0 || tod.End > 24 || tod.Start >= tod.End {
			return nil, fmt.Errorf("invalid hour range for time of day %q", tod.Name)
		}
	}

	t.stopWords = make(map[string]bool, len(t.StopWords))
	for _, w := range t.StopWords {
		t.stopWords[strings.ToLower(w)] = true
	}

	return &t, nil
}

// DefaultTables returns the embedded lookup tables
func DefaultTables() *Tables {
	t, err := ParseTables(defaultTablesYAML)
	if err != nil {
		panic(err)
	}
	return t
}

// IsStopWord reports whether a word is ignored during keyword extraction
func (t *Tables) IsStopWord(word string) bool {
	return t.stopWords[word]
}

// TimeOfDayForHour returns the time of day bucket containing the hour
func (t *Tables) TimeOfDayForHour(hour int) (TimeOfDay, bool) {
	for _, tod := range t.TimeOfDay {
		if hour >= tod.Start && hour < tod.End {
			return tod, true
		}
	}
	return TimeOfDay{}, false
}

// Template returns the context template for an activity type
func (t *Tables) Template(activityType string) ContextTemplate {
	if tmpl, ok := t.ContextTemplates[activityType]; ok {
		return tmpl
	}
	return t.ContextTemplates[t.ActivityTypes.Default]
}
