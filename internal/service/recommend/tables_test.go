// internal/service/recommend/tables_test.go

package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localfeed/internal/domain/place"
)

func TestDefaultTables(t *testing.T) {
	tables := DefaultTables()

	assert.Equal(t, "indoor", tables.ActivityTypes.Default)
	assert.True(t, tables.IsStopWord("the"))
	assert.False(t, tables.IsStopWord("tacos"))

	for hour := 0; hour < 24; hour++ {
		_, ok := tables.TimeOfDayForHour(hour)
		assert.True(t, ok, "hour %d has no time of day", hour)
	}

	tod, ok := tables.TimeOfDayForHour(6)
	require.True(t, ok)
	assert.Equal(t, "morning", tod.Name)

	tod, _ = tables.TimeOfDayForHour(23)
	assert.Equal(t, "evening", tod.Name)

	assert.Equal(t, tables.Template("indoor"), tables.Template("unknown"))
}

func TestParseTablesRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"malformed yaml": "stop_words: [",
		"missing default": `
activity_types:
  types: []
`,
		"missing template": `
activity_types:
  default: indoor
  types:
    - name: outdoor
context_templates:
  indoor:
    title: "{title}"
`,
		"bad hour range": `
activity_types:
  default: indoor
time_of_day:
  - name: late
    start: 20
    end: 30
context_templates:
  indoor:
    title: "{title}"
`,
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTables([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseTablesCustom(t *testing.T) {
	doc := `
stop_words: [Tour]
activity_types:
  default: general
  types:
    - name: market
      categories: [shopping]
      keywords: [market, vintage]
context_templates:
  general:
    title: "{title} clip {n}"
  market:
    title: "{title} haul {n}"
`
	tables, err := ParseTables([]byte(doc))
	require.NoError(t, err)
	assert.True(t, tables.IsStopWord("tour"))

	m := NewMatcher(DefaultConfig(), tables)
	assert.Equal(t, []string{"city", "walk"}, m.ExtractKeywords("City tour walk"))
	assert.Equal(t, "market", m.VideoType(place.Video{Title: "Vintage finds"}))
}
