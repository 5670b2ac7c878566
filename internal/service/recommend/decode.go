// internal/service/recommend/decode.go

package recommend

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"localfeed/internal/domain/place"
	domain "localfeed/internal/domain/recommend"
	"localfeed/internal/metrics"
)

// Record kinds reported by InputShapeError
const (
	KindPlace = "place"
	KindVideo = "video"
)

// InputShapeError describes a single input record rejected because of its shape
type InputShapeError struct {
	Kind   string
	Index  int
	ID     string
	Field  string
	Reason string
}

// Error implements the error interface
func (e *InputShapeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s[%d]: field %s: %s", e.Kind, e.Index, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s[%d]: %s", e.Kind, e.Index, e.Reason)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// DecodePlaces decodes raw place records, dropping and logging any that are malformed
func DecodePlaces(raw []json.RawMessage, logger zerolog.Logger) ([]place.Place, []*InputShapeError) {
	places := make([]place.Place, 0, len(raw))
	var rejected []*InputShapeError

	for i, data := range raw {
		var p place.Place
		if err := json.Unmarshal(data, &p); err != nil {
			rejected = append(rejected, drop(logger, &InputShapeError{Kind: KindPlace, Index: i, Reason: err.Error()}))
			continue
		}

		p.ID = strings.TrimSpace(p.ID)
		if shapeErr := checkShape(KindPlace, i, p.ID, p); shapeErr != nil {
			rejected = append(rejected, drop(logger, shapeErr))
			continue
		}

		places = append(places, NormalizePlace(p))
	}

	return places, rejected
}

// DecodeVideos decodes raw video records, dropping and logging any that are malformed
func DecodeVideos(raw []json.RawMessage, logger zerolog.Logger) ([]place.Video, []*InputShapeError) {
	videos := make([]place.Video, 0, len(raw))
	var rejected []*InputShapeError

	for i, data := range raw {
		var v place.Video
		if err := json.Unmarshal(data, &v); err != nil {
			rejected = append(rejected, drop(logger, &InputShapeError{Kind: KindVideo, Index: i, Reason: err.Error()}))
			continue
		}

		v.ID = strings.TrimSpace(v.ID)
		if shapeErr := checkShape(KindVideo, i, v.ID, v); shapeErr != nil {
			rejected = append(rejected, drop(logger, shapeErr))
			continue
		}

		v.Tags = normalizeTags(v.Tags)
		videos = append(videos, v)
	}

	return videos, rejected
}

// DecodePreferences decodes a raw preferences document. Empty input yields no preferences.
func DecodePreferences(data []byte) (domain.UserPreferences, error) {
	var prefs domain.UserPreferences
	if len(strings.TrimSpace(string(data))) == 0 {
		return prefs, nil
	}

	if err := json.Unmarshal(data, &prefs); err != nil {
		return domain.UserPreferences{}, fmt.Errorf("invalid preferences: %w", err)
	}
	if err := getValidator().Struct(prefs); err != nil {
		return domain.UserPreferences{}, fmt.Errorf("invalid preferences: %w", err)
	}

	return prefs, nil
}

// SanitizePlaces applies the decode-time shape checks and normalization to places
// built in process, dropping and logging any that are malformed
func SanitizePlaces(places []place.Place, logger zerolog.Logger) ([]place.Place, []*InputShapeError) {
	out := make([]place.Place, 0, len(places))
	var rejected []*InputShapeError

	for i, p := range places {
		p.ID = strings.TrimSpace(p.ID)
		if shapeErr := checkShape(KindPlace, i, p.ID, p); shapeErr != nil {
			rejected = append(rejected, drop(logger, shapeErr))
			continue
		}
		out = append(out, NormalizePlace(p))
	}

	return out, rejected
}

// NormalizePlace lowercases tags and derives the price type from the price
func NormalizePlace(p place.Place) place.Place {
	p.Tags = normalizeTags(p.Tags)
	p.Type = place.TypeForPrice(p.Price)
	return p
}

// checkShape validates a decoded record against its struct tags
func checkShape(kind string, index int, id string, record interface{}) *InputShapeError {
	err := getValidator().Struct(record)
	if err == nil {
		return nil
	}

	shapeErr := &InputShapeError{Kind: kind, Index: index, ID: id, Reason: err.Error()}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		shapeErr.Field = fe.Field()
		shapeErr.Reason = describeTag(fe)
	}

	return shapeErr
}

// describeTag converts a validation failure into a short reason
func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func drop(logger zerolog.Logger, e *InputShapeError) *InputShapeError {
	metrics.RecordDroppedRecord(e.Kind)
	logger.Warn().
		Str("record_kind", e.Kind).
		Int("index", e.Index).
		Str("id", e.ID).
		Str("field", e.Field).
		Str("reason", e.Reason).
		Msg("dropping malformed record")
	return e
}

// normalizeTags lowercases, trims and de-duplicates tags, preserving first occurrence order
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return tags
	}

	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
