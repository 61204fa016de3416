package search

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/frugal-finder/internal/app/models"
	"github.com/FACorreiaa/frugal-finder/internal/app/observability/metrics"
)

var (
	leadingFence  = regexp.MustCompile("^```[A-Za-z0-9_-]*\\s*")
	trailingFence = regexp.MustCompile("\\s*```$")
)

// stripCodeFence removes a markdown code fence the model sometimes wraps JSON in.
func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	text = leadingFence.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ResponseNormalizer validates provider payloads and converts them into Places.
// Records that cannot be placed on a map are dropped; only an unparseable or
// non-array payload is an error.
type ResponseNormalizer struct {
	logger *zap.Logger
}

func NewResponseNormalizer(logger *zap.Logger) *ResponseNormalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseNormalizer{logger: logger}
}

func (n *ResponseNormalizer) Normalize(kind models.ResponseKind, raw string, grounding []models.GroundingPlace) ([]models.Place, error) {
	switch kind {
	case models.ResponseGrounded:
		return n.normalizeGrounded(raw, grounding)
	case models.ResponseGenerated:
		return n.normalizeGenerated(raw)
	default:
		return nil, models.NewMalformedResponse(errors.Errorf("unknown response kind %q", kind))
	}
}

func (n *ResponseNormalizer) normalizeGrounded(raw string, grounding []models.GroundingPlace) ([]models.Place, error) {
	if len(grounding) == 0 {
		return []models.Place{}, nil
	}

	items, err := parseArray(raw)
	if err != nil {
		return nil, err
	}

	pairs := min(len(grounding), len(items))
	places := make([]models.Place, 0, pairs)
	for i := 0; i < pairs; i++ {
		entry := grounding[i]
		coord, ok := entry.Coordinate()
		if !ok {
			n.drop(models.ResponseGrounded, i, "grounding entry has no usable coordinate")
			continue
		}
		attrs, ok := decodeObject(items[i])
		if !ok {
			n.drop(models.ResponseGrounded, i, "attribute entry is not an object")
			continue
		}
		places = append(places, models.Place{
			Title:    orDefault(entry.Title, models.DefaultTitle),
			Summary:  orDefault(stringField(attrs, "summary"), models.DefaultSummary),
			Product:  orDefault(stringField(attrs, "product"), models.DefaultProduct),
			Price:    orDefault(stringField(attrs, "price"), models.DefaultPrice),
			Category: NormalizeCategory(stringField(attrs, "category")),
			Location: coord,
			URI:      orDefault(entry.URI, models.DefaultURI),
		})
	}

	if unpaired := len(grounding) - pairs; unpaired > 0 {
		n.logger.Debug("Grounding entries without attributes",
			zap.Int("grounding", len(grounding)),
			zap.Int("attributes", len(items)))
		n.countDrops(models.ResponseGrounded, "unpaired", unpaired)
	}

	return places, nil
}

func (n *ResponseNormalizer) normalizeGenerated(raw string) ([]models.Place, error) {
	items, err := parseArray(raw)
	if err != nil {
		return nil, err
	}

	places := make([]models.Place, 0, len(items))
	for i, item := range items {
		fields, ok := decodeObject(item)
		if !ok {
			n.drop(models.ResponseGenerated, i, "element is not an object")
			continue
		}
		coord, ok := locationField(fields)
		if !ok {
			n.drop(models.ResponseGenerated, i, "element has no usable location")
			continue
		}
		places = append(places, models.Place{
			Title:    orDefault(stringField(fields, "title"), models.DefaultTitle),
			Summary:  orDefault(stringField(fields, "summary"), models.DefaultSummary),
			Product:  orDefault(stringField(fields, "product"), models.DefaultProduct),
			Price:    orDefault(stringField(fields, "price"), models.DefaultPrice),
			Category: NormalizeCategory(stringField(fields, "category")),
			Location: coord,
			URI:      orDefault(stringField(fields, "uri"), models.DefaultURI),
		})
	}
	return places, nil
}

func (n *ResponseNormalizer) drop(kind models.ResponseKind, index int, reason string) {
	n.logger.Debug("Dropping provider record",
		zap.String("kind", string(kind)),
		zap.Int("index", index),
		zap.String("reason", reason))
	n.countDrops(kind, reason, 1)
}

func (n *ResponseNormalizer) countDrops(kind models.ResponseKind, reason string, count int) {
	metrics.Get().PlacesDroppedTotal.Add(context.Background(), int64(count),
		metric.WithAttributes(
			attribute.String("kind", string(kind)),
			attribute.String("reason", reason),
		))
}

func parseArray(raw string) ([]json.RawMessage, error) {
	cleaned := stripCodeFence(raw)

	var value json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &value); err != nil {
		return nil, models.NewMalformedResponse(errors.Wrap(err, "parse provider JSON"))
	}
	if trimmed := bytes.TrimSpace(value); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, models.NewMalformedResponse(errors.New("expected a JSON array"))
	}

	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil {
		return nil, models.NewMalformedResponse(errors.Wrap(err, "decode provider array"))
	}
	return items, nil
}

func decodeObject(raw json.RawMessage) (map[string]any, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, false
	}
	return fields, true
}

// stringField returns a non-blank string or number field, or "" when absent.
func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return ""
		}
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

func floatValue(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func locationField(fields map[string]any) (models.Coordinate, bool) {
	loc, ok := fields["location"].(map[string]any)
	if !ok {
		return models.Coordinate{}, false
	}
	lat, ok := floatValue(loc["latitude"])
	if !ok {
		return models.Coordinate{}, false
	}
	lng, ok := floatValue(loc["longitude"])
	if !ok {
		return models.Coordinate{}, false
	}
	coord := models.Coordinate{Latitude: lat, Longitude: lng}
	return coord, coord.Valid()
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
