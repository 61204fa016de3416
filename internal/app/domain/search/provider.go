package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/FACorreiaa/frugal-finder/internal/app/models"
	"github.com/FACorreiaa/frugal-finder/internal/app/observability/metrics"
)

// Provider performs the single generative AI call behind a search.
type Provider interface {
	Generate(ctx context.Context, req models.SearchRequest) (models.RawProviderResponse, error)
}

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// GeminiProvider calls Gemini through google.golang.org/genai.
type GeminiProvider struct {
	generate generateFunc
	logger   *zap.Logger
}

func NewGeminiProvider(ctx context.Context, apiKey string, logger *zap.Logger) (*GeminiProvider, error) {
	return newGeminiClientProvider(ctx, apiKey, http.DefaultTransport, logger)
}

func newGeminiClientProvider(ctx context.Context, apiKey string, transport http.RoundTripper, logger *zap.Logger) (*GeminiProvider, error) {
	ctx, span := otel.Tracer("GeminiProvider").Start(ctx, "NewGeminiProvider")
	defer span.End()

	if apiKey == "" {
		err := fmt.Errorf("GEMINI_API_KEY is not set")
		span.RecordError(err)
		span.SetStatus(codes.Error, "API key not set")
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: newCapturingClient(transport),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, errors.Wrap(err, "create Gemini client")
	}

	span.SetStatus(codes.Ok, "Gemini client created")
	return newGeminiProvider(func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return client.Models.GenerateContent(ctx, model, contents, config)
	}, logger), nil
}

func newGeminiProvider(generate generateFunc, logger *zap.Logger) *GeminiProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiProvider{generate: generate, logger: logger}
}

func (p *GeminiProvider) Generate(ctx context.Context, req models.SearchRequest) (models.RawProviderResponse, error) {
	ctx, span := otel.Tracer("GeminiProvider").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("model", req.Model),
		attribute.String("response.kind", string(req.Kind)),
		attribute.Int("prompt.length", len(req.Prompt)),
	))
	defer span.End()

	l := p.logger.With(zap.String("method", "Generate"), zap.String("kind", string(req.Kind)))

	sink := &responseSink{}
	start := time.Now()
	resp, err := p.generate(withResponseSink(ctx, sink), req.Model, genai.Text(req.Prompt), generationConfig(req))
	metrics.Get().ProviderCallDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(
			attribute.String("kind", string(req.Kind)),
			attribute.Bool("error", err != nil),
		))
	if err != nil {
		l.Error("Gemini call failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		return models.RawProviderResponse{}, errors.Wrap(err, "generate content")
	}
	if resp == nil {
		err := errors.New("empty response from Gemini")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty response")
		return models.RawProviderResponse{}, err
	}

	raw := models.RawProviderResponse{Text: resp.Text()}
	if req.Kind == models.ResponseGrounded {
		raw.Grounding, err = groundingPlaces(resp, sink.bytes())
		if err != nil {
			l.Warn("Could not read grounding metadata", zap.Error(err))
		}
	}

	l.Debug("Gemini call completed",
		zap.Int("response_length", len(raw.Text)),
		zap.Int("grounding_places", len(raw.Grounding)),
		zap.Duration("latency", time.Since(start)))
	span.SetAttributes(
		attribute.Int("response.length", len(raw.Text)),
		attribute.Int("grounding.count", len(raw.Grounding)),
	)
	span.SetStatus(codes.Ok, "Content generated")
	return raw, nil
}

// generationConfig selects tools or response format from the request kind.
func generationConfig(req models.SearchRequest) *genai.GenerateContentConfig {
	if req.Kind == models.ResponseGrounded {
		c := req.Location.Coordinate
		return &genai.GenerateContentConfig{
			Tools: []*genai.Tool{{GoogleMaps: &genai.GoogleMaps{}}},
			ToolConfig: &genai.ToolConfig{
				RetrievalConfig: &genai.RetrievalConfig{
					LatLng: &genai.LatLng{
						Latitude:  genai.Ptr(c.Latitude),
						Longitude: genai.Ptr(c.Longitude),
					},
				},
			},
		}
	}
	return &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
}

type groundingChunk struct {
	Maps *models.GroundingPlace `json:"maps,omitempty"`
}

type wireResponse struct {
	Candidates []struct {
		GroundingMetadata *struct {
			GroundingChunks []groundingChunk `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

// groundingPlaces returns one entry per grounding chunk of the first candidate.
// Chunks without map data keep their slot so positional pairing still lines up.
// Coordinates come from the raw response body; the typed response only fills
// in a missing title or uri.
func groundingPlaces(resp *genai.GenerateContentResponse, body []byte) ([]models.GroundingPlace, error) {
	var typed []*genai.GroundingChunk
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil && resp.Candidates[0].GroundingMetadata != nil {
		typed = resp.Candidates[0].GroundingMetadata.GroundingChunks
	}

	var wire []groundingChunk
	var decodeErr error
	if len(body) > 0 {
		var payload wireResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			decodeErr = errors.Wrap(err, "decode grounding chunks")
		} else if len(payload.Candidates) > 0 && payload.Candidates[0].GroundingMetadata != nil {
			wire = payload.Candidates[0].GroundingMetadata.GroundingChunks
		}
	}

	n := max(len(wire), len(typed))
	if n == 0 {
		return nil, decodeErr
	}

	places := make([]models.GroundingPlace, n)
	for i := range places {
		if i < len(wire) && wire[i].Maps != nil {
			places[i] = *wire[i].Maps
		}
		if i < len(typed) && typed[i] != nil && typed[i].Maps != nil {
			if places[i].Title == "" {
				places[i].Title = typed[i].Maps.Title
			}
			if places[i].URI == "" {
				places[i].URI = typed[i].Maps.URI
			}
		}
	}
	return places, decodeErr
}
